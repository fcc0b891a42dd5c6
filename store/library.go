package store

import (
	"fmt"
	"os"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/gruntwork-io/go-commons/files"
	"github.com/robmorgan/riffduel/logger"
	"github.com/robmorgan/riffduel/phrase"
	"gopkg.in/yaml.v3"
)

type libraryFile struct {
	Licks []lickEntry `yaml:"licks"`
}

type lickEntry struct {
	Name       string        `yaml:"name"`
	BPM        int           `yaml:"bpm,omitempty"`
	Mode       string        `yaml:"mode,omitempty"`
	Difficulty int           `yaml:"difficulty,omitempty"`
	Notes      []phrase.Note `yaml:"notes"`
}

// LoadLibrary seeds a store with the licks listed in a YAML file. Note subdivisions are snapped
// onto the grid of each lick's timing mode. A missing file loads nothing.
func LoadLibrary(path string, s Store) (int, error) {
	logger := logger.GetProjectLogger()

	if path == "" || !files.FileExists(path) {
		logger.Debugf("No lick library at %q", path)
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.WithStackTrace(err)
	}

	var lib libraryFile
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return 0, errors.WithStackTrace(fmt.Errorf("parsing %s: %w", path, err))
	}

	loaded := 0
	for _, entry := range lib.Licks {
		mode := phrase.Straight
		if entry.Mode != "" {
			if mode, err = phrase.ParseTimingMode(entry.Mode); err != nil {
				return loaded, fmt.Errorf("lick %q: %w", entry.Name, err)
			}
		}

		notes := make([]phrase.Note, 0, len(entry.Notes))
		for _, n := range entry.Notes {
			n.Subdivision = phrase.Snap(n.Subdivision, mode)
			notes = append(notes, n)
		}

		if _, err := s.Save(phrase.Template{
			Name:       entry.Name,
			Notes:      notes,
			BPM:        entry.BPM,
			Mode:       mode,
			Difficulty: entry.Difficulty,
		}); err != nil {
			return loaded, fmt.Errorf("lick %q: %w", entry.Name, err)
		}
		loaded++
	}

	logger.Infof("Loaded %d licks from %s", loaded, path)
	return loaded, nil
}

// WriteLibrary exports templates in the format read by LoadLibrary.
func WriteLibrary(path string, templates []phrase.Template) error {
	var lib libraryFile
	for _, t := range templates {
		lib.Licks = append(lib.Licks, lickEntry{
			Name:       t.Name,
			BPM:        t.BPM,
			Mode:       string(t.Mode),
			Difficulty: t.Difficulty,
			Notes:      t.Notes,
		})
	}

	data, err := yaml.Marshal(lib)
	if err != nil {
		return errors.WithStackTrace(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WithStackTrace(err)
	}
	return nil
}
