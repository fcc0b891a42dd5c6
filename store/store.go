package store

import (
	"errors"

	"github.com/robmorgan/riffduel/phrase"
)

// MaxPerMode is the largest number of licks a library may hold for a single timing mode.
const MaxPerMode = 5

var (
	ErrBlankName     = errors.New("lick name is blank")
	ErrDuplicateName = errors.New("a lick with that name already exists")
	ErrLibraryFull   = errors.New("the library already holds the maximum number of licks for this timing mode")
	ErrNotFound      = errors.New("lick not found")
	ErrNoNotes       = errors.New("lick has no notes")
)

// Fields replaces parts of a stored lick. Zero values leave the stored value unchanged.
type Fields struct {
	Name       string
	Notes      []phrase.Note
	BPM        int
	Mode       phrase.TimingMode
	Difficulty int
}

// Store is the phrase library used by the engine.
type Store interface {
	List() ([]phrase.Template, error)
	Save(t phrase.Template) (phrase.Template, error)
	Update(id string, fields Fields) error
	Delete(id string) error
}

// CountMode returns the number of templates using the timing mode.
func CountMode(templates []phrase.Template, mode phrase.TimingMode) int {
	n := 0
	for _, t := range templates {
		if t.Mode == mode {
			n++
		}
	}
	return n
}
