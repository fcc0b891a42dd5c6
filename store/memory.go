package store

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/robmorgan/riffduel/logger"
	"github.com/robmorgan/riffduel/phrase"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

// Memory is an in-process Store. Licks are listed in the order they were saved.
type Memory struct {
	mu    sync.Mutex
	licks []phrase.Template
}

// NewMemory creates an empty library.
func NewMemory() *Memory {
	return &Memory{}
}

// List returns a copy of every stored lick.
func (m *Memory) List() ([]phrase.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]phrase.Template, 0, len(m.licks))
	for _, t := range m.licks {
		out = append(out, clone(t))
	}
	return out, nil
}

// Save validates the lick and stores it under a new id.
func (m *Memory) Save(t phrase.Template) (phrase.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return phrase.Template{}, ErrBlankName
	}
	if len(t.Notes) == 0 {
		return phrase.Template{}, ErrNoNotes
	}
	if m.nameTakenLocked(t.Name, "") {
		return phrase.Template{}, ErrDuplicateName
	}
	if t.Mode == "" {
		t.Mode = phrase.Straight
	}
	if CountMode(m.licks, t.Mode) >= MaxPerMode {
		return phrase.Template{}, ErrLibraryFull
	}
	t.Difficulty = phrase.ClampDifficulty(t.Difficulty)

	t.ID = uuid.NewString()
	t = clone(t)
	m.licks = append(m.licks, t)

	logger := logger.GetProjectLogger()
	logger.WithFields(logrus.Fields{
		"id":    t.ID,
		"lick":  t.Name,
		"mode":  t.Mode,
		"notes": len(t.Notes),
	}).Debug("Lick saved")

	return clone(t), nil
}

// Update replaces the non-zero fields of a stored lick.
func (m *Memory) Update(id string, fields Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	t := clone(m.licks[i])

	if fields.Name != "" {
		name := strings.TrimSpace(fields.Name)
		if name == "" {
			return ErrBlankName
		}
		if m.nameTakenLocked(name, id) {
			return ErrDuplicateName
		}
		t.Name = name
	}
	if fields.Notes != nil {
		if len(fields.Notes) == 0 {
			return ErrNoNotes
		}
		t.Notes = slices.Clone(fields.Notes)
	}
	if fields.Mode != "" && fields.Mode != t.Mode {
		if CountMode(m.licks, fields.Mode) >= MaxPerMode {
			return ErrLibraryFull
		}
		t.Mode = fields.Mode
	}
	if fields.BPM > 0 {
		t.BPM = fields.BPM
	}
	if fields.Difficulty > 0 {
		t.Difficulty = phrase.ClampDifficulty(fields.Difficulty)
	}

	m.licks[i] = t
	return nil
}

// Delete removes a lick.
func (m *Memory) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	m.licks = slices.Delete(m.licks, i, i+1)
	return nil
}

func (m *Memory) indexLocked(id string) int {
	return slices.IndexFunc(m.licks, func(t phrase.Template) bool { return t.ID == id })
}

// nameTakenLocked compares names without regard to case, ignoring the lick being renamed.
func (m *Memory) nameTakenLocked(name, except string) bool {
	for _, t := range m.licks {
		if t.ID != except && strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

func clone(t phrase.Template) phrase.Template {
	t.Notes = slices.Clone(t.Notes)
	return t
}
