package store

import (
	"fmt"
	"testing"

	"github.com/robmorgan/riffduel/logger"
	"github.com/robmorgan/riffduel/phrase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lick(name string, mode phrase.TimingMode) phrase.Template {
	return phrase.Template{
		Name:  name,
		Notes: []phrase.Note{{SoundID: "kick", Beat: 1}, {SoundID: "snare", Beat: 2}},
		BPM:   120,
		Mode:  mode,
	}
}

func TestSaveAssignsIDs(t *testing.T) {
	t.Parallel()
	logger.Discard()

	m := NewMemory()
	a, err := m.Save(lick("  Backbeat ", phrase.Straight))
	require.NoError(t, err)
	b, err := m.Save(lick("Shuffle", phrase.Swing))
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "Backbeat", a.Name)

	licks, err := m.List()
	require.NoError(t, err)
	require.Len(t, licks, 2)
	assert.Equal(t, a, licks[0])
	assert.Equal(t, b, licks[1])
}

func TestSaveRejectsUserInputErrors(t *testing.T) {
	t.Parallel()
	logger.Discard()

	m := NewMemory()
	_, err := m.Save(lick("Backbeat", phrase.Straight))
	require.NoError(t, err)

	testCases := []struct {
		name     string
		template phrase.Template
		expected error
	}{
		{"blank", lick("   ", phrase.Straight), ErrBlankName},
		{"duplicate", lick("BACKBEAT", phrase.Swing), ErrDuplicateName},
		{"no notes", phrase.Template{Name: "Empty"}, ErrNoNotes},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			_, err := m.Save(testCase.template)
			require.ErrorIs(t, err, testCase.expected)
		})
	}

	licks, _ := m.List()
	assert.Len(t, licks, 1)
}

func TestLibraryIsCappedPerMode(t *testing.T) {
	t.Parallel()
	logger.Discard()

	m := NewMemory()
	for i := 0; i < MaxPerMode; i++ {
		_, err := m.Save(lick(fmt.Sprintf("straight %d", i), phrase.Straight))
		require.NoError(t, err)
	}

	_, err := m.Save(lick("one too many", phrase.Straight))
	require.ErrorIs(t, err, ErrLibraryFull)

	// the other mode has its own allowance
	_, err = m.Save(lick("swing 0", phrase.Swing))
	require.NoError(t, err)
}

func TestListReturnsCopies(t *testing.T) {
	t.Parallel()
	logger.Discard()

	m := NewMemory()
	_, err := m.Save(lick("Backbeat", phrase.Straight))
	require.NoError(t, err)

	licks, _ := m.List()
	licks[0].Notes[0].SoundID = "cowbell"

	again, _ := m.List()
	assert.Equal(t, "kick", again[0].Notes[0].SoundID)
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	logger.Discard()

	m := NewMemory()
	a, _ := m.Save(lick("Backbeat", phrase.Straight))
	b, _ := m.Save(lick("Four on the floor", phrase.Straight))

	require.NoError(t, m.Update(a.ID, Fields{Name: "backbeat", Difficulty: 70}))
	require.ErrorIs(t, m.Update(a.ID, Fields{Name: "four ON the floor"}), ErrDuplicateName)
	require.ErrorIs(t, m.Update(a.ID, Fields{Name: "  "}), ErrBlankName)
	require.ErrorIs(t, m.Update(a.ID, Fields{Notes: []phrase.Note{}}), ErrNoNotes)
	require.ErrorIs(t, m.Update("missing", Fields{Name: "x"}), ErrNotFound)

	notes := []phrase.Note{{SoundID: "hihat", Beat: 1, Subdivision: 0.5}}
	require.NoError(t, m.Update(b.ID, Fields{Notes: notes, BPM: 90}))

	licks, _ := m.List()
	assert.Equal(t, "backbeat", licks[0].Name)
	assert.Equal(t, 70, licks[0].Difficulty)
	assert.Equal(t, notes, licks[1].Notes)
	assert.Equal(t, 90, licks[1].BPM)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	logger.Discard()

	m := NewMemory()
	a, _ := m.Save(lick("Backbeat", phrase.Straight))

	require.NoError(t, m.Delete(a.ID))
	require.ErrorIs(t, m.Delete(a.ID), ErrNotFound)

	licks, _ := m.List()
	assert.Empty(t, licks)

	// the name is free again
	_, err := m.Save(lick("Backbeat", phrase.Straight))
	require.NoError(t, err)
}

func TestDifficultyIsBounded(t *testing.T) {
	t.Parallel()
	logger.Discard()

	m := NewMemory()

	hard := lick("Blast beat", phrase.Straight)
	hard.Difficulty = 500
	saved, err := m.Save(hard)
	require.NoError(t, err)
	assert.Equal(t, phrase.MaxDifficulty, saved.Difficulty)

	unset, err := m.Save(lick("Backbeat", phrase.Straight))
	require.NoError(t, err)
	assert.Equal(t, 0, unset.Difficulty)

	require.NoError(t, m.Update(unset.ID, Fields{Difficulty: 250}))
	licks, _ := m.List()
	assert.Equal(t, phrase.MaxDifficulty, licks[1].Difficulty)
}
