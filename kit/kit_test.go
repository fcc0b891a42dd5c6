package kit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetIgnoresCase(t *testing.T) {
	t.Parallel()

	k, ok := Get(" GM-Drums ")
	require.True(t, ok)
	assert.Equal(t, "General MIDI Drums", k.Name)

	_, ok = Get("cowbells")
	assert.False(t, ok)
}

func TestPadLookups(t *testing.T) {
	t.Parallel()

	k, ok := Get(DefaultKit)
	require.True(t, ok)

	testCases := []struct {
		key   string
		sound string
		note  uint8
	}{
		{"f", SoundKick, 36},
		{"j", SoundSnare, 38},
		{"k", SoundHiHat, 42},
		{";", SoundRide, 51},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.sound, func(t *testing.T) {
			t.Parallel()

			pad, ok := k.ByKey(testCase.key)
			require.True(t, ok)
			assert.Equal(t, testCase.sound, pad.SoundID)
			assert.Equal(t, testCase.note, pad.Note)

			byNote, ok := k.ByNote(testCase.note)
			require.True(t, ok)
			assert.Equal(t, pad, byNote)
		})
	}
}

func TestEveryKitHasUniqueKeysAndNotes(t *testing.T) {
	t.Parallel()

	for _, name := range Names() {
		k, _ := Get(name)
		keys := map[string]bool{}
		notes := map[uint8]bool{}
		for _, p := range k.Pads {
			assert.False(t, keys[p.Key], "%s: duplicate key %q", name, p.Key)
			assert.False(t, notes[p.Note], "%s: duplicate note %d", name, p.Note)
			assert.NotZero(t, p.Note, "%s: %s has no note", name, p.SoundID)
			keys[p.Key] = true
			notes[p.Note] = true
		}
	}
}

func TestLabelFallsBackToSoundID(t *testing.T) {
	t.Parallel()

	k, _ := Get("finger-drums")
	assert.Equal(t, "Hat", k.Label(SoundHiHat))
	assert.Equal(t, SoundRide, k.Label(SoundRide))

	n, ok := GMNote(SoundClickAccent)
	require.True(t, ok)
	assert.Equal(t, uint8(34), n)
}
