package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/robmorgan/riffduel/kit"
	"github.com/robmorgan/riffduel/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWav(t *testing.T, path string, samples int) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, wav.Encode(f, beep.Silence(samples), DefaultFormat))
}

func TestLoadSamples(t *testing.T) {
	t.Parallel()
	logger.Discard()

	dir := t.TempDir()
	writeWav(t, filepath.Join(dir, "kick.wav"), 441)
	writeWav(t, filepath.Join(dir, "click.wav"), 100)
	// not a pad of the kit
	writeWav(t, filepath.Join(dir, "cowbell.wav"), 100)

	k, _ := kit.Get(kit.DefaultKit)
	p, err := LoadSamples(dir, k, DefaultFormat)
	require.NoError(t, err)

	assert.True(t, p.Has(kit.SoundKick))
	assert.True(t, p.Has(kit.SoundClick))
	assert.False(t, p.Has(kit.SoundSnare))
	assert.False(t, p.Has("cowbell"))

	var played []int
	p.play = func(s beep.Streamer) {
		played = append(played, s.(beep.StreamSeeker).Len())
	}

	p.Play(kit.SoundKick)
	p.Play(kit.SoundSnare)
	p.Play(kit.SoundKick)
	assert.Equal(t, []int{441, 441}, played)
}

func TestLoadSamplesFromAnEmptyDirectory(t *testing.T) {
	t.Parallel()
	logger.Discard()

	k, _ := kit.Get(kit.DefaultKit)
	_, err := LoadSamples(t.TempDir(), k, DefaultFormat)
	require.Error(t, err)
}

func TestLoadRejectsGarbage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "kick.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wav file"), 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	require.Error(t, NewSamplePlayer(DefaultFormat).Load(kit.SoundKick, f))
}
