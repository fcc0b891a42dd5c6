package cmd

import (
	"testing"

	"github.com/robmorgan/riffduel/phrase"
	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "kick@1 snare@1.50 hihat@2.33", describe([]phrase.Note{
		{SoundID: "kick", Beat: 1},
		{SoundID: "snare", Beat: 1, Subdivision: 0.5},
		{SoundID: "hihat", Beat: 2, Subdivision: 1.0 / 3.0},
	}))
	assert.Empty(t, describe(nil))
}
