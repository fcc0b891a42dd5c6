package cmd

import (
	"fmt"

	"github.com/robmorgan/riffduel/audio"
	"github.com/robmorgan/riffduel/config"
	"github.com/robmorgan/riffduel/engine"
	"github.com/robmorgan/riffduel/kit"
	"github.com/robmorgan/riffduel/logger"
	"github.com/robmorgan/riffduel/store"
	"k8s.io/utils/clock"
)

// newPlayer opens the configured tone player.
func newPlayer(cfg *config.RiffConfig) (audio.Player, error) {
	logger := logger.GetProjectLogger()

	switch cfg.Audio.Output {
	case config.OutputMIDI:
		logger.Info("Connecting to MIDI output...")
		return audio.OpenMIDIPlayer(cfg.Audio.MIDIOut)
	case config.OutputSamples:
		k, _ := kit.Get(cfg.Kit)
		logger.Infof("Loading samples from %s...", cfg.Audio.SampleDir)
		p, err := audio.LoadSamples(cfg.Audio.SampleDir, k, audio.DefaultFormat)
		if err != nil {
			return nil, err
		}
		return p, p.Init()
	}
	return audio.Nop{}, nil
}

// newEngine builds an engine over an in-memory library seeded from the configured file.
func newEngine(cfg *config.RiffConfig) (*engine.Engine, *store.Memory, error) {
	logger := logger.GetProjectLogger()

	licks := store.NewMemory()
	if _, err := store.LoadLibrary(cfg.LibraryPath, licks); err != nil {
		return nil, nil, fmt.Errorf("loading lick library: %w", err)
	}

	player, err := newPlayer(cfg)
	if err != nil {
		logger.Warnf("No audio output, continuing silently: %v", err)
		player = audio.Nop{}
	}

	e, err := engine.New(cfg, clock.RealClock{}, licks, player, nil)
	if err != nil {
		return nil, nil, err
	}
	return e, licks, nil
}

// listenForPads feeds hits from a MIDI controller into the engine when an input port is
// configured.
func listenForPads(cfg *config.RiffConfig, e *engine.Engine) (stop func()) {
	logger := logger.GetProjectLogger()

	if cfg.Audio.MIDIIn == "" {
		return func() {}
	}

	l := audio.NewPadListener(e.Kit(), func(p kit.Pad) { e.Capture(p.SoundID) })
	stop, err := l.Listen(cfg.Audio.MIDIIn)
	if err != nil {
		logger.Warnf("MIDI pads unavailable: %v", err)
		return func() {}
	}
	return stop
}
