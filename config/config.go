package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/gruntwork-io/go-commons/files"
	"github.com/joho/godotenv"
	"github.com/robmorgan/riffduel/duel"
	"github.com/robmorgan/riffduel/kit"
	"github.com/robmorgan/riffduel/logger"
	"github.com/robmorgan/riffduel/phrase"
	"github.com/robmorgan/riffduel/rhythm"
	"github.com/robmorgan/riffduel/utils"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when no config file is given.
const DefaultConfigFile = "riffduel.yaml"

// Audio outputs.
const (
	OutputMIDI    = "midi"
	OutputSamples = "samples"
	OutputNone    = "none"
)

// RiffConfig represents options that configure the global behavior of the program
type RiffConfig struct {
	Tempo       int `yaml:"tempo"`
	BeatsPerBar int `yaml:"beats_per_bar"`

	// TotalBars is the number of turns in a duel, count-in excluded.
	TotalBars int `yaml:"total_bars"`

	// ToleranceMs is the largest deviation from a lick's timing that still counts as a match.
	ToleranceMs float64 `yaml:"tolerance_ms"`

	// Recording defaults for new licks
	TimingMode phrase.TimingMode `yaml:"timing_mode"`
	Difficulty int               `yaml:"difficulty"`

	Kit string `yaml:"kit"`

	// Click plays the metronome through the tone player.
	Click bool `yaml:"click"`

	LibraryPath string `yaml:"library"`

	Audio AudioConfig `yaml:"audio"`
	Log   LogConfig   `yaml:"log"`
}

// AudioConfig selects the tone player and MIDI ports.
type AudioConfig struct {
	Output    string `yaml:"output"`
	MIDIOut   string `yaml:"midi_out"`
	MIDIIn    string `yaml:"midi_in"`
	SampleDir string `yaml:"sample_dir"`
}

// LogConfig configures the project logger.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// NewRiffConfig creates a config with reasonable defaults for real usage.
func NewRiffConfig() *RiffConfig {
	return &RiffConfig{
		Tempo:       rhythm.DefaultTempo,
		BeatsPerBar: rhythm.DefaultBeatsPerBar,
		TotalBars:   duel.DefaultTotalBars,
		ToleranceMs: 150,
		TimingMode:  phrase.Straight,
		Difficulty:  phrase.DefaultDifficulty,
		Kit:         kit.DefaultKit,
		Click:       true,
		LibraryPath: "licks.yaml",
		Audio: AudioConfig{
			Output:    OutputMIDI,
			SampleDir: "samples",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the config from defaults, then the YAML file at path (when it exists), then
// RIFFDUEL_* environment variables, which may also come from a .env file.
func Load(path string) (*RiffConfig, error) {
	logger := logger.GetProjectLogger()

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, relying on the environment")
	}

	cfg := NewRiffConfig()
	if path != "" && files.FileExists(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WithStackTrace(err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.WithStackTrace(fmt.Errorf("parsing %s: %w", path, err))
		}
		logger.Debugf("Loaded config from %s", path)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *RiffConfig) applyEnv() {
	c.Tempo = getEnvInt("RIFFDUEL_TEMPO", c.Tempo)
	c.BeatsPerBar = getEnvInt("RIFFDUEL_BEATS_PER_BAR", c.BeatsPerBar)
	c.TotalBars = getEnvInt("RIFFDUEL_TOTAL_BARS", c.TotalBars)
	c.ToleranceMs = getEnvFloat("RIFFDUEL_TOLERANCE_MS", c.ToleranceMs)
	c.TimingMode = phrase.TimingMode(getEnv("RIFFDUEL_TIMING_MODE", string(c.TimingMode)))
	c.Difficulty = getEnvInt("RIFFDUEL_DIFFICULTY", c.Difficulty)
	c.Kit = getEnv("RIFFDUEL_KIT", c.Kit)
	c.LibraryPath = getEnv("RIFFDUEL_LIBRARY", c.LibraryPath)
	c.Audio.Output = getEnv("RIFFDUEL_AUDIO_OUTPUT", c.Audio.Output)
	c.Audio.MIDIOut = getEnv("RIFFDUEL_MIDI_OUT", c.Audio.MIDIOut)
	c.Audio.MIDIIn = getEnv("RIFFDUEL_MIDI_IN", c.Audio.MIDIIn)
	c.Audio.SampleDir = getEnv("RIFFDUEL_SAMPLE_DIR", c.Audio.SampleDir)
	c.Log.Level = getEnv("RIFFDUEL_LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnv("RIFFDUEL_LOG_FILE", c.Log.File)
}

// Validate clamps values with a sane range and rejects the ones that cannot be fixed.
func (c *RiffConfig) Validate() error {
	c.Tempo = utils.Clamp(c.Tempo, rhythm.MinTempo, rhythm.MaxTempo)
	c.BeatsPerBar = utils.Clamp(c.BeatsPerBar, 1, rhythm.MaxBeatsPerBar)

	if c.TotalBars < 2 {
		return fmt.Errorf("total bars must be at least 2, got %d", c.TotalBars)
	}
	if c.ToleranceMs <= 0 {
		return fmt.Errorf("tolerance of %vms: %w", c.ToleranceMs, phrase.ErrInvalidTolerance)
	}

	mode, err := phrase.ParseTimingMode(string(c.TimingMode))
	if err != nil {
		return err
	}
	c.TimingMode = mode

	c.Difficulty = phrase.ClampDifficulty(c.Difficulty)

	if _, ok := kit.Get(c.Kit); !ok {
		return fmt.Errorf("unknown kit %q (known kits: %v)", c.Kit, kit.Names())
	}

	switch c.Audio.Output {
	case OutputMIDI, OutputSamples, OutputNone:
	default:
		return fmt.Errorf("unknown audio output %q", c.Audio.Output)
	}

	return nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}
