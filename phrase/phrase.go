package phrase

import (
	"fmt"
	"strings"
	"time"

	"github.com/robmorgan/riffduel/rhythm"
	"github.com/robmorgan/riffduel/utils"
)

const (
	// DefaultDifficulty is used for scoring when a template has no difficulty of its own.
	DefaultDifficulty = 50

	MinDifficulty = 1
	MaxDifficulty = 100
)

// TimingMode selects the subdivision grid a phrase is quantized onto.
type TimingMode string

const (
	// Straight timing uses sixteenth notes.
	Straight TimingMode = "straight"
	// Swing timing uses eighth-note triplets.
	Swing TimingMode = "swing"
)

var (
	straightGrid = []float64{0, 0.25, 0.5, 0.75}
	swingGrid    = []float64{0, 1.0 / 3.0, 2.0 / 3.0}
)

// ParseTimingMode accepts "straight" or "swing" in any case.
func ParseTimingMode(s string) (TimingMode, error) {
	switch TimingMode(strings.ToLower(strings.TrimSpace(s))) {
	case Straight:
		return Straight, nil
	case Swing:
		return Swing, nil
	}
	return "", fmt.Errorf("unknown timing mode %q (expected %q or %q)", s, Straight, Swing)
}

// Grid returns the canonical subdivisions for the mode in ascending order.
func (m TimingMode) Grid() []float64 {
	if m == Swing {
		return swingGrid
	}
	return straightGrid
}

// CapturedNote is a single timestamped hit recorded while the clock was running.
type CapturedNote struct {
	SoundID   string
	Label     string
	Timestamp time.Time

	Beat        int
	Subdivision float64

	OffsetMs float64
	Tier     rhythm.Tier

	// Bar is the duel bar the note was played in, or nil outside a player turn.
	Bar *int
}

// Note is a hit in template space, on the grid of its template's timing mode.
type Note struct {
	SoundID     string  `yaml:"sound"`
	Label       string  `yaml:"label,omitempty"`
	Beat        int     `yaml:"beat"`
	Subdivision float64 `yaml:"sub"`
}

// Template is a stored phrase ("lick") used both as the opponent's call and as a recognition
// target.
type Template struct {
	ID         string
	Name       string
	Notes      []Note
	BPM        int
	Mode       TimingMode
	Difficulty int
}

// DifficultyOrDefault returns the template's difficulty, or DefaultDifficulty when unset.
func (t Template) DifficultyOrDefault() int {
	if t.Difficulty <= 0 {
		return DefaultDifficulty
	}
	return t.Difficulty
}

// ClampDifficulty bounds a difficulty to [MinDifficulty, MaxDifficulty]. Zero means unset and is
// returned unchanged.
func ClampDifficulty(d int) int {
	if d == 0 {
		return 0
	}
	return utils.Clamp(d, MinDifficulty, MaxDifficulty)
}

// RecognitionResult is produced when the tail of a capture matches a template.
type RecognitionResult struct {
	Template Template
	Accuracy float64
	Points   int
}
