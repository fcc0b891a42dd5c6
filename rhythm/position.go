package rhythm

import (
	"math"
	"time"

	"github.com/robmorgan/riffduel/utils"
)

// Tier classifies how close a timestamp lands to the nearest grid line.
type Tier string

const (
	TierPerfect Tier = "perfect"
	TierGood    Tier = "good"
	TierOK      Tier = "ok"
	TierPoor    Tier = "poor"
)

const (
	perfectWindow = 30 * time.Millisecond
	goodWindow    = 50 * time.Millisecond
	okWindow      = 100 * time.Millisecond
)

// accuracyGrid holds the sixteenth-note grid lines used to judge timing. 1.0 is the next beat.
var accuracyGrid = []float64{0, 0.25, 0.5, 0.75, 1.0}

// Position is a point in the bar: the beat it falls on and how far into that beat it is.
type Position struct {
	Beat        int
	Subdivision float64
}

// Accuracy describes the distance from a timestamp to the nearest grid line.
type Accuracy struct {
	OffsetMs float64
	Tier     Tier
}

// ClassifyOffset returns the tier for an absolute distance from the grid in milliseconds.
func ClassifyOffset(offsetMs float64) Tier {
	offset := time.Duration(offsetMs * float64(time.Millisecond))
	switch {
	case offset < perfectWindow:
		return TierPerfect
	case offset < goodWindow:
		return TierGood
	case offset < okWindow:
		return TierOK
	default:
		return TierPoor
	}
}

// PositionAt converts a timestamp into a position relative to the most recent pulse. Timestamps
// slightly before that pulse, or after the next pulse is due but before it has been emitted,
// wrap around the bar correctly.
func (c *Clock) PositionAt(t time.Time) Position {
	if c.lastTick.IsZero() {
		return Position{Beat: c.beat}
	}

	elapsed := markerRatio(t, c.lastTick, c.BeatInterval())
	whole := math.Floor(elapsed)

	return Position{
		Beat:        utils.FloorMod(c.beat-1+int(whole), c.beatsPerBar) + 1,
		Subdivision: elapsed - whole,
	}
}

// AccuracyAt judges a timestamp against the nearest sixteenth-note grid line.
func (c *Clock) AccuracyAt(t time.Time) Accuracy {
	pos := c.PositionAt(t)

	distance := math.Inf(1)
	for _, line := range accuracyGrid {
		if d := math.Abs(pos.Subdivision - line); d < distance {
			distance = d
		}
	}

	offsetMs := distance * float64(c.BeatInterval()) / float64(time.Millisecond)
	return Accuracy{
		OffsetMs: offsetMs,
		Tier:     ClassifyOffset(offsetMs),
	}
}
