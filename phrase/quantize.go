package phrase

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Quantize snaps every captured note onto the grid of the timing mode. Order, count and beats
// are preserved.
func Quantize(notes []CapturedNote, mode TimingMode) []Note {
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, Note{
			SoundID:     n.SoundID,
			Label:       n.Label,
			Beat:        n.Beat,
			Subdivision: Snap(n.Subdivision, mode),
		})
	}
	return out
}

// Snap returns the grid value of the mode closest to subdivision.
func Snap(subdivision float64, mode TimingMode) float64 {
	return nearest(subdivision, mode.Grid())
}

// nearest returns the grid value with the smallest distance to v. Ties go to the value listed
// first.
func nearest[F constraints.Float](v F, grid []F) F {
	best := grid[0]
	bestDistance := F(math.Abs(float64(v - best)))
	for _, g := range grid[1:] {
		if d := F(math.Abs(float64(v - g))); d < bestDistance {
			best, bestDistance = g, d
		}
	}
	return best
}

// NewTemplate quantizes a capture into a template.
func NewTemplate(name string, notes []CapturedNote, bpm int, mode TimingMode, difficulty int) Template {
	return Template{
		Name:       name,
		Notes:      Quantize(notes, mode),
		BPM:        bpm,
		Mode:       mode,
		Difficulty: difficulty,
	}
}
