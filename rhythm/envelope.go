package rhythm

import (
	"time"

	"github.com/fogleman/ease"
)

// ShapeFunc maps a beat phase in [0,1) to an intensity in [0,1].
type ShapeFunc func(phase float64) float64

// BuildDecayShapeFn returns a falling sawtooth shaped by an easing curve: full intensity on the
// pulse, fading out before the next one.
func BuildDecayShapeFn(curve ease.Function) ShapeFunc {
	return func(phase float64) float64 {
		return curve(1.0 - phase)
	}
}

// DefaultFlash is the shape used by the beat indicator.
var DefaultFlash = BuildDecayShapeFn(ease.InQuad)

// Envelope returns the intensity of the beat indicator at t. It is 0 while the clock is stopped.
func (c *Clock) Envelope(t time.Time, shape ShapeFunc) float64 {
	if !c.running {
		return 0
	}
	return shape(c.PositionAt(t).Subdivision)
}
