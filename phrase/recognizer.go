package phrase

import (
	"errors"
	"math"
	"time"

	"github.com/robmorgan/riffduel/logger"
	"github.com/sirupsen/logrus"
)

// ErrInvalidTolerance is returned for a matching tolerance that is not strictly positive.
var ErrInvalidTolerance = errors.New("tolerance must be greater than zero")

// Recognizer watches a growing capture and reports, as early as possible, when its tail matches
// a template within the timing tolerance. Each template is recognized at most once per session.
//
// A Recognizer is not safe for concurrent use.
type Recognizer struct {
	toleranceMs  float64
	beatInterval time.Duration

	recognized map[string]struct{}
	highWater  int
	total      int

	listeners []func(RecognitionResult)
}

// NewRecognizer creates a recognizer with the given tolerance in milliseconds.
func NewRecognizer(toleranceMs float64, beatInterval time.Duration) (*Recognizer, error) {
	r := &Recognizer{
		beatInterval: beatInterval,
		recognized:   make(map[string]struct{}),
	}
	if err := r.SetTolerance(toleranceMs); err != nil {
		return nil, err
	}
	return r, nil
}

// SetTolerance changes the maximum allowed deviation per note.
func (r *Recognizer) SetTolerance(toleranceMs float64) error {
	if toleranceMs <= 0 || math.IsNaN(toleranceMs) {
		return ErrInvalidTolerance
	}
	r.toleranceMs = toleranceMs
	return nil
}

// Tolerance returns the tolerance in milliseconds.
func (r *Recognizer) Tolerance() float64 {
	return r.toleranceMs
}

// SetBeatInterval updates the beat length used to turn positions into times.
func (r *Recognizer) SetBeatInterval(d time.Duration) {
	r.beatInterval = d
}

// OnRecognized registers a listener notified of every recognition.
func (r *Recognizer) OnRecognized(fn func(RecognitionResult)) {
	r.listeners = append(r.listeners, fn)
}

// TotalScore returns the points accumulated since the last ResetScore.
func (r *Recognizer) TotalScore() int {
	return r.total
}

// ResetScore sets the accumulated points back to zero.
func (r *Recognizer) ResetScore() {
	r.total = 0
}

// ResetSession forgets which templates were recognized and how much of the capture was
// scanned. Call it whenever the capture is cleared.
func (r *Recognizer) ResetSession() {
	r.recognized = make(map[string]struct{})
	r.highWater = 0
}

// Scan checks the tail of notes against the templates after the capture has grown. At most one
// template is recognized per call; the first match in template order wins.
func (r *Recognizer) Scan(notes []CapturedNote, templates []Template) (RecognitionResult, bool) {
	if len(notes) <= r.highWater {
		return RecognitionResult{}, false
	}
	r.highWater = len(notes)

	for _, tpl := range templates {
		if len(tpl.Notes) == 0 {
			continue
		}
		if _, done := r.recognized[tpl.ID]; done {
			continue
		}
		if len(notes) < len(tpl.Notes) {
			continue
		}

		accuracy, ok := r.match(notes[len(notes)-len(tpl.Notes):], tpl.Notes)
		if !ok {
			continue
		}

		result := RecognitionResult{
			Template: tpl,
			Accuracy: accuracy,
			Points:   int(math.Round(float64(tpl.DifficultyOrDefault()) * accuracy / 100)),
		}
		r.recognized[tpl.ID] = struct{}{}
		r.total += result.Points

		logger := logger.GetProjectLogger()
		logger.WithFields(logrus.Fields{
			"lick":     tpl.Name,
			"accuracy": accuracy,
			"points":   result.Points,
		}).Info("Lick recognized")

		for _, fn := range r.listeners {
			fn(result)
		}
		return result, true
	}

	return RecognitionResult{}, false
}

// match compares a candidate window note by note. A wrong sound or a single note outside the
// tolerance rejects the whole window.
func (r *Recognizer) match(candidate []CapturedNote, want []Note) (float64, bool) {
	beatMs := float64(r.beatInterval) / float64(time.Millisecond)

	sum := 0.0
	for i := range want {
		if candidate[i].SoundID != want[i].SoundID {
			return 0, false
		}

		expected := (float64(want[i].Beat-1) + want[i].Subdivision) * beatMs
		actual := (float64(candidate[i].Beat-1) + candidate[i].Subdivision) * beatMs
		diff := math.Abs(expected - actual)
		if diff > r.toleranceMs {
			return 0, false
		}
		sum += math.Max(0, 100*(1-diff/r.toleranceMs))
	}

	return sum / float64(len(want)), true
}
