package rhythm

import (
	"math"
	"time"

	"github.com/robmorgan/riffduel/logger"
	"github.com/robmorgan/riffduel/scheduler"
	"github.com/robmorgan/riffduel/utils"
	"github.com/sirupsen/logrus"
)

const (
	MinTempo = 40
	MaxTempo = 300

	DefaultTempo       = 120
	DefaultBeatsPerBar = 4
	MaxBeatsPerBar     = 16
)

// BeatTick is emitted once per pulse while the clock is running.
type BeatTick struct {
	// Beat is the 1-based position of the pulse within the bar.
	Beat int

	Timestamp time.Time

	// Subdivision is always 0 for a pulse; it is kept so ticks and captured notes share a shape.
	Subdivision float64

	// Downbeat is set on beat 1 so the tone player can choose an accented click.
	Downbeat bool
}

// Clock generates a steady beat pulse on a scheduler loop and converts timestamps into
// positions within the bar.
//
// Originally based on the metronome in https://github.com/Deep-Symmetry/electro, but driven by
// discrete ticks: positions are measured from the most recent tick rather than from a fixed
// timeline origin, so a tempo change never disturbs the current beat.
//
// A Clock is not safe for concurrent use. Drive it from the loop it was created with.
type Clock struct {
	loop *scheduler.Loop

	tempo       int
	beatsPerBar int

	running  bool
	beat     int
	lastTick time.Time
	pulse    *scheduler.Task

	listeners []func(BeatTick)
}

// NewClock creates a stopped clock at the default tempo of 120 bpm in 4/4.
func NewClock(loop *scheduler.Loop) *Clock {
	return &Clock{
		loop:        loop,
		tempo:       DefaultTempo,
		beatsPerBar: DefaultBeatsPerBar,
		beat:        1,
	}
}

// OnTick registers a listener that is notified of every pulse.
func (c *Clock) OnTick(fn func(BeatTick)) {
	c.listeners = append(c.listeners, fn)
}

// Start begins the pulse. Beat 1 is emitted immediately. Starting a running clock restarts it
// from beat 1.
func (c *Clock) Start() {
	if c.running {
		c.cancelPulse()
	}

	c.running = true
	c.beat = 1
	c.lastTick = c.loop.Now()

	logger := logger.GetProjectLogger()
	logger.WithFields(logrus.Fields{"tempo": c.tempo, "beats_per_bar": c.beatsPerBar}).Debug("Clock started")

	c.emit()
	c.pulse = c.loop.Every(c.BeatInterval(), c.advance)
}

// Stop cancels the pulse and resets the clock to beat 1. Stopping a stopped clock does nothing.
func (c *Clock) Stop() {
	c.cancelPulse()
	c.beat = 1
	if c.running {
		c.running = false
		logger.GetProjectLogger().Debug("Clock stopped")
	}
}

// Toggle stops a running clock or starts a stopped one.
func (c *Clock) Toggle() {
	if c.running {
		c.Stop()
		return
	}
	c.Start()
}

func (c *Clock) cancelPulse() {
	c.pulse.Cancel()
	c.pulse = nil
}

func (c *Clock) advance() {
	c.beat = c.beat%c.beatsPerBar + 1
	c.lastTick = c.loop.Now()
	c.emit()
}

func (c *Clock) emit() {
	tick := BeatTick{
		Beat:      c.beat,
		Timestamp: c.lastTick,
		Downbeat:  c.beat == 1,
	}
	for _, fn := range c.listeners {
		fn(tick)
	}
}

// IsRunning reports whether the pulse is active.
func (c *Clock) IsRunning() bool {
	return c.running
}

// CurrentBeat returns the beat-in-bar of the most recent pulse.
func (c *Clock) CurrentBeat() int {
	return c.beat
}

// Tempo returns the tempo in beats per minute.
func (c *Clock) Tempo() int {
	return c.tempo
}

// BeatsPerBar returns the bar length in beats.
func (c *Clock) BeatsPerBar() int {
	return c.beatsPerBar
}

// SetTempo sets a new tempo, clamped to [MinTempo, MaxTempo]. When running, the beat and phase
// at the moment of the change are preserved and the pulse is rescheduled at the new period.
func (c *Clock) SetTempo(bpm int) {
	bpm = utils.Clamp(bpm, MinTempo, MaxTempo)
	if bpm == c.tempo {
		return
	}

	if !c.running {
		c.tempo = bpm
		return
	}

	instant := c.loop.Now()
	phase := markerPhase(instant, c.lastTick, c.BeatInterval())
	pos := c.PositionAt(instant)

	c.tempo = bpm
	interval := c.BeatInterval()
	c.beat = pos.Beat
	c.lastTick = instant.Add(-time.Duration(math.Round(phase * float64(interval))))

	c.cancelPulse()
	remaining := c.lastTick.Add(interval).Sub(instant)

	var first *scheduler.Task
	first = c.loop.AfterFunc(remaining, func() {
		c.advance()
		if c.pulse == first {
			c.pulse = c.loop.Every(c.BeatInterval(), c.advance)
		}
	})
	c.pulse = first
}

// SetBeatsPerBar sets the bar length, clamped to [1, MaxBeatsPerBar].
func (c *Clock) SetBeatsPerBar(n int) {
	c.beatsPerBar = utils.Clamp(n, 1, MaxBeatsPerBar)
	if c.beat > c.beatsPerBar {
		c.beat = 1
	}
}

// BeatInterval returns how long a beat lasts.
func (c *Clock) BeatInterval() time.Duration {
	return time.Duration(beatsToMilliseconds(1, float64(c.tempo)) * float64(time.Millisecond))
}

// BarInterval returns how long a bar lasts.
func (c *Clock) BarInterval() time.Duration {
	return c.BeatInterval() * time.Duration(c.beatsPerBar)
}

// beatsToMilliseconds calculates milliseconds for given beats and tempo
func beatsToMilliseconds(beats int, tempo float64) float64 {
	return (60000.0 / tempo) * float64(beats)
}

// markerRatio returns the number of whole and fractional intervals between start and instant.
// It is negative when instant precedes start.
func markerRatio(instant, start time.Time, interval time.Duration) float64 {
	return float64(instant.Sub(start)) / float64(interval)
}

// markerPhase calculates the phase of a marker
func markerPhase(instant, start time.Time, interval time.Duration) float64 {
	ratio := markerRatio(instant, start, interval)
	return ratio - math.Floor(ratio)
}
