package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/robmorgan/riffduel/audio"
	"github.com/robmorgan/riffduel/config"
	"github.com/robmorgan/riffduel/duel"
	"github.com/robmorgan/riffduel/kit"
	"github.com/robmorgan/riffduel/logger"
	"github.com/robmorgan/riffduel/phrase"
	"github.com/robmorgan/riffduel/rhythm"
	"github.com/robmorgan/riffduel/scheduler"
	"github.com/robmorgan/riffduel/store"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

var (
	// ErrBlankName is returned when saving a lick without a name.
	ErrBlankName = store.ErrBlankName

	// ErrEmptyCapture is returned when saving a lick before anything was captured.
	ErrEmptyCapture = errors.New("nothing has been captured")

	// ErrTempoLocked is returned when the tempo is changed while a duel is running.
	ErrTempoLocked = errors.New("tempo cannot change during a duel")
)

// Engine wires the clock, capture session, recognizer and duel together on one scheduler loop.
// Every exported method is safe to call from any goroutine; listeners run inside the loop and
// must not call back into the Engine.
type Engine struct {
	loop       *scheduler.Loop
	clock      *rhythm.Clock
	session    *phrase.Session
	recognizer *phrase.Recognizer
	duel       *duel.Duel

	store   store.Store
	library *library
	player  audio.Player
	kit     kit.Kit

	click      bool
	mode       phrase.TimingMode
	difficulty int
}

// library caches the store's licks so nothing on the loop waits on the store.
type library struct {
	templates []phrase.Template
}

func (l *library) List() ([]phrase.Template, error) {
	return l.templates, nil
}

// New creates an engine. The library is read once here and again after every change made
// through the engine.
func New(cfg *config.RiffConfig, clk clock.Clock, s store.Store, player audio.Player, rng *rand.Rand) (*Engine, error) {
	k, ok := kit.Get(cfg.Kit)
	if !ok {
		return nil, fmt.Errorf("unknown kit %q", cfg.Kit)
	}

	templates, err := s.List()
	if err != nil {
		return nil, err
	}

	loop := scheduler.NewLoop(clk)
	c := rhythm.NewClock(loop)
	c.SetTempo(cfg.Tempo)
	c.SetBeatsPerBar(cfg.BeatsPerBar)

	recognizer, err := phrase.NewRecognizer(cfg.ToleranceMs, c.BeatInterval())
	if err != nil {
		return nil, err
	}

	e := &Engine{
		loop:       loop,
		clock:      c,
		session:    phrase.NewSession(),
		recognizer: recognizer,
		store:      s,
		library:    &library{templates: templates},
		player:     player,
		kit:        k,
		click:      cfg.Click,
		mode:       cfg.TimingMode,
		difficulty: cfg.Difficulty,
	}
	e.duel = duel.New(loop, duel.Options{
		Clock:     c,
		Session:   e.session,
		Scorer:    recognizer,
		Library:   e.library,
		Player:    player,
		Rand:      rng,
		TotalBars: cfg.TotalBars,
	})

	c.OnTick(e.onTick)
	e.session.OnAppend(func(phrase.CapturedNote) {
		e.recognizer.Scan(e.session.Notes(), e.library.templates)
	})
	e.session.OnClear(e.recognizer.ResetSession)

	return e, nil
}

// Run drives the engine until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	e.loop.Run(ctx)
}

// Kit returns the drum kit in use.
func (e *Engine) Kit() kit.Kit {
	return e.kit
}

func (e *Engine) onTick(tick rhythm.BeatTick) {
	if !e.click {
		return
	}
	if tick.Downbeat {
		e.player.Play(kit.SoundClickAccent)
	} else {
		e.player.Play(kit.SoundClick)
	}
}

// Capture plays a sound and, while the clock is running, records it against the beat. It
// returns the captured note and whether it was recorded.
func (e *Engine) Capture(soundID string) (note phrase.CapturedNote, recorded bool) {
	e.player.Play(soundID)

	e.loop.Do(func() {
		if !e.clock.IsRunning() {
			return
		}

		now := e.loop.Now()
		pos := e.clock.PositionAt(now)
		acc := e.clock.AccuracyAt(now)

		note = phrase.CapturedNote{
			SoundID:     soundID,
			Label:       e.kit.Label(soundID),
			Timestamp:   now,
			Beat:        pos.Beat,
			Subdivision: pos.Subdivision,
			OffsetMs:    acc.OffsetMs,
			Tier:        acc.Tier,
		}
		if bar, ok := e.duel.CurrentBar(); ok {
			note.Bar = &bar
		}

		e.session.Append(note)
		recorded = true
	})

	return note, recorded
}

// StartGame starts a duel, restarting one already in progress.
func (e *Engine) StartGame() error {
	var err error
	e.loop.Do(func() { err = e.duel.StartGame() })
	return err
}

// StopGame aborts the duel and stops the clock.
func (e *Engine) StopGame() {
	e.loop.Do(e.duel.StopGame)
}

// ToggleMetronome starts or stops the clock outside of a duel and reports whether it is now
// running.
func (e *Engine) ToggleMetronome() bool {
	var running bool
	e.loop.Do(func() {
		e.clock.Toggle()
		running = e.clock.IsRunning()
	})
	return running
}

// SetTempo changes the tempo and returns it after clamping. The duel's turns are scheduled in
// whole bars, so while a duel is active the tempo is left alone and ErrTempoLocked is returned
// with the current tempo.
func (e *Engine) SetTempo(bpm int) (int, error) {
	var tempo int
	var err error
	e.loop.Do(func() {
		if e.duel.State().Phase.Active() {
			tempo, err = e.clock.Tempo(), ErrTempoLocked
			return
		}
		e.clock.SetTempo(bpm)
		e.recognizer.SetBeatInterval(e.clock.BeatInterval())
		tempo = e.clock.Tempo()
	})
	return tempo, err
}

// SetTolerance changes the matching tolerance in milliseconds.
func (e *Engine) SetTolerance(ms float64) error {
	var err error
	e.loop.Do(func() { err = e.recognizer.SetTolerance(ms) })
	return err
}

// ClearCapture starts a new recording session.
func (e *Engine) ClearCapture() {
	e.loop.Do(e.session.Clear)
}

// ResetScore sets the recognizer's running total back to zero.
func (e *Engine) ResetScore() {
	e.loop.Do(e.recognizer.ResetScore)
}

// OnTick registers a listener for clock pulses.
func (e *Engine) OnTick(fn func(rhythm.BeatTick)) {
	e.loop.Do(func() { e.clock.OnTick(fn) })
}

// OnCapture registers a listener for recorded notes.
func (e *Engine) OnCapture(fn func(phrase.CapturedNote)) {
	e.loop.Do(func() { e.session.OnAppend(fn) })
}

// OnRecognized registers a listener for recognized licks.
func (e *Engine) OnRecognized(fn func(phrase.RecognitionResult)) {
	e.loop.Do(func() { e.recognizer.OnRecognized(fn) })
}

// OnPhaseChange registers a listener for duel transitions.
func (e *Engine) OnPhaseChange(fn func(duel.Phase, int)) {
	e.loop.Do(func() { e.duel.OnPhaseChange(fn) })
}

// OnTurnScored registers a listener for the points of each player turn.
func (e *Engine) OnTurnScored(fn func(int)) {
	e.loop.Do(func() { e.duel.OnTurnScored(fn) })
}

// Library returns the licks in the store.
func (e *Engine) Library() ([]phrase.Template, error) {
	return e.store.List()
}

// SaveLick quantizes the current capture into a new lick. A zero mode or difficulty uses the
// configured default.
func (e *Engine) SaveLick(name string, mode phrase.TimingMode, difficulty int) (phrase.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return phrase.Template{}, ErrBlankName
	}
	if mode == "" {
		mode = e.mode
	}
	if difficulty == 0 {
		difficulty = e.difficulty
	}

	var notes []phrase.CapturedNote
	var bpm, count int
	e.loop.Do(func() {
		notes = e.session.Notes()
		bpm = e.clock.Tempo()
		count = store.CountMode(e.library.templates, mode)
	})

	if len(notes) == 0 {
		return phrase.Template{}, ErrEmptyCapture
	}
	if count >= store.MaxPerMode {
		return phrase.Template{}, store.ErrLibraryFull
	}

	saved, err := e.store.Save(phrase.NewTemplate(name, notes, bpm, mode, difficulty))
	if err != nil {
		return phrase.Template{}, err
	}

	logger := logger.GetProjectLogger()
	logger.WithFields(logrus.Fields{
		"lick":  saved.Name,
		"notes": len(saved.Notes),
		"bpm":   saved.BPM,
		"mode":  saved.Mode,
	}).Info("Lick saved")

	return saved, e.refresh()
}

// UpdateLick replaces a lick's notes with the current capture. An empty name or zero difficulty
// keeps the stored value.
func (e *Engine) UpdateLick(id, name string, difficulty int) error {
	var notes []phrase.CapturedNote
	var bpm int
	var existing phrase.Template
	var found bool
	e.loop.Do(func() {
		notes = e.session.Notes()
		bpm = e.clock.Tempo()
		for _, t := range e.library.templates {
			if t.ID == id {
				existing, found = t, true
			}
		}
	})

	if !found {
		return store.ErrNotFound
	}
	if len(notes) == 0 {
		return ErrEmptyCapture
	}

	err := e.store.Update(id, store.Fields{
		Name:       name,
		Notes:      phrase.Quantize(notes, existing.Mode),
		BPM:        bpm,
		Difficulty: difficulty,
	})
	if err != nil {
		return err
	}
	return e.refresh()
}

// DeleteLick removes a lick from the store.
func (e *Engine) DeleteLick(id string) error {
	if err := e.store.Delete(id); err != nil {
		return err
	}
	return e.refresh()
}

func (e *Engine) refresh() error {
	templates, err := e.store.List()
	if err != nil {
		return err
	}
	e.loop.Do(func() { e.library.templates = templates })
	return nil
}

// Snapshot is a consistent view of the engine for presentation.
type Snapshot struct {
	Running     bool
	Tempo       int
	BeatsPerBar int
	Beat        int
	Envelope    float64

	Duel      duel.State
	TotalBars int
	Call      string
	Score     int

	Captured []phrase.CapturedNote
	Licks    int
	Now      time.Time
}

// Snapshot reads the engine state in one loop turn.
func (e *Engine) Snapshot() Snapshot {
	var s Snapshot
	e.loop.Do(func() {
		now := e.loop.Now()
		s = Snapshot{
			Running:     e.clock.IsRunning(),
			Tempo:       e.clock.Tempo(),
			BeatsPerBar: e.clock.BeatsPerBar(),
			Beat:        e.clock.CurrentBeat(),
			Envelope:    e.clock.Envelope(now, rhythm.DefaultFlash),
			Duel:        e.duel.State(),
			TotalBars:   e.duel.TotalBars(),
			Score:       e.recognizer.TotalScore(),
			Captured:    e.session.Notes(),
			Licks:       len(e.library.templates),
			Now:         now,
		}
		if call, ok := e.duel.Call(); ok {
			s.Call = call.Name
		}
	})
	return s
}
