package duel

import (
	"errors"
	"math/rand"
	"time"

	"github.com/robmorgan/riffduel/logger"
	"github.com/robmorgan/riffduel/phrase"
	"github.com/robmorgan/riffduel/scheduler"
	"github.com/sirupsen/logrus"
)

// DefaultTotalBars is the length of a duel, count-in excluded.
const DefaultTotalBars = 8

// ErrNoPhrases is returned when a duel is started with an empty library.
var ErrNoPhrases = errors.New("no phrases available")

// Clock is the beat clock driven by the duel.
type Clock interface {
	Start()
	Stop()
	BeatInterval() time.Duration
	BarInterval() time.Duration
}

// Session is the capture session cleared at the start of each player turn.
type Session interface {
	Clear()
}

// Scorer reports the points accumulated by the recognizer.
type Scorer interface {
	TotalScore() int
}

// Library lists the licks the opponent chooses from.
type Library interface {
	List() ([]phrase.Template, error)
}

// Player is the tone player used for the opponent's licks.
type Player interface {
	Play(soundID string)
}

// Options configure a Duel.
type Options struct {
	Clock     Clock
	Session   Session
	Scorer    Scorer
	Library   Library
	Player    Player
	Rand      *rand.Rand
	TotalBars int
}

// Duel alternates one-bar opponent and player turns after a one-bar count-in:
//
//	idle -> count-in -> opponent (bar 1) -> player (bar 2) -> ... -> player (bar N) -> finished
//
// Every transition is a task on the scheduler loop and at most one is pending at a time. Each
// game also carries a generation number, so a transition belonging to a stopped or restarted
// game never touches the new state.
//
// A Duel is not safe for concurrent use; call it from inside the loop's turn.
type Duel struct {
	loop    *scheduler.Loop
	clock   Clock
	session Session
	scorer  Scorer
	library Library
	player  Player
	rng     *rand.Rand

	totalBars int
	state     State
	call      phrase.Template

	pending    *scheduler.Task
	playback   []*scheduler.Task
	generation uint64

	phaseListeners []func(Phase, int)
	scoreListeners []func(int)
}

// New creates an idle duel.
func New(loop *scheduler.Loop, opts Options) *Duel {
	if opts.TotalBars <= 0 {
		opts.TotalBars = DefaultTotalBars
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Duel{
		loop:      loop,
		clock:     opts.Clock,
		session:   opts.Session,
		scorer:    opts.Scorer,
		library:   opts.Library,
		player:    opts.Player,
		rng:       opts.Rand,
		totalBars: opts.TotalBars,
	}
}

// OnPhaseChange registers a listener notified on every transition with the new phase and bar.
func (d *Duel) OnPhaseChange(fn func(Phase, int)) {
	d.phaseListeners = append(d.phaseListeners, fn)
}

// OnTurnScored registers a listener notified with the points earned at the end of each player
// turn.
func (d *Duel) OnTurnScored(fn func(int)) {
	d.scoreListeners = append(d.scoreListeners, fn)
}

// State returns a snapshot of the duel.
func (d *Duel) State() State {
	return d.state
}

// TotalBars returns the number of turns in a game.
func (d *Duel) TotalBars() int {
	return d.totalBars
}

// Call returns the lick the opponent played in the current opponent turn.
func (d *Duel) Call() (phrase.Template, bool) {
	if d.state.Phase != OpponentTurn {
		return phrase.Template{}, false
	}
	return d.call, true
}

// CurrentBar returns the bar of the player turn in progress. Notes captured outside a player
// turn do not belong to any bar.
func (d *Duel) CurrentBar() (int, bool) {
	if d.state.Phase != PlayerTurn {
		return 0, false
	}
	return d.state.Bar, true
}

// FinalScore returns the player's score once the duel has finished.
func (d *Duel) FinalScore() (int, bool) {
	if d.state.Phase != Finished {
		return 0, false
	}
	return d.state.PlayerScore, true
}

// StartGame starts a new duel. Starting while a game is running restarts it from the count-in.
// With an empty library ErrNoPhrases is returned and nothing changes.
func (d *Duel) StartGame() error {
	logger := logger.GetProjectLogger()

	templates, err := d.library.List()
	if err != nil {
		return err
	}
	if len(playable(templates)) == 0 {
		logger.Warn("Cannot start a duel without any licks in the library")
		return ErrNoPhrases
	}

	if d.state.Phase.Active() {
		logger.Info("Restarting duel")
	}

	d.reset()
	d.session.Clear()
	d.clock.Start()

	logger.WithFields(logrus.Fields{
		"bars":  d.totalBars,
		"licks": len(templates),
	}).Info("Duel started")

	d.setPhase(CountIn)
	d.schedule(d.enterOpponentTurn)
	return nil
}

// StopGame aborts the duel from any phase and returns to idle.
func (d *Duel) StopGame() {
	d.reset()
	d.clock.Stop()
	d.session.Clear()

	logger := logger.GetProjectLogger()
	logger.Debug("Duel stopped")

	d.setPhase(Idle)
}

// reset cancels everything scheduled by the current game and zeroes the state.
func (d *Duel) reset() {
	d.pending.Cancel()
	d.pending = nil
	d.cancelPlayback()
	d.generation++
	d.state = State{}
	d.call = phrase.Template{}
}

// schedule replaces the pending transition with fn, due one bar from now.
func (d *Duel) schedule(fn func()) {
	d.pending.Cancel()

	generation := d.generation
	d.pending = d.loop.AfterFunc(d.clock.BarInterval(), func() {
		if generation != d.generation {
			return
		}
		d.pending = nil
		fn()
	})
}

func (d *Duel) enterOpponentTurn() {
	d.state.Bar++

	templates, err := d.library.List()
	if templates = playable(templates); err != nil || len(templates) == 0 {
		// the library was emptied mid-game, the opponent sits this bar out
		d.call = phrase.Template{}
	} else {
		d.call = templates[d.rng.Intn(len(templates))]
		d.play(d.call)
	}

	logger := logger.GetProjectLogger()
	logger.WithFields(logrus.Fields{
		"bar":  d.state.Bar,
		"lick": d.call.Name,
	}).Debug("Opponent turn")

	d.setPhase(OpponentTurn)
	d.schedule(d.endTurn)
}

func (d *Duel) enterPlayerTurn() {
	d.state.Bar++
	d.cancelPlayback()
	d.session.Clear()
	d.state.Baseline = d.scorer.TotalScore()

	d.setPhase(PlayerTurn)
	d.schedule(d.endTurn)
}

func (d *Duel) endTurn() {
	if d.state.Phase == PlayerTurn {
		points := d.scorer.TotalScore() - d.state.Baseline
		d.state.PlayerScore += points

		logger := logger.GetProjectLogger()
		logger.WithFields(logrus.Fields{
			"bar":    d.state.Bar,
			"points": points,
			"score":  d.state.PlayerScore,
		}).Debug("Player turn scored")

		for _, fn := range d.scoreListeners {
			fn(points)
		}
	}

	if d.state.Bar >= d.totalBars {
		d.finish()
		return
	}

	if d.state.Phase == OpponentTurn {
		d.enterPlayerTurn()
	} else {
		d.enterOpponentTurn()
	}
}

func (d *Duel) finish() {
	d.cancelPlayback()
	d.clock.Stop()

	logger := logger.GetProjectLogger()
	logger.WithField("score", d.state.PlayerScore).Info("Duel finished")

	d.setPhase(Finished)
}

func (d *Duel) setPhase(p Phase) {
	d.state.Phase = p
	for _, fn := range d.phaseListeners {
		fn(p, d.state.Bar)
	}
}

// play schedules every note of the lick at its offset from the start of the turn.
func (d *Duel) play(t phrase.Template) {
	beat := d.clock.BeatInterval()
	for _, n := range t.Notes {
		sound := n.SoundID
		offset := time.Duration((float64(n.Beat-1) + n.Subdivision) * float64(beat))
		if offset <= 0 {
			d.player.Play(sound)
			continue
		}
		d.playback = append(d.playback, d.loop.AfterFunc(offset, func() {
			d.player.Play(sound)
		}))
	}
}

func (d *Duel) cancelPlayback() {
	for _, task := range d.playback {
		task.Cancel()
	}
	d.playback = nil
}

func playable(templates []phrase.Template) []phrase.Template {
	out := make([]phrase.Template, 0, len(templates))
	for _, t := range templates {
		if len(t.Notes) > 0 {
			out = append(out, t)
		}
	}
	return out
}
