package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/riffduel/duel"
	"github.com/robmorgan/riffduel/engine"
	"github.com/robmorgan/riffduel/kit"
	"github.com/robmorgan/riffduel/phrase"
)

// MaxEvents is the number of event lines kept on screen.
const MaxEvents = 6

// Engine is the part of the engine driven by the TUI.
type Engine interface {
	Kit() kit.Kit
	Capture(soundID string) (phrase.CapturedNote, bool)
	StartGame() error
	StopGame()
	ToggleMetronome() bool
	SetTempo(bpm int) (int, error)
	ClearCapture()
	SaveLick(name string, mode phrase.TimingMode, difficulty int) (phrase.Template, error)
	Snapshot() engine.Snapshot

	OnCapture(fn func(phrase.CapturedNote))
	OnRecognized(fn func(phrase.RecognitionResult))
	OnPhaseChange(fn func(duel.Phase, int))
	OnTurnScored(fn func(int))
}

type model struct {
	sub    chan tea.Msg // where we'll receive engine activity
	engine Engine
	kit    kit.Kit

	snap engine.Snapshot

	spinner  spinner.Model
	duelBar  progress.Model
	tempoBar progress.Model
	input    textinput.Model
	saving   bool

	lastNote *phrase.CapturedNote
	events   []string
	status   string
	quitting bool
}

func newModel(e Engine, sub chan tea.Msg) model {
	s := spinner.New()
	s.Style = spinnerStyle

	ti := textinput.New()
	ti.Placeholder = "lick name"
	ti.CharLimit = 32

	return model{
		sub:     sub,
		engine:  e,
		kit:     e.Kit(),
		snap:    e.Snapshot(),
		spinner: s,
		duelBar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		),
		tempoBar: progress.New(
			progress.WithSolidFill("63"),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		),
		input: ti,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.spinner.Tick, waitForActivity(m.sub))
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*25, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Engine events forwarded to the program.
type (
	capturedMsg   phrase.CapturedNote
	recognizedMsg phrase.RecognitionResult
	phaseMsg      struct {
		phase duel.Phase
		bar   int
	}
	scoredMsg int
)

// waitForActivity waits for the next engine event.
func waitForActivity(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// subscribe forwards engine events to sub. Engine listeners run on the scheduler loop, so events
// are dropped rather than blocking it when the program falls behind.
func subscribe(e Engine, sub chan tea.Msg) {
	notify := func(msg tea.Msg) {
		select {
		case sub <- msg:
		default:
		}
	}

	e.OnCapture(func(n phrase.CapturedNote) { notify(capturedMsg(n)) })
	e.OnRecognized(func(r phrase.RecognitionResult) { notify(recognizedMsg(r)) })
	e.OnPhaseChange(func(p duel.Phase, bar int) { notify(phaseMsg{p, bar}) })
	e.OnTurnScored(func(points int) { notify(scoredMsg(points)) })
}

// Run shows the TUI until the user quits.
func Run(e Engine) error {
	sub := make(chan tea.Msg, 64)
	subscribe(e, sub)

	return tea.NewProgram(newModel(e, sub), tea.WithAltScreen()).Start()
}
