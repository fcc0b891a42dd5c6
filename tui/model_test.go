package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/riffduel/duel"
	"github.com/robmorgan/riffduel/engine"
	"github.com/robmorgan/riffduel/kit"
	"github.com/robmorgan/riffduel/phrase"
	"github.com/robmorgan/riffduel/rhythm"
	"github.com/robmorgan/riffduel/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	snap      engine.Snapshot
	captured  []string
	saved     []string
	startErr  error
	starts    int
	stops     int
	clears    int
	running   bool
	locked    bool
	listeners int
}

func (f *fakeEngine) Kit() kit.Kit {
	k, _ := kit.Get(kit.DefaultKit)
	return k
}

func (f *fakeEngine) Capture(soundID string) (phrase.CapturedNote, bool) {
	f.captured = append(f.captured, soundID)
	return phrase.CapturedNote{SoundID: soundID}, f.running
}

func (f *fakeEngine) StartGame() error {
	f.starts++
	return f.startErr
}

func (f *fakeEngine) StopGame() { f.stops++ }

func (f *fakeEngine) ToggleMetronome() bool {
	f.running = !f.running
	return f.running
}

func (f *fakeEngine) SetTempo(bpm int) (int, error) {
	if f.locked {
		return f.snap.Tempo, engine.ErrTempoLocked
	}
	f.snap.Tempo = utils.Clamp(bpm, rhythm.MinTempo, rhythm.MaxTempo)
	return f.snap.Tempo, nil
}

func (f *fakeEngine) ClearCapture() { f.clears++ }

func (f *fakeEngine) SaveLick(name string, mode phrase.TimingMode, difficulty int) (phrase.Template, error) {
	f.saved = append(f.saved, name)
	return phrase.Template{Name: name, Notes: []phrase.Note{{SoundID: kit.SoundKick, Beat: 1}}}, nil
}

func (f *fakeEngine) Snapshot() engine.Snapshot { return f.snap }

func (f *fakeEngine) OnCapture(fn func(phrase.CapturedNote))         { f.listeners++ }
func (f *fakeEngine) OnRecognized(fn func(phrase.RecognitionResult)) { f.listeners++ }
func (f *fakeEngine) OnPhaseChange(fn func(duel.Phase, int))         { f.listeners++ }
func (f *fakeEngine) OnTurnScored(fn func(int))                      { f.listeners++ }

func newTestModel() (model, *fakeEngine) {
	f := &fakeEngine{snap: engine.Snapshot{Tempo: 120, BeatsPerBar: 4, TotalBars: 8}}
	return newModel(f, make(chan tea.Msg, 8)), f
}

func press(m model, keys ...tea.KeyMsg) model {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPadKeysCapture(t *testing.T) {
	t.Parallel()

	m, f := newTestModel()
	press(m, runes("f"), runes("j"), runes("x"), runes(";"))

	assert.Equal(t, []string{kit.SoundKick, kit.SoundSnare, kit.SoundRide}, f.captured)
}

func TestTransportKeys(t *testing.T) {
	t.Parallel()

	m, f := newTestModel()

	m = press(m, runes(" "))
	assert.True(t, f.running)
	assert.Equal(t, "Metronome on", m.status)

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, 1, f.starts)
	assert.Equal(t, 1, f.stops)

	m = press(m, runes("]"), runes("]"), runes("["), runes("}"))
	assert.Equal(t, 126, m.snap.Tempo)

	m = press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, 1, f.clears)
	assert.Equal(t, "Capture cleared", m.status)
}

func TestTempoKeysDuringADuel(t *testing.T) {
	t.Parallel()

	m, f := newTestModel()
	f.locked = true

	m = press(m, runes("}"))
	assert.Equal(t, 120, m.snap.Tempo)
	assert.Contains(t, m.status, "Tempo is locked")
}

func TestStartWithoutPhrasesShowsAHint(t *testing.T) {
	t.Parallel()

	m, f := newTestModel()
	f.startErr = duel.ErrNoPhrases

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.status, "No phrases available")
	assert.Contains(t, m.View(), "No phrases available")
}

func TestSaveLickDialog(t *testing.T) {
	t.Parallel()

	m, f := newTestModel()

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.True(t, m.saving)

	// pad keys type into the name while saving
	m = press(m, runes("f"), runes("u"), runes("n"), runes("k"))
	assert.Empty(t, f.captured)

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.saving)
	assert.Equal(t, []string{"funk"}, f.saved)
	assert.Equal(t, `Saved "funk" (1 notes)`, m.status)

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlS}, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.saving)
	assert.Len(t, f.saved, 1)
}

func TestQuit(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, next.(model).quitting)
}

func TestEngineEventsAreListed(t *testing.T) {
	t.Parallel()

	m, f := newTestModel()
	f.snap.Call = "Backbeat"

	for _, msg := range []tea.Msg{
		phaseMsg{duel.CountIn, 0},
		phaseMsg{duel.OpponentTurn, 1},
		phaseMsg{duel.PlayerTurn, 2},
		recognizedMsg(phrase.RecognitionResult{Template: phrase.Template{Name: "Backbeat"}, Accuracy: 96.7, Points: 48}),
		scoredMsg(48),
	} {
		next, cmd := m.Update(msg)
		require.NotNil(t, cmd)
		m = next.(model)
	}

	assert.Equal(t, []string{
		"Count-in...",
		"Bar 1: opponent plays Backbeat",
		"Bar 2: your turn",
		"Recognized Backbeat (97%) +48",
		"Turn scored +48",
	}, m.events)

	for i := 0; i < MaxEvents; i++ {
		next, _ := m.Update(scoredMsg(i))
		m = next.(model)
	}
	assert.Len(t, m.events, MaxEvents)
}

func TestSubscribeRegistersEveryListener(t *testing.T) {
	t.Parallel()

	_, f := newTestModel()
	subscribe(f, make(chan tea.Msg))
	assert.Equal(t, 4, f.listeners)
}

func TestView(t *testing.T) {
	t.Parallel()

	m, f := newTestModel()
	f.snap.Duel = duel.State{Phase: duel.PlayerTurn, Bar: 4, PlayerScore: 96}
	f.snap.Running = true
	f.snap.Beat = 2
	f.snap.Envelope = 0.5

	next, _ := m.Update(tickMsg{})
	m = next.(model)

	view := m.View()
	assert.Contains(t, view, "BPM: 120")
	assert.Contains(t, view, "bar 4/8")
	assert.Contains(t, view, "score 96")
	assert.Contains(t, view, "Kick")

	f.snap.Duel = duel.State{Phase: duel.Finished, Bar: 8, PlayerScore: 150}
	next, _ = m.Update(tickMsg{})
	assert.Contains(t, next.(model).View(), "Final score: 150")
}
