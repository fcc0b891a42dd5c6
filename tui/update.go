package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/riffduel/duel"
	"github.com/robmorgan/riffduel/engine"
	"github.com/robmorgan/riffduel/phrase"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.saving {
			return m.updateSaving(msg)
		}
		return m.updateKeys(msg)
	case tickMsg:
		m.snap = m.engine.Snapshot()
		return m, tickCmd()
	case capturedMsg:
		n := phrase.CapturedNote(msg)
		m.lastNote = &n
		return m, waitForActivity(m.sub)
	case recognizedMsg:
		m.addEvent(fmt.Sprintf("Recognized %s (%.0f%%) +%d", msg.Template.Name, msg.Accuracy, msg.Points))
		return m, waitForActivity(m.sub)
	case phaseMsg:
		m.addEvent(phaseEvent(msg.phase, msg.bar, m.engine))
		return m, waitForActivity(m.sub)
	case scoredMsg:
		m.addEvent(fmt.Sprintf("Turn scored +%d", int(msg)))
		return m, waitForActivity(m.sub)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) nudgeTempo(delta int) {
	tempo, err := m.engine.SetTempo(m.snap.Tempo + delta)
	m.snap.Tempo = tempo
	if errors.Is(err, engine.ErrTempoLocked) {
		m.status = "Tempo is locked while the duel runs (esc to stop)"
	}
}

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch key := msg.String(); key {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case " ":
		if m.engine.ToggleMetronome() {
			m.status = "Metronome on"
		} else {
			m.status = "Metronome off"
		}
	case "enter":
		if err := m.engine.StartGame(); err != nil {
			if errors.Is(err, duel.ErrNoPhrases) {
				m.status = "No phrases available, record a lick first (ctrl+s)"
			} else {
				m.status = err.Error()
			}
		}
	case "esc":
		m.engine.StopGame()
	case "[":
		m.nudgeTempo(-1)
	case "]":
		m.nudgeTempo(1)
	case "{":
		m.nudgeTempo(-5)
	case "}":
		m.nudgeTempo(5)
	case "backspace":
		m.engine.ClearCapture()
		m.lastNote = nil
		m.status = "Capture cleared"
	case "ctrl+s":
		m.saving = true
		m.input.SetValue("")
		m.input.Focus()
	default:
		if pad, ok := m.kit.ByKey(key); ok {
			m.engine.Capture(pad.SoundID)
		}
	}

	m.snap = m.engine.Snapshot()
	return m, nil
}

func (m model) updateSaving(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.saving = false
		m.input.Blur()
		return m, nil
	case "enter":
		m.saving = false
		m.input.Blur()
		if t, err := m.engine.SaveLick(m.input.Value(), "", 0); err != nil {
			m.status = "Not saved: " + err.Error()
		} else {
			m.status = fmt.Sprintf("Saved %q (%d notes)", t.Name, len(t.Notes))
		}
		m.snap = m.engine.Snapshot()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) addEvent(e string) {
	m.events = append(m.events, e)
	if len(m.events) > MaxEvents {
		m.events = m.events[len(m.events)-MaxEvents:]
	}
}

func phaseEvent(p duel.Phase, bar int, e Engine) string {
	switch p {
	case duel.CountIn:
		return "Count-in..."
	case duel.OpponentTurn:
		if call := e.Snapshot().Call; call != "" {
			return fmt.Sprintf("Bar %d: opponent plays %s", bar, call)
		}
		return fmt.Sprintf("Bar %d: opponent", bar)
	case duel.PlayerTurn:
		return fmt.Sprintf("Bar %d: your turn", bar)
	case duel.Finished:
		return "Duel finished"
	}
	return "Duel stopped"
}
