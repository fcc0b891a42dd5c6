package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/robmorgan/riffduel/duel"
	"github.com/robmorgan/riffduel/rhythm"
	"github.com/robmorgan/riffduel/utils"
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	eventStyle   = helpStyle.Copy().UnsetMargins()
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	appStyle     = lipgloss.NewStyle().Margin(1, 2, 0, 2)
)

var (
	beatOff   = mustHex("#303030")
	beatOn    = mustHex("#ff5fd7")
	downbeat  = mustHex("#5fd7ff")
	tierColor = map[rhythm.Tier]colorful.Color{
		rhythm.TierPerfect: mustHex("#00ff87"),
		rhythm.TierGood:    mustHex("#afff00"),
		rhythm.TierOK:      mustHex("#ffd700"),
		rhythm.TierPoor:    mustHex("#ff5f5f"),
	}
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("riffduel"))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "BPM: %d  %s\n", m.snap.Tempo, m.tempoBar.ViewAs(utils.ToUnitClamp(rhythm.MinTempo, rhythm.MaxTempo)(float64(m.snap.Tempo))))
	fmt.Fprintf(&b, "%s\n\n", m.beatView())

	b.WriteString(m.duelView())
	b.WriteString("\n")

	fmt.Fprintf(&b, "Captured: %d  Score: %d  Licks: %d\n", len(m.snap.Captured), m.snap.Score, m.snap.Licks)
	if n := m.lastNote; n != nil {
		tier := lipgloss.NewStyle().Foreground(lipgloss.Color(tierColor[n.Tier].Hex()))
		fmt.Fprintf(&b, "Last: %s beat %d +%.2f %s\n", n.Label, n.Beat, n.Subdivision, tier.Render(fmt.Sprintf("%s %.0fms", n.Tier, n.OffsetMs)))
	}

	if len(m.events) > 0 {
		b.WriteString("\n")
		for _, e := range m.events {
			b.WriteString(eventStyle.Render(e))
			b.WriteString("\n")
		}
	}

	if m.saving {
		fmt.Fprintf(&b, "\nSave lick: %s\n", m.input.View())
	}
	if m.status != "" {
		fmt.Fprintf(&b, "\n%s\n", statusStyle.Render(m.status))
	}

	b.WriteString(helpStyle.Render(m.helpView()))

	if m.quitting {
		b.WriteString("\n")
	}
	return appStyle.Render(b.String())
}

// beatView draws one block per beat; the current beat flashes and fades with the pulse.
func (m model) beatView() string {
	var blocks []string
	for beat := 1; beat <= m.snap.BeatsPerBar; beat++ {
		c := beatOff
		if m.snap.Running && beat == m.snap.Beat {
			on := beatOn
			if beat == 1 {
				on = downbeat
			}
			c = beatOff.BlendLab(on, m.snap.Envelope).Clamped()
		}
		blocks = append(blocks, lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("■"))
	}
	return strings.Join(blocks, " ")
}

func (m model) duelView() string {
	d := m.snap.Duel
	switch d.Phase {
	case duel.Idle:
		return "Duel: press enter to start\n"
	case duel.Finished:
		return fmt.Sprintf("Duel finished! Final score: %d\n", d.PlayerScore)
	}

	done := 0.0
	if m.snap.TotalBars > 0 {
		done = float64(d.Bar) / float64(m.snap.TotalBars)
	}

	s := fmt.Sprintf("%s Duel: %s  bar %d/%d  score %d\n", m.spinner.View(), d.Phase, d.Bar, m.snap.TotalBars, d.PlayerScore)
	s += m.duelBar.ViewAs(done) + "\n"
	if m.snap.Call != "" {
		s += fmt.Sprintf("Opponent: %s\n", m.snap.Call)
	}
	return s
}

func (m model) helpView() string {
	var pads []string
	for _, p := range m.kit.Pads {
		pads = append(pads, fmt.Sprintf("%s %s", p.Key, p.Label))
	}
	return strings.Join(pads, "  ") +
		"\n\n(space) metronome  (enter) duel  (esc) stop  ([,]) BPM -/+  (backspace) clear  (ctrl+s) save lick" +
		"\n\nPress ctrl+c to exit\n"
}
