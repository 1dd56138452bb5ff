// Package tui provides the interactive plan preview: the numbered
// operation report in a scrollable viewport with confirm or abort keys.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/shigure/anishelf/internal/plan"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)
	indexStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	linkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	skipStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	arrowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// PreviewModel shows a planned run and waits for the user's verdict.
type PreviewModel struct {
	viewport  viewport.Model
	ops       []plan.Operation
	confirmed bool
	done      bool
	width     int
	height    int
}

// NewPreviewModel builds a preview over the full operation plan.
func NewPreviewModel(ops []plan.Operation) *PreviewModel {
	m := &PreviewModel{
		ops:    ops,
		width:  100,
		height: 30,
	}
	m.viewport = viewport.New(m.width, m.height-3)
	m.viewport.SetContent(m.render())
	return m
}

// Confirmed reports whether the user accepted the plan.
func (m *PreviewModel) Confirmed() bool { return m.confirmed }

func (m *PreviewModel) Init() tea.Cmd { return nil }

func (m *PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 3
		m.viewport.SetContent(m.render())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "y", "enter":
			m.confirmed = true
			m.done = true
			return m, tea.Quit
		case "q", "esc", "ctrl+c", "n":
			m.confirmed = false
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *PreviewModel) View() string {
	if m.done {
		return ""
	}
	header := headerStyle.Render(fmt.Sprintf("Planned operations (%d)", len(m.ops)))
	status := statusStyle.Render("y/enter apply • n/q/esc cancel • ↑/↓ scroll")
	return header + "\n" + m.viewport.View() + "\n" + status
}

// render lays the plan out as the numbered report, targets aligned in
// one column so sources line up underneath each other.
func (m *PreviewModel) render() string {
	targetWidth := 0
	for _, op := range m.ops {
		if w := runewidth.StringWidth(op.Target); w > targetWidth {
			targetWidth = w
		}
	}

	var b strings.Builder
	for i, op := range m.ops {
		b.WriteString(indexStyle.Render(fmt.Sprintf("%02d. ", i+1)))
		target := runewidth.FillRight(op.Target, targetWidth)
		if op.Op == plan.OpSkipDuplicate {
			b.WriteString(skipStyle.Render(target))
			b.WriteString(arrowStyle.Render(" (duplicate, skipped) "))
		} else {
			b.WriteString(linkStyle.Render(target))
			b.WriteString(arrowStyle.Render(" <- "))
		}
		b.WriteString(op.Source)
		b.WriteString("\n")
	}
	return b.String()
}

// Run blocks until the user confirms or aborts the plan.
func Run(ops []plan.Operation) (bool, error) {
	m := NewPreviewModel(ops)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return false, fmt.Errorf("preview failed: %w", err)
	}
	if pm, ok := final.(*PreviewModel); ok {
		return pm.Confirmed(), nil
	}
	return false, nil
}
