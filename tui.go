package main

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hotkeylistener/hotkey"
	"hotkeylistener/listener"
)

// TUI message types
type FiredMsg struct{ Event listener.Event }
type HotkeysMsg struct {
	Live      []string
	Suspended bool
}
type ConflictMsg struct{ Hotkey string }
type StatusMsg struct{ Text string }

const maxTUIEvents = 8

type tuiModel struct {
	width, height int
	live          []string
	suspended     bool
	conflicts     []string
	events        []firedLine // newest first
	fired         int
	status        string
}

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	suspendStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	conflictStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	textStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
)

func NewTUIProgram() *tea.Program {
	return tea.NewProgram(tuiModel{}, tea.WithAltScreen())
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case FiredMsg:
		m.fired++
		m.events = append([]firedLine{newFiredLine(msg.Event)}, m.events...)
		if len(m.events) > maxTUIEvents {
			m.events = m.events[:maxTUIEvents]
		}

	case HotkeysMsg:
		m.live = msg.Live
		m.suspended = msg.Suspended
		m.conflicts = slices.DeleteFunc(m.conflicts, func(k string) bool {
			return slices.Contains(msg.Live, k)
		})

	case ConflictMsg:
		if !slices.Contains(m.conflicts, msg.Hotkey) {
			m.conflicts = append(m.conflicts, msg.Hotkey)
		}

	case StatusMsg:
		m.status = msg.Text
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("hotkeylistener " + version))
	b.WriteString("  ")
	if m.suspended {
		b.WriteString(suspendStyle.Render("● SUSPENDED"))
	} else {
		b.WriteString(activeStyle.Render("● LISTENING"))
	}
	b.WriteString("\n\n")

	if len(m.live) == 0 {
		b.WriteString(dimStyle.Render("No hotkeys registered") + "\n")
	}
	for _, k := range m.live {
		b.WriteString("  " + keyStyle.Render(k) + "\n")
	}
	for _, k := range m.conflicts {
		b.WriteString("  " + conflictStyle.Render(k+" (in use by another application)") + "\n")
	}
	b.WriteString("\n")

	wrapWidth := m.width - 4
	if wrapWidth < 20 {
		wrapWidth = 20
	}
	if len(m.events) == 0 {
		b.WriteString(dimStyle.Render("No hotkeys fired yet") + "\n")
	} else {
		b.WriteString(dimStyle.Render(fmt.Sprintf("Recent events (%d total)", m.fired)) + "\n")
	}
	for _, e := range m.events {
		head := fmt.Sprintf("%s  %s  %s", e.at.Format("15:04:05"), e.hotkey, e.exe)
		if e.title != "" {
			head += "  " + clip(e.title, 40)
		}
		b.WriteString(keyStyle.Render(head) + "\n")
		if e.text == "" {
			b.WriteString(dimStyle.Render("    (no selection)") + "\n")
			continue
		}
		for _, line := range wrapText(clip(e.text, 3*wrapWidth), wrapWidth) {
			b.WriteString("    " + textStyle.Render(line) + "\n")
		}
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(dimStyle.Render(m.status) + "\n")
	}
	b.WriteString(helpStyle.Render("q to quit"))

	return lipgloss.NewStyle().
		Width(m.width).
		MaxHeight(m.height).
		Render(b.String())
}

func wrapText(text string, width int) []string {
	if len(text) == 0 {
		return []string{""}
	}
	if width <= 0 {
		width = 1
	}

	var lines []string
	for len(text) > width {
		// Find last space within width
		splitAt := width
		for i := width; i > 0; i-- {
			if text[i] == ' ' {
				splitAt = i
				break
			}
		}
		lines = append(lines, text[:splitAt])
		text = strings.TrimLeft(text[splitAt:], " ")
	}
	if len(text) > 0 {
		lines = append(lines, text)
	}
	return lines
}

// tuiSink forwards listener events to the running program.
type tuiSink struct{}

func send(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func (tuiSink) Fired(ev listener.Event) { send(FiredMsg{Event: ev}) }

func (tuiSink) Hotkeys(live []string, suspended bool) {
	send(HotkeysMsg{Live: live, Suspended: suspended})
}

func (tuiSink) Conflict(c hotkey.KeyCombo) { send(ConflictMsg{Hotkey: c.String()}) }

func (tuiSink) Status(text string) { send(StatusMsg{Text: text}) }
