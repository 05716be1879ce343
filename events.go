package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"hotkeylistener/hotkey"
	"hotkeylistener/listener"
	"hotkeylistener/tray"
)

// EventSink abstracts the display layer so both the Bubble Tea TUI and the
// plain line output receive the same listener events.
type EventSink interface {
	Fired(ev listener.Event)
	Hotkeys(live []string, suspended bool)
	Conflict(c hotkey.KeyCombo)
	Status(text string)
}

// lineSink writes one line per event, for pipes and the -test mode.
type lineSink struct {
	mu sync.Mutex
	w  io.Writer
}

func newLineSink(w io.Writer) *lineSink {
	return &lineSink{w: w}
}

func (s *lineSink) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, format+"\n", args...)
}

func (s *lineSink) Fired(ev listener.Event) {
	src := ev.Source
	s.printf("FIRED %s exe=%s title=%q selection=%q",
		ev.Hotkey, orDash(src.ExecutableName), src.WindowTitle, clip(src.Selection, 200))
}

func (s *lineSink) Hotkeys(live []string, suspended bool) {
	state := "active"
	if suspended {
		state = "suspended"
	}
	s.printf("HOTKEYS %s [%s]", state, strings.Join(live, ", "))
}

func (s *lineSink) Conflict(c hotkey.KeyCombo) {
	s.printf("CONFLICT %s", c)
}

func (s *lineSink) Status(text string) {
	s.printf("STATUS %s", text)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// clip shortens s to n runes, collapsing line breaks.
func clip(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

// multiSink fans every event out to each sink in order.
type multiSink []EventSink

func (m multiSink) Fired(ev listener.Event) {
	for _, s := range m {
		s.Fired(ev)
	}
}

func (m multiSink) Hotkeys(live []string, suspended bool) {
	for _, s := range m {
		s.Hotkeys(live, suspended)
	}
}

func (m multiSink) Conflict(c hotkey.KeyCombo) {
	for _, s := range m {
		s.Conflict(c)
	}
}

func (m multiSink) Status(text string) {
	for _, s := range m {
		s.Status(text)
	}
}

// traySink mirrors hotkey state into the menu bar item.
type traySink struct{}

func (traySink) Fired(listener.Event) {}

func (traySink) Hotkeys(live []string, suspended bool) { tray.SetState(live, suspended) }

func (traySink) Conflict(c hotkey.KeyCombo) { tray.SetError(c.String() + " is in use") }

func (traySink) Status(string) {}

type firedLine struct {
	at     time.Time
	hotkey string
	exe    string
	title  string
	text   string
}

func newFiredLine(ev listener.Event) firedLine {
	return firedLine{
		at:     ev.At,
		hotkey: ev.Hotkey.String(),
		exe:    orDash(ev.Source.ExecutableName),
		title:  ev.Source.WindowTitle,
		text:   ev.Source.Selection,
	}
}
