package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"hotkeylistener/clipboard"
	"hotkeylistener/config"
	"hotkeylistener/foreground"
	"hotkeylistener/hotkey"
	"hotkeylistener/log"
	"hotkeylistener/notify"
	"hotkeylistener/selection"
	"hotkeylistener/uithread"
)

// testSelection stands in for the text selected in the focused window. The
// fake copy chord puts it on an in-memory clipboard, so the clipboard
// strategy runs end to end.
type testSelection struct {
	mu   sync.Mutex
	text string
	cb   *clipboard.Memory
}

func (s *testSelection) set(text string) {
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()
}

func (s *testSelection) Copy() error {
	s.mu.Lock()
	text := s.text
	s.mu.Unlock()
	if text != "" {
		s.cb.Set(text)
	}
	return nil
}

// runTestMode drives the listener from stdin with a fake binder, inspector
// and clipboard. Every command answers with OK or ERR on stdout.
func runTestMode(cfg config.Config) {
	notify.Disable()

	th, err := uithread.Start()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer th.Close()

	binder := hotkey.NewFake()
	binder.SetPoster(th)

	insp := foreground.NewFake()
	exe, _ := os.Executable()
	insp.Focus(1, os.Getpid(), exe, "hotkeylistener test")

	sel := &testSelection{cb: clipboard.NewMemory("clipboard-before-test")}
	reader := selection.NewReader(&selection.ClipboardStrategy{
		Clipboard: sel.cb,
		Copier:    sel,
		Thread:    th,
		Timeout:   cfg.Selection.ClipboardTimeout,
		Poll:      cfg.Selection.ClipboardPoll,
	}).WithPolicy(cfg.Selection.Policy)

	sink := newLineSink(os.Stdout)
	a := newApp(th, binder, hotkey.NewMemoryAtoms(), insp, reader, sink)
	a.Apply(cfg)
	log.SessionStart("test", len(a.Live()))
	defer a.Close()

	parse := func(arg string) (hotkey.KeyCombo, bool) {
		c, err := hotkey.Parse(arg)
		if err != nil {
			sink.printf("ERR %v", err)
			return hotkey.KeyCombo{}, false
		}
		return c, true
	}

	focusPID := os.Getpid() + 1
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch strings.ToUpper(cmd) {
		case "":
			continue
		case "ADD":
			c, ok := parse(arg)
			if !ok {
				continue
			}
			if ok, err := a.Add(c); err != nil {
				sink.printf("ERR %v", err)
			} else if !ok {
				sink.printf("ERR %s not registered", c)
			} else {
				sink.printf("OK")
			}
		case "TAKE":
			// Marks a combo as owned by another application.
			if c, ok := parse(arg); ok {
				binder.Take(c)
				sink.printf("OK")
			}
		case "REMOVE":
			if c, ok := parse(arg); ok {
				a.Remove(c)
				sink.printf("OK")
			}
		case "UPDATE":
			from, to, found := strings.Cut(arg, " ")
			if !found {
				sink.printf("ERR usage: UPDATE <current> <next>")
				continue
			}
			cur, ok1 := parse(from)
			next, ok2 := parse(strings.TrimSpace(to))
			if !ok1 || !ok2 {
				continue
			}
			if err := a.Update(cur, next); err != nil {
				sink.printf("ERR %v", err)
			} else {
				sink.printf("OK")
			}
		case "FIRE":
			c, ok := parse(arg)
			if !ok {
				continue
			}
			if _, bound := binder.Press(c); !bound {
				sink.printf("ERR %s is not bound", c)
				continue
			}
			// The press is posted; an empty Call returns once it is handled.
			th.Call(func() {})
			sink.printf("OK")
		case "SELECT":
			sel.set(arg)
			sink.printf("OK")
		case "FOCUS":
			// FOCUS <exe> [title]
			name, title, _ := strings.Cut(arg, " ")
			focusPID++
			insp.Focus(foreground.Handle(focusPID), focusPID, name, title)
			a.watcher.Poll()
			sink.printf("OK")
		case "SUSPEND":
			a.Suspend()
			sink.printf("OK")
		case "RESUME":
			a.Resume()
			sink.printf("OK")
		case "LIST":
			sink.printf("LIVE [%s] suspended=%v", strings.Join(a.Live(), ", "), a.Suspended())
		case "SLEEP":
			if ms, err := strconv.Atoi(arg); err == nil {
				time.Sleep(time.Duration(ms) * time.Millisecond)
			}
			sink.printf("OK")
		case "QUIT":
			return
		default:
			sink.printf("ERR unknown command %q", cmd)
		}
	}
}
