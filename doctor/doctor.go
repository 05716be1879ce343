package doctor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"hotkeylistener/chord"
	"hotkeylistener/clipboard"
	"hotkeylistener/foreground"
	"hotkeylistener/hotkey"
	"hotkeylistener/selection"
	"hotkeylistener/uithread"
)

const probeHotkey = "Control+Shift+Space"

type check struct {
	title string
	// stopOnFail skips the remaining checks when this one fails.
	stopOnFail bool
	run        func(w io.Writer) (string, error)
}

// Run executes interactive diagnostic checks and returns an exit code (0=all pass, 1=any fail).
func Run() int {
	saveTerminal()

	fmt.Println("hotkeylistener doctor - interactive system diagnostics")
	fmt.Println("======================================================")

	th, err := uithread.Start()
	if err != nil {
		fmt.Printf("  FAIL: cannot start message thread: %v\n", err)
		return 1
	}
	defer th.Close()
	defer exitOnInterrupt(th.Close)()

	checks := []check{
		{title: "Hotkey support", stopOnFail: true, run: func(io.Writer) (string, error) { return hotkey.Diagnose() }},
		{title: "Hotkey detection", stopOnFail: true, run: func(w io.Writer) (string, error) { return checkHotkey(w, th) }},
		{title: "Clipboard write/read", run: checkClipboard},
		{title: "Copy chord", run: func(io.Writer) (string, error) { return chord.Verify() }},
		{title: "Foreground window", run: checkForeground},
		{title: "Selection read", run: func(w io.Writer) (string, error) { return checkSelection(w, th) }},
	}
	return runChecks(os.Stdout, checks)
}

func runChecks(w io.Writer, checks []check) int {
	allPass := true
	for i, c := range checks {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "[%d/%d] %s\n", i+1, len(checks), c.title)

		msg, err := c.run(w)
		if err != nil {
			fmt.Fprintf(w, "  FAIL: %v\n", err)
			allPass = false
			if c.stopOnFail {
				break
			}
			continue
		}
		fmt.Fprintf(w, "  PASS: %s\n", msg)
	}

	fmt.Fprintln(w)
	if allPass {
		fmt.Fprintln(w, "All checks passed!")
		return 0
	}
	fmt.Fprintln(w, "Some checks failed. See details above.")
	return 1
}

func countdown(w io.Writer, prompt string, n int) {
	fmt.Fprintln(w, prompt)
	for i := n; i > 0; i-- {
		fmt.Fprintf(w, "  %d...\n", i)
		time.Sleep(time.Second)
	}
}

func checkHotkey(w io.Writer, th *uithread.Thread) (string, error) {
	fmt.Fprintf(w, "Press %s...\n", probeHotkey)

	fired := make(chan struct{}, 1)
	th.Handle(hotkey.MsgHotkey, func(uintptr, uintptr) {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	defer th.Handle(hotkey.MsgHotkey, nil)

	reg := hotkey.NewRegistry(0, hotkey.NewAtoms(), hotkey.NewBinder(th))
	var ok bool
	var err error
	th.Call(func() { ok, err = reg.Add(probeHotkey) })
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%s is held by another application", probeHotkey)
	}
	defer th.Call(reg.RemoveAll)

	select {
	case <-fired:
		// The key chord may leave the terminal in raw mode.
		resetTerminal()
		return "hotkey detected", nil
	case <-time.After(10 * time.Second):
		return "", errors.New("timeout waiting for hotkey")
	}
}

func checkClipboard(io.Writer) (string, error) {
	if clipboard.Unsupported() {
		return "", errors.New("no clipboard utility available (install xclip, xsel or wl-clipboard)")
	}
	type result struct {
		msg string
		err error
	}
	ch := make(chan result, 1)
	go func() {
		msg, err := clipboard.Verify()
		ch <- result{msg, err}
	}()
	select {
	case r := <-ch:
		return r.msg, r.err
	case <-time.After(3 * time.Second):
		return "", errors.New("clipboard timed out (clipboard tool hung - compositor not accessible?)")
	}
}

func checkForeground(w io.Writer) (string, error) {
	countdown(w, "Focus any application window...", 3)
	src := foreground.Snapshot(context.Background(), foreground.New(), nil)
	if src.ProcessID == 0 {
		return "", errors.New("no foreground window reported")
	}
	name := src.ExecutableName
	if name == "" {
		name = "(unknown executable)"
	}
	return fmt.Sprintf("pid %d, %s, title %q", src.ProcessID, name, src.WindowTitle), nil
}

func checkSelection(w io.Writer, th *uithread.Thread) (string, error) {
	countdown(w, "Select some text in another application and focus it...", 5)

	r := selection.DefaultReader(selection.Options{Thread: th})
	src := foreground.Snapshot(context.Background(), foreground.New(), r)
	if src.Selection == "" {
		return "", fmt.Errorf("no selection read (strategies tried: %v)", r.For(src.ExecutableName).Strategies())
	}
	text := src.Selection
	if len(text) > 60 {
		text = text[:60] + "..."
	}
	return fmt.Sprintf("read %q from %s", text, src.ExecutableName), nil
}
