package doctor

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"

	"hotkeylistener/shutdown"
)

var (
	termMu    sync.Mutex
	termState *term.State
)

// saveTerminal records the stdin mode so resetTerminal can put it back
// after a synthetic key chord.
func saveTerminal() {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return
	}
	st, err := term.GetState(fd)
	if err != nil {
		return
	}
	termMu.Lock()
	termState = st
	termMu.Unlock()
}

func resetTerminal() {
	termMu.Lock()
	st := termState
	termMu.Unlock()
	if st != nil {
		term.Restore(int(os.Stdin.Fd()), st)
	}
}

// exitOnInterrupt ends the process with status 1 on Ctrl+C, running
// cleanup first. The returned func stops watching.
func exitOnInterrupt(cleanup func()) (stop func()) {
	ctx, cancel := shutdown.Context(context.Background())
	done := make(chan struct{})
	go func() {
		defer cancel()
		select {
		case <-ctx.Done():
			fmt.Println("\nInterrupted")
			cleanup()
			resetTerminal()
			os.Exit(1)
		case <-done:
		}
	}()
	return func() { close(done) }
}
