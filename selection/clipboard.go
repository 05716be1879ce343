package selection

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hotkeylistener/chord"
	"hotkeylistener/clipboard"
	"hotkeylistener/log"
	"hotkeylistener/uithread"
)

const (
	DefaultClipboardTimeout = 400 * time.Millisecond
	DefaultClipboardPoll    = 20 * time.Millisecond
)

// Caller runs a function on the thread that owns keyboard input.
type Caller interface {
	Call(fn func())
}

// ClipboardStrategy copies the selection with a synthetic copy chord and
// reads it off the clipboard, putting the previous content back afterwards.
// If the clipboard does not change, nothing was selected. A clipboard that
// holds no text (empty, an image) reads as "" and is left as the chord
// leaves it.
//
// The clipboard is shared: anything another process writes between the
// snapshot and the restore is overwritten.
type ClipboardStrategy struct {
	Clipboard clipboard.Clipboard
	Copier    chord.Copier
	// Thread sends the chord. Without one, a short-lived locked thread is
	// used and joined.
	Thread Caller
	// Timeout bounds the wait for the target application to answer the
	// chord; Poll is the clipboard polling interval.
	Timeout time.Duration
	Poll    time.Duration
}

func (s *ClipboardStrategy) Name() string { return Clipboard }

func (s *ClipboardStrategy) Read(ctx context.Context) (string, error) {
	before, err := s.Clipboard.Read()
	restore := err == nil
	if err != nil {
		log.Warnf("snapshot clipboard: %v", err)
		before = ""
	}

	var sendErr error
	s.run(func() { sendErr = s.Copier.Copy() })
	if sendErr != nil {
		return "", fmt.Errorf("copy chord: %w", sendErr)
	}

	after := s.await(ctx, before)
	if after == before {
		return "", nil
	}
	if restore {
		if err := s.Clipboard.Write(before); err != nil {
			log.Warnf("restoring clipboard: %v", err)
		}
	}
	if strings.TrimSpace(after) == "" {
		return "", nil
	}
	return after, nil
}

func (s *ClipboardStrategy) run(fn func()) {
	if s.Thread != nil {
		s.Thread.Call(fn)
		return
	}
	uithread.Run(fn)
}

// await polls until the clipboard differs from before, the timeout passes
// or ctx is done, and returns the last value read.
func (s *ClipboardStrategy) await(ctx context.Context, before string) string {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultClipboardTimeout
	}
	poll := s.Poll
	if poll <= 0 {
		poll = DefaultClipboardPoll
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(poll)
	defer tick.Stop()

	current := before
	for {
		if text, err := s.Clipboard.Read(); err == nil {
			current = text
			if current != before {
				return current
			}
		}
		select {
		case <-ctx.Done():
			return current
		case <-deadline.C:
			return current
		case <-tick.C:
		}
	}
}
