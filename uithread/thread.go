// Package uithread runs a message-receiving goroutine pinned to one OS
// thread. Hotkey registrations are bound to the thread that made them, so
// every registry operation is marshalled here and fired hotkeys come back
// here as messages.
package uithread

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"hotkeylistener/log"
)

// ErrClosed is returned when posting to a thread that has shut down.
var ErrClosed = errors.New("ui thread closed")

const (
	wmQuit = 0x0012
	// wmApp wakes the loop to drain queued calls.
	wmApp = 0x8000

	closeTimeout = 2 * time.Second
)

type message struct {
	msg    uint32
	wParam uintptr
	lParam uintptr
}

// Thread is a locked OS thread with a message loop.
type Thread struct {
	tid  uint32
	done chan struct{}

	// queue carries messages on platforms without a native thread queue.
	queue chan message

	mu        sync.Mutex
	handlers  map[uint32]func(wParam, lParam uintptr)
	pending   []func()
	closing   bool
	closeOnce sync.Once
}

// Start launches the thread and returns once its message queue exists.
func Start() (*Thread, error) {
	t := &Thread{
		done:     make(chan struct{}),
		handlers: make(map[uint32]func(wParam, lParam uintptr)),
	}
	if err := t.start(); err != nil {
		return nil, err
	}
	log.Infof("ui thread started (tid %d)", t.tid)
	return t, nil
}

// ThreadID returns the OS id of the loop thread.
func (t *Thread) ThreadID() uint32 { return t.tid }

// OnThread reports whether the caller is running on the loop thread.
func (t *Thread) OnThread() bool {
	return t.tid != 0 && currentThreadID() == t.tid
}

// Done is closed when the loop exits.
func (t *Thread) Done() <-chan struct{} { return t.done }

// Handle installs fn for msg. fn runs on the loop thread. A nil fn removes
// the handler.
func (t *Thread) Handle(msg uint32, fn func(wParam, lParam uintptr)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if fn == nil {
		delete(t.handlers, msg)
		return
	}
	t.handlers[msg] = fn
}

// Post queues msg for the loop without waiting for it to be handled.
func (t *Thread) Post(msg uint32, wParam, lParam uintptr) error {
	if msg == wmQuit || msg == wmApp {
		return fmt.Errorf("message %#x is reserved", msg)
	}
	select {
	case <-t.done:
		return ErrClosed
	default:
	}
	return t.post(msg, wParam, lParam)
}

// Call runs fn on the loop thread and waits for it. Called from the loop
// thread itself, fn runs inline. A panic in fn is re-raised in the caller.
// After Close, fn is dropped.
func (t *Thread) Call(fn func()) {
	if t.OnThread() {
		fn()
		return
	}

	result := make(chan any, 1)
	wrapped := func() {
		defer func() { result <- recover() }()
		fn()
	}
	if err := t.enqueue(wrapped); err != nil {
		log.Warnf("ui thread call dropped: %v", err)
		return
	}

	select {
	case p := <-result:
		if p != nil {
			panic(p)
		}
	case <-t.done:
		select {
		case p := <-result:
			if p != nil {
				panic(p)
			}
		default:
			log.Warn("ui thread exited before call ran")
		}
	}
}

func (t *Thread) enqueue(fn func()) error {
	t.mu.Lock()
	if t.closing {
		t.mu.Unlock()
		return ErrClosed
	}
	t.pending = append(t.pending, fn)
	t.mu.Unlock()
	return t.post(wmApp, 0, 0)
}

func (t *Thread) drain() {
	t.mu.Lock()
	fns := t.pending
	t.pending = nil
	t.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// deliver runs the handler for msg and reports whether one was installed.
func (t *Thread) deliver(msg uint32, wParam, lParam uintptr) bool {
	t.mu.Lock()
	fn := t.handlers[msg]
	t.mu.Unlock()
	if fn == nil {
		return false
	}
	defer func() {
		if p := recover(); p != nil {
			log.Errorf("ui thread handler for %#x panicked: %v", msg, p)
		}
	}()
	fn(wParam, lParam)
	return true
}

// Close stops the loop and waits for it to exit. It is safe to call more
// than once and from the loop thread.
func (t *Thread) Close() {
	t.closeOnce.Do(func() {
		t.mu.Lock()
		t.closing = true
		t.mu.Unlock()

		if err := t.quit(); err != nil {
			log.Warnf("ui thread quit: %v", err)
		}
		if t.OnThread() {
			return
		}

		timer := time.NewTimer(closeTimeout)
		defer timer.Stop()
		select {
		case <-t.done:
		case <-timer.C:
			log.Warnf("ui thread %d did not exit within %s", t.tid, closeTimeout)
		}
	})
}

// Run executes fn on a fresh locked OS thread and waits for it. It is used
// for thread-affine work when no UI thread is available.
func Run(fn func()) {
	result := make(chan any, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer func() { result <- recover() }()
		fn()
	}()
	if p := <-result; p != nil {
		panic(p)
	}
}
