//go:build !windows

package uithread

import "runtime"

const queueSize = 64

func (t *Thread) start() error {
	t.queue = make(chan message, queueSize)
	ready := make(chan struct{})
	go t.loop(ready)
	<-ready
	return nil
}

func (t *Thread) loop(ready chan<- struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(t.done)

	t.tid = currentThreadID()
	close(ready)

	for m := range t.queue {
		switch m.msg {
		case wmQuit:
			t.drain()
			return
		case wmApp:
			t.drain()
		default:
			t.deliver(m.msg, m.wParam, m.lParam)
		}
	}
}

func (t *Thread) post(msg uint32, wParam, lParam uintptr) error {
	select {
	case t.queue <- message{msg: msg, wParam: wParam, lParam: lParam}:
		return nil
	case <-t.done:
		return ErrClosed
	}
}

func (t *Thread) quit() error {
	return t.post(wmQuit, 0, 0)
}
