//go:build windows

package uithread

import (
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"

	"hotkeylistener/log"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procGetMessageW        = user32.NewProc("GetMessageW")
	procTranslateMessage   = user32.NewProc("TranslateMessage")
	procDispatchMessageW   = user32.NewProc("DispatchMessageW")
	procPostThreadMessageW = user32.NewProc("PostThreadMessageW")
	procPeekMessageW       = user32.NewProc("PeekMessageW")
)

const pmNoRemove = 0x0000

type point struct {
	x int32
	y int32
}

// winMsg mirrors the Win32 MSG layout.
type winMsg struct {
	hWnd     uintptr
	message  uint32
	wParam   uintptr
	lParam   uintptr
	time     uint32
	pt       point
	lPrivate uint32
}

func currentThreadID() uint32 { return windows.GetCurrentThreadId() }

func (t *Thread) start() error {
	if err := user32.Load(); err != nil {
		return fmt.Errorf("user32.dll is unavailable: %w", err)
	}
	ready := make(chan struct{})
	go t.pump(ready)
	<-ready
	return nil
}

func (t *Thread) pump(ready chan<- struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(t.done)

	t.tid = currentThreadID()

	// The thread has no queue until it touches one; PostThreadMessageW
	// fails against a thread without a queue.
	var qmsg winMsg
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&qmsg)), 0, 0, 0, pmNoRemove)
	close(ready)

	for {
		var msg winMsg
		ret, _, err := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		switch int32(ret) {
		case -1:
			log.Errorf("GetMessageW failed, ui thread exiting: %v", err)
			return
		case 0:
			t.drain()
			return
		}

		if msg.hWnd == 0 {
			if msg.message == wmApp {
				t.drain()
				continue
			}
			if t.deliver(msg.message, msg.wParam, msg.lParam) {
				continue
			}
		}

		procTranslateMessage.Call(uintptr(unsafe.Pointer(&msg)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&msg)))
	}
}

func (t *Thread) post(msg uint32, wParam, lParam uintptr) error {
	r, _, err := procPostThreadMessageW.Call(uintptr(t.tid), uintptr(msg), wParam, lParam)
	if r == 0 {
		return fmt.Errorf("PostThreadMessageW(%#x): %w", msg, err)
	}
	return nil
}

func (t *Thread) quit() error {
	return t.post(wmQuit, 0, 0)
}
