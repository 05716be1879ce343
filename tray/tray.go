package tray

import (
	"fmt"
	"sync"
	"time"
)

var (
	quitCh    = make(chan struct{})
	closeOnce sync.Once

	suspendCb func(bool)

	loginOn bool
	loginCb func(bool) error

	stateMu   sync.Mutex
	hotkeys   []string
	suspended bool
)

// OnSuspend sets the callback for the Suspend Hotkeys menu item. It is
// called with true to suspend and false to resume.
func OnSuspend(fn func(suspend bool)) { suspendCb = fn }
func SetLogin(on bool)                { loginOn = on }
func OnLogin(fn func(bool) error)     { loginCb = fn }

// SetState shows the live hotkeys and whether they are suspended.
func SetState(live []string, isSuspended bool) {
	stateMu.Lock()
	hotkeys = append([]string(nil), live...)
	suspended = isSuspended
	stateMu.Unlock()
	updateState(live, isSuspended)
	updateTooltip(tooltip())
}

func SetError(msg string) {
	updateTooltip("hotkeylistener – " + msg)
	go func() {
		time.Sleep(10 * time.Second)
		updateTooltip(tooltip())
	}()
}

func Quit() {
	closeOnce.Do(func() { close(quitCh) })
}

func tooltip() string {
	stateMu.Lock()
	defer stateMu.Unlock()
	switch {
	case suspended:
		return "hotkeylistener – suspended"
	case len(hotkeys) == 1:
		return "hotkeylistener – " + hotkeys[0]
	default:
		return fmt.Sprintf("hotkeylistener – %d hotkeys", len(hotkeys))
	}
}
