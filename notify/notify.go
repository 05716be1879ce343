// Package notify raises desktop notifications for problems the user has to
// act on, such as a hotkey owned by another application.
package notify

import (
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"

	"hotkeylistener/hotkey"
	"hotkeylistener/log"
)

const title = "hotkeylistener"

var (
	mu       sync.Mutex
	disabled bool
	send     = func(title, message string) error { return beeep.Notify(title, message, "") }
	alert    = func(title, message string) error { return beeep.Alert(title, message, "") }
)

// Disable turns every notification into a no-op. Tests and headless runs
// call it before anything can fire.
func Disable() {
	mu.Lock()
	disabled = true
	mu.Unlock()
}

func Enable() {
	mu.Lock()
	disabled = false
	mu.Unlock()
}

func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return !disabled
}

// Conflict tells the user that c could not be registered because another
// application holds it.
func Conflict(c hotkey.KeyCombo) {
	deliver(alert, fmt.Sprintf("%s is already in use by another application", c))
}

// Info shows a plain notification.
func Info(message string) {
	deliver(send, message)
}

func deliver(fn func(title, message string) error, message string) {
	mu.Lock()
	off := disabled
	mu.Unlock()
	if off {
		return
	}
	if err := fn(title, message); err != nil {
		log.Warnf("notification failed: %v", err)
	}
}
