//go:build !linux

package main

import (
	"runtime"

	"golang.design/x/hotkey/mainthread"
)

func init() {
	runtime.LockOSThread()
}

// Carbon hotkeys on macOS are delivered through the main thread's run
// loop, so run gives it up to mainthread.
func main() {
	mainthread.Init(run)
}
