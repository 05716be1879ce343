//go:build windows

package hotkey

import (
	"golang.org/x/sys/windows"

	"hotkeylistener/log"
)

const (
	modAlt      = 0x0001
	modControl  = 0x0002
	modShift    = 0x0004
	modWin      = 0x0008
	modNoRepeat = 0x4000
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procRegisterHotKey   = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey = user32.NewProc("UnregisterHotKey")
)

type winBinder struct {
	rt Receiver
}

// NewBinder returns a Binder backed by RegisterHotKey. With a zero Handle
// the hotkey belongs to the calling thread's queue, so every call is made on
// rt, the thread pumping WM_HOTKEY.
func NewBinder(rt Receiver) Binder {
	return &winBinder{rt: rt}
}

func win32Modifiers(m Modifier) uintptr {
	out := uintptr(modNoRepeat)
	if m.Has(ModControl) {
		out |= modControl
	}
	if m.Has(ModShift) {
		out |= modShift
	}
	if m.Has(ModAlt) {
		out |= modAlt
	}
	if m.Has(ModWindows) {
		out |= modWin
	}
	return out
}

func (b *winBinder) Register(h Handle, id int, mods Modifier, key Key) bool {
	if err := user32.Load(); err != nil {
		log.Errorf("user32.dll is unavailable: %v", err)
		return false
	}
	var ok bool
	b.rt.Call(func() {
		r, _, err := procRegisterHotKey.Call(uintptr(h), uintptr(id), win32Modifiers(mods), uintptr(key))
		ok = r != 0
		if !ok {
			log.Warnf("RegisterHotKey id=%d: %v", id, err)
		}
	})
	return ok
}

func (b *winBinder) Unregister(h Handle, id int) bool {
	if user32.Load() != nil {
		return false
	}
	var ok bool
	b.rt.Call(func() {
		r, _, _ := procUnregisterHotKey.Call(uintptr(h), uintptr(id))
		ok = r != 0
	})
	return ok
}

// Diagnose checks that the hotkey entry points in user32.dll resolve.
func Diagnose() (string, error) {
	if err := procRegisterHotKey.Find(); err != nil {
		return "", err
	}
	if err := procUnregisterHotKey.Find(); err != nil {
		return "", err
	}
	return "RegisterHotKey available", nil
}
