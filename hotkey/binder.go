package hotkey

// Handle identifies the message receiver a hotkey is bound to. Zero means
// the message queue of the receiving thread itself.
type Handle uintptr

// Binder registers global hotkeys with the OS. A false return is an
// expected outcome (the combo is owned by another process, or nothing was
// bound), not an error.
type Binder interface {
	Register(h Handle, id int, mods Modifier, key Key) bool
	Unregister(h Handle, id int) bool
}

// Poster delivers a message onto the receiver thread. Binders that learn
// about key presses on their own goroutines use it to hand hotkey ids to
// the thread that owns the registry.
type Poster interface {
	Post(msg uint32, wParam, lParam uintptr) error
}

// MsgHotkey is the message posted when a registered hotkey fires; wParam
// carries the hotkey id. It has the value of WM_HOTKEY.
const MsgHotkey uint32 = 0x0312

// Receiver is the thread that owns hotkey registrations: registration calls
// must run on it and fired hotkeys are delivered to it.
type Receiver interface {
	Poster
	Call(fn func())
}
