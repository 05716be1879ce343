//go:build darwin

package hotkey

import (
	"sync"

	xhotkey "golang.design/x/hotkey"

	"hotkeylistener/log"
)

var darwinLetters = [26]xhotkey.Key{
	xhotkey.KeyA, xhotkey.KeyB, xhotkey.KeyC, xhotkey.KeyD, xhotkey.KeyE,
	xhotkey.KeyF, xhotkey.KeyG, xhotkey.KeyH, xhotkey.KeyI, xhotkey.KeyJ,
	xhotkey.KeyK, xhotkey.KeyL, xhotkey.KeyM, xhotkey.KeyN, xhotkey.KeyO,
	xhotkey.KeyP, xhotkey.KeyQ, xhotkey.KeyR, xhotkey.KeyS, xhotkey.KeyT,
	xhotkey.KeyU, xhotkey.KeyV, xhotkey.KeyW, xhotkey.KeyX, xhotkey.KeyY,
	xhotkey.KeyZ,
}

var darwinDigits = [10]xhotkey.Key{
	xhotkey.Key0, xhotkey.Key1, xhotkey.Key2, xhotkey.Key3, xhotkey.Key4,
	xhotkey.Key5, xhotkey.Key6, xhotkey.Key7, xhotkey.Key8, xhotkey.Key9,
}

var darwinFunction = [20]xhotkey.Key{
	xhotkey.KeyF1, xhotkey.KeyF2, xhotkey.KeyF3, xhotkey.KeyF4, xhotkey.KeyF5,
	xhotkey.KeyF6, xhotkey.KeyF7, xhotkey.KeyF8, xhotkey.KeyF9, xhotkey.KeyF10,
	xhotkey.KeyF11, xhotkey.KeyF12, xhotkey.KeyF13, xhotkey.KeyF14, xhotkey.KeyF15,
	xhotkey.KeyF16, xhotkey.KeyF17, xhotkey.KeyF18, xhotkey.KeyF19, xhotkey.KeyF20,
}

var darwinNamed = map[Key]xhotkey.Key{
	KeySpace:  xhotkey.KeySpace,
	KeyEnter:  xhotkey.KeyReturn,
	KeyEscape: xhotkey.KeyEscape,
	KeyBack:   xhotkey.KeyDelete,
	KeyTab:    xhotkey.KeyTab,
	KeyLeft:   xhotkey.KeyLeft,
	KeyRight:  xhotkey.KeyRight,
	KeyUp:     xhotkey.KeyUp,
	KeyDown:   xhotkey.KeyDown,
}

func darwinKey(k Key) (xhotkey.Key, bool) {
	switch {
	case k >= KeyA && k <= KeyZ:
		return darwinLetters[k-KeyA], true
	case k >= Key0 && k <= Key9:
		return darwinDigits[k-Key0], true
	case k >= KeyF1 && k < KeyF1+20:
		return darwinFunction[k-KeyF1], true
	}
	key, ok := darwinNamed[k]
	return key, ok
}

// Windows maps to Command and Alt to Option.
func darwinModifiers(m Modifier) []xhotkey.Modifier {
	var out []xhotkey.Modifier
	if m.Has(ModControl) {
		out = append(out, xhotkey.ModCtrl)
	}
	if m.Has(ModShift) {
		out = append(out, xhotkey.ModShift)
	}
	if m.Has(ModAlt) {
		out = append(out, xhotkey.ModOption)
	}
	if m.Has(ModWindows) {
		out = append(out, xhotkey.ModCmd)
	}
	return out
}

type darwinBinding struct {
	handle Handle
	hk     *xhotkey.Hotkey
	done   chan struct{}
}

type darwinBinder struct {
	rt       Poster
	mu       sync.Mutex
	bindings map[int]darwinBinding
}

// NewBinder returns a Binder backed by Carbon hotkeys. The process must run
// its main loop through mainthread.Init for registrations to take effect.
func NewBinder(rt Receiver) Binder {
	return &darwinBinder{rt: rt, bindings: make(map[int]darwinBinding)}
}

func (b *darwinBinder) Register(h Handle, id int, mods Modifier, key Key) bool {
	k, ok := darwinKey(key)
	if !ok {
		log.Warnf("no macOS key code for %s", key)
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.bindings[id]; dup {
		return false
	}

	hk := xhotkey.New(darwinModifiers(mods), k)
	if err := hk.Register(); err != nil {
		log.Warnf("hotkey register id=%d: %v", id, err)
		return false
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-hk.Keydown():
				if err := b.rt.Post(MsgHotkey, uintptr(id), 0); err != nil {
					log.Warnf("posting hotkey %d: %v", id, err)
				}
			}
		}
	}()

	b.bindings[id] = darwinBinding{handle: h, hk: hk, done: done}
	return true
}

func (b *darwinBinder) Unregister(h Handle, id int) bool {
	b.mu.Lock()
	bnd, ok := b.bindings[id]
	if ok && bnd.handle == h {
		delete(b.bindings, id)
	}
	b.mu.Unlock()

	if !ok || bnd.handle != h {
		return false
	}
	close(bnd.done)
	if err := bnd.hk.Unregister(); err != nil {
		log.Warnf("hotkey unregister id=%d: %v", id, err)
		return false
	}
	return true
}

func Diagnose() (string, error) {
	return "Carbon hotkey support available", nil
}
