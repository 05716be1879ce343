package hotkey

import "sync"

type fakeBinding struct {
	handle Handle
	combo  KeyCombo
}

// FakeBinder is an in-memory Binder. Combos marked taken are refused the
// way the OS refuses hotkeys owned by another process.
type FakeBinder struct {
	mu     sync.Mutex
	bound  map[int]fakeBinding
	taken  map[KeyCombo]bool
	poster Poster
	closed bool
}

func NewFake() *FakeBinder {
	return &FakeBinder{
		bound: make(map[int]fakeBinding),
		taken: make(map[KeyCombo]bool),
	}
}

// SetPoster makes Press and Fire post MsgHotkey instead of only reporting
// the id.
func (f *FakeBinder) SetPoster(p Poster) {
	f.mu.Lock()
	f.poster = p
	f.mu.Unlock()
}

// Take marks c as owned by someone else.
func (f *FakeBinder) Take(c KeyCombo) {
	f.mu.Lock()
	f.taken[c] = true
	f.mu.Unlock()
}

// Release undoes Take.
func (f *FakeBinder) Release(c KeyCombo) {
	f.mu.Lock()
	delete(f.taken, c)
	f.mu.Unlock()
}

func (f *FakeBinder) Register(h Handle, id int, mods Modifier, key Key) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := KeyCombo{Modifiers: mods, Key: key}
	if f.taken[c] {
		return false
	}
	if _, dup := f.bound[id]; dup {
		return false
	}
	for _, b := range f.bound {
		if b.combo == c {
			return false
		}
	}
	f.bound[id] = fakeBinding{handle: h, combo: c}
	return true
}

func (f *FakeBinder) Unregister(h Handle, id int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bound[id]
	if !ok || b.handle != h {
		return false
	}
	delete(f.bound, id)
	return true
}

// Bound returns the id currently bound to c.
func (f *FakeBinder) Bound(c KeyCombo) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, b := range f.bound {
		if b.combo == c {
			return id, true
		}
	}
	return 0, false
}

// Len returns the number of bound hotkeys.
func (f *FakeBinder) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bound)
}

// Press simulates the user pressing c. It returns the fired id, or false
// if c is not bound. With a poster set, the id is also posted as MsgHotkey.
func (f *FakeBinder) Press(c KeyCombo) (int, bool) {
	id, ok := f.Bound(c)
	if !ok {
		return 0, false
	}
	f.mu.Lock()
	p := f.poster
	f.mu.Unlock()
	if p != nil {
		p.Post(MsgHotkey, uintptr(id), 0)
	}
	return id, true
}

// Fire posts MsgHotkey for id as if the OS had delivered it. Unbound ids
// are reported as false.
func (f *FakeBinder) Fire(id int) bool {
	f.mu.Lock()
	_, ok := f.bound[id]
	p := f.poster
	f.mu.Unlock()
	if !ok {
		return false
	}
	if p != nil {
		p.Post(MsgHotkey, uintptr(id), 0)
	}
	return true
}

// Close releases every binding, as the platform binders do on shutdown.
func (f *FakeBinder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clear(f.bound)
	f.closed = true
	return nil
}

func (f *FakeBinder) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
