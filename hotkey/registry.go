package hotkey

import (
	"fmt"

	"hotkeylistener/log"
)

// atomPrefix namespaces the atoms this package allocates.
const atomPrefix = "RE:"

type entry struct {
	id   int
	text string
}

// Registry owns the live id <-> hotkey mapping for one receiver. It is not
// safe for concurrent use; call it from the receiver thread.
type Registry struct {
	handle  Handle
	atoms   AtomTable
	binder  Binder
	entries []entry
}

func NewRegistry(h Handle, atoms AtomTable, binder Binder) *Registry {
	return &Registry{handle: h, atoms: atoms, binder: binder}
}

func (r *Registry) Handle() Handle { return r.handle }

// Add registers text as a global hotkey. It returns false with a nil error
// when the OS refuses the combination (already taken elsewhere). Syntax and
// atom allocation failures are returned as errors.
func (r *Registry) Add(text string) (bool, error) {
	combo, err := Parse(text)
	if err != nil {
		return false, err
	}
	text = combo.String()

	r.Remove(text)

	id, err := r.atoms.AddAtom(atomPrefix + text)
	if err != nil {
		return false, fmt.Errorf("allocating id for %s: %w", text, err)
	}

	if !r.binder.Register(r.handle, id, combo.Modifiers, combo.Key) {
		r.atoms.DeleteAtom(id)
		log.HotkeyConflict(text)
		return false, nil
	}

	r.entries = append(r.entries, entry{id: id, text: text})
	log.HotkeyRegistered(text, id)
	return true, nil
}

// Remove unregisters text if it is live. Unknown or unparsable text is a no-op.
func (r *Registry) Remove(text string) {
	if canon, err := Canonical(text); err == nil {
		text = canon
	}
	for i, e := range r.entries {
		if e.text != text {
			continue
		}
		r.release(e)
		r.entries = append(r.entries[:i], r.entries[i+1:]...)
		return
	}
}

// RemoveAll unregisters every live hotkey and releases its atom.
func (r *Registry) RemoveAll() {
	for _, e := range r.entries {
		r.release(e)
	}
	r.entries = nil
}

func (r *Registry) release(e entry) {
	if !r.binder.Unregister(r.handle, e.id) {
		log.Warnf("hotkey %s (id %d) was not bound at unregister", e.text, e.id)
	}
	r.atoms.DeleteAtom(e.id)
	log.Infof("hotkey_unregistered: %s", e.text)
}

// Lookup resolves a fired id to its canonical hotkey text.
func (r *Registry) Lookup(id int) (string, bool) {
	for _, e := range r.entries {
		if e.id == id {
			return e.text, true
		}
	}
	return "", false
}

// Contains reports whether text (in any accepted spelling) is live.
func (r *Registry) Contains(text string) bool {
	if canon, err := Canonical(text); err == nil {
		text = canon
	}
	for _, e := range r.entries {
		if e.text == text {
			return true
		}
	}
	return false
}

// Hotkeys returns the live hotkeys in registration order.
func (r *Registry) Hotkeys() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.text
	}
	return out
}

func (r *Registry) Len() int { return len(r.entries) }
