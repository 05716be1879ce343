package hotkey

import (
	"fmt"
	"sync"
)

// AtomTable hands out process-wide unique ids bound to names.
type AtomTable interface {
	// AddAtom returns the id for name, incrementing its reference count.
	AddAtom(name string) (int, error)
	// DeleteAtom drops one reference. Unknown ids are ignored.
	DeleteAtom(id int)
}

const (
	atomMin = 0xC000
	atomMax = 0xFFFF
	// maxAtomName matches the Win32 limit on atom names.
	maxAtomName = 255
)

type memoryAtom struct {
	name string
	refs int
}

// MemoryAtoms is an in-process AtomTable with Win32 semantics: ids live in
// 0xC000..0xFFFF, adding an existing name bumps its reference count, and a
// name is released once every reference is deleted.
type MemoryAtoms struct {
	mu     sync.Mutex
	byID   map[int]*memoryAtom
	byName map[string]int
	next   int
	limit  int
}

func NewMemoryAtoms() *MemoryAtoms {
	return &MemoryAtoms{
		byID:   make(map[int]*memoryAtom),
		byName: make(map[string]int),
		next:   atomMin,
		limit:  atomMax - atomMin + 1,
	}
}

// SetLimit caps the number of live atoms, for exhausting the table in tests.
func (a *MemoryAtoms) SetLimit(n int) {
	a.mu.Lock()
	a.limit = n
	a.mu.Unlock()
}

func (a *MemoryAtoms) AddAtom(name string) (int, error) {
	if name == "" || len(name) > maxAtomName {
		return 0, fmt.Errorf("%w: invalid atom name %q", ErrAtomAllocationFailed, name)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if id, ok := a.byName[name]; ok {
		a.byID[id].refs++
		return id, nil
	}
	if len(a.byID) >= a.limit {
		return 0, fmt.Errorf("%w: atom table full", ErrAtomAllocationFailed)
	}

	id := a.next
	for {
		if _, used := a.byID[id]; !used {
			break
		}
		id++
		if id > atomMax {
			id = atomMin
		}
	}
	a.next = id + 1
	if a.next > atomMax {
		a.next = atomMin
	}

	a.byID[id] = &memoryAtom{name: name, refs: 1}
	a.byName[name] = id
	return id, nil
}

func (a *MemoryAtoms) DeleteAtom(id int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	at, ok := a.byID[id]
	if !ok {
		return
	}
	at.refs--
	if at.refs > 0 {
		return
	}
	delete(a.byID, id)
	delete(a.byName, at.name)
}

// Len returns the number of live atoms.
func (a *MemoryAtoms) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.byID)
}

// Name returns the name bound to id.
func (a *MemoryAtoms) Name(id int) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	at, ok := a.byID[id]
	if !ok {
		return "", false
	}
	return at.name, true
}
