package hotkey

import (
	"errors"
	"testing"
)

func TestMemoryAtomsRefCount(t *testing.T) {
	a := NewMemoryAtoms()
	id1, err := a.AddAtom("RE:Control+E")
	if err != nil {
		t.Fatal(err)
	}
	if id1 < atomMin || id1 > atomMax {
		t.Fatalf("id %#x out of range", id1)
	}
	id2, _ := a.AddAtom("RE:Control+E")
	if id1 != id2 {
		t.Errorf("same name gave ids %#x and %#x", id1, id2)
	}

	a.DeleteAtom(id1)
	if a.Len() != 1 {
		t.Errorf("released after one of two references")
	}
	a.DeleteAtom(id1)
	if a.Len() != 0 {
		t.Errorf("Len = %d after releasing all references", a.Len())
	}
	if _, ok := a.Name(id1); ok {
		t.Error("name still bound")
	}
}

func TestMemoryAtomsLimit(t *testing.T) {
	a := NewMemoryAtoms()
	a.SetLimit(1)
	if _, err := a.AddAtom("one"); err != nil {
		t.Fatal(err)
	}
	if _, err := a.AddAtom("two"); !errors.Is(err, ErrAtomAllocationFailed) {
		t.Errorf("got %v, want ErrAtomAllocationFailed", err)
	}
	if _, err := a.AddAtom(""); !errors.Is(err, ErrAtomAllocationFailed) {
		t.Errorf("empty name: got %v", err)
	}
}
