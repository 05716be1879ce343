//go:build windows

package hotkey

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procGlobalAddAtomW   = kernel32.NewProc("GlobalAddAtomW")
	procGlobalDeleteAtom = kernel32.NewProc("GlobalDeleteAtom")
)

type globalAtoms struct{}

// NewAtoms returns the system global atom table.
func NewAtoms() AtomTable { return globalAtoms{} }

func (globalAtoms) AddAtom(name string) (int, error) {
	if name == "" || len(name) > maxAtomName {
		return 0, fmt.Errorf("%w: invalid atom name %q", ErrAtomAllocationFailed, name)
	}
	if err := procGlobalAddAtomW.Find(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAtomAllocationFailed, err)
	}
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAtomAllocationFailed, err)
	}
	r, _, callErr := procGlobalAddAtomW.Call(uintptr(unsafe.Pointer(p)))
	if r == 0 {
		return 0, fmt.Errorf("%w: GlobalAddAtomW: %v", ErrAtomAllocationFailed, callErr)
	}
	return int(uint16(r)), nil
}

// DeleteAtom ignores failures; the OS reference-counts global atoms and a
// second delete of a released atom is harmless.
func (globalAtoms) DeleteAtom(id int) {
	if id <= 0 || procGlobalDeleteAtom.Find() != nil {
		return
	}
	procGlobalDeleteAtom.Call(uintptr(uint16(id)))
}
