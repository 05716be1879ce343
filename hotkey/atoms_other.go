//go:build !windows

package hotkey

// NewAtoms returns a process-local atom table; global atoms are a Win32
// facility.
func NewAtoms() AtomTable { return NewMemoryAtoms() }
