//go:build windows

package foreground

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procGetWindowTextW       = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW = user32.NewProc("GetWindowTextLengthW")
)

type winInspector struct {
	processInfo
}

// New returns the Win32 inspector.
func New() Inspector { return winInspector{} }

func (winInspector) ForegroundWindow() Handle {
	return Handle(windows.GetForegroundWindow())
}

func (winInspector) ProcessID(h Handle) int {
	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(windows.HWND(h), &pid); err != nil {
		return 0
	}
	return int(pid)
}

func (winInspector) WindowTitle(h Handle) (string, bool) {
	if h == 0 || user32.Load() != nil {
		return "", false
	}
	n, _, _ := procGetWindowTextLengthW.Call(uintptr(h))
	if n == 0 {
		return "", false
	}
	buf := make([]uint16, n+1)
	copied, _, _ := procGetWindowTextW.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if copied == 0 {
		return "", false
	}
	return windows.UTF16ToString(buf[:copied]), true
}
