//go:build windows

package selection

import (
	"context"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procAttachThreadInput   = user32.NewProc("AttachThreadInput")
	procGetFocus            = user32.NewProc("GetFocus")
	procSendMessageTimeoutW = user32.NewProc("SendMessageTimeoutW")
)

const (
	wmGetText       = 0x000D
	wmGetTextLength = 0x000E
	emGetSel        = 0x00B0

	smtoAbortIfHung = 0x0002
	// sendTimeoutMs bounds each message to a foreign window.
	sendTimeoutMs = 500
)

// ControlStrategy queries the focused classic edit control directly. The
// calling thread's input is attached to the foreground thread for the
// duration so GetFocus can see across processes.
type ControlStrategy struct{}

func (ControlStrategy) Name() string { return Control }

func sendMessage(hwnd uintptr, msg uint32, wParam, lParam uintptr) (uintptr, bool) {
	var result uintptr
	r, _, _ := procSendMessageTimeoutW.Call(hwnd, uintptr(msg), wParam, lParam,
		smtoAbortIfHung, sendTimeoutMs, uintptr(unsafe.Pointer(&result)))
	return result, r != 0
}

func (ControlStrategy) Read(ctx context.Context) (string, error) {
	if err := user32.Load(); err != nil {
		return "", err
	}

	fg := windows.GetForegroundWindow()
	if fg == 0 {
		return "", nil
	}
	var pid uint32
	fgThread, err := windows.GetWindowThreadProcessId(fg, &pid)
	if err != nil {
		return "", err
	}

	self := windows.GetCurrentThreadId()
	if fgThread != self {
		r, _, _ := procAttachThreadInput.Call(uintptr(self), uintptr(fgThread), 1)
		if r != 0 {
			defer procAttachThreadInput.Call(uintptr(self), uintptr(fgThread), 0)
		}
	}

	focus, _, _ := procGetFocus.Call()
	if focus == 0 {
		return "", nil
	}

	length, ok := sendMessage(focus, wmGetTextLength, 0, 0)
	if !ok || length == 0 {
		return "", nil
	}

	var start, end uint32
	if _, ok := sendMessage(focus, emGetSel, uintptr(unsafe.Pointer(&start)), uintptr(unsafe.Pointer(&end))); !ok {
		return "", nil
	}
	if end <= start {
		return "", nil
	}

	buf := make([]uint16, length+1)
	copied, ok := sendMessage(focus, wmGetText, uintptr(len(buf)), uintptr(unsafe.Pointer(&buf[0])))
	if !ok {
		return "", nil
	}
	return sliceSelection(buf[:copied], start, end), nil
}
