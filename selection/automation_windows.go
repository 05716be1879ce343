//go:build windows

package selection

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"syscall"
	"unsafe"

	ole "github.com/go-ole/go-ole"
)

var (
	clsidCUIAutomation     = ole.NewGUID("{FF48DBA4-60EF-4201-AA87-54103EEF594E}")
	iidIUIAutomation       = ole.NewGUID("{30CBE57D-D9D0-452A-AB13-7AC5AC4825EE}")
	iidTextPattern         = ole.NewGUID("{32EBA289-3583-42C9-9C59-3B6D9A1E9B6A}")
	iidValuePattern        = ole.NewGUID("{A94CD8B1-0844-4CD6-9D2D-640537AB39E9}")
	errPatternNotSupported = errors.New("pattern not supported")
)

const (
	uiaTextPatternID  = 10014
	uiaValuePatternID = 10002

	sFalse          = 0x00000001
	rpcEChangedMode = 0x80010106
)

// vtable slots, counted from IUnknown::QueryInterface.
const (
	slotGetFocusedElement    = 8  // IUIAutomation
	slotGetCurrentPatternAs  = 14 // IUIAutomationElement
	slotGetSelection         = 5  // IUIAutomationTextPattern
	slotRangeArrayLength     = 3  // IUIAutomationTextRangeArray
	slotRangeArrayGetElement = 4
	slotRangeGetText         = 12 // IUIAutomationTextRange
	slotGetCurrentValue      = 4  // IUIAutomationValuePattern
)

func comCall(obj *ole.IUnknown, slot int, args ...uintptr) error {
	vtbl := *(**[32]uintptr)(unsafe.Pointer(obj))
	hr, _, _ := syscall.SyscallN(vtbl[slot], append([]uintptr{uintptr(unsafe.Pointer(obj))}, args...)...)
	if hr != 0 {
		return ole.NewError(hr)
	}
	return nil
}

func takeBSTR(p *uint16) string {
	if p == nil {
		return ""
	}
	s := ole.BstrToString(p)
	ole.SysFreeString((*int16)(unsafe.Pointer(p)))
	return s
}

// AutomationStrategy asks UI Automation for the focused element's text
// selection. Elements without a text pattern fall back to their value
// pattern, which returns the whole value rather than only the selection.
type AutomationStrategy struct{}

func (AutomationStrategy) Name() string { return Automation }

func (AutomationStrategy) Read(ctx context.Context) (string, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
		var oe *ole.OleError
		if !errors.As(err, &oe) {
			return "", fmt.Errorf("CoInitializeEx: %w", err)
		}
		switch oe.Code() {
		case sFalse:
			defer ole.CoUninitialize()
		case rpcEChangedMode:
		default:
			return "", fmt.Errorf("CoInitializeEx: %w", err)
		}
	} else {
		defer ole.CoUninitialize()
	}

	uia, err := ole.CreateInstance(clsidCUIAutomation, iidIUIAutomation)
	if err != nil {
		return "", fmt.Errorf("create CUIAutomation: %w", err)
	}
	defer uia.Release()

	var element *ole.IUnknown
	if err := comCall(uia, slotGetFocusedElement, uintptr(unsafe.Pointer(&element))); err != nil {
		return "", fmt.Errorf("GetFocusedElement: %w", err)
	}
	if element == nil {
		return "", nil
	}
	defer element.Release()

	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	text, err := readTextPattern(element)
	if !errors.Is(err, errPatternNotSupported) {
		return text, err
	}
	text, err = readValuePattern(element)
	if errors.Is(err, errPatternNotSupported) {
		return "", nil
	}
	return text, err
}

func currentPattern(element *ole.IUnknown, id int32, iid *ole.GUID) (*ole.IUnknown, error) {
	var pattern *ole.IUnknown
	if err := comCall(element, slotGetCurrentPatternAs, uintptr(id), uintptr(unsafe.Pointer(iid)), uintptr(unsafe.Pointer(&pattern))); err != nil {
		return nil, err
	}
	if pattern == nil {
		return nil, errPatternNotSupported
	}
	return pattern, nil
}

func readTextPattern(element *ole.IUnknown) (string, error) {
	pattern, err := currentPattern(element, uiaTextPatternID, iidTextPattern)
	if err != nil {
		return "", err
	}
	defer pattern.Release()

	var ranges *ole.IUnknown
	if err := comCall(pattern, slotGetSelection, uintptr(unsafe.Pointer(&ranges))); err != nil {
		return "", fmt.Errorf("GetSelection: %w", err)
	}
	if ranges == nil {
		return "", nil
	}
	defer ranges.Release()

	var n int32
	if err := comCall(ranges, slotRangeArrayLength, uintptr(unsafe.Pointer(&n))); err != nil {
		return "", fmt.Errorf("range count: %w", err)
	}

	parts := make([]string, 0, n)
	for i := int32(0); i < n; i++ {
		var rng *ole.IUnknown
		if err := comCall(ranges, slotRangeArrayGetElement, uintptr(i), uintptr(unsafe.Pointer(&rng))); err != nil || rng == nil {
			continue
		}
		var bstr *uint16
		maxLength := int32(-1)
		err := comCall(rng, slotRangeGetText, uintptr(maxLength), uintptr(unsafe.Pointer(&bstr)))
		rng.Release()
		if err != nil {
			continue
		}
		parts = append(parts, takeBSTR(bstr))
	}
	return strings.Join(parts, "\r\n"), nil
}

func readValuePattern(element *ole.IUnknown) (string, error) {
	pattern, err := currentPattern(element, uiaValuePatternID, iidValuePattern)
	if err != nil {
		return "", err
	}
	defer pattern.Release()

	var bstr *uint16
	if err := comCall(pattern, slotGetCurrentValue, uintptr(unsafe.Pointer(&bstr))); err != nil {
		return "", fmt.Errorf("get_CurrentValue: %w", err)
	}
	return takeBSTR(bstr), nil
}
