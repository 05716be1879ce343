//go:build linux

package chord

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"
)

// ioctl numbers from linux/uinput.h
const (
	uiSetEvbit  = 0x40045564
	uiSetKeybit = 0x40045565
	uiDevCreate = 0x5501
)

const (
	evSyn = 0x00
	evKey = 0x01

	keyLeftCtrl = 29
	keyC        = 46

	busUSB     = 0x03
	deviceName = "hotkeylistener-chord"
	// tapDelay lets the compositor see the modifier before the key.
	tapDelay = 5 * time.Millisecond
)

type inputEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

type uinputUserDev struct {
	Name         [80]byte
	ID           inputID
	FfEffectsMax uint32
	Absmax       [64]int32
	Absmin       [64]int32
	Absfuzz      [64]int32
	Absflat      [64]int32
}

var (
	dev     *os.File
	devOnce sync.Once
	devErr  error
	devMu   sync.Mutex
)

func uinputPath() (string, error) {
	for _, p := range []string{"/dev/uinput", "/dev/input/uinput"} {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", errors.New("uinput device not found, try: sudo modprobe uinput")
}

func ioctl(f *os.File, req, arg uintptr) error {
	if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), req, arg); errno != 0 {
		return errno
	}
	return nil
}

// Init creates the virtual keyboard used for injection. It works on both
// X11 and Wayland but needs write access to /dev/uinput.
func Init() error {
	devOnce.Do(func() {
		devErr = createDevice()
	})
	return devErr
}

func createDevice() error {
	path, err := uinputPath()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|syscall.O_NONBLOCK, os.ModeDevice)
	if err != nil {
		return err
	}

	setup := []struct{ req, arg uintptr }{
		{uiSetEvbit, evKey},
		{uiSetEvbit, evSyn},
	}
	// udev only classifies the device as a keyboard when it claims a full key range.
	for i := uintptr(0); i < 256; i++ {
		setup = append(setup, struct{ req, arg uintptr }{uiSetKeybit, i})
	}
	for _, s := range setup {
		if err := ioctl(f, s.req, s.arg); err != nil {
			f.Close()
			return fmt.Errorf("uinput setup: %w", err)
		}
	}

	var ud uinputUserDev
	copy(ud.Name[:], deviceName)
	ud.ID = inputID{Bustype: busUSB, Vendor: 0x1234, Product: 0x5679, Version: 1}
	if err := binary.Write(f, binary.LittleEndian, &ud); err != nil {
		f.Close()
		return err
	}
	if err := ioctl(f, uiDevCreate, 0); err != nil {
		f.Close()
		return fmt.Errorf("uinput create: %w", err)
	}

	dev = f
	// The compositor needs a moment to pick up the new device.
	time.Sleep(200 * time.Millisecond)
	return nil
}

func emit(code uint16, value int32) error {
	if err := binary.Write(dev, binary.LittleEndian, &inputEvent{Type: evKey, Code: code, Value: value}); err != nil {
		return err
	}
	return binary.Write(dev, binary.LittleEndian, &inputEvent{Type: evSyn})
}

// Send presses and releases Ctrl+C.
func Send() error {
	if err := Init(); err != nil {
		return err
	}
	devMu.Lock()
	defer devMu.Unlock()

	steps := []struct {
		code  uint16
		value int32
	}{
		{keyLeftCtrl, 1},
		{keyC, 1},
		{keyC, 0},
		{keyLeftCtrl, 0},
	}
	for i, s := range steps {
		if err := emit(s.code, s.value); err != nil {
			return err
		}
		if i < len(steps)-1 {
			time.Sleep(tapDelay)
		}
	}
	return nil
}

func findDevice() (string, error) {
	entries, err := os.ReadDir("/sys/class/input")
	if err != nil {
		return "", fmt.Errorf("cannot scan input devices: %w", err)
	}
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		data, err := os.ReadFile(filepath.Join("/sys/class/input", e.Name(), "device", "name"))
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(data)) == deviceName {
			return filepath.Join("/dev/input", e.Name()), nil
		}
	}
	return "", fmt.Errorf("%s evdev device not found", deviceName)
}

// Verify sends Ctrl+C through the virtual keyboard and reads it back from
// the kernel input layer.
func Verify() (string, error) {
	if err := Init(); err != nil {
		return "", fmt.Errorf("uinput init: %w", err)
	}

	path, err := findDevice()
	if err != nil {
		return "", err
	}
	evdev, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer evdev.Close()

	if err := Send(); err != nil {
		return "", fmt.Errorf("copy chord send: %w", err)
	}

	type result struct {
		ctrl, c bool
		err     error
	}
	ch := make(chan result, 1)
	go func() {
		buf := make([]byte, 24*32)
		var r result
		n, err := evdev.Read(buf)
		if err != nil {
			r.err = err
			ch <- r
			return
		}
		for i := 0; i+24 <= n; i += 24 {
			if binary.LittleEndian.Uint16(buf[i+16:]) != evKey {
				continue
			}
			switch binary.LittleEndian.Uint16(buf[i+18:]) {
			case keyLeftCtrl:
				r.ctrl = true
			case keyC:
				r.c = true
			}
		}
		ch <- r
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return "", fmt.Errorf("reading events: %w", r.err)
		}
		if !r.ctrl || !r.c {
			return "", fmt.Errorf("missing events (ctrl=%v, c=%v)", r.ctrl, r.c)
		}
		return fmt.Sprintf("Ctrl+C keystroke verified via %s", path), nil
	case <-time.After(500 * time.Millisecond):
		return "", errors.New("timed out waiting for keystroke events")
	}
}
