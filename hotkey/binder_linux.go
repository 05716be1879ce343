//go:build linux

package hotkey

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"hotkeylistener/log"
)

const (
	evKey      = 1
	keyPress   = 1
	keyRelease = 0
	keyLCtrl   = 29
	keyRCtrl   = 97
	keyLShift  = 42
	keyRShift  = 54
	keyLAlt    = 56
	keyRAlt    = 100
	keyLMeta   = 125
	keyRMeta   = 126
)

const inputEventSize = 24

// a=30, b=48, c=46, d=32, e=18, f=33, g=34, h=35, i=23, j=36,
// k=37, l=38, m=50, n=49, o=24, p=25, q=16, r=19, s=31, t=20,
// u=22, v=47, w=17, x=45, y=21, z=44
var evdevLetters = [26]uint16{
	30, 48, 46, 32, 18, 33, 34, 35, 23, 36,
	37, 38, 50, 49, 24, 25, 16, 19, 31, 20,
	22, 47, 17, 45, 21, 44,
}

// 0=11, 1=2, 2=3, ..., 9=10
var evdevDigits = [10]uint16{11, 2, 3, 4, 5, 6, 7, 8, 9, 10}

var evdevNumPad = [10]uint16{82, 79, 80, 81, 75, 76, 77, 71, 72, 73}

var evdevNamed = map[Key]uint16{
	KeyEscape: 1, KeyBack: 14, KeyTab: 15, KeyEnter: 28, KeySpace: 57,
	KeyCapsLock: 58, KeyNumLock: 69, KeyScroll: 70,
	KeyHome: 102, KeyUp: 103, KeyPageUp: 104, KeyLeft: 105, KeyRight: 106,
	KeyEnd: 107, KeyDown: 108, KeyPageDown: 109, KeyInsert: 110, KeyDelete: 111,
	KeyPause: 119, KeyPrint: 99, KeyApps: 127,
	KeyMultiply: 55, KeySubtract: 74, KeyAdd: 78, KeyDecimal: 83, KeyDivide: 98,
	0xAD: 113, 0xAE: 114, 0xAF: 115,
	0xB0: 163, 0xB1: 165, 0xB2: 166, 0xB3: 164,
	0xBA: 39, 0xBB: 13, 0xBC: 51, 0xBD: 12, 0xBE: 52, 0xBF: 53, 0xC0: 41,
	0xDB: 26, 0xDC: 43, 0xDD: 27, 0xDE: 40, 0xE2: 86,
}

func evdevCode(k Key) (uint16, bool) {
	switch {
	case k >= KeyA && k <= KeyZ:
		return evdevLetters[k-KeyA], true
	case k >= Key0 && k <= Key9:
		return evdevDigits[k-Key0], true
	case k >= KeyNumPad0 && k <= KeyNumPad9:
		return evdevNumPad[k-KeyNumPad0], true
	case k >= KeyF1 && k < KeyF1+10:
		return 59 + uint16(k-KeyF1), true
	case k == KeyF1+10:
		return 87, true
	case k == KeyF12:
		return 88, true
	case k > KeyF12 && k <= KeyF24:
		return 183 + uint16(k-KeyF12-1), true
	}
	code, ok := evdevNamed[k]
	return code, ok
}

type evdevCombo struct {
	handle Handle
	mods   Modifier
	code   uint16
}

// evdevBinder reads /dev/input keyboards directly, which works under both
// X11 and Wayland but needs membership of the input group. It cannot see
// grabs made by other processes, so Register only refuses duplicates.
type evdevBinder struct {
	rt     Poster
	mu     sync.Mutex
	combos map[int]evdevCombo
	files  []*os.File
	stop   chan struct{}
	once   sync.Once
}

// NewBinder returns a Binder that matches key presses read from evdev and
// posts MsgHotkey to rt.
func NewBinder(rt Receiver) Binder {
	return &evdevBinder{
		rt:     rt,
		combos: make(map[int]evdevCombo),
	}
}

func (b *evdevBinder) Register(h Handle, id int, mods Modifier, key Key) bool {
	code, ok := evdevCode(key)
	if !ok {
		log.Warnf("no evdev code for key %s", key)
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, dup := b.combos[id]; dup {
		return false
	}
	for _, c := range b.combos {
		if c.mods == mods && c.code == code {
			return false
		}
	}
	if b.stop == nil {
		if err := b.open(); err != nil {
			log.Errorf("hotkey register error: %v", err)
			return false
		}
	}
	b.combos[id] = evdevCombo{handle: h, mods: mods, code: code}
	return true
}

func (b *evdevBinder) Unregister(h Handle, id int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.combos[id]
	if !ok || c.handle != h {
		return false
	}
	delete(b.combos, id)
	return true
}

// open starts one reader per keyboard. Called with b.mu held.
func (b *evdevBinder) open() error {
	keyboards, err := findKeyboards()
	if err != nil {
		return fmt.Errorf("finding keyboards: %w", err)
	}
	if len(keyboards) == 0 {
		return fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	stop := make(chan struct{})
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		b.files = append(b.files, f)
		go b.readEvents(f, stop)
	}

	if len(b.files) == 0 {
		return fmt.Errorf("could not open any keyboard device (run: sudo usermod -aG input $USER, then re-login)")
	}
	b.stop = stop
	return nil
}

func (b *evdevBinder) readEvents(f *os.File, stop <-chan struct{}) {
	buf := make([]byte, inputEventSize*16)
	var ctrl, shift, alt, meta [2]bool

	for {
		select {
		case <-stop:
			return
		default:
		}

		n, err := f.Read(buf)
		if err != nil {
			return
		}

		for i := 0; i+inputEventSize <= n; i += inputEventSize {
			evType := binary.LittleEndian.Uint16(buf[i+16:])
			evCode := binary.LittleEndian.Uint16(buf[i+18:])
			evValue := int32(binary.LittleEndian.Uint32(buf[i+20:]))

			if evType != evKey {
				continue
			}

			pressed := evValue == keyPress
			released := evValue == keyRelease

			hold := func(side *bool) {
				*side = pressed || (!released && *side)
			}

			switch evCode {
			case keyLCtrl:
				hold(&ctrl[0])
			case keyRCtrl:
				hold(&ctrl[1])
			case keyLShift:
				hold(&shift[0])
			case keyRShift:
				hold(&shift[1])
			case keyLAlt:
				hold(&alt[0])
			case keyRAlt:
				hold(&alt[1])
			case keyLMeta:
				hold(&meta[0])
			case keyRMeta:
				hold(&meta[1])
			default:
				if !pressed {
					continue
				}
				var mods Modifier
				if ctrl[0] || ctrl[1] {
					mods |= ModControl
				}
				if shift[0] || shift[1] {
					mods |= ModShift
				}
				if alt[0] || alt[1] {
					mods |= ModAlt
				}
				if meta[0] || meta[1] {
					mods |= ModWindows
				}
				b.fire(mods, evCode)
			}
		}
	}
}

func (b *evdevBinder) fire(mods Modifier, code uint16) {
	b.mu.Lock()
	var ids []int
	for id, c := range b.combos {
		if c.mods == mods && c.code == code {
			ids = append(ids, id)
		}
	}
	b.mu.Unlock()

	for _, id := range ids {
		if err := b.rt.Post(MsgHotkey, uintptr(id), 0); err != nil {
			log.Warnf("posting hotkey %d: %v", id, err)
		}
	}
}

// Close stops the keyboard readers.
func (b *evdevBinder) Close() error {
	b.once.Do(func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.stop != nil {
			close(b.stop)
		}
		for _, f := range b.files {
			f.Close()
		}
	})
	return nil
}

func findKeyboards() ([]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, err
	}

	var keyboards []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		path := filepath.Join("/dev/input", e.Name())
		if isKeyboard(e.Name()) {
			keyboards = append(keyboards, path)
		}
	}
	return keyboards, nil
}

func isKeyboard(eventName string) bool {
	capsPath := filepath.Join("/sys/class/input", eventName, "device", "capabilities", "key")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	caps := strings.TrimSpace(string(data))
	return len(caps) > 10
}

// Diagnose checks that at least one keyboard device can be opened.
func Diagnose() (string, error) {
	keyboards, err := findKeyboards()
	if err != nil {
		return "", fmt.Errorf("cannot scan input devices: %w", err)
	}
	if len(keyboards) == 0 {
		return "", fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	var opened string
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err == nil {
			f.Close()
			opened = path
			break
		}
	}
	if opened == "" {
		return "", fmt.Errorf("found %d keyboard(s) but cannot open any (run: sudo usermod -aG input $USER)", len(keyboards))
	}

	return fmt.Sprintf("%d keyboard(s) found, opened %s", len(keyboards), opened), nil
}
