package hotkey

import (
	"fmt"
	"strconv"
	"strings"
)

// Key is a Windows virtual-key code. Other platforms translate from it.
type Key uint16

const (
	KeyBack      Key = 0x08
	KeyTab       Key = 0x09
	KeyClear     Key = 0x0C
	KeyEnter     Key = 0x0D
	KeyShiftKey  Key = 0x10
	KeyControl   Key = 0x11
	KeyMenu      Key = 0x12
	KeyPause     Key = 0x13
	KeyCapsLock  Key = 0x14
	KeyEscape    Key = 0x1B
	KeySpace     Key = 0x20
	KeyPageUp    Key = 0x21
	KeyPageDown  Key = 0x22
	KeyEnd       Key = 0x23
	KeyHome      Key = 0x24
	KeyLeft      Key = 0x25
	KeyUp        Key = 0x26
	KeyRight     Key = 0x27
	KeyDown      Key = 0x28
	KeyPrint     Key = 0x2C
	KeyInsert    Key = 0x2D
	KeyDelete    Key = 0x2E
	KeyHelp      Key = 0x2F
	Key0         Key = 0x30
	Key9         Key = 0x39
	KeyA         Key = 0x41
	KeyC         Key = 0x43
	KeyE         Key = 0x45
	KeyQ         Key = 0x51
	KeyV         Key = 0x56
	KeyZ         Key = 0x5A
	KeyLWin      Key = 0x5B
	KeyRWin      Key = 0x5C
	KeyApps      Key = 0x5D
	KeyNumPad0   Key = 0x60
	KeyNumPad9   Key = 0x69
	KeyMultiply  Key = 0x6A
	KeyAdd       Key = 0x6B
	KeySeparator Key = 0x6C
	KeySubtract  Key = 0x6D
	KeyDecimal   Key = 0x6E
	KeyDivide    Key = 0x6F
	KeyF1        Key = 0x70
	KeyF12       Key = 0x7B
	KeyF24       Key = 0x87
	KeyNumLock   Key = 0x90
	KeyScroll    Key = 0x91
	KeyLShift    Key = 0xA0
	KeyRShift    Key = 0xA1
	KeyLControl  Key = 0xA2
	KeyRControl  Key = 0xA3
	KeyLMenu     Key = 0xA4
	KeyRMenu     Key = 0xA5
)

type keyName struct {
	key     Key
	name    string
	aliases []string
}

var namedKeys = []keyName{
	{KeyBack, "Back", []string{"Backspace"}},
	{KeyTab, "Tab", nil},
	{KeyClear, "Clear", nil},
	{KeyEnter, "Enter", []string{"Return"}},
	{KeyShiftKey, "ShiftKey", nil},
	{KeyControl, "ControlKey", nil},
	{KeyMenu, "Menu", nil},
	{KeyPause, "Pause", nil},
	{KeyCapsLock, "CapsLock", []string{"Capital"}},
	{KeyEscape, "Escape", []string{"Esc"}},
	{KeySpace, "Space", nil},
	{KeyPageUp, "PageUp", []string{"Prior"}},
	{KeyPageDown, "PageDown", []string{"Next"}},
	{KeyEnd, "End", nil},
	{KeyHome, "Home", nil},
	{KeyLeft, "Left", nil},
	{KeyUp, "Up", nil},
	{KeyRight, "Right", nil},
	{KeyDown, "Down", nil},
	{KeyPrint, "PrintScreen", []string{"Snapshot"}},
	{KeyInsert, "Insert", []string{"Ins"}},
	{KeyDelete, "Delete", []string{"Del"}},
	{KeyHelp, "Help", nil},
	{KeyLWin, "LWin", nil},
	{KeyRWin, "RWin", nil},
	{KeyApps, "Apps", nil},
	{0x5F, "Sleep", nil},
	{KeyMultiply, "Multiply", nil},
	{KeyAdd, "Add", nil},
	{KeySeparator, "Separator", nil},
	{KeySubtract, "Subtract", nil},
	{KeyDecimal, "Decimal", nil},
	{KeyDivide, "Divide", nil},
	{KeyNumLock, "NumLock", nil},
	{KeyScroll, "Scroll", []string{"ScrollLock"}},
	{KeyLShift, "LShiftKey", nil},
	{KeyRShift, "RShiftKey", nil},
	{KeyLControl, "LControlKey", nil},
	{KeyRControl, "RControlKey", nil},
	{KeyLMenu, "LMenu", nil},
	{KeyRMenu, "RMenu", nil},
	{0xA6, "BrowserBack", nil},
	{0xA7, "BrowserForward", nil},
	{0xA8, "BrowserRefresh", nil},
	{0xA9, "BrowserStop", nil},
	{0xAA, "BrowserSearch", nil},
	{0xAB, "BrowserFavorites", nil},
	{0xAC, "BrowserHome", nil},
	{0xAD, "VolumeMute", nil},
	{0xAE, "VolumeDown", nil},
	{0xAF, "VolumeUp", nil},
	{0xB0, "MediaNextTrack", nil},
	{0xB1, "MediaPreviousTrack", nil},
	{0xB2, "MediaStop", nil},
	{0xB3, "MediaPlayPause", nil},
	{0xB4, "LaunchMail", nil},
	{0xBA, "OemSemicolon", []string{"Oem1"}},
	{0xBB, "Oemplus", nil},
	{0xBC, "Oemcomma", nil},
	{0xBD, "OemMinus", nil},
	{0xBE, "OemPeriod", nil},
	{0xBF, "OemQuestion", []string{"Oem2"}},
	{0xC0, "Oemtilde", []string{"Oem3"}},
	{0xDB, "OemOpenBrackets", []string{"Oem4"}},
	{0xDC, "OemPipe", []string{"Oem5"}},
	{0xDD, "OemCloseBrackets", []string{"Oem6"}},
	{0xDE, "OemQuotes", []string{"Oem7"}},
	{0xDF, "Oem8", nil},
	{0xE2, "OemBackslash", []string{"Oem102"}},
}

var (
	keyNames  = map[Key]string{}
	keyByName = map[string]Key{}
)

func init() {
	add := func(k Key, name string, aliases ...string) {
		keyNames[k] = name
		keyByName[strings.ToLower(name)] = k
		for _, a := range aliases {
			keyByName[strings.ToLower(a)] = k
		}
	}
	for c := 'A'; c <= 'Z'; c++ {
		add(Key(c), string(c))
	}
	for d := '0'; d <= '9'; d++ {
		add(Key(d), "D"+string(d), string(d))
	}
	for i := 0; i <= 9; i++ {
		add(KeyNumPad0+Key(i), fmt.Sprintf("NumPad%d", i))
	}
	for i := 0; i < 24; i++ {
		add(KeyF1+Key(i), fmt.Sprintf("F%d", i+1))
	}
	for _, kn := range namedKeys {
		add(kn.key, kn.name, kn.aliases...)
	}
}

// String returns the canonical key name, or a hex code for unnamed keys.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k == 0 {
		return "None"
	}
	return fmt.Sprintf("0x%02X", uint16(k))
}

// IsModifier reports whether k is itself a modifier key.
func (k Key) IsModifier() bool {
	switch k {
	case KeyShiftKey, KeyControl, KeyMenu, KeyLWin, KeyRWin,
		KeyLShift, KeyRShift, KeyLControl, KeyRControl, KeyLMenu, KeyRMenu:
		return true
	}
	return false
}

// IsAlphanumeric reports whether k is a letter or a top-row digit.
func (k Key) IsAlphanumeric() bool {
	return (k >= KeyA && k <= KeyZ) || (k >= Key0 && k <= Key9)
}

// LookupKey resolves a key name case-insensitively. Hex codes such as
// "0x41" are accepted for keys without a name.
func LookupKey(name string) (Key, bool) {
	name = strings.TrimSpace(name)
	if k, ok := keyByName[strings.ToLower(name)]; ok {
		return k, true
	}
	if len(name) > 2 && (name[:2] == "0x" || name[:2] == "0X") {
		v, err := strconv.ParseUint(name[2:], 16, 16)
		if err != nil || v == 0 || v > 0xFE {
			return 0, false
		}
		return Key(v), true
	}
	return 0, false
}
