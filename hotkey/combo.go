package hotkey

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidHotkeySyntax  = errors.New("invalid hotkey syntax")
	ErrAtomAllocationFailed = errors.New("atom allocation failed")
	ErrWindowsOnly          = errors.New("windows key cannot be the only modifier")
)

// Modifier is a set of modifier keys held with a hotkey.
type Modifier uint8

const (
	ModControl Modifier = 1 << iota
	ModShift
	ModAlt
	ModWindows

	ModNone Modifier = 0
)

var modifierOrder = []struct {
	mod  Modifier
	name string
}{
	{ModControl, "Control"},
	{ModShift, "Shift"},
	{ModAlt, "Alt"},
	{ModWindows, "Windows"},
}

var modifierByToken = map[string]Modifier{
	"control": ModControl,
	"ctrl":    ModControl,
	"shift":   ModShift,
	"alt":     ModAlt,
	"windows": ModWindows,
	"win":     ModWindows,
}

func (m Modifier) Has(o Modifier) bool { return m&o == o }

func (m Modifier) String() string {
	if m == ModNone {
		return "None"
	}
	var parts []string
	for _, mo := range modifierOrder {
		if m.Has(mo.mod) {
			parts = append(parts, mo.name)
		}
	}
	return strings.Join(parts, "+")
}

// KeyCombo is a modifier set plus one key. The zero value is "no hotkey".
type KeyCombo struct {
	Modifiers Modifier
	Key       Key
}

func New(mods Modifier, key Key) KeyCombo {
	return KeyCombo{Modifiers: mods, Key: key}
}

func (c KeyCombo) Equal(o KeyCombo) bool {
	return c.Modifiers == o.Modifiers && c.Key == o.Key
}

func (c KeyCombo) IsZero() bool { return c.Key == 0 && c.Modifiers == ModNone }

// String renders the canonical text form, e.g. "Control+Shift+E".
func (c KeyCombo) String() string {
	if c.Modifiers == ModNone {
		return c.Key.String()
	}
	return c.Modifiers.String() + "+" + c.Key.String()
}

// Validate reports whether the combo can be handed to the OS.
func (c KeyCombo) Validate() error {
	if c.Key == 0 {
		return fmt.Errorf("%w: missing key", ErrInvalidHotkeySyntax)
	}
	if c.Modifiers == ModWindows {
		return ErrWindowsOnly
	}
	return nil
}

func isSeparator(r rune) bool {
	switch r {
	case '+', ',', ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

// Parse reads a combo such as "Control+Shift+E" or "shift, control, e".
// Separators are '+', ',' and whitespace; tokens are case-insensitive.
func Parse(text string) (KeyCombo, error) {
	tokens := strings.FieldsFunc(text, isSeparator)

	var mods Modifier
	var rest []string
	for _, tok := range tokens {
		if m, ok := modifierByToken[strings.ToLower(tok)]; ok {
			mods |= m
			continue
		}
		rest = append(rest, tok)
	}

	switch len(rest) {
	case 0:
		return KeyCombo{}, fmt.Errorf("%w: %q has no key", ErrInvalidHotkeySyntax, text)
	case 1:
	default:
		return KeyCombo{}, fmt.Errorf("%w: %q names more than one key (%s)",
			ErrInvalidHotkeySyntax, text, strings.Join(rest, ", "))
	}

	key, ok := LookupKey(rest[0])
	if !ok {
		return KeyCombo{}, fmt.Errorf("%w: unknown key %q in %q", ErrInvalidHotkeySyntax, rest[0], text)
	}
	return KeyCombo{Modifiers: mods, Key: key}, nil
}

// MustParse is Parse for literals; it panics on error.
func MustParse(text string) KeyCombo {
	c, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return c
}

// Canonical parses text and returns its canonical form.
func Canonical(text string) (string, error) {
	c, err := Parse(text)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}
