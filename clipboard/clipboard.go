// Package clipboard gives access to the system clipboard as plain text.
package clipboard

import (
	"fmt"

	cb "github.com/atotto/clipboard"
)

// Clipboard is a text clipboard. The system clipboard is shared with every
// other process, so values read here may change at any time.
type Clipboard interface {
	Read() (string, error)
	Write(text string) error
}

// System is the OS clipboard.
type System struct{}

func (System) Read() (string, error) { return cb.ReadAll() }

func (System) Write(text string) error { return cb.WriteAll(text) }

// Unsupported reports whether no clipboard utility is available (Linux
// without xclip, xsel or wl-clipboard).
func Unsupported() bool { return cb.Unsupported }

func Read() (string, error) {
	return System{}.Read()
}

func Copy(text string) error {
	return System{}.Write(text)
}

// Verify writes a probe value, reads it back and restores what was there.
func Verify() (string, error) {
	prev, _ := Read()
	defer Copy(prev)

	const probe = "hotkeylistener clipboard probe"
	if err := Copy(probe); err != nil {
		return "", err
	}
	got, err := Read()
	if err != nil {
		return "", err
	}
	if got != probe {
		return "", fmt.Errorf("clipboard read back %q", got)
	}
	return "clipboard read/write OK", nil
}
