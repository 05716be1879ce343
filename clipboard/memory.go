package clipboard

import (
	"errors"
	"sync"
)

// ErrNoText is returned by Memory.Read while the clipboard holds no text.
var ErrNoText = errors.New("clipboard holds no text")

// Memory is an in-process Clipboard for tests.
type Memory struct {
	mu     sync.Mutex
	text   string
	noText bool
	err    error
	writes []string
}

func NewMemory(text string) *Memory {
	return &Memory{text: text}
}

// NewEmptyMemory returns a clipboard with no text on it. Like the system
// clipboard, reading it fails until something is written.
func NewEmptyMemory() *Memory {
	return &Memory{noText: true}
}

func (m *Memory) Read() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	if m.noText {
		return "", ErrNoText
	}
	return m.text, nil
}

func (m *Memory) Write(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.text, m.noText = text, false
	m.writes = append(m.writes, text)
	return nil
}

// Set replaces the content without recording a write, the way another
// application would.
func (m *Memory) Set(text string) {
	m.mu.Lock()
	m.text, m.noText = text, false
	m.mu.Unlock()
}

// Clear leaves the clipboard without text, as when another application
// copies an image.
func (m *Memory) Clear() {
	m.mu.Lock()
	m.text, m.noText = "", true
	m.mu.Unlock()
}

// Fail makes every later Read and Write return err. Nil clears it.
func (m *Memory) Fail(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// Writes returns every value written through Write, oldest first.
func (m *Memory) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.writes...)
}
