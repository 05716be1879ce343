// Package chord sends the platform copy shortcut (Ctrl+C, or Cmd+C on
// macOS) to whatever window has keyboard focus.
package chord

// Copier sends one copy chord.
type Copier interface {
	Copy() error
}

// CopierFunc adapts a function to Copier.
type CopierFunc func() error

func (f CopierFunc) Copy() error { return f() }

// System is the Copier that injects real key events.
type System struct{}

func (System) Copy() error { return Send() }
