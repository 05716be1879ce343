//go:build !windows && !linux && !darwin

package hotkey

import "errors"

type stubBinder struct{}

// NewBinder returns a Binder that refuses every registration.
func NewBinder(Receiver) Binder { return stubBinder{} }

func (stubBinder) Register(Handle, int, Modifier, Key) bool { return false }
func (stubBinder) Unregister(Handle, int) bool              { return false }

func Diagnose() (string, error) {
	return "", errors.New("global hotkeys are not supported on this platform")
}
