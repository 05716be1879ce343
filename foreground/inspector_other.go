//go:build !windows && !linux && !darwin

package foreground

type nullInspector struct {
	processInfo
}

// New returns an inspector that never finds a foreground window.
func New() Inspector { return nullInspector{} }

func (nullInspector) ForegroundWindow() Handle { return 0 }

func (nullInspector) ProcessID(Handle) int { return 0 }

func (nullInspector) WindowTitle(Handle) (string, bool) { return "", false }
