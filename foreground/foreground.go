// Package foreground identifies the application the user is working in:
// the foreground window, its process and executable, and its title.
package foreground

import (
	"context"
	"strings"

	"hotkeylistener/selection"
)

// Handle is an opaque window handle. Zero means no window.
type Handle uintptr

// Inspector queries the window system. The process behind a window can exit
// between two calls, so every method degrades to a zero value instead of
// failing.
type Inspector interface {
	ForegroundWindow() Handle
	ProcessID(h Handle) int
	ExecutableInfo(pid int) (name, path string)
	// WindowTitle returns false when the window has no title to read.
	WindowTitle(h Handle) (string, bool)
}

// SourceApplication is a point-in-time view of the foreground application,
// taken when a hotkey fires.
type SourceApplication struct {
	ProcessID      int
	Window         Handle
	ExecutableName string
	ExecutablePath string
	WindowTitle    string
	Selection      string
}

// Snapshot inspects the foreground window and reads its selection with the
// strategies r's policy picks for its executable. A nil reader skips the
// selection read.
func Snapshot(ctx context.Context, insp Inspector, r *selection.Reader) SourceApplication {
	h := insp.ForegroundWindow()
	src := SourceApplication{Window: h}
	if h != 0 {
		src.ProcessID = insp.ProcessID(h)
		src.WindowTitle, _ = insp.WindowTitle(h)
	}
	if src.ProcessID > 0 {
		src.ExecutableName, src.ExecutablePath = insp.ExecutableInfo(src.ProcessID)
	}
	if r != nil {
		src.Selection = r.For(src.ExecutableName).TryGetSelection(ctx)
	}
	return src
}

// SameExecutable compares executable names the way users write them:
// case-insensitive, ignoring directories and a ".exe" suffix.
func SameExecutable(a, b string) bool {
	norm := func(s string) string {
		return strings.TrimSuffix(strings.ToLower(baseName(s)), ".exe")
	}
	return a != "" && b != "" && norm(a) == norm(b)
}

// baseName accepts both slash styles so Windows paths work everywhere.
func baseName(p string) string {
	p = strings.TrimSpace(p)
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		p = p[i+1:]
	}
	return p
}
