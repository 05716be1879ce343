//go:build darwin

package foreground

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const scriptTimeout = time.Second

// macInspector asks System Events through osascript. macOS has no global
// window handles, so the frontmost process id doubles as the Handle.
type macInspector struct {
	processInfo
}

// New returns the System Events inspector. Reading window titles needs the
// Accessibility permission.
func New() Inspector { return macInspector{} }

func osascript(script string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), scriptTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, "osascript", "-e", script).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (macInspector) ForegroundWindow() Handle {
	out, err := osascript(`tell application "System Events" to get unix id of first application process whose frontmost is true`)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(out)
	if err != nil {
		return 0
	}
	return Handle(pid)
}

func (macInspector) ProcessID(h Handle) int { return int(h) }

func (macInspector) WindowTitle(h Handle) (string, bool) {
	if h == 0 {
		return "", false
	}
	script := `tell application "System Events" to tell (first application process whose unix id is ` +
		strconv.Itoa(int(h)) + `) to get name of front window`
	out, err := osascript(script)
	if err != nil || out == "" {
		return "", false
	}
	return out, true
}
