//go:build linux

package selection

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"
)

const primaryTimeout = 300 * time.Millisecond

// PrimaryStrategy reads the X11/Wayland primary selection, which holds
// whatever text is highlighted without any key injection.
type PrimaryStrategy struct{}

func (PrimaryStrategy) Name() string { return Primary }

func primaryCommands() [][]string {
	x11 := [][]string{
		{"xclip", "-o", "-selection", "primary"},
		{"xsel", "--primary", "--output"},
	}
	wl := []string{"wl-paste", "--primary", "--no-newline"}
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return append([][]string{wl}, x11...)
	}
	return append(x11, wl)
}

func (PrimaryStrategy) Read(ctx context.Context) (string, error) {
	var lastErr error
	for _, argv := range primaryCommands() {
		path, err := exec.LookPath(argv[0])
		if err != nil {
			continue
		}
		cctx, cancel := context.WithTimeout(ctx, primaryTimeout)
		out, err := exec.CommandContext(cctx, path, argv[1:]...).Output()
		cancel()
		if err != nil {
			lastErr = err
			continue
		}
		return string(out), nil
	}
	if lastErr == nil {
		lastErr = errors.New("no primary selection tool found (install xclip, xsel or wl-clipboard)")
	}
	return "", lastErr
}
