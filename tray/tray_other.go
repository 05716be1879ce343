//go:build !darwin

package tray

func Init() <-chan struct{}      { return quitCh }
func updateState([]string, bool) {}
func updateTooltip(string)       {}
