package selection

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Policy maps an executable name to the strategies worth trying for it.
// Keys are matched case-insensitively, with or without ".exe".
type Policy map[string][]string

// DefaultPolicy sends browsers straight to the clipboard: they expose
// neither a usable text pattern nor classic edit controls.
func DefaultPolicy() Policy {
	browsers := []string{"chrome", "firefox", "msedge", "brave", "opera", "vivaldi", "chromium"}
	p := make(Policy, len(browsers))
	for _, b := range browsers {
		p[b] = []string{Clipboard}
	}
	return p
}

func policyKey(exe string) string {
	exe = strings.ToLower(filepath.Base(strings.TrimSpace(exe)))
	return strings.TrimSuffix(exe, ".exe")
}

// Lookup returns the strategy list for exe.
func (p Policy) Lookup(exe string) ([]string, bool) {
	if len(p) == 0 || exe == "" {
		return nil, false
	}
	key := policyKey(exe)
	if names, ok := p[key]; ok {
		return names, true
	}
	for k, names := range p {
		if policyKey(k) == key {
			return names, true
		}
	}
	return nil, false
}

// Validate checks that every listed strategy is a known name.
func (p Policy) Validate() error {
	for exe, names := range p {
		if len(names) == 0 {
			return fmt.Errorf("selection policy for %q lists no strategies", exe)
		}
		for _, n := range names {
			if !KnownStrategy(n) {
				return fmt.Errorf("selection policy for %q: unknown strategy %q", exe, n)
			}
		}
	}
	return nil
}

// KnownStrategy reports whether name is one of the built-in strategies.
func KnownStrategy(name string) bool {
	switch name {
	case Automation, Control, Primary, Clipboard:
		return true
	}
	return false
}
