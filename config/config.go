// Package config loads the hotkeylistener YAML configuration and watches it
// for edits.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.yaml.in/yaml/v3"

	"hotkeylistener/hotkey"
	"hotkeylistener/selection"
)

const maxConfigFileBytes int64 = 1 << 20

type Selection struct {
	// Policy maps an executable name to the strategies tried for it.
	Policy           map[string][]string `yaml:"policy,omitempty"`
	ClipboardTimeout time.Duration       `yaml:"clipboard_timeout"`
	ClipboardPoll    time.Duration       `yaml:"clipboard_poll"`
}

type Config struct {
	Hotkeys []string `yaml:"hotkeys"`
	// SuspendOn lists executables that suspend every hotkey while they are
	// in the foreground.
	SuspendOn     []string  `yaml:"suspend_on,omitempty"`
	Selection     Selection `yaml:"selection"`
	Notifications bool      `yaml:"notifications"`
}

func Default() Config {
	return Config{
		Hotkeys: []string{"Control+Shift+Q"},
		Selection: Selection{
			Policy:           selection.DefaultPolicy(),
			ClipboardTimeout: 400 * time.Millisecond,
			ClipboardPoll:    20 * time.Millisecond,
		},
		Notifications: true,
	}
}

// DefaultPath returns <user config dir>/hotkeylistener/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "hotkeylistener", "config.yaml"), nil
}

// Load reads path. A missing or empty file yields Default. Fields absent
// from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, errors.New("config path required")
	}

	raw, err := readLimitedFile(path, maxConfigFileBytes)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if len(raw) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every hotkey parses, policy strategies are known and
// clipboard durations are positive.
func (c Config) Validate() error {
	var errs []error
	for _, h := range c.Hotkeys {
		if _, err := hotkey.Parse(h); err != nil {
			errs = append(errs, fmt.Errorf("hotkeys: %w", err))
		}
	}
	if err := selection.Policy(c.Selection.Policy).Validate(); err != nil {
		errs = append(errs, fmt.Errorf("selection.policy: %w", err))
	}
	if c.Selection.ClipboardTimeout <= 0 {
		errs = append(errs, fmt.Errorf("selection.clipboard_timeout must be positive, got %s", c.Selection.ClipboardTimeout))
	}
	if c.Selection.ClipboardPoll <= 0 {
		errs = append(errs, fmt.Errorf("selection.clipboard_poll must be positive, got %s", c.Selection.ClipboardPoll))
	}
	return errors.Join(errs...)
}

// Combos returns the configured hotkeys parsed and deduplicated, skipping
// any that do not parse.
func (c Config) Combos() []hotkey.KeyCombo {
	var out []hotkey.KeyCombo
	for _, h := range c.Hotkeys {
		combo, err := hotkey.Parse(h)
		if err != nil || slices.Contains(out, combo) {
			continue
		}
		out = append(out, combo)
	}
	return out
}

// Save validates cfg and writes it to path through a temp file and rename.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("save config: marshal: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("save config: mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".config.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("save config: create temp: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("save config: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("save config: close: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("save config: rename: %w", err)
	}
	return nil
}

// DiffHotkeys compares two hotkey lists by canonical form.
func DiffHotkeys(old, next Config) (added, removed []hotkey.KeyCombo) {
	before, after := old.Combos(), next.Combos()
	for _, c := range after {
		if !slices.Contains(before, c) {
			added = append(added, c)
		}
	}
	for _, c := range before {
		if !slices.Contains(after, c) {
			removed = append(removed, c)
		}
	}
	return added, removed
}

func readLimitedFile(path string, maxBytes int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > maxBytes {
		return nil, fmt.Errorf("config file exceeds %d bytes", maxBytes)
	}
	return raw, nil
}
