package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setupLogDir(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	SetDir(tmp)
	t.Cleanup(func() { Close(); SetDir("") })
	return tmp
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestResolveDirFlag(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "mylog")
	got, err := ResolveDir(abs)
	if err != nil {
		t.Fatal(err)
	}
	if got != abs {
		t.Errorf("got %q, want %q", got, abs)
	}
}

func TestResolveDirFlagRelative(t *testing.T) {
	got, err := ResolveDir("logs")
	if err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(wd, "logs"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveDirEnv(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "env-log")
	t.Setenv(EnvDir, abs)
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got != abs {
		t.Errorf("got %q, want %q", got, abs)
	}
}

func TestResolveDirDefault(t *testing.T) {
	t.Setenv(EnvDir, "")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, appName) {
		t.Errorf("default %q does not mention %s", got, appName)
	}
}

func TestInitCreatesFiles(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{DiagnosticsFile, EventsFile} {
		if _, err := os.Stat(filepath.Join(tmp, name)); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
	}
}

func TestHotkeyFiredWritesEvent(t *testing.T) {
	tmp := setupLogDir(t)
	if err := Init(); err != nil {
		t.Fatal(err)
	}

	HotkeyFired("Control+Shift+E", "notepad.exe", "notes.txt", 5)

	line := readLog(t, filepath.Join(tmp, EventsFile))
	for _, want := range []string{"Control+Shift+E", "notepad.exe", "notes.txt", "\t"} {
		if !strings.Contains(line, want) {
			t.Errorf("events log missing %q, got: %q", want, line)
		}
	}
	diag := readLog(t, filepath.Join(tmp, DiagnosticsFile))
	if !strings.Contains(diag, "hotkey_fired") {
		t.Errorf("diagnostics log missing hotkey_fired, got: %q", diag)
	}
}

func TestStructuredEvents(t *testing.T) {
	tmp := setupLogDir(t)
	if err := Init(); err != nil {
		t.Fatal(err)
	}

	HotkeyRegistered("Alt+Q", 0xC001)
	HotkeyConflict("Control+Alt+Delete")
	SelectionRead("clipboard", 3, 12*time.Millisecond)
	Infof("suspended=%v", true)

	diag := readLog(t, filepath.Join(tmp, DiagnosticsFile))
	for _, want := range []string{"hotkey_registered", "hotkey_conflict", "selection_read", "suspended=true"} {
		if !strings.Contains(diag, want) {
			t.Errorf("diagnostics log missing %q", want)
		}
	}
}

func TestLoggingBeforeInit(t *testing.T) {
	Close()
	Info("dropped")
	HotkeyFired("Alt+Q", "", "", 0)
}

func TestCloseIdempotent(t *testing.T) {
	setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	Close()
	Close()
}
