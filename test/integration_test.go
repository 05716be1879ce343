//go:build integration

package test_test

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var testBinary string

func TestMain(m *testing.M) {
	testBinary = os.Getenv("HOTKEYLISTENER_TEST_BIN")
	if testBinary == "" {
		fmt.Fprintln(os.Stderr, "HOTKEYLISTENER_TEST_BIN not set; build the binary and point the variable at it")
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func cmds(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

// runListener runs the binary in -test mode and returns its stdout lines
// and log directory.
func runListener(t *testing.T, stdin string, args ...string) (lines []string, logDir string) {
	t.Helper()
	logDir = t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("hotkeys: []\nnotifications: false\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cmdArgs := append([]string{"-logpath", logDir, "-config", cfgPath, "-test"}, args...)

	cmd := exec.Command(testBinary, cmdArgs...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Env = os.Environ()

	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("hotkeylistener exited with error: %v\noutput: %s", err, out)
	}
	return strings.Split(strings.TrimSpace(string(out)), "\n"), logDir
}

func readLog(t *testing.T, logDir, filename string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(logDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return ""
		}
		t.Fatalf("failed to read %s: %v", filename, err)
	}
	return string(data)
}

func requireLine(t *testing.T, lines []string, prefix string) string {
	t.Helper()
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			return l
		}
	}
	t.Fatalf("no line starting with %q in:\n%s", prefix, strings.Join(lines, "\n"))
	return ""
}

func TestFireCapturesSelection(t *testing.T) {
	lines, logDir := runListener(t, cmds(
		"ADD Control+Q",
		"SELECT hello world",
		"FIRE Control+Q",
		"QUIT",
	))
	fired := requireLine(t, lines, "FIRED Control+Q")
	if !strings.Contains(fired, `selection="hello world"`) {
		t.Errorf("fired line = %q", fired)
	}
	if events := readLog(t, logDir, "events_log.txt"); !strings.Contains(events, "Control+Q") {
		t.Errorf("events log = %q", events)
	}
	diag := readLog(t, logDir, "diagnostics_log.txt")
	for _, want := range []string{"hotkey_registered", "hotkey_fired", "selection_read", "session_end"} {
		if !strings.Contains(diag, want) {
			t.Errorf("diagnostics log missing %s", want)
		}
	}
}

func TestFireWithoutSelection(t *testing.T) {
	lines, _ := runListener(t, cmds("ADD ctrl+shift+e", "FIRE Control+Shift+E", "QUIT"))
	fired := requireLine(t, lines, "FIRED Control+Shift+E")
	if !strings.Contains(fired, `selection=""`) {
		t.Errorf("fired line = %q", fired)
	}
}

func TestSuspendResume(t *testing.T) {
	lines, _ := runListener(t, cmds(
		"ADD Control+A",
		"ADD Alt+B",
		"SUSPEND",
		"UPDATE Control+A Control+C",
		"RESUME",
		"LIST",
		"QUIT",
	))
	list := requireLine(t, lines, "LIVE")
	if list != "LIVE [Alt+B, Control+C] suspended=false" && list != "LIVE [Control+C, Alt+B] suspended=false" {
		t.Errorf("list = %q", list)
	}
}

func TestConflict(t *testing.T) {
	lines, logDir := runListener(t, cmds("TAKE Alt+F4", "ADD Alt+F4", "QUIT"))
	requireLine(t, lines, "CONFLICT Alt+F4")
	requireLine(t, lines, "ERR Alt+F4 not registered")
	if !strings.Contains(readLog(t, logDir, "diagnostics_log.txt"), "hotkey_conflict") {
		t.Error("conflict not logged")
	}
}

func TestWindowsOnlyRefused(t *testing.T) {
	lines, _ := runListener(t, cmds("ADD Windows+A", "LIST", "QUIT"))
	requireLine(t, lines, "ERR Windows+A not registered")
	requireLine(t, lines, "LIVE [] suspended=false")
}

func TestSuspendOnForeground(t *testing.T) {
	cfgDir := t.TempDir()
	cfgPath := filepath.Join(cfgDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("hotkeys: [Control+E]\nsuspend_on: [mstsc.exe]\nnotifications: false\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cmd := exec.Command(testBinary, "-logpath", t.TempDir(), "-config", cfgPath, "-test")
	cmd.Stdin = strings.NewReader(cmds(
		"FOCUS mstsc.exe Remote Desktop",
		"LIST",
		"FOCUS notepad.exe",
		"LIST",
		"QUIT",
	))
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("exit: %v\n%s", err, out)
	}
	var lists []string
	for _, l := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(l, "LIVE") {
			lists = append(lists, l)
		}
	}
	want := []string{"LIVE [] suspended=true", "LIVE [Control+E] suspended=false"}
	if len(lists) != 2 || lists[0] != want[0] || lists[1] != want[1] {
		t.Errorf("lists = %q, want %q", lists, want)
	}
}

func TestHotkeyFlag(t *testing.T) {
	lines, _ := runListener(t, cmds("LIST", "QUIT"), "-hotkey", "alt+q", "-hotkey", "Shift+F3")
	requireLine(t, lines, "LIVE [Alt+Q, Shift+F3] suspended=false")
}
