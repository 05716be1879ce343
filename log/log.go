package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	appName = "hotkeylistener"

	// EnvDir overrides the default log directory.
	EnvDir = "HOTKEYLISTENER_LOG_PATH"

	DiagnosticsFile = "diagnostics_log.txt"
	EventsFile      = "events_log.txt"
)

var (
	diagLog    zerolog.Logger
	diagFile   *os.File
	eventsFile *os.File
	logMu      sync.Mutex
	logReady   bool
	pid        int
	dir        string
)

func absPath(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, p), nil
}

// ResolveDir picks the log directory: the -logpath flag, then the
// HOTKEYLISTENER_LOG_PATH environment variable, then the OS default.
func ResolveDir(flagPath string) (string, error) {
	if flagPath != "" {
		return absPath(flagPath)
	}
	if env := os.Getenv(EnvDir); env != "" {
		return absPath(env)
	}
	return getDefaultDir()
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func openAppend(name string) (*os.File, error) {
	return os.OpenFile(filepath.Join(dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error
	diagFile, err = openAppend(DiagnosticsFile)
	if err != nil {
		return err
	}
	eventsFile, err = openAppend(EventsFile)
	if err != nil {
		diagFile.Close()
		diagFile = nil
		return err
	}

	diagLog = zerolog.New(zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	logReady = false
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if eventsFile != nil {
		eventsFile.Close()
		eventsFile = nil
	}
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Infof(format string, args ...any) {
	if logReady {
		diagLog.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func HotkeyRegistered(hotkey string, id int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("hotkey", hotkey).
		Int("id", id).
		Msg("hotkey_registered")
}

func HotkeyConflict(hotkey string) {
	if !logReady {
		return
	}
	diagLog.Warn().
		Str("hotkey", hotkey).
		Msg("hotkey_conflict")
}

// HotkeyFired records a delivered hotkey in the diagnostics log and appends
// a tab-separated line to the events log.
func HotkeyFired(hotkey, exe, title string, selectionLen int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("hotkey", hotkey).
		Str("exe", exe).
		Int("selection_len", selectionLen).
		Msg("hotkey_fired")

	logMu.Lock()
	defer logMu.Unlock()
	if eventsFile == nil {
		return
	}
	line := fmt.Sprintf("%s\t[%d]\t%s\t%s\t%s\n",
		time.Now().Format("2006-01-02 15:04:05"), pid, hotkey, exe, title)
	eventsFile.WriteString(line)
}

func SelectionRead(strategy string, n int, d time.Duration) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("strategy", strategy).
		Int("chars", n).
		Float64("ms", float64(d.Microseconds())/1000).
		Msg("selection_read")
}

func SessionStart(platform string, hotkeys int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("platform", platform).
		Int("hotkeys", hotkeys).
		Msg("session_start")
}

func SessionEnd(fired int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("fired", fired).
		Msg("session_end")
}
