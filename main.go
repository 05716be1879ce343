package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"golang.org/x/term"

	"hotkeylistener/config"
	"hotkeylistener/doctor"
	"hotkeylistener/foreground"
	"hotkeylistener/hotkey"
	"hotkeylistener/log"
	"hotkeylistener/login"
	"hotkeylistener/notify"
	"hotkeylistener/selection"
	"hotkeylistener/shutdown"
	"hotkeylistener/tray"
	"hotkeylistener/uithread"
)

var version = "dev"

// hotkeyList collects repeated -hotkey flags.
type hotkeyList []string

func (h *hotkeyList) String() string { return strings.Join(*h, ", ") }

func (h *hotkeyList) Set(v string) error {
	if _, err := hotkey.Parse(v); err != nil {
		return err
	}
	*h = append(*h, v)
	return nil
}

// initCrashLog sends fatal runtime errors to crash_log.txt in dir.
func initCrashLog(dir string) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return
	}
	crashPath := filepath.Join(dir, "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
	debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	crashFile.Close()
}

func run() {
	var hotkeys hotkeyList
	configFlag := flag.String("config", "", "config file path (default: <user config dir>/hotkeylistener/config.yaml)")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	flag.Var(&hotkeys, "hotkey", "Hotkey to register, e.g. Control+Shift+Q (repeatable, replaces the configured list)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	tuiFlag := flag.Bool("tui", true, "Run with terminal UI")
	testFlag := flag.Bool("test", false, "Test mode (headless, stdin-driven)")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("hotkeylistener %s\n", version)
		os.Exit(0)
	}

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}
	initCrashLog(logPath)

	if *doctorFlag {
		os.Exit(doctor.Run())
	}

	cfgPath := *configFlag
	if cfgPath == "" {
		if cfgPath, err = config.DefaultPath(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(hotkeys) > 0 {
		cfg.Hotkeys = hotkeys
	}
	if !cfg.Notifications {
		notify.Disable()
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	if *testFlag {
		runTestMode(cfg)
		return
	}

	th, err := uithread.Start()
	if err != nil {
		log.Errorf("message thread: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer th.Close()

	selOpts := selection.Options{
		Thread:  th,
		Timeout: cfg.Selection.ClipboardTimeout,
		Poll:    cfg.Selection.ClipboardPoll,
	}
	reader := selection.NewReader(selection.DefaultStrategies(selOpts)...).
		WithOptional(selection.OptionalStrategies(selOpts)...).
		WithPolicy(cfg.Selection.Policy)

	useTUI := *tuiFlag && term.IsTerminal(int(os.Stdout.Fd()))
	var display EventSink = newLineSink(os.Stdout)
	if useTUI {
		tuiMu.Lock()
		tuiProgram = NewTUIProgram()
		tuiMu.Unlock()
		display = tuiSink{}
	}
	sink := multiSink{display, traySink{}}

	ctx, stop := shutdown.Context(context.Background())
	defer stop()

	tuiDone := make(chan struct{})
	if useTUI {
		// Sends block until the program loop runs, so it starts before
		// anything can report to the sink.
		go func() {
			defer close(tuiDone)
			if _, err := tuiProgram.Run(); err != nil {
				log.Errorf("TUI error: %v", err)
			}
			stop()
		}()
	} else {
		close(tuiDone)
	}

	insp := foreground.New()
	a := newApp(th, hotkey.NewBinder(th), hotkey.NewAtoms(), insp, reader, sink)
	a.Apply(cfg)
	log.SessionStart(runtime.GOOS, len(a.Live()))
	a.watcher.Start()
	defer a.Close()

	tray.OnSuspend(func(suspend bool) {
		if suspend {
			a.Suspend()
		} else {
			a.Resume()
		}
	})
	tray.SetLogin(login.Enabled())
	tray.OnLogin(func(on bool) error {
		if on {
			return login.Enable("-tui=false", "-config", cfgPath)
		}
		return login.Disable()
	})
	trayQuit := tray.Init()
	go func() {
		select {
		case <-trayQuit:
			stop()
		case <-ctx.Done():
		}
	}()

	err = config.Watch(ctx, cfgPath, func(next config.Config) {
		if len(hotkeys) > 0 {
			next.Hotkeys = hotkeys
		}
		if next.Notifications {
			notify.Enable()
		} else {
			notify.Disable()
		}
		a.Apply(next)
		sink.Status("config reloaded")
	})
	if err != nil {
		log.Warnf("config changes will not be picked up: %v", err)
	}

	if !useTUI {
		sink.Status(fmt.Sprintf("listening for %s (Ctrl+C to quit)", strings.Join(a.Live(), ", ")))
	}
	<-ctx.Done()
	if useTUI {
		tuiProgram.Quit()
	}
	<-tuiDone
}
