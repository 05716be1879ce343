package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"hotkeylistener/config"
	"hotkeylistener/foreground"
	"hotkeylistener/hotkey"
	"hotkeylistener/listener"
	"hotkeylistener/log"
	"hotkeylistener/notify"
	"hotkeylistener/selection"
	"hotkeylistener/uithread"
)

type suspendScope struct {
	exe    string
	scope  *listener.Context
	cancel func()
}

// app wires the listener to the foreground watcher, the config and a sink.
// Everything touching the listener runs on thread.
type app struct {
	thread   *uithread.Thread
	binder   hotkey.Binder
	listener *listener.Listener
	watcher  *foreground.Watcher
	sink     EventSink

	cfg    config.Config
	scopes []suspendScope
}

func newApp(th *uithread.Thread, binder hotkey.Binder, atoms hotkey.AtomTable,
	insp foreground.Inspector, reader *selection.Reader, sink EventSink) *app {

	reg := hotkey.NewRegistry(0, atoms, binder)
	a := &app{
		thread: th,
		binder: binder,
		listener: listener.New(reg, listener.Options{
			Inspector: insp,
			Reader:    reader,
		}),
		watcher: foreground.NewWatcher(insp, foreground.DefaultPollInterval),
		sink:    sink,
	}
	th.Call(func() {
		a.listener.Attach(th)
		a.listener.Subscribe(sink.Fired)
		a.listener.OnConflict(a.conflict)
		a.listener.SubscribeUpdates(func(u listener.Update) {
			log.Infof("hotkey updated: %s -> %s", u.Previous, u.Next)
			a.refresh()
		})
	})
	return a
}

func (a *app) conflict(c hotkey.KeyCombo) {
	a.sink.Conflict(c)
	if a.cfg.Notifications {
		notify.Conflict(c)
	}
}

// refresh pushes the live hotkey set to the sink. Called on thread.
func (a *app) refresh() {
	var live []string
	for _, c := range a.listener.Hotkeys() {
		live = append(live, c.String())
	}
	if a.listener.Suspended() {
		live = a.listener.Pending()
	}
	a.sink.Hotkeys(live, a.listener.Suspended())
}

// Apply brings the running state in line with cfg: hotkeys are diffed
// against the previous config and suspend scopes are rebuilt.
func (a *app) Apply(cfg config.Config) {
	a.thread.Call(func() {
		added, removed := config.DiffHotkeys(a.cfg, cfg)
		a.cfg = cfg
		for _, c := range removed {
			a.listener.Remove(c)
		}
		for c, ok := range a.listener.AddBatch(added) {
			if !ok {
				log.Warnf("hotkey %s not registered", c)
			}
		}
		a.bindScopes(cfg.SuspendOn)
		a.refresh()
	})
}

// bindScopes makes each executable in exes suspend the hotkeys while it is
// in the foreground. Scopes for executables still listed are kept. Dropping
// a scope that is holding the hotkeys suspended resumes them; a suspend the
// user asked for stays. Called on thread.
func (a *app) bindScopes(exes []string) {
	kept := make([]suspendScope, 0, len(exes))
	var released, holding bool
	for _, s := range a.scopes {
		if slices.ContainsFunc(exes, func(exe string) bool { return strings.EqualFold(exe, s.exe) }) {
			kept = append(kept, s)
			holding = holding || s.scope.Active()
			continue
		}
		released = released || s.scope.Active()
		s.cancel()
		a.listener.ResumeOn(s.scope)
	}
	if released && !holding && a.listener.Suspended() {
		a.listener.Resume()
	}

	scopes := make([]suspendScope, 0, len(exes))
	for _, exe := range exes {
		if i := slices.IndexFunc(kept, func(s suspendScope) bool { return strings.EqualFold(s.exe, exe) }); i >= 0 {
			scopes = append(scopes, kept[i])
			kept = slices.Delete(kept, i, i+1)
			continue
		}
		scopes = append(scopes, a.watchScope(exe))
	}
	a.scopes = scopes
}

func (a *app) watchScope(exe string) suspendScope {
	sc := listener.NewScope()
	a.listener.SuspendOn(sc, func() {
		a.sink.Status(fmt.Sprintf("%s left the foreground, hotkeys resumed", exe))
	})
	cancel := a.watcher.Watch(exe, func(active bool) {
		a.thread.Call(func() {
			if active {
				sc.Activate()
				a.sink.Status(fmt.Sprintf("%s in the foreground, hotkeys suspended", exe))
			} else {
				sc.Deactivate()
			}
			a.refresh()
		})
	})
	return suspendScope{exe: exe, scope: sc, cancel: cancel}
}

func (a *app) Add(c hotkey.KeyCombo) (ok bool, err error) {
	a.thread.Call(func() {
		ok, err = a.listener.Add(c)
		a.refresh()
	})
	return ok, err
}

func (a *app) Remove(c hotkey.KeyCombo) {
	a.thread.Call(func() {
		a.listener.Remove(c)
		a.refresh()
	})
}

func (a *app) Update(current, next hotkey.KeyCombo) (err error) {
	a.thread.Call(func() { err = a.listener.Update(current, next) })
	return err
}

func (a *app) Suspend() {
	a.thread.Call(func() {
		a.listener.Suspend()
		a.refresh()
	})
}

func (a *app) Resume() {
	a.thread.Call(func() {
		a.listener.Resume()
		a.refresh()
	})
}

func (a *app) Live() (live []string) {
	a.thread.Call(func() {
		for _, c := range a.listener.Hotkeys() {
			live = append(live, c.String())
		}
	})
	return live
}

func (a *app) Suspended() (s bool) {
	a.thread.Call(func() { s = a.listener.Suspended() })
	return s
}

func (a *app) Fired() (n int) {
	a.thread.Call(func() { n = a.listener.Fired() })
	return n
}

// Close stops watching, unregisters every hotkey and logs the session end.
func (a *app) Close() {
	a.watcher.Stop()
	fired := 0
	a.thread.Call(func() {
		for _, s := range a.scopes {
			s.cancel()
			a.listener.ResumeOn(s.scope)
		}
		a.scopes = nil
		a.listener.RemoveAll()
		fired = a.listener.Fired()
	})
	// The evdev binder holds keyboard devices open until closed.
	if c, ok := a.binder.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Warnf("closing hotkey binder: %v", err)
		}
	}
	log.SessionEnd(fired)
}
