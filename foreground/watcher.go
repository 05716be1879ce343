package foreground

import (
	"sync"
	"time"
)

const DefaultPollInterval = 250 * time.Millisecond

type watch struct {
	exe    string
	fn     func(active bool)
	active bool
}

// Watcher polls the foreground window and reports when a watched
// executable gains or loses the foreground.
type Watcher struct {
	insp     Inspector
	interval time.Duration

	mu      sync.Mutex
	watches map[int]*watch
	nextID  int
	lastPID int
	lastExe string

	stop chan struct{}
	done chan struct{}
}

func NewWatcher(insp Inspector, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		insp:     insp,
		interval: interval,
		watches:  make(map[int]*watch),
	}
}

// Watch calls fn(true) when exe becomes the foreground application and
// fn(false) when it stops being it. fn runs on the polling goroutine.
func (w *Watcher) Watch(exe string, fn func(active bool)) (cancel func()) {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.watches[id] = &watch{exe: exe, fn: fn}
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.watches, id)
		w.mu.Unlock()
	}
}

// Poll checks the foreground once and fires any transitions.
func (w *Watcher) Poll() {
	exe := w.foregroundExe()

	type change struct {
		fn     func(bool)
		active bool
	}
	var changes []change

	w.mu.Lock()
	for _, wt := range w.watches {
		active := SameExecutable(wt.exe, exe)
		if active != wt.active {
			wt.active = active
			changes = append(changes, change{wt.fn, active})
		}
	}
	w.mu.Unlock()

	for _, c := range changes {
		c.fn(c.active)
	}
}

func (w *Watcher) foregroundExe() string {
	h := w.insp.ForegroundWindow()
	if h == 0 {
		return ""
	}
	pid := w.insp.ProcessID(h)
	if pid <= 0 {
		return ""
	}

	w.mu.Lock()
	if pid == w.lastPID && w.lastExe != "" {
		exe := w.lastExe
		w.mu.Unlock()
		return exe
	}
	w.mu.Unlock()

	name, _ := w.insp.ExecutableInfo(pid)

	w.mu.Lock()
	w.lastPID, w.lastExe = pid, name
	w.mu.Unlock()
	return name
}

// Start polls in the background until Stop.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.stop != nil {
		w.mu.Unlock()
		return
	}
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	stop, done := w.stop, w.done
	w.mu.Unlock()

	go func() {
		defer close(done)
		t := time.NewTicker(w.interval)
		defer t.Stop()
		for {
			w.Poll()
			select {
			case <-stop:
				return
			case <-t.C:
			}
		}
	}()
}

func (w *Watcher) Stop() {
	w.mu.Lock()
	stop, done := w.stop, w.done
	w.stop, w.done = nil, nil
	w.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}
