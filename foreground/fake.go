package foreground

import "sync"

// FakeInspector reports whatever window it was last given.
type FakeInspector struct {
	mu     sync.Mutex
	window Handle
	pid    int
	name   string
	path   string
	title  string
	titled bool
	exited bool
}

func NewFake() *FakeInspector {
	return &FakeInspector{}
}

// Focus makes a window of the given process foreground. An empty title
// means the window has none.
func (f *FakeInspector) Focus(h Handle, pid int, path, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.window = h
	f.pid = pid
	f.path = path
	f.name = ""
	if path != "" {
		f.name = baseName(path)
	}
	f.title = title
	f.titled = title != ""
	f.exited = false
}

// Exit simulates the foreground process going away between queries.
func (f *FakeInspector) Exit() {
	f.mu.Lock()
	f.exited = true
	f.mu.Unlock()
}

func (f *FakeInspector) ForegroundWindow() Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.window
}

func (f *FakeInspector) ProcessID(h Handle) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if h != f.window {
		return 0
	}
	return f.pid
}

func (f *FakeInspector) ExecutableInfo(pid int) (string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.exited || pid != f.pid {
		return "", ""
	}
	return f.name, f.path
}

func (f *FakeInspector) WindowTitle(h Handle) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if h != f.window || !f.titled {
		return "", false
	}
	return f.title, true
}
