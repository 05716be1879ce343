//go:build linux

package foreground

import (
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"hotkeylistener/log"
)

// x11Inspector reads EWMH properties set by the window manager. Under
// Wayland it only sees XWayland clients.
type x11Inspector struct {
	processInfo

	mu    sync.Mutex
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
	err   error
	once  sync.Once
}

// New returns the X11 inspector. The display connection is opened on first
// use.
func New() Inspector {
	return &x11Inspector{atoms: make(map[string]xproto.Atom)}
}

func (i *x11Inspector) connect() (*xgb.Conn, error) {
	i.once.Do(func() {
		conn, err := xgb.NewConn()
		if err != nil {
			i.err = err
			log.Warnf("X11 connection failed, foreground inspection disabled: %v", err)
			return
		}
		i.conn = conn
		i.root = xproto.Setup(conn).DefaultScreen(conn).Root
	})
	return i.conn, i.err
}

func (i *x11Inspector) atom(conn *xgb.Conn, name string) (xproto.Atom, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if a, ok := i.atoms[name]; ok {
		return a, a != xproto.AtomNone
	}
	reply, err := xproto.InternAtom(conn, true, uint16(len(name)), name).Reply()
	if err != nil {
		return xproto.AtomNone, false
	}
	i.atoms[name] = reply.Atom
	return reply.Atom, reply.Atom != xproto.AtomNone
}

func (i *x11Inspector) property(w xproto.Window, name string) (*xproto.GetPropertyReply, bool) {
	conn, err := i.connect()
	if err != nil {
		return nil, false
	}
	a, ok := i.atom(conn, name)
	if !ok {
		return nil, false
	}
	reply, err := xproto.GetProperty(conn, false, w, a, xproto.GetPropertyTypeAny, 0, 1<<16).Reply()
	if err != nil || reply.ValueLen == 0 {
		return nil, false
	}
	return reply, true
}

func (i *x11Inspector) ForegroundWindow() Handle {
	if _, err := i.connect(); err != nil {
		return 0
	}
	reply, ok := i.property(i.root, "_NET_ACTIVE_WINDOW")
	if !ok || reply.Format != 32 || len(reply.Value) < 4 {
		return 0
	}
	return Handle(xgb.Get32(reply.Value))
}

func (i *x11Inspector) ProcessID(h Handle) int {
	if h == 0 {
		return 0
	}
	reply, ok := i.property(xproto.Window(h), "_NET_WM_PID")
	if !ok || reply.Format != 32 || len(reply.Value) < 4 {
		return 0
	}
	return int(xgb.Get32(reply.Value))
}

func (i *x11Inspector) WindowTitle(h Handle) (string, bool) {
	if h == 0 {
		return "", false
	}
	for _, name := range []string{"_NET_WM_NAME", "WM_NAME"} {
		if reply, ok := i.property(xproto.Window(h), name); ok && reply.Format == 8 {
			return string(reply.Value), true
		}
	}
	return "", false
}
