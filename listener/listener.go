// Package listener is the public face of the hotkey core: it registers
// hotkeys, suspends and resumes them as a set, and turns fired hotkeys into
// events carrying a snapshot of the foreground application.
//
// A Listener is not safe for concurrent use. Like the registry it wraps, it
// belongs to the thread that receives hotkey messages; callers elsewhere
// marshal onto that thread first (uithread.Thread.Call).
package listener

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"hotkeylistener/foreground"
	"hotkeylistener/hotkey"
	"hotkeylistener/log"
	"hotkeylistener/selection"
)

// Options supplies the collaborators used when a hotkey fires. A nil
// Inspector leaves the source application empty apart from the selection;
// a nil Reader skips the selection read.
type Options struct {
	Inspector foreground.Inspector
	Reader    *selection.Reader
	Now       func() time.Time
	NewID     func() uuid.UUID
}

type binding struct {
	onResume   func()
	cancelAct  func()
	cancelDeac func()
}

func (b *binding) detach() {
	b.cancelAct()
	b.cancelDeac()
}

type Listener struct {
	reg  *hotkey.Registry
	opts Options

	suspended     bool
	suspendedKeys []string
	bindings      map[Scope]*binding
	onConflict    func(hotkey.KeyCombo)
	fired         int

	events  subscribers[Event]
	updates subscribers[Update]
}

func New(reg *hotkey.Registry, opts Options) *Listener {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.New
	}
	return &Listener{
		reg:      reg,
		opts:     opts,
		bindings: make(map[Scope]*binding),
	}
}

// OnConflict sets the hook called when the OS refuses a hotkey because
// another application owns it.
func (l *Listener) OnConflict(fn func(hotkey.KeyCombo)) {
	l.onConflict = fn
}

// Subscribe registers fn for fired hotkeys. Subscribers run synchronously
// on the thread that delivered the hotkey, in subscription order.
func (l *Listener) Subscribe(fn func(Event)) (unsubscribe func()) {
	return l.events.add(fn)
}

// SubscribeUpdates registers fn for Update notifications.
func (l *Listener) SubscribeUpdates(fn func(Update)) (unsubscribe func()) {
	return l.updates.add(fn)
}

// Add registers c. Combos whose only modifier is Windows are refused
// without reaching the OS. A false result with a nil error means another
// application owns the combo.
func (l *Listener) Add(c hotkey.KeyCombo) (bool, error) {
	if err := c.Validate(); err != nil {
		if errors.Is(err, hotkey.ErrWindowsOnly) {
			log.Warnf("refusing %s: %v", c, err)
			return false, nil
		}
		return false, err
	}
	ok, err := l.reg.Add(c.String())
	if err != nil {
		return false, err
	}
	if !ok && l.onConflict != nil {
		l.onConflict(c)
	}
	return ok, nil
}

// AddText parses text and adds the result.
func (l *Listener) AddText(text string) (bool, error) {
	c, err := hotkey.Parse(text)
	if err != nil {
		return false, err
	}
	return l.Add(c)
}

// AddBatch adds every combo and reports each outcome keyed by canonical
// text. Failures of one combo do not affect the others.
func (l *Listener) AddBatch(cs []hotkey.KeyCombo) map[string]bool {
	out := make(map[string]bool, len(cs))
	for _, c := range cs {
		ok, err := l.Add(c)
		if err != nil {
			log.Warnf("adding %s: %v", c, err)
		}
		out[c.String()] = ok
	}
	return out
}

// Update replaces current with next. While suspended the pending entry is
// rewritten instead, so next is what Resume registers. Update subscribers
// are notified either way.
func (l *Listener) Update(current, next hotkey.KeyCombo) error {
	defer l.updates.notify(Update{Previous: current, Next: next})

	if l.suspended {
		if err := next.Validate(); err != nil && !errors.Is(err, hotkey.ErrWindowsOnly) {
			return err
		}
		cur := current.String()
		if i := slices.Index(l.suspendedKeys, cur); i >= 0 {
			l.suspendedKeys[i] = next.String()
		} else {
			l.suspendedKeys = append(l.suspendedKeys, next.String())
		}
		l.suspendedKeys = compactKeys(l.suspendedKeys)
		return nil
	}

	l.reg.Remove(current.String())
	_, err := l.Add(next)
	return err
}

func compactKeys(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := keys[:0]
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// Remove unregisters c. While suspended it is also dropped from the set
// Resume would restore.
func (l *Listener) Remove(c hotkey.KeyCombo) {
	text := c.String()
	l.reg.Remove(text)
	if i := slices.Index(l.suspendedKeys, text); i >= 0 {
		l.suspendedKeys = slices.Delete(l.suspendedKeys, i, i+1)
	}
}

// RemoveAll unregisters every hotkey, including any pending resume.
func (l *Listener) RemoveAll() {
	l.reg.RemoveAll()
	l.suspendedKeys = nil
}

// Suspend unregisters every live hotkey and remembers them for Resume.
// Calling it again while suspended does nothing.
func (l *Listener) Suspend() {
	if l.suspended {
		return
	}
	l.suspendedKeys = l.reg.Hotkeys()
	l.reg.RemoveAll()
	l.suspended = true
	log.Infof("hotkeys suspended (%d)", len(l.suspendedKeys))
}

// Resume re-registers the hotkeys taken down by Suspend, skipping any that
// were registered again in the meantime. Calling it while not suspended
// does nothing.
func (l *Listener) Resume() {
	if !l.suspended {
		return
	}
	for _, text := range l.suspendedKeys {
		if l.reg.Contains(text) {
			continue
		}
		if _, err := l.AddText(text); err != nil {
			log.Warnf("resuming %s: %v", text, err)
		}
	}
	log.Infof("hotkeys resumed (%d)", len(l.suspendedKeys))
	l.suspended = false
	l.suspendedKeys = nil
}

func (l *Listener) Suspended() bool { return l.suspended }

// Pending returns the hotkeys Resume will restore.
func (l *Listener) Pending() []string {
	return slices.Clone(l.suspendedKeys)
}

// Hotkeys returns the live hotkeys in registration order.
func (l *Listener) Hotkeys() []hotkey.KeyCombo {
	texts := l.reg.Hotkeys()
	out := make([]hotkey.KeyCombo, 0, len(texts))
	for _, t := range texts {
		if c, err := hotkey.Parse(t); err == nil {
			out = append(out, c)
		}
	}
	return out
}

// Fired returns how many hotkey events have been dispatched.
func (l *Listener) Fired() int { return l.fired }

// SuspendOn suspends hotkeys while scope is active. When scope becomes
// inactive hotkeys are resumed and then onResume, if set, is called.
// Binding a scope again replaces its earlier binding.
//
// scope's callbacks call back into the Listener, so the host must raise
// them on the Listener's thread.
func (l *Listener) SuspendOn(scope Scope, onResume func()) {
	if old, ok := l.bindings[scope]; ok {
		old.detach()
	}
	b := &binding{onResume: onResume}
	b.cancelAct = scope.OnActivate(l.Suspend)
	b.cancelDeac = scope.OnDeactivate(func() {
		l.Resume()
		if b.onResume != nil {
			b.onResume()
		}
	})
	l.bindings[scope] = b
}

// ResumeOn removes the binding made by SuspendOn. Unbound scopes are
// ignored.
func (l *Listener) ResumeOn(scope Scope) {
	b, ok := l.bindings[scope]
	if !ok {
		return
	}
	b.detach()
	delete(l.bindings, scope)
}

// Dispatch handles a fired hotkey id: it resolves the combo, snapshots the
// foreground application and notifies subscribers. Unknown ids are logged
// and dropped.
func (l *Listener) Dispatch(ctx context.Context, id int) bool {
	text, ok := l.reg.Lookup(id)
	if !ok {
		log.Warnf("hotkey message for unknown id %#x", id)
		return false
	}
	c, err := hotkey.Parse(text)
	if err != nil {
		log.Errorf("registry holds unparsable hotkey %q: %v", text, err)
		return false
	}

	var src foreground.SourceApplication
	switch {
	case l.opts.Inspector != nil:
		src = foreground.Snapshot(ctx, l.opts.Inspector, l.opts.Reader)
	case l.opts.Reader != nil:
		src.Selection = l.opts.Reader.TryGetSelection(ctx)
	}

	ev := Event{
		ID:     l.opts.NewID(),
		Hotkey: c,
		Source: src,
		At:     l.opts.Now(),
	}
	l.fired++
	log.HotkeyFired(text, src.ExecutableName, src.WindowTitle, len(src.Selection))
	l.events.notify(ev)
	return true
}

// Receiver is a message loop that can route hotkey messages.
type Receiver interface {
	Handle(msg uint32, fn func(wParam, lParam uintptr))
}

// Attach routes hotkey messages arriving at r to Dispatch.
func (l *Listener) Attach(r Receiver) {
	r.Handle(hotkey.MsgHotkey, func(wParam, _ uintptr) {
		l.Dispatch(context.Background(), int(wParam))
	})
}
