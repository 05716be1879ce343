package listener

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"hotkeylistener/foreground"
	"hotkeylistener/hotkey"
	"hotkeylistener/selection"
	"hotkeylistener/uithread"
)

type fixture struct {
	l      *Listener
	binder *hotkey.FakeBinder
	atoms  *hotkey.MemoryAtoms
	reg    *hotkey.Registry
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	binder := hotkey.NewFake()
	atoms := hotkey.NewMemoryAtoms()
	reg := hotkey.NewRegistry(0, atoms, binder)
	return &fixture{l: New(reg, opts), binder: binder, atoms: atoms, reg: reg}
}

func combo(s string) hotkey.KeyCombo { return hotkey.MustParse(s) }

func mustAdd(t *testing.T, l *Listener, s string) {
	t.Helper()
	ok, err := l.Add(combo(s))
	if err != nil || !ok {
		t.Fatalf("Add(%q) = %v, %v", s, ok, err)
	}
}

func live(f *fixture) []string {
	out := f.reg.Hotkeys()
	sort.Strings(out)
	return out
}

func TestAddRejectsWindowsOnly(t *testing.T) {
	f := newFixture(t, Options{})
	ok, err := f.l.Add(combo("Windows+A"))
	if ok || err != nil {
		t.Errorf("got %v, %v; want false, nil", ok, err)
	}
	if f.binder.Len() != 0 || f.atoms.Len() != 0 {
		t.Error("Windows-only combo reached the OS")
	}
}

func TestAddIdempotent(t *testing.T) {
	f := newFixture(t, Options{})
	mustAdd(t, f.l, "Control+Shift+E")
	mustAdd(t, f.l, "Control+Shift+E")
	if f.reg.Len() != 1 || f.binder.Len() != 1 {
		t.Errorf("registry=%d binder=%d, want 1", f.reg.Len(), f.binder.Len())
	}
}

func TestAddConflict(t *testing.T) {
	f := newFixture(t, Options{})
	f.binder.Take(combo("Alt+F4"))

	var conflicts []string
	f.l.OnConflict(func(c hotkey.KeyCombo) { conflicts = append(conflicts, c.String()) })

	ok, err := f.l.Add(combo("Alt+F4"))
	if ok || err != nil {
		t.Errorf("got %v, %v", ok, err)
	}
	if !reflect.DeepEqual(conflicts, []string{"Alt+F4"}) {
		t.Errorf("conflicts = %v", conflicts)
	}
}

func TestAddText(t *testing.T) {
	f := newFixture(t, Options{})
	if _, err := f.l.AddText("Control+Nope"); !errors.Is(err, hotkey.ErrInvalidHotkeySyntax) {
		t.Errorf("got %v", err)
	}
	if ok, err := f.l.AddText("ctrl, q"); !ok || err != nil {
		t.Errorf("got %v, %v", ok, err)
	}
}

func TestAddBatch(t *testing.T) {
	f := newFixture(t, Options{})
	f.binder.Take(combo("Control+Alt+Delete"))

	got := f.l.AddBatch([]hotkey.KeyCombo{
		combo("Control+E"),
		combo("Control+Alt+Delete"),
		combo("Windows+A"),
		combo("Alt+Q"),
	})
	want := map[string]bool{
		"Control+E":          true,
		"Control+Alt+Delete": false,
		"Windows+A":          false,
		"Alt+Q":              true,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSuspendResumeRestoresSet(t *testing.T) {
	f := newFixture(t, Options{})
	mustAdd(t, f.l, "Control+E")
	mustAdd(t, f.l, "Alt+Q")
	mustAdd(t, f.l, "Shift+F3")
	before := live(f)

	f.l.Suspend()
	if !f.l.Suspended() || f.reg.Len() != 0 || f.binder.Len() != 0 {
		t.Fatalf("suspend left %d live", f.reg.Len())
	}
	if f.atoms.Len() != 0 {
		t.Errorf("suspend kept %d atoms", f.atoms.Len())
	}
	f.l.Suspend()

	f.l.Resume()
	if f.l.Suspended() {
		t.Error("still suspended")
	}
	if after := live(f); !reflect.DeepEqual(after, before) {
		t.Errorf("after resume %v, want %v", after, before)
	}
	if len(f.l.Pending()) != 0 {
		t.Errorf("pending = %v after resume", f.l.Pending())
	}
}

func TestResumeNotSuspended(t *testing.T) {
	f := newFixture(t, Options{})
	mustAdd(t, f.l, "Control+E")
	before := live(f)
	f.l.Resume()
	if !reflect.DeepEqual(live(f), before) {
		t.Errorf("resume changed registry: %v", live(f))
	}
}

func TestResumeSkipsReAdded(t *testing.T) {
	f := newFixture(t, Options{})
	mustAdd(t, f.l, "Control+E")
	f.l.Suspend()
	mustAdd(t, f.l, "Control+E")
	mustAdd(t, f.l, "Alt+Z")

	f.l.Resume()
	if got := live(f); !reflect.DeepEqual(got, []string{"Alt+Z", "Control+E"}) {
		t.Errorf("live = %v", got)
	}
	if f.binder.Len() != 2 {
		t.Errorf("binder = %d", f.binder.Len())
	}
}

func TestUpdateWhileSuspended(t *testing.T) {
	f := newFixture(t, Options{})
	mustAdd(t, f.l, "Control+A")
	mustAdd(t, f.l, "Control+C")

	var updates []Update
	f.l.SubscribeUpdates(func(u Update) { updates = append(updates, u) })

	f.l.Suspend()
	if err := f.l.Update(combo("Control+A"), combo("Control+B")); err != nil {
		t.Fatal(err)
	}
	if f.reg.Len() != 0 {
		t.Error("update registered while suspended")
	}
	f.l.Resume()

	if got := live(f); !reflect.DeepEqual(got, []string{"Control+B", "Control+C"}) {
		t.Errorf("live = %v", got)
	}
	want := []Update{{Previous: combo("Control+A"), Next: combo("Control+B")}}
	if !reflect.DeepEqual(updates, want) {
		t.Errorf("updates = %v", updates)
	}
}

func TestUpdateLive(t *testing.T) {
	f := newFixture(t, Options{})
	mustAdd(t, f.l, "Control+A")

	var n int
	f.l.SubscribeUpdates(func(Update) { n++ })
	if err := f.l.Update(combo("Control+A"), combo("Alt+B")); err != nil {
		t.Fatal(err)
	}
	if got := live(f); !reflect.DeepEqual(got, []string{"Alt+B"}) {
		t.Errorf("live = %v", got)
	}
	if n != 1 {
		t.Errorf("update notified %d times", n)
	}
}

func TestUpdateAtomExhaustion(t *testing.T) {
	f := newFixture(t, Options{})
	f.atoms.SetLimit(0)
	var n int
	f.l.SubscribeUpdates(func(Update) { n++ })
	if err := f.l.Update(combo("Control+A"), combo("Alt+B")); !errors.Is(err, hotkey.ErrAtomAllocationFailed) {
		t.Errorf("got %v", err)
	}
	if n != 1 {
		t.Errorf("update notified %d times", n)
	}
}

func TestRemove(t *testing.T) {
	f := newFixture(t, Options{})
	mustAdd(t, f.l, "Control+A")
	mustAdd(t, f.l, "Control+B")

	f.l.Suspend()
	f.l.Remove(combo("Control+A"))
	f.l.Resume()
	if got := live(f); !reflect.DeepEqual(got, []string{"Control+B"}) {
		t.Errorf("live = %v", got)
	}

	f.l.Remove(combo("Control+B"))
	if f.reg.Len() != 0 {
		t.Errorf("live = %v", live(f))
	}
}

func TestRemoveAllReleasesAtoms(t *testing.T) {
	f := newFixture(t, Options{})
	mustAdd(t, f.l, "Control+A")
	mustAdd(t, f.l, "Alt+F1")
	f.l.RemoveAll()
	if f.reg.Len() != 0 || f.binder.Len() != 0 || f.atoms.Len() != 0 {
		t.Errorf("registry=%d binder=%d atoms=%d", f.reg.Len(), f.binder.Len(), f.atoms.Len())
	}
	if len(f.l.Hotkeys()) != 0 {
		t.Errorf("Hotkeys = %v", f.l.Hotkeys())
	}
}

func TestDispatchEvent(t *testing.T) {
	insp := foreground.NewFake()
	insp.Focus(0x99, 1234, "/usr/bin/gedit", "notes")

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	reader := selection.NewReader(
		selection.Func(selection.Automation, func(context.Context) (string, error) { return "", errors.New("no element") }),
		selection.Func(selection.Control, func(context.Context) (string, error) { return "", nil }),
		selection.Func(selection.Clipboard, func(context.Context) (string, error) { return "hello", nil }),
	)
	f := newFixture(t, Options{
		Inspector: insp,
		Reader:    reader,
		Now:       func() time.Time { return at },
		NewID:     func() uuid.UUID { return id },
	})
	mustAdd(t, f.l, "Control+Q")

	var events []Event
	f.l.Subscribe(func(e Event) { events = append(events, e) })

	fired, ok := f.binder.Press(combo("Control+Q"))
	if !ok {
		t.Fatal("Control+Q not bound")
	}
	if !f.l.Dispatch(context.Background(), fired) {
		t.Fatal("Dispatch rejected a registered id")
	}

	if len(events) != 1 {
		t.Fatalf("got %d events", len(events))
	}
	e := events[0]
	if e.Hotkey.String() != "Control+Q" {
		t.Errorf("hotkey = %s", e.Hotkey)
	}
	if e.Source.Selection != "hello" {
		t.Errorf("selection = %q", e.Source.Selection)
	}
	if e.Source.ProcessID != 1234 || e.Source.ExecutableName != "gedit" || e.Source.WindowTitle != "notes" {
		t.Errorf("source = %+v", e.Source)
	}
	if e.ID != id || !e.At.Equal(at) {
		t.Errorf("id/at = %v %v", e.ID, e.At)
	}
	if f.l.Fired() != 1 {
		t.Errorf("Fired = %d", f.l.Fired())
	}
}

func TestDispatchUnknownID(t *testing.T) {
	f := newFixture(t, Options{})
	var n int
	f.l.Subscribe(func(Event) { n++ })
	if f.l.Dispatch(context.Background(), 0xC123) {
		t.Error("unknown id dispatched")
	}
	if n != 0 {
		t.Error("subscriber called for unknown id")
	}
}

func TestSubscribeOrderAndUnsubscribe(t *testing.T) {
	f := newFixture(t, Options{})
	mustAdd(t, f.l, "Alt+Q")
	id, _ := f.binder.Bound(combo("Alt+Q"))

	var order []int
	f.l.Subscribe(func(Event) { order = append(order, 1) })
	unsub := f.l.Subscribe(func(Event) { order = append(order, 2) })
	f.l.Subscribe(func(Event) { order = append(order, 3) })

	f.l.Dispatch(context.Background(), id)
	unsub()
	f.l.Dispatch(context.Background(), id)

	if want := []int{1, 2, 3, 1, 3}; !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestAttachEndToEnd(t *testing.T) {
	th, err := uithread.Start()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(th.Close)

	binder := hotkey.NewFake()
	binder.SetPoster(th)
	reg := hotkey.NewRegistry(0, hotkey.NewMemoryAtoms(), binder)
	reader := selection.NewReader(selection.Func(selection.Clipboard, func(context.Context) (string, error) {
		return "picked", nil
	}))
	l := New(reg, Options{Reader: reader})
	l.Attach(th)

	events := make(chan Event, 1)
	th.Call(func() {
		l.Subscribe(func(e Event) {
			if !th.OnThread() {
				t.Error("event delivered off the ui thread")
			}
			events <- e
		})
		if ok, err := l.Add(combo("Control+Q")); !ok || err != nil {
			t.Errorf("Add = %v, %v", ok, err)
		}
	})

	if _, ok := binder.Press(combo("Control+Q")); !ok {
		t.Fatal("Control+Q not bound")
	}
	select {
	case e := <-events:
		if e.Hotkey.String() != "Control+Q" || e.Source.Selection != "picked" {
			t.Errorf("event = %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event delivered")
	}
}
