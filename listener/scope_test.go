package listener

import (
	"reflect"
	"testing"
)

func TestSuspendOn(t *testing.T) {
	f := newFixture(t, Options{})
	mustAdd(t, f.l, "Control+E")

	sc := NewScope()
	resumed := 0
	f.l.SuspendOn(sc, func() { resumed++ })

	sc.Activate()
	if !f.l.Suspended() || f.reg.Len() != 0 {
		t.Fatal("activation did not suspend")
	}
	sc.Activate()

	sc.Deactivate()
	if f.l.Suspended() || f.reg.Len() != 1 {
		t.Fatal("deactivation did not resume")
	}
	if resumed != 1 {
		t.Errorf("onResume called %d times", resumed)
	}
}

func TestSuspendOnReplaces(t *testing.T) {
	f := newFixture(t, Options{})
	mustAdd(t, f.l, "Control+E")

	sc := NewScope()
	var calls []string
	f.l.SuspendOn(sc, func() { calls = append(calls, "first") })
	f.l.SuspendOn(sc, func() { calls = append(calls, "second") })

	sc.Activate()
	sc.Deactivate()
	if !reflect.DeepEqual(calls, []string{"second"}) {
		t.Errorf("calls = %v", calls)
	}
}

func TestSuspendOnWithoutCallback(t *testing.T) {
	f := newFixture(t, Options{})
	mustAdd(t, f.l, "Control+E")
	sc := NewScope()
	f.l.SuspendOn(sc, nil)
	sc.Activate()
	sc.Deactivate()
	if f.reg.Len() != 1 {
		t.Errorf("live = %d", f.reg.Len())
	}
}

func TestResumeOn(t *testing.T) {
	f := newFixture(t, Options{})
	mustAdd(t, f.l, "Control+E")

	sc := NewScope()
	f.l.ResumeOn(sc)

	f.l.SuspendOn(sc, nil)
	f.l.ResumeOn(sc)
	f.l.ResumeOn(sc)

	sc.Activate()
	if f.l.Suspended() {
		t.Error("detached scope still suspends")
	}
}

func TestScopesIndependent(t *testing.T) {
	f := newFixture(t, Options{})
	mustAdd(t, f.l, "Control+E")

	a, b := NewScope(), NewScope()
	var resumed []string
	f.l.SuspendOn(a, func() { resumed = append(resumed, "a") })
	f.l.SuspendOn(b, func() { resumed = append(resumed, "b") })

	a.Activate()
	a.Deactivate()
	b.Activate()
	b.Deactivate()
	if !reflect.DeepEqual(resumed, []string{"a", "b"}) {
		t.Errorf("resumed = %v", resumed)
	}
}

func TestContextTransitions(t *testing.T) {
	sc := NewScope()
	var log []string
	cancel := sc.OnActivate(func() { log = append(log, "on") })
	sc.OnDeactivate(func() { log = append(log, "off") })

	sc.Deactivate()
	sc.Activate()
	sc.Activate()
	sc.Deactivate()
	cancel()
	sc.Activate()

	if want := []string{"on", "off"}; !reflect.DeepEqual(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
	if !sc.Active() {
		t.Error("Active = false after Activate")
	}
}
