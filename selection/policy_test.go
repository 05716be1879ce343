package selection

import (
	"context"
	"reflect"
	"testing"
)

func TestPolicyLookup(t *testing.T) {
	p := DefaultPolicy()
	for _, exe := range []string{"chrome.exe", "Chrome.EXE", "firefox", `C:\Program Files\Mozilla Firefox\firefox.exe`, "/usr/bin/chromium"} {
		names, ok := p.Lookup(exe)
		if !ok || !reflect.DeepEqual(names, []string{Clipboard}) {
			t.Errorf("Lookup(%q) = %v, %v", exe, names, ok)
		}
	}
	if _, ok := p.Lookup("notepad.exe"); ok {
		t.Error("notepad.exe matched the browser policy")
	}
	if _, ok := p.Lookup(""); ok {
		t.Error("empty exe matched")
	}
}

func TestPolicyLookupExeKey(t *testing.T) {
	p := Policy{"Code.exe": {Automation}}
	if names, ok := p.Lookup("code"); !ok || names[0] != Automation {
		t.Errorf("got %v, %v", names, ok)
	}
}

func TestPolicyValidate(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Fatal(err)
	}
	if err := (Policy{"x": {"telepathy"}}).Validate(); err == nil {
		t.Error("unknown strategy accepted")
	}
	if err := (Policy{"x": nil}).Validate(); err == nil {
		t.Error("empty strategy list accepted")
	}
}

func TestReaderFor(t *testing.T) {
	var automation, clip int
	r := NewReader(
		counting(Automation, "from automation", &automation),
		counting(Clipboard, "from clipboard", &clip),
	).WithPolicy(DefaultPolicy())

	if got := r.For("chrome.exe").TryGetSelection(context.Background()); got != "from clipboard" {
		t.Errorf("browser read %q", got)
	}
	if automation != 0 {
		t.Error("automation ran for a browser")
	}

	if got := r.For("notepad.exe").TryGetSelection(context.Background()); got != "from automation" {
		t.Errorf("notepad read %q", got)
	}
}

func TestReaderForMissingStrategy(t *testing.T) {
	r := NewReader(fixed(Automation, "a", nil)).WithPolicy(DefaultPolicy())
	if got := r.For("firefox").Strategies(); !reflect.DeepEqual(got, []string{Automation}) {
		t.Errorf("got %v", got)
	}
}

func TestOptionalStrategyNeedsPolicy(t *testing.T) {
	var primary, clip int
	r := NewReader(counting(Clipboard, "from clipboard", &clip)).
		WithOptional(counting(Primary, "stale primary", &primary)).
		WithPolicy(Policy{"xterm": {Primary, Clipboard}})

	if got := r.For("gedit").TryGetSelection(context.Background()); got != "from clipboard" {
		t.Errorf("gedit read %q", got)
	}
	if primary != 0 {
		t.Error("primary ran without a policy entry")
	}

	if got := r.For("xterm").Strategies(); !reflect.DeepEqual(got, []string{Primary, Clipboard}) {
		t.Errorf("xterm chain = %v", got)
	}
	if got := r.For("xterm").TryGetSelection(context.Background()); got != "stale primary" {
		t.Errorf("xterm read %q", got)
	}
}
