package tray

import "testing"

func TestTooltip(t *testing.T) {
	t.Cleanup(func() { SetState(nil, false) })

	tests := []struct {
		live      []string
		suspended bool
		want      string
	}{
		{nil, false, "hotkeylistener – 0 hotkeys"},
		{[]string{"Control+Q"}, false, "hotkeylistener – Control+Q"},
		{[]string{"Control+Q", "Alt+E"}, false, "hotkeylistener – 2 hotkeys"},
		{[]string{"Control+Q"}, true, "hotkeylistener – suspended"},
	}
	for _, tt := range tests {
		SetState(tt.live, tt.suspended)
		if got := tooltip(); got != tt.want {
			t.Errorf("SetState(%v, %v): tooltip = %q, want %q", tt.live, tt.suspended, got, tt.want)
		}
	}
}

func TestSetStateCopies(t *testing.T) {
	t.Cleanup(func() { SetState(nil, false) })
	live := []string{"Control+Q"}
	SetState(live, false)
	live[0] = "Alt+X"
	if got := tooltip(); got != "hotkeylistener – Control+Q" {
		t.Errorf("tooltip = %q", got)
	}
}
