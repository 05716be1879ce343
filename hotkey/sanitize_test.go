package hotkey

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		mods Modifier
		key  Key
		want string
		ok   bool
	}{
		{"bare letter gets control alt", ModNone, KeyE, "Control+Alt+E", true},
		{"bare digit gets shift alt", ModNone, Key0 + 5, "Shift+Alt+D5", true},
		{"shift letter refused", ModShift, KeyA, "", false},
		{"control alt digit refused", ModControl | ModAlt, Key0 + 1, "", false},
		{"function key kept", ModNone, KeyF1, "F1", true},
		{"control shift letter kept", ModControl | ModShift, KeyE, "Control+Shift+E", true},
		{"modifier key refused", ModControl, KeyLShift, "", false},
		{"windows only refused", ModWindows, KeyF1, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := Sanitize(tt.mods, tt.key)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && c.String() != tt.want {
				t.Errorf("got %q, want %q", c.String(), tt.want)
			}
		})
	}
}
