package foreground

import (
	"reflect"
	"testing"
	"time"
)

func TestWatcherTransitions(t *testing.T) {
	insp := NewFake()
	w := NewWatcher(insp, time.Hour)

	var got []bool
	cancel := w.Watch("game.exe", func(active bool) { got = append(got, active) })

	insp.Focus(1, 10, "editor.exe", "")
	w.Poll()
	insp.Focus(2, 20, `D:\Games\Game.exe`, "")
	w.Poll()
	w.Poll()
	insp.Focus(1, 10, "editor.exe", "")
	w.Poll()

	if want := []bool{true, false}; !reflect.DeepEqual(got, want) {
		t.Errorf("transitions = %v, want %v", got, want)
	}

	cancel()
	insp.Focus(2, 20, "game.exe", "")
	w.Poll()
	if len(got) != 2 {
		t.Errorf("cancelled watch fired: %v", got)
	}
}

func TestWatcherStartStop(t *testing.T) {
	insp := NewFake()
	insp.Focus(3, 30, "game.exe", "")
	w := NewWatcher(insp, time.Millisecond)

	fired := make(chan bool, 4)
	w.Watch("game", func(active bool) { fired <- active })
	w.Start()
	w.Start()
	defer w.Stop()

	select {
	case active := <-fired:
		if !active {
			t.Error("first transition should be activation")
		}
	case <-time.After(time.Second):
		t.Fatal("watcher never fired")
	}
	w.Stop()
	w.Stop()
}
