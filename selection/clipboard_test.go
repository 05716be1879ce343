package selection

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"hotkeylistener/chord"
	"hotkeylistener/clipboard"
)

type recordingCaller struct{ calls int }

func (c *recordingCaller) Call(fn func()) {
	c.calls++
	fn()
}

func newClipboardStrategy(mem *clipboard.Memory, send func() error) *ClipboardStrategy {
	return &ClipboardStrategy{
		Clipboard: mem,
		Copier:    chord.CopierFunc(send),
		Timeout:   50 * time.Millisecond,
		Poll:      time.Millisecond,
	}
}

func TestClipboardStrategyReadsAndRestores(t *testing.T) {
	mem := clipboard.NewMemory("previous")
	caller := &recordingCaller{}
	s := newClipboardStrategy(mem, func() error {
		mem.Set("selected text")
		return nil
	})
	s.Thread = caller

	got, err := s.Read(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != "selected text" {
		t.Errorf("got %q", got)
	}
	if caller.calls != 1 {
		t.Errorf("chord sent through caller %d times", caller.calls)
	}
	if now, _ := mem.Read(); now != "previous" {
		t.Errorf("clipboard = %q, want restored", now)
	}
}

func TestClipboardStrategyUnchanged(t *testing.T) {
	mem := clipboard.NewMemory("stale")
	s := newClipboardStrategy(mem, func() error { return nil })

	got, err := s.Read(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("got %q, want empty for an unchanged clipboard", got)
	}
	if w := mem.Writes(); len(w) != 0 {
		t.Errorf("unexpected writes %v", w)
	}
}

func TestClipboardStrategyLateCopy(t *testing.T) {
	mem := clipboard.NewMemory("")
	s := newClipboardStrategy(mem, func() error {
		go func() {
			time.Sleep(5 * time.Millisecond)
			mem.Set("slow app")
		}()
		return nil
	})
	s.Timeout = time.Second

	got, err := s.Read(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != "slow app" {
		t.Errorf("got %q", got)
	}
	if w := mem.Writes(); !reflect.DeepEqual(w, []string{""}) {
		t.Errorf("writes = %v, want restore of empty", w)
	}
}

func TestClipboardStrategyWhitespace(t *testing.T) {
	mem := clipboard.NewMemory("x")
	s := newClipboardStrategy(mem, func() error {
		mem.Set("  \n")
		return nil
	})
	if got, _ := s.Read(context.Background()); got != "" {
		t.Errorf("got %q", got)
	}
	if now, _ := mem.Read(); now != "x" {
		t.Errorf("clipboard = %q, want restored", now)
	}
}

func TestClipboardStrategyCopyError(t *testing.T) {
	boom := errors.New("no focus")
	mem := clipboard.NewMemory("x")
	s := newClipboardStrategy(mem, func() error { return boom })
	if _, err := s.Read(context.Background()); !errors.Is(err, boom) {
		t.Errorf("copy error: got %v", err)
	}
}

func TestClipboardStrategyWithoutPriorText(t *testing.T) {
	mem := clipboard.NewEmptyMemory()
	s := newClipboardStrategy(mem, func() error {
		mem.Set("selected text")
		return nil
	})

	if got := NewReader(s).TryGetSelection(context.Background()); got != "selected text" {
		t.Errorf("got %q, want selected text", got)
	}
	if w := mem.Writes(); len(w) != 0 {
		t.Errorf("restored %v over a clipboard that held no text", w)
	}
}

func TestClipboardStrategyWithoutPriorTextNothingSelected(t *testing.T) {
	mem := clipboard.NewEmptyMemory()
	s := newClipboardStrategy(mem, func() error { return nil })

	got, err := s.Read(context.Background())
	if err != nil || got != "" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestClipboardStrategyUnreadableClipboard(t *testing.T) {
	mem := clipboard.NewMemory("x")
	mem.Fail(errors.New("clipboard locked"))
	s := newClipboardStrategy(mem, func() error { return nil })

	got, err := s.Read(context.Background())
	if err != nil || got != "" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestClipboardStrategyWithoutThread(t *testing.T) {
	mem := clipboard.NewMemory("a")
	s := newClipboardStrategy(mem, func() error {
		mem.Set("b")
		return nil
	})
	if got, _ := s.Read(context.Background()); got != "b" {
		t.Errorf("got %q", got)
	}
}

func TestSliceSelection(t *testing.T) {
	text := []uint16{'h', 'e', 'l', 'l', 'o'}
	if got := sliceSelection(text, 1, 4); got != "ell" {
		t.Errorf("got %q", got)
	}
	if got := sliceSelection(text, 3, 3); got != "" {
		t.Errorf("empty range got %q", got)
	}
	if got := sliceSelection(text, 2, 9); got != "" {
		t.Errorf("out of range got %q", got)
	}
}
