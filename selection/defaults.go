package selection

import (
	"time"

	"hotkeylistener/chord"
	"hotkeylistener/clipboard"
)

// Options configures DefaultStrategies. Zero fields take the system
// clipboard, the system copy chord and the default timings.
type Options struct {
	Clipboard clipboard.Clipboard
	Copier    chord.Copier
	Thread    Caller
	Timeout   time.Duration
	Poll      time.Duration
}

func (o Options) clipboardStrategy() *ClipboardStrategy {
	s := &ClipboardStrategy{
		Clipboard: o.Clipboard,
		Copier:    o.Copier,
		Thread:    o.Thread,
		Timeout:   o.Timeout,
		Poll:      o.Poll,
	}
	if s.Clipboard == nil {
		s.Clipboard = clipboard.System{}
	}
	if s.Copier == nil {
		s.Copier = chord.System{}
	}
	return s
}

// DefaultReader is NewReader over DefaultStrategies and OptionalStrategies
// with DefaultPolicy.
func DefaultReader(o Options) *Reader {
	return NewReader(DefaultStrategies(o)...).
		WithOptional(OptionalStrategies(o)...).
		WithPolicy(DefaultPolicy())
}
