// Package selection reads the text currently selected in the foreground
// application. No single technique works everywhere, so a Reader tries an
// ordered chain of strategies, from the least to the most invasive, and
// keeps the first usable answer.
package selection

import (
	"context"
	"fmt"
	"time"

	"hotkeylistener/log"
)

// Strategy names.
const (
	Automation = "automation"
	Control    = "control"
	Primary    = "primary"
	Clipboard  = "clipboard"
)

// Strategy is one way of reading the selection. An empty string or an
// error both mean "no answer, try the next one".
type Strategy interface {
	Name() string
	Read(ctx context.Context) (string, error)
}

type funcStrategy struct {
	name string
	fn   func(context.Context) (string, error)
}

func (f funcStrategy) Name() string { return f.name }

func (f funcStrategy) Read(ctx context.Context) (string, error) { return f.fn(ctx) }

// Func wraps fn as a Strategy called name.
func Func(name string, fn func(context.Context) (string, error)) Strategy {
	return funcStrategy{name: name, fn: fn}
}

// Reader runs strategies in order. Optional strategies never run on their
// own; a policy entry has to name them.
type Reader struct {
	strategies []Strategy
	optional   []Strategy
	policy     Policy
}

func NewReader(strategies ...Strategy) *Reader {
	return &Reader{strategies: strategies}
}

// WithPolicy returns a copy of r that consults p in For.
func (r *Reader) WithPolicy(p Policy) *Reader {
	return &Reader{strategies: r.strategies, optional: r.optional, policy: p}
}

// WithOptional returns a copy of r that can also run strategies, but only
// for executables whose policy entry names them.
func (r *Reader) WithOptional(strategies ...Strategy) *Reader {
	return &Reader{strategies: r.strategies, optional: strategies, policy: r.policy}
}

// Strategies returns the names of the chain, in order.
func (r *Reader) Strategies() []string {
	names := make([]string, len(r.strategies))
	for i, s := range r.strategies {
		names[i] = s.Name()
	}
	return names
}

// For returns the reader to use when exe is in the foreground. When the
// policy names strategies for exe, only those run, in the policy's order.
// Names the chain does not contain are skipped; if none remain r itself is
// returned.
func (r *Reader) For(exe string) *Reader {
	names, ok := r.policy.Lookup(exe)
	if !ok {
		return r
	}
	byName := make(map[string]Strategy, len(r.strategies)+len(r.optional))
	for _, s := range r.optional {
		byName[s.Name()] = s
	}
	for _, s := range r.strategies {
		byName[s.Name()] = s
	}
	var chain []Strategy
	for _, n := range names {
		if s, ok := byName[n]; ok {
			chain = append(chain, s)
		}
	}
	if len(chain) == 0 {
		return r
	}
	return &Reader{strategies: chain, optional: r.optional, policy: r.policy}
}

// TryGetSelection returns the first non-empty result, or "" when every
// strategy comes up empty. It never fails.
func (r *Reader) TryGetSelection(ctx context.Context) string {
	for _, s := range r.strategies {
		if ctx.Err() != nil {
			return ""
		}
		start := time.Now()
		text, err := safeRead(ctx, s)
		if err != nil {
			log.Warnf("selection strategy %s: %v", s.Name(), err)
			continue
		}
		if text == "" {
			continue
		}
		log.SelectionRead(s.Name(), len(text), time.Since(start))
		return text
	}
	return ""
}

// Filter runs each strategy's text through filter and returns the first
// non-empty result. A strategy whose text filters down to nothing does not
// stop the chain. Returns nil when nothing matches.
func Filter[T any](ctx context.Context, r *Reader, filter func(string) []T) []T {
	for _, s := range r.strategies {
		if ctx.Err() != nil {
			return nil
		}
		text, err := safeRead(ctx, s)
		if err != nil {
			log.Warnf("selection strategy %s: %v", s.Name(), err)
			continue
		}
		if out := safeFilter(filter, text); len(out) > 0 {
			return out
		}
	}
	return nil
}

func safeRead(ctx context.Context, s Strategy) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return s.Read(ctx)
}

func safeFilter[T any](filter func(string) []T, text string) (out []T) {
	defer func() {
		if p := recover(); p != nil {
			log.Warnf("selection filter panicked: %v", p)
			out = nil
		}
	}()
	return filter(text)
}
