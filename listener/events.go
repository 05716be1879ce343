package listener

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"hotkeylistener/foreground"
	"hotkeylistener/hotkey"
)

// Event is delivered to subscribers each time a registered hotkey fires.
type Event struct {
	ID     uuid.UUID
	Hotkey hotkey.KeyCombo
	Source foreground.SourceApplication
	At     time.Time
}

// Update is delivered after Update swaps one hotkey for another.
type Update struct {
	Previous hotkey.KeyCombo
	Next     hotkey.KeyCombo
}

type subscribers[T any] struct {
	mu   sync.Mutex
	next int
	subs []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

func (s *subscribers[T]) add(fn func(T)) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// notify calls every subscriber in subscription order on the calling
// goroutine.
func (s *subscribers[T]) notify(v T) {
	s.mu.Lock()
	subs := append([]subscriber[T](nil), s.subs...)
	s.mu.Unlock()
	for _, sub := range subs {
		sub.fn(v)
	}
}
