// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"sync"
)

// notifier fans stored-change events out to live subscriptions. Publishing
// never blocks the store's write path: each subscription buffers pending
// events and drains them from its own goroutine, which also preserves
// emission order per subscriber.
type notifier struct {
	mu   sync.Mutex
	subs map[*subscription]struct{}
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[*subscription]struct{})}
}

func (n *notifier) subscribe(ctx context.Context) *subscription {
	s := &subscription{
		events: make(chan Row),
		done:   make(chan struct{}),
		n:      n,
	}
	s.cond = sync.NewCond(&s.mu)

	n.mu.Lock()
	n.subs[s] = struct{}{}
	n.mu.Unlock()

	go s.pump()
	if ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				s.Cancel()
			case <-s.done:
			}
		}()
	}
	return s
}

// publish appends ev to every live subscription's queue.
func (n *notifier) publish(ev Row) {
	n.mu.Lock()
	subs := make([]*subscription, 0, len(n.subs))
	for s := range n.subs {
		subs = append(subs, s)
	}
	n.mu.Unlock()

	for _, s := range subs {
		s.push(ev)
	}
}

func (n *notifier) remove(s *subscription) {
	n.mu.Lock()
	delete(n.subs, s)
	n.mu.Unlock()
}

// subscription implements [Subscription] with an unbounded pending queue so a
// slow consumer cannot stall the store.
type subscription struct {
	n      *notifier
	events chan Row
	done   chan struct{}

	mu      sync.Mutex
	cond    *sync.Cond
	pending []Row
	closed  bool
}

func (s *subscription) Events() <-chan Row { return s.events }

// Cancel stops the feed. Events not yet consumed are discarded; the events
// channel is closed once the pump goroutine exits.
func (s *subscription) Cancel() {
	s.n.remove(s)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.done)
	s.cond.Signal()
	s.mu.Unlock()
}

func (s *subscription) push(ev Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = append(s.pending, ev)
	s.cond.Signal()
}

func (s *subscription) pump() {
	defer close(s.events)

	for {
		s.mu.Lock()
		for len(s.pending) == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			s.mu.Unlock()
			return
		}
		ev := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()

		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}
