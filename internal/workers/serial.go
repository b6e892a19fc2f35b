// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers provides the background execution primitives of the vault.
// Its central type is [Serial], a single-consumer task queue that guarantees
// strictly ordered, non-overlapping processing of live change events.
package workers

import (
	"sync"

	"github.com/MKhiriev/go-doc-vault/internal/logger"
)

// Serial runs enqueued tasks one at a time, in enqueue order, on a single
// worker goroutine. A task does not start until every task enqueued before it
// has finished, regardless of how long any individual task takes.
//
// A task's error or panic is logged and does not break the queue for later
// tasks. Serial is the vault's only serialization point: it orders the live
// change stream, nothing else.
type Serial struct {
	log *logger.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	tasks  []func() error
	closed bool

	done chan struct{}
}

// NewSerial constructs a [Serial] and starts its worker goroutine.
func NewSerial(log *logger.Logger) *Serial {
	s := &Serial{
		log:  log,
		done: make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	go s.run()
	return s
}

// Enqueue appends task to the tail of the queue. It never blocks: the queue
// is unbounded so a slow task cannot back-pressure the store's change feed.
// Tasks enqueued after Close are dropped.
func (s *Serial) Enqueue(task func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.tasks = append(s.tasks, task)
	s.cond.Signal()
}

// Close drains the tasks already enqueued, then stops the worker. It blocks
// until the worker has exited. Safe to call more than once.
func (s *Serial) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.closed = true
	s.cond.Signal()
	s.mu.Unlock()

	<-s.done
}

func (s *Serial) run() {
	defer close(s.done)

	for {
		s.mu.Lock()
		for len(s.tasks) == 0 && !s.closed {
			s.cond.Wait()
		}
		if len(s.tasks) == 0 && s.closed {
			s.mu.Unlock()
			return
		}
		task := s.tasks[0]
		s.tasks = s.tasks[1:]
		s.mu.Unlock()

		s.runOne(task)
	}
}

// runOne isolates one task's failure from the rest of the chain.
func (s *Serial) runOne(task func() error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Any("panic", r).Msg("serialized task panicked")
		}
	}()

	if err := task(); err != nil {
		s.log.Err(err).Msg("serialized task failed")
	}
}
