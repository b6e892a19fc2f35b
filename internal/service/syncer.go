// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-doc-vault/internal/codec"
	"github.com/MKhiriev/go-doc-vault/internal/config"
	"github.com/MKhiriev/go-doc-vault/internal/logger"
	"github.com/MKhiriev/go-doc-vault/models"
	"github.com/MKhiriev/go-doc-vault/store"
)

// ConnectOptions configures the replication link established by
// [Syncer.Connect].
type ConnectOptions struct {
	// URL of the remote replication endpoint. Required.
	URL string

	// Live keeps the link replicating continuously; false performs a single
	// bidirectional cycle and stops.
	Live bool

	// Retry makes a live link survive transport failures with backoff
	// instead of stopping on the first error.
	Retry bool

	// AuthToken, when set, is sent as a bearer token on every request.
	AuthToken string
}

// Syncer manages the vault's replication link: connecting, disconnecting,
// one-shot syncs, and the delete-everything-and-push operation. All methods
// are safe for concurrent use.
type Syncer struct {
	store    store.Store
	listener models.Listener
	cfg      *config.Config
	log      *logger.Logger

	// parent bounds the lifetime of live replication handles, which must
	// outlive the Connect call that started them.
	parent context.Context

	mu     sync.Mutex
	opts   ConnectOptions
	dialed bool
	handle store.SyncHandle
	cancel context.CancelFunc

	// pushed counts documents pushed by the current link; pushedCh is closed
	// and replaced on every increment so waiters can watch for progress.
	pushed   int
	pushedCh chan struct{}
}

// NewSyncer wires a sync coordinator. parent bounds the lifetime of every
// replication it starts.
func NewSyncer(parent context.Context, st store.Store, listener models.Listener, cfg *config.Config, log *logger.Logger) *Syncer {
	return &Syncer{
		store:    st,
		listener: listener,
		cfg:      cfg,
		log:      log.Component("syncer"),
		parent:   parent,
		pushedCh: make(chan struct{}),
	}
}

// Connect tears down any existing link and establishes a new one. It waits
// until the link reports activity, fails, or the connect window elapses;
// a silent link within the window counts as connected, since an idle remote
// produces no events.
func (s *Syncer) Connect(ctx context.Context, opts ConnectOptions) error {
	if opts.URL == "" {
		return errors.New("remote URL is required")
	}
	s.Disconnect()

	hctx, cancel := context.WithCancel(s.parent)
	handle, err := s.store.Sync(hctx, opts.URL, store.SyncOptions{
		Live:         opts.Live,
		Retry:        opts.Retry,
		AuthToken:    opts.AuthToken,
		PollInterval: s.cfg.PollInterval,
		HTTPTimeout:  s.cfg.HTTPTimeout,
	})
	if err != nil {
		cancel()
		return fmt.Errorf("start sync with %s: %w", opts.URL, err)
	}

	s.mu.Lock()
	s.opts = opts
	s.dialed = true
	s.handle = handle
	s.cancel = cancel
	s.pushed = 0
	s.mu.Unlock()

	active := make(chan struct{}, 1)
	failed := make(chan error, 1)
	go s.monitor(handle, active, failed)

	select {
	case <-active:
		return nil
	case err := <-failed:
		s.Disconnect()
		return fmt.Errorf("sync with %s: %w", opts.URL, err)
	case <-time.After(s.cfg.ConnectWait):
		return nil
	case <-ctx.Done():
		s.Disconnect()
		return ctx.Err()
	}
}

// Disconnect stops the current link and clears the connected state. The last
// connect options are kept so [Syncer.Reconnect] can re-dial. Safe to call
// when not connected.
func (s *Syncer) Disconnect() {
	s.mu.Lock()
	handle, cancel := s.handle, s.cancel
	s.handle, s.cancel = nil, nil
	s.mu.Unlock()
	if handle != nil {
		handle.Cancel()
	}
	if cancel != nil {
		cancel()
	}
}

// Reconnect re-dials the remote with the options from the last Connect.
func (s *Syncer) Reconnect(ctx context.Context) error {
	s.mu.Lock()
	opts, dialed := s.opts, s.dialed
	s.mu.Unlock()
	if !dialed {
		return ErrNoRemote
	}
	return s.Connect(ctx, opts)
}

// SyncNow runs one manual bidirectional cycle against the configured remote
// and reports per-direction statistics to the listener for every direction
// that wrote documents. Returns [models.ErrSyncNotConnected] when no remote
// is configured.
func (s *Syncer) SyncNow(ctx context.Context) error {
	s.mu.Lock()
	opts := s.opts
	connected := s.handle != nil
	s.mu.Unlock()
	if !connected {
		return models.ErrSyncNotConnected
	}

	handle, err := s.store.Sync(ctx, opts.URL, store.SyncOptions{
		AuthToken:   opts.AuthToken,
		HTTPTimeout: s.cfg.HTTPTimeout,
	})
	if err != nil {
		return fmt.Errorf("start sync with %s: %w", opts.URL, err)
	}
	defer handle.Cancel()

	totals := map[store.Direction]store.SyncStats{}
	for {
		select {
		case ev, ok := <-handle.Events():
			if !ok {
				s.report(totals)
				return nil
			}
			switch ev.Kind {
			case store.EventChange:
				totals[ev.Direction] = addStats(totals[ev.Direction], ev.Stats)
				if ev.Direction == store.Push {
					s.addPushed(ev.Stats.DocsWritten)
				}
			case store.EventError:
				return fmt.Errorf("sync with %s: %w", opts.URL, ev.Err)
			case store.EventComplete:
				s.report(totals)
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// DeleteAllAndSync deletes every non-system local record and blocks until the
// link has pushed at least that many documents to the remote, or the delete
// window elapses, in which case [models.ErrSyncTimeout] is returned. With
// nothing to delete it returns immediately. Requires a connected link.
func (s *Syncer) DeleteAllAndSync(ctx context.Context) error {
	s.mu.Lock()
	connected := s.handle != nil
	live := s.opts.Live
	s.mu.Unlock()
	if !connected {
		return models.ErrSyncNotConnected
	}

	rows, err := s.store.AllDocs(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	var markers []store.DeleteMarker
	for _, row := range rows {
		if codec.IsSystem(row.ID) {
			continue
		}
		markers = append(markers, store.DeleteMarker{ID: row.ID, Rev: row.Rev})
	}
	if len(markers) == 0 {
		return nil
	}

	baseline := s.pushedCount()
	if err := s.store.BulkDelete(ctx, markers); err != nil {
		return fmt.Errorf("bulk delete: %w", err)
	}
	s.log.Info().Int("docs", len(markers)).Msg("deleted all local documents, waiting for push")

	// A one-shot link won't pick the tombstones up on its own.
	if !live {
		if err := s.SyncNow(ctx); err != nil {
			return err
		}
	}

	deadline := time.NewTimer(s.cfg.DeleteSyncWait)
	defer deadline.Stop()
	for {
		count, ch := s.pushedSnapshot()
		if count-baseline >= len(markers) {
			return nil
		}
		select {
		case <-ch:
		case <-deadline.C:
			return models.ErrSyncTimeout
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// monitor consumes a live handle's events: it signals the first activity and
// the first in-window failure back to Connect, accumulates the pushed count,
// and forwards per-direction statistics to the listener.
func (s *Syncer) monitor(handle store.SyncHandle, active chan<- struct{}, failed chan<- error) {
	for ev := range handle.Events() {
		switch ev.Kind {
		case store.EventActive:
			select {
			case active <- struct{}{}:
			default:
			}
		case store.EventChange:
			if ev.Direction == store.Push {
				s.addPushed(ev.Stats.DocsWritten)
			}
			s.reportOne(ev.Direction, ev.Stats)
		case store.EventError:
			s.log.Error().Err(ev.Err).Msg("replication stopped")
			select {
			case failed <- ev.Err:
			default:
			}
		}
	}
}

// report emits one sync notification per direction that wrote documents.
// Push is reported before pull for a stable callback order.
func (s *Syncer) report(totals map[store.Direction]store.SyncStats) {
	s.reportOne(store.Push, totals[store.Push])
	s.reportOne(store.Pull, totals[store.Pull])
}

func (s *Syncer) reportOne(dir store.Direction, stats store.SyncStats) {
	if stats.DocsWritten == 0 {
		return
	}
	l, ok := s.listener.(models.SyncListener)
	if !ok {
		return
	}
	direction := models.SyncPull
	if dir == store.Push {
		direction = models.SyncPush
	}
	l.OnSync(models.SyncInfo{
		Direction: direction,
		Stats: models.SyncStats{
			DocsRead:      stats.DocsRead,
			DocsWritten:   stats.DocsWritten,
			WriteFailures: stats.WriteFailures,
			Errors:        stats.Errors,
		},
	})
}

func (s *Syncer) addPushed(n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	s.pushed += n
	close(s.pushedCh)
	s.pushedCh = make(chan struct{})
	s.mu.Unlock()
}

func (s *Syncer) pushedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pushed
}

func (s *Syncer) pushedSnapshot() (int, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pushed, s.pushedCh
}

func addStats(a, b store.SyncStats) store.SyncStats {
	a.DocsRead += b.DocsRead
	a.DocsWritten += b.DocsWritten
	a.WriteFailures += b.WriteFailures
	a.Errors = append(a.Errors, b.Errors...)
	return a
}
