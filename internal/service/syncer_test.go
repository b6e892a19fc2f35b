// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-doc-vault/internal/config"
	"github.com/MKhiriev/go-doc-vault/internal/logger"
	"github.com/MKhiriev/go-doc-vault/internal/mock"
	"github.com/MKhiriev/go-doc-vault/models"
	"github.com/MKhiriev/go-doc-vault/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testSyncConfig() *config.Config {
	return &config.Config{
		ConnectWait:    50 * time.Millisecond,
		DeleteSyncWait: 200 * time.Millisecond,
		PollInterval:   10 * time.Millisecond,
		HTTPTimeout:    time.Second,
	}
}

func newFakeHandle(ctrl *gomock.Controller) (*mock.MockSyncHandle, chan store.SyncEvent) {
	events := make(chan store.SyncEvent, 16)
	h := mock.NewMockSyncHandle(ctrl)
	h.EXPECT().Events().Return((<-chan store.SyncEvent)(events)).AnyTimes()
	h.EXPECT().Cancel().AnyTimes()
	return h, events
}

func TestSyncer_Connect_ActivitySignalsSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mock.NewMockStore(ctrl)
	handle, events := newFakeHandle(ctrl)
	events <- store.SyncEvent{Kind: store.EventActive}
	mockStore.EXPECT().Sync(gomock.Any(), "http://remote", gomock.Any()).Return(handle, nil)

	s := NewSyncer(context.Background(), mockStore, &recorder{}, testSyncConfig(), logger.Nop())
	defer s.Disconnect()

	start := time.Now()
	require.NoError(t, s.Connect(context.Background(), ConnectOptions{URL: "http://remote", Live: true, Retry: true}))
	assert.Less(t, time.Since(start), 40*time.Millisecond, "activity should resolve the connect before the window elapses")
}

func TestSyncer_Connect_QuietWindowCountsAsConnected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mock.NewMockStore(ctrl)
	handle, _ := newFakeHandle(ctrl)
	mockStore.EXPECT().Sync(gomock.Any(), "http://remote", gomock.Any()).Return(handle, nil)

	s := NewSyncer(context.Background(), mockStore, &recorder{}, testSyncConfig(), logger.Nop())
	defer s.Disconnect()

	require.NoError(t, s.Connect(context.Background(), ConnectOptions{URL: "http://remote", Live: true}),
		"a silent link within the connect window is still a successful connect")
}

func TestSyncer_Connect_EarlyFailureRejects(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mock.NewMockStore(ctrl)
	handle, events := newFakeHandle(ctrl)
	linkErr := errors.New("remote unreachable")
	events <- store.SyncEvent{Kind: store.EventError, Err: linkErr}
	close(events)
	mockStore.EXPECT().Sync(gomock.Any(), "http://remote", gomock.Any()).Return(handle, nil)

	s := NewSyncer(context.Background(), mockStore, &recorder{}, testSyncConfig(), logger.Nop())
	err := s.Connect(context.Background(), ConnectOptions{URL: "http://remote", Live: true})
	require.ErrorIs(t, err, linkErr)
}

func TestSyncer_Connect_RequiresURL(t *testing.T) {
	s := NewSyncer(context.Background(), store.NewMemory(nil), &recorder{}, testSyncConfig(), logger.Nop())
	assert.Error(t, s.Connect(context.Background(), ConnectOptions{}))
}

func TestSyncer_SyncNow_NotConnected(t *testing.T) {
	s := NewSyncer(context.Background(), store.NewMemory(nil), &recorder{}, testSyncConfig(), logger.Nop())
	assert.ErrorIs(t, s.SyncNow(context.Background()), models.ErrSyncNotConnected)
}

func TestSyncer_SyncNow_ReportsWriteActivityPerDirection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mock.NewMockStore(ctrl)
	rec := &recorder{}

	liveHandle, _ := newFakeHandle(ctrl)
	mockStore.EXPECT().Sync(gomock.Any(), "http://remote", gomock.Any()).Return(liveHandle, nil)

	oneShot, events := newFakeHandle(ctrl)
	events <- store.SyncEvent{Kind: store.EventActive}
	events <- store.SyncEvent{Kind: store.EventChange, Direction: store.Pull, Stats: store.SyncStats{DocsRead: 3, DocsWritten: 3}}
	events <- store.SyncEvent{Kind: store.EventChange, Direction: store.Push, Stats: store.SyncStats{DocsRead: 1, DocsWritten: 1}}
	events <- store.SyncEvent{Kind: store.EventComplete}
	mockStore.EXPECT().Sync(gomock.Any(), "http://remote", gomock.Any()).Return(oneShot, nil)

	s := NewSyncer(context.Background(), mockStore, rec, testSyncConfig(), logger.Nop())
	defer s.Disconnect()
	require.NoError(t, s.Connect(context.Background(), ConnectOptions{URL: "http://remote", Live: true}))

	require.NoError(t, s.SyncNow(context.Background()))

	syncs := rec.syncCalls()
	require.Len(t, syncs, 2, "one notification per direction with write activity")
	assert.Equal(t, models.SyncPush, syncs[0].Direction)
	assert.Equal(t, 1, syncs[0].Stats.DocsWritten)
	assert.Equal(t, models.SyncPull, syncs[1].Direction)
	assert.Equal(t, 3, syncs[1].Stats.DocsWritten)
}

func TestSyncer_SyncNow_PropagatesFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mock.NewMockStore(ctrl)
	liveHandle, _ := newFakeHandle(ctrl)
	mockStore.EXPECT().Sync(gomock.Any(), "http://remote", gomock.Any()).Return(liveHandle, nil)

	oneShot, events := newFakeHandle(ctrl)
	syncErr := errors.New("bulk write refused")
	events <- store.SyncEvent{Kind: store.EventError, Err: syncErr}
	mockStore.EXPECT().Sync(gomock.Any(), "http://remote", gomock.Any()).Return(oneShot, nil)

	s := NewSyncer(context.Background(), mockStore, &recorder{}, testSyncConfig(), logger.Nop())
	defer s.Disconnect()
	require.NoError(t, s.Connect(context.Background(), ConnectOptions{URL: "http://remote", Live: true}))

	assert.ErrorIs(t, s.SyncNow(context.Background()), syncErr)
}

func TestSyncer_DeleteAllAndSync_WaitsForPush(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mock.NewMockStore(ctrl)
	handle, events := newFakeHandle(ctrl)
	mockStore.EXPECT().Sync(gomock.Any(), "http://remote", gomock.Any()).Return(handle, nil)

	mockStore.EXPECT().AllDocs(gomock.Any()).Return([]store.Row{
		{ID: "expenses_lunch", Rev: "2-aa"},
		{ID: "notes_todo", Rev: "1-bb"},
		{ID: "_local/sync-checkpoint", Rev: "1-cc"},
	}, nil)
	mockStore.EXPECT().BulkDelete(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, markers []store.DeleteMarker) error {
			require.Len(t, markers, 2, "system records must not be bulk-deleted")
			// The live link picks the tombstones up and pushes them.
			events <- store.SyncEvent{Kind: store.EventChange, Direction: store.Push, Stats: store.SyncStats{DocsRead: 2, DocsWritten: 2}}
			return nil
		})

	s := NewSyncer(context.Background(), mockStore, &recorder{}, testSyncConfig(), logger.Nop())
	defer s.Disconnect()
	require.NoError(t, s.Connect(context.Background(), ConnectOptions{URL: "http://remote", Live: true}))

	require.NoError(t, s.DeleteAllAndSync(context.Background()))
}

func TestSyncer_DeleteAllAndSync_TimesOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mock.NewMockStore(ctrl)
	handle, _ := newFakeHandle(ctrl)
	mockStore.EXPECT().Sync(gomock.Any(), "http://remote", gomock.Any()).Return(handle, nil)
	mockStore.EXPECT().AllDocs(gomock.Any()).Return([]store.Row{{ID: "expenses_lunch", Rev: "2-aa"}}, nil)
	mockStore.EXPECT().BulkDelete(gomock.Any(), gomock.Any()).Return(nil)

	s := NewSyncer(context.Background(), mockStore, &recorder{}, testSyncConfig(), logger.Nop())
	defer s.Disconnect()
	require.NoError(t, s.Connect(context.Background(), ConnectOptions{URL: "http://remote", Live: true}))

	assert.ErrorIs(t, s.DeleteAllAndSync(context.Background()), models.ErrSyncTimeout)
}

func TestSyncer_DeleteAllAndSync_GuardsAndShortCircuits(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mock.NewMockStore(ctrl)
	s := NewSyncer(context.Background(), mockStore, &recorder{}, testSyncConfig(), logger.Nop())
	assert.ErrorIs(t, s.DeleteAllAndSync(context.Background()), models.ErrSyncNotConnected)

	handle, _ := newFakeHandle(ctrl)
	mockStore.EXPECT().Sync(gomock.Any(), "http://remote", gomock.Any()).Return(handle, nil)
	mockStore.EXPECT().AllDocs(gomock.Any()).Return([]store.Row{{ID: "_local/sync-checkpoint", Rev: "1-cc"}}, nil)

	defer s.Disconnect()
	require.NoError(t, s.Connect(context.Background(), ConnectOptions{URL: "http://remote", Live: true}))
	assert.NoError(t, s.DeleteAllAndSync(context.Background()),
		"nothing to delete resolves immediately without a bulk delete")
}

func TestSyncer_Reconnect(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mock.NewMockStore(ctrl)
	s := NewSyncer(context.Background(), mockStore, &recorder{}, testSyncConfig(), logger.Nop())
	assert.ErrorIs(t, s.Reconnect(context.Background()), ErrNoRemote)

	h1, _ := newFakeHandle(ctrl)
	h2, _ := newFakeHandle(ctrl)
	mockStore.EXPECT().Sync(gomock.Any(), "http://remote", gomock.Any()).Return(h1, nil)
	mockStore.EXPECT().Sync(gomock.Any(), "http://remote", gomock.Any()).Return(h2, nil)

	require.NoError(t, s.Connect(context.Background(), ConnectOptions{URL: "http://remote", Live: true}))
	s.Disconnect()
	require.NoError(t, s.Reconnect(context.Background()))
	s.Disconnect()
}
