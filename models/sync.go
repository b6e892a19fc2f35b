// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SyncDirection identifies which way documents moved during a sync cycle.
type SyncDirection string

const (
	SyncPush SyncDirection = "push"
	SyncPull SyncDirection = "pull"
)

// SyncStats is the change-statistics record of one sync direction.
type SyncStats struct {
	DocsRead      int
	DocsWritten   int
	WriteFailures int
	Errors        []string
}

// SyncInfo is delivered to [SyncListener.OnSync] after a sync reported write
// activity in the given direction.
type SyncInfo struct {
	Direction SyncDirection
	Stats     SyncStats
}
