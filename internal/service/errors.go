// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	// errMissingPayload wraps into the decryption error reported for a
	// record that has no payload field to decrypt.
	errMissingPayload = errors.New("record has no payload field")

	// ErrNoRemote is returned by [Syncer.Reconnect] when no remote was ever
	// configured in this session.
	ErrNoRemote = errors.New("no remote has been configured")
)
