// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger provides a thin wrapper around zerolog.Logger used
// throughout go-doc-vault.
//
// The Logger type embeds zerolog.Logger so all standard zerolog methods
// (Debug, Info, Warn, Error, etc.) are available directly on *Logger. The
// vault is a library: it never configures global state or opens outputs on
// its own. Callers inject a zerolog.Logger via the vault options; absent
// that, everything logs to a no-op logger.
package logger

import (
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a thin wrapper around zerolog.Logger. Embedding exposes the full
// zerolog API while allowing vault-specific helpers on the same type.
type Logger struct {
	zerolog.Logger
}

// Wrap adopts a caller-supplied zerolog.Logger. A nil argument yields the
// no-op logger.
func Wrap(zl *zerolog.Logger) *Logger {
	if zl == nil {
		return Nop()
	}
	return &Logger{*zl}
}

// New constructs a *Logger writing JSON lines to w with timestamps enabled.
// Used by the replication server binary paths and tests that want output.
func New(w io.Writer) *Logger {
	return &Logger{zerolog.New(w).With().Timestamp().Logger()}
}

// Nop returns a *Logger that discards all output. This is the default for an
// embedded vault and the standard choice in tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// Component returns a child logger tagged with a "component" field, keeping
// log lines from the translator, resolver, and sync coordinator separable.
func (l *Logger) Component(name string) *Logger {
	return &Logger{l.With().Str("component", name).Logger()}
}

// FromRequest extracts the request-scoped zerolog.Logger attached by the
// replication server's logging middleware. Falls back to zerolog's global
// logger when none is attached, so the result is never nil.
func FromRequest(r *http.Request) *Logger {
	return &Logger{*log.Ctx(r.Context())}
}

// FromContext extracts the zerolog.Logger stored in ctx via zerolog's
// WithContext, wrapped as a *Logger.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
