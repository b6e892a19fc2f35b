// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package remote exposes a local document store to HTTP replicators. It
// implements the server side of the replication protocol the store package's
// sync handle speaks: a changes feed to pull from and a bulk-apply endpoint
// to push into.
package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-doc-vault/internal/logger"
	"github.com/MKhiriev/go-doc-vault/store"
)

// Server serves the replication endpoints over a [store.Replicable].
type Server struct {
	store  store.Replicable
	log    *logger.Logger
	secret string
}

// Option customizes a [Server].
type Option func(*Server)

// WithAuthSecret enables bearer-token authentication: every request must
// carry a token minted with [NewToken] from the same secret.
func WithAuthSecret(secret string) Option {
	return func(s *Server) { s.secret = secret }
}

// NewServer constructs a replication server over st.
func NewServer(st store.Replicable, log *logger.Logger, opts ...Option) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{store: st, log: log.Component("remote")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes builds the router:
//
//	GET  /v1/changes?since=N&limit=M   pull feed
//	POST /v1/docs                      bulk replicated write
//	GET  /v1/docs/{id}                 point read (diagnostics)
func (s *Server) Routes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(s.withLogging)

	router.Group(func(r chi.Router) {
		if s.secret != "" {
			r.Use(s.auth)
		}
		r.Get("/v1/changes", s.changes)
		r.Post("/v1/docs", s.bulkApply)
		r.Get("/v1/docs/{id}", s.getDoc)
	})

	return router
}

func (s *Server) changes(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	since, err := strconv.ParseInt(queryDefault(r, "since", "0"), 10, 64)
	if err != nil {
		http.Error(w, "invalid since parameter", http.StatusBadRequest)
		return
	}
	limit, err := strconv.Atoi(queryDefault(r, "limit", "0"))
	if err != nil {
		http.Error(w, "invalid limit parameter", http.StatusBadRequest)
		return
	}

	rows, lastSeq, err := s.store.ChangesSince(r.Context(), since, limit)
	if err != nil {
		log.Err(err).Msg("read changes feed")
		http.Error(w, "failed to read changes", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, store.ChangesResponse{Results: rows, LastSeq: lastSeq})
}

func (s *Server) bulkApply(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var rows []store.Row
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var resp store.BulkApplyResponse
	for _, row := range rows {
		if err := s.store.ApplyReplicated(r.Context(), row); err != nil {
			log.Warn().Err(err).Str("id", row.ID).Msg("apply replicated document")
			resp.Failures = append(resp.Failures, fmt.Sprintf("%s: %v", row.ID, err))
			continue
		}
		resp.Written++
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getDoc(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	row, err := s.store.Get(r.Context(), id, store.GetOptions{Conflicts: true})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "document not found", http.StatusNotFound)
			return
		}
		logger.FromRequest(r).Err(err).Str("id", id).Msg("read document")
		http.Error(w, "failed to read document", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, row)
}

// withLogging attaches a request-scoped logger to the context and records the
// outcome of every request.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqLog := s.log.With().
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Logger()
		ctx := reqLog.WithContext(r.Context())

		lw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(lw, r.WithContext(ctx))

		reqLog.Info().
			Int("status", lw.status).
			Dur("duration", time.Since(start)).
			Send()
	})
}

// responseWriter captures the status code for the logging middleware.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func queryDefault(r *http.Request, key, fallback string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
