// SPDX-FileCopyrightText: 2026 The typedrpc Authors
// SPDX-License-Identifier: BSD-3-Clause

package typedrpc

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DefaultEndpoint is the path the RPC endpoint is published under when
// no other endpoint is configured.
const DefaultEndpoint = "/api"

// Server is a minimal HTTP adapter for a Registry.
//
// It publishes the dispatcher under a single POST endpoint, maps single
// error replies to the HTTP status suggested for their code, and serves
// stored debug tracebacks under /debug/<id>.
//
// Everything beyond that, TLS and connection handling included, belongs
// to the hosting http.Server.
type Server struct {
	registry *Registry
	endpoint string
	logger   *zap.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithEndpoint publishes the RPC endpoint under path instead of
// DefaultEndpoint.
func WithEndpoint(path string) ServerOption {
	return func(s *Server) {
		s.endpoint = path
	}
}

// WithServerLogger applies a custom logger to the Server.
func WithServerLogger(logger *zap.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server for registry.
func NewServer(registry *Registry, options ...ServerOption) *Server {
	s := &Server{
		registry: registry,
		endpoint: DefaultEndpoint,
	}

	for _, opt := range options {
		opt(s)
	}

	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	return s
}

// Handler returns the http.Handler serving the RPC and debug endpoints.
func (s *Server) Handler() http.Handler {
	mux := chi.NewRouter()
	mux.Post(s.endpoint, s.handleRPC)
	mux.Get("/debug/{traceback}", s.handleDebug)
	return mux
}

func (s *Server) handleRPC(w http.ResponseWriter, req *http.Request) {
	// Per JSON-RPC over HTTP, the request entity is application/json.
	contentType := req.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		s.logger.Error("reading request body", zap.Error(err))
		http.Error(w, "failed to read request body", http.StatusInternalServerError)
		return
	}

	out, err := s.registry.Dispatch(req.Context(), body)
	if err != nil {
		s.logger.Error("serializing response", zap.Error(err))
		http.Error(w, "failed to serialize response", http.StatusInternalServerError)
		return
	}

	// All notifications or an empty batch: no response body at all.
	if out == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(replyStatus(out))
	if _, err := w.Write(out); err != nil {
		s.logger.Error("writing response", zap.Error(err))
	}
}

// replyStatus maps a serialized reply to its HTTP status. Only a single
// error envelope carries its suggested status; batches are evaluated
// per message by the client and always travel as 200.
func replyStatus(out []byte) int {
	if len(out) == 0 || out[0] != '{' {
		return http.StatusOK
	}
	var resp Response
	if err := codec.Unmarshal(out, &resp); err != nil {
		return http.StatusOK
	}
	if resp.IsError() {
		return HTTPStatus(resp.Err().Code)
	}
	return http.StatusOK
}

func (s *Server) handleDebug(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(req, "traceback"), 10, 64)
	if err != nil {
		http.NotFound(w, req)
		return
	}

	tb, ok := s.registry.Traceback(id)
	if !ok {
		http.NotFound(w, req)
		return
	}

	// The snapshot describes a failed call, so the inspection page
	// reports it as one.
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	fmt.Fprintf(w, "traceback %d\nmethod: %s\ntime: %s\nerror: %s\n\n%s",
		tb.ID, tb.Method, tb.Time.Format("2006-01-02T15:04:05Z07:00"), tb.Message, tb.Stack)
}
