// Package server exposes the vault oracle over HTTP and WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/stableex/sx.dmdvaults/internal/core/vault"
)

const (
	transportHTTP = "http"
	transportWS   = "ws"

	maxBodySize = 512 * 1024
)

// Options toggles the optional endpoints.
type Options struct {
	Timeout       time.Duration
	EnableWS      bool
	EnableMetrics bool
}

// Server routes oracle requests. Every request runs in its own session.
type Server struct {
	oracle   *vault.Oracle
	logger   *slog.Logger
	metrics  *Metrics
	methods  map[string]Method
	timeout  time.Duration
	mux      *http.ServeMux
	upgrader websocket.Upgrader
}

func New(oracle *vault.Oracle, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	s := &Server{
		oracle:  oracle,
		logger:  logger.With("component", "server"),
		metrics: NewMetrics(),
		timeout: opts.Timeout,
		mux:     http.NewServeMux(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	s.registerMethods()

	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /rpc", s.handleRPC)
	s.mux.HandleFunc("GET /{method}", s.handleGet)
	if opts.EnableWS {
		s.mux.HandleFunc("GET /ws", s.handleWebSocket)
	}
	if opts.EnableMetrics {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	s.mux.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// call dispatches one request and records its outcome.
func (s *Server) call(ctx context.Context, transport, name string, p Params) (any, *RPCError) {
	method, ok := s.methods[name]
	if !ok {
		rpcErr := &RPCError{Code: CodeUnknownMethod, Message: "unknown method " + strconv.Quote(name), Status: http.StatusNotFound}
		s.metrics.observeRequest("unknown", transport, rpcErr.Code, 0)
		return nil, rpcErr
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	result, err := method(ctx, p)
	elapsed := time.Since(start)

	if err != nil {
		rpcErr := toRPCError(err)
		s.metrics.observeRequest(name, transport, rpcErr.Code, elapsed)
		if rpcErr.Status >= http.StatusInternalServerError {
			s.logger.Error("request failed", "method", name, "transport", transport, "err", err)
		} else {
			s.logger.Debug("request rejected", "method", name, "transport", transport, "code", rpcErr.Code, "err", err)
		}
		return nil, rpcErr
	}

	s.metrics.observeRequest(name, transport, "success", elapsed)
	return result, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "dmdvaults",
		"fee":     s.oracle.Fee(),
	})
}

// rpcRequest is the POST body: {"method": "quote", "params": [{...}]}.
type rpcRequest struct {
	Method string   `json:"method"`
	Params []Params `json:"params,omitempty"`
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeError(w, invalidParams("failed to read request body"))
		return
	}

	var req rpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, invalidParams("invalid JSON: "+err.Error()))
		return
	}
	if req.Method == "" {
		writeError(w, invalidParams("missing method"))
		return
	}

	var p Params
	if len(req.Params) > 0 {
		p = req.Params[0]
	}
	s.respond(w, r, transportHTTP, req.Method, p)
}

// handleGet serves GET /{method}?vault=...&in=... for quick queries.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := Params{
		Vault:   q.Get("vault"),
		Sort:    q.Get("sort"),
		In:      q.Get("in"),
		Out:     q.Get("out"),
		Account: q.Get("account"),
	}
	if v := q.Get("sort_base"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, invalidParams("sort_base must be a boolean"))
			return
		}
		p.SortBase = b
	}
	s.respond(w, r, transportHTTP, r.PathValue("method"), p)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, transport, method string, p Params) {
	result, rpcErr := s.call(r.Context(), transport, method, p)
	if rpcErr != nil {
		writeError(w, rpcErr)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"result": result,
	})
}

func errorBody(e *RPCError) map[string]any {
	return map[string]any{
		"status":        "error",
		"error":         e.Code,
		"error_message": e.Message,
	}
}

func writeError(w http.ResponseWriter, e *RPCError) {
	writeJSON(w, e.Status, errorBody(e))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
