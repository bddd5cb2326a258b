package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

const shutdownGrace = 5 * time.Second

// Server exposes a Hub over HTTP.
type Server struct {
	hub    *Hub
	router *mux.Router
	log    *slog.Logger
}

// CellRequest addresses the cell an edit applies to.
type CellRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NewServer builds the routes for hub. A nil logger uses slog.Default.
func NewServer(hub *Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{hub: hub, router: mux.NewRouter(), log: logger}

	s.router.HandleFunc("/", s.serveIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.serveWebsocket).Methods(http.MethodGet)
	s.router.HandleFunc("/state", s.serveState).Methods(http.MethodGet)
	s.router.HandleFunc("/config", s.serveConfig).Methods(http.MethodGet)
	s.router.HandleFunc("/config", s.updateConfig).Methods(http.MethodPost)
	s.router.HandleFunc("/ignite", s.cellEdit(hub.Ignite)).Methods(http.MethodPost)
	s.router.HandleFunc("/barrier", s.cellEdit(hub.ToggleBarrier)).Methods(http.MethodPost)
	s.router.HandleFunc("/reset", s.action(hub.Reset)).Methods(http.MethodPost)
	s.router.HandleFunc("/step", s.action(hub.Step)).Methods(http.MethodPost)
	s.router.HandleFunc("/pause", s.action(func() Frame { return hub.SetPaused(true) })).Methods(http.MethodPost)
	s.router.HandleFunc("/resume", s.action(func() Frame { return hub.SetPaused(false) })).Methods(http.MethodPost)
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errs := make(chan error, 1)
	go func() {
		s.log.Info("serving", "addr", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	frames, cancel := s.hub.Subscribe()
	defer cancel()

	cli, err := newClient(frames, w, r)
	if err != nil {
		s.log.Warn("websocket rejected", "remote", r.RemoteAddr, "err", err)
		return
	}
	s.log.Info("client connected", "remote", r.RemoteAddr, "clients", s.hub.Subscribers())
	if err := cli.sync(); err != nil {
		s.log.Warn("client dropped", "remote", r.RemoteAddr, "err", err)
		return
	}
	s.log.Info("client disconnected", "remote", r.RemoteAddr)
}

func (s *Server) serveState(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.hub.Latest())
}

func (s *Server) serveConfig(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.hub.Config())
}

// updateConfig applies a JSON object of key/value strings, using the same
// keys as the YAML config file.
func (s *Server) updateConfig(w http.ResponseWriter, r *http.Request) {
	var updates map[string]string
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	cfg := s.hub.Config()
	for k, v := range updates {
		if err := cfg.Set(k, v); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if err := s.hub.SetConfig(cfg); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	s.log.Info("config updated", "keys", len(updates))
	s.writeJSON(w, http.StatusOK, s.hub.Config())
}

func (s *Server) cellEdit(apply func(row, col int) Frame) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CellRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		s.writeJSON(w, http.StatusOK, apply(req.Row, req.Col))
	}
}

func (s *Server) action(apply func() Frame) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, apply())
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("write response", "err", err)
	}
}

func (s *Server) serveIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}
