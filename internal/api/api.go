// Package api serves window manager state over HTTP and streams snapshots
// to websocket subscribers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/1broseidon/tagtile/internal/wm"
)

// Controller is the running window manager as seen by the API.
type Controller interface {
	Snapshot(ctx context.Context) (wm.Snapshot, error)
	Exec(ctx context.Context, command string, arg any) error
	Subscribe() (<-chan wm.Snapshot, func())
}

// Server routes API requests to a Controller.
type Server struct {
	ctrl   Controller
	log    *slog.Logger
	router *mux.Router
}

type commandRequest struct {
	Command string `json:"command"`
	Arg     any    `json:"arg,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

// NewServer builds the router.
func NewServer(ctrl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{ctrl: ctrl, log: logger, router: mux.NewRouter()}

	r := s.router.PathPrefix("/api").Subrouter()
	r.HandleFunc("/status", s.status).Methods("GET")
	r.HandleFunc("/clients", s.clients).Methods("GET")
	r.HandleFunc("/monitors", s.monitors).Methods("GET")
	r.HandleFunc("/monitors/{name}", s.monitor).Methods("GET")
	r.HandleFunc("/commands", s.command).Methods("POST")
	r.HandleFunc("/events", s.events).Methods("GET")
	s.router.PathPrefix("/").Handler(http.NotFoundHandler())
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	s.log.Info("http api listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) jsonResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	s.log.Debug("http", "status", status, "method", r.Method, "path", r.URL.Path)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// snapshot fetches state or writes the error response itself.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (wm.Snapshot, bool) {
	snap, err := s.ctrl.Snapshot(r.Context())
	if err != nil {
		s.jsonResponse(w, r, http.StatusServiceUnavailable, errorBody{err.Error()})
		return wm.Snapshot{}, false
	}
	return snap, true
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	if snap, ok := s.snapshot(w, r); ok {
		s.jsonResponse(w, r, http.StatusOK, snap)
	}
}

func (s *Server) clients(w http.ResponseWriter, r *http.Request) {
	if snap, ok := s.snapshot(w, r); ok {
		s.jsonResponse(w, r, http.StatusOK, map[string]any{"items": snap.Clients})
	}
}

func (s *Server) monitors(w http.ResponseWriter, r *http.Request) {
	if snap, ok := s.snapshot(w, r); ok {
		s.jsonResponse(w, r, http.StatusOK, map[string]any{"items": snap.Monitors})
	}
}

func (s *Server) monitor(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	name := mux.Vars(r)["name"]
	m, found := snap.Monitor(name)
	if !found {
		s.jsonResponse(w, r, http.StatusNotFound, errorBody{"no monitor " + name})
		return
	}
	s.jsonResponse(w, r, http.StatusOK, map[string]any{"item": m})
}

func (s *Server) command(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonResponse(w, r, http.StatusUnprocessableEntity, errorBody{"invalid body: " + err.Error()})
		return
	}
	if req.Command == "" {
		s.jsonResponse(w, r, http.StatusUnprocessableEntity, errorBody{"command is required"})
		return
	}
	if err := s.ctrl.Exec(r.Context(), req.Command, req.Arg); err != nil {
		s.jsonResponse(w, r, http.StatusBadRequest, errorBody{err.Error()})
		return
	}
	s.log.Info("command via http", "command", req.Command, "arg", req.Arg)
	s.jsonResponse(w, r, http.StatusOK, map[string]any{"ok": true})
}
