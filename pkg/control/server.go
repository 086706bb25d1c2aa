package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/pact-foundation/pact-mockserver/pkg/config"
	"github.com/pact-foundation/pact-mockserver/pkg/control/api"
	"github.com/pact-foundation/pact-mockserver/pkg/logging"
	"github.com/pact-foundation/pact-mockserver/pkg/pact"
)

// Server is the control service: a lightweight HTTP service mapping
// requests over a Manager. It binds to 127.0.0.1 only and carries no
// authentication beyond the shutdown token.
type Server struct {
	mgr             Manager
	serverKey       string
	writeDir        string
	onMaster        func()
	defaultInstance config.InstanceConfig

	httpServer *http.Server
	port       int
	log        *slog.Logger
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithLogger sets the structured logger the server reports to.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.log = logger }
}

// WithServerKey sets the token POST /shutdown must present. An empty key
// (the default) disables that endpoint entirely.
func WithServerKey(key string) Option {
	return func(s *Server) { s.serverKey = key }
}

// WithWriteDir sets the directory `verify?write=true` writes pact files
// into. Defaults to the current working directory.
func WithWriteDir(dir string) Option {
	return func(s *Server) { s.writeDir = dir }
}

// WithShutdownMaster sets the callback POST /shutdown invokes once the
// token check passes, to terminate the controlling process.
func WithShutdownMaster(fn func()) Option {
	return func(s *Server) { s.onMaster = fn }
}

// WithDefaultInstanceConfig sets the InstanceConfig new instances are
// created with, before any per-request query overrides (e.g. `tls=true`)
// are applied. Defaults to config.DefaultInstanceConfig().
func WithDefaultInstanceConfig(cfg config.InstanceConfig) Option {
	return func(s *Server) { s.defaultInstance = cfg }
}

// NewServer builds a control service bound to 127.0.0.1:port, routing over
// mgr.
func NewServer(mgr Manager, port int, opts ...Option) *Server {
	s := &Server{
		mgr:             mgr,
		port:            port,
		writeDir:        ".",
		log:             logging.Nop(),
		defaultInstance: config.DefaultInstanceConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", port),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /{$}", s.handleCreate)
	mux.HandleFunc("GET /{$}", s.handleList)
	mux.HandleFunc("GET /mockserver/{id}", s.handleStatus)
	mux.HandleFunc("POST /mockserver/{id}/verify", s.handleVerify)
	mux.HandleFunc("DELETE /mockserver/{id}", s.handleDelete)
	mux.HandleFunc("POST /shutdown", s.handleShutdown)
}

// Start binds the listener and begins serving; it returns once the
// listener is accepting, surfacing bind failures synchronously.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("control: listen on %s: %w", s.httpServer.Addr, err)
	}
	s.port = ln.Addr().(*net.TCPAddr).Port
	s.log.Info("starting control service", "addr", ln.Addr().String())
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("control service error", "error", err)
		}
	}()
	return nil
}

// Stop gracefully shuts down the control service's own listener.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Port returns the bound port.
func (s *Server) Port() int { return s.port }

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	p, err := pact.Parse(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid pact: %v", err))
		return
	}

	requestedPort := 0
	if v := r.URL.Query().Get("port"); v != "" {
		requestedPort, err = strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "port must be an integer")
			return
		}
	}

	cfg := s.defaultInstance
	if r.URL.Query().Get("tls") == "true" {
		tlsCfg := config.TLSConfig{}
		if cfg.TLS != nil {
			tlsCfg = *cfg.TLS
		}
		tlsCfg.Enabled = true
		cfg.TLS = &tlsCfg
	}

	id, port, err := s.mgr.Create(p, requestedPort, cfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to start instance: %v", err))
		return
	}

	writeJSON(w, http.StatusCreated, api.CreateResponse{Port: port, MockServerID: id})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	summaries := s.mgr.Enumerate()
	entries := make([]api.InstanceListEntry, 0, len(summaries))
	for _, sum := range summaries {
		entries = append(entries, api.InstanceListEntry{
			ID:                sum.ID,
			Port:              sum.Port,
			Provider:          sum.Provider,
			VerificationState: api.VerificationState(sum.Matched),
		})
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	inst, ok := s.mgr.LookupByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no such mock server instance")
		return
	}
	writeJSON(w, http.StatusOK, api.StatusResponse{
		ID:                inst.ID(),
		Port:              inst.Port(),
		Provider:          inst.Pact().Provider.Name,
		VerificationState: api.VerificationState(inst.Matched()),
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	inst, ok := s.mgr.LookupByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no such mock server instance")
		return
	}

	if !inst.Matched() {
		writeJSON(w, http.StatusUnprocessableEntity, api.VerifyResponse{
			Matched:    false,
			Mismatches: flattenMismatches(inst.Mismatches()),
		})
		return
	}

	if r.URL.Query().Get("write") == "true" {
		if _, err := inst.WritePact(s.writeDir, false); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to write pact: %v", err))
			return
		}
	}

	writeJSON(w, http.StatusOK, api.VerifyResponse{Matched: true})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.mgr.Shutdown(id) {
		writeError(w, http.StatusNotFound, "no such mock server instance")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if s.serverKey == "" || r.URL.Query().Get("token") != s.serverKey {
		writeError(w, http.StatusForbidden, "invalid or missing shutdown token")
		return
	}
	w.WriteHeader(http.StatusOK)
	if s.onMaster != nil {
		go s.onMaster()
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, api.ErrorResponse{Error: message})
}
