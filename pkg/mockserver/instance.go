package mockserver

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pact-foundation/pact-mockserver/internal/matching"
	"github.com/pact-foundation/pact-mockserver/pkg/config"
	"github.com/pact-foundation/pact-mockserver/pkg/journal"
	"github.com/pact-foundation/pact-mockserver/pkg/logging"
	"github.com/pact-foundation/pact-mockserver/pkg/pact"
	"github.com/pact-foundation/pact-mockserver/pkg/pactresponse"
	"github.com/pact-foundation/pact-mockserver/pkg/pactwriter"
)

// diagnosticInteractionsPath serves the pact's expected interactions as
// JSON for interactive debugging. It only ever answers when no real
// interaction matched the request, so it can never shadow one a consumer
// actually defined.
const diagnosticInteractionsPath = "/__pact/diagnostic/expected-interactions"

// defaultShutdownGrace is used when InstanceConfig.ShutdownGrace is unset: a
// short, bounded window to let in-flight requests drain before the listener
// is torn down.
const defaultShutdownGrace = 100 * time.Millisecond

// state is an Instance's lifecycle stage.
type state int

const (
	stateCreated state = iota
	stateRunning
	stateShutdown
)

// Option configures an Instance at construction time.
type Option func(*Instance)

// WithLogger sets the structured logger an Instance reports lifecycle and
// serving errors to. Defaults to logging.Nop().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Instance) { i.log = logger }
}

// Instance is a single MockServerInstance: a listener bound to one port,
// the pact it validates requests against, and the journal recording every
// match outcome.
type Instance struct {
	mu sync.RWMutex

	id      string
	p       *pact.Pact
	cfg     config.InstanceConfig
	journal *journal.Journal
	log     *slog.Logger

	state    state
	listener net.Listener
	server   *http.Server
	port     int
	scheme   string
	cert     *selfSignedCert
}

// New constructs an Instance for p, identified by id (assigned by the
// caller, typically a ServerManager). The instance does not bind a listener
// until Start is called.
func New(id string, p *pact.Pact, cfg config.InstanceConfig, opts ...Option) *Instance {
	if cfg.CORS == nil {
		cfg.CORS = config.DefaultCORSConfig()
	}
	i := &Instance{
		id:      id,
		p:       p,
		cfg:     cfg,
		journal: journal.New(len(p.Interactions), journalBodyLimit(cfg)),
		log:     logging.Nop(),
		state:   stateCreated,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func journalBodyLimit(cfg config.InstanceConfig) int {
	if cfg.MaxJournalBodyBytes > 0 {
		return cfg.MaxJournalBodyBytes
	}
	return 1 << 20
}

// ID returns the instance's assigned identifier.
func (i *Instance) ID() string { return i.id }

// Pact returns the pact this instance validates requests against.
func (i *Instance) Pact() *pact.Pact { return i.p }

// Port returns the bound port, or 0 if Start has not been called yet.
func (i *Instance) Port() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.port
}

// CACertPEM returns the PEM-encoded self-signed certificate the instance
// was started with, or nil if TLS is disabled or a certificate/key file
// pair was supplied instead.
func (i *Instance) CACertPEM() []byte {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.cert == nil {
		return nil
	}
	return i.cert.certPEM
}

// Start binds a listener on addr (an OS-assigned port is used if addr ends
// in ":0" or names no port) and begins serving requests. It returns the
// bound port.
func (i *Instance) Start(addr string) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state != stateCreated {
		return 0, ErrAlreadyStarted
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBindFailed, err)
	}

	i.scheme = "http"
	if i.cfg.TLS != nil && i.cfg.TLS.Enabled {
		tlsLn, cert, err := i.wrapTLS(ln)
		if err != nil {
			ln.Close()
			return 0, err
		}
		ln = tlsLn
		i.cert = cert
		i.scheme = "https"
	}

	i.listener = ln
	i.port = ln.Addr().(*net.TCPAddr).Port

	i.server = &http.Server{
		Handler:      i,
		ReadTimeout:  i.cfg.ReadTimeout,
		WriteTimeout: i.cfg.WriteTimeout,
	}

	go func() {
		if err := i.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			i.log.Error("mock server instance stopped serving", "id", i.id, "port", i.port, "error", err)
		}
	}()

	i.state = stateRunning
	i.log.Info("mock server instance started", "id", i.id, "port", i.port, "scheme", i.scheme)
	return i.port, nil
}

// Shutdown signals the acceptor to stop, draining in-flight requests up to
// cfg.ShutdownGrace. It returns false if the instance was already shut
// down or never started.
func (i *Instance) Shutdown(ctx context.Context) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state != stateRunning {
		return false
	}

	grace := i.cfg.ShutdownGrace
	if grace <= 0 {
		grace = defaultShutdownGrace
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, grace)
	defer cancel()

	if err := i.server.Shutdown(shutdownCtx); err != nil {
		i.log.Warn("mock server instance shutdown grace exceeded", "id", i.id, "error", err)
		i.listener.Close()
	}

	i.state = stateShutdown
	i.log.Info("mock server instance shut down", "id", i.id, "port", i.port)
	return true
}

// JournalSnapshot returns a point-in-time copy of every journal entry
// recorded so far.
func (i *Instance) JournalSnapshot() []journal.Entry {
	return i.journal.Snapshot()
}

// Mismatches returns the journal entries that are not a full match.
func (i *Instance) Mismatches() []journal.Entry {
	return i.journal.Mismatches()
}

// Matched reports whether every expected interaction has matched and
// nothing unexpected or partially-matching has been recorded.
func (i *Instance) Matched() bool {
	return i.journal.Matched()
}

// WritePact writes this instance's pact to dir via pactwriter, merging with
// any existing file unless overwrite is true.
func (i *Instance) WritePact(dir string, overwrite bool) (string, error) {
	return pactwriter.Write(i.p, dir, overwrite)
}

// mockServerURL is the base URL the MockServerURL generator substitutes.
func (i *Instance) mockServerURL() string {
	return fmt.Sprintf("%s://127.0.0.1:%d", i.scheme, i.port)
}

// ServeHTTP implements the request handler state machine: Receive -> Parse
// -> (CORS preflight -> 204) | (Match -> Respond + Journal).
func (i *Instance) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	i.mu.RLock()
	cors := i.cfg.CORS
	i.mu.RUnlock()

	if isPreflight(r, cors) {
		writePreflightResponse(w, r)
		return
	}

	actual, err := matching.NewActualRequest(r)
	if err != nil {
		http.Error(w, "malformed request", http.StatusBadRequest)
		return
	}

	outcome := matching.MatchRequest(i.p.Interactions, actual)

	if outcome.Index == -1 && r.Method == http.MethodGet && r.URL.Path == diagnosticInteractionsPath {
		i.writeExpectedInteractions(w)
		return
	}

	i.respond(w, outcome, actual)
}

func (i *Instance) respond(w http.ResponseWriter, outcome matching.Outcome, actual *matching.ActualRequest) {
	i.journal.Record(outcome, actual.Method, actual.Path, actual.Body)

	if outcome.Index == -1 {
		i.writeDiagnostic(w, "no interaction matched this request", outcome)
		return
	}

	interaction := i.p.Interactions[outcome.Index]

	if len(outcome.Report.Mismatches) > 0 {
		i.writeDiagnostic(w, "interaction matched but had mismatches", outcome)
		return
	}

	built, err := pactresponse.Build(interaction, pactresponse.GeneratorContext{MockServerURL: i.mockServerURL()})
	if err != nil {
		i.writeDiagnostic(w, fmt.Sprintf("response generator error: %v", err), outcome)
		return
	}

	for name, values := range built.Header {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.WriteHeader(built.StatusCode)
	if len(built.Body) > 0 {
		w.Write(built.Body)
	}
}

// writeDiagnostic renders a no-match or partial-match outcome as a 500
// response. The X-Pact-Mock-Service header lets client libraries tell this
// apart from a genuine provider failure.
func (i *Instance) writeDiagnostic(w http.ResponseWriter, message string, outcome matching.Outcome) {
	body := pactresponse.Diagnostic(message, outcome)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Pact-Mock-Service", "true")
	w.WriteHeader(http.StatusInternalServerError)
	w.Write(body)
}

// writeExpectedInteractions serves the instance's full pact document (wire
// JSON, via pact.Encode) so a developer can inspect what was expected.
func (i *Instance) writeExpectedInteractions(w http.ResponseWriter) {
	data, err := pact.Encode(i.p)
	if err != nil {
		i.log.Error("failed to encode expected interactions", "id", i.id, "error", err)
		http.Error(w, "failed to encode expected interactions", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Pact-Mock-Service", "true")
	w.Write(data)
}

func (i *Instance) wrapTLS(ln net.Listener) (net.Listener, *selfSignedCert, error) {
	if i.cfg.TLS.CertFile != "" && i.cfg.TLS.KeyFile != "" {
		tlsCert, err := tls.LoadX509KeyPair(i.cfg.TLS.CertFile, i.cfg.TLS.KeyFile)
		if err != nil {
			return nil, nil, fmt.Errorf("mockserver: load TLS cert/key pair: %w", err)
		}
		return tls.NewListener(ln, &tls.Config{Certificates: []tls.Certificate{tlsCert}}), nil, nil
	}
	cert, err := generateSelfSignedCert()
	if err != nil {
		return nil, nil, err
	}
	tlsCert, err := cert.tlsCertificate()
	if err != nil {
		return nil, nil, fmt.Errorf("mockserver: load generated certificate: %w", err)
	}
	return tls.NewListener(ln, &tls.Config{Certificates: []tls.Certificate{tlsCert}}), cert, nil
}
