package manager

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pact-foundation/pact-mockserver/pkg/config"
	"github.com/pact-foundation/pact-mockserver/pkg/logging"
	"github.com/pact-foundation/pact-mockserver/pkg/mockserver"
	"github.com/pact-foundation/pact-mockserver/pkg/pact"
)

// shutdownTimeout bounds how long Shutdown/ShutdownAll wait for an
// instance's own grace window before giving up on it.
const shutdownTimeout = 5 * time.Second

// InstanceSummary is the enumerable view of a registered instance: its
// identity, binding, and journal status.
type InstanceSummary struct {
	ID       string
	Port     int
	Provider string
	Matched  bool
}

// Option configures a ServerManager at construction time.
type Option func(*ServerManager)

// WithLogger sets the structured logger instances and the manager itself
// report to. Defaults to logging.Nop().
func WithLogger(logger *slog.Logger) Option {
	return func(m *ServerManager) { m.log = logger }
}

// WithBasePort sets the first port Create tries when called with
// requestedPort 0, per the CLI's --base-port flag.
func WithBasePort(port int) Option {
	return func(m *ServerManager) { m.basePort = port }
}

// ServerManager is the process-wide registry of mock server instances,
// indexed by both id and bound port under a single coordinating lock. The
// lock is held only for index mutation and lookup; it is never held while
// an instance operation (Start/Shutdown) is in flight.
type ServerManager struct {
	mu       sync.Mutex
	byID     map[string]*mockserver.Instance
	byPort   map[int]*mockserver.Instance
	basePort int
	log      *slog.Logger
}

// New constructs an empty ServerManager.
func New(opts ...Option) *ServerManager {
	m := &ServerManager{
		byID:   make(map[string]*mockserver.Instance),
		byPort: make(map[int]*mockserver.Instance),
		log:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a new instance for p and registers it. requestedPort binds
// that exact port; 0 scans upward from basePort (falling back to an
// OS-assigned port if none in range is free).
func (m *ServerManager) Create(p *pact.Pact, requestedPort int, cfg config.InstanceConfig) (id string, port int, err error) {
	id = uuid.NewString()
	inst := mockserver.New(id, p, cfg, mockserver.WithLogger(m.log))

	addr := fmt.Sprintf("127.0.0.1:%d", requestedPort)
	if requestedPort == 0 && m.basePort > 0 {
		addr = fmt.Sprintf("127.0.0.1:%d", findFreePort(m.basePort))
	}

	boundPort, err := inst.Start(addr)
	if err != nil {
		return "", 0, err
	}

	m.mu.Lock()
	m.byID[id] = inst
	m.byPort[boundPort] = inst
	m.mu.Unlock()

	m.log.Info("registered mock server instance", "id", id, "port", boundPort)
	return id, boundPort, nil
}

// LookupByID returns the instance registered under id.
func (m *ServerManager) LookupByID(id string) (*mockserver.Instance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.byID[id]
	return inst, ok
}

// LookupByPort returns the instance bound to port.
func (m *ServerManager) LookupByPort(port int) (*mockserver.Instance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.byPort[port]
	return inst, ok
}

// Shutdown stops and deregisters the instance identified by id. It returns
// false if no such instance is registered.
func (m *ServerManager) Shutdown(id string) bool {
	inst, ok := m.remove(id)
	if !ok {
		return false
	}
	return m.shutdownInstance(inst)
}

// ShutdownByPort stops and deregisters the instance bound to port.
func (m *ServerManager) ShutdownByPort(port int) bool {
	m.mu.Lock()
	inst, ok := m.byPort[port]
	m.mu.Unlock()
	if !ok {
		return false
	}
	return m.Shutdown(inst.ID())
}

func (m *ServerManager) remove(id string) (*mockserver.Instance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.byID[id]
	if !ok {
		return nil, false
	}
	delete(m.byID, inst.ID())
	delete(m.byPort, inst.Port())
	return inst, true
}

func (m *ServerManager) shutdownInstance(inst *mockserver.Instance) bool {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	ok := inst.Shutdown(ctx)
	m.log.Info("deregistered mock server instance", "id", inst.ID(), "port", inst.Port())
	return ok
}

// Enumerate returns a summary of every registered instance.
func (m *ServerManager) Enumerate() []InstanceSummary {
	m.mu.Lock()
	instances := make([]*mockserver.Instance, 0, len(m.byID))
	for _, inst := range m.byID {
		instances = append(instances, inst)
	}
	m.mu.Unlock()

	summaries := make([]InstanceSummary, 0, len(instances))
	for _, inst := range instances {
		summaries = append(summaries, InstanceSummary{
			ID:       inst.ID(),
			Port:     inst.Port(),
			Provider: inst.Pact().Provider.Name,
			Matched:  inst.Matched(),
		})
	}
	return summaries
}

// ShutdownAll stops and deregisters every instance, issued on process exit.
func (m *ServerManager) ShutdownAll() {
	m.mu.Lock()
	instances := make([]*mockserver.Instance, 0, len(m.byID))
	for _, inst := range m.byID {
		instances = append(instances, inst)
	}
	m.byID = make(map[string]*mockserver.Instance)
	m.byPort = make(map[int]*mockserver.Instance)
	m.mu.Unlock()

	for _, inst := range instances {
		m.shutdownInstance(inst)
	}
}

// findFreePort tries up to 100 ports starting at startPort and returns the
// first one that can be bound, closing the probe listener immediately. If
// none in range are free, it falls back to an OS-assigned port.
func findFreePort(startPort int) int {
	for p := startPort; p < startPort+100; p++ {
		ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", p))
		if err == nil {
			ln.Close()
			return p
		}
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return startPort
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}
