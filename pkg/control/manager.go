package control

import (
	"github.com/pact-foundation/pact-mockserver/pkg/config"
	"github.com/pact-foundation/pact-mockserver/pkg/manager"
	"github.com/pact-foundation/pact-mockserver/pkg/mockserver"
	"github.com/pact-foundation/pact-mockserver/pkg/pact"
)

// Manager is the narrow view of pkg/manager.ServerManager the control
// service depends on, implemented directly by *manager.ServerManager (no
// adapter needed: the two packages don't import each other).
type Manager interface {
	Create(p *pact.Pact, requestedPort int, cfg config.InstanceConfig) (id string, port int, err error)
	LookupByID(id string) (*mockserver.Instance, bool)
	Enumerate() []manager.InstanceSummary
	Shutdown(id string) bool
}
