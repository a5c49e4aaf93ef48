// Package catalog holds the live, read-mostly snapshot of MCP servers and
// workflows that mentions are built from, along with the loaders that fill
// it from workflow files and MCP tool discovery.
package catalog

import (
	"sync"

	"github.com/concord-chat/chatinput/internal/models"
)

// Snapshot is a point-in-time copy of the catalog. Revision changes
// whenever servers or workflows are replaced, so consumers can memoize
// anything derived from a snapshot against it.
type Snapshot struct {
	Servers   []models.MCPServer
	Workflows []models.Workflow
	Revision  uint64
}

// Store is safe for concurrent use. Readers always get copies.
type Store struct {
	mu        sync.RWMutex
	servers   []models.MCPServer
	workflows []models.Workflow
	revision  uint64
}

// NewStore creates a store seeded with the given servers and workflows
func NewStore(servers []models.MCPServer, workflows []models.Workflow) *Store {
	s := &Store{}
	s.servers = cloneServers(servers)
	s.workflows = cloneWorkflows(workflows)
	s.revision = 1
	return s
}

// Snapshot returns a copy of the current catalog
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Servers:   cloneServers(s.servers),
		Workflows: cloneWorkflows(s.workflows),
		Revision:  s.revision,
	}
}

// Revision returns the current revision without copying the catalog
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// SetServers replaces the server list
func (s *Store) SetServers(servers []models.MCPServer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.servers = cloneServers(servers)
	s.revision++
}

// SetWorkflows replaces the workflow list
func (s *Store) SetWorkflows(workflows []models.Workflow) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.workflows = cloneWorkflows(workflows)
	s.revision++
}

func cloneServers(in []models.MCPServer) []models.MCPServer {
	out := make([]models.MCPServer, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

func cloneWorkflows(in []models.Workflow) []models.Workflow {
	out := make([]models.Workflow, len(in))
	for i, wf := range in {
		if wf.Icon != nil {
			icon := *wf.Icon
			wf.Icon = &icon
		}
		out[i] = wf
	}
	return out
}
