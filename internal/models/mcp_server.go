package models

import (
	"strings"

	"github.com/google/uuid"
)

// Transport kinds an MCP server can be reached over
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
	TransportHTTP  = "http"
)

// catalogNamespace seeds the name-derived ids of catalog entries
var catalogNamespace = uuid.MustParse("6f1c2a9e-3b57-4d8e-9a41-0c5d7e2f8b13")

// MCPServer is an external tool-providing service and the tools it exposes
type MCPServer struct {
	ID        string   `toml:"id" json:"id"`
	Name      string   `toml:"name" json:"name"`
	Transport string   `toml:"transport" json:"transport,omitempty"` // "stdio", "sse", "http" or empty for static tools
	Command   string   `toml:"command" json:"command,omitempty"`
	Args      []string `toml:"args" json:"args,omitempty"`
	URL       string   `toml:"url" json:"url,omitempty"`
	Tools     []Tool   `toml:"tools" json:"tools"`
}

// Tool is a named tool on an MCP server
type Tool struct {
	Name        string `toml:"name" json:"name"`
	Description string `toml:"description" json:"description,omitempty"`
}

// HasTools reports whether the server exposes at least one tool
func (s *MCPServer) HasTools() bool {
	return len(s.Tools) > 0
}

// IsRemote reports whether tools should be discovered over a transport
func (s *MCPServer) IsRemote() bool {
	return s.Transport != ""
}

// EnsureID fills in a name-derived ID when none was configured
func (s *MCPServer) EnsureID() {
	if strings.TrimSpace(s.ID) == "" {
		s.ID = DeriveID("mcp", s.Name)
	}
}

// Clone returns a copy that shares no slices with s
func (s *MCPServer) Clone() MCPServer {
	c := *s
	c.Args = append([]string(nil), s.Args...)
	c.Tools = append([]Tool(nil), s.Tools...)
	return c
}

// DeriveID returns a stable UUIDv5 for a catalog entry of the given kind,
// so entries without a configured id keep the same id across restarts
func DeriveID(kind, name string) string {
	return uuid.NewSHA1(catalogNamespace, []byte(kind+":"+name)).String()
}
