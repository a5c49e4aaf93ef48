package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/concord-chat/chatinput/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DefaultDiscoveryTimeout bounds connecting to and listing one server
const DefaultDiscoveryTimeout = 10 * time.Second

// TransportFunc builds the client transport used to reach a server
type TransportFunc func(ctx context.Context, server models.MCPServer) (mcp.Transport, error)

// Discoverer lists the tools of remote MCP servers
type Discoverer struct {
	Timeout   time.Duration
	Logger    *slog.Logger
	Transport TransportFunc

	client *mcp.Client
}

// NewDiscoverer creates a discoverer that reaches servers over their
// configured transport
func NewDiscoverer(timeout time.Duration, logger *slog.Logger) *Discoverer {
	if timeout <= 0 {
		timeout = DefaultDiscoveryTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Discoverer{
		Timeout:   timeout,
		Logger:    logger,
		Transport: DialTransport,
		client: mcp.NewClient(&mcp.Implementation{
			Name:    "chatinput",
			Version: "v0.1.0",
		}, nil),
	}
}

// Discover returns servers with their tool lists refreshed from the
// servers themselves. Servers without a transport are returned unchanged,
// as are servers that cannot be reached; the latter keep whatever tools
// were configured statically. Order is preserved.
func (d *Discoverer) Discover(ctx context.Context, servers []models.MCPServer) []models.MCPServer {
	out := cloneServers(servers)

	var wg sync.WaitGroup
	for i := range out {
		if !out[i].IsRemote() {
			continue
		}
		wg.Add(1)
		go func(srv *models.MCPServer) {
			defer wg.Done()

			tools, err := d.listTools(ctx, *srv)
			if err != nil {
				d.Logger.Warn("MCP tool discovery failed",
					"server", srv.Name,
					"transport", srv.Transport,
					"error", err,
				)
				return
			}
			srv.Tools = tools
			d.Logger.Info("discovered MCP tools", "server", srv.Name, "count", len(tools))
		}(&out[i])
	}
	wg.Wait()

	return out
}

// listTools connects to one server, pages through its tools and closes
// the session
func (d *Discoverer) listTools(ctx context.Context, server models.MCPServer) ([]models.Tool, error) {
	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	transport, err := d.Transport(ctx, server)
	if err != nil {
		return nil, err
	}

	session, err := d.client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to MCP server %s: %w", server.Name, err)
	}
	defer session.Close()

	var tools []models.Tool
	params := &mcp.ListToolsParams{}
	for {
		result, err := session.ListTools(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("listing tools from %s: %w", server.Name, err)
		}
		for _, t := range result.Tools {
			tools = append(tools, models.Tool{
				Name:        t.Name,
				Description: t.Description,
			})
		}
		if result.NextCursor == "" {
			break
		}
		params = &mcp.ListToolsParams{Cursor: result.NextCursor}
	}

	return tools, nil
}

// DialTransport maps a server's configured transport to a client transport
func DialTransport(ctx context.Context, server models.MCPServer) (mcp.Transport, error) {
	switch server.Transport {
	case models.TransportStdio:
		if server.Command == "" {
			return nil, fmt.Errorf("MCP server %s: stdio transport requires command", server.Name)
		}
		return &mcp.CommandTransport{
			Command: exec.CommandContext(ctx, server.Command, server.Args...),
		}, nil
	case models.TransportSSE:
		if server.URL == "" {
			return nil, fmt.Errorf("MCP server %s: sse transport requires url", server.Name)
		}
		return &mcp.SSEClientTransport{Endpoint: server.URL}, nil
	case models.TransportHTTP:
		if server.URL == "" {
			return nil, fmt.Errorf("MCP server %s: http transport requires url", server.Name)
		}
		return &mcp.StreamableClientTransport{Endpoint: server.URL}, nil
	default:
		return nil, fmt.Errorf("MCP server %s: unsupported transport %q", server.Name, server.Transport)
	}
}
