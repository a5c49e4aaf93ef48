package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/concord-chat/chatinput/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emptyArgs struct{}

func noopTool(ctx context.Context, req *mcp.CallToolRequest, in emptyArgs) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{}, nil, nil
}

// inMemoryTransport starts a fresh in-process MCP server per connection
func inMemoryTransport(t *testing.T, tools ...*mcp.Tool) TransportFunc {
	return func(ctx context.Context, server models.MCPServer) (mcp.Transport, error) {
		srv := mcp.NewServer(&mcp.Implementation{Name: server.Name, Version: "v0.0.1"}, nil)
		for _, tool := range tools {
			mcp.AddTool(srv, tool, noopTool)
		}
		clientTransport, serverTransport := mcp.NewInMemoryTransports()
		session, err := srv.Connect(context.Background(), serverTransport, nil)
		if err != nil {
			return nil, err
		}
		t.Cleanup(func() { _ = session.Close() })
		return clientTransport, nil
	}
}

func TestDiscover_RefreshesRemoteServers(t *testing.T) {
	d := NewDiscoverer(5*time.Second, nil)
	d.Transport = inMemoryTransport(t,
		&mcp.Tool{Name: "list_issues", Description: "List open issues"},
		&mcp.Tool{Name: "search_code", Description: "Search the codebase"},
	)

	servers := []models.MCPServer{
		{ID: "static", Name: "Static", Tools: []models.Tool{{Name: "fixed"}}},
		{ID: "gh", Name: "GitHub", Transport: models.TransportStdio, Command: "unused"},
	}

	got := d.Discover(context.Background(), servers)
	require.Len(t, got, 2)

	assert.Equal(t, servers[0], got[0])
	assert.Equal(t, []models.Tool{
		{Name: "list_issues", Description: "List open issues"},
		{Name: "search_code", Description: "Search the codebase"},
	}, got[1].Tools)

	// input is not modified
	assert.Empty(t, servers[1].Tools)
}

func TestDiscover_KeepsStaticToolsOnFailure(t *testing.T) {
	d := NewDiscoverer(time.Second, nil)
	d.Transport = func(ctx context.Context, server models.MCPServer) (mcp.Transport, error) {
		return nil, errors.New("unreachable")
	}

	servers := []models.MCPServer{
		{ID: "s1", Name: "Flaky", Transport: models.TransportHTTP, URL: "http://127.0.0.1:1/mcp", Tools: []models.Tool{{Name: "cached"}}},
	}

	got := d.Discover(context.Background(), servers)
	assert.Equal(t, servers, got)
}

func TestDialTransport(t *testing.T) {
	ctx := context.Background()

	tr, err := DialTransport(ctx, models.MCPServer{Name: "a", Transport: models.TransportStdio, Command: "mcp-server"})
	require.NoError(t, err)
	assert.IsType(t, &mcp.CommandTransport{}, tr)

	tr, err = DialTransport(ctx, models.MCPServer{Name: "b", Transport: models.TransportSSE, URL: "http://localhost/sse"})
	require.NoError(t, err)
	assert.IsType(t, &mcp.SSEClientTransport{}, tr)

	tr, err = DialTransport(ctx, models.MCPServer{Name: "c", Transport: models.TransportHTTP, URL: "http://localhost/mcp"})
	require.NoError(t, err)
	assert.IsType(t, &mcp.StreamableClientTransport{}, tr)

	_, err = DialTransport(ctx, models.MCPServer{Name: "d", Transport: models.TransportStdio})
	assert.Error(t, err)

	_, err = DialTransport(ctx, models.MCPServer{Name: "e", Transport: "carrier-pigeon"})
	assert.Error(t, err)
}
