package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/concord-chat/chatinput/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolCache_MissingFileIsEmpty(t *testing.T) {
	cache := NewToolCache(filepath.Join(t.TempDir(), "tools.json"))

	got, err := cache.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestToolCache_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tools.json")
	cache := NewToolCache(path)

	servers := []models.MCPServer{
		{ID: "static", Name: "Static", Tools: []models.Tool{{Name: "fixed"}}},
		{ID: "gh", Name: "GitHub", Transport: models.TransportStdio, Tools: []models.Tool{
			{Name: "list_issues", Description: "List open issues"},
		}},
		{ID: "down", Name: "Down", Transport: models.TransportSSE},
	}
	require.NoError(t, cache.Save(servers))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file left behind")

	got, err := cache.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string][]models.Tool{
		"gh": {{Name: "list_issues", Description: "List open issues"}},
	}, got)
}

func TestToolCache_Errors(t *testing.T) {
	dir := t.TempDir()

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{"), 0644))
	_, err := NewToolCache(corrupt).Load()
	assert.ErrorContains(t, err, "failed to parse tool cache")

	future := filepath.Join(dir, "future.json")
	require.NoError(t, os.WriteFile(future, []byte(`{"version":99,"servers":{"gh":[{"name":"x"}]}}`), 0644))
	got, err := NewToolCache(future).Load()
	require.NoError(t, err)
	assert.Empty(t, got, "unknown cache versions are ignored")
}

func TestApplyCache(t *testing.T) {
	servers := []models.MCPServer{
		{ID: "static", Name: "Static"},
		{ID: "gh", Name: "GitHub", Transport: models.TransportStdio},
		{ID: "docs", Name: "Docs", Transport: models.TransportHTTP, Tools: []models.Tool{{Name: "configured"}}},
	}
	cached := map[string][]models.Tool{
		"static": {{Name: "ignored"}},
		"gh":     {{Name: "list_issues"}},
		"docs":   {{Name: "stale"}},
	}

	got := ApplyCache(servers, cached)
	require.Len(t, got, 3)
	assert.Empty(t, got[0].Tools, "static servers never take cached tools")
	assert.Equal(t, []models.Tool{{Name: "list_issues"}}, got[1].Tools)
	assert.Equal(t, []models.Tool{{Name: "configured"}}, got[2].Tools)

	// input untouched
	assert.Empty(t, servers[1].Tools)
}
