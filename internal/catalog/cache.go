package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/concord-chat/chatinput/internal/models"
)

const toolCacheVersion = 1

// toolCacheFile is the on-disk layout of a ToolCache
type toolCacheFile struct {
	Version   int                      `json:"version"`
	UpdatedAt time.Time                `json:"updated_at"`
	Servers   map[string][]models.Tool `json:"servers"` // server ID -> tools
}

// ToolCache remembers the last discovered tools of remote servers, so the
// popover can list them before discovery completes on the next start
type ToolCache struct {
	path string
	mu   sync.RWMutex
}

// NewToolCache creates a cache stored at path
func NewToolCache(path string) *ToolCache {
	return &ToolCache{path: path}
}

// Path returns the cache file location
func (c *ToolCache) Path() string {
	return c.path
}

// Load returns the cached tools by server ID. A missing file is an empty
// cache.
func (c *ToolCache) Load() (map[string][]models.Tool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string][]models.Tool{}, nil
		}
		return nil, fmt.Errorf("failed to read tool cache: %w", err)
	}

	var file toolCacheFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse tool cache: %w", err)
	}
	if file.Version != toolCacheVersion {
		return map[string][]models.Tool{}, nil
	}
	if file.Servers == nil {
		file.Servers = map[string][]models.Tool{}
	}

	return file.Servers, nil
}

// Save records the tools of every remote server that has some
func (c *ToolCache) Save(servers []models.MCPServer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	file := toolCacheFile{
		Version:   toolCacheVersion,
		UpdatedAt: time.Now().UTC(),
		Servers:   make(map[string][]models.Tool),
	}
	for i := range servers {
		if servers[i].IsRemote() && servers[i].HasTools() {
			file.Servers[servers[i].ID] = append([]models.Tool(nil), servers[i].Tools...)
		}
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tool cache: %w", err)
	}

	if dir := filepath.Dir(c.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create tool cache directory: %w", err)
		}
	}

	// Write to temp file first (atomic write)
	tempFile := c.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write tool cache: %w", err)
	}

	if err := os.Rename(tempFile, c.path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to save tool cache: %w", err)
	}

	return nil
}

// ApplyCache returns servers with cached tools filled in for remote
// servers that have no tools of their own
func ApplyCache(servers []models.MCPServer, cached map[string][]models.Tool) []models.MCPServer {
	out := cloneServers(servers)
	for i := range out {
		if !out[i].IsRemote() || out[i].HasTools() {
			continue
		}
		if tools, ok := cached[out[i].ID]; ok {
			out[i].Tools = append([]models.Tool(nil), tools...)
		}
	}
	return out
}
