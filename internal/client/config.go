package client

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/concord-chat/chatinput/internal/catalog"
	"github.com/concord-chat/chatinput/internal/models"
	"github.com/pelletier/go-toml/v2"
)

// Config holds the client configuration read from TOML
type Config struct {
	Theme       string `toml:"theme"`
	ThemesDir   string `toml:"themes_dir"`
	Trigger     string `toml:"trigger"`
	Placeholder string `toml:"placeholder"`

	LogFile   string `toml:"log_file"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"` // "text" or "json"

	WorkflowsDir     string `toml:"workflows_dir"`
	DiscoveryTimeout string `toml:"discovery_timeout"` // Go duration, e.g. "10s"
	ToolCache        string `toml:"tool_cache"`

	MCPServers []models.MCPServer `toml:"mcp_servers"`
	Workflows  []models.Workflow  `toml:"workflows"`
}

// DefaultConfig returns the default client configuration
func DefaultConfig() *Config {
	return &Config{
		Theme:            "dracula",
		Trigger:          string(DefaultTrigger),
		Placeholder:      "Type a message... (@ to mention)",
		LogFile:          "chatinput.log",
		LogLevel:         "info",
		LogFormat:        "text",
		DiscoveryTimeout: catalog.DefaultDiscoveryTimeout.String(),
	}
}

// DefaultConfigPaths lists where FindConfigPath looks, in order
func DefaultConfigPaths() []string {
	return []string{
		"./chatinput.toml",
		"./config/client.toml",
		os.ExpandEnv("$HOME/.config/chatinput/client.toml"),
	}
}

// FindConfigPath returns explicit when set, otherwise the first default
// path that exists, otherwise ""
func FindConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, path := range DefaultConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadConfig reads path on top of the values already in config
func LoadConfig(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// Validate checks the values that cannot be fixed up with a default
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.TriggerRune(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Timeout(); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q (valid: text, json)", c.LogFormat))
	}

	for i, srv := range c.MCPServers {
		if strings.TrimSpace(srv.Name) == "" {
			errs = append(errs, fmt.Errorf("mcp_servers[%d]: name is required", i))
			continue
		}
		switch srv.Transport {
		case "":
		case models.TransportStdio:
			if srv.Command == "" {
				errs = append(errs, fmt.Errorf("mcp_servers[%d] %s: stdio transport requires command", i, srv.Name))
			}
		case models.TransportSSE, models.TransportHTTP:
			if srv.URL == "" {
				errs = append(errs, fmt.Errorf("mcp_servers[%d] %s: %s transport requires url", i, srv.Name, srv.Transport))
			}
		default:
			errs = append(errs, fmt.Errorf("mcp_servers[%d] %s: unknown transport %q", i, srv.Name, srv.Transport))
		}
	}
	for i, wf := range c.Workflows {
		if strings.TrimSpace(wf.Name) == "" {
			errs = append(errs, fmt.Errorf("workflows[%d]: name is required", i))
		}
	}

	return errors.Join(errs...)
}

// TriggerRune returns the single, printable, non-space trigger character
func (c *Config) TriggerRune() (rune, error) {
	if c.Trigger == "" {
		return DefaultTrigger, nil
	}
	r, size := utf8.DecodeRuneInString(c.Trigger)
	if size != len(c.Trigger) || r == utf8.RuneError {
		return 0, fmt.Errorf("trigger must be a single character, got %q", c.Trigger)
	}
	if unicode.IsSpace(r) || !unicode.IsPrint(r) {
		return 0, fmt.Errorf("trigger must be a printable non-space character, got %q", c.Trigger)
	}
	return r, nil
}

// Timeout parses discovery_timeout, falling back to the default when empty
func (c *Config) Timeout() (time.Duration, error) {
	if c.DiscoveryTimeout == "" {
		return catalog.DefaultDiscoveryTimeout, nil
	}
	d, err := time.ParseDuration(c.DiscoveryTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid discovery_timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("discovery_timeout must be positive, got %s", d)
	}
	return d, nil
}

// ParseLogLevel converts a case-insensitive level name to an slog.Level.
// An empty string means info.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (valid: debug, info, warn, error)", s)
	}
}

// BuildStore assembles the catalog: configured servers, then configured
// workflows followed by those loaded from workflows_dir. Entries without an
// id get one derived from their name.
func (c *Config) BuildStore(logger *slog.Logger) (*catalog.Store, error) {
	servers := make([]models.MCPServer, len(c.MCPServers))
	for i := range c.MCPServers {
		servers[i] = c.MCPServers[i].Clone()
		servers[i].EnsureID()
	}

	workflows := make([]models.Workflow, 0, len(c.Workflows))
	for _, wf := range c.Workflows {
		wf.EnsureID()
		workflows = append(workflows, wf)
	}

	if c.WorkflowsDir != "" {
		loaded, err := catalog.LoadWorkflowDir(c.WorkflowsDir, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to load workflows: %w", err)
		}
		workflows = append(workflows, loaded...)
	}

	return catalog.NewStore(servers, workflows), nil
}
