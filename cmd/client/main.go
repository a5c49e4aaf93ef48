package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/concord-chat/chatinput/internal/catalog"
	"github.com/concord-chat/chatinput/internal/client"
	"github.com/concord-chat/chatinput/internal/themes"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	themeName := flag.String("theme", "", "Theme name (overrides config)")
	trigger := flag.String("trigger", "", "Mention trigger character (overrides config)")
	listThemes := flag.Bool("list-themes", false, "List available themes and exit")
	flag.Parse()

	// Load configuration
	config := client.DefaultConfig()

	path := client.FindConfigPath(*configPath)
	if path != "" {
		if err := client.LoadConfig(path, config); err != nil {
			log.Fatalf("Error: %v", err)
		}
	}

	if *listThemes {
		for _, name := range themes.ListThemes(config.ThemesDir) {
			fmt.Println(name)
		}
		return
	}

	// Apply command line overrides
	if *themeName != "" {
		config.Theme = *themeName
	}
	if *trigger != "" {
		config.Trigger = *trigger
	}

	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// stdout belongs to the TUI, so logs go to a file
	logFile, err := tea.LogToFile(config.LogFile, "")
	if err != nil {
		log.Fatalf("Error opening log file: %v", err)
	}
	defer logFile.Close()

	level, _ := client.ParseLogLevel(config.LogLevel)
	logger := newLogger(logFile, level, config.LogFormat)
	slog.SetDefault(logger)
	logger.Info("starting chatinput", "config", path, "theme", config.Theme)

	// Load theme
	theme := loadTheme(config, logger)

	// Build catalog
	store, err := config.BuildStore(logger)
	if err != nil {
		exitWithError(logger, err)
	}

	timeout, _ := config.Timeout()
	triggerRune, _ := config.TriggerRune()

	// Create application
	app := client.NewApp(store, logger)
	app.SetTheme(theme)
	app.SetThemeName(config.Theme)
	app.SetThemesDir(config.ThemesDir)
	app.SetDiscoverer(catalog.NewDiscoverer(timeout, logger))
	app.Input().SetTrigger(triggerRune)
	app.Input().SetPlaceholder(config.Placeholder)

	if config.ToolCache != "" {
		cache := catalog.NewToolCache(config.ToolCache)
		if cached, err := cache.Load(); err != nil {
			logger.Warn("ignoring tool cache", "path", config.ToolCache, "error", err)
		} else {
			snap := store.Snapshot()
			store.SetServers(catalog.ApplyCache(snap.Servers, cached))
		}
		app.SetToolCache(cache)
	}

	// Create Bubble Tea program
	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)

	// Run
	if _, err := p.Run(); err != nil {
		exitWithError(logger, fmt.Errorf("running program: %w", err))
	}
	if err := app.Err(); err != nil {
		exitWithError(logger, err)
	}
}

// exitWithError reports err on stderr, since the standard logger writes to
// the log file once it is open
func exitWithError(logger *slog.Logger, err error) {
	logger.Error("exiting on error", "error", err)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// loadTheme resolves the configured theme from themes_dir first, then the
// user and embedded themes, falling back to Dracula
func loadTheme(config *client.Config, logger *slog.Logger) *themes.Theme {
	theme, err := themes.ResolveTheme(config.ThemesDir, config.Theme)
	if err != nil {
		logger.Warn("failed to load theme, using default", "theme", config.Theme, "dir", config.ThemesDir, "error", err)
		return themes.GetDefaultTheme()
	}
	return theme
}

// newLogger creates a structured logger writing to w at the given level.
// Format is "text" or "json"; anything else means text.
func newLogger(w *os.File, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
