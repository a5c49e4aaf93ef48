package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/concord-chat/chatinput/internal/catalog"
	"github.com/concord-chat/chatinput/internal/mention"
	"github.com/concord-chat/chatinput/internal/models"
	"github.com/concord-chat/chatinput/internal/themes"
)

// App is the chat composer: a transcript of sent messages above the
// mention input, with a status bar at the bottom
type App struct {
	// Window dimensions
	width  int
	height int

	// Theme
	theme        *themes.Theme
	themeName    string
	themesDir    string
	styles       *themes.Styles
	themeBrowser *ThemeBrowserState

	// Catalog
	store      *catalog.Store
	discoverer *catalog.Discoverer
	toolCache  *catalog.ToolCache

	// UI components
	input      *MentionInput
	transcript viewport.Model
	entries    []*TranscriptEntry

	// Last text and mentions reported by the input
	draft ChangeMsg

	// Status message
	statusMessage string
	statusError   bool
	discovering   bool

	logger *slog.Logger
	err    error
}

// TranscriptEntry is one submitted message
type TranscriptEntry struct {
	Text     string
	Mentions []mention.Mention
	SentAt   time.Time
}

// NewApp creates an application reading mention candidates from store
func NewApp(store *catalog.Store, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}

	// Load default theme
	theme := themes.GetDefaultTheme()
	styles := theme.BuildStyles()

	input := NewMentionInput(store, styles)
	input.SetLogger(logger)
	input.Focus()

	return &App{
		theme:      theme,
		themeName:  "dracula",
		styles:     styles,
		store:      store,
		input:      input,
		transcript: viewport.New(80, 20),
		entries:    make([]*TranscriptEntry, 0),
		logger:     logger,
	}
}

// Input exposes the mention input for configuration
func (a *App) Input() *MentionInput {
	return a.input
}

// SetDiscoverer enables MCP tool discovery at startup
func (a *App) SetDiscoverer(d *catalog.Discoverer) {
	a.discoverer = d
}

// SetToolCache records discovery results to cache
func (a *App) SetToolCache(cache *catalog.ToolCache) {
	a.toolCache = cache
}

// Err returns the error that made the program quit, if any
func (a *App) Err() error {
	return a.err
}

// Entries returns the submitted messages
func (a *App) Entries() []*TranscriptEntry {
	return a.entries
}

// Draft returns the last change reported by the input
func (a *App) Draft() ChangeMsg {
	return a.draft
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.discoverTools()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.themeBrowser != nil {
			return a, a.handleThemeBrowserKey(msg)
		}
		if cmd, handled := a.handleKeyPress(msg); handled {
			return a, cmd
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateViewportSize()
		return a, nil

	case CatalogUpdatedMsg:
		a.applyCatalog(msg)
		return a, nil

	case ChangeMsg:
		a.draft = msg
		a.logger.Debug("input changed", "length", len(msg.Text), "mentions", len(msg.Mentions))
		return a, nil

	case SubmitMsg:
		a.addEntry(msg)
		a.input.Reset()
		a.draft = ChangeMsg{}
		return a, nil

	case ErrorMsg:
		a.statusMessage = msg.Error
		a.statusError = true
		if msg.Fatal {
			a.err = msg.Cause
			if a.err == nil {
				a.err = errors.New(msg.Error)
			}
			a.logger.Error("fatal input error", "error", a.err)
			return a, tea.Quit
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

// View implements tea.Model
func (a *App) View() string {
	if a.themeBrowser != nil {
		return a.renderThemeBrowserView()
	}
	return a.renderMainView()
}

// handleKeyPress handles the keys the app owns. Everything else goes to
// the input.
func (a *App) handleKeyPress(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "ctrl+q":
		return tea.Quit, true

	case "ctrl+t":
		a.openThemeBrowser()
		return nil, true

	case "pgup":
		a.transcript.HalfViewUp()
		return nil, true

	case "pgdown":
		a.transcript.HalfViewDown()
		return nil, true
	}

	return nil, false
}

// discoverTools lists the tools of every remote server in the background
func (a *App) discoverTools() tea.Cmd {
	if a.discoverer == nil {
		return nil
	}
	servers := a.store.Snapshot().Servers

	remote := 0
	for i := range servers {
		if servers[i].IsRemote() {
			remote++
		}
	}
	if remote == 0 {
		return nil
	}

	a.discovering = true
	a.statusMessage = fmt.Sprintf("Discovering tools on %d MCP server(s)...", remote)
	a.statusError = false

	d := a.discoverer
	return func() tea.Msg {
		return CatalogUpdatedMsg{
			Servers: d.Discover(context.Background(), servers),
		}
	}
}

// applyCatalog stores discovered servers and records them in the cache
func (a *App) applyCatalog(msg CatalogUpdatedMsg) {
	a.discovering = false
	a.store.SetServers(msg.Servers)

	tools := 0
	for i := range msg.Servers {
		tools += len(msg.Servers[i].Tools)
	}
	a.statusMessage = fmt.Sprintf("%d tools available", tools)
	a.statusError = false

	if a.toolCache != nil {
		if err := a.toolCache.Save(msg.Servers); err != nil {
			a.logger.Warn("failed to save tool cache", "path", a.toolCache.Path(), "error", err)
		}
	}
}

// addEntry appends a submitted message to the transcript
func (a *App) addEntry(msg SubmitMsg) {
	a.entries = append(a.entries, &TranscriptEntry{
		Text:     msg.Text,
		Mentions: msg.Mentions,
		SentAt:   time.Now(),
	})
	a.logger.Info("message submitted", "mentions", len(msg.Mentions))
	a.updateTranscriptContent()
	a.transcript.GotoBottom()
}

// updateViewportSize updates viewport dimensions based on window size
func (a *App) updateViewportSize() {
	inputHeight := 4  // box and tooltip line
	statusHeight := 1 // status bar
	chatHeight := a.height - inputHeight - statusHeight
	if chatHeight < 3 {
		chatHeight = 3
	}

	a.transcript.Width = a.width
	a.transcript.Height = chatHeight
	a.input.SetWidth(a.width)
	a.updateTranscriptContent()
}

// --- Message types for tea.Cmd ---

// CatalogUpdatedMsg carries servers refreshed by discovery
type CatalogUpdatedMsg struct {
	Servers []models.MCPServer
}

// ErrorMsg indicates an error. Fatal errors end the program.
type ErrorMsg struct {
	Error string
	Fatal bool
	Cause error
}

// SetThemeName records the slug of the active theme for the theme browser
func (a *App) SetThemeName(name string) {
	a.themeName = name
}

// SetThemesDir sets the extra directory the theme browser lists and loads
// themes from, ahead of the user and embedded themes
func (a *App) SetThemesDir(dir string) {
	a.themesDir = dir
}

// SetTheme sets the application theme
func (a *App) SetTheme(theme *themes.Theme) {
	a.theme = theme
	a.styles = theme.BuildStyles()
	a.input.SetStyles(a.styles)
	a.updateTranscriptContent()
}
