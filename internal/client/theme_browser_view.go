package client

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/concord-chat/chatinput/internal/mention"
	"github.com/concord-chat/chatinput/internal/themes"
)

// ThemeBrowserState holds state for the theme picker
type ThemeBrowserState struct {
	ThemeNames    []string      // all available theme slugs
	SelectedIndex int           // cursor position in the list
	PreviousTheme *themes.Theme // theme active before the browser was opened
	PreviousName  string
}

// previewMentions are the sample chips drawn in the preview pane
var previewMentions = []mention.Mention{
	mention.MCPServer{Name: "github", ToolCount: 2},
	mention.Tool{Name: "create_issue", ServerName: "github"},
	mention.Workflow{Name: "Release", Icon: &mention.Icon{Type: "emoji", Value: "🚀"}},
	mention.DefaultTools[0],
}

// ThemeBrowserOpen reports whether the theme picker is showing
func (a *App) ThemeBrowserOpen() bool {
	return a.themeBrowser != nil
}

// openThemeBrowser shows the theme picker with the cursor on the active theme
func (a *App) openThemeBrowser() {
	names := themes.ListThemes(a.themesDir)
	if len(names) == 0 {
		names = []string{"dracula"}
	}

	currentIdx := 0
	for i, n := range names {
		if n == a.themeName {
			currentIdx = i
			break
		}
	}

	a.input.Blur()
	a.themeBrowser = &ThemeBrowserState{
		ThemeNames:    names,
		SelectedIndex: currentIdx,
		PreviousTheme: a.theme,
		PreviousName:  a.themeName,
	}
}

// closeThemeBrowser returns to the composer
func (a *App) closeThemeBrowser() {
	a.themeBrowser = nil
	a.input.Focus()
}

// handleThemeBrowserKey processes keys while the picker is open. Moving
// the cursor previews the theme; enter keeps it, esc restores the old one.
func (a *App) handleThemeBrowserKey(msg tea.KeyMsg) tea.Cmd {
	s := a.themeBrowser

	switch msg.String() {
	case "ctrl+c", "ctrl+q":
		return tea.Quit

	case "up", "k":
		if s.SelectedIndex > 0 {
			s.SelectedIndex--
			a.previewTheme(s.ThemeNames[s.SelectedIndex])
		}

	case "down", "j":
		if s.SelectedIndex < len(s.ThemeNames)-1 {
			s.SelectedIndex++
			a.previewTheme(s.ThemeNames[s.SelectedIndex])
		}

	case "enter":
		chosen := s.ThemeNames[s.SelectedIndex]
		a.previewTheme(chosen)
		a.closeThemeBrowser()
		a.statusMessage = fmt.Sprintf("Theme set to %q", a.theme.Meta.Name)
		a.statusError = false
		a.logger.Info("theme changed", "theme", chosen)

	case "esc", "ctrl+t":
		if s.PreviousTheme != nil {
			a.SetTheme(s.PreviousTheme)
			a.themeName = s.PreviousName
		}
		a.closeThemeBrowser()
	}

	return nil
}

// previewTheme applies a theme by name
func (a *App) previewTheme(name string) {
	t, err := themes.ResolveTheme(a.themesDir, name)
	if err != nil {
		a.logger.Warn("failed to load theme", "theme", name, "error", err)
		return
	}
	a.SetTheme(t)
	a.themeName = name
}

// renderThemeBrowserView renders the full-screen theme picker
func (a *App) renderThemeBrowserView() string {
	s := a.themeBrowser

	totalWidth := max(a.width, 40)
	totalHeight := max(a.height, 10)

	// Split: left list | right preview
	listWidth := 28
	previewWidth := max(totalWidth-listWidth-1, 30)

	// Left: theme list
	var listBuf strings.Builder
	listBuf.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color(a.theme.Colors.Purple)).
		Bold(true).
		Render("SELECT THEME"))
	listBuf.WriteString("\n")
	listBuf.WriteString(a.styles.SystemMessage.Render("↑↓ preview · Enter keep · Esc cancel"))
	listBuf.WriteString("\n\n")

	for i, slug := range s.ThemeNames {
		if i == s.SelectedIndex {
			listBuf.WriteString(a.styles.PopoverSelected.Width(listWidth - 2).Render("▶ " + slug))
		} else {
			listBuf.WriteString(a.styles.PopoverItem.Width(listWidth - 2).Render("  " + slug))
		}
		listBuf.WriteString("\n")
	}

	listPanel := lipgloss.NewStyle().
		Width(listWidth).
		Height(totalHeight - 3).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(a.theme.Colors.Purple)).
		Render(listBuf.String())

	// Right: live preview of the composer
	var prevBuf strings.Builder
	t := a.theme

	prevBuf.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.Purple)).Bold(true).Render(t.Meta.Name))
	if t.Meta.Author != "" {
		prevBuf.WriteString(a.styles.SystemMessage.Render("  by " + t.Meta.Author))
	}
	prevBuf.WriteString("\n\n")

	prevBuf.WriteString(a.styles.MessageContent.Render("Mentions"))
	prevBuf.WriteString("\n")
	for _, m := range previewMentions {
		prevBuf.WriteString("  " + RenderChip(a.styles, m) + "\n")
	}
	prevBuf.WriteString("\n")

	var rows strings.Builder
	for i, m := range previewMentions {
		line := rowIcon(m) + " " + m.DisplayName()
		if i == 0 {
			rows.WriteString(a.styles.PopoverSelected.Width(previewWidth - 10).Render(line))
		} else {
			rows.WriteString(a.styles.PopoverItem.Width(previewWidth - 10).Render(line))
		}
		rows.WriteString("\n")
	}
	rows.WriteString(a.styles.Tooltip.Render(mention.Tooltip(previewMentions[0])))
	prevBuf.WriteString(a.styles.Popover.Render(rows.String()))
	prevBuf.WriteString("\n")

	prevBuf.WriteString(a.styles.StatusBar.Width(previewWidth - 4).Render(
		fmt.Sprintf("%s 1 servers • 1 tools • 1 workflows", IconServer)))

	previewPanel := lipgloss.NewStyle().
		Width(previewWidth).
		Height(totalHeight - 3).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(a.theme.Colors.Selection)).
		Render(prevBuf.String())

	content := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)

	titleBar := lipgloss.NewStyle().
		Width(totalWidth).
		Background(lipgloss.Color(a.theme.Colors.Purple)).
		Foreground(lipgloss.Color(a.theme.Colors.Background)).
		Bold(true).
		Render("  Theme Browser")

	return lipgloss.JoinVertical(lipgloss.Left, titleBar, content)
}
