package client

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderMainView stacks the transcript, the popover (while open), the
// input and the status bar
func (a *App) renderMainView() string {
	input := a.input.View()
	popover := a.input.PopoverView()
	statusBar := a.renderStatusBar()

	// The popover overlays the bottom of the transcript
	chatHeight := a.height - lipgloss.Height(input) - lipgloss.Height(statusBar) - lipgloss.Height(popover)
	if popover == "" {
		chatHeight++
	}
	if chatHeight < 1 {
		chatHeight = 1
	}

	chat := a.renderTranscript(chatHeight)

	parts := []string{chat}
	if popover != "" {
		parts = append(parts, popover)
	}
	parts = append(parts, input, statusBar)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderTranscript renders the sent messages, or a hint when there are none
func (a *App) renderTranscript(height int) string {
	if len(a.entries) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(a.theme.Colors.Comment)).
			Italic(true).
			Width(a.width).
			Height(height).
			Align(lipgloss.Center).
			PaddingTop(height / 3)
		return emptyStyle.Render(fmt.Sprintf("No messages yet. Type %c to mention a tool, workflow or server.", a.input.Trigger()))
	}

	a.transcript.Height = height
	return a.transcript.View()
}

// updateTranscriptContent rebuilds the transcript viewport content
func (a *App) updateTranscriptContent() {
	var content strings.Builder

	for i, entry := range a.entries {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(a.styles.Timestamp.Render(entry.SentAt.Format("15:04")))
		content.WriteString("  ")
		content.WriteString(a.styles.MessageContent.Render(entry.Text))
		content.WriteString("\n")

		if len(entry.Mentions) > 0 {
			chips := make([]string, 0, len(entry.Mentions))
			for _, m := range entry.Mentions {
				chips = append(chips, RenderChip(a.styles, m))
			}
			content.WriteString(a.styles.SystemMessage.Render("  ↳ "))
			content.WriteString(strings.Join(chips, " "))
			content.WriteString("\n")
		}
	}

	a.transcript.SetContent(content.String())
}

// renderStatusBar renders the bottom status bar
func (a *App) renderStatusBar() string {
	statusStyle := a.styles.StatusBar.Width(a.width)

	// Left side: catalog summary
	snap := a.store.Snapshot()
	servers, tools := 0, 0
	for i := range snap.Servers {
		if snap.Servers[i].HasTools() {
			servers++
			tools += len(snap.Servers[i].Tools)
		}
	}
	leftContent := fmt.Sprintf("%s %d servers • %d tools • %d workflows",
		IconServer, servers, tools, len(snap.Workflows))
	if a.discovering {
		leftContent = a.styles.Info.Render("⟳ ") + leftContent
	}

	// Right side: help text
	rightContent := fmt.Sprintf("Enter: Send  |  %c: Mention  |  Ctrl+C: Quit", a.input.Trigger())

	// Center: status message
	centerContent := ""
	if a.statusMessage != "" {
		if a.statusError {
			centerContent = a.styles.Error.Render(a.statusMessage)
		} else {
			centerContent = a.styles.Info.Render(a.statusMessage)
		}
	}

	// Calculate spacing
	leftLen := lipgloss.Width(leftContent)
	rightLen := lipgloss.Width(rightContent)
	centerLen := lipgloss.Width(centerContent)
	totalSpace := a.width - leftLen - rightLen - centerLen - 4

	var bar string
	if totalSpace > 0 {
		leftPad := totalSpace / 2
		rightPad := totalSpace - leftPad
		bar = leftContent + strings.Repeat(" ", leftPad) + centerContent + strings.Repeat(" ", rightPad) + rightContent
	} else {
		bar = leftContent + "  " + centerContent
	}

	return statusStyle.Render(bar)
}
