package client

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/concord-chat/chatinput/internal/mention"
	"github.com/concord-chat/chatinput/internal/themes"
)

// Glyphs standing in for the server, workflow and tool icons
const (
	IconServer    = "◈"
	IconWaypoints = "⇢"
	IconWrench    = "⚙"
)

// chipIcon picks the icon drawn inside an inline mention chip. Workflows
// show their emoji, or the first letter of their name when they have none.
func chipIcon(m mention.Mention) string {
	switch v := m.(type) {
	case mention.MCPServer:
		return IconServer
	case mention.Workflow:
		if v.Icon != nil && v.Icon.Type == "emoji" && v.Icon.Value != "" {
			return v.Icon.Value
		}
		if r := []rune(v.Name); len(r) > 0 {
			return string(r[0])
		}
		return IconWaypoints
	default:
		return IconWrench
	}
}

// rowIcon picks the icon drawn in a popover row
func rowIcon(m mention.Mention) string {
	switch m.Kind() {
	case mention.TypeMCPServer:
		return IconServer
	case mention.TypeWorkflow:
		return IconWaypoints
	default:
		return IconWrench
	}
}

// chipStyle returns the chip colour for a mention kind
func chipStyle(styles *themes.Styles, m mention.Mention) lipgloss.Style {
	switch m.Kind() {
	case mention.TypeWorkflow:
		return styles.ChipWorkflow
	case mention.TypeMCPServer:
		return styles.ChipServer
	default:
		return styles.ChipTool
	}
}

// chipName is the name shown on a chip. Default tools show their
// function name here, not the short label used in the popover.
func chipName(m mention.Mention) string {
	if v, ok := m.(mention.DefaultTool); ok {
		return v.Name
	}
	return m.DisplayName()
}

// RenderChip renders an inline mention: icon, kind badge (omitted for
// default tools) and name
func RenderChip(styles *themes.Styles, m mention.Mention) string {
	style := chipStyle(styles, m)

	parts := []string{style.Render("[" + chipIcon(m))}
	if badge, ok := mention.Badge(m); ok {
		parts = append(parts, styles.ChipBadge.Inherit(style).Render(badge))
	}
	parts = append(parts, style.Render(chipName(m)+"]"))

	return strings.Join(parts, style.Render(" "))
}
