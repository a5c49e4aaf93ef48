package themes

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
)

// Theme represents a complete color theme for the chat input
type Theme struct {
	Meta     ThemeMeta      `toml:"meta"`
	Colors   ThemeColors    `toml:"colors"`
	Semantic SemanticColors `toml:"semantic"`
}

// ThemeMeta contains metadata about the theme
type ThemeMeta struct {
	Name    string `toml:"name"`
	Author  string `toml:"author"`
	Variant string `toml:"variant"` // "dark" or "light"
}

// ThemeColors contains the base color palette
type ThemeColors struct {
	Background string `toml:"background"`
	Selection  string `toml:"selection"`
	Foreground string `toml:"foreground"`
	Comment    string `toml:"comment"`
	Red        string `toml:"red"`
	Green      string `toml:"green"`
	Cyan       string `toml:"cyan"`
	Purple     string `toml:"purple"`
	Pink       string `toml:"pink"`
}

// SemanticColors maps colors to specific UI purposes
type SemanticColors struct {
	ChatFg        string `toml:"chat_fg"`
	ChatTimestamp string `toml:"chat_timestamp"`

	InputFg          string `toml:"input_fg"`
	InputBorder      string `toml:"input_border"`
	InputBorderFocus string `toml:"input_border_focus"`
	InputPlaceholder string `toml:"input_placeholder"`

	// Mention chips, one hue per mention kind
	MentionTool     string `toml:"mention_tool"`
	MentionWorkflow string `toml:"mention_workflow"`
	MentionServer   string `toml:"mention_server"`

	PopoverBg       string `toml:"popover_bg"`
	PopoverBorder   string `toml:"popover_border"`
	PopoverSelected string `toml:"popover_selected"`
	PopoverMuted    string `toml:"popover_muted"`

	Error   string `toml:"error"`
	Success string `toml:"success"`
	Info    string `toml:"info"`
}

// Styles contains pre-computed lipgloss styles for the theme
type Styles struct {
	// Transcript
	MessageContent lipgloss.Style
	Timestamp      lipgloss.Style
	SystemMessage  lipgloss.Style

	// Editor
	InputField       lipgloss.Style
	InputFocused     lipgloss.Style
	InputPlaceholder lipgloss.Style
	Cursor           lipgloss.Style

	// Chips
	ChipTool     lipgloss.Style
	ChipWorkflow lipgloss.Style
	ChipServer   lipgloss.Style
	ChipBadge    lipgloss.Style
	Tooltip      lipgloss.Style

	// Popover
	Popover         lipgloss.Style
	PopoverItem     lipgloss.Style
	PopoverSelected lipgloss.Style
	PopoverMeta     lipgloss.Style
	PopoverIcon     lipgloss.Style
	PopoverEmpty    lipgloss.Style

	// Feedback
	Error   lipgloss.Style
	Success lipgloss.Style
	Info    lipgloss.Style

	StatusBar lipgloss.Style
}

// LoadTheme loads a theme from a TOML file
func LoadTheme(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var theme Theme
	if err := toml.Unmarshal(data, &theme); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	return &theme, nil
}

// LoadThemeByName loads a theme by name from the themes directory
func LoadThemeByName(themesDir, name string) (*Theme, error) {
	path := filepath.Join(themesDir, name+".toml")
	return LoadTheme(path)
}

// BuildStyles creates lipgloss styles from a theme
func (t *Theme) BuildStyles() *Styles {
	s := &Styles{}

	s.MessageContent = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Semantic.ChatFg))

	s.Timestamp = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Semantic.ChatTimestamp)).
		Faint(true)

	s.SystemMessage = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Colors.Comment)).
		Italic(true)

	// Editor
	s.InputField = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Semantic.InputFg)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Semantic.InputBorder)).
		Padding(0, 1)

	s.InputFocused = s.InputField.
		BorderForeground(lipgloss.Color(t.Semantic.InputBorderFocus))

	s.InputPlaceholder = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Semantic.InputPlaceholder)).
		Italic(true)

	s.Cursor = lipgloss.NewStyle().Reverse(true)

	// Chips
	chip := lipgloss.NewStyle().Bold(true)
	s.ChipTool = chip.Foreground(lipgloss.Color(t.Semantic.MentionTool))
	s.ChipWorkflow = chip.Foreground(lipgloss.Color(t.Semantic.MentionWorkflow))
	s.ChipServer = chip.Foreground(lipgloss.Color(t.Semantic.MentionServer))

	s.ChipBadge = lipgloss.NewStyle().
		Faint(true)

	s.Tooltip = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Colors.Comment)).
		Italic(true)

	// Popover
	s.Popover = lipgloss.NewStyle().
		Background(lipgloss.Color(t.Semantic.PopoverBg)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Semantic.PopoverBorder)).
		Padding(0, 1)

	s.PopoverItem = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Colors.Foreground))

	s.PopoverSelected = lipgloss.NewStyle().
		Background(lipgloss.Color(t.Semantic.PopoverSelected)).
		Foreground(lipgloss.Color(t.Colors.Foreground)).
		Bold(true)

	s.PopoverMeta = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Semantic.PopoverMuted))

	s.PopoverIcon = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Colors.Foreground))

	s.PopoverEmpty = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Semantic.PopoverMuted)).
		Italic(true)

	// Feedback
	s.Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Semantic.Error))

	s.Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Semantic.Success))

	s.Info = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Semantic.Info))

	s.StatusBar = lipgloss.NewStyle().
		Background(lipgloss.Color(t.Colors.Selection)).
		Foreground(lipgloss.Color(t.Colors.Foreground)).
		Padding(0, 1)

	return s
}

// GetDefaultTheme returns the default Dracula theme
func GetDefaultTheme() *Theme {
	return &Theme{
		Meta: ThemeMeta{
			Name:    "Dracula",
			Author:  "Zeno Rocha",
			Variant: "dark",
		},
		Colors: ThemeColors{
			Background: "#282A36",
			Selection:  "#44475A",
			Foreground: "#F8F8F2",
			Comment:    "#6272A4",
			Red:        "#FF5555",
			Green:      "#50FA7B",
			Cyan:       "#8BE9FD",
			Purple:     "#BD93F9",
			Pink:       "#FF79C6",
		},
		Semantic: SemanticColors{
			ChatFg:           "#F8F8F2",
			ChatTimestamp:    "#6272A4",
			InputFg:          "#F8F8F2",
			InputBorder:      "#6272A4",
			InputBorderFocus: "#BD93F9",
			InputPlaceholder: "#6272A4",
			MentionTool:      "#8BE9FD",
			MentionWorkflow:  "#FF79C6",
			MentionServer:    "#BD93F9",
			PopoverBg:        "#21222C",
			PopoverBorder:    "#6272A4",
			PopoverSelected:  "#44475A",
			PopoverMuted:     "#6272A4",
			Error:            "#FF5555",
			Success:          "#50FA7B",
			Info:             "#8BE9FD",
		},
	}
}
