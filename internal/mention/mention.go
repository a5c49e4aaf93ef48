// Package mention models the things a chat message can reference with the
// trigger character: MCP servers, their tools, workflows and the built-in
// default tools. It builds the ordered suggestion list from the catalog and
// converts mentions to and from the (label, id) tokens stored in the editor.
package mention

import "strings"

// Type discriminates the Mention variants
type Type string

const (
	TypeMCPServer   Type = "mcpServer"
	TypeTool        Type = "tool"
	TypeWorkflow    Type = "workflow"
	TypeDefaultTool Type = "defaultTool"
)

// Mention is one of MCPServer, Tool, Workflow or DefaultTool.
type Mention interface {
	// Kind returns the variant tag
	Kind() Type
	// DisplayName is the text shown in the popover row and on the chip
	DisplayName() string
	// Describe returns the description, possibly empty
	Describe() string

	isMention()
}

// MCPServer references a whole MCP server
type MCPServer struct {
	Name        string `json:"name"`
	ServerID    string `json:"serverId"`
	Description string `json:"description,omitempty"`
	ToolCount   int    `json:"toolCount"`
}

// Tool references a single tool exposed by an MCP server
type Tool struct {
	Name        string `json:"name"`
	ServerID    string `json:"serverId"`
	ServerName  string `json:"serverName"`
	Description string `json:"description,omitempty"`
}

// Icon is a workflow icon reference
type Icon struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Workflow references a user-defined workflow
type Workflow struct {
	Name        string `json:"name"`
	WorkflowID  string `json:"workflowId"`
	Icon        *Icon  `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
}

// DefaultTool references one of the tools built into the app
type DefaultTool struct {
	Name        string `json:"name"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
}

func (MCPServer) Kind() Type   { return TypeMCPServer }
func (Tool) Kind() Type        { return TypeTool }
func (Workflow) Kind() Type    { return TypeWorkflow }
func (DefaultTool) Kind() Type { return TypeDefaultTool }

func (m MCPServer) DisplayName() string { return m.Name }
func (m Tool) DisplayName() string      { return m.Name }
func (m Workflow) DisplayName() string  { return m.Name }

// DisplayName prefers the short label over the function name
func (m DefaultTool) DisplayName() string {
	if m.Label != "" {
		return m.Label
	}
	return m.Name
}

func (m MCPServer) Describe() string   { return m.Description }
func (m Tool) Describe() string        { return m.Description }
func (m Workflow) Describe() string    { return m.Description }
func (m DefaultTool) Describe() string { return m.Description }

func (MCPServer) isMention()   {}
func (Tool) isMention()        {}
func (Workflow) isMention()    {}
func (DefaultTool) isMention() {}

// Badge returns the variant name as shown on a chip, e.g. "McpServer".
// DefaultTool chips carry no badge, so ok is false for them.
func Badge(m Mention) (badge string, ok bool) {
	if m.Kind() == TypeDefaultTool {
		return "", false
	}
	return capitalizeFirst(string(m.Kind())), true
}

// Tooltip is the hover text for a mention
func Tooltip(m Mention) string {
	if d := m.Describe(); d != "" {
		return d
	}
	return "mention"
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
