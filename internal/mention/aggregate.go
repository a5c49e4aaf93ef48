package mention

import (
	"fmt"

	"github.com/concord-chat/chatinput/internal/models"
)

// DefaultTools are the built-in tools offered regardless of catalog content
var DefaultTools = []DefaultTool{
	{
		Name:        "webSearch",
		Label:       "web-search",
		Description: "Search the web for information",
	},
	{
		Name:        "webDetail",
		Label:       "web-detail",
		Description: "Extract details from a web page",
	},
	{
		Name:        "createPieChart",
		Label:       "pie-chart",
		Description: "Create a pie chart",
	},
	{
		Name:        "createBarChart",
		Label:       "bar-chart",
		Description: "Create a bar chart",
	},
	{
		Name:        "createLineChart",
		Label:       "line-chart",
		Description: "Create a line chart",
	},
}

// Aggregate flattens the catalog into the ordered suggestion list: each
// server that has tools followed by its tools, then the workflows, then
// the default tools. Servers without tools are skipped.
func Aggregate(servers []models.MCPServer, workflows []models.Workflow) []Mention {
	out := make([]Mention, 0, len(servers)+len(workflows)+len(DefaultTools))

	for _, srv := range servers {
		if !srv.HasTools() {
			continue
		}
		out = append(out, MCPServer{
			Name:        srv.Name,
			ServerID:    srv.ID,
			Description: fmt.Sprintf("%s is an MCP server that includes %d tool(s).", srv.Name, len(srv.Tools)),
			ToolCount:   len(srv.Tools),
		})
		for _, tool := range srv.Tools {
			out = append(out, Tool{
				Name:        tool.Name,
				ServerID:    srv.ID,
				ServerName:  srv.Name,
				Description: tool.Description,
			})
		}
	}

	for _, wf := range workflows {
		w := Workflow{
			Name:        wf.Name,
			WorkflowID:  wf.ID,
			Description: wf.Description,
		}
		if wf.Icon != nil {
			w.Icon = &Icon{Type: wf.Icon.Type, Value: wf.Icon.Value}
		}
		out = append(out, w)
	}

	for _, dt := range DefaultTools {
		out = append(out, dt)
	}

	return out
}

// Key returns the list identity of a mention. Keys are unique as long as
// server, workflow and tool identifiers are unique upstream.
func Key(m Mention) string {
	switch v := m.(type) {
	case MCPServer:
		return v.ServerID
	case Workflow:
		return v.WorkflowID
	case DefaultTool:
		return "default-" + v.Name
	case Tool:
		return v.ServerID + "-" + v.Name
	default:
		panic(fmt.Sprintf("mention: unknown variant %T", m))
	}
}
