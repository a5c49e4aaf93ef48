package client

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/concord-chat/chatinput/internal/catalog"
	"github.com/concord-chat/chatinput/internal/mention"
	"github.com/concord-chat/chatinput/internal/models"
	"github.com/concord-chat/chatinput/internal/themes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore() *catalog.Store {
	return catalog.NewStore(
		[]models.MCPServer{
			{ID: "s1", Name: "Alpha", Tools: []models.Tool{
				{Name: "t1", Description: "First tool"},
				{Name: "t2"},
			}},
			{ID: "s2", Name: "Idle"},
		},
		[]models.Workflow{
			{ID: "w1", Name: "Deploy", Description: "Ship it"},
		},
	)
}

func testStyles() *themes.Styles {
	return themes.GetDefaultTheme().BuildStyles()
}

func typeRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyPress(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// collect runs cmd and flattens batches into the messages they produce
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

var alphaServer = mention.MCPServer{
	Name:        "Alpha",
	ServerID:    "s1",
	Description: "Alpha is an MCP server that includes 2 tool(s).",
	ToolCount:   2,
}

func TestSuggestion_ClosedByDefault(t *testing.T) {
	s := NewSuggestion(testStore(), testStyles())

	assert.False(t, s.IsOpen())
	assert.Empty(t, s.View())

	out, cmd := s.Update(typeRunes("a"))
	assert.Equal(t, Outcome{}, out)
	assert.Nil(t, cmd)
}

func TestSuggestion_OpenListsAllCandidates(t *testing.T) {
	s := NewSuggestion(testStore(), testStyles())
	s.Open()

	require.True(t, s.IsOpen())
	assert.Empty(t, s.Filter())

	visible := s.Visible()
	// Alpha, t1, t2, Deploy and the five defaults; Idle has no tools
	require.Len(t, visible, 9)
	assert.Equal(t, alphaServer, visible[0])
	assert.Equal(t, mention.Workflow{Name: "Deploy", WorkflowID: "w1", Description: "Ship it"}, visible[3])

	m, ok := s.Highlighted()
	require.True(t, ok)
	assert.Equal(t, alphaServer, m)
}

func TestSuggestion_BackspaceOnEmptyFilterCloses(t *testing.T) {
	s := NewSuggestion(testStore(), testStyles())
	s.Open()

	out, _ := s.Update(keyPress(tea.KeyBackspace))
	assert.True(t, out.Closed)
	assert.Nil(t, out.Selected)
	assert.False(t, s.IsOpen())
}

func TestSuggestion_BackspaceWithFilterOnlyEdits(t *testing.T) {
	s := NewSuggestion(testStore(), testStyles())
	s.Open()

	s.Update(typeRunes("t"))
	require.Equal(t, "t", s.Filter())

	out, _ := s.Update(keyPress(tea.KeyBackspace))
	assert.False(t, out.Closed)
	assert.True(t, s.IsOpen())
	assert.Empty(t, s.Filter())

	// the filter is empty now, so the next backspace closes
	out, _ = s.Update(keyPress(tea.KeyBackspace))
	assert.True(t, out.Closed)
	assert.False(t, s.IsOpen())
}

func TestSuggestion_Dismiss(t *testing.T) {
	s := NewSuggestion(testStore(), testStyles())
	s.Open()
	s.Update(typeRunes("de"))

	out, _ := s.Update(keyPress(tea.KeyEsc))
	assert.True(t, out.Closed)
	assert.Nil(t, out.Selected)
	assert.False(t, s.IsOpen())
	assert.Empty(t, s.Filter())
}

func TestSuggestion_SelectEncodesHighlighted(t *testing.T) {
	tests := []struct {
		name      string
		keys      []tea.KeyMsg
		wantLabel string
		want      mention.Mention
	}{
		{
			name:      "server",
			keys:      []tea.KeyMsg{keyPress(tea.KeyEnter)},
			wantLabel: "Alpha ",
			want:      alphaServer,
		},
		{
			name:      "tool via arrow",
			keys:      []tea.KeyMsg{keyPress(tea.KeyDown), keyPress(tea.KeyTab)},
			wantLabel: `tool("t1") `,
			want:      mention.Tool{Name: "t1", ServerID: "s1", ServerName: "Alpha", Description: "First tool"},
		},
		{
			name:      "default tool via filter",
			keys:      []tea.KeyMsg{typeRunes("web-search"), keyPress(tea.KeyEnter)},
			wantLabel: `tool("web-search") `,
			want:      mention.DefaultTools[0],
		},
		{
			name:      "workflow via filter",
			keys:      []tea.KeyMsg{typeRunes("dep"), keyPress(tea.KeyEnter)},
			wantLabel: `tool("Deploy") `,
			want:      mention.Workflow{Name: "Deploy", WorkflowID: "w1", Description: "Ship it"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSuggestion(testStore(), testStyles())
			s.Open()

			var out Outcome
			for _, k := range tt.keys {
				out, _ = s.Update(k)
			}

			require.NotNil(t, out.Selected)
			assert.True(t, out.Closed)
			assert.False(t, s.IsOpen())
			assert.Equal(t, tt.wantLabel, out.Selected.Label)

			got, err := mention.Decode(out.Selected.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggestion_ArrowsClampAtEnds(t *testing.T) {
	s := NewSuggestion(testStore(), testStyles())
	s.Open()

	s.Update(keyPress(tea.KeyUp))
	m, _ := s.Highlighted()
	assert.Equal(t, alphaServer, m)

	for range 20 {
		s.Update(keyPress(tea.KeyDown))
	}
	m, _ = s.Highlighted()
	assert.Equal(t, mention.DefaultTools[4], m)
}

func TestSuggestion_FuzzyFilter(t *testing.T) {
	s := NewSuggestion(testStore(), testStyles())
	s.Open()

	s.Update(typeRunes("dep"))
	visible := s.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Deploy", visible[0].DisplayName())

	// meta column is searchable too: tools match their server name
	s.Update(keyPress(tea.KeyEsc))
	s.Open()
	s.Update(typeRunes("alpha"))
	names := make([]string, 0)
	for _, m := range s.Visible() {
		names = append(names, m.DisplayName())
	}
	assert.ElementsMatch(t, []string{"Alpha", "t1", "t2"}, names)
}

func TestSuggestion_NoResults(t *testing.T) {
	s := NewSuggestion(testStore(), testStyles())
	s.Open()

	s.Update(typeRunes("zzzz"))
	assert.Empty(t, s.Visible())
	assert.Contains(t, s.View(), "No results")

	// selecting with nothing highlighted keeps the popover open
	out, cmd := s.Update(keyPress(tea.KeyEnter))
	assert.Equal(t, Outcome{}, out)
	assert.Nil(t, cmd)
	assert.True(t, s.IsOpen())
}

func TestSuggestion_MemoizedAgainstRevision(t *testing.T) {
	store := testStore()
	s := NewSuggestion(store, testStyles())
	s.Open()
	require.Len(t, s.Visible(), 9)

	first := s.items
	s.Visible()
	assert.Same(t, &first[0], &s.items[0], "list rebuilt without a catalog change")

	store.SetWorkflows(nil)
	assert.Len(t, s.Visible(), 8)
}

func TestSuggestion_CatalogUpdateKeepsHighlight(t *testing.T) {
	store := testStore()
	s := NewSuggestion(store, testStyles())
	s.Open()
	s.Update(keyPress(tea.KeyDown))
	s.Update(keyPress(tea.KeyDown))

	m, _ := s.Highlighted()
	require.Equal(t, "t2", m.DisplayName())

	snap := store.Snapshot()
	store.SetServers(append([]models.MCPServer{
		{ID: "s0", Name: "Beta", Tools: []models.Tool{{Name: "b1"}}},
	}, snap.Servers...))

	m, ok := s.Highlighted()
	require.True(t, ok)
	assert.Equal(t, "t2", m.DisplayName())
	assert.Len(t, s.Visible(), 11)
}

func TestSuggestion_ViewShowsRowsAndTooltip(t *testing.T) {
	s := NewSuggestion(testStore(), testStyles())
	s.Open()

	view := s.View()
	assert.Contains(t, view, "Alpha")
	assert.Contains(t, view, "2 tools")
	assert.Contains(t, view, "Alpha is an MCP server")
	// nine rows do not fit, so the window reports the rest
	assert.Contains(t, view, "↓ 1 more")

	// unhighlighted rows still carry their kind icon
	assert.Contains(t, view, IconWrench)
	assert.Contains(t, view, IconWaypoints)
}
