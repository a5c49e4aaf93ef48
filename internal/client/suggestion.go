package client

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/concord-chat/chatinput/internal/catalog"
	"github.com/concord-chat/chatinput/internal/mention"
	"github.com/concord-chat/chatinput/internal/themes"
	"github.com/muesli/reflow/truncate"
	"github.com/sahilm/fuzzy"
)

const (
	popoverWidth   = 40
	popoverMaxRows = 8
)

// Outcome reports how a key press changed the popover
type Outcome struct {
	// Selected is set when the user picked a candidate
	Selected *mention.Candidate
	// Closed is set whenever the popover went from open to closed
	Closed bool
}

// Suggestion is the mention popover. It is either closed or open with a
// filter string typed into its own search field. It reads candidates
// from the catalog and never edits the document itself.
type Suggestion struct {
	store  *catalog.Store
	styles *themes.Styles
	keyMap EditorKeyMap

	open   bool
	filter textinput.Model

	// items is the aggregated list for revision
	items    []mention.Mention
	revision uint64

	matches  []int // indexes into items, in display order
	selected int   // index into matches
}

// NewSuggestion creates a closed popover backed by store
func NewSuggestion(store *catalog.Store, styles *themes.Styles) *Suggestion {
	filter := textinput.New()
	filter.Placeholder = "Search..."
	filter.Prompt = "› "
	filter.CharLimit = 100
	filter.Width = popoverWidth - 6
	filter.Cursor.SetMode(cursor.CursorStatic)

	return &Suggestion{
		store:  store,
		styles: styles,
		keyMap: DefaultEditorKeyMap(),
		filter: filter,
	}
}

// SetStyles swaps the theme styles
func (s *Suggestion) SetStyles(styles *themes.Styles) {
	s.styles = styles
}

// IsOpen reports whether the popover is showing
func (s *Suggestion) IsOpen() bool {
	return s.open
}

// Filter returns the current search text
func (s *Suggestion) Filter() string {
	return s.filter.Value()
}

// Open shows the popover with an empty filter and the first row highlighted
func (s *Suggestion) Open() tea.Cmd {
	s.open = true
	s.filter.Reset()
	s.selected = 0
	s.refresh(true)
	return s.filter.Focus()
}

// Close hides the popover and clears the filter
func (s *Suggestion) Close() {
	s.open = false
	s.filter.Blur()
	s.filter.Reset()
	s.matches = nil
	s.selected = 0
}

// Visible returns the candidates that match the current filter
func (s *Suggestion) Visible() []mention.Mention {
	s.refresh(false)
	out := make([]mention.Mention, 0, len(s.matches))
	for _, i := range s.matches {
		out = append(out, s.items[i])
	}
	return out
}

// Highlighted returns the row the cursor is on
func (s *Suggestion) Highlighted() (mention.Mention, bool) {
	s.refresh(false)
	return s.highlightedLocked()
}

// Update handles a message while the popover is open
func (s *Suggestion) Update(msg tea.Msg) (Outcome, tea.Cmd) {
	if !s.open {
		return Outcome{}, nil
	}
	s.refresh(false)

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		s.filter, cmd = s.filter.Update(msg)
		return Outcome{}, cmd
	}

	switch {
	case key.Matches(keyMsg, s.keyMap.Dismiss):
		s.Close()
		return Outcome{Closed: true}, nil

	case key.Matches(keyMsg, s.keyMap.Select):
		m, ok := s.Highlighted()
		if !ok {
			return Outcome{}, nil
		}
		c, err := mention.Encode(m)
		s.Close()
		if err != nil {
			return Outcome{Closed: true}, reportError(err)
		}
		return Outcome{Selected: &c, Closed: true}, nil

	case key.Matches(keyMsg, s.keyMap.Prev):
		if s.selected > 0 {
			s.selected--
		}
		return Outcome{}, nil

	case key.Matches(keyMsg, s.keyMap.Next):
		if s.selected < len(s.matches)-1 {
			s.selected++
		}
		return Outcome{}, nil

	case key.Matches(keyMsg, s.keyMap.Backspace) && s.filter.Value() == "":
		s.Close()
		return Outcome{Closed: true}, nil
	}

	before := s.filter.Value()
	var cmd tea.Cmd
	s.filter, cmd = s.filter.Update(msg)
	if s.filter.Value() != before {
		s.refilter()
	}
	return Outcome{}, cmd
}

// refresh re-aggregates the catalog when it changed since the last pass,
// keeping the highlighted row if it still exists. With force it also
// rebuilds the match list from the top.
func (s *Suggestion) refresh(force bool) {
	rev := s.store.Revision()
	if rev == s.revision && s.items != nil && !force {
		return
	}
	keep := !force
	if rev != s.revision || s.items == nil {
		var prev string
		if m, ok := s.highlightedLocked(); ok {
			prev = mention.Key(m)
		}
		snap := s.store.Snapshot()
		s.items = mention.Aggregate(snap.Servers, snap.Workflows)
		s.revision = snap.Revision
		s.refilter()
		if keep && prev != "" {
			s.selectKey(prev)
		}
		return
	}
	s.refilter()
}

// highlightedLocked is Highlighted without the refresh
func (s *Suggestion) highlightedLocked() (mention.Mention, bool) {
	if s.selected < 0 || s.selected >= len(s.matches) || s.matches[s.selected] >= len(s.items) {
		return nil, false
	}
	return s.items[s.matches[s.selected]], true
}

// selectKey moves the highlight to the row with the given key, if shown
func (s *Suggestion) selectKey(k string) {
	for i, idx := range s.matches {
		if mention.Key(s.items[idx]) == k {
			s.selected = i
			return
		}
	}
}

// mentionSource adapts the candidate list to fuzzy.Source
type mentionSource []mention.Mention

func (m mentionSource) String(i int) string {
	return filterText(m[i])
}

func (m mentionSource) Len() int {
	return len(m)
}

// filterText is what the search field matches against: the visible name
// and the row's meta column
func filterText(m mention.Mention) string {
	if meta := rowMeta(m); meta != "" {
		return m.DisplayName() + " " + meta
	}
	return m.DisplayName()
}

// refilter recomputes matches for the current filter and highlights the
// best match
func (s *Suggestion) refilter() {
	query := strings.TrimSpace(s.filter.Value())
	if query == "" {
		s.matches = make([]int, len(s.items))
		for i := range s.items {
			s.matches[i] = i
		}
	} else {
		found := fuzzy.FindFrom(query, mentionSource(s.items))
		s.matches = make([]int, 0, len(found))
		for _, f := range found {
			s.matches = append(s.matches, f.Index)
		}
	}

	s.selected = 0
}

// rowMeta is the right-hand column of a popover row
func rowMeta(m mention.Mention) string {
	switch v := m.(type) {
	case mention.MCPServer:
		return fmt.Sprintf("%d tools", v.ToolCount)
	case mention.Tool:
		return v.ServerName
	default:
		return ""
	}
}

// View renders the popover, or nothing while closed
func (s *Suggestion) View() string {
	if !s.open {
		return ""
	}
	s.refresh(false)

	inner := popoverWidth - 4 // border and padding
	var b strings.Builder

	b.WriteString(s.filter.View())
	b.WriteString("\n")

	if len(s.matches) == 0 {
		b.WriteString(s.styles.PopoverEmpty.Render("No results"))
		return s.styles.Popover.Width(popoverWidth - 2).Render(b.String())
	}

	// keep the highlighted row inside the visible window
	start := 0
	if len(s.matches) > popoverMaxRows {
		start = s.selected - popoverMaxRows/2
		if start < 0 {
			start = 0
		}
		if start > len(s.matches)-popoverMaxRows {
			start = len(s.matches) - popoverMaxRows
		}
	}
	end := min(start+popoverMaxRows, len(s.matches))

	if start > 0 {
		b.WriteString(s.styles.PopoverMeta.Render(fmt.Sprintf("↑ %d more", start)))
		b.WriteString("\n")
	}
	for i := start; i < end; i++ {
		b.WriteString(s.renderRow(s.items[s.matches[i]], inner, i == s.selected))
		b.WriteString("\n")
	}
	if end < len(s.matches) {
		b.WriteString(s.styles.PopoverMeta.Render(fmt.Sprintf("↓ %d more", len(s.matches)-end)))
		b.WriteString("\n")
	}

	if m, ok := s.Highlighted(); ok {
		tip := truncate.StringWithTail(mention.Tooltip(m), uint(inner), "…")
		b.WriteString(s.styles.Tooltip.Render(tip))
	}

	return s.styles.Popover.Width(popoverWidth - 2).Render(b.String())
}

func (s *Suggestion) renderRow(m mention.Mention, width int, selected bool) string {
	meta := rowMeta(m)
	metaWidth := lipgloss.Width(meta)

	nameWidth := width - 2 - metaWidth - 1 // icon, space, gap before meta
	if nameWidth < 4 {
		nameWidth = 4
	}
	name := truncate.StringWithTail(m.DisplayName(), uint(nameWidth), "…")

	gap := width - 2 - lipgloss.Width(name) - metaWidth
	if gap < 1 {
		gap = 1
	}
	icon := rowIcon(m)

	if selected {
		line := icon + " " + name + strings.Repeat(" ", gap) + meta
		return s.styles.PopoverSelected.Width(width).Render(line)
	}
	return s.styles.PopoverItem.Width(width).Render(
		s.styles.PopoverIcon.Render(icon) + " " + name + strings.Repeat(" ", gap) + s.styles.PopoverMeta.Render(meta),
	)
}
