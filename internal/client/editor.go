package client

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/concord-chat/chatinput/internal/catalog"
	"github.com/concord-chat/chatinput/internal/mention"
	"github.com/concord-chat/chatinput/internal/themes"
)

// DefaultTrigger opens the mention popover
const DefaultTrigger = '@'

// MentionInput is a multi-line chat composer whose mentions are atomic
// tokens. Typing the trigger character at a word boundary opens the
// suggestion popover; picking a candidate replaces the trigger with the
// candidate's label.
type MentionInput struct {
	doc     document
	popover *Suggestion
	help    help.Model

	trigger    rune
	triggerPos int // offset of the trigger while the popover is open, else -1

	placeholder string
	focused     bool
	width       int

	styles *themes.Styles
	keyMap EditorKeyMap
	logger *slog.Logger
}

// NewMentionInput creates an empty, unfocused input reading its
// candidates from store
func NewMentionInput(store *catalog.Store, styles *themes.Styles) *MentionInput {
	return &MentionInput{
		popover:     NewSuggestion(store, styles),
		help:        help.New(),
		trigger:     DefaultTrigger,
		triggerPos:  -1,
		placeholder: "Type a message...",
		width:       60,
		styles:      styles,
		keyMap:      DefaultEditorKeyMap(),
		logger:      slog.Default(),
	}
}

func (m *MentionInput) SetTrigger(r rune)          { m.trigger = r }
func (m *MentionInput) SetPlaceholder(p string)    { m.placeholder = p }
func (m *MentionInput) SetLogger(l *slog.Logger)   { m.logger = l }
func (m *MentionInput) Trigger() rune              { return m.trigger }
func (m *MentionInput) Popover() *Suggestion       { return m.popover }
func (m *MentionInput) Focused() bool              { return m.focused }
func (m *MentionInput) SetStyles(s *themes.Styles) { m.styles = s; m.popover.SetStyles(s) }

// SetWidth sets the outer width of the input box
func (m *MentionInput) SetWidth(w int) {
	m.width = w
	m.help.Width = w
}

func (m *MentionInput) Focus() { m.focused = true }

// Blur unfocuses the input and closes the popover
func (m *MentionInput) Blur() {
	m.focused = false
	m.closePopover()
}

// Value returns the document text, labels included
func (m *MentionInput) Value() string {
	return m.doc.text()
}

// Candidates returns the embedded tokens in document order
func (m *MentionInput) Candidates() []mention.Candidate {
	return m.doc.candidates()
}

// Mentions decodes every embedded token. A token that does not decode
// is an error; nothing is substituted for it.
func (m *MentionInput) Mentions() ([]mention.Mention, error) {
	return mention.DecodeAll(m.doc.candidates())
}

// SetContent replaces the document with plain text
func (m *MentionInput) SetContent(text string) {
	m.closePopover()
	m.doc.setText(text)
}

// Reset clears the document
func (m *MentionInput) Reset() {
	m.closePopover()
	m.doc.reset()
}

// InsertCandidate inserts a token at the cursor. The id must decode.
func (m *MentionInput) InsertCandidate(c mention.Candidate) error {
	decoded, err := mention.Decode(c.ID)
	if err != nil {
		return fmt.Errorf("insert %q: %w", c.Label, err)
	}
	m.doc.insertToken(c, decoded)
	return nil
}

// Update handles a message. While the popover is open every key goes to
// it and the document stays untouched.
func (m *MentionInput) Update(msg tea.Msg) (*MentionInput, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	if m.popover.IsOpen() {
		outcome, cmd := m.popover.Update(msg)
		if outcome.Selected != nil {
			return m, tea.Batch(cmd, m.applySelection(*outcome.Selected))
		}
		if outcome.Closed {
			m.triggerPos = -1
		}
		return m, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keyMap.Newline):
		m.doc.insertText("\n")
		return m, m.changed()

	case key.Matches(keyMsg, m.keyMap.Submit):
		return m, m.submit()

	case key.Matches(keyMsg, m.keyMap.Backspace):
		if m.doc.backspace() {
			return m, m.changed()
		}
		return m, nil

	case key.Matches(keyMsg, m.keyMap.Delete):
		if m.doc.deleteForward() {
			return m, m.changed()
		}
		return m, nil

	case key.Matches(keyMsg, m.keyMap.Left):
		m.doc.moveLeft()
		return m, nil

	case key.Matches(keyMsg, m.keyMap.Right):
		m.doc.moveRight()
		return m, nil

	case key.Matches(keyMsg, m.keyMap.LineStart):
		m.doc.moveHome()
		return m, nil

	case key.Matches(keyMsg, m.keyMap.LineEnd):
		m.doc.moveEnd()
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeySpace:
		m.doc.insertText(" ")
		return m, m.changed()

	case tea.KeyRunes:
		if keyMsg.Alt {
			return m, nil
		}
		if !keyMsg.Paste && len(keyMsg.Runes) == 1 && keyMsg.Runes[0] == m.trigger && m.atWordStart() {
			m.triggerPos = m.doc.cursor
			m.doc.insertText(string(m.trigger))
			m.logger.Debug("mention popover opened", "offset", m.triggerPos)
			return m, tea.Batch(m.popover.Open(), m.changed())
		}
		m.doc.insertText(string(keyMsg.Runes))
		return m, m.changed()
	}

	return m, nil
}

// atWordStart reports whether the cursor sits at the start of the input or
// right after whitespace
func (m *MentionInput) atWordStart() bool {
	r, ok := m.doc.runeBefore()
	return !ok || unicode.IsSpace(r)
}

// applySelection swaps the trigger character for the selected token
func (m *MentionInput) applySelection(c mention.Candidate) tea.Cmd {
	at := m.triggerPos
	m.triggerPos = -1
	if at >= 0 && at < len(m.doc.runes) && m.doc.runes[at] == m.trigger {
		m.doc.deleteRange(at, at+1)
	}
	if err := m.InsertCandidate(c); err != nil {
		return reportError(err)
	}
	m.logger.Debug("mention inserted", "label", c.Label)
	return m.changed()
}

func (m *MentionInput) closePopover() {
	if m.popover.IsOpen() {
		m.popover.Close()
	}
	m.triggerPos = -1
}

// changed reports the current text and decoded mentions to the host
func (m *MentionInput) changed() tea.Cmd {
	text := m.doc.text()
	mentions, err := m.Mentions()
	if err != nil {
		return reportError(err)
	}
	return func() tea.Msg {
		return ChangeMsg{Text: text, Mentions: mentions}
	}
}

func (m *MentionInput) submit() tea.Cmd {
	text := m.doc.text()
	if strings.TrimSpace(text) == "" {
		return nil
	}
	mentions, err := m.Mentions()
	if err != nil {
		return reportError(err)
	}
	candidates := m.doc.candidates()
	return func() tea.Msg {
		return SubmitMsg{Text: text, Mentions: mentions, Candidates: candidates}
	}
}

// View renders the input box followed by the tooltip of the chip next to
// the cursor, if any
func (m *MentionInput) View() string {
	box := m.styles.InputField
	if m.focused {
		box = m.styles.InputFocused
	}
	box = box.Width(max(m.width-2, 10))

	var body string
	if m.doc.empty() && !m.popover.IsOpen() {
		body = m.renderCursor(" ") + m.styles.InputPlaceholder.Render(m.placeholder)
	} else {
		body = m.renderDocument()
	}

	out := box.Render(body)
	if t, ok := m.doc.tokenNearCursor(); ok && m.focused {
		out = lipgloss.JoinVertical(lipgloss.Left, out, m.styles.Tooltip.Render(mention.Tooltip(t.mention)))
	}
	return out
}

// PopoverView renders the popover with its key help, or nothing while
// it is closed
func (m *MentionInput) PopoverView() string {
	if !m.popover.IsOpen() {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.popover.View(),
		m.help.ShortHelpView(m.keyMap.PopoverHelp()),
	)
}

func (m *MentionInput) renderDocument() string {
	var b strings.Builder
	d := &m.doc
	ti := 0

	for pos := 0; pos < len(d.runes); {
		if ti < len(d.tokens) && d.tokens[ti].start == pos {
			t := d.tokens[ti]
			if m.focused && d.cursor == pos {
				b.WriteString(m.renderCursor("▏"))
			}
			b.WriteString(RenderChip(m.styles, t.mention))
			pos = t.end
			ti++
			continue
		}

		r := d.runes[pos]
		if m.focused && d.cursor == pos {
			if r == '\n' {
				b.WriteString(m.renderCursor(" "))
				b.WriteString("\n")
			} else {
				b.WriteString(m.renderCursor(string(r)))
			}
		} else {
			b.WriteRune(r)
		}
		pos++
	}

	if m.focused && d.cursor == len(d.runes) {
		b.WriteString(m.renderCursor(" "))
	}
	return b.String()
}

func (m *MentionInput) renderCursor(s string) string {
	if !m.focused {
		return s
	}
	return m.styles.Cursor.Render(s)
}

// --- Messages emitted by the input ---

// ChangeMsg is sent after every document change
type ChangeMsg struct {
	Text     string
	Mentions []mention.Mention
}

// SubmitMsg is sent when enter is pressed with the popover closed
type SubmitMsg struct {
	Text       string
	Mentions   []mention.Mention
	Candidates []mention.Candidate
}

// reportError wraps err in an ErrorMsg. Mention encode and decode failures
// are fatal.
func reportError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Error: err.Error(), Fatal: true, Cause: err}
	}
}
