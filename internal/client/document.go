package client

import (
	"github.com/concord-chat/chatinput/internal/mention"
)

// token is a mention embedded in the document. It covers the runes of its
// label and is edited as a unit.
type token struct {
	start, end int // rune offsets, end exclusive
	candidate  mention.Candidate
	mention    mention.Mention
}

// document is the editor buffer: plain runes plus non-overlapping tokens
// kept sorted by start. The cursor never rests strictly inside a token.
type document struct {
	runes  []rune
	tokens []token
	cursor int
}

func (d *document) text() string {
	return string(d.runes)
}

func (d *document) empty() bool {
	return len(d.runes) == 0
}

// candidates returns the embedded tokens in document order
func (d *document) candidates() []mention.Candidate {
	out := make([]mention.Candidate, 0, len(d.tokens))
	for _, t := range d.tokens {
		out = append(out, t.candidate)
	}
	return out
}

func (d *document) reset() {
	d.runes = nil
	d.tokens = nil
	d.cursor = 0
}

// setText replaces the whole document with plain text and moves the
// cursor to the end
func (d *document) setText(s string) {
	d.runes = []rune(s)
	d.tokens = nil
	d.cursor = len(d.runes)
}

// insertText inserts plain text at the cursor
func (d *document) insertText(s string) {
	r := []rune(s)
	if len(r) == 0 {
		return
	}
	d.insertRunes(d.cursor, r)
	d.cursor += len(r)
}

// insertToken inserts a token at the cursor
func (d *document) insertToken(c mention.Candidate, m mention.Mention) {
	label := []rune(c.Label)
	at := d.cursor
	d.insertRunes(at, label)

	t := token{start: at, end: at + len(label), candidate: c, mention: m}
	i := 0
	for i < len(d.tokens) && d.tokens[i].start < at {
		i++
	}
	d.tokens = append(d.tokens, token{})
	copy(d.tokens[i+1:], d.tokens[i:])
	d.tokens[i] = t

	d.cursor = t.end
}

// insertRunes splices r in at offset and shifts every token at or after it
func (d *document) insertRunes(at int, r []rune) {
	d.runes = append(d.runes[:at], append(r, d.runes[at:]...)...)
	for i := range d.tokens {
		if d.tokens[i].start >= at {
			d.tokens[i].start += len(r)
			d.tokens[i].end += len(r)
		}
	}
}

// deleteRange removes runes [from, to), dropping any token it touches
// entirely. The range is widened to cover such tokens.
func (d *document) deleteRange(from, to int) {
	if from < 0 {
		from = 0
	}
	if to > len(d.runes) {
		to = len(d.runes)
	}
	if from >= to {
		return
	}
	for _, t := range d.tokens {
		if t.start < to && t.end > from {
			from = min(from, t.start)
			to = max(to, t.end)
		}
	}

	n := to - from
	d.runes = append(d.runes[:from], d.runes[to:]...)

	kept := d.tokens[:0]
	for _, t := range d.tokens {
		switch {
		case t.end <= from:
			kept = append(kept, t)
		case t.start >= to:
			t.start -= n
			t.end -= n
			kept = append(kept, t)
		}
	}
	d.tokens = kept

	switch {
	case d.cursor >= to:
		d.cursor -= n
	case d.cursor > from:
		d.cursor = from
	}
}

// backspace deletes the rune or token before the cursor
func (d *document) backspace() bool {
	if d.cursor == 0 {
		return false
	}
	d.deleteRange(d.cursor-1, d.cursor)
	return true
}

// deleteForward deletes the rune or token after the cursor
func (d *document) deleteForward() bool {
	if d.cursor >= len(d.runes) {
		return false
	}
	d.deleteRange(d.cursor, d.cursor+1)
	return true
}

func (d *document) moveLeft() {
	if d.cursor == 0 {
		return
	}
	if t, ok := d.tokenEndingAt(d.cursor); ok {
		d.cursor = t.start
		return
	}
	d.cursor--
}

func (d *document) moveRight() {
	if d.cursor >= len(d.runes) {
		return
	}
	if t, ok := d.tokenStartingAt(d.cursor); ok {
		d.cursor = t.end
		return
	}
	d.cursor++
}

// moveHome moves to the start of the current line
func (d *document) moveHome() {
	for d.cursor > 0 && d.runes[d.cursor-1] != '\n' {
		d.moveLeft()
	}
}

// moveEnd moves to the end of the current line
func (d *document) moveEnd() {
	for d.cursor < len(d.runes) && d.runes[d.cursor] != '\n' {
		d.moveRight()
	}
}

// runeBefore returns the rune left of the cursor
func (d *document) runeBefore() (rune, bool) {
	if d.cursor == 0 {
		return 0, false
	}
	return d.runes[d.cursor-1], true
}

func (d *document) tokenEndingAt(pos int) (token, bool) {
	for _, t := range d.tokens {
		if t.end == pos {
			return t, true
		}
	}
	return token{}, false
}

func (d *document) tokenStartingAt(pos int) (token, bool) {
	for _, t := range d.tokens {
		if t.start == pos {
			return t, true
		}
	}
	return token{}, false
}

// tokenNearCursor returns the token touching the cursor, preferring the
// one to its left
func (d *document) tokenNearCursor() (token, bool) {
	if t, ok := d.tokenEndingAt(d.cursor); ok {
		return t, true
	}
	return d.tokenStartingAt(d.cursor)
}
