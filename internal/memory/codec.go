package memory

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformed is returned when content is present but yields no entries
var ErrMalformed = errors.New("malformed log")

// RecordCodec converts snapshot entries to and from their stored form
type RecordCodec interface {
	EncodeEntry(e Entry) []byte
	DecodeRecord(data []byte) (*Record, error)
}

// NotesCodec converts category notes to and from their stored form
type NotesCodec interface {
	EncodeHeader(c Category, ordinal int) []byte
	EncodeNote(n Note) []byte
	DecodeNotes(data []byte) ([]Note, error)
}

// TextCodec is the plain-text format shared by both logs
type TextCodec struct{}

const (
	fieldMemory  = "Memory:"
	fieldContext = "Context:"
	fieldIntent  = "Intent:"

	continuationIndent = "  "
)

var (
	delimiterRe = regexp.MustCompile(`^---\s+(.*?)(?:\s+@\s+(\S+))?\s+---\s*$`)
	noteRe      = regexp.MustCompile(`^(\d{1,2}:\d{2}(?::\d{2})?) - (.*)$`)
)

// EncodeEntry renders an entry preceded by a blank line and its delimiter
func (TextCodec) EncodeEntry(e Entry) []byte {
	var b bytes.Buffer
	label := strings.TrimSpace(e.Label)
	if label == "" {
		label = "[SNAPSHOT]"
	}
	b.WriteString("\n--- ")
	b.WriteString(singleLine(label))
	if e.Stamp != "" {
		b.WriteString(" @ ")
		b.WriteString(e.Stamp)
	}
	b.WriteString(" ---\n")
	writeField(&b, fieldMemory, e.Memory)
	writeField(&b, fieldContext, e.Context)
	writeField(&b, fieldIntent, e.Intent)
	return b.Bytes()
}

func writeField(b *bytes.Buffer, prefix, value string) {
	lines := strings.Split(strings.TrimSpace(value), "\n")
	b.WriteString(prefix)
	b.WriteString(" ")
	b.WriteString(strings.TrimRight(lines[0], " \t\r"))
	b.WriteString("\n")
	for _, line := range lines[1:] {
		b.WriteString(continuationIndent)
		b.WriteString(strings.TrimRight(line, " \t\r"))
		b.WriteString("\n")
	}
}

// DecodeRecord parses a record. Lines that belong to no entry are skipped.
func (TextCodec) DecodeRecord(data []byte) (*Record, error) {
	rec := &Record{}
	var cur *Entry
	var field *string

	flush := func() {
		if cur != nil && (cur.Memory != "" || cur.Context != "" || cur.Intent != "") {
			cur.Memory = strings.TrimSpace(cur.Memory)
			cur.Context = strings.TrimSpace(cur.Context)
			cur.Intent = strings.TrimSpace(cur.Intent)
			rec.Append(*cur)
		}
		cur = nil
		field = nil
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")

		if m := delimiterRe.FindStringSubmatch(line); m != nil {
			flush()
			cur = &Entry{Label: m[1], Stamp: m[2]}
			continue
		}

		if prefix, value, ok := cutField(line); ok {
			if cur == nil {
				cur = &Entry{}
			}
			target := fieldTarget(cur, prefix)
			if *target != "" {
				// A repeated field starts an unlabeled entry
				flush()
				cur = &Entry{}
				target = fieldTarget(cur, prefix)
			}
			*target = value
			field = target
			continue
		}

		if field == nil {
			continue
		}
		if line == "" {
			field = nil
			continue
		}
		*field += "\n" + strings.TrimPrefix(line, continuationIndent)
	}
	flush()

	if err := sc.Err(); err != nil {
		return rec, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(rec.Entries) == 0 && len(bytes.TrimSpace(data)) > 0 {
		return rec, ErrMalformed
	}
	return rec, nil
}

func cutField(line string) (string, string, bool) {
	for _, prefix := range []string{fieldMemory, fieldContext, fieldIntent} {
		if rest, ok := strings.CutPrefix(line, prefix); ok {
			return prefix, strings.TrimSpace(rest), true
		}
	}
	return "", "", false
}

func fieldTarget(e *Entry, prefix string) *string {
	switch prefix {
	case fieldMemory:
		return &e.Memory
	case fieldContext:
		return &e.Context
	default:
		return &e.Intent
	}
}

// EncodeHeader renders the first line of a category log
func (TextCodec) EncodeHeader(c Category, ordinal int) []byte {
	return []byte(fmt.Sprintf("# %s - Session %d\n", c.Title(), ordinal))
}

// EncodeNote renders one note as a heading line
func (TextCodec) EncodeNote(n Note) []byte {
	text := singleLine(n.Text)
	if n.Stamp == "" {
		return []byte(fmt.Sprintf("\n## %s\n", text))
	}
	return []byte(fmt.Sprintf("\n## %s - %s\n", n.Stamp, text))
}

// DecodeNotes returns every heading-level entry in order
func (TextCodec) DecodeNotes(data []byte) ([]Note, error) {
	var notes []Note
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		rest, ok := strings.CutPrefix(strings.TrimRight(sc.Text(), "\r"), "## ")
		if !ok {
			continue
		}
		if m := noteRe.FindStringSubmatch(rest); m != nil {
			notes = append(notes, Note{Stamp: m[1], Text: m[2]})
			continue
		}
		notes = append(notes, Note{Text: rest})
	}
	if err := sc.Err(); err != nil {
		return notes, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return notes, nil
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
