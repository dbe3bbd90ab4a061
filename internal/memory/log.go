package memory

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// RecordLog is a snapshot record stored at Path
type RecordLog struct {
	Path  string
	Codec RecordCodec
}

// NewRecordLog returns a record log using the text codec
func NewRecordLog(path string) *RecordLog {
	return &RecordLog{Path: path, Codec: TextCodec{}}
}

// Load reads and decodes the record. A missing file is an empty record;
// undecodable content is returned as an empty record with ErrMalformed.
func (l *RecordLog) Load() (*Record, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Record{}, nil
		}
		return &Record{}, fmt.Errorf("read record: %w", err)
	}
	return l.Codec.DecodeRecord(data)
}

// HasContent reports whether the record file holds any non-whitespace bytes
func (l *RecordLog) HasContent() bool {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return false
	}
	for _, c := range data {
		if c != ' ' && c != '\n' && c != '\r' && c != '\t' {
			return true
		}
	}
	return false
}

// Raw returns the stored bytes as-is
func (l *RecordLog) Raw() ([]byte, error) {
	return os.ReadFile(l.Path)
}

// Append writes one entry to the end of the record
func (l *RecordLog) Append(e Entry) error {
	return appendFile(l.Path, l.Codec.EncodeEntry(e))
}

// NoteLog is one category's note log stored at Path
type NoteLog struct {
	Path     string
	Category Category
	Codec    NotesCodec
}

// NewNoteLog returns a note log using the text codec
func NewNoteLog(path string, c Category) *NoteLog {
	return &NoteLog{Path: path, Category: c, Codec: TextCodec{}}
}

// Load returns every note in the log, oldest first
func (l *NoteLog) Load() ([]Note, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s notes: %w", l.Category, err)
	}
	return l.Codec.DecodeNotes(data)
}

// Recent returns the last n notes; unreadable logs yield none
func (l *NoteLog) Recent(n int) []Note {
	notes, _ := l.Load()
	return Recent(notes, n)
}

// Init writes the category header if the log does not exist yet
func (l *NoteLog) Init(ordinal int) error {
	if _, err := os.Stat(l.Path); err == nil {
		return nil
	}
	return writeNew(l.Path, l.Codec.EncodeHeader(l.Category, ordinal))
}

// Append adds notes in order
func (l *NoteLog) Append(notes ...Note) error {
	if len(notes) == 0 {
		return nil
	}
	var buf []byte
	for _, n := range notes {
		buf = append(buf, l.Codec.EncodeNote(n)...)
	}
	return appendFile(l.Path, buf)
}

func appendFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("append %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// writeNew creates path with data, leaving an existing file untouched
func writeNew(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
