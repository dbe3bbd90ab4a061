package transcript

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Window is the bounded tail of a transcript file
type Window struct {
	Path  string
	Size  int64 // file size at read time
	Lines [][]byte
	Ends  []int64 // absolute offset just past each line's newline
}

// Tail reads up to maxLines complete lines from the last maxBytes of path.
// maxLines <= 0 keeps every line in the byte window; maxBytes <= 0 reads the
// whole file.
func Tail(path string, maxLines int, maxBytes int64) (*Window, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat transcript: %w", err)
	}
	size := info.Size()

	start := int64(0)
	if maxBytes > 0 && size > maxBytes {
		start = size - maxBytes
	}
	if _, err := f.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek transcript: %w", err)
	}

	data, err := io.ReadAll(io.LimitReader(f, size-start))
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	w := &Window{Path: path, Size: size}
	offset := start
	if start > 0 {
		// Drop the partial first line
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			return w, nil
		}
		data = data[i+1:]
		offset += int64(i + 1)
	}

	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		var line []byte
		if i < 0 {
			line = data
			data = nil
			offset += int64(len(line))
		} else {
			line = data[:i]
			data = data[i+1:]
			offset += int64(i + 1)
		}
		line = bytes.TrimRight(line, "\r")
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		w.Lines = append(w.Lines, line)
		w.Ends = append(w.Ends, offset)
	}

	if maxLines > 0 && len(w.Lines) > maxLines {
		cut := len(w.Lines) - maxLines
		w.Lines = w.Lines[cut:]
		w.Ends = w.Ends[cut:]
	}
	return w, nil
}

// Records parses every line of the window, skipping malformed ones
func (w *Window) Records() []Record {
	if w == nil {
		return nil
	}
	records := make([]Record, 0, len(w.Lines))
	for i, line := range w.Lines {
		rec, ok := ParseLine(line)
		if !ok {
			continue
		}
		rec.End = w.Ends[i]
		records = append(records, rec)
	}
	return records
}
