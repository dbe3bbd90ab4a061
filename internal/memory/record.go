package memory

import "strings"

// Entry is one snapshot in the record
type Entry struct {
	Label   string
	Stamp   string
	Source  string // producing source; not persisted
	Memory  string // what happened
	Context string // why it matters
	Intent  string // what comes next
}

// Complete reports whether all three fields carry content
func (e Entry) Complete() bool {
	return strings.TrimSpace(e.Memory) != "" &&
		strings.TrimSpace(e.Context) != "" &&
		strings.TrimSpace(e.Intent) != ""
}

// Record is the ordered snapshot log of a session
type Record struct {
	Entries []Entry
}

// Len returns the number of parsed entries, complete or not
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Entries)
}

// Valid reports whether at least one entry is complete
func (r *Record) Valid() bool {
	_, ok := r.Current()
	return ok
}

// Current returns the last complete entry
func (r *Record) Current() (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	for i := len(r.Entries) - 1; i >= 0; i-- {
		if r.Entries[i].Complete() {
			return r.Entries[i], true
		}
	}
	return Entry{}, false
}

// Append adds an entry to the end of the log
func (r *Record) Append(e Entry) {
	r.Entries = append(r.Entries, e)
}
