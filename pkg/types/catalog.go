package types

import "time"

// IndexedEntry is a snapshot entry as stored in the search catalog
type IndexedEntry struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"`
	Session   string    `json:"session"`
	Label     string    `json:"label"`
	Stamp     string    `json:"stamp"`
	Memory    string    `json:"memory"`
	Context   string    `json:"context"`
	Intent    string    `json:"intent"`
	IndexedAt time.Time `json:"indexed_at"`
}

// SearchResult represents the result of a catalog search
type SearchResult struct {
	Results []IndexedEntry `json:"results"`
	Count   int            `json:"count"`
	Query   string         `json:"query"`
}
