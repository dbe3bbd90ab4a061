// Package catalog keeps a SQLite index of snapshot entries across all
// sessions so past state can be searched without walking the store.
//
// The index is derived data: it can be rebuilt from the store at any time,
// and entries are keyed by their position in an append-only record, which
// makes re-indexing a session idempotent.
package catalog

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mci-memory/mci/internal/store"
	"github.com/mci-memory/mci/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// Catalog handles SQLite operations for the snapshot index
type Catalog struct {
	db *sql.DB
}

// Open opens or creates the catalog at dbPath
func Open(dbPath string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=2000")
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Catalog{db: db}, nil
}

// Close closes the database connection
func (c *Catalog) Close() error {
	return c.db.Close()
}

// IndexSession adds the session's record entries not yet indexed and
// returns how many were added
func (c *Catalog) IndexSession(sess *store.Session, now time.Time) (int, error) {
	rec, err := sess.Record().Load()
	if err != nil && rec.Len() == 0 {
		// Unparseable records have nothing to index
		return 0, nil
	}

	tx, err := c.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO entries (date, ordinal, seq, label, stamp, memory, context, intent, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	added := 0
	indexedAt := now.Format(time.RFC3339)
	for i, e := range rec.Entries {
		res, err := stmt.Exec(sess.Date, sess.Ordinal, i, e.Label, e.Stamp, e.Memory, e.Context, e.Intent, indexedAt)
		if err != nil {
			return 0, fmt.Errorf("insert entry %d of %s: %w", i, sess, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return added, nil
}

// Rebuild clears the index and indexes every session in the store
func (c *Catalog) Rebuild(st *store.Store, now time.Time) (int, error) {
	if _, err := c.db.Exec(`DELETE FROM entries`); err != nil {
		return 0, fmt.Errorf("clear catalog: %w", err)
	}

	days, err := st.Days()
	if err != nil {
		return 0, err
	}

	total := 0
	for _, day := range days {
		sessions, err := st.Sessions(day)
		if err != nil {
			slog.Warn("skipping day", "date", day, "error", err)
			continue
		}
		for _, sess := range sessions {
			n, err := c.IndexSession(sess, now)
			if err != nil {
				return total, err
			}
			total += n
		}
	}
	return total, nil
}

// Count returns the number of indexed entries
func (c *Catalog) Count() (int, error) {
	var n int
	err := c.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n)
	return n, err
}

// Search returns entries matching every whitespace-separated term, newest
// first. Matching is case-insensitive over label and the three fields.
func (c *Catalog) Search(query string, limit int) (*types.SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	sqlQuery := `
		SELECT id, date, ordinal, label, stamp, memory, context, intent, indexed_at
		FROM entries
		WHERE 1=1
	`
	var args []interface{}
	for _, term := range strings.Fields(query) {
		sqlQuery += " AND (label || ' ' || memory || ' ' || context || ' ' || intent) LIKE ? ESCAPE '\\'"
		args = append(args, "%"+escapeLike(term)+"%")
	}
	sqlQuery += " ORDER BY date DESC, ordinal DESC, seq DESC LIMIT ?"
	args = append(args, limit)

	rows, err := c.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer rows.Close()

	result := &types.SearchResult{Query: query}
	for rows.Next() {
		var e types.IndexedEntry
		var ordinal int
		var indexedAt string

		if err := rows.Scan(&e.ID, &e.Date, &ordinal, &e.Label, &e.Stamp, &e.Memory, &e.Context, &e.Intent, &indexedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		e.Session = fmt.Sprintf("session-%d", ordinal)
		if t, err := time.Parse(time.RFC3339, indexedAt); err != nil {
			slog.Warn("failed to parse indexed_at", "id", e.ID, "error", err)
		} else {
			e.IndexedAt = t
		}
		result.Results = append(result.Results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search rows: %w", err)
	}

	result.Count = len(result.Results)
	return result, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
