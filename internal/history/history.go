// Package history records visited pages in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS visits (
    id          TEXT PRIMARY KEY,
    url         TEXT NOT NULL,
    title       TEXT NOT NULL DEFAULT '',
    media_count INTEGER NOT NULL DEFAULT 0,
    visited_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_visits_visited_at ON visits (visited_at);
`

// timeLayout has fixed-width fractional seconds so stored values sort
// lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Visit is one committed page load.
type Visit struct {
	ID         string
	URL        string
	Title      string
	MediaCount int // Media URLs found on the page
	VisitedAt  time.Time
}

// Store manages visit persistence backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts v, assigning an ID and timestamp when they are unset.
func (s *Store) Record(ctx context.Context, v Visit) (Visit, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.VisitedAt.IsZero() {
		v.VisitedAt = time.Now()
	}
	v.VisitedAt = v.VisitedAt.UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO visits (id, url, title, media_count, visited_at) VALUES (?, ?, ?, ?, ?)`,
		v.ID, v.URL, v.Title, v.MediaCount, v.VisitedAt.Format(timeLayout),
	)
	if err != nil {
		return Visit{}, fmt.Errorf("insert visit: %w", err)
	}
	return v, nil
}

// Recent returns up to limit visits, newest first. A limit <= 0 returns all.
func (s *Store) Recent(ctx context.Context, limit int) ([]Visit, error) {
	query := `SELECT id, url, title, media_count, visited_at FROM visits ORDER BY visited_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query visits: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		var visitedAt string
		if err := rows.Scan(&v.ID, &v.URL, &v.Title, &v.MediaCount, &visitedAt); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		v.VisitedAt, err = time.Parse(timeLayout, visitedAt)
		if err != nil {
			return nil, fmt.Errorf("parse visit time %q: %w", visitedAt, err)
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading visits: %w", err)
	}
	return visits, nil
}

// Clear deletes all visits.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM visits`); err != nil {
		return fmt.Errorf("clear visits: %w", err)
	}
	return nil
}

// FormatForDisplay creates one display line per visit.
func FormatForDisplay(visits []Visit) []string {
	items := make([]string, 0, len(visits))
	for _, v := range visits {
		title := v.Title
		if title == "" || title == v.URL {
			title = v.URL
		} else {
			title = fmt.Sprintf("%s <%s>", title, v.URL)
		}
		items = append(items, fmt.Sprintf("%s  %s [%d media]",
			v.VisitedAt.Local().Format("2006-01-02 15:04"), title, v.MediaCount))
	}
	return items
}
