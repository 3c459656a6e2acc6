// Package history persists the log of completed download jobs.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNotFound is returned when a history record does not exist.
var ErrNotFound = errors.New("history record not found")

// Record is one completed download.
type Record struct {
	ID        int64
	URL       string
	Format    string
	Quality   string
	Timestamp time.Time // UTC
}

// Filter specifies criteria for listing history.
type Filter struct {
	Format *string
	Limit  int
}

// Store persists history records. Records are append-only.
type Store struct {
	db *sql.DB

	// mu serializes appends so ids and timestamps increase together.
	mu sync.Mutex
	// last is the most recent timestamp handed out.
	last time.Time
}

// NewStore creates a history store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Add inserts a new history record, assigning its ID and Timestamp.
func (s *Store) Add(r *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if now.Before(s.last) {
		now = s.last
	}

	result, err := s.db.Exec(`
		INSERT INTO download_history (url, file_format, quality, timestamp)
		VALUES (?, ?, ?, ?)`,
		r.URL, r.Format, r.Quality, now,
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	s.last = now
	r.ID = id
	r.Timestamp = now
	return nil
}

// Get retrieves a history record by ID.
// Returns ErrNotFound if the record does not exist.
func (s *Store) Get(id int64) (*Record, error) {
	r := &Record{}
	var quality sql.NullString
	err := s.db.QueryRow(`
		SELECT id, url, file_format, quality, timestamp
		FROM download_history WHERE id = ?`, id,
	).Scan(&r.ID, &r.URL, &r.Format, &quality, &r.Timestamp)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get history %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get history %d: %w", id, err)
	}
	r.Quality = quality.String
	r.Timestamp = r.Timestamp.UTC()
	return r, nil
}

// List returns history records matching the filter, most recent first.
func (s *Store) List(f Filter) ([]*Record, error) {
	query := `SELECT id, url, file_format, quality, timestamp FROM download_history`
	var args []any

	if f.Format != nil {
		query += ` WHERE file_format = ?`
		args = append(args, *f.Format)
	}

	query += ` ORDER BY timestamp DESC, id DESC`

	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Record
	for rows.Next() {
		r := &Record{}
		var quality sql.NullString
		if err := rows.Scan(&r.ID, &r.URL, &r.Format, &quality, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		r.Quality = quality.String
		r.Timestamp = r.Timestamp.UTC()
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return results, nil
}
