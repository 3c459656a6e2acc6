// internal/download/testutil_test.go
package download

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/justpaste/internal/history"
	"github.com/vmunix/justpaste/internal/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err, "open db")
	// Every pooled connection to :memory: would get its own database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err, "apply schema")
	return db
}

func setupHistory(t *testing.T) *history.Store {
	t.Helper()
	return history.NewStore(setupTestDB(t))
}

// testLogger returns a logger writing to buf at debug level.
func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// countWarnings counts WARN level lines in a text-handler log.
func countWarnings(buf *bytes.Buffer) int {
	return strings.Count(buf.String(), "level=WARN")
}

// stubEngine is an Engine that writes files into the output template's
// directory and can be told to fail for the first N calls.
type stubEngine struct {
	mu       sync.Mutex
	failures []error    // returned in order, one per call, before writes happen
	files    [][]string // files to write on each call; the last entry repeats
	calls    int
	urls     []string
	configs  []*ExtractionConfig
	dirs     []string
}

func (s *stubEngine) Extract(_ context.Context, url string, cfg *ExtractionConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	call := s.calls
	s.calls++
	s.urls = append(s.urls, url)
	s.configs = append(s.configs, cfg)
	dir := filepath.Dir(cfg.OutputTemplate)
	s.dirs = append(s.dirs, dir)

	if call < len(s.failures) && s.failures[call] != nil {
		return s.failures[call]
	}

	if len(s.files) == 0 {
		return nil
	}
	idx := call
	if idx >= len(s.files) {
		idx = len(s.files) - 1
	}
	for _, name := range s.files[idx] {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (s *stubEngine) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// failingRecorder is a HistoryRecorder that always fails.
type failingRecorder struct {
	err   error
	calls int
}

func (f *failingRecorder) Add(_ *history.Record) error {
	f.calls++
	return f.err
}

// listDir returns the names in dir, or nil if it cannot be read.
func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
