package download

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// WorkspacePrefix starts the name of every scratch directory this service creates.
const WorkspacePrefix = "justpaste-"

// OutputBase is the base file name handed to the engine's output template.
const OutputBase = "dl"

// live holds the directories of workspaces not yet released in this process.
// SweepStale never removes them, however old their mtime.
var live sync.Map

// Workspace is a per-job scratch directory. Release removes it exactly once.
type Workspace struct {
	Dir string

	once sync.Once
	log  *slog.Logger
}

// NewWorkspace creates an exclusively owned directory under root.
// An empty root uses the OS temp directory.
func NewWorkspace(root, jobID string, log *slog.Logger) (*Workspace, error) {
	if log == nil {
		log = slog.Default()
	}
	if root == "" {
		root = os.TempDir()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, &WorkspaceError{Op: "create", Dir: root, Err: err}
	}
	dir, err := os.MkdirTemp(root, WorkspacePrefix+jobID+"-*")
	if err != nil {
		return nil, &WorkspaceError{Op: "create", Dir: root, Err: err}
	}
	live.Store(dir, struct{}{})
	return &Workspace{Dir: dir, log: log}, nil
}

// OutputTemplate returns the engine output template rooted in the workspace.
// %(ext)s is filled in by the engine.
func (w *Workspace) OutputTemplate() string {
	return filepath.Join(w.Dir, OutputBase+".%(ext)s")
}

// Release removes the workspace and everything in it. Failures are logged,
// never returned. Safe to call more than once.
func (w *Workspace) Release() {
	w.once.Do(func() {
		defer live.Delete(w.Dir)
		if err := os.RemoveAll(w.Dir); err != nil {
			w.log.Error("workspace cleanup failed", "dir", w.Dir, "error", err)
			return
		}
		w.log.Debug("workspace released", "dir", w.Dir)
	})
}

// SweepStale removes workspaces under root older than maxAge. Workspaces
// still held by a job in this process are skipped. It returns how many directories were removed.
func SweepStale(root string, maxAge time.Duration, log *slog.Logger) (int, error) {
	if log == nil {
		log = slog.Default()
	}
	if root == "" {
		root = os.TempDir()
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read scratch root: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), WorkspacePrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if _, held := live.Load(dir); held {
			log.Debug("skipping live workspace", "dir", dir)
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			log.Warn("stale workspace removal failed", "dir", dir, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}
