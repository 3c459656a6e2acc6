// Package download runs media retrieval jobs: it picks an extraction strategy
// for the requested format, drives the extraction engine with bounded retry,
// finds the produced file in a per-job scratch workspace, and records
// successful jobs in the history log.
package download

import (
	"github.com/vmunix/justpaste/internal/history"
)

// DefaultQuality is used when a request carries no quality.
const DefaultQuality = "best"

// JobRequest is a single retrieve-and-download request.
type JobRequest struct {
	URL     string
	Format  string
	Quality string // accepted and recorded; the selector always asks for the best stream
}

// HistoryRecorder appends completed jobs to the history log.
type HistoryRecorder interface {
	Add(r *history.Record) error
}

// Result is a completed job. The file at Path belongs to the caller until
// Close is called, which removes it together with its workspace.
type Result struct {
	JobID   string
	Path    string
	Format  Format
	Quality string

	workspace *Workspace
}

// Close releases the job's workspace. It is safe to call more than once.
func (r *Result) Close() error {
	if r.workspace != nil {
		r.workspace.Release()
	}
	return nil
}

// DownloadName is the file name offered to the client, e.g. JustPaste.mp4.
func (r *Result) DownloadName() string {
	return "JustPaste." + r.Format.Ext()
}
