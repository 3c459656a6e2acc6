package v1

import (
	"context"
	"errors"

	"github.com/vmunix/justpaste/internal/download"
	"github.com/vmunix/justpaste/internal/history"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks . Downloader,HistoryLister

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// Downloader runs a download job to completion.
// The caller owns the returned Result and must Close it.
type Downloader interface {
	Run(ctx context.Context, req download.JobRequest) (*download.Result, error)
}

// HistoryLister reads the download history.
type HistoryLister interface {
	List(f history.Filter) ([]*history.Record, error)
	Get(id int64) (*history.Record, error)
}

// ServerDeps contains all dependencies for the API server.
type ServerDeps struct {
	Downloader Downloader
	History    HistoryLister
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Downloader == nil {
		return errors.New("downloader is required")
	}
	if d.History == nil {
		return errors.New("history lister is required")
	}
	return nil
}
