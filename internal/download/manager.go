package download

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vmunix/justpaste/internal/history"
)

// Config holds the immutable settings a Manager runs every job with.
type Config struct {
	ScratchDir  string // parent of per-job workspaces; empty uses the OS temp dir
	MaxAttempts int    // orchestration-level retry ceiling
	Strategy    StrategyOptions
}

// Manager orchestrates download jobs. Each Run is strictly sequential;
// concurrent Runs share nothing but the history recorder.
type Manager struct {
	invoker *Invoker
	history HistoryRecorder
	cfg     Config
	log     *slog.Logger
	newID   func() string
}

// NewManager creates a new download manager. history may be nil.
func NewManager(engine Engine, history HistoryRecorder, cfg Config, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	return &Manager{
		invoker: NewInvoker(engine, cfg.MaxAttempts, log),
		history: history,
		cfg:     cfg,
		log:     log,
		newID:   uuid.NewString,
	}
}

// job tracks one Run through the state machine.
type job struct {
	id     string
	status Status
	log    *slog.Logger
}

func (j *job) transition(to Status) {
	if !j.status.CanTransitionTo(to) {
		j.log.Error("invalid job transition", "from", j.status, "to", to)
	}
	j.log.Debug("job state changed", "from", j.status, "to", to)
	j.status = to
}

// fail moves the job to failed and logs err with the state it failed in.
// A job already in a terminal state keeps it.
func (j *job) fail(err error) error {
	j.log.Error("download failed", "state", j.status, "error", err)
	if !j.status.IsTerminal() {
		j.transition(StatusFailed)
	}
	return err
}

// Run executes a job end to end. On success the returned Result owns the
// workspace and the caller must Close it; on failure the workspace is
// already gone.
func (m *Manager) Run(ctx context.Context, req JobRequest) (*Result, error) {
	j := &job{
		id:     m.newID(),
		status: StatusCreated,
	}
	j.log = m.log.With("job_id", j.id, "url", req.URL, "format", req.Format)

	if req.URL == "" || req.Format == "" {
		return nil, j.fail(fmt.Errorf("%w: url and format are required", ErrInvalidRequest))
	}
	quality := req.Quality
	if quality == "" {
		quality = DefaultQuality
	}

	// Rejected here, before any filesystem work.
	format, err := ParseFormat(req.Format)
	if err != nil {
		return nil, j.fail(err)
	}

	ws, err := NewWorkspace(m.cfg.ScratchDir, j.id, j.log)
	if err != nil {
		return nil, j.fail(err)
	}
	j.transition(StatusWorkspaceAcquired)

	handedOff := false
	defer func() {
		if !handedOff {
			ws.Release()
		}
	}()

	cfg, err := SelectConfig(format, ws.OutputTemplate(), m.cfg.Strategy)
	if err != nil {
		return nil, j.fail(err)
	}
	j.transition(StatusConfigSelected)

	j.transition(StatusExtracting)
	j.log.Info("extraction started",
		"quality", quality,
		"selector", cfg.FormatSelector,
		"max_attempts", m.invoker.MaxAttempts(),
	)
	if err := m.invoker.Invoke(ctx, req.URL, cfg); err != nil {
		return nil, j.fail(err)
	}

	j.transition(StatusResolving)
	path, err := Resolve(ws.Dir, OutputBase, format.Ext())
	if err != nil {
		return nil, j.fail(err)
	}
	j.transition(StatusCompleted)

	m.record(j, req.URL, format, quality)

	j.log.Info("download completed", "path", path)
	handedOff = true
	return &Result{
		JobID:     j.id,
		Path:      path,
		Format:    format,
		Quality:   quality,
		workspace: ws,
	}, nil
}

// record appends the job to history. Failures do not affect the job.
func (m *Manager) record(j *job, url string, format Format, quality string) {
	if m.history == nil {
		return
	}
	rec := &history.Record{
		URL:     url,
		Format:  string(format),
		Quality: quality,
	}
	if err := m.history.Add(rec); err != nil {
		j.log.Error("history record failed", "error", err)
		return
	}
	j.log.Debug("history recorded", "history_id", rec.ID)
}
