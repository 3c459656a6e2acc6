package download

import (
	"context"
	"log/slog"
)

// DefaultMaxAttempts is the orchestration-level retry ceiling.
const DefaultMaxAttempts = 2

// Engine is the external extraction capability: given a URL and a config it
// writes output files matching cfg.OutputTemplate, or fails.
// Calls block until the engine finishes.
type Engine interface {
	Extract(ctx context.Context, url string, cfg *ExtractionConfig) error
}

// EngineFunc adapts a plain function to the Engine interface.
type EngineFunc func(ctx context.Context, url string, cfg *ExtractionConfig) error

// Extract calls f.
func (f EngineFunc) Extract(ctx context.Context, url string, cfg *ExtractionConfig) error {
	return f(ctx, url, cfg)
}

// Invoker wraps engine calls with a bounded retry loop.
type Invoker struct {
	engine      Engine
	maxAttempts int
	log         *slog.Logger
}

// NewInvoker creates an invoker. maxAttempts below 1 is treated as 1.
func NewInvoker(engine Engine, maxAttempts int, log *slog.Logger) *Invoker {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Invoker{
		engine:      engine,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

// MaxAttempts returns the configured retry ceiling.
func (i *Invoker) MaxAttempts() int {
	return i.maxAttempts
}

// Invoke runs the engine until it succeeds or the attempts are used up.
// The first attempt always reaches the engine, which sees ctx and fails
// fast if it is already done. Retries are immediate and skipped once ctx
// is done; a failed attempt's partial output is left in place.
func (i *Invoker) Invoke(ctx context.Context, url string, cfg *ExtractionConfig) error {
	var lastErr error
	for attempt := 1; attempt <= i.maxAttempts; attempt++ {
		if attempt > 1 && ctx.Err() != nil {
			return &ExtractionError{Cause: lastErr, Attempts: attempt - 1}
		}

		err := i.engine.Extract(ctx, url, cfg)
		if err == nil {
			return nil
		}

		lastErr = err
		i.log.Warn("extraction attempt failed",
			"attempt", attempt,
			"max_attempts", i.maxAttempts,
			"url", url,
			"error", err,
		)
	}
	return &ExtractionError{Cause: lastErr, Attempts: i.maxAttempts}
}
