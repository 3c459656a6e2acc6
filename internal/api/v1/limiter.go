package v1

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// jobLimiter bounds how many download jobs run at once.
type jobLimiter struct {
	sem *semaphore.Weighted
}

func newJobLimiter(n int) *jobLimiter {
	if n < 1 {
		n = 1
	}
	return &jobLimiter{sem: semaphore.NewWeighted(int64(n))}
}

// acquire blocks until a job slot is free or ctx ends.
// The returned release must be called exactly once.
func (l *jobLimiter) acquire(ctx context.Context) (release func(), err error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { l.sem.Release(1) }, nil
}
