package analyzer

import (
	"context"

	"golang.org/x/time/rate"
)

// subprocGate bounds how many coverage-export/profile-merge subprocesses
// run at once during AnalyzeAll, per SPEC_FULL's domain-stack wiring of
// golang.org/x/time: a semaphore caps concurrency, and a rate.Limiter
// smooths the burst of starts so a pool of a thousand tests doesn't launch
// a thousand llvm-cov processes in the same instant.
type subprocGate struct {
	sem     chan struct{}
	limiter *rate.Limiter
}

func newSubprocGate(concurrency int) *subprocGate {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &subprocGate{
		sem:     make(chan struct{}, concurrency),
		limiter: rate.NewLimiter(rate.Limit(concurrency*4), concurrency),
	}
}

// acquire blocks until a slot is free and the limiter allows another start,
// or ctx is done. The returned release func must be called exactly once.
func (g *subprocGate) acquire(ctx context.Context) (release func(), err error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	select {
	case g.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return func() { <-g.sem }, nil
}
