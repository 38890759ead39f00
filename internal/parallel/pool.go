// Package parallel shards per-row image work across a bounded number of
// goroutines. A nil *Pool runs everything on the calling goroutine.
//
//	pool := parallel.New(0)
//	err := pool.For(height, func(start, end int) error {
//		for y := start; y < end; y++ {
//			processRow(y)
//		}
//		return nil
//	})
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool holds the concurrency limit shared by every stage of a pipeline.
// It owns no goroutines between calls and needs no cleanup.
type Pool struct {
	limit int
}

// New returns a pool running at most n goroutines per call. If n <= 0,
// GOMAXPROCS is used.
func New(n int) *Pool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return &Pool{limit: n}
}

// Workers returns the concurrency limit, or 1 for a nil pool.
func (p *Pool) Workers() int {
	if p == nil {
		return 1
	}
	return p.limit
}

// For cuts [0, n) into one contiguous band per worker and runs fn on the
// bands concurrently. fn must only write to locations owned by its band.
// The first error is returned once every band has finished.
func (p *Pool) For(n int, fn func(start, end int) error) error {
	if n <= 0 {
		return nil
	}
	bands := min(p.Workers(), n)
	if bands == 1 {
		return fn(0, n)
	}

	size := (n + bands - 1) / bands
	var g errgroup.Group
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		g.Go(func() error {
			return fn(start, end)
		})
	}
	return g.Wait()
}

// ForEach calls fn(i) for every i in [0, n) with at most Workers() calls
// in flight. Indices are scheduled one at a time, so rows of uneven cost
// balance across goroutines. Once an error occurs no further indices are
// started.
func (p *Pool) ForEach(n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}
	if p.Workers() == 1 {
		for i := range n {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(p.Workers())
	for i := range n {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return fn(i)
		})
	}
	return g.Wait()
}
