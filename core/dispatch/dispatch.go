// Package dispatch fans a batch of independent queries out over a fixed set
// of workers and reduces their hit counts.
package dispatch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Range is the half-open query range [Lo, Hi) owned by one worker.
type Range struct {
	Lo, Hi int
}

// Result is the reduced outcome of a Run.
type Result struct {
	Total     uint64
	PerWorker []uint64
	Workers   int
}

// Workers resolves a requested worker count; 0 or less means one per CPU.
func Workers(requested int) int {
	if requested <= 0 {
		return runtime.NumCPU()
	}
	return requested
}

// Ranges splits [0, n) into contiguous blocks whose sizes differ by at most
// one, one block per worker. workers is clamped to [1, n] and to n/minBlock,
// so every block holds at least minBlock queries unless n itself is smaller.
// minBlock < 1 means 1. n == 0 yields no ranges.
func Ranges(n, workers, minBlock int) []Range {
	if n <= 0 {
		return nil
	}
	if minBlock < 1 {
		minBlock = 1
	}
	workers = max(1, min(workers, n, n/minBlock))
	out := make([]Range, workers)
	size, rem := n/workers, n%workers
	lo := 0
	for w := range out {
		hi := lo + size
		if w < rem {
			hi++
		}
		out[w] = Range{Lo: lo, Hi: hi}
		lo = hi
	}
	return out
}

// Run evaluates the queries in ranges, one worker per range. newWorker is
// called once per worker, on the worker's goroutine, and returns the function
// scoring one query; per-worker state belongs in its closure. Cancellation is
// observed between queries and reported as ctx.Err().
func Run(ctx context.Context, ranges []Range, newWorker func() func(i int) uint64) (Result, error) {
	res := Result{PerWorker: make([]uint64, len(ranges)), Workers: len(ranges)}
	if len(ranges) == 0 {
		return res, ctx.Err()
	}

	g, gctx := errgroup.WithContext(ctx)
	done := gctx.Done()
	for w, r := range ranges {
		w, r := w, r
		g.Go(func() error {
			score := newWorker()
			var local uint64
			for i := r.Lo; i < r.Hi; i++ {
				select {
				case <-done:
					return gctx.Err()
				default:
				}
				local += score(i)
			}
			res.PerWorker[w] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	for _, c := range res.PerWorker {
		res.Total += c
	}
	return res, nil
}
