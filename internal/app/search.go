package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"seedsearch/core/batch"
	"seedsearch/core/dispatch"
	"seedsearch/core/fasta"
	"seedsearch/core/pigeon"
	"seedsearch/internal/config"
	"seedsearch/internal/logging"
	"seedsearch/internal/report"
)

// Search counts query occurrences in the reference and reports the totals.
func (e *Env) Search(ctx context.Context, cfg config.Config) error {
	if err := cfg.ValidateSearch(); err != nil {
		return usageErr(err)
	}
	s, err := e.open(ctx, cfg, "search")
	if err != nil {
		return err
	}
	if cfg.Mode == config.ModeNaive {
		if cfg.Errors > 0 {
			s.log.Warnf(ctx, "naive mode is exact only; ignoring --errors %d", cfg.Errors)
			cfg.Errors = 0
		}
		if cfg.Index != "" {
			s.log.Warnf(ctx, "naive mode does not use an index; ignoring --index %s", cfg.Index)
		}
	}

	ref, err := s.loadReference(ctx, cfg.Reference)
	if err != nil {
		return err
	}
	qs, err := fasta.Sequences(ctx, cfg.Query)
	if err != nil {
		return inputErr(err)
	}
	queries, err := batch.DuplicateToCount(qs, cfg.QueryCount)
	if err != nil {
		if errors.Is(err, batch.ErrNoQueries) {
			return runtimeErr(err)
		}
		return err
	}
	s.log.DebugContext(ctx, "queries loaded", "path", cfg.Query, "distinct", len(qs), "batch", logging.Count(len(queries)))

	eng, err := s.engine(ctx, cfg, ref)
	if err != nil {
		return err
	}
	defer eng.close()

	var (
		mu        sync.Mutex
		scratches []*pigeon.Scratch
	)
	threads := dispatch.Workers(cfg.Threads)
	ranges := dispatch.Ranges(len(queries), threads, cfg.MinBlock)
	t0 := time.Now()
	res, err := dispatch.Run(ctx, ranges, func() func(int) uint64 {
		sc := pigeon.NewScratch()
		mu.Lock()
		scratches = append(scratches, sc)
		mu.Unlock()
		score := eng.scorer(sc)
		return func(i int) uint64 {
			q := queries[i]
			if len(q) == 0 {
				return 0
			}
			return score(q)
		}
	})
	elapsed := time.Since(t0)
	if err != nil {
		return err
	}
	s.log.DebugContext(ctx, "partition",
		"queries", len(queries), "threads", threads, "min_block", cfg.MinBlock,
		"blocks", len(ranges), "per_worker", res.PerWorker)

	dropped := 0
	for _, sc := range scratches {
		dropped += sc.Dropped
	}
	if dropped > 0 {
		s.log.DebugContext(ctx, "dropped candidates outside the reference", "count", dropped)
	}

	return s.rep.SearchDone(report.Summary{
		Mode:     cfg.Mode,
		Backend:  eng.backend,
		Queries:  len(queries),
		Errors:   cfg.Errors,
		Threads:  res.Workers,
		Hits:     res.Total,
		Verified: cfg.Mode == config.ModePigeon,
		Elapsed:  elapsed,
	})
}
