package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"seedsearch/core/fmindex"
	"seedsearch/core/naive"
	"seedsearch/core/pigeon"
	"seedsearch/core/reference"
	"seedsearch/core/suffixarray"
	"seedsearch/internal/config"
)

// engine binds a search mode to a ready index.
type engine struct {
	backend string
	// scorer returns the per-query hit counter for one worker.
	scorer func(sc *pigeon.Scratch) func(q []byte) uint64
	close  func()
}

func (s *session) engine(ctx context.Context, cfg config.Config, ref *reference.Reference) (*engine, error) {
	k := cfg.Errors
	eng := &engine{backend: cfg.EffectiveBackend(), close: func() {}}

	seeded := func(idx pigeon.Index) func(*pigeon.Scratch) func([]byte) uint64 {
		ps := pigeon.Searcher{Ref: ref, Index: idx, K: k}
		return func(sc *pigeon.Scratch) func([]byte) uint64 {
			return func(q []byte) uint64 { return uint64(ps.Count(q, sc)) }
		}
	}

	switch {
	case cfg.Mode == config.ModeNaive:
		scan := naive.Scanner{Ref: ref}
		eng.backend = "scan"
		eng.scorer = func(*pigeon.Scratch) func([]byte) uint64 {
			return func(q []byte) uint64 { return uint64(scan.Count(q)) }
		}

	case eng.backend == config.BackendSA:
		loc, closeFn, err := s.suffixArray(ctx, cfg, ref)
		if err != nil {
			return nil, err
		}
		eng.close = closeFn
		if k == 0 && cfg.Mode == config.ModeSuffixArray {
			eng.scorer = func(*pigeon.Scratch) func([]byte) uint64 {
				return func(q []byte) uint64 { return uint64(loc.Count(q)) }
			}
		} else {
			eng.scorer = seeded(loc)
		}

	default:
		fm, err := s.fmIndex(ctx, cfg, ref)
		if err != nil {
			return nil, err
		}
		if cfg.Mode == config.ModeFMIndex {
			eng.scorer = func(*pigeon.Scratch) func([]byte) uint64 {
				return func(q []byte) uint64 { return uint64(fm.CountApprox(q, k)) }
			}
		} else {
			eng.scorer = seeded(fm)
		}
	}
	return eng, nil
}

// indexErr classifies a failure to open or decode a persisted index.
func indexErr(path string, err error) error {
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
		return usageErr(fmt.Errorf("cannot open index file %s: %w", path, err))
	}
	return runtimeErr(fmt.Errorf("load index: %w", err))
}

func (s *session) suffixArray(ctx context.Context, cfg config.Config, ref *reference.Reference) (suffixarray.Locator, func(), error) {
	txt, err := ref.Concat(cfg.Guard)
	if err != nil {
		return suffixarray.Locator{}, nil, runtimeErr(err)
	}
	if cfg.Index == "" {
		t0 := time.Now()
		idx, err := suffixarray.FromText(txt.Data)
		if err != nil {
			return suffixarray.Locator{}, nil, runtimeErr(err)
		}
		if err := s.rep.IndexBuilt(time.Since(t0)); err != nil {
			return suffixarray.Locator{}, nil, err
		}
		return suffixarray.Locator{Index: idx, Text: txt}, func() {}, nil
	}

	f, err := suffixarray.Load(cfg.Index)
	if err != nil {
		return suffixarray.Locator{}, nil, indexErr(cfg.Index, err)
	}
	idx, err := suffixarray.New(txt.Data, f.SA)
	if err != nil {
		_ = f.Close()
		return suffixarray.Locator{}, nil, runtimeErr(fmt.Errorf("index %s does not match reference %s (guard %d): %w", cfg.Index, cfg.Reference, cfg.Guard, err))
	}
	s.log.DebugContext(ctx, "suffix array loaded", "path", cfg.Index, "suffixes", idx.Len())
	return suffixarray.Locator{Index: idx, Text: txt}, func() { _ = f.Close() }, nil
}

func (s *session) fmIndex(ctx context.Context, cfg config.Config, ref *reference.Reference) (*fmindex.Index, error) {
	if cfg.Index == "" {
		txt, err := ref.Concat(cfg.Guard)
		if err != nil {
			return nil, runtimeErr(err)
		}
		t0 := time.Now()
		fm, err := fmindex.Build(txt, fmindex.Options{SampleRate: cfg.SamplingRate})
		if err != nil {
			return nil, runtimeErr(err)
		}
		if err := s.rep.IndexBuilt(time.Since(t0)); err != nil {
			return nil, err
		}
		return fm, nil
	}

	fm, err := fmindex.LoadFile(cfg.Index)
	if err != nil {
		return nil, indexErr(cfg.Index, err)
	}
	if err := fm.Matches(ref); err != nil {
		return nil, runtimeErr(fmt.Errorf("index %s does not match reference %s: %w", cfg.Index, cfg.Reference, err))
	}
	s.log.DebugContext(ctx, "fm-index loaded", "path", cfg.Index, "text", fm.Len(), "sampling_rate", fm.SampleRate())
	return fm, nil
}
