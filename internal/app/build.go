package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"seedsearch/core/fmindex"
	"seedsearch/core/suffixarray"
	"seedsearch/internal/config"
	"seedsearch/internal/logging"
)

// Build constructs the configured index over the reference and saves it.
func (e *Env) Build(ctx context.Context, cfg config.Config) error {
	if err := cfg.ValidateBuild(); err != nil {
		return usageErr(err)
	}
	codec, err := fmindex.ParseCodec(cfg.Codec)
	if err != nil {
		return usageErr(err)
	}
	s, err := e.open(ctx, cfg, "build")
	if err != nil {
		return err
	}
	ref, err := s.loadReference(ctx, cfg.Reference)
	if err != nil {
		return err
	}
	txt, err := ref.Concat(cfg.Guard)
	if err != nil {
		return runtimeErr(err)
	}

	backend := cfg.EffectiveBackend()
	t0 := time.Now()
	var save func() error
	switch backend {
	case config.BackendSA:
		sa, err := suffixarray.Build(txt.Data)
		if err != nil {
			return runtimeErr(err)
		}
		save = func() error { return suffixarray.WriteFile(cfg.Index, sa) }
	default:
		fm, err := fmindex.Build(txt, fmindex.Options{SampleRate: cfg.SamplingRate})
		if err != nil {
			return runtimeErr(err)
		}
		save = func() error { return fm.SaveFile(cfg.Index, codec) }
	}
	if err := s.rep.IndexBuilt(time.Since(t0)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := save(); err != nil {
		return runtimeErr(fmt.Errorf("save index: %w", err))
	}
	attrs := []any{"backend", backend, "path", cfg.Index, "text", logging.Bytes(txt.Len())}
	if fi, err := os.Stat(cfg.Index); err == nil {
		attrs = append(attrs, "file", logging.Bytes(int(fi.Size())))
	}
	s.log.InfoContext(ctx, "index saved", attrs...)
	return nil
}
