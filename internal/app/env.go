package app

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"seedsearch/core/fasta"
	"seedsearch/core/reference"
	"seedsearch/internal/config"
	"seedsearch/internal/logging"
	"seedsearch/internal/report"
)

// Env is the process-level context shared by build and search.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer
}

// session is one configured run: its logger and reporter.
type session struct {
	log *logging.Logger
	rep report.Reporter
}

func (e *Env) open(ctx context.Context, cfg config.Config, command string) (*session, error) {
	lvl, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, usageErr(err)
	}
	log, err := logging.New(e.Stderr, lvl, cfg.LogFormat)
	if err != nil {
		return nil, usageErr(err)
	}
	log, _ = log.WithRunID()
	log = log.With("command", command)
	return &session{
		log: log,
		rep: report.Multi{report.Text{W: e.Stdout}, report.Log{Ctx: ctx, L: log}},
	}, nil
}

// inputErr classifies a sequence-input failure: unreadable paths are
// configuration errors, everything else is fatal at runtime.
func inputErr(err error) error {
	var oe *fasta.OpenError
	if errors.As(err, &oe) || errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
		return usageErr(err)
	}
	return runtimeErr(err)
}

func (s *session) loadReference(ctx context.Context, path string) (*reference.Reference, error) {
	t0 := time.Now()
	ref, err := reference.Load(ctx, path)
	if err != nil {
		return nil, inputErr(err)
	}
	s.log.DebugContext(ctx, "reference loaded",
		"path", path,
		"sequences", logging.Count(ref.Len()),
		"size", logging.Bytes(ref.TotalLen()),
		"elapsed", time.Since(t0),
	)
	return ref, nil
}
