// Package report renders timing and hit summaries for build and search runs.
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"seedsearch/internal/logging"
)

// Summary describes one completed search.
type Summary struct {
	Mode     string
	Backend  string
	Queries  int
	Errors   int
	Threads  int
	Hits     uint64
	Verified bool // hits passed seed-and-verify
	Elapsed  time.Duration
}

// Reporter receives run milestones.
type Reporter interface {
	IndexBuilt(d time.Duration) error
	SearchDone(s Summary) error
}

// Text prints the classic plain-text lines to W.
type Text struct {
	W io.Writer
}

var _ Reporter = Text{}

func (t Text) IndexBuilt(d time.Duration) error {
	_, err := fmt.Fprintf(t.W, "Index Construction time: %g seconds.\n", d.Seconds())
	return err
}

func (t Text) SearchDone(s Summary) error {
	if _, err := fmt.Fprintf(t.W, "Search time: %g seconds.\n", s.Elapsed.Seconds()); err != nil {
		return err
	}
	label := "hits"
	if s.Verified {
		label = "verified_hits"
	}
	_, err := fmt.Fprintf(t.W, "queries=%d errors=%d threads=%d %s=%d\n", s.Queries, s.Errors, s.Threads, label, s.Hits)
	return err
}

// Log records milestones as structured log entries.
type Log struct {
	Ctx context.Context
	L   *logging.Logger
}

var _ Reporter = Log{}

func (l Log) IndexBuilt(d time.Duration) error {
	l.L.InfoContext(l.ctx(), "index built", "elapsed", d)
	return nil
}

func (l Log) SearchDone(s Summary) error {
	l.L.InfoContext(l.ctx(), "search done",
		"mode", s.Mode,
		"backend", s.Backend,
		"queries", logging.Count(s.Queries),
		"errors", s.Errors,
		"threads", s.Threads,
		"hits", logging.Count(s.Hits),
		"elapsed", s.Elapsed,
	)
	return nil
}

func (l Log) ctx() context.Context {
	if l.Ctx == nil {
		return context.Background()
	}
	return l.Ctx
}

// Multi fans milestones out to several reporters, stopping at the first error.
type Multi []Reporter

var _ Reporter = Multi{}

func (m Multi) IndexBuilt(d time.Duration) error {
	for _, r := range m {
		if err := r.IndexBuilt(d); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) SearchDone(s Summary) error {
	for _, r := range m {
		if err := r.SearchDone(s); err != nil {
			return err
		}
	}
	return nil
}
