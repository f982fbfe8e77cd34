// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"seedsearch/internal/cli"
	"seedsearch/internal/config"
	"seedsearch/internal/writers"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitRuntime  = 3
	ExitCanceled = 130
)

// ExitError carries the exit code a failure maps to.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

func usageErr(err error) error   { return &ExitError{Code: ExitUsage, Err: err} }
func runtimeErr(err error) error { return &ExitError{Code: ExitRuntime, Err: err} }

// RunContext executes one seqsearch invocation and returns its exit code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)

	env := &Env{Stdout: outw, Stderr: stderr}
	root := cli.NewRootCommand(cli.Handlers{
		Build:  func(ctx context.Context, cfg config.Config) error { return env.Build(ctx, cfg) },
		Search: func(ctx context.Context, cfg config.Config) error { return env.Search(ctx, cfg) },
	})
	root.SetArgs(argv)
	root.SetOut(outw)
	root.SetErr(stderr)

	err := root.ExecuteContext(parent)
	if e := outw.Flush(); e != nil && !writers.IsBrokenPipe(e) && err == nil {
		err = runtimeErr(e)
	}
	return exitCode(parent, err, stderr)
}

func exitCode(ctx context.Context, err error, stderr io.Writer) int {
	if err == nil {
		return ExitOK
	}
	if writers.IsBrokenPipe(err) {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return ExitCanceled
	}
	_, _ = fmt.Fprintln(stderr, "error:", err)
	var xe *ExitError
	if errors.As(err, &xe) {
		return xe.Code
	}
	// Unclassified errors come from flag parsing or command dispatch.
	return ExitUsage
}
