// internal/cli/options_test.go
package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"seedsearch/internal/config"
)

type captured struct {
	build, search *config.Config
}

func execute(t *testing.T, args ...string) (captured, string, error) {
	t.Helper()
	var got captured
	root := NewRootCommand(Handlers{
		Build: func(_ context.Context, c config.Config) error {
			got.build = &c
			return nil
		},
		Search: func(_ context.Context, c config.Config) error {
			got.search = &c
			return nil
		},
	})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return got, out.String(), err
}

func TestSearchFlags(t *testing.T) {
	got, _, err := execute(t, "search", "--mode", "Pigeon", "-r", "ref.fa", "-q", "q.fa",
		"--errors", "2", "--query_ct", "10", "--backend", "sa", "-t", "3", "--min_block", "8")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	c := got.search
	if c == nil {
		t.Fatal("search handler not called")
	}
	if c.Mode != config.ModePigeon || c.Errors != 2 || c.QueryCount != 10 || c.Backend != "sa" || c.Threads != 3 || c.MinBlock != 8 {
		t.Errorf("bad parse: %+v", *c)
	}
	if c.Guard != 1 || c.LogLevel != "info" {
		t.Errorf("defaults lost: %+v", *c)
	}
}

func TestConfigFileThenFlags(t *testing.T) {
	p := filepath.Join(t.TempDir(), "run.toml")
	body := "mode = \"fmindex\"\nerrors = 3\nthreads = 5\nquery_ct = 7\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	got, _, err := execute(t, "search", "--config", p, "-r", "r.fa", "-q", "q.fa", "--errors", "1")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	c := got.search
	if c.Mode != config.ModeFMIndex || c.Threads != 5 || c.QueryCount != 7 {
		t.Errorf("config file ignored: %+v", *c)
	}
	if c.Errors != 1 {
		t.Errorf("explicit flag should win, errors=%d", c.Errors)
	}
}

func TestVerboseRaisesLogLevel(t *testing.T) {
	got, _, err := execute(t, "build", "-r", "r.fa", "-o", "r.idx", "-v")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got.build.LogLevel != "debug" {
		t.Errorf("want debug, got %q", got.build.LogLevel)
	}
	got, _, _ = execute(t, "build", "-r", "r.fa", "-o", "r.idx", "-v", "--log-level", "warn")
	if got.build.LogLevel != "warn" {
		t.Errorf("explicit level should win, got %q", got.build.LogLevel)
	}
}

func TestUsageErrors(t *testing.T) {
	for _, args := range [][]string{
		{"search", "--errors", "many"},
		{"search", "--nope"},
		{"frobnicate"},
		{"search", "extra-arg"},
	} {
		if _, _, err := execute(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestVersion(t *testing.T) {
	_, out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if out != "seqsearch version dev\n" {
		t.Errorf("got %q", out)
	}
}
