package integration

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"seedsearch/internal/app"
)

func TestCanceledRunExits130(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "big.fa")
	q := filepath.Join(dir, "q.fa")
	if err := os.WriteFile(ref, []byte(">chr1\n"+strings.Repeat("ACGT", 1<<18)+"\n"), 0o644); err != nil {
		t.Fatalf("write fasta: %v", err)
	}
	if err := os.WriteFile(q, []byte(">q\nACGTACGA\n"), 0o644); err != nil {
		t.Fatalf("write query: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	argv := []string{"search", "--mode", "pigeon", "-r", ref, "-q", q, "-k", "1"}
	if code := app.RunContext(ctx, argv, io.Discard, io.Discard); code != 130 {
		t.Fatalf("expected exit 130 on cancel, got %d", code)
	}
}
