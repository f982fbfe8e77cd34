package report

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seedsearch/internal/logging"
)

func TestTextLines(t *testing.T) {
	var buf bytes.Buffer
	r := Text{W: &buf}
	require.NoError(t, r.IndexBuilt(1500*time.Millisecond))
	require.NoError(t, r.SearchDone(Summary{Queries: 100, Errors: 1, Threads: 4, Hits: 300, Elapsed: 250 * time.Millisecond}))
	require.NoError(t, r.SearchDone(Summary{Queries: 2, Threads: 1, Hits: 7, Verified: true, Elapsed: time.Second}))

	assert.Equal(t,
		"Index Construction time: 1.5 seconds.\n"+
			"Search time: 0.25 seconds.\n"+
			"queries=100 errors=1 threads=4 hits=300\n"+
			"Search time: 1 seconds.\n"+
			"queries=2 errors=0 threads=1 verified_hits=7\n",
		buf.String())
}

func TestMultiFansOut(t *testing.T) {
	var text, logs bytes.Buffer
	l, err := logging.New(&logs, slog.LevelInfo, logging.FormatText)
	require.NoError(t, err)

	m := Multi{Text{W: &text}, Log{L: l}}
	require.NoError(t, m.SearchDone(Summary{Mode: "pigeon", Queries: 1234, Hits: 5}))
	assert.Contains(t, text.String(), "hits=5")
	assert.Contains(t, logs.String(), "mode=pigeon")
	assert.Contains(t, logs.String(), "queries=1,234")
}
