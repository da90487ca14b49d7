package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestHistory(t *testing.T) *History {
	t.Helper()
	h, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func completedRun(domain string, startedAt time.Time) *Run {
	run := NewRun(domain, "https")
	run.StartedAt = startedAt
	run.FinishedAt = startedAt.Add(2 * time.Minute)
	run.ReportPath = domain + "_image_report_20250314_092653.csv"
	run.PagesScanned = 12
	run.ImagesFlagged = 3
	run.Broken = 2
	run.ProbablyOK = 1
	return run
}

func TestNewRun(t *testing.T) {
	run := NewRun("example.com", "https")

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "example.com", run.Domain)
	assert.Equal(t, "https", run.Scheme)
	assert.False(t, run.StartedAt.IsZero())
}

func TestRecordAndListRuns(t *testing.T) {
	h := openTestHistory(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	require.NoError(t, h.RecordRun(ctx, completedRun("example.com", base)))
	require.NoError(t, h.RecordRun(ctx, completedRun("example.com", base.Add(time.Hour))))
	require.NoError(t, h.RecordRun(ctx, completedRun("other.org", base.Add(30*time.Minute))))

	runs, err := h.RecentRuns(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	// Newest first
	assert.Equal(t, "example.com", runs[0].Domain)
	assert.Equal(t, base.Add(time.Hour).Unix(), runs[0].StartedAt.Unix())
	assert.Equal(t, "other.org", runs[1].Domain)
}

func TestRecentRunsFiltersByDomain(t *testing.T) {
	h := openTestHistory(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	require.NoError(t, h.RecordRun(ctx, completedRun("example.com", base)))
	require.NoError(t, h.RecordRun(ctx, completedRun("other.org", base)))

	runs, err := h.RecentRuns(ctx, "other.org", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "other.org", runs[0].Domain)
	assert.Equal(t, 2, runs[0].Broken)
	assert.Equal(t, 1, runs[0].ProbablyOK)
	assert.Equal(t, 12, runs[0].PagesScanned)
}

func TestRecentRunsRespectsLimit(t *testing.T) {
	h := openTestHistory(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, h.RecordRun(ctx, completedRun("example.com", base.Add(time.Duration(i)*time.Minute))))
	}

	runs, err := h.RecentRuns(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	h1, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, h1.RecordRun(context.Background(), completedRun("example.com", time.Now().UTC())))
	require.NoError(t, h1.Close())

	h2, err := Open(dir)
	require.NoError(t, err)
	defer h2.Close()

	runs, err := h2.RecentRuns(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
