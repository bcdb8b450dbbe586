package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmoraes/pdfshelf/pkg/output"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{64 << 20, "64.0 MiB"},
		{3 << 30, "3.0 GiB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatSize(tt.n))
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250ms", formatDuration(250*time.Millisecond))
	assert.Equal(t, "1.5s", formatDuration(1500*time.Millisecond))
}

func TestFormatUploadedAt(t *testing.T) {
	assert.Equal(t, "-", formatUploadedAt(0))

	ts := time.Date(2026, 8, 26, 12, 30, 0, 0, time.UTC).UnixMilli()
	assert.Equal(t, "2026-08-26 12:30:00", formatUploadedAt(ts))
}

func TestCreateWriter_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	w, cleanup, err := createWriter(path, "job-1")
	require.NoError(t, err)

	require.NoError(t, w.WriteEntry(context.Background(), &output.EntryRecord{Name: "a.pdf"}))
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var rec output.Record
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, output.TypeEntry, rec.Type)
	assert.Equal(t, "job-1", rec.JobID)
	assert.Equal(t, "s3", rec.Store)
}

func TestCreateWriter_FilePrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	w, cleanup, err := createWriter("file:"+path, "job-1")
	require.NoError(t, err)
	require.NoError(t, w.WriteSummary(context.Background(), &output.SummaryRecord{}))
	cleanup()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestRefreshOptions_InvalidPatternRejected(t *testing.T) {
	rt := &shelfRuntime{extension: ".pdf"}

	_, err := rt.refreshOptions([]string{"bad[pattern"}, nil, nil)
	require.Error(t, err)

	var coded *codedError
	assert.ErrorAs(t, err, &coded)
}

func TestRefreshOptions_MatcherPrefixNarrowsListing(t *testing.T) {
	rt := &shelfRuntime{extension: ".pdf"}

	opts, err := rt.refreshOptions([]string{"reports/2026/**"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "reports/2026/", opts.Prefix)
	require.NotNil(t, opts.Build.Matcher)
}

func TestRefreshOptions_ExplicitPrefixWins(t *testing.T) {
	rt := &shelfRuntime{extension: ".pdf", prefix: "configured/"}

	opts, err := rt.refreshOptions([]string{"reports/**"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "configured/", opts.Prefix)
}
