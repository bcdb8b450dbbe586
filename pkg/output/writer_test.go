package output

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []Record {
	t.Helper()
	var records []Record
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec Record
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		records = append(records, rec)
	}
	return records
}

func TestJSONLWriter_EntryEnvelope(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf, "job-123", "s3")

	err := w.WriteEntry(context.Background(), &EntryRecord{
		Name:       "a.pdf",
		ID:         "v1",
		Size:       42,
		UploadedAt: 1700000000000,
	})
	require.NoError(t, err)

	records := decodeLines(t, &buf)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, TypeEntry, rec.Type)
	assert.Equal(t, "job-123", rec.JobID)
	assert.Equal(t, "s3", rec.Store)
	assert.False(t, rec.TS.IsZero())

	var entry EntryRecord
	require.NoError(t, json.Unmarshal(rec.Data, &entry))
	assert.Equal(t, "a.pdf", entry.Name)
	assert.Equal(t, int64(42), entry.Size)
}

func TestJSONLWriter_RecordTypes(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf, "job", "s3")
	ctx := context.Background()

	require.NoError(t, w.WriteUpload(ctx, &UploadRecord{Name: "a.pdf"}))
	require.NoError(t, w.WriteLink(ctx, &LinkRecord{Name: "a.pdf", Mode: "signed", URL: "https://x"}))
	require.NoError(t, w.WriteError(ctx, &ErrorRecord{Code: ErrCodeSign, Message: "boom"}))
	require.NoError(t, w.WriteSummary(ctx, &SummaryRecord{Entries: 1}))

	records := decodeLines(t, &buf)
	require.Len(t, records, 4)
	assert.Equal(t, TypeUpload, records[0].Type)
	assert.Equal(t, TypeLink, records[1].Type)
	assert.Equal(t, TypeError, records[2].Type)
	assert.Equal(t, TypeSummary, records[3].Type)
}

func TestJSONLWriter_WriteAfterClose(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf, "job", "s3")
	require.NoError(t, w.Close())

	err := w.WriteEntry(context.Background(), &EntryRecord{Name: "a.pdf"})
	assert.ErrorIs(t, err, ErrWriterClosed)
}

func TestJSONLWriter_CancelledContext(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf, "job", "s3")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.WriteEntry(ctx, &EntryRecord{Name: "a.pdf"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}

// shortWriter writes at most n bytes per call.
type shortWriter struct {
	buf bytes.Buffer
	n   int
}

func (w *shortWriter) Write(p []byte) (int, error) {
	if len(p) > w.n {
		p = p[:w.n]
	}
	return w.buf.Write(p)
}

func TestJSONLWriter_HandlesShortWrites(t *testing.T) {
	sw := &shortWriter{n: 7}
	w := NewJSONLWriter(sw, "job", "s3")

	require.NoError(t, w.WriteEntry(context.Background(), &EntryRecord{Name: "a.pdf"}))

	line := sw.buf.String()
	assert.True(t, strings.HasSuffix(line, "\n"))

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(line), &rec))
	assert.Equal(t, TypeEntry, rec.Type)
}

// failingWriter always fails.
type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestJSONLWriter_WriteFailure(t *testing.T) {
	w := NewJSONLWriter(failingWriter{}, "job", "s3")

	err := w.WriteEntry(context.Background(), &EntryRecord{Name: "a.pdf"})
	require.Error(t, err)

	var werr *WriteError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, "write", werr.Op)
}
