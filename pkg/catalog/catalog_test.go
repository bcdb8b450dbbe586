package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmoraes/pdfshelf/pkg/match"
	"github.com/fmoraes/pdfshelf/pkg/provider"
)

func TestBuild_DeduplicatesByNewestVersion(t *testing.T) {
	versions := []provider.ObjectVersion{
		{Name: "a.pdf", ID: "v1", Size: 10, UploadedAt: 100},
		{Name: "a.pdf", ID: "v2", Size: 20, UploadedAt: 200},
		{Name: "b.pdf", ID: "v3", Size: 30, UploadedAt: 150},
	}

	entries := Build(versions, Options{})

	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Name: "a.pdf", ID: "v2", Size: 20, UploadedAt: 200}, entries[0])
	assert.Equal(t, Entry{Name: "b.pdf", ID: "v3", Size: 30, UploadedAt: 150}, entries[1])
}

func TestBuild_TimestampTieKeepsEarlierRecord(t *testing.T) {
	versions := []provider.ObjectVersion{
		{Name: "a.pdf", ID: "first", UploadedAt: 100},
		{Name: "a.pdf", ID: "second", UploadedAt: 100},
	}

	entries := Build(versions, Options{})

	require.Len(t, entries, 1)
	assert.Equal(t, "first", entries[0].ID)
}

func TestBuild_SortsNewestFirstWithNameTiebreak(t *testing.T) {
	versions := []provider.ObjectVersion{
		{Name: "old.pdf", UploadedAt: 100},
		{Name: "new.pdf", UploadedAt: 300},
		{Name: "b.pdf", UploadedAt: 200},
		{Name: "a.pdf", UploadedAt: 200},
	}

	entries := Build(versions, Options{})

	require.Len(t, entries, 4)
	assert.Equal(t, "new.pdf", entries[0].Name)
	assert.Equal(t, "a.pdf", entries[1].Name)
	assert.Equal(t, "b.pdf", entries[2].Name)
	assert.Equal(t, "old.pdf", entries[3].Name)
}

func TestBuild_Deterministic(t *testing.T) {
	versions := []provider.ObjectVersion{
		{Name: "x.pdf", ID: "1", UploadedAt: 100},
		{Name: "y.pdf", ID: "2", UploadedAt: 100},
		{Name: "x.pdf", ID: "3", UploadedAt: 100},
		{Name: "z.pdf", ID: "4", UploadedAt: 50},
	}

	first := Build(versions, Options{})
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Build(versions, Options{}))
	}
}

func TestBuild_ExtensionFilter(t *testing.T) {
	tests := []struct {
		name      string
		extension string
		input     []provider.ObjectVersion
		want      []string
	}{
		{
			name: "default pdf only",
			input: []provider.ObjectVersion{
				{Name: "doc.pdf", UploadedAt: 3},
				{Name: "notes.txt", UploadedAt: 2},
				{Name: "image.png", UploadedAt: 1},
			},
			want: []string{"doc.pdf"},
		},
		{
			name: "case insensitive suffix",
			input: []provider.ObjectVersion{
				{Name: "UPPER.PDF", UploadedAt: 2},
				{Name: "mixed.Pdf", UploadedAt: 1},
			},
			want: []string{"UPPER.PDF", "mixed.Pdf"},
		},
		{
			name:      "custom extension",
			extension: ".epub",
			input: []provider.ObjectVersion{
				{Name: "book.epub", UploadedAt: 2},
				{Name: "doc.pdf", UploadedAt: 1},
			},
			want: []string{"book.epub"},
		},
		{
			name: "name equal to bare extension is excluded",
			input: []provider.ObjectVersion{
				{Name: ".pdf", UploadedAt: 2},
				{Name: "real.pdf", UploadedAt: 1},
			},
			// ".pdf" still ends in the extension, so it stays
			want: []string{".pdf", "real.pdf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := Build(tt.input, Options{Extension: tt.extension})
			got := make([]string, 0, len(entries))
			for _, e := range entries {
				got = append(got, e.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuild_EmptyInputYieldsEmptyNonNil(t *testing.T) {
	entries := Build(nil, Options{})
	require.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestBuild_WithMatcher(t *testing.T) {
	m, err := match.New(match.Config{
		Includes: []string{"reports/**"},
		Excludes: []string{"**/draft-*"},
	})
	require.NoError(t, err)

	versions := []provider.ObjectVersion{
		{Name: "reports/q1.pdf", UploadedAt: 3},
		{Name: "reports/draft-q2.pdf", UploadedAt: 2},
		{Name: "misc/other.pdf", UploadedAt: 1},
	}

	entries := Build(versions, Options{Matcher: m})

	require.Len(t, entries, 1)
	assert.Equal(t, "reports/q1.pdf", entries[0].Name)
}

func TestFind(t *testing.T) {
	entries := []Entry{
		{Name: "a.pdf", ID: "1"},
		{Name: "b.pdf", ID: "2"},
	}

	e, ok := Find(entries, "b.pdf")
	require.True(t, ok)
	assert.Equal(t, "2", e.ID)

	_, ok = Find(entries, "missing.pdf")
	assert.False(t, ok)
}

func TestEntry_VersionID(t *testing.T) {
	e := Entry{Name: "a.pdf", ID: "v9"}
	assert.Equal(t, provider.VersionID{Name: "a.pdf", ID: "v9"}, e.VersionID())
}
