// Package catalog derives the display-ready document catalog from raw
// stored-object version listings.
//
// The catalog is the deduplicated latest-version-per-name view: for every
// object name that matches the accepted extension, exactly one entry is kept,
// the one with the greatest upload timestamp. The catalog is rebuilt from a
// fresh listing on every use - there is no persisted cache and no incremental
// update.
package catalog

import (
	"sort"
	"strings"

	"github.com/fmoraes/pdfshelf/pkg/match"
	"github.com/fmoraes/pdfshelf/pkg/provider"
)

// DefaultExtension is the accepted file extension for catalog entries.
const DefaultExtension = ".pdf"

// Entry is one catalog row: the latest known version of a document name.
type Entry struct {
	// Name is the document name (object key).
	Name string

	// ID is the opaque version identifier of the retained version.
	ID string

	// Size is the retained version's size in bytes.
	Size int64

	// UploadedAt is the retained version's upload timestamp in epoch
	// milliseconds.
	UploadedAt int64
}

// VersionID returns the identifier addressing the retained version.
func (e Entry) VersionID() provider.VersionID {
	return provider.VersionID{Name: e.Name, ID: e.ID}
}

// Options configures catalog construction.
type Options struct {
	// Extension is the accepted file extension, matched case-insensitively
	// against the end of the object name. Empty uses DefaultExtension.
	Extension string

	// Matcher optionally narrows the catalog with include/exclude glob
	// patterns, applied to names before deduplication. Nil matches all.
	Matcher *match.Matcher
}

func (o Options) extension() string {
	if o.Extension == "" {
		return DefaultExtension
	}
	return strings.ToLower(o.Extension)
}

// Build produces the catalog entries for a sequence of stored-object
// version records.
//
// Guarantees:
//   - At most one entry per distinct name.
//   - The retained entry has the maximum upload timestamp among same-named
//     records (last-write-wins by timestamp, not arrival order).
//   - Output is sorted by upload timestamp descending; timestamp ties are
//     broken by name so repeated builds on the same input yield identical
//     order.
//   - Names not ending in the accepted extension never appear.
//   - Empty input yields an empty (non-nil) output. Callers distinguish
//     "no files" from "listing failed" by the error of the listing call,
//     never by an empty catalog.
func Build(versions []provider.ObjectVersion, opts Options) []Entry {
	ext := opts.extension()

	latest := make(map[string]provider.ObjectVersion)
	order := make([]string, 0, len(versions))

	for _, v := range versions {
		if !strings.HasSuffix(strings.ToLower(v.Name), ext) {
			continue
		}
		if opts.Matcher != nil && !opts.Matcher.Match(v.Name) {
			continue
		}

		best, seen := latest[v.Name]
		if !seen {
			latest[v.Name] = v
			order = append(order, v.Name)
			continue
		}
		// Strict greater-than: on a timestamp tie the earlier record wins,
		// keeping the result deterministic for a given input sequence.
		if v.UploadedAt > best.UploadedAt {
			latest[v.Name] = v
		}
	}

	entries := make([]Entry, 0, len(order))
	for _, name := range order {
		v := latest[name]
		entries = append(entries, Entry{
			Name:       v.Name,
			ID:         v.ID,
			Size:       v.Size,
			UploadedAt: v.UploadedAt,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].UploadedAt != entries[j].UploadedAt {
			return entries[i].UploadedAt > entries[j].UploadedAt
		}
		return entries[i].Name < entries[j].Name
	})

	return entries
}

// Find returns the entry with the given name, or false when absent.
func Find(entries []Entry, name string) (Entry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
