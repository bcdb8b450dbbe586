package catalog

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/fmoraes/pdfshelf/pkg/provider"
)

// RefreshOptions configures a full catalog refresh from a store.
type RefreshOptions struct {
	// Prefix narrows the listing to names under this prefix.
	Prefix string

	// PageSize overrides the store's default listing page size.
	PageSize int

	// MaxPages bounds the number of listing pages fetched.
	// Zero means no bound.
	MaxPages int

	// Limiter optionally rate-limits page fetches. Nil disables limiting.
	Limiter *rate.Limiter

	// Build holds the catalog construction options.
	Build Options

	// Stats, when non-nil, receives listing statistics.
	Stats *RefreshStats
}

// RefreshStats reports what a refresh consumed.
type RefreshStats struct {
	// Pages is the number of listing pages fetched.
	Pages int64

	// Versions is the number of raw version records consumed.
	Versions int64
}

// ErrTruncated is wrapped into the error returned by Refresh when MaxPages
// is reached before the listing is exhausted.
var ErrTruncated = fmt.Errorf("listing truncated")

// Refresh lists every stored-object version and builds the catalog.
//
// The listing is paged; each page fetch optionally waits on the rate
// limiter. A listing failure aborts the refresh and is returned unwrapped so
// callers can classify it with the provider predicates.
func Refresh(ctx context.Context, store provider.Store, opts RefreshOptions) ([]Entry, error) {
	var (
		versions []provider.ObjectVersion
		token    string
		pages    int
	)

	for {
		if opts.MaxPages > 0 && pages >= opts.MaxPages {
			return nil, fmt.Errorf("%w after %d pages", ErrTruncated, pages)
		}

		if opts.Limiter != nil {
			if err := opts.Limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		res, err := store.ListVersions(ctx, provider.ListOptions{
			Prefix:            opts.Prefix,
			ContinuationToken: token,
			MaxKeys:           opts.PageSize,
		})
		if err != nil {
			return nil, err
		}

		pages++
		versions = append(versions, res.Versions...)

		if !res.IsTruncated || res.ContinuationToken == "" {
			break
		}
		token = res.ContinuationToken
	}

	if opts.Stats != nil {
		opts.Stats.Pages = int64(pages)
		opts.Stats.Versions = int64(len(versions))
	}

	return Build(versions, opts.Build), nil
}
