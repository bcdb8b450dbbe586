package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"golang.org/x/time/rate"

	"github.com/fmoraes/pdfshelf/pkg/catalog"
	"github.com/fmoraes/pdfshelf/pkg/match"
	"github.com/fmoraes/pdfshelf/pkg/output"
	"github.com/fmoraes/pdfshelf/pkg/provider"
)

// refreshOptions assembles catalog refresh options from the runtime plus
// per-command include/exclude overrides.
func (rt *shelfRuntime) refreshOptions(includes, excludes []string, stats *catalog.RefreshStats) (catalog.RefreshOptions, error) {
	if len(includes) == 0 {
		includes = rt.includes
	}
	if len(excludes) == 0 {
		excludes = rt.excludes
	}

	opts := catalog.RefreshOptions{
		Prefix:   rt.prefix,
		PageSize: rt.pageSize,
		MaxPages: rt.maxPages,
		Limiter:  rt.limiter,
		Stats:    stats,
		Build:    catalog.Options{Extension: rt.extension},
	}

	if len(includes) > 0 || len(excludes) > 0 {
		m, err := match.New(match.Config{Includes: includes, Excludes: excludes})
		if err != nil {
			return opts, exitError(foundry.ExitInvalidArgument, "Invalid pattern", err)
		}
		opts.Build.Matcher = m
		if opts.Prefix == "" {
			opts.Prefix = m.Prefix()
		}
	}

	return opts, nil
}

// createWriter opens the JSONL output destination.
//
// Returns the writer, a cleanup function, and any error.
func createWriter(dest, jobID string) (output.Writer, func(), error) {
	if dest == "" || dest == "stdout" {
		w := output.NewJSONLWriter(os.Stdout, jobID, string(provider.StoreS3))
		return w, func() { _ = w.Close() }, nil
	}

	path := strings.TrimPrefix(dest, "file:")

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}

	w := output.NewJSONLWriter(f, jobID, string(provider.StoreS3))
	cleanup := func() {
		_ = w.Close()
		_ = f.Close()
	}
	return w, cleanup, nil
}

// newPageLimiter builds a page-fetch rate limiter with burst 1.
func newPageLimiter(pagesPerSecond float64) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(pagesPerSecond), 1)
}

// formatSize renders a byte count in binary units.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// formatDuration renders a duration with sub-second precision trimmed.
func formatDuration(d time.Duration) string {
	if d >= time.Second {
		return d.Round(10 * time.Millisecond).String()
	}
	return d.Round(time.Millisecond).String()
}

// formatUploadedAt renders an epoch-millisecond timestamp for table output.
func formatUploadedAt(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04:05")
}
