package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fmoraes/pdfshelf/internal/observability"
	"github.com/fmoraes/pdfshelf/pkg/catalog"
	"github.com/fmoraes/pdfshelf/pkg/output"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the document catalog",
	Long: `List the shelf catalog: the newest version of each document name,
ordered newest first.

Every stored version is scanned; older versions of the same name are
collapsed into the single newest one.

Example:
  pdfshelf list
  pdfshelf list --format table
  pdfshelf list --include 'reports/**' --exclude '**/draft-*'
  pdfshelf list --output catalog.jsonl`,
	RunE: runList,
}

var (
	listInclude  []string
	listExclude  []string
	listPrefix   string
	listOutput   string
	listFormat   string
	listPageSize int
	listMaxPages int
	listRate     float64
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringSliceVar(&listInclude, "include", nil, "Glob patterns to include")
	listCmd.Flags().StringSliceVar(&listExclude, "exclude", nil, "Glob patterns to exclude")
	listCmd.Flags().StringVar(&listPrefix, "prefix", "", "Restrict listing to names under this prefix")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "", "Output destination (default stdout)")
	listCmd.Flags().StringVar(&listFormat, "format", "jsonl", "Output format (jsonl|table)")
	listCmd.Flags().IntVar(&listPageSize, "page-size", 0, "Listing page size (default from config)")
	listCmd.Flags().IntVar(&listMaxPages, "max-pages", 0, "Abort after this many listing pages (0 = unlimited)")
	listCmd.Flags().Float64Var(&listRate, "rate-limit", 0, "Listing pages per second (0 = unlimited)")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if listFormat != "jsonl" && listFormat != "table" {
		return exitError(foundry.ExitInvalidArgument, "Invalid --format value",
			fmt.Errorf("unsupported format: %s (jsonl|table)", listFormat))
	}

	rt, err := openShelf(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	applyListOverrides(rt)

	var stats catalog.RefreshStats
	opts, err := rt.refreshOptions(listInclude, listExclude, &stats)
	if err != nil {
		return err
	}

	start := time.Now()
	entries, err := catalog.Refresh(ctx, rt.store, opts)
	if err != nil {
		observability.CLILogger.Error("Listing failed", zap.Error(err))
		return exitError(foundry.ExitExternalServiceUnavailable, "Listing failed", err)
	}

	observability.CLILogger.Debug("Catalog refreshed",
		zap.Int("entries", len(entries)),
		zap.Int64("versions_scanned", stats.Versions),
		zap.Int64("pages", stats.Pages))

	if listFormat == "table" {
		return printEntryTable(entries)
	}

	jobID := uuid.New().String()
	w, cleanup, err := createWriter(listOutput, jobID)
	if err != nil {
		return exitError(foundry.ExitFileWriteError, "Cannot open output", err)
	}
	defer cleanup()

	var bytesTotal int64
	for i := range entries {
		e := &entries[i]
		bytesTotal += e.Size
		rec := output.EntryRecord{Name: e.Name, ID: e.ID, Size: e.Size, UploadedAt: e.UploadedAt}
		if werr := w.WriteEntry(ctx, &rec); werr != nil {
			return exitError(foundry.ExitFileWriteError, "Output write failed", werr)
		}
	}

	elapsed := time.Since(start)
	sum := output.SummaryRecord{
		Entries:         int64(len(entries)),
		VersionsScanned: stats.Versions,
		BytesTotal:      bytesTotal,
		Duration:        elapsed,
		DurationHuman:   formatDuration(elapsed),
	}
	if werr := w.WriteSummary(ctx, &sum); werr != nil {
		return exitError(foundry.ExitFileWriteError, "Output write failed", werr)
	}

	return nil
}

// applyListOverrides folds command flags into the runtime settings.
func applyListOverrides(rt *shelfRuntime) {
	if listPrefix != "" {
		rt.prefix = listPrefix
	}
	if listPageSize > 0 {
		rt.pageSize = listPageSize
	}
	if listMaxPages > 0 {
		rt.maxPages = listMaxPages
	}
	if listRate > 0 {
		rt.limiter = newPageLimiter(listRate)
	}
}

func printEntryTable(entries []catalog.Entry) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tUPLOADED\tID")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			e.Name, formatSize(e.Size), formatUploadedAt(e.UploadedAt), e.ID)
	}
	return tw.Flush()
}
