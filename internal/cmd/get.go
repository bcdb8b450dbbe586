package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fmoraes/pdfshelf/internal/observability"
	"github.com/fmoraes/pdfshelf/pkg/catalog"
	"github.com/fmoraes/pdfshelf/pkg/retrieve"
)

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Download a document",
	Long: `Download the newest version of the named document to a local file.

The catalog is refreshed first, so the bytes always come from the version
the listing currently shows.

Example:
  pdfshelf get report.pdf
  pdfshelf get reports/2026/q3.pdf -o /tmp/q3.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

var getOutput string

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&getOutput, "output", "o", "", "Destination path (default: document basename)")
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name := args[0]

	rt, err := openShelf(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	entry, err := findEntry(cmd, rt, name)
	if err != nil {
		return err
	}

	dest := getOutput
	if dest == "" {
		dest = filepath.Base(entry.Name)
	}

	n, err := retrieve.ToFile(ctx, rt.store, entry.VersionID(), dest)
	if err != nil {
		observability.CLILogger.Error("Download failed",
			zap.String("name", entry.Name),
			zap.Error(err))
		return exitError(foundry.ExitExternalServiceUnavailable, "Download failed", err)
	}

	observability.CLILogger.Info("Downloaded document",
		zap.String("name", entry.Name),
		zap.String("path", dest),
		zap.Int64("bytes", n))
	fmt.Printf("Wrote %s (%s) to %s\n", entry.Name, formatSize(n), dest)

	return nil
}

// findEntry refreshes the catalog and locates the named document.
func findEntry(cmd *cobra.Command, rt *shelfRuntime, name string) (catalog.Entry, error) {
	opts, err := rt.refreshOptions(nil, nil, nil)
	if err != nil {
		return catalog.Entry{}, err
	}

	entries, err := catalog.Refresh(cmd.Context(), rt.store, opts)
	if err != nil {
		return catalog.Entry{}, exitError(foundry.ExitExternalServiceUnavailable, "Listing failed", err)
	}

	entry, found := catalog.Find(entries, name)
	if !found {
		return catalog.Entry{}, exitError(foundry.ExitFileNotFound, "Document not found",
			fmt.Errorf("no document named %q on the shelf", name))
	}
	return entry, nil
}
