package cmd

import (
	"fmt"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fmoraes/pdfshelf/internal/observability"
	"github.com/fmoraes/pdfshelf/pkg/output"
	"github.com/fmoraes/pdfshelf/pkg/viewlink"
)

var linkCmd = &cobra.Command{
	Use:   "link <name>",
	Short: "Produce a view link for a document",
	Long: `Produce an openable link for the newest version of the named document.

A short-lived signed URL is preferred. When signing fails or the store
cannot sign, the document bytes are embedded as a base64 data URL instead;
use --signed-only to treat that case as an error.

Example:
  pdfshelf link report.pdf
  pdfshelf link report.pdf --ttl 5m
  pdfshelf link report.pdf --signed-only --url-only`,
	Args: cobra.ExactArgs(1),
	RunE: runLink,
}

var (
	linkTTL        time.Duration
	linkSignedOnly bool
	linkURLOnly    bool
)

func init() {
	rootCmd.AddCommand(linkCmd)

	linkCmd.Flags().DurationVar(&linkTTL, "ttl", 0, "Signed-URL validity (default from config, 60s)")
	linkCmd.Flags().BoolVar(&linkSignedOnly, "signed-only", false, "Fail instead of falling back to a data URL")
	linkCmd.Flags().BoolVar(&linkURLOnly, "url-only", false, "Print only the URL")
}

func runLink(cmd *cobra.Command, args []string) error {
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

	ttl := rt.ttl
	if linkTTL > 0 {
		ttl = linkTTL
	}

	var link *viewlink.Link
	if linkSignedOnly {
		link, err = viewlink.ResolveSignedOnly(ctx, rt.store, entry, ttl)
	} else {
		link, err = viewlink.Resolve(ctx, rt.store, entry, ttl)
	}
	if err != nil {
		observability.CLILogger.Error("Link resolution failed",
			zap.String("name", entry.Name),
			zap.Error(err))
		return exitError(foundry.ExitExternalServiceUnavailable, "Link resolution failed", err)
	}

	observability.CLILogger.Debug("Resolved link",
		zap.String("name", entry.Name),
		zap.String("mode", string(link.Mode)))

	if linkURLOnly {
		fmt.Println(link.URL)
		return nil
	}

	jobID := uuid.New().String()
	w, cleanup, err := createWriter("", jobID)
	if err != nil {
		return exitError(foundry.ExitFileWriteError, "Cannot open output", err)
	}
	defer cleanup()

	rec := output.LinkRecord{
		Name:      entry.Name,
		Mode:      string(link.Mode),
		URL:       link.URL,
		ExpiresAt: link.ExpiresAt,
	}
	if werr := w.WriteLink(ctx, &rec); werr != nil {
		return exitError(foundry.ExitFileWriteError, "Output write failed", werr)
	}

	return nil
}
