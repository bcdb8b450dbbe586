package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fmoraes/pdfshelf/internal/observability"
	"github.com/fmoraes/pdfshelf/pkg/output"
	"github.com/fmoraes/pdfshelf/pkg/viewlink"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file> [file...]",
	Short: "Upload documents to the shelf",
	Long: `Upload one or more local PDF files to the shelf.

Each upload creates a new stored version; an existing document with the
same name is never overwritten, the catalog simply starts showing the new
version.

Example:
  pdfshelf upload report.pdf
  pdfshelf upload a.pdf b.pdf c.pdf
  pdfshelf upload draft.pdf --name reports/2026/q3.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

var (
	uploadName   string
	uploadOutput string
)

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVar(&uploadName, "name", "", "Stored name override (single file only)")
	uploadCmd.Flags().StringVarP(&uploadOutput, "output", "o", "", "Output destination (default stdout)")
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if uploadName != "" && len(args) > 1 {
		return exitError(foundry.ExitInvalidArgument, "Invalid --name usage",
			fmt.Errorf("--name applies to a single file, got %d", len(args)))
	}

	rt, err := openShelf(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	jobID := uuid.New().String()
	w, cleanup, err := createWriter(uploadOutput, jobID)
	if err != nil {
		return exitError(foundry.ExitFileWriteError, "Cannot open output", err)
	}
	defer cleanup()

	var failed int
	for _, path := range args {
		name := uploadName
		if name == "" {
			name = filepath.Base(path)
		}

		if !strings.HasSuffix(strings.ToLower(name), rt.extension) {
			failed++
			_ = w.WriteError(ctx, &output.ErrorRecord{
				Code:    output.ErrCodeUpload,
				Message: fmt.Sprintf("only %s files are accepted", rt.extension),
				Name:    name,
			})
			continue
		}

		rec, uerr := uploadOne(cmd, rt, path, name)
		if uerr != nil {
			failed++
			observability.CLILogger.Error("Upload failed",
				zap.String("path", path),
				zap.Error(uerr))
			_ = w.WriteError(ctx, &output.ErrorRecord{
				Code:    output.ErrCodeUpload,
				Message: uerr.Error(),
				Name:    name,
			})
			continue
		}

		observability.CLILogger.Info("Uploaded document",
			zap.String("name", rec.Name),
			zap.String("id", rec.ID),
			zap.Int64("size", rec.Size))

		if werr := w.WriteUpload(ctx, rec); werr != nil {
			return exitError(foundry.ExitFileWriteError, "Output write failed", werr)
		}
	}

	if failed > 0 {
		return exitError(foundry.ExitExternalServiceUnavailable, "Some uploads failed",
			fmt.Errorf("%d of %d uploads failed", failed, len(args)))
	}
	return nil
}

func uploadOne(cmd *cobra.Command, rt *shelfRuntime, path, name string) (*output.UploadRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	ver, err := rt.store.Upload(cmd.Context(), name, viewlink.PDFContentType, f, info.Size())
	if err != nil {
		return nil, err
	}

	return &output.UploadRecord{
		Name:       ver.Name,
		ID:         ver.ID,
		Size:       ver.Size,
		UploadedAt: ver.UploadedAt,
	}, nil
}
