package cmd

import (
	"fmt"
	"runtime"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fmoraes/pdfshelf/internal/config"
	"github.com/fmoraes/pdfshelf/internal/observability"
	"github.com/fmoraes/pdfshelf/pkg/provider"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run diagnostic checks",
	Long: `Run diagnostic checks against the configured shelf and suggest fixes
for common issues.

Example:
  pdfshelf doctor
  pdfshelf doctor --profile shelf.yaml`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	log := observability.CLILogger
	log.Info("=== pdfshelf doctor ===")
	log.Info("")
	log.Info("Running diagnostic checks...")
	log.Info("")

	const totalChecks = 4
	allChecks := true

	// Check 1: required secrets
	cfg := config.GetConfig()
	if err := cfg.RequireSecrets(); err != nil {
		log.Error(fmt.Sprintf("[1/%d] Checking storage secrets... ❌ %v", totalChecks, err))
		printSecretsHelp()
		return exitError(foundry.ExitInvalidArgument, "Missing storage secrets", err)
	}
	log.Info(fmt.Sprintf("[1/%d] Checking storage secrets... ✅ key %s", totalChecks, maskKeyID(cfg.Storage.KeyID)),
		zap.String("bucket", cfg.Storage.Bucket))

	// Check 2: bucket reachability
	rt, err := openShelf(cmd)
	if err != nil {
		log.Error(fmt.Sprintf("[2/%d] Checking bucket access... ❌ cannot build storage client", totalChecks),
			zap.Error(err))
		return err
	}
	defer rt.close()

	if err := rt.store.Verify(cmd.Context()); err != nil {
		log.Error(fmt.Sprintf("[2/%d] Checking bucket access... ❌ %v", totalChecks, err))
		printSecretsHelp()
		return exitError(foundry.ExitExternalServiceUnavailable, "Bucket verification failed", err)
	}
	log.Info(fmt.Sprintf("[2/%d] Checking bucket access... ✅ %s reachable", totalChecks, cfg.Storage.Bucket))

	// Check 3: signed-URL capability
	if provider.AsURLSigner(rt.store) != nil {
		log.Info(fmt.Sprintf("[3/%d] Checking signed-URL support... ✅ available", totalChecks))
	} else {
		log.Warn(fmt.Sprintf("[3/%d] Checking signed-URL support... ⚠️  unavailable, view links will embed bytes as data URLs", totalChecks))
		allChecks = false
	}

	// Check 4: environment
	log.Info(fmt.Sprintf("[4/%d] Checking environment... ✅ %s/%s %s", totalChecks,
		runtime.GOOS, runtime.GOARCH, runtime.Version()),
		zap.String("os", runtime.GOOS),
		zap.String("arch", runtime.GOARCH))

	log.Info("")
	if allChecks {
		log.Info("✅ All checks passed! Your shelf is healthy.")
	} else {
		log.Warn("⚠️  Some checks failed. Review the output above for details.")
	}
	log.Info("")
	log.Info("=== End Diagnostics ===")

	return nil
}

// maskKeyID masks all but the last 4 characters of a key ID.
func maskKeyID(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

// printSecretsHelp prints help for configuring storage credentials.
func printSecretsHelp() {
	log := observability.CLILogger
	log.Info("")
	log.Info("To configure storage credentials:")
	log.Info("  1. Set PDFSHELF_KEY_ID, PDFSHELF_APPLICATION_KEY, and PDFSHELF_BUCKET, or")
	log.Info("  2. Put them under storage: in pdfshelf.yaml")
	log.Info("")
	log.Info("For S3-compatible storage (Backblaze B2, MinIO, ...), also set:")
	log.Info("  - PDFSHELF_ENDPOINT to the bucket's S3 endpoint")
	log.Info("")
}
