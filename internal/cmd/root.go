// Package cmd implements the pdfshelf command-line interface.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fmoraes/pdfshelf/internal/config"
	"github.com/fmoraes/pdfshelf/internal/observability"
	"github.com/fmoraes/pdfshelf/internal/server/handlers"
	"github.com/fmoraes/pdfshelf/pkg/profile"
	"github.com/fmoraes/pdfshelf/pkg/provider/s3"
)

var rootCmd = &cobra.Command{
	Use:   "pdfshelf",
	Short: "PDF shelf over S3-compatible object storage",
	Long: `pdfshelf manages a shelf of PDF documents stored in an S3-compatible
bucket (AWS S3, Backblaze B2, MinIO, ...).

Every object upload creates a new version; the shelf presents the newest
version per name as a deduplicated catalog. Documents are viewed through
short-lived signed URLs, with a base64 data-URL fallback when signing is
not available.

Credentials come from the environment (PDFSHELF_KEY_ID,
PDFSHELF_APPLICATION_KEY, PDFSHELF_BUCKET) or a config file; they are
never baked into profiles or manifests.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initRuntime,
}

var (
	cfgFile     string
	profilePath string
	logLevel    string
	logProfile  string
)

// versionInfo holds the build metadata stamped in by the linker.
var versionInfo = struct {
	Version   string
	Commit    string
	BuildDate string
}{
	Version:   "dev",
	Commit:    "HEAD",
	BuildDate: "unknown",
}

// SetVersionInfo records the build metadata for the version command and the
// server's /version endpoint.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
	handlers.SetVersionInfo(version, commit, buildDate)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (default: ./pdfshelf.yaml)")
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "Path to a shelf profile (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logProfile, "log-profile", "", "Log encoding (structured|console)")
}

// initRuntime loads configuration and initializes logging before any command
// runs. Flag values take precedence over environment and file settings.
func initRuntime(cmd *cobra.Command, args []string) error {
	var overrides []map[string]any
	logOverride := map[string]any{}
	if logLevel != "" {
		logOverride["level"] = logLevel
	}
	if logProfile != "" {
		logOverride["profile"] = logProfile
	}
	if len(logOverride) > 0 {
		overrides = append(overrides, map[string]any{"logging": logOverride})
	}

	cfg, err := config.Load(cfgFile, overrides...)
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid configuration", err)
	}

	if err := observability.Init(cfg.Logging.Level, cfg.Logging.Profile); err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid logging configuration", err)
	}

	return nil
}

// Execute runs the CLI and exits the process with the command's exit code.
func Execute() {
	defer observability.Sync()

	if err := rootCmd.Execute(); err != nil {
		code := foundry.ExitInvalidArgument
		var coded *codedError
		if errors.As(err, &coded) {
			code = coded.code
		}
		observability.CLILogger.Error("Command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		observability.Sync()
		os.Exit(code)
	}
}

// codedError carries the process exit code alongside the failure.
type codedError struct {
	code int
	msg  string
	err  error
}

func (e *codedError) Error() string {
	return fmt.Sprintf("%s: %v (exit code %d)", e.msg, e.err, e.code)
}

func (e *codedError) Unwrap() error {
	return e.err
}

// exitError creates an error that will cause the CLI to exit with the given code.
func exitError(code int, message string, err error) error {
	return &codedError{code: code, msg: message, err: err}
}

// shelfRuntime bundles everything a storage-touching command needs: the
// store plus the effective catalog and link settings after profile merging.
type shelfRuntime struct {
	store *s3.Store

	extension string
	prefix    string
	includes  []string
	excludes  []string
	pageSize  int
	maxPages  int
	limiter   *rate.Limiter
	ttl       time.Duration
}

// openShelf builds the storage client from config plus the optional profile.
//
// Precedence for connection settings: profile > config. The application key
// always comes from config (environment); profiles never carry it.
func openShelf(cmd *cobra.Command) (*shelfRuntime, error) {
	cfg := config.GetConfig()
	if cfg == nil {
		return nil, exitError(foundry.ExitInvalidArgument, "Configuration not loaded", errors.New("config.Load has not run"))
	}

	rt := &shelfRuntime{
		extension: cfg.Catalog.Extension,
		prefix:    cfg.Catalog.Prefix,
		pageSize:  cfg.Catalog.PageSize,
		maxPages:  cfg.Catalog.MaxPages,
		ttl:       cfg.Link.TTL,
	}
	if cfg.Catalog.PageRate > 0 {
		rt.limiter = newPageLimiter(cfg.Catalog.PageRate)
	}

	s3cfg := s3.Config{
		Bucket:         cfg.Storage.Bucket,
		Region:         cfg.Storage.Region,
		Endpoint:       cfg.Storage.Endpoint,
		KeyID:          cfg.Storage.KeyID,
		ApplicationKey: cfg.Storage.ApplicationKey,
		ForcePathStyle: cfg.Storage.ForcePathStyle,
	}

	if profilePath != "" {
		p, err := profile.Load(profilePath)
		if err != nil {
			return nil, exitError(foundry.ExitInvalidArgument, "Invalid profile", err)
		}

		observability.CLILogger.Debug("Loaded profile",
			zap.String("path", profilePath),
			zap.String("bucket", p.Connection.Bucket))

		s3cfg.Bucket = p.Connection.Bucket
		if p.Connection.Endpoint != "" {
			s3cfg.Endpoint = p.Connection.Endpoint
		}
		if p.Connection.Region != "" {
			s3cfg.Region = p.Connection.Region
		}
		if p.Connection.KeyID != "" {
			s3cfg.KeyID = p.Connection.KeyID
		}

		rt.extension = p.Catalog.Extension
		if p.Catalog.Prefix != "" {
			rt.prefix = p.Catalog.Prefix
		}
		rt.includes = p.Catalog.Includes
		rt.excludes = p.Catalog.Excludes
		rt.ttl = p.Link.TTL()
	}

	if s3cfg.KeyID == "" || s3cfg.ApplicationKey == "" || s3cfg.Bucket == "" {
		err := cfg.RequireSecrets()
		if err == nil {
			err = config.ErrMissingSecrets
		}
		return nil, exitError(foundry.ExitInvalidArgument, "Missing storage secrets", err)
	}

	store, err := s3.New(cmd.Context(), s3cfg)
	if err != nil {
		return nil, exitError(foundry.ExitExternalServiceUnavailable, "Cannot initialize storage client", err)
	}

	rt.store = store
	return rt, nil
}

func (rt *shelfRuntime) close() {
	if rt.store != nil {
		_ = rt.store.Close()
	}
}
