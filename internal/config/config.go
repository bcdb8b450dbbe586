// Package config loads the process configuration.
//
// Precedence: runtime overrides > environment variables > config file >
// defaults. Environment variables use the PDFSHELF_ prefix
// (PDFSHELF_KEY_ID, PDFSHELF_APPLICATION_KEY, PDFSHELF_BUCKET, ...).
//
// The three storage secrets are required for every storage-touching command
// and are never given defaults or written to logs.
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config is the full process configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Link    LinkConfig    `mapstructure:"link"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// MaxUploadBytes bounds multipart upload bodies.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

// StorageConfig holds the storage connection settings.
//
// KeyID, ApplicationKey, and Bucket are the three required secrets; they are
// supplied via environment or config file, never hard-coded.
type StorageConfig struct {
	KeyID          string `mapstructure:"key_id"`
	ApplicationKey string `mapstructure:"application_key"`
	Bucket         string `mapstructure:"bucket"`
	Endpoint       string `mapstructure:"endpoint"`
	Region         string `mapstructure:"region"`
	ForcePathStyle bool   `mapstructure:"force_path_style"`
}

// CatalogConfig holds catalog construction settings.
type CatalogConfig struct {
	Extension string `mapstructure:"extension"`
	Prefix    string `mapstructure:"prefix"`
	PageSize  int    `mapstructure:"page_size"`
	MaxPages  int    `mapstructure:"max_pages"`

	// PageRate limits listing page fetches per second. Zero disables.
	PageRate float64 `mapstructure:"page_rate"`
}

// LinkConfig holds view-link settings.
type LinkConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Profile string `mapstructure:"profile"`
}

// EnvPrefix is the environment variable prefix.
const EnvPrefix = "PDFSHELF"

var (
	configMu  sync.Mutex
	appConfig *Config
)

// ErrMissingSecrets is wrapped by RequireSecrets failures.
var ErrMissingSecrets = errors.New("missing storage secrets")

// Load builds the configuration from defaults, an optional config file, the
// environment, and optional runtime overrides (highest precedence). The
// loaded configuration becomes the one returned by GetConfig.
func Load(configFile string, overrides ...map[string]any) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvAliases(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("pdfshelf")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/pdfshelf")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	// Set puts overrides at viper's highest precedence, above environment
	// variables. MergeConfigMap would sit below them.
	for _, override := range overrides {
		applyOverrides(v, "", override)
	}

	var cfg Config
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	configMu.Lock()
	appConfig = &cfg
	configMu.Unlock()

	return &cfg, nil
}

// GetConfig returns the most recently loaded configuration, or nil before
// the first Load.
func GetConfig() *Config {
	configMu.Lock()
	defer configMu.Unlock()
	return appConfig
}

// RequireSecrets verifies the three required storage secrets are present.
func (c *Config) RequireSecrets() error {
	var missing []string
	if c.Storage.KeyID == "" {
		missing = append(missing, "storage.key_id")
	}
	if c.Storage.ApplicationKey == "" {
		missing = append(missing, "storage.application_key")
	}
	if c.Storage.Bucket == "" {
		missing = append(missing, "storage.bucket")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s (set %s_KEY_ID, %s_APPLICATION_KEY, %s_BUCKET)",
			ErrMissingSecrets, strings.Join(missing, ", "), EnvPrefix, EnvPrefix, EnvPrefix)
	}
	return nil
}

// applyOverrides flattens a nested override map into dotted Set calls.
func applyOverrides(v *viper.Viper, prefix string, values map[string]any) {
	for key, val := range values {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := val.(map[string]any); ok {
			applyOverrides(v, full, nested)
			continue
		}
		v.Set(full, val)
	}
}

// setDefaults registers every default value. Secrets get no defaults.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_upload_bytes", int64(64<<20))

	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.region", "")
	v.SetDefault("storage.force_path_style", true)

	v.SetDefault("catalog.extension", ".pdf")
	v.SetDefault("catalog.prefix", "")
	v.SetDefault("catalog.page_size", 1000)
	v.SetDefault("catalog.max_pages", 0)
	v.SetDefault("catalog.page_rate", 0.0)

	v.SetDefault("link.ttl", "60s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.profile", "structured")
}

// bindEnvAliases binds the flat environment names used in deployment docs
// (PDFSHELF_KEY_ID instead of PDFSHELF_STORAGE_KEY_ID).
func bindEnvAliases(v *viper.Viper) {
	_ = v.BindEnv("storage.key_id", "PDFSHELF_KEY_ID", "PDFSHELF_STORAGE_KEY_ID")
	_ = v.BindEnv("storage.application_key", "PDFSHELF_APPLICATION_KEY", "PDFSHELF_STORAGE_APPLICATION_KEY")
	_ = v.BindEnv("storage.bucket", "PDFSHELF_BUCKET", "PDFSHELF_STORAGE_BUCKET")
	_ = v.BindEnv("storage.endpoint", "PDFSHELF_ENDPOINT", "PDFSHELF_STORAGE_ENDPOINT")
	_ = v.BindEnv("storage.region", "PDFSHELF_REGION", "PDFSHELF_STORAGE_REGION")
	_ = v.BindEnv("server.port", "PDFSHELF_PORT")
	_ = v.BindEnv("server.host", "PDFSHELF_HOST")
	_ = v.BindEnv("logging.level", "PDFSHELF_LOG_LEVEL")
}
