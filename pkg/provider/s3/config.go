// Package s3 implements the store interface for AWS S3 and S3-compatible
// object storage, including Backblaze B2's S3 endpoint.
package s3

// Config configures an S3 store.
//
// Authentication priority (AWS SDK v2 default chain):
//  1. Explicit KeyID/ApplicationKey (if provided)
//  2. Environment variables (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY)
//  3. Shared credentials file (~/.aws/credentials)
//  4. Shared config file (~/.aws/config) with profile
//
// For Backblaze B2, set Endpoint to the bucket's S3 endpoint
// (e.g. https://s3.us-west-004.backblazeb2.com) and supply the application
// key pair as KeyID/ApplicationKey. Most S3-compatible stores also need
// ForcePathStyle.
type Config struct {
	// Bucket is the bucket name (required).
	Bucket string

	// Region is the AWS region.
	// For AWS S3: defaults to us-east-1 if not specified via config or environment.
	// For S3-compatible (when Endpoint is set): no default applied.
	Region string

	// Endpoint is a custom endpoint URL for S3-compatible stores.
	// Leave empty for AWS S3.
	// Examples:
	//   - Backblaze B2: https://s3.us-west-004.backblazeb2.com
	//   - MinIO: http://localhost:9000
	//   - Wasabi: https://s3.wasabisys.com
	Endpoint string

	// Profile is the AWS profile name to use from shared config.
	// Leave empty to use the default profile or explicit keys.
	Profile string

	// KeyID is the storage key identifier (B2 application key ID or AWS
	// access key ID). If set, ApplicationKey must also be set.
	KeyID string

	// ApplicationKey is the storage application key (secret). Required if
	// KeyID is set.
	ApplicationKey string

	// ForcePathStyle forces path-style URLs (bucket in path, not subdomain).
	// Required for most S3-compatible stores.
	ForcePathStyle bool

	// MaxKeys is the default page size for ListVersions operations.
	// Zero uses the store default (1000). Values over 1000 are clamped.
	MaxKeys int
}

// DefaultMaxKeys is the default page size for ListVersions operations.
const DefaultMaxKeys = 1000

// MaxAllowedKeys is the maximum page size allowed by the S3 API.
const MaxAllowedKeys = 1000

// DefaultAWSRegion is the fallback region for AWS S3 when not specified.
const DefaultAWSRegion = "us-east-1"

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return &ConfigError{Field: "Bucket", Message: "bucket name is required"}
	}

	// If one explicit credential is set, both must be set
	if (c.KeyID != "") != (c.ApplicationKey != "") {
		return &ConfigError{
			Field:   "KeyID/ApplicationKey",
			Message: "both key ID and application key must be provided together",
		}
	}

	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "s3 config: " + e.Field + ": " + e.Message
}
