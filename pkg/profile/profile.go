// Package profile loads bucket profiles: small YAML or JSON documents that
// describe one shelf's storage connection and catalog options.
//
// A profile never carries the application key itself; secrets come from the
// environment or the process configuration so profile files can be committed.
package profile

import (
	"errors"
	"fmt"
	"time"
)

// Profile describes one document shelf.
type Profile struct {
	// Connection identifies the bucket and endpoint.
	Connection Connection `yaml:"connection" json:"connection"`

	// Catalog holds catalog construction options.
	Catalog Catalog `yaml:"catalog" json:"catalog"`

	// Link holds view-link options.
	Link Link `yaml:"link" json:"link"`
}

// Connection identifies the storage backend for a profile.
type Connection struct {
	// Store is the backend type. Only "s3" is supported.
	Store string `yaml:"store" json:"store"`

	// Bucket is the bucket name (required).
	Bucket string `yaml:"bucket" json:"bucket"`

	// Endpoint is the custom endpoint URL for S3-compatible stores
	// (e.g. a Backblaze B2 S3 endpoint). Empty means AWS S3.
	Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`

	// Region is the bucket region, when the endpoint requires one.
	Region string `yaml:"region,omitempty" json:"region,omitempty"`

	// KeyID is the storage key identifier. The matching application key is
	// never stored in the profile; it is read from configuration.
	KeyID string `yaml:"key_id,omitempty" json:"key_id,omitempty"`
}

// Catalog holds catalog construction options for a profile.
type Catalog struct {
	// Extension is the accepted file extension. Default ".pdf".
	Extension string `yaml:"extension,omitempty" json:"extension,omitempty"`

	// Prefix narrows listings to names under this prefix.
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty"`

	// Includes and Excludes are glob patterns applied to names.
	Includes []string `yaml:"includes,omitempty" json:"includes,omitempty"`
	Excludes []string `yaml:"excludes,omitempty" json:"excludes,omitempty"`
}

// Link holds view-link options for a profile.
type Link struct {
	// TTLSeconds is the signed-URL validity in seconds. Default 60.
	TTLSeconds int `yaml:"ttl_seconds,omitempty" json:"ttl_seconds,omitempty"`
}

// TTL returns the signed-URL validity as a duration.
func (l Link) TTL() time.Duration {
	return time.Duration(l.TTLSeconds) * time.Second
}

// Validation errors.
var (
	// ErrMissingBucket indicates the profile has no bucket name.
	ErrMissingBucket = errors.New("profile: connection.bucket is required")

	// ErrUnsupportedStore indicates an unknown backend type.
	ErrUnsupportedStore = errors.New("profile: unsupported store")
)

// Validate checks the profile for structural problems.
func (p *Profile) Validate() error {
	if p.Connection.Bucket == "" {
		return ErrMissingBucket
	}
	if p.Connection.Store != "" && p.Connection.Store != "s3" {
		return fmt.Errorf("%w: %s (supported: s3)", ErrUnsupportedStore, p.Connection.Store)
	}
	return nil
}

// ApplyDefaults fills optional fields with their defaults.
func (p *Profile) ApplyDefaults() {
	if p.Connection.Store == "" {
		p.Connection.Store = "s3"
	}
	if p.Catalog.Extension == "" {
		p.Catalog.Extension = ".pdf"
	}
	if p.Link.TTLSeconds <= 0 {
		p.Link.TTLSeconds = 60
	}
}
