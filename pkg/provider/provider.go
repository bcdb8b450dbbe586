// Package provider defines abstractions for the object-storage backend that
// holds the document shelf.
//
// Stores implement a minimal surface area: listing stored-object versions,
// uploading documents, and retrieving bytes by version identifier. Durability,
// retries, and signed-URL cryptography remain the storage provider's
// responsibility - stores only translate calls into SDK requests.
package provider

import (
	"context"
	"io"
)

// Store abstracts the object-storage operations the document shelf depends on.
//
// Implementations should:
//   - Authenticate with explicit application credentials or the SDK default chain
//   - Support pagination via continuation tokens on ListVersions
//   - Be safe for concurrent use
//
// Signed-URL issuance is an optional capability; see URLSigner.
type Store interface {
	// ListVersions returns a page of stored-object version records.
	// Use ContinuationToken from ListResult for subsequent pages.
	ListVersions(ctx context.Context, opts ListOptions) (*ListResult, error)

	// Upload stores a document under the given name and returns the
	// resulting version record, including its opaque identifier.
	Upload(ctx context.Context, name, contentType string, body io.Reader, contentLength int64) (*ObjectVersion, error)

	// Download retrieves the bytes of a single stored version by its
	// opaque identifier.
	Download(ctx context.Context, id VersionID) (body io.ReadCloser, contentLength int64, err error)

	// Verify probes the credentials and bucket without side effects.
	// Returns ErrInvalidCredentials or ErrBucketNotFound on failure.
	Verify(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// VersionID is the opaque identifier of one stored-object version.
// Its contents are provider-specific and must not be interpreted.
type VersionID struct {
	// Name is the object name the version belongs to.
	Name string

	// ID is the provider-assigned version identifier. May be empty for
	// stores without versioning, in which case Name alone addresses the
	// current content.
	ID string
}

// ListOptions configures a ListVersions operation.
type ListOptions struct {
	// Prefix filters results to names starting with this value.
	// Empty string lists all objects.
	Prefix string

	// ContinuationToken resumes listing from a previous ListResult.
	// Empty string starts from the beginning.
	ContinuationToken string

	// MaxKeys limits the number of versions returned per page.
	// Zero uses the store default (typically 1000).
	MaxKeys int
}

// ListResult contains a page of version records from a ListVersions call.
type ListResult struct {
	// Versions contains the stored-object version records for this page.
	Versions []ObjectVersion

	// ContinuationToken is used to retrieve the next page.
	// Empty string indicates no more pages.
	ContinuationToken string

	// IsTruncated indicates whether more results are available.
	IsTruncated bool
}

// ObjectVersion is the metadata for one stored-object version as returned
// by the storage listing or upload call. Immutable once received.
type ObjectVersion struct {
	// Name is the full object name in the bucket.
	Name string

	// ID is the provider-assigned opaque version identifier.
	ID string

	// Size is the version size in bytes.
	Size int64

	// UploadedAt is the upload timestamp in epoch milliseconds.
	UploadedAt int64

	// ETag is the entity tag, when the store reports one.
	ETag string
}

// VersionID returns the identifier addressing this version for Download.
func (v ObjectVersion) VersionID() VersionID {
	return VersionID{Name: v.Name, ID: v.ID}
}

// StoreType identifies an object-storage backend.
type StoreType string

const (
	// StoreS3 represents AWS S3 or S3-compatible storage (Backblaze B2,
	// MinIO, Wasabi).
	StoreS3 StoreType = "s3"
)

// String returns the string representation of the store type.
func (s StoreType) String() string {
	return string(s)
}
