package provider

import (
	"errors"
	"fmt"
)

// Operation names used in StorageError.Op. Each maps to one user-visible
// failure kind surfaced by the presentation layer.
const (
	OpVerify   = "Verify"   // authentication / bucket probe
	OpList     = "List"     // version listing
	OpUpload   = "Upload"   // document upload
	OpDownload = "Download" // byte retrieval
	OpSignURL  = "SignURL"  // signed-URL issuance
)

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates the requested object or version does not exist.
	ErrNotFound = errors.New("object not found")

	// ErrAccessDenied indicates insufficient permissions.
	ErrAccessDenied = errors.New("access denied")

	// ErrBucketNotFound indicates the bucket does not exist.
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrInvalidCredentials indicates authentication failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrStoreUnavailable indicates the storage service is unavailable.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrSignUnsupported indicates the store cannot issue signed URLs.
	ErrSignUnsupported = errors.New("signed URLs not supported")
)

// StorageError wraps store-specific errors with operation context.
type StorageError struct {
	// Op is the operation that failed (OpList, OpUpload, ...).
	Op string

	// Store is the backend type (e.g., "s3").
	Store StoreType

	// Bucket is the bucket name, if applicable.
	Bucket string

	// Name is the object name, if applicable.
	Name string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %s: %s/%s: %v", e.Store, e.Op, e.Bucket, e.Name, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("%s %s: %s: %v", e.Store, e.Op, e.Bucket, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Store, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// OpOf returns the failed operation name when err carries one, or "".
// The presentation layer uses this to label failures (list vs upload vs
// download) without inspecting provider internals.
func OpOf(err error) string {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Op
	}
	return ""
}

// IsNotFound returns true if the error indicates an object was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAccessDenied returns true if the error indicates insufficient permissions.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsBucketNotFound returns true if the error indicates the bucket does not exist.
func IsBucketNotFound(err error) bool {
	return errors.Is(err, ErrBucketNotFound)
}

// IsInvalidCredentials returns true if the error indicates authentication failed.
func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

// IsStoreUnavailable returns true if the error indicates the storage service is unavailable.
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IsSignUnsupported returns true if the error indicates signed URLs are not available.
func IsSignUnsupported(err error) bool {
	return errors.Is(err, ErrSignUnsupported)
}
