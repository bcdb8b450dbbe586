// Package output provides JSONL output for shelf commands.
//
// Output is structured as typed record envelopes containing catalog entries,
// upload results, links, errors, and summaries. Each line is a
// self-contained JSON object that can be parsed independently.
package output

import (
	"encoding/json"
	"errors"
	"time"
)

// Record type constants define the envelope types for JSONL output.
// These follow the pattern: pdfshelf.<type>.v<version>
const (
	// TypeEntry identifies catalog entry records.
	TypeEntry = "pdfshelf.entry.v1"

	// TypeUpload identifies upload result records.
	TypeUpload = "pdfshelf.upload.v1"

	// TypeLink identifies view-link records.
	TypeLink = "pdfshelf.link.v1"

	// TypeError identifies error records.
	TypeError = "pdfshelf.error.v1"

	// TypeSummary identifies final summary records.
	TypeSummary = "pdfshelf.summary.v1"
)

// Record is the envelope for all JSONL output.
type Record struct {
	// Type identifies the record type (e.g., "pdfshelf.entry.v1").
	Type string `json:"type"`

	// TS is the timestamp when the record was created (RFC3339Nano).
	TS time.Time `json:"ts"`

	// JobID is the correlation ID for this command invocation.
	JobID string `json:"job_id"`

	// Store identifies the storage backend (e.g., "s3").
	Store string `json:"store"`

	// Data contains the type-specific payload as raw JSON.
	Data json.RawMessage `json:"data"`
}

// EntryRecord is the data payload for one catalog entry.
type EntryRecord struct {
	// Name is the document name.
	Name string `json:"name"`

	// ID is the opaque version identifier of the retained version.
	ID string `json:"id"`

	// Size is the size in bytes.
	Size int64 `json:"size"`

	// UploadedAt is the upload timestamp in epoch milliseconds.
	UploadedAt int64 `json:"uploaded_at"`
}

// UploadRecord is the data payload for a completed upload.
type UploadRecord struct {
	Name       string `json:"name"`
	ID         string `json:"id"`
	Size       int64  `json:"size"`
	UploadedAt int64  `json:"uploaded_at"`
}

// LinkRecord is the data payload for a resolved view link.
type LinkRecord struct {
	Name string `json:"name"`

	// Mode is "signed" or "data-url".
	Mode string `json:"mode"`

	URL string `json:"url"`

	// ExpiresAt is the signed-URL expiry in epoch milliseconds; zero for
	// data URLs.
	ExpiresAt int64 `json:"expires_at,omitempty"`
}

// ErrorRecord is the data payload for errors.
type ErrorRecord struct {
	// Code is a machine-readable error code.
	Code string `json:"code"`

	// Message is a human-readable error description.
	Message string `json:"message"`

	// Name is the document name related to this error, if applicable.
	Name string `json:"name,omitempty"`

	// Details contains additional error context.
	Details any `json:"details,omitempty"`
}

// Error codes for ErrorRecord.
const (
	// ErrCodeAuth indicates credential or bucket authorization failure.
	ErrCodeAuth = "AUTH_FAILED"

	// ErrCodeList indicates the listing call failed.
	ErrCodeList = "LIST_FAILED"

	// ErrCodeUpload indicates the upload call failed.
	ErrCodeUpload = "UPLOAD_FAILED"

	// ErrCodeDownload indicates byte retrieval failed.
	ErrCodeDownload = "DOWNLOAD_FAILED"

	// ErrCodeSign indicates signed-URL issuance failed or is unsupported.
	ErrCodeSign = "SIGN_FAILED"

	// ErrCodeNotFound indicates the document was not found.
	ErrCodeNotFound = "NOT_FOUND"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal = "INTERNAL"
)

// SummaryRecord is the data payload for final summaries.
type SummaryRecord struct {
	// Entries is the number of catalog entries emitted.
	Entries int64 `json:"entries"`

	// VersionsScanned is the number of raw version records consumed.
	VersionsScanned int64 `json:"versions_scanned"`

	// BytesTotal is the cumulative size of emitted entries in bytes.
	BytesTotal int64 `json:"bytes_total"`

	// Duration is the total command duration.
	Duration time.Duration `json:"duration_ns"`

	// DurationHuman is a human-readable duration string.
	DurationHuman string `json:"duration"`
}

// Writer errors.
var (
	// ErrWriterClosed is returned when writing to a closed writer.
	ErrWriterClosed = errors.New("writer is closed")
)

// WriteError wraps errors that occur during write operations.
type WriteError struct {
	Op  string // Operation that failed (e.g., "marshal_data", "write")
	Err error  // Underlying error
}

func (e *WriteError) Error() string {
	return "output: " + e.Op + ": " + e.Err.Error()
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
