package catalog

import "sync"

// SessionRecord describes one upload performed during the current process
// lifetime. It exists purely for client-side recall; the canonical catalog
// is always re-derived from the storage listing, never from this record.
type SessionRecord struct {
	// Name is the uploaded document name.
	Name string `json:"name"`

	// ID is the version identifier returned by the upload call.
	ID string `json:"id"`

	// Size is the uploaded payload size in bytes.
	Size int64 `json:"size"`

	// UploadedAt is the upload timestamp in epoch milliseconds.
	UploadedAt int64 `json:"uploaded_at"`
}

// SessionLog is a caller-owned, append-only list of uploads performed in
// this process. It is ephemeral and lost on exit.
//
// The log is mutex-guarded because the HTTP surface appends from concurrent
// request handlers. It must never be treated as the source of truth for the
// catalog.
type SessionLog struct {
	mu      sync.Mutex
	records []SessionRecord
}

// NewSessionLog creates an empty session log.
func NewSessionLog() *SessionLog {
	return &SessionLog{}
}

// Append records one successful upload.
func (l *SessionLog) Append(rec SessionRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
}

// Records returns a copy of the recorded uploads in append order.
func (l *SessionLog) Records() []SessionRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]SessionRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of recorded uploads.
func (l *SessionLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
