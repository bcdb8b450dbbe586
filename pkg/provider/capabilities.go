package provider

import (
	"context"
	"time"
)

// Optional store capability interfaces.
//
// These interfaces are used for feature detection (type assertions). The core
// Store interface remains intentionally small; callers that need signed URLs
// must tolerate their absence and fall back to byte download.

// URLSigner can issue time-limited authorized URLs for stored objects.
type URLSigner interface {
	// SignURL returns a URL granting temporary read access to the named
	// object. The URL embeds the authorization; no further credentials
	// are needed to dereference it.
	SignURL(ctx context.Context, name string, ttl time.Duration) (string, error)
}

// AsURLSigner returns the store's URLSigner capability, or nil when the
// store cannot issue signed URLs.
func AsURLSigner(s Store) URLSigner {
	if signer, ok := s.(URLSigner); ok {
		return signer
	}
	return nil
}
