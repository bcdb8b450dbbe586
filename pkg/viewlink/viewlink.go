// Package viewlink resolves catalog entries to openable links.
//
// The preferred link is a time-limited signed URL issued by the store. When
// signed-URL issuance fails or the store lacks the capability, the bytes are
// downloaded and embedded as a base64 data URL instead. The fallback is
// deliberate policy, not an error path: it is always attempted before a
// failure is reported.
package viewlink

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/fmoraes/pdfshelf/pkg/catalog"
	"github.com/fmoraes/pdfshelf/pkg/provider"
	"github.com/fmoraes/pdfshelf/pkg/retrieve"
)

// DefaultTTL is the signed-URL validity applied when none is configured.
const DefaultTTL = 60 * time.Second

// PDFContentType is the MIME type used for uploads, downloads, and data URLs.
const PDFContentType = "application/pdf"

// Mode identifies how a link was produced.
type Mode string

const (
	// ModeSigned means the link is a provider-issued signed URL.
	ModeSigned Mode = "signed"

	// ModeDataURL means the link embeds the document bytes as base64.
	ModeDataURL Mode = "data-url"
)

// Link is an openable reference to one document version.
type Link struct {
	// URL is the openable link (https signed URL or data: URL).
	URL string `json:"url"`

	// Mode records which path produced the link.
	Mode Mode `json:"mode"`

	// ExpiresAt is the signed-URL expiry in epoch milliseconds.
	// Zero for data URLs, which do not expire.
	ExpiresAt int64 `json:"expires_at,omitempty"`
}

// Resolve produces an openable link for the entry.
//
// Signing is attempted first when the store supports it; any signing failure
// (not only an unsupported capability) triggers the data-URL fallback. The
// returned error is the download failure when the fallback also fails - the
// signing failure is already superseded by policy at that point.
func Resolve(ctx context.Context, store provider.Store, entry catalog.Entry, ttl time.Duration) (*Link, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	if signer := provider.AsURLSigner(store); signer != nil {
		url, err := signer.SignURL(ctx, entry.Name, ttl)
		if err == nil && url != "" {
			return &Link{
				URL:       url,
				Mode:      ModeSigned,
				ExpiresAt: time.Now().Add(ttl).UnixMilli(),
			}, nil
		}
	}

	return dataURL(ctx, store, entry)
}

// dataURL downloads the document bytes and embeds them as a data URL.
func dataURL(ctx context.Context, store provider.Store, entry catalog.Entry) (*Link, error) {
	data, err := retrieve.Bytes(ctx, store, entry.VersionID())
	if err != nil {
		return nil, err
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return &Link{
		URL:  fmt.Sprintf("data:%s;base64,%s", PDFContentType, encoded),
		Mode: ModeDataURL,
	}, nil
}

// ErrNoLink is returned by ResolveSignedOnly when the store cannot sign.
var ErrNoLink = errors.New("store cannot issue signed URLs")

// ResolveSignedOnly produces a signed URL without the data-URL fallback.
// Used by callers that must hand out a short link (e.g. to print it).
func ResolveSignedOnly(ctx context.Context, store provider.Store, entry catalog.Entry, ttl time.Duration) (*Link, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	signer := provider.AsURLSigner(store)
	if signer == nil {
		return nil, ErrNoLink
	}

	url, err := signer.SignURL(ctx, entry.Name, ttl)
	if err != nil {
		return nil, err
	}

	return &Link{
		URL:       url,
		Mode:      ModeSigned,
		ExpiresAt: time.Now().Add(ttl).UnixMilli(),
	}, nil
}
