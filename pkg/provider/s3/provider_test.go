package s3

import (
	"errors"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"

	"github.com/fmoraes/pdfshelf/pkg/provider"
)

func TestWrapError_APICodes(t *testing.T) {
	store := &Store{bucket: "shelf"}

	tests := []struct {
		name string
		code string
		pred func(error) bool
	}{
		{"no such key", "NoSuchKey", provider.IsNotFound},
		{"no such version", "NoSuchVersion", provider.IsNotFound},
		{"not found", "NotFound", provider.IsNotFound},
		{"no such bucket", "NoSuchBucket", provider.IsBucketNotFound},
		{"access denied", "AccessDenied", provider.IsAccessDenied},
		{"forbidden", "Forbidden", provider.IsAccessDenied},
		{"invalid access key", "InvalidAccessKeyId", provider.IsInvalidCredentials},
		{"bad signature", "SignatureDoesNotMatch", provider.IsInvalidCredentials},
		{"service unavailable", "ServiceUnavailable", provider.IsStoreUnavailable},
		{"slow down", "SlowDown", provider.IsStoreUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := &smithy.GenericAPIError{Code: tt.code, Message: "boom"}
			wrapped := store.wrapError(provider.OpList, "a.pdf", apiErr)
			assert.True(t, tt.pred(wrapped), "code %s", tt.code)
			assert.Equal(t, provider.OpList, provider.OpOf(wrapped))
		})
	}
}

func TestWrapError_MessageFallback(t *testing.T) {
	store := &Store{bucket: "shelf"}

	tests := []struct {
		name string
		msg  string
		pred func(error) bool
	}{
		{"404 in message", "request failed: 404", provider.IsNotFound},
		{"403 in message", "https response error StatusCode: 403", provider.IsAccessDenied},
		{"no such bucket text", "NoSuchBucket: the bucket is gone", provider.IsBucketNotFound},
		{"503 in message", "upstream 503", provider.IsStoreUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := store.wrapError(provider.OpDownload, "a.pdf", errors.New(tt.msg))
			assert.True(t, tt.pred(wrapped), "message %q", tt.msg)
		})
	}
}

func TestWrapError_UnknownErrorKeepsOriginal(t *testing.T) {
	store := &Store{bucket: "shelf"}
	orig := errors.New("something odd")

	wrapped := store.wrapError(provider.OpUpload, "a.pdf", orig)
	assert.ErrorIs(t, wrapped, orig)
	assert.Equal(t, provider.OpUpload, provider.OpOf(wrapped))
}

func TestCleanETag(t *testing.T) {
	assert.Equal(t, "abc123", cleanETag(`"abc123"`))
	assert.Equal(t, "abc123", cleanETag("abc123"))
	assert.Equal(t, "", cleanETag(`""`))
}

func TestClampMaxKeys(t *testing.T) {
	tests := []struct {
		name         string
		requested    int
		storeDefault int
		want         int
	}{
		{"zero uses default", 0, 500, 500},
		{"negative uses default", -1, 500, 500},
		{"within limit", 250, 500, 250},
		{"over limit clamped", 5000, 500, MaxAllowedKeys},
		{"default over limit clamped", 0, 5000, MaxAllowedKeys},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clampMaxKeys(tt.requested, tt.storeDefault))
		})
	}
}

func TestResolveRegion(t *testing.T) {
	tests := []struct {
		name      string
		cfgRegion string
		endpoint  string
		sdkRegion string
		want      string
	}{
		{"sdk resolved wins", "", "", "eu-west-1", "eu-west-1"},
		{"aws default applied", "", "", "", DefaultAWSRegion},
		{"compatible store no default", "", "https://s3.us-west-004.backblazeb2.com", "", ""},
		{"compatible store with sdk region", "", "https://s3.us-west-004.backblazeb2.com", "us-west-004", "us-west-004"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveRegion(tt.cfgRegion, tt.endpoint, tt.sdkRegion))
		})
	}
}
