package provider

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type baseStore struct{}

func (baseStore) ListVersions(ctx context.Context, opts ListOptions) (*ListResult, error) {
	return &ListResult{}, nil
}

func (baseStore) Upload(ctx context.Context, name, contentType string, body io.Reader, contentLength int64) (*ObjectVersion, error) {
	return &ObjectVersion{}, nil
}

func (baseStore) Download(ctx context.Context, id VersionID) (io.ReadCloser, int64, error) {
	return nil, 0, nil
}

func (baseStore) Verify(ctx context.Context) error { return nil }
func (baseStore) Close() error                     { return nil }

type signerStore struct{ baseStore }

func (signerStore) SignURL(ctx context.Context, name string, ttl time.Duration) (string, error) {
	return "https://signed.example/" + name, nil
}

func TestAsURLSigner(t *testing.T) {
	assert.Nil(t, AsURLSigner(baseStore{}))
	assert.NotNil(t, AsURLSigner(signerStore{}))
}
