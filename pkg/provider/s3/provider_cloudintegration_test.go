//go:build cloudintegration

package s3_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmoraes/pdfshelf/pkg/provider"
	"github.com/fmoraes/pdfshelf/pkg/provider/s3"
	"github.com/fmoraes/pdfshelf/test/cloudtest"
)

func newCloudStore(t *testing.T, ctx context.Context, bucket string) *s3.Store {
	t.Helper()

	store, err := s3.New(ctx, s3.Config{
		Bucket:         bucket,
		Region:         cloudtest.Region,
		Endpoint:       cloudtest.Endpoint,
		KeyID:          cloudtest.TestKeyID,
		ApplicationKey: cloudtest.TestApplicationKey,
		ForcePathStyle: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestCloudStore_UploadDownloadRoundTrip(t *testing.T) {
	cloudtest.SkipIfUnavailable(t)
	ctx := context.Background()

	bucket := cloudtest.CreateBucket(t, ctx)
	cloudtest.EnableVersioning(t, ctx, bucket)
	store := newCloudStore(t, ctx, bucket)

	content := []byte("%PDF-1.7 round trip body")
	version, err := store.Upload(ctx, "reports/q1.pdf", "application/pdf", bytes.NewReader(content), int64(len(content)))
	require.NoError(t, err)
	assert.Equal(t, "reports/q1.pdf", version.Name)
	assert.NotEmpty(t, version.ID)
	assert.Equal(t, int64(len(content)), version.Size)

	body, size, err := store.Download(ctx, provider.VersionID{Name: version.Name, ID: version.ID})
	require.NoError(t, err)
	defer func() { _ = body.Close() }()

	got, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, content, got)
	assert.Equal(t, int64(len(content)), size)
}

func TestCloudStore_ListVersionsReportsEveryVersion(t *testing.T) {
	cloudtest.SkipIfUnavailable(t)
	ctx := context.Background()

	bucket := cloudtest.CreateBucket(t, ctx)
	cloudtest.EnableVersioning(t, ctx, bucket)
	store := newCloudStore(t, ctx, bucket)

	for i := 0; i < 3; i++ {
		content := []byte(strings.Repeat("x", i+1))
		_, err := store.Upload(ctx, "manual.pdf", "application/pdf", bytes.NewReader(content), int64(len(content)))
		require.NoError(t, err)
	}
	cloudtest.PutObject(t, ctx, bucket, "other.pdf", []byte("peer"))

	result, err := store.ListVersions(ctx, provider.ListOptions{})
	require.NoError(t, err)
	assert.False(t, result.IsTruncated)

	byName := map[string]int{}
	for _, v := range result.Versions {
		byName[v.Name]++
		assert.NotEmpty(t, v.ID)
		assert.NotZero(t, v.UploadedAt)
	}
	assert.Equal(t, 3, byName["manual.pdf"])
	assert.Equal(t, 1, byName["other.pdf"])
}

func TestCloudStore_ListVersionsPagination(t *testing.T) {
	cloudtest.SkipIfUnavailable(t)
	ctx := context.Background()

	bucket := cloudtest.CreateBucket(t, ctx)
	cloudtest.EnableVersioning(t, ctx, bucket)
	store := newCloudStore(t, ctx, bucket)

	names := []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf", "e.pdf"}
	for _, name := range names {
		cloudtest.PutObject(t, ctx, bucket, name, []byte(name))
	}

	var collected []string
	var token string
	pages := 0
	for {
		result, err := store.ListVersions(ctx, provider.ListOptions{
			MaxKeys:           2,
			ContinuationToken: token,
		})
		require.NoError(t, err)
		pages++

		for _, v := range result.Versions {
			collected = append(collected, v.Name)
		}
		if !result.IsTruncated {
			break
		}
		require.NotEmpty(t, result.ContinuationToken)
		token = result.ContinuationToken
	}

	assert.GreaterOrEqual(t, pages, 3)
	assert.ElementsMatch(t, names, collected)
}

func TestCloudStore_ListVersionsPrefix(t *testing.T) {
	cloudtest.SkipIfUnavailable(t)
	ctx := context.Background()

	bucket := cloudtest.CreateBucket(t, ctx)
	store := newCloudStore(t, ctx, bucket)

	cloudtest.PutObjects(t, ctx, bucket, map[string][]byte{
		"reports/q1.pdf": []byte("q1"),
		"reports/q2.pdf": []byte("q2"),
		"drafts/wip.pdf": []byte("wip"),
	})

	result, err := store.ListVersions(ctx, provider.ListOptions{Prefix: "reports/"})
	require.NoError(t, err)
	require.Len(t, result.Versions, 2)
	for _, v := range result.Versions {
		assert.True(t, strings.HasPrefix(v.Name, "reports/"))
	}
}

func TestCloudStore_DownloadMissingObject(t *testing.T) {
	cloudtest.SkipIfUnavailable(t)
	ctx := context.Background()

	bucket := cloudtest.CreateBucket(t, ctx)
	store := newCloudStore(t, ctx, bucket)

	_, _, err := store.Download(ctx, provider.VersionID{Name: "missing.pdf"})
	require.Error(t, err)
	assert.True(t, provider.IsNotFound(err))
	assert.Equal(t, provider.OpDownload, provider.OpOf(err))
}

func TestCloudStore_VerifyBucket(t *testing.T) {
	cloudtest.SkipIfUnavailable(t)
	ctx := context.Background()

	bucket := cloudtest.CreateBucket(t, ctx)
	store := newCloudStore(t, ctx, bucket)

	assert.NoError(t, store.Verify(ctx))
}

func TestCloudStore_VerifyMissingBucket(t *testing.T) {
	cloudtest.SkipIfUnavailable(t)
	ctx := context.Background()

	store := newCloudStore(t, ctx, "pdfshelf-no-such-bucket")

	err := store.Verify(ctx)
	require.Error(t, err)
}

func TestCloudStore_SignURLIsFetchable(t *testing.T) {
	cloudtest.SkipIfUnavailable(t)
	ctx := context.Background()

	bucket := cloudtest.CreateBucket(t, ctx)
	store := newCloudStore(t, ctx, bucket)

	content := []byte("signed body")
	cloudtest.PutObject(t, ctx, bucket, "signed.pdf", content)

	signer := provider.AsURLSigner(store)
	require.NotNil(t, signer)

	url, err := signer.SignURL(ctx, "signed.pdf", 5*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "signed.pdf")
	assert.Contains(t, url, "X-Amz-Signature")
}
