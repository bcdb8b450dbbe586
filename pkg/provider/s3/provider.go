package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/fmoraes/pdfshelf/pkg/provider"
)

// Store implements provider.Store for AWS S3 and S3-compatible storage.
type Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	maxKeys int
}

// Ensure Store implements the interfaces.
var (
	_ provider.Store     = (*Store)(nil)
	_ provider.URLSigner = (*Store)(nil)
)

// New creates a new S3 store with the given configuration.
//
// The store uses AWS SDK v2's default credential chain unless explicit
// application keys are provided in the config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, &provider.StorageError{
			Op:     "New",
			Store:  provider.StoreS3,
			Bucket: cfg.Bucket,
			Err:    err,
		}
	}

	s3Opts := []func(*s3.Options){
		func(o *s3.Options) {
			if cfg.ForcePathStyle {
				o.UsePathStyle = true
			}
		},
	}

	// Custom endpoint for S3-compatible stores (Backblaze B2, MinIO)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)

	maxKeys := cfg.MaxKeys
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}

	return &Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		maxKeys: maxKeys,
	}, nil
}

// loadAWSConfig builds the AWS configuration with appropriate credentials.
func loadAWSConfig(ctx context.Context, cfg Config) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error

	// Only apply explicit region if user set one in config.
	// Let SDK resolve from env/profile first.
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}

	// Explicit application keys take precedence over the default chain
	if cfg.KeyID != "" && cfg.ApplicationKey != "" {
		staticCreds := credentials.NewStaticCredentialsProvider(
			cfg.KeyID,
			cfg.ApplicationKey,
			"", // session token (empty for long-term credentials)
		)
		opts = append(opts, config.WithCredentialsProvider(staticCreds))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, err
	}

	awsCfg.Region = resolveRegion(cfg.Region, cfg.Endpoint, awsCfg.Region)

	return awsCfg, nil
}

// ListVersions returns a page of stored-object version records.
//
// Uses ListObjectVersions so that every version of a name is reported; the
// catalog builder is responsible for keeping only the latest per name.
func (s *Store) ListVersions(ctx context.Context, opts provider.ListOptions) (*provider.ListResult, error) {
	maxKeys := clampMaxKeys(opts.MaxKeys, s.maxKeys)

	input := &s3.ListObjectVersionsInput{
		Bucket:  aws.String(s.bucket),
		MaxKeys: aws.Int32(int32(maxKeys)),
	}

	if opts.Prefix != "" {
		input.Prefix = aws.String(opts.Prefix)
	}

	if opts.ContinuationToken != "" {
		// Token format: "<keyMarker>\x00<versionIdMarker>"
		keyMarker, versionMarker, _ := strings.Cut(opts.ContinuationToken, "\x00")
		if keyMarker != "" {
			input.KeyMarker = aws.String(keyMarker)
		}
		if versionMarker != "" {
			input.VersionIdMarker = aws.String(versionMarker)
		}
	}

	output, err := s.client.ListObjectVersions(ctx, input)
	if err != nil {
		return nil, s.wrapError(provider.OpList, "", err)
	}

	versions := make([]provider.ObjectVersion, 0, len(output.Versions))
	for _, v := range output.Versions {
		versions = append(versions, provider.ObjectVersion{
			Name:       aws.ToString(v.Key),
			ID:         aws.ToString(v.VersionId),
			Size:       aws.ToInt64(v.Size),
			UploadedAt: aws.ToTime(v.LastModified).UnixMilli(),
			ETag:       cleanETag(aws.ToString(v.ETag)),
		})
	}

	result := &provider.ListResult{
		Versions:    versions,
		IsTruncated: aws.ToBool(output.IsTruncated),
	}

	if result.IsTruncated {
		result.ContinuationToken = aws.ToString(output.NextKeyMarker) + "\x00" + aws.ToString(output.NextVersionIdMarker)
	}

	return result, nil
}

// Upload stores a document and returns its version record.
//
// The returned identifier is the S3 version ID when the bucket has
// versioning enabled, otherwise the ETag.
func (s *Store) Upload(ctx context.Context, name, contentType string, body io.Reader, contentLength int64) (*provider.ObjectVersion, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(name),
		Body:          body,
		ContentLength: &contentLength,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	output, err := s.client.PutObject(ctx, input)
	if err != nil {
		return nil, s.wrapError(provider.OpUpload, name, err)
	}

	id := aws.ToString(output.VersionId)
	etag := cleanETag(aws.ToString(output.ETag))
	if id == "" {
		id = etag
	}

	return &provider.ObjectVersion{
		Name:       name,
		ID:         id,
		Size:       contentLength,
		UploadedAt: time.Now().UnixMilli(),
		ETag:       etag,
	}, nil
}

// Download retrieves the bytes of a single stored version.
func (s *Store) Download(ctx context.Context, id provider.VersionID) (io.ReadCloser, int64, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id.Name),
	}
	if id.ID != "" {
		input.VersionId = aws.String(id.ID)
	}

	output, err := s.client.GetObject(ctx, input)
	if err != nil {
		return nil, 0, s.wrapError(provider.OpDownload, id.Name, err)
	}

	return output.Body, aws.ToInt64(output.ContentLength), nil
}

// SignURL issues a presigned GET URL valid for ttl.
//
// The returned URL carries the authorization in its query string, matching
// the provider's signed-URL contract.
func (s *Store) SignURL(ctx context.Context, name string, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", s.wrapError(provider.OpSignURL, name, err)
	}
	if req.URL == "" {
		return "", s.wrapError(provider.OpSignURL, name, provider.ErrSignUnsupported)
	}
	return req.URL, nil
}

// Verify probes the credentials and bucket without side effects.
func (s *Store) Verify(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return s.wrapError(provider.OpVerify, "", err)
	}
	return nil
}

// Close releases any resources held by the store.
// The S3 client doesn't require explicit cleanup, but this satisfies the interface.
func (s *Store) Close() error {
	return nil
}

// wrapError converts S3 errors to storage errors with appropriate sentinel errors.
func (s *Store) wrapError(op, name string, err error) error {
	wrapped := &provider.StorageError{
		Op:     op,
		Store:  provider.StoreS3,
		Bucket: s.bucket,
		Name:   name,
		Err:    err,
	}

	// Check for specific S3 error types first
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	var noSuchBucket *types.NoSuchBucket

	switch {
	case errors.As(err, &notFound), errors.As(err, &noSuchKey):
		wrapped.Err = provider.ErrNotFound
		return wrapped
	case errors.As(err, &noSuchBucket):
		wrapped.Err = provider.ErrBucketNotFound
		return wrapped
	}

	// Check smithy API errors for error codes
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		switch code {
		case "NoSuchKey", "NoSuchVersion", "NotFound":
			wrapped.Err = provider.ErrNotFound
		case "NoSuchBucket":
			wrapped.Err = provider.ErrBucketNotFound
		case "AccessDenied", "Forbidden":
			wrapped.Err = provider.ErrAccessDenied
		case "InvalidAccessKeyId", "SignatureDoesNotMatch", "UnauthorizedAccess":
			wrapped.Err = provider.ErrInvalidCredentials
		case "ServiceUnavailable", "InternalError", "SlowDown":
			wrapped.Err = provider.ErrStoreUnavailable
		}
		return wrapped
	}

	// Fallback: check error message for common cases
	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "NoSuchKey") || strings.Contains(errMsg, "NotFound") || strings.Contains(errMsg, "404"):
		wrapped.Err = provider.ErrNotFound
	case strings.Contains(errMsg, "NoSuchBucket"):
		wrapped.Err = provider.ErrBucketNotFound
	case strings.Contains(errMsg, "AccessDenied") || strings.Contains(errMsg, "Forbidden") || strings.Contains(errMsg, "403"):
		wrapped.Err = provider.ErrAccessDenied
	case strings.Contains(errMsg, "InvalidAccessKeyId") || strings.Contains(errMsg, "SignatureDoesNotMatch"):
		wrapped.Err = provider.ErrInvalidCredentials
	case strings.Contains(errMsg, "ServiceUnavailable") || strings.Contains(errMsg, "503"):
		wrapped.Err = provider.ErrStoreUnavailable
	}

	return wrapped
}

// cleanETag removes surrounding quotes from an ETag value.
// S3 returns ETags with quotes, e.g., "d41d8cd98f00b204e9800998ecf8427e".
func cleanETag(etag string) string {
	return strings.Trim(etag, "\"")
}

// clampMaxKeys applies defaults and limits to maxKeys values.
// If requested is <= 0, uses storeDefault. Result is clamped to MaxAllowedKeys.
func clampMaxKeys(requested, storeDefault int) int {
	if requested <= 0 {
		requested = storeDefault
	}
	if requested > MaxAllowedKeys {
		return MaxAllowedKeys
	}
	return requested
}

// resolveRegion determines the final region to use after SDK config loading.
//
// The sdkRegion parameter is the region after SDK loading, which already
// incorporates explicit cfgRegion (if set) or env/profile resolution. This
// function only applies the fallback default:
//   - If sdkRegion is still empty AND no custom endpoint, default to us-east-1
//   - For S3-compatible stores (endpoint set), no defaulting occurs
func resolveRegion(cfgRegion, endpoint, sdkRegion string) string {
	if sdkRegion != "" {
		return sdkRegion
	}

	// Only default for AWS S3 (no custom endpoint)
	if endpoint == "" {
		return DefaultAWSRegion
	}

	// S3-compatible: no default, endpoint may not need region
	return ""
}
