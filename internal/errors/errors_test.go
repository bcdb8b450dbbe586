package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmoraes/pdfshelf/pkg/provider"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) HTTPErrorResponse {
	t.Helper()
	var body HTTPErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestRespondWithError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithError(rec, http.StatusBadRequest, CodeBadRequest, "bad input")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeEnvelope(t, rec)
	assert.Equal(t, CodeBadRequest, body.Error.Code)
	assert.Equal(t, "bad input", body.Error.Message)
}

func TestRespondWithStorageError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not found",
			err:        &provider.StorageError{Op: provider.OpDownload, Err: provider.ErrNotFound},
			wantStatus: http.StatusNotFound,
			wantCode:   CodeNotFound,
		},
		{
			name:       "invalid credentials",
			err:        &provider.StorageError{Op: provider.OpList, Err: provider.ErrInvalidCredentials},
			wantStatus: http.StatusForbidden,
			wantCode:   CodeAuthFailed,
		},
		{
			name:       "access denied",
			err:        &provider.StorageError{Op: provider.OpUpload, Err: provider.ErrAccessDenied},
			wantStatus: http.StatusForbidden,
			wantCode:   CodeAuthFailed,
		},
		{
			name:       "bucket not found",
			err:        &provider.StorageError{Op: provider.OpVerify, Err: provider.ErrBucketNotFound},
			wantStatus: http.StatusBadGateway,
			wantCode:   CodeAuthFailed,
		},
		{
			name:       "store unavailable keeps op code",
			err:        &provider.StorageError{Op: provider.OpList, Err: provider.ErrStoreUnavailable},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   CodeListFailed,
		},
		{
			name:       "unclassified list failure",
			err:        &provider.StorageError{Op: provider.OpList, Err: errors.New("weird")},
			wantStatus: http.StatusBadGateway,
			wantCode:   CodeListFailed,
		},
		{
			name:       "unclassified upload failure",
			err:        &provider.StorageError{Op: provider.OpUpload, Err: errors.New("weird")},
			wantStatus: http.StatusBadGateway,
			wantCode:   CodeUploadFailed,
		},
		{
			name:       "unclassified download failure",
			err:        &provider.StorageError{Op: provider.OpDownload, Err: errors.New("weird")},
			wantStatus: http.StatusBadGateway,
			wantCode:   CodeDownloadFailed,
		},
		{
			name:       "sign failure",
			err:        &provider.StorageError{Op: provider.OpSignURL, Err: errors.New("weird")},
			wantStatus: http.StatusBadGateway,
			wantCode:   CodeSignFailed,
		},
		{
			name:       "plain error",
			err:        errors.New("totally unknown"),
			wantStatus: http.StatusBadGateway,
			wantCode:   CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondWithStorageError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeEnvelope(t, rec)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}
