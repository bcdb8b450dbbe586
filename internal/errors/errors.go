// Package errors defines the HTTP error envelope shared by all server
// responses and maps storage failures to response codes.
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/fmoraes/pdfshelf/pkg/provider"
)

// HTTPErrorResponse is the JSON envelope for every error response.
type HTTPErrorResponse struct {
	Error HTTPError `json:"error"`
}

// HTTPError carries the machine-readable code and human-readable message.
type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes used by the HTTP surface.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeBadRequest       = "BAD_REQUEST"
	CodeAuthFailed       = "AUTH_FAILED"
	CodeListFailed       = "LIST_FAILED"
	CodeUploadFailed     = "UPLOAD_FAILED"
	CodeDownloadFailed   = "DOWNLOAD_FAILED"
	CodeSignFailed       = "SIGN_FAILED"
	CodeInternal         = "INTERNAL_ERROR"
)

// RespondWithError writes the error envelope with the given status and code.
func RespondWithError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(HTTPErrorResponse{
		Error: HTTPError{Code: code, Message: message},
	})
}

// RespondWithStorageError classifies a storage failure and writes the
// matching envelope.
//
// The operation that failed (list vs upload vs download) determines the
// code; sentinel classification determines the status.
func RespondWithStorageError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	code := CodeInternal

	switch provider.OpOf(err) {
	case provider.OpVerify:
		code = CodeAuthFailed
	case provider.OpList:
		code = CodeListFailed
	case provider.OpUpload:
		code = CodeUploadFailed
	case provider.OpDownload:
		code = CodeDownloadFailed
	case provider.OpSignURL:
		code = CodeSignFailed
	}

	switch {
	case provider.IsNotFound(err):
		status = http.StatusNotFound
		code = CodeNotFound
	case provider.IsInvalidCredentials(err), provider.IsAccessDenied(err):
		status = http.StatusForbidden
		code = CodeAuthFailed
	case provider.IsBucketNotFound(err):
		status = http.StatusBadGateway
		code = CodeAuthFailed
	case provider.IsStoreUnavailable(err):
		status = http.StatusServiceUnavailable
	}

	RespondWithError(w, status, code, err.Error())
}
