// Package handlers implements the HTTP handlers for the shelf server.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/fmoraes/pdfshelf/internal/errors"
	"github.com/fmoraes/pdfshelf/pkg/catalog"
	"github.com/fmoraes/pdfshelf/pkg/provider"
	"github.com/fmoraes/pdfshelf/pkg/retrieve"
	"github.com/fmoraes/pdfshelf/pkg/viewlink"
)

// Shelf serves the document-shelf API: browse listing, upload, view links,
// and content download. Every request performs one blocking round trip to
// the store and renders the result - no queuing, no background work.
type Shelf struct {
	// Store is the storage backend. Required.
	Store provider.Store

	// Session records uploads performed through this server process.
	Session *catalog.SessionLog

	// Extension is the accepted file extension (default ".pdf").
	Extension string

	// Prefix narrows catalog listings.
	Prefix string

	// PageSize and MaxPages bound catalog refresh listings.
	PageSize int
	MaxPages int

	// LinkTTL is the signed-URL validity for view links.
	LinkTTL time.Duration

	// MaxUploadBytes bounds multipart upload bodies. Zero means 64 MiB.
	MaxUploadBytes int64

	// Logger logs handler-level events. Nil disables logging.
	Logger *zap.Logger
}

const defaultMaxUploadBytes = 64 << 20

func (s *Shelf) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Shelf) extension() string {
	if s.Extension == "" {
		return catalog.DefaultExtension
	}
	return s.Extension
}

// listResponse is the body of GET /api/files.
type listResponse struct {
	Files []entryJSON `json:"files"`
}

// entryJSON is one catalog entry in API responses.
type entryJSON struct {
	Name       string `json:"name"`
	ID         string `json:"id"`
	Size       int64  `json:"size"`
	UploadedAt int64  `json:"uploaded_at"`
}

// uploadResponse is the body of POST /api/files.
type uploadResponse struct {
	Name       string `json:"name"`
	ID         string `json:"id"`
	Size       int64  `json:"size"`
	UploadedAt int64  `json:"uploaded_at"`
}

// List serves GET /api/files: the deduplicated newest-first catalog.
//
// An empty catalog is a successful response with an empty list; only a
// failed listing call produces an error envelope.
func (s *Shelf) List(w http.ResponseWriter, r *http.Request) {
	entries, err := s.refresh(r)
	if err != nil {
		s.logger().Warn("catalog refresh failed", zap.Error(err))
		apperrors.RespondWithStorageError(w, err)
		return
	}

	resp := listResponse{Files: make([]entryJSON, 0, len(entries))}
	for _, e := range entries {
		resp.Files = append(resp.Files, entryJSON(e))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Upload serves POST /api/files: a multipart form with one "file" part.
func (s *Shelf) Upload(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		apperrors.RespondWithError(w, http.StatusBadRequest, apperrors.CodeBadRequest,
			"multipart form must include a \"file\" part")
		return
	}
	defer func() { _ = file.Close() }()

	name := header.Filename
	if !strings.HasSuffix(strings.ToLower(name), s.extension()) {
		apperrors.RespondWithError(w, http.StatusBadRequest, apperrors.CodeBadRequest,
			fmt.Sprintf("only %s files are accepted", s.extension()))
		return
	}

	rec, err := s.Store.Upload(r.Context(), name, viewlink.PDFContentType, file, header.Size)
	if err != nil {
		s.logger().Warn("upload failed", zap.String("name", name), zap.Error(err))
		apperrors.RespondWithStorageError(w, err)
		return
	}

	if s.Session != nil {
		s.Session.Append(catalog.SessionRecord{
			Name:       rec.Name,
			ID:         rec.ID,
			Size:       rec.Size,
			UploadedAt: rec.UploadedAt,
		})
	}

	s.logger().Info("uploaded document",
		zap.String("name", rec.Name),
		zap.String("id", rec.ID),
		zap.Int64("size", rec.Size))

	writeJSON(w, http.StatusCreated, uploadResponse{
		Name:       rec.Name,
		ID:         rec.ID,
		Size:       rec.Size,
		UploadedAt: rec.UploadedAt,
	})
}

// Link serves GET /api/files/{name}/link: an openable view link.
//
// A signed URL is preferred; when signing fails or is unsupported the
// response carries a base64 data URL instead. The fallback is policy, so a
// sign failure alone never surfaces as an error.
func (s *Shelf) Link(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.resolveEntry(w, r)
	if !ok {
		return
	}

	ttl := s.LinkTTL
	if raw := r.URL.Query().Get("ttl"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			apperrors.RespondWithError(w, http.StatusBadRequest, apperrors.CodeBadRequest,
				"ttl must be a positive integer of seconds")
			return
		}
		ttl = time.Duration(secs) * time.Second
	}

	link, err := viewlink.Resolve(r.Context(), s.Store, entry, ttl)
	if err != nil {
		s.logger().Warn("link resolution failed", zap.String("name", entry.Name), zap.Error(err))
		apperrors.RespondWithStorageError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Name string `json:"name"`
		*viewlink.Link
	}{Name: entry.Name, Link: link})
}

// Content serves GET /api/files/{name}/content: the document bytes as an
// attachment download.
func (s *Shelf) Content(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.resolveEntry(w, r)
	if !ok {
		return
	}

	data, err := retrieve.Bytes(r.Context(), s.Store, entry.VersionID())
	if err != nil {
		s.logger().Warn("download failed", zap.String("name", entry.Name), zap.Error(err))
		apperrors.RespondWithStorageError(w, err)
		return
	}

	w.Header().Set("Content-Type", viewlink.PDFContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", attachmentName(entry.Name)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// SessionUploads serves GET /api/session: uploads recorded by this process.
func (s *Shelf) SessionUploads(w http.ResponseWriter, r *http.Request) {
	records := []catalog.SessionRecord{}
	if s.Session != nil {
		records = s.Session.Records()
	}
	writeJSON(w, http.StatusOK, struct {
		Uploads []catalog.SessionRecord `json:"uploads"`
	}{Uploads: records})
}

// resolveEntry rebuilds the catalog and locates the named entry. The catalog
// is always re-derived from a fresh listing, never from the session log.
func (s *Shelf) resolveEntry(w http.ResponseWriter, r *http.Request) (catalog.Entry, bool) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		apperrors.RespondWithError(w, http.StatusBadRequest, apperrors.CodeBadRequest,
			"invalid document name")
		return catalog.Entry{}, false
	}

	entries, rerr := s.refresh(r)
	if rerr != nil {
		s.logger().Warn("catalog refresh failed", zap.Error(rerr))
		apperrors.RespondWithStorageError(w, rerr)
		return catalog.Entry{}, false
	}

	entry, found := catalog.Find(entries, name)
	if !found {
		apperrors.RespondWithError(w, http.StatusNotFound, apperrors.CodeNotFound,
			fmt.Sprintf("no document named %q", name))
		return catalog.Entry{}, false
	}

	return entry, true
}

func (s *Shelf) refresh(r *http.Request) ([]catalog.Entry, error) {
	return catalog.Refresh(r.Context(), s.Store, catalog.RefreshOptions{
		Prefix:   s.Prefix,
		PageSize: s.PageSize,
		MaxPages: s.MaxPages,
		Build:    catalog.Options{Extension: s.Extension},
	})
}

// attachmentName strips any path prefix so the browser gets a bare filename.
func attachmentName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
