package handlers

import (
	"net/http"

	pagesassets "github.com/fmoraes/pdfshelf/internal/server/assets"
)

// BrowsePage serves the embedded shelf browsing page at GET /.
func BrowsePage(w http.ResponseWriter, r *http.Request) {
	servePage(w, pagesassets.BrowsePage)
}

// UploadPage serves the embedded upload page at GET /upload.
func UploadPage(w http.ResponseWriter, r *http.Request) {
	servePage(w, pagesassets.UploadPage)
}

func servePage(w http.ResponseWriter, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}
