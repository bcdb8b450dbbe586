// Package pagesassets provides the embedded HTML pages for standalone binary behavior.
//
// Pages are embedded at compile time so the server works regardless of the
// working directory or installation location.
package pagesassets

import _ "embed"

// BrowsePage is the embedded shelf browsing page.
//
//go:embed browse.html
var BrowsePage []byte

// UploadPage is the embedded upload page.
//
//go:embed upload.html
var UploadPage []byte
