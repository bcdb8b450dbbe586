package main

import (
	"github.com/fmoraes/pdfshelf/internal/cmd"
)

// Build metadata, stamped by the linker:
//
//	go build -ldflags "-X main.version=... -X main.commit=... -X main.buildDate=..."
var (
	version   = "dev"
	commit    = "HEAD"
	buildDate = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, buildDate)
	cmd.Execute()
}
