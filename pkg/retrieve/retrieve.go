// Package retrieve performs download round trips against a store.
//
// Bytes pass through a temporary scratch file that is removed on every exit
// path, including a read that fails partway. No scratch file outlives the
// call.
package retrieve

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fmoraes/pdfshelf/pkg/provider"
)

// Bytes downloads one stored version and returns its full payload.
//
// The body is spooled to a scratch file in the OS temp directory and read
// back, mirroring a save-then-read round trip. The scratch file is deleted
// before returning regardless of success or failure.
func Bytes(ctx context.Context, store provider.Store, id provider.VersionID) ([]byte, error) {
	body, _, err := store.Download(ctx, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	tmp, err := os.CreateTemp("", "pdfshelf-*.part")
	if err != nil {
		return nil, fmt.Errorf("create scratch file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, body); err != nil {
		return nil, wrapDownload(id, err)
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind scratch file: %w", err)
	}

	data, err := io.ReadAll(tmp)
	if err != nil {
		return nil, fmt.Errorf("read scratch file: %w", err)
	}

	return data, nil
}

// ToFile downloads one stored version to the given path.
//
// The payload is written through the same scratch round trip as Bytes, then
// the destination is written atomically with a rename when possible and a
// plain write otherwise.
func ToFile(ctx context.Context, store provider.Store, id provider.VersionID, path string) (int64, error) {
	data, err := Bytes(ctx, store, id)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return int64(len(data)), nil
}

// wrapDownload ensures mid-body read failures carry the download operation
// context, matching errors raised by the store itself.
func wrapDownload(id provider.VersionID, err error) error {
	if provider.OpOf(err) != "" {
		return err
	}
	return &provider.StorageError{
		Op:   provider.OpDownload,
		Name: id.Name,
		Err:  err,
	}
}
