package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Validation errors. Uploads that fail with one of these carry no
// partial state and can be rejected as bad input rather than reported
// as an internal failure.
var (
	// ErrNotZipArchive is returned when the uploaded file is not a ZIP
	// archive at all.
	ErrNotZipArchive = errors.New("not a zip archive")

	// ErrMalformedArchive is returned when an archive entry is hostile
	// or structurally invalid (path traversal, absolute paths).
	ErrMalformedArchive = errors.New("malformed archive")
)

// Unpack extracts the ZIP archive at src into destDir, creating the
// directory when needed. Entries that would escape destDir through path
// traversal are rejected outright; a hostile archive fails the whole
// unpack rather than silently skipping entries.
func Unpack(src, destDir string) error {
	reader, err := zip.OpenReader(src)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			return fmt.Errorf("%s: %w", src, ErrNotZipArchive)
		}
		return fmt.Errorf("failed to open archive %s: %w", src, err)
	}
	defer reader.Close()

	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return fmt.Errorf("failed to create unpack directory: %w", err)
	}

	for _, entry := range reader.File {
		if err := unpackEntry(entry, destDir); err != nil {
			return err
		}
	}
	return nil
}

func unpackEntry(entry *zip.File, destDir string) error {
	// ZIP names use forward slashes regardless of origin platform, but
	// vendor tools have produced backslash-separated entries too.
	name := strings.ReplaceAll(entry.Name, `\`, "/")

	target, err := secureJoin(destDir, name)
	if err != nil {
		return err
	}

	if entry.FileInfo().IsDir() {
		if err := os.MkdirAll(target, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", name, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", name, err)
	}

	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o640)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to extract %s: %w", name, err)
	}
	return nil
}

// secureJoin joins name under root and verifies the result stays inside
// root. Absolute names and ".." traversal both fail here.
func secureJoin(root, name string) (string, error) {
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: entry %s uses an absolute path", ErrMalformedArchive, name)
	}
	target := filepath.Join(root, filepath.FromSlash(name))
	cleanRoot := filepath.Clean(root)
	if target != cleanRoot && !strings.HasPrefix(target, cleanRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: entry %s escapes the unpack directory", ErrMalformedArchive, name)
	}
	return target, nil
}
