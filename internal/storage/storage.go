// Package storage keeps extracted media files on disk, outside the
// database. Contact photos and profile images are copied out of unpacked
// archives into a per-case layout and later served back by relative path.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store is a file blob store rooted at one directory. Stored files live
// under <root>/<case>/<person>/<device>/ with generated names; the
// returned relative paths are what gets persisted on records and
// resolved again when serving.
type Store struct {
	root string
}

// NewStore opens a store rooted at root, creating the directory when
// needed.
func NewStore(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root must not be empty")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// SaveBytes stores data as a new blob scoped to a case, person, and
// device, preserving the original file's extension. Returns the blob's
// relative path.
func (s *Store) SaveBytes(caseNumber, personName, deviceInfo, originalName string, data []byte) (string, error) {
	rel := s.newBlobPath(caseNumber, personName, deviceInfo, originalName)

	target := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return "", fmt.Errorf("failed to create blob directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o640); err != nil {
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	return rel, nil
}

// SaveFile copies the file at srcPath into the store scoped to a case,
// person, and device. Returns the blob's relative path.
func (s *Store) SaveFile(caseNumber, personName, deviceInfo, srcPath string) (string, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to open source file: %w", err)
	}
	defer src.Close()

	rel := s.newBlobPath(caseNumber, personName, deviceInfo, srcPath)
	target := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return "", fmt.Errorf("failed to create blob directory: %w", err)
	}

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o640)
	if err != nil {
		return "", fmt.Errorf("failed to create blob: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to copy blob: %w", err)
	}
	return rel, nil
}

// Resolve maps a stored relative path back to an absolute path under the
// store root. Paths that would escape the root are rejected; relative
// paths reach this function from database columns and HTTP requests alike.
func (s *Store) Resolve(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("blob path must not be empty")
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("blob path %s: absolute paths are not allowed", rel)
	}

	target := filepath.Join(s.root, filepath.FromSlash(rel))
	cleanRoot := filepath.Clean(s.root)
	if !strings.HasPrefix(target, cleanRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("blob path %s escapes storage root", rel)
	}
	if _, err := os.Stat(target); err != nil {
		return "", fmt.Errorf("blob %s: %w", rel, err)
	}
	return target, nil
}

// Wipe deletes every stored blob while keeping the root directory.
func (s *Store) Wipe() error {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return fmt.Errorf("failed to read storage root: %w", err)
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(s.root, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove blobs: %w", err)
		}
	}
	return nil
}

// RemoveCase deletes every blob stored for a case.
func (s *Store) RemoveCase(caseNumber string) error {
	dir := filepath.Join(s.root, sanitizeComponent(caseNumber))
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove case blobs: %w", err)
	}
	return nil
}

// RemoveScope deletes every blob stored for one (case, person, device)
// ingestion scope.
func (s *Store) RemoveScope(caseNumber, personName, deviceInfo string) error {
	dir := filepath.Join(s.root,
		sanitizeComponent(caseNumber),
		sanitizeComponent(personName),
		sanitizeComponent(deviceInfo),
	)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove scoped blobs: %w", err)
	}
	return nil
}

func (s *Store) newBlobPath(caseNumber, personName, deviceInfo, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.NewString() + ext
	return strings.Join([]string{
		sanitizeComponent(caseNumber),
		sanitizeComponent(personName),
		sanitizeComponent(deviceInfo),
		name,
	}, "/")
}

// sanitizeComponent makes a case number or person name safe as a single
// directory name. Separators and parent references collapse to
// underscores; an empty component becomes "unknown".
func sanitizeComponent(component string) string {
	component = strings.TrimSpace(component)
	if component == "" {
		return "unknown"
	}
	replacer := strings.NewReplacer(
		"/", "_",
		`\`, "_",
		"..", "_",
		string(os.PathSeparator), "_",
	)
	return replacer.Replace(component)
}
