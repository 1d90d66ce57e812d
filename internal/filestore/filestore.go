// Package filestore lays out stored DICOM objects and thumbnails in a
// deterministic directory tree under the database directory.
package filestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	objectDir    = "dicom"
	thumbnailDir = "thumbs"
)

// Store maps content identities to paths under its root and moves file
// bytes in and out of the tree. It never invents identifiers.
type Store struct {
	root string
}

func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the directory both trees live under.
func (s *Store) Root() string {
	return s.root
}

// ObjectRoot returns the top of the stored object tree.
func (s *Store) ObjectRoot() string {
	return filepath.Join(s.root, objectDir)
}

// ThumbnailRoot returns the top of the thumbnail tree.
func (s *Store) ThumbnailRoot() string {
	return filepath.Join(s.root, thumbnailDir)
}

// PathFor derives the object path for an instance:
// <root>/dicom/<study>/<series>/<sop>.
func (s *Store) PathFor(studyUID, seriesUID, sopUID string) string {
	return filepath.Join(s.ObjectRoot(), sanitize(studyUID), sanitize(seriesUID), sanitize(sopUID))
}

// ThumbnailPathFor mirrors PathFor under the thumbnail tree.
func (s *Store) ThumbnailPathFor(studyUID, seriesUID, sopUID string) string {
	return filepath.Join(s.ThumbnailRoot(), sanitize(studyUID), sanitize(seriesUID), sanitize(sopUID))
}

// Store copies the file at src to dst, creating parent directories.
func (s *Store) Store(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating object directory: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating destination file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying object: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing destination file: %w", err)
	}
	return nil
}

// StoreBytes writes b to dst, creating parent directories.
func (s *Store) StoreBytes(b []byte, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating object directory: %w", err)
	}
	if err := os.WriteFile(dst, b, 0o644); err != nil {
		return fmt.Errorf("writing object: %w", err)
	}
	return nil
}

// Remove deletes a stored file and prunes directories left empty, never
// climbing past the store root.
func (s *Store) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing object: %w", err)
	}
	s.Prune(filepath.Dir(path))
	return nil
}

// Prune removes dir and its ancestors while they are empty and inside
// the store root. Failures stop the walk silently.
func (s *Store) Prune(dir string) {
	root := filepath.Clean(s.root)
	for dir != root && strings.HasPrefix(dir, root+string(filepath.Separator)) {
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}

// sanitize keeps path components inside the tree. UIDs are normally
// dotted digits; anything else is replaced so a component can never
// escape or nest.
func sanitize(component string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, component)

	switch cleaned {
	case "", ".", "..":
		return "unknown"
	}
	return cleaned
}
