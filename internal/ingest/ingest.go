// Package ingest walks directory trees for DICOM files and feeds them
// into the catalog, skipping what is excluded or already indexed.
package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Run discovers DICOM files under paths and indexes each one. Files
// already indexed and unchanged are counted as skipped; per-file
// failures are collected and the run continues.
func Run(ctx context.Context, db Catalog, paths []string, excludes []string, options Options) (*Result, error) {
	files, err := walkDICOMFiles(paths, excludes, options.Force)
	if err != nil {
		return nil, fmt.Errorf("walking source trees: %w", err)
	}

	result := &Result{}
	for _, path := range files {
		current, err := db.FileExistsAndUpToDate(ctx, path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("checking %s: %w", path, err))
			result.FilesFailed++
			continue
		}
		if current {
			result.FilesSkipped++
			continue
		}

		if err := db.InsertFile(ctx, path, options.StoreFiles, options.Thumbnails); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("ingesting %s: %w", path, err))
			result.FilesFailed++
			continue
		}
		result.FilesIngested++
	}

	slog.Debug("ingestion finished",
		"ingested", result.FilesIngested,
		"skipped", result.FilesSkipped,
		"failed", result.FilesFailed)
	return result, nil
}

// walkDICOMFiles collects the DICOM files under each root, identified
// by magic rather than extension since DICOM files often carry none.
// A root may also be a single file. With force set the magic check is
// skipped and every regular file is collected.
func walkDICOMFiles(roots []string, excludes []string, force bool) ([]string, error) {
	excluded := make([]string, 0, len(excludes))
	for _, path := range excludes {
		if path == "" {
			continue
		}
		excluded = append(excluded, filepath.Clean(path))
	}

	var files []string
	for _, root := range roots {
		if root == "" {
			continue
		}
		root = filepath.Clean(root)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && isExcluded(path, excluded) {
				return filepath.SkipDir
			}
			if d.IsDir() {
				return nil
			}
			if isExcluded(path, excluded) {
				return nil
			}
			if !force && !isDICOMFile(path) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// isExcluded matches cleaned path prefixes, and bare names with no
// separator against the last path component, so an entry like DICOMDIR
// applies at any depth.
func isExcluded(path string, excludes []string) bool {
	clean := filepath.Clean(path)
	base := filepath.Base(clean)
	for _, exclude := range excludes {
		if !strings.ContainsRune(exclude, filepath.Separator) && exclude == base {
			return true
		}
		if exclude == clean || strings.HasPrefix(clean, exclude+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}

// isDICOMFile reports whether the file starts with a DICOM part 10
// preamble: 128 bytes followed by "DICM".
func isDICOMFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	magic := make([]byte, 4)
	if _, err := f.ReadAt(magic, 128); err != nil {
		return false
	}
	return string(magic) == "DICM"
}
