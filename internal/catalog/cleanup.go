package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// CleanupResult counts what one Cleanup pass reconciled.
type CleanupResult struct {
	InstancesRemoved int
	FilesRemoved     int
}

// Cleanup reconciles rows and files in both directions: instance rows
// whose file vanished from disk are dropped, and files in the object
// and thumbnail trees no row references any more are deleted. In-memory
// stores only get the row direction.
func (d *Database) Cleanup(ctx context.Context) (CleanupResult, error) {
	var result CleanupResult

	if err := d.requireOpen(); err != nil {
		return result, err
	}

	removed, err := d.dropMissingInstances(ctx)
	if err != nil {
		d.lastErr = err.Error()
		return result, err
	}
	result.InstancesRemoved = removed

	if !d.memory {
		deleted, err := d.deleteOrphanFiles(ctx)
		if err != nil {
			d.lastErr = err.Error()
			return result, err
		}
		result.FilesRemoved = deleted
	}

	d.lastErr = ""
	if result.InstancesRemoved > 0 || result.FilesRemoved > 0 {
		d.notifyChanged()
	}
	return result, nil
}

// dropMissingInstances deletes instance rows whose recorded file no
// longer exists. Rows without an absolute path, which in-memory stores
// record for transient datasets, are left alone.
func (d *Database) dropMissingInstances(ctx context.Context) (int, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT sop_uid, filename FROM instances WHERE filename <> ''")
	if err != nil {
		return 0, fmt.Errorf("listing indexed files: %w", err)
	}

	var stale []string
	for rows.Next() {
		var sopUID, filename string
		if err := rows.Scan(&sopUID, &filename); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning indexed file row: %w", err)
		}
		if !filepath.IsAbs(filename) {
			continue
		}
		if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
			stale = append(stale, sopUID)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("iterating indexed file rows: %w", err)
	}
	rows.Close()

	if len(stale) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(stale))
	args := make([]any, len(stale))
	for i, sopUID := range stale {
		placeholders[i] = "?"
		args[i] = sopUID
	}

	query := fmt.Sprintf(
		"DELETE FROM instances WHERE sop_uid IN (%s)",
		strings.Join(placeholders, ", "))

	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("removing stale instances: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}

	slog.Debug("stale instances removed", "count", affected)
	return int(affected), nil
}

// deleteOrphanFiles walks the object and thumbnail trees and deletes
// every file no instance row references, pruning directories the
// deletions leave empty.
func (d *Database) deleteOrphanFiles(ctx context.Context) (int, error) {
	referenced, err := d.referencedFiles(ctx)
	if err != nil {
		return 0, err
	}

	deleted := 0
	pruneDirs := make(map[string]struct{})

	for _, root := range []string{d.files.ObjectRoot(), d.files.ThumbnailRoot()} {
		err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return err
			}
			if entry.IsDir() {
				return nil
			}
			if _, ok := referenced[filepath.Clean(path)]; ok {
				return nil
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("removing orphan file: %w", err)
			}
			deleted++
			pruneDirs[filepath.Dir(path)] = struct{}{}
			return nil
		})
		if err != nil {
			return deleted, fmt.Errorf("walking %s: %w", root, err)
		}
	}

	for dir := range pruneDirs {
		d.files.Prune(dir)
	}

	if deleted > 0 {
		slog.Debug("orphan files removed", "count", deleted)
	}
	return deleted, nil
}

func (d *Database) referencedFiles(ctx context.Context) (map[string]struct{}, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT filename, thumbnail FROM instances")
	if err != nil {
		return nil, fmt.Errorf("listing referenced files: %w", err)
	}
	defer rows.Close()

	referenced := make(map[string]struct{})
	for rows.Next() {
		var filename, thumb string
		if err := rows.Scan(&filename, &thumb); err != nil {
			return nil, fmt.Errorf("scanning referenced file row: %w", err)
		}
		for _, path := range []string{filename, thumb} {
			if path != "" && filepath.IsAbs(path) {
				referenced[filepath.Clean(path)] = struct{}{}
			}
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating referenced file rows: %w", err)
	}

	return referenced, nil
}
