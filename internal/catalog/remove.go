package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
)

type storedFile struct {
	filename  string
	thumbnail string
}

// RemoveSeries deletes a series with its instances, and the stored files
// and thumbnails under the database directory that belonged to them.
// It reports false when the series is unknown, or when a stored file
// could not be deleted. File deletion failures do not undo the row
// removal; they are logged and land in LastError.
func (d *Database) RemoveSeries(ctx context.Context, seriesUID string) (bool, error) {
	return d.remove(ctx,
		"SELECT filename, thumbnail FROM instances WHERE series_uid = ?",
		"DELETE FROM series WHERE series_uid = ?",
		seriesUID)
}

// RemoveStudy deletes a study and everything under it, as RemoveSeries
// does for one series.
func (d *Database) RemoveStudy(ctx context.Context, studyUID string) (bool, error) {
	return d.remove(ctx,
		`SELECT i.filename, i.thumbnail
		 FROM instances i
		 JOIN series s ON i.series_uid = s.series_uid
		 WHERE s.study_uid = ?`,
		"DELETE FROM studies WHERE study_uid = ?",
		studyUID)
}

// RemovePatient deletes a patient and everything under them, as
// RemoveSeries does for one series.
func (d *Database) RemovePatient(ctx context.Context, patientUID string) (bool, error) {
	return d.remove(ctx,
		`SELECT i.filename, i.thumbnail
		 FROM instances i
		 JOIN series s ON i.series_uid = s.series_uid
		 JOIN studies st ON s.study_uid = st.study_uid
		 WHERE st.patient_uid = ?`,
		"DELETE FROM patients WHERE uid = ?",
		patientUID)
}

func (d *Database) remove(ctx context.Context, collectQuery, deleteQuery, uid string) (bool, error) {
	if err := d.requireOpen(); err != nil {
		return false, err
	}

	files, err := d.collectStoredFiles(ctx, collectQuery, uid)
	if err != nil {
		d.lastErr = err.Error()
		return false, err
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		d.lastErr = err.Error()
		return false, fmt.Errorf("beginning remove transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, deleteQuery, uid)
	if err != nil {
		d.lastErr = err.Error()
		return false, fmt.Errorf("deleting rows: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		d.lastErr = err.Error()
		return false, fmt.Errorf("counting deleted rows: %w", err)
	}
	if affected == 0 {
		d.lastErr = ""
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		d.lastErr = err.Error()
		return false, fmt.Errorf("committing remove: %w", err)
	}

	d.lastErr = ""
	removed := d.removeStoredFiles(files)
	if !removed {
		d.lastErr = "some stored files could not be deleted"
	}

	d.notifyChanged()
	return removed, nil
}

func (d *Database) collectStoredFiles(ctx context.Context, query, uid string) ([]storedFile, error) {
	rows, err := d.db.QueryContext(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("collecting stored files: %w", err)
	}
	defer rows.Close()

	var files []storedFile
	for rows.Next() {
		var f storedFile
		if err := rows.Scan(&f.filename, &f.thumbnail); err != nil {
			return nil, fmt.Errorf("scanning stored file row: %w", err)
		}
		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stored file rows: %w", err)
	}

	return files, nil
}

// removeStoredFiles deletes the files the removed rows pointed at. Only
// paths inside the database directory's object and thumbnail trees are
// touched; source files indexed in place stay where they are.
func (d *Database) removeStoredFiles(files []storedFile) bool {
	if d.memory {
		return true
	}

	ok := true
	for _, f := range files {
		for _, path := range []string{f.filename, f.thumbnail} {
			if path == "" || !d.ownsFile(path) {
				continue
			}
			if err := d.files.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("removing stored file failed", "file", path, "error", err)
				ok = false
			}
		}
	}
	return ok
}

func (d *Database) ownsFile(path string) bool {
	for _, root := range []string{d.files.ObjectRoot(), d.files.ThumbnailRoot()} {
		if strings.HasPrefix(filepath.Clean(path), root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
