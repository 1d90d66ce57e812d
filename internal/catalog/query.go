package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Patients lists every patient UID in insertion order.
func (d *Database) Patients(ctx context.Context) ([]string, error) {
	return d.queryStrings(ctx, "SELECT uid FROM patients ORDER BY rowid")
}

// StudiesForPatient lists the study UIDs under a patient, empty when the
// patient is unknown.
func (d *Database) StudiesForPatient(ctx context.Context, patientUID string) ([]string, error) {
	return d.queryStrings(ctx,
		"SELECT study_uid FROM studies WHERE patient_uid = ? ORDER BY rowid", patientUID)
}

// SeriesForStudy lists the series UIDs under a study, empty when the
// study is unknown.
func (d *Database) SeriesForStudy(ctx context.Context, studyUID string) ([]string, error) {
	return d.queryStrings(ctx,
		"SELECT series_uid FROM series WHERE study_uid = ? ORDER BY rowid", studyUID)
}

// FilesForSeries lists the stored file path of every instance in a
// series. Instances without a stored file contribute an empty string.
func (d *Database) FilesForSeries(ctx context.Context, seriesUID string) ([]string, error) {
	return d.queryStrings(ctx,
		"SELECT filename FROM instances WHERE series_uid = ? ORDER BY rowid", seriesUID)
}

// FileForInstance returns the stored file path for a SOP instance UID,
// empty when the instance is unknown.
func (d *Database) FileForInstance(ctx context.Context, sopUID string) (string, error) {
	if err := d.requireOpen(); err != nil {
		return "", err
	}

	var filename string
	err := d.db.QueryRowContext(ctx,
		"SELECT filename FROM instances WHERE sop_uid = ?", sopUID,
	).Scan(&filename)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("resolving instance file: %w", err)
	}
	return filename, nil
}

func (d *Database) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	if err := d.requireOpen(); err != nil {
		return nil, err
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying hierarchy: %w", err)
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scanning hierarchy row: %w", err)
		}
		values = append(values, value)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hierarchy rows: %w", err)
	}

	return values, nil
}
