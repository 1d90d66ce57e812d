package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dicomdex/internal/dataset"
	"dicomdex/internal/dicomtag"
)

// identity carries the attributes one dataset contributes to the index.
// The patient UID is the PatientID and PatientName concatenated, so
// datasets that agree on both land under the same patient.
type identity struct {
	patientUID  string
	patientID   string
	patientName string
	birthDate   string
	sex         string

	studyUID  string
	studyID   string
	studyDate string
	studyTime string
	accession string
	studyDesc string

	seriesUID    string
	seriesNumber string
	modality     string
	seriesDesc   string
	bodyPart     string

	sopUID         string
	sopClassUID    string
	instanceNumber string
}

func identityOf(ds *dataset.Dataset) identity {
	get := func(t dicomtag.Tag) string {
		return strings.TrimSpace(ds.GetString(t))
	}

	id := identity{
		patientID:   get(dicomtag.PatientID),
		patientName: get(dicomtag.PatientName),
		birthDate:   get(dicomtag.PatientBirthDate),
		sex:         get(dicomtag.PatientSex),

		studyUID:  get(dicomtag.StudyInstanceUID),
		studyID:   get(dicomtag.StudyID),
		studyDate: get(dicomtag.StudyDate),
		studyTime: get(dicomtag.StudyTime),
		accession: get(dicomtag.AccessionNumber),
		studyDesc: get(dicomtag.StudyDescription),

		seriesUID:    get(dicomtag.SeriesInstanceUID),
		seriesNumber: get(dicomtag.SeriesNumber),
		modality:     get(dicomtag.Modality),
		seriesDesc:   get(dicomtag.SeriesDescription),
		bodyPart:     get(dicomtag.BodyPartExamined),

		sopUID:         get(dicomtag.SOPInstanceUID),
		sopClassUID:    get(dicomtag.SOPClassUID),
		instanceNumber: get(dicomtag.InstanceNumber),
	}
	id.patientUID = id.patientID + id.patientName
	return id
}

// Insert indexes a parsed dataset. With storeFile set the encoded
// dataset is written into the object tree and the stored path recorded
// as the instance file. With generateThumbnail set and a generator
// configured, a thumbnail lands in the parallel tree. In-memory stores
// index only, they never write files.
func (d *Database) Insert(ctx context.Context, ds *dataset.Dataset, storeFile, generateThumbnail bool) error {
	return d.insert(ctx, ds, "", storeFile, generateThumbnail)
}

// InsertFile parses the header of the file at path and indexes it. A
// file whose instance is already indexed and unchanged on disk since is
// skipped without touching the store.
func (d *Database) InsertFile(ctx context.Context, path string, storeFile, generateThumbnail bool) error {
	if err := d.requireOpen(); err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving source path: %w", err)
	}

	current, err := d.FileExistsAndUpToDate(ctx, abs)
	if err != nil {
		return err
	}
	if current {
		slog.Debug("file already indexed", "file", abs)
		return nil
	}

	ds, err := dataset.FromFileMetadata(abs)
	if err != nil {
		d.lastErr = err.Error()
		return err
	}

	return d.insert(ctx, ds, abs, storeFile, generateThumbnail)
}

func (d *Database) insert(ctx context.Context, ds *dataset.Dataset, sourcePath string, storeFile, generateThumbnail bool) error {
	if err := d.requireOpen(); err != nil {
		return err
	}

	id := identityOf(ds)
	if id.patientUID == "" && id.studyUID == "" {
		err := errors.New("dataset carries no patient or study identity")
		d.lastErr = err.Error()
		return err
	}

	if sourcePath != "" && id.sopUID != "" {
		current, err := d.instanceUpToDate(ctx, id.sopUID, sourcePath)
		if err != nil {
			d.lastErr = err.Error()
			return err
		}
		if current {
			slog.Debug("instance already indexed", "sop", id.sopUID)
			return nil
		}
	}

	complete := id.studyUID != "" && id.seriesUID != "" && id.sopUID != ""
	storing := storeFile && !d.memory && complete

	var filename string
	switch {
	case d.memory:
		filename = sourcePath
		if filename == "" && complete {
			filename = d.files.PathFor(id.studyUID, id.seriesUID, id.sopUID)
		}
	case storing:
		filename = d.files.PathFor(id.studyUID, id.seriesUID, id.sopUID)
	default:
		filename = sourcePath
	}

	// Files land on disk before the rows commit. A crash in between
	// leaves an unreferenced file for Cleanup, never a row pointing at
	// nothing. A source already at its canonical path must not be
	// copied onto itself.
	if storing && sourcePath != filename {
		if sourcePath != "" {
			if err := d.files.Store(sourcePath, filename); err != nil {
				d.lastErr = err.Error()
				return err
			}
		} else {
			encoded, err := ds.Bytes()
			if err != nil {
				d.lastErr = err.Error()
				return err
			}
			if err := d.files.StoreBytes(encoded, filename); err != nil {
				d.lastErr = err.Error()
				return err
			}
		}
	}

	var thumb string
	if generateThumbnail && d.generator != nil && !d.memory && complete {
		img, err := d.generator.Generate(ds)
		if err != nil {
			slog.Warn("thumbnail generation failed", "sop", id.sopUID, "error", err)
		} else if len(img) > 0 {
			path := d.files.ThumbnailPathFor(id.studyUID, id.seriesUID, id.sopUID)
			if err := d.files.StoreBytes(img, path); err != nil {
				slog.Warn("storing thumbnail failed", "sop", id.sopUID, "error", err)
			} else {
				thumb = path
			}
		}
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		d.lastErr = err.Error()
		return fmt.Errorf("beginning insert transaction: %w", err)
	}
	defer tx.Rollback()

	if err := upsertHierarchy(ctx, tx, id, filename, thumb, now); err != nil {
		d.lastErr = err.Error()
		return err
	}

	if err := tx.Commit(); err != nil {
		d.lastErr = err.Error()
		return fmt.Errorf("committing insert: %w", err)
	}

	d.lastErr = ""
	d.notifyChanged()
	return nil
}

// upsertHierarchy writes the patient, study, series and instance rows a
// dataset identifies, stopping at the first level the dataset does not
// name. Re-inserts refresh instance attributes but never blank out a
// recorded file or thumbnail.
func upsertHierarchy(ctx context.Context, tx *sql.Tx, id identity, filename, thumbnail, now string) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO patients (uid, patient_id, patient_name, birth_date, sex, inserted_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (uid) DO NOTHING`,
		id.patientUID, id.patientID, id.patientName, id.birthDate, id.sex, now,
	); err != nil {
		return fmt.Errorf("upserting patient: %w", err)
	}

	if id.studyUID == "" {
		return nil
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO studies (study_uid, patient_uid, study_id, study_date, study_time, accession_number, description, inserted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (study_uid) DO NOTHING`,
		id.studyUID, id.patientUID, id.studyID, id.studyDate, id.studyTime, id.accession, id.studyDesc, now,
	); err != nil {
		return fmt.Errorf("upserting study: %w", err)
	}

	if id.seriesUID == "" {
		return nil
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO series (series_uid, study_uid, series_number, modality, description, body_part, inserted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (series_uid) DO NOTHING`,
		id.seriesUID, id.studyUID, id.seriesNumber, id.modality, id.seriesDesc, id.bodyPart, now,
	); err != nil {
		return fmt.Errorf("upserting series: %w", err)
	}

	if id.sopUID == "" {
		return nil
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO instances (sop_uid, series_uid, sop_class_uid, instance_number, filename, thumbnail, inserted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (sop_uid) DO UPDATE SET
			series_uid = excluded.series_uid,
			sop_class_uid = excluded.sop_class_uid,
			instance_number = excluded.instance_number,
			filename = iif(excluded.filename = '', filename, excluded.filename),
			thumbnail = iif(excluded.thumbnail = '', thumbnail, excluded.thumbnail),
			inserted_at = excluded.inserted_at`,
		id.sopUID, id.seriesUID, id.sopClassUID, id.instanceNumber, filename, thumbnail, now,
	); err != nil {
		return fmt.Errorf("upserting instance: %w", err)
	}

	return nil
}

// FileExistsAndUpToDate reports whether the file at path is indexed
// under this exact path and unchanged on disk since it was indexed.
func (d *Database) FileExistsAndUpToDate(ctx context.Context, path string) (bool, error) {
	if err := d.requireOpen(); err != nil {
		return false, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("resolving source path: %w", err)
	}

	var insertedAt string
	err = d.db.QueryRowContext(ctx,
		"SELECT inserted_at FROM instances WHERE filename = ? LIMIT 1", abs,
	).Scan(&insertedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking indexed file: %w", err)
	}

	return notStale(insertedAt, abs), nil
}

// instanceUpToDate reports whether the instance is indexed with an
// intact stored file and the source file has not changed since.
func (d *Database) instanceUpToDate(ctx context.Context, sopUID, sourcePath string) (bool, error) {
	var filename, insertedAt string
	err := d.db.QueryRowContext(ctx,
		"SELECT filename, inserted_at FROM instances WHERE sop_uid = ?", sopUID,
	).Scan(&filename, &insertedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking indexed instance: %w", err)
	}

	if filename == "" {
		return false, nil
	}
	if _, err := os.Stat(filename); err != nil {
		return false, nil
	}
	return notStale(insertedAt, sourcePath), nil
}

// notStale reports whether the file at path is no newer than the
// recorded insertion time. Unparseable timestamps and stat failures
// count as stale so the caller re-indexes.
func notStale(insertedAt, path string) bool {
	indexed, err := time.Parse(time.RFC3339Nano, insertedAt)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.ModTime().After(indexed)
}
