package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type mockCatalog struct {
	inserted   []string
	lastStore  bool
	lastThumbs bool
	upToDate   map[string]bool
	failSuffix string
}

func (m *mockCatalog) FileExistsAndUpToDate(ctx context.Context, path string) (bool, error) {
	return m.upToDate[path], nil
}

func (m *mockCatalog) InsertFile(ctx context.Context, path string, storeFile, generateThumbnail bool) error {
	if m.failSuffix != "" && strings.HasSuffix(path, m.failSuffix) {
		return errors.New("forced error")
	}
	m.inserted = append(m.inserted, path)
	m.lastStore = storeFile
	m.lastThumbs = generateThumbnail
	return nil
}

// writeDICOMStub writes a file with a valid part 10 preamble but
// arbitrary content, enough for discovery without a full dataset.
func writeDICOMStub(t *testing.T, dir, name string) string {
	t.Helper()

	content := make([]byte, 140)
	copy(content[128:], "DICM")
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating directories for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing stub %s: %v", path, err)
	}
	return path
}

func writeTextFile(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("writing text file %s: %v", path, err)
	}
	return path
}

func TestRun_IngestsDiscoveredFiles(t *testing.T) {
	dir := t.TempDir()
	one := writeDICOMStub(t, dir, "a.dcm")
	two := writeDICOMStub(t, dir, filepath.Join("nested", "deeper", "b"))
	writeTextFile(t, dir, "README.txt")

	db := &mockCatalog{}
	result, err := Run(context.Background(), db, []string{dir}, nil, Options{StoreFiles: true, Thumbnails: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.FilesIngested != 2 {
		t.Fatalf("ingested = %d, want 2", result.FilesIngested)
	}
	if len(db.inserted) != 2 {
		t.Fatalf("inserted = %v, want two paths", db.inserted)
	}
	want := map[string]bool{one: true, two: true}
	for _, path := range db.inserted {
		if !want[path] {
			t.Errorf("unexpected ingested path %s", path)
		}
	}
	if !db.lastStore || !db.lastThumbs {
		t.Errorf("options not forwarded: store=%v thumbs=%v", db.lastStore, db.lastThumbs)
	}
}

func TestRun_SkipsUpToDateFiles(t *testing.T) {
	dir := t.TempDir()
	fresh := writeDICOMStub(t, dir, "fresh.dcm")
	stale := writeDICOMStub(t, dir, "stale.dcm")

	db := &mockCatalog{upToDate: map[string]bool{fresh: true}}
	result, err := Run(context.Background(), db, []string{dir}, nil, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.FilesSkipped != 1 {
		t.Errorf("skipped = %d, want 1", result.FilesSkipped)
	}
	if result.FilesIngested != 1 {
		t.Errorf("ingested = %d, want 1", result.FilesIngested)
	}
	if len(db.inserted) != 1 || db.inserted[0] != stale {
		t.Errorf("inserted = %v, want [%s]", db.inserted, stale)
	}
}

func TestRun_HonorsExcludes(t *testing.T) {
	dir := t.TempDir()
	kept := writeDICOMStub(t, dir, "keep.dcm")
	writeDICOMStub(t, dir, filepath.Join("quarantine", "bad.dcm"))
	writeDICOMStub(t, dir, "DICOMDIR")
	writeDICOMStub(t, dir, filepath.Join("nested", "DICOMDIR"))

	excludes := []string{filepath.Join(dir, "quarantine"), "DICOMDIR"}
	db := &mockCatalog{}
	result, err := Run(context.Background(), db, []string{dir}, excludes, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.FilesIngested != 1 {
		t.Fatalf("ingested = %d, want 1", result.FilesIngested)
	}
	if len(db.inserted) != 1 || db.inserted[0] != kept {
		t.Errorf("inserted = %v, want [%s]", db.inserted, kept)
	}
}

func TestRun_ContinuesOnError(t *testing.T) {
	dir := t.TempDir()
	writeDICOMStub(t, dir, "bad.dcm")
	good := writeDICOMStub(t, dir, "good.dcm")

	db := &mockCatalog{failSuffix: "bad.dcm"}
	result, err := Run(context.Background(), db, []string{dir}, nil, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.FilesFailed != 1 {
		t.Errorf("failed = %d, want 1", result.FilesFailed)
	}
	if len(result.Errors) != 1 {
		t.Errorf("errors = %v, want one entry", result.Errors)
	}
	if result.FilesIngested != 1 {
		t.Errorf("ingested = %d, want 1", result.FilesIngested)
	}
	if len(db.inserted) != 1 || db.inserted[0] != good {
		t.Errorf("inserted = %v, want [%s]", db.inserted, good)
	}
}

func TestRun_AcceptsSingleFilePath(t *testing.T) {
	dir := t.TempDir()
	path := writeDICOMStub(t, dir, "single.dcm")

	db := &mockCatalog{}
	result, err := Run(context.Background(), db, []string{path}, nil, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.FilesIngested != 1 {
		t.Fatalf("ingested = %d, want 1", result.FilesIngested)
	}
	if len(db.inserted) != 1 || db.inserted[0] != path {
		t.Errorf("inserted = %v, want [%s]", db.inserted, path)
	}
}

func TestRun_ForceFeedsEveryFile(t *testing.T) {
	dir := t.TempDir()
	marked := writeDICOMStub(t, dir, "marked.dcm")
	plain := writeTextFile(t, dir, "headerless")

	db := &mockCatalog{}
	result, err := Run(context.Background(), db, []string{dir}, nil, Options{Force: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.FilesIngested != 2 {
		t.Fatalf("ingested = %d, want 2", result.FilesIngested)
	}
	want := map[string]bool{marked: true, plain: true}
	for _, path := range db.inserted {
		if !want[path] {
			t.Errorf("unexpected ingested path %s", path)
		}
	}
}

func TestRun_MissingRootFails(t *testing.T) {
	db := &mockCatalog{}
	_, err := Run(context.Background(), db, []string{filepath.Join(t.TempDir(), "absent")}, nil, Options{})
	if err == nil {
		t.Fatal("expected walking a missing root to fail")
	}
}

func TestIsDICOMFile(t *testing.T) {
	dir := t.TempDir()

	if !isDICOMFile(writeDICOMStub(t, dir, "real.dcm")) {
		t.Error("stub with preamble not recognized")
	}
	if isDICOMFile(writeTextFile(t, dir, "short.txt")) {
		t.Error("short text file recognized as DICOM")
	}

	long := filepath.Join(dir, "long.bin")
	if err := os.WriteFile(long, make([]byte, 200), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	if isDICOMFile(long) {
		t.Error("zero-filled file recognized as DICOM")
	}
}
