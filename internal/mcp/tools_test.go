package mcp

import (
	"context"
	"errors"
	"testing"
)

type mockCatalog struct {
	patientsResult []string
	patientsErr    error
	studiesResult  []string
	seriesResult   []string
	filesResult    []string
	fileResult     string
	valueResult    string
	valueErr       error

	lastPatientUID string
	lastStudyUID   string
	lastSeriesUID  string
	lastSOPUID     string
	lastTag        string
}

func (m *mockCatalog) Patients(ctx context.Context) ([]string, error) {
	return m.patientsResult, m.patientsErr
}

func (m *mockCatalog) StudiesForPatient(ctx context.Context, patientUID string) ([]string, error) {
	m.lastPatientUID = patientUID
	return m.studiesResult, nil
}

func (m *mockCatalog) SeriesForStudy(ctx context.Context, studyUID string) ([]string, error) {
	m.lastStudyUID = studyUID
	return m.seriesResult, nil
}

func (m *mockCatalog) FilesForSeries(ctx context.Context, seriesUID string) ([]string, error) {
	m.lastSeriesUID = seriesUID
	return m.filesResult, nil
}

func (m *mockCatalog) FileForInstance(ctx context.Context, sopUID string) (string, error) {
	m.lastSOPUID = sopUID
	return m.fileResult, nil
}

func (m *mockCatalog) InstanceValue(ctx context.Context, sopUID, key string) (string, error) {
	m.lastSOPUID = sopUID
	m.lastTag = key
	return m.valueResult, m.valueErr
}

func TestListPatients(t *testing.T) {
	db := &mockCatalog{patientsResult: []string{"P1", "P2"}}
	server := NewServer(db, "test")

	_, output, err := server.handleListPatients(context.Background(), nil, ListPatientsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Patients) != 2 || output.Patients[0] != "P1" {
		t.Fatalf("unexpected output: %+v", output)
	}
}

func TestListPatients_Error(t *testing.T) {
	db := &mockCatalog{patientsErr: errors.New("store closed")}
	server := NewServer(db, "test")

	_, _, err := server.handleListPatients(context.Background(), nil, ListPatientsInput{})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestListStudies(t *testing.T) {
	db := &mockCatalog{studiesResult: []string{"S1"}}
	server := NewServer(db, "test")

	_, output, err := server.handleListStudies(context.Background(), nil, ListStudiesInput{PatientUID: "P1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Studies) != 1 || output.Studies[0] != "S1" {
		t.Fatalf("unexpected output: %+v", output)
	}
	if db.lastPatientUID != "P1" {
		t.Fatalf("unexpected patient uid %q", db.lastPatientUID)
	}
}

func TestListStudies_RequiresPatient(t *testing.T) {
	server := NewServer(&mockCatalog{}, "test")

	_, _, err := server.handleListStudies(context.Background(), nil, ListStudiesInput{})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestListSeries(t *testing.T) {
	db := &mockCatalog{seriesResult: []string{"SE1", "SE2"}}
	server := NewServer(db, "test")

	_, output, err := server.handleListSeries(context.Background(), nil, ListSeriesInput{StudyUID: "S1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Series) != 2 {
		t.Fatalf("unexpected output: %+v", output)
	}
	if db.lastStudyUID != "S1" {
		t.Fatalf("unexpected study uid %q", db.lastStudyUID)
	}
}

func TestListFiles(t *testing.T) {
	db := &mockCatalog{filesResult: []string{"/archive/dicom/S1/SE1/I1"}}
	server := NewServer(db, "test")

	_, output, err := server.handleListFiles(context.Background(), nil, ListFilesInput{SeriesUID: "SE1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Files) != 1 {
		t.Fatalf("unexpected output: %+v", output)
	}
	if db.lastSeriesUID != "SE1" {
		t.Fatalf("unexpected series uid %q", db.lastSeriesUID)
	}
}

func TestFileForInstance(t *testing.T) {
	db := &mockCatalog{fileResult: "/archive/dicom/S1/SE1/I1"}
	server := NewServer(db, "test")

	_, output, err := server.handleFileForInstance(context.Background(), nil, FileForInstanceInput{SOPInstanceUID: "I1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.File != "/archive/dicom/S1/SE1/I1" {
		t.Fatalf("unexpected output: %+v", output)
	}
	if db.lastSOPUID != "I1" {
		t.Fatalf("unexpected sop uid %q", db.lastSOPUID)
	}
}

func TestInstanceValue(t *testing.T) {
	db := &mockCatalog{valueResult: "CT"}
	server := NewServer(db, "test")

	_, output, err := server.handleInstanceValue(context.Background(), nil, InstanceValueInput{SOPInstanceUID: "I1", Tag: "0008,0060"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Value != "CT" {
		t.Fatalf("unexpected output: %+v", output)
	}
	if db.lastSOPUID != "I1" || db.lastTag != "0008,0060" {
		t.Fatalf("unexpected params: sop=%q tag=%q", db.lastSOPUID, db.lastTag)
	}
}

func TestInstanceValue_RequiresTag(t *testing.T) {
	server := NewServer(&mockCatalog{}, "test")

	_, _, err := server.handleInstanceValue(context.Background(), nil, InstanceValueInput{SOPInstanceUID: "I1"})
	if err == nil {
		t.Fatalf("expected error")
	}
}
