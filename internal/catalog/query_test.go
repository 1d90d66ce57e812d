package catalog

import (
	"context"
	"testing"
)

func TestQueriesReturnEmptyForUnknownIdentifiers(t *testing.T) {
	d := openMemory(t)
	ctx := context.Background()

	checks := []struct {
		name string
		list func() ([]string, error)
	}{
		{"patients", func() ([]string, error) { return d.Patients(ctx) }},
		{"studies", func() ([]string, error) { return d.StudiesForPatient(ctx, "nobody") }},
		{"series", func() ([]string, error) { return d.SeriesForStudy(ctx, "no-study") }},
		{"files", func() ([]string, error) { return d.FilesForSeries(ctx, "no-series") }},
	}

	for _, check := range checks {
		t.Run(check.name, func(t *testing.T) {
			got, err := check.list()
			if err != nil {
				t.Fatalf("listing: %v", err)
			}
			if got == nil {
				t.Fatal("expected empty slice, got nil")
			}
			if len(got) != 0 {
				t.Fatalf("got %v, want empty", got)
			}
		})
	}

	file, err := d.FileForInstance(ctx, "no-instance")
	if err != nil {
		t.Fatalf("resolving unknown instance: %v", err)
	}
	if file != "" {
		t.Errorf("file for unknown instance = %q, want empty", file)
	}
}

func TestHierarchyGroupsByParent(t *testing.T) {
	d := openMemory(t)
	ctx := context.Background()

	inserts := []struct {
		patient, study, series, sop string
	}{
		{"PA", "SA1", "SEA1", "IA1"},
		{"PA", "SA1", "SEA2", "IA2"},
		{"PA", "SA2", "SEA3", "IA3"},
		{"PB", "SB1", "SEB1", "IB1"},
	}
	for _, in := range inserts {
		if err := d.Insert(ctx, buildDataset(t, in.patient, in.study, in.series, in.sop), false, false); err != nil {
			t.Fatalf("inserting %s: %v", in.sop, err)
		}
	}

	patients, err := d.Patients(ctx)
	if err != nil {
		t.Fatalf("listing patients: %v", err)
	}
	if len(patients) != 2 || patients[0] != "PA" || patients[1] != "PB" {
		t.Fatalf("patients = %v, want [PA PB] in insertion order", patients)
	}

	studies, err := d.StudiesForPatient(ctx, "PA")
	if err != nil {
		t.Fatalf("listing studies: %v", err)
	}
	if len(studies) != 2 || studies[0] != "SA1" || studies[1] != "SA2" {
		t.Fatalf("studies for PA = %v, want [SA1 SA2]", studies)
	}

	series, err := d.SeriesForStudy(ctx, "SA1")
	if err != nil {
		t.Fatalf("listing series: %v", err)
	}
	if len(series) != 2 || series[0] != "SEA1" || series[1] != "SEA2" {
		t.Fatalf("series for SA1 = %v, want [SEA1 SEA2]", series)
	}

	files, err := d.FilesForSeries(ctx, "SEB1")
	if err != nil {
		t.Fatalf("listing files: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("files for SEB1 = %v, want one entry", files)
	}
}

func TestFilesForSeriesKeepsUnstoredInstances(t *testing.T) {
	d := openFile(t)
	ctx := context.Background()

	// A dataset indexed without a file still occupies a slot in the
	// series listing, as an empty path.
	if err := d.Insert(ctx, buildDataset(t, "P1", "S1", "SE1", "I1"), false, false); err != nil {
		t.Fatalf("inserting: %v", err)
	}

	files, err := d.FilesForSeries(ctx, "SE1")
	if err != nil {
		t.Fatalf("listing files: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("files = %v, want one entry", files)
	}
	if files[0] != "" {
		t.Errorf("file = %q, want empty for an unstored instance", files[0])
	}
}
