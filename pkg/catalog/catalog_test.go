package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"hpmri/pkg/logger"
	"hpmri/pkg/mrd"
)

// createDatasetTree lays out an EPSI folder with three datasets: two valid
// acquisitions and one folder without an MRD file.
func createDatasetTree(t *testing.T) string {
	root := t.TempDir()

	write := func(folder, name string, data []byte) {
		dir := filepath.Join(root, folder)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
	}

	hdr := mrd.Header{Samples: 8, Views: 4, SliceViews: 1, Slices: 2, Echoes: 1, NEX: 1, SampleType: 21}
	raw, err := mrd.Encode(hdr, make([]complex128, 64), []byte("params"))
	if err != nil {
		t.Fatalf("Failed to encode MRD: %v", err)
	}

	write("b_scan", "notes.txt", []byte("ignore me"))
	write("b_scan", "acq.MRD", raw)
	write("a_scan", "acq.mrd", raw)
	write("c_empty", "readme.txt", []byte("nothing"))

	// Plain files at the root are not datasets
	if err := os.WriteFile(filepath.Join(root, "index.json"), []byte("{}"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	return root
}

func TestScanAndResolve(t *testing.T) {
	root := createDatasetTree(t)

	cat, err := Scan(root, "")
	if err != nil {
		t.Fatalf("Failed to scan: %v", err)
	}

	if cat.Len() != 3 {
		t.Fatalf("Expected 3 datasets, got %d", cat.Len())
	}

	names := cat.Datasets()
	if names[0] != "a_scan" || names[1] != "b_scan" || names[2] != "c_empty" {
		t.Errorf("Expected sorted dataset names, got %v", names)
	}

	path, err := cat.Resolve(1)
	if err != nil {
		t.Fatalf("Failed to resolve dataset 1: %v", err)
	}
	if filepath.Base(path) != "acq.MRD" {
		t.Errorf("Expected acq.MRD, got %s", path)
	}

	// Extension match is case insensitive
	if _, err := cat.Resolve(0); err != nil {
		t.Errorf("Expected lowercase extension to resolve, got %v", err)
	}

	_, err = cat.Resolve(2)
	if !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("Expected ErrDatasetNotFound for folder without MRD, got %v", err)
	}

	for _, index := range []int{-1, 3} {
		_, err = cat.Resolve(index)
		var ie *IndexError
		if !errors.As(err, &ie) || ie.Index != index || ie.Count != 3 {
			t.Errorf("Expected IndexError for index %d, got %v", index, err)
		}
	}
}

func TestScanMissingRoot(t *testing.T) {
	if _, err := Scan(filepath.Join(t.TempDir(), "missing"), ""); err == nil {
		t.Error("Expected error for missing root, got nil")
	}
}

func TestInventory(t *testing.T) {
	root := createDatasetTree(t)
	cat, err := Scan(root, DefaultMRDExtension)
	if err != nil {
		t.Fatalf("Failed to scan: %v", err)
	}

	infos, err := Inventory(context.Background(), cat, 2, &logger.NullLogger{})
	if err != nil {
		t.Fatalf("Inventory failed: %v", err)
	}

	if len(infos) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(infos))
	}

	for i, info := range infos[:2] {
		if info.Index != i {
			t.Errorf("Expected index %d, got %d", i, info.Index)
		}
		if info.Err != "" {
			t.Errorf("Unexpected error for %s: %s", info.Dataset, info.Err)
		}
		if info.Dimensions.Samples != 8 || info.Dimensions.Views != 4 || info.Dimensions.Slices != 2 {
			t.Errorf("Unexpected dimensions for %s: %+v", info.Dataset, info.Dimensions)
		}
		if info.SampleFormat != "complex float32" {
			t.Errorf("Expected complex float32, got %s", info.SampleFormat)
		}
	}

	if infos[2].Err == "" {
		t.Error("Expected an error entry for the empty dataset")
	}
}

func TestInventoryCancelled(t *testing.T) {
	cat := New(t.TempDir(), DefaultMRDExtension, []string{"a", "b", "c"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// With a cancelled context the feed loop may still hand out a task before
	// noticing, so only the error is checked.
	if _, err := Inventory(ctx, cat, 1, &logger.NullLogger{}); err != nil && !errors.Is(err, context.Canceled) {
		t.Errorf("Expected nil or context.Canceled, got %v", err)
	}
}

func TestProtonSeries(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"5091_00000.dcm", "5091_00001.dcm", "5091_00002.dcm", "localizer.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
	}

	series, err := ScanProtonSeries(dir, "")
	if err != nil {
		t.Fatalf("Failed to scan proton series: %v", err)
	}

	if series.Len() != 3 {
		t.Errorf("Expected 3 slices, got %d", series.Len())
	}

	path, err := series.Path(2)
	if err != nil {
		t.Fatalf("Failed to resolve slice 2: %v", err)
	}
	if filepath.Base(path) != "5091_00002.dcm" {
		t.Errorf("Expected 5091_00002.dcm, got %s", path)
	}

	for _, index := range []int{-1, 7} {
		if _, err := series.Path(index); !errors.Is(err, ErrSliceNotFound) {
			t.Errorf("Expected ErrSliceNotFound for index %d, got %v", index, err)
		}
	}
}
