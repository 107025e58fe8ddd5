package utils

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestReadFeaturesJSON(t *testing.T) {
	m, err := ReadFeaturesJSON(strings.NewReader(`[[1, 2], [3, 4.5]]`))
	if err != nil {
		t.Fatal(err)
	}
	if m.Rows() != 2 || m.Cols() != 2 || m.Row(1)[1] != 4.5 {
		t.Errorf("unexpected matrix %v %v", m.Shape, m.Data)
	}

	m, err = ReadFeaturesJSON(strings.NewReader(`[0.5, 1, 2]`))
	if err != nil {
		t.Fatal(err)
	}
	if m.Rows() != 1 || m.Cols() != 3 {
		t.Errorf("unexpected shape %v", m.Shape)
	}

	if _, err := ReadFeaturesJSON(strings.NewReader(`{"x": 1}`)); err == nil {
		t.Error("expected error for object")
	}
}

func TestReadFeaturesCSV(t *testing.T) {
	m, err := ReadFeaturesCSV(strings.NewReader("1, 2, 3\n4,5,6\n"))
	if err != nil {
		t.Fatal(err)
	}
	if m.Rows() != 2 || m.Cols() != 3 || m.Row(1)[0] != 4 {
		t.Errorf("unexpected matrix %v %v", m.Shape, m.Data)
	}

	_, err = ReadFeaturesCSV(strings.NewReader("1,2\n3,oops\n"))
	var numErr *strconv.NumError
	if !errors.As(err, &numErr) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name the line: %v", err)
	}
}

func TestLoadFeaturesByExtension(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "x.json")
	csvPath := filepath.Join(dir, "x.csv")
	if err := os.WriteFile(jsonPath, []byte(`[[1,2]]`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(csvPath, []byte("1,2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{jsonPath, csvPath} {
		m, err := LoadFeatures(p)
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		if m.Rows() != 1 || m.Cols() != 2 {
			t.Errorf("%s: shape %v", p, m.Shape)
		}
	}
	if _, err := LoadFeatures(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}
