package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"route-optimizer-mcp/internal/domain"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestReadRows(t *testing.T) {
	path := writeCSV(t, "ID, Name ,lat\nd1,Alpha,37.5\nd2,Beta,37.6\n")

	rows, err := NewCSVReader().ReadRows(path)
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	// Header names are lowercased and trimmed.
	if rows[0]["id"] != "d1" || rows[0]["name"] != "Alpha" || rows[0]["lat"] != "37.5" {
		t.Fatalf("row = %v", rows[0])
	}
}

func TestReadRowsShortRecordPadded(t *testing.T) {
	path := writeCSV(t, "id,lat,lng\nd1,37.5\n")

	rows, err := NewCSVReader().ReadRows(path)
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if got, ok := rows[0]["lng"]; !ok || got != "" {
		t.Fatalf("short record should pad lng with empty string, got %q (present=%v)", got, ok)
	}
}

func TestReadRowsLongRecordTruncated(t *testing.T) {
	path := writeCSV(t, "id,lat\nd1,37.5,extra\n")

	rows, err := NewCSVReader().ReadRows(path)
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows[0]) != 2 {
		t.Fatalf("row = %v, want only headered columns", rows[0])
	}
}

func TestReadRowsEmptyFile(t *testing.T) {
	path := writeCSV(t, "")

	rows, err := NewCSVReader().ReadRows(path)
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("empty file should yield no rows, got %v", rows)
	}
}

func TestReadRowsHeaderOnly(t *testing.T) {
	path := writeCSV(t, "id,lat,lng\n")

	rows, err := NewCSVReader().ReadRows(path)
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("header-only file should yield no rows, got %v", rows)
	}
}

func TestReadRowsMissingFile(t *testing.T) {
	_, err := NewCSVReader().ReadRows(filepath.Join(t.TempDir(), "no-such.csv"))
	if domain.CodeOf(err) != domain.ErrFileNotFound {
		t.Fatalf("err = %v, want file-not-found code", err)
	}
}
