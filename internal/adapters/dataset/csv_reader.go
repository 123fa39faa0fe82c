// Package dataset implements the DatasetReader port over CSV files.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"route-optimizer-mcp/internal/domain"
)

// CSVReader reads a whole CSV file into header-keyed string rows. Short
// records are padded with empty values; a row longer than the header keeps
// only the headered columns.
type CSVReader struct{}

func NewCSVReader() *CSVReader { return &CSVReader{} }

func (r *CSVReader) ReadRows(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewError(domain.ErrFileNotFound,
				fmt.Sprintf("input file %q does not exist", path),
				"check the file path",
			).WithDetail("path", path)
		}
		return nil, fmt.Errorf("read rows: open %q: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return []map[string]string{}, nil
		}
		return nil, fmt.Errorf("read rows: read header of %q: %w", path, err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	rows := []map[string]string{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rows: read %q: %w", path, err)
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(record) {
				row[name] = record[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
