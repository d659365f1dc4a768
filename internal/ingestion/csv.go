package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonathan/hr-pulse/internal/types"
)

// ReadCSV parses a header row followed by records. Empty fields and fields
// missing from short rows are reported as absent (nil).
func ReadCSV(r io.Reader) ([]string, []RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, &SchemaError{Message: "empty input, no header row"}
		}
		return nil, nil, &SchemaError{Message: "failed to read header row", Cause: err}
	}
	if len(header) > 0 {
		header[0] = trimBOM(header[0])
	}

	var rows []RawRecord
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, &SchemaError{Message: "malformed CSV record", Cause: err}
		}

		row := make(RawRecord, len(header))
		for i, col := range header {
			if i >= len(fields) || fields[i] == "" {
				row[col] = nil
				continue
			}
			value := fields[i]
			row[col] = &value
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// LoadAndClean reads the CSV at path and normalizes it.
func LoadAndClean(path string) ([]types.NormalizedRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return ReadAndClean(f)
}

// ReadAndClean reads CSV from r and normalizes it.
func ReadAndClean(r io.Reader) ([]types.NormalizedRecord, error) {
	columns, rows, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}
	return Normalize(columns, rows)
}

func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
