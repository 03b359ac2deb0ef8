package fileread

import (
	"encoding/csv"
	"fmt"
	"os"
)

// readCSV reads a header-first CSV file. The standard library's csv package
// is used deliberately: no third-party CSV library was found anywhere in
// the reference codebases for this project.
func readCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fileread: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, nil
	}

	var rows []Row
	for {
		record, err := r.Read()
		if err != nil {
			break
		}
		raw := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(record) {
				raw[col] = record[i]
			}
		}
		rows = append(rows, normalizeRecord(raw))
	}
	return rows, nil
}
