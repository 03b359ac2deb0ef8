package fileread

import (
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// readXLSX reads the first sheet of an Excel workbook, treating row 1 as
// the header.
func readXLSX(path string) ([]Row, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fileread: stat %s: %w", path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("fileread: open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("fileread: read sheet %s: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	var rows []Row
	for _, record := range records[1:] {
		raw := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(record) {
				raw[strings.TrimSpace(col)] = record[i]
			}
		}
		rows = append(rows, normalizeRecord(raw))
	}
	return rows, nil
}
