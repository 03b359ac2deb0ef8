package fileread

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

// readJSON reads either a JSON array of records or a single record object.
func readJSON(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fileread: read %s: %w", path, err)
	}

	var records []map[string]any
	if err := sonic.Unmarshal(data, &records); err == nil {
		rows := make([]Row, 0, len(records))
		for _, r := range records {
			rows = append(rows, normalizeRecord(r))
		}
		return rows, nil
	}

	var single map[string]any
	if err := sonic.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("fileread: decode %s: %w", path, err)
	}
	return []Row{normalizeRecord(single)}, nil
}
