// Package fileread normalizes tabular user records out of CSV, JSON, XLSX,
// and XML files into the canonical id/name/email/region/signup_date column
// set the query layer expects.
package fileread

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// CanonicalColumns is the fixed column set every reader normalizes its
// output to.
var CanonicalColumns = []string{"id", "name", "email", "region", "signup_date"}

// Row is one normalized record, keyed by the lowercase canonical column
// names present in the source.
type Row map[string]any

// ErrUnsupportedExtension is returned for any extension outside
// csv/json/xlsx/xls/xml.
var ErrUnsupportedExtension = fmt.Errorf("fileread: unsupported file extension")

// ReadFile dispatches to the reader matching path's (lowercased) extension
// and normalizes every record to CanonicalColumns.
func ReadFile(path string) ([]Row, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return readCSV(path)
	case ".json":
		return readJSON(path)
	case ".xlsx", ".xls":
		return readXLSX(path)
	case ".xml":
		return readXML(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExtension, ext)
	}
}

// normalizeRecord lifts an arbitrarily-keyed record into the canonical
// column set, matching on a lowercased header, and coerces id to int when
// possible.
func normalizeRecord(raw map[string]any) Row {
	lowered := make(map[string]any, len(raw))
	for k, v := range raw {
		lowered[strings.ToLower(strings.TrimSpace(k))] = v
	}

	out := make(Row)
	for _, col := range CanonicalColumns {
		if v, ok := lowered[col]; ok {
			out[col] = v
		}
	}
	if v, ok := out["id"]; ok {
		out["id"] = coerceID(v)
	}
	return out
}

func coerceID(v any) any {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
		return n
	default:
		return v
	}
}
