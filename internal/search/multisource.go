// Package search fans a query out across the SQL store, the mock REST API,
// and flat file sources, tagging every row with its origin and merging
// duplicates into one canonical record per user.
package search

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nullpointers/mcp-datasource/internal/fileread"
	"github.com/nullpointers/mcp-datasource/internal/predicate"
	"github.com/nullpointers/mcp-datasource/internal/query"
	"github.com/nullpointers/mcp-datasource/internal/restclient"
	"github.com/nullpointers/mcp-datasource/internal/sqlstore"
)

// SQLLimit bounds how many rows the SQL leg of a multi-source search
// returns, independent of sqlstore's own implicit cap.
const SQLLimit = 200

// Searcher orchestrates a sequential sql -> api -> file fan-out. Sources
// run one after another, not in parallel, so a handful of local demo
// services never get hammered concurrently by one query.
type Searcher struct {
	Store       *sqlstore.Store
	APIClient   *restclient.Client // nil disables the API leg
	FilePaths   []string
}

// Row is one normalized, source-tagged user record.
type Row = map[string]any

// Search runs q against every configured source and returns the
// deduplicated, merged result set.
func (s *Searcher) Search(ctx context.Context, q string) ([]Row, error) {
	dnf := query.Parse(q)
	return s.SearchDNF(ctx, dnf)
}

// SearchDNF runs a pre-parsed predicate across every configured source.
func (s *Searcher) SearchDNF(ctx context.Context, dnf query.DNF) ([]Row, error) {
	var all []Row

	sqlRows, err := s.searchSQL(ctx, dnf)
	if err != nil {
		return nil, fmt.Errorf("search: sql leg: %w", err)
	}
	all = append(all, sqlRows...)

	apiRows, err := s.searchAPI(ctx, dnf)
	if err != nil {
		return nil, fmt.Errorf("search: api leg: %w", err)
	}
	all = append(all, apiRows...)

	all = append(all, s.searchFiles(dnf)...)

	return dedupe(all), nil
}

func (s *Searcher) searchSQL(ctx context.Context, dnf query.DNF) ([]Row, error) {
	if s.Store == nil {
		return nil, nil
	}
	compiled := predicate.Compile(dnf)
	sqlText := fmt.Sprintf("SELECT id, name, email, region, signup_date FROM users WHERE %s LIMIT %d", compiled.Where, SQLLimit)
	res, err := s.Store.Execute(ctx, sqlText, compiled.Args)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(res.Rows))
	for _, r := range res.Rows {
		row := Row{}
		for k, v := range r {
			row[k] = v
		}
		row["source"] = "sql"
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Searcher) searchAPI(ctx context.Context, dnf query.DNF) ([]Row, error) {
	if s.APIClient == nil {
		return nil, nil
	}
	result, err := s.APIClient.Get(ctx, "/users", nil, true)
	if err != nil {
		// The API leg is best-effort, matching the original's behavior of
		// returning no rows when the upstream call does not succeed.
		return nil, nil
	}

	list, ok := result.([]any)
	if !ok {
		return nil, nil
	}

	var rows []Row
	for _, item := range list {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if !predicate.Evaluate(record, dnf) {
			continue
		}
		row := Row{}
		for k, v := range record {
			row[k] = v
		}
		row["source"] = "api"
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Searcher) searchFiles(dnf query.DNF) []Row {
	var rows []Row
	for _, path := range s.FilePaths {
		records, err := fileread.ReadFile(path)
		if err != nil {
			continue
		}
		tag := "file:" + filepath.Base(path)
		for _, record := range records {
			m := map[string]any(record)
			if !predicate.Evaluate(m, dnf) {
				continue
			}
			row := Row{}
			for k, v := range m {
				row[k] = v
			}
			row["source"] = tag
			rows = append(rows, row)
		}
	}
	return rows
}

// dedupe merges rows by lowercased email, falling back to name::id, filling
// in missing/blank/"nan" fields from later rows and accumulating each row's
// origin into a comma-joined "sources" field in first-seen order.
func dedupe(rows []Row) []Row {
	merged := make(map[string]Row)
	var order []string

	for _, r := range rows {
		key := dedupeKey(r)
		src, _ := r["source"].(string)

		cur, exists := merged[key]
		if !exists {
			cur = Row{}
			for k, v := range r {
				if k == "source" {
					continue
				}
				cur[k] = v
			}
			if src != "" {
				cur["sources"] = []string{src}
			} else {
				cur["sources"] = []string{}
			}
			merged[key] = cur
			order = append(order, key)
			continue
		}

		sources, _ := cur["sources"].([]string)
		if src != "" && !contains(sources, src) {
			sources = append(sources, src)
		}
		cur["sources"] = sources

		for k, v := range r {
			if k == "source" {
				continue
			}
			if isBlank(cur[k]) && !isBlank(v) {
				cur[k] = v
			}
		}
	}

	out := make([]Row, 0, len(order))
	for _, key := range order {
		row := merged[key]
		sources, _ := row["sources"].([]string)
		nonEmpty := make([]string, 0, len(sources))
		for _, s := range sources {
			if s != "" {
				nonEmpty = append(nonEmpty, s)
			}
		}
		row["sources"] = strings.Join(nonEmpty, ", ")
		out = append(out, row)
	}
	return out
}

func dedupeKey(r Row) string {
	email := strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", emptyIfNil(r["email"]))))
	if email != "" {
		return email
	}
	name := strings.ToLower(fmt.Sprintf("%v", emptyIfNil(r["name"])))
	return fmt.Sprintf("%s::%v", name, r["id"])
}

func emptyIfNil(v any) any {
	if v == nil {
		return ""
	}
	return v
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	return s == "" || s == "nan"
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

// SortByID orders rows by their "id" field for deterministic output; rows
// without a usable numeric id sort last, in original order among themselves.
func SortByID(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, aok := toInt(rows[i]["id"])
		b, bok := toInt(rows[j]["id"])
		if !aok {
			return false
		}
		if !bok {
			return true
		}
		return a < b
	})
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
