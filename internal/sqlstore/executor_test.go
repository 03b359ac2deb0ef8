package sqlstore

import (
	"context"
	"strings"
	"testing"
)

func openSeeded(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return s
}

func TestExecuteRejectsNonSelect(t *testing.T) {
	s := openSeeded(t)
	if _, err := s.Execute(context.Background(), "DELETE FROM users", nil); err != ErrNotSelect {
		t.Fatalf("err = %v, want ErrNotSelect", err)
	}
}

func TestExecuteRejectsEmptyQuery(t *testing.T) {
	s := openSeeded(t)
	if _, err := s.Execute(context.Background(), "   ", nil); err != ErrEmptyQuery {
		t.Fatalf("err = %v, want ErrEmptyQuery", err)
	}
}

func TestExecuteAppliesImplicitLimit(t *testing.T) {
	s := openSeeded(t)
	res, err := s.Execute(context.Background(), "SELECT * FROM users", nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Rows) != 200 {
		t.Errorf("got %d rows, want 200 (under the 1000-row cap)", len(res.Rows))
	}
}

func TestExecuteHonorsExplicitLimit(t *testing.T) {
	s := openSeeded(t)
	res, err := s.Execute(context.Background(), "SELECT * FROM users LIMIT 5", nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Rows) != 5 {
		t.Errorf("got %d rows, want 5", len(res.Rows))
	}
}

func TestExecuteStripsTrailingSemicolon(t *testing.T) {
	s := openSeeded(t)
	if _, err := s.Execute(context.Background(), "SELECT * FROM users WHERE id = ?;", []any{1}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
}

func TestExecuteBindsArgsAndReturnsStringColumns(t *testing.T) {
	s := openSeeded(t)
	res, err := s.Execute(context.Background(), "SELECT name, email, region FROM users WHERE id = ?", []any{1})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(res.Rows))
	}
	row := res.Rows[0]
	if _, ok := row["name"].(string); !ok {
		t.Errorf("name column = %T, want string", row["name"])
	}
	if !strings.HasPrefix(row["email"].(string), "user1@") {
		t.Errorf("email = %v", row["email"])
	}
}

func TestListTablesAndTableInfo(t *testing.T) {
	s := openSeeded(t)
	tables, err := s.ListTables(context.Background())
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	want := map[string]bool{"users": true, "products": true, "orders": true}
	for _, tbl := range tables {
		delete(want, tbl)
	}
	if len(want) != 0 {
		t.Errorf("missing tables: %v", want)
	}

	cols, err := s.TableInfo(context.Background(), "users")
	if err != nil {
		t.Fatalf("TableInfo: %v", err)
	}
	var names []string
	for _, c := range cols {
		names = append(names, c.Name)
	}
	for _, want := range []string{"id", "name", "email", "region", "signup_date"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Errorf("column %q missing from users table info: %v", want, names)
		}
	}
}
