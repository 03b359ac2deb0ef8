package sqlstore

import (
	"context"
	"fmt"
	"time"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  email TEXT UNIQUE,
  region TEXT,
  signup_date TEXT
);
CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  price REAL
);
CREATE TABLE IF NOT EXISTS orders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER,
  product_id INTEGER,
  quantity INTEGER,
  order_date TEXT,
  FOREIGN KEY(user_id) REFERENCES users(id),
  FOREIGN KEY(product_id) REFERENCES products(id)
);
`

var seedRegions = []string{"NA", "EU", "APAC", "LATAM"}

type seedProduct struct {
	name  string
	price float64
}

var seedProducts = []seedProduct{
	{"Widget", 9.99},
	{"Gadget", 19.99},
	{"Doodad", 4.99},
}

// Seed (re)creates the users/products/orders schema and repopulates it with
// a deterministic fixture: 3 products, 200 users cycling NA/EU/APAC/LATAM,
// and 150 orders. It is idempotent — existing rows are cleared first.
func (s *Store) Seed(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("sqlstore: create schema: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlstore: begin seed tx: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM users", "DELETE FROM products", "DELETE FROM orders"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlstore: %s: %w", stmt, err)
		}
	}

	for _, p := range seedProducts {
		if _, err := tx.ExecContext(ctx, "INSERT INTO products (name, price) VALUES (?, ?)", p.name, p.price); err != nil {
			return fmt.Errorf("sqlstore: insert product: %w", err)
		}
	}

	baseDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 1; i <= 200; i++ {
		name := fmt.Sprintf("User%d", i)
		email := fmt.Sprintf("user%d@example.com", i)
		region := seedRegions[i%len(seedRegions)]
		signupDate := baseDate.AddDate(0, 0, i).Format("2006-01-02")
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO users (name, email, region, signup_date) VALUES (?,?,?,?)",
			name, email, region, signupDate,
		); err != nil {
			return fmt.Errorf("sqlstore: insert user %d: %w", i, err)
		}
	}

	for i := 1; i <= 150; i++ {
		userID := (i % 200) + 1
		productID := (i % 3) + 1
		quantity := (i % 5) + 1
		orderDate := baseDate.AddDate(0, 0, i).Format("2006-01-02")
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO orders (user_id, product_id, quantity, order_date) VALUES (?, ?, ?, ?)",
			userID, productID, quantity, orderDate,
		); err != nil {
			return fmt.Errorf("sqlstore: insert order %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlstore: commit seed tx: %w", err)
	}
	return nil
}
