package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a SQLite database holding the three support datasets
// (orders, products, faq) and the interaction log.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database in dataDir and runs pending migrations.
// Pass ":memory:" as dataDir for an in-memory database (used by tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "supportbot.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	// Set busy timeout so concurrent access waits briefly instead of failing immediately.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate reads embedded SQL migration files and applies any that haven't been run yet.
func (s *Store) migrate() error {
	// Ensure schema_version table exists (bootstrap).
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort by filename to guarantee ascending order.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, err := parseMigrationVersion(entry.Name())
		if err != nil {
			return err
		}

		// Check if already applied.
		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}

		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}

	return nil
}

func parseMigrationVersion(filename string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(filename, "%d_", &version); err != nil {
		return 0, fmt.Errorf("parsing migration version from %q: %w", filename, err)
	}
	return version, nil
}

// AppliedMigrations returns the list of applied migration versions in ascending order.
func (s *Store) AppliedMigrations() ([]int, error) {
	rows, err := s.db.Query("SELECT version FROM schema_version ORDER BY version ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// --- Datasets ---

// AllOrders returns every order row in import order.
func (s *Store) AllOrders() ([]Order, error) {
	rows, err := s.db.Query("SELECT order_id, status, expected_delivery_date FROM orders ORDER BY pos ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.OrderID, &o.Status, &o.ExpectedDeliveryDate); err != nil {
			return nil, err
		}
		results = append(results, o)
	}
	return results, rows.Err()
}

// AllProducts returns every product row in import order.
func (s *Store) AllProducts() ([]Product, error) {
	rows, err := s.db.Query("SELECT product_id, name, category, description, price, stock_status FROM products ORDER BY pos ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Category, &p.Description, &p.Price, &p.StockStatus); err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

// AllFAQ returns every FAQ row in import order. Row order is significant:
// topic lookups use the first matching row.
func (s *Store) AllFAQ() ([]FAQEntry, error) {
	rows, err := s.db.Query("SELECT question, answer FROM faq ORDER BY pos ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []FAQEntry
	for rows.Next() {
		var e FAQEntry
		if err := rows.Scan(&e.Question, &e.Answer); err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}

// ReplaceOrders swaps the orders table for the given rows in a single transaction.
func (s *Store) ReplaceOrders(orders []Order) error {
	return s.replace("orders", func(tx *sql.Tx) error {
		for _, o := range orders {
			if _, err := tx.Exec(
				"INSERT INTO orders (order_id, status, expected_delivery_date) VALUES (?, ?, ?)",
				o.OrderID, o.Status, o.ExpectedDeliveryDate,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceProducts swaps the products table for the given rows in a single transaction.
func (s *Store) ReplaceProducts(products []Product) error {
	return s.replace("products", func(tx *sql.Tx) error {
		for _, p := range products {
			if _, err := tx.Exec(
				"INSERT INTO products (product_id, name, category, description, price, stock_status) VALUES (?, ?, ?, ?, ?, ?)",
				p.ProductID, p.Name, p.Category, p.Description, p.Price, p.StockStatus,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceFAQ swaps the faq table for the given rows in a single transaction.
func (s *Store) ReplaceFAQ(entries []FAQEntry) error {
	return s.replace("faq", func(tx *sql.Tx) error {
		for _, e := range entries {
			if _, err := tx.Exec("INSERT INTO faq (question, answer) VALUES (?, ?)", e.Question, e.Answer); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) replace(table string, insert func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM " + table); err != nil {
		tx.Rollback()
		return fmt.Errorf("clearing %s: %w", table, err)
	}
	// Reset the position sequence so import order starts at 1 again.
	if _, err := tx.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table); err != nil {
		tx.Rollback()
		return fmt.Errorf("resetting %s sequence: %w", table, err)
	}
	if err := insert(tx); err != nil {
		tx.Rollback()
		return fmt.Errorf("inserting into %s: %w", table, err)
	}
	return tx.Commit()
}

// DatasetCounts holds row counts for the three dataset tables.
type DatasetCounts struct {
	Orders   int `json:"orders"`
	Products int `json:"products"`
	FAQ      int `json:"faq"`
}

// Counts returns the row count of each dataset table.
func (s *Store) Counts() (DatasetCounts, error) {
	var c DatasetCounts
	if err := s.db.QueryRow("SELECT COUNT(*) FROM orders").Scan(&c.Orders); err != nil {
		return DatasetCounts{}, err
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM products").Scan(&c.Products); err != nil {
		return DatasetCounts{}, err
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM faq").Scan(&c.FAQ); err != nil {
		return DatasetCounts{}, err
	}
	return c, nil
}

// --- Interactions ---

func (s *Store) SaveInteraction(i Interaction) error {
	_, err := s.db.Exec(
		"INSERT INTO interactions (id, created_at, message, intent, reply) VALUES (?, ?, ?, ?, ?)",
		i.ID, i.CreatedAt.UTC().Format(time.RFC3339), i.Message, i.Intent, i.Reply,
	)
	return err
}

func (s *Store) GetInteraction(id string) (Interaction, error) {
	var i Interaction
	var createdAt string
	err := s.db.QueryRow(
		"SELECT id, created_at, message, intent, reply FROM interactions WHERE id = ?", id,
	).Scan(&i.ID, &createdAt, &i.Message, &i.Intent, &i.Reply)
	if err == sql.ErrNoRows {
		return Interaction{}, ErrNotFound
	}
	if err != nil {
		return Interaction{}, err
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return Interaction{}, fmt.Errorf("parsing created_at: %w", err)
	}
	i.CreatedAt = t
	return i, nil
}

func (s *Store) ListInteractions(limit, offset int) ([]Interaction, error) {
	rows, err := s.db.Query(
		"SELECT id, created_at, message, intent, reply FROM interactions ORDER BY created_at DESC LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Interaction
	for rows.Next() {
		var i Interaction
		var createdAt string
		if err := rows.Scan(&i.ID, &createdAt, &i.Message, &i.Intent, &i.Reply); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		i.CreatedAt = t
		results = append(results, i)
	}
	return results, rows.Err()
}

func (s *Store) DeleteInteraction(id string) error {
	res, err := s.db.Exec("DELETE FROM interactions WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
