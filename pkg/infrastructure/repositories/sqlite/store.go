package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/vsinha/bommrp/pkg/domain/repositories"
	"github.com/vsinha/bommrp/pkg/infrastructure/repositories/sqlite/migrations"
)

const dateLayout = "2006-01-02"

// Store is a SQLite-backed catalog. Its repositories share one connection pool.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database file at path and applies pending migrations
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("database path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// Items returns an ItemRepository backed by this store
func (s *Store) Items() repositories.ItemRepository {
	return &itemStore{db: s.db}
}

// Nodes returns a TechnicalListRepository backed by this store
func (s *Store) Nodes() repositories.TechnicalListRepository {
	return &nodeStore{db: s.db}
}

// BOM returns a BOMRepository backed by this store
func (s *Store) BOM() repositories.BOMRepository {
	return &bomStore{db: s.db}
}

// Orders returns an OrderRepository backed by this store
func (s *Store) Orders() repositories.OrderRepository {
	return &orderStore{db: s.db}
}

// Catalog bundles the store's repositories
func (s *Store) Catalog() repositories.Catalog {
	return repositories.Catalog{
		Items:  s.Items(),
		Nodes:  s.Nodes(),
		BOM:    s.BOM(),
		Orders: s.Orders(),
	}
}

// ImportCounts reports how many rows an import wrote per table
type ImportCounts struct {
	Items  int
	Nodes  int
	Edges  int
	Orders int
}

// Import replaces the stored catalog with the contents of src in one transaction
func (s *Store) Import(ctx context.Context, src repositories.Catalog) (ImportCounts, error) {
	var counts ImportCounts

	items, err := src.Items.GetAllItems()
	if err != nil {
		return counts, fmt.Errorf("reading items: %w", err)
	}
	nodes, err := src.Nodes.GetAllNodes()
	if err != nil {
		return counts, fmt.Errorf("reading technical lists: %w", err)
	}
	edges, err := src.BOM.GetAllEdges()
	if err != nil {
		return counts, fmt.Errorf("reading BOM edges: %w", err)
	}
	orders, err := src.Orders.GetOrders()
	if err != nil {
		return counts, fmt.Errorf("reading orders: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return counts, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"production_orders", "bom_edges", "technical_lists", "items"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return counts, fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if err := insertItems(ctx, tx, items); err != nil {
		return counts, err
	}
	if err := insertNodes(ctx, tx, nodes); err != nil {
		return counts, err
	}
	if err := insertEdges(ctx, tx, edges); err != nil {
		return counts, err
	}
	if err := insertOrders(ctx, tx, orders); err != nil {
		return counts, err
	}

	if err := tx.Commit(); err != nil {
		return counts, fmt.Errorf("committing import: %w", err)
	}

	return ImportCounts{
		Items:  len(items),
		Nodes:  len(nodes),
		Edges:  len(edges),
		Orders: len(orders),
	}, nil
}

// migrate runs the *.up.sql files newer than the recorded schema version
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= current {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
