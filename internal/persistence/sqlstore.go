package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/riteshk28/Lighthouse/pkg/config"
)

// SQLGateway stores the state row through database/sql (sqlite, mysql).
// The table is created on open; these backends are not migrated.
type SQLGateway struct {
	db      *sql.DB
	backend string
}

// OpenSQLite opens (or creates) a SQLite database file.
func OpenSQLite(ctx context.Context, path string) (*SQLGateway, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database at %q: %w", path, err)
	}
	// Limit SQLite to a single open connection to avoid "database is locked" errors
	db.SetMaxOpenConns(1)

	return openSQL(ctx, db, config.BackendSQLite)
}

// OpenMySQL connects to MySQL with a DSN like user:password@tcp(host:port)/dbname.
func OpenMySQL(ctx context.Context, dsn string) (*SQLGateway, error) {
	mcfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid MySQL DSN: %w", err)
	}
	mcfg.ParseTime = true

	connector, err := mysql.NewConnector(mcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create MySQL connector: %w", err)
	}

	return openSQL(ctx, sql.OpenDB(connector), config.BackendMySQL)
}

func openSQL(ctx context.Context, db *sql.DB, backend string) (*SQLGateway, error) {
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}

	g, err := NewSQLGateway(ctx, db, backend)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return g, nil
}

// NewSQLGateway wraps an open database and creates the state table.
func NewSQLGateway(ctx context.Context, db *sql.DB, backend string) (*SQLGateway, error) {
	if backend != config.BackendSQLite && backend != config.BackendMySQL {
		return nil, fmt.Errorf("unsupported sql backend: %s", backend)
	}

	g := &SQLGateway{db: db, backend: backend}
	if _, err := db.ExecContext(ctx, g.createTableQuery()); err != nil {
		return nil, fmt.Errorf("failed to create table scorecard_state: %w", err)
	}
	return g, nil
}

func (g *SQLGateway) createTableQuery() string {
	if g.backend == config.BackendMySQL {
		return `CREATE TABLE IF NOT EXISTS scorecard_state (
			id INT PRIMARY KEY,
			data LONGTEXT NOT NULL,
			updated_at DATETIME(6) NOT NULL
		)`
	}
	return `CREATE TABLE IF NOT EXISTS scorecard_state (
		id INTEGER PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`
}

func (g *SQLGateway) upsertQuery() string {
	if g.backend == config.BackendMySQL {
		return `INSERT INTO scorecard_state (id, data, updated_at) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE data = VALUES(data), updated_at = VALUES(updated_at)`
	}
	return `INSERT INTO scorecard_state (id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`
}

// Load returns the most recently written blob.
func (g *SQLGateway) Load(ctx context.Context) ([]byte, error) {
	var data string
	err := g.db.QueryRowContext(ctx,
		`SELECT data FROM scorecard_state ORDER BY updated_at DESC LIMIT 1`,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load scorecard state: %w", err)
	}
	return []byte(data), nil
}

// Save upserts the single state row.
func (g *SQLGateway) Save(ctx context.Context, blob []byte) error {
	if _, err := g.db.ExecContext(ctx, g.upsertQuery(), stateRowID, string(blob), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save scorecard state: %w", err)
	}
	return nil
}

// Close closes the database.
func (g *SQLGateway) Close() error {
	return g.db.Close()
}
