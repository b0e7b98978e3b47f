package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/riteshk28/Lighthouse/internal/contracts"
)

// stateRowID is the primary key of the only scorecard_state row.
const stateRowID = 1

// querier is the subset of *pgxpool.Pool used by PostgresGateway.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresGateway stores the state in scorecard_state and keeps the
// export history in scorecard_exports.
// ⭐ SSOT: scorecard tables are read and written only here
type PostgresGateway struct {
	db    querier
	close func()
}

// NewPostgresGateway creates a gateway over a pool. closeFn runs on Close
// and may be nil.
func NewPostgresGateway(db querier, closeFn func()) *PostgresGateway {
	return &PostgresGateway{db: db, close: closeFn}
}

// Load returns the most recently written blob.
func (g *PostgresGateway) Load(ctx context.Context) ([]byte, error) {
	query := `
		SELECT data
		FROM scorecard_state
		ORDER BY updated_at DESC
		LIMIT 1
	`

	var data []byte
	err := g.db.QueryRow(ctx, query).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load scorecard state: %w", err)
	}
	return data, nil
}

// Save upserts the single state row.
func (g *PostgresGateway) Save(ctx context.Context, blob []byte) error {
	query := `
		INSERT INTO scorecard_state (id, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := g.db.Exec(ctx, query, stateRowID, string(blob)); err != nil {
		return fmt.Errorf("failed to save scorecard state: %w", err)
	}
	return nil
}

// RecordExport appends to the export history.
func (g *PostgresGateway) RecordExport(ctx context.Context, rec contracts.ExportRecord) error {
	query := `
		INSERT INTO scorecard_exports (id, object_key, format, bytes, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if _, err := g.db.Exec(ctx, query, rec.ID, rec.ObjectKey, rec.Format, rec.Bytes, rec.CreatedAt); err != nil {
		return fmt.Errorf("failed to record export: %w", err)
	}
	return nil
}

// ListExports returns the newest exports first.
func (g *PostgresGateway) ListExports(ctx context.Context, limit int) ([]contracts.ExportRecord, error) {
	query := `
		SELECT id, object_key, format, bytes, created_at
		FROM scorecard_exports
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := g.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer rows.Close()

	var records []contracts.ExportRecord
	for rows.Next() {
		var rec contracts.ExportRecord
		if err := rows.Scan(&rec.ID, &rec.ObjectKey, &rec.Format, &rec.Bytes, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close releases the pool.
func (g *PostgresGateway) Close() error {
	if g.close != nil {
		g.close()
	}
	return nil
}
