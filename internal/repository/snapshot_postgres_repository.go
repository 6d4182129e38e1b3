package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// PostgresSnapshotRepository stores snapshots in a key/value table.
type PostgresSnapshotRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

type snapshotRow struct {
	Key       string    `db:"key"`
	Payload   []byte    `db:"payload"`
	UpdatedAt time.Time `db:"updated_at"`
}

const createSnapshotTable = `CREATE TABLE IF NOT EXISTS planner_snapshots (
	key TEXT PRIMARY KEY,
	payload BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

// NewPostgresSnapshotRepository constructs a Postgres-backed snapshot repository.
func NewPostgresSnapshotRepository(db *sqlx.DB) *PostgresSnapshotRepository {
	return &PostgresSnapshotRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Migrate creates the snapshot table if needed.
func (r *PostgresSnapshotRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSnapshotTable); err != nil {
		return fmt.Errorf("create planner_snapshots: %w", err)
	}
	return nil
}

// Save upserts the payload for key in a single statement.
func (r *PostgresSnapshotRepository) Save(ctx context.Context, key string, payload []byte) error {
	const query = `INSERT INTO planner_snapshots (key, payload, updated_at) VALUES (:key, :payload, :updated_at)
ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	row := snapshotRow{Key: key, Payload: payload, UpdatedAt: r.now()}
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("save snapshot %s: %w", key, err)
	}
	return nil
}

// Load returns the payload for key.
func (r *PostgresSnapshotRepository) Load(ctx context.Context, key string) ([]byte, bool, error) {
	const query = `SELECT key, payload, updated_at FROM planner_snapshots WHERE key = $1`
	var row snapshotRow
	if err := r.db.GetContext(ctx, &row, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load snapshot %s: %w", key, err)
	}
	return row.Payload, true, nil
}
