package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lesson-planner-api/pkg/storage"
)

func newSnapshotMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestMemorySnapshotRepository(t *testing.T) {
	repo := NewMemorySnapshotRepository()
	ctx := context.Background()

	_, found, err := repo.Load(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	payload := []byte(`{"classes":[]}`)
	require.NoError(t, repo.Save(ctx, "k", payload))
	payload[0] = 'X'

	got, found, err := repo.Load(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"classes":[]}`, string(got), "saved blob must be copied")
}

func TestFileSnapshotRepository(t *testing.T) {
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := NewFileSnapshotRepository(local)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "planner:state", []byte("{}")))
	got, found, err := repo.Load(ctx, "planner:state")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "{}", string(got))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, repo.Save(cancelled, "planner:state", []byte("x")))
}

func TestPostgresSnapshotRepositorySave(t *testing.T) {
	db, mock, cleanup := newSnapshotMock(t)
	defer cleanup()
	repo := NewPostgresSnapshotRepository(db)
	fixed := time.Date(2025, 7, 24, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	mock.ExpectExec("INSERT INTO planner_snapshots").
		WithArgs("planner", []byte("{}"), fixed).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Save(context.Background(), "planner", []byte("{}")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSnapshotRepositoryLoad(t *testing.T) {
	db, mock, cleanup := newSnapshotMock(t)
	defer cleanup()
	repo := NewPostgresSnapshotRepository(db)

	query := regexp.QuoteMeta("SELECT key, payload, updated_at FROM planner_snapshots WHERE key = $1")
	mock.ExpectQuery(query).WithArgs("planner").
		WillReturnRows(sqlmock.NewRows([]string{"key", "payload", "updated_at"}).AddRow("planner", []byte(`{"lessons":[]}`), time.Now()))
	mock.ExpectQuery(query).WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"key", "payload", "updated_at"}))

	payload, found, err := repo.Load(context.Background(), "planner")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"lessons":[]}`, string(payload))

	_, found, err = repo.Load(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSnapshotRepositoryMigrate(t *testing.T) {
	db, mock, cleanup := newSnapshotMock(t)
	defer cleanup()
	repo := NewPostgresSnapshotRepository(db)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS planner_snapshots").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
