package repository

import (
	"context"

	"github.com/noah-isme/lesson-planner-api/pkg/storage"
)

// FileSnapshotRepository stores snapshots as files on local disk.
type FileSnapshotRepository struct {
	storage *storage.LocalStorage
}

// NewFileSnapshotRepository wraps a LocalStorage.
func NewFileSnapshotRepository(storage *storage.LocalStorage) *FileSnapshotRepository {
	return &FileSnapshotRepository{storage: storage}
}

// Save replaces the file for key.
func (r *FileSnapshotRepository) Save(ctx context.Context, key string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.storage.Save(key, payload)
}

// Load reads the file for key.
func (r *FileSnapshotRepository) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	return r.storage.Load(key)
}
