package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/lesson-planner-api/internal/models"
	"github.com/noah-isme/lesson-planner-api/internal/repository"
	appErrors "github.com/noah-isme/lesson-planner-api/pkg/errors"
	"github.com/noah-isme/lesson-planner-api/pkg/logger"
)

// SnapshotRepository persists the serialized planner state under a single key.
type SnapshotRepository interface {
	Save(ctx context.Context, key string, payload []byte) error
	Load(ctx context.Context, key string) ([]byte, bool, error)
}

type backupScheduler interface {
	Schedule(payload []byte)
}

// dashboardCacheView names the cached dashboard summaries dropped after every commit.
const dashboardCacheView = "dashboard"

// WorkspaceService owns the planner store for the session. Every mutation batch runs
// against a staged copy that only becomes visible once its snapshot has been saved.
type WorkspaceService struct {
	mu        sync.Mutex
	store     *repository.PlannerStore
	snapshots SnapshotRepository
	key       string
	cache     *CacheService
	metrics   *MetricsService
	backups   backupScheduler
	logger    *zap.Logger

	// generation counts committed batches. It moves after Adopt, so a reader that
	// sees generation g never sees state older than batch g.
	generation atomic.Uint64
}

// WorkspaceOption configures the workspace.
type WorkspaceOption func(*WorkspaceService)

// WithWorkspaceCache invalidates dashboard entries after each committed batch.
func WithWorkspaceCache(cache *CacheService) WorkspaceOption {
	return func(s *WorkspaceService) {
		s.cache = cache
	}
}

// WithWorkspaceMetrics records mutation outcomes and record counts.
func WithWorkspaceMetrics(metrics *MetricsService) WorkspaceOption {
	return func(s *WorkspaceService) {
		s.metrics = metrics
	}
}

// WithWorkspaceBackups hands the snapshot of each committed batch to backups.
func WithWorkspaceBackups(backups backupScheduler) WorkspaceOption {
	return func(s *WorkspaceService) {
		s.backups = backups
	}
}

// NewWorkspaceService constructs a workspace around store. A nil snapshot repository
// keeps the state in memory only.
func NewWorkspaceService(store *repository.PlannerStore, snapshots SnapshotRepository, key string, logger *zap.Logger, opts ...WorkspaceOption) *WorkspaceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = repository.NewPlannerStore()
	}
	svc := &WorkspaceService{store: store, snapshots: snapshots, key: key, logger: logger}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Generation returns the number of batches committed since startup. Views derived
// from the store should be cached under it.
func (s *WorkspaceService) Generation() uint64 {
	return s.generation.Load()
}

// Store exposes the committed store for reads.
func (s *WorkspaceService) Store() *repository.PlannerStore {
	return s.store
}

// Load restores the last saved snapshot, if any. A missing snapshot is not an error.
func (s *WorkspaceService) Load(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, found, err := s.snapshots.Load(ctx, s.key)
	if err != nil {
		return appErrors.ErrPersistence.Wrap(err, "failed to load planner snapshot")
	}
	if !found {
		s.logger.Info("no planner snapshot found, starting empty", zap.String("key", s.key))
		return nil
	}
	var snapshot models.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return appErrors.Invalid(err, "stored planner snapshot is malformed")
	}
	if err := s.store.Restore(snapshot); err != nil {
		return err
	}
	s.generation.Add(1)
	counts := s.store.Counts()
	s.metrics.SetRecordCounts(counts)
	s.logger.Info("planner snapshot restored",
		zap.String("key", s.key),
		zap.Int("classes", counts.Classes),
		zap.Int("periods", counts.Periods),
		zap.Int("lessons", counts.Lessons),
	)
	return nil
}

// Mutate applies fn as one batch. If fn fails nothing changes. If the snapshot
// cannot be saved the batch is discarded and a persistence error is returned.
func (s *WorkspaceService) Mutate(ctx context.Context, operation string, fn func(*repository.PlannerStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.store.Clone()
	if err := fn(staged); err != nil {
		s.metrics.RecordMutation(operation, "rejected")
		return err
	}

	var payload []byte
	if s.snapshots != nil || s.backups != nil {
		encoded, err := json.Marshal(staged.Snapshot())
		if err != nil {
			s.metrics.RecordMutation(operation, "persistence_failed")
			return appErrors.ErrInternal.Wrap(err, "failed to encode planner snapshot")
		}
		payload = encoded
	}

	if s.snapshots != nil {
		start := time.Now()
		err := s.snapshots.Save(ctx, s.key, payload)
		s.metrics.ObserveSnapshotSave(time.Since(start))
		if err != nil {
			s.metrics.RecordMutation(operation, "persistence_failed")
			logger.For(ctx, s.logger).Error("planner snapshot save failed, batch discarded", zap.String("operation", operation), zap.Error(err))
			if errors.Is(err, appErrors.ErrPersistence) {
				return err
			}
			return appErrors.ErrPersistence.Wrap(err, "failed to save planner snapshot")
		}
	}

	s.store.Adopt(staged)
	s.generation.Add(1)
	s.metrics.RecordMutation(operation, "committed")
	s.metrics.SetRecordCounts(s.store.Counts())
	if err := s.cache.Invalidate(ctx, dashboardCacheView); err != nil {
		logger.For(ctx, s.logger).Warn("dashboard cache invalidation failed", zap.Error(err))
	}
	if s.backups != nil {
		s.backups.Schedule(payload)
	}
	return nil
}

// Export returns the full state as the portable snapshot document.
func (s *WorkspaceService) Export() models.Snapshot {
	return s.store.Snapshot()
}

// Replace swaps the whole state for snapshot, persisting it like any other batch.
func (s *WorkspaceService) Replace(ctx context.Context, snapshot models.Snapshot) error {
	return s.Mutate(ctx, "import", func(store *repository.PlannerStore) error {
		return store.Restore(snapshot)
	})
}
