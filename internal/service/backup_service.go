package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/lesson-planner-api/pkg/errors"
	"github.com/noah-isme/lesson-planner-api/pkg/jobs"
)

const (
	backupPrefix        = "planner-backup_"
	backupTimeLayout    = "20060102T150405.000000000"
	backupJobType       = "planner_backup"
	defaultBackupRetain = 20
)

type backupStorage interface {
	Save(name string, data []byte) error
	Load(name string) ([]byte, bool, error)
	Delete(name string) error
	List(prefix string) ([]string, error)
}

// BackupInfo describes one stored backup document.
type BackupInfo struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// BackupServiceConfig tunes retention and write retries.
type BackupServiceConfig struct {
	Retain     int
	MaxRetries int
	RetryDelay time.Duration
}

// BackupService keeps a rolling history of committed planner snapshots. Writes run
// on a single background worker so a slow disk never holds up a mutation.
type BackupService struct {
	storage backupStorage
	queue   *jobs.Queue
	retain  int
	now     func() time.Time
	logger  *zap.Logger
}

// NewBackupService constructs the service; Start must be called before backups are written.
func NewBackupService(storage backupStorage, cfg BackupServiceConfig, logger *zap.Logger) *BackupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Retain <= 0 {
		cfg.Retain = defaultBackupRetain
	}
	svc := &BackupService{storage: storage, retain: cfg.Retain, now: time.Now, logger: logger}
	svc.queue = jobs.NewQueue("planner-backups", svc.write, jobs.QueueConfig{
		Workers:    1,
		BufferSize: 16,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return svc
}

// Start launches the backup writer.
func (s *BackupService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop flushes queued backups and stops the writer.
func (s *BackupService) Stop() {
	s.queue.Stop()
}

// Schedule queues payload as the newest backup. A backup that cannot be queued is
// logged and skipped; the next committed batch carries the full state again.
func (s *BackupService) Schedule(payload []byte) {
	if s == nil || len(payload) == 0 {
		return
	}
	job := jobs.Job{ID: uuid.NewString(), Type: backupJobType, Payload: payload, Enqueued: s.now().UTC()}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("planner backup skipped", zap.String("job_id", job.ID), zap.Error(err))
	}
}

// List returns the stored backups, newest first.
func (s *BackupService) List(_ context.Context) ([]BackupInfo, error) {
	names, err := s.storage.List(backupPrefix)
	if err != nil {
		return nil, appErrors.ErrPersistence.Wrap(err, "failed to list backups")
	}
	infos := make([]BackupInfo, 0, len(names))
	for i := len(names) - 1; i >= 0; i-- {
		created, ok := parseBackupName(names[i])
		if !ok {
			continue
		}
		infos = append(infos, BackupInfo{Name: names[i], CreatedAt: created})
	}
	return infos, nil
}

// Load returns the document stored under name.
func (s *BackupService) Load(_ context.Context, name string) ([]byte, error) {
	if _, ok := parseBackupName(name); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "backup "+name+" not found")
	}
	payload, found, err := s.storage.Load(name)
	if err != nil {
		return nil, appErrors.ErrPersistence.Wrap(err, "failed to read backup")
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "backup "+name+" not found")
	}
	return payload, nil
}

// write stores one backup. Retries reuse the job's enqueue time, so a retried write
// replaces its own partial attempt instead of adding a new entry.
func (s *BackupService) write(_ context.Context, job jobs.Job) error {
	name := backupPrefix + job.Enqueued.UTC().Format(backupTimeLayout)
	if err := s.storage.Save(name, job.Payload); err != nil {
		return err
	}
	s.logger.Debug("planner backup written", zap.String("name", name), zap.Int("bytes", len(job.Payload)))
	return s.prune()
}

func (s *BackupService) prune() error {
	names, err := s.storage.List(backupPrefix)
	if err != nil {
		return err
	}
	if len(names) <= s.retain {
		return nil
	}
	for _, name := range names[:len(names)-s.retain] {
		if err := s.storage.Delete(name); err != nil {
			return err
		}
	}
	return nil
}

func parseBackupName(name string) (time.Time, bool) {
	stamp, ok := strings.CutPrefix(name, backupPrefix)
	if !ok {
		return time.Time{}, false
	}
	created, err := time.Parse(backupTimeLayout, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return created.UTC(), true
}
