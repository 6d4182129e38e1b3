package service

import (
	"context"
	"slices"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lesson-planner-api/internal/models"
	"github.com/noah-isme/lesson-planner-api/internal/repository"
	appErrors "github.com/noah-isme/lesson-planner-api/pkg/errors"
)

// CreatePeriodRequest captures creation payload. Times use HH:MM.
type CreatePeriodRequest struct {
	Name      string            `json:"name" validate:"required,max=80"`
	StartTime *models.TimeOfDay `json:"startTime"`
	EndTime   *models.TimeOfDay `json:"endTime"`
}

// UpdatePeriodRequest modifies period fields. ClearTimes turns a timed period
// back into an untimed one.
type UpdatePeriodRequest struct {
	Name       *string           `json:"name" validate:"omitempty,max=80"`
	StartTime  *models.TimeOfDay `json:"startTime"`
	EndTime    *models.TimeOfDay `json:"endTime"`
	ClearTimes bool              `json:"clearTimes"`
}

// PeriodService coordinates period operations.
type PeriodService struct {
	workspace *WorkspaceService
	queries   *QueryService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPeriodService constructs PeriodService.
func NewPeriodService(workspace *WorkspaceService, queries *QueryService, validate *validator.Validate, logger *zap.Logger) *PeriodService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeriodService{workspace: workspace, queries: queries, validator: validate, logger: logger}
}

// List returns periods in day order: timed periods by start time, then untimed ones.
func (s *PeriodService) List(ctx context.Context) ([]models.Period, error) {
	periods := slices.Collect(s.workspace.Store().Periods())
	if periods == nil {
		return []models.Period{}, nil
	}
	rank := s.queries.PeriodRank()
	slices.SortStableFunc(periods, func(a, b models.Period) int {
		return rank[a.ID] - rank[b.ID]
	})
	return periods, nil
}

// Get returns a period by id.
func (s *PeriodService) Get(ctx context.Context, id string) (*models.Period, error) {
	period, err := s.workspace.Store().Period(id)
	if err != nil {
		return nil, err
	}
	return &period, nil
}

// Create adds a new period.
func (s *PeriodService) Create(ctx context.Context, req CreatePeriodRequest) (*models.Period, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid period payload")
	}
	var created models.Period
	err := s.workspace.Mutate(ctx, "period.create", func(store *repository.PlannerStore) error {
		var err error
		created, err = store.CreatePeriod(models.Period{Name: req.Name, StartTime: req.StartTime, EndTime: req.EndTime})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("period created", zap.String("period_id", created.ID))
	return &created, nil
}

// Update modifies a period record.
func (s *PeriodService) Update(ctx context.Context, id string, req UpdatePeriodRequest) (*models.Period, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid period payload")
	}
	var updated models.Period
	err := s.workspace.Mutate(ctx, "period.update", func(store *repository.PlannerStore) error {
		var err error
		updated, err = store.UpdatePeriod(id, models.PeriodPatch{
			Name:       req.Name,
			StartTime:  req.StartTime,
			EndTime:    req.EndTime,
			ClearTimes: req.ClearTimes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a period, its lessons, and detaches classes scheduled in it.
func (s *PeriodService) Delete(ctx context.Context, id string) ([]string, error) {
	return deleteRecord(ctx, s.workspace, s.logger, models.KindPeriod, id)
}
