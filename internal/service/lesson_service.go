package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lesson-planner-api/internal/models"
	"github.com/noah-isme/lesson-planner-api/internal/repository"
	appErrors "github.com/noah-isme/lesson-planner-api/pkg/errors"
)

const (
	defaultRecentLimit = 5
	maxRecentLimit     = 50
)

// CreateLessonRequest captures creation payload.
type CreateLessonRequest struct {
	ClassID     string              `json:"classId" validate:"required"`
	PeriodID    string              `json:"periodId" validate:"required"`
	Date        models.Date         `json:"date"`
	Title       string              `json:"title" validate:"required,max=200"`
	Objective   string              `json:"objective"`
	Materials   string              `json:"materials"`
	Instruction string              `json:"instruction"`
	Assessment  string              `json:"assessment"`
	Notes       string              `json:"notes"`
	Status      models.LessonStatus `json:"status" validate:"omitempty,oneof=draft ready"`
}

// UpdateLessonRequest modifies lesson fields.
type UpdateLessonRequest struct {
	ClassID     *string              `json:"classId" validate:"omitempty,min=1"`
	PeriodID    *string              `json:"periodId" validate:"omitempty,min=1"`
	Date        *models.Date         `json:"date"`
	Title       *string              `json:"title" validate:"omitempty,max=200"`
	Objective   *string              `json:"objective"`
	Materials   *string              `json:"materials"`
	Instruction *string              `json:"instruction"`
	Assessment  *string              `json:"assessment"`
	Notes       *string              `json:"notes"`
	Status      *models.LessonStatus `json:"status" validate:"omitempty,oneof=draft ready"`
}

// LessonListRequest narrows the lesson list. From and To bound the date inclusively.
type LessonListRequest struct {
	ClassID  string
	PeriodID string
	Date     *models.Date
	From     *models.Date
	To       *models.Date
}

// LessonService coordinates lesson operations.
type LessonService struct {
	workspace *WorkspaceService
	queries   *QueryService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLessonService constructs LessonService.
func NewLessonService(workspace *WorkspaceService, queries *QueryService, validate *validator.Validate, logger *zap.Logger) *LessonService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LessonService{workspace: workspace, queries: queries, validator: validate, logger: logger}
}

// List returns lessons matching req in creation order.
func (s *LessonService) List(ctx context.Context, req LessonListRequest) ([]models.Lesson, error) {
	filter := models.LessonFilter{ClassID: req.ClassID, PeriodID: req.PeriodID, Date: req.Date}
	lessons := []models.Lesson{}
	for lesson := range s.queries.LessonsFiltered(filter) {
		if req.From != nil && lesson.Date.Before(*req.From) {
			continue
		}
		if req.To != nil && lesson.Date.After(*req.To) {
			continue
		}
		lessons = append(lessons, lesson)
	}
	return lessons, nil
}

// Recent returns the most recently modified lessons. A non-positive limit means the default.
func (s *LessonService) Recent(ctx context.Context, limit int) ([]models.Lesson, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	return s.queries.RecentLessons(limit), nil
}

// Get returns a lesson by id.
func (s *LessonService) Get(ctx context.Context, id string) (*models.Lesson, error) {
	lesson, err := s.workspace.Store().Lesson(id)
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// Create adds a new lesson plan.
func (s *LessonService) Create(ctx context.Context, req CreateLessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid lesson payload")
	}
	if req.Date.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "lesson date is required")
	}
	var created models.Lesson
	err := s.workspace.Mutate(ctx, "lesson.create", func(store *repository.PlannerStore) error {
		var err error
		created, err = store.CreateLesson(models.Lesson{
			ClassID:     req.ClassID,
			PeriodID:    req.PeriodID,
			Date:        req.Date,
			Title:       req.Title,
			Objective:   req.Objective,
			Materials:   req.Materials,
			Instruction: req.Instruction,
			Assessment:  req.Assessment,
			Notes:       req.Notes,
			Status:      req.Status,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("lesson created", zap.String("lesson_id", created.ID), zap.Stringer("date", created.Date))
	return &created, nil
}

// Update modifies a lesson plan and refreshes its modified time.
func (s *LessonService) Update(ctx context.Context, id string, req UpdateLessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid lesson payload")
	}
	var updated models.Lesson
	err := s.workspace.Mutate(ctx, "lesson.update", func(store *repository.PlannerStore) error {
		var err error
		updated, err = store.UpdateLesson(id, models.LessonPatch{
			ClassID:     req.ClassID,
			PeriodID:    req.PeriodID,
			Date:        req.Date,
			Title:       req.Title,
			Objective:   req.Objective,
			Materials:   req.Materials,
			Instruction: req.Instruction,
			Assessment:  req.Assessment,
			Notes:       req.Notes,
			Status:      req.Status,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Duplicate copies a lesson as a new draft.
func (s *LessonService) Duplicate(ctx context.Context, id string) (*models.Lesson, error) {
	var copied models.Lesson
	err := s.workspace.Mutate(ctx, "lesson.duplicate", func(store *repository.PlannerStore) error {
		var err error
		copied, err = store.DuplicateLesson(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("lesson duplicated", zap.String("source_id", id), zap.String("lesson_id", copied.ID))
	return &copied, nil
}

// Delete removes a single lesson.
func (s *LessonService) Delete(ctx context.Context, id string) ([]string, error) {
	return deleteRecord(ctx, s.workspace, s.logger, models.KindLesson, id)
}
