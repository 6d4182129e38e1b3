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

// CreateClassRequest captures creation payload.
type CreateClassRequest struct {
	Name       string `json:"name" validate:"required,max=120"`
	Color      string `json:"color" validate:"omitempty,hexcolor"`
	PeriodID   string `json:"periodId"`
	Subject    string `json:"subject" validate:"max=120"`
	GradeLevel string `json:"gradeLevel" validate:"max=40"`
	Room       string `json:"room" validate:"max=40"`
}

// UpdateClassRequest modifies class fields. Omitted fields are left as they are.
type UpdateClassRequest struct {
	Name       *string `json:"name" validate:"omitempty,max=120"`
	Color      *string `json:"color" validate:"omitempty,hexcolor"`
	PeriodID   *string `json:"periodId"`
	Subject    *string `json:"subject" validate:"omitempty,max=120"`
	GradeLevel *string `json:"gradeLevel" validate:"omitempty,max=40"`
	Room       *string `json:"room" validate:"omitempty,max=40"`
}

// ClassService coordinates class operations.
type ClassService struct {
	workspace *WorkspaceService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs ClassService.
func NewClassService(workspace *WorkspaceService, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{workspace: workspace, validator: validate, logger: logger}
}

// List returns every class in creation order.
func (s *ClassService) List(ctx context.Context) ([]models.Class, error) {
	classes := slices.Collect(s.workspace.Store().Classes())
	if classes == nil {
		classes = []models.Class{}
	}
	return classes, nil
}

// Get returns a class by id.
func (s *ClassService) Get(ctx context.Context, id string) (*models.Class, error) {
	class, err := s.workspace.Store().Class(id)
	if err != nil {
		return nil, err
	}
	return &class, nil
}

// Create adds a new class.
func (s *ClassService) Create(ctx context.Context, req CreateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid class payload")
	}
	var created models.Class
	err := s.workspace.Mutate(ctx, "class.create", func(store *repository.PlannerStore) error {
		var err error
		created, err = store.CreateClass(models.Class{
			Name:       req.Name,
			Color:      req.Color,
			PeriodID:   req.PeriodID,
			Subject:    req.Subject,
			GradeLevel: req.GradeLevel,
			Room:       req.Room,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("class created", zap.String("class_id", created.ID))
	return &created, nil
}

// Update modifies a class record.
func (s *ClassService) Update(ctx context.Context, id string, req UpdateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid class payload")
	}
	var updated models.Class
	err := s.workspace.Mutate(ctx, "class.update", func(store *repository.PlannerStore) error {
		var err error
		updated, err = store.UpdateClass(id, models.ClassPatch{
			Name:       req.Name,
			Color:      req.Color,
			PeriodID:   req.PeriodID,
			Subject:    req.Subject,
			GradeLevel: req.GradeLevel,
			Room:       req.Room,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a class together with its lessons and returns every removed id.
func (s *ClassService) Delete(ctx context.Context, id string) ([]string, error) {
	return deleteRecord(ctx, s.workspace, s.logger, models.KindClass, id)
}

func deleteRecord(ctx context.Context, workspace *WorkspaceService, logger *zap.Logger, kind models.Kind, id string) ([]string, error) {
	var removed []string
	err := workspace.Mutate(ctx, string(kind)+".delete", func(store *repository.PlannerStore) error {
		var err error
		removed, err = store.Delete(kind, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info("record deleted",
		zap.String("kind", string(kind)),
		zap.String("id", id),
		zap.Int("cascaded", len(removed)-1),
	)
	return removed, nil
}
