package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/lesson-planner-api/internal/models"
	appErrors "github.com/noah-isme/lesson-planner-api/pkg/errors"
	"github.com/noah-isme/lesson-planner-api/pkg/export"
)

// ExportFormat names a download format.
type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
)

var exportContentTypes = map[ExportFormat]string{
	ExportFormatJSON: "application/json",
	ExportFormatCSV:  "text/csv",
	ExportFormatPDF:  "application/pdf",
	ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

var lessonExportColumns = []export.Column{
	{Header: "Date", Width: 1},
	{Header: "Period", Width: 1},
	{Header: "Class", Width: 1.2},
	{Header: "Title", Width: 1.6},
	{Header: "Status", Width: 0.7},
	{Header: "Objective", Width: 2},
	{Header: "Materials", Width: 1.6},
	{Header: "Instruction", Width: 2.4},
	{Header: "Assessment", Width: 1.6},
	{Header: "Notes", Width: 1.6},
}

// ExportResult is a rendered download.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders the planner as a JSON backup or as lesson plan tables and
// imports JSON backups.
type ExportService struct {
	workspace *WorkspaceService
	lessons   *LessonService
	queries   *QueryService
	renderers map[ExportFormat]export.Renderer
	logger    *zap.Logger
	now       func() time.Time
}

// ExportOption customises an ExportService.
type ExportOption func(*ExportService)

// WithExportRenderer replaces the renderer used for a table format.
func WithExportRenderer(format ExportFormat, r export.Renderer) ExportOption {
	return func(s *ExportService) {
		if r != nil && format != ExportFormatJSON {
			s.renderers[format] = r
		}
	}
}

// NewExportService constructs an ExportService with the CSV, PDF and XLSX renderers.
func NewExportService(workspace *WorkspaceService, lessons *LessonService, queries *QueryService, logger *zap.Logger, opts ...ExportOption) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ExportService{
		workspace: workspace,
		lessons:   lessons,
		queries:   queries,
		renderers: map[ExportFormat]export.Renderer{
			ExportFormatCSV:  export.NewCSVRenderer(),
			ExportFormatPDF:  export.NewPDFRenderer(),
			ExportFormatXLSX: export.NewXLSXRenderer(),
		},
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseExportFormat validates a format name; empty means json.
func ParseExportFormat(raw string) (ExportFormat, error) {
	format := ExportFormat(strings.ToLower(strings.TrimSpace(raw)))
	if format == "" {
		return ExportFormatJSON, nil
	}
	if _, ok := exportContentTypes[format]; !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", raw))
	}
	return format, nil
}

// Export renders the requested format. JSON is always the full backup document and
// ignores the filter; table formats list the matching lessons in display order.
func (s *ExportService) Export(ctx context.Context, format ExportFormat, filter LessonListRequest) (*ExportResult, error) {
	if format == ExportFormatJSON {
		return s.ExportJSON(ctx)
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	table, err := s.lessonTable(ctx, filter)
	if err != nil {
		return nil, err
	}
	payload, err := renderer.Render(table)
	if err != nil {
		return nil, appErrors.ErrInternal.Wrap(err, "failed to render export")
	}
	s.logger.Info("lesson export rendered", zap.String("format", string(format)), zap.Int("rows", len(table.Rows)))
	return &ExportResult{Filename: s.filename(format), ContentType: exportContentTypes[format], Payload: payload}, nil
}

// ExportJSON returns the full planner state as {classes, periods, lessons, exportDate}.
func (s *ExportService) ExportJSON(ctx context.Context) (*ExportResult, error) {
	payload, err := json.MarshalIndent(s.workspace.Export(), "", "  ")
	if err != nil {
		return nil, appErrors.ErrInternal.Wrap(err, "failed to encode export")
	}
	return &ExportResult{Filename: s.filename(ExportFormatJSON), ContentType: exportContentTypes[ExportFormatJSON], Payload: payload}, nil
}

// ImportJSON replaces the whole planner with a JSON backup. An invalid document
// leaves the planner unchanged.
func (s *ExportService) ImportJSON(ctx context.Context, payload []byte) (models.Counts, error) {
	var snapshot models.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return models.Counts{}, appErrors.Invalid(err, "invalid import document")
	}
	if err := s.workspace.Replace(ctx, snapshot); err != nil {
		return models.Counts{}, err
	}
	counts := s.workspace.Store().Counts()
	s.logger.Info("planner imported",
		zap.Int("classes", counts.Classes),
		zap.Int("periods", counts.Periods),
		zap.Int("lessons", counts.Lessons),
	)
	return counts, nil
}

func (s *ExportService) lessonTable(ctx context.Context, filter LessonListRequest) (export.Table, error) {
	lessons, err := s.lessons.List(ctx, filter)
	if err != nil {
		return export.Table{}, err
	}
	SortForDisplay(lessons, s.queries.PeriodRank())

	store := s.workspace.Store()
	table := export.Table{Title: "Lesson Plans", Columns: lessonExportColumns, Rows: make([][]string, 0, len(lessons))}
	for _, lesson := range lessons {
		var className, periodName string
		if class, err := store.Class(lesson.ClassID); err == nil {
			className = class.Name
		}
		if period, err := store.Period(lesson.PeriodID); err == nil {
			periodName = period.Name
		}
		table.Rows = append(table.Rows, []string{
			lesson.Date.String(),
			periodName,
			className,
			lesson.Title,
			string(lesson.Status),
			lesson.Objective,
			lesson.Materials,
			lesson.Instruction,
			lesson.Assessment,
			lesson.Notes,
		})
	}
	return table, nil
}

func (s *ExportService) filename(format ExportFormat) string {
	return fmt.Sprintf("lesson-planner_%s.%s", s.now().UTC().Format("20060102_150405"), format)
}
