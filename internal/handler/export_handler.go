package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lesson-planner-api/internal/models"
	"github.com/noah-isme/lesson-planner-api/internal/service"
	appErrors "github.com/noah-isme/lesson-planner-api/pkg/errors"
	"github.com/noah-isme/lesson-planner-api/pkg/response"
)

const maxImportBytes = 10 << 20

type exportService interface {
	Export(ctx context.Context, format service.ExportFormat, filter service.LessonListRequest) (*service.ExportResult, error)
	ImportJSON(ctx context.Context, payload []byte) (models.Counts, error)
}

// ExportHandler serves backups and lesson plan downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Export godoc
// @Summary Download the planner
// @Description format=json returns the full backup; csv, pdf and xlsx return lesson tables filtered like GET /lessons.
// @Tags Export
// @Produce json,text/csv,application/pdf,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param format query string false "json, csv, pdf or xlsx"
// @Param classId query string false "Filter by class"
// @Param periodId query string false "Filter by period"
// @Param date query string false "Exact date (YYYY-MM-DD)"
// @Param from query string false "Range start, inclusive"
// @Param to query string false "Range end, inclusive"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	filter, err := lessonListRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Export(c.Request.Context(), format, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Payload)
}

// Import godoc
// @Summary Replace the planner with a JSON backup
// @Tags Export
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.Snapshot true "Backup document"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /import [post]
func (h *ExportHandler) Import(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes+1))
	if err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	if len(payload) > maxImportBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "import document is too large"))
		return
	}
	counts, err := h.service.ImportJSON(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, counts)
}
