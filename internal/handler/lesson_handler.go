package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lesson-planner-api/internal/models"
	"github.com/noah-isme/lesson-planner-api/internal/service"
	appErrors "github.com/noah-isme/lesson-planner-api/pkg/errors"
	"github.com/noah-isme/lesson-planner-api/pkg/response"
)

type lessonService interface {
	List(ctx context.Context, req service.LessonListRequest) ([]models.Lesson, error)
	Recent(ctx context.Context, limit int) ([]models.Lesson, error)
	Get(ctx context.Context, id string) (*models.Lesson, error)
	Create(ctx context.Context, req service.CreateLessonRequest) (*models.Lesson, error)
	Update(ctx context.Context, id string, req service.UpdateLessonRequest) (*models.Lesson, error)
	Duplicate(ctx context.Context, id string) (*models.Lesson, error)
	Delete(ctx context.Context, id string) ([]string, error)
}

// LessonHandler exposes lesson plan endpoints.
type LessonHandler struct {
	service lessonService
}

// NewLessonHandler constructs a lesson handler.
func NewLessonHandler(svc lessonService) *LessonHandler {
	return &LessonHandler{service: svc}
}

// lessonListRequest reads the shared lesson filters from the query string.
func lessonListRequest(c *gin.Context) (service.LessonListRequest, error) {
	req := service.LessonListRequest{ClassID: c.Query("classId"), PeriodID: c.Query("periodId")}
	var err error
	if req.Date, err = queryDate(c, "date"); err != nil {
		return req, err
	}
	if req.From, err = queryDate(c, "from"); err != nil {
		return req, err
	}
	if req.To, err = queryDate(c, "to"); err != nil {
		return req, err
	}
	return req, nil
}

// List godoc
// @Summary List lessons
// @Tags Lessons
// @Produce json
// @Security BearerAuth
// @Param classId query string false "Filter by class"
// @Param periodId query string false "Filter by period"
// @Param date query string false "Exact date (YYYY-MM-DD)"
// @Param from query string false "Range start, inclusive"
// @Param to query string false "Range end, inclusive"
// @Success 200 {object} response.Envelope
// @Router /lessons [get]
func (h *LessonHandler) List(c *gin.Context) {
	req, err := lessonListRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	lessons, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons, map[string]interface{}{"total": len(lessons)})
}

// Recent godoc
// @Summary Most recently edited lessons
// @Tags Lessons
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of lessons (default 5)"
// @Success 200 {object} response.Envelope
// @Router /lessons/recent [get]
func (h *LessonHandler) Recent(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a number"))
			return
		}
		limit = parsed
	}
	lessons, err := h.service.Recent(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons)
}

// Get godoc
// @Summary Get lesson
// @Tags Lessons
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Router /lessons/{id} [get]
func (h *LessonHandler) Get(c *gin.Context) {
	lesson, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson)
}

// Create godoc
// @Summary Create lesson
// @Tags Lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateLessonRequest true "Lesson payload"
// @Success 201 {object} response.Envelope
// @Router /lessons [post]
func (h *LessonHandler) Create(c *gin.Context) {
	var req service.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	lesson, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lesson)
}

// Update godoc
// @Summary Update lesson
// @Tags Lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lesson ID"
// @Param payload body service.UpdateLessonRequest true "Lesson payload"
// @Success 200 {object} response.Envelope
// @Router /lessons/{id} [patch]
func (h *LessonHandler) Update(c *gin.Context) {
	var req service.UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	lesson, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson)
}

// Duplicate godoc
// @Summary Copy a lesson as a new draft
// @Tags Lessons
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lesson ID"
// @Success 201 {object} response.Envelope
// @Router /lessons/{id}/duplicate [post]
func (h *LessonHandler) Duplicate(c *gin.Context) {
	lesson, err := h.service.Duplicate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lesson)
}

// Delete godoc
// @Summary Delete lesson
// @Tags Lessons
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Router /lessons/{id} [delete]
func (h *LessonHandler) Delete(c *gin.Context) {
	removed, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"removed": removed})
}
