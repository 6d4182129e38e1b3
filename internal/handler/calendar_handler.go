package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lesson-planner-api/internal/models"
	appErrors "github.com/noah-isme/lesson-planner-api/pkg/errors"
	"github.com/noah-isme/lesson-planner-api/pkg/response"
)

type calendarService interface {
	Project(ref models.Date, mode models.ViewMode) (models.CalendarView, error)
	Current() (models.CalendarView, error)
	Navigate(direction int) (models.CalendarView, error)
	GoToToday() (models.CalendarView, error)
	SetViewMode(mode models.ViewMode) (models.CalendarView, error)
	Select(d models.Date) (models.CalendarView, error)
}

// NavigateRequest moves the calendar one step backwards (-1) or forwards (1).
type NavigateRequest struct {
	Direction int `json:"direction" binding:"required,oneof=-1 1"`
}

// ViewModeRequest switches the grid shape.
type ViewModeRequest struct {
	Mode models.ViewMode `json:"mode" binding:"required,oneof=week month"`
}

// SelectRequest picks a day on the grid.
type SelectRequest struct {
	Date models.Date `json:"date"`
}

// CalendarHandler exposes the week/month projector.
type CalendarHandler struct {
	service calendarService
}

// NewCalendarHandler constructs a calendar handler.
func NewCalendarHandler(svc calendarService) *CalendarHandler {
	return &CalendarHandler{service: svc}
}

// Get godoc
// @Summary Project the calendar grid
// @Description Without parameters returns the session's current view. With date (and optional mode) projects that grid without moving the session.
// @Tags Calendar
// @Produce json
// @Security BearerAuth
// @Param date query string false "Reference date (YYYY-MM-DD)"
// @Param mode query string false "week or month"
// @Success 200 {object} response.Envelope
// @Router /calendar [get]
func (h *CalendarHandler) Get(c *gin.Context) {
	ref, err := queryDate(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	if ref == nil && c.Query("mode") == "" {
		h.respond(c)(h.service.Current())
		return
	}

	current, err := h.service.Current()
	if err != nil {
		response.Error(c, err)
		return
	}
	mode := current.Mode
	if raw := c.Query("mode"); raw != "" {
		parsed, err := models.ParseViewMode(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
			return
		}
		mode = parsed
	}
	reference := current.ReferenceDate
	if ref != nil {
		reference = *ref
	}
	h.respond(c)(h.service.Project(reference, mode))
}

// Navigate godoc
// @Summary Move one week or month
// @Tags Calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body NavigateRequest true "Direction"
// @Success 200 {object} response.Envelope
// @Router /calendar/navigate [post]
func (h *CalendarHandler) Navigate(c *gin.Context) {
	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	h.respond(c)(h.service.Navigate(req.Direction))
}

// Today godoc
// @Summary Jump to today
// @Tags Calendar
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /calendar/today [post]
func (h *CalendarHandler) Today(c *gin.Context) {
	h.respond(c)(h.service.GoToToday())
}

// SetView godoc
// @Summary Switch between week and month
// @Tags Calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body ViewModeRequest true "Mode"
// @Success 200 {object} response.Envelope
// @Router /calendar/view [put]
func (h *CalendarHandler) SetView(c *gin.Context) {
	var req ViewModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	h.respond(c)(h.service.SetViewMode(req.Mode))
}

// Select godoc
// @Summary Select a day
// @Tags Calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body SelectRequest true "Date"
// @Success 200 {object} response.Envelope
// @Router /calendar/select [post]
func (h *CalendarHandler) Select(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	h.respond(c)(h.service.Select(req.Date))
}

func (h *CalendarHandler) respond(c *gin.Context) func(models.CalendarView, error) {
	return func(view models.CalendarView, err error) {
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, view, map[string]interface{}{"lessonCount": view.LessonCount})
	}
}
