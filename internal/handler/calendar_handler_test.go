package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lesson-planner-api/internal/models"
	appErrors "github.com/noah-isme/lesson-planner-api/pkg/errors"
)

type fakeCalendarSrv struct {
	current     models.CalendarView
	projectRef  models.Date
	projectMode models.ViewMode
	direction   int
	mode        models.ViewMode
	selected    models.Date
	todayCalls  int
}

func (f *fakeCalendarSrv) Project(ref models.Date, mode models.ViewMode) (models.CalendarView, error) {
	f.projectRef, f.projectMode = ref, mode
	return models.CalendarView{Mode: mode, ReferenceDate: ref, LessonCount: 2}, nil
}

func (f *fakeCalendarSrv) Current() (models.CalendarView, error) {
	return f.current, nil
}

func (f *fakeCalendarSrv) Navigate(direction int) (models.CalendarView, error) {
	f.direction = direction
	if direction != 1 && direction != -1 {
		return models.CalendarView{}, appErrors.Clone(appErrors.ErrValidation, "direction must be -1 or 1")
	}
	return f.current, nil
}

func (f *fakeCalendarSrv) GoToToday() (models.CalendarView, error) {
	f.todayCalls++
	return f.current, nil
}

func (f *fakeCalendarSrv) SetViewMode(mode models.ViewMode) (models.CalendarView, error) {
	f.mode = mode
	return models.CalendarView{Mode: mode}, nil
}

func (f *fakeCalendarSrv) Select(d models.Date) (models.CalendarView, error) {
	f.selected = d
	return models.CalendarView{SelectedDate: d}, nil
}

func newFakeCalendar() *fakeCalendarSrv {
	return &fakeCalendarSrv{current: models.CalendarView{
		Mode:          models.ViewWeek,
		ReferenceDate: models.MustParseDate("2025-07-24"),
		LessonCount:   5,
	}}
}

func TestCalendarHandlerGetCurrent(t *testing.T) {
	srv := newFakeCalendar()
	h := NewCalendarHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/calendar", nil)
	h.Get(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var view models.CalendarView
	envelope := decodeEnvelope(t, rec, &view)
	assert.Equal(t, models.ViewWeek, view.Mode)
	assert.Equal(t, float64(5), envelope.Meta["lessonCount"])
	assert.True(t, srv.projectRef.IsZero())
}

func TestCalendarHandlerGetProjectsExplicitDate(t *testing.T) {
	srv := newFakeCalendar()
	h := NewCalendarHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/calendar?date=2025-02-10&mode=month", nil)
	h.Get(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.MustParseDate("2025-02-10"), srv.projectRef)
	assert.Equal(t, models.ViewMonth, srv.projectMode)
}

func TestCalendarHandlerGetKeepsModeWhenOnlyDateGiven(t *testing.T) {
	srv := newFakeCalendar()
	h := NewCalendarHandler(srv)

	c, _ := newTestContext(http.MethodGet, "/calendar?date=2025-02-10", nil)
	h.Get(c)
	assert.Equal(t, models.ViewWeek, srv.projectMode)
}

func TestCalendarHandlerGetRejectsUnknownMode(t *testing.T) {
	h := NewCalendarHandler(newFakeCalendar())
	c, rec := newTestContext(http.MethodGet, "/calendar?mode=year", nil)
	h.Get(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalendarHandlerNavigate(t *testing.T) {
	srv := newFakeCalendar()
	h := NewCalendarHandler(srv)

	c, rec := newTestContext(http.MethodPost, "/calendar/navigate", `{"direction":-1}`)
	h.Navigate(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, -1, srv.direction)

	c, rec = newTestContext(http.MethodPost, "/calendar/navigate", `{"direction":2}`)
	h.Navigate(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalendarHandlerViewTodayAndSelect(t *testing.T) {
	srv := newFakeCalendar()
	h := NewCalendarHandler(srv)

	c, rec := newTestContext(http.MethodPut, "/calendar/view", `{"mode":"month"}`)
	h.SetView(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.ViewMonth, srv.mode)

	c, rec = newTestContext(http.MethodPut, "/calendar/view", `{"mode":"day"}`)
	h.SetView(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newTestContext(http.MethodPost, "/calendar/today", nil)
	h.Today(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, srv.todayCalls)

	c, rec = newTestContext(http.MethodPost, "/calendar/select", `{"date":"2025-07-27"}`)
	h.Select(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.MustParseDate("2025-07-27"), srv.selected)
}
