package service

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/lesson-planner-api/internal/models"
	appErrors "github.com/noah-isme/lesson-planner-api/pkg/errors"
)

// CalendarServiceConfig sets the grid conventions.
type CalendarServiceConfig struct {
	WeekStart   models.WeekStart
	DefaultView models.ViewMode
}

// CalendarService projects lessons onto week and month grids and tracks the
// session's navigation state (view mode, reference date, selected date).
type CalendarService struct {
	mu        sync.Mutex
	queries   *QueryService
	weekStart models.WeekStart
	mode      models.ViewMode
	reference models.Date
	selected  models.Date
	now       func() time.Time
	logger    *zap.Logger
}

// NewCalendarService constructs the projector positioned on today.
func NewCalendarService(queries *QueryService, cfg CalendarServiceConfig, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.WeekStart == "" {
		cfg.WeekStart = models.WeekStartSunday
	}
	if cfg.DefaultView == "" {
		cfg.DefaultView = models.ViewWeek
	}
	svc := &CalendarService{
		queries:   queries,
		weekStart: cfg.WeekStart,
		mode:      cfg.DefaultView,
		now:       time.Now,
		logger:    logger,
	}
	svc.reference = svc.today()
	svc.selected = svc.reference
	return svc
}

func (s *CalendarService) today() models.Date {
	return models.DateOf(s.now())
}

// WeekStart returns the configured week convention.
func (s *CalendarService) WeekStart() models.WeekStart {
	return s.weekStart
}

// Project lays out the grid for ref in mode without touching navigation state.
func (s *CalendarService) Project(ref models.Date, mode models.ViewMode) (models.CalendarView, error) {
	s.mu.Lock()
	selected := s.selected
	s.mu.Unlock()
	return s.project(ref, mode, selected)
}

func (s *CalendarService) project(ref models.Date, mode models.ViewMode, selected models.Date) (models.CalendarView, error) {
	if ref.IsZero() {
		return models.CalendarView{}, appErrors.Clone(appErrors.ErrValidation, "reference date is required")
	}

	var start models.Date
	var size int
	switch mode {
	case models.ViewWeek:
		start = StartOfWeek(ref, s.weekStart)
		size = 7
	case models.ViewMonth:
		first := ref.FirstOfMonth()
		start = StartOfWeek(first, s.weekStart)
		offset := start.DaysUntil(first)
		size = (ref.DaysInMonth() + offset + 6) / 7 * 7
	default:
		return models.CalendarView{}, appErrors.Clone(appErrors.ErrValidation, "view mode must be week or month")
	}

	end := start.AddDays(size - 1)
	rank := s.queries.PeriodRank()
	byDate := make(map[models.Date][]models.Lesson)
	for _, lesson := range s.queries.LessonsInRange(start, end) {
		byDate[lesson.Date] = append(byDate[lesson.Date], lesson)
	}

	today := s.today()
	view := models.CalendarView{
		Mode:          mode,
		ReferenceDate: ref,
		SelectedDate:  selected,
		WeekStart:     s.weekStart,
		Start:         start,
		End:           end,
		Cells:         make([]models.CalendarCell, 0, size),
	}
	for i := 0; i < size; i++ {
		day := start.AddDays(i)
		lessons := byDate[day]
		if lessons == nil {
			lessons = []models.Lesson{}
		}
		SortForDisplay(lessons, rank)
		cell := models.CalendarCell{
			Date:       day,
			IsToday:    day == today,
			IsSelected: day == selected,
			OtherMonth: mode == models.ViewMonth && !day.SameMonth(ref),
			Lessons:    lessons,
		}
		if !cell.OtherMonth {
			view.LessonCount += len(lessons)
		}
		view.Cells = append(view.Cells, cell)
	}
	return view, nil
}

// Current projects the grid for the tracked reference date and mode.
func (s *CalendarService) Current() (models.CalendarView, error) {
	s.mu.Lock()
	ref, mode, selected := s.reference, s.mode, s.selected
	s.mu.Unlock()
	return s.project(ref, mode, selected)
}

// Navigate moves one week or one month. Month moves clamp the day to the target
// month, so a forward then backward move need not return to the same day.
func (s *CalendarService) Navigate(direction int) (models.CalendarView, error) {
	if direction != -1 && direction != 1 {
		return models.CalendarView{}, appErrors.Clone(appErrors.ErrValidation, "direction must be -1 or 1")
	}
	s.mu.Lock()
	if s.mode == models.ViewMonth {
		s.reference = s.reference.AddMonths(direction)
	} else {
		s.reference = s.reference.AddDays(7 * direction)
	}
	ref, mode, selected := s.reference, s.mode, s.selected
	s.mu.Unlock()

	s.logger.Debug("calendar navigated", zap.Int("direction", direction), zap.Stringer("reference", ref))
	return s.project(ref, mode, selected)
}

// GoToToday resets both the reference and the selected date to today.
func (s *CalendarService) GoToToday() (models.CalendarView, error) {
	s.mu.Lock()
	s.reference = s.today()
	s.selected = s.reference
	ref, mode, selected := s.reference, s.mode, s.selected
	s.mu.Unlock()
	return s.project(ref, mode, selected)
}

// SetViewMode switches between week and month grids keeping the reference date.
func (s *CalendarService) SetViewMode(mode models.ViewMode) (models.CalendarView, error) {
	if _, err := models.ParseViewMode(string(mode)); err != nil {
		return models.CalendarView{}, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	s.mu.Lock()
	s.mode = mode
	ref, selected := s.reference, s.selected
	s.mu.Unlock()
	return s.project(ref, mode, selected)
}

// Select marks d as the selected date and moves the reference onto it.
func (s *CalendarService) Select(d models.Date) (models.CalendarView, error) {
	if d.IsZero() {
		return models.CalendarView{}, appErrors.Clone(appErrors.ErrValidation, "date is required")
	}
	s.mu.Lock()
	s.selected = d
	s.reference = d
	mode := s.mode
	s.mu.Unlock()
	return s.project(d, mode, d)
}
