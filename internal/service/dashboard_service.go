package service

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/lesson-planner-api/internal/dto"
	"github.com/noah-isme/lesson-planner-api/internal/models"
)

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL    time.Duration
	RecentLimit int
	WeekStart   models.WeekStart
}

// DashboardService composes the planner overview.
type DashboardService struct {
	workspace *WorkspaceService
	queries   *QueryService
	cache     *CacheService
	logger    *zap.Logger
	now       func() time.Time
	cfg       DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Workspace *WorkspaceService
	Queries   *QueryService
	Cache     *CacheService
	Logger    *zap.Logger
	Config    DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = defaultRecentLimit
	}
	if cfg.WeekStart == "" {
		cfg.WeekStart = models.WeekStartSunday
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		workspace: params.Workspace,
		queries:   params.Queries,
		cache:     params.Cache,
		logger:    logger,
		now:       time.Now,
		cfg:       cfg,
	}
}

// Summary returns the overview for today and whether it came from cache.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, bool, error) {
	today := models.DateOf(s.now())
	generation := strconv.FormatUint(s.workspace.Generation(), 10)
	key := s.cache.Key(dashboardCacheView, generation, today.String(), string(s.cfg.WeekStart))
	summary, hit := cached(ctx, s.cache, key, s.cfg.CacheTTL, func() *dto.DashboardSummary {
		return s.compose(today)
	})
	return summary, hit, nil
}

func (s *DashboardService) compose(today models.Date) *dto.DashboardSummary {
	store := s.workspace.Store()
	counts := store.Counts()
	summary := &dto.DashboardSummary{
		Today:     today,
		WeekStart: StartOfWeek(today, s.cfg.WeekStart),
		WeekEnd:   EndOfWeek(today, s.cfg.WeekStart),
		Totals: dto.DashboardTotals{
			Lessons: counts.Lessons,
			Classes: counts.Classes,
			Periods: counts.Periods,
		},
		ThisWeek: len(s.queries.LessonsThisWeek(today, s.cfg.WeekStart)),
		Recent:   []dto.RecentLesson{},
	}

	for lesson := range store.Lessons() {
		switch lesson.Status {
		case models.LessonStatusReady:
			summary.Status.Ready++
		default:
			summary.Status.Draft++
		}
	}

	for _, lesson := range s.queries.RecentLessons(s.cfg.RecentLimit) {
		item := dto.RecentLesson{Lesson: lesson}
		if class, err := store.Class(lesson.ClassID); err == nil {
			item.ClassName = class.Name
			item.ClassColor = class.Color
		}
		summary.Recent = append(summary.Recent, item)
	}

	summary.TodayLessons = s.queries.LessonsOn(today)
	if summary.TodayLessons == nil {
		summary.TodayLessons = []models.Lesson{}
	}
	SortForDisplay(summary.TodayLessons, s.queries.PeriodRank())
	return summary
}
