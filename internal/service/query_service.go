package service

import (
	"cmp"
	"iter"
	"slices"

	"github.com/noah-isme/lesson-planner-api/internal/models"
)

type lessonSource interface {
	Lessons() iter.Seq[models.Lesson]
	Periods() iter.Seq[models.Period]
}

// QueryService derives read-only lesson views from the planner store.
// It never mutates the store and keeps no state of its own.
type QueryService struct {
	source lessonSource
}

// NewQueryService constructs a QueryService.
func NewQueryService(source lessonSource) *QueryService {
	return &QueryService{source: source}
}

// LessonsOn returns the lessons dated d in insertion order.
func (q *QueryService) LessonsOn(d models.Date) []models.Lesson {
	return slices.Collect(q.LessonsFiltered(models.LessonFilter{Date: &d}))
}

// LessonsInRange returns lessons dated within [start, end], inclusive on both ends.
// An inverted range is empty.
func (q *QueryService) LessonsInRange(start, end models.Date) []models.Lesson {
	var out []models.Lesson
	for lesson := range q.source.Lessons() {
		if lesson.Date.Between(start, end) {
			out = append(out, lesson)
		}
	}
	return out
}

// LessonsFiltered yields lessons matching every set predicate of f, in insertion order.
func (q *QueryService) LessonsFiltered(f models.LessonFilter) iter.Seq[models.Lesson] {
	return func(yield func(models.Lesson) bool) {
		for lesson := range q.source.Lessons() {
			if f.Matches(lesson) && !yield(lesson) {
				return
			}
		}
	}
}

// RecentLessons returns up to n lessons by modified time, newest first. Lessons with
// equal timestamps keep insertion order.
func (q *QueryService) RecentLessons(n int) []models.Lesson {
	if n <= 0 {
		return []models.Lesson{}
	}
	lessons := slices.Collect(q.source.Lessons())
	slices.SortStableFunc(lessons, func(a, b models.Lesson) int {
		return b.Modified.Compare(a.Modified)
	})
	if len(lessons) > n {
		lessons = lessons[:n]
	}
	return lessons
}

// LessonsThisWeek returns lessons in the 7-day window containing today.
func (q *QueryService) LessonsThisWeek(today models.Date, weekStart models.WeekStart) []models.Lesson {
	start := StartOfWeek(today, weekStart)
	return q.LessonsInRange(start, start.AddDays(6))
}

// PeriodRank orders periods by start time; periods without times follow, in insertion order.
func (q *QueryService) PeriodRank() map[string]int {
	periods := slices.Collect(q.source.Periods())
	slices.SortStableFunc(periods, func(a, b models.Period) int {
		switch {
		case a.StartTime != nil && b.StartTime != nil:
			return cmp.Compare(a.StartTime.Minutes(), b.StartTime.Minutes())
		case a.StartTime != nil:
			return -1
		case b.StartTime != nil:
			return 1
		}
		return 0
	})
	rank := make(map[string]int, len(periods))
	for i, p := range periods {
		rank[p.ID] = i
	}
	return rank
}

// SortForDisplay orders lessons by date, then period rank, then title.
func SortForDisplay(lessons []models.Lesson, rank map[string]int) {
	slices.SortStableFunc(lessons, func(a, b models.Lesson) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		if c := cmp.Compare(rank[a.PeriodID], rank[b.PeriodID]); c != 0 {
			return c
		}
		return cmp.Compare(a.Title, b.Title)
	})
}

// StartOfWeek returns the first day of the 7-day window holding d.
func StartOfWeek(d models.Date, weekStart models.WeekStart) models.Date {
	offset := (int(d.Weekday()) - int(weekStart.Weekday()) + 7) % 7
	return d.AddDays(-offset)
}

// EndOfWeek returns the last day of the 7-day window holding d.
func EndOfWeek(d models.Date, weekStart models.WeekStart) models.Date {
	return StartOfWeek(d, weekStart).AddDays(6)
}
