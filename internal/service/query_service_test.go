package service

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lesson-planner-api/internal/models"
	"github.com/noah-isme/lesson-planner-api/internal/repository"
)

func newFixtureQueries(t *testing.T) *QueryService {
	t.Helper()
	store := repository.NewPlannerStore()
	require.NoError(t, store.Restore(plannerFixture()))
	return NewQueryService(store)
}

func TestLessonsOnKeepsInsertionOrder(t *testing.T) {
	q := newFixtureQueries(t)
	assert.Equal(t, []string{"l1", "l2", "l5"}, lessonIDs(q.LessonsOn(date("2025-07-24"))))
	assert.Empty(t, q.LessonsOn(date("2025-07-22")))
}

func TestLessonsInRangeIsInclusive(t *testing.T) {
	q := newFixtureQueries(t)
	got := q.LessonsInRange(date("2025-07-21"), date("2025-07-24"))
	assert.Equal(t, []string{"l1", "l2", "l3", "l5"}, lessonIDs(got))

	single := q.LessonsInRange(date("2025-07-27"), date("2025-07-27"))
	assert.Equal(t, []string{"l4"}, lessonIDs(single))
}

func TestLessonsInRangeInvertedIsEmpty(t *testing.T) {
	q := newFixtureQueries(t)
	assert.Empty(t, q.LessonsInRange(date("2025-07-27"), date("2025-07-21")))
}

func TestLessonsFilteredCombinesPredicates(t *testing.T) {
	q := newFixtureQueries(t)
	day := date("2025-07-24")

	cases := []struct {
		name   string
		filter models.LessonFilter
		want   []string
	}{
		{name: "no filter", filter: models.LessonFilter{}, want: []string{"l1", "l2", "l3", "l4", "l5", "l6"}},
		{name: "class", filter: models.LessonFilter{ClassID: "c1"}, want: []string{"l1", "l3", "l5"}},
		{name: "class and period", filter: models.LessonFilter{ClassID: "c1", PeriodID: "p1"}, want: []string{"l1", "l3"}},
		{name: "period and date", filter: models.LessonFilter{PeriodID: "p3", Date: &day}, want: []string{"l2", "l5"}},
		{name: "no match", filter: models.LessonFilter{ClassID: "missing"}, want: []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := lessonIDs(slices.Collect(q.LessonsFiltered(tc.filter)))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLessonsFilteredIsRestartable(t *testing.T) {
	q := newFixtureQueries(t)
	seq := q.LessonsFiltered(models.LessonFilter{ClassID: "c2"})
	first := lessonIDs(slices.Collect(seq))
	second := lessonIDs(slices.Collect(seq))
	assert.Equal(t, first, second)

	var taken []string
	for lesson := range seq {
		taken = append(taken, lesson.ID)
		break
	}
	assert.Equal(t, []string{"l2"}, taken)
}

func TestRecentLessonsBreaksTiesByInsertionOrder(t *testing.T) {
	q := newFixtureQueries(t)
	assert.Equal(t, []string{"l2", "l1", "l3"}, lessonIDs(q.RecentLessons(3)))
	assert.Equal(t, []string{"l2", "l1", "l3", "l4", "l6", "l5"}, lessonIDs(q.RecentLessons(10)))
	assert.Empty(t, q.RecentLessons(0))
}

func TestStartOfWeek(t *testing.T) {
	cases := []struct {
		day       string
		weekStart models.WeekStart
		want      string
	}{
		{"2025-07-24", models.WeekStartSunday, "2025-07-20"},
		{"2025-07-24", models.WeekStartMonday, "2025-07-21"},
		{"2025-07-27", models.WeekStartSunday, "2025-07-27"},
		{"2025-07-27", models.WeekStartMonday, "2025-07-21"},
		{"2025-07-21", models.WeekStartMonday, "2025-07-21"},
		{"2025-01-01", models.WeekStartSunday, "2024-12-29"},
	}
	for _, tc := range cases {
		t.Run(tc.day+"/"+string(tc.weekStart), func(t *testing.T) {
			start := StartOfWeek(date(tc.day), tc.weekStart)
			assert.Equal(t, date(tc.want), start)
			assert.Equal(t, tc.weekStart.Weekday(), start.Weekday())
			assert.Equal(t, start.AddDays(6), EndOfWeek(date(tc.day), tc.weekStart))
		})
	}
}

func TestLessonsThisWeekFollowsConvention(t *testing.T) {
	q := newFixtureQueries(t)
	today := date("2025-07-24")
	assert.Equal(t, []string{"l1", "l2", "l3", "l5"}, lessonIDs(q.LessonsThisWeek(today, models.WeekStartSunday)))
	assert.Equal(t, []string{"l1", "l2", "l3", "l4", "l5"}, lessonIDs(q.LessonsThisWeek(today, models.WeekStartMonday)))
}

func TestPeriodRankPutsUntimedLast(t *testing.T) {
	q := newFixtureQueries(t)
	assert.Equal(t, map[string]int{"p1": 0, "p3": 1, "p2": 2}, q.PeriodRank())
}

func TestSortForDisplayOrdersByPeriodThenTitle(t *testing.T) {
	q := newFixtureQueries(t)
	lessons := q.LessonsOn(date("2025-07-24"))
	slices.Reverse(lessons)

	SortForDisplay(lessons, q.PeriodRank())
	assert.Equal(t, []string{"l1", "l2", "l5"}, lessonIDs(lessons))
}

func datedStore(t *testing.T, dates ...string) *QueryService {
	t.Helper()
	snapshot := models.Snapshot{
		Periods: []models.Period{{ID: "p1", Name: "1st Period"}},
		Classes: []models.Class{{ID: "c1", Name: "Algebra I", PeriodID: "p1"}},
	}
	for i, raw := range dates {
		snapshot.Lessons = append(snapshot.Lessons, models.Lesson{
			ID:       fmt.Sprintf("l%02d", i),
			ClassID:  "c1",
			PeriodID: "p1",
			Date:     date(raw),
			Title:    "Lesson " + raw,
		})
	}
	store := repository.NewPlannerStore()
	require.NoError(t, store.Restore(snapshot))
	return NewQueryService(store)
}

func TestLessonsInRangeStopsAtEndDate(t *testing.T) {
	q := datedStore(t, "2025-07-21", "2025-07-27", "2025-07-28")
	got := q.LessonsInRange(date("2025-07-21"), date("2025-07-27"))
	assert.Equal(t, []string{"l00", "l01"}, lessonIDs(got))
}

func TestLessonsOnCoversEachMonthExactly(t *testing.T) {
	dates := []string{
		"2023-12-31", "2024-01-01", "2024-01-31", "2024-01-31",
		"2024-02-01", "2024-02-28", "2024-02-29", "2024-03-01",
		"2024-12-31", "2025-01-01", "2025-02-28", "2025-03-01",
		"2025-03-31", "2025-04-01",
	}
	q := datedStore(t, dates...)

	cases := []struct {
		month string
		want  int
	}{
		{month: "2024-01", want: 3},
		{month: "2024-02", want: 3},
		{month: "2024-03", want: 1},
		{month: "2024-12", want: 1},
		{month: "2025-01", want: 1},
		{month: "2025-02", want: 1},
		{month: "2025-03", want: 2},
		{month: "2025-06", want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.month, func(t *testing.T) {
			first := date(tc.month + "-01")
			last := first.AddDays(first.DaysInMonth() - 1)

			var union []string
			for d := first; !d.After(last); d = d.AddDays(1) {
				union = append(union, lessonIDs(q.LessonsOn(d))...)
			}
			slices.Sort(union)
			assert.Len(t, slices.Compact(slices.Clone(union)), len(union), "a lesson was listed on two days")

			var want []string
			for i, raw := range dates {
				if strings.HasPrefix(raw, tc.month+"-") {
					want = append(want, fmt.Sprintf("l%02d", i))
				}
			}
			require.Len(t, want, tc.want)

			inRange := lessonIDs(q.LessonsInRange(first, last))
			slices.Sort(inRange)
			assert.Equal(t, want, nilIfEmpty(union))
			assert.Equal(t, want, nilIfEmpty(inRange))
		})
	}
}

func nilIfEmpty(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	return ids
}
