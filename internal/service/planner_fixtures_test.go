package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lesson-planner-api/internal/models"
	"github.com/noah-isme/lesson-planner-api/internal/repository"
)

var fixtureTime = time.Date(2025, 7, 21, 8, 0, 0, 0, time.UTC)

type failingSnapshots struct {
	mu    sync.Mutex
	fail  bool
	saves int
	data  map[string][]byte
}

func newFailingSnapshots() *failingSnapshots {
	return &failingSnapshots{data: make(map[string][]byte)}
}

func (f *failingSnapshots) Save(_ context.Context, key string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.fail {
		return errors.New("disk full")
	}
	f.data[key] = append([]byte(nil), payload...)
	return nil
}

func (f *failingSnapshots) Load(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payload, ok := f.data[key]
	return payload, ok, nil
}

func date(raw string) models.Date {
	return models.MustParseDate(raw)
}

func clock(hh, mm int) *models.TimeOfDay {
	return &models.TimeOfDay{Hour: hh, Minute: mm}
}

// plannerFixture is a week of lessons for two classes over three periods.
func plannerFixture() models.Snapshot {
	at := func(minutes int) time.Time { return fixtureTime.Add(time.Duration(minutes) * time.Minute) }
	return models.Snapshot{
		Periods: []models.Period{
			{ID: "p3", Name: "3rd Period", StartTime: clock(10, 0), EndTime: clock(10, 50)},
			{ID: "p1", Name: "1st Period", StartTime: clock(8, 0), EndTime: clock(8, 50)},
			{ID: "p2", Name: "Homeroom"},
		},
		Classes: []models.Class{
			{ID: "c1", Name: "Algebra I", Color: "#3366ff", PeriodID: "p1"},
			{ID: "c2", Name: "Biology", Color: "#22aa55", PeriodID: "p3"},
		},
		Lessons: []models.Lesson{
			{ID: "l1", ClassID: "c1", PeriodID: "p1", Date: date("2025-07-24"), Title: "Linear Equations", Status: models.LessonStatusReady, Created: at(0), Modified: at(10)},
			{ID: "l2", ClassID: "c2", PeriodID: "p3", Date: date("2025-07-24"), Title: "Cells", Created: at(1), Modified: at(30)},
			{ID: "l3", ClassID: "c1", PeriodID: "p1", Date: date("2025-07-21"), Title: "Variables", Created: at(2), Modified: at(10)},
			{ID: "l4", ClassID: "c2", PeriodID: "p2", Date: date("2025-07-27"), Title: "Microscopes", Created: at(3), Modified: at(5)},
			{ID: "l5", ClassID: "c1", PeriodID: "p3", Date: date("2025-07-24"), Title: "Graphing", Created: at(4), Modified: at(4)},
			{ID: "l6", ClassID: "c2", PeriodID: "p1", Date: date("2025-08-01"), Title: "Photosynthesis", Created: at(5), Modified: at(5)},
		},
		ExportDate: fixtureTime,
	}
}

func newFixtureWorkspace(t *testing.T, snapshots SnapshotRepository, opts ...WorkspaceOption) *WorkspaceService {
	t.Helper()
	store := repository.NewPlannerStore()
	require.NoError(t, store.Restore(plannerFixture()))
	return NewWorkspaceService(store, snapshots, "planner:test", nil, opts...)
}

func lessonIDs(lessons []models.Lesson) []string {
	ids := make([]string, 0, len(lessons))
	for _, l := range lessons {
		ids = append(ids, l.ID)
	}
	return ids
}
