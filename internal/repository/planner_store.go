package repository

import (
	"fmt"
	"iter"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/lesson-planner-api/internal/models"
	appErrors "github.com/noah-isme/lesson-planner-api/pkg/errors"
)

// PlannerStore is the authoritative in-memory store of classes, periods and lessons.
// Every lesson references a live class and period at all times; deleting a class or
// period removes its lessons under the same lock, so no dangling lesson is ever visible.
type PlannerStore struct {
	mu      sync.RWMutex
	classes table[models.Class]
	periods table[models.Period]
	lessons table[models.Lesson]
	now     func() time.Time
}

// NewPlannerStore constructs an empty store.
func NewPlannerStore() *PlannerStore {
	return &PlannerStore{
		classes: newTable[models.Class]("cls_"),
		periods: newTable[models.Period]("per_"),
		lessons: newTable[models.Lesson]("les_"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// touch returns a timestamp that never goes backwards relative to prev.
func (s *PlannerStore) touch(prev time.Time) time.Time {
	now := s.now()
	if now.Before(prev) {
		return prev
	}
	return now
}

func validationError(format string, args ...interface{}) error {
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(kind models.Kind, id string) error {
	return appErrors.NotFound(string(kind), id)
}

// Class returns a class by id.
func (s *PlannerStore) Class(id string) (models.Class, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	class, ok := s.classes.get(id)
	if !ok {
		return models.Class{}, notFound(models.KindClass, id)
	}
	return class, nil
}

// Period returns a period by id.
func (s *PlannerStore) Period(id string) (models.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	period, ok := s.periods.get(id)
	if !ok {
		return models.Period{}, notFound(models.KindPeriod, id)
	}
	return period, nil
}

// Lesson returns a lesson by id.
func (s *PlannerStore) Lesson(id string) (models.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lesson, ok := s.lessons.get(id)
	if !ok {
		return models.Lesson{}, notFound(models.KindLesson, id)
	}
	return lesson, nil
}

// Classes yields classes in insertion order. Each range over the sequence reads the
// store afresh, so the sequence can be restarted.
func (s *PlannerStore) Classes() iter.Seq[models.Class] {
	return func(yield func(models.Class) bool) {
		s.mu.RLock()
		rows := s.classes.values()
		s.mu.RUnlock()
		for _, row := range rows {
			if !yield(row) {
				return
			}
		}
	}
}

// Periods yields periods in insertion order.
func (s *PlannerStore) Periods() iter.Seq[models.Period] {
	return func(yield func(models.Period) bool) {
		s.mu.RLock()
		rows := s.periods.values()
		s.mu.RUnlock()
		for _, row := range rows {
			if !yield(row) {
				return
			}
		}
	}
}

// Lessons yields lessons in insertion order.
func (s *PlannerStore) Lessons() iter.Seq[models.Lesson] {
	return func(yield func(models.Lesson) bool) {
		s.mu.RLock()
		rows := s.lessons.values()
		s.mu.RUnlock()
		for _, row := range rows {
			if !yield(row) {
				return
			}
		}
	}
}

// Counts returns the size of each collection.
func (s *PlannerStore) Counts() models.Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Counts{Classes: s.classes.len(), Periods: s.periods.len(), Lessons: s.lessons.len()}
}

// CreateClass assigns a fresh id and stores the class.
func (s *PlannerStore) CreateClass(class models.Class) (models.Class, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateClass(&class); err != nil {
		return models.Class{}, err
	}
	class.ID = s.classes.newID()
	class.CreatedAt = s.now()
	class.UpdatedAt = class.CreatedAt
	s.classes.put(class.ID, class)
	return class, nil
}

// UpdateClass merges the patch into an existing class.
func (s *PlannerStore) UpdateClass(id string, patch models.ClassPatch) (models.Class, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	class, ok := s.classes.get(id)
	if !ok {
		return models.Class{}, notFound(models.KindClass, id)
	}
	assign(&class.Name, patch.Name)
	assign(&class.Color, patch.Color)
	assign(&class.PeriodID, patch.PeriodID)
	assign(&class.Subject, patch.Subject)
	assign(&class.GradeLevel, patch.GradeLevel)
	assign(&class.Room, patch.Room)
	if err := s.validateClass(&class); err != nil {
		return models.Class{}, err
	}
	class.UpdatedAt = s.touch(class.UpdatedAt)
	s.classes.put(id, class)
	return class, nil
}

func (s *PlannerStore) validateClass(class *models.Class) error {
	class.Name = strings.TrimSpace(class.Name)
	if class.Name == "" {
		return validationError("class name is required")
	}
	if class.PeriodID != "" && !s.periods.has(class.PeriodID) {
		return validationError("period %s does not exist", class.PeriodID)
	}
	return nil
}

// CreatePeriod assigns a fresh id and stores the period.
func (s *PlannerStore) CreatePeriod(period models.Period) (models.Period, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validatePeriod(&period); err != nil {
		return models.Period{}, err
	}
	period.ID = s.periods.newID()
	period.CreatedAt = s.now()
	period.UpdatedAt = period.CreatedAt
	s.periods.put(period.ID, period)
	return period, nil
}

// UpdatePeriod merges the patch into an existing period.
func (s *PlannerStore) UpdatePeriod(id string, patch models.PeriodPatch) (models.Period, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	period, ok := s.periods.get(id)
	if !ok {
		return models.Period{}, notFound(models.KindPeriod, id)
	}
	assign(&period.Name, patch.Name)
	if patch.ClearTimes {
		if patch.StartTime != nil || patch.EndTime != nil {
			return models.Period{}, validationError("period %q cannot clear and set times together", period.Name)
		}
		period.StartTime, period.EndTime = nil, nil
	}
	if patch.StartTime != nil {
		start := *patch.StartTime
		period.StartTime = &start
	}
	if patch.EndTime != nil {
		end := *patch.EndTime
		period.EndTime = &end
	}
	if err := validatePeriod(&period); err != nil {
		return models.Period{}, err
	}
	period.UpdatedAt = s.touch(period.UpdatedAt)
	s.periods.put(id, period)
	return period, nil
}

func validatePeriod(period *models.Period) error {
	period.Name = strings.TrimSpace(period.Name)
	if period.Name == "" {
		return validationError("period name is required")
	}
	switch {
	case period.StartTime == nil && period.EndTime == nil:
		return nil
	case period.StartTime == nil || period.EndTime == nil:
		return validationError("period %q needs both start and end time", period.Name)
	case period.StartTime.Minutes() >= period.EndTime.Minutes():
		return validationError("period %q must start before it ends", period.Name)
	}
	return nil
}

// CreateLesson assigns a fresh id, stamps created/modified and stores the lesson.
func (s *PlannerStore) CreateLesson(lesson models.Lesson) (models.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateLesson(&lesson); err != nil {
		return models.Lesson{}, err
	}
	lesson.ID = s.lessons.newID()
	lesson.Created = s.now()
	lesson.Modified = lesson.Created
	s.lessons.put(lesson.ID, lesson)
	return lesson, nil
}

// UpdateLesson merges the patch, re-checks references and refreshes modified.
func (s *PlannerStore) UpdateLesson(id string, patch models.LessonPatch) (models.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lesson, ok := s.lessons.get(id)
	if !ok {
		return models.Lesson{}, notFound(models.KindLesson, id)
	}
	assign(&lesson.ClassID, patch.ClassID)
	assign(&lesson.PeriodID, patch.PeriodID)
	assign(&lesson.Date, patch.Date)
	assign(&lesson.Title, patch.Title)
	assign(&lesson.Objective, patch.Objective)
	assign(&lesson.Materials, patch.Materials)
	assign(&lesson.Instruction, patch.Instruction)
	assign(&lesson.Assessment, patch.Assessment)
	assign(&lesson.Notes, patch.Notes)
	assign(&lesson.Status, patch.Status)
	if err := s.validateLesson(&lesson); err != nil {
		return models.Lesson{}, err
	}
	lesson.Modified = s.touch(lesson.Modified)
	s.lessons.put(id, lesson)
	return lesson, nil
}

// DuplicateLesson clones a lesson under a fresh id as a new draft.
func (s *PlannerStore) DuplicateLesson(id string) (models.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lesson, ok := s.lessons.get(id)
	if !ok {
		return models.Lesson{}, notFound(models.KindLesson, id)
	}
	lesson.ID = s.lessons.newID()
	lesson.Status = models.LessonStatusDraft
	lesson.Created = s.now()
	lesson.Modified = lesson.Created
	s.lessons.put(lesson.ID, lesson)
	return lesson, nil
}

func (s *PlannerStore) validateLesson(lesson *models.Lesson) error {
	lesson.Title = strings.TrimSpace(lesson.Title)
	if lesson.Title == "" {
		return validationError("lesson title is required")
	}
	if lesson.Date.IsZero() {
		return validationError("lesson date is required")
	}
	if lesson.Status == "" {
		lesson.Status = models.LessonStatusDraft
	}
	if !lesson.Status.Valid() {
		return validationError("unknown lesson status %q", lesson.Status)
	}
	if lesson.ClassID == "" || !s.classes.has(lesson.ClassID) {
		return validationError("class %q does not exist", lesson.ClassID)
	}
	if lesson.PeriodID == "" || !s.periods.has(lesson.PeriodID) {
		return validationError("period %q does not exist", lesson.PeriodID)
	}
	return nil
}

// Delete removes a record. Deleting a class or period also removes every lesson that
// references it; deleting a period additionally detaches classes scheduled in it.
// The returned ids list the parent first, then cascaded lessons in insertion order.
func (s *PlannerStore) Delete(kind models.Kind, id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case models.KindLesson:
		if !s.lessons.has(id) {
			return nil, notFound(kind, id)
		}
		s.lessons.remove(id)
		return []string{id}, nil

	case models.KindClass:
		if !s.classes.has(id) {
			return nil, notFound(kind, id)
		}
		children := s.lessons.collect(func(l models.Lesson) bool { return l.ClassID == id })
		s.lessons.remove(children...)
		s.classes.remove(id)
		return append([]string{id}, children...), nil

	case models.KindPeriod:
		if !s.periods.has(id) {
			return nil, notFound(kind, id)
		}
		children := s.lessons.collect(func(l models.Lesson) bool { return l.PeriodID == id })
		s.lessons.remove(children...)
		for _, classID := range s.classes.collect(func(c models.Class) bool { return c.PeriodID == id }) {
			class, _ := s.classes.get(classID)
			class.PeriodID = ""
			class.UpdatedAt = s.touch(class.UpdatedAt)
			s.classes.put(classID, class)
		}
		s.periods.remove(id)
		return append([]string{id}, children...), nil
	}
	return nil, validationError("unknown kind %q", kind)
}

// Snapshot copies the full state in insertion order.
func (s *PlannerStore) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Snapshot{
		Classes:    s.classes.values(),
		Periods:    s.periods.values(),
		Lessons:    s.lessons.values(),
		ExportDate: s.now(),
	}
}

// Restore replaces the whole state with the snapshot after validating it. An invalid
// snapshot leaves the store untouched. Ids issued before the restore stay reserved.
func (s *PlannerStore) Restore(snapshot models.Snapshot) error {
	classes := newTable[models.Class]("cls_")
	periods := newTable[models.Period]("per_")
	lessons := newTable[models.Lesson]("les_")

	for _, period := range snapshot.Periods {
		if period.ID == "" || periods.has(period.ID) {
			return validationError("period id %q is missing or duplicated", period.ID)
		}
		if err := validatePeriod(&period); err != nil {
			return err
		}
		periods.put(period.ID, period)
	}
	for _, class := range snapshot.Classes {
		if class.ID == "" || classes.has(class.ID) {
			return validationError("class id %q is missing or duplicated", class.ID)
		}
		class.Name = strings.TrimSpace(class.Name)
		if class.Name == "" {
			return validationError("class %s has no name", class.ID)
		}
		if class.PeriodID != "" && !periods.has(class.PeriodID) {
			return validationError("class %s references unknown period %s", class.ID, class.PeriodID)
		}
		classes.put(class.ID, class)
	}
	for _, lesson := range snapshot.Lessons {
		if lesson.ID == "" || lessons.has(lesson.ID) {
			return validationError("lesson id %q is missing or duplicated", lesson.ID)
		}
		staged := &PlannerStore{classes: classes, periods: periods}
		if err := staged.validateLesson(&lesson); err != nil {
			return appErrors.Invalid(err, fmt.Sprintf("lesson %s is invalid", lesson.ID))
		}
		if lesson.Modified.Before(lesson.Created) {
			lesson.Modified = lesson.Created
		}
		lessons.put(lesson.ID, lesson)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	carryIssued(&classes, s.classes)
	carryIssued(&periods, s.periods)
	carryIssued(&lessons, s.lessons)
	s.classes, s.periods, s.lessons = classes, periods, lessons
	return nil
}

func carryIssued[T any](dst *table[T], src table[T]) {
	for id := range src.issued {
		dst.issued[id] = struct{}{}
	}
}

func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Clone returns an independent copy of the store, including the set of issued ids.
// Mutations applied to the clone are invisible until handed back through Adopt.
func (s *PlannerStore) Clone() *PlannerStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &PlannerStore{
		classes: s.classes.clone(),
		periods: s.periods.clone(),
		lessons: s.lessons.clone(),
		now:     s.now,
	}
}

// Adopt replaces the store's state with staged's in one step.
func (s *PlannerStore) Adopt(staged *PlannerStore) {
	staged.mu.RLock()
	classes, periods, lessons := staged.classes.clone(), staged.periods.clone(), staged.lessons.clone()
	staged.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	carryIssued(&classes, s.classes)
	carryIssued(&periods, s.periods)
	carryIssued(&lessons, s.lessons)
	s.classes, s.periods, s.lessons = classes, periods, lessons
}
