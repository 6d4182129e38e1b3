package models

import "time"

// LessonStatus tracks how far a lesson plan has progressed.
type LessonStatus string

const (
	LessonStatusDraft LessonStatus = "draft"
	LessonStatusReady LessonStatus = "ready"
)

// Valid reports whether s is a known status.
func (s LessonStatus) Valid() bool {
	switch s {
	case LessonStatusDraft, LessonStatusReady:
		return true
	}
	return false
}

// Lesson is a plan for one class in one period on one day.
type Lesson struct {
	ID          string       `json:"id"`
	ClassID     string       `json:"classId"`
	PeriodID    string       `json:"periodId"`
	Date        Date         `json:"date"`
	Title       string       `json:"title"`
	Objective   string       `json:"objective,omitempty"`
	Materials   string       `json:"materials,omitempty"`
	Instruction string       `json:"instruction,omitempty"`
	Assessment  string       `json:"assessment,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	Status      LessonStatus `json:"status"`
	Created     time.Time    `json:"created"`
	Modified    time.Time    `json:"modified"`
}

// LessonPatch carries a partial lesson update.
type LessonPatch struct {
	ClassID     *string       `json:"classId"`
	PeriodID    *string       `json:"periodId"`
	Date        *Date         `json:"date"`
	Title       *string       `json:"title"`
	Objective   *string       `json:"objective"`
	Materials   *string       `json:"materials"`
	Instruction *string       `json:"instruction"`
	Assessment  *string       `json:"assessment"`
	Notes       *string       `json:"notes"`
	Status      *LessonStatus `json:"status"`
}

// LessonFilter narrows lessons; empty fields impose no constraint.
type LessonFilter struct {
	ClassID  string
	PeriodID string
	Date     *Date
}

// Matches reports whether l satisfies every set predicate.
func (f LessonFilter) Matches(l Lesson) bool {
	if f.ClassID != "" && l.ClassID != f.ClassID {
		return false
	}
	if f.PeriodID != "" && l.PeriodID != f.PeriodID {
		return false
	}
	if f.Date != nil && l.Date != *f.Date {
		return false
	}
	return true
}
