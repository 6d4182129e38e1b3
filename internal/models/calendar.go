package models

import (
	"fmt"
	"time"
)

// ViewMode selects the calendar grid shape.
type ViewMode string

const (
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

// ParseViewMode validates a view mode string.
func ParseViewMode(raw string) (ViewMode, error) {
	switch ViewMode(raw) {
	case ViewWeek, ViewMonth:
		return ViewMode(raw), nil
	}
	return "", fmt.Errorf("unknown view mode %q", raw)
}

// WeekStart selects the weekday anchoring a 7-day window.
type WeekStart string

const (
	WeekStartSunday WeekStart = "sunday"
	WeekStartMonday WeekStart = "monday"
)

// ParseWeekStart validates a week start convention.
func ParseWeekStart(raw string) (WeekStart, error) {
	switch WeekStart(raw) {
	case WeekStartSunday, WeekStartMonday:
		return WeekStart(raw), nil
	}
	return "", fmt.Errorf("unknown week start %q", raw)
}

// Weekday returns the first weekday of the window.
func (w WeekStart) Weekday() time.Weekday {
	if w == WeekStartMonday {
		return time.Monday
	}
	return time.Sunday
}

// CalendarCell is one day in a projected grid. Filler cells are real dates from an
// adjacent month and still list the lessons scheduled on them.
type CalendarCell struct {
	Date       Date     `json:"date"`
	IsToday    bool     `json:"isToday"`
	IsSelected bool     `json:"isSelected"`
	OtherMonth bool     `json:"otherMonth"`
	Lessons    []Lesson `json:"lessons"`
}

// CalendarView is a projected grid plus the state it was projected from.
type CalendarView struct {
	Mode          ViewMode       `json:"mode"`
	ReferenceDate Date           `json:"referenceDate"`
	SelectedDate  Date           `json:"selectedDate"`
	WeekStart     WeekStart      `json:"weekStart"`
	Start         Date           `json:"start"`
	End           Date           `json:"end"`
	Cells         []CalendarCell `json:"cells"`
	// LessonCount excludes lessons on filler cells.
	LessonCount int `json:"lessonCount"`
}
