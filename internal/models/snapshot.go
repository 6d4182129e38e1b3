package models

import "time"

// Snapshot is the portable export document of the whole planner state.
type Snapshot struct {
	Classes    []Class   `json:"classes"`
	Periods    []Period  `json:"periods"`
	Lessons    []Lesson  `json:"lessons"`
	ExportDate time.Time `json:"exportDate"`
}
