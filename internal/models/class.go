package models

import "time"

// Class represents a taught course offering. A class occupies at most one period;
// teaching the same course in two periods is modelled as two classes.
type Class struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	PeriodID   string    `json:"periodId,omitempty"`
	Subject    string    `json:"subject,omitempty"`
	GradeLevel string    `json:"gradeLevel,omitempty"`
	Room       string    `json:"room,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ClassPatch carries a partial class update; nil fields are left untouched.
// An empty PeriodID detaches the class from its period.
type ClassPatch struct {
	Name       *string `json:"name"`
	Color      *string `json:"color"`
	PeriodID   *string `json:"periodId"`
	Subject    *string `json:"subject"`
	GradeLevel *string `json:"gradeLevel"`
	Room       *string `json:"room"`
}
