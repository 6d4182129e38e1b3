package models

import "fmt"

// Kind names an entity collection in the planner store.
type Kind string

const (
	KindClass  Kind = "class"
	KindPeriod Kind = "period"
	KindLesson Kind = "lesson"
)

// ParseKind accepts singular or plural collection names.
func ParseKind(raw string) (Kind, error) {
	switch raw {
	case "class", "classes":
		return KindClass, nil
	case "period", "periods":
		return KindPeriod, nil
	case "lesson", "lessons":
		return KindLesson, nil
	}
	return "", fmt.Errorf("unknown kind %q", raw)
}

// Counts holds per-collection sizes.
type Counts struct {
	Classes int `json:"classes"`
	Periods int `json:"periods"`
	Lessons int `json:"lessons"`
}

// Total returns the number of records across all collections.
func (c Counts) Total() int {
	return c.Classes + c.Periods + c.Lessons
}
