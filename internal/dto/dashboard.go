package dto

import "github.com/noah-isme/lesson-planner-api/internal/models"

// DashboardSummary captures the aggregated planner overview for one day.
type DashboardSummary struct {
	Today        models.Date          `json:"today"`
	WeekStart    models.Date          `json:"weekStart"`
	WeekEnd      models.Date          `json:"weekEnd"`
	Totals       DashboardTotals      `json:"totals"`
	ThisWeek     int                  `json:"thisWeek"`
	Status       DashboardStatusCount `json:"status"`
	Recent       []RecentLesson       `json:"recent"`
	TodayLessons []models.Lesson      `json:"todayLessons"`
}

// DashboardTotals counts records per collection.
type DashboardTotals struct {
	Lessons int `json:"lessons"`
	Classes int `json:"classes"`
	Periods int `json:"periods"`
}

// DashboardStatusCount splits lessons by planning status.
type DashboardStatusCount struct {
	Draft int `json:"draft"`
	Ready int `json:"ready"`
}

// RecentLesson is a recently edited lesson joined with its class label.
type RecentLesson struct {
	models.Lesson
	ClassName  string `json:"className"`
	ClassColor string `json:"classColor"`
}
