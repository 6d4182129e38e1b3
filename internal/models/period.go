package models

import "time"

// Period is a named slot in the school day such as "1st Period".
type Period struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	StartTime *TimeOfDay `json:"startTime,omitempty"`
	EndTime   *TimeOfDay `json:"endTime,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// PeriodPatch carries a partial period update. ClearTimes drops both times and
// cannot be combined with StartTime or EndTime.
type PeriodPatch struct {
	Name       *string    `json:"name"`
	StartTime  *TimeOfDay `json:"startTime"`
	EndTime    *TimeOfDay `json:"endTime"`
	ClearTimes bool       `json:"clearTimes"`
}
