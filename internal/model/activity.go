package model

import "time"

type ActivityType string

const (
	ActivitySports      ActivityType = "sports"
	ActivityMusic       ActivityType = "music"
	ActivityAppointment ActivityType = "appointment"
	ActivityTransport   ActivityType = "transport"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivitySports, ActivityMusic, ActivityAppointment, ActivityTransport:
		return true
	}
	return false
}

type Activity struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	StartTime    time.Time    `json:"start_time"`
	EndTime      *time.Time   `json:"end_time"`
	Location     string       `json:"location"`
	AssignedTo   *int64       `json:"assigned_to"`
	CreatedBy    *int64       `json:"created_by"`
	ActivityType ActivityType `json:"activity_type"`
	Recurring    bool         `json:"recurring"`
	Completed    bool         `json:"completed"`
}

type ActivityWithUsers struct {
	Activity
	AssignedUser  *User `json:"assigned_user"`
	CreatedByUser *User `json:"created_by_user"`
}
