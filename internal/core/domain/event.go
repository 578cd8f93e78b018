package domain

import "time"

// AttendanceStatus records whether a member attended an event.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceExcused AttendanceStatus = "Excused"
)

// Event is a scheduled activity of the organization.
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	ImageURL    *string   `json:"imageURL,omitempty"`
	AuditFields
}

// EventUpdate describes a partial update to an event. Only non-nil fields
// are applied.
type EventUpdate struct {
	Title       *string
	Description *string
	Location    *string
	StartTime   *time.Time
	EndTime     *time.Time
	ImageURL    *string
}

// Reschedules reports whether the update moves the event in time.
func (u EventUpdate) Reschedules() bool {
	return u.StartTime != nil || u.EndTime != nil
}

// Attendance is one member's attendance record for one event.
type Attendance struct {
	EventID  int64            `json:"eventID"`
	UserID   string           `json:"userID"`
	Status   AttendanceStatus `json:"status"`
	MarkedAt time.Time        `json:"markedAt"`
}
