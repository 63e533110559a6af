package schedule

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an irrigation schedule.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusSkipped   Status = "skipped"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusSkipped, StatusCancelled:
		return true
	}
	return false
}

// Priority is the urgency tier of a recommendation.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Severity orders priorities from low (0) to critical (3).
func (p Priority) Severity() int {
	switch p {
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	case PriorityCritical:
		return 3
	default:
		return 0
	}
}

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusSkipped, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusSkipped},
}

// CanTransition reports whether a schedule may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Schedule is a persisted irrigation recommendation.
// RecommendedDate is formatted as YYYY-MM-DD and RecommendedTime as HH:MM,
// both in the farm timezone.
type Schedule struct {
	ID                uuid.UUID      `json:"id"`
	FieldID           int64          `json:"fieldId"`
	UserID            int64          `json:"userId"`
	PredictedAmount   float64        `json:"predictedWaterAmount"`
	ConfidenceScore   float64        `json:"confidenceScore"`
	Reason            string         `json:"irrigationReason"`
	Priority          Priority       `json:"priorityLevel"`
	Status            Status         `json:"status"`
	RecommendedDate   string         `json:"recommendedDate"`
	RecommendedTime   string         `json:"recommendedTime"`
	ModelInput        map[string]any `json:"modelInputData,omitempty"`
	PredictionDetails map[string]any `json:"modelPredictionDetails,omitempty"`
	ScheduledAt       *time.Time     `json:"scheduledAt,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// Key identifies the unique slot of a schedule.
type Key struct {
	FieldID int64
	Date    string
	Time    string
}

// Key returns the uniqueness key of the schedule.
func (s Schedule) Key() Key {
	return Key{FieldID: s.FieldID, Date: s.RecommendedDate, Time: s.RecommendedTime}
}

// Due returns the scheduled instant in loc.
func (s Schedule) Due(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly+" 15:04", s.RecommendedDate+" "+s.RecommendedTime, loc)
}

// Filter narrows schedule listings. Zero values match everything.
type Filter struct {
	FieldID  int64
	Statuses []Status
	Priority Priority
}
