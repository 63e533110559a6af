package history

import (
	"time"

	"github.com/google/uuid"
)

// Method is how water was applied.
type Method string

const (
	MethodDrip      Method = "drip"
	MethodSprinkler Method = "sprinkler"
	MethodFlood     Method = "flood"
	MethodManual    Method = "manual"
	MethodOther     Method = "other"
)

// Valid reports whether m is a known method.
func (m Method) Valid() bool {
	switch m {
	case MethodDrip, MethodSprinkler, MethodFlood, MethodManual, MethodOther:
		return true
	}
	return false
}

// Record is an irrigation that actually happened. Date is YYYY-MM-DD and
// Time is HH:MM in the farm timezone.
type Record struct {
	ID              uuid.UUID  `json:"id"`
	FieldID         int64      `json:"fieldId"`
	UserID          int64      `json:"userId"`
	WaterUsedLiters float64    `json:"waterAmountUsed"`
	Method          Method     `json:"irrigationMethod"`
	Date            string     `json:"irrigationDate"`
	Time            string     `json:"irrigationTime"`
	DurationMinutes int        `json:"durationMinutes"`
	MoistureBefore  *float64   `json:"soilMoistureBefore,omitempty"`
	MoistureAfter   *float64   `json:"soilMoistureAfter,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	Rating          *int       `json:"effectivenessRating,omitempty"`
	ScheduleID      *uuid.UUID `json:"relatedSchedule,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// CreateRequest is the payload for logging an irrigation.
type CreateRequest struct {
	FieldID         int64    `json:"fieldId"`
	WaterUsedLiters float64  `json:"waterAmountUsed"`
	Method          Method   `json:"irrigationMethod"`
	Date            string   `json:"irrigationDate"`
	Time            string   `json:"irrigationTime"`
	DurationMinutes int      `json:"durationMinutes"`
	MoistureBefore  *float64 `json:"soilMoistureBefore"`
	MoistureAfter   *float64 `json:"soilMoistureAfter"`
	Notes           string   `json:"notes"`
	Rating          *int     `json:"effectivenessRating"`
	ScheduleID      string   `json:"relatedSchedule"`
}

// Filter narrows listings. Since is inclusive and Until exclusive, both YYYY-MM-DD.
type Filter struct {
	FieldID int64
	Since   string
	Until   string
}
