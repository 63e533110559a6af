package irrigation

import (
	"time"

	"github.com/yanqian/farmwise/internal/domain/field"
)

// CropIrrigationTimes holds crop specific start times (HH:MM).
var CropIrrigationTimes = map[field.CropType]string{
	field.CropRice:   "05:00",
	field.CropMaize:  "06:00",
	field.CropCotton: "07:00",
}

// DefaultIrrigationTime applies to crops without a specific entry.
const DefaultIrrigationTime = "06:00"

// RecommendedTime returns the start time for the crop.
func RecommendedTime(crop field.CropType) string {
	if t, ok := CropIrrigationTimes[crop]; ok {
		return t
	}
	return DefaultIrrigationTime
}

// RecommendedDate is the day after now in loc, formatted YYYY-MM-DD.
func RecommendedDate(now time.Time, loc *time.Location) string {
	return now.In(loc).AddDate(0, 0, 1).Format(time.DateOnly)
}
