package irrigation

import (
	"time"

	"github.com/yanqian/farmwise/internal/domain/field"
	"github.com/yanqian/farmwise/pkg/util"
)

// FeatureVector is the model input laid out in FeatureNames order.
type FeatureVector [10]float64

// Slice returns the vector as a fresh slice.
func (v FeatureVector) Slice() []float64 {
	out := make([]float64, len(v))
	copy(out, v[:])
	return out
}

// RawFeatures holds the human readable model inputs before encoding.
type RawFeatures struct {
	CropType     string  `json:"CropType"`
	CropDays     int     `json:"CropDays"`
	SoilMoisture int     `json:"SoilMoisture"`
	Temperature  float64 `json:"temperature"`
	Humidity     float64 `json:"humidity"`
	Rainfall     float64 `json:"rainfall"`
	WindSpeed    float64 `json:"windspeed"`
	SoilType     string  `json:"soilType"`
	Region       string  `json:"region"`
	Season       string  `json:"season"`
}

// Map renders the inputs keyed by feature name for audit snapshots.
func (r RawFeatures) Map() map[string]any {
	return map[string]any{
		"CropType":     r.CropType,
		"CropDays":     r.CropDays,
		"SoilMoisture": r.SoilMoisture,
		"temperature":  r.Temperature,
		"humidity":     r.Humidity,
		"rainfall":     r.Rainfall,
		"windspeed":    r.WindSpeed,
		"soilType":     r.SoilType,
		"region":       r.Region,
		"season":       r.Season,
	}
}

// CropDays counts calendar days since planting as seen at now.
// Missing or future planting dates count as zero.
func CropDays(planted *time.Time, now time.Time) int {
	if planted == nil {
		return 0
	}
	days := util.DaysBetween(*planted, now)
	if days < 0 {
		return 0
	}
	return days
}

// AssembleFeatures builds the model vector for a field under the given
// weather. now should already be in the farm timezone.
func AssembleFeatures(f field.Field, w WeatherSnapshot, now time.Time) (FeatureVector, RawFeatures, EncodedFeatures) {
	raw := RawFeatures{
		CropType:     string(f.CropType),
		CropDays:     CropDays(f.PlantingDate, now),
		SoilMoisture: f.SoilMoisture,
		Temperature:  w.Temperature,
		Humidity:     w.Humidity,
		Rainfall:     w.Rainfall,
		WindSpeed:    w.WindSpeed,
		SoilType:     string(f.SoilType),
		Region:       f.Region.DisplayName(),
		Season:       string(f.Season),
	}
	enc := Encode(raw)
	vec := FeatureVector{
		float64(enc.CropType),
		float64(raw.CropDays),
		float64(raw.SoilMoisture),
		raw.Temperature,
		raw.Humidity,
		raw.Rainfall,
		raw.WindSpeed,
		float64(enc.SoilType),
		float64(enc.Region),
		float64(enc.Season),
	}
	return vec, raw, enc
}
