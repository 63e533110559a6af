package irrigation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yanqian/farmwise/internal/domain/field"
	"github.com/yanqian/farmwise/internal/domain/schedule"
)

// ReasonSeparator joins the individual observations of a reason text.
const ReasonSeparator = ". "

// MaintenanceReason is used when no observation applies.
const MaintenanceReason = "Regular maintenance irrigation recommended"

// DeterminePriority maps amount (L/m²) and soil moisture (%) to a tier.
// The first matching threshold wins.
func DeterminePriority(amount, soilMoisture float64) schedule.Priority {
	switch {
	case soilMoisture < 20 || amount > 100:
		return schedule.PriorityCritical
	case soilMoisture < 30 || amount > 50:
		return schedule.PriorityHigh
	case soilMoisture < 40 || amount > 25:
		return schedule.PriorityMedium
	default:
		return schedule.PriorityLow
	}
}

// BuildReason lists every applicable observation about moisture, weather and
// the predicted amount.
func BuildReason(amount, soilMoisture float64, w WeatherSnapshot) string {
	var reasons []string

	switch m := num(soilMoisture); {
	case soilMoisture < 30:
		reasons = append(reasons, "Soil moisture is critically low at "+m+"%")
	case soilMoisture < 40:
		reasons = append(reasons, "Soil moisture is low at "+m+"%")
	case soilMoisture > 70:
		reasons = append(reasons, "Soil moisture is high at "+m+"%, so less water is needed")
	}

	switch t := num(w.Temperature); {
	case w.Temperature > 35:
		reasons = append(reasons, "Very high temperature ("+t+"°C) sharply increases water needs")
	case w.Temperature > 30:
		reasons = append(reasons, "High temperature ("+t+"°C) increases water needs")
	case w.Temperature < 15:
		reasons = append(reasons, "Cool temperature ("+t+"°C) reduces water needs")
	}

	switch h := num(w.Humidity); {
	case w.Humidity < 30:
		reasons = append(reasons, "Very low humidity ("+h+"%) accelerates evaporation")
	case w.Humidity < 40:
		reasons = append(reasons, "Low humidity ("+h+"%) increases evaporation")
	case w.Humidity > 80:
		reasons = append(reasons, "High humidity ("+h+"%) slows evaporation")
	}

	if w.Rainfall > 0 {
		reasons = append(reasons, "Recent rainfall ("+num(w.Rainfall)+" mm) reduces irrigation needs")
	}

	if amount > 50 {
		reasons = append(reasons, fmt.Sprintf("Model predicts high water requirement (%.1f L/m²)", amount))
	}

	if len(reasons) == 0 {
		return MaintenanceReason
	}
	return strings.Join(reasons, ReasonSeparator)
}

// TotalWaterLiters scales a per square meter amount to the whole field.
func TotalWaterLiters(amount, areaHectares float64) float64 {
	return amount * areaHectares * 10000
}

// FormatVolume renders liters, switching to cubic meters for large volumes.
func FormatVolume(liters float64) string {
	switch {
	case liters < 1000:
		return fmt.Sprintf("%.0f liters", liters)
	case liters < 10000:
		return fmt.Sprintf("%.0f liters (%.1f m³)", liters, liters/1000)
	default:
		return fmt.Sprintf("%.1f m³", liters/1000)
	}
}

// ExplainWaterAmount describes the recommended amount for the crop and field size.
func ExplainWaterAmount(amount float64, crop field.CropType, areaHectares float64) string {
	volume := FormatVolume(TotalWaterLiters(amount, areaHectares))
	per := fmt.Sprintf("%.1f L/m²", amount)
	switch {
	case amount < 1:
		return fmt.Sprintf("Your %s needs only a light top-up of %s, about %s across the field.", crop, per, volume)
	case amount < 3:
		return fmt.Sprintf("A light irrigation of %s keeps your %s comfortable, %s in total.", per, crop, volume)
	case amount < 5:
		return fmt.Sprintf("A moderate irrigation of %s is recommended for your %s, %s for the whole field.", per, crop, volume)
	case amount < 8:
		return fmt.Sprintf("Your %s needs substantial watering of %s, roughly %s over the field.", crop, per, volume)
	default:
		return fmt.Sprintf("Heavy irrigation of %s is required for your %s, a total of %s. Consider splitting it into several sessions.", per, crop, volume)
	}
}

// WeatherCondition is the single dominant condition of a snapshot.
type WeatherCondition string

const (
	ConditionRainy    WeatherCondition = "rainy"
	ConditionHotDry   WeatherCondition = "hot_dry"
	ConditionHot      WeatherCondition = "hot"
	ConditionHumid    WeatherCondition = "humid"
	ConditionCool     WeatherCondition = "cool"
	ConditionPleasant WeatherCondition = "pleasant"
)

// ClassifyWeather checks the conditions in a fixed order and returns the first hit.
func ClassifyWeather(w WeatherSnapshot) WeatherCondition {
	switch {
	case w.Rainfall > 0:
		return ConditionRainy
	case w.Temperature > 30 && w.Humidity < 40:
		return ConditionHotDry
	case w.Temperature > 30:
		return ConditionHot
	case w.Humidity > 80:
		return ConditionHumid
	case w.Temperature < 15:
		return ConditionCool
	default:
		return ConditionPleasant
	}
}

// SummarizeWeather renders the dominant condition as a sentence.
func SummarizeWeather(w WeatherSnapshot) string {
	t, h := num(w.Temperature), num(w.Humidity)
	switch ClassifyWeather(w) {
	case ConditionRainy:
		return "Rainy conditions with " + num(w.Rainfall) + " mm in the last hour"
	case ConditionHotDry:
		return "Hot and dry at " + t + "°C with " + h + "% humidity"
	case ConditionHot:
		return "Hot weather at " + t + "°C"
	case ConditionHumid:
		return "Humid conditions at " + h + "% humidity"
	case ConditionCool:
		return "Cool weather at " + t + "°C"
	default:
		return "Pleasant conditions at " + t + "°C with " + h + "% humidity"
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
