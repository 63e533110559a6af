package irrigation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/farmwise/internal/domain/field"
	"github.com/yanqian/farmwise/internal/domain/schedule"
)

func TestDeterminePriority_Examples(t *testing.T) {
	require.Equal(t, schedule.PriorityCritical, DeterminePriority(30, 15))
	require.Equal(t, schedule.PriorityLow, DeterminePriority(10, 50))
	require.Equal(t, schedule.PriorityCritical, DeterminePriority(101, 90))
	require.Equal(t, schedule.PriorityHigh, DeterminePriority(0, 25))
	require.Equal(t, schedule.PriorityHigh, DeterminePriority(51, 60))
	require.Equal(t, schedule.PriorityMedium, DeterminePriority(0, 35))
	require.Equal(t, schedule.PriorityMedium, DeterminePriority(26, 60))
}

func TestDeterminePriority_TotalAndMonotonic(t *testing.T) {
	valid := map[schedule.Priority]bool{
		schedule.PriorityLow: true, schedule.PriorityMedium: true,
		schedule.PriorityHigh: true, schedule.PriorityCritical: true,
	}
	for moisture := 0.0; moisture <= 100; moisture += 2.5 {
		for amount := 0.0; amount <= 150; amount += 2.5 {
			p := DeterminePriority(amount, moisture)
			require.True(t, valid[p])
			if moisture >= 2.5 {
				drier := DeterminePriority(amount, moisture-2.5)
				require.GreaterOrEqual(t, drier.Severity(), p.Severity(), "moisture %v amount %v", moisture, amount)
			}
			wetter := DeterminePriority(amount+2.5, moisture)
			require.GreaterOrEqual(t, wetter.Severity(), p.Severity(), "moisture %v amount %v", moisture, amount)
		}
	}
}

func TestBuildReason_AllObservationsIncluded(t *testing.T) {
	reason := BuildReason(60, 18, WeatherSnapshot{Temperature: 33, Humidity: 35, Rainfall: 1.2})
	parts := strings.Split(reason, ReasonSeparator)
	require.Equal(t, []string{
		"Soil moisture is critically low at 18%",
		"High temperature (33°C) increases water needs",
		"Low humidity (35%) increases evaporation",
		"Recent rainfall (1.2 mm) reduces irrigation needs",
		"Model predicts high water requirement (60.0 L/m²)",
	}, parts)
}

func TestBuildReason_Maintenance(t *testing.T) {
	require.Equal(t, MaintenanceReason, BuildReason(3, 55, DefaultWeather))
}

func TestBuildReason_Ladders(t *testing.T) {
	require.Contains(t, BuildReason(0, 35, DefaultWeather), "Soil moisture is low at 35%")
	require.Contains(t, BuildReason(0, 80, DefaultWeather), "Soil moisture is high at 80%")
	require.Contains(t, BuildReason(0, 50, WeatherSnapshot{Temperature: 36.5, Humidity: 60}), "Very high temperature (36.5°C)")
	require.Contains(t, BuildReason(0, 50, WeatherSnapshot{Temperature: 12, Humidity: 60}), "Cool temperature (12°C)")
	require.Contains(t, BuildReason(0, 50, WeatherSnapshot{Temperature: 25, Humidity: 20}), "Very low humidity (20%)")
	require.Contains(t, BuildReason(0, 50, WeatherSnapshot{Temperature: 25, Humidity: 85}), "High humidity (85%)")
}

func TestTotalWaterAndVolume(t *testing.T) {
	liters := TotalWaterLiters(2.0, 1.0)
	require.Equal(t, 20000.0, liters)
	require.Equal(t, "20.0 m³", FormatVolume(liters))
	require.Equal(t, "500 liters", FormatVolume(500))
	require.Equal(t, "2500 liters (2.5 m³)", FormatVolume(2500))
	require.Equal(t, "10.0 m³", FormatVolume(10000))
}

func TestExplainWaterAmount_Bands(t *testing.T) {
	bands := map[float64]string{
		0.5: "light top-up",
		2:   "light irrigation",
		4:   "moderate irrigation",
		6:   "substantial watering",
		9:   "Heavy irrigation",
	}
	for amount, phrase := range bands {
		text := ExplainWaterAmount(amount, field.CropTomatoes, 0.01)
		require.Contains(t, text, "Tomatoes")
		require.Contains(t, text, phrase, "amount %v", amount)
	}
	require.Contains(t, ExplainWaterAmount(2, field.CropMaize, 1), "20.0 m³")
}

func TestClassifyWeather_Order(t *testing.T) {
	cases := []struct {
		snap WeatherSnapshot
		want WeatherCondition
	}{
		{WeatherSnapshot{Temperature: 35, Humidity: 20, Rainfall: 0.1}, ConditionRainy},
		{WeatherSnapshot{Temperature: 35, Humidity: 20}, ConditionHotDry},
		{WeatherSnapshot{Temperature: 35, Humidity: 90}, ConditionHot},
		{WeatherSnapshot{Temperature: 10, Humidity: 90}, ConditionHumid},
		{WeatherSnapshot{Temperature: 10, Humidity: 50}, ConditionCool},
		{DefaultWeather, ConditionPleasant},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ClassifyWeather(tc.snap), "%+v", tc.snap)
	}
	require.Equal(t, "Pleasant conditions at 25°C with 60% humidity", SummarizeWeather(DefaultWeather))
}
