package irrigation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/farmwise/internal/domain/field"
)

func TestEncode_KnownValues(t *testing.T) {
	enc := Encode(RawFeatures{CropType: "Cotton", SoilType: "Silty", Region: "North-Western", Season: "Wet"})
	require.Equal(t, 5, enc.CropType)
	require.Equal(t, 3, enc.SoilType)
	require.Equal(t, 9, enc.Region)
	require.Equal(t, 1, enc.Season)
	require.Empty(t, enc.Defaulted)
}

func TestEncode_UnknownValuesFallBack(t *testing.T) {
	enc := Encode(RawFeatures{CropType: "Bananas", SoilType: "Peat", Region: "Atlantis", Season: "Monsoon"})
	require.Equal(t, DefaultCropCode, enc.CropType)
	require.Equal(t, DefaultSoilCode, enc.SoilType)
	require.Equal(t, DefaultRegionCode, enc.Region)
	require.Equal(t, DefaultSeasonCode, enc.Season)
	require.Equal(t, []string{"CropType", "soilType", "region", "season"}, enc.Defaulted)
}

func TestEncode_TablesMatchFieldEnums(t *testing.T) {
	require.Len(t, CropCodes, 6)
	require.Len(t, SoilCodes, 4)
	require.Len(t, RegionCodes, 10)
	require.Len(t, SeasonCodes, 2)
	for region := range RegionCenters {
		_, ok := RegionCodes[region.DisplayName()]
		require.True(t, ok, region)
	}
}

func TestAssembleFeatures_Order(t *testing.T) {
	cat := time.FixedZone("CAT", 2*60*60)
	planted := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	f := field.Field{
		CropType:     field.CropRice,
		SoilType:     field.SoilSandy,
		Region:       field.RegionCopperbelt,
		Season:       field.SeasonWet,
		SoilMoisture: 42,
		PlantingDate: &planted,
	}
	w := WeatherSnapshot{Temperature: 31.5, Humidity: 44, Rainfall: 0.4, WindSpeed: 3.1}

	vec, raw, enc := AssembleFeatures(f, w, time.Date(2024, 10, 16, 8, 0, 0, 0, cat))
	require.Equal(t, FeatureVector{2, 45, 42, 31.5, 44, 0.4, 3.1, 2, 4, 1}, vec)
	require.Len(t, vec.Slice(), len(FeatureNames))
	require.Equal(t, "Copperbelt", raw.Region)
	require.Equal(t, 45, raw.CropDays)
	require.Empty(t, enc.Defaulted)

	m := raw.Map()
	require.Len(t, m, len(FeatureNames))
	for _, name := range FeatureNames {
		require.Contains(t, m, name)
	}
}

func TestAssembleFeatures_AlwaysTenElements(t *testing.T) {
	vec, _, enc := AssembleFeatures(field.Field{}, WeatherSnapshot{}, time.Now())
	require.Len(t, vec.Slice(), 10)
	require.Equal(t, float64(DefaultSoilCode), vec[7])
	require.NotEmpty(t, enc.Defaulted)
}

func TestCropDays(t *testing.T) {
	now := time.Date(2024, 10, 16, 12, 0, 0, 0, time.UTC)
	require.Equal(t, 0, CropDays(nil, now))
	future := now.AddDate(0, 0, 3)
	require.Equal(t, 0, CropDays(&future, now))
	past := now.AddDate(0, 0, -10)
	require.Equal(t, 10, CropDays(&past, now))
}

func TestRecommendedTiming(t *testing.T) {
	require.Equal(t, "05:00", RecommendedTime(field.CropRice))
	require.Equal(t, "06:00", RecommendedTime(field.CropMaize))
	require.Equal(t, "07:00", RecommendedTime(field.CropCotton))
	require.Equal(t, "06:00", RecommendedTime(field.CropTomatoes))

	cat := time.FixedZone("CAT", 2*60*60)
	// 23:30 UTC is already the next day in CAT.
	now := time.Date(2024, 10, 16, 23, 30, 0, 0, time.UTC)
	require.Equal(t, "2024-10-18", RecommendedDate(now, cat))
	require.Equal(t, "2024-10-17", RecommendedDate(now, time.UTC))
}
