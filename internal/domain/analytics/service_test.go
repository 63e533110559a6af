package analytics

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/farmwise/internal/domain/field"
	"github.com/yanqian/farmwise/internal/domain/history"
	"github.com/yanqian/farmwise/internal/infra/historyrepo"
	apperrors "github.com/yanqian/farmwise/pkg/errors"
)

type stubFields struct{ fields []field.Field }

func (s stubFields) Get(_ context.Context, userID, id int64) (field.Field, error) {
	for _, f := range s.fields {
		if f.ID == id && f.UserID == userID {
			return f, nil
		}
	}
	return field.Field{}, apperrors.Wrap(apperrors.CodeNotFound, "field not found", nil)
}

func (s stubFields) List(_ context.Context, userID int64) ([]field.Field, error) {
	var out []field.Field
	for _, f := range s.fields {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func ptr[T any](v T) *T { return &v }

func newTestService(t *testing.T) *service {
	t.Helper()
	repo := historyrepo.NewMemoryRepository()
	seed := []history.Record{
		{FieldID: 1, UserID: 7, Method: history.MethodDrip, Date: "2024-10-14", Time: "06:00", WaterUsedLiters: 100, DurationMinutes: 20, Rating: ptr(5), MoistureBefore: ptr(30.0), MoistureAfter: ptr(60.0)},
		{FieldID: 1, UserID: 7, Method: history.MethodDrip, Date: "2024-10-14", Time: "07:00", WaterUsedLiters: 50, DurationMinutes: 10, Rating: ptr(4)},
		{FieldID: 2, UserID: 7, Method: history.MethodSprinkler, Date: "2024-10-05", Time: "06:00", WaterUsedLiters: 300, Rating: ptr(2)},
		{FieldID: 1, UserID: 7, Method: history.MethodFlood, Date: "2024-08-01", Time: "06:00", WaterUsedLiters: 1000, DurationMinutes: 90},
		{FieldID: 9, UserID: 8, Method: history.MethodDrip, Date: "2024-10-14", Time: "06:00", WaterUsedLiters: 5000},
	}
	for _, rec := range seed {
		_, err := repo.Create(context.Background(), rec)
		require.NoError(t, err)
	}
	fields := stubFields{fields: []field.Field{
		{ID: 1, UserID: 7, Name: "North plot"},
		{ID: 2, UserID: 7, Name: "River plot"},
	}}
	svc := NewService(Config{Location: time.UTC}, repo, fields, slog.New(slog.NewTextHandler(io.Discard, nil))).(*service)
	svc.now = func() time.Time { return time.Date(2024, 10, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestWaterUsage(t *testing.T) {
	svc := newTestService(t)

	stats, err := svc.WaterUsage(context.Background(), 7, 0)
	require.NoError(t, err)
	require.Equal(t, DefaultUsageDays, stats.PeriodDays)
	require.Equal(t, 450.0, stats.TotalWaterUsage)
	require.Equal(t, 225.0, stats.AverageDailyUsage)
	require.Equal(t, []FieldUsage{
		{FieldID: 2, FieldName: "River plot", TotalUsage: 300, IrrigationCount: 1},
		{FieldID: 1, FieldName: "North plot", TotalUsage: 150, IrrigationCount: 2},
	}, stats.UsageByField)
	require.Equal(t, []MethodUsage{
		{Method: history.MethodSprinkler, TotalUsage: 300, Count: 1},
		{Method: history.MethodDrip, TotalUsage: 150, Count: 2},
	}, stats.UsageByMethod)
	require.Equal(t, []MonthlyUsage{
		{Month: "2024-08", TotalUsage: 1000, IrrigationCount: 1},
		{Month: "2024-10", TotalUsage: 450, IrrigationCount: 3},
	}, stats.MonthlyTrends)
	require.NotNil(t, stats.Efficiency.AverageRating)
	require.Equal(t, 3.67, *stats.Efficiency.AverageRating)
	require.Equal(t, 3, stats.Efficiency.RatedCount)
	require.Equal(t, 3, stats.Efficiency.TotalCount)
	require.Equal(t, 5.0, stats.AvgLitersPerMinute)
	require.Equal(t, 150.0, stats.Trend.CurrentWeek)
	require.Equal(t, 300.0, stats.Trend.PreviousWeek)
	require.NotNil(t, stats.Trend.PercentageChange)
	require.Equal(t, -50.0, *stats.Trend.PercentageChange)
}

func TestWaterUsageWithoutHistory(t *testing.T) {
	svc := newTestService(t)

	stats, err := svc.WaterUsage(context.Background(), 99, 7)
	require.NoError(t, err)
	require.Zero(t, stats.TotalWaterUsage)
	require.Nil(t, stats.Efficiency.AverageRating)
	require.Nil(t, stats.Trend.PercentageChange)
	require.Empty(t, stats.UsageByField)
}

func TestFieldReport(t *testing.T) {
	svc := newTestService(t)

	report, err := svc.Field(context.Background(), 7, 1, 0)
	require.NoError(t, err)
	require.Equal(t, "North plot", report.FieldName)
	require.Equal(t, DefaultFieldDays, report.PeriodDays)
	require.Equal(t, 1150.0, report.TotalWaterUsage)
	require.Equal(t, 3, report.IrrigationCount)
	require.Equal(t, 383.33, report.AvgUsagePerIrrigation)
	require.Equal(t, []MoisturePoint{{Date: "2024-10-14", AvgBefore: ptr(30.0), AvgAfter: ptr(60.0)}}, report.MoistureTrends)
	require.Equal(t, []RatingPoint{{Date: "2024-10-14", AvgRating: 4.5, Count: 2}}, report.EffectivenessTrends)
	require.Equal(t, []WeeklyUsage{
		{WeekStart: "2024-07-29", TotalUsage: 1000, IrrigationCount: 1},
		{WeekStart: "2024-10-14", TotalUsage: 150, IrrigationCount: 2},
	}, report.WeeklyUsage)
}

func TestFieldReportRequiresOwnership(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Field(context.Background(), 8, 1, 30)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestEfficiencyReport(t *testing.T) {
	svc := newTestService(t)

	report, err := svc.Efficiency(context.Background(), 7, 30)
	require.NoError(t, err)
	require.Len(t, report.Methods, 2)
	require.Equal(t, history.MethodDrip, report.Methods[0].Method)
	require.Equal(t, 4.5, *report.Methods[0].AvgRating)
	require.Equal(t, 15.0, report.Methods[0].AvgDuration)
	require.Equal(t, history.MethodDrip, report.BestMethods[0].Method)
	require.Len(t, report.PotentialWaste, 1)
	require.Equal(t, 300.0, report.PotentialWaste[0].WaterUsed)
	require.Len(t, report.Recommendations, 1)
	require.Equal(t, "Consider Drip Irrigation", report.Recommendations[0].Title)
	require.Equal(t, "medium", report.Recommendations[0].Priority)
	require.Equal(t, 3, report.Summary.TotalEvents)
	require.Equal(t, 3.67, *report.Summary.AvgRating)
	require.Equal(t, history.MethodDrip, report.Summary.MostUsedMethod)
}

func TestEfficiencyFlagsLongDurations(t *testing.T) {
	report := buildEfficiency(30, []history.Record{
		{Method: history.MethodFlood, WaterUsedLiters: 500, DurationMinutes: 90},
		{Method: history.MethodFlood, WaterUsedLiters: 500, DurationMinutes: 45},
	})
	require.Len(t, report.Recommendations, 1)
	require.Equal(t, "Review Irrigation Duration", report.Recommendations[0].Title)
	require.Empty(t, report.BestMethods)
	require.Nil(t, report.Summary.AvgRating)
}

func TestEfficiencyEmpty(t *testing.T) {
	report := buildEfficiency(30, nil)
	require.Zero(t, report.Summary.TotalEvents)
	require.Empty(t, report.Methods)
	require.Empty(t, report.Recommendations)
}

func TestWeekStart(t *testing.T) {
	start, ok := weekStart("2024-10-20")
	require.True(t, ok)
	require.Equal(t, "2024-10-14", start)
	_, ok = weekStart("bad")
	require.False(t, ok)
}
