package analytics

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/yanqian/farmwise/internal/domain/field"
	"github.com/yanqian/farmwise/internal/domain/history"
	apperrors "github.com/yanqian/farmwise/pkg/errors"
	"github.com/yanqian/farmwise/pkg/util"
)

// Service computes reports over irrigation history.
type Service interface {
	WaterUsage(ctx context.Context, userID int64, days int) (UsageStats, error)
	Field(ctx context.Context, userID, fieldID int64, days int) (FieldReport, error)
	Efficiency(ctx context.Context, userID int64, days int) (EfficiencyReport, error)
}

// FieldLookup lists and resolves owner scoped fields.
type FieldLookup interface {
	Get(ctx context.Context, userID, id int64) (field.Field, error)
	List(ctx context.Context, userID int64) ([]field.Field, error)
}

// Config carries the farm timezone used to cut day windows.
type Config struct {
	Location *time.Location
}

type service struct {
	history  history.Repository
	fields   FieldLookup
	location *time.Location
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires the analytics domain.
func NewService(cfg Config, records history.Repository, fields FieldLookup, logger *slog.Logger) Service {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		history:  records,
		fields:   fields,
		location: loc,
		logger:   logger.With("component", "analytics.service"),
		now:      time.Now,
	}
}

func (s *service) WaterUsage(ctx context.Context, userID int64, days int) (UsageStats, error) {
	days = normalizeDays(days, DefaultUsageDays)
	today := s.today()
	records, err := s.load(ctx, userID, history.Filter{Since: shift(today, -days)})
	if err != nil {
		return UsageStats{}, err
	}
	fields, err := s.fields.List(ctx, userID)
	if err != nil {
		return UsageStats{}, err
	}
	names := make(map[int64]string, len(fields))
	for _, f := range fields {
		names[f.ID] = f.Name
	}

	stats := UsageStats{
		PeriodDays:    days,
		UsageByField:  make([]FieldUsage, 0),
		UsageByMethod: make([]MethodUsage, 0),
	}
	daily := make(map[string]float64)
	byField := make(map[int64]*FieldUsage)
	byMethod := make(map[history.Method]*MethodUsage)
	var ratingSum, lpmSum float64
	var lpmCount int
	for _, rec := range records {
		stats.TotalWaterUsage += rec.WaterUsedLiters
		daily[rec.Date] += rec.WaterUsedLiters

		fu, ok := byField[rec.FieldID]
		if !ok {
			fu = &FieldUsage{FieldID: rec.FieldID, FieldName: names[rec.FieldID]}
			byField[rec.FieldID] = fu
		}
		fu.TotalUsage += rec.WaterUsedLiters
		fu.IrrigationCount++

		mu, ok := byMethod[rec.Method]
		if !ok {
			mu = &MethodUsage{Method: rec.Method}
			byMethod[rec.Method] = mu
		}
		mu.TotalUsage += rec.WaterUsedLiters
		mu.Count++

		if rec.Rating != nil {
			ratingSum += float64(*rec.Rating)
			stats.Efficiency.RatedCount++
		}
		if rec.DurationMinutes > 0 {
			lpmSum += rec.WaterUsedLiters / float64(rec.DurationMinutes)
			lpmCount++
		}
	}
	stats.Efficiency.TotalCount = len(records)
	stats.TotalWaterUsage = round2(stats.TotalWaterUsage)
	if len(daily) > 0 {
		var sum float64
		for _, v := range daily {
			sum += v
		}
		stats.AverageDailyUsage = round2(sum / float64(len(daily)))
	}
	if stats.Efficiency.RatedCount > 0 {
		avg := round2(ratingSum / float64(stats.Efficiency.RatedCount))
		stats.Efficiency.AverageRating = &avg
	}
	if lpmCount > 0 {
		stats.AvgLitersPerMinute = round2(lpmSum / float64(lpmCount))
	}
	for _, fu := range byField {
		fu.TotalUsage = round2(fu.TotalUsage)
		stats.UsageByField = append(stats.UsageByField, *fu)
	}
	sort.Slice(stats.UsageByField, func(i, j int) bool {
		a, b := stats.UsageByField[i], stats.UsageByField[j]
		if a.TotalUsage != b.TotalUsage {
			return a.TotalUsage > b.TotalUsage
		}
		return a.FieldID < b.FieldID
	})
	for _, mu := range byMethod {
		mu.TotalUsage = round2(mu.TotalUsage)
		stats.UsageByMethod = append(stats.UsageByMethod, *mu)
	}
	sort.Slice(stats.UsageByMethod, func(i, j int) bool {
		a, b := stats.UsageByMethod[i], stats.UsageByMethod[j]
		if a.TotalUsage != b.TotalUsage {
			return a.TotalUsage > b.TotalUsage
		}
		return a.Method < b.Method
	})

	trend, err := s.monthlyTrend(ctx, userID, today)
	if err != nil {
		return UsageStats{}, err
	}
	stats.MonthlyTrends = trend

	weekly, err := s.weeklyTrend(ctx, userID, today)
	if err != nil {
		return UsageStats{}, err
	}
	stats.Trend = weekly
	return stats, nil
}

func (s *service) monthlyTrend(ctx context.Context, userID int64, today time.Time) ([]MonthlyUsage, error) {
	records, err := s.load(ctx, userID, history.Filter{Since: shift(today, -TrendMonths)})
	if err != nil {
		return nil, err
	}
	months := make(map[string]*MonthlyUsage)
	for _, rec := range records {
		key := rec.Date[:7]
		m, ok := months[key]
		if !ok {
			m = &MonthlyUsage{Month: key}
			months[key] = m
		}
		m.TotalUsage += rec.WaterUsedLiters
		m.IrrigationCount++
	}
	out := make([]MonthlyUsage, 0, len(months))
	for _, m := range months {
		m.TotalUsage = round2(m.TotalUsage)
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

func (s *service) weeklyTrend(ctx context.Context, userID int64, today time.Time) (UsageTrend, error) {
	weekAgo := shift(today, -7)
	records, err := s.load(ctx, userID, history.Filter{Since: shift(today, -14)})
	if err != nil {
		return UsageTrend{}, err
	}
	var trend UsageTrend
	for _, rec := range records {
		if rec.Date >= weekAgo {
			trend.CurrentWeek += rec.WaterUsedLiters
		} else {
			trend.PreviousWeek += rec.WaterUsedLiters
		}
	}
	if trend.PreviousWeek > 0 {
		pct := round2((trend.CurrentWeek - trend.PreviousWeek) / trend.PreviousWeek * 100)
		trend.PercentageChange = &pct
	}
	trend.CurrentWeek = round2(trend.CurrentWeek)
	trend.PreviousWeek = round2(trend.PreviousWeek)
	return trend, nil
}

func (s *service) Field(ctx context.Context, userID, fieldID int64, days int) (FieldReport, error) {
	f, err := s.fields.Get(ctx, userID, fieldID)
	if err != nil {
		return FieldReport{}, err
	}
	days = normalizeDays(days, DefaultFieldDays)
	records, err := s.load(ctx, userID, history.Filter{FieldID: fieldID, Since: shift(s.today(), -days)})
	if err != nil {
		return FieldReport{}, err
	}
	report := FieldReport{
		FieldID:             f.ID,
		FieldName:           f.Name,
		PeriodDays:          days,
		IrrigationCount:     len(records),
		MoistureTrends:      make([]MoisturePoint, 0),
		EffectivenessTrends: make([]RatingPoint, 0),
		WeeklyUsage:         make([]WeeklyUsage, 0),
	}

	type moistureAcc struct{ before, after mean }
	moisture := make(map[string]*moistureAcc)
	ratings := make(map[string]*mean)
	weeks := make(map[string]*WeeklyUsage)
	for _, rec := range records {
		report.TotalWaterUsage += rec.WaterUsedLiters

		if rec.MoistureBefore != nil || rec.MoistureAfter != nil {
			acc, ok := moisture[rec.Date]
			if !ok {
				acc = &moistureAcc{}
				moisture[rec.Date] = acc
			}
			acc.before.addPtr(rec.MoistureBefore)
			acc.after.addPtr(rec.MoistureAfter)
		}
		if rec.Rating != nil {
			acc, ok := ratings[rec.Date]
			if !ok {
				acc = &mean{}
				ratings[rec.Date] = acc
			}
			acc.add(float64(*rec.Rating))
		}
		if start, ok := weekStart(rec.Date); ok {
			w, exists := weeks[start]
			if !exists {
				w = &WeeklyUsage{WeekStart: start}
				weeks[start] = w
			}
			w.TotalUsage += rec.WaterUsedLiters
			w.IrrigationCount++
		}
	}
	if report.IrrigationCount > 0 {
		report.AvgUsagePerIrrigation = round2(report.TotalWaterUsage / float64(report.IrrigationCount))
	}
	report.TotalWaterUsage = round2(report.TotalWaterUsage)
	for date, acc := range moisture {
		report.MoistureTrends = append(report.MoistureTrends, MoisturePoint{
			Date:      date,
			AvgBefore: acc.before.valuePtr(),
			AvgAfter:  acc.after.valuePtr(),
		})
	}
	sort.Slice(report.MoistureTrends, func(i, j int) bool { return report.MoistureTrends[i].Date < report.MoistureTrends[j].Date })
	for date, acc := range ratings {
		report.EffectivenessTrends = append(report.EffectivenessTrends, RatingPoint{Date: date, AvgRating: acc.value(), Count: acc.n})
	}
	sort.Slice(report.EffectivenessTrends, func(i, j int) bool {
		return report.EffectivenessTrends[i].Date < report.EffectivenessTrends[j].Date
	})
	for _, w := range weeks {
		w.TotalUsage = round2(w.TotalUsage)
		report.WeeklyUsage = append(report.WeeklyUsage, *w)
	}
	sort.Slice(report.WeeklyUsage, func(i, j int) bool { return report.WeeklyUsage[i].WeekStart < report.WeeklyUsage[j].WeekStart })
	return report, nil
}

func (s *service) load(ctx context.Context, userID int64, filter history.Filter) ([]history.Record, error) {
	records, err := s.history.List(ctx, userID, filter)
	if err != nil {
		s.logger.Error("history query failed", "user_id", userID, "error", err)
		return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to load irrigation history", err)
	}
	return records, nil
}

func (s *service) today() time.Time {
	return util.StartOfDay(s.now().In(s.location))
}

func normalizeDays(days, fallback int) int {
	if days <= 0 {
		return fallback
	}
	if days > MaxDays {
		return MaxDays
	}
	return days
}

func shift(day time.Time, days int) string {
	return day.AddDate(0, 0, days).Format(time.DateOnly)
}

// weekStart returns the Monday of the week containing date.
func weekStart(date string) (string, bool) {
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return "", false
	}
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset).Format(time.DateOnly), true
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.n++
}

func (m *mean) addPtr(v *float64) {
	if v != nil {
		m.add(*v)
	}
}

func (m *mean) value() float64 {
	if m.n == 0 {
		return 0
	}
	return round2(m.sum / float64(m.n))
}

func (m *mean) valuePtr() *float64 {
	if m.n == 0 {
		return nil
	}
	v := m.value()
	return &v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
