package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/yanqian/farmwise/internal/domain/history"
)

const (
	// DripAdvantage is how much higher drip must rate than sprinkler before it is suggested.
	DripAdvantage = 0.5
	// LongDurationMinutes is the average duration above which durations are flagged.
	LongDurationMinutes = 60
	// WasteRatingCeiling is the highest rating still considered poor.
	WasteRatingCeiling = 2
	bestMethodsLimit   = 3
)

func (s *service) Efficiency(ctx context.Context, userID int64, days int) (EfficiencyReport, error) {
	days = normalizeDays(days, DefaultEfficiencyDays)
	records, err := s.load(ctx, userID, history.Filter{Since: shift(s.today(), -days)})
	if err != nil {
		return EfficiencyReport{}, err
	}
	return buildEfficiency(days, records), nil
}

func buildEfficiency(days int, records []history.Record) EfficiencyReport {
	report := EfficiencyReport{
		PeriodDays:      days,
		Methods:         make([]MethodEfficiency, 0),
		BestMethods:     make([]MethodEfficiency, 0),
		PotentialWaste:  make([]WasteEntry, 0),
		Recommendations: make([]Recommendation, 0),
	}
	report.Summary.TotalEvents = len(records)
	if len(records) == 0 {
		return report
	}

	type methodAcc struct {
		count    int
		rating   mean
		usage    float64
		duration float64
	}
	methods := make(map[history.Method]*methodAcc)
	var overall mean
	var totalUsage, totalDuration float64
	for _, rec := range records {
		acc, ok := methods[rec.Method]
		if !ok {
			acc = &methodAcc{}
			methods[rec.Method] = acc
		}
		acc.count++
		acc.usage += rec.WaterUsedLiters
		acc.duration += float64(rec.DurationMinutes)
		if rec.Rating != nil {
			acc.rating.add(float64(*rec.Rating))
			overall.add(float64(*rec.Rating))
		}
		totalUsage += rec.WaterUsedLiters
		totalDuration += float64(rec.DurationMinutes)
	}

	for method, acc := range methods {
		report.Methods = append(report.Methods, MethodEfficiency{
			Method:      method,
			Count:       acc.count,
			AvgRating:   acc.rating.valuePtr(),
			TotalUsage:  round2(acc.usage),
			AvgDuration: round2(acc.duration / float64(acc.count)),
		})
	}
	sort.Slice(report.Methods, func(i, j int) bool { return report.Methods[i].Method < report.Methods[j].Method })

	for _, m := range report.Methods {
		if m.AvgRating != nil {
			report.BestMethods = append(report.BestMethods, m)
		}
	}
	sort.SliceStable(report.BestMethods, func(i, j int) bool {
		return *report.BestMethods[i].AvgRating > *report.BestMethods[j].AvgRating
	})
	if len(report.BestMethods) > bestMethodsLimit {
		report.BestMethods = report.BestMethods[:bestMethodsLimit]
	}

	avgUsage := totalUsage / float64(len(records))
	for _, rec := range records {
		if rec.Rating == nil || *rec.Rating > WasteRatingCeiling || rec.WaterUsedLiters <= avgUsage {
			continue
		}
		report.PotentialWaste = append(report.PotentialWaste, WasteEntry{
			RecordID:  rec.ID.String(),
			FieldID:   rec.FieldID,
			Date:      rec.Date,
			WaterUsed: rec.WaterUsedLiters,
			Rating:    *rec.Rating,
		})
	}

	drip, sprinkler := methods[history.MethodDrip], methods[history.MethodSprinkler]
	if drip != nil && sprinkler != nil && drip.rating.n > 0 && sprinkler.rating.n > 0 {
		dripAvg, sprinklerAvg := drip.rating.value(), sprinkler.rating.value()
		if dripAvg > sprinklerAvg+DripAdvantage {
			report.Recommendations = append(report.Recommendations, Recommendation{
				Type:  "method_optimization",
				Title: "Consider Drip Irrigation",
				Description: fmt.Sprintf(
					"Drip irrigation rates %.1f on average against %.1f for sprinklers. Moving more fields to drip may improve results.",
					dripAvg, sprinklerAvg),
				Priority: "medium",
			})
		}
	}
	if avgDuration := totalDuration / float64(len(records)); avgDuration > LongDurationMinutes {
		report.Recommendations = append(report.Recommendations, Recommendation{
			Type:  "duration_optimization",
			Title: "Review Irrigation Duration",
			Description: fmt.Sprintf(
				"Irrigations last %.0f minutes on average. Shorter, more frequent sessions may reduce runoff.",
				avgDuration),
			Priority: "low",
		})
	}

	report.Summary.AvgRating = overall.valuePtr()
	var most *MethodEfficiency
	for i := range report.Methods {
		m := &report.Methods[i]
		if most == nil || m.Count > most.Count {
			most = m
		}
	}
	if most != nil {
		report.Summary.MostUsedMethod = most.Method
	}
	return report
}
