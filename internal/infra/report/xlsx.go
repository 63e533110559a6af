package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/yanqian/farmwise/internal/domain/analytics"
)

// ContentType is the MIME type of the rendered workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	summarySheet = "Summary"
	fieldSheet   = "By Field"
	methodSheet  = "By Method"
	monthlySheet = "Monthly"
)

// Filename names the export for a usage period.
func Filename(days int) string {
	return fmt.Sprintf("water-usage-%dd.xlsx", days)
}

// WriteWaterUsage renders stats as a workbook with one sheet per breakdown.
func WriteWaterUsage(w io.Writer, stats analytics.UsageStats) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	avgRating := "n/a"
	if stats.Efficiency.AverageRating != nil {
		avgRating = fmt.Sprintf("%.2f", *stats.Efficiency.AverageRating)
	}
	change := "n/a"
	if stats.Trend.PercentageChange != nil {
		change = fmt.Sprintf("%.2f%%", *stats.Trend.PercentageChange)
	}
	summary := [][]any{
		{"Metric", "Value"},
		{"Period (days)", stats.PeriodDays},
		{"Total water used (L)", stats.TotalWaterUsage},
		{"Average daily usage (L)", stats.AverageDailyUsage},
		{"Average litres per minute", stats.AvgLitersPerMinute},
		{"Irrigations", stats.Efficiency.TotalCount},
		{"Rated irrigations", stats.Efficiency.RatedCount},
		{"Average effectiveness", avgRating},
		{"Last 7 days (L)", stats.Trend.CurrentWeek},
		{"Previous 7 days (L)", stats.Trend.PreviousWeek},
		{"Weekly change", change},
	}
	if err := writeTable(f, summarySheet, summary, bold); err != nil {
		return err
	}

	fields := [][]any{{"Field ID", "Field", "Water used (L)", "Irrigations"}}
	for _, u := range stats.UsageByField {
		fields = append(fields, []any{u.FieldID, u.FieldName, u.TotalUsage, u.IrrigationCount})
	}
	methods := [][]any{{"Method", "Water used (L)", "Irrigations"}}
	for _, u := range stats.UsageByMethod {
		methods = append(methods, []any{string(u.Method), u.TotalUsage, u.Count})
	}
	monthly := [][]any{{"Month", "Water used (L)", "Irrigations"}}
	for _, m := range stats.MonthlyTrends {
		monthly = append(monthly, []any{m.Month, m.TotalUsage, m.IrrigationCount})
	}
	for _, sheet := range []struct {
		name string
		rows [][]any
	}{
		{fieldSheet, fields},
		{methodSheet, methods},
		{monthlySheet, monthly},
	} {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet.name, err)
		}
		if err := writeTable(f, sheet.name, sheet.rows, bold); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(rows[0]))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 22)
}
