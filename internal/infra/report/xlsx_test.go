package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yanqian/farmwise/internal/domain/analytics"
	"github.com/yanqian/farmwise/internal/domain/history"
)

func TestWriteWaterUsage(t *testing.T) {
	change := -50.0
	stats := analytics.UsageStats{
		PeriodDays:      30,
		TotalWaterUsage: 450,
		UsageByField: []analytics.FieldUsage{
			{FieldID: 2, FieldName: "River plot", TotalUsage: 300, IrrigationCount: 1},
		},
		UsageByMethod: []analytics.MethodUsage{{Method: history.MethodDrip, TotalUsage: 150, Count: 2}},
		MonthlyTrends: []analytics.MonthlyUsage{{Month: "2024-10", TotalUsage: 450, IrrigationCount: 3}},
		Trend:         analytics.UsageTrend{CurrentWeek: 150, PreviousWeek: 300, PercentageChange: &change},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteWaterUsage(&buf, stats))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	require.Equal(t, []string{"Summary", "By Field", "By Method", "Monthly"}, f.GetSheetList())

	total, err := f.GetCellValue("Summary", "B3")
	require.NoError(t, err)
	require.Equal(t, "450", total)

	rating, err := f.GetCellValue("Summary", "B8")
	require.NoError(t, err)
	require.Equal(t, "n/a", rating)

	name, err := f.GetCellValue("By Field", "B2")
	require.NoError(t, err)
	require.Equal(t, "River plot", name)

	method, err := f.GetCellValue("By Method", "A2")
	require.NoError(t, err)
	require.Equal(t, "drip", method)
}

func TestFilename(t *testing.T) {
	require.Equal(t, "water-usage-30d.xlsx", Filename(30))
}
