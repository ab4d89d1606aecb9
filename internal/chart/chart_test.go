package chart

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aayushbajaj/cafe-telemetry/pkg/calendar"
	"github.com/aayushbajaj/cafe-telemetry/pkg/compare"
	"github.com/aayushbajaj/cafe-telemetry/pkg/windows"
)

func dailyRecords(start string, n int) []windows.DailyRecord {
	d := calendar.MustParse(start)
	out := make([]windows.DailyRecord, n)
	for i := range out {
		day := d.AddDays(i)
		out[i] = windows.DailyRecord{Date: day, DayOfWeek: day.WeekdayName(), Value: float64(100 + i)}
	}
	return out
}

func TestWindowMarksGaps(t *testing.T) {
	ws := windows.Partition(dailyRecords("2025-09-04", 10))
	require.NotEmpty(t, ws)

	bar := Window(ws[0])
	require.Len(t, bar.MultiSeries, 1)
	data, ok := bar.MultiSeries[0].Data.([]opts.BarData)
	require.True(t, ok)
	require.Len(t, data, 7)

	assert.Equal(t, gap, data[0].Value, "Monday is before the forecast")
	assert.Equal(t, 100.0, data[3].Value, "Thursday is the first record")
}

func TestRenderForecast(t *testing.T) {
	daily := dailyRecords("2025-09-04", 21)
	hourly := []windows.HourlyRecord{{
		Date:      calendar.MustParse("2025-09-04"),
		DayOfWeek: "Thursday",
		HourlyData: []windows.HourValue{
			{Hour: "07:00", Value: 40, StudentHours: "0.5 hrs"},
			{Hour: "08:00", Value: 80, StudentHours: "0.5-1.0 hrs"},
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, RenderForecast(&buf, daily, hourly))
	html := buf.String()

	assert.True(t, strings.Contains(html, "Week starting 2025-09-01"))
	assert.True(t, strings.Contains(html, "Thursday 2025-09-04"))
	assert.True(t, strings.Contains(html, "Total $120.00"))
}

func TestComparison(t *testing.T) {
	a := compare.Period{Days: []int{1, 2, 3, 4, 5}, StartHour: 9, EndHour: 12, DaysCounted: 2, Revenue: 600}
	b := compare.Period{Days: []int{0, 6}, StartHour: 9, EndHour: 12, DaysCounted: 2, Revenue: 300}
	res, err := compare.Compare(a, b)
	require.NoError(t, err)

	bar := Comparison("Latte", a, b, res, compare.Total)
	assert.Equal(t, []string{"Weekdays 09:00 - 12:00", "Weekends 09:00 - 12:00"}, bar.XAxisList[0].Data)

	path := filepath.Join(t.TempDir(), "compare.html")
	require.NoError(t, WriteFile(path, func(w io.Writer) error {
		return RenderComparison(w, "Latte", a, b, res, compare.Hourly)
	}))
	b2, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b2), "hourly: -50.0%"))
}
