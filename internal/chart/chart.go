// Package chart renders forecasts and comparisons as standalone HTML pages.
package chart

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/aayushbajaj/cafe-telemetry/pkg/calendar"
	"github.com/aayushbajaj/cafe-telemetry/pkg/compare"
	"github.com/aayushbajaj/cafe-telemetry/pkg/windows"
)

// gap is how echarts is told a category has no value, as opposed to zero.
const gap = "-"

func newBar(title, subtitle string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Cafe Telemetry",
			Width:     "900px",
			Height:    "420px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
	)
	return bar
}

func weekdayAxis() []string {
	axis := make([]string, 7)
	for i := range axis {
		axis[i] = calendar.DisplayName(i)
	}
	return axis
}

// Window draws one forecast week on a Mon..Sun axis. Days outside the
// forecast are left blank.
func Window(w windows.Window[windows.DailyRecord]) *charts.Bar {
	data := make([]opts.BarData, 7)
	for i := range data {
		if rec, ok := w.Slot(i); ok {
			data[i] = opts.BarData{Name: rec.Date.String(), Value: rec.Value}
		} else {
			data[i] = opts.BarData{Value: gap}
		}
	}
	bar := newBar(w.Label(), fmt.Sprintf("Peak $%.2f", windows.Peak(w.Records)))
	bar.SetXAxis(weekdayAxis()).AddSeries("Forecast", data)
	return bar
}

// Day draws one day's hourly forecast.
func Day(rec windows.HourlyRecord) *charts.Bar {
	axis := make([]string, len(rec.HourlyData))
	data := make([]opts.BarData, len(rec.HourlyData))
	for i, h := range rec.HourlyData {
		axis[i] = h.Hour
		data[i] = opts.BarData{Name: h.StudentHours, Value: h.Value}
	}
	title := fmt.Sprintf("%s %s", rec.DayOfWeek, rec.Date)
	bar := newBar(title, fmt.Sprintf("Total $%.2f", rec.Total()))
	bar.SetXAxis(axis).AddSeries("Forecast", data)
	return bar
}

// Comparison draws the two periods side by side in the given view mode.
func Comparison(item string, a, b compare.Period, res compare.Result, mode compare.ViewMode) *charts.Bar {
	value := func(p compare.Period) float64 {
		if mode == compare.Total {
			return p.Revenue
		}
		return p.AvgPerHour()
	}
	label := func(p compare.Period) string {
		return compare.FormatDays(p.Days) + " " + compare.FormatHourRange(p.StartHour, p.EndHour)
	}

	bar := newBar(item, fmt.Sprintf("%s: %+.1f%%", mode, res.Delta(mode)))
	bar.SetXAxis([]string{label(a), label(b)}).AddSeries(mode.String(), []opts.BarData{
		{Value: value(a)},
		{Value: value(b)},
	})
	return bar
}

// RenderForecast writes one page holding every daily window followed by each
// hourly day.
func RenderForecast(w io.Writer, daily []windows.DailyRecord, hourly []windows.HourlyRecord) error {
	page := components.NewPage()
	page.PageTitle = "Cafe Telemetry Forecast"
	for _, win := range windows.Partition(daily) {
		page.AddCharts(Window(win))
	}
	for _, rec := range hourly {
		page.AddCharts(Day(rec))
	}
	return page.Render(w)
}

// RenderComparison writes a single comparison chart page.
func RenderComparison(w io.Writer, item string, a, b compare.Period, res compare.Result, mode compare.ViewMode) error {
	return Comparison(item, a, b, res, mode).Render(w)
}

// WriteFile creates path and hands it to render.
func WriteFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	return f.Close()
}
