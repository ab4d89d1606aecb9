// Package forecast produces the 21-day daily and hourly sales forecasts
// consumed by the window partitioner. Each forecast day is the mean of the
// non-zero sales on the same weekday one to four weeks earlier.
package forecast

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/aayushbajaj/cafe-telemetry/internal/storage"
	"github.com/aayushbajaj/cafe-telemetry/pkg/calendar"
	"github.com/aayushbajaj/cafe-telemetry/pkg/windows"
)

const (
	// Horizon is how many days ahead are forecast, starting tomorrow.
	Horizon = 21
	// LookbackWeeks is how many same-weekday history points feed a day.
	LookbackWeeks = 4

	FirstHour = 7
	LastHour  = 21

	DefaultTargetLaborPct = 28
	MinTargetLaborPct     = 15
	MaxTargetLaborPct     = 40
	DefaultHourlyWage     = 24.19

	// WageSetting is the settings key holding the student hourly rate.
	WageSetting = "hourly_labor_rate"
)

// Source is the sales history the forecasts are built from.
type Source interface {
	DailySales(from, to time.Time) (map[string]float64, error)
	HourlySales(from, to time.Time) (map[string]storage.HourlySales, error)
	Setting(key string) (string, bool, error)
}

// HourlyOptions tunes the staffing hint attached to each forecast hour.
type HourlyOptions struct {
	TargetLaborPct int
}

func toTime(d calendar.Date) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local)
}

// historyWindow is the [from, to) range covering every lookback date.
func historyWindow(today calendar.Date) (time.Time, time.Time) {
	return toTime(today.AddDays(-7 * LookbackWeeks)), toTime(today)
}

// historicalDates lists the same-weekday dates 1..LookbackWeeks weeks before
// day that are strictly before today.
func historicalDates(day, today calendar.Date) []calendar.Date {
	var dates []calendar.Date
	for w := 1; w <= LookbackWeeks; w++ {
		d := day.AddDays(-7 * w)
		if d.Before(today) {
			dates = append(dates, d)
		}
	}
	return dates
}

func mean(points []float64) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += p
	}
	return sum / float64(len(points))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func basis(n int) string {
	return fmt.Sprintf("Avg of last %d valid weeks", n)
}

// Daily forecasts revenue for today+1 .. today+Horizon.
func Daily(ctx context.Context, src Source, today calendar.Date) ([]windows.DailyRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	from, to := historyWindow(today)
	sales, err := src.DailySales(from, to)
	if err != nil {
		return nil, fmt.Errorf("load daily sales: %w", err)
	}

	records := make([]windows.DailyRecord, 0, Horizon)
	for i := 1; i <= Horizon; i++ {
		day := today.AddDays(i)

		var points []float64
		for _, d := range historicalDates(day, today) {
			if v := sales[d.String()]; v > 0 {
				points = append(points, v)
			}
		}

		records = append(records, windows.DailyRecord{
			Date:      day,
			DayOfWeek: day.WeekdayName(),
			Value:     roundCents(mean(points)),
			Basis:     basis(len(points)),
		})
	}
	return records, nil
}

// Hourly forecasts revenue per hour (FirstHour..LastHour) for
// today+1 .. today+Horizon, with a student-hours staffing hint per hour.
func Hourly(ctx context.Context, src Source, today calendar.Date, opts HourlyOptions) ([]windows.HourlyRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	targetPct := opts.TargetLaborPct
	if targetPct < MinTargetLaborPct || targetPct > MaxTargetLaborPct {
		targetPct = DefaultTargetLaborPct
	}

	wage, err := hourlyWage(src)
	if err != nil {
		return nil, err
	}

	from, to := historyWindow(today)
	sales, err := src.HourlySales(from, to)
	if err != nil {
		return nil, fmt.Errorf("load hourly sales: %w", err)
	}

	records := make([]windows.HourlyRecord, 0, Horizon)
	for i := 1; i <= Horizon; i++ {
		day := today.AddDays(i)

		var history []storage.HourlySales
		for _, d := range historicalDates(day, today) {
			if h, ok := sales[d.String()]; ok {
				history = append(history, h)
			}
		}

		hours := make([]windows.HourValue, 0, LastHour-FirstHour+1)
		for hour := FirstHour; hour <= LastHour; hour++ {
			var points []float64
			for _, h := range history {
				if v := h[hour]; v > 0 {
					points = append(points, v)
				}
			}
			avg := mean(points)
			hours = append(hours, windows.HourValue{
				Hour:         fmt.Sprintf("%02d:00", hour),
				Value:        roundCents(avg),
				StudentHours: StudentHours(avg, targetPct, wage),
			})
		}

		records = append(records, windows.HourlyRecord{
			Date:       day,
			DayOfWeek:  day.WeekdayName(),
			HourlyData: hours,
			Basis:      basis(len(history)),
		})
	}
	return records, nil
}

func hourlyWage(src Source) (float64, error) {
	raw, ok, err := src.Setting(WageSetting)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", WageSetting, err)
	}
	if !ok {
		return DefaultHourlyWage, nil
	}
	wage, err := strconv.ParseFloat(raw, 64)
	if err != nil || wage <= 0 {
		return DefaultHourlyWage, nil
	}
	return wage, nil
}

// StudentHours turns a sales figure into a labor budget in hours at the
// target percentage, bracketed to the surrounding half hours.
func StudentHours(sales float64, targetPct int, wage float64) string {
	if wage <= 0 {
		return "0.0 hrs"
	}
	exact := sales * float64(targetPct) / 100 / wage
	lower := math.Floor(exact*2) / 2
	upper := math.Ceil(exact*2) / 2
	if lower == upper {
		return fmt.Sprintf("%.1f hrs", exact)
	}
	return fmt.Sprintf("%.1f-%.1f hrs", lower, upper)
}
