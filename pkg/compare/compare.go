// Package compare computes normalised revenue comparisons between two
// day-set × hour-range periods.
package compare

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/aayushbajaj/cafe-telemetry/pkg/calendar"
)

// ErrUnconfigured is returned when a period has no days selected. An empty
// day set means "not configured yet", never "every day".
var ErrUnconfigured = errors.New("comparison period has no days selected")

// Period is one side of a comparison. Days use the storage convention
// (Sunday=0). The totals are filled in by the data source.
type Period struct {
	Days        []int   `json:"days"`
	StartHour   int     `json:"start_hour"`
	EndHour     int     `json:"end_hour"`
	DaysCounted int     `json:"days_counted"`
	Revenue     float64 `json:"revenue"`
	UnitsSold   float64 `json:"units_sold"`
}

func (p Period) Configured() bool {
	return len(p.Days) > 0
}

// HoursInWindow is EndHour - StartHour; zero or negative means the window
// has no width.
func (p Period) HoursInWindow() int {
	return p.EndHour - p.StartHour
}

func (p Period) AvgPerHour() float64 {
	hours := p.HoursInWindow()
	if p.DaysCounted <= 0 || hours <= 0 {
		return 0
	}
	return p.Revenue / float64(p.DaysCounted*hours)
}

func (p Period) AvgPerDay() float64 {
	if p.DaysCounted <= 0 {
		return 0
	}
	return p.Revenue / float64(p.DaysCounted)
}

// Validate checks the hour range the way the period picker constrains it.
func (p Period) Validate() error {
	if !p.Configured() {
		return ErrUnconfigured
	}
	for _, d := range p.Days {
		if d < 0 || d > 6 {
			return fmt.Errorf("day %d out of range 0..6", d)
		}
	}
	if p.StartHour < 0 || p.EndHour > 24 || p.StartHour > p.EndHour {
		return fmt.Errorf("invalid hour range %d..%d", p.StartHour, p.EndHour)
	}
	return nil
}

// PercentDelta is the change from a to b in percent. Growth from zero is
// reported as 100, and no growth from zero as 0.
func PercentDelta(a, b float64) float64 {
	if a > 0 {
		return (b - a) / a * 100
	}
	if b > 0 {
		return 100
	}
	return 0
}

// RadiusRatio scales a circle so its area, not its radius, is proportional
// to value.
func RadiusRatio(value, a, b float64) float64 {
	peak := math.Max(a, b)
	if peak <= 0 || value <= 0 {
		return 0
	}
	return math.Sqrt(value / peak)
}

// HeightRatio is the linear scale used for column charts.
func HeightRatio(value, a, b float64) float64 {
	peak := math.Max(a, b)
	if peak <= 0 {
		return 0
	}
	return value / peak
}

type ViewMode int

const (
	Hourly ViewMode = iota
	Total
)

func (v ViewMode) String() string {
	if v == Total {
		return "total"
	}
	return "hourly"
}

func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(s) {
	case "", "hourly":
		return Hourly, nil
	case "total":
		return Total, nil
	}
	return Hourly, fmt.Errorf("unknown view mode %q", s)
}

// Metrics are the derived figures for one period.
type Metrics struct {
	HoursInWindow int     `json:"hours_in_window"`
	AvgPerHour    float64 `json:"avg_per_hour"`
	AvgPerDay     float64 `json:"avg_per_day"`
	RadiusRatio   float64 `json:"radius_ratio"`
}

type Result struct {
	A Metrics `json:"period_a"`
	B Metrics `json:"period_b"`

	RevenueDelta    float64 `json:"revenue_delta_pct"`
	AvgPerHourDelta float64 `json:"avg_per_hour_delta_pct"`
	UnitsDelta      float64 `json:"units_delta_pct"`
}

// Delta returns the headline percentage for a view mode.
func (r Result) Delta(mode ViewMode) float64 {
	if mode == Total {
		return r.RevenueDelta
	}
	return r.AvgPerHourDelta
}

// Compare derives both periods' metrics and the deltas from a to b. Callers
// must not send unconfigured periods; doing so returns ErrUnconfigured.
func Compare(a, b Period) (Result, error) {
	if !a.Configured() || !b.Configured() {
		return Result{}, ErrUnconfigured
	}

	metrics := func(p Period) Metrics {
		return Metrics{
			HoursInWindow: p.HoursInWindow(),
			AvgPerHour:    p.AvgPerHour(),
			AvgPerDay:     p.AvgPerDay(),
			RadiusRatio:   RadiusRatio(p.Revenue, a.Revenue, b.Revenue),
		}
	}

	return Result{
		A:               metrics(a),
		B:               metrics(b),
		RevenueDelta:    PercentDelta(a.Revenue, b.Revenue),
		AvgPerHourDelta: PercentDelta(a.AvgPerHour(), b.AvgPerHour()),
		UnitsDelta:      PercentDelta(a.UnitsSold, b.UnitsSold),
	}, nil
}

// FormatDays renders a storage-convention day set Monday first, with the
// usual shorthands.
func FormatDays(days []int) string {
	set := make(map[int]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	switch {
	case len(set) == 7:
		return "Every day"
	case len(set) == 5 && !set[0] && !set[6]:
		return "Weekdays"
	case len(set) == 2 && set[0] && set[6]:
		return "Weekends"
	}

	display := make([]int, 0, len(set))
	for d := range set {
		display = append(display, calendar.StorageToDisplay(d))
	}
	sort.Ints(display)
	names := make([]string, len(display))
	for i, d := range display {
		names[i] = calendar.DisplayName(d)
	}
	return strings.Join(names, ", ")
}

func FormatHourRange(start, end int) string {
	return fmt.Sprintf("%02d:00 - %02d:00", start, end)
}
