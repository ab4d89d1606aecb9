package menubar

import (
	"reflect"
	"testing"

	"github.com/aayushbajaj/cafe-telemetry/pkg/calendar"
	"github.com/aayushbajaj/cafe-telemetry/pkg/windows"
)

func TestSummarise(t *testing.T) {
	start := calendar.MustParse("2025-09-04")
	var daily []windows.DailyRecord
	for i := 0; i < 10; i++ {
		d := start.AddDays(i)
		daily = append(daily, windows.DailyRecord{
			Date: d, DayOfWeek: d.WeekdayName(), Value: 100, Basis: "Avg of last 4 valid weeks",
		})
	}
	hourly := []windows.HourlyRecord{{
		Date: start, DayOfWeek: "Thursday",
		HourlyData: []windows.HourValue{
			{Hour: "07:00", Value: 40, StudentHours: "0.0-0.5 hrs"},
			{Hour: "08:00", Value: 95, StudentHours: "1.0-1.5 hrs"},
		},
	}}

	s := Summarise(daily, hourly)

	if s.Title() != "☕ $100" {
		t.Errorf("Title() = %q", s.Title())
	}
	want := []string{
		"Tomorrow (Thursday): $100.00",
		"Peak hour: 08:00 ($95.00, 1.0-1.5 hrs)",
		"Next 7 days: $700.00",
		"Avg of last 4 valid weeks",
	}
	if got := s.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() = %q, want %q", got, want)
	}
}

func TestSummariseEmpty(t *testing.T) {
	s := Summarise(nil, nil)
	if s.Title() != "☕ --" {
		t.Errorf("Title() = %q", s.Title())
	}
	if lines := s.Lines(); len(lines) != 1 || lines[0] != "No forecast available" {
		t.Errorf("Lines() = %q", lines)
	}
}
