package menubar

import (
	"fmt"

	"github.com/aayushbajaj/cafe-telemetry/pkg/stats"
	"github.com/aayushbajaj/cafe-telemetry/pkg/windows"
)

// Summary is what the menu bar shows about the coming days.
type Summary struct {
	Tomorrow     windows.DailyRecord
	HasTomorrow  bool
	PeakHour     string
	PeakValue    float64
	StudentHours string
	Week         stats.Summary
}

// Summarise picks tomorrow out of the forecasts (the first record of each)
// and totals the first seven days.
func Summarise(daily []windows.DailyRecord, hourly []windows.HourlyRecord) Summary {
	var s Summary
	if len(daily) > 0 {
		s.Tomorrow = daily[0]
		s.HasTomorrow = true
	}
	week := daily
	if len(week) > 7 {
		week = week[:7]
	}
	s.Week = stats.Summarise(week)

	if len(hourly) > 0 {
		s.PeakHour, s.PeakValue = stats.FindPeakHour(hourly[0].HourlyData)
		for _, h := range hourly[0].HourlyData {
			if h.Hour == s.PeakHour {
				s.StudentHours = h.StudentHours
			}
		}
	}
	return s
}

// Title is the compact menu bar text.
func (s Summary) Title() string {
	if !s.HasTomorrow {
		return "☕ --"
	}
	return "☕ " + stats.FormatCompact(s.Tomorrow.Value)
}

// Lines are the informational menu rows, top to bottom.
func (s Summary) Lines() []string {
	if !s.HasTomorrow {
		return []string{"No forecast available"}
	}
	lines := []string{
		fmt.Sprintf("Tomorrow (%s): %s", s.Tomorrow.DayOfWeek, stats.FormatCurrency(s.Tomorrow.Value)),
	}
	if s.PeakHour != "" {
		lines = append(lines, fmt.Sprintf("Peak hour: %s (%s, %s)",
			s.PeakHour, stats.FormatCurrency(s.PeakValue), s.StudentHours))
	}
	lines = append(lines,
		fmt.Sprintf("Next 7 days: %s", stats.FormatCurrency(s.Week.Total)),
		s.Tomorrow.Basis,
	)
	return lines
}
