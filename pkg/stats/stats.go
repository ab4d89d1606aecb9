// Package stats summarises forecast records for display.
package stats

import (
	"fmt"
	"math"
	"strings"

	"github.com/aayushbajaj/cafe-telemetry/pkg/windows"
)

type Summary struct {
	Total     float64
	AvgPerDay float64
	PeakDay   string
	PeakValue float64
}

// Summarise totals a run of daily records. Days with no forecast still count
// toward the average.
func Summarise(records []windows.DailyRecord) Summary {
	var s Summary
	for _, r := range records {
		s.Total += r.Value
		if r.Value > s.PeakValue {
			s.PeakValue = r.Value
			s.PeakDay = r.DayOfWeek
		}
	}
	if len(records) > 0 {
		s.AvgPerDay = s.Total / float64(len(records))
	}
	return s
}

// FindPeakHour returns the busiest hour. Ties go to the earliest hour; an
// empty or all-zero day returns "" and 0.
func FindPeakHour(hours []windows.HourValue) (hour string, value float64) {
	for _, h := range hours {
		if h.Value > value {
			hour = h.Hour
			value = h.Value
		}
	}
	return
}

// FormatCurrency renders dollars with thousands separators: $1,234.56.
func FormatCurrency(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	cents := int64(math.Round(v * 100))
	return fmt.Sprintf("%s$%s.%02d", sign, groupThousands(cents/100), cents%100)
}

// FormatCompact is the short form used on bar labels: $980, $1.2K, $3.4M.
func FormatCompact(v float64) string {
	switch {
	case v >= 1000000:
		return "$" + formatFloat(v/1000000) + "M"
	case v >= 1000:
		return "$" + formatFloat(v/1000) + "K"
	}
	return fmt.Sprintf("$%.0f", v)
}

func formatFloat(f float64) string {
	s := fmt.Sprintf("%.1f", math.Floor(f*10)/10)
	return strings.TrimSuffix(s, ".0")
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
