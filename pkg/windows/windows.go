// Package windows splits chronological per-day records into calendar
// aligned weeks.
package windows

import (
	"strings"

	"github.com/aayushbajaj/cafe-telemetry/pkg/calendar"
)

const daysPerWeek = 7

// Record is anything partitionable: it has a date and a source-supplied
// weekday name.
type Record interface {
	RecordDate() calendar.Date
	Weekday() string
}

// DailyRecord is one day's aggregate value.
type DailyRecord struct {
	Date      calendar.Date `json:"date"`
	DayOfWeek string        `json:"day_of_week"`
	Value     float64       `json:"value"`
	Basis     string        `json:"basis,omitempty"`
}

func (r DailyRecord) RecordDate() calendar.Date { return r.Date }
func (r DailyRecord) Weekday() string           { return r.DayOfWeek }

// HourValue is a single hour bucket, hour formatted "07:00".
type HourValue struct {
	Hour         string  `json:"hour"`
	Value        float64 `json:"value"`
	StudentHours string  `json:"student_hours,omitempty"`
}

// HourlyRecord is one day's hourly breakdown, hours ascending.
type HourlyRecord struct {
	Date       calendar.Date `json:"date"`
	DayOfWeek  string        `json:"day_of_week"`
	HourlyData []HourValue   `json:"hourly_data"`
	Basis      string        `json:"basis,omitempty"`
}

func (r HourlyRecord) RecordDate() calendar.Date { return r.Date }
func (r HourlyRecord) Weekday() string           { return r.DayOfWeek }

// Total sums the hourly values.
func (r HourlyRecord) Total() float64 {
	var total float64
	for _, h := range r.HourlyData {
		total += h.Value
	}
	return total
}

// Window is a contiguous slice of the input tagged with its position and the
// Monday it belongs to.
type Window[R Record] struct {
	Index   int
	Anchor  calendar.Date
	Records []R
}

// Label is the heading shown above a window.
func (w Window[R]) Label() string {
	return "Week starting " + w.Anchor.String()
}

// Slot finds the record for display slot i (0=Mon..6=Sun). The boolean is
// false for a gap, which is not the same thing as a zero-value record.
func (w Window[R]) Slot(i int) (R, bool) {
	var zero R
	if i < 0 || i >= daysPerWeek {
		return zero, false
	}
	name := calendar.DisplayName(i)
	for _, r := range w.Records {
		if strings.HasPrefix(r.Weekday(), name) {
			return r, true
		}
	}
	return zero, false
}

// FirstWindowLength is how many leading records belong to the week already
// in progress at first.
func FirstWindowLength(first calendar.Date) int {
	k := calendar.MondayOffset(first)
	if k == 6 {
		return daysPerWeek
	}
	return 6 - k
}

// Partition splits records into a leading stub (the rest of the first
// date's week) followed by strides of seven. Empty input yields no windows.
func Partition[R Record](records []R) []Window[R] {
	if len(records) == 0 {
		return nil
	}

	var out []Window[R]
	emit := func(start, end int) {
		if end > len(records) {
			end = len(records)
		}
		if start >= end {
			return
		}
		chunk := records[start:end]
		out = append(out, Window[R]{
			Index:   len(out),
			Anchor:  calendar.AnchorMonday(chunk[0].RecordDate()),
			Records: chunk,
		})
	}

	first := FirstWindowLength(records[0].RecordDate())
	emit(0, first)
	for start := first; start < len(records); start += daysPerWeek {
		emit(start, start+daysPerWeek)
	}
	return out
}

// Concat joins windows back into one sequence.
func Concat[R Record](ws []Window[R]) []R {
	var out []R
	for _, w := range ws {
		out = append(out, w.Records...)
	}
	return out
}

// Peak is the largest daily value with a floor of 1, the bar-scaling
// denominator.
func Peak(records []DailyRecord) float64 {
	peak := 1.0
	for _, r := range records {
		if r.Value > peak {
			peak = r.Value
		}
	}
	return peak
}

// HourlyPeak is Peak over every hour of every record.
func HourlyPeak(records []HourlyRecord) float64 {
	peak := 1.0
	for _, r := range records {
		for _, h := range r.HourlyData {
			if h.Value > peak {
				peak = h.Value
			}
		}
	}
	return peak
}
