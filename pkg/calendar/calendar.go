// Package calendar handles civil calendar dates and the two weekday
// numbering conventions used throughout cafetel:
//
//	display: Monday=0 ... Sunday=6 (every calendar grid)
//	storage: Sunday=0 ... Saturday=6 (sqlite strftime('%w') and day_num)
//
// All conversion between the two lives in this file. Do not write
// (x+1)%7 style arithmetic anywhere else.
package calendar

import (
	"fmt"
	"time"
)

const layout = "2006-01-02"

// Date is a calendar day with no time zone attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

var (
	shortNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	longNames  = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
)

// Parse reads a YYYY-MM-DD string as a local calendar date.
func Parse(s string) (Date, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// MustParse is Parse for static tables and tests.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime takes the calendar day of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the local calendar date.
func Today() Date {
	return FromTime(time.Now())
}

// noon anchors arithmetic at UTC midday so that stepping never lands on a
// daylight-saving gap.
func (d Date) noon() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return d.noon().Format(layout)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// AddDays steps n whole calendar days.
func (d Date) AddDays(n int) Date {
	return FromTime(d.noon().AddDate(0, 0, n))
}

func (d Date) Before(o Date) bool {
	return d.noon().Before(o.noon())
}

func (d Date) After(o Date) bool {
	return d.noon().After(o.noon())
}

// DaysUntil returns the signed number of days from d to o.
func (d Date) DaysUntil(o Date) int {
	return int(o.noon().Sub(d.noon()).Hours() / 24)
}

// Weekday is the storage-convention index: Sunday=0 ... Saturday=6.
func (d Date) Weekday() int {
	return int(d.noon().Weekday())
}

// WeekdayName is the long English weekday name, e.g. "Monday".
func (d Date) WeekdayName() string {
	return longNames[d.Weekday()]
}

func (d Date) IsSaturday() bool {
	return d.Weekday() == int(time.Saturday)
}

// MondayOffset is the display-convention index of d: Monday=0 ... Sunday=6.
func MondayOffset(d Date) int {
	return (d.Weekday() + 6) % 7
}

// AnchorMonday returns the Monday on or before d.
func AnchorMonday(d Date) Date {
	return d.AddDays(-MondayOffset(d))
}

// DisplayToStorage converts a Monday-first index to the Sunday-first
// day_num stored by the data source.
func DisplayToStorage(displayIndex int) int {
	if displayIndex == 6 {
		return 0
	}
	return displayIndex + 1
}

// StorageToDisplay is the inverse of DisplayToStorage.
func StorageToDisplay(dayNum int) int {
	return (dayNum + 6) % 7
}

// DisplayName returns the short name of a display slot ("Mon" for 0).
func DisplayName(displayIndex int) string {
	return StorageName(DisplayToStorage(displayIndex))
}

// StorageName returns the short name of a storage day_num ("Sun" for 0).
func StorageName(dayNum int) string {
	if dayNum < 0 || dayNum > 6 {
		return ""
	}
	return shortNames[dayNum]
}

// LongStorageName returns the long name of a storage day_num.
func LongStorageName(dayNum int) string {
	if dayNum < 0 || dayNum > 6 {
		return ""
	}
	return longNames[dayNum]
}

// Range lists every date in [start, end]. An inverted range is empty.
func Range(start, end Date) []Date {
	if end.Before(start) {
		return nil
	}
	dates := make([]Date, 0, start.DaysUntil(end)+1)
	for d := start; !d.After(end); d = d.AddDays(1) {
		dates = append(dates, d)
	}
	return dates
}

// MarshalText lets Date travel as "YYYY-MM-DD" in JSON.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
