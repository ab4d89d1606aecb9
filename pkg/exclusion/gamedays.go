package exclusion

import (
	"strings"

	"github.com/aayushbajaj/cafe-telemetry/pkg/calendar"
)

// GameDays2025 are the 2025 home football game dates, the days with
// markedly higher volume at the cafe.
var GameDays2025 = []string{
	"2025-09-06",
	"2025-09-13",
	"2025-10-04",
	"2025-10-17",
	"2025-11-01",
	"2025-11-29",
}

// DefaultGameDays returns GameDays2025 as a Set.
func DefaultGameDays() Set {
	s := NewSet()
	for _, d := range GameDays2025 {
		s[calendar.MustParse(d)] = struct{}{}
	}
	return s
}

// ParseGameDays reads a comma-separated list of dates. Blank entries are
// skipped.
func ParseGameDays(list string) (Set, error) {
	s := NewSet()
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := calendar.Parse(part)
		if err != nil {
			return nil, err
		}
		s[d] = struct{}{}
	}
	return s, nil
}

func IsGameDay(d calendar.Date, gameDays Set) bool {
	return gameDays.Contains(d)
}

func IsNonGameSaturday(d calendar.Date, gameDays Set) bool {
	return d.IsSaturday() && !gameDays.Contains(d)
}
