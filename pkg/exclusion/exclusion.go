// Package exclusion computes which calendar dates a report should leave out
// for the Saturday game-day filter.
package exclusion

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aayushbajaj/cafe-telemetry/pkg/calendar"
)

type Policy int

const (
	// All keeps every day.
	All Policy = iota
	// GameDaysOnly drops Saturdays that are not game days. Weekdays and
	// Sundays are always kept: the filter compares Saturday against
	// Saturday.
	GameDaysOnly
	// NonGameOnly drops the game days themselves.
	NonGameOnly
)

var policyNames = map[Policy]string{
	All:          "all",
	GameDaysOnly: "gamedays",
	NonGameOnly:  "non-game",
}

func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy accepts the saturday_filter values used by the dashboard.
// Empty means All.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return All, nil
	case "gamedays", "game-days", "gamedays_only":
		return GameDaysOnly, nil
	case "non-game", "nongame", "non_game_only":
		return NonGameOnly, nil
	}
	return All, fmt.Errorf("unknown saturday filter %q", s)
}

// Set is an unordered set of dates with sorted accessors.
type Set map[calendar.Date]struct{}

func NewSet(dates ...calendar.Date) Set {
	s := make(Set, len(dates))
	for _, d := range dates {
		s[d] = struct{}{}
	}
	return s
}

func (s Set) Contains(d calendar.Date) bool {
	_, ok := s[d]
	return ok
}

func (s Set) Len() int { return len(s) }

// Sorted returns the dates in ascending order.
func (s Set) Sorted() []calendar.Date {
	out := make([]calendar.Date, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Strings returns the sorted dates as YYYY-MM-DD.
func (s Set) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, d := range sorted {
		out[i] = d.String()
	}
	return out
}

// Exclusions returns the dates in [start, end] to drop under policy.
func Exclusions(start, end calendar.Date, policy Policy, gameDays Set) Set {
	out := NewSet()
	switch policy {
	case GameDaysOnly:
		for _, d := range calendar.Range(start, end) {
			if IsNonGameSaturday(d, gameDays) {
				out[d] = struct{}{}
			}
		}
	case NonGameOnly:
		for _, d := range calendar.Range(start, end) {
			if IsGameDay(d, gameDays) {
				out[d] = struct{}{}
			}
		}
	}
	return out
}
