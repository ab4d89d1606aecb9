package exclusion

import (
	"reflect"
	"testing"

	"github.com/aayushbajaj/cafe-telemetry/pkg/calendar"
)

func septemberGameDays() Set {
	return NewSet(calendar.MustParse("2025-09-06"), calendar.MustParse("2025-09-13"))
}

func TestExclusionsSeptember(t *testing.T) {
	start := calendar.MustParse("2025-09-01")
	end := calendar.MustParse("2025-09-30")

	tests := []struct {
		name     string
		policy   Policy
		expected []string
	}{
		{"all", All, []string{}},
		{"non-game only", NonGameOnly, []string{"2025-09-06", "2025-09-13"}},
		{"game days only", GameDaysOnly, []string{"2025-09-20", "2025-09-27"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Exclusions(start, end, tt.policy, septemberGameDays()).Strings()
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Exclusions(%s) = %v, want %v", tt.policy, got, tt.expected)
			}
		})
	}
}

// GameDaysOnly never touches weekdays or Sundays, even ones that are not game
// days. This asymmetry is deliberate: the filter compares game-day Saturdays
// against the rest of the week.
func TestGameDaysOnlyKeepsNonSaturdays(t *testing.T) {
	gameDays := NewSet(calendar.MustParse("2025-10-17")) // a Friday game
	start := calendar.MustParse("2025-10-13")
	end := calendar.MustParse("2025-10-19")

	got := Exclusions(start, end, GameDaysOnly, gameDays)
	if got.Len() != 1 || !got.Contains(calendar.MustParse("2025-10-18")) {
		t.Errorf("expected only Saturday 2025-10-18 excluded, got %v", got.Strings())
	}
	for _, d := range calendar.Range(start, end) {
		if !d.IsSaturday() && got.Contains(d) {
			t.Errorf("non-Saturday %s must never be excluded", d)
		}
	}
}

func TestNonGameOnlyRespectsRange(t *testing.T) {
	got := Exclusions(
		calendar.MustParse("2025-09-10"),
		calendar.MustParse("2025-10-04"),
		NonGameOnly,
		DefaultGameDays(),
	).Strings()

	want := []string{"2025-09-13", "2025-10-04"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExclusionsInvertedRange(t *testing.T) {
	got := Exclusions(calendar.MustParse("2025-09-30"), calendar.MustParse("2025-09-01"), GameDaysOnly, septemberGameDays())
	if got.Len() != 0 {
		t.Errorf("inverted range should exclude nothing, got %v", got.Strings())
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		input    string
		expected Policy
		wantErr  bool
	}{
		{"", All, false},
		{"all", All, false},
		{"gamedays", GameDaysOnly, false},
		{"GameDays", GameDaysOnly, false},
		{"non-game", NonGameOnly, false},
		{"weekends", All, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePolicy(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePolicy(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParsePolicy(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}

	for _, p := range []Policy{All, GameDaysOnly, NonGameOnly} {
		back, err := ParsePolicy(p.String())
		if err != nil || back != p {
			t.Errorf("round trip of %v gave %v, %v", p, back, err)
		}
	}
}

func TestParseGameDays(t *testing.T) {
	s, err := ParseGameDays(" 2025-09-06, ,2025-09-13")
	if err != nil {
		t.Fatalf("ParseGameDays failed: %v", err)
	}
	if !reflect.DeepEqual(s.Strings(), []string{"2025-09-06", "2025-09-13"}) {
		t.Errorf("got %v", s.Strings())
	}

	if _, err := ParseGameDays("2025-09-06,tomorrow"); err == nil {
		t.Error("expected error for invalid date")
	}
}

func TestDefaultGameDays(t *testing.T) {
	s := DefaultGameDays()
	if s.Len() != len(GameDays2025) {
		t.Errorf("Len = %d, want %d", s.Len(), len(GameDays2025))
	}
	if !IsGameDay(calendar.MustParse("2025-11-29"), s) {
		t.Error("2025-11-29 should be a game day")
	}
	if !IsNonGameSaturday(calendar.MustParse("2025-09-20"), s) {
		t.Error("2025-09-20 is a non-game Saturday")
	}
	if IsNonGameSaturday(calendar.MustParse("2025-09-06"), s) {
		t.Error("2025-09-06 is a game Saturday")
	}
}
