package compare

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

func TestCompareZeroBaseline(t *testing.T) {
	a := Period{Days: []int{1, 2, 3}, StartHour: 9, EndHour: 12, DaysCounted: 3, Revenue: 0}
	b := Period{Days: []int{1, 2, 3}, StartHour: 9, EndHour: 12, DaysCounted: 3, Revenue: 150}

	if got := PercentDelta(a.Revenue, b.Revenue); got != 100 {
		t.Errorf("PercentDelta = %v, want 100", got)
	}
	if got := a.AvgPerHour(); got != 0 {
		t.Errorf("AvgPerHour(A) = %v, want 0", got)
	}
	if got := b.AvgPerHour(); !almostEqual(got, 16.67) {
		t.Errorf("AvgPerHour(B) = %v, want 16.67", got)
	}

	result, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if result.RevenueDelta != 100 || result.AvgPerHourDelta != 100 {
		t.Errorf("deltas = %v / %v, want 100", result.RevenueDelta, result.AvgPerHourDelta)
	}
	if result.A.HoursInWindow != 3 {
		t.Errorf("HoursInWindow = %d", result.A.HoursInWindow)
	}
}

func TestPercentDelta(t *testing.T) {
	tests := []struct {
		name     string
		a, b     float64
		expected float64
	}{
		{"both zero", 0, 0, 0},
		{"growth from zero", 0, 10, 100},
		{"doubling", 50, 100, 100},
		{"halving", 100, 50, -50},
		{"to zero", 80, 0, -100},
		{"unchanged", 42, 42, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentDelta(tt.a, tt.b)
			if got != tt.expected {
				t.Errorf("PercentDelta(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Errorf("PercentDelta(%v, %v) is not finite", tt.a, tt.b)
			}
		})
	}
}

func TestAvgPerHourDegenerate(t *testing.T) {
	tests := []struct {
		name string
		p    Period
	}{
		{"zero width", Period{StartHour: 10, EndHour: 10, DaysCounted: 4, Revenue: 200}},
		{"negative width", Period{StartHour: 14, EndHour: 10, DaysCounted: 4, Revenue: 200}},
		{"no days counted", Period{StartHour: 9, EndHour: 12, DaysCounted: 0, Revenue: 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.AvgPerHour(); got != 0 {
				t.Errorf("AvgPerHour = %v, want 0", got)
			}
		})
	}

	if got := (Period{DaysCounted: 0, Revenue: 10}).AvgPerDay(); got != 0 {
		t.Errorf("AvgPerDay with no days = %v", got)
	}
	if got := (Period{DaysCounted: 4, Revenue: 10}).AvgPerDay(); got != 2.5 {
		t.Errorf("AvgPerDay = %v, want 2.5", got)
	}
}

func TestCompareUnconfigured(t *testing.T) {
	configured := Period{Days: []int{6}, StartHour: 9, EndHour: 12}

	if _, err := Compare(Period{}, configured); !errors.Is(err, ErrUnconfigured) {
		t.Errorf("empty A: err = %v", err)
	}
	if _, err := Compare(configured, Period{Days: []int{}}); !errors.Is(err, ErrUnconfigured) {
		t.Errorf("empty B: err = %v", err)
	}
}

func TestRadiusRatioIsAreaProportional(t *testing.T) {
	a, b := 100.0, 400.0
	ra := RadiusRatio(a, a, b)
	rb := RadiusRatio(b, a, b)

	if rb != 1 {
		t.Errorf("larger radius = %v, want 1", rb)
	}
	if ra/rb != 0.5 {
		t.Errorf("rA/rB = %v, want 0.5 (not 0.25)", ra/rb)
	}
	// Area ratio equals value ratio.
	if got := (ra * ra) / (rb * rb); !almostEqual(got, a/b) {
		t.Errorf("area ratio = %v, want %v", got, a/b)
	}
	if RadiusRatio(0, 0, 0) != 0 {
		t.Error("RadiusRatio with zero max should be 0")
	}
	if HeightRatio(100, 100, 400) != 0.25 {
		t.Error("HeightRatio should stay linear")
	}
}

func TestCompareRadiusRatios(t *testing.T) {
	a := Period{Days: []int{1}, StartHour: 9, EndHour: 10, DaysCounted: 1, Revenue: 100}
	b := Period{Days: []int{2}, StartHour: 9, EndHour: 10, DaysCounted: 1, Revenue: 400}
	r, err := Compare(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if r.A.RadiusRatio != 0.5 || r.B.RadiusRatio != 1 {
		t.Errorf("radius ratios = %v, %v", r.A.RadiusRatio, r.B.RadiusRatio)
	}
	if r.Delta(Total) != 300 {
		t.Errorf("Delta(Total) = %v, want 300", r.Delta(Total))
	}
	if r.Delta(Hourly) != r.AvgPerHourDelta {
		t.Error("Delta(Hourly) should use the hourly rate")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		p       Period
		wantErr bool
	}{
		{"ok", Period{Days: []int{0, 6}, StartHour: 9, EndHour: 12}, false},
		{"zero width ok", Period{Days: []int{1}, StartHour: 9, EndHour: 9}, false},
		{"empty days", Period{StartHour: 9, EndHour: 12}, true},
		{"bad day", Period{Days: []int{7}, StartHour: 9, EndHour: 12}, true},
		{"inverted", Period{Days: []int{1}, StartHour: 12, EndHour: 9}, true},
		{"past midnight", Period{Days: []int{1}, StartHour: 20, EndHour: 25}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFormatDays(t *testing.T) {
	tests := []struct {
		days     []int
		expected string
	}{
		{[]int{0, 1, 2, 3, 4, 5, 6}, "Every day"},
		{[]int{1, 2, 3, 4, 5}, "Weekdays"},
		{[]int{6, 0}, "Weekends"},
		{[]int{0, 1}, "Mon, Sun"},
		{[]int{6, 3, 1}, "Mon, Wed, Sat"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := FormatDays(tt.days); got != tt.expected {
				t.Errorf("FormatDays(%v) = %q, want %q", tt.days, got, tt.expected)
			}
		})
	}
}

func TestFormatHourRange(t *testing.T) {
	if got := FormatHourRange(9, 12); got != "09:00 - 12:00" {
		t.Errorf("FormatHourRange = %q", got)
	}
}

func TestParseViewMode(t *testing.T) {
	if m, err := ParseViewMode("total"); err != nil || m != Total {
		t.Errorf("ParseViewMode(total) = %v, %v", m, err)
	}
	if m, err := ParseViewMode(""); err != nil || m != Hourly {
		t.Errorf("ParseViewMode('') = %v, %v", m, err)
	}
	if _, err := ParseViewMode("daily"); err == nil {
		t.Error("expected error")
	}
}
