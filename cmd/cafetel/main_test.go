package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aayushbajaj/cafe-telemetry/pkg/windows"
)

func TestRootCmdExists(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd should not be nil")
	}

	if rootCmd.Use != "cafetel" {
		t.Errorf("rootCmd.Use = %q, want 'cafetel'", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("rootCmd.Short should not be empty")
	}
}

func TestForecastCmdHasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range forecastCmd.Commands() {
		names[cmd.Use] = true
	}
	for _, want := range []string{"daily", "hourly"} {
		if !names[want] {
			t.Errorf("forecast should have %q subcommand", want)
		}
	}
}

func TestCompareCmdFlags(t *testing.T) {
	tests := []struct {
		name     string
		defValue string
	}{
		{"item", "0"},
		{"a-days", "1,2,3,4,5"},
		{"a-start", "9"},
		{"a-end", "12"},
		{"b-days", "1,2,3,4,5"},
		{"b-start", "14"},
		{"b-end", "17"},
		{"saturday-filter", "all"},
		{"mode", "hourly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := compareCmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("compareCmd should have a %q flag", tt.name)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("%s default = %q, want %q", tt.name, flag.DefValue, tt.defValue)
			}
		})
	}
}

func TestChartCmdFlags(t *testing.T) {
	outFlag := chartCmd.Flags().Lookup("out")
	if outFlag == nil {
		t.Fatal("chartCmd should have an 'out' flag")
	}
	if outFlag.Shorthand != "o" {
		t.Errorf("out flag shorthand = %q, want 'o'", outFlag.Shorthand)
	}
	if outFlag.DefValue != "forecast.html" {
		t.Errorf("out flag default = %q, want 'forecast.html'", outFlag.DefValue)
	}
}

func TestRootCmdHasSubcommands(t *testing.T) {
	cmdNames := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		cmdNames[cmd.Use] = true
	}

	for _, want := range []string{"serve", "forecast", "windows", "compare", "exclusions", "chart", "seed"} {
		if !cmdNames[want] {
			t.Errorf("rootCmd should have %q subcommand", want)
		}
	}
}

func TestParseDays(t *testing.T) {
	tests := []struct {
		input    string
		expected []int
		wantErr  bool
	}{
		{"1,2,3", []int{1, 2, 3}, false},
		{" 0 , 6 ", []int{0, 6}, false},
		{"", nil, false},
		{"7", nil, true},
		{"mon", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDays(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDays(%q) err = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("parseDays(%q) = %v, want %v", tt.input, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("parseDays(%q) = %v, want %v", tt.input, got, tt.expected)
				}
			}
		})
	}
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("cafetel %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestSeedThenForecast(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cafe.db")

	out := execute(t, "seed", "--db", db, "--from", "2025-07-01", "--to", "2025-09-02", "--seed", "7")
	if !strings.HasPrefix(out, "Seeded ") {
		t.Errorf("seed output = %q", out)
	}

	out = execute(t, "forecast", "daily", "--db", db, "--today", "2025-09-03", "--json")
	var records []windows.DailyRecord
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("forecast output is not JSON: %v\n%s", err, out)
	}
	if len(records) != 21 {
		t.Fatalf("got %d records, want 21", len(records))
	}
	if records[0].Date.String() != "2025-09-04" {
		t.Errorf("first date = %s, want 2025-09-04", records[0].Date)
	}

	out = execute(t, "windows", "--db", db, "--today", "2025-09-03")
	if !strings.Contains(out, "1. Week starting 2025-09-01") || !strings.Contains(out, "4. Week starting 2025-09-22") {
		t.Errorf("windows output = %q", out)
	}

	out = execute(t, "compare", "--db", db, "--item", "1", "--start", "2025-07-01", "--end", "2025-09-02")
	if !strings.Contains(out, "Latte - Small") || !strings.Contains(out, "Change A to B") {
		t.Errorf("compare output = %q", out)
	}

	html := filepath.Join(t.TempDir(), "forecast.html")
	execute(t, "chart", "--db", db, "--today", "2025-09-03", "--out", html)
	if info, err := os.Stat(html); err != nil || info.Size() == 0 {
		t.Errorf("chart file not written: %v", err)
	}
}

func TestExclusionsCmd(t *testing.T) {
	out := execute(t, "exclusions", "--start", "2025-09-01", "--end", "2025-09-30", "--policy", "all")
	if !strings.HasPrefix(out, "0 dates excluded (all") {
		t.Errorf("exclusions output = %q", out)
	}
}
