package menubar

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aayushbajaj/cafe-telemetry/internal/forecast"
	"github.com/aayushbajaj/cafe-telemetry/pkg/calendar"
	"github.com/aayushbajaj/cafe-telemetry/pkg/windows"
)

// Snapshot is one refresh worth of forecasts. Err is set when the daily
// forecast could not be built; hourly failures only drop the peak hour row.
type Snapshot struct {
	Daily   []windows.DailyRecord
	Hourly  []windows.HourlyRecord
	Summary Summary
	Err     error
}

// Load builds the forecasts the menu shows for today.
func Load(ctx context.Context, src forecast.Source, today calendar.Date, targetLaborPct int, log *zap.Logger) Snapshot {
	daily, err := forecast.Daily(ctx, src, today)
	if err != nil {
		log.Error("daily forecast failed", zap.Error(err))
		return Snapshot{Err: err}
	}
	hourly, err := forecast.Hourly(ctx, src, today, forecast.HourlyOptions{TargetLaborPct: targetLaborPct})
	if err != nil {
		log.Warn("hourly forecast failed", zap.Error(err))
		hourly = nil
	}
	return Snapshot{Daily: daily, Hourly: hourly, Summary: Summarise(daily, hourly)}
}

func (s Snapshot) Title() string {
	if s.Err != nil {
		return "☕ !"
	}
	return s.Summary.Title()
}

type Action int

const (
	NoAction Action = iota
	ViewCharts
	Refresh
	Quit
)

// Entry is one menu row. Separator rows carry no text.
type Entry struct {
	Text      string
	Action    Action
	Separator bool
}

// Entries lays out the menu: summary rows, then the commands.
func (s Snapshot) Entries() []Entry {
	var out []Entry
	if s.Err != nil {
		out = append(out, Entry{Text: fmt.Sprintf("Forecast failed: %v", s.Err)})
	} else {
		for _, line := range s.Summary.Lines() {
			out = append(out, Entry{Text: line})
		}
	}
	out = append(out, Entry{Separator: true})
	if s.Err == nil {
		out = append(out, Entry{Text: "View Charts", Action: ViewCharts})
	}
	out = append(out,
		Entry{Text: "Refresh", Action: Refresh},
		Entry{Separator: true},
		Entry{Text: "Quit", Action: Quit},
	)
	return out
}
