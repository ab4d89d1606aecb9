package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/aayushbajaj/cafe-telemetry/internal/carousel"
	"github.com/aayushbajaj/cafe-telemetry/pkg/calendar"
	"github.com/aayushbajaj/cafe-telemetry/pkg/stats"
	"github.com/aayushbajaj/cafe-telemetry/pkg/windows"
)

const (
	weekGraphHeight = 8
	columnWidth     = 8
	hourBarWidth    = 30
)

// navHeader renders "‹ label ›", dimming arrows that lead nowhere.
func navHeader(label string, c carousel.State) string {
	left, right := gapStyle.Render(" "), gapStyle.Render(" ")
	if c.CanPrev() {
		left = graphStyle.Render("‹")
	}
	if c.CanNext() {
		right = graphStyle.Render("›")
	}
	return left + " " + titleStyle.UnsetMarginBottom().Render(label) + " " + right
}

func dots(c carousel.State) string {
	var b strings.Builder
	for i := 0; i < c.WindowCount; i++ {
		if i == c.CurrentIndex {
			b.WriteString(graphStyle.Render("●"))
		} else {
			b.WriteString(gapStyle.Render("○"))
		}
		if i < c.WindowCount-1 {
			b.WriteString(" ")
		}
	}
	return b.String()
}

func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

// barHeight scales value into [0, rows]. Any positive value gets at least
// one row so it is distinguishable from zero.
func barHeight(value, peak float64, rows int) int {
	if value <= 0 || peak <= 0 {
		return 0
	}
	h := int(math.Round(value / peak * float64(rows)))
	if h < 1 {
		h = 1
	}
	if h > rows {
		h = rows
	}
	return h
}

// weekGraph draws one window as seven columns, Monday first. Days outside
// the forecast render as gaps, not as zero bars.
func weekGraph(w windows.Window[windows.DailyRecord]) string {
	peak := windows.Peak(w.Records)

	heights := make([]int, 7)
	present := make([]bool, 7)
	labels := make([]string, 7)
	for i := 0; i < 7; i++ {
		if rec, ok := w.Slot(i); ok {
			present[i] = true
			heights[i] = barHeight(rec.Value, peak, weekGraphHeight)
			labels[i] = stats.FormatCompact(rec.Value)
		}
	}

	var b strings.Builder
	for row := weekGraphHeight; row >= 1; row-- {
		for i := 0; i < 7; i++ {
			switch {
			case !present[i] && row == 1:
				b.WriteString(gapStyle.Render(center("·", columnWidth)))
			case present[i] && heights[i] >= row:
				b.WriteString(graphStyle.Render(center("█████", columnWidth)))
			default:
				b.WriteString(strings.Repeat(" ", columnWidth))
			}
		}
		b.WriteString("\n")
	}
	for i := 0; i < 7; i++ {
		if present[i] {
			b.WriteString(statValueStyle.Render(center(labels[i], columnWidth)))
		} else {
			b.WriteString(gapStyle.Render(center("—", columnWidth)))
		}
	}
	b.WriteString("\n")
	for i := 0; i < 7; i++ {
		b.WriteString(statLabelStyle.Render(center(calendar.DisplayName(i), columnWidth)))
	}
	return b.String()
}

func (m Model) renderDaily() string {
	if !m.loaded {
		return "Loading..."
	}
	if len(m.daily) == 0 {
		return statLabelStyle.Render("No forecast available")
	}

	w := m.daily[m.dailyCursor.CurrentIndex]
	sum := stats.Summarise(w.Records)

	var b strings.Builder
	b.WriteString(navHeader(w.Label(), m.dailyCursor.State()))
	b.WriteString("\n\n")
	b.WriteString(weekGraph(w))
	b.WriteString("\n\n")

	content := fmt.Sprintf(
		"%s %s\n%s %s\n%s %s",
		statLabelStyle.Render("Total:"),
		statValueStyle.Render(stats.FormatCurrency(sum.Total)),
		statLabelStyle.Render("Daily Avg:"),
		statValueStyle.Render(stats.FormatCurrency(sum.AvgPerDay)),
		statLabelStyle.Render("Busiest:"),
		statValueStyle.Render(peakLabel(sum.PeakDay, sum.PeakValue)),
	)
	b.WriteString(boxStyle.Render(content))
	b.WriteString("\n")
	b.WriteString(dots(m.dailyCursor.State()))
	return b.String()
}

func peakLabel(name string, value float64) string {
	if name == "" {
		return "—"
	}
	return fmt.Sprintf("%s (%s)", name, stats.FormatCurrency(value))
}

func hourBar(value, peak float64) string {
	n := 0
	if value > 0 && peak > 0 {
		n = int(math.Round(value / peak * hourBarWidth))
		if n < 1 {
			n = 1
		}
	}
	return graphStyle.Render(strings.Repeat("█", n)) + strings.Repeat(" ", hourBarWidth-n)
}

func (m Model) renderHourly() string {
	if !m.loaded {
		return "Loading..."
	}
	if len(m.hourly) == 0 {
		return statLabelStyle.Render("No forecast available")
	}

	rec := m.hourly[m.hourlyCursor.CurrentIndex]
	peak := windows.HourlyPeak([]windows.HourlyRecord{rec})

	var b strings.Builder
	b.WriteString(navHeader(fmt.Sprintf("%s %s", rec.DayOfWeek, rec.Date), m.hourlyCursor.State()))
	b.WriteString("\n\n")
	for _, h := range rec.HourlyData {
		b.WriteString(statLabelStyle.Render(h.Hour))
		b.WriteString(" ")
		b.WriteString(hourBar(h.Value, peak))
		b.WriteString(" ")
		b.WriteString(statValueStyle.Render(fmt.Sprintf("%-7s", stats.FormatCompact(h.Value))))
		b.WriteString(" ")
		b.WriteString(statLabelStyle.Render(h.StudentHours))
		b.WriteString("\n")
	}

	peakHour, peakValue := stats.FindPeakHour(rec.HourlyData)
	content := fmt.Sprintf(
		"%s %s\n%s %s\n%s %s",
		statLabelStyle.Render("Total:"),
		statValueStyle.Render(stats.FormatCurrency(rec.Total())),
		statLabelStyle.Render("Peak Hour:"),
		statValueStyle.Render(peakLabel(peakHour, peakValue)),
		statLabelStyle.Render("Basis:"),
		statValueStyle.Render(rec.Basis),
	)
	b.WriteString("\n")
	b.WriteString(boxStyle.Render(content))
	b.WriteString("\n")
	b.WriteString(dots(m.hourlyCursor.State()))
	return b.String()
}
