package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aayushbajaj/cafe-telemetry/internal/storage"
	"github.com/aayushbajaj/cafe-telemetry/pkg/compare"
	"github.com/aayushbajaj/cafe-telemetry/pkg/exclusion"
	"github.com/aayushbajaj/cafe-telemetry/pkg/stats"
)

// comparisonRangeDays is how far back the comparison looks.
const comparisonRangeDays = 90

const columnChartHeight = 10

type periodPreset struct {
	days       []int // storage convention
	start, end int
}

var periodPresets = []periodPreset{
	{[]int{1, 2, 3, 4, 5}, 9, 12},
	{[]int{1, 2, 3, 4, 5}, 14, 17},
	{[]int{0, 6}, 9, 12},
	{[]int{0, 6}, 14, 17},
	{[]int{0, 1, 2, 3, 4, 5, 6}, 7, 11},
	{[]int{0, 1, 2, 3, 4, 5, 6}, 11, 15},
	{[]int{6}, 7, 22},
}

func (p periodPreset) label() string {
	return compare.FormatDays(p.days) + ", " + compare.FormatHourRange(p.start, p.end)
}

var policies = []exclusion.Policy{exclusion.All, exclusion.GameDaysOnly, exclusion.NonGameOnly}

type comparePane struct {
	picker    picker
	searching bool
	item      *storage.Item

	presetA int
	presetB int
	mode    compare.ViewMode
	policy  int

	a, b   compare.Period
	result *compare.Result
	err    error
	seq    int
}

type compareMsg struct {
	seq    int
	a, b   compare.Period
	result compare.Result
	err    error
}

func newComparePane() comparePane {
	return comparePane{presetA: 0, presetB: 1, mode: compare.Hourly}
}

func (p *comparePane) receive(msg compareMsg) {
	if msg.seq != p.seq {
		return
	}
	if msg.err != nil {
		p.err = msg.err
		p.result = nil
		return
	}
	p.err = nil
	p.a, p.b = msg.a, msg.b
	res := msg.result
	p.result = &res
}

// runCompare queries both periods for the chosen item. Responses for an
// older request are dropped on arrival.
func (m *Model) runCompare() tea.Cmd {
	if m.cmp.item == nil {
		return nil
	}
	m.cmp.seq++
	seq := m.cmp.seq
	item := *m.cmp.item
	pa, pb := periodPresets[m.cmp.presetA], periodPresets[m.cmp.presetB]

	end := m.opts.Today()
	start := end.AddDays(-comparisonRangeDays)
	excl := exclusion.Exclusions(start, end, policies[m.cmp.policy], m.opts.GameDays)
	src := m.src

	return func() tea.Msg {
		query := func(p periodPreset) storage.PeriodQuery {
			return storage.PeriodQuery{
				ItemID:    item.ID,
				Start:     start,
				End:       end,
				Days:      p.days,
				StartHour: p.start,
				EndHour:   p.end,
				Exclude:   excl,
			}
		}
		a, err := src.PeriodTotals(query(pa))
		if err != nil {
			return compareMsg{seq: seq, err: err}
		}
		b, err := src.PeriodTotals(query(pb))
		if err != nil {
			return compareMsg{seq: seq, err: err}
		}
		res, err := compare.Compare(a, b)
		return compareMsg{seq: seq, a: a, b: b, result: res, err: err}
	}
}

func (m Model) handleCompareKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "/", "enter":
		m.cmp.searching = true
		return m, nil
	case "a":
		m.cmp.presetA = (m.cmp.presetA + 1) % len(periodPresets)
	case "b":
		m.cmp.presetB = (m.cmp.presetB + 1) % len(periodPresets)
	case "s":
		m.cmp.policy = (m.cmp.policy + 1) % len(policies)
	case "v":
		if m.cmp.mode == compare.Hourly {
			m.cmp.mode = compare.Total
		} else {
			m.cmp.mode = compare.Hourly
		}
		return m, nil
	default:
		return m, nil
	}
	cmd := m.runCompare()
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.cmp.searching = false
		return m, nil
	case tea.KeyEnter:
		it, ok := m.cmp.picker.current()
		if !ok {
			return m, nil
		}
		m.cmp.item = &it
		m.cmp.searching = false
		cmd := m.runCompare()
		return m, cmd
	case tea.KeyUp, tea.KeyCtrlP:
		m.cmp.picker.move(-1)
	case tea.KeyDown, tea.KeyCtrlN:
		m.cmp.picker.move(1)
	case tea.KeyBackspace:
		m.cmp.picker.backspace()
	case tea.KeySpace:
		m.cmp.picker.typeRune(" ")
	case tea.KeyRunes:
		m.cmp.picker.typeRune(string(msg.Runes))
	}
	return m, nil
}

// column renders one period as a bar whose height is linear in value.
func column(value, a, b float64, style func(...string) string) []string {
	h := int(math.Round(compare.HeightRatio(value, a, b) * columnChartHeight))
	if value > 0 && h < 1 {
		h = 1
	}
	rows := make([]string, columnChartHeight)
	for i := range rows {
		if columnChartHeight-i <= h {
			rows[i] = style(center("██████", 14))
		} else {
			rows[i] = strings.Repeat(" ", 14)
		}
	}
	return rows
}

func (m Model) renderCompare() string {
	var b strings.Builder
	p := m.cmp

	if p.err != nil && p.item == nil {
		return fmt.Sprintf("Error: %v", p.err)
	}

	if p.searching || p.item == nil {
		if p.item == nil && !p.searching {
			b.WriteString(statLabelStyle.Render("Press / to choose an item."))
			b.WriteString("\n\n")
		}
		b.WriteString(p.picker.view())
		return b.String()
	}

	b.WriteString(titleStyle.UnsetMarginBottom().Render(p.item.Name))
	b.WriteString("  " + statLabelStyle.Render(p.item.Category))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n\n",
		graphStyle.Render("A:"), periodPresets[p.presetA].label(),
		periodBStyle.Render("B:"), periodPresets[p.presetB].label(),
		statLabelStyle.Render("Saturdays:"), policies[p.policy]))

	if p.err != nil {
		b.WriteString(negativeStyle.Render(fmt.Sprintf("Error: %v", p.err)))
		return b.String()
	}
	if p.result == nil {
		b.WriteString("Loading...")
		return b.String()
	}

	value := func(per compare.Period) float64 {
		if p.mode == compare.Total {
			return per.Revenue
		}
		return per.AvgPerHour()
	}
	va, vb := value(p.a), value(p.b)
	colA := column(va, va, vb, graphStyle.Render)
	colB := column(vb, va, vb, periodBStyle.Render)
	for i := range colA {
		b.WriteString(colA[i] + "  " + colB[i] + "\n")
	}
	b.WriteString(statValueStyle.Render(center(stats.FormatCurrency(va), 14)))
	b.WriteString("  ")
	b.WriteString(statValueStyle.Render(center(stats.FormatCurrency(vb), 14)))
	b.WriteString("\n")
	b.WriteString(graphStyle.Render(center("Period A", 14)) + "  " + periodBStyle.Render(center("Period B", 14)))
	b.WriteString("\n\n")

	delta := p.result.Delta(p.mode)
	deltaStyle := positiveStyle
	if delta < 0 {
		deltaStyle = negativeStyle
	}
	unit := "per hour"
	if p.mode == compare.Total {
		unit = "total revenue"
	}
	content := fmt.Sprintf(
		"%s %s (%s)\n%s %d / %d\n%s %s / %s",
		statLabelStyle.Render("Change A→B:"),
		deltaStyle.Render(fmt.Sprintf("%+.1f%%", delta)),
		unit,
		statLabelStyle.Render("Days counted:"),
		p.a.DaysCounted, p.b.DaysCounted,
		statLabelStyle.Render("Avg per day:"),
		stats.FormatCurrency(p.a.AvgPerDay()), stats.FormatCurrency(p.b.AvgPerDay()),
	)
	b.WriteString(boxStyle.Render(content))
	return b.String()
}
