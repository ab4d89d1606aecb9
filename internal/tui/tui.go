// Package tui is the terminal dashboard: a week-by-week daily forecast, a
// day-by-day hourly forecast and an item comparison, each on its own tab.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/aayushbajaj/cafe-telemetry/internal/carousel"
	"github.com/aayushbajaj/cafe-telemetry/internal/forecast"
	"github.com/aayushbajaj/cafe-telemetry/internal/storage"
	"github.com/aayushbajaj/cafe-telemetry/pkg/calendar"
	"github.com/aayushbajaj/cafe-telemetry/pkg/compare"
	"github.com/aayushbajaj/cafe-telemetry/pkg/exclusion"
	"github.com/aayushbajaj/cafe-telemetry/pkg/windows"
)

type Tab int

const (
	DailyTab Tab = iota
	HourlyTab
	CompareTab
)

var tabNames = []string{"Daily", "Hourly", "Compare"}

// Source is the data the dashboard reads.
type Source interface {
	forecast.Source
	Items() ([]storage.Item, error)
	PeriodTotals(q storage.PeriodQuery) (compare.Period, error)
}

type Options struct {
	TargetLaborPct int
	GameDays       exclusion.Set
	Theme          string
	Logger         *zap.Logger
	Today          func() calendar.Date
}

type Model struct {
	src  Source
	opts Options
	log  *zap.Logger

	tab Tab

	daily        []windows.Window[windows.DailyRecord]
	dailyCursor  carousel.Cursor
	hourly       []windows.HourlyRecord
	hourlyCursor carousel.Cursor
	loaded       bool

	cmp comparePane

	dragging     bool
	dragX, dragY int

	width  int
	height int
	err    error
}

type forecastMsg struct {
	daily  []windows.DailyRecord
	hourly []windows.HourlyRecord
	err    error
}

type itemsMsg struct {
	items []storage.Item
	err   error
}

// settleMsg ends a tab's carousel transition.
type settleMsg struct{ tab Tab }

func New(src Source, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Today == nil {
		opts.Today = calendar.Today
	}
	if opts.GameDays == nil {
		opts.GameDays = exclusion.DefaultGameDays()
	}
	if opts.Theme != "" {
		SetTheme(opts.Theme)
	}
	return Model{
		src:  src,
		opts: opts,
		log:  opts.Logger,
		cmp:  newComparePane(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchForecasts, m.fetchItems)
}

func (m Model) fetchForecasts() tea.Msg {
	ctx := context.Background()
	today := m.opts.Today()

	daily, err := forecast.Daily(ctx, m.src, today)
	if err != nil {
		return forecastMsg{err: err}
	}
	hourly, err := forecast.Hourly(ctx, m.src, today, forecast.HourlyOptions{TargetLaborPct: m.opts.TargetLaborPct})
	if err != nil {
		return forecastMsg{err: err}
	}
	return forecastMsg{daily: daily, hourly: hourly}
}

func (m Model) fetchItems() tea.Msg {
	items, err := m.src.Items()
	return itemsMsg{items: items, err: err}
}

func settleAfter(tab Tab) tea.Cmd {
	return tea.Tick(carousel.SettleDuration, func(time.Time) tea.Msg {
		return settleMsg{tab: tab}
	})
}

// cursor returns the carousel owned by tab, or nil for the comparison tab.
func (m *Model) cursor(tab Tab) *carousel.Cursor {
	switch tab {
	case DailyTab:
		return &m.dailyCursor
	case HourlyTab:
		return &m.hourlyCursor
	}
	return nil
}

// navigate funnels every navigation source through the active tab's cursor.
func (m Model) navigate(in carousel.Input) (Model, tea.Cmd) {
	c := m.cursor(m.tab)
	if c == nil || !c.Apply(in) {
		return m, nil
	}
	return m, settleAfter(m.tab)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case forecastMsg:
		if msg.err != nil {
			m.log.Error("forecast failed", zap.Error(msg.err))
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.loaded = true
		m.daily = windows.Partition(msg.daily)
		m.hourly = msg.hourly
		m.dailyCursor.Reset(len(m.daily))
		m.hourlyCursor.Reset(len(m.hourly))
		m.log.Debug("forecast loaded",
			zap.Int("weeks", len(m.daily)),
			zap.Int("days", len(m.hourly)))

	case itemsMsg:
		if msg.err != nil {
			m.log.Error("load items failed", zap.Error(msg.err))
			m.cmp.err = msg.err
			return m, nil
		}
		m.cmp.picker = newPicker(msg.items)

	case compareMsg:
		m.cmp.receive(msg)
		if msg.err != nil {
			m.log.Warn("comparison failed", zap.Error(msg.err))
		}

	case settleMsg:
		if c := m.cursor(msg.tab); c != nil {
			c.Settle()
		}
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.tab == CompareTab && m.cmp.searching {
		return m.handleSearchKey(msg)
	}

	switch key {
	case "q", "esc":
		return m, tea.Quit
	case "tab":
		m.tab = (m.tab + 1) % Tab(len(tabNames))
		return m, nil
	case "shift+tab":
		m.tab = (m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
		return m, nil
	case "t":
		name := NextTheme()
		m.log.Debug("theme changed", zap.String("theme", name))
		return m, nil
	case "r":
		m.log.Debug("refetching forecasts")
		cmds := []tea.Cmd{m.fetchForecasts, m.fetchItems}
		if cmd := m.runCompare(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	if m.tab == CompareTab {
		return m.handleCompareKey(key)
	}

	if in, ok := carousel.KeyInput(key); ok {
		return m.navigate(in)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease {
		return m, nil
	}
	switch msg.Action {
	case tea.MouseActionPress:
		m.dragging = true
		m.dragX, m.dragY = msg.X, msg.Y
	case tea.MouseActionRelease:
		if !m.dragging {
			return m, nil
		}
		m.dragging = false
		return m.navigate(carousel.SwipeInput{DX: msg.X - m.dragX, DY: msg.Y - m.dragY})
	}
	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress r to retry or q to quit.", m.err)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("☕ Cafe Telemetry"))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.tab {
	case DailyTab:
		b.WriteString(m.renderDaily())
	case HourlyTab:
		b.WriteString(m.renderHourly())
	case CompareTab:
		b.WriteString(m.renderCompare())
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) renderTabs() string {
	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		if Tab(i) == m.tab {
			parts[i] = activeTabStyle.Render(name)
		} else {
			parts[i] = tabStyle.Render(name)
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) help() string {
	switch {
	case m.tab == CompareTab && m.cmp.searching:
		return "type to filter • ↑/↓: select • enter: compare • esc: done"
	case m.tab == CompareTab:
		return "/: find item • a/b: change period • v: hourly/total • s: saturday filter • tab: switch • t: theme • r: refresh • q: quit"
	}
	return "←/→ h/l: navigate • 1-9: jump • drag: swipe • tab: switch • t: theme • r: refresh • q: quit"
}
