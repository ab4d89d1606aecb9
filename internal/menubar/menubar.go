//go:build darwin

// Package menubar shows tomorrow's forecast in the macOS menu bar.
package menubar

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/caseymrm/menuet"
	"go.uber.org/zap"

	"github.com/aayushbajaj/cafe-telemetry/internal/chart"
	"github.com/aayushbajaj/cafe-telemetry/internal/storage"
	"github.com/aayushbajaj/cafe-telemetry/pkg/calendar"
)

// refreshInterval is how often the forecast is recomputed.
const refreshInterval = 15 * time.Minute

type App struct {
	store          *storage.Store
	log            *zap.Logger
	targetLaborPct int

	mu   sync.Mutex
	snap Snapshot
}

func New(store *storage.Store, log *zap.Logger, targetLaborPct int) *App {
	return &App{store: store, log: log, targetLaborPct: targetLaborPct}
}

func (a *App) Run() {
	go a.updateLoop()

	menuet.App().Label = "com.cafetel.menubar"
	menuet.App().Children = a.menuItems

	menuet.App().RunApplication()
}

func (a *App) updateLoop() {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		a.refresh()
		<-ticker.C
	}
}

func (a *App) refresh() {
	snap := Load(context.Background(), a.store, calendar.Today(), a.targetLaborPct, a.log)
	a.mu.Lock()
	a.snap = snap
	a.mu.Unlock()

	menuet.App().SetMenuState(&menuet.MenuState{Title: snap.Title()})
}

func (a *App) menuItems() []menuet.MenuItem {
	a.mu.Lock()
	snap := a.snap
	a.mu.Unlock()

	var items []menuet.MenuItem
	for _, e := range snap.Entries() {
		if e.Separator {
			items = append(items, menuet.MenuItem{Type: menuet.Separator})
			continue
		}
		item := menuet.MenuItem{Text: e.Text}
		switch e.Action {
		case ViewCharts:
			item.Clicked = a.viewCharts
		case Refresh:
			item.Clicked = a.refresh
		case Quit:
			item.Clicked = a.quit
		}
		items = append(items, item)
	}
	return items
}

// viewCharts writes the forecast page into the data dir and opens it in the
// default browser.
func (a *App) viewCharts() {
	a.mu.Lock()
	daily, hourly := a.snap.Daily, a.snap.Hourly
	a.mu.Unlock()

	dir, err := storage.DataDir()
	if err != nil {
		a.log.Error("data dir", zap.Error(err))
		return
	}
	path := filepath.Join(dir, "forecast.html")
	if err := chart.WriteFile(path, func(w io.Writer) error {
		return chart.RenderForecast(w, daily, hourly)
	}); err != nil {
		a.log.Error("write charts", zap.Error(err))
		return
	}
	if err := exec.Command("open", path).Start(); err != nil {
		a.log.Error("open charts", zap.Error(err))
	}
}

func (a *App) quit() {
	a.log.Info("quitting")
	_ = a.log.Sync()
	os.Exit(0)
}
