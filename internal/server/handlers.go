package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/aayushbajaj/cafe-telemetry/internal/cache"
	"github.com/aayushbajaj/cafe-telemetry/internal/forecast"
	"github.com/aayushbajaj/cafe-telemetry/internal/storage"
	"github.com/aayushbajaj/cafe-telemetry/pkg/calendar"
	"github.com/aayushbajaj/cafe-telemetry/pkg/compare"
	"github.com/aayushbajaj/cafe-telemetry/pkg/exclusion"
	"github.com/aayushbajaj/cafe-telemetry/pkg/windows"
)

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Cached  bool        `json:"cached,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, data interface{}, cached bool) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Cached: cached})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

// fail maps err onto a status: bad parameters are the caller's fault, the
// rest is ours.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var pe *paramError
	switch {
	case errors.As(err, &pe):
		writeError(w, http.StatusBadRequest, pe.msg)
	case errors.Is(err, compare.ErrUnconfigured):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, sql.ErrNoRows):
		writeError(w, http.StatusNotFound, "item not found")
	default:
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) ping(w http.ResponseWriter, _ *http.Request) {
	writeData(w, "pong", false)
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.Items()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if items == nil {
		items = []storage.Item{}
	}
	writeData(w, items, false)
}

func (s *Server) daily(r *http.Request) ([]windows.DailyRecord, bool, error) {
	today := s.today()
	return cache.Fetch(r.Context(), s.cache, cache.Key("daily", today), cache.ForecastTTL,
		func(ctx context.Context) ([]windows.DailyRecord, error) {
			return forecast.Daily(ctx, s.store, today)
		})
}

func (s *Server) dailyForecast(w http.ResponseWriter, r *http.Request) {
	records, cached, err := s.daily(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, records, cached)
}

type windowJSON struct {
	Index  int                    `json:"index"`
	Label  string                 `json:"label"`
	Anchor calendar.Date          `json:"anchor"`
	Slots  []*windows.DailyRecord `json:"slots"`
	Peak   float64                `json:"peak"`
}

func (s *Server) dailyWindows(w http.ResponseWriter, r *http.Request) {
	records, cached, err := s.daily(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	parts := windows.Partition(records)
	out := make([]windowJSON, 0, len(parts))
	for _, win := range parts {
		wj := windowJSON{
			Index:  win.Index,
			Label:  win.Label(),
			Anchor: win.Anchor,
			Slots:  make([]*windows.DailyRecord, 7),
			Peak:   windows.Peak(win.Records),
		}
		for i := range wj.Slots {
			if rec, ok := win.Slot(i); ok {
				rec := rec
				wj.Slots[i] = &rec
			}
		}
		out = append(out, wj)
	}
	writeData(w, out, cached)
}

func (s *Server) hourlyForecast(w http.ResponseWriter, r *http.Request) {
	pct, err := intParam(r.URL.Query(), "target_pct", s.opts.TargetLaborPct)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if pct < forecast.MinTargetLaborPct || pct > forecast.MaxTargetLaborPct {
		pct = forecast.DefaultTargetLaborPct
	}

	today := s.today()
	records, cached, err := cache.Fetch(r.Context(), s.cache, cache.Key("hourly", today, strconv.Itoa(pct)), cache.ForecastTTL,
		func(ctx context.Context) ([]windows.HourlyRecord, error) {
			return forecast.Hourly(ctx, s.store, today, forecast.HourlyOptions{TargetLaborPct: pct})
		})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, records, cached)
}

func (s *Server) excluded(r *http.Request, start, end calendar.Date, key string) (exclusion.Set, exclusion.Policy, error) {
	policy, err := exclusion.ParsePolicy(r.URL.Query().Get(key))
	if err != nil {
		return nil, policy, badParam("%s: %v", key, err)
	}
	return exclusion.Exclusions(start, end, policy, s.opts.GameDays), policy, nil
}

func (s *Server) exclusions(w http.ResponseWriter, r *http.Request) {
	start, end, err := dateRange(r.URL.Query(), s.today())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	set, policy, err := s.excluded(r, start, end, "policy")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, map[string]interface{}{
		"policy": policy.String(),
		"start":  start,
		"end":    end,
		"dates":  set.Strings(),
	}, false)
}

type periodJSON struct {
	compare.Period
	Label     string  `json:"label"`
	AvgPerDay float64 `json:"avg_per_day"`
}

func (s *Server) timePeriodComparison(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	itemID, err := itemParam(q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	start, end, err := dateRange(q, s.today())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	excl, policy, err := s.excluded(r, start, end, "saturday_filter")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	weekdays := []int{1, 2, 3, 4, 5}
	read := func(prefix string, defStart, defEnd int) (storage.PeriodQuery, error) {
		pq := storage.PeriodQuery{ItemID: itemID, Start: start, End: end, Exclude: excl}
		var err error
		if pq.Days, err = daysParam(q, prefix+"_days", weekdays); err != nil {
			return pq, err
		}
		if len(pq.Days) == 0 {
			return pq, badParam("%s_days must select at least one day", prefix)
		}
		if pq.StartHour, err = intParam(q, prefix+"_start_hour", defStart); err != nil {
			return pq, err
		}
		if pq.EndHour, err = intParam(q, prefix+"_end_hour", defEnd); err != nil {
			return pq, err
		}
		p := compare.Period{Days: pq.Days, StartHour: pq.StartHour, EndHour: pq.EndHour}
		if err := p.Validate(); err != nil {
			return pq, badParam("%s: %v", prefix, err)
		}
		return pq, nil
	}

	qa, err := read("period_a", 9, 12)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	qb, err := read("period_b", 14, 17)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	item, err := s.store.Item(itemID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	a, err := s.store.PeriodTotals(qa)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	b, err := s.store.PeriodTotals(qb)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	result, err := compare.Compare(a, b)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	wrap := func(p compare.Period) periodJSON {
		return periodJSON{
			Period:    p,
			Label:     compare.FormatDays(p.Days) + ", " + compare.FormatHourRange(p.StartHour, p.EndHour),
			AvgPerDay: p.AvgPerDay(),
		}
	}
	writeData(w, map[string]interface{}{
		"item_id":         item.ID,
		"item_name":       item.Name,
		"category":        item.Category,
		"date_range":      map[string]calendar.Date{"start": start, "end": end},
		"saturday_filter": policy.String(),
		"excluded_dates":  excl.Strings(),
		"period_a":        wrap(a),
		"period_b":        wrap(b),
		"comparison":      result,
	}, false)
}

func (s *Server) itemHeatmap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	itemID, err := itemParam(q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	start, end, err := dateRange(q, s.today())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	excl, _, err := s.excluded(r, start, end, "saturday_filter")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	hm, err := s.store.Heatmap(itemID, start, end, excl)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	cells := []storage.HeatmapCell{}
	for display := 0; display < 7; display++ {
		for hour := 0; hour < 24; hour++ {
			if c, ok := hm.Cell(display, hour); ok {
				cells = append(cells, c)
			}
		}
	}
	writeData(w, cells, false)
}
