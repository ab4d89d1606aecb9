// Package server exposes forecasts, exclusions and comparison reports over a
// small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/aayushbajaj/cafe-telemetry/internal/cache"
	"github.com/aayushbajaj/cafe-telemetry/internal/forecast"
	"github.com/aayushbajaj/cafe-telemetry/internal/storage"
	"github.com/aayushbajaj/cafe-telemetry/pkg/calendar"
	"github.com/aayushbajaj/cafe-telemetry/pkg/compare"
	"github.com/aayushbajaj/cafe-telemetry/pkg/exclusion"
)

// ShutdownTimeout bounds how long in-flight requests get after a stop signal.
const ShutdownTimeout = 5 * time.Second

// Store is the slice of the sales database the API reads.
type Store interface {
	forecast.Source
	Items() ([]storage.Item, error)
	Item(id int64) (*storage.Item, error)
	PeriodTotals(q storage.PeriodQuery) (compare.Period, error)
	Heatmap(itemID int64, start, end calendar.Date, exclude exclusion.Set) (storage.Heatmap, error)
}

type Options struct {
	Addr              string
	TargetLaborPct    int
	GameDays          exclusion.Set
	MaxRequestsPerMin int
}

type Server struct {
	store  Store
	cache  cache.Cache
	log    *zap.Logger
	opts   Options
	today   func() calendar.Date
	router  *mux.Router
	handler http.Handler
}

func New(store Store, c cache.Cache, log *zap.Logger, opts Options) *Server {
	if c == nil {
		c = cache.NewMemory()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.GameDays == nil {
		opts.GameDays = exclusion.DefaultGameDays()
	}
	s := &Server{
		store:  store,
		cache:  c,
		log:    log,
		opts:   opts,
		today:  calendar.Today,
		router: mux.NewRouter(),
	}
	s.registerRoutes()

	// Wrapping the router, not r.Use, so unmatched paths get the chain too.
	var h http.Handler = s.router
	if opts.MaxRequestsPerMin > 0 {
		h = newRateLimiter(opts.MaxRequestsPerMin, log).middleware(h)
	}
	s.handler = requestID(s.logRequests(h))
	return s
}

func (s *Server) registerRoutes() {
	r := s.router

	r.HandleFunc("/ping", s.ping).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/items", s.listItems).Methods(http.MethodGet)
	api.HandleFunc("/forecasts/daily", s.dailyForecast).Methods(http.MethodGet)
	api.HandleFunc("/forecasts/daily/windows", s.dailyWindows).Methods(http.MethodGet)
	api.HandleFunc("/forecasts/hourly", s.hourlyForecast).Methods(http.MethodGet)
	api.HandleFunc("/exclusions", s.exclusions).Methods(http.MethodGet)
	api.HandleFunc("/reports/time-period-comparison", s.timePeriodComparison).Methods(http.MethodGet)
	api.HandleFunc("/reports/item-heatmap", s.itemHeatmap).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting server", zap.String("addr", s.opts.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("server exiting")
	return nil
}
