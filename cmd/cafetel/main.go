package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aayushbajaj/cafe-telemetry/internal/cache"
	"github.com/aayushbajaj/cafe-telemetry/internal/chart"
	"github.com/aayushbajaj/cafe-telemetry/internal/config"
	"github.com/aayushbajaj/cafe-telemetry/internal/forecast"
	"github.com/aayushbajaj/cafe-telemetry/internal/logging"
	"github.com/aayushbajaj/cafe-telemetry/internal/server"
	"github.com/aayushbajaj/cafe-telemetry/internal/storage"
	"github.com/aayushbajaj/cafe-telemetry/internal/tui"
	"github.com/aayushbajaj/cafe-telemetry/pkg/calendar"
	"github.com/aayushbajaj/cafe-telemetry/pkg/compare"
	"github.com/aayushbajaj/cafe-telemetry/pkg/exclusion"
	"github.com/aayushbajaj/cafe-telemetry/pkg/stats"
	"github.com/aayushbajaj/cafe-telemetry/pkg/windows"
)

var (
	configFile string
	dbPath     string
	asOf       string
	jsonOut    bool
	targetPct  int

	// compare flags
	itemID         int64
	rangeStart     string
	rangeEnd       string
	aDays, bDays   string
	aStart, aEnd   int
	bStart, bEnd   int
	saturdayFilter string
	viewMode       string
	compareChart   string

	chartOut   string
	policyName string

	// seed flags
	seedFrom  string
	seedTo    string
	seedValue int64
)

var rootCmd = &cobra.Command{
	Use:   "cafetel",
	Short: "Cafe telemetry - sales forecasts and comparisons",
	Long:  `Forecasts cafe revenue three weeks ahead from recent sales history and compares item sales across time periods.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the forecast and report API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Print the 21-day forecast",
}

var forecastDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Print the daily revenue forecast",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showDailyForecast(cmd.OutOrStdout())
	},
}

var forecastHourlyCmd = &cobra.Command{
	Use:   "hourly",
	Short: "Print the hourly revenue forecast with staffing hints",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showHourlyForecast(cmd.OutOrStdout())
	},
}

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "Print the daily forecast grouped into calendar weeks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showWindows(cmd.OutOrStdout())
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare an item's sales between two day/hour periods",
	Long: `Compare an item's revenue between two periods, each a set of weekdays
and an hour range. Day numbers run Sunday=0 to Saturday=6.

Examples:
  cafetel compare --item 3                                  # weekday mornings vs afternoons
  cafetel compare --item 3 --a-days 0,6 --b-days 1,2,3,4,5  # weekends vs weekdays
  cafetel compare --item 3 --saturday-filter gamedays --chart out.html`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(cmd.OutOrStdout())
	},
}

var exclusionsCmd = &cobra.Command{
	Use:   "exclusions",
	Short: "List the dates a Saturday filter leaves out",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showExclusions(cmd.OutOrStdout())
	},
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Write the forecast charts to an HTML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeChart(cmd.OutOrStdout())
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with synthetic demo sales",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a cafetel.yaml config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the sales database (overrides CAFETEL_DB_PATH)")

	for _, c := range []*cobra.Command{forecastDailyCmd, forecastHourlyCmd, windowsCmd, chartCmd} {
		c.Flags().StringVar(&asOf, "today", "", "Forecast as of this date (YYYY-MM-DD)")
	}
	forecastDailyCmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON")
	forecastHourlyCmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON")
	forecastHourlyCmd.Flags().IntVar(&targetPct, "target-pct", 0, "Target labor percentage (15-40)")
	chartCmd.Flags().StringVarP(&chartOut, "out", "o", "forecast.html", "Output HTML file")

	compareCmd.Flags().Int64Var(&itemID, "item", 0, "Item id")
	compareCmd.Flags().StringVar(&rangeStart, "start", "", "Range start (default 90 days ago)")
	compareCmd.Flags().StringVar(&rangeEnd, "end", "", "Range end (default today)")
	compareCmd.Flags().StringVar(&aDays, "a-days", "1,2,3,4,5", "Period A day numbers")
	compareCmd.Flags().IntVar(&aStart, "a-start", 9, "Period A start hour")
	compareCmd.Flags().IntVar(&aEnd, "a-end", 12, "Period A end hour (exclusive)")
	compareCmd.Flags().StringVar(&bDays, "b-days", "1,2,3,4,5", "Period B day numbers")
	compareCmd.Flags().IntVar(&bStart, "b-start", 14, "Period B start hour")
	compareCmd.Flags().IntVar(&bEnd, "b-end", 17, "Period B end hour (exclusive)")
	compareCmd.Flags().StringVar(&saturdayFilter, "saturday-filter", "all", "all, gamedays or non-game")
	compareCmd.Flags().StringVar(&viewMode, "mode", "hourly", "hourly or total")
	compareCmd.Flags().StringVar(&compareChart, "chart", "", "Also write a comparison chart to this HTML file")
	_ = compareCmd.MarkFlagRequired("item")

	exclusionsCmd.Flags().StringVar(&rangeStart, "start", "", "Range start (default 90 days ago)")
	exclusionsCmd.Flags().StringVar(&rangeEnd, "end", "", "Range end (default today)")
	exclusionsCmd.Flags().StringVar(&policyName, "policy", "gamedays", "all, gamedays or non-game")

	seedCmd.Flags().StringVar(&seedFrom, "from", "", "First day to seed (default 8 weeks ago)")
	seedCmd.Flags().StringVar(&seedTo, "to", "", "Last day to seed (default yesterday)")
	seedCmd.Flags().Int64Var(&seedValue, "seed", 0, "Random seed (default: time based)")

	forecastCmd.AddCommand(forecastDailyCmd)
	forecastCmd.AddCommand(forecastHourlyCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(windowsCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(exclusionsCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Options{ConfigFile: configFile})
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*storage.Store, error) {
	var (
		store *storage.Store
		err   error
	)
	if cfg.DBPath != "" {
		store, err = storage.Open(cfg.DBPath)
	} else {
		store, err = storage.New()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return store, nil
}

func today() (calendar.Date, error) {
	if asOf == "" {
		return calendar.Today(), nil
	}
	d, err := calendar.Parse(asOf)
	if err != nil {
		return d, fmt.Errorf("--today: %w", err)
	}
	return d, nil
}

func dateRange() (calendar.Date, calendar.Date, error) {
	end := calendar.Today()
	if rangeEnd != "" {
		d, err := calendar.Parse(rangeEnd)
		if err != nil {
			return d, d, fmt.Errorf("--end: %w", err)
		}
		end = d
	}
	start := end.AddDays(-server.DefaultRangeDays)
	if rangeStart != "" {
		d, err := calendar.Parse(rangeStart)
		if err != nil {
			return d, d, fmt.Errorf("--start: %w", err)
		}
		start = d
	}
	return start, end, nil
}

func parseDays(s string) ([]int, error) {
	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil || d < 0 || d > 6 {
			return nil, fmt.Errorf("%q is not a day number 0-6", part)
		}
		days = append(days, d)
	}
	return days, nil
}

func runTUI() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dataDir, err := storage.DataDir()
	if err != nil {
		return err
	}
	logger, err := logging.NewFile(cfg.LogLevel, cfg.IsProduction(), filepath.Join(dataDir, "logs", "cafetel.log"))
	if err != nil {
		return err
	}
	defer logger.Sync()

	gameDays, err := cfg.GameDaySet()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	model := tui.New(store, tui.Options{
		TargetLaborPct: cfg.TargetLaborPct,
		GameDays:       gameDays,
		Theme:          cfg.Theme,
		Logger:         logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		return err
	}
	defer logger.Sync()

	gameDays, err := cfg.GameDaySet()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var c cache.Cache = cache.NewMemory()
	if cfg.RedisAddr != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		rc, err := cache.NewRedis(pingCtx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		cancel()
		if err != nil {
			logger.Warn("redis unavailable, caching in memory", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
			c = rc
		}
	}
	defer c.Close()

	srv := server.New(store, c, logger, server.Options{
		Addr:              cfg.HTTPAddr,
		TargetLaborPct:    cfg.TargetLaborPct,
		GameDays:          gameDays,
		MaxRequestsPerMin: cfg.MaxRequestsPerMin,
	})
	return srv.Run(ctx)
}

func withStore(fn func(cfg *config.Config, store *storage.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cfg, store)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func showDailyForecast(w io.Writer) error {
	day, err := today()
	if err != nil {
		return err
	}
	return withStore(func(_ *config.Config, store *storage.Store) error {
		records, err := forecast.Daily(context.Background(), store, day)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(w, records)
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "DATE\tDAY\tFORECAST\tBASIS")
		for _, r := range records {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Date, r.DayOfWeek, stats.FormatCurrency(r.Value), r.Basis)
		}
		return tw.Flush()
	})
}

func showHourlyForecast(w io.Writer) error {
	day, err := today()
	if err != nil {
		return err
	}
	return withStore(func(cfg *config.Config, store *storage.Store) error {
		pct := targetPct
		if pct == 0 {
			pct = cfg.TargetLaborPct
		}
		records, err := forecast.Hourly(context.Background(), store, day, forecast.HourlyOptions{TargetLaborPct: pct})
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(w, records)
		}

		for _, r := range records {
			fmt.Fprintf(w, "%s %s  total %s\n", r.DayOfWeek, r.Date, stats.FormatCurrency(r.Total()))
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			for _, h := range r.HourlyData {
				fmt.Fprintf(tw, "  %s\t%s\t%s\n", h.Hour, stats.FormatCurrency(h.Value), h.StudentHours)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
		}
		return nil
	})
}

func showWindows(w io.Writer) error {
	day, err := today()
	if err != nil {
		return err
	}
	return withStore(func(_ *config.Config, store *storage.Store) error {
		records, err := forecast.Daily(context.Background(), store, day)
		if err != nil {
			return err
		}
		for _, win := range windows.Partition(records) {
			fmt.Fprintf(w, "%d. %s\n", win.Index+1, win.Label())
			for i := 0; i < 7; i++ {
				rec, ok := win.Slot(i)
				if !ok {
					fmt.Fprintf(w, "   %s  -\n", calendar.DisplayName(i))
					continue
				}
				fmt.Fprintf(w, "   %s  %s\n", calendar.DisplayName(i), stats.FormatCurrency(rec.Value))
			}
		}
		return nil
	})
}

func runCompare(w io.Writer) error {
	start, end, err := dateRange()
	if err != nil {
		return err
	}
	policy, err := exclusion.ParsePolicy(saturdayFilter)
	if err != nil {
		return err
	}
	mode, err := compare.ParseViewMode(viewMode)
	if err != nil {
		return err
	}
	daysA, err := parseDays(aDays)
	if err != nil {
		return fmt.Errorf("--a-days: %w", err)
	}
	daysB, err := parseDays(bDays)
	if err != nil {
		return fmt.Errorf("--b-days: %w", err)
	}
	if err := (compare.Period{Days: daysA, StartHour: aStart, EndHour: aEnd}).Validate(); err != nil {
		return fmt.Errorf("period A: %w", err)
	}
	if err := (compare.Period{Days: daysB, StartHour: bStart, EndHour: bEnd}).Validate(); err != nil {
		return fmt.Errorf("period B: %w", err)
	}

	return withStore(func(cfg *config.Config, store *storage.Store) error {
		gameDays, err := cfg.GameDaySet()
		if err != nil {
			return err
		}
		item, err := store.Item(itemID)
		if err != nil {
			return fmt.Errorf("item %d: %w", itemID, err)
		}
		excl := exclusion.Exclusions(start, end, policy, gameDays)

		a, err := store.PeriodTotals(storage.PeriodQuery{
			ItemID: itemID, Start: start, End: end,
			Days: daysA, StartHour: aStart, EndHour: aEnd, Exclude: excl,
		})
		if err != nil {
			return fmt.Errorf("period A: %w", err)
		}
		b, err := store.PeriodTotals(storage.PeriodQuery{
			ItemID: itemID, Start: start, End: end,
			Days: daysB, StartHour: bStart, EndHour: bEnd, Exclude: excl,
		})
		if err != nil {
			return fmt.Errorf("period B: %w", err)
		}
		res, err := compare.Compare(a, b)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%s (%s), %s to %s, saturdays: %s\n", item.Name, item.Category, start, end, policy)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "PERIOD\tDAYS\tHOURS\tREVENUE\tDAYS COUNTED\tPER HOUR\tUNITS")
		for _, row := range []struct {
			name string
			p    compare.Period
		}{{"A", a}, {"B", b}} {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%.0f\n",
				row.name, compare.FormatDays(row.p.Days), compare.FormatHourRange(row.p.StartHour, row.p.EndHour),
				stats.FormatCurrency(row.p.Revenue), row.p.DaysCounted,
				stats.FormatCurrency(row.p.AvgPerHour()), row.p.UnitsSold)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(w, "Change A to B (%s): %+.1f%%\n", mode, res.Delta(mode))

		if compareChart != "" {
			err := chart.WriteFile(compareChart, func(out io.Writer) error {
				return chart.RenderComparison(out, item.Name, a, b, res, mode)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Chart written to %s\n", compareChart)
		}
		return nil
	})
}

func showExclusions(w io.Writer) error {
	start, end, err := dateRange()
	if err != nil {
		return err
	}
	policy, err := exclusion.ParsePolicy(policyName)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	gameDays, err := cfg.GameDaySet()
	if err != nil {
		return err
	}

	set := exclusion.Exclusions(start, end, policy, gameDays)
	fmt.Fprintf(w, "%d dates excluded (%s, %s to %s)\n", set.Len(), policy, start, end)
	for _, d := range set.Sorted() {
		fmt.Fprintf(w, "  %s %s\n", d, d.WeekdayName())
	}
	return nil
}

func writeChart(w io.Writer) error {
	day, err := today()
	if err != nil {
		return err
	}
	return withStore(func(cfg *config.Config, store *storage.Store) error {
		ctx := context.Background()
		daily, err := forecast.Daily(ctx, store, day)
		if err != nil {
			return err
		}
		hourly, err := forecast.Hourly(ctx, store, day, forecast.HourlyOptions{TargetLaborPct: cfg.TargetLaborPct})
		if err != nil {
			return err
		}
		err = chart.WriteFile(chartOut, func(out io.Writer) error {
			return chart.RenderForecast(out, daily, hourly)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Chart written to %s\n", chartOut)
		return nil
	})
}

func runSeed(w io.Writer) error {
	to := calendar.Today().AddDays(-1)
	if seedTo != "" {
		d, err := calendar.Parse(seedTo)
		if err != nil {
			return fmt.Errorf("--to: %w", err)
		}
		to = d
	}
	from := to.AddDays(-7 * 8)
	if seedFrom != "" {
		d, err := calendar.Parse(seedFrom)
		if err != nil {
			return fmt.Errorf("--from: %w", err)
		}
		from = d
	}
	seed := seedValue
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return withStore(func(cfg *config.Config, store *storage.Store) error {
		gameDays, err := cfg.GameDaySet()
		if err != nil {
			return err
		}
		n, err := store.Seed(rand.New(rand.NewSource(seed)), from, to, gameDays)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Seeded %d sales from %s to %s\n", n, from, to)
		return nil
	})
}
