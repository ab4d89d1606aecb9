package storage

import (
	"database/sql"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aayushbajaj/cafe-telemetry/pkg/calendar"
	"github.com/aayushbajaj/cafe-telemetry/pkg/compare"
	"github.com/aayushbajaj/cafe-telemetry/pkg/exclusion"
)

// newTestStore creates a test store with a temporary database
func newTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	// Create temp directory for test database
	tmpDir, err := os.MkdirTemp("", "cafetel-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to open database: %v", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to init schema: %v", err)
	}

	store := &Store{db: db}
	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}

	return store, cleanup
}

func at(date string, hour, minute int) time.Time {
	d := calendar.MustParse(date)
	return time.Date(d.Year, d.Month, d.Day, hour, minute, 0, 0, time.Local)
}

func mustAddItem(t *testing.T, store *Store, name string) int64 {
	t.Helper()
	id, err := store.AddItem(name, "coffee drinks")
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	return id
}

func TestAddItemIsIdempotent(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	first := mustAddItem(t, store, "Latte - Small")
	second := mustAddItem(t, store, "Latte - Small")
	if first != second {
		t.Errorf("AddItem returned %d then %d for the same name", first, second)
	}

	items, err := store.Items()
	if err != nil {
		t.Fatalf("Items failed: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("Expected 1 item, got %d", len(items))
	}

	item, err := store.Item(first)
	if err != nil {
		t.Fatalf("Item failed: %v", err)
	}
	if item.Name != "Latte - Small" || item.Category != "coffee drinks" {
		t.Errorf("Item = %+v", item)
	}

	if _, err := store.Item(9999); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("missing item err = %v, want sql.ErrNoRows", err)
	}
}

func TestDailySales(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	id := mustAddItem(t, store, "Cold Brew")
	sales := []Sale{
		{ItemID: id, At: at("2025-09-01", 8, 0), Quantity: 1, Amount: 5},
		{ItemID: id, At: at("2025-09-01", 14, 30), Quantity: 2, Amount: 10},
		{ItemID: id, At: at("2025-09-02", 9, 0), Quantity: 1, Amount: 5},
		{ItemID: id, At: at("2025-09-03", 9, 0), Quantity: 1, Amount: 5},
	}
	if err := store.RecordSales(sales); err != nil {
		t.Fatalf("RecordSales failed: %v", err)
	}

	daily, err := store.DailySales(at("2025-09-01", 0, 0), at("2025-09-03", 0, 0))
	if err != nil {
		t.Fatalf("DailySales failed: %v", err)
	}

	if daily["2025-09-01"] != 15 {
		t.Errorf("2025-09-01 = %v, want 15", daily["2025-09-01"])
	}
	if daily["2025-09-02"] != 5 {
		t.Errorf("2025-09-02 = %v, want 5", daily["2025-09-02"])
	}
	if _, ok := daily["2025-09-03"]; ok {
		t.Error("upper bound should be exclusive")
	}
}

func TestHourlySales(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	id := mustAddItem(t, store, "Bagel")
	for _, s := range []Sale{
		{ItemID: id, At: at("2025-09-01", 8, 5), Quantity: 1, Amount: 5.5},
		{ItemID: id, At: at("2025-09-01", 8, 45), Quantity: 1, Amount: 5.5},
		{ItemID: id, At: at("2025-09-01", 12, 0), Quantity: 1, Amount: 5.5},
	} {
		if err := store.RecordSale(s); err != nil {
			t.Fatalf("RecordSale failed: %v", err)
		}
	}

	hourly, err := store.HourlySales(at("2025-09-01", 0, 0), at("2025-09-02", 0, 0))
	if err != nil {
		t.Fatalf("HourlySales failed: %v", err)
	}

	day := hourly["2025-09-01"]
	if day[8] != 11 {
		t.Errorf("hour 8 = %v, want 11", day[8])
	}
	if day[12] != 5.5 {
		t.Errorf("hour 12 = %v, want 5.5", day[12])
	}
	if _, ok := day[9]; ok {
		t.Error("hour 9 should have no entry")
	}
}

func TestSettings(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	if _, ok, err := store.Setting("hourly_labor_rate"); err != nil || ok {
		t.Fatalf("unset setting: ok=%v err=%v", ok, err)
	}

	if err := store.SetSetting("hourly_labor_rate", "24.19"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := store.SetSetting("hourly_labor_rate", "25.00"); err != nil {
		t.Fatalf("SetSetting update failed: %v", err)
	}

	value, ok, err := store.Setting("hourly_labor_rate")
	if err != nil || !ok {
		t.Fatalf("Setting: ok=%v err=%v", ok, err)
	}
	if value != "25.00" {
		t.Errorf("value = %q, want 25.00", value)
	}
}

func TestPeriodTotals(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	id := mustAddItem(t, store, "Latte - Large")
	other := mustAddItem(t, store, "Muffin")

	// 2025-09-01 Mon, 2025-09-02 Tue, 2025-09-06 Sat (game day), 2025-09-20 Sat
	sales := []Sale{
		{ItemID: id, At: at("2025-09-01", 9, 15), Quantity: 1, Amount: 5.5},
		{ItemID: id, At: at("2025-09-01", 11, 59), Quantity: 2, Amount: 11},
		{ItemID: id, At: at("2025-09-01", 12, 0), Quantity: 1, Amount: 5.5}, // outside [9,12)
		{ItemID: id, At: at("2025-09-02", 10, 0), Quantity: 1, Amount: 5.5},
		{ItemID: id, At: at("2025-09-06", 10, 0), Quantity: 3, Amount: 16.5},
		{ItemID: id, At: at("2025-09-20", 10, 0), Quantity: 1, Amount: 5.5},
		{ItemID: other, At: at("2025-09-01", 10, 0), Quantity: 1, Amount: 4},
	}
	if err := store.RecordSales(sales); err != nil {
		t.Fatalf("RecordSales failed: %v", err)
	}

	start := calendar.MustParse("2025-09-01")
	end := calendar.MustParse("2025-09-30")

	weekdays, err := store.PeriodTotals(PeriodQuery{
		ItemID: id, Start: start, End: end,
		Days: []int{1, 2, 3, 4, 5}, StartHour: 9, EndHour: 12,
	})
	if err != nil {
		t.Fatalf("PeriodTotals failed: %v", err)
	}
	if weekdays.Revenue != 22 || weekdays.DaysCounted != 2 || weekdays.UnitsSold != 4 {
		t.Errorf("weekdays = %+v, want revenue 22, 2 days, 4 units", weekdays)
	}
	if weekdays.StartHour != 9 || weekdays.EndHour != 12 || len(weekdays.Days) != 5 {
		t.Errorf("query shape not carried: %+v", weekdays)
	}

	saturdays := PeriodQuery{ItemID: id, Start: start, End: end, Days: []int{6}, StartHour: 9, EndHour: 12}
	all, err := store.PeriodTotals(saturdays)
	if err != nil {
		t.Fatalf("PeriodTotals failed: %v", err)
	}
	if all.Revenue != 22 || all.DaysCounted != 2 {
		t.Errorf("saturdays = %+v", all)
	}

	saturdays.Exclude = exclusion.NewSet(calendar.MustParse("2025-09-06"))
	nonGame, err := store.PeriodTotals(saturdays)
	if err != nil {
		t.Fatalf("PeriodTotals failed: %v", err)
	}
	if nonGame.Revenue != 5.5 || nonGame.DaysCounted != 1 {
		t.Errorf("non-game saturdays = %+v", nonGame)
	}

	empty, err := store.PeriodTotals(PeriodQuery{ItemID: id, Start: start, End: end, Days: []int{0}, StartHour: 9, EndHour: 12})
	if err != nil {
		t.Fatalf("PeriodTotals failed: %v", err)
	}
	if empty.Revenue != 0 || empty.DaysCounted != 0 || empty.UnitsSold != 0 {
		t.Errorf("no sundays = %+v", empty)
	}

	if _, err := store.PeriodTotals(PeriodQuery{ItemID: id, Start: start, End: end}); !errors.Is(err, compare.ErrUnconfigured) {
		t.Errorf("empty day set err = %v", err)
	}
}

func TestHeatmap(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	id := mustAddItem(t, store, "Croissant")
	sales := []Sale{
		{ItemID: id, At: at("2025-09-01", 8, 0), Quantity: 1, Amount: 4}, // Mon
		{ItemID: id, At: at("2025-09-08", 8, 0), Quantity: 3, Amount: 12}, // Mon
		{ItemID: id, At: at("2025-09-07", 10, 0), Quantity: 1, Amount: 4.5}, // Sun
	}
	if err := store.RecordSales(sales); err != nil {
		t.Fatalf("RecordSales failed: %v", err)
	}

	hm, err := store.Heatmap(id, calendar.MustParse("2025-09-01"), calendar.MustParse("2025-09-30"), nil)
	if err != nil {
		t.Fatalf("Heatmap failed: %v", err)
	}

	// Display slot 0 is Monday, storage day_num 1.
	mon, ok := hm.Cell(0, 8)
	if !ok {
		t.Fatal("Monday 08:00 missing")
	}
	if mon.DayNum != 1 || mon.DayOfWeek != "Monday" || mon.Revenue != 8 || mon.Units != 2 {
		t.Errorf("Monday cell = %+v", mon)
	}

	// Display slot 6 is Sunday, storage day_num 0.
	sun, ok := hm.Cell(6, 10)
	if !ok || sun.DayNum != 0 || sun.Revenue != 4.5 {
		t.Errorf("Sunday cell = %+v, %v", sun, ok)
	}

	if _, ok := hm.Cell(1, 8); ok {
		t.Error("Tuesday should be empty")
	}

	excluded, err := store.Heatmap(id, calendar.MustParse("2025-09-01"), calendar.MustParse("2025-09-30"),
		exclusion.NewSet(calendar.MustParse("2025-09-08")))
	if err != nil {
		t.Fatalf("Heatmap failed: %v", err)
	}
	if mon, _ := excluded.Cell(0, 8); mon.Revenue != 4 {
		t.Errorf("excluded Monday revenue = %v, want 4", mon.Revenue)
	}
}

func TestSeed(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	rng := rand.New(rand.NewSource(1))
	n, err := store.Seed(rng, calendar.MustParse("2025-09-01"), calendar.MustParse("2025-09-14"), exclusion.DefaultGameDays())
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if n == 0 {
		t.Fatal("Seed wrote no sales")
	}

	items, err := store.Items()
	if err != nil {
		t.Fatalf("Items failed: %v", err)
	}
	if len(items) != len(demoMenu) {
		t.Errorf("Expected %d items, got %d", len(demoMenu), len(items))
	}

	daily, err := store.DailySales(at("2025-09-01", 0, 0), at("2025-09-15", 0, 0))
	if err != nil {
		t.Fatalf("DailySales failed: %v", err)
	}
	if len(daily) == 0 || len(daily) > 14 {
		t.Errorf("seeded %d days", len(daily))
	}

	hourly, err := store.HourlySales(at("2025-09-01", 0, 0), at("2025-09-15", 0, 0))
	if err != nil {
		t.Fatalf("HourlySales failed: %v", err)
	}
	for date, hours := range hourly {
		for h := range hours {
			if h < 7 || h > 18 {
				t.Errorf("%s has sales at hour %d", date, h)
			}
		}
	}
}

func TestOpenCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if _, err := store.Items(); err != nil {
		t.Errorf("Items on fresh db failed: %v", err)
	}
}
