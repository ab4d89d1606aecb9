package storage

import (
	"math"
	"math/rand"
	"time"

	"github.com/aayushbajaj/cafe-telemetry/pkg/calendar"
	"github.com/aayushbajaj/cafe-telemetry/pkg/exclusion"
)

type menuItem struct {
	name     string
	category string
	price    float64
}

var demoMenu = []menuItem{
	{"Latte - Small", "coffee drinks", 4.50},
	{"Latte - Large", "coffee drinks", 5.50},
	{"Cappuccino - Small", "coffee drinks", 4.50},
	{"Cappuccino - Large", "coffee drinks", 5.50},
	{"Americano - Small", "coffee drinks", 3.50},
	{"Americano - Large", "coffee drinks", 4.50},
	{"Cold Brew", "coffee drinks", 5.00},
	{"Orange Juice", "other drinks", 4.00},
	{"Sparkling Water", "other drinks", 3.00},
	{"Croissant", "external food", 4.50},
	{"Bagel", "external food", 5.50},
	{"Muffin", "internal food", 4.00},
	{"Burrito", "internal food", 8.50},
}

// Seed fills [from, to] with synthetic demo sales: 40-80 tickets a day
// between 07:00 and 18:59, about one day in twenty closed, and game days
// doubled. It returns the number of sales written.
func (s *Store) Seed(rng *rand.Rand, from, to calendar.Date, gameDays exclusion.Set) (int, error) {
	ids := make([]int64, len(demoMenu))
	for i, m := range demoMenu {
		id, err := s.AddItem(m.name, m.category)
		if err != nil {
			return 0, err
		}
		ids[i] = id
	}

	var sales []Sale
	for _, day := range calendar.Range(from, to) {
		if rng.Float64() < 0.05 {
			continue
		}

		tickets := 40 + rng.Intn(41)
		if exclusion.IsGameDay(day, gameDays) {
			tickets *= 2
		}

		for t := 0; t < tickets; t++ {
			at := time.Date(day.Year, day.Month, day.Day, 7+rng.Intn(12), rng.Intn(60), 0, 0, time.Local)
			lines := weightedPick(rng, []int{60, 30, 10}) + 1
			for l := 0; l < lines; l++ {
				i := rng.Intn(len(demoMenu))
				qty := weightedPick(rng, []int{85, 15}) + 1
				sales = append(sales, Sale{
					ItemID:   ids[i],
					At:       at,
					Quantity: qty,
					Amount:   math.Round(demoMenu[i].price*float64(qty)*100) / 100,
				})
			}
		}
	}

	if err := s.RecordSales(sales); err != nil {
		return 0, err
	}
	return len(sales), nil
}

func weightedPick(rng *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	r := rng.Intn(total)
	for i, w := range weights {
		if r < w {
			return i
		}
		r -= w
	}
	return len(weights) - 1
}
