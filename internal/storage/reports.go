package storage

import (
	"fmt"
	"strings"

	"github.com/aayushbajaj/cafe-telemetry/pkg/calendar"
	"github.com/aayushbajaj/cafe-telemetry/pkg/compare"
	"github.com/aayushbajaj/cafe-telemetry/pkg/exclusion"
)

// PeriodQuery selects the transactions behind one side of a comparison.
// Days are storage day_nums (Sunday=0); hours are [StartHour, EndHour).
type PeriodQuery struct {
	ItemID    int64
	Start     calendar.Date
	End       calendar.Date
	Days      []int
	StartHour int
	EndHour   int
	Exclude   exclusion.Set
}

// HeatmapCell is the average revenue and units for one weekday × hour,
// averaged over the dates that had sales in that slot.
type HeatmapCell struct {
	DayNum    int     `json:"day_num"`
	DayOfWeek string  `json:"day_of_week"`
	Hour      int     `json:"hour"`
	Revenue   float64 `json:"revenue"`
	Units     float64 `json:"units"`
}

// Heatmap is keyed by storage day_num, then hour.
type Heatmap map[int]map[int]HeatmapCell

// Cell addresses the heatmap from a Monday-first display grid.
func (h Heatmap) Cell(displayIndex, hour int) (HeatmapCell, bool) {
	row, ok := h[calendar.DisplayToStorage(displayIndex)]
	if !ok {
		return HeatmapCell{}, false
	}
	cell, ok := row[hour]
	return cell, ok
}

func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// excludeClause appends a NOT IN filter for the excluded dates.
func excludeClause(exclude exclusion.Set, args []interface{}) (string, []interface{}) {
	if exclude.Len() == 0 {
		return "", args
	}
	dates := exclude.Strings()
	for _, d := range dates {
		args = append(args, d)
	}
	return fmt.Sprintf(" AND DATE(t.transaction_date) NOT IN (%s)", placeholders(len(dates))), args
}

// PeriodTotals fills the revenue, units and distinct-day count for q. The
// returned Period carries q's day set and hour range.
func (s *Store) PeriodTotals(q PeriodQuery) (compare.Period, error) {
	p := compare.Period{Days: q.Days, StartHour: q.StartHour, EndHour: q.EndHour}
	if len(q.Days) == 0 {
		return p, compare.ErrUnconfigured
	}

	args := []interface{}{q.ItemID, q.Start.String(), q.End.String()}
	for _, d := range q.Days {
		args = append(args, d)
	}
	args = append(args, q.StartHour, q.EndHour)
	excl, args := excludeClause(q.Exclude, args)

	query := fmt.Sprintf(`
		SELECT
			COALESCE(ROUND(SUM(t.total_amount), 2), 0),
			COUNT(DISTINCT DATE(t.transaction_date)),
			COALESCE(SUM(t.quantity), 0)
		FROM transactions t
		WHERE t.item_id = ?
		AND DATE(t.transaction_date) BETWEEN ? AND ?
		AND CAST(strftime('%%w', t.transaction_date) AS INTEGER) IN (%s)
		AND CAST(strftime('%%H', t.transaction_date) AS INTEGER) >= ?
		AND CAST(strftime('%%H', t.transaction_date) AS INTEGER) < ?%s
	`, placeholders(len(q.Days)), excl)

	err := s.db.QueryRow(query, args...).Scan(&p.Revenue, &p.DaysCounted, &p.UnitsSold)
	if err != nil {
		return p, fmt.Errorf("period totals for item %d: %w", q.ItemID, err)
	}
	return p, nil
}

// Heatmap averages an item's revenue per weekday × hour over [start, end].
func (s *Store) Heatmap(itemID int64, start, end calendar.Date, exclude exclusion.Set) (Heatmap, error) {
	args := []interface{}{itemID, start.String(), end.String()}
	excl, args := excludeClause(exclude, args)

	query := fmt.Sprintf(`
		WITH daily_hourly_totals AS (
			SELECT
				DATE(t.transaction_date) AS sale_date,
				CAST(strftime('%%w', t.transaction_date) AS INTEGER) AS day_num,
				CAST(strftime('%%H', t.transaction_date) AS INTEGER) AS hour,
				SUM(t.total_amount) AS daily_revenue,
				SUM(t.quantity) AS daily_units
			FROM transactions t
			WHERE t.item_id = ?
			AND DATE(t.transaction_date) BETWEEN ? AND ?%s
			GROUP BY sale_date, day_num, hour
		)
		SELECT day_num, hour, ROUND(AVG(daily_revenue), 2), ROUND(AVG(daily_units), 1)
		FROM daily_hourly_totals
		GROUP BY day_num, hour
		ORDER BY day_num, hour
	`, excl)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	heatmap := make(Heatmap)
	for rows.Next() {
		var c HeatmapCell
		if err := rows.Scan(&c.DayNum, &c.Hour, &c.Revenue, &c.Units); err != nil {
			return nil, err
		}
		c.DayOfWeek = calendar.LongStorageName(c.DayNum)
		if heatmap[c.DayNum] == nil {
			heatmap[c.DayNum] = make(map[int]HeatmapCell)
		}
		heatmap[c.DayNum][c.Hour] = c
	}
	return heatmap, rows.Err()
}
