package server

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/aayushbajaj/cafe-telemetry/pkg/calendar"
)

// DefaultRangeDays is the look-back used when a report omits start.
const DefaultRangeDays = 90

type paramError struct{ msg string }

func (e *paramError) Error() string { return e.msg }

func badParam(format string, args ...interface{}) error {
	return &paramError{msg: fmt.Sprintf(format, args...)}
}

// dateRange reads start/end, defaulting to the last DefaultRangeDays days.
func dateRange(q url.Values, today calendar.Date) (calendar.Date, calendar.Date, error) {
	start, end := today.AddDays(-DefaultRangeDays), today
	if v := q.Get("start"); v != "" {
		d, err := calendar.Parse(v)
		if err != nil {
			return start, end, badParam("start: %v", err)
		}
		start = d
	}
	if v := q.Get("end"); v != "" {
		d, err := calendar.Parse(v)
		if err != nil {
			return start, end, badParam("end: %v", err)
		}
		end = d
	}
	return start, end, nil
}

func intParam(q url.Values, key string, def int) (int, error) {
	v := q.Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, badParam("%s must be an integer", key)
	}
	return n, nil
}

func itemParam(q url.Values) (int64, error) {
	v := q.Get("item_id")
	if v == "" {
		return 0, badParam("item_id is required")
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, badParam("item_id must be a positive integer")
	}
	return id, nil
}

// daysParam reads a comma list of storage day numbers (Sunday=0). An absent
// key yields def; a present but blank key yields an empty set.
func daysParam(q url.Values, key string, def []int) ([]int, error) {
	if _, ok := q[key]; !ok {
		return def, nil
	}
	var days []int
	seen := make(map[int]bool)
	for _, part := range strings.Split(q.Get(key), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil || d < 0 || d > 6 {
			return nil, badParam("%s: %q is not a day number 0-6", key, part)
		}
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	return days, nil
}
