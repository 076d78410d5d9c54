// Package stats names the Redis keys holding the daily order aggregates.
// agg-svc writes them from the order event stream and analytics-svc reads
// them back.
package stats

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Day formats t as the aggregate bucket it belongs to in loc.
func Day(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayLayout)
}

// ParseDay validates a YYYY-MM-DD bucket name.
func ParseDay(day string) (time.Time, error) {
	t, err := time.Parse(dayLayout, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("day %q is not YYYY-MM-DD: %w", day, err)
	}
	return t, nil
}

type Keys struct {
	Prefix string
}

// Counters is a hash of per-day counters; the fields are below.
func (k Keys) Counters(day string) string {
	return fmt.Sprintf("%s:stats:%s", k.Prefix, day)
}

const (
	FieldPlaced       = "placed"
	FieldServed       = "served"
	FieldCancelled    = "cancelled"
	FieldRevenueCents = "revenue_cents"
)

// Dishes is a sorted set of dish id by units served on day.
func (k Keys) Dishes(day string) string {
	return fmt.Sprintf("%s:stats:%s:dishes", k.Prefix, day)
}

// DishNames maps dish id to the last name seen for it.
func (k Keys) DishNames() string {
	return k.Prefix + ":stats:dish_names"
}

// Processed marks an event as applied so redelivered messages are skipped.
func (k Keys) Processed(orderID, milestone string) string {
	return fmt.Sprintf("%s:stats:seen:%s:%s", k.Prefix, orderID, milestone)
}
