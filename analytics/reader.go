package analytics

import (
	"context"
	"fmt"
	"strconv"
	"time"
	"travel/entity"
)

type BookingStats struct {
	Total  int64            `json:"total"`
	ByType map[string]int64 `json:"by_type"`
}

type PaymentStats struct {
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
}

type Stats struct {
	Date     string       `json:"date"`
	Bookings BookingStats `json:"bookings"`
	Revenue  float64      `json:"revenue"`
	Payments PaymentStats `json:"payments"`
}

type Totals struct {
	Bookings          int64   `json:"bookings"`
	Revenue           float64 `json:"revenue"`
	PaymentsSucceeded int64   `json:"payments_succeeded"`
}

type DayStats struct {
	Date     string  `json:"date"`
	Bookings int64   `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}

// Today fetches the current day's counters. No computation happens here; the
// values were accumulated by the consumer as events arrived.
func (a Aggregator) Today(ctx context.Context) (Stats, error) {
	day := dayKey(time.Now())

	values, err := a.rdb.MGet(ctx,
		fmt.Sprintf("%s:bookings:count:%s", keyPrefix, day),
		fmt.Sprintf("%s:revenue:%s", keyPrefix, day),
		fmt.Sprintf("%s:payments:succeeded:%s", keyPrefix, day),
		fmt.Sprintf("%s:payments:failed:%s", keyPrefix, day),
		fmt.Sprintf("%s:bookings:type:%s:%s", keyPrefix, entity.BookingTypeFlight, day),
		fmt.Sprintf("%s:bookings:type:%s:%s", keyPrefix, entity.BookingTypeHotel, day),
		fmt.Sprintf("%s:bookings:type:%s:%s", keyPrefix, entity.BookingTypeCar, day),
	).Result()
	if err != nil {
		return Stats{}, fmt.Errorf("fetching today's counters: %w", err)
	}

	return Stats{
		Date: day,
		Bookings: BookingStats{
			Total: asInt(values[0]),
			ByType: map[string]int64{
				entity.BookingTypeFlight: asInt(values[4]),
				entity.BookingTypeHotel:  asInt(values[5]),
				entity.BookingTypeCar:    asInt(values[6]),
			},
		},
		Revenue: asFloat(values[1]),
		Payments: PaymentStats{
			Succeeded: asInt(values[2]),
			Failed:    asInt(values[3]),
		},
	}, nil
}

func (a Aggregator) Total(ctx context.Context) (Totals, error) {
	values, err := a.rdb.MGet(ctx,
		fmt.Sprintf("%s:bookings:total", keyPrefix),
		fmt.Sprintf("%s:revenue:total", keyPrefix),
		fmt.Sprintf("%s:payments:succeeded:total", keyPrefix),
	).Result()
	if err != nil {
		return Totals{}, fmt.Errorf("fetching all-time counters: %w", err)
	}

	return Totals{
		Bookings:          asInt(values[0]),
		Revenue:           asFloat(values[1]),
		PaymentsSucceeded: asInt(values[2]),
	}, nil
}

// Range returns per-day booking counts and revenue for the last n days, most
// recent first.
func (a Aggregator) Range(ctx context.Context, days int) ([]DayStats, error) {
	now := time.Now().UTC()

	stats := make([]DayStats, 0, days)
	for i := 0; i < days; i++ {
		day := dayKey(now.AddDate(0, 0, -i))

		values, err := a.rdb.MGet(ctx,
			fmt.Sprintf("%s:bookings:count:%s", keyPrefix, day),
			fmt.Sprintf("%s:revenue:%s", keyPrefix, day),
		).Result()
		if err != nil {
			return nil, fmt.Errorf("fetching counters for %s: %w", day, err)
		}

		stats = append(stats, DayStats{
			Date:     day,
			Bookings: asInt(values[0]),
			Revenue:  asFloat(values[1]),
		})
	}

	return stats, nil
}

func asInt(v any) int64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func asFloat(v any) float64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
