// Package rates computes daily average shipping prices between ports or
// regions.
package rates

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"rates-api-go/internal/store"
	"rates-api-go/pkg/model"
)

// Config holds the aggregation limits
type Config struct {
	// MinSamples is the smallest number of prices a day needs before its
	// average is reported
	MinSamples int
	// MaxSpanDays is the largest allowed date_to - date_from in days. Zero
	// disables the check.
	MaxSpanDays int
}

// DefaultConfig matches the service defaults
func DefaultConfig() Config {
	return Config{MinSamples: 3, MaxSpanDays: 30}
}

// ValidateRange checks a requested date range against the configured limits
func (c Config) ValidateRange(from, to civil.Date) error {
	if to.Before(from) {
		return &InvalidRangeError{Reason: "date_to must be after date_from"}
	}
	if c.MaxSpanDays > 0 && to.DaysSince(from) > c.MaxSpanDays {
		return &InvalidRangeError{
			Reason: fmt.Sprintf("[date_from-date_to] range must be less than %d days", c.MaxSpanDays),
		}
	}
	return nil
}

// Engine turns per-day price statistics into a calendar-complete series
type Engine struct {
	prices     store.PriceReader
	minSamples int64
}

// NewEngine creates an aggregation engine. minSamples below 1 is treated as 1.
func NewEngine(prices store.PriceReader, minSamples int) *Engine {
	if minSamples < 1 {
		minSamples = 1
	}
	return &Engine{prices: prices, minSamples: int64(minSamples)}
}

// MinSamples is the effective sample threshold
func (e *Engine) MinSamples() int {
	return int(e.minSamples)
}

// Aggregate returns one entry per day in [from, to], ascending. Days with
// fewer than the minimum number of samples carry a nil average. An empty
// origin or destination set produces an all-nil series without touching
// the store.
func (e *Engine) Aggregate(ctx context.Context, origins, destinations []string, from, to civil.Date) ([]model.DailyPrice, error) {
	days := to.DaysSince(from) + 1
	if days < 1 {
		return []model.DailyPrice{}, nil
	}

	series := make([]model.DailyPrice, days)
	for i := range series {
		series[i].Day = from.AddDays(i)
	}

	if len(origins) == 0 || len(destinations) == 0 {
		return series, nil
	}

	stats, err := e.prices.DailyStats(ctx, origins, destinations, from, to)
	if err != nil {
		return nil, storeError("daily stats", err)
	}

	for _, stat := range stats {
		i := stat.Day.DaysSince(from)
		if i < 0 || i >= days || stat.Count < e.minSamples {
			continue
		}
		avg := roundedMean(stat.Sum, stat.Count)
		series[i].AveragePrice = &avg
	}
	return series, nil
}

// roundedMean rounds half away from zero, like Postgres ROUND(numeric)
func roundedMean(sum, count int64) int64 {
	return decimal.NewFromInt(sum).DivRound(decimal.NewFromInt(count), 0).IntPart()
}
