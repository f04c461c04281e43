// Package store provides read access to the region, port and price facts.
package store

import (
	"context"

	"cloud.google.com/go/civil"

	"rates-api-go/pkg/model"
)

// PriceReader returns per-day sample counts and price sums for prices whose
// origin is in origins and destination is in destinations, for days in
// [from, to]. Days without any matching price are omitted. Results are
// ordered by day.
type PriceReader interface {
	DailyStats(ctx context.Context, origins, destinations []string, from, to civil.Date) ([]model.DailyStat, error)
}

// HierarchyReader lists the regions and ports the closure is built from
type HierarchyReader interface {
	Regions(ctx context.Context) ([]model.Region, error)
	Ports(ctx context.Context) ([]model.Port, error)
}

// Reader is the full read interface of the fact store
type Reader interface {
	PriceReader
	HierarchyReader
}
