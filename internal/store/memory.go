package store

import (
	"context"
	"sort"
	"sync"

	"cloud.google.com/go/civil"

	"rates-api-go/pkg/model"
)

// Memory is an in-memory fact store with the same read semantics as Postgres
type Memory struct {
	mu      sync.RWMutex
	regions []model.Region
	ports   []model.Port
	prices  []model.Price
}

// NewMemory creates an in-memory store holding copies of the given facts
func NewMemory(regions []model.Region, ports []model.Port, prices []model.Price) *Memory {
	return &Memory{
		regions: append([]model.Region(nil), regions...),
		ports:   append([]model.Port(nil), ports...),
		prices:  append([]model.Price(nil), prices...),
	}
}

// Replace swaps the region and port lists, as a data load would
func (m *Memory) Replace(regions []model.Region, ports []model.Port) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regions = append([]model.Region(nil), regions...)
	m.ports = append([]model.Port(nil), ports...)
}

func (m *Memory) Regions(ctx context.Context) ([]model.Region, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.Region(nil), m.regions...), nil
}

func (m *Memory) Ports(ctx context.Context) ([]model.Port, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.Port(nil), m.ports...), nil
}

func (m *Memory) DailyStats(ctx context.Context, origins, destinations []string, from, to civil.Date) ([]model.DailyStat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	orig := toSet(origins)
	dest := toSet(destinations)

	m.mu.RLock()
	byDay := make(map[civil.Date]*model.DailyStat)
	for _, p := range m.prices {
		if _, ok := orig[p.OrigCode]; !ok {
			continue
		}
		if _, ok := dest[p.DestCode]; !ok {
			continue
		}
		if p.Day.Before(from) || p.Day.After(to) {
			continue
		}
		stat, ok := byDay[p.Day]
		if !ok {
			stat = &model.DailyStat{Day: p.Day}
			byDay[p.Day] = stat
		}
		stat.Count++
		stat.Sum += p.Price
	}
	m.mu.RUnlock()

	stats := make([]model.DailyStat, 0, len(byDay))
	for _, s := range byDay {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Day.Before(stats[j].Day) })
	return stats, nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
