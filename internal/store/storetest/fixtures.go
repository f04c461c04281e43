// Package storetest provides a small fixed hierarchy and price set shared by
// the package tests.
package storetest

import (
	"cloud.google.com/go/civil"

	"rates-api-go/internal/store"
	"rates-api-go/pkg/model"
)

// Regions is a two-root forest. north_europe_main nests three levels deep.
func Regions() []model.Region {
	return []model.Region{
		model.NewRegion("china_main", "China Main", ""),
		model.NewRegion("north_europe_main", "North Europe Main", ""),
		model.NewRegion("uk_main", "UK Main", "north_europe_main"),
		model.NewRegion("scandinavia", "Scandinavia", "north_europe_main"),
		model.NewRegion("baltic", "Baltic", "scandinavia"),
		model.NewRegion("antarctica", "Antarctica", ""),
	}
}

func Ports() []model.Port {
	return []model.Port{
		{Code: "CNSGH", Name: "Shanghai", ParentSlug: "china_main"},
		{Code: "CNGGZ", Name: "Guangzhou", ParentSlug: "china_main"},
		{Code: "GBFXT", Name: "Felixstowe", ParentSlug: "uk_main"},
		{Code: "GBSOU", Name: "Southampton", ParentSlug: "uk_main"},
		{Code: "NOOSL", Name: "Oslo", ParentSlug: "scandinavia"},
		{Code: "SEGOT", Name: "Gothenburg", ParentSlug: "scandinavia"},
		{Code: "EETLL", Name: "Tallinn", ParentSlug: "baltic"},
	}
}

// NorthEuropePorts is the closure of north_europe_main, sorted
var NorthEuropePorts = []string{"EETLL", "GBFXT", "GBSOU", "NOOSL", "SEGOT"}

// Day builds a January 2016 date
func Day(d int) civil.Date {
	return civil.Date{Year: 2016, Month: 1, Day: d}
}

// Prices holds CNSGH -> north Europe samples for 2016-01-01..2016-01-10 plus
// rows that must never be counted for that query.
func Prices() []model.Price {
	rows := []struct {
		orig, dest string
		day        int
		price      int64
	}{
		// three samples, mean 1112
		{"CNSGH", "GBFXT", 1, 1100},
		{"CNSGH", "NOOSL", 1, 1112},
		{"CNSGH", "EETLL", 1, 1124},
		// three samples, mean 1001.33
		{"CNSGH", "GBSOU", 2, 1000},
		{"CNSGH", "GBSOU", 2, 1001},
		{"CNSGH", "SEGOT", 2, 1003},
		// two samples
		{"CNSGH", "GBFXT", 3, 1200},
		{"CNSGH", "GBFXT", 3, 1300},
		// exactly one sample
		{"CNSGH", "NOOSL", 4, 999},
		// four samples, mean 1000.5
		{"CNSGH", "GBFXT", 5, 1000},
		{"CNSGH", "GBFXT", 5, 1000},
		{"CNSGH", "SEGOT", 5, 1001},
		{"CNSGH", "EETLL", 5, 1001},
		// three samples, mean 1124
		{"CNSGH", "GBFXT", 10, 1120},
		{"CNSGH", "GBSOU", 10, 1124},
		{"CNSGH", "EETLL", 10, 1128},

		// other origin
		{"CNGGZ", "GBFXT", 6, 5000},
		{"CNGGZ", "GBFXT", 6, 5000},
		{"CNGGZ", "GBFXT", 6, 5000},
		// reverse direction
		{"GBFXT", "CNSGH", 7, 700},
		{"GBFXT", "CNSGH", 7, 700},
		{"GBFXT", "CNSGH", 7, 700},
		// outside the range
		{"CNSGH", "GBFXT", 11, 4000},
		{"CNSGH", "GBFXT", 11, 4000},
		{"CNSGH", "GBFXT", 11, 4000},
	}

	prices := make([]model.Price, len(rows))
	for i, r := range rows {
		prices[i] = model.Price{
			ID:       int64(i + 1),
			OrigCode: r.orig,
			DestCode: r.dest,
			Day:      Day(r.day),
			Price:    r.price,
		}
	}
	return prices
}

// NewStore returns an in-memory store loaded with the fixtures
func NewStore() *store.Memory {
	return store.NewMemory(Regions(), Ports(), Prices())
}
