package model

import (
	"cloud.google.com/go/civil"
)

// Price is one quoted price for a directed origin -> destination route on a day
type Price struct {
	ID       int64      `db:"id" json:"id"`
	OrigCode string     `db:"orig_code" json:"orig_code"`
	DestCode string     `db:"dest_code" json:"dest_code"`
	Day      civil.Date `db:"-" json:"day"`
	Price    int64      `db:"price" json:"price"`
}

// DailyStat is the per-day sample count and price sum for a route query.
// Days without samples are not represented.
type DailyStat struct {
	Day   civil.Date
	Count int64
	Sum   int64
}

// DailyPrice is one row of the rates response. AveragePrice is nil when the
// day had fewer samples than the configured minimum.
type DailyPrice struct {
	Day          civil.Date `json:"day"`
	AveragePrice *int64     `json:"average_price"`
}

// RatesQuery is a parsed rates request
type RatesQuery struct {
	DateFrom    civil.Date
	DateTo      civil.Date
	Origin      string
	Destination string
}

// RatesRequest represents the query string of GET /rates
type RatesRequest struct {
	DateFrom    string `form:"date_from" binding:"required,isodate"`
	DateTo      string `form:"date_to" binding:"required,isodate"`
	Origin      string `form:"origin" binding:"required"`
	Destination string `form:"destination" binding:"required"`
}

// Query converts the request into a RatesQuery. Dates must already have
// passed the isodate binding rule.
func (r RatesRequest) Query() (RatesQuery, error) {
	from, err := civil.ParseDate(r.DateFrom)
	if err != nil {
		return RatesQuery{}, err
	}
	to, err := civil.ParseDate(r.DateTo)
	if err != nil {
		return RatesQuery{}, err
	}
	return RatesQuery{
		DateFrom:    from,
		DateTo:      to,
		Origin:      r.Origin,
		Destination: r.Destination,
	}, nil
}

// LocationResponse describes what an identifier resolves to
type LocationResponse struct {
	Identifier string   `json:"identifier"`
	Kind       string   `json:"kind"`
	Ports      []string `json:"ports"`
}

// HierarchyStats describes a closure snapshot
type HierarchyStats struct {
	Version int64 `json:"version"`
	Regions int   `json:"regions"`
	Ports   int   `json:"ports"`
}
