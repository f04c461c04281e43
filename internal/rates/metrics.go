package rates

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"rates-api-go/internal/hierarchy"
)

var (
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rates_queries_total",
		Help: "Rate queries by outcome.",
	}, []string{"outcome"})
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rates_result_cache_operations_total",
		Help: "Result cache lookups and failures by result.",
	}, []string{"result"})
)

func outcome(err error) string {
	var invalid *InvalidRangeError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &invalid):
		return "invalid_range"
	case hierarchy.IsUnresolved(err):
		return "not_found"
	default:
		return "error"
	}
}
