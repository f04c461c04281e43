package rates

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rates-api-go/internal/hierarchy"
	"rates-api-go/internal/store"
	"rates-api-go/pkg/logger"
	"rates-api-go/pkg/model"
)

// SnapshotSource provides the current region closure
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*hierarchy.Snapshot, error)
}

// ResultCache stores finished rate series. A miss returns ok=false with a
// nil error.
type ResultCache interface {
	Get(ctx context.Context, key string) (rates []model.DailyPrice, ok bool, err error)
	Set(ctx context.Context, key string, rates []model.DailyPrice) error
}

// Service answers rate queries
type Service struct {
	cfg       Config
	engine    *Engine
	hierarchy SnapshotSource
	cache     ResultCache
	log       *logger.Logger
	tracer    trace.Tracer
}

// NewService creates a rate service. Results are not cached until
// WithResultCache is called.
func NewService(prices store.PriceReader, hierarchy SnapshotSource, cfg Config, log *logger.Logger) *Service {
	return &Service{
		cfg:       cfg,
		engine:    NewEngine(prices, cfg.MinSamples),
		hierarchy: hierarchy,
		log:       log.With("service", "RateService"),
		tracer:    otel.Tracer("rates-api-go/internal/rates"),
	}
}

// WithResultCache enables caching of finished series
func (s *Service) WithResultCache(cache ResultCache) *Service {
	s.cache = cache
	return s
}

// Config returns the limits the service enforces
func (s *Service) Config() Config {
	return s.cfg
}

// CacheKey identifies a query result computed against a given closure
// version and sample threshold. Identifiers are quoted so separators inside
// them cannot make two queries share a key.
func CacheKey(version int64, minSamples int, q model.RatesQuery) string {
	return fmt.Sprintf("rates:v%d:m%d:%s:%s:%q:%q", version, minSamples, q.DateFrom, q.DateTo, q.Origin, q.Destination)
}

// GetAverageRates validates the range, resolves both locations and returns
// the daily average series
func (s *Service) GetAverageRates(ctx context.Context, q model.RatesQuery) ([]model.DailyPrice, error) {
	ctx, span := s.tracer.Start(ctx, "rates.GetAverageRates", trace.WithAttributes(
		attribute.String("rates.origin", q.Origin),
		attribute.String("rates.destination", q.Destination),
		attribute.String("rates.date_from", q.DateFrom.String()),
		attribute.String("rates.date_to", q.DateTo.String()),
	))
	defer span.End()

	result, err := s.getAverageRates(ctx, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	queriesTotal.WithLabelValues(outcome(err)).Inc()
	return result, err
}

func (s *Service) getAverageRates(ctx context.Context, q model.RatesQuery) ([]model.DailyPrice, error) {
	if err := s.cfg.ValidateRange(q.DateFrom, q.DateTo); err != nil {
		return nil, err
	}

	snapshot, err := s.hierarchy.Snapshot(ctx)
	if err != nil {
		return nil, storeError("region closure", err)
	}

	orig, dest, err := ValidateLocations(snapshot, q.Origin, q.Destination)
	if err != nil {
		return nil, err
	}

	key := CacheKey(snapshot.Version(), s.engine.MinSamples(), q)
	if cached, ok := s.cachedResult(ctx, key); ok {
		return cached, nil
	}

	result, err := s.engine.Aggregate(ctx, orig.Ports, dest.Ports, q.DateFrom, q.DateTo)
	if err != nil {
		s.log.Error("Failed to aggregate rates",
			"origin", q.Origin,
			"destination", q.Destination,
			"error", err,
		)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result); err != nil {
			cacheLookups.WithLabelValues("error").Inc()
			s.log.Warn("Failed to cache rates", "key", key, "error", err)
		}
	}
	return result, nil
}

func (s *Service) cachedResult(ctx context.Context, key string) ([]model.DailyPrice, bool) {
	if s.cache == nil {
		return nil, false
	}
	cached, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		cacheLookups.WithLabelValues("error").Inc()
		s.log.Warn("Result cache lookup failed, querying store", "key", key, "error", err)
		return nil, false
	case ok:
		cacheLookups.WithLabelValues("hit").Inc()
		return cached, true
	default:
		cacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
}

// ResolveLocation resolves a single identifier against the current closure
func (s *Service) ResolveLocation(ctx context.Context, identifier string) (hierarchy.Match, error) {
	snapshot, err := s.hierarchy.Snapshot(ctx)
	if err != nil {
		return hierarchy.Match{}, storeError("region closure", err)
	}
	return snapshot.Resolve(identifier)
}
