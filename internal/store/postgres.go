package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rates-api-go/pkg/model"
)

// PoolConfig bounds the connection pool shared by all requests
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Connect opens and pings the Postgres database
func Connect(ctx context.Context, databaseURL string, pool PoolConfig) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	return db, nil
}

// Postgres reads facts from the regions, ports and prices tables
type Postgres struct {
	db     *sqlx.DB
	tracer trace.Tracer
}

// NewPostgres creates a Postgres-backed store
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{
		db:     db,
		tracer: otel.Tracer("rates-api-go/internal/store"),
	}
}

// Ping checks database connectivity
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Postgres) Regions(ctx context.Context) ([]model.Region, error) {
	ctx, span := p.tracer.Start(ctx, "store.Regions")
	defer span.End()

	var regions []model.Region
	err := p.db.SelectContext(ctx, &regions, `
        SELECT slug, name, parent_slug
        FROM regions
    `)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("error fetching regions: %w", err)
	}

	span.SetAttributes(attribute.Int("rows", len(regions)))
	return regions, nil
}

func (p *Postgres) Ports(ctx context.Context) ([]model.Port, error) {
	ctx, span := p.tracer.Start(ctx, "store.Ports")
	defer span.End()

	var ports []model.Port
	err := p.db.SelectContext(ctx, &ports, `
        SELECT code, name, COALESCE(parent_slug, '') AS parent_slug
        FROM ports
    `)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("error fetching ports: %w", err)
	}

	span.SetAttributes(attribute.Int("rows", len(ports)))
	return ports, nil
}

type dailyStatRow struct {
	Day   time.Time `db:"day"`
	Count int64     `db:"sample_count"`
	Sum   int64     `db:"price_sum"`
}

func (p *Postgres) DailyStats(ctx context.Context, origins, destinations []string, from, to civil.Date) ([]model.DailyStat, error) {
	ctx, span := p.tracer.Start(ctx, "store.DailyStats", trace.WithAttributes(
		attribute.Int("origins", len(origins)),
		attribute.Int("destinations", len(destinations)),
		attribute.String("date_from", from.String()),
		attribute.String("date_to", to.String()),
	))
	defer span.End()

	// Served by idx_prices_covering (day, orig_code, dest_code) INCLUDE (price)
	var rows []dailyStatRow
	err := p.db.SelectContext(ctx, &rows, `
        SELECT day,
               COUNT(*) AS sample_count,
               COALESCE(SUM(price), 0)::bigint AS price_sum
        FROM prices
        WHERE day BETWEEN $1::date AND $2::date
          AND orig_code = ANY($3)
          AND dest_code = ANY($4)
        GROUP BY day
        ORDER BY day
    `, from.String(), to.String(), pq.Array(origins), pq.Array(destinations))
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("error fetching daily price stats: %w", err)
	}

	stats := make([]model.DailyStat, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, model.DailyStat{
			Day:   civil.DateOf(r.Day),
			Count: r.Count,
			Sum:   r.Sum,
		})
	}
	span.SetAttributes(attribute.Int("days_with_samples", len(stats)))
	return stats, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
