package hierarchy

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"rates-api-go/pkg/logger"
	"rates-api-go/pkg/model"
)

// refreshTimeout bounds a single load, independent of the caller that started it
const refreshTimeout = 30 * time.Second

// Reader is the part of the fact store the closure is built from
type Reader interface {
	Regions(ctx context.Context) ([]model.Region, error)
	Ports(ctx context.Context) ([]model.Port, error)
}

// Cache serves the current closure snapshot. Reads never wait for a running
// refresh once a snapshot exists; the previous snapshot stays in place until
// a new one has been built successfully.
type Cache struct {
	reader  Reader
	log     *logger.Logger
	current atomic.Pointer[Snapshot]
	version atomic.Int64
	group   singleflight.Group

	// requested counts Refresh calls; covered is the highest request count
	// a successful load started after
	requested atomic.Int64
	covered   atomic.Int64
}

// NewCache creates a closure cache over the given reader. Nothing is loaded
// until Warm, Refresh or the first Resolve.
func NewCache(reader Reader, log *logger.Logger) *Cache {
	return &Cache{
		reader: reader,
		log:    log.With("service", "HierarchyCache"),
	}
}

// Warm loads the first snapshot ahead of serving traffic
func (c *Cache) Warm(ctx context.Context) error {
	_, err := c.Refresh(ctx)
	return err
}

// Snapshot returns the current snapshot, loading it on first use
func (c *Cache) Snapshot(ctx context.Context) (*Snapshot, error) {
	if s := c.current.Load(); s != nil {
		return s, nil
	}
	return c.refresh(ctx, 0)
}

// Current returns the snapshot being served without loading one. It is nil
// until the first successful load.
func (c *Cache) Current() *Snapshot {
	return c.current.Load()
}

// Resolve resolves an identifier against the current snapshot
func (c *Cache) Resolve(ctx context.Context, identifier string) (Match, error) {
	s, err := c.Snapshot(ctx)
	if err != nil {
		return Match{}, err
	}
	return s.Resolve(identifier)
}

// Refresh rebuilds the closure from the store. Concurrent callers share one
// load, but a caller never settles for a load that started before it asked:
// it waits for the running load and then shares a fresh one. On failure the
// previous snapshot keeps serving.
func (c *Cache) Refresh(ctx context.Context) (*Snapshot, error) {
	return c.refresh(ctx, c.requested.Add(1))
}

// refresh runs loads until one has started after request number want. A
// zero want accepts any load.
func (c *Cache) refresh(ctx context.Context, want int64) (*Snapshot, error) {
	for {
		ch := c.group.DoChan("refresh", func() (interface{}, error) {
			started := c.requested.Load()
			// Detached so one caller going away does not fail everyone sharing the load
			loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
			defer cancel()
			s, err := c.load(loadCtx)
			if err != nil {
				return nil, err
			}
			c.covered.Store(started)
			return s, nil
		})

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				return nil, res.Err
			}
		}

		// current is always stored before covered, so it is at least as new
		// as the load that covers this request
		if c.covered.Load() >= want {
			if s := c.current.Load(); s != nil {
				return s, nil
			}
		}
		c.log.Debug("Joined a stale closure load, loading again", "request", want)
	}
}

func (c *Cache) load(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	defer func() { refreshDuration.Observe(time.Since(start).Seconds()) }()

	regions, err := c.reader.Regions(ctx)
	if err != nil {
		refreshTotal.WithLabelValues("error").Inc()
		c.log.Error("Failed to load regions", "error", err)
		return nil, fmt.Errorf("error loading regions: %w", err)
	}
	ports, err := c.reader.Ports(ctx)
	if err != nil {
		refreshTotal.WithLabelValues("error").Inc()
		c.log.Error("Failed to load ports", "error", err)
		return nil, fmt.Errorf("error loading ports: %w", err)
	}

	s, err := Build(regions, ports, c.version.Add(1))
	if err != nil {
		refreshTotal.WithLabelValues("error").Inc()
		c.log.Error("Failed to build region closure", "error", err)
		return nil, err
	}

	c.current.Store(s)
	recordSnapshot(s)
	refreshTotal.WithLabelValues("ok").Inc()

	stats := s.Stats()
	c.log.Info("Region closure refreshed",
		"version", stats.Version,
		"regions", stats.Regions,
		"ports", stats.Ports,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return s, nil
}
