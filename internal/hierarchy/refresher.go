package hierarchy

import (
	"context"
	"time"

	"github.com/lib/pq"
)

// NotifyChannel is the Postgres channel the schema triggers notify on
// whenever regions or ports change.
const NotifyChannel = "hierarchy_changed"

// RunScheduledRefresh rebuilds the closure every interval until ctx is done.
// A zero interval disables periodic refresh.
func (c *Cache) RunScheduledRefresh(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	c.log.Info("Starting scheduled closure refresh", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := c.Refresh(ctx); err != nil {
				c.log.Warn("Scheduled closure refresh failed, keeping previous snapshot", "error", err)
			}
		}
	}
}

// Listen subscribes to NotifyChannel and refreshes the closure on every
// notification. It blocks until ctx is done.
func (c *Cache) Listen(ctx context.Context, databaseURL string) error {
	listener := pq.NewListener(databaseURL, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			c.log.Warn("Hierarchy listener event", "event", int(ev), "error", err)
		}
	})
	defer listener.Close()

	if err := listener.Listen(NotifyChannel); err != nil {
		return err
	}
	c.log.Info("Listening for hierarchy changes", "channel", NotifyChannel)

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			c.handleNotification(ctx, n)
		case <-time.After(90 * time.Second):
			go func() {
				if err := listener.Ping(); err != nil {
					c.log.Warn("Hierarchy listener ping failed", "error", err)
				}
			}()
		}
	}
}

// handleNotification refreshes the closure. A nil notification means the
// listener reconnected and changes may have been missed.
func (c *Cache) handleNotification(ctx context.Context, n *pq.Notification) {
	if n == nil {
		c.log.Info("Hierarchy listener reconnected, refreshing closure")
	} else {
		c.log.Debug("Hierarchy change notified", "channel", n.Channel, "payload", n.Extra)
	}
	if _, err := c.Refresh(ctx); err != nil {
		c.log.Warn("Notified closure refresh failed, keeping previous snapshot", "error", err)
	}
}
