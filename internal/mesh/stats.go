package mesh

import (
	"context"

	"github.com/pkg/errors"
)

const weeklyWindowDays = 7

// NetworkStats are the headline counters of the mesh.
type NetworkStats struct {
	TotalNodes  int
	ActiveNodes int
	Routers     int
	Packets24h  int64
}

// Stats gathers node and packet counters. TotalNodes and Routers cover the
// last week, ActiveNodes the configured window. Any failed request fails the
// whole call.
func (c *Collector) Stats(ctx context.Context) (NetworkStats, error) {
	var stats NetworkStats

	weekly, err := c.source.Nodes(ctx, weeklyWindowDays)
	if err != nil {
		return stats, errors.Wrap(err, "weekly nodes")
	}
	stats.TotalNodes = len(weekly)
	stats.Routers = len(FilterRouters(weekly, c.cfg.RouterRoles))

	active, err := c.source.Nodes(ctx, c.cfg.DaysActive)
	if err != nil {
		return stats, errors.Wrap(err, "active nodes")
	}
	stats.ActiveNodes = len(active)

	buckets, err := c.source.Stats(ctx, "hour", 24)
	if err != nil {
		return stats, errors.Wrap(err, "packet stats")
	}
	for _, b := range buckets {
		stats.Packets24h += b.Count
	}
	return stats, nil
}
