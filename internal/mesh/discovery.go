// Package mesh drives the channel metrics pipeline against the Meshview API:
// router discovery, one telemetry fetch per router, aggregation.
package mesh

import (
	"context"

	"meshstat/internal/api"
	"meshstat/internal/model"
)

const (
	unknownLongName  = "Unknown"
	unknownShortName = "?"
)

// Source is the subset of the Meshview API the pipeline needs.
type Source interface {
	Nodes(ctx context.Context, daysActive int) ([]api.Node, error)
	Packets(ctx context.Context, q api.PacketQuery) ([]api.Packet, error)
	Stats(ctx context.Context, periodType string, length int) ([]api.StatBucket, error)
}

// FilterRouters keeps nodes whose role is in roles, preserving API order.
// Missing names get placeholders.
func FilterRouters(nodes []api.Node, roles []string) []model.Router {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	routers := make([]model.Router, 0, len(nodes))
	for _, n := range nodes {
		if _, ok := allowed[n.Role]; !ok {
			continue
		}
		r := model.Router{
			NodeID:    n.NodeID,
			LongName:  n.LongName,
			ShortName: n.ShortName,
			Role:      n.Role,
		}
		if r.LongName == "" {
			r.LongName = unknownLongName
		}
		if r.ShortName == "" {
			r.ShortName = unknownShortName
		}
		routers = append(routers, r)
	}
	return routers
}
