package mesh

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"meshstat/internal/api"
	"meshstat/internal/config"
	"meshstat/internal/metrics"
	"meshstat/internal/model"
)

// Report is the outcome of one channel metrics run.
type Report struct {
	Routers []metrics.RouterReport
	Network metrics.NetworkResult
}

// Collector runs the channel metrics pipeline. Routers are processed
// strictly one after another.
type Collector struct {
	source Source
	cfg    config.Config
	log    logrus.FieldLogger
	now    func() time.Time
}

// NewCollector creates a collector. cfg must already have defaults applied.
func NewCollector(source Source, cfg config.Config, log logrus.FieldLogger) *Collector {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Collector{
		source: source,
		cfg:    cfg,
		log:    log,
		now:    time.Now,
	}
}

// Routers runs discovery. A failed discovery is returned as an error rather
// than an empty router list.
func (c *Collector) Routers(ctx context.Context) ([]model.Router, error) {
	nodes, err := c.source.Nodes(ctx, c.cfg.DaysActive)
	if err != nil {
		return nil, errors.Wrap(err, "discover routers")
	}
	routers := FilterRouters(nodes, c.cfg.RouterRoles)
	c.log.WithFields(logrus.Fields{
		"nodes":   len(nodes),
		"routers": len(routers),
	}).Info("discovered routers")
	return routers, nil
}

// RouterMetrics fetches and aggregates one router. Transport failures are
// logged and reported as NotReporting; malformed JSON is returned as an error.
func (c *Collector) RouterMetrics(ctx context.Context, r model.Router, cutoffUs int64) (metrics.RouterResult, error) {
	log := c.log.WithFields(logrus.Fields{
		"node_id": r.NodeID,
		"hex_id":  r.HexID(),
	})

	packets, err := c.source.Packets(ctx, api.PacketQuery{
		PortNum:    c.cfg.TelemetryPort,
		FromNodeID: r.NodeID,
		Length:     c.cfg.PageSize,
	})
	if err != nil {
		if errors.Is(err, api.ErrMalformedResponse) {
			return metrics.NotReporting(), errors.Wrapf(err, "telemetry for %s", r.HexID())
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return metrics.NotReporting(), ctxErr
		}
		log.WithError(err).Warn("telemetry fetch failed")
		return metrics.NotReporting(), nil
	}

	records := make([]model.PacketRecord, 0, len(packets))
	for _, p := range packets {
		records = append(records, p.Record())
	}

	result := metrics.AggregateRouter(records, cutoffUs)
	if m, ok := result.Metrics(); ok {
		log.WithField("samples", m.SampleCount).Debug("router reporting")
	} else {
		log.WithField("packets", len(packets)).Debug("router not reporting")
	}
	return result, nil
}

// Run discovers routers and aggregates each of them. only restricts the
// run to a single node id when non-zero.
func (c *Collector) Run(ctx context.Context, only int64) (Report, error) {
	routers, err := c.Routers(ctx)
	if err != nil {
		return Report{}, err
	}
	if only != 0 {
		routers = selectRouter(routers, only)
	}

	cutoffUs := metrics.Cutoff(c.now(), c.cfg.DaysActive)

	var acc metrics.NetworkAccumulator
	report := Report{Routers: make([]metrics.RouterReport, 0, len(routers))}
	for _, r := range routers {
		result, err := c.RouterMetrics(ctx, r, cutoffUs)
		if err != nil {
			return Report{}, err
		}
		acc.Add(result)
		report.Routers = append(report.Routers, metrics.RouterReport{Router: r, Result: result})
	}
	report.Network = acc.Result()
	return report, nil
}

func selectRouter(routers []model.Router, id int64) []model.Router {
	for _, r := range routers {
		if r.NodeID == id {
			return []model.Router{r}
		}
	}
	return nil
}
