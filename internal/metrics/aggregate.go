package metrics

import (
	"math"
	"sort"
	"time"

	"meshstat/internal/model"
	"meshstat/internal/telemetry"
)

// RouterMetrics is the averaged channel load of one router.
type RouterMetrics struct {
	ChannelUtilization float64
	AirUtilTx          float64
	SampleCount        int
}

// RouterResult is either Reporting(metrics) or NotReporting. The zero value
// is NotReporting.
type RouterResult struct {
	metrics   RouterMetrics
	reporting bool
}

// Reporting wraps metrics for a router that produced samples.
func Reporting(m RouterMetrics) RouterResult {
	return RouterResult{metrics: m, reporting: true}
}

// NotReporting is the result for a router without qualifying samples.
func NotReporting() RouterResult {
	return RouterResult{}
}

// Metrics returns the metrics and whether the router is reporting.
func (r RouterResult) Metrics() (RouterMetrics, bool) {
	return r.metrics, r.reporting
}

// IsReporting reports whether the router produced any samples.
func (r RouterResult) IsReporting() bool {
	return r.reporting
}

// Cutoff returns the oldest import time, in microseconds since the epoch,
// that still counts as recent for a window of days.
func Cutoff(now time.Time, days int) int64 {
	return now.Add(-time.Duration(days) * 24 * time.Hour).UnixMicro()
}

// Recent keeps records imported at or after cutoffUs. Records without a
// timestamp carry 0 and are always dropped.
func Recent(records []model.PacketRecord, cutoffUs int64) []model.PacketRecord {
	filtered := make([]model.PacketRecord, 0, len(records))
	for _, r := range records {
		if r.ImportTimeUs >= cutoffUs {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Samples parses each payload and keeps those carrying channel_utilization.
func Samples(records []model.PacketRecord) []model.TelemetrySample {
	samples := make([]model.TelemetrySample, 0, len(records))
	for _, r := range records {
		if s, ok := telemetry.Parse(r.Payload).Sample(); ok {
			samples = append(samples, s)
		}
	}
	return samples
}

// AggregateRouter reduces one router's packets to a single result: window
// filter, parse, then average.
func AggregateRouter(records []model.PacketRecord, cutoffUs int64) RouterResult {
	samples := Samples(Recent(records, cutoffUs))
	if len(samples) == 0 {
		return NotReporting()
	}

	cu := make([]float64, 0, len(samples))
	air := make([]float64, 0, len(samples))
	for _, s := range samples {
		cu = append(cu, s.ChannelUtilization)
		air = append(air, s.AirUtilTx)
	}

	return Reporting(RouterMetrics{
		ChannelUtilization: round(mean(cu), 1),
		AirUtilTx:          round(mean(air), 2),
		SampleCount:        len(samples),
	})
}

// mean sums in ascending order so the result does not depend on packet order.
func mean(values []float64) float64 {
	sort.Float64s(values)
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
