package metrics

// NetworkSummary is the unweighted mean of per-router averages.
type NetworkSummary struct {
	AvgChannelUtilization float64
	AvgAirUtilTx          float64
	ReportingCount        int
}

// NetworkResult is either Reporting(summary) or NoRoutersReporting.
type NetworkResult struct {
	summary   NetworkSummary
	reporting bool
}

// Summary returns the summary and false when no router reported.
func (r NetworkResult) Summary() (NetworkSummary, bool) {
	return r.summary, r.reporting
}

// NetworkAccumulator keeps running totals while routers are processed one
// at a time. Every reporting router weighs the same regardless of its
// sample count.
type NetworkAccumulator struct {
	totalChannelUtilization float64
	totalAirUtilTx          float64
	reporting               int
}

// Add folds one router result into the totals; NotReporting is ignored.
func (a *NetworkAccumulator) Add(r RouterResult) {
	m, ok := r.Metrics()
	if !ok {
		return
	}
	a.totalChannelUtilization += m.ChannelUtilization
	a.totalAirUtilTx += m.AirUtilTx
	a.reporting++
}

// Result computes the network averages.
func (a *NetworkAccumulator) Result() NetworkResult {
	if a.reporting == 0 {
		return NetworkResult{}
	}
	count := float64(a.reporting)
	return NetworkResult{
		summary: NetworkSummary{
			AvgChannelUtilization: round(a.totalChannelUtilization/count, 1),
			AvgAirUtilTx:          round(a.totalAirUtilTx/count, 2),
			ReportingCount:        a.reporting,
		},
		reporting: true,
	}
}

// SummarizeNetwork combines all router results at once.
func SummarizeNetwork(results []RouterResult) NetworkResult {
	var acc NetworkAccumulator
	for _, r := range results {
		acc.Add(r)
	}
	return acc.Result()
}
