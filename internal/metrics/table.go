package metrics

import (
	"fmt"
	"io"
	"strings"
)

const tableWidth = 80

// WriteTable prints the fixed-width console report: one row per router,
// "--" for routers without data, then the network average line.
func WriteTable(w io.Writer, items []RouterReport, network NetworkResult) error {
	rule := strings.Repeat("=", tableWidth)

	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "%-30s %-12s %-10s %-10s %-8s\n", "Name", "Role", "Ch Util %", "Air TX %", "Samples")
	fmt.Fprintln(&b, rule)

	for _, item := range items {
		if m, ok := item.Result.Metrics(); ok {
			fmt.Fprintf(&b, "%-30s %-12s %-10.1f %-10.2f %-8d\n",
				item.Router.LongName, item.Router.Role, m.ChannelUtilization, m.AirUtilTx, m.SampleCount)
			continue
		}
		fmt.Fprintf(&b, "%-30s %-12s %-10s %-10s %-8s\n", item.Router.LongName, item.Router.Role, "--", "--", "0")
	}

	fmt.Fprintln(&b, rule)
	if s, ok := network.Summary(); ok {
		fmt.Fprintf(&b, "\n%-30s %-12s %-10.1f %-10.2f %d routers\n",
			"NETWORK AVERAGE", "", s.AvgChannelUtilization, s.AvgAirUtilTx, s.ReportingCount)
	} else {
		fmt.Fprintln(&b, "\nNo routers reporting channel metrics.")
	}
	fmt.Fprintln(&b)

	_, err := io.WriteString(w, b.String())
	return err
}
