package metrics

import (
	"encoding/csv"
	"io"
	"strconv"

	"meshstat/internal/model"
)

// RouterReport pairs a router with its aggregation result.
type RouterReport struct {
	Router model.Router
	Result RouterResult
}

// WriteCSV writes router reports to CSV with a fixed column order.
// Non-reporting routers get empty metric cells and a zero sample count.
func WriteCSV(w io.Writer, items []RouterReport) error {
	writer := csv.NewWriter(w)

	header := []string{
		"node_id",
		"hex_id",
		"long_name",
		"short_name",
		"role",
		"channel_utilization",
		"air_util_tx",
		"sample_count",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, item := range items {
		cu, air, count := "", "", "0"
		if m, ok := item.Result.Metrics(); ok {
			cu = strconv.FormatFloat(m.ChannelUtilization, 'f', 1, 64)
			air = strconv.FormatFloat(m.AirUtilTx, 'f', 2, 64)
			count = strconv.Itoa(m.SampleCount)
		}
		record := []string{
			strconv.FormatInt(item.Router.NodeID, 10),
			item.Router.HexID(),
			item.Router.LongName,
			item.Router.ShortName,
			item.Router.Role,
			cu,
			air,
			count,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
