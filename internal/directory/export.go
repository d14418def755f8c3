// Package directory exports the community node directory to CSV.
package directory

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"meshstat/internal/model"
)

// FilterTiers keeps nodes whose tier is in tiers, preserving order.
func FilterTiers(nodes []model.DirectoryNode, tiers []string) []model.DirectoryNode {
	allowed := make(map[string]struct{}, len(tiers))
	for _, t := range tiers {
		allowed[t] = struct{}{}
	}
	out := make([]model.DirectoryNode, 0, len(nodes))
	for _, n := range nodes {
		if _, ok := allowed[n.Tier]; ok {
			out = append(out, n)
		}
	}
	return out
}

// WriteCSV writes nodes with the export column order.
func WriteCSV(w io.Writer, nodes []model.DirectoryNode) error {
	writer := csv.NewWriter(w)

	header := []string{
		"NodeID",
		"LongName",
		"ShortName",
		"Lat",
		"Lon",
		"AntennaDB",
		"HeightAGL",
		"HeightMSL",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, n := range nodes {
		record := []string{
			n.NodeID,
			n.LongName,
			n.ShortName,
			n.Latitude,
			n.Longitude,
			n.AntennaDB,
			n.HeightAGL,
			n.HeightMSL,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// Select fetches the directory and keeps the nodes of the given tiers.
func Select(ctx context.Context, f Fetcher, tiers []string, log logrus.FieldLogger) ([]model.DirectoryNode, error) {
	nodes, err := f.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	filtered := FilterTiers(nodes, tiers)
	log.WithFields(logrus.Fields{
		"fetched":  len(nodes),
		"exported": len(filtered),
	}).Info("directory export")
	return filtered, nil
}

// Export fetches the directory, filters by tier and writes CSV to w. Nothing
// is written when the fetch fails.
func Export(ctx context.Context, f Fetcher, tiers []string, w io.Writer, log logrus.FieldLogger) error {
	nodes, err := Select(ctx, f, tiers, log)
	if err != nil {
		return err
	}
	return errors.Wrap(WriteCSV(w, nodes), "write csv")
}
