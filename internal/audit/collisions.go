// Package audit inspects the enrolled templates for pairs of identities
// that are close enough to make face login ambiguous.
package audit

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/coder/hnsw"
	"github.com/kozaktomas/face-auth/internal/biometric"
	"github.com/kozaktomas/face-auth/internal/database"
	"github.com/schollz/progressbar/v3"
)

// Options configures a collision audit.
type Options struct {
	Threshold float64   // pairs closer than this are reported
	Metric    string    // "euclidean" or "cosine"
	Dim       int       // expected template length, 0 accepts the first seen
	Neighbors int       // neighbors inspected per template, defaults to database.HNSWNeighborsPerProbe
	Progress  io.Writer // progress bar destination, nil disables it
}

// Pair is two distinct identities whose templates lie within the threshold.
type Pair struct {
	AID      int64   `json:"a_id"`
	A        string  `json:"a"`
	BID      int64   `json:"b_id"`
	B        string  `json:"b"`
	Distance float64 `json:"distance"`
}

// Report summarizes an audit run.
type Report struct {
	Scanned int    `json:"scanned"`
	Skipped int    `json:"skipped"` // templates whose length did not match
	Pairs   []Pair `json:"pairs"`
}

// hnswDistance maps a metric name to the graph's distance function.
func hnswDistance(metric string) hnsw.DistanceFunc {
	if metric == "cosine" {
		return hnsw.CosineDistance
	}
	return hnsw.EuclideanDistance
}

// Collisions indexes every enrolled template in an HNSW graph and reports
// each pair of identities whose exact distance is below the threshold.
// The graph only nominates candidates; every reported distance is recomputed
// with the login metric, so the report never overstates a collision. It may
// miss pairs the approximate search does not surface.
func Collisions(ctx context.Context, reader database.IdentityReader, opts Options) (*Report, error) {
	metric, err := biometric.MetricByName(opts.Metric)
	if err != nil {
		return nil, err
	}
	if opts.Neighbors <= 0 {
		opts.Neighbors = database.HNSWNeighborsPerProbe
	}

	identities, err := reader.ListWithTemplate(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	report := &Report{}
	indexed := make([]database.StoredIdentity, 0, len(identities))
	dim := opts.Dim
	for _, identity := range identities {
		if dim == 0 {
			dim = len(identity.Template)
		}
		if len(identity.Template) != dim {
			report.Skipped++
			continue
		}
		indexed = append(indexed, identity)
	}
	if len(indexed) < 2 {
		report.Scanned = len(indexed)
		return report, nil
	}

	index := database.NewTemplateIndex(hnswDistance(opts.Metric))
	index.Build(indexed)

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(len(indexed),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("Scanning templates"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetItsString("templates"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionFullWidth(),
		)
	}

	seen := make(map[[2]int64]bool)
	for i := range indexed {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		probe := &indexed[i]

		ids, _, err := index.Search(probe.Template, opts.Neighbors+1)
		if err != nil {
			return nil, fmt.Errorf("searching index: %w", err)
		}
		for _, id := range ids {
			if id == probe.ID {
				continue
			}
			key := [2]int64{min(id, probe.ID), max(id, probe.ID)}
			if seen[key] {
				continue
			}
			seen[key] = true

			other := index.Get(id)
			d := metric(probe.Template, other.Template)
			if d >= opts.Threshold {
				continue
			}
			a, b := probe, other
			if a.ID > b.ID {
				a, b = b, a
			}
			report.Pairs = append(report.Pairs, Pair{AID: a.ID, A: a.Name, BID: b.ID, B: b.Name, Distance: d})
		}
		report.Scanned++
		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}

	slices.SortFunc(report.Pairs, func(x, y Pair) int {
		return cmp.Or(
			cmp.Compare(x.Distance, y.Distance),
			cmp.Compare(x.AID, y.AID),
			cmp.Compare(x.BID, y.BID),
		)
	})
	return report, nil
}
