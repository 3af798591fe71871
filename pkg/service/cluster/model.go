package cluster

import (
	"context"
	"math"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/ocdcare/pkg/domain/model"
	"github.com/secmon-lab/ocdcare/pkg/domain/types"
)

// Model is a trained cluster severity classifier. It is immutable after
// Train returns and safe for concurrent use.
type Model struct {
	clusters     int
	centroids    []vector
	labels       []int
	clusterSizes []int
	rows         int
	dropped      int
	labeling     types.ClusterLabeling
	table        *model.SeverityTable
	codebooks    []model.Codebook
}

// Predict returns the cluster index of the subcluster nearest to f. Ties go
// to the earliest subcluster.
func (m *Model) Predict(f model.ScreeningFeatures) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range m.centroids {
		if d := squaredDistance(c, f); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return m.labels[best]
}

// Classify maps f to a severity label. An index missing from the severity
// table yields SeverityUnknown and is logged, never returned as an error.
func (m *Model) Classify(ctx context.Context, f model.ScreeningFeatures) types.SeverityLabel {
	index := m.Predict(f)
	label, err := m.table.LabelWithFallback(index)
	if err != nil {
		ctxlog.From(ctx).Warn("Cluster index has no severity label",
			"index", index,
			"error", err,
		)
	}
	return label
}

// Clusters returns the number of clusters
func (m *Model) Clusters() int {
	return m.clusters
}

// Summary returns a copy of the model's descriptive state
func (m *Model) Summary() model.ClusterSummary {
	codebooks := make([]model.Codebook, len(m.codebooks))
	for i, cb := range m.codebooks {
		codebooks[i] = model.Codebook{Column: cb.Column, Values: append([]string(nil), cb.Values...)}
	}
	return model.ClusterSummary{
		Clusters:     m.clusters,
		Subclusters:  len(m.centroids),
		ClusterSizes: append([]int(nil), m.clusterSizes...),
		Rows:         m.rows,
		DroppedRows:  m.dropped,
		Labeling:     m.labeling,
		Severities:   append([]model.SeverityEntry(nil), m.table.Entries...),
		Codebooks:    codebooks,
	}
}
