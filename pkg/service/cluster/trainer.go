package cluster

import (
	"context"
	"slices"
	"sort"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ocdcare/pkg/domain/model"
	"github.com/secmon-lab/ocdcare/pkg/domain/types"
)

// Options configures training
type Options struct {
	Clusters      int
	Threshold     float64
	Labeling      types.ClusterLabeling
	SeverityTable *model.SeverityTable
}

// DefaultOptions returns three clusters, BIRCH threshold 0.5, index labeling
// and the legacy severity table
func DefaultOptions() Options {
	return OptionsFromConfig(model.DefaultEngineConfig())
}

// OptionsFromConfig extracts training options from an engine configuration
func OptionsFromConfig(cfg *model.EngineConfig) Options {
	return Options{
		Clusters:      cfg.Clusters,
		Threshold:     cfg.Threshold,
		Labeling:      cfg.Labeling,
		SeverityTable: cfg.SeverityTable,
	}
}

func (o Options) validate() error {
	if o.Clusters < 1 {
		return goerr.New("cluster count must be positive", goerr.V("clusters", o.Clusters))
	}
	if o.Threshold <= 0 {
		return goerr.New("threshold must be positive", goerr.V("threshold", o.Threshold))
	}
	if !o.Labeling.IsValid() {
		return goerr.New("invalid cluster labeling", goerr.V("labeling", o.Labeling))
	}
	if o.SeverityTable == nil {
		return goerr.New("severity table is required")
	}
	return o.SeverityTable.Validate()
}

// Train fits a BIRCH clustering of the reference dataset and returns an
// immutable Model.
func Train(ctx context.Context, ds *model.Dataset, opts Options) (*Model, error) {
	logger := ctxlog.From(ctx)

	if err := opts.validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid training options")
	}

	data, err := prepare(ds)
	if err != nil {
		return nil, err
	}
	if len(data.points) < opts.Clusters {
		return nil, goerr.New("too few complete rows for requested clusters",
			goerr.V("rows", len(data.points)),
			goerr.V("dropped", data.dropped),
			goerr.V("clusters", opts.Clusters),
			goerr.T(model.ErrTagInsufficientData))
	}
	warnOnFlagCodebooks(ctx, data.codebooks)

	subs := buildSubclusters(data.points, opts.Threshold)
	if len(subs) < opts.Clusters {
		logger.Debug("BIRCH produced fewer subclusters than clusters, using distinct points",
			"subclusters", len(subs),
			"clusters", opts.Clusters,
		)
		subs = distinctSubclusters(data.points)
	}
	if len(subs) < opts.Clusters {
		return nil, goerr.New("too few distinct rows for requested clusters",
			goerr.V("distinct", len(subs)),
			goerr.V("clusters", opts.Clusters),
			goerr.T(model.ErrTagInsufficientData))
	}

	centroids := make([]vector, len(subs))
	for i, s := range subs {
		centroids[i] = s.centroid
	}
	labels := wardLabels(centroids, opts.Clusters)

	if opts.Labeling == types.ClusterLabelingDurationRank {
		labels = rankByDuration(subs, labels, opts.Clusters)
	}

	sizes := make([]int, opts.Clusters)
	for i, s := range subs {
		sizes[labels[i]] += s.n
	}

	m := &Model{
		clusters:     opts.Clusters,
		centroids:    centroids,
		labels:       labels,
		clusterSizes: sizes,
		rows:         len(data.points),
		dropped:      data.dropped,
		labeling:     opts.Labeling,
		table:        opts.SeverityTable,
		codebooks:    data.codebooks,
	}

	logger.Info("Cluster model trained",
		"rows", m.rows,
		"dropped", m.dropped,
		"subclusters", len(centroids),
		"clusters", m.clusters,
		"cluster_sizes", sizes,
		"labeling", m.labeling,
	)
	return m, nil
}

// rankByDuration renumbers clusters by ascending mean symptom duration of
// their member rows. Equal means keep their index order.
func rankByDuration(subs []*subcluster, labels []int, k int) []int {
	sum := make([]float64, k)
	count := make([]float64, k)
	for i, s := range subs {
		sum[labels[i]] += s.linearSum[model.FeatureDurationMonths]
		count[labels[i]] += float64(s.n)
	}

	order := make([]int, k)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return sum[order[a]]/count[order[a]] < sum[order[b]]/count[order[b]]
	})

	rank := make([]int, k)
	for r, c := range order {
		rank[c] = r
	}
	out := make([]int, len(labels))
	for i, l := range labels {
		out[i] = rank[l]
	}
	return out
}

// warnOnFlagCodebooks logs Yes/No columns whose codebook does not match the
// encoder's No=0, Yes=1 convention
func warnOnFlagCodebooks(ctx context.Context, codebooks []model.Codebook) {
	flagColumns := []string{
		model.ColumnFamilyHistory,
		model.ColumnDepressionDiagnosis,
		model.ColumnAnxietyDiagnosis,
	}
	for _, cb := range codebooks {
		if !slices.Contains(flagColumns, cb.Column) {
			continue
		}
		if !slices.Equal(cb.Values, []string{"No", "Yes"}) {
			ctxlog.From(ctx).Warn("Yes/No column codebook differs from inference encoding",
				"column", cb.Column,
				"values", cb.Values,
			)
		}
	}
}
