package cluster_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ocdcare/pkg/domain/model"
	"github.com/secmon-lab/ocdcare/pkg/domain/types"
	"github.com/secmon-lab/ocdcare/pkg/service/cluster"
)

var testHeader = []string{
	"Patient ID",
	model.ColumnAge,
	model.ColumnFamilyHistory,
	model.ColumnDurationMonths,
	model.ColumnDepressionDiagnosis,
	model.ColumnAnxietyDiagnosis,
}

type group struct {
	age, duration int
}

var (
	shortGroup  = group{age: 20, duration: 6}
	middleGroup = group{age: 45, duration: 60}
	longGroup   = group{age: 70, duration: 200}
)

// groupRecords returns five tightly packed records around g
func groupRecords(g group, history string) [][]string {
	var records [][]string
	for i := 0; i < 5; i++ {
		records = append(records, []string{
			fmt.Sprintf("P%d-%d", g.age, i),
			fmt.Sprintf("%d", g.age+i),
			history,
			fmt.Sprintf("%d", g.duration+i%2),
			"No",
			"Yes",
		})
	}
	return records
}

func newDataset(groups ...group) *model.Dataset {
	ds := &model.Dataset{Header: testHeader}
	for i, g := range groups {
		history := "No"
		if i%2 == 1 {
			history = "Yes"
		}
		ds.Records = append(ds.Records, groupRecords(g, history)...)
	}
	return ds
}

func features(age, duration float64) model.ScreeningFeatures {
	return model.ScreeningFeatures{age, 0, duration, 0, 1}
}

func TestTrain(t *testing.T) {
	ctx := context.Background()

	t.Run("separates three groups and labels by first appearance", func(t *testing.T) {
		m, err := cluster.Train(ctx, newDataset(shortGroup, middleGroup, longGroup), cluster.DefaultOptions())
		gt.NoError(t, err).Required()
		gt.Equal(t, m.Clusters(), 3)

		gt.Equal(t, m.Predict(features(21, 6)), 0)
		gt.Equal(t, m.Predict(features(46, 61)), 1)
		gt.Equal(t, m.Predict(features(72, 201)), 2)

		gt.Equal(t, m.Classify(ctx, features(21, 6)), types.SeverityMild)
		gt.Equal(t, m.Classify(ctx, features(46, 61)), types.SeverityModerate)
		gt.Equal(t, m.Classify(ctx, features(72, 201)), types.SeveritySevere)

		summary := m.Summary()
		gt.Equal(t, summary.Rows, 15)
		gt.Equal(t, summary.ClusterSizes, []int{5, 5, 5})
		gt.Equal(t, summary.Labeling, types.ClusterLabelingIndex)
	})

	t.Run("index labeling follows dataset order, not severity", func(t *testing.T) {
		m, err := cluster.Train(ctx, newDataset(longGroup, shortGroup, middleGroup), cluster.DefaultOptions())
		gt.NoError(t, err).Required()

		gt.Equal(t, m.Classify(ctx, features(72, 201)), types.SeverityMild)
		gt.Equal(t, m.Classify(ctx, features(21, 6)), types.SeverityModerate)
	})

	t.Run("duration-rank labeling orders clusters by mean duration", func(t *testing.T) {
		opts := cluster.DefaultOptions()
		opts.Labeling = types.ClusterLabelingDurationRank

		m, err := cluster.Train(ctx, newDataset(longGroup, shortGroup, middleGroup), opts)
		gt.NoError(t, err).Required()

		gt.Equal(t, m.Classify(ctx, features(21, 6)), types.SeverityMild)
		gt.Equal(t, m.Classify(ctx, features(46, 61)), types.SeverityModerate)
		gt.Equal(t, m.Classify(ctx, features(72, 201)), types.SeveritySevere)
		gt.Equal(t, m.Summary().Labeling, types.ClusterLabelingDurationRank)
	})

	t.Run("reference input is never Unknown with three clusters", func(t *testing.T) {
		m, err := cluster.Train(ctx, newDataset(shortGroup, middleGroup, longGroup), cluster.DefaultOptions())
		gt.NoError(t, err).Required()

		label := m.Classify(ctx, model.ScreeningFeatures{30, 0, 6, 0, 0})
		gt.True(t, label.IsValid())
	})

	t.Run("drops rows with null features", func(t *testing.T) {
		ds := newDataset(shortGroup, middleGroup, longGroup)
		ds.Records = append(ds.Records,
			[]string{"X1", "", "No", "10", "No", "No"},
			[]string{"X2", "33", "NaN", "10", "No", "No"},
			[]string{"X3", "33", "No", "NA", "No", "No"},
		)

		m, err := cluster.Train(ctx, ds, cluster.DefaultOptions())
		gt.NoError(t, err).Required()
		gt.Equal(t, m.Summary().Rows, 15)
		gt.Equal(t, m.Summary().DroppedRows, 3)
	})

	t.Run("ignores nulls in non-feature columns", func(t *testing.T) {
		ds := newDataset(shortGroup, middleGroup, longGroup)
		ds.Records[0][0] = ""

		m, err := cluster.Train(ctx, ds, cluster.DefaultOptions())
		gt.NoError(t, err).Required()
		gt.Equal(t, m.Summary().DroppedRows, 0)
	})
}

func TestTrainCodebook(t *testing.T) {
	ctx := context.Background()

	t.Run("textual columns get sorted codebooks", func(t *testing.T) {
		// "Yes" rows come first so first-seen order would give Yes=0
		ds := newDataset(shortGroup, middleGroup, longGroup)
		ds.Records[0][2] = "Yes"
		ds.Records[1][4] = "Yes"
		ds.Records[2][5] = "No"

		m, err := cluster.Train(ctx, ds, cluster.DefaultOptions())
		gt.NoError(t, err).Required()

		codebooks := m.Summary().Codebooks
		gt.Equal(t, len(codebooks), 3)
		for _, cb := range codebooks {
			gt.Equal(t, cb.Values, []string{"No", "Yes"})
			code, ok := cb.Code("Yes")
			gt.True(t, ok)
			gt.Equal(t, code, 1)
		}
		gt.Equal(t, codebooks[0].Column, model.ColumnFamilyHistory)
	})

	t.Run("numeric columns have no codebook", func(t *testing.T) {
		ds := newDataset(shortGroup, middleGroup, longGroup)
		for _, rec := range ds.Records {
			rec[2] = "0"
			rec[4] = "1"
			rec[5] = "0"
		}

		m, err := cluster.Train(ctx, ds, cluster.DefaultOptions())
		gt.NoError(t, err).Required()
		gt.Equal(t, len(m.Summary().Codebooks), 0)
	})

	t.Run("unknown value has no code", func(t *testing.T) {
		cb := model.Codebook{Column: "c", Values: []string{"a", "b"}}
		_, ok := cb.Code("c")
		gt.False(t, ok)
	})
}

func TestTrainReproducible(t *testing.T) {
	ctx := context.Background()
	ds := newDataset(middleGroup, longGroup, shortGroup)

	m1, err := cluster.Train(ctx, ds, cluster.DefaultOptions())
	gt.NoError(t, err).Required()
	m2, err := cluster.Train(ctx, ds, cluster.DefaultOptions())
	gt.NoError(t, err).Required()

	heldOut := []model.ScreeningFeatures{
		{30, 0, 6, 0, 0},
		{18, 1, 1, 1, 1},
		{50, 0, 100, 1, 0},
		{65, 1, 150, 0, 1},
		{90, 1, 300, 1, 1},
	}
	for _, f := range heldOut {
		gt.Equal(t, m1.Predict(f), m2.Predict(f))
		gt.Equal(t, m1.Classify(ctx, f), m2.Classify(ctx, f))
	}
	gt.Equal(t, m1.Summary(), m2.Summary())
}

func TestTrainErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("too few rows", func(t *testing.T) {
		ds := &model.Dataset{Header: testHeader, Records: groupRecords(shortGroup, "No")[:2]}
		_, err := cluster.Train(ctx, ds, cluster.DefaultOptions())
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagInsufficientData)).True()
	})

	t.Run("too few rows after dropping nulls", func(t *testing.T) {
		ds := &model.Dataset{Header: testHeader, Records: [][]string{
			{"1", "30", "No", "6", "No", "No"},
			{"2", "", "No", "6", "No", "No"},
			{"3", "40", "No", "", "No", "No"},
			{"4", "50", "No", "8", "No", "No"},
		}}
		_, err := cluster.Train(ctx, ds, cluster.DefaultOptions())
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagInsufficientData)).True()
	})

	t.Run("too few distinct rows", func(t *testing.T) {
		row := []string{"1", "30", "No", "6", "No", "No"}
		other := []string{"2", "31", "No", "6", "No", "No"}
		ds := &model.Dataset{Header: testHeader, Records: [][]string{row, row, row, other, other}}
		_, err := cluster.Train(ctx, ds, cluster.DefaultOptions())
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagInsufficientData)).True()
	})

	t.Run("falls back to distinct points when subclusters are too few", func(t *testing.T) {
		opts := cluster.DefaultOptions()
		opts.Threshold = 1000
		m, err := cluster.Train(ctx, newDataset(shortGroup, middleGroup, longGroup), opts)
		gt.NoError(t, err).Required()
		gt.Equal(t, m.Summary().Subclusters, 15)
		gt.Equal(t, m.Classify(ctx, features(72, 201)), types.SeveritySevere)
	})

	t.Run("missing column", func(t *testing.T) {
		ds := &model.Dataset{Header: []string{model.ColumnAge}, Records: [][]string{{"1"}}}
		_, err := cluster.Train(ctx, ds, cluster.DefaultOptions())
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagInvalidInput)).True()
	})

	t.Run("nil dataset", func(t *testing.T) {
		_, err := cluster.Train(ctx, nil, cluster.DefaultOptions())
		gt.Error(t, err)
	})

	t.Run("invalid options", func(t *testing.T) {
		opts := cluster.DefaultOptions()
		opts.Labeling = "alphabetical"
		_, err := cluster.Train(ctx, newDataset(shortGroup, middleGroup, longGroup), opts)
		gt.Error(t, err)
	})
}

func TestClassifyUnmappedCluster(t *testing.T) {
	ctx := context.Background()
	opts := cluster.DefaultOptions()
	opts.SeverityTable = &model.SeverityTable{
		Entries: []model.SeverityEntry{{Index: 0, Label: types.SeverityMild}},
	}

	m, err := cluster.Train(ctx, newDataset(shortGroup, middleGroup, longGroup), opts)
	gt.NoError(t, err).Required()

	gt.Equal(t, m.Classify(ctx, features(21, 6)), types.SeverityMild)
	gt.Equal(t, m.Classify(ctx, features(72, 201)), types.SeverityUnknown)
}

func TestClassifyConcurrent(t *testing.T) {
	ctx := context.Background()
	m, err := cluster.Train(ctx, newDataset(shortGroup, middleGroup, longGroup), cluster.DefaultOptions())
	gt.NoError(t, err).Required()

	want := m.Classify(ctx, features(46, 61))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := m.Classify(ctx, features(46, 61)); got != want {
				t.Errorf("got %s, want %s", got, want)
			}
		}()
	}
	wg.Wait()
}

func TestCutDendrogram(t *testing.T) {
	// Leaves 0..3. Node 5 merges node 4 with leaf 2 at a cost slightly below
	// the merge that built node 4.
	merges := []cluster.WardMerge{
		cluster.NewWardMerge(0, 1, 4, 5.0),
		cluster.NewWardMerge(4, 2, 5, 4.9),
		cluster.NewWardMerge(5, 3, 6, 10.0),
	}
	root := func(parent []int, i int) int {
		for parent[i] != i {
			i = parent[i]
		}
		return i
	}

	t.Run("child merge is applied before its parent", func(t *testing.T) {
		parent := cluster.CutDendrogram(merges, 7, 1)
		gt.Equal(t, parent[0], 4)
		gt.Equal(t, parent[1], 4)
		gt.Equal(t, parent[4], 4)
		gt.Equal(t, parent[2], 2)
	})

	t.Run("each cut removes exactly one group", func(t *testing.T) {
		for cuts := 0; cuts <= len(merges); cuts++ {
			parent := cluster.CutDendrogram(merges, 7, cuts)
			roots := map[int]bool{}
			for leaf := 0; leaf < 4; leaf++ {
				roots[root(parent, leaf)] = true
			}
			gt.Equal(t, len(roots), 4-cuts)
		}
	})
}
