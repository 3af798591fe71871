package cluster

import (
	"sort"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ocdcare/pkg/domain/model"
)

func newCodebook(column string, values []string) model.Codebook {
	seen := make(map[string]bool, len(values))
	var distinct []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			distinct = append(distinct, v)
		}
	}
	sort.Strings(distinct)
	return model.Codebook{Column: column, Values: distinct}
}

// prepared is the numeric training matrix in feature order
type prepared struct {
	points    []model.ScreeningFeatures
	codebooks []model.Codebook
	dropped   int
}

// prepare selects the feature columns, drops rows with any null feature and
// encodes textual columns through sorted codebooks. A column is textual when
// any of its non-null cells is not a number.
func prepare(ds *model.Dataset) (*prepared, error) {
	if ds == nil {
		return nil, goerr.New("dataset is nil", goerr.T(model.ErrTagInvalidInput))
	}
	if err := ds.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid reference dataset")
	}
	idx, err := ds.FeatureIndices()
	if err != nil {
		return nil, err
	}

	var textual [model.FeatureCount]bool
	for f, col := range idx {
		for _, rec := range ds.Records {
			cell := strings.TrimSpace(rec[col])
			if model.IsNullCell(cell) {
				continue
			}
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				textual[f] = true
				break
			}
		}
	}

	var kept [][model.FeatureCount]string
	for _, rec := range ds.Records {
		var row [model.FeatureCount]string
		complete := true
		for f, col := range idx {
			cell := strings.TrimSpace(rec[col])
			if model.IsNullCell(cell) {
				complete = false
				break
			}
			row[f] = cell
		}
		if complete {
			kept = append(kept, row)
		}
	}

	out := &prepared{
		points:  make([]model.ScreeningFeatures, len(kept)),
		dropped: len(ds.Records) - len(kept),
	}

	for f := 0; f < model.FeatureCount; f++ {
		if !textual[f] {
			for i, row := range kept {
				v, err := strconv.ParseFloat(row[f], 64)
				if err != nil {
					return nil, goerr.Wrap(err, "failed to parse numeric cell",
						goerr.V("column", model.FeatureColumns[f]),
						goerr.V("row", i),
						goerr.T(model.ErrTagInvalidInput))
				}
				out.points[i][f] = v
			}
			continue
		}

		values := make([]string, len(kept))
		for i, row := range kept {
			values[i] = row[f]
		}
		cb := newCodebook(model.FeatureColumns[f], values)
		for i, v := range values {
			code, _ := cb.Code(v)
			out.points[i][f] = float64(code)
		}
		out.codebooks = append(out.codebooks, cb)
	}

	return out, nil
}
