package model

import (
	"sort"

	"github.com/secmon-lab/ocdcare/pkg/domain/types"
)

// Codebook maps the distinct values of one textual column to integer codes.
// Values are sorted lexically, so a value's code is its position.
type Codebook struct {
	Column string   `json:"column"`
	Values []string `json:"values"`
}

// Code returns the integer code of v
func (c Codebook) Code(v string) (int, bool) {
	i := sort.SearchStrings(c.Values, v)
	if i < len(c.Values) && c.Values[i] == v {
		return i, true
	}
	return 0, false
}

// ClusterSummary describes a trained cluster model
type ClusterSummary struct {
	Clusters     int                   `json:"clusters"`
	Subclusters  int                   `json:"subclusters"`
	ClusterSizes []int                 `json:"cluster_sizes"`
	Rows         int                   `json:"rows"`
	DroppedRows  int                   `json:"dropped_rows"`
	Labeling     types.ClusterLabeling `json:"labeling"`
	Severities   []SeverityEntry       `json:"severities"`
	Codebooks    []Codebook            `json:"codebooks"`
}
