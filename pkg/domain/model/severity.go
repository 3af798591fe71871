package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ocdcare/pkg/domain/types"
)

// SeverityEntry maps one cluster index to a severity label
type SeverityEntry struct {
	Index int                 `yaml:"index" json:"index"`
	Label types.SeverityLabel `yaml:"label" json:"label"`
}

// Validate validates the entry
func (e *SeverityEntry) Validate() error {
	if e.Index < 0 {
		return goerr.New("cluster index must not be negative",
			goerr.V("index", e.Index))
	}
	if !e.Label.IsValid() {
		return goerr.New("invalid severity label",
			goerr.V("index", e.Index),
			goerr.V("label", e.Label))
	}
	return nil
}

// SeverityTable maps cluster indices to severity labels.
//
// The default table {0: Mild, 1: Moderate, 2: Severe} is an assumption
// inherited from the first deployment of this screening tool. Clustering
// does not order clusters by severity, so index 0 is not intrinsically
// "mild". See types.ClusterLabelingDurationRank for a data-driven ordering.
type SeverityTable struct {
	Entries []SeverityEntry `yaml:"entries" json:"entries"`
}

// DefaultSeverityTable returns the legacy index-ordered table
func DefaultSeverityTable() *SeverityTable {
	return &SeverityTable{
		Entries: []SeverityEntry{
			{Index: 0, Label: types.SeverityMild},
			{Index: 1, Label: types.SeverityModerate},
			{Index: 2, Label: types.SeveritySevere},
		},
	}
}

// Validate validates the severity table
func (t *SeverityTable) Validate() error {
	if len(t.Entries) == 0 {
		return goerr.New("at least one severity entry is required")
	}

	seen := make(map[int]bool)
	for i, entry := range t.Entries {
		if err := entry.Validate(); err != nil {
			return goerr.Wrap(err, "invalid severity entry at position",
				goerr.V("position", i))
		}
		if seen[entry.Index] {
			return goerr.New("duplicate cluster index",
				goerr.V("index", entry.Index))
		}
		seen[entry.Index] = true
	}

	return nil
}

// Covers reports whether every cluster index in [0, clusters) has an entry
func (t *SeverityTable) Covers(clusters int) bool {
	for i := 0; i < clusters; i++ {
		if _, ok := t.Lookup(i); !ok {
			return false
		}
	}
	return true
}

// Lookup finds the label for a cluster index
func (t *SeverityTable) Lookup(index int) (types.SeverityLabel, bool) {
	for _, entry := range t.Entries {
		if entry.Index == index {
			return entry.Label, true
		}
	}
	return "", false
}

// LabelWithFallback returns the label for index, or SeverityUnknown along
// with an unmapped_cluster error when the index has no entry.
func (t *SeverityTable) LabelWithFallback(index int) (types.SeverityLabel, error) {
	if label, ok := t.Lookup(index); ok {
		return label, nil
	}
	return types.SeverityUnknown, goerr.New("cluster index is not in severity table",
		goerr.V("index", index),
		goerr.T(ErrTagUnmappedCluster))
}
