package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ocdcare/pkg/domain/types"
)

// Default engine settings
const (
	DefaultClusters       = 3
	DefaultBirchThreshold = 0.5
)

// EngineConfig represents the engine configuration file
type EngineConfig struct {
	Clusters      int                   `yaml:"clusters"`
	Threshold     float64               `yaml:"threshold"`
	Labeling      types.ClusterLabeling `yaml:"labeling"`
	Validation    types.ValidationMode  `yaml:"validation"`
	SeverityTable *SeverityTable        `yaml:"severity_table"`
}

// DefaultEngineConfig returns the settings used when no file is given
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		Clusters:      DefaultClusters,
		Threshold:     DefaultBirchThreshold,
		Labeling:      types.ClusterLabelingIndex,
		Validation:    types.ValidationPermissive,
		SeverityTable: DefaultSeverityTable(),
	}
}

// ApplyDefaults fills zero-valued fields with defaults
func (c *EngineConfig) ApplyDefaults() {
	def := DefaultEngineConfig()
	if c.Clusters == 0 {
		c.Clusters = def.Clusters
	}
	if c.Threshold == 0 {
		c.Threshold = def.Threshold
	}
	if c.Labeling == "" {
		c.Labeling = def.Labeling
	}
	if c.Validation == "" {
		c.Validation = def.Validation
	}
	if c.SeverityTable == nil {
		c.SeverityTable = def.SeverityTable
	}
}

// Validate validates the engine configuration
func (c *EngineConfig) Validate() error {
	if c.Clusters < 1 {
		return goerr.New("cluster count must be positive",
			goerr.V("clusters", c.Clusters))
	}
	if c.Threshold <= 0 {
		return goerr.New("BIRCH threshold must be positive",
			goerr.V("threshold", c.Threshold))
	}
	if !c.Labeling.IsValid() {
		return goerr.New("invalid cluster labeling",
			goerr.V("labeling", c.Labeling))
	}
	if !c.Validation.IsValid() {
		return goerr.New("invalid validation mode",
			goerr.V("validation", c.Validation))
	}
	if c.SeverityTable == nil {
		return goerr.New("severity table is required")
	}
	if err := c.SeverityTable.Validate(); err != nil {
		return goerr.Wrap(err, "invalid severity table")
	}
	if !c.SeverityTable.Covers(c.Clusters) {
		return goerr.New("severity table does not cover every cluster index",
			goerr.V("clusters", c.Clusters))
	}
	return nil
}
