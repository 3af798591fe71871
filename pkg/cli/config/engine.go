package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ocdcare/pkg/domain/model"
	"github.com/secmon-lab/ocdcare/pkg/domain/types"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Engine holds severity engine configuration. Flags override values read
// from the YAML file.
type Engine struct {
	ConfigPath string
	Validation string
	Labeling   string
}

// Flags returns CLI flags for Engine configuration
func (e *Engine) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "engine-config",
			Usage:       "Path to engine configuration YAML file",
			Category:    "Engine",
			Sources:     cli.EnvVars("OCDCARE_ENGINE_CONFIG"),
			Destination: &e.ConfigPath,
		},
		&cli.StringFlag{
			Name:        "validation",
			Usage:       "Yes/No answer validation (permissive, strict)",
			Category:    "Engine",
			Sources:     cli.EnvVars("OCDCARE_VALIDATION"),
			Destination: &e.Validation,
		},
		&cli.StringFlag{
			Name:        "cluster-labeling",
			Usage:       "Cluster numbering before severity lookup (index, duration-rank)",
			Category:    "Engine",
			Sources:     cli.EnvVars("OCDCARE_CLUSTER_LABELING"),
			Destination: &e.Labeling,
		},
	}
}

// Configure builds the validated engine configuration
func (e *Engine) Configure() (*model.EngineConfig, error) {
	cfg := model.DefaultEngineConfig()
	if e.ConfigPath != "" {
		loaded, err := LoadEngineConfigFromFile(e.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if e.Validation != "" {
		cfg.Validation = types.ValidationMode(e.Validation)
	}
	if e.Labeling != "" {
		cfg.Labeling = types.ClusterLabeling(e.Labeling)
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid engine configuration")
	}
	return cfg, nil
}

// LoadEngineConfigFromFile loads engine configuration from YAML file.
// Omitted fields take their defaults.
func LoadEngineConfigFromFile(path string) (*model.EngineConfig, error) {
	if path == "" {
		return nil, goerr.New("configuration file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "configuration file not found",
				goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read configuration file",
			goerr.V("path", path))
	}

	var cfg model.EngineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse YAML configuration",
			goerr.V("path", path))
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid configuration",
			goerr.V("path", path))
	}

	return &cfg, nil
}

// LogValue returns structured log value
func (e Engine) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("config", e.ConfigPath),
		slog.String("validation", e.Validation),
		slog.String("labeling", e.Labeling),
	)
}
