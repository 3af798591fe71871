package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ocdcare/pkg/cli/config"
	"github.com/secmon-lab/ocdcare/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// joinFlags combines multiple flag slices into one
func joinFlags(flags ...[]cli.Flag) []cli.Flag {
	var result []cli.Flag
	for _, f := range flags {
		result = append(result, f...)
	}
	return result
}

// buildScreening loads the dataset, trains the model and wires the
// screening use case
func buildScreening(ctx context.Context, datasetCfg *config.Dataset, engineCfg *config.Engine) (*usecase.Screening, error) {
	cfg, err := engineCfg.Configure()
	if err != nil {
		return nil, err
	}

	src, err := datasetCfg.Configure(ctx)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return usecase.BuildScreening(ctx, src, cfg)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to write output")
	}
	return nil
}
