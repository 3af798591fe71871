package cli

import (
	"context"

	"github.com/secmon-lab/ocdcare/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func cmdModel() *cli.Command {
	var (
		datasetCfg config.Dataset
		engineCfg  config.Engine
	)

	return &cli.Command{
		Name:  "model",
		Usage: "Train the model and print its cluster summary",
		Flags: joinFlags(datasetCfg.Flags(), engineCfg.Flags()),
		Action: func(ctx context.Context, c *cli.Command) error {
			screening, err := buildScreening(ctx, &datasetCfg, &engineCfg)
			if err != nil {
				return err
			}
			return writeJSON(c.Root().Writer, screening.ModelSummary())
		},
	}
}
