package cli

import (
	"context"

	"github.com/secmon-lab/ocdcare/pkg/cli/config"
	"github.com/secmon-lab/ocdcare/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdClassify() *cli.Command {
	var (
		datasetCfg config.Dataset
		engineCfg  config.Engine
		input      model.DemographicInput
	)

	inputFlags := []cli.Flag{
		&cli.StringFlag{
			Name:        "age",
			Usage:       "Age in years",
			Category:    "Subject",
			Required:    true,
			Destination: &input.Age,
		},
		&cli.StringFlag{
			Name:        "history",
			Usage:       "Family history of OCD (Yes, No)",
			Category:    "Subject",
			Value:       "No",
			Destination: &input.FamilyHistory,
		},
		&cli.StringFlag{
			Name:        "duration",
			Usage:       "Duration of symptoms in months",
			Category:    "Subject",
			Required:    true,
			Destination: &input.DurationMonths,
		},
		&cli.StringFlag{
			Name:        "depression",
			Usage:       "Depression diagnosis (Yes, No)",
			Category:    "Subject",
			Value:       "No",
			Destination: &input.DepressionDiagnosis,
		},
		&cli.StringFlag{
			Name:        "anxiety",
			Usage:       "Anxiety diagnosis (Yes, No)",
			Category:    "Subject",
			Value:       "No",
			Destination: &input.AnxietyDiagnosis,
		},
		&cli.StringSliceFlag{
			Name:        "subtype",
			Usage:       "Obsession or compulsion subtype, repeatable",
			Category:    "Subject",
			Destination: &input.Subtypes,
		},
	}

	return &cli.Command{
		Name:  "classify",
		Usage: "Classify one subject's demographic answers",
		Flags: joinFlags(inputFlags, datasetCfg.Flags(), engineCfg.Flags()),
		Action: func(ctx context.Context, c *cli.Command) error {
			screening, err := buildScreening(ctx, &datasetCfg, &engineCfg)
			if err != nil {
				return err
			}

			verdict, err := screening.ClassifyDemographic(ctx, &input)
			if err != nil {
				return err
			}
			return writeJSON(c.Root().Writer, verdict)
		},
	}
}
