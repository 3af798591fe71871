package cli

import (
	"context"
	"io"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ocdcare/pkg/cli/config"
	"github.com/secmon-lab/ocdcare/pkg/repository"
	"github.com/urfave/cli/v3"
)

func cmdDataset() *cli.Command {
	return &cli.Command{
		Name:  "dataset",
		Usage: "Manage the reference dataset",
		Commands: []*cli.Command{
			cmdDatasetImport(),
			cmdDatasetExport(),
		},
	}
}

func cmdDatasetImport() *cli.Command {
	var datasetCfg config.Dataset

	return &cli.Command{
		Name:  "import",
		Usage: "Copy a reference dataset CSV file into the SQLite or Firestore store",
		Flags: datasetCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if datasetCfg.Path == "" {
				return goerr.New("dataset file is required. Set --dataset")
			}

			src, err := repository.NewCSVFile(datasetCfg.Path)
			if err != nil {
				return err
			}
			ds, err := src.LoadDataset(ctx)
			if err != nil {
				return err
			}

			store, err := datasetCfg.ConfigureStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SaveDataset(ctx, ds); err != nil {
				return goerr.Wrap(err, "failed to import dataset")
			}

			ctxlog.From(ctx).Info("Dataset imported",
				"path", datasetCfg.Path,
				"rows", len(ds.Records),
			)
			return nil
		},
	}
}

func cmdDatasetExport() *cli.Command {
	var (
		datasetCfg config.Dataset
		output     string
	)

	return &cli.Command{
		Name:  "export",
		Usage: "Write the reference dataset as CSV",
		Flags: joinFlags(datasetCfg.Flags(), []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Output file path (default: stdout)",
				Destination: &output,
			},
		}),
		Action: func(ctx context.Context, c *cli.Command) error {
			src, err := datasetCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer src.Close()

			ds, err := src.LoadDataset(ctx)
			if err != nil {
				return err
			}

			var w io.Writer = c.Root().Writer
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return goerr.Wrap(err, "failed to create output file", goerr.V("path", output))
				}
				defer f.Close()
				w = f
			}

			return repository.WriteCSV(w, ds)
		},
	}
}
