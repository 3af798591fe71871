package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ocdcare/pkg/domain/interfaces"
	"github.com/secmon-lab/ocdcare/pkg/repository"
	"github.com/urfave/cli/v3"
)

// Dataset selects where the reference dataset is read from. Sources are
// tried in order: CSV file, SQLite database, Firestore.
type Dataset struct {
	Path       string
	SQLitePath string
	ProjectID  string
	DatabaseID string
	Collection string
}

// Flags returns CLI flags for Dataset configuration
func (d *Dataset) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "dataset",
			Aliases:     []string{"d"},
			Usage:       "Path to the reference dataset CSV file",
			Category:    "Dataset",
			Sources:     cli.EnvVars("OCDCARE_DATASET"),
			Destination: &d.Path,
		},
		&cli.StringFlag{
			Name:        "dataset-db",
			Usage:       "Path to a SQLite database holding the reference dataset",
			Category:    "Dataset",
			Sources:     cli.EnvVars("OCDCARE_DATASET_DB"),
			Destination: &d.SQLitePath,
		},
		&cli.StringFlag{
			Name:        "firestore-project",
			Usage:       "GCP project ID for Firestore",
			Category:    "Firestore",
			Sources:     cli.EnvVars("OCDCARE_FIRESTORE_PROJECT"),
			Destination: &d.ProjectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database",
			Usage:       "Firestore database ID",
			Category:    "Firestore",
			Value:       "(default)",
			Sources:     cli.EnvVars("OCDCARE_FIRESTORE_DATABASE"),
			Destination: &d.DatabaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Usage:       "Firestore collection holding reference subjects",
			Category:    "Firestore",
			Value:       repository.DefaultDatasetCollection,
			Sources:     cli.EnvVars("OCDCARE_FIRESTORE_COLLECTION"),
			Destination: &d.Collection,
		},
	}
}

// Configure creates the dataset source
func (d *Dataset) Configure(ctx context.Context) (interfaces.DatasetSource, error) {
	if d.Path != "" {
		if d.SQLitePath != "" || d.IsFirestoreConfigured() {
			ctxlog.From(ctx).Warn("Multiple dataset sources are configured, using dataset file",
				"path", d.Path)
		}
		return repository.NewCSVFile(d.Path)
	}

	if d.SQLitePath != "" || d.IsFirestoreConfigured() {
		return d.ConfigureStore(ctx)
	}

	return nil, goerr.New("reference dataset is required. Set --dataset, --dataset-db or --firestore-project")
}

// ConfigureStore creates a writable dataset store. SQLite takes precedence
// over Firestore.
func (d *Dataset) ConfigureStore(ctx context.Context) (interfaces.DatasetStore, error) {
	if d.SQLitePath != "" {
		return repository.NewSQLite(ctx, d.SQLitePath, "")
	}

	if !d.IsFirestoreConfigured() {
		return nil, goerr.New("dataset store is required. Set --dataset-db or --firestore-project")
	}

	store, err := repository.NewFirestore(ctx, d.ProjectID, d.DatabaseID, d.Collection)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to init firestore",
			goerr.V("project", d.ProjectID),
			goerr.V("database", d.DatabaseID),
			goerr.V("collection", d.Collection),
		)
	}
	return store, nil
}

// IsFirestoreConfigured checks if Firestore is properly configured
func (d *Dataset) IsFirestoreConfigured() bool {
	return d.ProjectID != ""
}

// LogValue returns structured log value
func (d Dataset) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", d.Path),
		slog.String("sqlite", d.SQLitePath),
		slog.String("project", d.ProjectID),
		slog.String("database", d.DatabaseID),
		slog.String("collection", d.Collection),
	)
}
