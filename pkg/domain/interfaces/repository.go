package interfaces

import (
	"context"

	"github.com/secmon-lab/ocdcare/pkg/domain/model"
)

// DatasetSource provides the reference dataset used to train the cluster model
type DatasetSource interface {
	// LoadDataset reads the whole reference table
	LoadDataset(ctx context.Context) (*model.Dataset, error)

	// Close releases the underlying connection
	Close() error
}

// DatasetStore is a DatasetSource that can also be written to
type DatasetStore interface {
	DatasetSource

	// SaveDataset replaces the stored reference table
	SaveDataset(ctx context.Context, ds *model.Dataset) error
}
