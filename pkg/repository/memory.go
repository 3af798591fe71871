package repository

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ocdcare/pkg/domain/interfaces"
	"github.com/secmon-lab/ocdcare/pkg/domain/model"
)

// Memory implements DatasetStore with in-memory storage
type Memory struct {
	mu      sync.RWMutex
	dataset *model.Dataset
}

// NewMemory creates a new memory dataset store, optionally seeded with ds
func NewMemory(ds *model.Dataset) interfaces.DatasetStore {
	m := &Memory{}
	if ds != nil {
		m.dataset = copyDataset(ds)
	}
	return m
}

// LoadDataset returns a copy of the stored dataset
func (m *Memory) LoadDataset(ctx context.Context) (*model.Dataset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.dataset == nil {
		return nil, goerr.New("dataset not found")
	}
	return copyDataset(m.dataset), nil
}

// SaveDataset replaces the stored dataset
func (m *Memory) SaveDataset(ctx context.Context, ds *model.Dataset) error {
	if ds == nil {
		return goerr.New("dataset is nil")
	}
	if err := ds.Validate(); err != nil {
		return goerr.Wrap(err, "invalid dataset")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.dataset = copyDataset(ds)
	return nil
}

// Close is a no-op for memory repository
func (m *Memory) Close() error {
	return nil
}

func copyDataset(ds *model.Dataset) *model.Dataset {
	out := &model.Dataset{
		Header:  append([]string(nil), ds.Header...),
		Records: make([][]string, len(ds.Records)),
	}
	for i, rec := range ds.Records {
		out.Records[i] = append([]string(nil), rec...)
	}
	return out
}
