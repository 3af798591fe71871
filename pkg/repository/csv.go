package repository

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ocdcare/pkg/domain/interfaces"
	"github.com/secmon-lab/ocdcare/pkg/domain/model"
)

// CSVFile reads the reference dataset from a CSV file with a header row
type CSVFile struct {
	path string
}

// NewCSVFile creates a CSV dataset source. The file is read on each
// LoadDataset call.
func NewCSVFile(path string) (interfaces.DatasetSource, error) {
	if path == "" {
		return nil, goerr.New("dataset file path is required")
	}
	return &CSVFile{path: path}, nil
}

// LoadDataset reads and parses the file
func (c *CSVFile) LoadDataset(ctx context.Context) (*model.Dataset, error) {
	f, err := os.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "dataset file not found",
				goerr.V("path", c.path))
		}
		return nil, goerr.Wrap(err, "failed to open dataset file",
			goerr.V("path", c.path))
	}
	defer f.Close()

	ds, err := ReadCSV(f)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse dataset file",
			goerr.V("path", c.path))
	}

	ctxlog.From(ctx).Debug("Dataset loaded from CSV",
		"path", c.path,
		"rows", len(ds.Records),
		"columns", len(ds.Header),
	)
	return ds, nil
}

// Close is a no-op for file source
func (c *CSVFile) Close() error {
	return nil
}

// ReadCSV parses a CSV stream whose first record is the header
func ReadCSV(r io.Reader) (*model.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, goerr.New("dataset is empty", goerr.T(model.ErrTagInvalidInput))
		}
		return nil, goerr.Wrap(err, "failed to read header", goerr.T(model.ErrTagInvalidInput))
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	ds := &model.Dataset{Header: header}
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read record",
				goerr.V("row", len(ds.Records)),
				goerr.T(model.ErrTagInvalidInput))
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

// WriteCSV writes the dataset with its header row
func WriteCSV(w io.Writer, ds *model.Dataset) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ds.Header); err != nil {
		return goerr.Wrap(err, "failed to write header")
	}
	if err := writer.WriteAll(ds.Records); err != nil {
		return goerr.Wrap(err, "failed to write records")
	}
	return nil
}
