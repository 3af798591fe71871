package repository

import (
	"context"
	"fmt"
	"strconv"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ocdcare/pkg/domain/interfaces"
	"github.com/secmon-lab/ocdcare/pkg/domain/model"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// DefaultDatasetCollection holds one document per reference subject
	DefaultDatasetCollection = "reference_subjects"

	// Firestore limits a write batch to 500 operations
	maxBatchWrites = 500

	maxConcurrentBatches = 4

	// The header lives in a sibling collection so it never shows up as a row
	metadataSuffix   = "_meta"
	headerDocumentID = "header"
)

// Firestore implements DatasetStore with Firestore. Each document is one
// dataset record whose fields are named after the dataset columns.
type Firestore struct {
	client     *firestore.Client
	collection string
}

// NewFirestore creates a new Firestore dataset store
func NewFirestore(ctx context.Context, projectID, databaseID, collection string) (interfaces.DatasetStore, error) {
	logger := ctxlog.From(ctx)

	if collection == "" {
		collection = DefaultDatasetCollection
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Fail fast on bad project or credentials
	_, err = client.Collection(collection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore dataset store initialized",
		"projectID", projectID,
		"databaseID", databaseID,
		"collection", collection,
	)

	return &Firestore{
		client:     client,
		collection: collection,
	}, nil
}

// LoadDataset reads every document in document ID order. The header comes
// from the metadata document written by SaveDataset; collections filled by
// other tools fall back to the feature columns. Fields missing from a
// document become empty cells.
func (f *Firestore) LoadDataset(ctx context.Context) (*model.Dataset, error) {
	header, err := f.loadHeader(ctx)
	if err != nil {
		return nil, err
	}
	ds := &model.Dataset{Header: header}

	iter := f.client.Collection(f.collection).OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate reference subjects",
				goerr.V("collection", f.collection))
		}

		data := doc.Data()
		rec := make([]string, len(ds.Header))
		for i, col := range ds.Header {
			rec[i] = cellString(data[col])
		}
		ds.Records = append(ds.Records, rec)
	}

	if len(ds.Records) == 0 {
		return nil, goerr.New("reference dataset collection is empty",
			goerr.V("collection", f.collection))
	}

	ctxlog.From(ctx).Debug("Dataset loaded from Firestore",
		"collection", f.collection,
		"rows", len(ds.Records),
	)
	return ds, nil
}

// SaveDataset replaces the collection with ds. Existing documents are
// deleted first, then one document per record is written with the
// zero-padded row number as ID so LoadDataset returns rows in the same
// order. Batches commit concurrently and are not atomic as a whole.
func (f *Firestore) SaveDataset(ctx context.Context, ds *model.Dataset) error {
	if ds == nil {
		return goerr.New("dataset is nil")
	}
	if err := ds.Validate(); err != nil {
		return goerr.Wrap(err, "invalid dataset")
	}

	deleted, err := f.deleteAll(ctx)
	if err != nil {
		return err
	}

	col := f.client.Collection(f.collection)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentBatches)

	for start := 0; start < len(ds.Records); start += maxBatchWrites {
		end := min(start+maxBatchWrites, len(ds.Records))

		batch := f.client.Batch()
		for i := start; i < end; i++ {
			data := make(map[string]interface{}, len(ds.Header))
			for j, h := range ds.Header {
				data[h] = ds.Records[i][j]
			}
			batch.Set(col.Doc(documentID(i)), data)
		}

		eg.Go(func() error {
			if _, err := batch.Commit(egCtx); err != nil {
				return goerr.Wrap(err, "failed to save reference subjects",
					goerr.V("collection", f.collection),
					goerr.V("from", start),
					goerr.V("to", end))
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	if _, err := f.headerDoc().Set(ctx, map[string]interface{}{"columns": ds.Header}); err != nil {
		return goerr.Wrap(err, "failed to save dataset header",
			goerr.V("collection", f.collection))
	}

	ctxlog.From(ctx).Info("Dataset saved to Firestore",
		"collection", f.collection,
		"rows", len(ds.Records),
		"deleted", deleted,
	)
	return nil
}

// deleteAll removes every document in the collection and its header
// document, returning the number of reference subjects removed.
func (f *Firestore) deleteAll(ctx context.Context) (int, error) {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentBatches)

	refs := f.client.Collection(f.collection).DocumentRefs(ctx)
	deleted := 0
	pending := make([]*firestore.DocumentRef, 0, maxBatchWrites)

	flush := func() {
		if len(pending) == 0 {
			return
		}
		batch := f.client.Batch()
		for _, ref := range pending {
			batch.Delete(ref)
		}
		size := len(pending)
		pending = make([]*firestore.DocumentRef, 0, maxBatchWrites)

		eg.Go(func() error {
			if _, err := batch.Commit(egCtx); err != nil {
				return goerr.Wrap(err, "failed to delete reference subjects",
					goerr.V("collection", f.collection),
					goerr.V("count", size))
			}
			return nil
		})
	}

	for {
		ref, err := refs.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			_ = eg.Wait()
			return 0, goerr.Wrap(err, "failed to list reference subjects",
				goerr.V("collection", f.collection))
		}
		pending = append(pending, ref)
		deleted++
		if len(pending) == maxBatchWrites {
			flush()
		}
	}
	flush()

	if err := eg.Wait(); err != nil {
		return 0, err
	}

	if _, err := f.headerDoc().Delete(ctx); err != nil && status.Code(err) != codes.NotFound {
		return 0, goerr.Wrap(err, "failed to delete dataset header",
			goerr.V("collection", f.collection))
	}
	return deleted, nil
}

func (f *Firestore) headerDoc() *firestore.DocumentRef {
	return f.client.Collection(f.collection + metadataSuffix).Doc(headerDocumentID)
}

func (f *Firestore) loadHeader(ctx context.Context) ([]string, error) {
	doc, err := f.headerDoc().Get(ctx)
	if status.Code(err) == codes.NotFound {
		return append([]string(nil), model.FeatureColumns[:]...), nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load dataset header",
			goerr.V("collection", f.collection))
	}

	header, err := headerColumns(doc.Data()["columns"])
	if err != nil {
		return nil, goerr.Wrap(err, "invalid dataset header",
			goerr.V("collection", f.collection))
	}
	return header, nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	return f.client.Close()
}

func documentID(row int) string {
	return fmt.Sprintf("row-%08d", row)
}

// cellString renders a Firestore field value as a dataset cell. Booleans
// become the Yes/No tokens used by the questionnaire forms.
func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "Yes"
		}
		return "No"
	default:
		return fmt.Sprint(val)
	}
}

func headerColumns(v interface{}) ([]string, error) {
	values, ok := v.([]interface{})
	if !ok || len(values) == 0 {
		return nil, goerr.New("header columns missing")
	}
	header := make([]string, len(values))
	for i, c := range values {
		name, ok := c.(string)
		if !ok || name == "" {
			return nil, goerr.New("header column is not a name", goerr.V("index", i))
		}
		header[i] = name
	}
	return header, nil
}
