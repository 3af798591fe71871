package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ocdcare/pkg/domain/interfaces"
	"github.com/secmon-lab/ocdcare/pkg/domain/model"
	_ "modernc.org/sqlite"
)

const (
	// DefaultDatasetTable is the SQLite table holding reference subjects
	DefaultDatasetTable = "reference_subjects"

	rowNumberColumn = "row_no"
)

// SQLite implements DatasetStore with a local SQLite file. The table has
// one TEXT column per dataset column plus a row number key.
type SQLite struct {
	db    *sql.DB
	path  string
	table string
}

// NewSQLite opens (or creates) the SQLite database at path
func NewSQLite(ctx context.Context, path, table string) (interfaces.DatasetStore, error) {
	if path == "" {
		return nil, goerr.New("sqlite database path is required")
	}
	if table == "" {
		table = DefaultDatasetTable
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to connect to sqlite database", goerr.V("path", path))
	}

	ctxlog.From(ctx).Debug("SQLite dataset store initialized",
		"path", path,
		"table", table,
	)

	return &SQLite{db: db, path: path, table: table}, nil
}

// LoadDataset reads every row in row number order. NULL cells become empty.
func (s *SQLite) LoadDataset(ctx context.Context) (*model.Dataset, error) {
	query := fmt.Sprintf("SELECT * FROM %s ORDER BY %s", quoteIdent(s.table), quoteIdent(rowNumberColumn))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query reference subjects",
			goerr.V("path", s.path),
			goerr.V("table", s.table))
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read columns", goerr.V("table", s.table))
	}
	if len(cols) < 2 || cols[0] != rowNumberColumn {
		return nil, goerr.New("unexpected dataset table layout",
			goerr.V("table", s.table),
			goerr.V("columns", cols))
	}

	ds := &model.Dataset{Header: cols[1:]}
	var rowNo int64
	cells := make([]sql.NullString, len(ds.Header))
	dest := make([]any, len(cols))
	dest[0] = &rowNo
	for i := range cells {
		dest[i+1] = &cells[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, goerr.Wrap(err, "failed to scan reference subject",
				goerr.V("table", s.table),
				goerr.V("row", len(ds.Records)))
		}
		rec := make([]string, len(cells))
		for i, c := range cells {
			rec[i] = c.String
		}
		ds.Records = append(ds.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate reference subjects", goerr.V("table", s.table))
	}

	if len(ds.Records) == 0 {
		return nil, goerr.New("reference dataset table is empty", goerr.V("table", s.table))
	}

	ctxlog.From(ctx).Debug("Dataset loaded from SQLite",
		"path", s.path,
		"table", s.table,
		"rows", len(ds.Records),
	)
	return ds, nil
}

// SaveDataset replaces the table with ds in a single transaction
func (s *SQLite) SaveDataset(ctx context.Context, ds *model.Dataset) error {
	if ds == nil {
		return goerr.New("dataset is nil")
	}
	if err := ds.Validate(); err != nil {
		return goerr.Wrap(err, "invalid dataset")
	}

	if ds.ColumnIndex(rowNumberColumn) >= 0 {
		return goerr.New("dataset column name is reserved", goerr.V("column", rowNumberColumn))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	colDefs := make([]string, len(ds.Header))
	colNames := make([]string, len(ds.Header))
	placeholders := make([]string, len(ds.Header))
	for i, h := range ds.Header {
		colNames[i] = quoteIdent(h)
		colDefs[i] = colNames[i] + " TEXT"
		placeholders[i] = "?"
	}

	stmts := []string{
		fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(s.table)),
		fmt.Sprintf("CREATE TABLE %s (%s INTEGER PRIMARY KEY, %s)",
			quoteIdent(s.table), quoteIdent(rowNumberColumn), strings.Join(colDefs, ", ")),
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return goerr.Wrap(err, "failed to prepare dataset table", goerr.V("table", s.table))
		}
	}

	insert, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (?, %s)",
		quoteIdent(s.table), quoteIdent(rowNumberColumn),
		strings.Join(colNames, ", "), strings.Join(placeholders, ", ")))
	if err != nil {
		return goerr.Wrap(err, "failed to prepare insert", goerr.V("table", s.table))
	}
	defer insert.Close()

	args := make([]any, len(ds.Header)+1)
	for i, rec := range ds.Records {
		args[0] = i
		for j, v := range rec {
			args[j+1] = v
		}
		if _, err := insert.ExecContext(ctx, args...); err != nil {
			return goerr.Wrap(err, "failed to insert reference subject",
				goerr.V("table", s.table),
				goerr.V("row", i))
		}
	}

	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit dataset", goerr.V("table", s.table))
	}

	ctxlog.From(ctx).Info("Dataset saved to SQLite",
		"path", s.path,
		"table", s.table,
		"rows", len(ds.Records),
	)
	return nil
}

// Close closes the database
func (s *SQLite) Close() error {
	return s.db.Close()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
