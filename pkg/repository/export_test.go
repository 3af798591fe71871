package repository

// Test-only accessors for unexported helpers
var (
	CellString    = cellString
	DocumentID    = documentID
	HeaderColumns = headerColumns
)
