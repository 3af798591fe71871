package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Dataset is a raw reference table of historical subjects. Cells keep their
// textual form; typing and null handling happen at training time.
type Dataset struct {
	Header  []string
	Records [][]string
}

// Validate checks that every record matches the header width
func (d *Dataset) Validate() error {
	if len(d.Header) == 0 {
		return goerr.New("dataset header is empty", goerr.T(ErrTagInvalidInput))
	}
	for i, rec := range d.Records {
		if len(rec) != len(d.Header) {
			return goerr.New("dataset record width does not match header",
				goerr.V("row", i),
				goerr.V("width", len(rec)),
				goerr.V("header_width", len(d.Header)),
				goerr.T(ErrTagInvalidInput))
		}
	}
	return nil
}

// ColumnIndex returns the position of a named column, or -1
func (d *Dataset) ColumnIndex(name string) int {
	for i, h := range d.Header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// FeatureIndices resolves FeatureColumns against the header
func (d *Dataset) FeatureIndices() ([FeatureCount]int, error) {
	var idx [FeatureCount]int
	for i, col := range FeatureColumns {
		pos := d.ColumnIndex(col)
		if pos < 0 {
			return idx, goerr.New("dataset is missing a feature column",
				goerr.V("column", col),
				goerr.T(ErrTagInvalidInput))
		}
		idx[i] = pos
	}
	return idx, nil
}

// nullTokens are the cell values treated as missing
var nullTokens = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// IsNullCell reports whether a cell value counts as missing
func IsNullCell(v string) bool {
	return nullTokens[strings.TrimSpace(v)]
}
