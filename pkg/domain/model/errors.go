package model

import "github.com/m-mizutani/goerr/v2"

// Error tags for categorization
var (
	// ErrTagInvalidInput marks malformed, missing or wrong-arity input.
	// Recoverable and reported to the caller.
	ErrTagInvalidInput = goerr.NewTag("invalid_input")

	// ErrTagInsufficientData marks a reference dataset that cannot support
	// the requested cluster count. Fatal to startup.
	ErrTagInsufficientData = goerr.NewTag("insufficient_data")

	// ErrTagUnmappedCluster marks a cluster index without a severity entry.
	// Only logged; callers receive SeverityUnknown instead.
	ErrTagUnmappedCluster = goerr.NewTag("unmapped_cluster")
)
