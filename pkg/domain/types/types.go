package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// VerdictID represents a severity verdict identifier
type VerdictID string

// String returns the string representation
func (id VerdictID) String() string {
	return string(id)
}

// NewVerdictID creates a new VerdictID using UUID v7
func NewVerdictID() (VerdictID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate verdict ID")
	}
	return VerdictID(id.String()), nil
}

// SeverityLabel is the engine's categorical output
type SeverityLabel string

const (
	SeverityMild     SeverityLabel = "Mild"
	SeverityModerate SeverityLabel = "Moderate"
	SeveritySevere   SeverityLabel = "Severe"

	// SeverityUnknown is returned when a cluster index has no entry in the
	// severity table.
	SeverityUnknown SeverityLabel = "Unknown"
)

// String returns the string representation
func (s SeverityLabel) String() string {
	return string(s)
}

// IsValid reports whether s is one of the three graded labels.
// SeverityUnknown is not valid.
func (s SeverityLabel) IsValid() bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere:
		return true
	default:
		return false
	}
}

// VerdictSource identifies which signal produced a verdict
type VerdictSource string

const (
	VerdictSourceDemographic VerdictSource = "demographic"
	VerdictSourceQuiz        VerdictSource = "quiz"
)

// String returns the string representation
func (s VerdictSource) String() string {
	return string(s)
}

// ValidationMode controls how Yes/No tokens are coerced
type ValidationMode string

const (
	// ValidationPermissive treats any token other than "Yes" as false
	ValidationPermissive ValidationMode = "permissive"
	// ValidationStrict rejects any token other than "Yes" or "No"
	ValidationStrict ValidationMode = "strict"
)

// String returns the string representation
func (m ValidationMode) String() string {
	return string(m)
}

// IsValid checks if the mode is known
func (m ValidationMode) IsValid() bool {
	switch m {
	case ValidationPermissive, ValidationStrict:
		return true
	default:
		return false
	}
}

// ClusterLabeling selects how trained clusters are numbered before the
// severity table is applied
type ClusterLabeling string

const (
	// ClusterLabelingIndex numbers clusters by first appearance. Index order
	// carries no severity meaning.
	ClusterLabelingIndex ClusterLabeling = "index"
	// ClusterLabelingDurationRank numbers clusters by ascending mean symptom
	// duration of their members.
	ClusterLabelingDurationRank ClusterLabeling = "duration-rank"
)

// String returns the string representation
func (l ClusterLabeling) String() string {
	return string(l)
}

// IsValid checks if the labeling strategy is known
func (l ClusterLabeling) IsValid() bool {
	switch l {
	case ClusterLabelingIndex, ClusterLabelingDurationRank:
		return true
	default:
		return false
	}
}
