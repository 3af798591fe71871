package interfaces

import (
	"context"

	"github.com/secmon-lab/ocdcare/pkg/domain/model"
	"github.com/secmon-lab/ocdcare/pkg/domain/types"
)

// SeverityClassifier maps an encoded feature vector to a severity label.
// Implementations must be safe for concurrent use.
type SeverityClassifier interface {
	Classify(ctx context.Context, f model.ScreeningFeatures) types.SeverityLabel
	Summary() model.ClusterSummary
}

// Screening is the use case consumed by presentation layers
type Screening interface {
	// ClassifyDemographic encodes the demographic form and classifies it
	ClassifyDemographic(ctx context.Context, input *model.DemographicInput) (*model.SeverityVerdict, error)

	// ScoreQuiz scores the 30 questionnaire answers
	ScoreQuiz(ctx context.Context, answers []string) (*model.SeverityVerdict, error)

	// ModelSummary describes the trained cluster model
	ModelSummary() model.ClusterSummary
}
