package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ocdcare/pkg/domain/interfaces"
	"github.com/secmon-lab/ocdcare/pkg/domain/model"
	"github.com/secmon-lab/ocdcare/pkg/domain/types"
	"github.com/secmon-lab/ocdcare/pkg/service/cluster"
	"github.com/secmon-lab/ocdcare/pkg/service/encoder"
	"github.com/secmon-lab/ocdcare/pkg/service/quiz"
)

// Screening routes demographic forms to the cluster classifier and
// questionnaires to the quiz scorer. It holds no per-request state and is
// safe for concurrent use.
type Screening struct {
	encoder    *encoder.Encoder
	classifier interfaces.SeverityClassifier
	scorer     *quiz.Scorer
}

var _ interfaces.Screening = (*Screening)(nil)

// NewScreening creates a new Screening use case
func NewScreening(enc *encoder.Encoder, classifier interfaces.SeverityClassifier, scorer *quiz.Scorer) *Screening {
	return &Screening{
		encoder:    enc,
		classifier: classifier,
		scorer:     scorer,
	}
}

// BuildScreening loads the reference dataset, trains the cluster model and
// wires the screening use case. Any failure here must abort startup.
func BuildScreening(ctx context.Context, src interfaces.DatasetSource, cfg *model.EngineConfig) (*Screening, error) {
	if cfg == nil {
		cfg = model.DefaultEngineConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid engine config")
	}

	enc, err := encoder.New(cfg.Validation)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create encoder")
	}

	ds, err := src.LoadDataset(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load reference dataset")
	}

	m, err := cluster.Train(ctx, ds, cluster.OptionsFromConfig(cfg))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to train cluster model")
	}

	return NewScreening(enc, m, quiz.New()), nil
}

// ClassifyDemographic encodes the demographic form and classifies it with
// the trained model. Subtypes are carried to the verdict unchanged.
func (s *Screening) ClassifyDemographic(ctx context.Context, input *model.DemographicInput) (*model.SeverityVerdict, error) {
	if input == nil {
		return nil, goerr.New("demographic input is required", goerr.T(model.ErrTagInvalidInput))
	}

	features, err := s.encoder.Encode(
		input.Age,
		input.FamilyHistory,
		input.DurationMonths,
		input.DepressionDiagnosis,
		input.AnxietyDiagnosis,
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode demographic input")
	}

	label := s.classifier.Classify(ctx, features)
	verdict, err := model.NewSeverityVerdict(types.VerdictSourceDemographic, label)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create verdict")
	}
	if len(input.Subtypes) > 0 {
		verdict.Subtypes = append([]string(nil), input.Subtypes...)
	}

	ctxlog.From(ctx).Debug("Demographic screening classified",
		"verdictID", verdict.ID,
		"severity", verdict.Label,
	)
	return verdict, nil
}

// ScoreQuiz scores the questionnaire tokens. Only "yes" counts as a yes.
func (s *Screening) ScoreQuiz(ctx context.Context, answers []string) (*model.SeverityVerdict, error) {
	verdict, err := s.scorer.Score(quiz.ParseAnswers(answers))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to score questionnaire")
	}

	ctxlog.From(ctx).Debug("Questionnaire scored",
		"verdictID", verdict.ID,
		"severity", verdict.Label,
		"yes", verdict.Counts.Yes,
	)
	return verdict, nil
}

// ModelSummary describes the trained cluster model
func (s *Screening) ModelSummary() model.ClusterSummary {
	return s.classifier.Summary()
}
