package quiz

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ocdcare/pkg/domain/model"
	"github.com/secmon-lab/ocdcare/pkg/domain/types"
)

// Scorer maps a questionnaire answer set to a severity verdict
type Scorer struct {
	thresholds *model.QuizThresholds
}

// New creates a Scorer with the default threshold table
func New() *Scorer {
	return &Scorer{thresholds: model.DefaultQuizThresholds()}
}

// Count tallies yes and no answers. The set must hold exactly
// model.QuizLength answers.
func Count(answers []bool) (model.QuizCounts, error) {
	if len(answers) != model.QuizLength {
		return model.QuizCounts{}, goerr.New("answer set has wrong length",
			goerr.V("length", len(answers)),
			goerr.V("expected", model.QuizLength),
			goerr.T(model.ErrTagInvalidInput))
	}

	yes := 0
	for _, a := range answers {
		if a {
			yes++
		}
	}
	return model.QuizCounts{Yes: yes, No: model.QuizLength - yes}, nil
}

// Score counts the answers and applies the threshold table
func (s *Scorer) Score(answers []bool) (*model.SeverityVerdict, error) {
	counts, err := Count(answers)
	if err != nil {
		return nil, err
	}

	verdict, err := model.NewSeverityVerdict(types.VerdictSourceQuiz, s.thresholds.Label(counts.Yes))
	if err != nil {
		return nil, err
	}
	verdict.Counts = &counts
	return verdict, nil
}

// ParseAnswers converts answer tokens into booleans. Only the exact token
// "yes" counts as true.
func ParseAnswers(tokens []string) []bool {
	answers := make([]bool, len(tokens))
	for i, tok := range tokens {
		answers[i] = tok == model.QuizAnswerYes
	}
	return answers
}

// AnswersFromForm reads q1..q30 from a key/value lookup. Missing keys are
// answered "no".
func AnswersFromForm(get func(key string) (string, bool)) []string {
	tokens := make([]string, model.QuizLength)
	for i := range tokens {
		v, ok := get(model.QuizAnswerKey(i))
		if !ok {
			v = "no"
		}
		tokens[i] = v
	}
	return tokens
}
