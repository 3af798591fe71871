package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ocdcare/pkg/domain/model"
	"github.com/secmon-lab/ocdcare/pkg/domain/types"
)

func TestQuizThresholds(t *testing.T) {
	th := model.DefaultQuizThresholds()
	gt.NoError(t, th.Validate())

	tests := []struct {
		yes  int
		want types.SeverityLabel
	}{
		{0, types.SeverityMild},
		{10, types.SeverityMild},
		{11, types.SeverityModerate},
		{20, types.SeverityModerate},
		{21, types.SeveritySevere},
		{30, types.SeveritySevere},
	}
	for _, tt := range tests {
		gt.Equal(t, th.Label(tt.yes), tt.want)
	}
}

func TestQuizThresholdsValidate(t *testing.T) {
	t.Run("error when tiers are not increasing", func(t *testing.T) {
		th := model.QuizThresholds{
			Tiers: []model.QuizTier{
				{MaxYes: 20, Label: types.SeverityMild},
				{MaxYes: 10, Label: types.SeverityModerate},
			},
			Above: types.SeveritySevere,
		}
		gt.Error(t, th.Validate())
	})

	t.Run("error when fallthrough label is Unknown", func(t *testing.T) {
		th := model.QuizThresholds{Above: types.SeverityUnknown}
		gt.Error(t, th.Validate())
	})
}

func TestQuizQuestions(t *testing.T) {
	for i, q := range model.QuizQuestions {
		gt.True(t, q != "")
		gt.Equal(t, model.QuizAnswerKey(i)[0], byte('q'))
	}
	gt.Equal(t, model.QuizAnswerKey(0), "q1")
	gt.Equal(t, model.QuizAnswerKey(29), "q30")
}
