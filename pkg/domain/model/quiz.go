package model

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ocdcare/pkg/domain/types"
)

// QuizLength is the number of questions in the screening questionnaire
const QuizLength = 30

// QuizAnswerYes is the only answer token counted as "yes"
const QuizAnswerYes = "yes"

// QuizQuestions is the fixed questionnaire. Answer sets are index-aligned
// to this list.
var QuizQuestions = [QuizLength]string{
	"Do you ever get thoughts, images, or urges that keep coming back against your will?",
	"Do these thoughts seem strange or unreasonable to you?",
	"Can you push them out of your mind, or do they come back even if you try to ignore them?",
	"Do you feel you have to do certain things over and over again, like washing, checking, or repeating words in your head?",
	"Do these actions help you reduce anxiety or discomfort, even if only for a while?",
	"Do they interfere with your work, studies, relationships, or daily routines?",
	"Have you ever felt life was not worth living?",
	"Have you been treated by a psychiatrist or psychologist before?",
	"Have you taken any medications or therapy for this in the past?",
	"Any major illnesses, head injuries, or operations?",
	"Has anyone in your family had mental health problems, anxiety, or OCD-like symptoms?",
	"Do you drink alcohol, smoke, or use drugs like cannabis or stimulants?",
	"Do you re-read things multiple times?",
	"Do you repeat tasks until it feels 'just right'?",
	"Do you feel guilty for thoughts you can't control?",
	"Do you avoid certain numbers due to fear?",
	"Do you collect useless items compulsively?",
	"Do you need constant reassurance?",
	"Do you spend hours organizing things?",
	"Do you have difficulty discarding old things or scraps?",
	"Do you tap or touch objects repeatedly?",
	"Do you feel compelled to confess intrusive thoughts?",
	"Do you excessively groom or shower?",
	"Do you have rituals before sleeping?",
	"Do you avoid public places due to contamination fears?",
	"Do you repeatedly pray to neutralize thoughts?",
	"Do you redo simple actions many times?",
	"Do you constantly check health symptoms?",
	"Do you feel extreme discomfort when routines are interrupted?",
	"Do you avoid social activities because of your rituals?",
}

// QuizAnswerKey returns the form key of the i-th question (0-based), q1..q30
func QuizAnswerKey(i int) string {
	return fmt.Sprintf("q%d", i+1)
}

// QuizCounts holds the yes/no tally of one answer set
type QuizCounts struct {
	Yes int `json:"yes_count"`
	No  int `json:"no_count"`
}

// QuizTier is one row of the threshold table
type QuizTier struct {
	MaxYes int                 // inclusive upper bound on yes count
	Label  types.SeverityLabel // label when yes count <= MaxYes
}

// QuizThresholds is evaluated in order, first match wins. Counts above the
// last tier's MaxYes fall through to Above.
type QuizThresholds struct {
	Tiers []QuizTier
	Above types.SeverityLabel
}

// DefaultQuizThresholds returns yes<=10 Mild, yes<=20 Moderate, else Severe
func DefaultQuizThresholds() *QuizThresholds {
	return &QuizThresholds{
		Tiers: []QuizTier{
			{MaxYes: 10, Label: types.SeverityMild},
			{MaxYes: 20, Label: types.SeverityModerate},
		},
		Above: types.SeveritySevere,
	}
}

// Validate checks that tiers are strictly increasing and labels are graded
func (q *QuizThresholds) Validate() error {
	prev := -1
	for i, tier := range q.Tiers {
		if tier.MaxYes <= prev {
			return goerr.New("quiz tiers must be strictly increasing",
				goerr.V("position", i),
				goerr.V("max_yes", tier.MaxYes))
		}
		if !tier.Label.IsValid() {
			return goerr.New("invalid quiz tier label",
				goerr.V("position", i),
				goerr.V("label", tier.Label))
		}
		prev = tier.MaxYes
	}
	if !q.Above.IsValid() {
		return goerr.New("invalid label above last quiz tier",
			goerr.V("label", q.Above))
	}
	return nil
}

// Label returns the severity for a yes count
func (q *QuizThresholds) Label(yes int) types.SeverityLabel {
	for _, tier := range q.Tiers {
		if yes <= tier.MaxYes {
			return tier.Label
		}
	}
	return q.Above
}
