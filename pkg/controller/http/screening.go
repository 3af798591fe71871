package http

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ocdcare/pkg/domain/model"
	"github.com/secmon-lab/ocdcare/pkg/service/quiz"
)

// Form field names of the demographic form
const (
	fieldAge        = "age"
	fieldHistory    = "history"
	fieldDuration   = "duration"
	fieldDepression = "depression"
	fieldAnxiety    = "anxiety"
	fieldSubtypes   = "subtypes"
)

type quizQuestion struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

func handleQuizQuestions(w http.ResponseWriter, r *http.Request) {
	questions := make([]quizQuestion, model.QuizLength)
	for i, text := range model.QuizQuestions {
		questions[i] = quizQuestion{Key: model.QuizAnswerKey(i), Text: text}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"questions": questions,
	})
}

func (s *Server) handleDemographic(w http.ResponseWriter, r *http.Request) {
	var input model.DemographicInput

	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			writeError(w, r, goerr.Wrap(err, "failed to parse form", goerr.T(model.ErrTagInvalidInput)))
			return
		}
		input = model.DemographicInput{
			Age:                 r.PostForm.Get(fieldAge),
			FamilyHistory:       r.PostForm.Get(fieldHistory),
			DurationMonths:      r.PostForm.Get(fieldDuration),
			DepressionDiagnosis: r.PostForm.Get(fieldDepression),
			AnxietyDiagnosis:    r.PostForm.Get(fieldAnxiety),
			Subtypes:            r.PostForm[fieldSubtypes],
		}
	} else if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, r, goerr.Wrap(err, "failed to decode request body", goerr.T(model.ErrTagInvalidInput)))
		return
	}

	verdict, err := s.screening.ClassifyDemographic(r.Context(), &input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, verdict)
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	answers, err := readQuizAnswers(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	verdict, err := s.screening.ScoreQuiz(r.Context(), answers)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, verdict)
}

// readQuizAnswers accepts an ordered "answers" list or q1..q30 keys.
// Missing keys are answered "no"; an explicit list is used as is.
func readQuizAnswers(r *http.Request) ([]string, error) {
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			return nil, goerr.Wrap(err, "failed to parse form", goerr.T(model.ErrTagInvalidInput))
		}
		return quiz.AnswersFromForm(func(key string) (string, bool) {
			v, ok := r.PostForm[key]
			if !ok || len(v) == 0 {
				return "", false
			}
			return v[0], true
		}), nil
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, goerr.Wrap(err, "failed to decode request body", goerr.T(model.ErrTagInvalidInput))
	}

	if list, ok := raw["answers"]; ok {
		var answers []string
		if err := json.Unmarshal(list, &answers); err != nil {
			return nil, goerr.Wrap(err, "answers must be a list of strings", goerr.T(model.ErrTagInvalidInput))
		}
		return answers, nil
	}

	var decodeErr error
	answers := quiz.AnswersFromForm(func(key string) (string, bool) {
		v, ok := raw[key]
		if !ok {
			return "", false
		}
		var token string
		if err := json.Unmarshal(v, &token); err != nil {
			decodeErr = goerr.Wrap(err, "answer must be a string",
				goerr.V("key", key),
				goerr.T(model.ErrTagInvalidInput))
			return "", false
		}
		return token, true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return answers, nil
}

func isForm(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded"
}
