package encoder

import (
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ocdcare/pkg/domain/model"
	"github.com/secmon-lab/ocdcare/pkg/domain/types"
)

// Yes/No tokens accepted on the demographic form
const (
	TokenYes = "Yes"
	TokenNo  = "No"
)

// Encoder converts raw screening answers into ScreeningFeatures
type Encoder struct {
	mode types.ValidationMode
}

// New creates an Encoder. An empty mode means permissive.
func New(mode types.ValidationMode) (*Encoder, error) {
	if mode == "" {
		mode = types.ValidationPermissive
	}
	if !mode.IsValid() {
		return nil, goerr.New("invalid validation mode", goerr.V("mode", mode))
	}
	return &Encoder{mode: mode}, nil
}

// Mode returns the validation mode
func (e *Encoder) Mode() types.ValidationMode {
	return e.mode
}

// Encode builds the feature vector in model.FeatureColumns order
func (e *Encoder) Encode(age, familyHistory, durationMonths, depressionDiagnosis, anxietyDiagnosis string) (model.ScreeningFeatures, error) {
	var f model.ScreeningFeatures

	a, err := parseWholeNumber(model.ColumnAge, age)
	if err != nil {
		return f, err
	}
	d, err := parseWholeNumber(model.ColumnDurationMonths, durationMonths)
	if err != nil {
		return f, err
	}
	fh, err := e.flag(model.ColumnFamilyHistory, familyHistory)
	if err != nil {
		return f, err
	}
	dep, err := e.flag(model.ColumnDepressionDiagnosis, depressionDiagnosis)
	if err != nil {
		return f, err
	}
	anx, err := e.flag(model.ColumnAnxietyDiagnosis, anxietyDiagnosis)
	if err != nil {
		return f, err
	}

	f[model.FeatureAge] = float64(a)
	f[model.FeatureFamilyHistory] = fh
	f[model.FeatureDurationMonths] = float64(d)
	f[model.FeatureDepressionDiagnosis] = dep
	f[model.FeatureAnxietyDiagnosis] = anx
	return f, nil
}

// flag encodes a Yes/No token. Only the exact token "Yes" is 1. In
// permissive mode everything else is 0.
func (e *Encoder) flag(field, token string) (float64, error) {
	switch token {
	case TokenYes:
		return 1, nil
	case TokenNo:
		return 0, nil
	}
	if e.mode == types.ValidationStrict {
		return 0, goerr.New("answer must be Yes or No",
			goerr.V("field", field),
			goerr.V("value", token),
			goerr.T(model.ErrTagInvalidInput))
	}
	return 0, nil
}

func parseWholeNumber(field, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, goerr.Wrap(err, "value is not a whole number",
			goerr.V("field", field),
			goerr.V("value", raw),
			goerr.T(model.ErrTagInvalidInput))
	}
	if v < 0 {
		return 0, goerr.New("value must not be negative",
			goerr.V("field", field),
			goerr.V("value", v),
			goerr.T(model.ErrTagInvalidInput))
	}
	return v, nil
}
