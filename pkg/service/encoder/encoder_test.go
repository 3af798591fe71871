package encoder_test

import (
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ocdcare/pkg/domain/model"
	"github.com/secmon-lab/ocdcare/pkg/domain/types"
	"github.com/secmon-lab/ocdcare/pkg/service/encoder"
)

func newEncoder(t *testing.T, mode types.ValidationMode) *encoder.Encoder {
	t.Helper()
	enc, err := encoder.New(mode)
	gt.NoError(t, err).Required()
	return enc
}

func TestEncode(t *testing.T) {
	enc := newEncoder(t, types.ValidationPermissive)

	t.Run("emits fixed feature order", func(t *testing.T) {
		f, err := enc.Encode("30", "Yes", "6", "No", "Yes")
		gt.NoError(t, err).Required()
		gt.Equal(t, f, model.ScreeningFeatures{30, 1, 6, 0, 1})
		gt.Equal(t, f.Age(), 30.0)
		gt.Equal(t, f.DurationMonths(), 6.0)
	})

	t.Run("trims whitespace around numbers", func(t *testing.T) {
		f, err := enc.Encode(" 42 ", "No", "12 ", "No", "No")
		gt.NoError(t, err).Required()
		gt.Equal(t, f, model.ScreeningFeatures{42, 0, 12, 0, 0})
	})

	t.Run("error when age is not numeric", func(t *testing.T) {
		_, err := enc.Encode("thirty", "No", "6", "No", "No")
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagInvalidInput)).True()
	})

	t.Run("error when duration is fractional", func(t *testing.T) {
		_, err := enc.Encode("30", "No", "6.5", "No", "No")
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagInvalidInput)).True()
	})

	t.Run("error when age is negative", func(t *testing.T) {
		_, err := enc.Encode("-1", "No", "6", "No", "No")
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagInvalidInput)).True()
	})
}

func TestEncodePermissiveCoercion(t *testing.T) {
	enc := newEncoder(t, types.ValidationPermissive)

	no, err := enc.Encode("30", "No", "6", "No", "No")
	gt.NoError(t, err).Required()

	for _, token := range []string{"maybe", "yes", "YES", "", "1"} {
		t.Run("token "+token, func(t *testing.T) {
			f, err := enc.Encode("30", token, "6", "No", "No")
			gt.NoError(t, err).Required()
			gt.Equal(t, f[model.FeatureFamilyHistory], 0.0)
			gt.Equal(t, f, no)
		})
	}
}

func TestEncodeStrict(t *testing.T) {
	enc := newEncoder(t, types.ValidationStrict)
	gt.Equal(t, enc.Mode(), types.ValidationStrict)

	t.Run("accepts exact tokens", func(t *testing.T) {
		f, err := enc.Encode("30", "Yes", "6", "No", "Yes")
		gt.NoError(t, err).Required()
		gt.Equal(t, f, model.ScreeningFeatures{30, 1, 6, 0, 1})
	})

	t.Run("rejects unexpected token", func(t *testing.T) {
		_, err := enc.Encode("30", "maybe", "6", "No", "No")
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagInvalidInput)).True()
	})
}

func TestNew(t *testing.T) {
	t.Run("empty mode defaults to permissive", func(t *testing.T) {
		enc := newEncoder(t, "")
		gt.Equal(t, enc.Mode(), types.ValidationPermissive)
	})

	t.Run("error on unknown mode", func(t *testing.T) {
		_, err := encoder.New("lenient")
		gt.Error(t, err)
	})
}
