package logging_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ocdcare/pkg/utils/logging"
)

func TestParseFormat(t *testing.T) {
	testCases := map[string]logging.Format{
		"":        logging.FormatAuto,
		"auto":    logging.FormatAuto,
		"console": logging.FormatConsole,
		"JSON":    logging.FormatJSON,
	}
	for input, want := range testCases {
		got, err := logging.ParseFormat(input)
		gt.NoError(t, err)
		gt.Equal(t, got, want)
	}

	_, err := logging.ParseFormat("xml")
	gt.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	gt.Equal(t, logging.ParseLogLevel("debug"), slog.LevelDebug)
	gt.Equal(t, logging.ParseLogLevel("WARN"), slog.LevelWarn)
	gt.Equal(t, logging.ParseLogLevel("error"), slog.LevelError)
	gt.Equal(t, logging.ParseLogLevel(""), slog.LevelInfo)
	gt.Equal(t, logging.ParseLogLevel("verbose"), slog.LevelInfo)
}

func TestNewLoggerAutoUsesJSONForBuffers(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(slog.LevelInfo, &buf)

	logger.Debug("hidden")
	logger.Info("Cluster model trained", "clusters", 3)

	gt.S(t, buf.String()).Contains(`"msg":"Cluster model trained"`)
	gt.S(t, buf.String()).Contains(`"clusters":3`)
	gt.False(t, strings.Contains(buf.String(), "hidden"))
}
