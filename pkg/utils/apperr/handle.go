package apperr

import (
	"context"
	"errors"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ocdcare/pkg/domain/model"
)

// Handle logs an error that cannot be returned to a caller. Client errors
// are logged at warn level, everything else at error level.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}
	logger := ctxlog.From(ctx)
	if IsClientError(err) {
		logger.Warn("invalid request", "error", err)
		return
	}
	logger.Error("application error", "error", err)
}

// IsClientError reports whether err was caused by the caller's input
func IsClientError(err error) bool {
	return goerr.HasTag(err, model.ErrTagInvalidInput)
}

// HTTPStatus maps an error to the response status code
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case isTooLarge(err):
		return http.StatusRequestEntityTooLarge
	case IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func isTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}
