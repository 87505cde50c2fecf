package common

import (
	"context"
	"errors"
	"net/http"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// Failure taxonomy. Services and repositories wrap these sentinels with
// context; handlers map them to transport status with HTTPStatus. Nothing is
// swallowed and converted to a false success.
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrConflict         = errors.New("conflict")
	ErrTimeout          = errors.New("timeout")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// HTTPStatus maps a failure to its stable response status.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidOperation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WrapStore classifies an error coming back from the store. Missing rows
// become ErrNotFound, deadline hits become ErrTimeout, anything else is a
// transient store failure the caller may retry whole.
func WrapStore(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.Wrap(ErrNotFound, msg)
	case errors.Is(err, context.DeadlineExceeded):
		return pkgerrors.Wrap(ErrTimeout, msg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		// callers that can resolve duplicates check IsDuplicateKey before
		// wrapping; reaching here means retries were exhausted
		return pkgerrors.Wrap(ErrConflict, msg)
	default:
		return pkgerrors.Wrapf(ErrStoreUnavailable, "%s: %v", msg, err)
	}
}

// IsDuplicateKey reports whether err is a uniqueness violation from the
// store. Requires gorm's TranslateError to be enabled on the connection.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
