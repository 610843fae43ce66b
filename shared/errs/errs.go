// Package errs is the error taxonomy shared by every service. Components wrap
// one of the sentinels so handlers can map failures to HTTP statuses with
// errors.Is instead of comparing message strings.
package errs

import (
	"errors"
	"net/http"
)

var (
	ErrValidation   = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// StatusCode returns the HTTP status for err. Errors outside the taxonomy are
// treated as internal failures.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
