package httpserve

import (
	"errors"
)

var (
	ErrOperationNotPermited = errors.New("error operation permission denied")
	ErrNoJwt                = errors.New("no JWT token")
	ErrJwtExpired           = errors.New("JWT token is expired")
	ErrNoJwtSecret          = errors.New("JWT secret not configured")
	ErrUnsupportedBody      = errors.New("unsupported body content type")
)

const (
	msgUnauthorized = "Unauthorized"
	msgForbidden    = "Forbidden"
	msgRateLimited  = "Too many submissions. Please try again later."
	msgNotFound     = "Not found"
)
