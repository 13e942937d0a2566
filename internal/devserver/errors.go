package devserver

import "errors"

// Sentinel errors describing the ways a request can fail to present a
// usable "Authorization" HTTP header.
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is present but does not follow the "<scheme> <token>" format.
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrEmptyToken is returned when the "Authorization" header contains the
	// scheme but the token part is an empty string.
	ErrEmptyToken = errors.New("empty token in `Authorization` header")
)
