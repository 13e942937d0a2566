package adapter

import "errors"

var (
	ErrNotFound     = errors.New("object not found")
	ErrCASConflict  = errors.New("latest pointer changed concurrently")
	ErrUnauthorized = errors.New("client unauthorized")
	ErrUnavailable  = errors.New("remote store unavailable")
)
