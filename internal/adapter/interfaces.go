// Package adapter provides transport-layer access to the remote backup
// store.
//
// The primary abstraction is [RemoteStore], which decouples the sync
// services from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPRemoteStore]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes
// by mapHTTPError so that callers can use [errors.Is] for
// transport-agnostic error handling (e.g. [ErrCASConflict] for 412,
// [ErrNotFound] for 404).
package adapter

import (
	"context"
	"time"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_store_mock.go -package=mock

// ObjectInfo describes a stored object without its payload.
type ObjectInfo struct {
	Key      string    `json:"key"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// RemoteStore defines transport-agnostic communication with the backup
// backend. Implementations are responsible for serialisation, auth
// header management, applying the configured payload transform, and
// mapping transport-level errors to the sentinel values defined in this
// package.
type RemoteStore interface {
	// Ping probes connectivity. Returns [ErrUnavailable] (wrapped) when
	// the backend cannot be reached; the coordinator treats that as
	// being offline.
	Ping(ctx context.Context) error

	// PutObject uploads data under key, overwriting any existing
	// object. The payload transform is applied before upload.
	PutObject(ctx context.Context, key string, data []byte) error

	// GetObject downloads the object stored under key and reverses the
	// payload transform. Returns [ErrNotFound] (wrapped) when no such
	// object exists.
	GetObject(ctx context.Context, key string) ([]byte, error)

	// StatObject fetches object metadata without transferring the
	// payload. Returns [ErrNotFound] (wrapped) when no such object
	// exists.
	StatObject(ctx context.Context, key string) (ObjectInfo, error)

	// ListObjects returns metadata for every object whose key starts
	// with prefix, ordered by key.
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// GetLatestPointer returns the snapshot id the latest-pointer
	// currently designates, or an empty string when no snapshot has
	// been published yet.
	GetLatestPointer(ctx context.Context) (string, error)

	// SetLatestPointer atomically swings the latest-pointer from
	// expected to next. Returns [ErrCASConflict] (wrapped) when the
	// pointer no longer holds expected, in which case the caller must
	// re-read and reconcile.
	SetLatestPointer(ctx context.Context, expected, next string) error
}
