package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-study-sync/internal/config"
	"github.com/MKhiriev/go-study-sync/internal/logger"
)

type httpRemoteStore struct {
	client    *resty.Client
	transform Transform
	logger    *logger.Logger
}

// pointerDocument is the wire form of the latest-pointer resource.
type pointerDocument struct {
	SnapshotID string `json:"snapshot_id"`
}

// NewHTTPRemoteStore constructs an HTTP/REST implementation of
// [RemoteStore]. It normalises and validates the base URL from
// cfg.BaseURL, configures the resty client with the resolved base URL,
// request timeout, and bearer token, and installs transform (nil means
// the identity transform).
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a
// valid URL.
func NewHTTPRemoteStore(cfg config.Adapter, transform Transform, log *logger.Logger) (RemoteStore, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter base url: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout)
	if cfg.AuthToken != "" {
		client.SetAuthToken(cfg.AuthToken)
	}

	if transform == nil {
		transform = NoopTransform()
	}

	return &httpRemoteStore{client: client, transform: transform, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Ping implements [RemoteStore]. It GETs /api/health; any
// transport-level failure is reported as [ErrUnavailable] so the caller
// can treat it as being offline.
func (h *httpRemoteStore) Ping(ctx context.Context) error {
	resp, err := h.client.R().
		SetContext(ctx).
		Get("/api/health")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return mapHTTPError(resp)
}

// PutObject implements [RemoteStore]. It seals data with the configured
// transform and PUTs it to /api/objects/{key}.
func (h *httpRemoteStore) PutObject(ctx context.Context, key string, data []byte) error {
	sealed, err := h.transform.Seal(data)
	if err != nil {
		return fmt.Errorf("seal object %s: %w", key, err)
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(sealed).
		Put("/api/objects/" + key)
	if err != nil {
		return fmt.Errorf("%w: put object: %w", ErrUnavailable, err)
	}

	return mapHTTPError(resp)
}

// GetObject implements [RemoteStore]. It GETs /api/objects/{key} and
// opens the body with the configured transform.
func (h *httpRemoteStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Get("/api/objects/" + key)
	if err != nil {
		return nil, fmt.Errorf("%w: get object: %w", ErrUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	data, err := h.transform.Open(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("open object %s: %w", key, err)
	}

	return data, nil
}

// StatObject implements [RemoteStore]. It issues a HEAD request and
// assembles [ObjectInfo] from the Content-Length and Last-Modified
// response headers.
func (h *httpRemoteStore) StatObject(ctx context.Context, key string) (ObjectInfo, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Head("/api/objects/" + key)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("%w: stat object: %w", ErrUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return ObjectInfo{}, err
	}

	info := ObjectInfo{Key: key}
	if v := resp.Header().Get("Content-Length"); v != "" {
		if info.Size, err = strconv.ParseInt(v, 10, 64); err != nil {
			return ObjectInfo{}, fmt.Errorf("stat object %s: bad content length %q", key, v)
		}
	}
	if v := resp.Header().Get("Last-Modified"); v != "" {
		modified, err := http.ParseTime(v)
		if err != nil {
			return ObjectInfo{}, fmt.Errorf("stat object %s: bad last modified %q", key, v)
		}
		info.Modified = modified.UTC()
	}

	return info, nil
}

// ListObjects implements [RemoteStore]. It GETs /api/objects with the
// prefix query parameter and decodes the JSON listing.
func (h *httpRemoteStore) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParam("prefix", prefix).
		Get("/api/objects")
	if err != nil {
		return nil, fmt.Errorf("%w: list objects: %w", ErrUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var infos []ObjectInfo
	if err = json.Unmarshal(resp.Body(), &infos); err != nil {
		return nil, fmt.Errorf("decode object listing: %w", err)
	}

	return infos, nil
}

// GetLatestPointer implements [RemoteStore]. An empty snapshot id means
// no snapshot has been published yet.
func (h *httpRemoteStore) GetLatestPointer(ctx context.Context) (string, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Get("/api/pointer")
	if err != nil {
		return "", fmt.Errorf("%w: get pointer: %w", ErrUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	var doc pointerDocument
	if err = json.Unmarshal(resp.Body(), &doc); err != nil {
		return "", fmt.Errorf("decode pointer: %w", err)
	}

	return doc.SnapshotID, nil
}

// SetLatestPointer implements [RemoteStore]. The compare step rides on
// the If-Match header; the server answers 412 when the pointer no
// longer holds expected, which maps to [ErrCASConflict].
func (h *httpRemoteStore) SetLatestPointer(ctx context.Context, expected, next string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("If-Match", expected).
		SetBody(pointerDocument{SnapshotID: next}).
		Put("/api/pointer")
	if err != nil {
		return fmt.Errorf("%w: set pointer: %w", ErrUnavailable, err)
	}

	return mapHTTPError(resp)
}
