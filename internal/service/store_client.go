package service

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hxat/annotation-api/internal/models"
	appErrors "github.com/hxat/annotation-api/pkg/errors"
)

const authTokenHeader = "x-annotator-auth-token"

type storeCallObserver interface {
	ObserveStoreCall(method string, status int, duration time.Duration)
}

// StoreClient is the wire-level client for the external annotation store.
// It never retries and never interprets upstream failures: a non-2xx answer
// travels back to the caller verbatim as a StoreResponse; only transport
// errors (no response at all) surface as Go errors.
type StoreClient struct {
	client  *http.Client
	metrics storeCallObserver
	logger  *zap.Logger
}

// NewStoreClient constructs a StoreClient with a per-call timeout.
func NewStoreClient(timeout time.Duration, metrics storeCallObserver, logger *zap.Logger) *StoreClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreClient{
		client:  &http.Client{Timeout: timeout},
		metrics: metrics,
		logger:  logger,
	}
}

// Read fetches a single annotation, or the store root listing when id is empty.
func (c *StoreClient) Read(ctx context.Context, base, token, id string) (*models.StoreResponse, error) {
	target := storeBase(base)
	if id != "" {
		target += "/" + url.PathEscape(id)
	}
	return c.do(ctx, http.MethodGet, target, token, nil)
}

// Search queries the store's search endpoint with the given parameters.
func (c *StoreClient) Search(ctx context.Context, base, token string, params url.Values) (*models.StoreResponse, error) {
	return c.do(ctx, http.MethodGet, storeBase(base)+"/search?"+params.Encode(), token, nil)
}

// SearchRoot queries the store root with search parameters. The grading
// check uses this form rather than the /search endpoint.
func (c *StoreClient) SearchRoot(ctx context.Context, base, token string, params url.Values) (*models.StoreResponse, error) {
	return c.do(ctx, http.MethodGet, storeBase(base)+"?"+params.Encode(), token, nil)
}

// Create posts a new annotation document.
func (c *StoreClient) Create(ctx context.Context, base, token string, body []byte) (*models.StoreResponse, error) {
	return c.do(ctx, http.MethodPost, storeBase(base)+"/create", token, body)
}

// Update rewrites an annotation by id.
func (c *StoreClient) Update(ctx context.Context, base, token, id string, body []byte) (*models.StoreResponse, error) {
	return c.do(ctx, http.MethodPost, storeBase(base)+"/update/"+url.PathEscape(id), token, body)
}

// Delete removes an annotation by id.
func (c *StoreClient) Delete(ctx context.Context, base, token, id string) (*models.StoreResponse, error) {
	return c.do(ctx, http.MethodDelete, storeBase(base)+"/delete/"+url.PathEscape(id), token, nil)
}

func (c *StoreClient) do(ctx context.Context, method, target, token string, body []byte) (*models.StoreResponse, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build store request")
	}
	req.Header.Set(authTokenHeader, token)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		if c.metrics != nil {
			c.metrics.ObserveStoreCall(method, 0, duration)
		}
		c.logger.Error("annotation store unreachable", zap.String("method", method), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnreachable.Code, appErrors.ErrStoreUnreachable.Status, appErrors.ErrStoreUnreachable.Message)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnreachable.Code, appErrors.ErrStoreUnreachable.Status, "read store response")
	}

	if c.metrics != nil {
		c.metrics.ObserveStoreCall(method, resp.StatusCode, duration)
	}

	return &models.StoreResponse{StatusCode: resp.StatusCode, Body: payload}, nil
}

// storeBase normalizes the stored per-assignment database URL. Legacy rows
// occasionally carry stray whitespace or a trailing slash.
func storeBase(base string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/")
}
