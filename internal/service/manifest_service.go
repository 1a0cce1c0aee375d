package service

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hxat/annotation-api/internal/models"
)

type iiifManifest struct {
	Sequences []struct {
		Canvases []struct {
			ID string `json:"@id"`
		} `json:"canvases"`
	} `json:"sequences"`
}

// ManifestService resolves default canvas identifiers from IIIF manifests.
// Resolution is best-effort and non-retrying: every failure mode logs and
// returns nil, never an error, so callers treat nil as "no canvas ID
// available".
type ManifestService struct {
	client *http.Client
	logger *zap.Logger
}

// NewManifestService constructs a ManifestService with a bounded fetch timeout.
func NewManifestService(timeout time.Duration, logger *zap.Logger) *ManifestService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ManifestService{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// CanvasForTarget returns the effective canvas ID for a target: the explicit
// value from the decoded options when one is set (no network call), else the
// first canvas of the manifest at manifestURL.
func (s *ManifestService) CanvasForTarget(ctx context.Context, opts models.ExternalOptions, manifestURL string) *string {
	if canvasID := opts.CanvasID(); canvasID != nil {
		return canvasID
	}
	return s.ResolveCanvasID(ctx, manifestURL)
}

// ResolveCanvasID fetches the manifest and extracts
// sequences[0].canvases[0]["@id"].
func (s *ManifestService) ResolveCanvasID(ctx context.Context, manifestURL string) *string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, manifestURL, nil)
	if err != nil {
		s.logger.Error("invalid manifest URL", zap.String("manifest", manifestURL), zap.Error(err))
		return nil
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			s.logger.Warn("request for manifest timed out", zap.String("manifest", manifestURL))
		} else {
			s.logger.Error("failed to request manifest", zap.String("manifest", manifestURL), zap.Error(err))
		}
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Error("failed to request manifest",
			zap.String("manifest", manifestURL),
			zap.Int("status", resp.StatusCode))
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.Error("failed to read manifest", zap.String("manifest", manifestURL), zap.Error(err))
		return nil
	}

	var manifest iiifManifest
	if err := json.Unmarshal(body, &manifest); err != nil {
		s.logger.Error("failed to parse manifest", zap.String("manifest", manifestURL))
		return nil
	}

	if len(manifest.Sequences) == 0 || len(manifest.Sequences[0].Canvases) == 0 || manifest.Sequences[0].Canvases[0].ID == "" {
		s.logger.Error("failed to extract canvas ID from manifest", zap.String("manifest", manifestURL))
		return nil
	}

	canvasID := manifest.Sequences[0].Canvases[0].ID
	return &canvasID
}

func isTimeout(err error) bool {
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return true
	}
	if urlErr, ok := err.(interface{ Unwrap() error }); ok {
		if netErr, ok := urlErr.Unwrap().(net.Error); ok && netErr.Timeout() {
			return true
		}
	}
	return context.DeadlineExceeded == err
}
