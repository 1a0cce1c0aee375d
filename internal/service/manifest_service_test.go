package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hxat/annotation-api/internal/models"
)

func manifestServer(t *testing.T, status int, body string, calls *int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			*calls++
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestResolveCanvasIDSuccess(t *testing.T) {
	server := manifestServer(t, http.StatusOK, `{"sequences":[{"canvases":[{"@id":"http://iiif.example.edu/canvas/p1"}]}]}`, nil)
	svc := NewManifestService(time.Second, zap.NewNop())

	canvasID := svc.ResolveCanvasID(context.Background(), server.URL)
	require.NotNil(t, canvasID)
	assert.Equal(t, "http://iiif.example.edu/canvas/p1", *canvasID)
}

func TestResolveCanvasIDHTTPError(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError} {
		server := manifestServer(t, status, "", nil)
		svc := NewManifestService(time.Second, zap.NewNop())
		assert.Nil(t, svc.ResolveCanvasID(context.Background(), server.URL), "status=%d", status)
	}
}

func TestResolveCanvasIDBadJSON(t *testing.T) {
	server := manifestServer(t, http.StatusOK, "not json at all", nil)
	svc := NewManifestService(time.Second, zap.NewNop())
	assert.Nil(t, svc.ResolveCanvasID(context.Background(), server.URL))
}

func TestResolveCanvasIDMissingSequences(t *testing.T) {
	server := manifestServer(t, http.StatusOK, `{"label":"manifest without sequences"}`, nil)
	svc := NewManifestService(time.Second, zap.NewNop())
	assert.Nil(t, svc.ResolveCanvasID(context.Background(), server.URL))
}

func TestResolveCanvasIDEmptyCanvases(t *testing.T) {
	server := manifestServer(t, http.StatusOK, `{"sequences":[{"canvases":[]}]}`, nil)
	svc := NewManifestService(time.Second, zap.NewNop())
	assert.Nil(t, svc.ResolveCanvasID(context.Background(), server.URL))
}

func TestResolveCanvasIDUnreachableHost(t *testing.T) {
	svc := NewManifestService(time.Second, zap.NewNop())
	assert.Nil(t, svc.ResolveCanvasID(context.Background(), "http://127.0.0.1:1/manifest.json"))
}

func TestCanvasForTargetExplicitOptionSkipsNetwork(t *testing.T) {
	calls := 0
	server := manifestServer(t, http.StatusOK, "", &calls)
	svc := NewManifestService(time.Second, zap.NewNop())

	raw := "ImageView,3123,false,,,"
	opts := models.DecodeExternalOptions(&raw)

	canvasID := svc.CanvasForTarget(context.Background(), opts, server.URL)
	require.NotNil(t, canvasID)
	assert.Equal(t, "3123", *canvasID)
	assert.Zero(t, calls)
}

func TestCanvasForTargetFallsBackToManifest(t *testing.T) {
	calls := 0
	server := manifestServer(t, http.StatusOK, `{"sequences":[{"canvases":[{"@id":"urn:canvas:1"}]}]}`, &calls)
	svc := NewManifestService(time.Second, zap.NewNop())

	raw := "ImageView,,false,,,"
	opts := models.DecodeExternalOptions(&raw)

	canvasID := svc.CanvasForTarget(context.Background(), opts, server.URL)
	require.NotNil(t, canvasID)
	assert.Equal(t, "urn:canvas:1", *canvasID)
	assert.Equal(t, 1, calls)
}
