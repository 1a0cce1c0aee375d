package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxat/annotation-api/internal/middleware"
	"github.com/hxat/annotation-api/internal/models"
	appErrors "github.com/hxat/annotation-api/pkg/errors"
)

type proxyStub struct {
	resp       *models.StoreResponse
	err        error
	lastOp     string
	lastMethod string
	lastID     string
	lastBody   []byte
	lastQuery  url.Values
}

func (s *proxyStub) Root(ctx context.Context, session *models.LaunchSession, method, id string, body []byte) (*models.StoreResponse, error) {
	s.lastOp, s.lastMethod, s.lastID, s.lastBody = "root", method, id, body
	return s.resp, s.err
}

func (s *proxyStub) Search(ctx context.Context, session *models.LaunchSession, query url.Values) (*models.StoreResponse, error) {
	s.lastOp, s.lastQuery = "search", query
	return s.resp, s.err
}

func (s *proxyStub) Create(ctx context.Context, session *models.LaunchSession, body []byte) (*models.StoreResponse, error) {
	s.lastOp, s.lastBody = "create", body
	return s.resp, s.err
}

func (s *proxyStub) Update(ctx context.Context, session *models.LaunchSession, id string, body []byte) (*models.StoreResponse, error) {
	s.lastOp, s.lastID, s.lastBody = "update", id, body
	return s.resp, s.err
}

func (s *proxyStub) Delete(ctx context.Context, session *models.LaunchSession, id string) (*models.StoreResponse, error) {
	s.lastOp, s.lastID = "delete", id
	return s.resp, s.err
}

func withSession(session *models.LaunchSession) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextSessionKey, session)
		c.Next()
	}
}

func testSession() *models.LaunchSession {
	return &models.LaunchSession{
		UserID:       "student-1",
		ContextID:    "course-1",
		CollectionID: "assignment-1",
		ObjectID:     "42",
		Roles:        []string{"Learner"},
	}
}

func newStoreRouter(proxy *proxyStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(withSession(testSession()))

	h := NewStoreHandler(proxy)
	router.GET("/store", h.Root)
	router.POST("/store", h.Root)
	router.GET("/store/search", h.Search)
	router.POST("/store/create", h.Create)
	router.PUT("/store/update/:id", h.Update)
	router.POST("/store/update/:id", h.Update)
	router.DELETE("/store/delete/:id", h.Delete)
	router.GET("/store/:id", h.Root)
	router.DELETE("/store/:id", h.Root)
	return router
}

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestStoreRootForwardsUpstreamBody(t *testing.T) {
	proxy := &proxyStub{resp: &models.StoreResponse{StatusCode: 200, Body: []byte(`{"id": "a1", "text": "hi"}`)}}
	router := newStoreRouter(proxy)

	req, _ := http.NewRequest(http.MethodGet, "/store/a1", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"id": "a1", "text": "hi"}`, resp.Body.String())
	assert.Equal(t, "root", proxy.lastOp)
	assert.Equal(t, http.MethodGet, proxy.lastMethod)
	assert.Equal(t, "a1", proxy.lastID)
}

func TestStoreRootForwardsUpstreamErrorStatus(t *testing.T) {
	proxy := &proxyStub{resp: &models.StoreResponse{StatusCode: 409, Body: []byte(`{"error": "conflict"}`)}}
	router := newStoreRouter(proxy)

	req, _ := http.NewRequest(http.MethodDelete, "/store/a1", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusConflict, resp.Code)
	assert.JSONEq(t, `{"error": "conflict"}`, resp.Body.String())
}

func TestStoreSearchForwardsQuery(t *testing.T) {
	proxy := &proxyStub{resp: &models.StoreResponse{StatusCode: 200, Body: []byte(`{"total": 0, "rows": []}`)}}
	router := newStoreRouter(proxy)

	req, _ := http.NewRequest(http.MethodGet, "/store/search?uri=42&media=text&limit=50", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "42", proxy.lastQuery.Get("uri"))
	assert.Equal(t, "text", proxy.lastQuery.Get("media"))
	assert.Equal(t, "50", proxy.lastQuery.Get("limit"))
}

func TestStoreCreateForwardsRequestBody(t *testing.T) {
	proxy := &proxyStub{resp: &models.StoreResponse{StatusCode: 200, Body: []byte(`{"id": "a2"}`)}}
	router := newStoreRouter(proxy)

	req, _ := http.NewRequest(http.MethodPost, "/store/create", strings.NewReader(`{"text": "new note"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "create", proxy.lastOp)
	assert.JSONEq(t, `{"text": "new note"}`, string(proxy.lastBody))
}

func TestStoreUpdateAcceptsPutAndPost(t *testing.T) {
	for _, method := range []string{http.MethodPut, http.MethodPost} {
		proxy := &proxyStub{resp: &models.StoreResponse{StatusCode: 200, Body: []byte(`{}`)}}
		router := newStoreRouter(proxy)

		req, _ := http.NewRequest(method, "/store/update/a3", strings.NewReader(`{"text": "edited"}`))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)

		require.Equal(t, http.StatusOK, resp.Code, method)
		assert.Equal(t, "update", proxy.lastOp, method)
		assert.Equal(t, "a3", proxy.lastID, method)
	}
}

func TestStoreDeleteByID(t *testing.T) {
	proxy := &proxyStub{resp: &models.StoreResponse{StatusCode: 200, Body: []byte(`{}`)}}
	router := newStoreRouter(proxy)

	req, _ := http.NewRequest(http.MethodDelete, "/store/delete/a4", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "delete", proxy.lastOp)
	assert.Equal(t, "a4", proxy.lastID)
}

func TestStoreProxyErrorUsesEnvelope(t *testing.T) {
	proxy := &proxyStub{err: appErrors.ErrStoreUnreachable}
	router := newStoreRouter(proxy)

	req, _ := http.NewRequest(http.MethodGet, "/store/search", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusBadGateway, resp.Code)
	assert.Contains(t, resp.Body.String(), "STORE_UNREACHABLE")
}
