package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxat/annotation-api/internal/models"
)

type storeCallerStub struct {
	resp       *models.StoreResponse
	err        error
	lastMethod string
	lastID     string
	lastBody   []byte
	lastParams url.Values
	lastToken  string
}

func (s *storeCallerStub) Read(ctx context.Context, base, token, id string) (*models.StoreResponse, error) {
	s.lastMethod, s.lastID, s.lastToken = "read", id, token
	return s.resp, s.err
}

func (s *storeCallerStub) Search(ctx context.Context, base, token string, params url.Values) (*models.StoreResponse, error) {
	s.lastMethod, s.lastParams, s.lastToken = "search", params, token
	return s.resp, s.err
}

func (s *storeCallerStub) Create(ctx context.Context, base, token string, body []byte) (*models.StoreResponse, error) {
	s.lastMethod, s.lastBody, s.lastToken = "create", body, token
	return s.resp, s.err
}

func (s *storeCallerStub) Update(ctx context.Context, base, token, id string, body []byte) (*models.StoreResponse, error) {
	s.lastMethod, s.lastID, s.lastBody, s.lastToken = "update", id, body, token
	return s.resp, s.err
}

func (s *storeCallerStub) Delete(ctx context.Context, base, token, id string) (*models.StoreResponse, error) {
	s.lastMethod, s.lastID, s.lastToken = "delete", id, token
	return s.resp, s.err
}

func learnerSession() *models.LaunchSession {
	return &models.LaunchSession{
		UserID:       "student-1",
		ContextID:    "course-1",
		CollectionID: "assignment-1",
		ObjectID:     "42",
		Roles:        []string{"Learner"},
	}
}

func instructorSession() *models.LaunchSession {
	session := learnerSession()
	session.UserID = "teacher-1"
	session.Roles = []string{"Instructor"}
	return session
}

func newAnnotationFixture(store *storeCallerStub, passback GradeSender, filterEnabled bool) *AnnotationService {
	return NewAnnotationService(gradeAssignments(), tokenStub{}, store, passback, filterEnabled, nil)
}

func TestRootDispatchesByVerb(t *testing.T) {
	cases := []struct {
		method string
		want   string
	}{
		{http.MethodGet, "read"},
		{http.MethodPost, "create"},
		{http.MethodPut, "update"},
		{http.MethodDelete, "delete"},
	}
	for _, tc := range cases {
		t.Run(tc.method, func(t *testing.T) {
			store := &storeCallerStub{resp: &models.StoreResponse{StatusCode: 200, Body: []byte(`{}`)}}
			svc := newAnnotationFixture(store, nil, false)

			resp, err := svc.Root(context.Background(), learnerSession(), tc.method, "a1", []byte(`{}`))
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
			assert.Equal(t, tc.want, store.lastMethod)
		})
	}
}

func TestRootRejectsUnknownVerb(t *testing.T) {
	svc := newAnnotationFixture(&storeCallerStub{}, nil, false)
	_, err := svc.Root(context.Background(), learnerSession(), http.MethodPatch, "a1", nil)
	require.Error(t, err)
}

func TestRootCreateDoesNotTriggerPassback(t *testing.T) {
	store := &storeCallerStub{resp: &models.StoreResponse{StatusCode: 200, Body: []byte(`{}`)}}
	passback := &passbackSpy{}
	svc := newAnnotationFixture(store, passback, false)

	_, err := svc.Root(context.Background(), learnerSession(), http.MethodPost, "", []byte(`{}`))
	require.NoError(t, err)
	assert.Zero(t, passback.calls)
}

func TestCreateTriggersPassbackOnce(t *testing.T) {
	store := &storeCallerStub{resp: &models.StoreResponse{StatusCode: 200, Body: []byte(`{"id": "a1"}`)}}
	passback := &passbackSpy{}
	svc := newAnnotationFixture(store, passback, false)

	resp, err := svc.Create(context.Background(), learnerSession(), []byte(`{"text": "hi"}`))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 1, passback.calls)
}

func TestCreateSkipsPassbackOnUpstreamFailure(t *testing.T) {
	store := &storeCallerStub{resp: &models.StoreResponse{StatusCode: 422, Body: []byte(`{"error": "bad"}`)}}
	passback := &passbackSpy{}
	svc := newAnnotationFixture(store, passback, false)

	resp, err := svc.Create(context.Background(), learnerSession(), []byte(`{}`))
	require.NoError(t, err)
	// Upstream rejection passes through to the caller.
	assert.Equal(t, 422, resp.StatusCode)
	assert.Zero(t, passback.calls)
}

func TestSearchFiltersReadRestrictedRows(t *testing.T) {
	body, err := json.Marshal(models.SearchEnvelope{
		Total: 2,
		Rows: []models.AnnotationRow{
			{"id": "open"},
			{"id": "closed", "permissions": map[string]interface{}{"read": []interface{}{"someone-else"}}},
		},
	})
	require.NoError(t, err)
	store := &storeCallerStub{resp: &models.StoreResponse{StatusCode: 200, Body: body}}
	svc := newAnnotationFixture(store, nil, true)

	resp, err := svc.Search(context.Background(), learnerSession(), url.Values{})
	require.NoError(t, err)

	env, err := resp.Envelope()
	require.NoError(t, err)
	require.Len(t, env.Rows, 1)
	assert.Equal(t, "open", env.Rows[0]["id"])
	assert.Equal(t, 1, env.Total)
}

func TestSearchSkipsFilterForElevatedRoles(t *testing.T) {
	body, err := json.Marshal(models.SearchEnvelope{
		Total: 1,
		Rows: []models.AnnotationRow{
			{"id": "closed", "permissions": map[string]interface{}{"read": []interface{}{"someone-else"}}},
		},
	})
	require.NoError(t, err)
	store := &storeCallerStub{resp: &models.StoreResponse{StatusCode: 200, Body: body}}
	svc := newAnnotationFixture(store, nil, true)

	resp, err := svc.Search(context.Background(), instructorSession(), url.Values{})
	require.NoError(t, err)

	env, err := resp.Envelope()
	require.NoError(t, err)
	assert.Len(t, env.Rows, 1)
}

func TestSearchPassesThroughWhenFilterDisabled(t *testing.T) {
	body := []byte(`{"total": 1, "rows": [{"id": "closed", "permissions": {"read": ["someone-else"]}}]}`)
	store := &storeCallerStub{resp: &models.StoreResponse{StatusCode: 200, Body: body}}
	svc := newAnnotationFixture(store, nil, false)

	resp, err := svc.Search(context.Background(), learnerSession(), url.Values{})
	require.NoError(t, err)
	assert.Equal(t, body, resp.Body)
}

func TestSearchPassesThroughUpstreamErrorBodies(t *testing.T) {
	store := &storeCallerStub{resp: &models.StoreResponse{StatusCode: 500, Body: []byte(`upstream broke`)}}
	svc := newAnnotationFixture(store, nil, true)

	resp, err := svc.Search(context.Background(), learnerSession(), url.Values{})
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, []byte(`upstream broke`), resp.Body)
}

func TestCredentialsMintTokenForLaunchUser(t *testing.T) {
	store := &storeCallerStub{resp: &models.StoreResponse{StatusCode: 200, Body: []byte(`{}`)}}
	svc := newAnnotationFixture(store, nil, false)

	_, err := svc.Delete(context.Background(), learnerSession(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "token-student-1", store.lastToken)
	assert.Equal(t, "a1", store.lastID)
}

func TestUnknownAssignmentIsNotFound(t *testing.T) {
	svc := NewAnnotationService(assignmentStub{assignments: map[string]*models.Assignment{}}, tokenStub{}, &storeCallerStub{}, nil, false, nil)
	_, err := svc.Search(context.Background(), learnerSession(), url.Values{})
	require.Error(t, err)
}
