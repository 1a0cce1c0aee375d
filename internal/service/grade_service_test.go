package service

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxat/annotation-api/internal/models"
)

type rootSearcherStub struct {
	resp   *models.StoreResponse
	err    error
	params url.Values
}

func (s *rootSearcherStub) SearchRoot(ctx context.Context, base, token string, params url.Values) (*models.StoreResponse, error) {
	s.params = params
	return s.resp, s.err
}

type passbackSpy struct {
	calls int
	err   error
}

func (s *passbackSpy) Send(ctx context.Context, session *models.LaunchSession) error {
	s.calls++
	return s.err
}

func gradeSession() *models.LaunchSession {
	return &models.LaunchSession{
		UserID:       "student-1",
		ContextID:    "course-1",
		CollectionID: "assignment-1",
		ObjectID:     "42",
	}
}

func gradeAssignments() assignmentStub {
	return assignmentStub{assignments: map[string]*models.Assignment{
		"assignment-1": {ID: 1, AssignmentID: "assignment-1", StoreURL: "http://store.example.edu/catcha", StoreAPIKey: "key", StoreSecret: "secret"},
	}}
}

func TestGradeCheckSendsPassbackOnHit(t *testing.T) {
	store := &rootSearcherStub{resp: &models.StoreResponse{StatusCode: 200, Body: []byte(`{"total": 3, "rows": []}`)}}
	passback := &passbackSpy{}
	svc := NewGradeService(gradeAssignments(), tokenStub{}, store, passback, nil)

	result, err := svc.CheckAndNotify(context.Background(), gradeSession())
	require.NoError(t, err)
	assert.True(t, result.GradeRequestSent)
	assert.Equal(t, 1, passback.calls)
}

func TestGradeCheckNoAnnotationsNoPassback(t *testing.T) {
	store := &rootSearcherStub{resp: &models.StoreResponse{StatusCode: 200, Body: []byte(`{"total": 0, "rows": []}`)}}
	passback := &passbackSpy{}
	svc := NewGradeService(gradeAssignments(), tokenStub{}, store, passback, nil)

	result, err := svc.CheckAndNotify(context.Background(), gradeSession())
	require.NoError(t, err)
	assert.False(t, result.GradeRequestSent)
	assert.Zero(t, passback.calls)
}

func TestGradeCheckSearchErrorReportsFalse(t *testing.T) {
	store := &rootSearcherStub{err: errors.New("connection refused")}
	passback := &passbackSpy{}
	svc := NewGradeService(gradeAssignments(), tokenStub{}, store, passback, nil)

	result, err := svc.CheckAndNotify(context.Background(), gradeSession())
	require.NoError(t, err)
	assert.False(t, result.GradeRequestSent)
	assert.Zero(t, passback.calls)
}

func TestGradeCheckStoreErrorStatusReportsFalse(t *testing.T) {
	store := &rootSearcherStub{resp: &models.StoreResponse{StatusCode: 401, Body: []byte(`unauthorized`)}}
	svc := NewGradeService(gradeAssignments(), tokenStub{}, store, &passbackSpy{}, nil)

	result, err := svc.CheckAndNotify(context.Background(), gradeSession())
	require.NoError(t, err)
	assert.False(t, result.GradeRequestSent)
}

func TestGradeCheckSearchesByLaunchIdentity(t *testing.T) {
	store := &rootSearcherStub{resp: &models.StoreResponse{StatusCode: 200, Body: []byte(`{"total": 0, "rows": []}`)}}
	svc := NewGradeService(gradeAssignments(), tokenStub{}, store, &passbackSpy{}, nil)

	_, err := svc.CheckAndNotify(context.Background(), gradeSession())
	require.NoError(t, err)
	assert.Equal(t, "42", store.params.Get("source_id"))
	assert.Equal(t, "assignment-1", store.params.Get("collection_id"))
	assert.Equal(t, "course-1", store.params.Get("context_id"))
	assert.Equal(t, "student-1", store.params.Get("userid"))
}

func TestGradeCheckUnknownAssignment(t *testing.T) {
	svc := NewGradeService(assignmentStub{assignments: map[string]*models.Assignment{}}, tokenStub{}, &rootSearcherStub{}, &passbackSpy{}, nil)

	_, err := svc.CheckAndNotify(context.Background(), gradeSession())
	require.Error(t, err)
}

func TestGradeCheckPassbackFailureStillReportsSent(t *testing.T) {
	store := &rootSearcherStub{resp: &models.StoreResponse{StatusCode: 200, Body: []byte(`{"total": 1, "rows": []}`)}}
	passback := &passbackSpy{err: errors.New("outcome service down")}
	svc := NewGradeService(gradeAssignments(), tokenStub{}, store, passback, nil)

	result, err := svc.CheckAndNotify(context.Background(), gradeSession())
	require.NoError(t, err)
	assert.True(t, result.GradeRequestSent)
	assert.Equal(t, 1, passback.calls)
}
