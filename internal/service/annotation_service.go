package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/hxat/annotation-api/internal/models"
	appErrors "github.com/hxat/annotation-api/pkg/errors"
)

type assignmentReader interface {
	FindByAssignmentID(ctx context.Context, assignmentID string) (*models.Assignment, error)
}

type tokenMinter interface {
	Mint(userID, apiKey, secret string) (string, error)
}

type storeCaller interface {
	Read(ctx context.Context, base, token, id string) (*models.StoreResponse, error)
	Search(ctx context.Context, base, token string, params url.Values) (*models.StoreResponse, error)
	Create(ctx context.Context, base, token string, body []byte) (*models.StoreResponse, error)
	Update(ctx context.Context, base, token, id string, body []byte) (*models.StoreResponse, error)
	Delete(ctx context.Context, base, token, id string) (*models.StoreResponse, error)
}

// AnnotationService proxies annotation CRUD and search to the store backing
// the launch session's assignment. Responses pass through with the
// upstream's status and body; the only transformations applied are the
// read-permission filter on search and the grade-passback side effect on a
// successful create.
type AnnotationService struct {
	assignments   assignmentReader
	tokens        tokenMinter
	store         storeCaller
	passback      GradeSender
	filterEnabled bool
	logger        *zap.Logger
}

// NewAnnotationService builds an AnnotationService.
func NewAnnotationService(
	assignments assignmentReader,
	tokens tokenMinter,
	store storeCaller,
	passback GradeSender,
	filterEnabled bool,
	logger *zap.Logger,
) *AnnotationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnotationService{
		assignments:   assignments,
		tokens:        tokens,
		store:         store,
		passback:      passback,
		filterEnabled: filterEnabled,
		logger:        logger,
	}
}

// credentials resolves the store endpoint and a fresh token for the
// session's assignment.
func (s *AnnotationService) credentials(ctx context.Context, session *models.LaunchSession) (base, token string, err error) {
	assignment, err := s.assignments.FindByAssignmentID(ctx, session.CollectionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}

	token, err = s.tokens.Mint(session.UserID, assignment.StoreAPIKey, assignment.StoreSecret)
	if err != nil {
		return "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mint store token")
	}
	return assignment.StoreURL, token, nil
}

// Root dispatches one store call by HTTP verb: GET reads, POST creates,
// PUT updates and DELETE deletes. Creates through the root do not trigger
// grade passback; only the dedicated create endpoint does.
func (s *AnnotationService) Root(ctx context.Context, session *models.LaunchSession, method, id string, body []byte) (*models.StoreResponse, error) {
	base, token, err := s.credentials(ctx, session)
	if err != nil {
		return nil, err
	}

	switch method {
	case http.MethodGet:
		return s.store.Read(ctx, base, token, id)
	case http.MethodPost:
		return s.store.Create(ctx, base, token, body)
	case http.MethodPut:
		return s.store.Update(ctx, base, token, id, body)
	case http.MethodDelete:
		return s.store.Delete(ctx, base, token, id)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported method")
	}
}

// Search forwards the query to the store and applies the read-permission
// filter to the result when configured.
func (s *AnnotationService) Search(ctx context.Context, session *models.LaunchSession, query url.Values) (*models.StoreResponse, error) {
	base, token, err := s.credentials(ctx, session)
	if err != nil {
		return nil, err
	}

	resp, err := s.store.Search(ctx, base, token, query)
	if err != nil {
		return nil, err
	}

	if !s.filterEnabled || !resp.OK() || session.Elevated() || session.UserID == "" {
		return resp, nil
	}

	env, err := resp.Envelope()
	if err != nil {
		// Not a search envelope; hand the payload through untouched.
		s.logger.Warn("store search returned non-envelope payload", zap.Error(err))
		return resp, nil
	}

	filtered := FilterEnvelope(env, session.UserID, session.Elevated())
	body, err := json.Marshal(filtered)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode filtered search result")
	}
	return &models.StoreResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

// Create stores a new annotation and, on upstream success, triggers the
// grade-passback side effect exactly once. The passback is a notification,
// not a transaction: its failure is logged and does not undo the create.
func (s *AnnotationService) Create(ctx context.Context, session *models.LaunchSession, body []byte) (*models.StoreResponse, error) {
	base, token, err := s.credentials(ctx, session)
	if err != nil {
		return nil, err
	}

	resp, err := s.store.Create(ctx, base, token, body)
	if err != nil {
		return nil, err
	}

	if resp.OK() && s.passback != nil {
		if err := s.passback.Send(ctx, session); err != nil {
			s.logger.Error("grade passback failed after create", zap.Error(err))
		}
	}
	return resp, nil
}

// Update rewrites an annotation by id.
func (s *AnnotationService) Update(ctx context.Context, session *models.LaunchSession, id string, body []byte) (*models.StoreResponse, error) {
	base, token, err := s.credentials(ctx, session)
	if err != nil {
		return nil, err
	}
	return s.store.Update(ctx, base, token, id, body)
}

// Delete removes an annotation by id.
func (s *AnnotationService) Delete(ctx context.Context, session *models.LaunchSession, id string) (*models.StoreResponse, error) {
	base, token, err := s.credentials(ctx, session)
	if err != nil {
		return nil, err
	}
	return s.store.Delete(ctx, base, token, id)
}
