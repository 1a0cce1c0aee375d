package service

import (
	"context"
	"database/sql"
	"errors"
	"net/url"

	"go.uber.org/zap"

	"github.com/hxat/annotation-api/internal/dto"
	"github.com/hxat/annotation-api/internal/models"
	appErrors "github.com/hxat/annotation-api/pkg/errors"
)

type rootSearcher interface {
	SearchRoot(ctx context.Context, base, token string, params url.Values) (*models.StoreResponse, error)
}

// GradeService decides whether a learner has qualifying annotations for
// the current object and, if so, triggers grade passback once.
type GradeService struct {
	assignments assignmentReader
	tokens      tokenMinter
	store       rootSearcher
	passback    GradeSender
	logger      *zap.Logger
}

// NewGradeService builds a GradeService.
func NewGradeService(assignments assignmentReader, tokens tokenMinter, store rootSearcher, passback GradeSender, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{
		assignments: assignments,
		tokens:      tokens,
		store:       store,
		passback:    passback,
		logger:      logger,
	}
}

// CheckAndNotify searches the assignment's store for annotations by the
// launching user on the current object. A failed search reports false
// without retrying; a hit triggers exactly one passback invocation.
func (s *GradeService) CheckAndNotify(ctx context.Context, session *models.LaunchSession) (*dto.GradeResult, error) {
	assignment, err := s.assignments.FindByAssignmentID(ctx, session.CollectionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}

	token, err := s.tokens.Mint(session.UserID, assignment.StoreAPIKey, assignment.StoreSecret)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mint store token")
	}

	params := url.Values{}
	params.Set("source_id", session.ObjectID)
	params.Set("collection_id", session.CollectionID)
	params.Set("context_id", session.ContextID)
	params.Set("userid", session.UserID)

	resp, err := s.store.SearchRoot(ctx, assignment.StoreURL, token, params)
	if err != nil || !resp.OK() {
		s.logger.Warn("grade check search failed", zap.String("user_id", session.UserID), zap.Error(err))
		return &dto.GradeResult{GradeRequestSent: false}, nil
	}

	env, err := resp.Envelope()
	if err != nil {
		s.logger.Warn("grade check search returned unparseable body", zap.Error(err))
		return &dto.GradeResult{GradeRequestSent: false}, nil
	}

	if env.Total <= 0 {
		return &dto.GradeResult{GradeRequestSent: false}, nil
	}

	s.logger.Info("qualifying annotations found, requesting grade",
		zap.String("user_id", session.UserID),
		zap.Int("total", env.Total))
	if err := s.passback.Send(ctx, session); err != nil {
		s.logger.Error("grade passback failed", zap.Error(err))
	}
	return &dto.GradeResult{GradeRequestSent: true}, nil
}
