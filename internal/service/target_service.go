package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/hxat/annotation-api/internal/dto"
	"github.com/hxat/annotation-api/internal/models"
	appErrors "github.com/hxat/annotation-api/pkg/errors"
)

type targetReader interface {
	FindObjectByID(ctx context.Context, id int64) (*models.TargetObject, error)
	FindTarget(ctx context.Context, assignmentPK, objectID int64) (*models.AssignmentTarget, error)
	FindTargetByOrder(ctx context.Context, assignmentPK int64, order int) (*models.AssignmentTarget, error)
	CountTargets(ctx context.Context, assignmentPK int64) (int, error)
}

type canvasForTarget interface {
	CanvasForTarget(ctx context.Context, opts models.ExternalOptions, manifestURL string) *string
}

// TargetService resolves the client-facing view of one assignment target:
// decoded options, the effective canvas ID and previous/next navigation.
type TargetService struct {
	assignments assignmentReader
	targets     targetReader
	manifests   canvasForTarget
	logger      *zap.Logger
}

// NewTargetService builds a TargetService.
func NewTargetService(assignments assignmentReader, targets targetReader, manifests canvasForTarget, logger *zap.Logger) *TargetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TargetService{
		assignments: assignments,
		targets:     targets,
		manifests:   manifests,
		logger:      logger,
	}
}

// Detail loads the target detail for one object inside an assignment.
func (s *TargetService) Detail(ctx context.Context, assignmentID string, objectID int64) (*dto.TargetDetail, error) {
	assignment, err := s.assignments.FindByAssignmentID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}

	object, err := s.targets.FindObjectByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "target object not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load target object")
	}

	target, err := s.targets.FindTarget(ctx, assignment.ID, objectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "object is not part of this assignment")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment target")
	}

	opts := target.Options()
	media, _ := object.Media()

	var canvasID *string
	if media == models.MediaImage {
		canvasID = s.manifests.CanvasForTarget(ctx, opts, object.Content)
	} else {
		canvasID = opts.CanvasID()
	}

	detail := &dto.TargetDetail{
		AssignmentID:       assignment.AssignmentID,
		ObjectID:           object.ID,
		Title:              object.Title,
		Media:              media,
		Order:              target.Order,
		ViewType:           opts.ViewType(),
		CanvasID:           canvasID,
		DashboardHidden:    opts.DashboardHidden(),
		TranscriptHidden:   opts.TranscriptHidden(),
		TranscriptDownload: opts.TranscriptDownload(),
		VideoDownload:      opts.VideoDownload(),
		Instructions:       target.Instructions,
	}

	s.attachNeighbors(ctx, detail, assignment.ID, target.Order)
	return detail, nil
}

// attachNeighbors fills previous/next navigation. The order column forms a
// dense 1..N sequence per assignment, so neighbors sit at order plus or
// minus one. A failed neighbor lookup leaves that side empty.
func (s *TargetService) attachNeighbors(ctx context.Context, detail *dto.TargetDetail, assignmentPK int64, order int) {
	total, err := s.targets.CountTargets(ctx, assignmentPK)
	if err != nil || total <= 1 {
		return
	}

	if order > 1 {
		detail.Previous = s.neighborAt(ctx, assignmentPK, order-1)
	}
	if order < total {
		detail.Next = s.neighborAt(ctx, assignmentPK, order+1)
	}
}

func (s *TargetService) neighborAt(ctx context.Context, assignmentPK int64, order int) *dto.TargetNeighbor {
	target, err := s.targets.FindTargetByOrder(ctx, assignmentPK, order)
	if err != nil {
		s.logger.Warn("neighbor lookup failed", zap.Int64("assignment_pk", assignmentPK), zap.Int("order", order))
		return nil
	}
	object, err := s.targets.FindObjectByID(ctx, target.TargetObjectID)
	if err != nil {
		s.logger.Warn("neighbor object lookup failed", zap.Int64("object_id", target.TargetObjectID))
		return nil
	}
	return &dto.TargetNeighbor{
		ObjectID: object.ID,
		Title:    object.Title,
		Order:    target.Order,
	}
}
