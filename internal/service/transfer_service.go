package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hxat/annotation-api/internal/dto"
	"github.com/hxat/annotation-api/internal/models"
	appErrors "github.com/hxat/annotation-api/pkg/errors"
)

type courseAdminReader interface {
	FindByCourseID(ctx context.Context, courseID string) (*models.Course, error)
	AdminProfiles(ctx context.Context, courseID string) ([]models.Profile, error)
}

type objectReader interface {
	FindObjectByID(ctx context.Context, id int64) (*models.TargetObject, error)
}

type canvasResolver interface {
	ResolveCanvasID(ctx context.Context, manifestURL string) *string
}

type transferStore interface {
	Search(ctx context.Context, base, token string, params url.Values) (*models.StoreResponse, error)
	Create(ctx context.Context, base, token string, body []byte) (*models.StoreResponse, error)
}

// TransferService copies annotations from one (course, assignment) context
// into another, remapping authorship between the two courses' admin
// rosters. Each source object and each annotation row is an independent
// unit of work: its failure is logged and processing continues.
type TransferService struct {
	courses     courseAdminReader
	assignments assignmentReader
	objects     objectReader
	manifests   canvasResolver
	store       transferStore
	tokens      tokenMinter
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewTransferService builds a TransferService.
func NewTransferService(
	courses courseAdminReader,
	assignments assignmentReader,
	objects objectReader,
	manifests canvasResolver,
	store transferStore,
	tokens tokenMinter,
	validate *validator.Validate,
	logger *zap.Logger,
) *TransferService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransferService{
		courses:     courses,
		assignments: assignments,
		objects:     objects,
		manifests:   manifests,
		store:       store,
		tokens:      tokens,
		validator:   validate,
		logger:      logger,
	}
}

// Transfer copies all annotations attached to the requested objects from
// the old context into the new one. userID is the requesting user; it is
// both the token subject and the fallback author for admin-owned rows with
// no name match on the new roster. The copy runs against a single store
// deployment: the old assignment's endpoint and credentials serve both the
// search and the creates.
func (s *TransferService) Transfer(ctx context.Context, req dto.TransferRequest, userID string, instructorOnly bool) (*dto.TransferOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid transfer request")
	}

	if _, err := s.findCourse(ctx, req.OldCourseID); err != nil {
		return nil, err
	}
	if _, err := s.findCourse(ctx, req.NewCourseID); err != nil {
		return nil, err
	}

	oldAdminIDs, err := s.adminIDSet(ctx, req.OldCourseID)
	if err != nil {
		return nil, err
	}
	newAdminsByName, err := s.adminNameIndex(ctx, req.NewCourseID)
	if err != nil {
		return nil, err
	}

	assignment, err := s.assignments.FindByAssignmentID(ctx, req.OldAssignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}

	token, err := s.tokens.Mint(userID, assignment.StoreAPIKey, assignment.StoreSecret)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mint store token")
	}

	outcome := &dto.TransferOutcome{Copied: make(map[string]int, len(req.ObjectIDs))}
	for _, objectID := range req.ObjectIDs {
		copied := s.transferObject(ctx, transferContext{
			req:             req,
			token:           token,
			storeURL:        assignment.StoreURL,
			userID:          userID,
			instructorOnly:  instructorOnly,
			oldAdminIDs:     oldAdminIDs,
			newAdminsByName: newAdminsByName,
		}, objectID)
		outcome.Copied[objectID] = copied
	}

	s.logger.Info("annotation transfer completed",
		zap.String("old_assignment", req.OldAssignmentID),
		zap.String("new_assignment", req.NewAssignmentID),
		zap.Int("copied", outcome.TotalCopied()))
	return outcome, nil
}

type transferContext struct {
	req             dto.TransferRequest
	token           string
	storeURL        string
	userID          string
	instructorOnly  bool
	oldAdminIDs     map[string]struct{}
	newAdminsByName map[string]string
}

// transferObject copies the annotations of a single source object and
// returns how many rows the store accepted. Failures along the way skip
// the object (or the row) rather than aborting the transfer.
func (s *TransferService) transferObject(ctx context.Context, tc transferContext, objectID string) int {
	pk, err := strconv.ParseInt(objectID, 10, 64)
	if err != nil {
		s.logger.Warn("skipping malformed object id", zap.String("object_id", objectID))
		return 0
	}

	object, err := s.objects.FindObjectByID(ctx, pk)
	if err != nil {
		s.logger.Warn("skipping unknown target object", zap.String("object_id", objectID), zap.Error(err))
		return 0
	}

	media, ok := object.Media()
	if !ok {
		s.logger.Warn("skipping object with unknown media type",
			zap.String("object_id", objectID),
			zap.String("target_type", object.TargetType))
		return 0
	}

	// Image annotations reference a canvas inside the object's manifest
	// rather than the object's own primary key.
	uri := objectID
	if media == models.MediaImage {
		canvasID := s.manifests.ResolveCanvasID(ctx, object.Content)
		if canvasID == nil {
			s.logger.Warn("skipping image object without resolvable canvas", zap.String("object_id", objectID))
			return 0
		}
		uri = *canvasID
	}

	params := url.Values{}
	params.Set("uri", uri)
	params.Set("contextId", tc.req.OldCourseID)
	params.Set("collectionId", tc.req.OldAssignmentID)
	params.Set("media", media)
	params.Set("limit", "-1")
	if tc.instructorOnly {
		for adminID := range tc.oldAdminIDs {
			params.Add("userid", adminID)
		}
	}

	resp, err := s.store.Search(ctx, tc.storeURL, tc.token, params)
	if err != nil || !resp.OK() {
		s.logger.Warn("annotation search failed, skipping object",
			zap.String("object_id", objectID),
			zap.Error(err))
		return 0
	}

	env, err := resp.Envelope()
	if err != nil {
		s.logger.Warn("unparseable search result, skipping object", zap.String("object_id", objectID), zap.Error(err))
		return 0
	}

	copied := 0
	for _, row := range env.Rows {
		if s.copyRow(ctx, tc, row) {
			copied++
		}
	}
	return copied
}

// copyRow rewrites one annotation for the new context and posts it as a
// new record. Admin-authored rows are remapped to the new course's admin
// with the same display name, falling back to the requesting user so the
// copy always lands on a known identity.
func (s *TransferService) copyRow(ctx context.Context, tc transferContext, row models.AnnotationRow) bool {
	row["contextId"] = tc.req.NewCourseID
	row["collectionId"] = tc.req.NewAssignmentID
	row["id"] = nil

	authorID, authorName := models.RowAuthor(row)
	if _, isAdmin := tc.oldAdminIDs[authorID]; isAdmin {
		if newID, found := tc.newAdminsByName[authorName]; found {
			models.SetRowAuthorID(row, newID)
		} else {
			models.SetRowAuthorID(row, tc.userID)
		}
	}

	body, err := json.Marshal(row)
	if err != nil {
		s.logger.Warn("skipping unencodable annotation row", zap.Error(err))
		return false
	}

	resp, err := s.store.Create(ctx, tc.storeURL, tc.token, body)
	if err != nil {
		s.logger.Warn("annotation create failed", zap.Error(err))
		return false
	}
	if !resp.OK() {
		s.logger.Warn("annotation create rejected", zap.Int("status", resp.StatusCode))
		return false
	}
	return true
}

func (s *TransferService) findCourse(ctx context.Context, courseID string) (*models.Course, error) {
	course, err := s.courses.FindByCourseID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

func (s *TransferService) adminIDSet(ctx context.Context, courseID string) (map[string]struct{}, error) {
	profiles, err := s.courses.AdminProfiles(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course admins")
	}
	ids := make(map[string]struct{}, len(profiles))
	for _, profile := range profiles {
		ids[profile.AnonID] = struct{}{}
	}
	return ids, nil
}

func (s *TransferService) adminNameIndex(ctx context.Context, courseID string) (map[string]string, error) {
	profiles, err := s.courses.AdminProfiles(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course admins")
	}
	byName := make(map[string]string, len(profiles))
	for _, profile := range profiles {
		byName[profile.Name] = profile.AnonID
	}
	return byName, nil
}
