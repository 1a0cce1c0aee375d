package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hxat/annotation-api/internal/dto"
	"github.com/hxat/annotation-api/internal/models"
	appErrors "github.com/hxat/annotation-api/pkg/errors"
	"github.com/hxat/annotation-api/pkg/export"
)

type searchProxy interface {
	Search(ctx context.Context, session *models.LaunchSession, query url.Values) (*models.StoreResponse, error)
}

// ExportFile is a rendered annotation download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders the launch context's annotations as a CSV or PDF
// download for instructors.
type ExportService struct {
	proxy     searchProxy
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExportService builds an ExportService.
func NewExportService(proxy searchProxy, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		proxy:     proxy,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
	}
}

var exportColumns = []string{"Author", "Media", "Selection", "Text", "Updated"}

// Export searches the session's (course, assignment) context and renders
// the result. Only instructor-level launches may export.
func (s *ExportService) Export(ctx context.Context, session *models.LaunchSession, req dto.ExportRequest) (*ExportFile, error) {
	if session == nil || !session.Elevated() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "annotation export requires an instructor role")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}

	params := url.Values{}
	params.Set("contextId", session.ContextID)
	params.Set("collectionId", session.CollectionID)
	if req.Media != "" {
		params.Set("media", req.Media)
	}
	limit := req.Limit
	if limit == 0 {
		limit = -1
	}
	params.Set("limit", strconv.Itoa(limit))

	resp, err := s.proxy.Search(ctx, session, params)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, appErrors.Clone(appErrors.ErrStoreUnreachable, fmt.Sprintf("annotation search answered status %d", resp.StatusCode))
	}

	env, err := resp.Envelope()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "parse annotation search result")
	}

	dataset := export.Dataset{Columns: exportColumns, Rows: make([][]string, 0, len(env.Rows))}
	for _, row := range env.Rows {
		dataset.Rows = append(dataset.Rows, exportRow(row))
	}

	if req.Format == "pdf" {
		payload, err := s.pdf.Render(dataset, "Annotations for "+session.CollectionID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render pdf export")
		}
		return &ExportFile{Filename: "annotations.pdf", ContentType: "application/pdf", Payload: payload}, nil
	}

	payload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render csv export")
	}
	return &ExportFile{Filename: "annotations.csv", ContentType: "text/csv", Payload: payload}, nil
}

// exportRow flattens one annotation document into export columns. Image
// rows are represented by their thumbnail reference, text rows by the
// quoted selection.
func exportRow(row models.AnnotationRow) []string {
	_, authorName := models.RowAuthor(row)
	media, _ := row["media"].(string)
	text, _ := row["text"].(string)
	updated, _ := row["updated"].(string)

	var selection string
	if media == models.MediaImage {
		if thumb, ok := row["thumb"].(string); ok {
			selection = thumb
		} else {
			selection = "unknown image region"
		}
	} else if quote, ok := row["quote"].(string); ok {
		selection = fmt.Sprintf("%q", quote)
	}

	return []string{authorName, media, selection, text, updated}
}
