package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hxat/annotation-api/internal/dto"
	"github.com/hxat/annotation-api/internal/models"
	"github.com/hxat/annotation-api/internal/service"
	appErrors "github.com/hxat/annotation-api/pkg/errors"
	"github.com/hxat/annotation-api/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, session *models.LaunchSession, req dto.ExportRequest) (*service.ExportFile, error)
}

// ExportHandler exposes the instructor annotation download.
type ExportHandler struct {
	service exportService
}

// NewExportHandler builds a new handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Export godoc
// @Summary Download the launch context's annotations as CSV or PDF
// @Tags Annotations
// @Produce text/csv
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /export/annotations [get]
func (h *ExportHandler) Export(c *gin.Context) {
	session := sessionFromContext(c)

	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}

	file, err := h.service.Export(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Payload)
}
