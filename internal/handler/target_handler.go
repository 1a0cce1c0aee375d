package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hxat/annotation-api/internal/dto"
	appErrors "github.com/hxat/annotation-api/pkg/errors"
	"github.com/hxat/annotation-api/pkg/response"
)

type targetService interface {
	Detail(ctx context.Context, assignmentID string, objectID int64) (*dto.TargetDetail, error)
}

// TargetHandler exposes assignment target resolution.
type TargetHandler struct {
	service targetService
}

// NewTargetHandler builds a new handler.
func NewTargetHandler(service targetService) *TargetHandler {
	return &TargetHandler{service: service}
}

// Detail godoc
// @Summary Resolve one assignment target's options, canvas and neighbors
// @Tags Targets
// @Produce json
// @Param id path string true "Assignment ID"
// @Param object_id path int true "Target object ID"
// @Success 200 {object} dto.TargetDetail
// @Router /assignments/{id}/targets/{object_id} [get]
func (h *TargetHandler) Detail(c *gin.Context) {
	objectID, err := strconv.ParseInt(c.Param("object_id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "object_id must be an integer"))
		return
	}

	detail, err := h.service.Detail(c.Request.Context(), c.Param("id"), objectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}
