package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hxat/annotation-api/internal/dto"
	appErrors "github.com/hxat/annotation-api/pkg/errors"
	"github.com/hxat/annotation-api/pkg/response"
)

type transferService interface {
	Transfer(ctx context.Context, req dto.TransferRequest, userID string, instructorOnly bool) (*dto.TransferOutcome, error)
}

// TransferHandler exposes the annotation transfer endpoint.
type TransferHandler struct {
	service transferService
}

// NewTransferHandler builds a new handler.
func NewTransferHandler(service transferService) *TransferHandler {
	return &TransferHandler{service: service}
}

// Transfer godoc
// @Summary Copy annotations between course/assignment contexts
// @Tags Annotations
// @Accept x-www-form-urlencoded
// @Produce json
// @Param instructor_only path string false "Restrict to admin-authored annotations (default 1)"
// @Success 200 {object} object
// @Router /transfer/{instructor_only} [post]
func (h *TransferHandler) Transfer(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrLaunchRequired)
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid transfer form"))
		return
	}

	// Instructor-only transfer is the default when the path parameter is
	// absent; a present parameter enables it only for the exact value "1".
	instructorOnly := true
	if value := c.Param("instructor_only"); value != "" {
		instructorOnly = value == "1"
	}

	if _, err := h.service.Transfer(c.Request.Context(), req, session.UserID, instructorOnly); err != nil {
		response.Error(c, err)
		return
	}

	// The empty body is a compatibility contract: per-row outcomes are
	// observable in logs, not in the response.
	c.JSON(http.StatusOK, gin.H{})
}
