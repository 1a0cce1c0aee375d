package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hxat/annotation-api/internal/dto"
	"github.com/hxat/annotation-api/internal/models"
	appErrors "github.com/hxat/annotation-api/pkg/errors"
	"github.com/hxat/annotation-api/pkg/response"
)

type gradeService interface {
	CheckAndNotify(ctx context.Context, session *models.LaunchSession) (*dto.GradeResult, error)
}

// GradeHandler exposes the grade_me endpoint.
type GradeHandler struct {
	service gradeService
}

// NewGradeHandler builds a new handler.
func NewGradeHandler(service gradeService) *GradeHandler {
	return &GradeHandler{service: service}
}

// GradeMe godoc
// @Summary Request a grade when qualifying annotations exist
// @Tags Grading
// @Produce json
// @Success 200 {object} dto.GradeResult
// @Router /grade_me [get]
func (h *GradeHandler) GradeMe(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrLaunchRequired)
		return
	}

	result, err := h.service.CheckAndNotify(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
