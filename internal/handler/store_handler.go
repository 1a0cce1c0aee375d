package handler

import (
	"context"
	"io"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/hxat/annotation-api/internal/models"
	appErrors "github.com/hxat/annotation-api/pkg/errors"
	"github.com/hxat/annotation-api/pkg/response"
)

type annotationProxy interface {
	Root(ctx context.Context, session *models.LaunchSession, method, id string, body []byte) (*models.StoreResponse, error)
	Search(ctx context.Context, session *models.LaunchSession, query url.Values) (*models.StoreResponse, error)
	Create(ctx context.Context, session *models.LaunchSession, body []byte) (*models.StoreResponse, error)
	Update(ctx context.Context, session *models.LaunchSession, id string, body []byte) (*models.StoreResponse, error)
	Delete(ctx context.Context, session *models.LaunchSession, id string) (*models.StoreResponse, error)
}

// StoreHandler exposes the annotation store proxy endpoints. Upstream
// responses pass through verbatim: status and body come from the store.
type StoreHandler struct {
	proxy annotationProxy
}

// NewStoreHandler builds a new handler.
func NewStoreHandler(proxy annotationProxy) *StoreHandler {
	return &StoreHandler{proxy: proxy}
}

// Root godoc
// @Summary Dispatch an annotation store call by HTTP verb
// @Tags Annotations
// @Produce json
// @Param id path string false "Annotation ID"
// @Success 200 {object} object
// @Router /store/{id} [get]
func (h *StoreHandler) Root(c *gin.Context) {
	session := sessionFromContext(c)
	body, err := requestBody(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	resp, err := h.proxy.Root(c.Request.Context(), session, c.Request.Method, c.Param("id"), body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, resp.StatusCode, resp.Body)
}

// Search godoc
// @Summary Search annotations
// @Tags Annotations
// @Produce json
// @Success 200 {object} object
// @Router /store/search [get]
func (h *StoreHandler) Search(c *gin.Context) {
	session := sessionFromContext(c)
	resp, err := h.proxy.Search(c.Request.Context(), session, c.Request.URL.Query())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, resp.StatusCode, resp.Body)
}

// Create godoc
// @Summary Create an annotation
// @Tags Annotations
// @Accept json
// @Produce json
// @Success 200 {object} object
// @Router /store/create [post]
func (h *StoreHandler) Create(c *gin.Context) {
	session := sessionFromContext(c)
	body, err := requestBody(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	resp, err := h.proxy.Create(c.Request.Context(), session, body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, resp.StatusCode, resp.Body)
}

// Update godoc
// @Summary Update an annotation
// @Tags Annotations
// @Accept json
// @Produce json
// @Param id path string true "Annotation ID"
// @Success 200 {object} object
// @Router /store/update/{id} [put]
func (h *StoreHandler) Update(c *gin.Context) {
	session := sessionFromContext(c)
	body, err := requestBody(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	resp, err := h.proxy.Update(c.Request.Context(), session, c.Param("id"), body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, resp.StatusCode, resp.Body)
}

// Delete godoc
// @Summary Delete an annotation
// @Tags Annotations
// @Produce json
// @Param id path string true "Annotation ID"
// @Success 200 {object} object
// @Router /store/delete/{id} [delete]
func (h *StoreHandler) Delete(c *gin.Context) {
	session := sessionFromContext(c)
	resp, err := h.proxy.Delete(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, resp.StatusCode, resp.Body)
}

func requestBody(c *gin.Context) ([]byte, error) {
	if c.Request.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "read request body")
	}
	return body, nil
}
