package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hxat/annotation-api/internal/middleware"
	"github.com/hxat/annotation-api/internal/models"
)

func sessionFromContext(c *gin.Context) *models.LaunchSession {
	value, exists := c.Get(middleware.ContextSessionKey)
	if !exists {
		return nil
	}
	session, ok := value.(*models.LaunchSession)
	if !ok {
		return nil
	}
	return session
}
