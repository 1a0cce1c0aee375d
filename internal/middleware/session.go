package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hxat/annotation-api/internal/models"
	appErrors "github.com/hxat/annotation-api/pkg/errors"
	"github.com/hxat/annotation-api/pkg/response"
)

// ContextSessionKey is the gin context key storing the LTI launch session.
const ContextSessionKey = "launchSession"

type sessionFinder interface {
	Find(ctx context.Context, token string) (*models.LaunchSession, error)
}

// LaunchSession protects routes by requiring a valid launch-session token.
func LaunchSession(sessions sessionFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error(c, appErrors.ErrLaunchRequired)
			c.Abort()
			return
		}

		session, err := sessions.Find(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, session)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
