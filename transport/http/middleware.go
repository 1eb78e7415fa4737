package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/registrar/core"
	"github.com/campuskit/registrar/service"
)

// Context keys under which the middleware stores the verified claims.
const (
	ContextSubjectKey = "subjectId"
	ContextRoleKey    = "role"
	ContextNameKey    = "name"
)

// RequireRoles creates middleware that verifies the bearer token and enforces
// role membership. With no roles listed, any authenticated identity passes.
func RequireRoles(authService *service.AuthService, roles ...core.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		session, err := authService.Authorize(c.Request.Context(), token, roles...)
		if err != nil {
			switch {
			case errors.Is(err, core.ErrForbidden):
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			case errors.Is(err, core.ErrMisconfigured):
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			default:
				// Bad signature, malformed and expired all look the same.
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			}
			return
		}

		c.Set(ContextSubjectKey, session.SubjectID)
		c.Set(ContextRoleKey, session.Role)
		c.Set(ContextNameKey, session.Name)

		c.Next()
	}
}
