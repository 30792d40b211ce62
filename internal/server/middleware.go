package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/brandloom/brandloom/internal/observability/obscontext"
	userdomain "github.com/brandloom/brandloom/internal/user/domain"
)

const (
	contextUserIDKey   = "user_id"
	contextUserRoleKey = "user_role"
)

// AuthRequired validates the Bearer token and stores the caller's identity on
// the gin context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims, err := s.tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserIDKey, claims.Subject)
		c.Set(contextUserRoleKey, claims.Role)

		ctx := obscontext.WithActor(c.Request.Context(), claims.Subject, claims.Role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAdmin must run after AuthRequired.
func (s *Server) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(contextUserRoleKey) != userdomain.RoleAdmin {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

type principal struct {
	ID    string
	Role  string
	Admin bool
}

func currentPrincipal(c *gin.Context) principal {
	role := c.GetString(contextUserRoleKey)
	return principal{
		ID:    c.GetString(contextUserIDKey),
		Role:  role,
		Admin: role == userdomain.RoleAdmin,
	}
}
