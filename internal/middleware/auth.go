package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/presupuestos/budget-service/internal/auth"
	"github.com/presupuestos/budget-service/internal/types"
)

const sessionKey = "session"

// TokenValidator validates bearer tokens
type TokenValidator interface {
	ValidateToken(token string) (*auth.Session, error)
}

// SessionMiddleware requires a valid "Authorization: Bearer <token>" header
// and stores the session in the gin context
func SessionMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
			})
			return
		}

		session, err := validator.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired session",
			})
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the session holds one of the roles
func RequireRole(roles ...types.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := auth.RequireRole(CurrentSession(c), roles...)
		if errors.Is(err, auth.ErrForbidden) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "forbidden",
			})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
			})
			return
		}
		c.Next()
	}
}

// CurrentSession returns the session set by SessionMiddleware, or nil
func CurrentSession(c *gin.Context) *auth.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*auth.Session)
	return session
}
