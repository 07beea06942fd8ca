package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/flicky/storefront-api/internal/apperr"
	"github.com/flicky/storefront-api/internal/model"
	"github.com/flicky/storefront-api/internal/token"
)

// SessionCookie carries the JWT for browser clients.
const SessionCookie = "session"

var (
	errUnauthorized = apperr.New(apperr.KindUnauthorized, "UNAUTHORIZED", "authentication required")
	errInvalidToken = apperr.New(apperr.KindUnauthorized, "INVALID_TOKEN", "invalid or expired token")
	errAdminOnly    = apperr.New(apperr.KindForbidden, "FORBIDDEN", "admin access required")
)

// UserLookup loads the current state of a user.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// Auth accepts a token from the Authorization header or the session cookie.
func Auth(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			Abort(c, errUnauthorized)
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			Abort(c, errInvalidToken)
			return
		}
		userID, _ := claims.UserID()

		c.Set("userID", userID)
		c.Set("userRole", claims.Role)
		c.Next()
	}
}

// AdminOnly re-reads the role from the store, so a demoted admin loses
// access before their token expires. Must run after Auth.
func AdminOnly(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.GetByID(c.Request.Context(), GetUserID(c))
		if err != nil {
			Abort(c, apperr.Internal(err))
			return
		}
		if user == nil {
			Abort(c, errInvalidToken)
			return
		}
		if user.Role != model.RoleAdmin {
			Abort(c, errAdminOnly)
			return
		}
		c.Set("userRole", user.Role)
		c.Next()
	}
}

func GetUserID(c *gin.Context) uuid.UUID {
	id, _ := c.Get("userID")
	uid, _ := id.(uuid.UUID)
	return uid
}

func GetUserRole(c *gin.Context) string {
	role, _ := c.Get("userRole")
	r, _ := role.(string)
	return r
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	cookie, err := c.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return cookie
}
