package middleware

import (
	"context"
	"net/http"
	"strings"

	"exoplanet-prediction-api/models"

	"github.com/gin-gonic/gin"
)

const userKey = "current_user"

// UserResolver maps a bearer token to its account.
type UserResolver interface {
	UserFromToken(ctx context.Context, token string) (*models.User, error)
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			unauthorized(c, "Not authenticated")
			return
		}
		user, err := users.UserFromToken(c.Request.Context(), token)
		if err != nil {
			unauthorized(c, "Could not validate credentials")
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid bearer token is present and
// otherwise lets the request through untouched.
func OptionalAuth(users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if user, err := users.UserFromToken(c.Request.Context(), token); err == nil {
				c.Set(userKey, user)
			}
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}
