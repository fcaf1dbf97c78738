package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ducdang/billbook/internal/auth"
)

const (
	// userIDKey and emailKey are the gin context keys set by RequireAuth.
	userIDKey = "user_id"
	emailKey  = "email"
)

// GetUserID extracts the authenticated user id from the request context.
// Empty before RequireAuth has run.
func GetUserID(c *gin.Context) string {
	id, _ := c.Get(userIDKey)
	userID, _ := id.(string)
	return userID
}

// GetEmail extracts the authenticated user's email from the request context.
func GetEmail(c *gin.Context) string {
	e, _ := c.Get(emailKey)
	email, _ := e.(string)
	return email
}

// RequireAuth validates the bearer token and stores the user identity in the
// request context. Requests without a valid token get 401.
func RequireAuth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrMissingToken.Error()})
			return
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(emailKey, claims.Email)
		c.Next()
	}
}
