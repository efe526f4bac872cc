package middleware

import (
	"context"
	"net/http"
	"strings"

	"contacts_api/internal/logger"
	"contacts_api/internal/model"
	"contacts_api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthUserKey is the gin context key holding the authenticated *model.User
const AuthUserKey = "authUser"

// AccessTokenDecoder resolves an access token to the subject email
type AccessTokenDecoder interface {
	DecodeAccessToken(tokenString string) (string, error)
}

// UserResolver loads the account behind a token subject
type UserResolver interface {
	CurrentUser(ctx context.Context, email string) (*model.User, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// JWTAuthMiddleware creates a middleware for JWT authentication.
// The resolved *model.User is stored under AuthUserKey.
func JWTAuthMiddleware(decoder AccessTokenDecoder, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		tokenString, ok := BearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		email, err := decoder.DecodeAccessToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidCredentials.Error()})
			return
		}

		user, err := users.CurrentUser(c.Request.Context(), email)
		if err != nil {
			if service.KindOf(err) == service.KindUnauthorized {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			logger.WithRequestID(GetRequestID(c)).Error("failed to resolve current user", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Set(AuthUserKey, user)
		c.Next()
	}
}

// GetAuthUser returns the authenticated user set by JWTAuthMiddleware
func GetAuthUser(c *gin.Context) (*model.User, bool) {
	val, exists := c.Get(AuthUserKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*model.User)
	return user, ok && user != nil
}
