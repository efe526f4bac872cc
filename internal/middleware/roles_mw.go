package middleware

import (
	"net/http"
	"slices"

	"contacts_api/internal/model"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware creates a middleware to check for specific user roles. It must run after JWTAuthMiddleware.
func RoleMiddleware(allowedRoles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetAuthUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "User not found in context, ensure JWT middleware runs first"})
			return
		}

		if !slices.Contains(allowedRoles, user.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Operation not permitted"})
			return
		}

		c.Next()
	}
}

// StaffMiddleware admits admins and moderators
func StaffMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin, model.RoleModerator)
}
