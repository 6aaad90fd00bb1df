package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys under which Middleware stores the caller identity.
const (
	UserIDKey = "auth_user_id"
	RolesKey  = "auth_roles"
)

// Middleware handles JWT validation for incoming HTTP calls on protected
// route groups. Login and Register stay outside the group and need none.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Retrieve and validate the Authorization header
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token is missing"})
			return
		}

		// Expecting the standard "Bearer <token>" format
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		// 2. Validate the JWT and extract claims
		claims, err := ValidateToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		// 3. The subject must be a well-formed user id
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		// 4. Inject the caller identity for downstream handlers
		c.Set(UserIDKey, userID)
		c.Set(RolesKey, claims.Roles)
		c.Next()
	}
}

// CallerID returns the authenticated user id injected by Middleware.
func CallerID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(UserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
