// Package middleware holds the gin middleware for the API surface.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adilzhm/garagelog/internal/auth"
)

const ownerKey = "owner_id"

// Auth validates the bearer token and stores the owner id on the request
// context. Requests without a valid owner token never reach a handler.
func Auth(manager *auth.Manager) gin.HandlerFunc {
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

		claims, err := manager.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		c.Set(ownerKey, claims.OwnerID)
		c.Next()
	}
}

// OwnerID returns the authenticated owner id set by Auth, or "" when the
// request was not authenticated.
func OwnerID(c *gin.Context) string {
	v, ok := c.Get(ownerKey)
	if !ok {
		return ""
	}
	ownerID, _ := v.(string)
	return ownerID
}
