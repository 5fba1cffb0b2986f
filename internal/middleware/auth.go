package middleware

import (
	"net/http"
	"strings"

	"brightnest-properties/internal/auth"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and exposes the requester
// identity to handlers. Ownership of individual resources is decided
// downstream against the store, never here.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := auth.ValidateJWT(parts[1], jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("full_name", claims.FullName)
		c.Set("email", claims.Email)
		c.Next()
	}
}
