package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates JWT tokens and protects routes
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>" format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format. Expected: Bearer <token>",
			})
			c.Abort()
			return
		}

		claims, err := ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		// Set caller identity in context
		c.Set("account_id", claims.AccountID)
		c.Set("username", claims.Username)

		c.Next()
	}
}

// GetAccountID retrieves the caller's account ID from the context
func GetAccountID(c *gin.Context) (uint, bool) {
	accountID, exists := c.Get("account_id")
	if !exists {
		return 0, false
	}

	id, ok := accountID.(uint)
	return id, ok
}

// GetUsername retrieves the caller's username from the context
func GetUsername(c *gin.Context) (string, bool) {
	name, exists := c.Get("username")
	if !exists {
		return "", false
	}

	username, ok := name.(string)
	return username, ok
}
