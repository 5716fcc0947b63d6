package mw

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"lockguard-backend/internal/auth"
)

// UserIDKey is the gin context key under which the authenticated user's id is
// stored.
const UserIDKey = "userID"

// Auth authenticates requests from the Authorization header. The header may
// carry the raw token or a conventional "Bearer " prefix. Validation results
// are memoized briefly so hot clients don't pay the HMAC on every request.
func Auth(secret []byte, tokens *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token, authorization denied"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		if v, found := tokens.Get(tokenString); found {
			c.Set(UserIDKey, v.(string))
			c.Next()
			return
		}

		userID, err := auth.ParseToken(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is not valid"})
			return
		}

		tokens.Set(tokenString, userID, time.Minute)
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user id stored by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
