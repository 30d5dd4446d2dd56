package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lalith-99/eventboard/internal/auth"
)

// ContextKeyShareClaims holds the *auth.ShareClaims of a verified share link.
const ContextKeyShareClaims = "share_claims"

// ShareToken guards read-only shared routes. The token comes from an
// "Authorization: Bearer <token>" header or, for plain links, the "token"
// query parameter. With no secret configured, sharing is off and the routes
// answer 404.
func ShareToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error": "sharing is disabled",
			})
			return
		}

		tokenString, ok := bearerToken(c)
		if !ok {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing share token",
			})
			return
		}

		claims, err := auth.ParseShareToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired share token",
			})
			return
		}

		c.Set(ContextKeyShareClaims, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// GetShareClaims returns the claims set by ShareToken, or nil.
func GetShareClaims(c *gin.Context) *auth.ShareClaims {
	val, exists := c.Get(ContextKeyShareClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*auth.ShareClaims)
	if !ok {
		return nil
	}
	return claims
}
