package middleware

import (
	"net/http"
	"strings"

	"account-research-report/internal/services"

	"github.com/gin-gonic/gin"
)

const claimsContextKey = "requester_claims"

// AuthenticateUser validates the Bearer token on incoming requests and stores
// the requester claims on the context. Used only when a JWT secret is
// configured.
func AuthenticateUser(jwtService *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must be a Bearer token"})
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// GetClaims returns the requester claims stored by AuthenticateUser, if any
func GetClaims(c *gin.Context) *services.Claims {
	v, exists := c.Get(claimsContextKey)
	if !exists {
		return nil
	}
	claims, _ := v.(*services.Claims)
	return claims
}
