package middleware

import (
	"net/http"
	"strings"

	"go-resto-api/internal/auth"
	"go-resto-api/internal/tokencache"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AuthMiddleware checks the bearer token and rejects tokens revoked by
// a logout.
func AuthMiddleware(revoked tokencache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer"})
			return
		}

		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		_, isRevoked, err := revoked.Get(c.Request.Context(), tokencache.RevokedKey(tokenString))
		if err != nil {
			log.Error().Err(err).Msg("Token revocation check failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not verify token"})
			return
		}
		if isRevoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked"})
			return
		}

		// Stash identity for the handlers downstream
		c.Set("adminID", claims.AdminID)
		c.Set("email", claims.Email)
		c.Set("token", tokenString)
		c.Set("tokenExpiresAt", claims.ExpiresAt.Time)

		c.Next()
	}
}
