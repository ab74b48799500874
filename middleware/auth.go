package middleware

import (
	"net/http"
	"strings"
	"time"

	userRepo "neira/database/repository/user"
	"neira/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWTAuthMiddleware validates the bearer token and resolves the account it
// belongs to. The token hash must still match the stored one, so revoked
// sessions fail even before expiry.
func JWTAuthMiddleware(users userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		// Validate the token signature and expiration.
		token, err := utils.ValidateToken(tokenString)
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		computedHash := utils.HashToken(tokenString)

		// Cached session first, Mongo on a miss.
		if session, err := utils.GetAuthSession(utils.GetAuthCacheClient(), computedHash); err == nil && session != nil {
			c.Set("userID", session.UserID)
			c.Set("userEmail", session.Email)
			c.Next()
			return
		}

		u, err := users.GetByTokenHash(computedHash)
		if err != nil || u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token mismatch or user not found"})
			return
		}
		if err := utils.SaveAuthSession(utils.GetAuthCacheClient(), computedHash,
			utils.AuthSession{UserID: u.ID, Email: u.Email}, time.Hour); err != nil {
			utils.GetLogger().Warn("failed to cache auth session", zap.Error(err))
		}

		c.Set("userID", u.ID)
		c.Set("userEmail", u.Email)
		c.Next()
	}
}
