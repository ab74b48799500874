package middleware

import (
	"net/http"

	cabinetRepo "neira/database/repository/cabinet"
	"neira/models"
	"neira/services/cabinet"

	"github.com/gin-gonic/gin"
)

// CabinetMemberMiddleware resolves the authenticated user's membership in the
// cabinet named by the :cabinetID route parameter and stores the role in the
// context. Requires JWTAuthMiddleware upstream.
func CabinetMemberMiddleware(cabinets cabinetRepo.CabinetRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")
		cabinetID := c.Param("cabinetID")
		if cabinetID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing cabinet ID"})
			return
		}

		member, err := cabinets.GetMember(cabinetID, userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve membership"})
			return
		}
		if member == nil || member.Status != models.MemberStatusActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Vous n'êtes pas membre de ce cabinet"})
			return
		}

		c.Set("cabinetID", cabinetID)
		c.Set("memberRole", string(cabinet.RoleFromString(member.Role)))
		c.Next()
	}
}

// RequireCapability rejects the request with the role's denial message when
// the capability check fails. Requires CabinetMemberMiddleware upstream.
func RequireCapability(check func(cabinet.Role) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := cabinet.RoleFromString(c.GetString("memberRole"))
		if !check(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": cabinet.PermissionDeniedMessage(role)})
			return
		}
		c.Next()
	}
}
