package handlers

import (
	"errors"
	"net/http"

	"neira/models"
	"neira/services/billing"
	"neira/services/cabinet"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CabinetHandler exposes cabinet and membership endpoints.
type CabinetHandler struct {
	Service cabinet.CabinetService
	Billing billing.BillingService
}

func NewCabinetHandler(svc cabinet.CabinetService, billingSvc billing.BillingService) *CabinetHandler {
	return &CabinetHandler{Service: svc, Billing: billingSvc}
}

// respondCabinetError maps service errors onto HTTP statuses. Permission
// denials surface the role's French message with a 403.
func respondCabinetError(c *gin.Context, err error) {
	var permErr *cabinet.PermissionError
	switch {
	case errors.As(err, &permErr):
		c.JSON(http.StatusForbidden, gin.H{"error": permErr.Error()})
	case errors.Is(err, cabinet.ErrNotAMember):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, cabinet.ErrInvitationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, cabinet.ErrQuotaExhausted):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	default:
		getLogger(c).Error("Cabinet operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// CreateCabinetHandler creates a cabinet with the caller as Fondateur.
func (h *CabinetHandler) CreateCabinetHandler(c *gin.Context) {
	var req models.CreateCabinetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	cab, err := h.Service.CreateCabinet(c.GetString("userID"), req)
	if err != nil {
		respondCabinetError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cab)
}

// GetCabinetHandler returns the cabinet the caller is a member of.
func (h *CabinetHandler) GetCabinetHandler(c *gin.Context) {
	cab, err := h.Service.GetCabinet(c.Param("cabinetID"))
	if err != nil {
		respondCabinetError(c, err)
		return
	}
	c.JSON(http.StatusOK, cab)
}

// DeleteCabinetHandler deletes the cabinet. Fondateur only.
func (h *CabinetHandler) DeleteCabinetHandler(c *gin.Context) {
	if err := h.Service.DeleteCabinet(c.Param("cabinetID"), c.GetString("userID")); err != nil {
		respondCabinetError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cabinet supprimé"})
}

// ListMembersHandler returns the cabinet's members.
func (h *CabinetHandler) ListMembersHandler(c *gin.Context) {
	members, err := h.Service.ListMembers(c.Param("cabinetID"))
	if err != nil {
		respondCabinetError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// InviteMemberHandler creates a pending invitation.
func (h *CabinetHandler) InviteMemberHandler(c *gin.Context) {
	var req models.InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	member, err := h.Service.InviteMember(c.Param("cabinetID"), c.GetString("userID"), req)
	if err != nil {
		respondCabinetError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

// AcceptInvitationHandler redeems an invitation token for the caller.
func (h *CabinetHandler) AcceptInvitationHandler(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	member, err := h.Service.AcceptInvitation(req.Token, c.GetString("userID"))
	if err != nil {
		respondCabinetError(c, err)
		return
	}

	// Seat count changed; keep the subscription in sync.
	if h.Billing != nil {
		if err := h.Billing.SyncSeatQuantity(member.CabinetID); err != nil {
			getLogger(c).Error("Failed to sync seat quantity", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, member)
}

// RemoveMemberHandler removes a member from the cabinet.
func (h *CabinetHandler) RemoveMemberHandler(c *gin.Context) {
	cabinetID := c.Param("cabinetID")
	if err := h.Service.RemoveMember(cabinetID, c.GetString("userID"), c.Param("memberID")); err != nil {
		respondCabinetError(c, err)
		return
	}

	if h.Billing != nil {
		if err := h.Billing.SyncSeatQuantity(cabinetID); err != nil {
			getLogger(c).Error("Failed to sync seat quantity", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Membre retiré"})
}

// ChangeMemberRoleHandler assigns a new role to a member.
func (h *CabinetHandler) ChangeMemberRoleHandler(c *gin.Context) {
	var req models.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.Service.ChangeMemberRole(c.Param("cabinetID"), c.GetString("userID"), c.Param("memberID"), req.Role); err != nil {
		respondCabinetError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rôle mis à jour"})
}

// GetSignatureQuotaHandler returns the caller's remaining signature credits.
func (h *CabinetHandler) GetSignatureQuotaHandler(c *gin.Context) {
	remaining, err := h.Service.RemainingSignatures(c.Param("cabinetID"), c.GetString("userID"))
	if err != nil {
		respondCabinetError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"remaining": remaining})
}

// ConsumeSignatureHandler spends one signature credit for the caller.
func (h *CabinetHandler) ConsumeSignatureHandler(c *gin.Context) {
	member, err := h.Service.ConsumeSignatureCredit(c.Param("cabinetID"), c.GetString("userID"))
	if err != nil {
		respondCabinetError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"signatures_used":     member.SignaturesUsed,
		"signatures_included": member.SignaturesIncluded,
	})
}
