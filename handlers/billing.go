package handlers

import (
	"io"
	"net/http"

	"neira/models"
	"neira/services/billing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BillingHandler exposes subscription endpoints.
type BillingHandler struct {
	Service billing.BillingService
}

func NewBillingHandler(svc billing.BillingService) *BillingHandler {
	return &BillingHandler{Service: svc}
}

// CreateCheckoutHandler starts a Stripe checkout for a plan.
func (h *BillingHandler) CreateCheckoutHandler(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.Service.CreateCheckoutSession(c.Param("cabinetID"), req)
	if err != nil {
		getLogger(c).Error("Failed to create checkout session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdatePlanHandler switches the subscription to another plan.
func (h *BillingHandler) UpdatePlanHandler(c *gin.Context) {
	var req models.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.Service.UpdatePlan(c.Param("cabinetID"), req); err != nil {
		getLogger(c).Error("Failed to update plan", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Abonnement mis à jour"})
}

// CancelSubscriptionHandler cancels the subscription immediately.
func (h *BillingHandler) CancelSubscriptionHandler(c *gin.Context) {
	if err := h.Service.CancelSubscription(c.Param("cabinetID")); err != nil {
		getLogger(c).Error("Failed to cancel subscription", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Abonnement annulé"})
}

// StripeWebhookHandler receives Stripe events. The raw body is needed for
// signature verification.
func (h *BillingHandler) StripeWebhookHandler(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read payload"})
		return
	}

	if err := h.Service.HandleWebhookEvent(payload, c.GetHeader("Stripe-Signature")); err != nil {
		getLogger(c).Error("Failed to handle stripe webhook", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
