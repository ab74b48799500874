package billing

import (
	cabinetRepo "neira/database/repository/cabinet"
	"neira/models"
)

// BillingService manages a cabinet's subscription through Stripe.
type BillingService interface {
	CreateCheckoutSession(cabinetID string, req models.CheckoutRequest) (*models.CheckoutResponse, error)
	UpdatePlan(cabinetID string, req models.UpdatePlanRequest) error
	CancelSubscription(cabinetID string) error
	SyncSeatQuantity(cabinetID string) error
	HandleWebhookEvent(payload []byte, signature string) error
}

// DefaultBillingService is the production implementation backed by Stripe.
type DefaultBillingService struct {
	Repo cabinetRepo.CabinetRepository
}
