// models/billing.go
package models

// Subscription plans and the signature credits each one includes per member
// per billing cycle.
const (
	PlanEssentiel     = "essentiel"
	PlanProfessionnel = "professionnel"
	PlanCabinetPlus   = "cabinet_plus"
)

// SignatureQuotaForPlan returns the signature credits included per member for
// one billing cycle of the given plan.
func SignatureQuotaForPlan(plan string) int {
	switch plan {
	case PlanEssentiel:
		return 5
	case PlanProfessionnel:
		return 20
	case PlanCabinetPlus:
		return 50
	default:
		return 0
	}
}

// CheckoutRequest asks for a Stripe checkout session for a plan.
type CheckoutRequest struct {
	Plan       string `json:"plan" binding:"required,oneof=essentiel professionnel cabinet_plus"`
	SuccessURL string `json:"success_url" binding:"required"`
	CancelURL  string `json:"cancel_url" binding:"required"`
}

// CheckoutResponse returns the hosted checkout URL.
type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// UpdatePlanRequest switches the cabinet's subscription to another plan.
type UpdatePlanRequest struct {
	Plan string `json:"plan" binding:"required,oneof=essentiel professionnel cabinet_plus"`
}
