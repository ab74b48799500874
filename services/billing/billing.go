package billing

import (
	"encoding/json"
	"fmt"
	"time"

	"neira/config"
	"neira/models"
	"neira/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/subscription"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ErrUnknownPlan is returned when a plan has no configured Stripe price.
var ErrUnknownPlan = fmt.Errorf("plan d'abonnement inconnu")

func priceForPlan(plan string) (string, error) {
	switch plan {
	case models.PlanEssentiel:
		return config.AppConfig.StripePriceEssentiel, nil
	case models.PlanProfessionnel:
		return config.AppConfig.StripePriceProfessionnel, nil
	case models.PlanCabinetPlus:
		return config.AppConfig.StripePriceCabinetPlus, nil
	default:
		return "", ErrUnknownPlan
	}
}

func planForPrice(priceID string) string {
	switch priceID {
	case config.AppConfig.StripePriceEssentiel:
		return models.PlanEssentiel
	case config.AppConfig.StripePriceProfessionnel:
		return models.PlanProfessionnel
	case config.AppConfig.StripePriceCabinetPlus:
		return models.PlanCabinetPlus
	default:
		return ""
	}
}

// CreateCheckoutSession starts a Stripe checkout for the requested plan with
// one seat per active member. The cabinet ID travels as the session's client
// reference so the webhook can bind the subscription back.
func (s *DefaultBillingService) CreateCheckoutSession(cabinetID string, req models.CheckoutRequest) (*models.CheckoutResponse, error) {
	cab, err := s.Repo.GetByID(cabinetID)
	if err != nil {
		return nil, err
	}
	if cab == nil {
		return nil, fmt.Errorf("cabinet with id %s not found", cabinetID)
	}

	priceID, err := priceForPlan(req.Plan)
	if err != nil {
		return nil, err
	}

	seats, err := s.Repo.CountActiveMembers(cabinetID)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}
	if seats < 1 {
		seats = 1
	}

	if cab.StripeCustomerID == "" {
		custParams := &stripe.CustomerParams{
			Name: stripe.String(cab.Name),
		}
		custParams.AddMetadata("cabinet_id", cab.ID)
		cust, err := customer.New(custParams)
		if err != nil {
			return nil, fmt.Errorf("failed to create stripe customer: %w", err)
		}
		cab.StripeCustomerID = cust.ID
		if err := s.Repo.UpdateSetDocument(cab.ID, bson.M{"stripe_customer_id": cust.ID}); err != nil {
			return nil, err
		}
	}

	params := &stripe.CheckoutSessionParams{
		Customer:          stripe.String(cab.StripeCustomerID),
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		ClientReferenceID: stripe.String(cab.ID),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(seats),
			},
		},
	}
	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	utils.GetLogger().Info("checkout session created",
		zap.String("cabinetID", cabinetID),
		zap.String("plan", req.Plan),
		zap.Int64("seats", seats))
	return &models.CheckoutResponse{SessionID: sess.ID, URL: sess.URL}, nil
}

// UpdatePlan switches the live subscription to another plan's price.
func (s *DefaultBillingService) UpdatePlan(cabinetID string, req models.UpdatePlanRequest) error {
	cab, err := s.Repo.GetByID(cabinetID)
	if err != nil {
		return err
	}
	if cab == nil || cab.StripeSubscriptionID == "" {
		return fmt.Errorf("cabinet %s has no active subscription", cabinetID)
	}

	priceID, err := priceForPlan(req.Plan)
	if err != nil {
		return err
	}

	sub, err := subscription.Get(cab.StripeSubscriptionID, nil)
	if err != nil {
		return fmt.Errorf("failed to fetch subscription: %w", err)
	}
	if len(sub.Items.Data) == 0 {
		return fmt.Errorf("subscription %s has no items", sub.ID)
	}

	params := &stripe.SubscriptionParams{
		Items: []*stripe.SubscriptionItemsParams{
			{
				ID:    stripe.String(sub.Items.Data[0].ID),
				Price: stripe.String(priceID),
			},
		},
		ProrationBehavior: stripe.String("create_prorations"),
	}
	if _, err := subscription.Update(sub.ID, params); err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	if err := s.Repo.UpdateSetDocument(cabinetID, bson.M{"plan": req.Plan}); err != nil {
		return err
	}
	utils.GetLogger().Info("subscription plan updated",
		zap.String("cabinetID", cabinetID), zap.String("plan", req.Plan))
	return nil
}

// CancelSubscription cancels the cabinet's Stripe subscription immediately.
func (s *DefaultBillingService) CancelSubscription(cabinetID string) error {
	cab, err := s.Repo.GetByID(cabinetID)
	if err != nil {
		return err
	}
	if cab == nil || cab.StripeSubscriptionID == "" {
		return fmt.Errorf("cabinet %s has no active subscription", cabinetID)
	}

	if _, err := subscription.Cancel(cab.StripeSubscriptionID, nil); err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}
	return s.Repo.UpdateSetDocument(cabinetID, bson.M{
		"subscription_status":    "canceled",
		"stripe_subscription_id": "",
	})
}

// SyncSeatQuantity aligns the subscription's seat count with the cabinet's
// active member count. Called after invitations are accepted or members
// removed.
func (s *DefaultBillingService) SyncSeatQuantity(cabinetID string) error {
	cab, err := s.Repo.GetByID(cabinetID)
	if err != nil {
		return err
	}
	if cab == nil || cab.StripeSubscriptionID == "" {
		return nil
	}

	seats, err := s.Repo.CountActiveMembers(cabinetID)
	if err != nil {
		return fmt.Errorf("failed to count members: %w", err)
	}
	if seats < 1 {
		seats = 1
	}

	sub, err := subscription.Get(cab.StripeSubscriptionID, nil)
	if err != nil {
		return fmt.Errorf("failed to fetch subscription: %w", err)
	}
	if len(sub.Items.Data) == 0 {
		return fmt.Errorf("subscription %s has no items", sub.ID)
	}

	params := &stripe.SubscriptionParams{
		Items: []*stripe.SubscriptionItemsParams{
			{
				ID:       stripe.String(sub.Items.Data[0].ID),
				Quantity: stripe.Int64(seats),
			},
		},
	}
	if _, err := subscription.Update(sub.ID, params); err != nil {
		return fmt.Errorf("failed to sync seat quantity: %w", err)
	}
	return nil
}

// HandleWebhookEvent verifies and applies a Stripe webhook event.
func (s *DefaultBillingService) HandleWebhookEvent(payload []byte, signature string) error {
	logger := utils.GetLogger()

	event, err := webhook.ConstructEvent(payload, signature, config.AppConfig.StripeWebhookSecret)
	if err != nil {
		return fmt.Errorf("invalid webhook signature: %w", err)
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("failed to decode checkout session: %w", err)
		}
		if sess.ClientReferenceID == "" || sess.Subscription == nil {
			logger.Warn("checkout session without cabinet reference", zap.String("sessionID", sess.ID))
			return nil
		}
		now := time.Now()
		update := bson.M{
			"stripe_subscription_id":  sess.Subscription.ID,
			"subscription_status":     "active",
			"subscription_started_at": now,
		}
		if err := s.Repo.UpdateSetDocument(sess.ClientReferenceID, update); err != nil {
			return err
		}
		logger.Info("subscription activated", zap.String("cabinetID", sess.ClientReferenceID))

	case "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("failed to decode subscription: %w", err)
		}
		cabinetID := sub.Metadata["cabinet_id"]
		if cabinetID == "" {
			cabinetID = clientReferenceFromCustomer(&sub)
		}
		if cabinetID == "" {
			return nil
		}
		update := bson.M{"subscription_status": string(sub.Status)}
		if len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
			if plan := planForPrice(sub.Items.Data[0].Price.ID); plan != "" {
				update["plan"] = plan
			}
		}
		if err := s.Repo.UpdateSetDocument(cabinetID, update); err != nil {
			return err
		}

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("failed to decode subscription: %w", err)
		}
		cabinetID := sub.Metadata["cabinet_id"]
		if cabinetID == "" {
			cabinetID = clientReferenceFromCustomer(&sub)
		}
		if cabinetID == "" {
			return nil
		}
		if err := s.Repo.UpdateSetDocument(cabinetID, bson.M{
			"subscription_status":    "canceled",
			"stripe_subscription_id": "",
		}); err != nil {
			return err
		}
		logger.Info("subscription canceled by stripe", zap.String("cabinetID", cabinetID))

	default:
		logger.Debug("unhandled stripe event", zap.String("type", string(event.Type)))
	}
	return nil
}

func clientReferenceFromCustomer(sub *stripe.Subscription) string {
	if sub.Customer == nil {
		return ""
	}
	return sub.Customer.Metadata["cabinet_id"]
}
