// models/cabinet.go
package models

import "time"

// Cabinet is a law or notary firm, the top-level tenant owning members,
// clients, contrats and dossiers.
type Cabinet struct {
	ID                    string     `bson:"id" json:"id"`
	Name                  string     `bson:"name" json:"name"`
	Profession            string     `bson:"profession" json:"profession"` // "avocat" or "notaire"
	FounderID             string     `bson:"founder_id" json:"founder_id"`
	Plan                  string     `bson:"plan" json:"plan"` // "essentiel", "professionnel", "cabinet_plus"
	StripeCustomerID      string     `bson:"stripe_customer_id,omitempty" json:"-"`
	StripeSubscriptionID  string     `bson:"stripe_subscription_id,omitempty" json:"-"`
	SubscriptionStatus    string     `bson:"subscription_status,omitempty" json:"subscription_status,omitempty"`
	SubscriptionStartedAt *time.Time `bson:"subscription_started_at,omitempty" json:"subscription_started_at,omitempty"`
	CreatedAt             time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt             time.Time  `bson:"updated_at" json:"updated_at"`
}

// Member statuses.
const (
	MemberStatusPending = "pending"
	MemberStatusActive  = "active"
)

// CabinetMember ties a user to a cabinet with a role and a signature quota.
type CabinetMember struct {
	ID                 string    `bson:"id" json:"id"`
	CabinetID          string    `bson:"cabinet_id" json:"cabinet_id"`
	UserID             string    `bson:"user_id" json:"user_id"`
	Email              string    `bson:"email" json:"email"`
	Role               string    `bson:"role" json:"role"`
	Status             string    `bson:"status" json:"status"` // "pending" or "active"
	InvitedBy          string    `bson:"invited_by,omitempty" json:"invited_by,omitempty"`
	InvitationToken    string    `bson:"invitation_token,omitempty" json:"-"`
	SignaturesUsed     int       `bson:"signatures_used" json:"signatures_used"`
	SignaturesIncluded int       `bson:"signatures_included" json:"signatures_included"`
	QuotaCycleStart    time.Time `bson:"quota_cycle_start" json:"quota_cycle_start"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time `bson:"updated_at" json:"updated_at"`
}

// InviteMemberRequest is the payload to invite a new member into a cabinet.
type InviteMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

// ChangeRoleRequest is the payload to change an existing member's role.
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// CreateCabinetRequest is the payload to create a cabinet.
type CreateCabinetRequest struct {
	Name       string `json:"name" binding:"required"`
	Profession string `json:"profession" binding:"required,oneof=avocat notaire"`
}
