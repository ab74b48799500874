package cabinet

import (
	cabinetRepo "neira/database/repository/cabinet"
	userRepo "neira/database/repository/user"
	"neira/models"
)

// CabinetService manages cabinets, their members and signature quotas.
type CabinetService interface {
	// Cabinet lifecycle
	CreateCabinet(userID string, req models.CreateCabinetRequest) (*models.Cabinet, error)
	GetCabinet(cabinetID string) (*models.Cabinet, error)
	DeleteCabinet(cabinetID, actorUserID string) error

	// Membership
	ListMembers(cabinetID string) ([]models.CabinetMember, error)
	InviteMember(cabinetID, actorUserID string, req models.InviteMemberRequest) (*models.CabinetMember, error)
	AcceptInvitation(token, userID string) (*models.CabinetMember, error)
	RemoveMember(cabinetID, actorUserID, memberID string) error
	ChangeMemberRole(cabinetID, actorUserID, memberID, newRole string) error

	// Signature quota
	RemainingSignatures(cabinetID, userID string) (int, error)
	ConsumeSignatureCredit(cabinetID, userID string) (*models.CabinetMember, error)
}

// InviteDispatcher sends an invitation notification out of band.
type InviteDispatcher interface {
	DispatchInvite(payload models.InvitePayload) error
}

// PushDispatcher queues a push notification for out-of-band delivery.
type PushDispatcher interface {
	DispatchPush(payload models.PushPayload) error
}

// DefaultCabinetService is the production implementation.
type DefaultCabinetService struct {
	Repo    cabinetRepo.CabinetRepository
	Users   userRepo.UserRepository
	Invites InviteDispatcher
	Pushes  PushDispatcher
}
