package cabinetRepo

import (
	"neira/models"

	"go.mongodb.org/mongo-driver/bson"
)

// CabinetRepository defines persistence for cabinets and their members.
type CabinetRepository interface {
	Create(cabinet *models.Cabinet) error
	GetByID(id string) (*models.Cabinet, error)
	Update(cabinet *models.Cabinet) error
	UpdateSetDocument(id string, updateDoc bson.M) error
	Delete(id string) error

	AddMember(member *models.CabinetMember) error
	GetMember(cabinetID, userID string) (*models.CabinetMember, error)
	GetMemberByID(memberID string) (*models.CabinetMember, error)
	GetMemberByInvitationToken(token string) (*models.CabinetMember, error)
	ListMembers(cabinetID string) ([]models.CabinetMember, error)
	UpdateMember(member *models.CabinetMember) error
	RemoveMember(memberID string) error
	CountActiveMembers(cabinetID string) (int64, error)
}
