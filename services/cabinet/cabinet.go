package cabinet

import (
	"fmt"
	"time"

	"neira/models"
	"neira/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PermissionError is returned when a member's role does not grant the
// attempted action. Its message is the user-facing denial string.
type PermissionError struct {
	Role Role
}

func (e *PermissionError) Error() string {
	return PermissionDeniedMessage(e.Role)
}

// ErrNotAMember is returned when the acting user has no membership in the
// cabinet at all.
var ErrNotAMember = fmt.Errorf("utilisateur non membre du cabinet")

// CreateCabinet creates a cabinet and enrolls the creator as its Fondateur.
func (s *DefaultCabinetService) CreateCabinet(userID string, req models.CreateCabinetRequest) (*models.Cabinet, error) {
	logger := utils.GetLogger()

	user, err := s.Users.GetByIDWithProjection(userID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user with id %s not found", userID)
	}

	cab := &models.Cabinet{
		ID:         uuid.New().String(),
		Name:       req.Name,
		Profession: req.Profession,
		FounderID:  userID,
		Plan:       models.PlanEssentiel,
	}
	if err := s.Repo.Create(cab); err != nil {
		return nil, fmt.Errorf("failed to create cabinet: %w", err)
	}

	founder := &models.CabinetMember{
		ID:                 uuid.New().String(),
		CabinetID:          cab.ID,
		UserID:             userID,
		Email:              user.Email,
		Role:               string(RoleFondateur),
		Status:             models.MemberStatusActive,
		SignaturesIncluded: models.SignatureQuotaForPlan(cab.Plan),
		QuotaCycleStart:    time.Now(),
	}
	if err := s.Repo.AddMember(founder); err != nil {
		// Roll back the orphaned cabinet so creation stays atomic from the
		// caller's point of view.
		if delErr := s.Repo.Delete(cab.ID); delErr != nil {
			logger.Error("failed to roll back cabinet after member creation failure",
				zap.String("cabinetID", cab.ID), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to enroll founder: %w", err)
	}

	logger.Info("cabinet created",
		zap.String("cabinetID", cab.ID),
		zap.String("founderID", userID),
		zap.String("profession", cab.Profession))
	return cab, nil
}

// GetCabinet fetches a cabinet by ID.
func (s *DefaultCabinetService) GetCabinet(cabinetID string) (*models.Cabinet, error) {
	cab, err := s.Repo.GetByID(cabinetID)
	if err != nil {
		return nil, err
	}
	if cab == nil {
		return nil, fmt.Errorf("cabinet with id %s not found", cabinetID)
	}
	return cab, nil
}

// DeleteCabinet deletes a cabinet and all its memberships. Only the Fondateur
// may do this.
func (s *DefaultCabinetService) DeleteCabinet(cabinetID, actorUserID string) error {
	role, err := s.actorRole(cabinetID, actorUserID)
	if err != nil {
		return err
	}
	if !CanDeleteCabinet(role) {
		return &PermissionError{Role: role}
	}
	if err := s.Repo.Delete(cabinetID); err != nil {
		return fmt.Errorf("failed to delete cabinet %s: %w", cabinetID, err)
	}
	utils.GetLogger().Info("cabinet deleted", zap.String("cabinetID", cabinetID))
	return nil
}

// actorRole resolves the acting user's role within the cabinet. Pending
// members carry no role yet.
func (s *DefaultCabinetService) actorRole(cabinetID, userID string) (Role, error) {
	member, err := s.Repo.GetMember(cabinetID, userID)
	if err != nil {
		return RoleMembre, fmt.Errorf("failed to fetch membership: %w", err)
	}
	if member == nil || member.Status != models.MemberStatusActive {
		return RoleMembre, ErrNotAMember
	}
	return RoleFromString(member.Role), nil
}
