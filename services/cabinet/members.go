package cabinet

import (
	"fmt"
	"time"

	"neira/models"
	"neira/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvitationNotFound is returned when no pending invitation matches the
// presented token.
var ErrInvitationNotFound = fmt.Errorf("invitation introuvable ou expirée")

// ListMembers returns all members of the cabinet.
func (s *DefaultCabinetService) ListMembers(cabinetID string) ([]models.CabinetMember, error) {
	return s.Repo.ListMembers(cabinetID)
}

// InviteMember creates a pending membership and dispatches the invitation.
// The actor must hold invitation rights, and may only assign roles their own
// role allows.
func (s *DefaultCabinetService) InviteMember(cabinetID, actorUserID string, req models.InviteMemberRequest) (*models.CabinetMember, error) {
	role, err := s.actorRole(cabinetID, actorUserID)
	if err != nil {
		return nil, err
	}
	if !CanInviteMembers(role) || !CanAssignRole(role, req.Role) {
		return nil, &PermissionError{Role: role}
	}

	cab, err := s.GetCabinet(cabinetID)
	if err != nil {
		return nil, err
	}

	token := uuid.New().String()
	member := &models.CabinetMember{
		ID:                 uuid.New().String(),
		CabinetID:          cabinetID,
		Email:              req.Email,
		Role:               string(RoleFromString(req.Role)),
		Status:             models.MemberStatusPending,
		InvitedBy:          actorUserID,
		InvitationToken:    utils.HashToken(token),
		SignaturesIncluded: models.SignatureQuotaForPlan(cab.Plan),
		QuotaCycleStart:    time.Now(),
	}
	if err := s.Repo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	if s.Invites != nil {
		payload := models.InvitePayload{
			CabinetID:   cabinetID,
			CabinetName: cab.Name,
			Email:       req.Email,
			Role:        member.Role,
			Token:       token,
			InvitedBy:   actorUserID,
		}
		if err := s.Invites.DispatchInvite(payload); err != nil {
			utils.GetLogger().Error("failed to dispatch invitation",
				zap.String("cabinetID", cabinetID), zap.String("email", req.Email), zap.Error(err))
		}
	}

	utils.GetLogger().Info("member invited",
		zap.String("cabinetID", cabinetID),
		zap.String("email", req.Email),
		zap.String("role", member.Role))
	return member, nil
}

// AcceptInvitation activates a pending membership against its token and binds
// it to the accepting user.
func (s *DefaultCabinetService) AcceptInvitation(token, userID string) (*models.CabinetMember, error) {
	member, err := s.Repo.GetMemberByInvitationToken(utils.HashToken(token))
	if err != nil {
		return nil, fmt.Errorf("failed to look up invitation: %w", err)
	}
	if member == nil || member.Status != models.MemberStatusPending {
		return nil, ErrInvitationNotFound
	}

	member.UserID = userID
	member.Status = models.MemberStatusActive
	member.InvitationToken = ""
	member.QuotaCycleStart = time.Now()
	if err := s.Repo.UpdateMember(member); err != nil {
		return nil, fmt.Errorf("failed to activate membership: %w", err)
	}

	utils.GetLogger().Info("invitation accepted",
		zap.String("cabinetID", member.CabinetID), zap.String("userID", userID))
	return member, nil
}

// RemoveMember removes a member from the cabinet. The Fondateur cannot be
// removed.
func (s *DefaultCabinetService) RemoveMember(cabinetID, actorUserID, memberID string) error {
	role, err := s.actorRole(cabinetID, actorUserID)
	if err != nil {
		return err
	}
	if !CanRemoveMembers(role) {
		return &PermissionError{Role: role}
	}

	target, err := s.Repo.GetMemberByID(memberID)
	if err != nil {
		return fmt.Errorf("failed to fetch member: %w", err)
	}
	if target == nil || target.CabinetID != cabinetID {
		return fmt.Errorf("member with id %s not found in cabinet %s", memberID, cabinetID)
	}
	if RoleFromString(target.Role) == RoleFondateur {
		return &PermissionError{Role: role}
	}
	if !CanModifyMemberRole(role, target.Role) {
		return &PermissionError{Role: role}
	}

	if err := s.Repo.RemoveMember(memberID); err != nil {
		return fmt.Errorf("failed to remove member %s: %w", memberID, err)
	}
	utils.GetLogger().Info("member removed",
		zap.String("cabinetID", cabinetID), zap.String("memberID", memberID))
	return nil
}

// ChangeMemberRole assigns a new role to an existing member. The actor must
// be allowed both to touch the member's current role and to hand out the new
// one.
func (s *DefaultCabinetService) ChangeMemberRole(cabinetID, actorUserID, memberID, newRole string) error {
	role, err := s.actorRole(cabinetID, actorUserID)
	if err != nil {
		return err
	}
	if !CanChangeRoles(role) {
		return &PermissionError{Role: role}
	}

	target, err := s.Repo.GetMemberByID(memberID)
	if err != nil {
		return fmt.Errorf("failed to fetch member: %w", err)
	}
	if target == nil || target.CabinetID != cabinetID {
		return fmt.Errorf("member with id %s not found in cabinet %s", memberID, cabinetID)
	}
	if !CanModifyMemberRole(role, target.Role) || !CanAssignRole(role, newRole) {
		return &PermissionError{Role: role}
	}

	target.Role = string(RoleFromString(newRole))
	if err := s.Repo.UpdateMember(target); err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}
	utils.GetLogger().Info("member role changed",
		zap.String("cabinetID", cabinetID),
		zap.String("memberID", memberID),
		zap.String("role", target.Role))
	return nil
}
