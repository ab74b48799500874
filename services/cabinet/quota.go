package cabinet

import (
	"fmt"
	"time"

	"neira/models"
	"neira/services/billing"
	"neira/utils"

	"go.uber.org/zap"
)

// ErrQuotaExhausted is returned when a member has no signature credits left
// in the current billing cycle.
var ErrQuotaExhausted = fmt.Errorf("quota de signatures épuisé pour ce cycle")

// RemainingSignatures returns the member's unused signature credits for the
// current billing cycle.
func (s *DefaultCabinetService) RemainingSignatures(cabinetID, userID string) (int, error) {
	member, _, err := s.refreshedMember(cabinetID, userID)
	if err != nil {
		return 0, err
	}
	remaining := member.SignaturesIncluded - member.SignaturesUsed
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// ConsumeSignatureCredit spends one signature credit for the member, rolling
// the quota over first if a new billing cycle has started.
func (s *DefaultCabinetService) ConsumeSignatureCredit(cabinetID, userID string) (*models.CabinetMember, error) {
	member, rolled, err := s.refreshedMember(cabinetID, userID)
	if err != nil {
		return nil, err
	}
	if member.SignaturesUsed >= member.SignaturesIncluded {
		return nil, ErrQuotaExhausted
	}

	member.SignaturesUsed++
	if err := s.Repo.UpdateMember(member); err != nil {
		return nil, fmt.Errorf("failed to record signature use: %w", err)
	}
	if rolled {
		utils.GetLogger().Info("signature quota cycle rolled over",
			zap.String("cabinetID", cabinetID), zap.String("userID", userID))
	}

	// Warn the member when the last credit of the cycle goes out.
	if s.Pushes != nil && member.SignaturesUsed == member.SignaturesIncluded {
		if err := s.Pushes.DispatchPush(models.PushPayload{
			UserID: userID,
			Title:  "Quota de signatures épuisé",
			Body:   "Vous avez utilisé toutes vos signatures pour ce cycle de facturation.",
			Data:   map[string]string{"cabinetId": cabinetID},
		}); err != nil {
			utils.GetLogger().Error("failed to dispatch quota push",
				zap.String("userID", userID), zap.Error(err))
		}
	}
	return member, nil
}

// refreshedMember fetches the active membership and resets its quota counter
// when its recorded cycle start predates the current billing cycle. The reset
// is persisted lazily by the next UpdateMember call, or immediately when only
// reading.
func (s *DefaultCabinetService) refreshedMember(cabinetID, userID string) (*models.CabinetMember, bool, error) {
	member, err := s.Repo.GetMember(cabinetID, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch membership: %w", err)
	}
	if member == nil || member.Status != models.MemberStatusActive {
		return nil, false, ErrNotAMember
	}

	cab, err := s.GetCabinet(cabinetID)
	if err != nil {
		return nil, false, err
	}

	now := time.Now()
	cycleStart := billing.CurrentCycleStart(cab.SubscriptionStartedAt, now)
	if member.QuotaCycleStart.Before(cycleStart) {
		member.SignaturesUsed = 0
		member.SignaturesIncluded = models.SignatureQuotaForPlan(cab.Plan)
		member.QuotaCycleStart = cycleStart
		if err := s.Repo.UpdateMember(member); err != nil {
			return nil, false, fmt.Errorf("failed to reset signature quota: %w", err)
		}
		return member, true, nil
	}
	return member, false, nil
}
