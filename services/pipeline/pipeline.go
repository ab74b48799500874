// File: services/pipeline/pipeline.go
//
// Session orchestration around the stateless steps. The state machine is
// caller-driven: every method loads the serialized state, runs at most one
// remote round (the audit loop excepted, which is bounded), records the
// transition and stores the state back. The remote endpoints keep no session
// state, so abandoning a session needs no remote cleanup.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"neira/models"
	"neira/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StartSession opens a new contract-creation session and runs the
// clarification step. The session lands either in awaiting_answers (the
// brief lacks information) or in auditing (schema already generated).
func (s *DefaultPipelineService) StartSession(ctx context.Context, userID, cabinetID, contractType, description, role string) (*models.PipelineState, error) {
	now := time.Now()
	state := &models.PipelineState{
		ID:              uuid.NewString(),
		UserID:          userID,
		CabinetID:       cabinetID,
		Step:            models.StepClarifying,
		ContractType:    contractType,
		OriginalRequest: description,
		Role:            role,
		ClientAnswers:   models.ClientAnswers{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.clarifyInto(ctx, state, nil); err != nil {
		return nil, err
	}
	if err := s.States.Set(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// SubmitAnswers records the client's answers, updates the brief, and either
// re-clarifies (a blocking item remains) or moves on to schema generation.
func (s *DefaultPipelineService) SubmitAnswers(ctx context.Context, sessionID string, answers models.ClientAnswers) (*models.PipelineState, error) {
	state, err := s.States.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Step != models.StepAwaitingAnswers {
		return nil, ErrWrongStep
	}

	for field, value := range answers {
		state.ClientAnswers[field] = value
	}
	appendEvent(state, "Réponses du client enregistrées")

	brief := state.Brief
	if brief.ProvidedInfo == nil {
		brief.ProvidedInfo = map[string]interface{}{}
	}
	for field, value := range answers {
		brief.ProvidedInfo[field] = value
	}

	// Answered fields are no longer missing.
	remaining := brief.MissingInfo[:0]
	for _, info := range brief.MissingInfo {
		if _, answered := state.ClientAnswers[info.Field]; !answered {
			remaining = append(remaining, info)
		}
	}
	brief.MissingInfo = remaining

	hasCritical := false
	for _, info := range brief.MissingInfo {
		if info.Priority == models.PriorityBloquant {
			hasCritical = true
			break
		}
	}

	if hasCritical {
		if err := s.clarifyInto(ctx, state, state.ClientAnswers); err != nil {
			return nil, err
		}
	} else {
		if err := s.advanceToSchema(ctx, state); err != nil {
			return nil, err
		}
	}

	if err := s.States.Set(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// RunAudit audits the generated schema, applying the corrected schema and
// re-auditing while blocking issues remain, up to maxAuditIterations across
// the whole session. On success the session advances to completing with a
// freshly generated contract draft.
func (s *DefaultPipelineService) RunAudit(ctx context.Context, sessionID string) (*models.PipelineState, error) {
	state, err := s.States.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Step != models.StepAuditing {
		return nil, ErrWrongStep
	}

	logger := utils.GetLogger()
	for {
		resp, err := s.Audit(ctx, models.AuditRequest{
			Schema:       state.FormSchema,
			Brief:        state.Brief,
			ContractType: state.ContractType,
			Role:         state.Role,
		})
		if err != nil {
			return nil, err
		}

		state.AuditReport = resp.Report
		state.AuditIterations++
		appendEvent(state, fmt.Sprintf("Audit %d terminé", state.AuditIterations))

		if !resp.Report.ShouldRetry {
			break
		}
		if state.AuditIterations >= maxAuditIterations {
			if err := s.States.Set(ctx, state); err != nil {
				return nil, err
			}
			return state, ErrMaxAuditIterations
		}
		if resp.Report.CorrectedSchema == nil {
			// Nothing to apply; re-auditing the same schema cannot converge.
			if err := s.States.Set(ctx, state); err != nil {
				return nil, err
			}
			return state, ErrMaxAuditIterations
		}

		logger.Warn("audit flagged blocking issues, applying corrected schema",
			zap.String("session", state.ID),
			zap.Int("iteration", state.AuditIterations))
		state.FormSchema = resp.Report.CorrectedSchema
		appendEvent(state, "Schéma corrigé appliqué")
	}

	contract, err := s.generateContract(ctx, state.FormSchema, state.Brief.ProvidedInfo, state.Brief)
	if err != nil {
		return nil, err
	}
	state.Contract = contract
	state.Step = models.StepCompleting
	appendEvent(state, "Audit validé - contrat généré")

	if err := s.States.Set(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// CompleteSession injects the assigned clients' data into the generated
// contract and closes the session.
func (s *DefaultPipelineService) CompleteSession(ctx context.Context, sessionID string, partiesClients map[string]models.ClientFields) (*models.PipelineState, error) {
	state, err := s.States.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Step != models.StepCompleting {
		return nil, ErrWrongStep
	}

	resp, err := s.Complete(ctx, models.CompleteRequest{
		ContractContent: state.Contract,
		PartiesClients:  partiesClients,
	})
	if err != nil {
		return nil, err
	}

	state.Contract = resp.CompletedContract
	state.Step = models.StepComplete
	appendEvent(state, "Contrat complété avec les informations clients")

	if err := s.States.Set(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// GetSession returns the live state of a session.
func (s *DefaultPipelineService) GetSession(ctx context.Context, sessionID string) (*models.PipelineState, error) {
	return s.States.Get(ctx, sessionID)
}

// SaveSnapshot persists the live state to Mongo so the session can be
// resumed after the Redis TTL expires.
func (s *DefaultPipelineService) SaveSnapshot(ctx context.Context, sessionID string) error {
	state, err := s.States.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	return s.Repo.Save(ctx, state)
}

// ResumeSession loads a snapshot back into the live store.
func (s *DefaultPipelineService) ResumeSession(ctx context.Context, snapshotID string) (*models.PipelineState, error) {
	state, err := s.Repo.GetByID(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrSessionNotFound
	}
	if err := s.States.Set(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// clarifyInto runs the clarify step and applies the outcome to the state:
// awaiting_answers when questions remain, otherwise straight to schema
// generation and auditing.
func (s *DefaultPipelineService) clarifyInto(ctx context.Context, state *models.PipelineState, answers models.ClientAnswers) error {
	resp, err := s.Clarify(ctx, models.ClarifyRequest{
		ContractType:    state.ContractType,
		Description:     state.OriginalRequest,
		Role:            state.Role,
		ExistingAnswers: answers,
	})
	if err != nil {
		return err
	}

	state.Brief = resp.Brief
	appendEvent(state, "Clarification terminée")

	if resp.NeedsMoreInfo && len(resp.Questions) > 0 {
		state.Step = models.StepAwaitingAnswers
		state.Questions = resp.Questions
		appendEvent(state, "Questions générées - en attente des réponses")
		return nil
	}
	return s.advanceToSchema(ctx, state)
}

// advanceToSchema generates the form schema and moves the session to the
// audit step.
func (s *DefaultPipelineService) advanceToSchema(ctx context.Context, state *models.PipelineState) error {
	state.Step = models.StepSchema
	appendEvent(state, "Brief complet - passage au schéma")

	schema, err := s.generateFormSchema(ctx, state.ContractType, state.Role, state.OriginalRequest, state.Brief)
	if err != nil {
		return err
	}
	state.FormSchema = schema
	state.Step = models.StepAuditing
	appendEvent(state, "Schéma généré - passage à l'audit")
	return nil
}

func appendEvent(state *models.PipelineState, action string) {
	now := time.Now()
	state.UpdatedAt = now
	state.History = append(state.History, models.PipelineEvent{
		Step:      state.Step,
		Action:    action,
		Timestamp: now,
	})
}
