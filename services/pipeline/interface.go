// File: services/pipeline/interface.go
package pipeline

import (
	"context"
	"errors"

	pipelineRepo "neira/database/repository/pipeline"
	"neira/models"
)

// Placeholder is the literal token the generation step leaves in a contract
// for every value it does not know, and the only token the completion step is
// allowed to replace.
const Placeholder = "[À COMPLÉTER]"

// maxAuditIterations bounds the audit-correction loop. Past this, the
// pipeline surfaces ErrMaxAuditIterations instead of re-auditing.
const maxAuditIterations = 3

var (
	// ErrInvalidAIResponse is returned when the model's output cannot be
	// decoded as the documented JSON shape after stripping code fences.
	ErrInvalidAIResponse = errors.New("Format de réponse invalide de l'IA")

	// ErrMaxAuditIterations is returned when the audit loop keeps flagging
	// blocking issues after the maximum number of correction rounds.
	ErrMaxAuditIterations = errors.New("nombre maximum d'itérations d'audit atteint")

	// ErrMissingFields is returned when a step request lacks required fields.
	ErrMissingFields = errors.New("contractContent et partiesClients requis")

	// ErrSessionNotFound is returned when no pipeline session exists for an ID.
	ErrSessionNotFound = errors.New("session de pipeline introuvable")

	// ErrWrongStep is returned when an operation is invoked while the session
	// is in a step that does not accept it.
	ErrWrongStep = errors.New("étape de pipeline invalide pour cette opération")
)

// LLMClient is the remote model behind every pipeline step. Each call is
// stateless; temperature is set per step for maximal determinism. Retrying a
// call may yield a materially different response.
type LLMClient interface {
	GenerateContent(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, *models.TokenUsage, error)
}

// PipelineService turns a free-text contract request into a validated,
// client-complete contract document via chained remote steps. The three
// step methods (Clarify, Audit, Complete) are stateless request/response
// calls matching the wire contract; the session methods drive the explicit
// state machine around them.
type PipelineService interface {
	// Stateless steps.
	Clarify(ctx context.Context, req models.ClarifyRequest) (*models.ClarifyResponse, error)
	Audit(ctx context.Context, req models.AuditRequest) (*models.AuditResponse, error)
	Complete(ctx context.Context, req models.CompleteRequest) (*models.CompleteResponse, error)

	// Session-driven state machine.
	StartSession(ctx context.Context, userID, cabinetID, contractType, description, role string) (*models.PipelineState, error)
	SubmitAnswers(ctx context.Context, sessionID string, answers models.ClientAnswers) (*models.PipelineState, error)
	RunAudit(ctx context.Context, sessionID string) (*models.PipelineState, error)
	CompleteSession(ctx context.Context, sessionID string, partiesClients map[string]models.ClientFields) (*models.PipelineState, error)
	GetSession(ctx context.Context, sessionID string) (*models.PipelineState, error)
	SaveSnapshot(ctx context.Context, sessionID string) error
	ResumeSession(ctx context.Context, snapshotID string) (*models.PipelineState, error)
}

// StateStore holds the live state of in-flight pipeline sessions.
type StateStore interface {
	Get(ctx context.Context, sessionID string) (*models.PipelineState, error)
	Set(ctx context.Context, state *models.PipelineState) error
	Delete(ctx context.Context, sessionID string) error
}

// DefaultPipelineService is the production implementation.
type DefaultPipelineService struct {
	LLM    LLMClient
	States StateStore
	Repo   pipelineRepo.PipelineRepository
}

// NewDefaultPipelineService wires the service with its LLM client, live state
// store and snapshot repository.
func NewDefaultPipelineService(llm LLMClient, states StateStore, repo pipelineRepo.PipelineRepository) *DefaultPipelineService {
	return &DefaultPipelineService{
		LLM:    llm,
		States: states,
		Repo:   repo,
	}
}
