// File: services/pipeline/complete.go
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"neira/models"
)

// Complete replaces the placeholder tokens of a generated contract with the
// party data of the assigned clients. Fields absent from a party's record
// stay as the placeholder, never fabricated: the party-info rendering only
// exposes known values.
func (s *DefaultPipelineService) Complete(ctx context.Context, req models.CompleteRequest) (*models.CompleteResponse, error) {
	if req.ContractContent == "" || len(req.PartiesClients) == 0 {
		return nil, ErrMissingFields
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	systemPrompt := buildCompleteSystemPrompt(req.PartiesClients)
	userPrompt := fmt.Sprintf("Voici le contrat à compléter:\n\n%s", req.ContractContent)

	raw, _, err := s.LLM.GenerateContent(ctx, systemPrompt, userPrompt, completeTemperature)
	if err != nil {
		return nil, fmt.Errorf("completion failed: %w", err)
	}

	return &models.CompleteResponse{
		CompletedContract: strings.TrimSpace(raw),
	}, nil
}
