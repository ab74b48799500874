// File: services/pipeline/clarify.go
package pipeline

import (
	"context"
	"fmt"
	"time"

	"neira/models"
)

// requestTimeout bounds each remote model call. The provider can be slow on
// long contracts, so the window is generous.
const requestTimeout = 60 * time.Second

const (
	clarifyTemperature  = 0.2
	schemaTemperature   = 0.3
	auditTemperature    = 0.1
	completeTemperature = 0.1
	generateTemperature = 0.3
)

// Clarify turns a free-text contract request into a structured brief and,
// when information is missing, the questions to ask the end client.
func (s *DefaultPipelineService) Clarify(ctx context.Context, req models.ClarifyRequest) (*models.ClarifyResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	raw, usage, err := s.LLM.GenerateContent(ctx, clarifySystemPrompt, buildClarifyUserPrompt(req), clarifyTemperature)
	if err != nil {
		return nil, fmt.Errorf("clarification failed: %w", err)
	}

	var brief models.ContractBrief
	if err := decodeModelJSON(raw, &brief); err != nil {
		return nil, err
	}

	hasCritical := false
	for _, info := range brief.MissingInfo {
		if info.Priority == models.PriorityBloquant {
			hasCritical = true
			break
		}
	}
	needsMoreInfo := hasCritical || len(brief.MissingInfo) > 0

	questions := []models.Question{}
	if needsMoreInfo {
		questions = buildQuestions(brief.MissingInfo)
	}

	return &models.ClarifyResponse{
		Success:       true,
		Brief:         &brief,
		NeedsMoreInfo: needsMoreInfo,
		Questions:     questions,
		TokensUsed:    usage,
	}, nil
}
