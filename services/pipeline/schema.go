// File: services/pipeline/schema.go
package pipeline

import (
	"context"
	"fmt"

	"neira/models"
)

// generateFormSchema builds the dynamic form schema for a clarified brief.
func (s *DefaultPipelineService) generateFormSchema(ctx context.Context, contractType, role, originalRequest string, brief *models.ContractBrief) (*models.FormSchema, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	userPrompt := buildSchemaUserPrompt(contractType, role, originalRequest, brief)
	raw, _, err := s.LLM.GenerateContent(ctx, schemaSystemPrompt, userPrompt, schemaTemperature)
	if err != nil {
		return nil, fmt.Errorf("schema generation failed: %w", err)
	}

	var schema models.FormSchema
	if err := decodeModelJSON(raw, &schema); err != nil {
		return nil, err
	}
	if len(schema.Fields) == 0 {
		return nil, ErrInvalidAIResponse
	}
	return &schema, nil
}

// generateContract drafts the contract text from the audited schema and the
// collected form data. Unknown values come back as the placeholder token.
func (s *DefaultPipelineService) generateContract(ctx context.Context, schema *models.FormSchema, formData map[string]interface{}, brief *models.ContractBrief) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	userPrompt := buildGenerateUserPrompt(schema, formData, brief)
	raw, _, err := s.LLM.GenerateContent(ctx, generateSystemPrompt, userPrompt, generateTemperature)
	if err != nil {
		return "", fmt.Errorf("contract generation failed: %w", err)
	}
	return raw, nil
}
