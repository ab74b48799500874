// File: services/pipeline/audit.go
package pipeline

import (
	"context"
	"fmt"
	"time"

	"neira/models"
)

// Audit checks a form schema for missing fields, incoherences and uncovered
// sensitive clauses, and returns the report with a corrected schema when
// problems were found. Report.ShouldRetry is derived here, never by the
// model: hasCriticalIssues or any blocking issue.
func (s *DefaultPipelineService) Audit(ctx context.Context, req models.AuditRequest) (*models.AuditResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	raw, usage, err := s.LLM.GenerateContent(ctx, auditSystemPrompt, buildAuditUserPrompt(req), auditTemperature)
	if err != nil {
		return nil, fmt.Errorf("audit failed: %w", err)
	}

	var report models.AuditReport
	if err := decodeModelJSON(raw, &report); err != nil {
		return nil, err
	}

	report.Timestamp = time.Now().UTC().Format(time.RFC3339)
	report.SchemaVersion = "1.0"
	report.ShouldRetry = report.HasCriticalIssues || anyBlocking(report.Issues)
	if report.Issues == nil {
		report.Issues = []models.AuditIssue{}
	}
	if report.Suggestions == nil {
		report.Suggestions = []string{}
	}

	return &models.AuditResponse{
		Success:    true,
		Report:     &report,
		TokensUsed: usage,
	}, nil
}

func anyBlocking(issues []models.AuditIssue) bool {
	for _, issue := range issues {
		if issue.Severity == models.SeverityBloquant {
			return true
		}
	}
	return false
}
