// File: services/pipeline/questions.go
package pipeline

import (
	"fmt"
	"strings"

	"neira/models"
)

// questionTemplates phrases a question from a missing-info category.
var questionTemplates = map[string]string{
	"Parties":    "Veuillez fournir %s",
	"Montants":   "Quel est %s ?",
	"Durée":      "Quelle est %s ?",
	"Dates":      "Quelle est %s ?",
	"Adresse":    "Quelle est %s ?",
	"Conditions": "Précisez %s",
}

// generateQuestionText builds the question wording for one missing info.
func generateQuestionText(info models.MissingInfo) string {
	tmpl, ok := questionTemplates[info.Category]
	if !ok {
		return info.Description
	}
	return fmt.Sprintf(tmpl, strings.ToLower(info.Description))
}

// inferInputType picks the form input type for a missing field from its name
// and category.
func inferInputType(field, category string) string {
	switch {
	case strings.Contains(field, "date") || category == "Dates":
		return "date"
	case strings.Contains(field, "montant") || strings.Contains(field, "prix") || category == "Montants":
		return "number"
	case strings.Contains(field, "description") || strings.Contains(field, "detail"):
		return "textarea"
	default:
		return "text"
	}
}

// buildQuestions turns the brief's missing-info list into client questions.
func buildQuestions(missing []models.MissingInfo) []models.Question {
	questions := make([]models.Question, 0, len(missing))
	for i, info := range missing {
		questions = append(questions, models.Question{
			ID:        fmt.Sprintf("q_%d", i),
			Category:  info.Category,
			Question:  generateQuestionText(info),
			FieldName: info.Field,
			InputType: inferInputType(info.Field, info.Category),
			Required:  info.Priority == models.PriorityBloquant,
			Priority:  info.Priority,
			Hint:      info.Description,
		})
	}
	return questions
}
