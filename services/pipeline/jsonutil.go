// File: services/pipeline/jsonutil.go
package pipeline

import (
	"encoding/json"
	"strings"
)

// stripCodeFences removes markdown code-fence markers the model sometimes
// wraps around its JSON output.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.ReplaceAll(s, "```json\n", "")
		s = strings.ReplaceAll(s, "```json", "")
		s = strings.ReplaceAll(s, "```\n", "")
		s = strings.ReplaceAll(s, "```", "")
	} else if strings.HasPrefix(s, "```") {
		s = strings.ReplaceAll(s, "```\n", "")
		s = strings.ReplaceAll(s, "```", "")
	}
	return strings.TrimSpace(s)
}

// decodeModelJSON strips fences and decodes the model output into target.
// A decode failure is reported as ErrInvalidAIResponse.
func decodeModelJSON(raw string, target interface{}) error {
	cleaned := stripCodeFences(raw)
	if err := json.Unmarshal([]byte(cleaned), target); err != nil {
		return ErrInvalidAIResponse
	}
	return nil
}
