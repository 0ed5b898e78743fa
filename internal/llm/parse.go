package llm

import (
	"encoding/json"
	"strings"

	"repobrief/internal/models"
)

// rawFallbackPrefix marks analyses whose completion could not be parsed as
// JSON. The raw text rides along so nothing the model said is lost.
const rawFallbackPrefix = "Unparsed AI response: "

// ParseAnalysis decodes a completion into an Analysis. Parsing never fails
// outright: fields the model omitted keep their defaults, and a completion
// that is not JSON at all comes back as a default analysis carrying the raw
// text. The boolean reports whether the completion parsed cleanly.
func ParseAnalysis(raw string) (models.Analysis, bool) {
	analysis := models.DefaultAnalysis()
	cleaned := stripCodeFences(raw)
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		analysis = models.DefaultAnalysis()
		analysis.Purpose = rawFallbackPrefix + raw
		return analysis, false
	}
	return analysis, true
}

// stripCodeFences removes markdown code fences that some models wrap around JSON.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		// Remove opening fence (```json or ```)
		if i := strings.Index(s, "\n"); i != -1 {
			s = s[i+1:]
		}
		// Remove closing fence
		if i := strings.LastIndex(s, "```"); i != -1 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	return s
}
