package llm

import (
	"fmt"
	"strings"

	"repobrief/internal/transform"
)

const systemPrompt = `You are a senior software engineer briefing a colleague on an unfamiliar codebase. Given a repository's manifest, README, and file tree, produce a JSON object with:

1. "purpose": A 1-2 sentence statement of what the project does and who it is for.
2. "tech_stack": The main languages, frameworks, and notable dependencies, as a short comma-separated string.
3. "architecture_summary": A 2-3 sentence description of how the codebase is organized.
4. "complexity_score": An integer from 1 (trivial) to 10 (sprawling) rating how hard the codebase is to ramp up on.

Return ONLY valid JSON. No markdown, no code fences, no commentary.`

// BuildPrompt assembles the user message from the transformed payloads,
// applying the prompt budgets. A missing manifest is stated outright so the
// model does not invent one.
func BuildPrompt(manifest, readme string, files []string) string {
	manifest = transform.TruncateChars(manifest, transform.MaxManifestChars)
	if manifest == "" {
		manifest = "Not found"
	}
	readme = transform.TruncateChars(readme, transform.MaxReadmeChars)
	files = transform.LimitEntries(files, transform.MaxTreeEntries)

	return fmt.Sprintf("Manifest (package.json):\n%s\n\nREADME:\n%s\n\nFile tree:\n%s",
		manifest, readme, strings.Join(files, "\n"))
}
