package models

// Analysis holds the AI-derived fields of a briefing.
type Analysis struct {
	Purpose             string  `json:"purpose"`
	TechStack           string  `json:"tech_stack"`
	ArchitectureSummary string  `json:"architecture_summary"`
	ComplexityScore     float64 `json:"complexity_score"`
}

// DefaultAnalysis returns the preset values an analysis falls back to when
// the AI response cannot be parsed, or for fields the response omits.
func DefaultAnalysis() Analysis {
	return Analysis{
		Purpose:             "Unknown",
		TechStack:           "Unknown",
		ArchitectureSummary: "Unknown",
		ComplexityScore:     0,
	}
}

// Briefing is the single output record produced per analyzed repository.
// Repository fields come verbatim from the GitHub API; the embedded
// Analysis comes from the AI response. FileTree carries the full filtered
// list, not the truncated slice used for the prompt.
type Briefing struct {
	Repo        string         `json:"repo"`
	Description string         `json:"description"`
	Stars       int            `json:"stars"`
	Languages   map[string]int `json:"languages"`
	FileTree    []string       `json:"file_tree"`
	Analysis
}

// MockBriefing is the fixed record emitted by the health-check bypass.
// It is stable across runs so liveness probes can assert on it.
func MockBriefing() Briefing {
	return Briefing{
		Repo:        "octocat/hello-world",
		Description: "Mock repository used for liveness checks",
		Stars:       42,
		Languages:   map[string]int{"Markdown": 1024},
		FileTree:    []string{"README.md"},
		Analysis: Analysis{
			Purpose:             "Connectivity check. No repository was analyzed.",
			TechStack:           "None",
			ArchitectureSummary: "None",
			ComplexityScore:     1,
		},
	}
}
