package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdk "github.com/surrealdb/surrealdb.go"

	"repobrief/internal/config"
	"repobrief/internal/models"
)

type Client struct {
	db *sdk.DB
}

func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	db, err := sdk.FromEndpointURLString(ctx, cfg.SurrealURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, sdk.Auth{
		Namespace: cfg.SurrealNS,
		Database:  cfg.SurrealDB,
		Username:  cfg.SurrealUser,
		Password:  cfg.SurrealPass,
	}); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("signing in: %w", err)
	}

	if err := db.Use(ctx, cfg.SurrealNS, cfg.SurrealDB); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("selecting ns/db: %w", err)
	}

	return &Client{db: db}, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.db.Close(ctx)
}

func (c *Client) InitSchema(ctx context.Context) error {
	schema := `
DEFINE TABLE IF NOT EXISTS briefing SCHEMAFULL;

DEFINE FIELD IF NOT EXISTS repo                 ON TABLE briefing TYPE string;
DEFINE FIELD IF NOT EXISTS description          ON TABLE briefing TYPE string;
DEFINE FIELD IF NOT EXISTS stars                ON TABLE briefing TYPE int;
DEFINE FIELD IF NOT EXISTS languages            ON TABLE briefing FLEXIBLE TYPE object;
DEFINE FIELD IF NOT EXISTS file_tree            ON TABLE briefing TYPE array<string>;
DEFINE FIELD IF NOT EXISTS purpose              ON TABLE briefing TYPE string;
DEFINE FIELD IF NOT EXISTS tech_stack           ON TABLE briefing TYPE string;
DEFINE FIELD IF NOT EXISTS architecture_summary ON TABLE briefing TYPE string;
DEFINE FIELD IF NOT EXISTS complexity_score     ON TABLE briefing TYPE float;
DEFINE FIELD IF NOT EXISTS created_at           ON TABLE briefing TYPE datetime;

DEFINE INDEX IF NOT EXISTS idx_repo ON TABLE briefing FIELDS repo UNIQUE;
`
	_, err := sdk.Query[any](ctx, c.db, schema, nil)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

// SaveBriefing writes one briefing record, replacing any earlier record for
// the same repository.
func (c *Client) SaveBriefing(ctx context.Context, b models.Briefing) error {
	id := strings.ReplaceAll(b.Repo, "/", "__")
	languages := b.Languages
	if languages == nil {
		languages = map[string]int{}
	}
	fileTree := b.FileTree
	if fileTree == nil {
		fileTree = []string{}
	}
	data := map[string]any{
		"repo":                 b.Repo,
		"description":          b.Description,
		"stars":                b.Stars,
		"languages":            languages,
		"file_tree":            fileTree,
		"purpose":              b.Purpose,
		"tech_stack":           b.TechStack,
		"architecture_summary": b.ArchitectureSummary,
		"complexity_score":     b.ComplexityScore,
		"created_at":           time.Now().UTC(),
	}

	_, err := sdk.Query[any](ctx, c.db,
		`UPSERT type::thing("briefing", $id) MERGE $data`,
		map[string]any{
			"id":   id,
			"data": data,
		})
	if err != nil {
		return fmt.Errorf("upserting %s: %w", b.Repo, err)
	}
	return nil
}

// GetBriefing returns the stored briefing for a repository, or nil when the
// repository has not been briefed yet.
func (c *Client) GetBriefing(ctx context.Context, repo string) (*models.Briefing, error) {
	results, err := sdk.Query[[]models.Briefing](ctx, c.db,
		`SELECT * FROM briefing WHERE repo = $repo`,
		map[string]any{"repo": repo})
	if err != nil {
		return nil, fmt.Errorf("querying briefing for %s: %w", repo, err)
	}
	if len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	b := (*results)[0].Result[0]
	return &b, nil
}

func (c *Client) ListBriefings(ctx context.Context) ([]models.Briefing, error) {
	results, err := sdk.Query[[]models.Briefing](ctx, c.db,
		`SELECT * FROM briefing ORDER BY repo`, nil)
	if err != nil {
		return nil, fmt.Errorf("listing briefings: %w", err)
	}
	if len(*results) == 0 {
		return nil, nil
	}
	return (*results)[0].Result, nil
}

type Stats struct {
	Total         int
	Analyzed      int
	AvgComplexity float64
}

// GetStats summarizes the briefing table. Analyzed counts records whose
// completion parsed cleanly; parse fallbacks carry a zero complexity score.
func (c *Client) GetStats(ctx context.Context) (*Stats, error) {
	results, err := sdk.Query[[]map[string]any](ctx, c.db,
		`SELECT
			count() AS total,
			math::sum(IF complexity_score > 0 THEN 1 ELSE 0 END) AS analyzed,
			math::mean(complexity_score) AS avg_complexity
		FROM briefing GROUP ALL`,
		nil)
	if err != nil {
		return nil, fmt.Errorf("getting stats: %w", err)
	}
	if len(*results) == 0 || len((*results)[0].Result) == 0 {
		return &Stats{}, nil
	}
	row := (*results)[0].Result[0]
	return &Stats{
		Total:         toInt(row["total"]),
		Analyzed:      toInt(row["analyzed"]),
		AvgComplexity: toFloat(row["avg_complexity"]),
	}, nil
}

type LanguageCount struct {
	Language string
	Count    int
}

// GetLanguageBreakdown counts how many briefed repositories carry each
// language, computed in Go from the stored byte maps.
func (c *Client) GetLanguageBreakdown(ctx context.Context) ([]LanguageCount, error) {
	results, err := sdk.Query[[]models.Briefing](ctx, c.db,
		`SELECT languages FROM briefing`, nil)
	if err != nil {
		return nil, fmt.Errorf("getting language breakdown: %w", err)
	}
	if len(*results) == 0 {
		return nil, nil
	}
	counts := map[string]int{}
	for _, b := range (*results)[0].Result {
		for lang := range b.Languages {
			counts[lang]++
		}
	}
	var out []LanguageCount
	for lang, cnt := range counts {
		out = append(out, LanguageCount{Language: lang, Count: cnt})
	}
	return out, nil
}

func toInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	default:
		return 0
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		return 0
	}
}
