// Package pipeline runs the briefing flow: validate the input, gather the
// repository's payloads, ask the model for an analysis, and persist one flat
// record.
package pipeline

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"repobrief/internal/github"
	"repobrief/internal/input"
	"repobrief/internal/llm"
	"repobrief/internal/models"
	"repobrief/internal/transform"
)

// Completer produces one completion for a prompt under a caller credential.
type Completer interface {
	Complete(ctx context.Context, apiKey, prompt string) (string, error)
}

// Store persists finished briefings.
type Store interface {
	SaveBriefing(ctx context.Context, b models.Briefing) error
}

type Pipeline struct {
	github *github.Client
	ai     Completer
	store  Store
}

// New wires a pipeline. A nil store disables persistence; the briefing is
// still returned to the caller.
func New(gh *github.Client, ai Completer, store Store) *Pipeline {
	return &Pipeline{github: gh, ai: ai, store: store}
}

// Run produces one briefing for one input. The mock API key short-circuits
// before any network or storage traffic, so liveness checks stay cheap.
func (p *Pipeline) Run(ctx context.Context, in input.Input) (*models.Briefing, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if in.IsMock() {
		logrus.Info("Mock API key supplied, returning canned briefing")
		b := models.MockBriefing()
		return &b, nil
	}

	owner, name, err := input.ParseRepoURL(in.RepoURL)
	if err != nil {
		return nil, err
	}

	logrus.Infof("Fetching repository data for %s/%s", owner, name)
	bundle, err := p.github.FetchBundle(ctx, owner, name)
	if err != nil {
		return nil, err
	}

	files := transform.FilterTree(bundle.Tree)
	readme := transform.DecodeContent(bundle.Readme)
	manifest := transform.DecodeContent(bundle.Manifest)
	prompt := llm.BuildPrompt(manifest, readme, files)

	logrus.Infof("Requesting AI analysis for %s/%s", owner, name)
	completion, err := p.ai.Complete(ctx, in.APIKey, prompt)
	if err != nil {
		return nil, fmt.Errorf("AI analysis for %s/%s: %w", owner, name, err)
	}

	analysis, ok := llm.ParseAnalysis(completion)
	if !ok {
		logrus.Warnf("Completion for %s/%s was not valid JSON, keeping raw text", owner, name)
	}

	briefing := &models.Briefing{
		Repo:      bundle.Metadata.FullName,
		Stars:     bundle.Metadata.StargazersCount,
		Languages: bundle.Languages,
		FileTree:  files,
		Analysis:  analysis,
	}
	if bundle.Metadata.Description != nil {
		briefing.Description = *bundle.Metadata.Description
	}
	if briefing.Languages == nil {
		briefing.Languages = map[string]int{}
	}

	if p.store != nil {
		if err := p.store.SaveBriefing(ctx, *briefing); err != nil {
			return nil, fmt.Errorf("storing briefing for %s: %w", briefing.Repo, err)
		}
	}

	logrus.Infof("Briefing complete for %s", briefing.Repo)
	return briefing, nil
}
