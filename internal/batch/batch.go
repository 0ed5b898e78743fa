// Package batch briefs many repositories from a YAML manifest.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"repobrief/internal/input"
	"repobrief/internal/models"
)

const defaultConcurrency = 3

// Manifest lists the repositories to brief and how many to work on at once.
type Manifest struct {
	Repos       []string `yaml:"repos"`
	Concurrency int      `yaml:"concurrency"`
}

func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if len(m.Repos) == 0 {
		return nil, fmt.Errorf("manifest %s lists no repos", path)
	}
	if m.Concurrency <= 0 {
		m.Concurrency = defaultConcurrency
	}
	return &m, nil
}

// Runner is the single-repository flow a batch fans out over.
type Runner interface {
	Run(ctx context.Context, in input.Input) (*models.Briefing, error)
}

// Summary reports what a batch accomplished.
type Summary struct {
	Briefed []models.Briefing
	Failed  int
}

// Run briefs every repository in the manifest with bounded concurrency,
// sharing one API key across the batch. A repository that fails is logged
// and skipped; the batch itself errors only when nothing succeeded.
func Run(ctx context.Context, runner Runner, m *Manifest, apiKey string) (*Summary, error) {
	results := make([]*models.Briefing, len(m.Repos))
	var failed atomic.Int64

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(m.Concurrency)

	for i, repo := range m.Repos {
		i, repo := i, repo
		g.Go(func() error {
			b, err := runner.Run(gCtx, input.Input{RepoURL: repo, APIKey: apiKey})
			if err != nil {
				logrus.Warnf("Skipping %s: %v", repo, err)
				failed.Add(1)
				return nil // continue with other repos
			}
			results[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &Summary{Failed: int(failed.Load())}
	for _, b := range results {
		if b != nil {
			summary.Briefed = append(summary.Briefed, *b)
		}
	}
	if len(summary.Briefed) == 0 {
		return summary, errors.New("no repositories could be briefed")
	}
	return summary, nil
}
