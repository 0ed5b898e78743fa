package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"
)

// ErrRepositoryNotFound reports that the repository metadata read came back
// 404, which means the repository does not exist or is private.
var ErrRepositoryNotFound = errors.New("repository not found")

// Bundle carries everything one briefing needs from GitHub. Secondary
// payloads are nil when the repository does not have them.
type Bundle struct {
	Metadata   *Repository
	Languages  map[string]int
	Readme     *Content
	Manifest   *Content
	Tree       []TreeEntry
	TreeBranch string
}

// FetchBundle issues the five reads for one repository concurrently and
// joins on all of them. Only transport failures, 5xx statuses, and a 404 on
// the metadata read abort a briefing; any other missing payload is recorded
// as absent. The 404 check runs after the join so a doomed run still lets
// the sibling requests finish instead of tearing them down mid-flight.
func (c *Client) FetchBundle(ctx context.Context, owner, name string) (*Bundle, error) {
	var (
		bundle     Bundle
		metaStatus int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		meta, status, err := c.fetchRepository(ctx, owner, name)
		if err != nil {
			return err
		}
		bundle.Metadata = meta
		metaStatus = status
		return nil
	})
	g.Go(func() error {
		langs, err := c.fetchLanguages(ctx, owner, name)
		if err != nil {
			return err
		}
		bundle.Languages = langs
		return nil
	})
	g.Go(func() error {
		readme, err := c.fetchContent(ctx, fmt.Sprintf("/repos/%s/%s/readme", owner, name))
		if err != nil {
			return err
		}
		bundle.Readme = readme
		return nil
	})
	g.Go(func() error {
		manifest, err := c.fetchContent(ctx, fmt.Sprintf("/repos/%s/%s/contents/package.json", owner, name))
		if err != nil {
			return err
		}
		bundle.Manifest = manifest
		return nil
	})
	g.Go(func() error {
		tree, branch, err := c.fetchTreeWithFallback(ctx, owner, name)
		if err != nil {
			return err
		}
		bundle.Tree = tree
		bundle.TreeBranch = branch
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if metaStatus == http.StatusNotFound {
		return nil, fmt.Errorf("%s/%s: %w", owner, name, ErrRepositoryNotFound)
	}
	if bundle.Metadata == nil {
		return nil, fmt.Errorf("fetching metadata for %s/%s: unexpected status %d", owner, name, metaStatus)
	}
	return &bundle, nil
}

// fetchTreeWithFallback tries the main branch first and falls back to
// master when main yields anything but a 200. A repository with neither
// branch simply has no tree.
func (c *Client) fetchTreeWithFallback(ctx context.Context, owner, name string) ([]TreeEntry, string, error) {
	tree, status, err := c.fetchTree(ctx, owner, name, "main")
	if err == nil && status == http.StatusOK {
		return tree, "main", nil
	}

	tree, status, err = c.fetchTree(ctx, owner, name, "master")
	if err != nil {
		return nil, "", err
	}
	if status != http.StatusOK {
		return nil, "", nil
	}
	return tree, "master", nil
}
