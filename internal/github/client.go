// Package github wraps the GitHub REST and GraphQL APIs used by the sync
// bridge: issue creation in the target repository and Projects v2 item and
// field mutations.
package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/syncops/notion-github-sync/pkg/types"
)

// Sentinel issue returned by dry-run creations. The negative number keeps
// dry-run results recognizable and out of the idempotency store.
var dryRunIssue = types.Issue{
	Number: -1,
	URL:    "https://example/issue",
	NodeID: "MDU6SXNzdWUx",
}

// Client wraps the GitHub REST API for one target repository.
type Client struct {
	api    *github.Client
	owner  string
	repo   string
	dryRun bool
	logger *zap.Logger
}

// NewClient creates a new GitHub client for owner/repo.
func NewClient(accessToken, owner, repo string, dryRun bool, logger *zap.Logger) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: accessToken},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	return &Client{
		api:    github.NewClient(tc),
		owner:  owner,
		repo:   repo,
		dryRun: dryRun,
		logger: logger,
	}
}

// CreateIssue creates an issue in the target repository.
func (c *Client) CreateIssue(ctx context.Context, title, body string, labels []string) (*types.Issue, error) {
	if c.dryRun {
		c.logger.Info("dry-run: would create issue",
			zap.String("title", title),
			zap.Strings("labels", labels),
		)
		issue := dryRunIssue
		return &issue, nil
	}

	req := &github.IssueRequest{
		Title: github.String(title),
		Body:  github.String(body),
	}
	if len(labels) > 0 {
		req.Labels = &labels
	}

	created, _, err := c.api.Issues.Create(ctx, c.owner, c.repo, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	issue := &types.Issue{
		Number: created.GetNumber(),
		URL:    created.GetHTMLURL(),
		NodeID: created.GetNodeID(),
	}

	c.logger.Info("created issue",
		zap.String("owner", c.owner),
		zap.String("repo", c.repo),
		zap.Int("number", issue.Number),
		zap.String("url", issue.URL),
	)

	return issue, nil
}
