// Package notion wraps the Notion API for the sync bridge: querying the
// source database for pages ready to sync, reading page properties and
// content, and writing sync state back to pages.
package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
	"go.uber.org/zap"

	"github.com/syncops/notion-github-sync/internal/markdown"
	"github.com/syncops/notion-github-sync/pkg/types"
)

// Property names expected in the source database.
const (
	propStatus       = "Status"
	propCompany      = "Company"
	propCustomerType = "Customer Type"
	propPriority     = "Priority"
	propSize         = "Size"
	propInSync       = "In Sync With Github"
)

// StatusValidated is the only status that triggers a sync.
const StatusValidated = "Validated"

// StatusBacklog is written back to a page after its issue is created.
const StatusBacklog = "Backlog"

// queryPageSize bounds how many pages a single poll cycle picks up.
const queryPageSize = 50

// contentFetchPageSize bounds the block-children fetch. Only the first
// page of blocks is ever rendered.
const contentFetchPageSize = 100

// Placeholders substituted for page content that could not be rendered.
const (
	noContentPlaceholder   = "_(No content found)_"
	noReadablePlaceholder  = "_(No readable content found)_"
	fetchFailedPlaceholder = "_(Failed to fetch page content)_"
)

// Client wraps the Notion API client for one source database.
type Client struct {
	api        *notionapi.Client
	databaseID notionapi.DatabaseID
	dryRun     bool
	logger     *zap.Logger
}

// NewClient creates a new Notion client bound to a database.
func NewClient(token, databaseID string, dryRun bool, logger *zap.Logger) *Client {
	return &Client{
		api:        notionapi.NewClient(notionapi.Token(token)),
		databaseID: notionapi.DatabaseID(databaseID),
		dryRun:     dryRun,
		logger:     logger,
	}
}

// QueryReadyPages returns the ids of pages with Status "Validated" whose
// sync checkbox is still unset, in database order.
func (c *Client) QueryReadyPages(ctx context.Context) ([]string, error) {
	// A false checkbox is expressed as does_not_equal true because the
	// filter encoding omits a false equals value.
	req := &notionapi.DatabaseQueryRequest{
		Filter: notionapi.AndCompoundFilter{
			notionapi.PropertyFilter{
				Property: propStatus,
				Select:   &notionapi.SelectFilterCondition{Equals: StatusValidated},
			},
			notionapi.PropertyFilter{
				Property: propInSync,
				Checkbox: &notionapi.CheckboxFilterCondition{DoesNotEqual: true},
			},
		},
		PageSize: queryPageSize,
	}

	resp, err := c.api.Database.Query(ctx, c.databaseID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to query database: %w", err)
	}

	ids := make([]string, 0, len(resp.Results))
	for _, page := range resp.Results {
		ids = append(ids, string(page.ID))
	}
	return ids, nil
}

// GetRecord retrieves a page and normalizes its properties.
func (c *Client) GetRecord(ctx context.Context, pageID string) (*types.Record, error) {
	page, err := c.api.Page.Get(ctx, notionapi.PageID(pageID))
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}

	return extractRecord(pageID, page.Properties), nil
}

// PageContent fetches a page's first level of blocks and renders them as
// markdown. It never fails: fetch errors and empty pages degrade to fixed
// placeholder strings so issue creation can proceed.
func (c *Client) PageContent(ctx context.Context, pageID string) string {
	resp, err := c.api.Block.GetChildren(ctx, notionapi.BlockID(pageID), &notionapi.Pagination{
		PageSize: contentFetchPageSize,
	})
	if err != nil {
		c.logger.Warn("failed to fetch page content",
			zap.String("page_id", pageID),
			zap.Error(err),
		)
		return fetchFailedPlaceholder
	}

	if len(resp.Results) == 0 {
		return noContentPlaceholder
	}

	content := markdown.ToMarkdown(resp.Results)
	if content == "" {
		return noReadablePlaceholder
	}
	return content
}

// MarkSynced sets the page's sync checkbox.
func (c *Client) MarkSynced(ctx context.Context, pageID string) error {
	if c.dryRun {
		c.logger.Info("dry-run: would mark page synced", zap.String("page_id", pageID))
		return nil
	}

	_, err := c.api.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{
			propInSync: notionapi.CheckboxProperty{Checkbox: true},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to mark page synced: %w", err)
	}
	return nil
}

// SetStatus updates the page's Status select.
func (c *Client) SetStatus(ctx context.Context, pageID, status string) error {
	if c.dryRun {
		c.logger.Info("dry-run: would set page status",
			zap.String("page_id", pageID),
			zap.String("status", status),
		)
		return nil
	}

	_, err := c.api.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{
			propStatus: notionapi.SelectProperty{
				Select: notionapi.Option{Name: status},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to set page status: %w", err)
	}
	return nil
}
