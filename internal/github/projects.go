package github

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// dryRunItemID is the synthetic project item id returned by dry-run
// mutations so downstream field writes still have an id to address.
const dryRunItemID = "DRY-ITEM"

// SelectField is one single-select field definition: its id plus a mapping
// from option label to option id.
type SelectField struct {
	ID      string
	Options map[string]string
}

// FieldSchema maps a project's single-select field names to definitions.
type FieldSchema map[string]SelectField

// ProjectsClient wraps the GitHub GraphQL API for Projects v2 mutations.
type ProjectsClient struct {
	gql    *githubv4.Client
	dryRun bool
	logger *zap.Logger
}

// NewProjectsClient creates a Projects v2 client on the given token.
func NewProjectsClient(accessToken string, dryRun bool, logger *zap.Logger) *ProjectsClient {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: accessToken},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	return &ProjectsClient{
		gql:    githubv4.NewClient(tc),
		dryRun: dryRun,
		logger: logger,
	}
}

// AddItemToProject links an existing issue (by GraphQL node id) to a
// project and returns the resulting project item id.
func (c *ProjectsClient) AddItemToProject(ctx context.Context, projectID, contentNodeID string) (string, error) {
	if c.dryRun {
		c.logger.Info("dry-run: would add item to project",
			zap.String("project_id", projectID),
			zap.String("content_id", contentNodeID),
		)
		return dryRunItemID, nil
	}

	var m struct {
		AddProjectV2ItemByID struct {
			Item struct {
				ID githubv4.String
			}
		} `graphql:"addProjectV2ItemById(input: $input)"`
	}
	input := githubv4.AddProjectV2ItemByIdInput{
		ProjectID: githubv4.ID(projectID),
		ContentID: githubv4.ID(contentNodeID),
	}

	if err := c.gql.Mutate(ctx, &m, input, nil); err != nil {
		return "", fmt.Errorf("failed to add item to project: %w", err)
	}

	return string(m.AddProjectV2ItemByID.Item.ID), nil
}

// CreateDraftItem creates a draft item directly in a project, with no
// backing repository issue, and returns the project item id.
func (c *ProjectsClient) CreateDraftItem(ctx context.Context, projectID, title, body string) (string, error) {
	if c.dryRun {
		c.logger.Info("dry-run: would create draft item",
			zap.String("project_id", projectID),
			zap.String("title", title),
		)
		return dryRunItemID, nil
	}

	var m struct {
		AddProjectV2DraftIssue struct {
			ProjectItem struct {
				ID githubv4.String
			}
		} `graphql:"addProjectV2DraftIssue(input: $input)"`
	}
	input := githubv4.AddProjectV2DraftIssueInput{
		ProjectID: githubv4.ID(projectID),
		Title:     githubv4.String(title),
		Body:      githubv4.NewString(githubv4.String(body)),
	}

	if err := c.gql.Mutate(ctx, &m, input, nil); err != nil {
		return "", fmt.Errorf("failed to create draft item: %w", err)
	}

	return string(m.AddProjectV2DraftIssue.ProjectItem.ID), nil
}

// SetSingleSelect writes a single-select field value on a project item.
func (c *ProjectsClient) SetSingleSelect(ctx context.Context, projectID, itemID, fieldID, optionID string) error {
	if c.dryRun {
		c.logger.Info("dry-run: would set single-select field",
			zap.String("project_id", projectID),
			zap.String("item_id", itemID),
			zap.String("field_id", fieldID),
			zap.String("option_id", optionID),
		)
		return nil
	}

	var m struct {
		UpdateProjectV2ItemFieldValue struct {
			ProjectV2Item struct {
				ID githubv4.String
			}
		} `graphql:"updateProjectV2ItemFieldValue(input: $input)"`
	}
	input := githubv4.UpdateProjectV2ItemFieldValueInput{
		ProjectID: githubv4.ID(projectID),
		ItemID:    githubv4.ID(itemID),
		FieldID:   githubv4.ID(fieldID),
		Value: githubv4.ProjectV2FieldValue{
			SingleSelectOptionID: githubv4.NewString(githubv4.String(optionID)),
		},
	}

	if err := c.gql.Mutate(ctx, &m, input, nil); err != nil {
		return fmt.Errorf("failed to set single-select field: %w", err)
	}

	return nil
}

// DiscoverFields lists a project's single-select field definitions, with
// each field's full option set.
func (c *ProjectsClient) DiscoverFields(ctx context.Context, projectID string) (FieldSchema, error) {
	if c.dryRun {
		c.logger.Info("dry-run: would discover project fields",
			zap.String("project_id", projectID),
		)
		return FieldSchema{}, nil
	}

	var q struct {
		Node struct {
			ProjectV2 struct {
				Fields struct {
					Nodes []struct {
						SingleSelect struct {
							ID      githubv4.String
							Name    githubv4.String
							Options []struct {
								ID   githubv4.String
								Name githubv4.String
							}
						} `graphql:"... on ProjectV2SingleSelectField"`
					}
				} `graphql:"fields(first: 50)"`
			} `graphql:"... on ProjectV2"`
		} `graphql:"node(id: $project)"`
	}
	vars := map[string]interface{}{
		"project": githubv4.ID(projectID),
	}

	if err := c.gql.Query(ctx, &q, vars); err != nil {
		return nil, fmt.Errorf("failed to discover project fields: %w", err)
	}

	schema := make(FieldSchema)
	for _, node := range q.Node.ProjectV2.Fields.Nodes {
		f := node.SingleSelect
		// Non-single-select fields come back zero-valued.
		if f.Name == "" {
			continue
		}
		options := make(map[string]string, len(f.Options))
		for _, opt := range f.Options {
			options[string(opt.Name)] = string(opt.ID)
		}
		schema[string(f.Name)] = SelectField{
			ID:      string(f.ID),
			Options: options,
		}
	}

	c.logger.Info("discovered project fields",
		zap.String("project_id", projectID),
		zap.Int("single_select_fields", len(schema)),
	)

	return schema, nil
}
