// Package sync implements the per-record pipeline and the polling loop
// that bridge Notion pages into GitHub issues.
package sync

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/syncops/notion-github-sync/internal/notion"
	"github.com/syncops/notion-github-sync/pkg/types"
)

// Source reads and updates pages in the Notion database.
type Source interface {
	GetRecord(ctx context.Context, pageID string) (*types.Record, error)
	PageContent(ctx context.Context, pageID string) string
	MarkSynced(ctx context.Context, pageID string) error
	SetStatus(ctx context.Context, pageID, status string) error
}

// Issues creates issues in the target repository.
type Issues interface {
	CreateIssue(ctx context.Context, title, body string, labels []string) (*types.Issue, error)
}

// Projects mutates the target Projects v2 board.
type Projects interface {
	AddItemToProject(ctx context.Context, projectID, contentNodeID string) (string, error)
	CreateDraftItem(ctx context.Context, projectID, title, body string) (string, error)
	SetSingleSelect(ctx context.Context, projectID, itemID, fieldID, optionID string) error
}

// FieldResolver translates field and option display names into project
// field identifiers.
type FieldResolver interface {
	Resolve(ctx context.Context, projectID, fieldName, optionLabel string) (fieldID, optionID string, err error)
}

// Mappings is the durable page-to-issue idempotency store.
type Mappings interface {
	Has(ctx context.Context, pageID string) (bool, error)
	Record(ctx context.Context, pageID string, issueNumber int) error
}

// priorityOptions translates Notion priority labels to the project's
// single-select option labels, which are spelled differently.
var priorityOptions = map[string]string{
	"Large":  "Extremo",
	"Medium": "Médio",
	"Low":    "Baixa",
}

// ProjectConfig carries the optional Projects v2 target. An empty ID
// disables all project mutations.
type ProjectConfig struct {
	ID string

	// Pre-known Status field identifiers. When both are set the Status
	// column is written without a schema lookup; when either is empty the
	// write is skipped entirely.
	StatusFieldID  string
	StatusOptionID string

	// CreateDraft switches issue creation to a project draft item.
	CreateDraft bool
}

// Orchestrator runs the sync pipeline for one page at a time.
type Orchestrator struct {
	source   Source
	issues   Issues
	projects Projects
	fields   FieldResolver
	mappings Mappings
	project  ProjectConfig
	dryRun   bool
	logger   *zap.Logger
}

// NewOrchestrator creates a new orchestrator.
func NewOrchestrator(
	source Source,
	issues Issues,
	projects Projects,
	fields FieldResolver,
	mappings Mappings,
	project ProjectConfig,
	dryRun bool,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		source:   source,
		issues:   issues,
		projects: projects,
		fields:   fields,
		mappings: mappings,
		project:  project,
		dryRun:   dryRun,
		logger:   logger,
	}
}

// ProcessPage runs the full pipeline for one page: extract, validate,
// filter by status, check idempotency, create the issue or draft, record
// the mapping, and write state back to Notion and the project board.
// Best-effort steps log their own failures; a returned error means a
// required step failed and the page was not synced.
func (o *Orchestrator) ProcessPage(ctx context.Context, pageID string) error {
	rec, err := o.source.GetRecord(ctx, pageID)
	if err != nil {
		return fmt.Errorf("failed to get record: %w", err)
	}

	o.logger.Info("processing page",
		zap.String("page_id", pageID),
		zap.String("title", rec.Title),
		zap.String("status", rec.Status),
	)

	eligible, message := Validate(rec)
	if !eligible {
		o.logger.Info("skipping page",
			zap.String("page_id", pageID),
			zap.String("reason", message),
		)
		return nil
	}
	if message != "OK" {
		o.logger.Warn("page has gaps",
			zap.String("page_id", pageID),
			zap.String("warning", message),
		)
	}

	// Eligible but not yet validated pages show up when the poll filter
	// and the page drift apart; they are not errors.
	if rec.Status != notion.StatusValidated {
		o.logger.Debug("skipping page with non-target status",
			zap.String("page_id", pageID),
			zap.String("status", rec.Status),
		)
		return nil
	}

	synced, err := o.mappings.Has(ctx, pageID)
	if err != nil {
		return fmt.Errorf("failed to check idempotency mapping: %w", err)
	}
	if synced {
		o.logger.Debug("skipping already-synced page", zap.String("page_id", pageID))
		return nil
	}

	content := o.source.PageContent(ctx, pageID)
	body := issueBody(pageID, content)
	labels := issueLabels(rec)

	var issue *types.Issue
	var itemID string

	if o.project.CreateDraft && o.project.ID != "" {
		itemID, err = o.projects.CreateDraftItem(ctx, o.project.ID, rec.Title, body)
		if err != nil {
			return fmt.Errorf("failed to create draft item: %w", err)
		}
		o.logger.Info("created draft item in project",
			zap.String("page_id", pageID),
			zap.String("item_id", itemID),
		)
	} else {
		issue, err = o.issues.CreateIssue(ctx, rec.Title, body, labels)
		if err != nil {
			return fmt.Errorf("failed to create issue: %w", err)
		}
		o.logger.Info("created issue",
			zap.String("page_id", pageID),
			zap.Int("number", issue.Number),
			zap.String("url", issue.URL),
		)
	}

	// The mapping is only durable for real issues. Dry-run creations use a
	// sentinel number and must stay repeatable; drafts have no issue number.
	if issue != nil && !o.dryRun {
		if err := o.mappings.Record(ctx, pageID, issue.Number); err != nil {
			return fmt.Errorf("failed to record idempotency mapping: %w", err)
		}
	}

	if err := o.source.MarkSynced(ctx, pageID); err != nil {
		o.logger.Warn("failed to mark page synced",
			zap.String("page_id", pageID),
			zap.Error(err),
		)
	}
	if err := o.source.SetStatus(ctx, pageID, notion.StatusBacklog); err != nil {
		o.logger.Warn("failed to set page status",
			zap.String("page_id", pageID),
			zap.Error(err),
		)
	}

	if o.project.ID != "" {
		o.updateProject(ctx, pageID, rec, issue, itemID)
	}

	return nil
}

// updateProject links the created item to the project board and writes its
// Status, Priority and Size columns. Every step is independently
// best-effort: a failure is logged and the remaining steps still run.
func (o *Orchestrator) updateProject(ctx context.Context, pageID string, rec *types.Record, issue *types.Issue, itemID string) {
	// Drafts are already project members; issues need an explicit link.
	if itemID == "" {
		if issue == nil || issue.NodeID == "" {
			return
		}
		linked, err := o.projects.AddItemToProject(ctx, o.project.ID, issue.NodeID)
		if err != nil {
			o.logger.Warn("failed to add issue to project",
				zap.String("page_id", pageID),
				zap.Error(err),
			)
			return
		}
		itemID = linked
		o.logger.Info("added issue to project",
			zap.String("page_id", pageID),
			zap.String("item_id", itemID),
		)
	}

	if o.project.StatusFieldID != "" && o.project.StatusOptionID != "" {
		err := o.projects.SetSingleSelect(ctx, o.project.ID, itemID, o.project.StatusFieldID, o.project.StatusOptionID)
		if err != nil {
			o.logger.Warn("failed to set project status",
				zap.String("page_id", pageID),
				zap.Error(err),
			)
		}
	}

	if rec.Priority != "" {
		label := rec.Priority
		if mapped, ok := priorityOptions[label]; ok {
			label = mapped
		}
		o.setSelectField(ctx, pageID, itemID, "Priority", label)
	}

	if rec.Size != "" {
		o.setSelectField(ctx, pageID, itemID, "Size", rec.Size)
	}
}

// setSelectField resolves a single-select field by display name and writes
// the option, logging instead of failing on any error.
func (o *Orchestrator) setSelectField(ctx context.Context, pageID, itemID, fieldName, optionLabel string) {
	fieldID, optionID, err := o.fields.Resolve(ctx, o.project.ID, fieldName, optionLabel)
	if err != nil {
		o.logger.Warn("failed to resolve project field",
			zap.String("page_id", pageID),
			zap.String("field", fieldName),
			zap.String("option", optionLabel),
			zap.Error(err),
		)
		return
	}

	if err := o.projects.SetSingleSelect(ctx, o.project.ID, itemID, fieldID, optionID); err != nil {
		o.logger.Warn("failed to set project field",
			zap.String("page_id", pageID),
			zap.String("field", fieldName),
			zap.Error(err),
		)
		return
	}

	o.logger.Info("set project field",
		zap.String("page_id", pageID),
		zap.String("field", fieldName),
		zap.String("option", optionLabel),
	)
}

// issueBody composes the issue body: attribution, the converted page
// content between horizontal rules, and a provenance note.
func issueBody(pageID, content string) string {
	parts := []string{
		fmt.Sprintf("Imported from Notion page `%s`.", pageID),
		"",
		"---",
		"",
		content,
		"",
		"---",
		"",
		"> Created automatically when Notion Status moved to **Validated**.",
	}
	return strings.Join(parts, "\n")
}

// issueLabels derives the label set: customer types verbatim plus
// Priority: and Size: tags when present.
func issueLabels(rec *types.Record) []string {
	labels := make([]string, 0, len(rec.CustomerTypes)+2)
	labels = append(labels, rec.CustomerTypes...)
	if rec.Priority != "" {
		labels = append(labels, "Priority:"+rec.Priority)
	}
	if rec.Size != "" {
		labels = append(labels, "Size:"+rec.Size)
	}
	return labels
}
