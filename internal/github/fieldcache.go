package github

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Schema-resolution failures. Both are terminal for the field-set attempt
// that triggered them, never for the record being synced.
var (
	ErrFieldNotFound  = errors.New("project field not found")
	ErrOptionNotFound = errors.New("project field option not found")
)

// FieldDiscoverer fetches a project's single-select field schema.
type FieldDiscoverer interface {
	DiscoverFields(ctx context.Context, projectID string) (FieldSchema, error)
}

// FieldCache lazily caches per-project field schemas for the process
// lifetime. A project's schema is discovered at most once; remote schema
// changes are only picked up after Invalidate or a restart.
type FieldCache struct {
	discoverer FieldDiscoverer

	mu      sync.Mutex
	schemas map[string]FieldSchema
}

// NewFieldCache creates a field cache backed by the given discoverer.
func NewFieldCache(discoverer FieldDiscoverer) *FieldCache {
	return &FieldCache{
		discoverer: discoverer,
		schemas:    make(map[string]FieldSchema),
	}
}

// Resolve translates a field display name and option label into their
// remote identifiers, filling the project's cache entry on first use.
func (c *FieldCache) Resolve(ctx context.Context, projectID, fieldName, optionLabel string) (string, string, error) {
	schema, err := c.schemaFor(ctx, projectID)
	if err != nil {
		return "", "", err
	}

	field, ok := schema[fieldName]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrFieldNotFound, fieldName)
	}

	optionID, ok := field.Options[optionLabel]
	if !ok {
		return "", "", fmt.Errorf("%w: %q in field %q", ErrOptionNotFound, optionLabel, fieldName)
	}

	return field.ID, optionID, nil
}

// Invalidate drops a project's cached schema so the next Resolve
// rediscovers it. Not used by the sync pipeline; exposed for operators.
func (c *FieldCache) Invalidate(projectID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.schemas, projectID)
}

func (c *FieldCache) schemaFor(ctx context.Context, projectID string) (FieldSchema, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if schema, ok := c.schemas[projectID]; ok {
		return schema, nil
	}

	schema, err := c.discoverer.DiscoverFields(ctx, projectID)
	if err != nil {
		return nil, err
	}

	c.schemas[projectID] = schema
	return schema, nil
}
