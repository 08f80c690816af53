package github

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDiscoverer struct {
	schema FieldSchema
	err    error
	calls  int
}

func (f *fakeDiscoverer) DiscoverFields(_ context.Context, _ string) (FieldSchema, error) {
	f.calls++
	return f.schema, f.err
}

func testSchema() FieldSchema {
	return FieldSchema{
		"Priority": {
			ID:      "FIELD-PRIO",
			Options: map[string]string{"Médio": "OPT-MED", "Baixa": "OPT-LOW"},
		},
		"Size": {
			ID:      "FIELD-SIZE",
			Options: map[string]string{"M": "OPT-M", "L": "OPT-L"},
		},
	}
}

func TestFieldCache_Resolve(t *testing.T) {
	cache := NewFieldCache(&fakeDiscoverer{schema: testSchema()})

	fieldID, optionID, err := cache.Resolve(context.Background(), "PVT_1", "Priority", "Médio")
	require.NoError(t, err)
	assert.Equal(t, "FIELD-PRIO", fieldID)
	assert.Equal(t, "OPT-MED", optionID)
}

func TestFieldCache_SingleDiscoveryPerProject(t *testing.T) {
	disc := &fakeDiscoverer{schema: testSchema()}
	cache := NewFieldCache(disc)
	ctx := context.Background()

	_, _, err := cache.Resolve(ctx, "PVT_1", "Priority", "Médio")
	require.NoError(t, err)
	_, _, err = cache.Resolve(ctx, "PVT_1", "Priority", "Baixa")
	require.NoError(t, err)
	_, _, err = cache.Resolve(ctx, "PVT_1", "Size", "M")
	require.NoError(t, err)

	assert.Equal(t, 1, disc.calls, "one schema discovery per project")
}

func TestFieldCache_FieldNotFound(t *testing.T) {
	cache := NewFieldCache(&fakeDiscoverer{schema: testSchema()})

	_, _, err := cache.Resolve(context.Background(), "PVT_1", "Severity", "High")
	assert.ErrorIs(t, err, ErrFieldNotFound)
	assert.Contains(t, err.Error(), "Severity")
}

func TestFieldCache_OptionNotFound(t *testing.T) {
	cache := NewFieldCache(&fakeDiscoverer{schema: testSchema()})

	_, _, err := cache.Resolve(context.Background(), "PVT_1", "Size", "XXL")
	assert.ErrorIs(t, err, ErrOptionNotFound)
	assert.Contains(t, err.Error(), "XXL")
}

func TestFieldCache_DiscoveryErrorNotCached(t *testing.T) {
	disc := &fakeDiscoverer{err: errors.New("boom")}
	cache := NewFieldCache(disc)
	ctx := context.Background()

	_, _, err := cache.Resolve(ctx, "PVT_1", "Priority", "Médio")
	require.Error(t, err)

	disc.err = nil
	disc.schema = testSchema()
	_, _, err = cache.Resolve(ctx, "PVT_1", "Priority", "Médio")
	require.NoError(t, err)
	assert.Equal(t, 2, disc.calls)
}

func TestFieldCache_InvalidateForcesRediscovery(t *testing.T) {
	disc := &fakeDiscoverer{schema: testSchema()}
	cache := NewFieldCache(disc)
	ctx := context.Background()

	_, _, err := cache.Resolve(ctx, "PVT_1", "Size", "M")
	require.NoError(t, err)

	cache.Invalidate("PVT_1")

	_, _, err = cache.Resolve(ctx, "PVT_1", "Size", "L")
	require.NoError(t, err)
	assert.Equal(t, 2, disc.calls)
}
