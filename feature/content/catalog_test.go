package content

import (
	"context"
	"testing"
	"time"

	"flashdeck/feature/content/models"

	"github.com/stretchr/testify/assert"
)

func TestCatalog(t *testing.T) {
	store := NewStore(setupTestDB(t))
	catalog := NewCatalog(store, time.Minute)
	ctx := context.Background()

	assert.NoError(t, store.CreateModule(ctx, &models.Module{ModuleCode: "PH1", ModuleName: "Physics"}))
	assert.NoError(t, store.CreateSet(ctx, &models.Set{SetCode: "PH1S1", ModuleCode: "PH1", SetName: "Mechanics"}))

	entries, err := catalog.Get(ctx)
	assert.NoError(t, err)
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "PH1", entries[0].Module.ModuleCode)
		assert.Len(t, entries[0].Sets, 1)
	}

	// Within the TTL the cached listing is served, so a new module is
	// invisible until Invalidate.
	assert.NoError(t, store.CreateModule(ctx, &models.Module{ModuleCode: "CH1", ModuleName: "Chemistry"}))

	entries, err = catalog.Get(ctx)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)

	catalog.Invalidate()

	entries, err = catalog.Get(ctx)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
}
