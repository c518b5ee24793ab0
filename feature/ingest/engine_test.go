package ingest

import (
	"context"
	"testing"

	"flashdeck/core/database"
	"flashdeck/feature/content"
	"flashdeck/feature/content/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Module{}, &models.Set{}, &models.Question{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func newTestEngine(t *testing.T) (*Engine, *content.Store) {
	store := content.NewStore(setupTestDB(t))
	return NewEngine(store, zap.NewNop()), store
}

func TestEngine_RoundTrip(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	rows := []Row{
		{
			Question: "What is inertia?", Answer: "Resistance to change in motion",
			ModuleCode: "PH1", ModuleName: "Physics I",
			SetCode: "PH1S1", SetName: "Mechanics Basics", SetOrder: "PH1.1",
		},
		{
			Question: "State Newton's second law", Answer: "F = ma",
			ModuleCode: "PH1",
			SetCode:    "PH1S1", SetOrder: "PH1.1",
		},
	}

	result, err := engine.Process(ctx, rows, Options{})
	assert.NoError(t, err)
	assert.Equal(t, 1, result.ModulesCreated)
	assert.Equal(t, 0, result.ModulesUpdated)
	assert.Equal(t, 1, result.SetsCreated)
	assert.Equal(t, 0, result.SetsUpdated)
	assert.Equal(t, 2, result.QuestionsCreated)

	module, err := store.FindModuleByCode(ctx, "PH1")
	assert.NoError(t, err)
	if assert.NotNil(t, module) {
		assert.Equal(t, "Physics I", module.ModuleName)
		assert.Equal(t, models.CreatedByAdmin, module.CreatedBy)
	}

	set, err := store.FindSetByCode(ctx, "PH1S1")
	assert.NoError(t, err)
	if assert.NotNil(t, set) {
		assert.Equal(t, "Mechanics Basics", set.SetName)
		assert.Equal(t, 1.0, set.SetOrder)
		assert.Equal(t, 2, set.QuestionCount)
	}

	questions, err := store.ListQuestionsBySet(ctx, "PH1S1")
	assert.NoError(t, err)
	assert.Len(t, questions, 2)
}

func TestEngine_ModuleNameDefaultsToCode(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Process(ctx, []Row{
		{Question: "q", Answer: "a", ModuleCode: "CH2", SetCode: "CH2S1", SetOrder: "CH2.1"},
	}, Options{})
	assert.NoError(t, err)

	module, err := store.FindModuleByCode(ctx, "CH2")
	assert.NoError(t, err)
	if assert.NotNil(t, module) {
		assert.Equal(t, "CH2", module.ModuleName)
	}
}

func TestEngine_ReimportUpdatesInsteadOfCreating(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	batch := []Row{
		{Question: "q1", Answer: "a1", ModuleCode: "PH1", ModuleName: "Physics I", SetCode: "PH1S1", SetName: "First", SetOrder: "PH1.1"},
	}
	_, err := engine.Process(ctx, batch, Options{})
	assert.NoError(t, err)

	// Same codes again with new metadata: nothing new is created.
	second := []Row{
		{Question: "q2", Answer: "a2", ModuleCode: "PH1", ModuleName: "Physics One", SetCode: "PH1S1", SetName: "Renamed", SetOrder: "PH1.2"},
	}
	result, err := engine.Process(ctx, second, Options{})
	assert.NoError(t, err)
	assert.Equal(t, 0, result.ModulesCreated)
	assert.Equal(t, 1, result.ModulesUpdated)
	assert.Equal(t, 0, result.SetsCreated)
	assert.Equal(t, 1, result.SetsUpdated)

	module, _ := store.FindModuleByCode(ctx, "PH1")
	assert.Equal(t, "Physics One", module.ModuleName)

	set, _ := store.FindSetByCode(ctx, "PH1S1")
	assert.Equal(t, "Renamed", set.SetName)
	assert.Equal(t, 2.0, set.SetOrder)

	// Incremental imports add questions without deduplication.
	count, err := store.CountQuestions(ctx, "PH1S1")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestEngine_ModuleWithoutNewMetadataIsUntouched(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Process(ctx, []Row{
		{Question: "q", Answer: "a", ModuleCode: "PH1", ModuleName: "Physics I", SetCode: "PH1S1", SetOrder: "PH1.1"},
	}, Options{})
	assert.NoError(t, err)

	result, err := engine.Process(ctx, []Row{
		{Question: "q", Answer: "a", ModuleCode: "PH1", SetCode: "PH1S2", SetOrder: "PH1.2"},
	}, Options{})
	assert.NoError(t, err)
	assert.Equal(t, 0, result.ModulesCreated)
	assert.Equal(t, 0, result.ModulesUpdated)
}

func TestEngine_FirstRowPerSetWins(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	// The set is reconciled once, on its first appearance in the batch;
	// later rows only contribute questions.
	_, err := engine.Process(ctx, []Row{
		{Question: "q1", Answer: "a1", ModuleCode: "PH1", SetCode: "PH1S1", SetName: "First Name", SetOrder: "PH1.1"},
		{Question: "q2", Answer: "a2", ModuleCode: "PH1", SetCode: "PH1S1", SetName: "Second Name", SetOrder: "PH1.9"},
	}, Options{})
	assert.NoError(t, err)

	set, _ := store.FindSetByCode(ctx, "PH1S1")
	assert.Equal(t, "First Name", set.SetName)
	assert.Equal(t, 1.0, set.SetOrder)
}

func TestEngine_QuestionCountIsBatchLocal(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	first := []Row{
		{Question: "q1", Answer: "a1", ModuleCode: "PH1", SetCode: "PH1S1", SetOrder: "PH1.1"},
		{Question: "q2", Answer: "a2", ModuleCode: "PH1", SetCode: "PH1S1", SetOrder: "PH1.1"},
		{Question: "q3", Answer: "a3", ModuleCode: "PH1", SetCode: "PH1S1", SetOrder: "PH1.1"},
	}
	_, err := engine.Process(ctx, first, Options{})
	assert.NoError(t, err)

	// A later one-row batch overwrites the cached count with 1, even though
	// the set now holds four questions in total.
	_, err = engine.Process(ctx, []Row{
		{Question: "q4", Answer: "a4", ModuleCode: "PH1", SetCode: "PH1S1", SetOrder: "PH1.1"},
	}, Options{})
	assert.NoError(t, err)

	set, _ := store.FindSetByCode(ctx, "PH1S1")
	assert.Equal(t, 1, set.QuestionCount)

	actual, _ := store.CountQuestions(ctx, "PH1S1")
	assert.Equal(t, int64(4), actual)
}

func TestEngine_ValidationFailureInsertsNoQuestions(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	rows := []Row{
		{Question: "q1", Answer: "a1", ModuleCode: "PH1", SetCode: "PH1S1", SetOrder: "PH1.1"},
		{Question: "q2", Answer: "a2", ModuleCode: "ph1", SetCode: "PH1S2", SetOrder: "PH1.2"},
	}
	_, err := engine.Process(ctx, rows, Options{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")

	// The first row's module and set writes stay committed, but the bulk
	// question insert never ran.
	module, _ := store.FindModuleByCode(ctx, "PH1")
	assert.NotNil(t, module)

	questions, qerr := store.ListQuestions(ctx)
	assert.NoError(t, qerr)
	assert.Empty(t, questions)
}

func TestEngine_EmptyBatch(t *testing.T) {
	engine, _ := newTestEngine(t)
	_, err := engine.Process(context.Background(), nil, Options{})
	assert.Error(t, err)
}

func TestEngine_ReplaceWipesExistingContent(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Process(ctx, []Row{
		{Question: "old", Answer: "a", ModuleCode: "PH1", SetCode: "PH1S1", SetOrder: "PH1.1"},
	}, Options{})
	assert.NoError(t, err)

	result, err := engine.Process(ctx, []Row{
		{Question: "new", Answer: "b", ModuleCode: "CH1", SetCode: "CH1S1", SetOrder: "CH1.1"},
	}, Options{Replace: true})
	assert.NoError(t, err)
	assert.Equal(t, 1, result.ModulesCreated)
	assert.Equal(t, 1, result.SetsCreated)

	old, _ := store.FindModuleByCode(ctx, "PH1")
	assert.Nil(t, old)

	questions, _ := store.ListQuestions(ctx)
	if assert.Len(t, questions, 1) {
		assert.Equal(t, "new", questions[0].Question)
	}
}

func TestEngine_CreatedByOption(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Process(ctx, []Row{
		{Question: "q", Answer: "a", ModuleCode: "PH1", SetCode: "PH1S1", SetOrder: "PH1.1"},
	}, Options{CreatedBy: models.CreatedByUser})
	assert.NoError(t, err)

	questions, _ := store.ListQuestions(ctx)
	if assert.Len(t, questions, 1) {
		assert.Equal(t, models.CreatedByUser, questions[0].CreatedBy)
	}
}
