package ingest

import (
	"context"
	"fmt"

	"flashdeck/feature/content"
	"flashdeck/feature/content/models"

	"go.uber.org/zap"
)

// Engine reconciles a flat batch of question rows into module, set and
// question records. Modules and sets are created or updated exactly once per
// distinct code per batch; questions are bulk-inserted last.
//
// A validation failure aborts the batch at the offending row. Writes already
// performed for earlier rows stay committed; the bulk question insert never
// happens for a failed batch. The engine holds no state between calls, so
// concurrent invocations are safe with respect to the engine itself (the
// store-level check-then-act races described in the service docs remain).
type Engine struct {
	store  *content.Store
	logger *zap.Logger
}

// NewEngine creates a reconciliation engine over the content store.
func NewEngine(store *content.Store, logger *zap.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// Process runs the batch. Rows are processed strictly in input order, so
// later rows' metadata wins for repeated codes.
func (e *Engine) Process(ctx context.Context, rows []Row, opts Options) (*Result, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty batch")
	}

	createdBy := opts.CreatedBy
	if createdBy == "" {
		createdBy = models.CreatedByAdmin
	}

	if opts.Replace {
		if err := e.store.DeleteAllContent(ctx); err != nil {
			return nil, err
		}
	}

	// Batch-local question counts per set code. The cached count written onto
	// a set during import reflects what this batch is about to insert, not
	// prior store state.
	batchCounts := make(map[string]int, len(rows))
	for _, row := range rows {
		batchCounts[row.SetCode]++
	}

	// Seen-code tracking is scoped to this invocation only.
	processedModules := make(map[string]struct{})
	processedSets := make(map[string]struct{})

	result := &Result{}

	for i, row := range rows {
		if err := e.processRow(ctx, row, createdBy, batchCounts, processedModules, processedSets, result); err != nil {
			e.logger.Error("import aborted",
				zap.Int("row", i),
				zap.String("set_code", row.SetCode),
				zap.Error(err),
			)
			return nil, fmt.Errorf("row %d (set %s): %w", i, row.SetCode, err)
		}
	}

	// Questions are inserted unconditionally and additively; incremental
	// imports do not deduplicate against pre-existing questions.
	questions := make([]models.Question, 0, len(rows))
	for _, row := range rows {
		questions = append(questions, rowToQuestion(row, createdBy))
	}
	if err := e.store.BulkInsertQuestions(ctx, questions); err != nil {
		return nil, err
	}
	result.QuestionsCreated = len(rows)

	return result, nil
}

// processRow validates one row and folds its module and set metadata into the
// store if the codes have not been seen yet in this batch. Validation happens
// before any write caused by this row.
func (e *Engine) processRow(
	ctx context.Context,
	row Row,
	createdBy string,
	batchCounts map[string]int,
	processedModules, processedSets map[string]struct{},
	result *Result,
) error {
	if err := ValidateModuleCode(row.ModuleCode); err != nil {
		return err
	}
	orderToken, err := splitOrderToken(row.SetOrder)
	if err != nil {
		return err
	}
	setOrder, err := ValidateSetOrderNumber(orderToken)
	if err != nil {
		return err
	}

	if _, seen := processedModules[row.ModuleCode]; !seen {
		if err := e.upsertModule(ctx, row, createdBy, result); err != nil {
			return err
		}
		processedModules[row.ModuleCode] = struct{}{}
	}

	if _, seen := processedSets[row.SetCode]; !seen {
		if err := e.upsertSet(ctx, row, setOrder, createdBy, batchCounts[row.SetCode], result); err != nil {
			return err
		}
		processedSets[row.SetCode] = struct{}{}
	}

	return nil
}

// upsertModule creates the module on first reference, or merges non-empty
// name/description onto the stored record. An existing module with no new
// metadata in the row is left untouched and counted as neither created nor
// updated.
func (e *Engine) upsertModule(ctx context.Context, row Row, createdBy string, result *Result) error {
	existing, err := e.store.FindModuleByCode(ctx, row.ModuleCode)
	if err != nil {
		return err
	}

	if existing != nil {
		if row.ModuleName != "" || row.ModuleDescription != "" {
			if err := e.store.UpdateModule(ctx, row.ModuleCode, row.ModuleName, row.ModuleDescription); err != nil {
				return err
			}
			result.ModulesUpdated++
		}
		return nil
	}

	name := row.ModuleName
	if name == "" {
		name = row.ModuleCode
	}
	if err := e.store.CreateModule(ctx, &models.Module{
		ModuleCode:        row.ModuleCode,
		ModuleName:        name,
		ModuleDescription: row.ModuleDescription,
		CreatedBy:         createdBy,
	}); err != nil {
		return err
	}
	result.ModulesCreated++
	return nil
}

// upsertSet creates the set on first reference, or overwrites its mutable
// fields with batch-derived values.
func (e *Engine) upsertSet(ctx context.Context, row Row, setOrder float64, createdBy string, questionCount int, result *Result) error {
	setName := row.SetName
	if setName == "" {
		setName = row.SetCode
	}
	setGroup := row.SetGroup
	if setGroup == "" {
		setGroup = row.ModuleCode
	}
	serial := row.SerialNumber
	if serial == "" {
		serial = row.SetCode
	}

	existing, err := e.store.FindSetByCode(ctx, row.SetCode)
	if err != nil {
		return err
	}

	if existing != nil {
		existing.ModuleCode = row.ModuleCode
		existing.SetGroup = setGroup
		existing.SetOrder = setOrder
		existing.SetName = setName
		existing.SetDescription = row.SetDescription
		existing.Category = row.Category
		existing.SubCategory1 = row.SubCategory1
		existing.SubCategory2 = row.SubCategory2
		existing.QuestionCount = questionCount
		if err := e.store.SaveSet(ctx, existing); err != nil {
			return err
		}
		result.SetsUpdated++
		return nil
	}

	if err := e.store.CreateSet(ctx, &models.Set{
		SetCode:        row.SetCode,
		ModuleCode:     row.ModuleCode,
		SetGroup:       setGroup,
		SetName:        setName,
		SetDescription: row.SetDescription,
		Category:       row.Category,
		SubCategory1:   row.SubCategory1,
		SubCategory2:   row.SubCategory2,
		SetOrder:       setOrder,
		SerialNumber:   serial,
		QuestionCount:  questionCount,
		CreatedBy:      createdBy,
	}); err != nil {
		return err
	}
	result.SetsCreated++
	return nil
}

// rowToQuestion maps a row onto a question record with per-field defaults.
func rowToQuestion(row Row, createdBy string) models.Question {
	setName := row.SetName
	if setName == "" {
		setName = row.SetCode
	}
	setGroup := row.SetGroup
	if setGroup == "" {
		setGroup = row.ModuleCode
	}
	return models.Question{
		Question:       row.Question,
		Answer:         row.Answer,
		MoreInfo:       row.MoreInfo,
		ModuleCode:     row.ModuleCode,
		SetCode:        row.SetCode,
		SetGroup:       setGroup,
		SetName:        setName,
		SetDescription: row.SetDescription,
		Category:       row.Category,
		SubCategory1:   row.SubCategory1,
		SubCategory2:   row.SubCategory2,
		SerialNumber:   row.SerialNumber,
		CreatedBy:      createdBy,
	}
}
