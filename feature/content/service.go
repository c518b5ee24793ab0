package content

import (
	"context"

	"flashdeck/core/apperr"
	"flashdeck/feature/content/models"

	"go.uber.org/zap"
)

// Service implements the content CRUD semantics on top of the store.
type Service struct {
	store  *Store
	logger *zap.Logger
}

// NewService creates a new content service.
func NewService(store *Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// ModuleDetail bundles a module with its sets for the detail endpoint.
type ModuleDetail struct {
	Module models.Module `json:"module"`
	Sets   []models.Set  `json:"sets"`
}

// SetDetail bundles a set with its questions for the detail endpoint.
type SetDetail struct {
	Set       models.Set        `json:"set"`
	Questions []models.Question `json:"questions"`
}

// SearchResults groups search hits by entity type.
type SearchResults struct {
	Modules   []models.Module   `json:"modules"`
	Sets      []models.Set      `json:"sets"`
	Questions []models.Question `json:"questions"`
}

// ListModules returns all modules ordered by code.
func (s *Service) ListModules(ctx context.Context) ([]models.Module, error) {
	return s.store.ListModules(ctx)
}

// CreateModule creates a module, rejecting duplicate codes with a Conflict.
func (s *Service) CreateModule(ctx context.Context, m *models.Module) error {
	existing, err := s.store.FindModuleByCode(ctx, m.ModuleCode)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperr.Conflict("module code %s already exists", m.ModuleCode)
	}
	if m.ModuleName == "" {
		m.ModuleName = m.ModuleCode
	}
	if m.CreatedBy == "" {
		m.CreatedBy = models.CreatedByAdmin
	}
	return s.store.CreateModule(ctx, m)
}

// GetModule returns a module and its sets ordered by set order.
func (s *Service) GetModule(ctx context.Context, moduleCode string) (*ModuleDetail, error) {
	m, err := s.store.FindModuleByCode(ctx, moduleCode)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.NotFound("module", moduleCode)
	}
	sets, err := s.store.ListSetsByModule(ctx, moduleCode)
	if err != nil {
		return nil, err
	}
	return &ModuleDetail{Module: *m, Sets: sets}, nil
}

// UpdateModule merges the provided name/description onto an existing module.
func (s *Service) UpdateModule(ctx context.Context, moduleCode, name, description string) (*models.Module, error) {
	existing, err := s.store.FindModuleByCode(ctx, moduleCode)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("module", moduleCode)
	}
	if err := s.store.UpdateModule(ctx, moduleCode, name, description); err != nil {
		return nil, err
	}
	return s.store.FindModuleByCode(ctx, moduleCode)
}

// DeleteModule removes a module. A module that still contains sets is a
// Conflict and is left unchanged.
func (s *Service) DeleteModule(ctx context.Context, moduleCode string) error {
	setCount, err := s.store.CountSetsByModule(ctx, moduleCode)
	if err != nil {
		return err
	}
	if setCount > 0 {
		return apperr.Conflict("cannot delete module that contains sets, delete all sets first")
	}
	deleted, err := s.store.DeleteModule(ctx, moduleCode)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("module", moduleCode)
	}
	return nil
}

// ListSets returns all sets ordered by module code then set order.
func (s *Service) ListSets(ctx context.Context) ([]models.Set, error) {
	return s.store.ListSets(ctx)
}

// ListSetsByModule returns the sets of one module, requiring the module to exist.
func (s *Service) ListSetsByModule(ctx context.Context, moduleCode string) ([]models.Set, error) {
	m, err := s.store.FindModuleByCode(ctx, moduleCode)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.NotFound("module", moduleCode)
	}
	return s.store.ListSetsByModule(ctx, moduleCode)
}

// CreateSet creates a set, auto-creating a bare module for an unseen module
// code so the set never references a missing module.
func (s *Service) CreateSet(ctx context.Context, set *models.Set) error {
	m, err := s.store.FindModuleByCode(ctx, set.ModuleCode)
	if err != nil {
		return err
	}
	if m == nil {
		if err := s.store.CreateModule(ctx, &models.Module{
			ModuleCode: set.ModuleCode,
			ModuleName: set.ModuleCode,
			CreatedBy:  set.CreatedBy,
		}); err != nil {
			return err
		}
	}

	existing, err := s.store.FindSetByCode(ctx, set.SetCode)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperr.Conflict("set code %s already exists", set.SetCode)
	}

	if set.SetGroup == "" {
		set.SetGroup = set.ModuleCode
	}
	if set.SetName == "" {
		set.SetName = set.SetCode
	}
	if set.SerialNumber == "" {
		set.SerialNumber = set.SetCode
	}
	if set.SetOrder <= 0 {
		set.SetOrder = 1
	}
	if set.CreatedBy == "" {
		set.CreatedBy = models.CreatedByAdmin
	}
	return s.store.CreateSet(ctx, set)
}

// GetSet returns a set and its questions ordered by serial number.
func (s *Service) GetSet(ctx context.Context, setCode string) (*SetDetail, error) {
	set, err := s.store.FindSetByCode(ctx, setCode)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, apperr.NotFound("set", setCode)
	}
	questions, err := s.store.ListQuestionsBySet(ctx, setCode)
	if err != nil {
		return nil, err
	}
	return &SetDetail{Set: *set, Questions: questions}, nil
}

// SetUpdate carries the mutable set fields for UpdateSet. Nil pointers leave
// the stored value untouched.
type SetUpdate struct {
	SetName        *string  `json:"setName"`
	SetDescription *string  `json:"setDescription"`
	Category       *string  `json:"category"`
	SubCategory1   *string  `json:"subCategory1"`
	SubCategory2   *string  `json:"subCategory2"`
	SetOrder       *float64 `json:"setOrder"`
	SerialNumber   *string  `json:"serialNumber"`
}

// UpdateSet applies the given field updates to an existing set.
func (s *Service) UpdateSet(ctx context.Context, setCode string, upd SetUpdate) (*models.Set, error) {
	set, err := s.store.FindSetByCode(ctx, setCode)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, apperr.NotFound("set", setCode)
	}
	if upd.SetName != nil {
		set.SetName = *upd.SetName
	}
	if upd.SetDescription != nil {
		set.SetDescription = *upd.SetDescription
	}
	if upd.Category != nil {
		set.Category = *upd.Category
	}
	if upd.SubCategory1 != nil {
		set.SubCategory1 = *upd.SubCategory1
	}
	if upd.SubCategory2 != nil {
		set.SubCategory2 = *upd.SubCategory2
	}
	if upd.SetOrder != nil && *upd.SetOrder > 0 {
		set.SetOrder = *upd.SetOrder
	}
	if upd.SerialNumber != nil {
		set.SerialNumber = *upd.SerialNumber
	}
	if err := s.store.SaveSet(ctx, set); err != nil {
		return nil, err
	}
	return set, nil
}

// DeleteSet removes a set. A set that still contains questions is a Conflict.
func (s *Service) DeleteSet(ctx context.Context, setCode string) error {
	questionCount, err := s.store.CountQuestions(ctx, setCode)
	if err != nil {
		return err
	}
	if questionCount > 0 {
		return apperr.Conflict("cannot delete set that contains questions, delete all questions first")
	}
	deleted, err := s.store.DeleteSet(ctx, setCode)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("set", setCode)
	}
	return nil
}

// ListQuestions returns all questions.
func (s *Service) ListQuestions(ctx context.Context) ([]models.Question, error) {
	return s.store.ListQuestions(ctx)
}

// ListQuestionsBySet returns the questions of a set; an unknown or empty set
// code is NotFound, matching the read API contract.
func (s *Service) ListQuestionsBySet(ctx context.Context, setCode string) ([]models.Question, error) {
	questions, err := s.store.ListQuestionsBySet(ctx, setCode)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, apperr.NotFound("set", setCode)
	}
	return questions, nil
}

// CreateQuestion inserts one question and recomputes the parent set's cached
// question count.
func (s *Service) CreateQuestion(ctx context.Context, q *models.Question) error {
	if q.SetName == "" {
		q.SetName = q.SetCode
	}
	if q.CreatedBy == "" {
		q.CreatedBy = models.CreatedByUser
	}
	if err := s.store.CreateQuestion(ctx, q); err != nil {
		return err
	}
	s.RecountQuestions(ctx, q.SetCode)
	return nil
}

// DeleteQuestion removes one question and recomputes the parent set's cached
// question count.
func (s *Service) DeleteQuestion(ctx context.Context, id uint) error {
	q, err := s.store.FindQuestion(ctx, id)
	if err != nil {
		return err
	}
	if q == nil {
		return &apperr.NotFoundError{Entity: "question", Key: "id"}
	}
	if _, err := s.store.DeleteQuestion(ctx, id); err != nil {
		return err
	}
	s.RecountQuestions(ctx, q.SetCode)
	return nil
}

// RecountQuestions refreshes a set's cached question count from a live count
// query. A missing set is a logged anomaly, not an error; the live count is
// returned either way.
func (s *Service) RecountQuestions(ctx context.Context, setCode string) int64 {
	count, err := s.store.CountQuestions(ctx, setCode)
	if err != nil {
		s.logger.Error("question recount failed", zap.String("set_code", setCode), zap.Error(err))
		return 0
	}
	set, err := s.store.FindSetByCode(ctx, setCode)
	if err != nil {
		s.logger.Error("question recount lookup failed", zap.String("set_code", setCode), zap.Error(err))
		return 0
	}
	if set == nil {
		s.logger.Warn("set not found when updating question count", zap.String("set_code", setCode))
		return 0
	}
	set.QuestionCount = int(count)
	if err := s.store.SaveSet(ctx, set); err != nil {
		s.logger.Error("question recount save failed", zap.String("set_code", setCode), zap.Error(err))
		return 0
	}
	return count
}

// RecountAll refreshes the cached question count of every set. Used by the
// nightly resync job.
func (s *Service) RecountAll(ctx context.Context) error {
	sets, err := s.store.ListSets(ctx)
	if err != nil {
		return err
	}
	for _, set := range sets {
		s.RecountQuestions(ctx, set.SetCode)
	}
	return nil
}

// Search runs a case-insensitive substring search across all three
// collections. Sets are enriched with live question counts.
func (s *Service) Search(ctx context.Context, query string) (*SearchResults, error) {
	modules, err := s.store.SearchModules(ctx, query)
	if err != nil {
		return nil, err
	}
	sets, err := s.store.SearchSets(ctx, query)
	if err != nil {
		return nil, err
	}
	for i := range sets {
		count, err := s.store.CountQuestions(ctx, sets[i].SetCode)
		if err != nil {
			return nil, err
		}
		sets[i].QuestionCount = int(count)
	}
	questions, err := s.store.SearchQuestions(ctx, query)
	if err != nil {
		return nil, err
	}
	return &SearchResults{Modules: modules, Sets: sets, Questions: questions}, nil
}
