package content

import (
	"context"
	"errors"
	"strings"

	"flashdeck/core/apperr"
	"flashdeck/feature/content/models"

	"gorm.io/gorm"
)

// Store is the keyed access layer over the three content collections.
// Lookups are by code; updates use merge semantics for modules and overwrite
// semantics for sets. No transaction spans more than one call.
type Store struct {
	db *gorm.DB
}

// NewStore creates a content store on top of the given connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection for features that share it.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// FindModuleByCode returns the module with the given code, or (nil, nil) when
// it does not exist.
func (s *Store) FindModuleByCode(ctx context.Context, code string) (*models.Module, error) {
	var m models.Module
	err := s.db.WithContext(ctx).Where("module_code = ?", code).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Store("find module", err)
	}
	return &m, nil
}

// CreateModule inserts a new module record.
func (s *Store) CreateModule(ctx context.Context, m *models.Module) error {
	return apperr.Store("create module", s.db.WithContext(ctx).Create(m).Error)
}

// UpdateModule merges the non-empty name/description onto the stored module.
// Fields absent from the update keep their stored values.
func (s *Store) UpdateModule(ctx context.Context, code, name, description string) error {
	updates := map[string]any{}
	if name != "" {
		updates["module_name"] = name
	}
	if description != "" {
		updates["module_description"] = description
	}
	if len(updates) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Model(&models.Module{}).
		Where("module_code = ?", code).
		Updates(updates).Error
	return apperr.Store("update module", err)
}

// ListModules returns all modules ordered by code.
func (s *Store) ListModules(ctx context.Context) ([]models.Module, error) {
	var out []models.Module
	err := s.db.WithContext(ctx).Order("module_code").Find(&out).Error
	return out, apperr.Store("list modules", err)
}

// DeleteModule removes the module with the given code. Dependency checks are
// the caller's responsibility.
func (s *Store) DeleteModule(ctx context.Context, code string) (bool, error) {
	res := s.db.WithContext(ctx).Where("module_code = ?", code).Delete(&models.Module{})
	if res.Error != nil {
		return false, apperr.Store("delete module", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// FindSetByCode returns the set with the given code, or (nil, nil) when it
// does not exist.
func (s *Store) FindSetByCode(ctx context.Context, code string) (*models.Set, error) {
	var set models.Set
	err := s.db.WithContext(ctx).Where("set_code = ?", code).First(&set).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Store("find set", err)
	}
	return &set, nil
}

// CreateSet inserts a new set record.
func (s *Store) CreateSet(ctx context.Context, set *models.Set) error {
	return apperr.Store("create set", s.db.WithContext(ctx).Create(set).Error)
}

// SaveSet overwrites the mutable fields of an existing set record.
func (s *Store) SaveSet(ctx context.Context, set *models.Set) error {
	return apperr.Store("save set", s.db.WithContext(ctx).Save(set).Error)
}

// ListSets returns all sets ordered by module code then set order.
func (s *Store) ListSets(ctx context.Context) ([]models.Set, error) {
	var out []models.Set
	err := s.db.WithContext(ctx).Order("module_code").Order("set_order").Find(&out).Error
	return out, apperr.Store("list sets", err)
}

// ListSetsByModule returns the sets of one module ordered by set order.
func (s *Store) ListSetsByModule(ctx context.Context, moduleCode string) ([]models.Set, error) {
	var out []models.Set
	err := s.db.WithContext(ctx).
		Where("module_code = ?", moduleCode).
		Order("set_order").Find(&out).Error
	return out, apperr.Store("list sets by module", err)
}

// CountSetsByModule returns the number of sets referencing a module code.
func (s *Store) CountSetsByModule(ctx context.Context, moduleCode string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Set{}).
		Where("module_code = ?", moduleCode).Count(&n).Error
	return n, apperr.Store("count sets", err)
}

// DeleteSet removes the set with the given code.
func (s *Store) DeleteSet(ctx context.Context, code string) (bool, error) {
	res := s.db.WithContext(ctx).Where("set_code = ?", code).Delete(&models.Set{})
	if res.Error != nil {
		return false, apperr.Store("delete set", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// BulkInsertQuestions inserts all given questions in one batch.
func (s *Store) BulkInsertQuestions(ctx context.Context, questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return apperr.Store("bulk insert questions", s.db.WithContext(ctx).CreateInBatches(questions, 500).Error)
}

// CreateQuestion inserts a single question record.
func (s *Store) CreateQuestion(ctx context.Context, q *models.Question) error {
	return apperr.Store("create question", s.db.WithContext(ctx).Create(q).Error)
}

// FindQuestion returns the question with the given ID, or (nil, nil).
func (s *Store) FindQuestion(ctx context.Context, id uint) (*models.Question, error) {
	var q models.Question
	err := s.db.WithContext(ctx).First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Store("find question", err)
	}
	return &q, nil
}

// DeleteQuestion removes the question with the given ID.
func (s *Store) DeleteQuestion(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.Question{}, id)
	if res.Error != nil {
		return false, apperr.Store("delete question", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListQuestions returns all questions ordered by set code then serial number.
func (s *Store) ListQuestions(ctx context.Context) ([]models.Question, error) {
	var out []models.Question
	err := s.db.WithContext(ctx).Order("set_code").Order("serial_number").Find(&out).Error
	return out, apperr.Store("list questions", err)
}

// ListQuestionsBySet returns the questions of one set ordered by serial number.
func (s *Store) ListQuestionsBySet(ctx context.Context, setCode string) ([]models.Question, error) {
	var out []models.Question
	err := s.db.WithContext(ctx).
		Where("set_code = ?", setCode).
		Order("serial_number").Find(&out).Error
	return out, apperr.Store("list questions by set", err)
}

// CountQuestions returns the live number of questions referencing a set code.
func (s *Store) CountQuestions(ctx context.Context, setCode string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Question{}).
		Where("set_code = ?", setCode).Count(&n).Error
	return n, apperr.Store("count questions", err)
}

// DeleteAllContent wipes all three collections. Used by replace-mode imports;
// no dependency-respecting delete order is required because the subsequent
// inserts recreate everything.
func (s *Store) DeleteAllContent(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.Where("1 = 1").Delete(&models.Question{}).Error; err != nil {
		return apperr.Store("delete questions", err)
	}
	if err := db.Where("1 = 1").Delete(&models.Set{}).Error; err != nil {
		return apperr.Store("delete sets", err)
	}
	if err := db.Where("1 = 1").Delete(&models.Module{}).Error; err != nil {
		return apperr.Store("delete modules", err)
	}
	return nil
}

// likePattern builds a case-insensitive substring match pattern.
func likePattern(query string) string {
	return "%" + strings.ToLower(query) + "%"
}

// SearchModules returns modules whose code, name or description contains the
// query (case-insensitive).
func (s *Store) SearchModules(ctx context.Context, query string) ([]models.Module, error) {
	var out []models.Module
	p := likePattern(query)
	err := s.db.WithContext(ctx).
		Where("LOWER(module_code) LIKE ? OR LOWER(module_name) LIKE ? OR LOWER(module_description) LIKE ?", p, p, p).
		Order("module_code").Find(&out).Error
	return out, apperr.Store("search modules", err)
}

// SearchSets returns sets matching the query across code, name, description
// and module code.
func (s *Store) SearchSets(ctx context.Context, query string) ([]models.Set, error) {
	var out []models.Set
	p := likePattern(query)
	err := s.db.WithContext(ctx).
		Where("LOWER(set_code) LIKE ? OR LOWER(set_name) LIKE ? OR LOWER(set_description) LIKE ? OR LOWER(module_code) LIKE ?", p, p, p, p).
		Order("module_code").Order("set_order").Find(&out).Error
	return out, apperr.Store("search sets", err)
}

// SearchQuestions returns questions matching the query across prompt, answer,
// elaboration and both codes.
func (s *Store) SearchQuestions(ctx context.Context, query string) ([]models.Question, error) {
	var out []models.Question
	p := likePattern(query)
	err := s.db.WithContext(ctx).
		Where("LOWER(question) LIKE ? OR LOWER(answer) LIKE ? OR LOWER(more_info) LIKE ? OR LOWER(set_code) LIKE ? OR LOWER(module_code) LIKE ?", p, p, p, p, p).
		Order("module_code").Order("set_code").Order("serial_number").Find(&out).Error
	return out, apperr.Store("search questions", err)
}
