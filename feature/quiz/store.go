package quiz

import (
	"context"
	"errors"

	"flashdeck/core/apperr"
	contentmodels "flashdeck/feature/content/models"
	"flashdeck/feature/quiz/models"

	"gorm.io/gorm"
)

// Store wraps attempt and progress persistence.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FindOpenAttempt returns the user's incomplete attempt for a set, or
// (nil, nil) when there is none.
func (s *Store) FindOpenAttempt(ctx context.Context, userID uint, setCode string) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND set_code = ? AND completed = ?", userID, setCode, false).
		First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Store("find open attempt", err)
	}
	return &attempt, nil
}

// FindAttempt returns an attempt with its answers, scoped to the owning user.
func (s *Store) FindAttempt(ctx context.Context, userID, attemptID uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := s.db.WithContext(ctx).
		Preload("Answers").
		Where("id = ? AND user_id = ?", attemptID, userID).
		First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Store("find attempt", err)
	}
	return &attempt, nil
}

func (s *Store) CreateAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	if err := s.db.WithContext(ctx).Create(attempt).Error; err != nil {
		return apperr.Store("create attempt", err)
	}
	return nil
}

func (s *Store) SaveAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	if err := s.db.WithContext(ctx).Save(attempt).Error; err != nil {
		return apperr.Store("save attempt", err)
	}
	return nil
}

func (s *Store) ListAttempts(ctx context.Context, userID uint) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, apperr.Store("list attempts", err)
	}
	return attempts, nil
}

// FindAnswer returns the stored answer for a question within an attempt, or
// (nil, nil) when the question has not been answered yet.
func (s *Store) FindAnswer(ctx context.Context, attemptID, questionID uint) (*models.AttemptAnswer, error) {
	var answer models.AttemptAnswer
	err := s.db.WithContext(ctx).
		Where("attempt_id = ? AND question_id = ?", attemptID, questionID).
		First(&answer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Store("find answer", err)
	}
	return &answer, nil
}

func (s *Store) CreateAnswer(ctx context.Context, answer *models.AttemptAnswer) error {
	if err := s.db.WithContext(ctx).Create(answer).Error; err != nil {
		return apperr.Store("create answer", err)
	}
	return nil
}

func (s *Store) SaveAnswer(ctx context.Context, answer *models.AttemptAnswer) error {
	if err := s.db.WithContext(ctx).Save(answer).Error; err != nil {
		return apperr.Store("save answer", err)
	}
	return nil
}

// FindProgress returns (nil, nil) when the user has no progress row for the set.
func (s *Store) FindProgress(ctx context.Context, userID uint, setCode string) (*models.Progress, error) {
	var progress models.Progress
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND set_code = ?", userID, setCode).
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Store("find progress", err)
	}
	return &progress, nil
}

func (s *Store) CreateProgress(ctx context.Context, progress *models.Progress) error {
	if err := s.db.WithContext(ctx).Create(progress).Error; err != nil {
		return apperr.Store("create progress", err)
	}
	return nil
}

func (s *Store) SaveProgress(ctx context.Context, progress *models.Progress) error {
	if err := s.db.WithContext(ctx).Save(progress).Error; err != nil {
		return apperr.Store("save progress", err)
	}
	return nil
}

func (s *Store) ListProgress(ctx context.Context, userID uint) ([]models.Progress, error) {
	var progress []models.Progress
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_practiced DESC").
		Find(&progress).Error
	if err != nil {
		return nil, apperr.Store("list progress", err)
	}
	return progress, nil
}

// StudiedSetCodes returns the distinct set codes the user has progress rows for.
func (s *Store) StudiedSetCodes(ctx context.Context, userID uint) ([]string, error) {
	var codes []string
	err := s.db.WithContext(ctx).
		Model(&models.Progress{}).
		Where("user_id = ?", userID).
		Distinct().
		Pluck("set_code", &codes).Error
	if err != nil {
		return nil, apperr.Store("list studied sets", err)
	}
	return codes, nil
}

// RandomQuestionsExcludingSets picks up to limit random questions whose set
// codes are not in the exclusion list.
func (s *Store) RandomQuestionsExcludingSets(ctx context.Context, exclude []string, limit int) ([]contentmodels.Question, error) {
	random := "RAND()"
	if s.db.Dialector.Name() != "mysql" {
		random = "RANDOM()"
	}

	q := s.db.WithContext(ctx).Model(&contentmodels.Question{})
	if len(exclude) > 0 {
		q = q.Where("set_code NOT IN ?", exclude)
	}

	var questions []contentmodels.Question
	if err := q.Order(random).Limit(limit).Find(&questions).Error; err != nil {
		return nil, apperr.Store("pick random questions", err)
	}
	return questions, nil
}
