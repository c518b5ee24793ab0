package engage

import (
	"context"
	"errors"

	"flashdeck/core/apperr"
	"flashdeck/feature/engage/models"

	"gorm.io/gorm"
)

// Store wraps rating, report, comment and feedback persistence.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FindRating returns (nil, nil) when the user has not rated the set.
func (s *Store) FindRating(ctx context.Context, userID uint, setCode string) (*models.Rating, error) {
	var rating models.Rating
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND set_code = ?", userID, setCode).
		First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Store("find rating", err)
	}
	return &rating, nil
}

func (s *Store) CreateRating(ctx context.Context, rating *models.Rating) error {
	if err := s.db.WithContext(ctx).Create(rating).Error; err != nil {
		return apperr.Store("create rating", err)
	}
	return nil
}

func (s *Store) SaveRating(ctx context.Context, rating *models.Rating) error {
	if err := s.db.WithContext(ctx).Save(rating).Error; err != nil {
		return apperr.Store("save rating", err)
	}
	return nil
}

// RatingSummary aggregates the ratings stored for one set.
type RatingSummary struct {
	SetCode           string  `json:"setCode"`
	Count             int64   `json:"count"`
	AverageOverall    float64 `json:"averageOverall"`
	AverageDifficulty float64 `json:"averageDifficulty"`
}

func (s *Store) SummarizeRatings(ctx context.Context, setCode string) (*RatingSummary, error) {
	summary := RatingSummary{SetCode: setCode}
	err := s.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("set_code = ?", setCode).
		Select("COUNT(*) AS count, COALESCE(AVG(overall_rating), 0) AS average_overall, COALESCE(AVG(difficulty_rating), 0) AS average_difficulty").
		Scan(&summary).Error
	if err != nil {
		return nil, apperr.Store("summarize ratings", err)
	}
	return &summary, nil
}

func (s *Store) ListRatingsByUser(ctx context.Context, userID uint) ([]models.Rating, error) {
	var ratings []models.Rating
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, apperr.Store("list ratings", err)
	}
	return ratings, nil
}

func (s *Store) CreateReport(ctx context.Context, report *models.Report) error {
	if err := s.db.WithContext(ctx).Create(report).Error; err != nil {
		return apperr.Store("create report", err)
	}
	return nil
}

func (s *Store) ListReports(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&reports).Error
	if err != nil {
		return nil, apperr.Store("list reports", err)
	}
	return reports, nil
}

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return apperr.Store("create comment", err)
	}
	return nil
}

// FindComment returns (nil, nil) when the comment does not exist.
func (s *Store) FindComment(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.WithContext(ctx).First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Store("find comment", err)
	}
	return &comment, nil
}

func (s *Store) ListCommentsBySet(ctx context.Context, setCode string) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Where("set_code = ?", setCode).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, apperr.Store("list comments", err)
	}
	return comments, nil
}

func (s *Store) DeleteComment(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&models.Comment{}, id).Error; err != nil {
		return apperr.Store("delete comment", err)
	}
	return nil
}

func (s *Store) CreateFeedback(ctx context.Context, feedback *models.Feedback) error {
	if err := s.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return apperr.Store("create feedback", err)
	}
	return nil
}

func (s *Store) ListFeedback(ctx context.Context) ([]models.Feedback, error) {
	var feedback []models.Feedback
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&feedback).Error
	if err != nil {
		return nil, apperr.Store("list feedback", err)
	}
	return feedback, nil
}
