package engage

import (
	"context"
	"errors"

	"flashdeck/core/apperr"
	"flashdeck/feature/auth"
	"flashdeck/feature/engage/models"

	"go.uber.org/zap"
)

// adminUsername marks the account allowed to moderate other users' comments.
const adminUsername = "admin"

// ErrForbidden is returned when a user tries to act on content they do not own.
var ErrForbidden = errors.New("not allowed")

// Service implements set ratings, question reports, comments and feedback.
type Service struct {
	store  *Store
	users  *auth.Store
	logger *zap.Logger
}

func NewService(store *Store, users *auth.Store, logger *zap.Logger) *Service {
	return &Service{store: store, users: users, logger: logger}
}

// RateSet records or overwrites the user's rating for a set.
func (s *Service) RateSet(ctx context.Context, userID uint, setCode string, overall, difficulty int) (*models.Rating, error) {
	if overall < 1 || overall > 5 || difficulty < 1 || difficulty > 5 {
		return nil, &apperr.InvalidFormatError{Value: "rating", Expected: "a whole number between 1 and 5"}
	}

	rating, err := s.store.FindRating(ctx, userID, setCode)
	if err != nil {
		return nil, err
	}
	if rating == nil {
		rating = &models.Rating{
			UserID:           userID,
			SetCode:          setCode,
			OverallRating:    overall,
			DifficultyRating: difficulty,
		}
		if err := s.store.CreateRating(ctx, rating); err != nil {
			return nil, err
		}
		return rating, nil
	}

	rating.OverallRating = overall
	rating.DifficultyRating = difficulty
	if err := s.store.SaveRating(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}

// ListMyRatings returns the user's ratings, most recently changed first.
func (s *Service) ListMyRatings(ctx context.Context, userID uint) ([]models.Rating, error) {
	return s.store.ListRatingsByUser(ctx, userID)
}

// RatingSummary aggregates the stored ratings for a set.
func (s *Service) RatingSummary(ctx context.Context, setCode string) (*RatingSummary, error) {
	return s.store.SummarizeRatings(ctx, setCode)
}

// ReportQuestion flags a question with an optional quality rating and message.
func (s *Service) ReportQuestion(ctx context.Context, userID, questionID uint, qualityRating int, message string) (*models.Report, error) {
	if qualityRating != 0 && (qualityRating < 1 || qualityRating > 5) {
		return nil, &apperr.InvalidFormatError{Value: "qualityRating", Expected: "a whole number between 1 and 5"}
	}
	report := &models.Report{
		UserID:        userID,
		QuestionID:    questionID,
		QualityRating: qualityRating,
		Message:       message,
	}
	if err := s.store.CreateReport(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// ListReports returns all question reports, newest first.
func (s *Service) ListReports(ctx context.Context) ([]models.Report, error) {
	return s.store.ListReports(ctx)
}

// AddComment posts a comment under the user's stored username.
func (s *Service) AddComment(ctx context.Context, userID uint, setCode string, questionID uint, content string) (*models.Comment, error) {
	if content == "" {
		return nil, &apperr.InvalidFormatError{Value: "content", Expected: "a non-empty comment"}
	}

	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user", "")
	}

	comment := &models.Comment{
		SetCode:    setCode,
		QuestionID: questionID,
		UserID:     userID,
		Username:   user.Username,
		Content:    content,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns comments for a set, newest first.
func (s *Service) ListComments(ctx context.Context, setCode string) ([]models.Comment, error) {
	return s.store.ListCommentsBySet(ctx, setCode)
}

// DeleteComment removes a comment. Only its author or the admin account may
// delete it.
func (s *Service) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.store.FindComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return apperr.NotFound("comment", "")
	}

	if comment.UserID != userID {
		user, err := s.users.FindUserByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil || user.Username != adminUsername {
			return ErrForbidden
		}
	}
	return s.store.DeleteComment(ctx, commentID)
}

// SubmitFeedback stores free-form product feedback.
func (s *Service) SubmitFeedback(ctx context.Context, userID uint, message, improvements string) (*models.Feedback, error) {
	if message == "" {
		return nil, &apperr.InvalidFormatError{Value: "message", Expected: "a non-empty message"}
	}
	feedback := &models.Feedback{
		UserID:       userID,
		Message:      message,
		Improvements: improvements,
	}
	if err := s.store.CreateFeedback(ctx, feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

// ListFeedback returns all submitted feedback, newest first.
func (s *Service) ListFeedback(ctx context.Context) ([]models.Feedback, error) {
	return s.store.ListFeedback(ctx)
}
