package quiz

import (
	"context"
	"strings"
	"time"

	"flashdeck/core/apperr"
	"flashdeck/feature/content"
	contentmodels "flashdeck/feature/content/models"
	"flashdeck/feature/quiz/models"

	"go.uber.org/zap"
)

const recommendationLimit = 5

// AnswerResult is the outcome of recording one answer.
type AnswerResult struct {
	AttemptID     uint   `json:"attemptId"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
}

// Recommendation suggests an unstudied set via one of its questions.
type Recommendation struct {
	SetCode    string `json:"setCode"`
	SetName    string `json:"setName"`
	ModuleCode string `json:"moduleCode"`
	Question   string `json:"question"`
}

// Service implements quiz attempts, practice progress and recommendations.
type Service struct {
	store   *Store
	content *content.Store
	logger  *zap.Logger
}

func NewService(store *Store, contentStore *content.Store, logger *zap.Logger) *Service {
	return &Service{store: store, content: contentStore, logger: logger}
}

// answersMatch compares answers case-insensitively, ignoring surrounding
// whitespace.
func answersMatch(given, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(given), strings.TrimSpace(expected))
}

// RecordAnswer grades an answer against the stored question and records it on
// the user's open attempt for the set, creating the attempt if needed.
// Re-answering a question replaces the earlier answer; the last one counts.
func (s *Service) RecordAnswer(ctx context.Context, userID uint, setCode string, questionID uint, userAnswer string) (*AnswerResult, error) {
	question, err := s.content.FindQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, apperr.NotFound("question", "")
	}
	if setCode == "" {
		setCode = question.SetCode
	}

	attempt, err := s.store.FindOpenAttempt(ctx, userID, setCode)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		attempt = &models.QuizAttempt{UserID: userID, SetCode: setCode}
		if err := s.store.CreateAttempt(ctx, attempt); err != nil {
			return nil, err
		}
	}

	correct := answersMatch(userAnswer, question.Answer)

	existing, err := s.store.FindAnswer(ctx, attempt.ID, questionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.IsCorrect && !correct {
			attempt.CorrectAnswers--
		} else if !existing.IsCorrect && correct {
			attempt.CorrectAnswers++
		}
		existing.UserAnswer = userAnswer
		existing.IsCorrect = correct
		if err := s.store.SaveAnswer(ctx, existing); err != nil {
			return nil, err
		}
	} else {
		if err := s.store.CreateAnswer(ctx, &models.AttemptAnswer{
			AttemptID:  attempt.ID,
			QuestionID: questionID,
			UserAnswer: userAnswer,
			IsCorrect:  correct,
		}); err != nil {
			return nil, err
		}
		attempt.TotalQuestions++
		if correct {
			attempt.CorrectAnswers++
		}
	}

	if err := s.store.SaveAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	return &AnswerResult{
		AttemptID:     attempt.ID,
		Correct:       correct,
		CorrectAnswer: question.Answer,
	}, nil
}

// CompleteAttempt closes an open attempt and records practice progress for
// its set.
func (s *Service) CompleteAttempt(ctx context.Context, userID, attemptID uint) (*models.QuizAttempt, error) {
	attempt, err := s.store.FindAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, apperr.NotFound("quiz attempt", "")
	}
	if attempt.Completed {
		return nil, apperr.Conflict("attempt is already completed")
	}

	now := time.Now()
	attempt.Completed = true
	attempt.CompletedAt = &now
	if err := s.store.SaveAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	if err := s.RecordProgress(ctx, userID, attempt.SetCode); err != nil {
		// Progress is secondary to the attempt itself.
		s.logger.Warn("failed to record practice progress",
			zap.Uint("user_id", userID), zap.String("set_code", attempt.SetCode), zap.Error(err))
	}
	return attempt, nil
}

// ListAttempts returns the user's attempts, newest first.
func (s *Service) ListAttempts(ctx context.Context, userID uint) ([]models.QuizAttempt, error) {
	return s.store.ListAttempts(ctx, userID)
}

// GetAttempt returns one attempt with its answers, scoped to the user.
func (s *Service) GetAttempt(ctx context.Context, userID, attemptID uint) (*models.QuizAttempt, error) {
	attempt, err := s.store.FindAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, apperr.NotFound("quiz attempt", "")
	}
	return attempt, nil
}

// RecordProgress upserts the user's progress row for a set, bumping the
// practice counter.
func (s *Service) RecordProgress(ctx context.Context, userID uint, setCode string) error {
	progress, err := s.store.FindProgress(ctx, userID, setCode)
	if err != nil {
		return err
	}
	now := time.Now()
	if progress == nil {
		return s.store.CreateProgress(ctx, &models.Progress{
			UserID:         userID,
			SetCode:        setCode,
			TimesPracticed: 1,
			LastPracticed:  now,
		})
	}
	progress.TimesPracticed++
	progress.LastPracticed = now
	return s.store.SaveProgress(ctx, progress)
}

// ListProgress returns the user's progress rows, most recently practiced first.
func (s *Service) ListProgress(ctx context.Context, userID uint) ([]models.Progress, error) {
	return s.store.ListProgress(ctx, userID)
}

// Recommendations suggests up to five sets the user has not practiced yet,
// each represented by a random question. Sets appear at most once.
func (s *Service) Recommendations(ctx context.Context, userID uint) ([]Recommendation, error) {
	studied, err := s.store.StudiedSetCodes(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Oversample so duplicate set codes can be dropped and still fill the list.
	questions, err := s.store.RandomQuestionsExcludingSets(ctx, studied, recommendationLimit*4)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, recommendationLimit)
	recs := make([]Recommendation, 0, recommendationLimit)
	for _, q := range questions {
		if _, dup := seen[q.SetCode]; dup {
			continue
		}
		seen[q.SetCode] = struct{}{}
		recs = append(recs, recommendationFrom(q))
		if len(recs) == recommendationLimit {
			break
		}
	}
	return recs, nil
}

func recommendationFrom(q contentmodels.Question) Recommendation {
	return Recommendation{
		SetCode:    q.SetCode,
		SetName:    q.SetName,
		ModuleCode: q.ModuleCode,
		Question:   q.Question,
	}
}
