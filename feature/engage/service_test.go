package engage

import (
	"context"
	"testing"

	"flashdeck/core/apperr"
	"flashdeck/core/database"
	"flashdeck/feature/auth"
	authmodels "flashdeck/feature/auth/models"
	"flashdeck/feature/engage/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, *auth.Store) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&authmodels.User{},
		&models.Rating{}, &models.Report{}, &models.Comment{}, &models.Feedback{},
	); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	users := auth.NewStore(db)
	return NewService(NewStore(db), users, zap.NewNop()), users
}

func seedUser(t *testing.T, users *auth.Store, username string) *authmodels.User {
	user := &authmodels.User{
		Email:    username + "@example.com",
		Username: username,
		Password: "hash",
	}
	assert.NoError(t, users.CreateUser(context.Background(), user))
	return user
}

func TestService_RateSet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rating, err := svc.RateSet(ctx, 1, "PH1S1", 4, 2)
	assert.NoError(t, err)
	assert.Equal(t, 4, rating.OverallRating)

	// Re-rating overwrites instead of stacking.
	_, err = svc.RateSet(ctx, 1, "PH1S1", 5, 3)
	assert.NoError(t, err)

	_, err = svc.RateSet(ctx, 2, "PH1S1", 3, 3)
	assert.NoError(t, err)

	summary, err := svc.RatingSummary(ctx, "PH1S1")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), summary.Count)
	assert.Equal(t, 4.0, summary.AverageOverall)
	assert.Equal(t, 3.0, summary.AverageDifficulty)
}

func TestService_RateSet_OutOfRange(t *testing.T) {
	svc, _ := newTestService(t)

	for _, pair := range [][2]int{{0, 3}, {6, 3}, {3, 0}, {3, 6}} {
		_, err := svc.RateSet(context.Background(), 1, "PH1S1", pair[0], pair[1])
		var invalid *apperr.InvalidFormatError
		assert.ErrorAs(t, err, &invalid)
	}
}

func TestService_Comments(t *testing.T) {
	svc, users := newTestService(t)
	ctx := context.Background()

	owner := seedUser(t, users, "casey")
	other := seedUser(t, users, "jordan")
	admin := seedUser(t, users, "admin")

	comment, err := svc.AddComment(ctx, owner.ID, "PH1S1", 0, "nice set")
	assert.NoError(t, err)
	assert.Equal(t, "casey", comment.Username)

	t.Run("stranger cannot delete", func(t *testing.T) {
		err := svc.DeleteComment(ctx, other.ID, comment.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("owner can delete", func(t *testing.T) {
		assert.NoError(t, svc.DeleteComment(ctx, owner.ID, comment.ID))
	})

	t.Run("admin can delete anyone's", func(t *testing.T) {
		c, err := svc.AddComment(ctx, other.ID, "PH1S1", 0, "me too")
		assert.NoError(t, err)
		assert.NoError(t, svc.DeleteComment(ctx, admin.ID, c.ID))
	})

	comments, err := svc.ListComments(ctx, "PH1S1")
	assert.NoError(t, err)
	assert.Empty(t, comments)
}

func TestService_AddComment_RequiresContent(t *testing.T) {
	svc, users := newTestService(t)
	user := seedUser(t, users, "casey")

	_, err := svc.AddComment(context.Background(), user.ID, "PH1S1", 0, "")
	var invalid *apperr.InvalidFormatError
	assert.ErrorAs(t, err, &invalid)
}

func TestService_ReportQuestion(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	report, err := svc.ReportQuestion(ctx, 1, 42, 2, "answer looks wrong")
	assert.NoError(t, err)
	assert.NotZero(t, report.ID)

	_, err = svc.ReportQuestion(ctx, 1, 42, 9, "")
	var invalid *apperr.InvalidFormatError
	assert.ErrorAs(t, err, &invalid)

	reports, err := svc.ListReports(ctx)
	assert.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestService_SubmitFeedback(t *testing.T) {
	svc, _ := newTestService(t)

	feedback, err := svc.SubmitFeedback(context.Background(), 1, "great app", "dark mode please")
	assert.NoError(t, err)
	assert.NotZero(t, feedback.ID)

	_, err = svc.SubmitFeedback(context.Background(), 1, "", "")
	var invalid *apperr.InvalidFormatError
	assert.ErrorAs(t, err, &invalid)
}
