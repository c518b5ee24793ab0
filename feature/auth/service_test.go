package auth

import (
	"context"
	"testing"

	"flashdeck/core/apperr"
	"flashdeck/core/database"
	"flashdeck/core/mail"
	coreauth "flashdeck/core/middleware/auth"
	"flashdeck/feature/auth/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, *Store) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.VerificationToken{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	store := NewStore(db)
	// Empty API key selects the no-op mailer.
	mailer := mail.New(mail.Config{}, zap.NewNop())
	svc := NewService(store, mailer, coreauth.Config{Secret: "test-secret", ExpiryHours: 1}, zap.NewNop())
	return svc, store
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Email:    "alex@example.com",
		Username: "alex",
		Password: "correct-horse",
		Country:  "Germany",
	}
}

func TestService_Register(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegistration())
	assert.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.False(t, user.IsVerified)
	// The stored password is a hash, never the plain text.
	assert.NotEqual(t, "correct-horse", user.Password)

	stored, err := store.FindUserByEmailOrUsername(ctx, "alex")
	assert.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestService_Register_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := map[string]RegisterRequest{
		"bad email":      {Email: "not-an-email", Username: "alex", Password: "correct-horse", Country: "DE"},
		"short password": {Email: "a@example.com", Username: "alex", Password: "short", Country: "DE"},
		"no country":     {Email: "a@example.com", Username: "alex", Password: "correct-horse"},
	}
	for name, req := range cases {
		_, err := svc.Register(ctx, req)
		var invalid *apperr.InvalidFormatError
		assert.ErrorAs(t, err, &invalid, name)
	}
}

func TestService_Register_Duplicates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegistration())
	assert.NoError(t, err)

	dupEmail := validRegistration()
	dupEmail.Username = "someone-else"
	_, err = svc.Register(ctx, dupEmail)
	var conflict *apperr.ConflictError
	assert.ErrorAs(t, err, &conflict)

	dupUsername := validRegistration()
	dupUsername.Email = "other@example.com"
	_, err = svc.Register(ctx, dupUsername)
	assert.ErrorAs(t, err, &conflict)
}

func TestService_Login(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegistration())
	assert.NoError(t, err)

	t.Run("by username", func(t *testing.T) {
		token, user, err := svc.Login(ctx, "alex", "correct-horse")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "alex", user.Username)
	})

	t.Run("by email", func(t *testing.T) {
		token, _, err := svc.Login(ctx, "alex@example.com", "correct-horse")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "alex", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody", "correct-horse")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_VerifyEmail(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegistration())
	assert.NoError(t, err)

	// Pull the issued token straight from the store.
	var token models.VerificationToken
	assert.NoError(t, store.db.Where("user_id = ?", user.ID).First(&token).Error)

	assert.NoError(t, svc.VerifyEmail(ctx, token.Token))

	verified, err := store.FindUserByID(ctx, user.ID)
	assert.NoError(t, err)
	assert.True(t, verified.IsVerified)

	// The token is single-use.
	err = svc.VerifyEmail(ctx, token.Token)
	var notFound *apperr.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestService_VerifyEmail_UnknownToken(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.VerifyEmail(context.Background(), "does-not-exist")
	var notFound *apperr.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
