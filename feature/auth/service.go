package auth

import (
	"context"
	"errors"
	"time"

	"flashdeck/core/apperr"
	"flashdeck/core/mail"
	"flashdeck/core/middleware/auth"
	"flashdeck/feature/auth/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when a login identifier or password does
// not match. It is deliberately indistinguishable between the two cases.
var ErrInvalidCredentials = errors.New("invalid credentials")

const (
	bcryptCost  = 12
	tokenExpiry = 12 * time.Hour
)

var validate = validator.New()

// RegisterRequest carries the registration payload.
type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Username   string `json:"username" validate:"required,min=3,max=100"`
	Password   string `json:"password" validate:"required,min=8"`
	Country    string `json:"country" validate:"required"`
	City       string `json:"city"`
	Age        int    `json:"age" validate:"omitempty,gte=0,lte=120"`
	Profession string `json:"profession"`
}

// Service implements account registration, login and email verification.
type Service struct {
	store     *Store
	mailer    mail.Mailer
	jwtConfig auth.Config
	logger    *zap.Logger
}

func NewService(store *Store, mailer mail.Mailer, jwtConfig auth.Config, logger *zap.Logger) *Service {
	return &Service{store: store, mailer: mailer, jwtConfig: jwtConfig, logger: logger}
}

// Register creates a new account and sends a verification email. Duplicate
// email or username yields a conflict.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, &apperr.InvalidFormatError{Value: "registration payload", Expected: err.Error()}
	}

	if existing, err := s.store.FindUserByEmailOrUsername(ctx, req.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflict("an account with this email already exists")
	}
	if existing, err := s.store.FindUserByEmailOrUsername(ctx, req.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflict("this username is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:      req.Email,
		Username:   req.Username,
		Password:   string(hash),
		Country:    req.Country,
		City:       req.City,
		Age:        req.Age,
		Profession: req.Profession,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	token := uuid.NewString()
	if err := s.store.CreateVerificationToken(ctx, &models.VerificationToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(tokenExpiry),
	}); err != nil {
		return nil, err
	}

	// Registration succeeds even when the mail provider is down; the user
	// can request a fresh token later.
	if err := s.mailer.SendVerification(ctx, user.Email, user.Username, token); err != nil {
		s.logger.Warn("failed to send verification email",
			zap.String("email", user.Email), zap.Error(err))
	}

	return user, nil
}

// Login authenticates by email or username and returns a signed JWT.
func (s *Service) Login(ctx context.Context, identifier, password string) (string, *models.User, error) {
	user, err := s.store.FindUserByEmailOrUsername(ctx, identifier)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Username, s.jwtConfig)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// GetMe returns the account for an authenticated user id.
func (s *Service) GetMe(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user", "")
	}
	return user, nil
}

// VerifyEmail consumes a verification token and marks the account verified.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	vt, err := s.store.FindVerificationToken(ctx, token)
	if err != nil {
		return err
	}
	if vt == nil {
		return apperr.NotFound("verification token", token)
	}
	if time.Now().After(vt.ExpiresAt) {
		return apperr.Conflict("verification token has expired")
	}

	if err := s.store.MarkVerified(ctx, vt.UserID); err != nil {
		return err
	}
	return s.store.DeleteVerificationToken(ctx, vt.ID)
}
