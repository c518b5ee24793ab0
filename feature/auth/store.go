package auth

import (
	"context"
	"errors"

	"flashdeck/core/apperr"
	"flashdeck/feature/auth/models"

	"gorm.io/gorm"
)

// Store wraps user and verification token persistence.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FindUserByEmailOrUsername looks an account up by either identifier.
// Returns (nil, nil) when no account matches.
func (s *Store) FindUserByEmailOrUsername(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ? OR username = ?", identifier, identifier).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Store("find user", err)
	}
	return &user, nil
}

func (s *Store) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Store("find user", err)
	}
	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return apperr.Store("create user", err)
	}
	return nil
}

func (s *Store) MarkVerified(ctx context.Context, userID uint) error {
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_verified", true).Error
	if err != nil {
		return apperr.Store("mark user verified", err)
	}
	return nil
}

func (s *Store) CreateVerificationToken(ctx context.Context, token *models.VerificationToken) error {
	if err := s.db.WithContext(ctx).Create(token).Error; err != nil {
		return apperr.Store("create verification token", err)
	}
	return nil
}

// FindVerificationToken returns (nil, nil) when the token does not exist.
func (s *Store) FindVerificationToken(ctx context.Context, token string) (*models.VerificationToken, error) {
	var vt models.VerificationToken
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&vt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Store("find verification token", err)
	}
	return &vt, nil
}

func (s *Store) DeleteVerificationToken(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&models.VerificationToken{}, id).Error; err != nil {
		return apperr.Store("delete verification token", err)
	}
	return nil
}
