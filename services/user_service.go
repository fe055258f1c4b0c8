package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"exoplanet-prediction-api/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserService struct {
	db    *gorm.DB
	auth  *AuthService
	cache *CacheService
	log   *zap.Logger
}

func NewUserService(db *gorm.DB, auth *AuthService, cache *CacheService, log *zap.Logger) *UserService {
	return &UserService{db: db, auth: auth, cache: cache, log: log}
}

// Signup stores a new account. Emails are compared case-insensitively.
func (s *UserService) Signup(ctx context.Context, name, email, password string) (*models.User, error) {
	email = normalizeEmail(email)

	if _, err := s.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{Name: name, Email: email, HashedPassword: hash}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("user registered", zap.Uint("user_id", user.ID))
	return &user, nil
}

// Authenticate checks the password and issues an access token.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrUserNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if !s.auth.CheckPassword(user.HashedPassword, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.auth.GenerateToken(user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// UserFromToken resolves a bearer token to a stored account. A valid token
// whose user was deleted is rejected.
func (s *UserService) UserFromToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.auth.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	user, err := s.GetByEmail(ctx, claims.Email())
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidToken
	}
	return user, err
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

func (s *UserService) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return n > 0, nil
}

// Delete removes the account and every prediction it owns in one
// transaction. It does not rely on the database enforcing the FK cascade.
// Cached copies of the removed predictions are evicted after commit.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	var keys []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var keplerIDs, tessIDs []string
		if err := tx.Model(&models.KeplerPrediction{}).Where("user_id = ?", id).Pluck("prediction_id", &keplerIDs).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.TessPrediction{}).Where("user_id = ?", id).Pluck("prediction_id", &tessIDs).Error; err != nil {
			return err
		}

		kepler := tx.Where("user_id = ?", id).Delete(&models.KeplerPrediction{})
		if kepler.Error != nil {
			return kepler.Error
		}
		tess := tx.Where("user_id = ?", id).Delete(&models.TessPrediction{})
		if tess.Error != nil {
			return tess.Error
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}

		keys = make([]string, 0, len(keplerIDs)+len(tessIDs))
		for _, pid := range keplerIDs {
			keys = append(keys, predictionKey(FamilyKepler, pid))
		}
		for _, pid := range tessIDs {
			keys = append(keys, predictionKey(FamilyTess, pid))
		}
		s.log.Info("user deleted",
			zap.Uint("user_id", id),
			zap.Int64("kepler_predictions", kepler.RowsAffected),
			zap.Int64("tess_predictions", tess.RowsAffected),
		)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Warn("cache eviction after user delete failed", zap.Uint("user_id", id), zap.Int("keys", len(keys)), zap.Error(err))
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
