package repository

import (
	"context"
	"errors"

	"truckstop/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository defines persistence operations for the role-specific
// profile extensions. Lookups return (nil, nil) when no profile exists yet;
// profiles are created lazily on first edit.
type ProfileRepository interface {
	GetOwnerProfile(ctx context.Context, userID uint) (*models.OwnerProfile, error)
	SaveOwnerProfile(ctx context.Context, profile *models.OwnerProfile) error
	GetConsumerProfile(ctx context.Context, userID uint) (*models.ConsumerProfile, error)
	SaveConsumerProfile(ctx context.Context, profile *models.ConsumerProfile) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetOwnerProfile(ctx context.Context, userID uint) (*models.OwnerProfile, error) {
	var profile models.OwnerProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) SaveOwnerProfile(ctx context.Context, profile *models.OwnerProfile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Owner profile already exists for this user")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) GetConsumerProfile(ctx context.Context, userID uint) (*models.ConsumerProfile, error) {
	var profile models.ConsumerProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) SaveConsumerProfile(ctx context.Context, profile *models.ConsumerProfile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Consumer profile already exists for this user")
		}
		return models.NewInternalError(err)
	}
	return nil
}
