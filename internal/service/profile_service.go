package service

import (
	"context"
	"strings"

	"truckstop/internal/models"
	"truckstop/internal/repository"
)

// ProfileService manages the role-specific profile extensions. Registration
// never creates them; they are created on first edit here.
type ProfileService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
}

// OwnerProfileInput carries an owner profile edit.
type OwnerProfileInput struct {
	UserID          uint
	BusinessName    string
	BusinessLicense string
	CuisineType     string
	OperatingHours  string
}

// ConsumerProfileInput carries a consumer preferences edit.
type ConsumerProfileInput struct {
	UserID             uint
	DietaryPreferences string
	FavoriteCuisines   string
	NotifyNewTrucks    *bool
}

// NewProfileService returns a new ProfileService.
func NewProfileService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo, profileRepo: profileRepo}
}

// UpsertOwnerProfile creates or updates the owner profile for a
// food_truck_owner account. IsVerified is never touched here; only
// VerifyOwner mutates it.
func (s *ProfileService) UpsertOwnerProfile(ctx context.Context, in OwnerProfileInput) (*models.OwnerProfile, error) {
	in.BusinessName = strings.TrimSpace(in.BusinessName)
	if in.BusinessName == "" {
		return nil, models.NewFieldError("business_name", "Business name is required")
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleFoodTruckOwner {
		return nil, models.NewForbiddenError("Only food truck owners have an owner profile")
	}

	profile, err := s.profileRepo.GetOwnerProfile(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &models.OwnerProfile{UserID: in.UserID}
	}

	profile.BusinessName = in.BusinessName
	profile.BusinessLicense = in.BusinessLicense
	profile.CuisineType = in.CuisineType
	profile.OperatingHours = in.OperatingHours

	if err := s.profileRepo.SaveOwnerProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpsertConsumerProfile creates or updates the consumer preferences profile.
func (s *ProfileService) UpsertConsumerProfile(ctx context.Context, in ConsumerProfileInput) (*models.ConsumerProfile, error) {
	if _, err := s.userRepo.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetConsumerProfile(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &models.ConsumerProfile{UserID: in.UserID, NotifyNewTrucks: true}
	}

	profile.DietaryPreferences = in.DietaryPreferences
	profile.FavoriteCuisines = in.FavoriteCuisines
	if in.NotifyNewTrucks != nil {
		profile.NotifyNewTrucks = *in.NotifyNewTrucks
	}

	if err := s.profileRepo.SaveConsumerProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// VerifyOwner sets the verification flag on an owner profile. Callers must
// ensure the acting user holds the admin role.
func (s *ProfileService) VerifyOwner(ctx context.Context, ownerUserID uint, verified bool) (*models.OwnerProfile, error) {
	profile, err := s.profileRepo.GetOwnerProfile(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, models.NewNotFoundError("Owner profile", ownerUserID)
	}

	profile.IsVerified = verified
	if err := s.profileRepo.SaveOwnerProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
