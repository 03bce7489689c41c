package service

import (
	"context"
	"strings"

	"truckstop/internal/models"
	"truckstop/internal/observability"
	"truckstop/internal/repository"
	"truckstop/internal/validation"
)

// TruckService implements listing operations.
type TruckService struct {
	truckRepo repository.FoodTruckRepository
	userRepo  repository.UserRepository
}

// SubmitTruckInput carries a direct truck submission.
type SubmitTruckInput struct {
	OwnerID     uint
	Name        string
	City        string
	Cuisine     string
	Description string
	Website     string
	SocialLinks models.SocialLinks
	ImageURL    string
}

// NewTruckService returns a new TruckService.
func NewTruckService(truckRepo repository.FoodTruckRepository, userRepo repository.UserRepository) *TruckService {
	return &TruckService{truckRepo: truckRepo, userRepo: userRepo}
}

// Submit creates a truck listing for the given owner. Unlike the signup path,
// name, city and cuisine are all required here.
func (s *TruckService) Submit(ctx context.Context, in SubmitTruckInput) (*models.FoodTruck, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.City = strings.TrimSpace(in.City)
	in.Cuisine = strings.TrimSpace(in.Cuisine)

	if in.Name == "" {
		return nil, models.NewFieldError("name", "Truck name is required")
	}
	if in.City == "" {
		return nil, models.NewFieldError("city", "City is required")
	}
	if in.Cuisine == "" {
		return nil, models.NewFieldError("cuisine", "Cuisine is required")
	}
	if err := validation.ValidateTruckFields(in.Name, in.City, in.Cuisine); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	owner, err := s.userRepo.GetByID(ctx, in.OwnerID)
	if err != nil {
		return nil, err
	}
	if !owner.CanSubmitTrucks() {
		return nil, models.NewForbiddenError("Only food truck owners can submit listings")
	}

	truck := &models.FoodTruck{
		OwnerID:     owner.ID,
		Name:        in.Name,
		City:        in.City,
		Cuisine:     in.Cuisine,
		Description: in.Description,
		Website:     in.Website,
		SocialLinks: in.SocialLinks,
		ImageURL:    in.ImageURL,
	}

	if err := s.truckRepo.Create(ctx, truck); err != nil {
		return nil, err
	}
	observability.TrucksCreatedTotal.WithLabelValues("submission").Inc()
	return truck, nil
}

// List returns recent listings for the home page and directory.
func (s *TruckService) List(ctx context.Context, limit, offset int) ([]models.FoodTruck, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.truckRepo.List(ctx, limit, offset)
}

// ListByCity returns listings filtered by city, case-insensitively.
func (s *TruckService) ListByCity(ctx context.Context, city string) ([]models.FoodTruck, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, models.NewFieldError("city", "City is required")
	}
	return s.truckRepo.ListByCity(ctx, city)
}

// Get returns one listing by ID.
func (s *TruckService) Get(ctx context.Context, id uint) (*models.FoodTruck, error) {
	return s.truckRepo.GetByID(ctx, id)
}
