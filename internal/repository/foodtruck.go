package repository

import (
	"context"
	"errors"

	"truckstop/internal/cache"
	"truckstop/internal/models"

	"gorm.io/gorm"
)

// FoodTruckRepository defines persistence operations for truck listings.
type FoodTruckRepository interface {
	GetByID(ctx context.Context, id uint) (*models.FoodTruck, error)
	Create(ctx context.Context, truck *models.FoodTruck) error
	Update(ctx context.Context, truck *models.FoodTruck) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, limit, offset int) ([]models.FoodTruck, error)
	ListByCity(ctx context.Context, city string) ([]models.FoodTruck, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.FoodTruck, error)
	CountByOwner(ctx context.Context, ownerID uint) (int64, error)
}

type foodTruckRepository struct {
	db *gorm.DB
}

// NewFoodTruckRepository returns a new FoodTruckRepository implementation.
func NewFoodTruckRepository(db *gorm.DB) FoodTruckRepository {
	return &foodTruckRepository{db: db}
}

func (r *foodTruckRepository) GetByID(ctx context.Context, id uint) (*models.FoodTruck, error) {
	var truck models.FoodTruck
	key := cache.TruckKey(id)

	err := cache.Aside(ctx, key, &truck, cache.TruckTTL, func() error {
		if err := r.db.WithContext(ctx).First(&truck, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Food truck", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &truck, nil
}

func (r *foodTruckRepository) Create(ctx context.Context, truck *models.FoodTruck) error {
	if err := r.db.WithContext(ctx).Create(truck).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTruck(ctx, truck.ID, truck.City)
	return nil
}

func (r *foodTruckRepository) Update(ctx context.Context, truck *models.FoodTruck) error {
	if err := r.db.WithContext(ctx).Save(truck).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTruck(ctx, truck.ID, truck.City)
	return nil
}

func (r *foodTruckRepository) Delete(ctx context.Context, id uint) error {
	truck, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.FoodTruck{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTruck(ctx, id, truck.City)
	return nil
}

func (r *foodTruckRepository) List(ctx context.Context, limit, offset int) ([]models.FoodTruck, error) {
	var trucks []models.FoodTruck
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&trucks).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return trucks, nil
}

func (r *foodTruckRepository) ListByCity(ctx context.Context, city string) ([]models.FoodTruck, error) {
	var trucks []models.FoodTruck
	key := cache.CityKey(city)

	err := cache.Aside(ctx, key, &trucks, cache.DirectoryTTL, func() error {
		if err := r.db.WithContext(ctx).
			Where("LOWER(city) = LOWER(?)", city).
			Order("name ASC").
			Find(&trucks).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return trucks, nil
}

func (r *foodTruckRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.FoodTruck, error) {
	var trucks []models.FoodTruck
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&trucks).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return trucks, nil
}

func (r *foodTruckRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.FoodTruck{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
