// Package seed provides helpers to create demo data for the directory
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"truckstop/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password assigned to every seeded account.
const DefaultPassword = "Streetfood-2024"

var cuisines = []string{
	"Mexican", "Korean", "BBQ", "Thai", "Mediterranean",
	"Vegan", "Burgers", "Seafood", "Ethiopian", "Fusion",
}

var cities = []string{
	"Raleigh", "Durham", "Charlotte", "Asheville", "Wilmington",
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db *gorm.DB
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db}
}

func hashedDefaultPassword() (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CreateWebsiteUser persists a consumer account with fake identity data.
func (f *Factory) CreateWebsiteUser() (*models.User, error) {
	hashed, err := hashedDefaultPassword()
	if err != nil {
		return nil, err
	}

	first := gofakeit.FirstName()
	last := gofakeit.LastName()
	user := &models.User{
		Username:  strings.ToLower(fmt.Sprintf("%s_%s%d", first, last, gofakeit.Number(1, 999))),
		Email:     gofakeit.Email(),
		Password:  hashed,
		Role:      models.RoleWebsiteUser,
		FirstName: first,
		LastName:  last,
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateOwner persists a food-truck-owner account, optionally with trucks.
func (f *Factory) CreateOwner(truckCount int) (*models.User, error) {
	hashed, err := hashedDefaultPassword()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: strings.ToLower(fmt.Sprintf("%s_trucks%d", gofakeit.LastName(), gofakeit.Number(1, 999))),
		Email:    gofakeit.Email(),
		Password: hashed,
		Role:     models.RoleFoodTruckOwner,
		Phone:    gofakeit.Phone(),
		Address:  gofakeit.Address().Address,
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}

	for i := 0; i < truckCount; i++ {
		if _, err := f.CreateTruck(user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// CreateTruck persists a truck listing owned by the given user.
func (f *Factory) CreateTruck(owner *models.User) (*models.FoodTruck, error) {
	cuisine := cuisines[rand.Intn(len(cuisines))]
	truck := &models.FoodTruck{
		OwnerID:     owner.ID,
		Name:        fmt.Sprintf("%s %s", gofakeit.Adjective(), gofakeit.NounConcrete()),
		City:        cities[rand.Intn(len(cities))],
		Cuisine:     cuisine,
		Description: gofakeit.Sentence(12),
		Website:     gofakeit.URL(),
		SocialLinks: models.SocialLinks{
			"instagram": "https://instagram.com/" + gofakeit.Username(),
			"twitter":   "https://twitter.com/" + gofakeit.Username(),
		},
		ImageURL: gofakeit.ImageURL(640, 480),
	}

	if err := f.db.Create(truck).Error; err != nil {
		return nil, err
	}
	return truck, nil
}

// CreateOwnerProfile persists an owner profile for the given owner.
func (f *Factory) CreateOwnerProfile(owner *models.User, verified bool) (*models.OwnerProfile, error) {
	profile := &models.OwnerProfile{
		UserID:          owner.ID,
		BusinessName:    gofakeit.Company(),
		BusinessLicense: fmt.Sprintf("BL%06d", gofakeit.Number(1, 999999)),
		CuisineType:     cuisines[rand.Intn(len(cuisines))],
		OperatingHours:  "Mon-Fri 11AM-3PM",
		IsVerified:      verified,
	}

	if err := f.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}
