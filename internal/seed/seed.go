package seed

import (
	"errors"
	"log"

	"truckstop/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder returns a Seeder bound to the given DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes all seeded rows. Profiles and trucks go first so the user
// delete never trips foreign keys on databases without cascading deletes.
func (s *Seeder) ClearAll() error {
	for _, stmt := range []string{
		"DELETE FROM owner_profiles",
		"DELETE FROM consumer_profiles",
		"DELETE FROM food_trucks",
		"DELETE FROM users",
	} {
		if err := s.db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// EnsureAdmin creates the default admin account if it does not exist.
func (s *Seeder) EnsureAdmin() (*models.User, error) {
	var admin models.User
	err := s.db.Where("username = ?", "admin").First(&admin).Error
	if err == nil {
		return &admin, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin = models.User{
		Username: "admin",
		Email:    "admin@truckstop.local",
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := s.db.Create(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// Populate creates the requested number of consumer and owner accounts,
// giving each owner one to three trucks and about half of them a verified
// owner profile.
func (s *Seeder) Populate(numConsumers, numOwners int) error {
	if _, err := s.EnsureAdmin(); err != nil {
		return err
	}

	for i := 0; i < numConsumers; i++ {
		if _, err := s.factory.CreateWebsiteUser(); err != nil {
			return err
		}
	}

	for i := 0; i < numOwners; i++ {
		owner, err := s.factory.CreateOwner(1 + i%3)
		if err != nil {
			return err
		}
		if _, err := s.factory.CreateOwnerProfile(owner, i%2 == 0); err != nil {
			return err
		}
	}

	log.Printf("Seeded %d consumers, %d owners", numConsumers, numOwners)
	return nil
}
