// Package service implements the application's business operations on top of
// the repository layer.
package service

import (
	"context"
	"strings"

	"truckstop/internal/models"
	"truckstop/internal/observability"
	"truckstop/internal/repository"
	"truckstop/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// RegistrationService validates signup submissions and constructs user
// records. The consumer and owner paths share credential rules and differ in
// the role they assign and the optional fields they accept.
type RegistrationService struct {
	userRepo  repository.UserRepository
	truckRepo repository.FoodTruckRepository
}

// ConsumerSignupInput carries a consumer registration submission.
type ConsumerSignupInput struct {
	Username        string
	FirstName       string
	LastName        string
	Email           string
	Password        string
	PasswordConfirm string
}

// OwnerSignupInput carries a food-truck-owner registration submission. All
// owner-specific and truck fields are optional.
type OwnerSignupInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	Phone           string
	Address         string
	TruckName       string
	TruckCity       string
	TruckCuisine    string
}

// NewRegistrationService returns a new RegistrationService.
func NewRegistrationService(userRepo repository.UserRepository, truckRepo repository.FoodTruckRepository) *RegistrationService {
	return &RegistrationService{userRepo: userRepo, truckRepo: truckRepo}
}

// validateCredentials applies the shared username/email/password rules and
// the explicit uniqueness pre-checks. A race past these checks still loses on
// the storage constraint, which the repository converts to the same
// field-scoped errors.
func (s *RegistrationService) validateCredentials(ctx context.Context, username, email, password, confirm string) error {
	if username == "" {
		return models.NewFieldError("username", "Username is required")
	}
	if email == "" {
		return models.NewFieldError("email", "Email is required")
	}
	if password == "" {
		return models.NewFieldError("password", "Password is required")
	}
	if confirm == "" {
		return models.NewFieldError("password_confirm", "Password confirmation is required")
	}

	if err := validation.ValidateUsername(username); err != nil {
		return models.NewFieldError("username", err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return models.NewFieldError("email", err.Error())
	}
	if password != confirm {
		return models.NewFieldError("password_confirm", "The two password fields didn't match")
	}
	if err := validation.ValidatePassword(password, username); err != nil {
		return models.NewFieldError("password", err.Error())
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return models.NewFieldError("username", "A user with that username already exists")
	}

	existing, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return models.NewFieldError("email", "A user with that email already exists")
	}

	return nil
}

// RegisterConsumer validates a consumer submission and creates a user with
// role website_user. No profile extension is created; those appear lazily on
// first edit.
func (s *RegistrationService) RegisterConsumer(ctx context.Context, in ConsumerSignupInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)

	if in.FirstName == "" {
		return nil, models.NewFieldError("first_name", "First name is required")
	}
	if in.LastName == "" {
		return nil, models.NewFieldError("last_name", "Last name is required")
	}
	if err := s.validateCredentials(ctx, in.Username, in.Email, in.Password, in.PasswordConfirm); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hashed),
		Role:      models.RoleWebsiteUser,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	observability.RegistrationsTotal.WithLabelValues(string(models.RoleWebsiteUser)).Inc()
	return user, nil
}

// RegisterOwner validates an owner submission and creates a user with role
// food_truck_owner. When a truck name is supplied, exactly one truck listing
// is created and attributed to the new owner; blank city/cuisine are stored
// as empty strings.
func (s *RegistrationService) RegisterOwner(ctx context.Context, in OwnerSignupInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.TruckName = strings.TrimSpace(in.TruckName)
	in.TruckCity = strings.TrimSpace(in.TruckCity)
	in.TruckCuisine = strings.TrimSpace(in.TruckCuisine)

	if err := s.validateCredentials(ctx, in.Username, in.Email, in.Password, in.PasswordConfirm); err != nil {
		return nil, err
	}

	// Truck fields are checked before the user insert so a bad listing
	// never leaves a half-registered account behind.
	if in.TruckName != "" {
		if err := validation.ValidateTruckFields(in.TruckName, in.TruckCity, in.TruckCuisine); err != nil {
			return nil, models.NewFieldError("truck_name", err.Error())
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashed),
		Role:     models.RoleFoodTruckOwner,
		Phone:    in.Phone,
		Address:  in.Address,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if in.TruckName != "" {
		truck := &models.FoodTruck{
			OwnerID: user.ID,
			Name:    in.TruckName,
			City:    in.TruckCity,
			Cuisine: in.TruckCuisine,
		}
		if err := s.truckRepo.Create(ctx, truck); err != nil {
			return nil, err
		}
		user.Trucks = append(user.Trucks, *truck)
		observability.TrucksCreatedTotal.WithLabelValues("signup").Inc()
	}

	observability.RegistrationsTotal.WithLabelValues(string(models.RoleFoodTruckOwner)).Inc()
	return user, nil
}
