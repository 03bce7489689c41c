package service

import (
	"context"
	"strings"
	"testing"

	"truckstop/internal/models"
	"truckstop/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.OwnerProfile{},
		&models.ConsumerProfile{},
		&models.FoodTruck{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

func newRegistrationService(db *gorm.DB) *RegistrationService {
	return NewRegistrationService(
		repository.NewUserRepository(db),
		repository.NewFoodTruckRepository(db),
	)
}

func validConsumerInput() ConsumerSignupInput {
	return ConsumerSignupInput{
		Username:        "hungry_dan",
		FirstName:       "Dan",
		LastName:        "Rivera",
		Email:           "dan@example.com",
		Password:        "orchard-moth-42",
		PasswordConfirm: "orchard-moth-42",
	}
}

func validOwnerInput() OwnerSignupInput {
	return OwnerSignupInput{
		Username:        "seoulfood",
		Email:           "grace@seoulfood.com",
		Password:        "kimchi-on-wheels-9",
		PasswordConfirm: "kimchi-on-wheels-9",
		Phone:           "919-555-0142",
		Address:         "400 W Morgan St, Durham",
		TruckName:       "Seoul Food",
		TruckCity:       "Durham",
		TruckCuisine:    "Korean",
	}
}

func TestRegisterConsumer_Success(t *testing.T) {
	t.Parallel()
	db := setupServiceTestDB(t)
	svc := newRegistrationService(db)

	user, err := svc.RegisterConsumer(context.Background(), validConsumerInput())
	require.NoError(t, err)
	require.NotZero(t, user.ID)

	assert.Equal(t, models.RoleWebsiteUser, user.Role)
	assert.Equal(t, "hungry_dan", user.Username)
	assert.Equal(t, "Dan", user.FirstName)
	assert.Equal(t, "Rivera", user.LastName)

	// The stored password must be a bcrypt hash of the submitted one.
	assert.NotEqual(t, "orchard-moth-42", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("orchard-moth-42")))

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, models.RoleWebsiteUser, stored.Role)
}

func TestRegisterConsumer_FieldErrors(t *testing.T) {
	t.Parallel()
	db := setupServiceTestDB(t)
	svc := newRegistrationService(db)

	tests := []struct {
		name      string
		mutate    func(*ConsumerSignupInput)
		wantField string
	}{
		{"Missing First Name", func(in *ConsumerSignupInput) { in.FirstName = "" }, "first_name"},
		{"Missing Last Name", func(in *ConsumerSignupInput) { in.LastName = "" }, "last_name"},
		{"Missing Username", func(in *ConsumerSignupInput) { in.Username = "" }, "username"},
		{"Missing Email", func(in *ConsumerSignupInput) { in.Email = "" }, "email"},
		{"Invalid Email", func(in *ConsumerSignupInput) { in.Email = "not-an-email" }, "email"},
		{"Illegal Username", func(in *ConsumerSignupInput) { in.Username = "dan!!" }, "username"},
		{"Password Mismatch", func(in *ConsumerSignupInput) { in.PasswordConfirm = "different-pass-1" }, "password_confirm"},
		{"Missing Confirmation", func(in *ConsumerSignupInput) { in.PasswordConfirm = "" }, "password_confirm"},
		{"Short Password", func(in *ConsumerSignupInput) { in.Password, in.PasswordConfirm = "short1", "short1" }, "password"},
		{"Numeric Password", func(in *ConsumerSignupInput) { in.Password, in.PasswordConfirm = "1234567890", "1234567890" }, "password"},
		{
			"Password Similar To Username",
			func(in *ConsumerSignupInput) { in.Password, in.PasswordConfirm = "hungry_dan_99", "hungry_dan_99" },
			"password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validConsumerInput()
			tt.mutate(&in)

			_, err := svc.RegisterConsumer(context.Background(), in)
			require.Error(t, err)
			assert.True(t, models.IsFieldError(err, tt.wantField),
				"expected error on field %q, got %v", tt.wantField, err)
		})
	}

	// None of the rejected submissions may leave a row behind.
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegisterConsumer_DuplicateUsername(t *testing.T) {
	t.Parallel()
	db := setupServiceTestDB(t)
	svc := newRegistrationService(db)

	_, err := svc.RegisterConsumer(context.Background(), validConsumerInput())
	require.NoError(t, err)

	in := validConsumerInput()
	in.Email = "other@example.com"
	_, err = svc.RegisterConsumer(context.Background(), in)
	require.Error(t, err)
	assert.True(t, models.IsFieldError(err, "username"))
	assert.Contains(t, err.Error(), "already exists")
}

func TestRegisterConsumer_DuplicateEmail(t *testing.T) {
	t.Parallel()
	db := setupServiceTestDB(t)
	svc := newRegistrationService(db)

	_, err := svc.RegisterConsumer(context.Background(), validConsumerInput())
	require.NoError(t, err)

	in := validConsumerInput()
	in.Username = "other_dan"
	_, err = svc.RegisterConsumer(context.Background(), in)
	require.Error(t, err)
	assert.True(t, models.IsFieldError(err, "email"))
	assert.Contains(t, err.Error(), "already exists")
}

func TestRegisterOwner_WithTruck(t *testing.T) {
	t.Parallel()
	db := setupServiceTestDB(t)
	svc := newRegistrationService(db)

	user, err := svc.RegisterOwner(context.Background(), validOwnerInput())
	require.NoError(t, err)
	require.NotZero(t, user.ID)

	assert.Equal(t, models.RoleFoodTruckOwner, user.Role)
	assert.Equal(t, "919-555-0142", user.Phone)
	require.Len(t, user.Trucks, 1)

	var truck models.FoodTruck
	require.NoError(t, db.Where("owner_id = ?", user.ID).First(&truck).Error)
	assert.Equal(t, "Seoul Food", truck.Name)
	assert.Equal(t, "Durham", truck.City)
	assert.Equal(t, "Korean", truck.Cuisine)
	assert.Equal(t, user.ID, truck.OwnerID)
}

func TestRegisterOwner_NoTruckWhenNameBlank(t *testing.T) {
	t.Parallel()
	db := setupServiceTestDB(t)
	svc := newRegistrationService(db)

	in := validOwnerInput()
	in.TruckName = "   "

	user, err := svc.RegisterOwner(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, user.Trucks)

	var count int64
	require.NoError(t, db.Model(&models.FoodTruck{}).Count(&count).Error)
	assert.Zero(t, count, "a blank truck name must not create a listing")
}

func TestRegisterOwner_BlankTruckDetailsStoredEmpty(t *testing.T) {
	t.Parallel()
	db := setupServiceTestDB(t)
	svc := newRegistrationService(db)

	in := validOwnerInput()
	in.TruckCity = ""
	in.TruckCuisine = ""

	user, err := svc.RegisterOwner(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, user.Trucks, 1)
	assert.Equal(t, "", user.Trucks[0].City)
	assert.Equal(t, "", user.Trucks[0].Cuisine)
}

func TestRegisterOwner_TruckNameTooLong(t *testing.T) {
	t.Parallel()
	db := setupServiceTestDB(t)
	svc := newRegistrationService(db)

	in := validOwnerInput()
	in.TruckName = strings.Repeat("n", 101)

	_, err := svc.RegisterOwner(context.Background(), in)
	require.Error(t, err)
	assert.True(t, models.IsFieldError(err, "truck_name"))

	// The bad listing is rejected before the account insert.
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegisterOwner_OptionalFieldsMayBeBlank(t *testing.T) {
	t.Parallel()
	db := setupServiceTestDB(t)
	svc := newRegistrationService(db)

	in := OwnerSignupInput{
		Username:        "barebones",
		Email:           "barebones@example.com",
		Password:        "minimal-but-fine-7",
		PasswordConfirm: "minimal-but-fine-7",
	}

	user, err := svc.RegisterOwner(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, models.RoleFoodTruckOwner, user.Role)
	assert.Empty(t, user.Trucks)
}
