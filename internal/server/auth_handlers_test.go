package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"truckstop/internal/config"
	"truckstop/internal/middleware"
	"truckstop/internal/models"
	"truckstop/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDWithProfiles(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.User), args.Error(1)
}

// MockFoodTruckRepository is a mock of the FoodTruckRepository interface
type MockFoodTruckRepository struct {
	mock.Mock
}

func (m *MockFoodTruckRepository) GetByID(ctx context.Context, id uint) (*models.FoodTruck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FoodTruck), args.Error(1)
}

func (m *MockFoodTruckRepository) Create(ctx context.Context, truck *models.FoodTruck) error {
	args := m.Called(ctx, truck)
	return args.Error(0)
}

func (m *MockFoodTruckRepository) Update(ctx context.Context, truck *models.FoodTruck) error {
	args := m.Called(ctx, truck)
	return args.Error(0)
}

func (m *MockFoodTruckRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFoodTruckRepository) List(ctx context.Context, limit, offset int) ([]models.FoodTruck, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.FoodTruck), args.Error(1)
}

func (m *MockFoodTruckRepository) ListByCity(ctx context.Context, city string) ([]models.FoodTruck, error) {
	args := m.Called(ctx, city)
	return args.Get(0).([]models.FoodTruck), args.Error(1)
}

func (m *MockFoodTruckRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.FoodTruck, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]models.FoodTruck), args.Error(1)
}

func (m *MockFoodTruckRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:         "test_secret",
		PostLoginRedirect: "/profile/",
		Env:               "test",
	}
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestLogin(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("orchard-moth-42"), bcrypt.MinCost)
	require.NoError(t, err)
	account := &models.User{
		ID:       7,
		Username: "hungry_dan",
		Email:    "dan@example.com",
		Password: string(hashed),
		Role:     models.RoleWebsiteUser,
	}

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(*MockUserRepository)
		expectedStatus int
		wantCookie     bool
	}{
		{
			name: "Success",
			body: map[string]string{"username": "hungry_dan", "password": "orchard-moth-42"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByUsername", mock.Anything, "hungry_dan").Return(account, nil)
			},
			expectedStatus: http.StatusSeeOther,
			wantCookie:     true,
		},
		{
			name: "Unknown Username",
			body: map[string]string{"username": "nobody", "password": "orchard-moth-42"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByUsername", mock.Anything, "nobody").Return(nil, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Wrong Password",
			body: map[string]string{"username": "hungry_dan", "password": "not-the-password"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByUsername", mock.Anything, "hungry_dan").Return(account, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing Username",
			body:           map[string]string{"password": "orchard-moth-42"},
			mockSetup:      func(repo *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing Password",
			body:           map[string]string{"username": "hungry_dan"},
			mockSetup:      func(repo *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockRepo := new(MockUserRepository)
			tt.mockSetup(mockRepo)

			s := &Server{config: testConfig(), userRepo: mockRepo}
			app.Post("/login/", s.Login)

			resp := postJSON(t, app, "/login/", tt.body)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.wantCookie {
				cookie := sessionCookie(resp)
				require.NotNil(t, cookie, "login must set the session cookie")
				assert.NotEmpty(t, cookie.Value)
				assert.True(t, cookie.HttpOnly)
				assert.Equal(t, "/profile/", resp.Header.Get("Location"))
			} else {
				assert.Nil(t, sessionCookie(resp))
			}
		})
	}
}

func TestLogin_FailureResponseDoesNotLeakCause(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("right-password-1"), bcrypt.MinCost)
	require.NoError(t, err)
	account := &models.User{ID: 3, Username: "known_user", Password: string(hashed)}

	app := fiber.New()
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByUsername", mock.Anything, "known_user").Return(account, nil)
	mockRepo.On("GetByUsername", mock.Anything, "unknown_user").Return(nil, nil)

	s := &Server{config: testConfig(), userRepo: mockRepo}
	app.Post("/login/", s.Login)

	readError := func(body map[string]string) string {
		resp := postJSON(t, app, "/login/", body)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var parsed models.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
		return parsed.Error
	}

	unknownUser := readError(map[string]string{"username": "unknown_user", "password": "whatever-pass-1"})
	wrongPassword := readError(map[string]string{"username": "known_user", "password": "wrong-password-1"})

	assert.Equal(t, unknownUser, wrongPassword,
		"both failure modes must produce the same message")
}

func TestLogout_Idempotent(t *testing.T) {
	app := fiber.New()
	s := &Server{config: testConfig()}
	app.Get("/logout/", s.Logout)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/logout/", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))

		cookie := sessionCookie(resp)
		require.NotNil(t, cookie)
		assert.Empty(t, cookie.Value, "the session cookie is cleared")
		_ = resp.Body.Close()
	}
}

func TestRegisterConsumerHandler(t *testing.T) {
	valid := map[string]string{
		"username":         "new_user",
		"first_name":       "Nina",
		"last_name":        "Okafor",
		"email":            "nina@example.com",
		"password":         "garden-stereo-77",
		"password_confirm": "garden-stereo-77",
	}

	t.Run("Success", func(t *testing.T) {
		app := fiber.New()
		mockUsers := new(MockUserRepository)
		mockTrucks := new(MockFoodTruckRepository)
		mockUsers.On("GetByUsername", mock.Anything, "new_user").Return(nil, nil)
		mockUsers.On("GetByEmail", mock.Anything, "nina@example.com").Return(nil, nil)
		mockUsers.On("Create", mock.Anything, mock.Anything).Return(nil)

		s := &Server{
			config:   testConfig(),
			userRepo: mockUsers,
			regSvc:   service.NewRegistrationService(mockUsers, mockTrucks),
		}
		app.Post("/register/", s.RegisterConsumer)

		resp := postJSON(t, app, "/register/", valid)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/profile/", resp.Header.Get("Location"))
		require.NotNil(t, sessionCookie(resp), "registration signs the user in")
		mockUsers.AssertExpectations(t)
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		app := fiber.New()
		mockUsers := new(MockUserRepository)
		mockTrucks := new(MockFoodTruckRepository)
		mockUsers.On("GetByUsername", mock.Anything, "new_user").Return(nil, nil)
		mockUsers.On("GetByEmail", mock.Anything, "nina@example.com").Return(&models.User{ID: 1}, nil)

		s := &Server{
			config:   testConfig(),
			userRepo: mockUsers,
			regSvc:   service.NewRegistrationService(mockUsers, mockTrucks),
		}
		app.Post("/register/", s.RegisterConsumer)

		resp := postJSON(t, app, "/register/", valid)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		var parsed models.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
		assert.Equal(t, "email", parsed.Field)
	})

	t.Run("Password Mismatch", func(t *testing.T) {
		app := fiber.New()
		mockUsers := new(MockUserRepository)
		mockTrucks := new(MockFoodTruckRepository)

		s := &Server{
			config:   testConfig(),
			userRepo: mockUsers,
			regSvc:   service.NewRegistrationService(mockUsers, mockTrucks),
		}
		app.Post("/register/", s.RegisterConsumer)

		body := map[string]string{}
		for k, v := range valid {
			body[k] = v
		}
		body["password_confirm"] = "something-else-11"

		resp := postJSON(t, app, "/register/", body)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var parsed models.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
		assert.Equal(t, "password_confirm", parsed.Field)
	})
}

func TestRegisterOwnerHandler(t *testing.T) {
	t.Run("Signup With Truck", func(t *testing.T) {
		app := fiber.New()
		mockUsers := new(MockUserRepository)
		mockTrucks := new(MockFoodTruckRepository)
		mockUsers.On("GetByUsername", mock.Anything, "seoulfood").Return(nil, nil)
		mockUsers.On("GetByEmail", mock.Anything, "grace@seoulfood.com").Return(nil, nil)
		mockUsers.On("Create", mock.Anything, mock.Anything).Return(nil)
		mockTrucks.On("Create", mock.Anything, mock.MatchedBy(func(truck *models.FoodTruck) bool {
			return truck.Name == "Seoul Food" && truck.City == "Durham"
		})).Return(nil)

		s := &Server{
			config:   testConfig(),
			userRepo: mockUsers,
			regSvc:   service.NewRegistrationService(mockUsers, mockTrucks),
		}
		app.Post("/register/food-truck-owner/", s.RegisterOwner)

		resp := postJSON(t, app, "/register/food-truck-owner/", map[string]string{
			"username":         "seoulfood",
			"email":            "grace@seoulfood.com",
			"password":         "kimchi-on-wheels-9",
			"password_confirm": "kimchi-on-wheels-9",
			"truck_name":       "Seoul Food",
			"truck_city":       "Durham",
			"truck_cuisine":    "Korean",
		})
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		mockTrucks.AssertExpectations(t)
	})

	t.Run("Signup Without Truck", func(t *testing.T) {
		app := fiber.New()
		mockUsers := new(MockUserRepository)
		mockTrucks := new(MockFoodTruckRepository)
		mockUsers.On("GetByUsername", mock.Anything, "truckless").Return(nil, nil)
		mockUsers.On("GetByEmail", mock.Anything, "truckless@example.com").Return(nil, nil)
		mockUsers.On("Create", mock.Anything, mock.Anything).Return(nil)

		s := &Server{
			config:   testConfig(),
			userRepo: mockUsers,
			regSvc:   service.NewRegistrationService(mockUsers, mockTrucks),
		}
		app.Post("/register/food-truck-owner/", s.RegisterOwner)

		resp := postJSON(t, app, "/register/food-truck-owner/", map[string]string{
			"username":         "truckless",
			"email":            "truckless@example.com",
			"password":         "no-truck-yet-44",
			"password_confirm": "no-truck-yet-44",
		})
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		mockTrucks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
