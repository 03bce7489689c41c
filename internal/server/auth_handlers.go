package server

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"truckstop/internal/middleware"
	"truckstop/internal/models"
	"truckstop/internal/observability"
	"truckstop/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 7 * 24 * time.Hour

// LoginForm handles GET /login/
func (s *Server) LoginForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"form":   "login",
		"fields": []string{"username", "password"},
	})
}

// Login handles POST /login/. Unknown username and wrong password produce
// the same generic failure so the response never reveals which was wrong.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldError("username", "Username is required"))
	}
	if req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldError("password", "Password is required"))
	}

	user, err := s.userRepo.GetByUsername(c.Context(), req.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		observability.LoginFailuresTotal.Inc()
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		observability.LoginFailuresTotal.Inc()
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	token, err := s.establishSession(c, user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return redirect(c, s.config.PostLoginRedirect, fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Logout handles GET /logout/. Clearing the cookie is unconditional, so an
// already-anonymous caller gets the same redirect.
func (s *Server) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return redirect(c, "/", nil)
}

// RegisterForm handles GET /register/
func (s *Server) RegisterForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"form":   "register",
		"fields": []string{"username", "first_name", "last_name", "email", "password", "password_confirm"},
	})
}

// RegisterConsumer handles POST /register/
func (s *Server) RegisterConsumer(c *fiber.Ctx) error {
	var req struct {
		Username        string `json:"username" form:"username"`
		FirstName       string `json:"first_name" form:"first_name"`
		LastName        string `json:"last_name" form:"last_name"`
		Email           string `json:"email" form:"email"`
		Password        string `json:"password" form:"password"`
		PasswordConfirm string `json:"password_confirm" form:"password_confirm"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.regSvc.RegisterConsumer(c.Context(), service.ConsumerSignupInput{
		Username:        req.Username,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return respondRegistrationError(c, err)
	}

	token, err := s.establishSession(c, user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return redirect(c, s.config.PostLoginRedirect, fiber.Map{
		"token": token,
		"user":  user,
	})
}

// RegisterOwnerForm handles GET /register/food-truck-owner/
func (s *Server) RegisterOwnerForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"form": "register_food_truck_owner",
		"fields": []string{
			"username", "email", "password", "password_confirm",
			"phone", "address", "truck_name", "truck_city", "truck_cuisine",
		},
	})
}

// RegisterOwner handles POST /register/food-truck-owner/
func (s *Server) RegisterOwner(c *fiber.Ctx) error {
	var req struct {
		Username        string `json:"username" form:"username"`
		Email           string `json:"email" form:"email"`
		Password        string `json:"password" form:"password"`
		PasswordConfirm string `json:"password_confirm" form:"password_confirm"`
		Phone           string `json:"phone" form:"phone"`
		Address         string `json:"address" form:"address"`
		TruckName       string `json:"truck_name" form:"truck_name"`
		TruckCity       string `json:"truck_city" form:"truck_city"`
		TruckCuisine    string `json:"truck_cuisine" form:"truck_cuisine"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.regSvc.RegisterOwner(c.Context(), service.OwnerSignupInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Phone:           req.Phone,
		Address:         req.Address,
		TruckName:       req.TruckName,
		TruckCity:       req.TruckCity,
		TruckCuisine:    req.TruckCuisine,
	})
	if err != nil {
		return respondRegistrationError(c, err)
	}

	token, err := s.establishSession(c, user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return redirect(c, s.config.PostLoginRedirect, fiber.Map{
		"token": token,
		"user":  user,
	})
}

// respondRegistrationError maps service errors onto HTTP statuses: duplicate
// username/email conflicts get 409, other validation failures 400.
func respondRegistrationError(c *fiber.Ctx, err error) error {
	if models.IsFieldError(err, "username") || models.IsFieldError(err, "email") {
		if strings.Contains(err.Error(), "already exists") {
			return models.RespondWithError(c, fiber.StatusConflict, err)
		}
	}
	return respondAppError(c, err)
}

// establishSession issues a session token for the user and sets it as an
// HttpOnly cookie. The token is also returned for Bearer-style clients.
func (s *Server) establishSession(c *fiber.Ctx, user *models.User) (string, error) {
	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return "", err
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(sessionTTL),
		HTTPOnly: true,
		SameSite: "Lax",
		Secure:   s.config.IsProduction(),
	})
	return token, nil
}

// generateToken creates a JWT token for the given user ID and username
func (s *Server) generateToken(userID uint, username string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      "truckstop-api",
		"aud":      "truckstop-client",
		"exp":      now.Add(sessionTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      s.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
