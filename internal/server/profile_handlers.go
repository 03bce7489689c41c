package server

import (
	"errors"

	"truckstop/internal/models"
	"truckstop/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Profile handles GET /profile/. It returns the authenticated user with
// whichever profile extensions exist for their role.
func (s *Server) Profile(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}

	user, err := s.userRepo.GetByIDWithProfiles(c.Context(), userID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"user": user,
	})
}

// UpdateOwnerProfile handles PUT /profile/owner/. Creates the owner profile
// on first edit.
func (s *Server) UpdateOwnerProfile(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}

	var req struct {
		BusinessName    string `json:"business_name" form:"business_name"`
		BusinessLicense string `json:"business_license" form:"business_license"`
		CuisineType     string `json:"cuisine_type" form:"cuisine_type"`
		OperatingHours  string `json:"operating_hours" form:"operating_hours"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileSvc.UpsertOwnerProfile(c.Context(), service.OwnerProfileInput{
		UserID:          userID,
		BusinessName:    req.BusinessName,
		BusinessLicense: req.BusinessLicense,
		CuisineType:     req.CuisineType,
		OperatingHours:  req.OperatingHours,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"owner_profile": profile,
	})
}

// UpdatePreferences handles PUT /profile/preferences/. Creates the consumer
// profile on first edit.
func (s *Server) UpdatePreferences(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}

	var req struct {
		DietaryPreferences string `json:"dietary_preferences" form:"dietary_preferences"`
		FavoriteCuisines   string `json:"favorite_cuisines" form:"favorite_cuisines"`
		NotifyNewTrucks    *bool  `json:"notify_new_trucks" form:"notify_new_trucks"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileSvc.UpsertConsumerProfile(c.Context(), service.ConsumerProfileInput{
		UserID:             userID,
		DietaryPreferences: req.DietaryPreferences,
		FavoriteCuisines:   req.FavoriteCuisines,
		NotifyNewTrucks:    req.NotifyNewTrucks,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"consumer_profile": profile,
	})
}

// VerifyOwner handles POST /admin/owners/:id/verify/. Admin only.
func (s *Server) VerifyOwner(c *fiber.Ctx) error {
	actorID, ok := currentUserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}

	actor, err := s.userRepo.GetByID(c.Context(), actorID)
	if err != nil {
		return respondAppError(c, err)
	}
	if !actor.IsAdmin() {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Admin role required"))
	}

	ownerID, err := c.ParamsInt("id")
	if err != nil || ownerID <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid owner ID"))
	}

	var req struct {
		Verified *bool `json:"verified" form:"verified"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	verified := true
	if req.Verified != nil {
		verified = *req.Verified
	}

	profile, err := s.profileSvc.VerifyOwner(c.Context(), uint(ownerID), verified)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"owner_profile": profile,
	})
}

// respondAppError maps an AppError code onto its HTTP status.
func respondAppError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "VALIDATION_ERROR":
			return models.RespondWithError(c, fiber.StatusBadRequest, err)
		case "UNAUTHORIZED":
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		case "FORBIDDEN":
			return models.RespondWithError(c, fiber.StatusForbidden, err)
		case "NOT_FOUND":
			return models.RespondWithError(c, fiber.StatusNotFound, err)
		}
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}
