package server

import (
	"truckstop/internal/models"
	"truckstop/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Home handles GET /. It renders the listing home: the most recent trucks.
func (s *Server) Home(c *fiber.Ctx) error {
	trucks, err := s.truckSvc.List(c.Context(), 12, 0)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(fiber.Map{
		"page":   "home",
		"trucks": trucks,
	})
}

// Directory handles GET /directory/
func (s *Server) Directory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	trucks, err := s.truckSvc.List(c.Context(), limit, offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(fiber.Map{
		"page":   "directory",
		"trucks": trucks,
	})
}

// TrucksByCity handles GET /trucks/:city/
func (s *Server) TrucksByCity(c *fiber.Ctx) error {
	city := c.Params("city")

	trucks, err := s.truckSvc.ListByCity(c.Context(), city)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"page":   "trucks_by_city",
		"city":   city,
		"trucks": trucks,
	})
}

// SubmitForm handles GET /submit/
func (s *Server) SubmitForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"form": "submit_truck",
		"fields": []string{
			"name", "city", "cuisine", "description",
			"website", "social_links", "image_url",
		},
	})
}

// SubmitTruck handles POST /submit/. Requires an authenticated owner or admin.
func (s *Server) SubmitTruck(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}

	var req struct {
		Name        string             `json:"name" form:"name"`
		City        string             `json:"city" form:"city"`
		Cuisine     string             `json:"cuisine" form:"cuisine"`
		Description string             `json:"description" form:"description"`
		Website     string             `json:"website" form:"website"`
		SocialLinks models.SocialLinks `json:"social_links"`
		ImageURL    string             `json:"image_url" form:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	truck, err := s.truckSvc.Submit(c.Context(), service.SubmitTruckInput{
		OwnerID:     userID,
		Name:        req.Name,
		City:        req.City,
		Cuisine:     req.Cuisine,
		Description: req.Description,
		Website:     req.Website,
		SocialLinks: req.SocialLinks,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"truck": truck,
	})
}
