package catalog

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"rental-manager/core/logger"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/materials", h.HandleListMaterials)
	app.Get("/materials/:id", h.HandleGetMaterial)
	app.Get("/categories", h.HandleListCategories)
}

// HandleListMaterials returns a page of the rental catalog.
// @Summary List Materials
// @Description List rentable materials, paginated, optionally filtered by search term, category or park.
// @Tags catalog
// @Accept json
// @Produce json
// @Param search query string false "Search in name and reference"
// @Param category query int false "Category ID"
// @Param park query int false "Park ID"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 25, max 100)"
// @Success 200 {object} MaterialPage "Materials"
// @Failure 500 {object} map[string]interface{} "Internal Server Error"
// @Router /materials [get]
func (h *Handler) HandleListMaterials(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	page, err := h.service.List(c.Context(), ListParams{
		Search:     c.Query("search"),
		CategoryID: uint(c.QueryInt("category")),
		ParkID:     uint(c.QueryInt("park")),
		Page:       c.QueryInt("page"),
		PageSize:   c.QueryInt("page_size"),
	})
	if err != nil {
		l.Error("failed to list materials", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fiber.Map{"code": fiber.StatusInternalServerError, "message": "internal error"},
		})
	}
	return c.JSON(page)
}

// HandleGetMaterial returns one material with its units.
// @Summary Get Material
// @Description Get one material with its category, park and physical units.
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path int true "Material ID"
// @Success 200 {object} models.Material "Material"
// @Failure 404 {object} map[string]interface{} "Not Found"
// @Router /materials/{id} [get]
func (h *Handler) HandleGetMaterial(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fiber.Map{"code": fiber.StatusNotFound, "message": "material not found"},
		})
	}
	l := logger.WithRayID(h.service.logger, c)

	material, err := h.service.GetOne(c.Context(), uint(id))
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fiber.Map{"code": fiber.StatusNotFound, "message": "material not found"},
		})
	}
	if err != nil {
		l.Error("failed to load material", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fiber.Map{"code": fiber.StatusInternalServerError, "message": "internal error"},
		})
	}
	return c.JSON(material)
}

// HandleListCategories returns all categories with material counts.
// @Summary List Categories
// @Description List material categories with the number of materials in each.
// @Tags catalog
// @Accept json
// @Produce json
// @Success 200 {array} CategoryCount "Categories"
// @Failure 500 {object} map[string]interface{} "Internal Server Error"
// @Router /categories [get]
func (h *Handler) HandleListCategories(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	counts, err := h.service.Categories(c.Context())
	if err != nil {
		l.Error("failed to list categories", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fiber.Map{"code": fiber.StatusInternalServerError, "message": "internal error"},
		})
	}
	return c.JSON(counts)
}
