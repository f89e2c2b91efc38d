package inventory

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"rental-manager/core/logger"
	"rental-manager/feature/inventory/models"
)

// Handler handles HTTP requests for return inventories.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the inventory routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/inventories")
	group.Get("/:id", h.HandleGetInventory)
	group.Put("/:id", h.HandleSaveInventory)
	group.Put("/:id/terminate", h.HandleTerminateInventory)
}

// HandleGetInventory returns the return-inventory resource of an event.
// @Summary Get Return Inventory
// @Description Get the return inventory of an event, with booked and counted quantities.
// @Tags inventories
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} models.InventoryResource "Inventory"
// @Failure 404 {object} map[string]interface{} "Not Found"
// @Router /inventories/{id} [get]
func (h *Handler) HandleGetInventory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return errorEnvelope(c, fiber.StatusNotFound, "inventory not found", nil)
	}
	l := logger.WithRayID(h.service.logger, c)

	res, err := h.service.GetOne(c.Context(), uint(id))
	if err != nil {
		return h.mapError(c, l, err)
	}
	return c.JSON(res)
}

// HandleSaveInventory persists a draft of the counted quantities.
// @Summary Save Return Inventory Draft
// @Description Save the counted quantities of a return inventory without closing it.
// @Tags inventories
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param quantities body []models.QuantityInput true "Counted quantities"
// @Success 200 {object} models.InventoryResource "Updated Inventory"
// @Failure 400 {object} map[string]interface{} "Validation Failure"
// @Failure 409 {object} map[string]interface{} "Already Terminated"
// @Router /inventories/{id} [put]
func (h *Handler) HandleSaveInventory(c *fiber.Ctx) error {
	return h.handleWrite(c, false)
}

// HandleTerminateInventory closes the return inventory permanently.
// @Summary Terminate Return Inventory
// @Description Persist the final quantities, lock the inventory and apply stock effects. Succeeds at most once per event.
// @Tags inventories
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param quantities body []models.QuantityInput true "Final quantities"
// @Success 200 {object} models.InventoryResource "Terminated Inventory"
// @Failure 400 {object} map[string]interface{} "Validation Failure"
// @Failure 409 {object} map[string]interface{} "Already Terminated"
// @Router /inventories/{id}/terminate [put]
func (h *Handler) HandleTerminateInventory(c *fiber.Ctx) error {
	return h.handleWrite(c, true)
}

func (h *Handler) handleWrite(c *fiber.Ctx, terminate bool) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return errorEnvelope(c, fiber.StatusNotFound, "inventory not found", nil)
	}
	l := logger.WithRayID(h.service.logger, c)

	var inputs []models.QuantityInput
	if err := c.BodyParser(&inputs); err != nil {
		return errorEnvelope(c, fiber.StatusBadRequest, "invalid request body", nil)
	}

	var res *models.InventoryResource
	if terminate {
		res, err = h.service.Terminate(c.Context(), uint(id), inputs)
	} else {
		res, err = h.service.SaveReturn(c.Context(), uint(id), inputs)
	}
	if err != nil {
		return h.mapError(c, l, err)
	}
	return c.JSON(res)
}

// mapError converts service errors into the API error envelope
// {"error":{"code":...,"message":...,"details":...}} consumed by the
// sync client.
func (h *Handler) mapError(c *fiber.Ctx, l *zap.Logger, err error) error {
	var vf *ValidationFailure
	switch {
	case errors.Is(err, ErrNotFound):
		return errorEnvelope(c, fiber.StatusNotFound, "inventory not found", nil)
	case errors.Is(err, ErrAlreadyTerminated):
		return errorEnvelope(c, fiber.StatusConflict, "return inventory already terminated", nil)
	case errors.As(err, &vf):
		l.Info("inventory request rejected by validation", zap.Int("fields", len(vf.Details)))
		return errorEnvelope(c, fiber.StatusBadRequest, "invalid quantities", vf.Details)
	default:
		l.Error("inventory request failed", zap.Error(err))
		return errorEnvelope(c, fiber.StatusInternalServerError, "internal error", nil)
	}
}

func errorEnvelope(c *fiber.Ctx, code int, message string, details map[string][]string) error {
	body := fiber.Map{
		"code":    code,
		"message": message,
	}
	if details != nil {
		body["details"] = details
	}
	return c.Status(code).JSON(fiber.Map{"error": body})
}
