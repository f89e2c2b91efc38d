package inventory

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"rental-manager/feature/inventory/models"
)

// ErrNotFound means no event exists for the requested identifier.
var ErrNotFound = errors.New("inventory not found")

// ErrAlreadyTerminated means the return inventory was already closed.
// A terminate succeeds at most once per event.
var ErrAlreadyTerminated = errors.New("return inventory already terminated")

// ValidationFailure carries per-field validation messages, keyed by
// the index of the offending line in the request body ("0.actual").
type ValidationFailure struct {
	Details map[string][]string
}

func (e *ValidationFailure) Error() string {
	return fmt.Sprintf("invalid quantities (%d fields)", len(e.Details))
}

// Service handles inventory reads and the draft/terminate writes.
type Service struct {
	db       *gorm.DB
	logger   *zap.Logger
	archiver *Archiver
}

// NewService creates a new inventory service. The archiver is optional;
// without it terminated inventories are not archived.
func NewService(db *gorm.DB, logger *zap.Logger, archiver *Archiver) *Service {
	return &Service{db: db, logger: logger, archiver: archiver}
}

// GetOne loads the return-inventory resource for an event.
func (s *Service) GetOne(ctx context.Context, id uint) (*models.InventoryResource, error) {
	event, err := s.loadEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return event.ToResource(), nil
}

// SaveReturn persists a draft of the counted quantities and returns
// the updated resource. Drafts are repeatable; they never lock the
// inventory.
func (s *Service) SaveReturn(ctx context.Context, id uint, inputs []models.QuantityInput) (*models.InventoryResource, error) {
	event, err := s.loadEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.IsReturnInventoryDone {
		return nil, ErrAlreadyTerminated
	}

	if details := validateQuantities(event, inputs); len(details) > 0 {
		validationFailures.Inc()
		return nil, &ValidationFailure{Details: details}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applyQuantities(tx, event, inputs)
	})
	if err != nil {
		savesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to save return inventory: %w", err)
	}

	savesTotal.WithLabelValues("ok").Inc()
	return s.GetOne(ctx, id)
}

// Terminate closes the return inventory: it persists the final
// quantities, locks the event and applies the stock effects (missing
// items leave the stock, broken ones become out-of-order). The
// terminated resource is archived in the background.
func (s *Service) Terminate(ctx context.Context, id uint, inputs []models.QuantityInput) (*models.InventoryResource, error) {
	event, err := s.loadEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.IsReturnInventoryDone {
		return nil, ErrAlreadyTerminated
	}

	if details := validateQuantities(event, inputs); len(details) > 0 {
		validationFailures.Inc()
		return nil, &ValidationFailure{Details: details}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := applyQuantities(tx, event, inputs); err != nil {
			return err
		}
		if err := applyStockEffects(tx, event, inputs); err != nil {
			return err
		}
		return tx.Model(&models.Event{}).
			Where("id = ?", event.ID).
			Update("is_return_inventory_done", true).Error
	})
	if err != nil {
		terminationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to terminate return inventory: %w", err)
	}

	terminationsTotal.WithLabelValues("ok").Inc()
	res, err := s.GetOne(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.archiver != nil {
		if err := s.archiver.Submit(res); err != nil {
			// Archiving is best-effort; the inventory is already closed.
			s.logger.Warn("failed to queue inventory archive",
				zap.Uint("event_id", id), zap.Error(err))
		}
	}
	return res, nil
}

func (s *Service) loadEvent(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	err := s.db.WithContext(ctx).
		Preload("Beneficiaries").
		Preload("Materials", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("event_materials.material_id")
		}).
		Preload("Materials.Material").
		Preload("Materials.Material.Units").
		First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load event %d: %w", id, err)
	}
	return &event, nil
}

// validateQuantities checks a request body against the event's booked
// materials. Return inventories are lenient: actual may exceed the
// awaited quantity (overages are informative), but broken can never
// exceed actual and unit flags must stay coherent.
func validateQuantities(event *models.Event, inputs []models.QuantityInput) map[string][]string {
	details := map[string][]string{}
	addError := func(path, msg string) {
		details[path] = append(details[path], msg)
	}

	booked := make(map[uint]models.EventMaterial, len(event.Materials))
	units := make(map[uint]map[uint]struct{})
	for _, em := range event.Materials {
		booked[em.MaterialID] = em
		set := make(map[uint]struct{}, len(em.Material.Units))
		for _, u := range em.Material.Units {
			set[u.ID] = struct{}{}
		}
		units[em.MaterialID] = set
	}

	for i, input := range inputs {
		if _, ok := booked[input.ID]; !ok {
			addError(fmt.Sprintf("%d.id", i), "material is not part of this event")
			continue
		}
		if input.Actual < 0 {
			addError(fmt.Sprintf("%d.actual", i), "must not be negative")
		}
		if input.Broken < 0 {
			addError(fmt.Sprintf("%d.broken", i), "must not be negative")
		}
		if input.Broken > input.Actual {
			addError(fmt.Sprintf("%d.broken", i), "cannot exceed the actual quantity")
		}
		for j, u := range input.Units {
			if _, ok := units[input.ID][u.UnitID]; !ok {
				addError(fmt.Sprintf("%d.units.%d", i, j), "unit does not belong to this material")
				continue
			}
			if u.IsLost && u.IsBroken {
				addError(fmt.Sprintf("%d.units.%d", i, j), "a unit cannot be both lost and broken")
			}
		}
	}
	return details
}

// applyQuantities writes the counted quantities into the booking pivots
// and the unit flags.
func applyQuantities(tx *gorm.DB, event *models.Event, inputs []models.QuantityInput) error {
	for _, input := range inputs {
		actual := input.Actual
		broken := input.Broken
		err := tx.Model(&models.EventMaterial{}).
			Where("event_id = ? AND material_id = ?", event.ID, input.ID).
			Updates(map[string]any{
				"quantity_returned":        actual,
				"quantity_returned_broken": broken,
			}).Error
		if err != nil {
			return err
		}

		for _, u := range input.Units {
			err := tx.Model(&models.MaterialUnit{}).
				Where("id = ? AND material_id = ?", u.UnitID, input.ID).
				Updates(map[string]any{
					"is_lost":   u.IsLost,
					"is_broken": u.IsBroken,
					"state":     u.State,
				}).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// applyStockEffects adjusts material stock counts for a terminated
// inventory: items never returned leave the stock, broken ones are
// moved to out-of-order.
func applyStockEffects(tx *gorm.DB, event *models.Event, inputs []models.QuantityInput) error {
	booked := make(map[uint]models.EventMaterial, len(event.Materials))
	for _, em := range event.Materials {
		booked[em.MaterialID] = em
	}

	for _, input := range inputs {
		em := booked[input.ID]
		lost := em.Quantity - input.Actual
		if lost < 0 {
			lost = 0
		}
		if lost == 0 && input.Broken == 0 {
			continue
		}
		err := tx.Model(&models.Material{}).
			Where("id = ?", input.ID).
			Updates(map[string]any{
				"stock_quantity":        gorm.Expr("stock_quantity - ?", lost),
				"out_of_order_quantity": gorm.Expr("out_of_order_quantity + ?", input.Broken),
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
