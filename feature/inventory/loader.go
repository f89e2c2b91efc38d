package inventory

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"rental-manager/core/database"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
	db      *gorm.DB
	logger  *zap.Logger
}

// NewFeature creates the Inventory feature.
func NewFeature(db *gorm.DB, logger *zap.Logger, archiver *Archiver) *Feature {
	svc := NewService(db, logger, archiver)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h, db: db, logger: logger}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "inventory"
}

// IsEnabled checks if the feature is enabled. A database connection is
// required.
func (f *Feature) IsEnabled() bool {
	return f.db != nil
}

// Load runs a schema sanity check and registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.checkSchema()
	f.handler.RegisterRoutes(app)
	return nil
}

// checkSchema warns early when the pivot table misses the return
// columns instead of failing on the first save.
func (f *Feature) checkSchema() {
	missing, err := database.HasColumns(f.db, "event_materials",
		[]string{"quantity", "quantity_returned", "quantity_returned_broken"})
	if err != nil {
		f.logger.Warn("inventory schema check failed", zap.Error(err))
		return
	}
	if len(missing) > 0 {
		f.logger.Warn("inventory schema is missing columns",
			zap.Strings("columns", missing))
	}
}
