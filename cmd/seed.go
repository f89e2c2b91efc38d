package cmd

import (
	"log"
	"time"

	"rental-manager/core/config"
	"rental-manager/core/database"
	"rental-manager/core/logger"
	"rental-manager/feature/inventory/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// seedCmd loads a small demo dataset: a few materials, one unitary
// material with physical units, and a confirmed event awaiting its
// return inventory.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the schema and load demo data",
	Long:  `Migrates the database schema and inserts a demo catalog with one event ready for a return inventory.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: "console"})
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}

		if err := models.Migrate(db); err != nil {
			logg.Fatal("Failed to migrate schema", zap.Error(err))
		}

		if err := seed(db); err != nil {
			logg.Fatal("Failed to seed demo data", zap.Error(err))
		}
		logg.Info("Demo data loaded", zap.Uint("event_id", 1))
	},
}

func init() {
	RootCmd.AddCommand(seedCmd)
}

func seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		sound := models.Category{ID: 1, Name: "Sound"}
		light := models.Category{ID: 2, Name: "Light"}
		if err := tx.Create(&[]models.Category{sound, light}).Error; err != nil {
			return err
		}

		park := models.Park{ID: 1, Name: "Main Warehouse"}
		if err := tx.Create(&park).Error; err != nil {
			return err
		}

		materials := []models.Material{
			{
				ID: 1, Name: "Wireless Microphone", Reference: "MIC-W1",
				CategoryID: &sound.ID, ParkID: &park.ID,
				StockQuantity: 20,
				RentalPrice:   decimal.NewFromInt(15), ReplacementPrice: decimal.NewFromInt(120),
			},
			{
				ID: 2, Name: "PAR LED Spot", Reference: "PAR-64",
				CategoryID: &light.ID, ParkID: &park.ID,
				StockQuantity: 40,
				RentalPrice:   decimal.NewFromInt(8), ReplacementPrice: decimal.NewFromInt(90),
			},
			{
				ID: 3, Name: "Mixing Console", Reference: "MIX-12",
				CategoryID: &sound.ID, ParkID: &park.ID,
				StockQuantity: 2, IsUnitary: true,
				RentalPrice: decimal.NewFromInt(60), ReplacementPrice: decimal.NewFromInt(1400),
				Units: []models.MaterialUnit{
					{ID: 31, Reference: "MIX-12-A", State: "good"},
					{ID: 32, Reference: "MIX-12-B", State: "worn"},
				},
			},
		}
		if err := tx.Create(&materials).Error; err != nil {
			return err
		}

		event := models.Event{
			ID:          1,
			Title:       "Summer Festival",
			StartDate:   time.Now().AddDate(0, 0, -7),
			EndDate:     time.Now().AddDate(0, 0, -2),
			IsConfirmed: true,
			Beneficiaries: []models.Beneficiary{
				{ID: 1, FirstName: "Ada", LastName: "Martin", Email: "ada@example.com"},
			},
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		pivots := []models.EventMaterial{
			{EventID: 1, MaterialID: 1, Quantity: 6},
			{EventID: 1, MaterialID: 2, Quantity: 12},
			{EventID: 1, MaterialID: 3, Quantity: 2},
		}
		return tx.Create(&pivots).Error
	})
}
