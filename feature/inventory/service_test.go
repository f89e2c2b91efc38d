package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"rental-manager/core/database"
	"rental-manager/feature/inventory/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

// seedEvent creates event 1 with two materials: 3 projectors and
// 2 cable drums awaited back.
func seedEvent(t *testing.T, db *gorm.DB) {
	t.Helper()

	materials := []models.Material{
		{
			ID: 1, Name: "Projector", Reference: "PRJ-1",
			StockQuantity: 10, ReplacementPrice: decimal.NewFromInt(300),
		},
		{
			ID: 2, Name: "Cable Drum", Reference: "CBL-1",
			StockQuantity: 20, ReplacementPrice: decimal.NewFromInt(25),
		},
	}
	require.NoError(t, db.Create(&materials).Error)

	event := models.Event{
		ID:        1,
		Title:     "Open Air Festival",
		StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		Beneficiaries: []models.Beneficiary{
			{ID: 1, FirstName: "Jean", LastName: "Fountain"},
		},
	}
	require.NoError(t, db.Create(&event).Error)

	pivots := []models.EventMaterial{
		{EventID: 1, MaterialID: 1, Quantity: 3},
		{EventID: 1, MaterialID: 2, Quantity: 2},
	}
	require.NoError(t, db.Create(&pivots).Error)
}

func TestGetOne(t *testing.T) {
	db := setupDB(t)
	seedEvent(t, db)
	svc := NewService(db, zap.NewNop(), nil)

	res, err := svc.GetOne(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, uint(1), res.ID)
	assert.Equal(t, "Open Air Festival", res.Title)
	assert.False(t, res.IsReturnInventoryDone)
	require.Len(t, res.Beneficiaries, 1)
	assert.Equal(t, "Jean Fountain", res.Beneficiaries[0].FullName)

	require.Len(t, res.Materials, 2)
	assert.Equal(t, uint(1), res.Materials[0].ID)
	assert.Equal(t, 3, res.Materials[0].Pivot.Quantity)
	assert.Nil(t, res.Materials[0].Pivot.QuantityReturned, "no draft saved yet")
}

func TestGetOne_NotFound(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db, zap.NewNop(), nil)

	_, err := svc.GetOne(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveReturn(t *testing.T) {
	db := setupDB(t)
	seedEvent(t, db)
	svc := NewService(db, zap.NewNop(), nil)

	res, err := svc.SaveReturn(context.Background(), 1, []models.QuantityInput{
		{ID: 1, Actual: 2, Broken: 1},
		{ID: 2, Actual: 2, Broken: 0},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, *res.Materials[0].Pivot.QuantityReturned)
	assert.Equal(t, 1, *res.Materials[0].Pivot.QuantityBroken)
	assert.Equal(t, 2, *res.Materials[1].Pivot.QuantityReturned)

	// Drafts are repeatable and do not lock the event.
	res, err = svc.SaveReturn(context.Background(), 1, []models.QuantityInput{
		{ID: 1, Actual: 3, Broken: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, *res.Materials[0].Pivot.QuantityReturned)
	assert.False(t, res.IsReturnInventoryDone)

	// Stock is untouched by drafts.
	var material models.Material
	require.NoError(t, db.First(&material, 1).Error)
	assert.Equal(t, 10, material.StockQuantity)
	assert.Equal(t, 0, material.OutOfOrderQuantity)
}

func TestSaveReturn_Lenient(t *testing.T) {
	// Return inventories accept overages: counting back more than
	// booked is informative, not invalid.
	db := setupDB(t)
	seedEvent(t, db)
	svc := NewService(db, zap.NewNop(), nil)

	res, err := svc.SaveReturn(context.Background(), 1, []models.QuantityInput{
		{ID: 1, Actual: 5, Broken: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, *res.Materials[0].Pivot.QuantityReturned)
}

func TestSaveReturn_Validation(t *testing.T) {
	db := setupDB(t)
	seedEvent(t, db)
	svc := NewService(db, zap.NewNop(), nil)

	tests := []struct {
		name   string
		inputs []models.QuantityInput
		path   string
	}{
		{
			"broken exceeds actual",
			[]models.QuantityInput{{ID: 1, Actual: 1, Broken: 2}},
			"0.broken",
		},
		{
			"negative actual",
			[]models.QuantityInput{{ID: 1, Actual: -1}},
			"0.actual",
		},
		{
			"unknown material",
			[]models.QuantityInput{{ID: 99, Actual: 1}},
			"0.id",
		},
		{
			"error path carries the body index",
			[]models.QuantityInput{{ID: 1, Actual: 1}, {ID: 2, Actual: 1, Broken: 3}},
			"1.broken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SaveReturn(context.Background(), 1, tt.inputs)
			var vf *ValidationFailure
			require.ErrorAs(t, err, &vf)
			assert.NotEmpty(t, vf.Details[tt.path])
		})
	}
}

func TestTerminate(t *testing.T) {
	db := setupDB(t)
	seedEvent(t, db)
	svc := NewService(db, zap.NewNop(), nil)

	// 1 projector missing, 1 broken; cables all back.
	res, err := svc.Terminate(context.Background(), 1, []models.QuantityInput{
		{ID: 1, Actual: 2, Broken: 1},
		{ID: 2, Actual: 2, Broken: 0},
	})
	require.NoError(t, err)
	assert.True(t, res.IsReturnInventoryDone)

	var material models.Material
	require.NoError(t, db.First(&material, 1).Error)
	assert.Equal(t, 9, material.StockQuantity, "lost item leaves the stock")
	assert.Equal(t, 1, material.OutOfOrderQuantity, "broken item is out of order")

	material = models.Material{}
	require.NoError(t, db.First(&material, 2).Error)
	assert.Equal(t, 20, material.StockQuantity)
	assert.Equal(t, 0, material.OutOfOrderQuantity)

	// Terminate succeeds at most once.
	_, err = svc.Terminate(context.Background(), 1, nil)
	assert.ErrorIs(t, err, ErrAlreadyTerminated)

	// And the locked inventory rejects further drafts too.
	_, err = svc.SaveReturn(context.Background(), 1, nil)
	assert.ErrorIs(t, err, ErrAlreadyTerminated)
}

func TestTerminate_ValidationKeepsEventOpen(t *testing.T) {
	db := setupDB(t)
	seedEvent(t, db)
	svc := NewService(db, zap.NewNop(), nil)

	_, err := svc.Terminate(context.Background(), 1, []models.QuantityInput{
		{ID: 1, Actual: 1, Broken: 2},
	})
	var vf *ValidationFailure
	require.ErrorAs(t, err, &vf)

	var event models.Event
	require.NoError(t, db.First(&event, 1).Error)
	assert.False(t, event.IsReturnInventoryDone)
}

func TestSaveReturn_Units(t *testing.T) {
	db := setupDB(t)
	seedEvent(t, db)

	unitary := models.Material{
		ID: 3, Name: "Mixing Desk", Reference: "MIX-1",
		StockQuantity: 2, IsUnitary: true,
		Units: []models.MaterialUnit{
			{ID: 31, Reference: "MIX-1-A", State: "good"},
			{ID: 32, Reference: "MIX-1-B", State: "worn"},
		},
	}
	require.NoError(t, db.Create(&unitary).Error)
	require.NoError(t, db.Create(&models.EventMaterial{
		EventID: 1, MaterialID: 3, Quantity: 2,
	}).Error)

	svc := NewService(db, zap.NewNop(), nil)

	res, err := svc.SaveReturn(context.Background(), 1, []models.QuantityInput{
		{ID: 3, Actual: 1, Broken: 1, Units: []models.UnitInput{
			{UnitID: 31, IsLost: true, State: "good"},
			{UnitID: 32, IsBroken: true, State: "broken"},
		}},
	})
	require.NoError(t, err)

	var line *models.MaterialLine
	for i := range res.Materials {
		if res.Materials[i].ID == 3 {
			line = &res.Materials[i]
		}
	}
	require.NotNil(t, line)
	require.Len(t, line.Units, 2)
	assert.True(t, line.Units[0].IsLost)
	assert.True(t, line.Units[1].IsBroken)
	assert.Equal(t, "broken", line.Units[1].State)
}

func TestSaveReturn_UnitValidation(t *testing.T) {
	db := setupDB(t)
	seedEvent(t, db)
	svc := NewService(db, zap.NewNop(), nil)

	_, err := svc.SaveReturn(context.Background(), 1, []models.QuantityInput{
		{ID: 1, Actual: 1, Units: []models.UnitInput{
			{UnitID: 500, IsLost: true},
		}},
	})
	var vf *ValidationFailure
	require.ErrorAs(t, err, &vf)
	assert.NotEmpty(t, vf.Details["0.units.0"])
}
