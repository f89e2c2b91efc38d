package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Park is a physical storage location for materials.
type Park struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:96" json:"name"`
}

// Category classifies materials (sound, light, transport, ...).
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:96" json:"name"`
}

// Material is a rentable material definition.
type Material struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:191" json:"name"`
	Reference  string    `gorm:"uniqueIndex;size:64" json:"reference"`
	ParkID     *uint     `json:"park_id,omitempty"`
	Park       *Park     `json:"park,omitempty"`
	CategoryID *uint     `json:"category_id,omitempty"`
	Category   *Category `json:"category,omitempty"`

	// StockQuantity is the total owned quantity; OutOfOrderQuantity the
	// part currently unusable (broken, in repair).
	StockQuantity      int `json:"stock_quantity"`
	OutOfOrderQuantity int `json:"out_of_order_quantity"`

	RentalPrice      decimal.Decimal `gorm:"type:decimal(14,2)" json:"rental_price"`
	ReplacementPrice decimal.Decimal `gorm:"type:decimal(14,2)" json:"replacement_price"`

	// IsUnitary marks materials tracked per physical unit.
	IsUnitary bool           `json:"is_unitary"`
	Units     []MaterialUnit `json:"units,omitempty"`
}

// MaterialUnit is one physical unit of a unit-tracked material.
type MaterialUnit struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	MaterialID uint   `gorm:"index" json:"material_id"`
	Reference  string `gorm:"size:64" json:"reference"`

	// State is a free-form state code (good, worn, broken...).
	State    string `gorm:"size:64" json:"state"`
	IsLost   bool   `json:"is_lost"`
	IsBroken bool   `json:"is_broken"`
}

// Beneficiary is a borrower attached to events.
type Beneficiary struct {
	ID        uint   `gorm:"primaryKey"`
	FirstName string `gorm:"size:96"`
	LastName  string `gorm:"size:96"`
	Email     string `gorm:"size:191"`
}

// FullName returns the display name of the beneficiary.
func (b Beneficiary) FullName() string {
	return b.FirstName + " " + b.LastName
}

// Event is a booking of materials over a period.
type Event struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:191"`
	StartDate   time.Time
	EndDate     time.Time
	IsConfirmed bool

	// IsReturnInventoryDone locks the event's return inventory. Set
	// once by a successful terminate; never cleared.
	IsReturnInventoryDone bool

	Beneficiaries []Beneficiary   `gorm:"many2many:event_beneficiaries"`
	Materials     []EventMaterial `gorm:"constraint:OnDelete:CASCADE"`
}

// EventMaterial is the booking pivot: the awaited quantity of one
// material for one event, plus the counted return quantities once a
// draft save happened.
type EventMaterial struct {
	EventID    uint `gorm:"primaryKey;autoIncrement:false"`
	MaterialID uint `gorm:"primaryKey;autoIncrement:false"`

	// Quantity is the booked (awaited) quantity.
	Quantity int

	// QuantityReturned / QuantityReturnedBroken are nil until the first
	// draft save of the return inventory.
	QuantityReturned       *int
	QuantityReturnedBroken *int

	Material Material
}

// Migrate creates or updates the rental schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Park{},
		&Category{},
		&Material{},
		&MaterialUnit{},
		&Beneficiary{},
		&Event{},
		&EventMaterial{},
	)
}
