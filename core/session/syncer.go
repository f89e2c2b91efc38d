package session

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"rental-manager/core/quantity"
)

// Resource is the inventory resource shape served by the remote API
// for a single event.
type Resource struct {
	ID                    uint               `json:"id"`
	Title                 string             `json:"title"`
	Beneficiaries         []Beneficiary      `json:"beneficiaries"`
	StartDate             time.Time          `json:"start_date"`
	EndDate               time.Time          `json:"end_date"`
	IsReturnInventoryDone bool               `json:"is_return_inventory_done"`
	Materials             []MaterialResource `json:"materials"`
}

// Beneficiary identifies a borrower attached to the event.
type Beneficiary struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
}

// MaterialResource is one material line of the inventory resource.
type MaterialResource struct {
	ID               uint            `json:"id"`
	Name             string          `json:"name"`
	Reference        string          `json:"reference"`
	ReplacementPrice decimal.Decimal `json:"replacement_price"`
	IsUnitary        bool            `json:"is_unitary"`
	Pivot            Pivot           `json:"pivot"`
	Units            []quantity.Unit `json:"units,omitempty"`
}

// Pivot carries the booked and counted quantities of a material line.
// Returned/broken are nil until a first draft save happened.
type Pivot struct {
	Quantity         int  `json:"quantity"`
	QuantityReturned *int `json:"quantity_returned,omitempty"`
	QuantityBroken   *int `json:"quantity_broken,omitempty"`
}

// QuantityPayload is one material line of a save/terminate request.
type QuantityPayload struct {
	ID     uint            `json:"id"`
	Actual int             `json:"actual"`
	Broken int             `json:"broken"`
	Units  []quantity.Unit `json:"units,omitempty"`
}

// Syncer is the boundary to the remote inventory API. Implementations
// must return *ValidationError for code-400 payloads so the session
// can attach field errors; any other error is treated as a generic
// network/server failure and left retryable.
type Syncer interface {
	// Fetch loads the inventory resource for the given event.
	Fetch(ctx context.Context, id uint) (*Resource, error)

	// Save persists a draft of the counted quantities and returns the
	// updated resource.
	Save(ctx context.Context, id uint, quantities []QuantityPayload) (*Resource, error)

	// Terminate closes the inventory. The server accepts a successful
	// terminate only once; later calls are rejected remotely.
	Terminate(ctx context.Context, id uint, quantities []QuantityPayload) (*Resource, error)
}
