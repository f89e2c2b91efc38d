package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryResource is the REST representation of an event's return
// inventory.
type InventoryResource struct {
	ID                    uint                  `json:"id"`
	Title                 string                `json:"title"`
	Beneficiaries         []BeneficiaryResource `json:"beneficiaries"`
	StartDate             time.Time             `json:"start_date"`
	EndDate               time.Time             `json:"end_date"`
	IsReturnInventoryDone bool                  `json:"is_return_inventory_done"`
	Materials             []MaterialLine        `json:"materials"`
}

// BeneficiaryResource is the REST representation of a borrower.
type BeneficiaryResource struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
}

// MaterialLine is one material of the inventory resource.
type MaterialLine struct {
	ID               uint            `json:"id"`
	Name             string          `json:"name"`
	Reference        string          `json:"reference"`
	ReplacementPrice decimal.Decimal `json:"replacement_price"`
	IsUnitary        bool            `json:"is_unitary"`
	Pivot            PivotResource   `json:"pivot"`
	Units            []UnitResource  `json:"units,omitempty"`
}

// PivotResource carries the booked and counted quantities of a line.
type PivotResource struct {
	Quantity         int  `json:"quantity"`
	QuantityReturned *int `json:"quantity_returned,omitempty"`
	QuantityBroken   *int `json:"quantity_broken,omitempty"`
}

// UnitResource is the REST representation of a physical unit.
type UnitResource struct {
	UnitID    uint   `json:"unit_id"`
	Reference string `json:"reference"`
	IsLost    bool   `json:"is_lost"`
	IsBroken  bool   `json:"is_broken"`
	State     string `json:"state,omitempty"`
}

// QuantityInput is one material line of a save/terminate request body.
type QuantityInput struct {
	ID     uint        `json:"id"`
	Actual int         `json:"actual"`
	Broken int         `json:"broken"`
	Units  []UnitInput `json:"units,omitempty"`
}

// UnitInput is the per-unit part of a save/terminate request body.
type UnitInput struct {
	UnitID   uint   `json:"unit_id"`
	IsLost   bool   `json:"is_lost"`
	IsBroken bool   `json:"is_broken"`
	State    string `json:"state,omitempty"`
}

// ToResource maps a loaded event to its REST representation. Materials
// keep the pivot ordering of the query.
func (e *Event) ToResource() *InventoryResource {
	res := &InventoryResource{
		ID:                    e.ID,
		Title:                 e.Title,
		Beneficiaries:         make([]BeneficiaryResource, 0, len(e.Beneficiaries)),
		StartDate:             e.StartDate,
		EndDate:               e.EndDate,
		IsReturnInventoryDone: e.IsReturnInventoryDone,
		Materials:             make([]MaterialLine, 0, len(e.Materials)),
	}

	for _, b := range e.Beneficiaries {
		res.Beneficiaries = append(res.Beneficiaries, BeneficiaryResource{
			ID:       b.ID,
			FullName: b.FullName(),
		})
	}

	for _, em := range e.Materials {
		line := MaterialLine{
			ID:               em.MaterialID,
			Name:             em.Material.Name,
			Reference:        em.Material.Reference,
			ReplacementPrice: em.Material.ReplacementPrice,
			IsUnitary:        em.Material.IsUnitary,
			Pivot: PivotResource{
				Quantity:         em.Quantity,
				QuantityReturned: em.QuantityReturned,
				QuantityBroken:   em.QuantityReturnedBroken,
			},
		}
		for _, u := range em.Material.Units {
			line.Units = append(line.Units, UnitResource{
				UnitID:    u.ID,
				Reference: u.Reference,
				IsLost:    u.IsLost,
				IsBroken:  u.IsBroken,
				State:     u.State,
			})
		}
		res.Materials = append(res.Materials, line)
	}

	return res
}
