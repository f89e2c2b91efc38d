package quantity

// Record tracks the counted quantities for a single material of an
// inventory. Awaited is fixed by the booking when the inventory is
// loaded; Actual and Broken are operator input.
type Record struct {
	// MaterialID is the identifier of the material definition.
	MaterialID uint `json:"material_id"`

	// Awaited is the quantity expected to be present or returned.
	Awaited int `json:"awaited"`

	// Actual is the counted quantity of present/returned items.
	Actual int `json:"actual"`

	// Broken is the quantity reported damaged among Actual.
	Broken int `json:"broken"`
}

// IsComplete reports whether the counted quantity covers the awaited one.
// The boundary counts: actual == awaited is complete.
func (r Record) IsComplete() bool {
	return r.Actual >= r.Awaited
}

// HasDiscrepancy reports whether the record needs attention at summary
// time: either items are missing or some are broken.
func (r Record) HasDiscrepancy() bool {
	return r.Broken > 0 || !r.IsComplete()
}

// Missing returns the number of awaited items not accounted for.
// Never negative; lenient overages report zero missing.
func (r Record) Missing() int {
	if r.Actual >= r.Awaited {
		return 0
	}
	return r.Awaited - r.Actual
}

// Unit tracks the inventory state of a single physical unit of a
// unit-tracked material.
type Unit struct {
	// UnitID is the identifier of the physical unit.
	UnitID uint `json:"unit_id"`

	// Reference is the unit's human-readable reference code.
	Reference string `json:"reference"`

	// IsLost is true until the unit is explicitly marked present.
	// Unseen units are assumed lost.
	IsLost bool `json:"is_lost"`

	// IsBroken marks the unit as damaged. A broken unit is necessarily
	// present: it cannot also count as lost.
	IsBroken bool `json:"is_broken"`

	// State is the free-form state code carried over from the unit's
	// last known state unless overridden during the inventory.
	State string `json:"state,omitempty"`
}

// ClampActual normalizes a candidate actual quantity. The result is
// never negative, and never exceeds awaited under the strict policy.
func ClampActual(candidate, awaited int, strict bool) int {
	if candidate < 0 {
		return 0
	}
	if strict && candidate > awaited {
		return awaited
	}
	return candidate
}

// ClampBroken normalizes a candidate broken quantity against the
// current actual count. Under the strict policy the bound is
// min(actual, awaited); lenient mode bounds by actual only.
func ClampBroken(candidate, actual, awaited int, strict bool) int {
	if candidate < 0 {
		return 0
	}
	bound := actual
	if strict && awaited < bound {
		bound = awaited
	}
	if candidate > bound {
		return bound
	}
	return candidate
}

// CountUnits derives the aggregate actual/broken counts from a set of
// unit records. Lost units never contribute to actual; broken units
// always do.
func CountUnits(units []Unit) (actual, broken int) {
	for _, u := range units {
		if u.IsBroken {
			actual++
			broken++
			continue
		}
		if !u.IsLost {
			actual++
		}
	}
	return actual, broken
}
