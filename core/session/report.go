package session

import (
	"github.com/shopspring/decimal"
)

// Discrepancy describes one material needing attention at summary
// time: items missing, broken, or both.
type Discrepancy struct {
	MaterialID uint   `json:"material_id"`
	Name       string `json:"name"`
	Reference  string `json:"reference"`
	Awaited    int    `json:"awaited"`
	Actual     int    `json:"actual"`
	Broken     int    `json:"broken"`
	Missing    int    `json:"missing"`

	// ReplacementValue is the replacement price of the missing and
	// broken items of this line.
	ReplacementValue decimal.Decimal `json:"replacement_value"`
}

// Report aggregates the problems of an inventory session.
type Report struct {
	Discrepancies []Discrepancy `json:"discrepancies"`

	// TotalMissing and TotalBroken are item counts across all lines.
	TotalMissing int `json:"total_missing"`
	TotalBroken  int `json:"total_broken"`

	// TotalReplacementValue sums the per-line replacement values.
	TotalReplacementValue decimal.Decimal `json:"total_replacement_value"`
}

// Clean reports whether the inventory has no problem to surface.
func (r Report) Clean() bool {
	return len(r.Discrepancies) == 0
}

// Discrepancies builds the problems report for the session, in
// baseline order. Lines without discrepancy are omitted.
func (s *Session) Discrepancies() Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	prices := make(map[uint]decimal.Decimal, len(s.resource.Materials))
	names := make(map[uint]MaterialResource, len(s.resource.Materials))
	for _, m := range s.resource.Materials {
		prices[m.ID] = m.ReplacementPrice
		names[m.ID] = m
	}

	report := Report{TotalReplacementValue: decimal.Zero}
	for _, base := range s.baseline {
		rec := s.quantities[base.MaterialID]
		if !rec.HasDiscrepancy() {
			continue
		}
		m := names[rec.MaterialID]
		missing := rec.Missing()
		value := prices[rec.MaterialID].Mul(decimal.NewFromInt(int64(missing + rec.Broken)))
		report.Discrepancies = append(report.Discrepancies, Discrepancy{
			MaterialID:       rec.MaterialID,
			Name:             m.Name,
			Reference:        m.Reference,
			Awaited:          rec.Awaited,
			Actual:           rec.Actual,
			Broken:           rec.Broken,
			Missing:          missing,
			ReplacementValue: value,
		})
		report.TotalMissing += missing
		report.TotalBroken += rec.Broken
		report.TotalReplacementValue = report.TotalReplacementValue.Add(value)
	}
	return report
}
