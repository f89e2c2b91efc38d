package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"rental-manager/core/quantity"
)

// Status is the lifecycle state of an inventory session.
type Status string

const (
	// StatusDraft is the editable state; saves and terminates start here.
	StatusDraft Status = "draft"
	// StatusSaving means a draft save is in flight.
	StatusSaving Status = "saving"
	// StatusTerminating means a terminate request is in flight.
	StatusTerminating Status = "terminating"
	// StatusTerminated is final; the session is read-only.
	StatusTerminated Status = "terminated"
)

// Change describes a quantity edit applied to the session. It carries
// the normalized values after clamping and cascading.
type Change struct {
	MaterialID uint
	Actual     int
	Broken     int
}

// Config controls the reconciliation policy of a session.
type Config struct {
	// Strict clamps actual/broken to never exceed the awaited quantity.
	// Used for departure inventories; return inventories are lenient.
	Strict bool

	// RejectOutOfRange ignores edits that would need correction instead
	// of clamping them.
	RejectOutOfRange bool

	// OnChange, when set, is invoked after every applied quantity edit.
	OnChange func(Change)

	// Logger receives clamp warnings. Defaults to a no-op logger.
	Logger *zap.Logger
}

// TerminateGate lists the materials that should trigger a confirmation
// prompt before terminating. The session itself never blocks a
// terminate; the prompt is a UX concern of the caller.
type TerminateGate struct {
	// Incomplete lists materials with actual < awaited.
	Incomplete []uint

	// Broken lists materials with broken items. Broken items warrant a
	// different confirmation message than simple incompleteness.
	Broken []uint
}

// Clean reports whether no confirmation is needed.
func (g TerminateGate) Clean() bool {
	return len(g.Incomplete) == 0 && len(g.Broken) == 0
}

// Session owns the quantities of one inventory and drives its
// lifecycle against the remote API. All methods are safe for
// concurrent use; the quantities map is never mutated outside of it.
type Session struct {
	mu     sync.Mutex
	syncer Syncer
	cfg    Config
	log    *zap.Logger

	id         uint
	resource   *Resource
	baseline   []quantity.Record
	quantities map[uint]*quantity.Record
	units      map[uint][]quantity.Unit

	status           Status
	validationErrors map[string][]string

	// seq fences in-flight responses: a response is applied only if no
	// newer request was issued and the session was not closed meanwhile.
	seq    uint64
	closed bool
}

// Open fetches the inventory resource for the given event and builds a
// session from it.
func Open(ctx context.Context, syncer Syncer, id uint, cfg Config) (*Session, error) {
	res, err := syncer.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromResource(res, syncer, cfg), nil
}

// FromResource builds a session from an already-fetched resource.
func FromResource(res *Resource, syncer Syncer, cfg Config) *Session {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		syncer:           syncer,
		cfg:              cfg,
		log:              log,
		id:               res.ID,
		status:           StatusDraft,
		validationErrors: map[string][]string{},
	}
	s.applyResourceLocked(res)
	return s
}

// applyResourceLocked replaces the baseline and the mutable quantities
// with server state. Callers must hold the lock (or own the session
// exclusively, as during construction).
func (s *Session) applyResourceLocked(res *Resource) {
	s.resource = res
	s.baseline = make([]quantity.Record, 0, len(res.Materials))
	s.quantities = make(map[uint]*quantity.Record, len(res.Materials))
	s.units = make(map[uint][]quantity.Unit)

	for _, m := range res.Materials {
		rec := quantity.Record{
			MaterialID: m.ID,
			Awaited:    m.Pivot.Quantity,
		}
		if m.Pivot.QuantityReturned != nil {
			rec.Actual = *m.Pivot.QuantityReturned
		}
		if m.Pivot.QuantityBroken != nil {
			rec.Broken = *m.Pivot.QuantityBroken
		}
		s.baseline = append(s.baseline, rec)

		mutable := rec
		s.quantities[m.ID] = &mutable

		if len(m.Units) > 0 {
			units := make([]quantity.Unit, len(m.Units))
			copy(units, m.Units)
			if m.Pivot.QuantityReturned == nil {
				// Fresh inventory: every unit is assumed lost until the
				// operator marks it present.
				for i := range units {
					units[i].IsLost = true
					units[i].IsBroken = false
				}
			}
			s.units[m.ID] = units
		}
	}

	if res.IsReturnInventoryDone {
		s.status = StatusTerminated
	}
}

// ID returns the event/inventory identifier.
func (s *Session) ID() uint {
	return s.id
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Resource returns the last server state applied to the session.
func (s *Session) Resource() *Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resource
}

// ValidationErrors returns a copy of the field errors from the last
// failed save or terminate, keyed by field path ("0.actual").
func (s *Session) ValidationErrors() map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]string, len(s.validationErrors))
	for k, v := range s.validationErrors {
		msgs := make([]string, len(v))
		copy(msgs, v)
		out[k] = msgs
	}
	return out
}

// Record returns a copy of the current quantity record for a material.
func (s *Session) Record(materialID uint) (quantity.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.quantities[materialID]
	if !ok {
		return quantity.Record{}, false
	}
	return *rec, true
}

// Units returns a copy of the unit records for a unit-tracked material.
func (s *Session) Units(materialID uint) []quantity.Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	units, ok := s.units[materialID]
	if !ok {
		return nil
	}
	out := make([]quantity.Unit, len(units))
	copy(out, units)
	return out
}

// SetActual applies a raw actual-quantity edit for a material. The
// value is normalized per the session policy, and broken is pulled
// down if it would exceed the new actual. No-op when the session is
// read-only or the material is unit-tracked.
func (s *Session) SetActual(materialID uint, raw int) {
	s.mu.Lock()
	rec, ok := s.editableRecord(materialID)
	if !ok {
		s.mu.Unlock()
		return
	}

	actual := quantity.ClampActual(raw, rec.Awaited, s.cfg.Strict)
	if actual != raw && s.rejectLocked("actual", materialID, raw, actual) {
		s.mu.Unlock()
		return
	}

	rec.Actual = actual
	if rec.Broken > rec.Actual {
		rec.Broken = rec.Actual
	}
	s.emitLocked(*rec)
}

// SetBroken applies a raw broken-quantity edit for a material. Marking
// more items broken than currently counted present implicitly marks
// them present: actual is raised to match. No-op when the session is
// read-only or the material is unit-tracked.
func (s *Session) SetBroken(materialID uint, raw int) {
	s.mu.Lock()
	rec, ok := s.editableRecord(materialID)
	if !ok {
		s.mu.Unlock()
		return
	}

	// Candidate bounded only by the policy ceiling, so the cascade can
	// raise actual before the final clamp against it.
	candidate := quantity.ClampActual(raw, rec.Awaited, s.cfg.Strict)
	if candidate != raw && s.rejectLocked("broken", materialID, raw, candidate) {
		s.mu.Unlock()
		return
	}

	if candidate > rec.Actual {
		rec.Actual = candidate
	}
	rec.Broken = quantity.ClampBroken(raw, rec.Actual, rec.Awaited, s.cfg.Strict)
	s.emitLocked(*rec)
}

// SetUnitPresent marks a unit of a unit-tracked material as present
// (or lost again) and recomputes the aggregate counts. Marking a unit
// lost also clears its broken flag.
func (s *Session) SetUnitPresent(materialID, unitID uint, present bool) {
	s.setUnit(materialID, unitID, func(u *quantity.Unit) {
		u.IsLost = !present
		if u.IsLost {
			u.IsBroken = false
		}
	})
}

// SetUnitBroken marks a unit as broken (or repaired). A broken unit is
// necessarily present.
func (s *Session) SetUnitBroken(materialID, unitID uint, broken bool) {
	s.setUnit(materialID, unitID, func(u *quantity.Unit) {
		u.IsBroken = broken
		if broken {
			u.IsLost = false
		}
	})
}

// SetUnitState overrides the free-form state code of a unit.
func (s *Session) SetUnitState(materialID, unitID uint, state string) {
	s.setUnit(materialID, unitID, func(u *quantity.Unit) {
		u.State = state
	})
}

func (s *Session) setUnit(materialID, unitID uint, mutate func(*quantity.Unit)) {
	s.mu.Lock()
	if s.readOnlyLocked() {
		s.mu.Unlock()
		return
	}
	units, ok := s.units[materialID]
	if !ok {
		s.mu.Unlock()
		return
	}
	found := false
	for i := range units {
		if units[i].UnitID == unitID {
			mutate(&units[i])
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return
	}

	rec := s.quantities[materialID]
	rec.Actual, rec.Broken = quantity.CountUnits(units)
	s.emitLocked(*rec)
}

// editableRecord returns the mutable record for a material if the
// session accepts aggregate edits for it. Callers hold the lock.
func (s *Session) editableRecord(materialID uint) (*quantity.Record, bool) {
	if s.readOnlyLocked() {
		return nil, false
	}
	if _, unitTracked := s.units[materialID]; unitTracked {
		s.log.Debug("aggregate edit ignored for unit-tracked material",
			zap.Uint("material_id", materialID))
		return nil, false
	}
	rec, ok := s.quantities[materialID]
	return rec, ok
}

func (s *Session) readOnlyLocked() bool {
	return s.closed || s.status == StatusTerminated
}

// rejectLocked decides what to do with an out-of-range edit: reject it
// (configurable), or let the caller apply the clamped value. Negative
// input is corrected silently; bound overflows are worth a warning.
func (s *Session) rejectLocked(field string, materialID uint, raw, clamped int) bool {
	if s.cfg.RejectOutOfRange {
		s.log.Warn("out-of-range quantity edit rejected",
			zap.String("field", field),
			zap.Uint("material_id", materialID),
			zap.Int("value", raw))
		return true
	}
	if raw >= 0 {
		s.log.Warn("quantity clamped",
			zap.String("field", field),
			zap.Uint("material_id", materialID),
			zap.Int("value", raw),
			zap.Int("clamped", clamped))
	}
	return false
}

// emitLocked invokes the change callback outside the lock.
func (s *Session) emitLocked(rec quantity.Record) {
	cb := s.cfg.OnChange
	s.mu.Unlock()
	if cb != nil {
		cb(Change{MaterialID: rec.MaterialID, Actual: rec.Actual, Broken: rec.Broken})
	}
}

// IsComplete reports whether the counted quantity of a material covers
// the awaited one. Unknown materials report true.
func (s *Session) IsComplete(materialID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.quantities[materialID]
	if !ok {
		return true
	}
	return rec.IsComplete()
}

// HasDiscrepancy reports whether a material is under-returned or has
// broken items.
func (s *Session) HasDiscrepancy(materialID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.quantities[materialID]
	if !ok {
		return false
	}
	return rec.HasDiscrepancy()
}

// AllComplete reports whether every material record is complete.
func (s *Session) AllComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.quantities {
		if !rec.IsComplete() {
			return false
		}
	}
	return true
}

// Gate returns the materials that warrant a confirmation prompt before
// terminating, in baseline order.
func (s *Session) Gate() TerminateGate {
	s.mu.Lock()
	defer s.mu.Unlock()
	var gate TerminateGate
	for _, base := range s.baseline {
		rec := s.quantities[base.MaterialID]
		if !rec.IsComplete() {
			gate.Incomplete = append(gate.Incomplete, rec.MaterialID)
		}
		if rec.Broken > 0 {
			gate.Broken = append(gate.Broken, rec.MaterialID)
		}
	}
	return gate
}

// Save persists the current quantities as a draft. Re-entrant calls
// while a save or terminate is in flight are no-ops. On success the
// baseline is replaced with the server response; on failure local
// edits are kept and validation errors attached.
func (s *Session) Save(ctx context.Context) error {
	return s.roundTrip(ctx, false)
}

// Terminate closes the inventory. Completeness is not enforced here:
// confirming an incomplete or broken inventory is the caller's gate
// (see Gate). On success the session becomes permanently read-only.
func (s *Session) Terminate(ctx context.Context) error {
	return s.roundTrip(ctx, true)
}

func (s *Session) roundTrip(ctx context.Context, terminate bool) error {
	s.mu.Lock()
	if s.closed || s.status == StatusTerminated {
		s.mu.Unlock()
		return ErrSessionLocked
	}
	if s.status == StatusSaving || s.status == StatusTerminating {
		// At most one operation in flight; save and terminate are
		// mutually exclusive.
		s.mu.Unlock()
		return nil
	}
	if terminate {
		s.status = StatusTerminating
	} else {
		s.status = StatusSaving
	}
	s.seq++
	seq := s.seq
	payload := s.payloadLocked()
	s.mu.Unlock()

	// Edits arriving while the request is in flight keep mutating the
	// local state; this call persists the snapshot taken above and the
	// next save picks up the rest.
	var res *Resource
	var err error
	if terminate {
		res, err = s.syncer.Terminate(ctx, s.id, payload)
	} else {
		res, err = s.syncer.Save(ctx, s.id, payload)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || seq != s.seq {
		// Stale response: the session was torn down or superseded.
		s.log.Debug("discarding stale inventory response", zap.Uint("id", s.id))
		return nil
	}

	if err != nil {
		s.status = StatusDraft
		if ve, ok := AsValidationError(err); ok {
			s.validationErrors = ve.Details
			s.log.Warn("inventory rejected by validation",
				zap.Uint("id", s.id),
				zap.Int("fields", len(ve.Details)))
		} else {
			s.log.Error("inventory sync failed", zap.Uint("id", s.id), zap.Error(err))
		}
		return err
	}

	s.validationErrors = map[string][]string{}
	s.applyResourceLocked(res)
	if terminate {
		s.status = StatusTerminated
	} else {
		s.status = StatusDraft
	}
	return nil
}

// payloadLocked snapshots the current quantities in baseline order.
func (s *Session) payloadLocked() []QuantityPayload {
	payload := make([]QuantityPayload, 0, len(s.baseline))
	for _, base := range s.baseline {
		rec := s.quantities[base.MaterialID]
		item := QuantityPayload{
			ID:     rec.MaterialID,
			Actual: rec.Actual,
			Broken: rec.Broken,
		}
		if units, ok := s.units[rec.MaterialID]; ok {
			item.Units = make([]quantity.Unit, len(units))
			copy(item.Units, units)
		}
		payload = append(payload, item)
	}
	return payload
}

// Close tears the session down. In-flight responses arriving after
// Close are discarded; there is no cancellation of the request itself.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
