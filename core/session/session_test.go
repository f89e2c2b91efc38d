package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-manager/core/quantity"
)

// mockSyncer is a function-backed Syncer for session tests.
type mockSyncer struct {
	fetchFn     func(ctx context.Context, id uint) (*Resource, error)
	saveFn      func(ctx context.Context, id uint, q []QuantityPayload) (*Resource, error)
	terminateFn func(ctx context.Context, id uint, q []QuantityPayload) (*Resource, error)

	saveCalls      int32
	terminateCalls int32
}

func (m *mockSyncer) Fetch(ctx context.Context, id uint) (*Resource, error) {
	return m.fetchFn(ctx, id)
}

func (m *mockSyncer) Save(ctx context.Context, id uint, q []QuantityPayload) (*Resource, error) {
	atomic.AddInt32(&m.saveCalls, 1)
	return m.saveFn(ctx, id, q)
}

func (m *mockSyncer) Terminate(ctx context.Context, id uint, q []QuantityPayload) (*Resource, error) {
	atomic.AddInt32(&m.terminateCalls, 1)
	return m.terminateFn(ctx, id, q)
}

func intPtr(v int) *int { return &v }

func testResource(awaited ...int) *Resource {
	res := &Resource{ID: 42}
	for i, qty := range awaited {
		res.Materials = append(res.Materials, MaterialResource{
			ID:    uint(i + 1),
			Name:  "material",
			Pivot: Pivot{Quantity: qty},
		})
	}
	return res
}

func TestSetActual_StrictClampAndCascade(t *testing.T) {
	// awaited=5, strict: actual clamps to 5, then broken edits cap at 5.
	s := FromResource(testResource(5), nil, Config{Strict: true})

	s.SetActual(1, 7)
	rec, ok := s.Record(1)
	require.True(t, ok)
	assert.Equal(t, 5, rec.Actual)

	s.SetBroken(1, 6)
	rec, _ = s.Record(1)
	assert.Equal(t, 5, rec.Broken)
	assert.Equal(t, 5, rec.Actual)
}

func TestSetBroken_LenientRaisesActual(t *testing.T) {
	// awaited=5, lenient: negative actual clamps to 0, then marking 2
	// broken implicitly marks them present.
	s := FromResource(testResource(5), nil, Config{})

	s.SetActual(1, -3)
	rec, _ := s.Record(1)
	assert.Equal(t, 0, rec.Actual)

	s.SetBroken(1, 2)
	rec, _ = s.Record(1)
	assert.Equal(t, 2, rec.Broken)
	assert.Equal(t, 2, rec.Actual)
}

func TestSetActual_PullsBrokenDown(t *testing.T) {
	s := FromResource(testResource(10), nil, Config{})

	s.SetActual(1, 8)
	s.SetBroken(1, 6)
	s.SetActual(1, 3)

	rec, _ := s.Record(1)
	assert.Equal(t, 3, rec.Actual)
	assert.Equal(t, 3, rec.Broken, "broken must follow actual down")
}

func TestBrokenNeverExceedsActual(t *testing.T) {
	// The invariant holds after edits in either order.
	for _, strict := range []bool{true, false} {
		s := FromResource(testResource(5, 5), nil, Config{Strict: strict})
		for _, edit := range []struct {
			actualFirst bool
			actual      int
			broken      int
		}{
			{true, 7, 6}, {false, 7, 6}, {true, -1, 3}, {false, -1, 3},
			{true, 2, 9}, {false, 2, 9},
		} {
			if edit.actualFirst {
				s.SetActual(1, edit.actual)
				s.SetBroken(1, edit.broken)
			} else {
				s.SetBroken(1, edit.broken)
				s.SetActual(1, edit.actual)
			}
			rec, _ := s.Record(1)
			assert.LessOrEqual(t, rec.Broken, rec.Actual)
			assert.GreaterOrEqual(t, rec.Broken, 0)
		}
	}
}

func TestSetActual_Idempotent(t *testing.T) {
	s := FromResource(testResource(5), nil, Config{Strict: true})

	clamped := quantity.ClampActual(9, 5, true)
	s.SetActual(1, clamped)
	once, _ := s.Record(1)
	s.SetActual(1, clamped)
	twice, _ := s.Record(1)

	assert.Equal(t, once, twice)
}

func TestRejectOutOfRange(t *testing.T) {
	s := FromResource(testResource(5), nil, Config{Strict: true, RejectOutOfRange: true})

	s.SetActual(1, 3)
	s.SetActual(1, 9) // ignored, not clamped
	rec, _ := s.Record(1)
	assert.Equal(t, 3, rec.Actual)
}

func TestOnChangeObservation(t *testing.T) {
	var changes []Change
	s := FromResource(testResource(5), nil, Config{OnChange: func(c Change) {
		changes = append(changes, c)
	}})

	s.SetActual(1, 4)
	s.SetBroken(1, 2)

	require.Len(t, changes, 2)
	assert.Equal(t, Change{MaterialID: 1, Actual: 4, Broken: 0}, changes[0])
	assert.Equal(t, Change{MaterialID: 1, Actual: 4, Broken: 2}, changes[1])
}

func TestCompleteness(t *testing.T) {
	s := FromResource(testResource(5, 3), nil, Config{})

	s.SetActual(1, 5)
	assert.True(t, s.IsComplete(1))
	assert.False(t, s.IsComplete(2))
	assert.False(t, s.AllComplete())
	assert.False(t, s.HasDiscrepancy(1))
	assert.True(t, s.HasDiscrepancy(2))

	s.SetBroken(1, 1)
	assert.True(t, s.HasDiscrepancy(1), "broken items are a discrepancy even when complete")

	s.SetActual(2, 3)
	s.SetBroken(1, 0)
	assert.True(t, s.AllComplete())
}

func TestSave_SingleInFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	syncer := &mockSyncer{
		saveFn: func(ctx context.Context, id uint, q []QuantityPayload) (*Resource, error) {
			close(started)
			<-release
			return testResource(5), nil
		},
	}
	s := FromResource(testResource(5), syncer, Config{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.Save(context.Background())
	}()

	<-started
	assert.Equal(t, StatusSaving, s.Status())

	// Re-entrant save is a no-op: no second request is issued.
	err := s.Save(context.Background())
	assert.NoError(t, err)

	// Terminate is mutually exclusive with the in-flight save.
	err = s.Terminate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&syncer.terminateCalls))

	close(release)
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&syncer.saveCalls))
	assert.Equal(t, StatusDraft, s.Status())
}

func TestSave_ValidationFailureKeepsEdits(t *testing.T) {
	syncer := &mockSyncer{
		saveFn: func(ctx context.Context, id uint, q []QuantityPayload) (*Resource, error) {
			return nil, &ValidationError{Code: 400, Details: map[string][]string{
				"0.actual": {"too high"},
			}}
		},
	}
	s := FromResource(testResource(5), syncer, Config{})
	s.SetActual(1, 4)

	err := s.Save(context.Background())
	require.Error(t, err)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, 400, ve.Code)

	assert.Equal(t, StatusDraft, s.Status())
	assert.Equal(t, []string{"too high"}, s.ValidationErrors()["0.actual"])

	// Local edits survive a failed save.
	rec, _ := s.Record(1)
	assert.Equal(t, 4, rec.Actual)
}

func TestSave_SuccessReplacesBaseline(t *testing.T) {
	updated := testResource(5)
	updated.Materials[0].Pivot.QuantityReturned = intPtr(4)
	updated.Materials[0].Pivot.QuantityBroken = intPtr(1)

	syncer := &mockSyncer{
		saveFn: func(ctx context.Context, id uint, q []QuantityPayload) (*Resource, error) {
			return updated, nil
		},
	}
	s := FromResource(testResource(5), syncer, Config{})
	s.SetActual(1, 4)
	s.SetBroken(1, 1)

	require.NoError(t, s.Save(context.Background()))
	assert.Equal(t, StatusDraft, s.Status())
	assert.Empty(t, s.ValidationErrors())

	rec, _ := s.Record(1)
	assert.Equal(t, quantity.Record{MaterialID: 1, Awaited: 5, Actual: 4, Broken: 1}, rec)
}

func TestSave_PayloadSnapshotInBaselineOrder(t *testing.T) {
	var got []QuantityPayload
	syncer := &mockSyncer{
		saveFn: func(ctx context.Context, id uint, q []QuantityPayload) (*Resource, error) {
			got = q
			return testResource(5, 3), nil
		},
	}
	s := FromResource(testResource(5, 3), syncer, Config{})
	s.SetActual(2, 3)
	s.SetActual(1, 4)

	require.NoError(t, s.Save(context.Background()))
	require.Len(t, got, 2)
	assert.Equal(t, uint(1), got[0].ID)
	assert.Equal(t, 4, got[0].Actual)
	assert.Equal(t, uint(2), got[1].ID)
	assert.Equal(t, 3, got[1].Actual)
}

func TestTerminate_IncompletePermitted(t *testing.T) {
	// The confirmation prompt is an external UX gate; the session
	// itself lets an incomplete terminate through.
	done := testResource(5)
	done.IsReturnInventoryDone = true
	syncer := &mockSyncer{
		terminateFn: func(ctx context.Context, id uint, q []QuantityPayload) (*Resource, error) {
			return done, nil
		},
	}
	s := FromResource(testResource(5), syncer, Config{})
	s.SetActual(1, 3)

	gate := s.Gate()
	assert.Equal(t, []uint{1}, gate.Incomplete)
	assert.False(t, gate.Clean())

	require.NoError(t, s.Terminate(context.Background()))
	assert.Equal(t, StatusTerminated, s.Status())

	// Terminated sessions are read-only.
	s.SetActual(1, 5)
	rec, _ := s.Record(1)
	assert.Equal(t, 0, rec.Actual, "displayed values come from server state")

	assert.ErrorIs(t, s.Save(context.Background()), ErrSessionLocked)
	assert.ErrorIs(t, s.Terminate(context.Background()), ErrSessionLocked)
}

func TestTerminate_FailureRevertsToDraft(t *testing.T) {
	syncer := &mockSyncer{
		terminateFn: func(ctx context.Context, id uint, q []QuantityPayload) (*Resource, error) {
			return nil, assert.AnError
		},
	}
	s := FromResource(testResource(5), syncer, Config{})
	s.SetActual(1, 5)

	err := s.Terminate(context.Background())
	require.Error(t, err)
	_, isValidation := AsValidationError(err)
	assert.False(t, isValidation)
	assert.Equal(t, StatusDraft, s.Status())

	// Retryable: a second attempt goes out.
	syncer.terminateFn = func(ctx context.Context, id uint, q []QuantityPayload) (*Resource, error) {
		done := testResource(5)
		done.IsReturnInventoryDone = true
		return done, nil
	}
	require.NoError(t, s.Terminate(context.Background()))
	assert.Equal(t, StatusTerminated, s.Status())
}

func TestClose_DiscardsInFlightResponse(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	updated := testResource(5)
	updated.Materials[0].Pivot.QuantityReturned = intPtr(5)
	syncer := &mockSyncer{
		saveFn: func(ctx context.Context, id uint, q []QuantityPayload) (*Resource, error) {
			close(started)
			<-release
			return updated, nil
		},
	}
	s := FromResource(testResource(5), syncer, Config{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.Save(context.Background())
	}()

	<-started
	s.Close()
	close(release)
	wg.Wait()

	// The late response was not applied.
	rec, _ := s.Record(1)
	assert.Equal(t, 0, rec.Actual)
}

func TestUnitTracking(t *testing.T) {
	res := testResource(3)
	res.Materials[0].IsUnitary = true
	res.Materials[0].Units = []quantity.Unit{
		{UnitID: 10, Reference: "U-10", State: "good"},
		{UnitID: 11, Reference: "U-11", State: "worn"},
		{UnitID: 12, Reference: "U-12", State: "good"},
	}
	s := FromResource(res, nil, Config{})

	// Fresh inventory: units start out assumed lost.
	rec, _ := s.Record(1)
	assert.Equal(t, 0, rec.Actual)
	for _, u := range s.Units(1) {
		assert.True(t, u.IsLost)
	}

	// Aggregate edits are ignored for unit-tracked materials.
	s.SetActual(1, 3)
	rec, _ = s.Record(1)
	assert.Equal(t, 0, rec.Actual)

	s.SetUnitPresent(1, 10, true)
	s.SetUnitBroken(1, 11, true) // broken implies present
	rec, _ = s.Record(1)
	assert.Equal(t, 2, rec.Actual)
	assert.Equal(t, 1, rec.Broken)

	s.SetUnitState(1, 11, "broken")
	units := s.Units(1)
	assert.Equal(t, "broken", units[1].State)
	assert.False(t, units[1].IsLost)
}

func TestDiscrepancyReport(t *testing.T) {
	res := testResource(5, 2)
	res.Materials[0].Name = "Projector"
	res.Materials[0].Reference = "PRJ-1"
	res.Materials[0].ReplacementPrice = decimal.NewFromInt(300)
	res.Materials[1].Name = "Cable"
	res.Materials[1].Reference = "CBL-1"
	res.Materials[1].ReplacementPrice = decimal.NewFromInt(10)

	s := FromResource(res, nil, Config{})
	s.SetActual(1, 4)
	s.SetBroken(1, 1)
	s.SetActual(2, 2)

	report := s.Discrepancies()
	require.Len(t, report.Discrepancies, 1)
	d := report.Discrepancies[0]
	assert.Equal(t, uint(1), d.MaterialID)
	assert.Equal(t, 1, d.Missing)
	assert.Equal(t, 1, d.Broken)
	// 1 missing + 1 broken at 300 each.
	assert.True(t, decimal.NewFromInt(600).Equal(d.ReplacementValue))
	assert.True(t, decimal.NewFromInt(600).Equal(report.TotalReplacementValue))
	assert.Equal(t, 1, report.TotalMissing)
	assert.Equal(t, 1, report.TotalBroken)
	assert.False(t, report.Clean())
}

func TestFromResource_AlreadyTerminated(t *testing.T) {
	res := testResource(5)
	res.IsReturnInventoryDone = true
	res.Materials[0].Pivot.QuantityReturned = intPtr(5)

	s := FromResource(res, nil, Config{})
	assert.Equal(t, StatusTerminated, s.Status())

	rec, _ := s.Record(1)
	assert.Equal(t, 5, rec.Actual)
}

func TestOpen_FetchError(t *testing.T) {
	syncer := &mockSyncer{
		fetchFn: func(ctx context.Context, id uint) (*Resource, error) {
			return nil, assert.AnError
		},
	}
	_, err := Open(context.Background(), syncer, 42, Config{})
	assert.Error(t, err)
}
