// internal/domain/lot/reconciler_test.go
package lot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentAvailableSumsOnlyThisLot(t *testing.T) {
	l := &ProductionLot{ID: 1, InitialBagCount: 50}

	events := []BagConsumptionEvent{
		{LotID: 1, Quantity: 10},
		{LotID: 1, Quantity: 5},
		{LotID: 2, Quantity: 40}, // different lot
	}

	assert.Equal(t, 35, CurrentAvailable(l, events))
}

func TestCurrentAvailableNoEvents(t *testing.T) {
	l := &ProductionLot{ID: 1, InitialBagCount: 20}
	assert.Equal(t, 20, CurrentAvailable(l, nil))
}

func TestReconcileExactDepletion(t *testing.T) {
	l := &ProductionLot{ID: 1, InitialBagCount: 10}

	available, err := Reconcile(l, []BagConsumptionEvent{
		{LotID: 1, Quantity: 4},
		{LotID: 1, Quantity: 6},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, available)
}

func TestReconcileNegativeAvailabilityIsFatal(t *testing.T) {
	l := &ProductionLot{ID: 1, LotCode: "LOT-20250101-00007", InitialBagCount: 10}

	available, err := Reconcile(l, []BagConsumptionEvent{
		{LotID: 1, Quantity: 8},
		{LotID: 1, Quantity: 5},
	})

	var negative *NegativeAvailabilityError
	require.ErrorAs(t, err, &negative)
	assert.Equal(t, "LOT-20250101-00007", negative.LotCode)
	assert.Equal(t, -3, negative.Computed)
	assert.Equal(t, -3, available)
}

func TestReconcileIsOrderIndependent(t *testing.T) {
	l := &ProductionLot{ID: 1, InitialBagCount: 30}

	forward := []BagConsumptionEvent{
		{LotID: 1, Quantity: 3},
		{LotID: 1, Quantity: 7},
		{LotID: 1, Quantity: 10},
	}
	reversed := []BagConsumptionEvent{forward[2], forward[1], forward[0]}

	a, err := Reconcile(l, forward)
	require.NoError(t, err)
	b, err := Reconcile(l, reversed)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, 10, a)
}
