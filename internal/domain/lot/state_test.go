// internal/domain/lot/state_test.go
package lot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanConsume(t *testing.T) {
	l := &ProductionLot{LotCode: "LOT-20250101-00001", State: LotStateIncubating}

	assert.NoError(t, CanConsume(l, 10, 10))
	assert.NoError(t, CanConsume(l, 10, 1))

	err := CanConsume(l, 10, 11)
	var exceeds *ExceedsAvailableError
	require.ErrorAs(t, err, &exceeds)
	assert.Equal(t, "LOT-20250101-00001", exceeds.LotCode)
	assert.Equal(t, 11, exceeds.Requested)
	assert.Equal(t, 10, exceeds.Available)

	assert.ErrorIs(t, CanConsume(l, 10, 0), ErrNonPositiveQuantity)
	assert.ErrorIs(t, CanConsume(l, 10, -2), ErrNonPositiveQuantity)
}

func TestCanConsumeDepletedLotRejectsEverything(t *testing.T) {
	l := &ProductionLot{State: LotStateDepleted}

	assert.ErrorIs(t, CanConsume(l, 0, 1), ErrLotDepleted)
	// State wins over the count, even if the numbers would allow it
	assert.ErrorIs(t, CanConsume(l, 5, 1), ErrLotDepleted)
}

func TestCanConsumeRefrigeratedLotStillConsumes(t *testing.T) {
	l := &ProductionLot{State: LotStateRefrigerated}
	assert.NoError(t, CanConsume(l, 3, 2))
}

func TestCanRefrigerate(t *testing.T) {
	incubating := &ProductionLot{State: LotStateIncubating}
	assert.NoError(t, CanRefrigerate(incubating, 5))

	refrigerated := &ProductionLot{State: LotStateRefrigerated}
	assert.ErrorIs(t, CanRefrigerate(refrigerated, 5), ErrAlreadyRefrigerated)

	depleted := &ProductionLot{State: LotStateDepleted}
	assert.ErrorIs(t, CanRefrigerate(depleted, 0), ErrLotDepleted)

	assert.Error(t, CanRefrigerate(&ProductionLot{State: LotStateIncubating}, 0))
}

func TestNextStateDerivesDepletion(t *testing.T) {
	incubating := &ProductionLot{State: LotStateIncubating}
	assert.Equal(t, LotStateIncubating, NextState(incubating, 3))
	assert.Equal(t, LotStateDepleted, NextState(incubating, 0))

	refrigerated := &ProductionLot{State: LotStateRefrigerated}
	assert.Equal(t, LotStateRefrigerated, NextState(refrigerated, 1))
	assert.Equal(t, LotStateDepleted, NextState(refrigerated, 0))
}

func TestNormalizeStateLegacySpellings(t *testing.T) {
	cases := map[string]LotState{
		"incubating":    LotStateIncubating,
		"Incubación":    LotStateIncubating,
		"refrigerated":  LotStateRefrigerated,
		"Refrigeración": LotStateRefrigerated,
		"Refrigerado":   LotStateRefrigerated,
		"depleted":      LotStateDepleted,
		"Agotado":       LotStateDepleted,
	}

	for raw, want := range cases {
		got, err := NormalizeState(raw)
		require.NoError(t, err, "raw %q", raw)
		assert.Equal(t, want, got, "raw %q", raw)
	}

	_, err := NormalizeState("frozen")
	assert.Error(t, err)
}
