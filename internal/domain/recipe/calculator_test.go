// internal/domain/recipe/calculator_test.go
package recipe

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecipe() *Recipe {
	return &Recipe{
		ID:   1,
		Name: "Producción de cepas",
		Items: []RecipeItem{
			{SupplyID: 1, PerUnitQuantity: decimal.NewFromInt(300), Unit: "g"},
			{SupplyID: 2, PerUnitQuantity: decimal.NewFromInt(90), Unit: "mL"},
			{SupplyID: 3, PerUnitQuantity: decimal.NewFromFloat(0.009), Unit: "g"},
			{SupplyID: 4, PerUnitQuantity: decimal.NewFromInt(1), Unit: "unit"},
		},
	}
}

func TestComputeRequiredSuppliesScalesLinearly(t *testing.T) {
	required, err := ComputeRequiredSupplies(testRecipe(), 50)
	require.NoError(t, err)
	require.Len(t, required, 4)

	assert.True(t, decimal.NewFromInt(15000).Equal(required[0].Quantity), "got %s", required[0].Quantity)
	assert.True(t, decimal.NewFromInt(4500).Equal(required[1].Quantity), "got %s", required[1].Quantity)
	assert.True(t, decimal.NewFromFloat(0.45).Equal(required[2].Quantity), "got %s", required[2].Quantity)
	assert.True(t, decimal.NewFromInt(50).Equal(required[3].Quantity), "got %s", required[3].Quantity)
}

func TestComputeRequiredSuppliesBatchOfOne(t *testing.T) {
	r := testRecipe()
	required, err := ComputeRequiredSupplies(r, 1)
	require.NoError(t, err)

	for i, line := range required {
		assert.True(t, r.Items[i].PerUnitQuantity.Equal(line.Quantity))
		assert.Equal(t, r.Items[i].SupplyID, line.SupplyID)
		assert.Equal(t, r.Items[i].Unit, line.Unit)
	}
}

func TestComputeRequiredSuppliesKeepsFractionalPrecision(t *testing.T) {
	r := &Recipe{Items: []RecipeItem{
		{SupplyID: 7, PerUnitQuantity: decimal.NewFromFloat(0.009), Unit: "g"},
	}}

	required, err := ComputeRequiredSupplies(r, 3)
	require.NoError(t, err)
	assert.Equal(t, "0.027", required[0].Quantity.String())
}

func TestComputeRequiredSuppliesInvalidBatchSize(t *testing.T) {
	_, err := ComputeRequiredSupplies(testRecipe(), 0)
	assert.ErrorIs(t, err, ErrInvalidBatchSize)

	_, err = ComputeRequiredSupplies(testRecipe(), -5)
	assert.ErrorIs(t, err, ErrInvalidBatchSize)
}

func TestComputeRequiredSuppliesEmptyRecipe(t *testing.T) {
	required, err := ComputeRequiredSupplies(&Recipe{}, 10)
	require.NoError(t, err)
	assert.Empty(t, required)
}
