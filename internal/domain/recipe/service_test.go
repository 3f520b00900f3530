// internal/domain/recipe/service_test.go
package recipe

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/biolab-backend/internal/config"
	"github.com/your-org/biolab-backend/internal/domain/supply"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRecipeTest(t *testing.T) (*Service, *supply.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&Microorganism{}, &Recipe{}, &RecipeItem{},
		&supply.Supply{}, &supply.SupplyStock{}, &supply.ConsumptionEvent{}, &supply.StockAlert{},
	))

	cfg := &config.Config{}
	supplyService := supply.NewService(db, cfg)
	return NewService(db, cfg, supplyService), supplyService, db
}

func TestCreateRecipeValidatesItems(t *testing.T) {
	recipeService, _, db := setupRecipeTest(t)

	micro := Microorganism{Name: "Trichoderma", IsActive: true}
	require.NoError(t, db.Create(&micro).Error)

	_, err := recipeService.CreateRecipe(&CreateRecipeRequest{
		MicroorganismID: micro.ID,
		Name:            "Bad recipe",
		Items: []RecipeItemRequest{
			{SupplyID: 1, PerUnitQuantity: decimal.Zero, Unit: "g"},
		},
	})
	assert.Error(t, err)

	_, err = recipeService.CreateRecipe(&CreateRecipeRequest{
		MicroorganismID: 999,
		Name:            "Orphan recipe",
	})
	assert.Error(t, err)
}

func TestCreateRecipeDefaultsYieldUnit(t *testing.T) {
	recipeService, _, db := setupRecipeTest(t)

	micro := Microorganism{Name: "Trichoderma", IsActive: true}
	require.NoError(t, db.Create(&micro).Error)

	created, err := recipeService.CreateRecipe(&CreateRecipeRequest{
		MicroorganismID: micro.ID,
		Name:            "Producción de cepas",
		Items: []RecipeItemRequest{
			{SupplyID: 1, PerUnitQuantity: decimal.NewFromInt(300), Unit: "g"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "bag", created.YieldUnit)
}

func TestGetRecipeUnknown(t *testing.T) {
	recipeService, _, _ := setupRecipeTest(t)

	_, err := recipeService.GetRecipe(42)
	assert.ErrorIs(t, err, ErrUnknownRecipe)

	_, err = recipeService.ComputeForBatch(42, 5)
	assert.ErrorIs(t, err, ErrUnknownRecipe)
}

func TestPreviewBatchFlagsUnsatisfiedSupplies(t *testing.T) {
	recipeService, supplyService, db := setupRecipeTest(t)

	micro := Microorganism{Name: "Trichoderma", IsActive: true}
	require.NoError(t, db.Create(&micro).Error)

	rice, err := supplyService.CreateSupply(&supply.CreateSupplyRequest{Name: "Arroz", Code: "ARROZ", Unit: "g"})
	require.NoError(t, err)
	bags, err := supplyService.CreateSupply(&supply.CreateSupplyRequest{Name: "Bolsa", Code: "BOLSA-PP", Unit: "unit"})
	require.NoError(t, err)

	now := time.Now().UTC()
	_, err = supplyService.ReceiveStock(rice.ID, &supply.ReceiveStockRequest{
		Quantity:   decimal.NewFromInt(10000),
		ReceivedAt: &now,
	})
	require.NoError(t, err)
	_, err = supplyService.ReceiveStock(bags.ID, &supply.ReceiveStockRequest{
		Quantity:   decimal.NewFromInt(5),
		ReceivedAt: &now,
	})
	require.NoError(t, err)

	created, err := recipeService.CreateRecipe(&CreateRecipeRequest{
		MicroorganismID: micro.ID,
		Name:            "Producción de cepas",
		Items: []RecipeItemRequest{
			{SupplyID: rice.ID, PerUnitQuantity: decimal.NewFromInt(300), Unit: "g"},
			{SupplyID: bags.ID, PerUnitQuantity: decimal.NewFromInt(1), Unit: "unit"},
		},
	})
	require.NoError(t, err)

	previews, err := recipeService.PreviewBatch(created.ID, 10)
	require.NoError(t, err)
	require.Len(t, previews, 2)

	assert.True(t, previews[0].Satisfied)
	assert.NotEmpty(t, previews[0].Plan)
	assert.True(t, decimal.NewFromInt(3000).Equal(previews[0].Required))

	// Only 5 bags in stock for a 10-unit batch
	assert.False(t, previews[1].Satisfied)
	assert.Empty(t, previews[1].Plan)
	assert.True(t, decimal.NewFromInt(5).Equal(previews[1].Available))

	// Preview never consumes stock
	available, err := supplyService.AvailableQuantity(rice.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10000).Equal(available))
}
