// internal/domain/lot/service_test.go
package lot

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/biolab-backend/internal/config"
	"github.com/your-org/biolab-backend/internal/domain/recipe"
	"github.com/your-org/biolab-backend/internal/domain/supply"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type lotTestEnv struct {
	db            *gorm.DB
	lotService    *Service
	supplyService *supply.Service
	recipeID      uint
	riceID        uint
	bagsID        uint
}

// setupLotTest builds an in-memory store with a two-item recipe:
// 300 g rice and 1 bag per unit.
func setupLotTest(t *testing.T) *lotTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&recipe.Microorganism{}, &recipe.Recipe{}, &recipe.RecipeItem{},
		&supply.Supply{}, &supply.SupplyStock{}, &supply.ConsumptionEvent{}, &supply.StockAlert{},
		&ProductionLot{}, &LotResponsible{}, &BagConsumptionEvent{},
	))

	cfg := &config.Config{}
	supplyService := supply.NewService(db, cfg)
	recipeService := recipe.NewService(db, cfg, supplyService)
	lotService := NewService(db, cfg, recipeService, supplyService)

	rice, err := supplyService.CreateSupply(&supply.CreateSupplyRequest{Name: "Arroz", Code: "ARROZ", Unit: "g"})
	require.NoError(t, err)
	bags, err := supplyService.CreateSupply(&supply.CreateSupplyRequest{Name: "Bolsa", Code: "BOLSA-PP", Unit: "unit"})
	require.NoError(t, err)

	micro := recipe.Microorganism{Name: "Trichoderma", IsActive: true}
	require.NoError(t, db.Create(&micro).Error)

	r := recipe.Recipe{
		MicroorganismID: micro.ID,
		Name:            "Producción de cepas",
		YieldUnit:       "bag",
		IsActive:        true,
		Items: []recipe.RecipeItem{
			{SupplyID: rice.ID, PerUnitQuantity: decimal.NewFromInt(300), Unit: "g"},
			{SupplyID: bags.ID, PerUnitQuantity: decimal.NewFromInt(1), Unit: "unit"},
		},
	}
	require.NoError(t, db.Create(&r).Error)

	return &lotTestEnv{
		db:            db,
		lotService:    lotService,
		supplyService: supplyService,
		recipeID:      r.ID,
		riceID:        rice.ID,
		bagsID:        bags.ID,
	}
}

func (env *lotTestEnv) receive(t *testing.T, supplyID uint, quantity int64) {
	t.Helper()
	now := time.Now().UTC()
	_, err := env.supplyService.ReceiveStock(supplyID, &supply.ReceiveStockRequest{
		Quantity:   decimal.NewFromInt(quantity),
		ReceivedAt: &now,
	})
	require.NoError(t, err)
}

func TestCreateLotConsumesRecipeSupplies(t *testing.T) {
	env := setupLotTest(t)
	env.receive(t, env.riceID, 5000)
	env.receive(t, env.bagsID, 20)

	created, err := env.lotService.CreateLot(&CreateLotRequest{
		RecipeID:       env.recipeID,
		BatchSize:      10,
		ResponsibleIDs: []uint{1},
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, LotStateIncubating, created.Lot.State)
	assert.Equal(t, 10, created.AvailableBags)
	assert.Contains(t, created.Lot.LotCode, "LOT-")

	riceLeft, err := env.supplyService.AvailableQuantity(env.riceID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2000).Equal(riceLeft), "got %s", riceLeft)

	bagsLeft, err := env.supplyService.AvailableQuantity(env.bagsID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(bagsLeft))
}

func TestCreateLotRollsBackWhenOneSupplyIsShort(t *testing.T) {
	env := setupLotTest(t)
	env.receive(t, env.riceID, 5000)
	env.receive(t, env.bagsID, 5) // not enough bags for 10 units

	_, err := env.lotService.CreateLot(&CreateLotRequest{
		RecipeID:  env.recipeID,
		BatchSize: 10,
	}, 1)

	var insufficient *supply.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, env.bagsID, insufficient.SupplyID)

	// Rice was planned first but its consumption must be rolled back too
	riceLeft, err := env.supplyService.AvailableQuantity(env.riceID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5000).Equal(riceLeft), "got %s", riceLeft)

	var lotCount int64
	require.NoError(t, env.db.Model(&ProductionLot{}).Count(&lotCount).Error)
	assert.Zero(t, lotCount)
}

func TestCreateLotRaisesLowStockAlert(t *testing.T) {
	env := setupLotTest(t)

	cfg := &config.Config{Alerts: config.AlertsConfig{Enabled: true}}
	supplyService := supply.NewService(env.db, cfg)
	recipeService := recipe.NewService(env.db, cfg, supplyService)
	lotService := NewService(env.db, cfg, recipeService, supplyService)

	require.NoError(t, env.db.Model(&supply.Supply{}).
		Where("id = ?", env.riceID).
		Update("minimum_stock", decimal.NewFromInt(1000)).Error)

	env.receive(t, env.riceID, 5000)
	env.receive(t, env.bagsID, 100)

	// 15 units consume 4500 g of rice, leaving 500 g against a 1000 g minimum
	_, err := lotService.CreateLot(&CreateLotRequest{RecipeID: env.recipeID, BatchSize: 15}, 1)
	require.NoError(t, err)

	var alerts []supply.StockAlert
	require.NoError(t, env.db.Where("supply_id = ?", env.riceID).Find(&alerts).Error)
	require.Len(t, alerts, 1)
	assert.Equal(t, "low_stock", alerts[0].AlertType)
	assert.False(t, alerts[0].IsResolved)

	// Bags stayed above their minimum, so no alert for them
	var bagAlerts int64
	require.NoError(t, env.db.Model(&supply.StockAlert{}).Where("supply_id = ?", env.bagsID).Count(&bagAlerts).Error)
	assert.Zero(t, bagAlerts)
}

func TestCreateLotUnknownRecipe(t *testing.T) {
	env := setupLotTest(t)

	_, err := env.lotService.CreateLot(&CreateLotRequest{RecipeID: 999, BatchSize: 5}, 1)
	assert.ErrorIs(t, err, recipe.ErrUnknownRecipe)
}

func TestConsumeBagsDerivesDepletion(t *testing.T) {
	env := setupLotTest(t)
	env.receive(t, env.riceID, 5000)
	env.receive(t, env.bagsID, 20)

	created, err := env.lotService.CreateLot(&CreateLotRequest{RecipeID: env.recipeID, BatchSize: 3}, 1)
	require.NoError(t, err)

	after, err := env.lotService.ConsumeBags(created.Lot.ID, &ConsumeBagsRequest{
		Quantity:    2,
		PurposeType: BagPurposeHarvest,
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, LotStateIncubating, after.Lot.State)
	assert.Equal(t, 1, after.AvailableBags)

	final, err := env.lotService.ConsumeBags(created.Lot.ID, &ConsumeBagsRequest{
		Quantity:    1,
		PurposeType: BagPurposeDiscard,
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, LotStateDepleted, final.Lot.State)
	assert.Equal(t, 0, final.AvailableBags)

	// Depleted lots reject further consumption
	_, err = env.lotService.ConsumeBags(created.Lot.ID, &ConsumeBagsRequest{
		Quantity:    1,
		PurposeType: BagPurposeDiscard,
	}, 1)
	assert.ErrorIs(t, err, ErrLotDepleted)
}

func TestConsumeBagsExceedingAvailableLeavesNoEvent(t *testing.T) {
	env := setupLotTest(t)
	env.receive(t, env.riceID, 5000)
	env.receive(t, env.bagsID, 20)

	created, err := env.lotService.CreateLot(&CreateLotRequest{RecipeID: env.recipeID, BatchSize: 5}, 1)
	require.NoError(t, err)

	_, err = env.lotService.ConsumeBags(created.Lot.ID, &ConsumeBagsRequest{
		Quantity:    6,
		PurposeType: BagPurposeHarvest,
	}, 1)

	var exceeds *ExceedsAvailableError
	require.ErrorAs(t, err, &exceeds)
	assert.Equal(t, 6, exceeds.Requested)
	assert.Equal(t, 5, exceeds.Available)

	var eventCount int64
	require.NoError(t, env.db.Model(&BagConsumptionEvent{}).Where("lot_id = ?", created.Lot.ID).Count(&eventCount).Error)
	assert.Zero(t, eventCount)
}

func TestRefrigerateIsOneWay(t *testing.T) {
	env := setupLotTest(t)
	env.receive(t, env.riceID, 5000)
	env.receive(t, env.bagsID, 20)

	created, err := env.lotService.CreateLot(&CreateLotRequest{RecipeID: env.recipeID, BatchSize: 4}, 1)
	require.NoError(t, err)

	refrigerated, err := env.lotService.Refrigerate(created.Lot.ID)
	require.NoError(t, err)
	assert.Equal(t, LotStateRefrigerated, refrigerated.Lot.State)
	require.NotNil(t, refrigerated.Lot.RefrigeratedAt)

	_, err = env.lotService.Refrigerate(created.Lot.ID)
	assert.ErrorIs(t, err, ErrAlreadyRefrigerated)
}

func TestRefrigerateDepletedLot(t *testing.T) {
	env := setupLotTest(t)
	env.receive(t, env.riceID, 5000)
	env.receive(t, env.bagsID, 20)

	created, err := env.lotService.CreateLot(&CreateLotRequest{RecipeID: env.recipeID, BatchSize: 2}, 1)
	require.NoError(t, err)

	_, err = env.lotService.ConsumeBags(created.Lot.ID, &ConsumeBagsRequest{
		Quantity:    2,
		PurposeType: BagPurposeDiscard,
	}, 1)
	require.NoError(t, err)

	_, err = env.lotService.Refrigerate(created.Lot.ID)
	assert.ErrorIs(t, err, ErrLotDepleted)
}

func TestSummaryCountsStatesAndBags(t *testing.T) {
	env := setupLotTest(t)
	env.receive(t, env.riceID, 50000)
	env.receive(t, env.bagsID, 200)

	first, err := env.lotService.CreateLot(&CreateLotRequest{RecipeID: env.recipeID, BatchSize: 10}, 1)
	require.NoError(t, err)
	second, err := env.lotService.CreateLot(&CreateLotRequest{RecipeID: env.recipeID, BatchSize: 5}, 1)
	require.NoError(t, err)

	_, err = env.lotService.Refrigerate(first.Lot.ID)
	require.NoError(t, err)

	_, err = env.lotService.ConsumeBags(second.Lot.ID, &ConsumeBagsRequest{
		Quantity:    5,
		PurposeType: BagPurposeDiscard,
	}, 1)
	require.NoError(t, err)

	summary, err := env.lotService.Summary()
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.Incubating)
	assert.Equal(t, int64(1), summary.Refrigerated)
	assert.Equal(t, int64(1), summary.Depleted)
	assert.Equal(t, int64(10), summary.TotalBags)
}

func TestGetLotNormalizesLegacyStateSpelling(t *testing.T) {
	env := setupLotTest(t)
	env.receive(t, env.riceID, 5000)
	env.receive(t, env.bagsID, 20)

	created, err := env.lotService.CreateLot(&CreateLotRequest{RecipeID: env.recipeID, BatchSize: 2}, 1)
	require.NoError(t, err)

	// Rows migrated from the old system carry Spanish state spellings
	require.NoError(t, env.db.Exec(
		"UPDATE production_lots SET state = ? WHERE id = ?", "Agotado", created.Lot.ID).Error)

	got, err := env.lotService.GetLot(created.Lot.ID)
	require.NoError(t, err)
	assert.Equal(t, LotStateDepleted, got.Lot.State)

	// The normalized state drives the guards too
	_, err = env.lotService.ConsumeBags(created.Lot.ID, &ConsumeBagsRequest{
		Quantity:    1,
		PurposeType: BagPurposeDiscard,
	}, 1)
	assert.ErrorIs(t, err, ErrLotDepleted)
}

func TestGetLotReconcilesFromEvents(t *testing.T) {
	env := setupLotTest(t)
	env.receive(t, env.riceID, 5000)
	env.receive(t, env.bagsID, 20)

	created, err := env.lotService.CreateLot(&CreateLotRequest{RecipeID: env.recipeID, BatchSize: 8}, 1)
	require.NoError(t, err)

	_, err = env.lotService.ConsumeBags(created.Lot.ID, &ConsumeBagsRequest{
		Quantity:    3,
		PurposeType: BagPurposeHarvest,
	}, 1)
	require.NoError(t, err)

	got, err := env.lotService.GetLot(created.Lot.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.AvailableBags)
	assert.Len(t, got.Lot.Events, 1)
}
