// internal/domain/strain/service_test.go
package strain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/biolab-backend/internal/config"
	"github.com/your-org/biolab-backend/internal/domain/lot"
	"github.com/your-org/biolab-backend/internal/domain/recipe"
	"github.com/your-org/biolab-backend/internal/domain/supply"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type strainTestEnv struct {
	db            *gorm.DB
	strainService *Service
	lotService    *lot.Service
	microID       uint
	lotID         uint
}

// setupStrainTest builds an in-memory store with one incubating lot of
// 10 bags ready for conversion.
func setupStrainTest(t *testing.T) *strainTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&recipe.Microorganism{}, &recipe.Recipe{}, &recipe.RecipeItem{},
		&supply.Supply{}, &supply.SupplyStock{}, &supply.ConsumptionEvent{}, &supply.StockAlert{},
		&lot.ProductionLot{}, &lot.LotResponsible{}, &lot.BagConsumptionEvent{},
		&StrainLot{}, &StrainResponsible{},
	))

	cfg := &config.Config{}
	supplyService := supply.NewService(db, cfg)
	recipeService := recipe.NewService(db, cfg, supplyService)
	lotService := lot.NewService(db, cfg, recipeService, supplyService)
	strainService := NewService(db, cfg, lotService)

	bags, err := supplyService.CreateSupply(&supply.CreateSupplyRequest{Name: "Bolsa", Code: "BOLSA-PP", Unit: "unit"})
	require.NoError(t, err)

	now := time.Now().UTC()
	_, err = supplyService.ReceiveStock(bags.ID, &supply.ReceiveStockRequest{
		Quantity:   decimal.NewFromInt(50),
		ReceivedAt: &now,
	})
	require.NoError(t, err)

	micro := recipe.Microorganism{Name: "Trichoderma", IsActive: true}
	require.NoError(t, db.Create(&micro).Error)

	r := recipe.Recipe{
		MicroorganismID: micro.ID,
		Name:            "Producción de cepas",
		YieldUnit:       "bag",
		IsActive:        true,
		Items: []recipe.RecipeItem{
			{SupplyID: bags.ID, PerUnitQuantity: decimal.NewFromInt(1), Unit: "unit"},
		},
	}
	require.NoError(t, db.Create(&r).Error)

	created, err := lotService.CreateLot(&lot.CreateLotRequest{RecipeID: r.ID, BatchSize: 10}, 1)
	require.NoError(t, err)

	return &strainTestEnv{
		db:            db,
		strainService: strainService,
		lotService:    lotService,
		microID:       micro.ID,
		lotID:         created.Lot.ID,
	}
}

func TestCreateStrainDirect(t *testing.T) {
	env := setupStrainTest(t)

	created, err := env.strainService.Create(&CreateStrainRequest{
		CreationType:    CreationTypePurchased,
		MicroorganismID: env.microID,
		BagCount:        3,
		ResponsibleIDs:  []uint{1},
	}, 1)
	require.NoError(t, err)

	assert.Contains(t, created.StrainCode, "CEP-")
	assert.Equal(t, CreationTypePurchased, created.CreationType)
	assert.Nil(t, created.SourceLotID)
}

func TestCreateStrainRejectsConversionType(t *testing.T) {
	env := setupStrainTest(t)

	_, err := env.strainService.Create(&CreateStrainRequest{
		CreationType:    CreationTypeConvertedFromLot,
		MicroorganismID: env.microID,
		BagCount:        3,
	}, 1)
	assert.Error(t, err)

	_, err = env.strainService.Create(&CreateStrainRequest{
		CreationType:    CreationType("cloned"),
		MicroorganismID: env.microID,
		BagCount:        3,
	}, 1)
	assert.Error(t, err)

	_, err = env.strainService.Create(&CreateStrainRequest{
		CreationType:    CreationTypeInoculated,
		MicroorganismID: env.microID,
		BagCount:        0,
	}, 1)
	assert.Error(t, err)
}

func TestConvertFromLotConsumesAllBagsDepletesSource(t *testing.T) {
	env := setupStrainTest(t)

	result, err := env.strainService.ConvertFromLot(&ConvertFromLotRequest{
		LotID:    env.lotID,
		BagCount: 10,
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, CreationTypeConvertedFromLot, result.Strain.CreationType)
	require.NotNil(t, result.Strain.SourceLotID)
	assert.Equal(t, env.lotID, *result.Strain.SourceLotID)
	assert.Equal(t, lot.LotStateDepleted, result.SourceLotState)
	assert.Equal(t, 0, result.SourceLotBagsLeft)

	// Inherits the source lot's microorganism
	assert.Equal(t, env.microID, result.Strain.MicroorganismID)

	got, err := env.lotService.GetLot(env.lotID)
	require.NoError(t, err)
	assert.Equal(t, lot.LotStateDepleted, got.Lot.State)
	assert.Equal(t, 0, got.AvailableBags)
}

func TestConvertFromLotPartial(t *testing.T) {
	env := setupStrainTest(t)

	result, err := env.strainService.ConvertFromLot(&ConvertFromLotRequest{
		LotID:    env.lotID,
		BagCount: 4,
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, lot.LotStateIncubating, result.SourceLotState)
	assert.Equal(t, 6, result.SourceLotBagsLeft)
}

func TestConvertFromLotExceedingAvailableIsAtomic(t *testing.T) {
	env := setupStrainTest(t)

	_, err := env.strainService.ConvertFromLot(&ConvertFromLotRequest{
		LotID:    env.lotID,
		BagCount: 11,
	}, 1)

	var exceeds *lot.ExceedsAvailableError
	require.ErrorAs(t, err, &exceeds)
	assert.Equal(t, 11, exceeds.Requested)
	assert.Equal(t, 10, exceeds.Available)

	// Neither the strain nor the bag event survived the rollback
	var strainCount int64
	require.NoError(t, env.db.Model(&StrainLot{}).Count(&strainCount).Error)
	assert.Zero(t, strainCount)

	var eventCount int64
	require.NoError(t, env.db.Model(&lot.BagConsumptionEvent{}).
		Where("lot_id = ? AND purpose_type = ?", env.lotID, lot.BagPurposeStrainConversion).
		Count(&eventCount).Error)
	assert.Zero(t, eventCount)

	got, err := env.lotService.GetLot(env.lotID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.AvailableBags)
}

func TestConvertFromLotUnknownLot(t *testing.T) {
	env := setupStrainTest(t)

	_, err := env.strainService.ConvertFromLot(&ConvertFromLotRequest{
		LotID:    999,
		BagCount: 1,
	}, 1)
	assert.Error(t, err)
}
