// internal/domain/supply/service_test.go
package supply

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/biolab-backend/internal/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&Supply{}, &SupplyStock{}, &ConsumptionEvent{}, &StockAlert{}))

	return NewService(db, &config.Config{})
}

func testServiceWithAlerts(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&Supply{}, &SupplyStock{}, &ConsumptionEvent{}, &StockAlert{}))

	return NewService(db, &config.Config{Alerts: config.AlertsConfig{Enabled: true}})
}

func receiveAt(t *testing.T, s *Service, supplyID uint, quantity int64, receivedAt time.Time) *SupplyStock {
	t.Helper()
	stock, err := s.ReceiveStock(supplyID, &ReceiveStockRequest{
		Quantity:   decimal.NewFromInt(quantity),
		ReceivedAt: &receivedAt,
	})
	require.NoError(t, err)
	return stock
}

func TestCreateSupplyRejectsDuplicateCode(t *testing.T) {
	s := testService(t)

	_, err := s.CreateSupply(&CreateSupplyRequest{Name: "Arroz", Code: "ARROZ", Unit: "g"})
	require.NoError(t, err)

	_, err = s.CreateSupply(&CreateSupplyRequest{Name: "Arroz premium", Code: "ARROZ", Unit: "g"})
	assert.Error(t, err)
}

func TestReceiveStockRejectsNonPositiveQuantity(t *testing.T) {
	s := testService(t)

	created, err := s.CreateSupply(&CreateSupplyRequest{Name: "Arroz", Code: "ARROZ", Unit: "g"})
	require.NoError(t, err)

	_, err = s.ReceiveStock(created.ID, &ReceiveStockRequest{Quantity: decimal.Zero})
	assert.ErrorIs(t, err, ErrNonPositiveQuantity)
}

func TestCommitConsumptionUpdatesLedgerAndEvents(t *testing.T) {
	s := testService(t)

	created, err := s.CreateSupply(&CreateSupplyRequest{Name: "Arroz", Code: "ARROZ", Unit: "g"})
	require.NoError(t, err)

	older := receiveAt(t, s, created.ID, 500, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	newer := receiveAt(t, s, created.ID, 500, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC))

	plan, err := s.Plan(created.ID, decimal.NewFromInt(700))
	require.NoError(t, err)
	require.Len(t, plan.Entries, 2)
	assert.Equal(t, older.ID, plan.Entries[0].SupplyStockID)
	assert.True(t, decimal.NewFromInt(700).Equal(plan.Planned))

	require.NoError(t, s.CommitConsumption(plan.Entries, PurposeLotProduction, 1, 1))

	stocks, err := s.GetStocks(created.ID)
	require.NoError(t, err)
	require.Len(t, stocks, 2)
	assert.True(t, stocks[0].QuantityRemaining.IsZero(), "oldest batch should be exhausted")
	assert.True(t, decimal.NewFromInt(300).Equal(stocks[1].QuantityRemaining))

	// Event log agrees with the stored column
	events, err := s.GetConsumptionEvents(newer.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, decimal.NewFromInt(300).Equal(RemainingFromEvents(&stocks[1], events)))

	available, err := s.AvailableQuantity(created.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(300).Equal(available))
}

func TestCommitConsumptionRollsBackOnStaleplan(t *testing.T) {
	s := testService(t)

	created, err := s.CreateSupply(&CreateSupplyRequest{Name: "Arroz", Code: "ARROZ", Unit: "g"})
	require.NoError(t, err)

	stock := receiveAt(t, s, created.ID, 100, time.Now().UTC())

	// A plan computed before someone else consumed most of the batch
	stale := []PlanEntry{{SupplyStockID: stock.ID, QuantityTaken: decimal.NewFromInt(80)}}

	fresh, err := s.Plan(created.ID, decimal.NewFromInt(90))
	require.NoError(t, err)
	require.NoError(t, s.CommitConsumption(fresh.Entries, PurposeDiscard, 0, 1))

	err = s.CommitConsumption(stale, PurposeLotProduction, 2, 1)
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)

	// The failed commit left no events behind
	events, err := s.GetConsumptionEvents(stock.ID)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	available, err := s.AvailableQuantity(created.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(available), "got %s", available)
}

func TestCommitConsumptionRaisesLowStockAlert(t *testing.T) {
	s := testServiceWithAlerts(t)

	created, err := s.CreateSupply(&CreateSupplyRequest{
		Name: "Arroz", Code: "ARROZ", Unit: "g",
		MinimumStock: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	receiveAt(t, s, created.ID, 100, time.Now().UTC())

	plan, err := s.Plan(created.ID, decimal.NewFromInt(60))
	require.NoError(t, err)
	require.NoError(t, s.CommitConsumption(plan.Entries, PurposeDiscard, 0, 1))

	var alerts []StockAlert
	require.NoError(t, s.db.Where("supply_id = ?", created.ID).Find(&alerts).Error)
	require.Len(t, alerts, 1)
	assert.Equal(t, "low_stock", alerts[0].AlertType)
	assert.False(t, alerts[0].IsResolved)

	// Another drop while the first alert is still open does not stack a second one
	plan, err = s.Plan(created.ID, decimal.NewFromInt(40))
	require.NoError(t, err)
	require.NoError(t, s.CommitConsumption(plan.Entries, PurposeDiscard, 0, 1))

	var count int64
	require.NoError(t, s.db.Model(&StockAlert{}).Where("supply_id = ?", created.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetStockLedgerRecomputesRemaining(t *testing.T) {
	s := testService(t)

	created, err := s.CreateSupply(&CreateSupplyRequest{Name: "Arroz", Code: "ARROZ", Unit: "g"})
	require.NoError(t, err)
	stock := receiveAt(t, s, created.ID, 200, time.Now().UTC())

	plan, err := s.Plan(created.ID, decimal.NewFromInt(70))
	require.NoError(t, err)
	require.NoError(t, s.CommitConsumption(plan.Entries, PurposeDiscard, 0, 1))

	ledger, err := s.GetStockLedger(stock.ID)
	require.NoError(t, err)
	require.Len(t, ledger.Events, 1)
	assert.True(t, decimal.NewFromInt(130).Equal(ledger.Remaining), "got %s", ledger.Remaining)
	assert.True(t, ledger.Remaining.Equal(ledger.Stock.QuantityRemaining))
}

func TestPlanIsSideEffectFree(t *testing.T) {
	s := testService(t)

	created, err := s.CreateSupply(&CreateSupplyRequest{Name: "Agua", Code: "AGUA-D", Unit: "mL"})
	require.NoError(t, err)
	receiveAt(t, s, created.ID, 1000, time.Now().UTC())

	_, err = s.Plan(created.ID, decimal.NewFromInt(400))
	require.NoError(t, err)

	available, err := s.AvailableQuantity(created.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1000).Equal(available))
}

func TestPlanInsufficientAcrossAllBatches(t *testing.T) {
	s := testService(t)

	created, err := s.CreateSupply(&CreateSupplyRequest{Name: "Levadura", Code: "EXT-LEV", Unit: "g"})
	require.NoError(t, err)
	receiveAt(t, s, created.ID, 5, time.Now().UTC().Add(-48*time.Hour))
	receiveAt(t, s, created.ID, 2, time.Now().UTC())

	_, err = s.Plan(created.ID, decimal.NewFromInt(8))
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, decimal.NewFromInt(7).Equal(insufficient.Available))
}
