// internal/domain/supply/service.go
package supply

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/biolab-backend/internal/config"
	"github.com/your-org/biolab-backend/internal/pkg/email"
	"gorm.io/gorm"
)

// Service handles supply and stock business logic
type Service struct {
	db           *gorm.DB
	config       *config.Config
	emailService *email.EmailService
}

// NewService creates a new supply service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:           db,
		config:       cfg,
		emailService: email.NewEmailService(cfg),
	}
}

// CreateSupplyRequest represents supply catalog creation data
type CreateSupplyRequest struct {
	Name         string          `json:"name" binding:"required"`
	Code         string          `json:"code" binding:"required"`
	Unit         string          `json:"unit" binding:"required"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
	Notes        string          `json:"notes"`
}

// ReceiveStockRequest represents a received stock batch
type ReceiveStockRequest struct {
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	ReceivedAt  *time.Time      `json:"received_at,omitempty"` // defaults to now
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
	SupplierRef string          `json:"supplier_ref"`
}

// ConsumptionPlanResult represents a computed plan with its total
type ConsumptionPlanResult struct {
	SupplyID  uint            `json:"supply_id"`
	Requested decimal.Decimal `json:"requested"`
	Planned   decimal.Decimal `json:"planned"`
	Entries   []PlanEntry     `json:"entries"`
}

// StockLedgerResult pairs a stock batch with its event log and the remaining
// quantity recomputed from the events
type StockLedgerResult struct {
	Stock     SupplyStock        `json:"stock"`
	Events    []ConsumptionEvent `json:"events"`
	Remaining decimal.Decimal    `json:"remaining"`
}

// SUPPLY CATALOG

// CreateSupply creates a new supply in the catalog
func (s *Service) CreateSupply(req *CreateSupplyRequest) (*Supply, error) {
	var existing Supply
	if err := s.db.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("supply with code '%s' already exists", req.Code)
	}

	supply := &Supply{
		Name:         req.Name,
		Code:         req.Code,
		Unit:         req.Unit,
		MinimumStock: req.MinimumStock,
		Notes:        req.Notes,
		IsActive:     true,
	}

	if err := s.db.Create(supply).Error; err != nil {
		return nil, fmt.Errorf("failed to create supply: %w", err)
	}

	return supply, nil
}

// GetSupplies retrieves all active supplies
func (s *Service) GetSupplies() ([]Supply, error) {
	var supplies []Supply
	if err := s.db.Where("is_active = ?", true).Order("name").Find(&supplies).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve supplies: %w", err)
	}
	return supplies, nil
}

// GetSupply retrieves a single supply by id
func (s *Service) GetSupply(supplyID uint) (*Supply, error) {
	var supply Supply
	if err := s.db.First(&supply, supplyID).Error; err != nil {
		return nil, fmt.Errorf("supply %d not found: %w", supplyID, err)
	}
	return &supply, nil
}

// STOCK BATCHES

// ReceiveStock registers a received stock batch for a supply
func (s *Service) ReceiveStock(supplyID uint, req *ReceiveStockRequest) (*SupplyStock, error) {
	supply, err := s.GetSupply(supplyID)
	if err != nil {
		return nil, err
	}

	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w, got %s", ErrNonPositiveQuantity, req.Quantity.String())
	}

	receivedAt := time.Now().UTC()
	if req.ReceivedAt != nil {
		receivedAt = req.ReceivedAt.UTC()
	}

	stock := &SupplyStock{
		SupplyID:          supply.ID,
		QuantityReceived:  req.Quantity,
		QuantityRemaining: req.Quantity,
		Unit:              supply.Unit,
		ReceivedAt:        receivedAt,
		ExpiresAt:         req.ExpiresAt,
		SupplierRef:       req.SupplierRef,
	}

	if err := s.db.Create(stock).Error; err != nil {
		return nil, fmt.Errorf("failed to create stock batch: %w", err)
	}

	return stock, nil
}

// GetStocks retrieves all stock batches for a supply in FIFO order
func (s *Service) GetStocks(supplyID uint) ([]SupplyStock, error) {
	var stocks []SupplyStock
	if err := s.db.Where("supply_id = ?", supplyID).
		Order("received_at ASC, id ASC").
		Find(&stocks).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve stock batches: %w", err)
	}
	return stocks, nil
}

// AvailableQuantity returns the total remaining quantity across all batches
func (s *Service) AvailableQuantity(supplyID uint) (decimal.Decimal, error) {
	stocks, err := s.GetStocks(supplyID)
	if err != nil {
		return decimal.Zero, err
	}

	available := decimal.Zero
	for _, stock := range stocks {
		available = available.Add(stock.QuantityRemaining)
	}
	return available, nil
}

// CONSUMPTION

// Plan computes a FIFO consumption plan against the current stock batches.
// Side-effect free; safe for preview calls before committing.
func (s *Service) Plan(supplyID uint, quantityNeeded decimal.Decimal) (*ConsumptionPlanResult, error) {
	stocks, err := s.GetStocks(supplyID)
	if err != nil {
		return nil, err
	}

	entries, err := PlanConsumption(supplyID, quantityNeeded, stocks)
	if err != nil {
		return nil, err
	}

	return &ConsumptionPlanResult{
		SupplyID:  supplyID,
		Requested: quantityNeeded,
		Planned:   PlanTotal(entries),
		Entries:   entries,
	}, nil
}

// CommitConsumption applies a plan in a single transaction
func (s *Service) CommitConsumption(plan []PlanEntry, purposeType ConsumptionPurpose, purposeID uint, userID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.CommitConsumptionTx(tx, plan, purposeType, purposeID, userID)
	})
	if err != nil {
		return err
	}

	s.checkLowStockForPlan(plan)
	return nil
}

// CommitConsumptionTx applies a plan inside an existing transaction so
// callers can compose it with their own writes (lot creation, strain
// conversion). For each entry it appends a ConsumptionEvent and decrements
// the batch's remaining quantity; any failure rolls back the whole plan.
func (s *Service) CommitConsumptionTx(tx *gorm.DB, plan []PlanEntry, purposeType ConsumptionPurpose, purposeID uint, userID uint) error {
	now := time.Now().UTC()

	for _, entry := range plan {
		var stock SupplyStock
		if err := tx.First(&stock, entry.SupplyStockID).Error; err != nil {
			return fmt.Errorf("stock batch %d not found: %w", entry.SupplyStockID, err)
		}

		newRemaining := stock.QuantityRemaining.Sub(entry.QuantityTaken)
		if newRemaining.LessThan(decimal.Zero) {
			return &InsufficientStockError{
				SupplyID:  stock.SupplyID,
				Requested: entry.QuantityTaken,
				Available: stock.QuantityRemaining,
			}
		}

		event := &ConsumptionEvent{
			SupplyStockID: stock.ID,
			QuantityTaken: entry.QuantityTaken,
			PurposeType:   purposeType,
			PurposeID:     purposeID,
			OccurredAt:    now,
			RecordedBy:    userID,
		}
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("failed to record consumption event: %w", err)
		}

		if err := tx.Model(&stock).Update("quantity_remaining", newRemaining).Error; err != nil {
			return fmt.Errorf("failed to update stock batch %d: %w", stock.ID, err)
		}
	}

	return nil
}

// GetStockLedger loads a stock batch with its event log and the remaining
// quantity recomputed from the events. The stored QuantityRemaining column is
// a derived view of the same computation; this read lets callers compare the two.
func (s *Service) GetStockLedger(supplyStockID uint) (*StockLedgerResult, error) {
	var stock SupplyStock
	if err := s.db.First(&stock, supplyStockID).Error; err != nil {
		return nil, fmt.Errorf("stock batch %d not found: %w", supplyStockID, err)
	}

	events, err := s.GetConsumptionEvents(supplyStockID)
	if err != nil {
		return nil, err
	}

	return &StockLedgerResult{
		Stock:     stock,
		Events:    events,
		Remaining: RemainingFromEvents(&stock, events),
	}, nil
}

// GetConsumptionEvents retrieves the event log for a stock batch
func (s *Service) GetConsumptionEvents(supplyStockID uint) ([]ConsumptionEvent, error) {
	var events []ConsumptionEvent
	if err := s.db.Where("supply_stock_id = ?", supplyStockID).
		Order("occurred_at ASC, id ASC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve consumption events: %w", err)
	}
	return events, nil
}

// LOW STOCK ALERTS

// checkLowStockForPlan resolves the supplies touched by a committed plan and
// runs the low stock check on each
func (s *Service) checkLowStockForPlan(plan []PlanEntry) {
	if !s.config.Alerts.Enabled {
		return
	}

	supplyIDs := make([]uint, 0, len(plan))
	for _, entry := range plan {
		var stock SupplyStock
		if err := s.db.First(&stock, entry.SupplyStockID).Error; err != nil {
			continue
		}
		supplyIDs = append(supplyIDs, stock.SupplyID)
	}
	s.CheckLowStockForSupplies(supplyIDs)
}

// CheckLowStockForSupplies raises an alert for every supply whose remaining
// total has dropped below its configured minimum. Callers that consume
// through CommitConsumptionTx inside their own transaction (lot inoculation)
// run this after the commit, never inside it: a failed alert must not roll
// back a consumption.
func (s *Service) CheckLowStockForSupplies(supplyIDs []uint) {
	if !s.config.Alerts.Enabled {
		return
	}

	seen := make(map[uint]bool)
	for _, supplyID := range supplyIDs {
		if seen[supplyID] {
			continue
		}
		seen[supplyID] = true
		s.checkLowStock(supplyID)
	}
}

func (s *Service) checkLowStock(supplyID uint) {
	supply, err := s.GetSupply(supplyID)
	if err != nil {
		return
	}

	available, err := s.AvailableQuantity(supplyID)
	if err != nil {
		return
	}

	if available.GreaterThan(supply.MinimumStock) {
		return
	}

	alertType := "low_stock"
	if available.LessThanOrEqual(decimal.Zero) {
		alertType = "out_of_stock"
	}

	// Don't stack alerts while one is still open
	var open StockAlert
	if err := s.db.Where("supply_id = ? AND is_resolved = ?", supplyID, false).First(&open).Error; err == nil {
		return
	}

	message := fmt.Sprintf("Supply '%s' is down to %s %s (minimum %s %s)",
		supply.Name, available.String(), supply.Unit, supply.MinimumStock.String(), supply.Unit)

	alert := &StockAlert{
		SupplyID:  supplyID,
		AlertType: alertType,
		Message:   message,
	}
	if err := s.db.Create(alert).Error; err != nil {
		log.Printf("Warning: failed to create stock alert: %v", err)
		return
	}

	if len(s.config.Alerts.Recipients) > 0 {
		data := email.StockAlertData{
			SupplyName: supply.Name,
			Available:  available.String(),
			Minimum:    supply.MinimumStock.String(),
			Unit:       supply.Unit,
		}
		if err := s.emailService.SendStockAlert(context.Background(), s.config.Alerts.Recipients, data); err != nil {
			log.Printf("Warning: failed to send stock alert email: %v", err)
		}
	}
}
