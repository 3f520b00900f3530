// internal/domain/supply/ledger.go
package supply

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrNonPositiveQuantity is returned when a requested quantity is zero or negative
var ErrNonPositiveQuantity = errors.New("quantity must be greater than zero")

// PlanEntry represents a single take from a stock batch within a consumption plan
type PlanEntry struct {
	SupplyStockID uint            `json:"supply_stock_id"`
	QuantityTaken decimal.Decimal `json:"quantity_taken"`
}

// InsufficientStockError is returned when the available stock across all
// batches cannot satisfy a requested quantity. It carries the numbers so the
// caller can show requested vs available without re-querying.
type InsufficientStockError struct {
	SupplyID  uint
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for supply %d: requested %s, available %s",
		e.SupplyID, e.Requested.String(), e.Available.String())
}

// PlanConsumption computes a FIFO consumption plan for a supply: oldest
// batches are exhausted before newer ones, ties broken by batch id for
// determinism. The plan is all-or-nothing; if the total remaining across
// matching batches is less than the requested quantity it fails with
// *InsufficientStockError and no partial plan is returned.
func PlanConsumption(supplyID uint, quantityNeeded decimal.Decimal, availableStocks []SupplyStock) ([]PlanEntry, error) {
	if quantityNeeded.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w, got %s", ErrNonPositiveQuantity, quantityNeeded.String())
	}

	// Keep only batches of this supply with something left
	candidates := make([]SupplyStock, 0, len(availableStocks))
	for _, stock := range availableStocks {
		if stock.SupplyID == supplyID && stock.HasRemaining() {
			candidates = append(candidates, stock)
		}
	}

	// Oldest received first; id breaks ties
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].ReceivedAt.Equal(candidates[j].ReceivedAt) {
			return candidates[i].ID < candidates[j].ID
		}
		return candidates[i].ReceivedAt.Before(candidates[j].ReceivedAt)
	})

	available := decimal.Zero
	for _, stock := range candidates {
		available = available.Add(stock.QuantityRemaining)
	}
	if available.LessThan(quantityNeeded) {
		return nil, &InsufficientStockError{
			SupplyID:  supplyID,
			Requested: quantityNeeded,
			Available: available,
		}
	}

	plan := make([]PlanEntry, 0, len(candidates))
	stillNeeded := quantityNeeded
	for _, stock := range candidates {
		if stillNeeded.LessThanOrEqual(decimal.Zero) {
			break
		}
		take := decimal.Min(stock.QuantityRemaining, stillNeeded)
		plan = append(plan, PlanEntry{
			SupplyStockID: stock.ID,
			QuantityTaken: take,
		})
		stillNeeded = stillNeeded.Sub(take)
	}

	return plan, nil
}

// PlanTotal returns the total quantity across all plan entries
func PlanTotal(plan []PlanEntry) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range plan {
		total = total.Add(entry.QuantityTaken)
	}
	return total
}

// RemainingFromEvents recomputes a batch's remaining quantity from its event
// log: quantityReceived minus the sum of all consumption events. The stored
// QuantityRemaining column is a derived view of this same computation.
func RemainingFromEvents(stock *SupplyStock, events []ConsumptionEvent) decimal.Decimal {
	remaining := stock.QuantityReceived
	for _, event := range events {
		if event.SupplyStockID == stock.ID {
			remaining = remaining.Sub(event.QuantityTaken)
		}
	}
	return remaining
}
