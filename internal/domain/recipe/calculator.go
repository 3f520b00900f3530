// internal/domain/recipe/calculator.go
package recipe

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidBatchSize is returned when batch size is zero or negative
	ErrInvalidBatchSize = errors.New("batch size must be greater than zero")

	// ErrUnknownRecipe is returned when a recipe id does not exist
	ErrUnknownRecipe = errors.New("unknown recipe")
)

// RequiredSupply is one scaled line of a recipe for a given batch size
type RequiredSupply struct {
	SupplyID uint            `json:"supply_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
}

// ComputeRequiredSupplies scales a recipe's per-unit quantities by the batch
// size. Pure function: no rounding is applied, fractional quantities keep
// full precision and are only formatted for display by the caller.
func ComputeRequiredSupplies(r *Recipe, batchSize int) ([]RequiredSupply, error) {
	if batchSize <= 0 {
		return nil, ErrInvalidBatchSize
	}

	scale := decimal.NewFromInt(int64(batchSize))
	required := make([]RequiredSupply, 0, len(r.Items))
	for _, item := range r.Items {
		required = append(required, RequiredSupply{
			SupplyID: item.SupplyID,
			Quantity: item.PerUnitQuantity.Mul(scale),
			Unit:     item.Unit,
		})
	}

	return required, nil
}
