// internal/interfaces/http/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/your-org/biolab-backend/internal/domain/lot"
	"github.com/your-org/biolab-backend/internal/domain/recipe"
	"github.com/your-org/biolab-backend/internal/domain/schedule"
	"github.com/your-org/biolab-backend/internal/domain/supply"
)

// respondDomainError translates domain errors into HTTP responses. Guard
// failures that carry numbers (insufficient stock, exceeded availability)
// serialize those numbers so clients can show them without re-querying.
func respondDomainError(c *gin.Context, err error) {
	var insufficient *supply.InsufficientStockError
	if errors.As(err, &insufficient) {
		c.JSON(http.StatusConflict, gin.H{
			"error":     err.Error(),
			"supply_id": insufficient.SupplyID,
			"requested": insufficient.Requested,
			"available": insufficient.Available,
		})
		return
	}

	var exceeds *lot.ExceedsAvailableError
	if errors.As(err, &exceeds) {
		c.JSON(http.StatusConflict, gin.H{
			"error":     err.Error(),
			"lot_code":  exceeds.LotCode,
			"requested": exceeds.Requested,
			"available": exceeds.Available,
		})
		return
	}

	var negative *lot.NegativeAvailabilityError
	if errors.As(err, &negative) {
		// Corrupted event log; nothing the client can do about it
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, recipe.ErrUnknownRecipe):
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, lot.ErrLotDepleted),
		errors.Is(err, lot.ErrAlreadyRefrigerated):
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, recipe.ErrInvalidBatchSize),
		errors.Is(err, supply.ErrNonPositiveQuantity),
		errors.Is(err, lot.ErrNonPositiveQuantity),
		errors.Is(err, schedule.ErrInvalidCount),
		errors.Is(err, schedule.ErrInvalidInterval):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
	}
}
