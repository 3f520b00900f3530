// internal/interfaces/http/handlers/strain.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/biolab-backend/internal/config"
	"github.com/your-org/biolab-backend/internal/domain/lot"
	"github.com/your-org/biolab-backend/internal/domain/recipe"
	"github.com/your-org/biolab-backend/internal/domain/strain"
	"github.com/your-org/biolab-backend/internal/domain/supply"
	"github.com/your-org/biolab-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// StrainHandler handles strain lot endpoints
type StrainHandler struct {
	strainService *strain.Service
	config        *config.Config
}

// NewStrainHandler creates a new strain handler
func NewStrainHandler(db *gorm.DB, cfg *config.Config) *StrainHandler {
	supplyService := supply.NewService(db, cfg)
	recipeService := recipe.NewService(db, cfg, supplyService)
	lotService := lot.NewService(db, cfg, recipeService, supplyService)
	return &StrainHandler{
		strainService: strain.NewService(db, cfg, lotService),
		config:        cfg,
	}
}

// Create registers a strain lot by direct inoculation or purchase
func (h *StrainHandler) Create(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	var req strain.CreateStrainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.strainService.Create(&req, userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Strain created successfully",
		"data":    created,
	})
}

// ConvertFromLot converts bags from a production lot into a new strain lot
func (h *StrainHandler) ConvertFromLot(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	var req strain.ConvertFromLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.strainService.ConvertFromLot(&req, userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Strain converted successfully",
		"data":    result,
	})
}

// GetStrains lists strain lots
func (h *StrainHandler) GetStrains(c *gin.Context) {
	strains, err := h.strainService.GetStrains()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": strains,
	})
}

// GetStrain returns a single strain lot by ID
func (h *StrainHandler) GetStrain(c *gin.Context) {
	strainID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	result, err := h.strainService.GetStrain(strainID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": result,
	})
}
