// internal/interfaces/http/handlers/recipe.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/biolab-backend/internal/config"
	"github.com/your-org/biolab-backend/internal/domain/recipe"
	"github.com/your-org/biolab-backend/internal/domain/supply"
	"gorm.io/gorm"
)

// RecipeHandler handles recipe and microorganism endpoints
type RecipeHandler struct {
	recipeService *recipe.Service
	config        *config.Config
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(db *gorm.DB, cfg *config.Config) *RecipeHandler {
	supplyService := supply.NewService(db, cfg)
	return &RecipeHandler{
		recipeService: recipe.NewService(db, cfg, supplyService),
		config:        cfg,
	}
}

// CreateRecipe creates a recipe with its per-unit items
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req recipe.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.recipeService.CreateRecipe(&req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Recipe created successfully",
		"data":    created,
	})
}

// GetRecipes lists active recipes with their items
func (h *RecipeHandler) GetRecipes(c *gin.Context) {
	recipes, err := h.recipeService.GetRecipes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": recipes,
	})
}

// GetRecipe returns a single recipe by ID
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipeID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	result, err := h.recipeService.GetRecipe(recipeID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": result,
	})
}

// ComputeBatch scales a recipe's per-unit quantities to a batch size
func (h *RecipeHandler) ComputeBatch(c *gin.Context) {
	recipeID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	batchSize, err := strconv.Atoi(c.DefaultQuery("batch_size", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid batch_size parameter",
		})
		return
	}

	required, err := h.recipeService.ComputeForBatch(recipeID, batchSize)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"recipe_id":  recipeID,
			"batch_size": batchSize,
			"required":   required,
		},
	})
}

// PreviewBatch computes a batch's requirements against current stock,
// per supply, without consuming anything
func (h *RecipeHandler) PreviewBatch(c *gin.Context) {
	recipeID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req recipe.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	preview, err := h.recipeService.PreviewBatch(recipeID, req.BatchSize)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": preview,
	})
}

// CreateMicroorganism registers a microorganism
func (h *RecipeHandler) CreateMicroorganism(c *gin.Context) {
	var req recipe.CreateMicroorganismRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.recipeService.CreateMicroorganism(&req)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Microorganism created successfully",
		"data":    created,
	})
}

// GetMicroorganisms lists registered microorganisms
func (h *RecipeHandler) GetMicroorganisms(c *gin.Context) {
	microorganisms, err := h.recipeService.GetMicroorganisms()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": microorganisms,
	})
}
