// internal/domain/recipe/service.go
package recipe

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/your-org/biolab-backend/internal/config"
	"github.com/your-org/biolab-backend/internal/domain/supply"
	"gorm.io/gorm"
)

// Service handles recipe business logic
type Service struct {
	db            *gorm.DB
	config        *config.Config
	supplyService *supply.Service
}

// NewService creates a new recipe service
func NewService(db *gorm.DB, cfg *config.Config, supplyService *supply.Service) *Service {
	return &Service{
		db:            db,
		config:        cfg,
		supplyService: supplyService,
	}
}

// CreateRecipeRequest represents recipe creation data
type CreateRecipeRequest struct {
	MicroorganismID uint                `json:"microorganism_id" binding:"required"`
	Name            string              `json:"name" binding:"required"`
	YieldUnit       string              `json:"yield_unit"`
	Items           []RecipeItemRequest `json:"items" binding:"required,min=1"`
}

// RecipeItemRequest represents one recipe line
type RecipeItemRequest struct {
	SupplyID        uint            `json:"supply_id" binding:"required"`
	PerUnitQuantity decimal.Decimal `json:"per_unit_quantity" binding:"required"`
	Unit            string          `json:"unit" binding:"required"`
}

// PreviewRequest represents a batch preview query
type PreviewRequest struct {
	BatchSize int `json:"batch_size" binding:"required"`
}

// SupplyPreview is the preview result for one required supply
type SupplyPreview struct {
	SupplyID   uint              `json:"supply_id"`
	SupplyName string            `json:"supply_name"`
	Required   decimal.Decimal   `json:"required"`
	Available  decimal.Decimal   `json:"available"`
	Unit       string            `json:"unit"`
	Satisfied  bool              `json:"satisfied"`
	Plan       []supply.PlanEntry `json:"plan,omitempty"`
}

// CreateRecipe creates a recipe with its items
func (s *Service) CreateRecipe(req *CreateRecipeRequest) (*Recipe, error) {
	var microorganism Microorganism
	if err := s.db.First(&microorganism, req.MicroorganismID).Error; err != nil {
		return nil, fmt.Errorf("microorganism not found")
	}

	yieldUnit := req.YieldUnit
	if yieldUnit == "" {
		yieldUnit = "bag"
	}

	r := &Recipe{
		MicroorganismID: req.MicroorganismID,
		Name:            req.Name,
		YieldUnit:       yieldUnit,
		IsActive:        true,
	}
	for _, item := range req.Items {
		if item.PerUnitQuantity.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("per-unit quantity for supply %d must be greater than zero", item.SupplyID)
		}
		r.Items = append(r.Items, RecipeItem{
			SupplyID:        item.SupplyID,
			PerUnitQuantity: item.PerUnitQuantity,
			Unit:            item.Unit,
		})
	}

	if err := s.db.Create(r).Error; err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	return r, nil
}

// GetRecipes retrieves all active recipes with their items
func (s *Service) GetRecipes() ([]Recipe, error) {
	var recipes []Recipe
	if err := s.db.Preload("Items").Preload("Microorganism").
		Where("is_active = ?", true).
		Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve recipes: %w", err)
	}
	return recipes, nil
}

// GetRecipe retrieves a recipe by id; fails with ErrUnknownRecipe when missing
func (s *Service) GetRecipe(recipeID uint) (*Recipe, error) {
	var r Recipe
	err := s.db.Preload("Items").Preload("Microorganism").First(&r, recipeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnknownRecipe
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve recipe: %w", err)
	}
	return &r, nil
}

// ComputeForBatch loads a recipe and computes required supplies for a batch
func (s *Service) ComputeForBatch(recipeID uint, batchSize int) ([]RequiredSupply, error) {
	r, err := s.GetRecipe(recipeID)
	if err != nil {
		return nil, err
	}
	return ComputeRequiredSupplies(r, batchSize)
}

// PreviewBatch computes required supplies and a FIFO plan per supply without
// committing anything, so the UI can confirm a batch before creating it
func (s *Service) PreviewBatch(recipeID uint, batchSize int) ([]SupplyPreview, error) {
	required, err := s.ComputeForBatch(recipeID, batchSize)
	if err != nil {
		return nil, err
	}

	previews := make([]SupplyPreview, 0, len(required))
	for _, line := range required {
		sup, err := s.supplyService.GetSupply(line.SupplyID)
		if err != nil {
			return nil, err
		}

		available, err := s.supplyService.AvailableQuantity(line.SupplyID)
		if err != nil {
			return nil, err
		}

		preview := SupplyPreview{
			SupplyID:   line.SupplyID,
			SupplyName: sup.Name,
			Required:   line.Quantity,
			Available:  available,
			Unit:       line.Unit,
		}

		plan, err := s.supplyService.Plan(line.SupplyID, line.Quantity)
		if err == nil {
			preview.Satisfied = true
			preview.Plan = plan.Entries
		} else {
			var insufficient *supply.InsufficientStockError
			if !errors.As(err, &insufficient) {
				return nil, err
			}
		}

		previews = append(previews, preview)
	}

	return previews, nil
}

// MICROORGANISMS

// CreateMicroorganismRequest represents microorganism creation data
type CreateMicroorganismRequest struct {
	Name           string `json:"name" binding:"required"`
	ScientificName string `json:"scientific_name"`
	Type           string `json:"type"`
}

// CreateMicroorganism creates a new microorganism
func (s *Service) CreateMicroorganism(req *CreateMicroorganismRequest) (*Microorganism, error) {
	m := &Microorganism{
		Name:           req.Name,
		ScientificName: req.ScientificName,
		Type:           req.Type,
		IsActive:       true,
	}
	if err := s.db.Create(m).Error; err != nil {
		return nil, fmt.Errorf("failed to create microorganism: %w", err)
	}
	return m, nil
}

// GetMicroorganisms retrieves all active microorganisms
func (s *Service) GetMicroorganisms() ([]Microorganism, error) {
	var microorganisms []Microorganism
	if err := s.db.Where("is_active = ?", true).Order("name").Find(&microorganisms).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve microorganisms: %w", err)
	}
	return microorganisms, nil
}
