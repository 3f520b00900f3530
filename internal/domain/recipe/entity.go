// internal/domain/recipe/entity.go
package recipe

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Microorganism represents a cultivable microorganism (fungus, bacterium)
type Microorganism struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"not null;size:100" json:"name"`
	ScientificName string         `gorm:"size:150" json:"scientific_name"`
	Type           string         `gorm:"size:50" json:"type"` // "fungus", "bacterium"
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// Recipe maps a microorganism production to per-unit supply quantities.
// Recipes live in the database as data; the calculator itself carries no
// domain literals.
type Recipe struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	MicroorganismID uint           `gorm:"not null;index" json:"microorganism_id"`
	Name            string         `gorm:"not null;size:100" json:"name"`
	YieldUnit       string         `gorm:"not null;size:20;default:'bag'" json:"yield_unit"`
	IsActive        bool           `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Microorganism Microorganism `gorm:"foreignKey:MicroorganismID" json:"microorganism,omitempty"`
	Items         []RecipeItem  `gorm:"foreignKey:RecipeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// RecipeItem is one (supply, per-unit quantity) tuple of a recipe
type RecipeItem struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	RecipeID        uint            `gorm:"not null;index" json:"recipe_id"`
	SupplyID        uint            `gorm:"not null;index" json:"supply_id"`
	PerUnitQuantity decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"per_unit_quantity"`
	Unit            string          `gorm:"not null;size:20" json:"unit"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
