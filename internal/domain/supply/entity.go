// internal/domain/supply/entity.go
package supply

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ConsumptionPurpose represents what a stock consumption was for
type ConsumptionPurpose string

const (
	PurposeLotProduction    ConsumptionPurpose = "lot_production"
	PurposeStrainProduction ConsumptionPurpose = "strain_production"
	PurposeDiscard          ConsumptionPurpose = "discard"
)

// Supply represents a raw material in the catalog (substrate, grain, reagent)
type Supply struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"not null;size:100" json:"name"`
	Code         string          `gorm:"uniqueIndex;not null;size:50" json:"code"`
	Unit         string          `gorm:"not null;size:20" json:"unit"` // g, kg, L, mL, unit
	MinimumStock decimal.Decimal `gorm:"type:decimal(20,8);default:0" json:"minimum_stock"`
	Notes        string          `gorm:"type:text" json:"notes"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Stocks []SupplyStock `gorm:"foreignKey:SupplyID" json:"stocks,omitempty"`
}

// SupplyStock represents a batch of a supply received at a point in time.
// ReceivedAt is the FIFO order key; batches are never deleted, a fully
// consumed batch stays at zero remaining for audit.
type SupplyStock struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	SupplyID          uint            `gorm:"not null;index" json:"supply_id"`
	QuantityReceived  decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"quantity_received"`
	QuantityRemaining decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"quantity_remaining"`
	Unit              string          `gorm:"not null;size:20" json:"unit"`
	ReceivedAt        time.Time       `gorm:"not null;index" json:"received_at"`
	ExpiresAt         *time.Time      `json:"expires_at,omitempty"`
	SupplierRef       string          `gorm:"size:100" json:"supplier_ref"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	// Relationships
	Supply Supply             `gorm:"foreignKey:SupplyID" json:"supply,omitempty"`
	Events []ConsumptionEvent `gorm:"foreignKey:SupplyStockID" json:"events,omitempty"`
}

// ConsumptionEvent is an immutable record of supply taken from a stock batch.
// Events are append-only; they are never updated or deleted.
type ConsumptionEvent struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	SupplyStockID uint               `gorm:"not null;index" json:"supply_stock_id"`
	QuantityTaken decimal.Decimal    `gorm:"type:decimal(20,8);not null" json:"quantity_taken"`
	PurposeType   ConsumptionPurpose `gorm:"not null;size:30;index" json:"purpose_type"`
	PurposeID     uint               `gorm:"index" json:"purpose_id"`
	OccurredAt    time.Time          `gorm:"not null" json:"occurred_at"`
	RecordedBy    uint               `gorm:"index" json:"recorded_by"`
	CreatedAt     time.Time          `json:"created_at"`

	// Relationships
	SupplyStock SupplyStock `gorm:"foreignKey:SupplyStockID" json:"supply_stock,omitempty"`
}

// StockAlert represents a low stock alert for a supply
type StockAlert struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	SupplyID   uint       `gorm:"not null;index" json:"supply_id"`
	AlertType  string     `gorm:"not null" json:"alert_type"` // "low_stock", "out_of_stock"
	Message    string     `gorm:"type:text" json:"message"`
	IsResolved bool       `gorm:"default:false" json:"is_resolved"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Relationships
	Supply Supply `gorm:"foreignKey:SupplyID" json:"supply,omitempty"`
}

// HasRemaining returns true if the batch still has stock to consume
func (ss *SupplyStock) HasRemaining() bool {
	return ss.QuantityRemaining.GreaterThan(decimal.Zero)
}

// IsExpired returns true if the batch is past its expiry date
func (ss *SupplyStock) IsExpired(now time.Time) bool {
	return ss.ExpiresAt != nil && now.After(*ss.ExpiresAt)
}
