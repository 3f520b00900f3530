// internal/domain/lot/entity.go
package lot

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// LotState represents the lifecycle state of a production lot
type LotState string

const (
	LotStateIncubating   LotState = "incubating"
	LotStateRefrigerated LotState = "refrigerated"
	LotStateDepleted     LotState = "depleted"
)

// BagPurpose represents why bags were removed from a lot
type BagPurpose string

const (
	BagPurposeDiscard          BagPurpose = "discard"
	BagPurposeHarvest          BagPurpose = "harvest"
	BagPurposeStrainConversion BagPurpose = "strain_conversion"
)

// ProductionLot represents a batch of inoculated substrate bags tracked as a
// unit through incubation and refrigeration until depleted. The record is
// never deleted; a depleted lot stays for history.
type ProductionLot struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	LotCode         string         `gorm:"uniqueIndex;not null;size:50" json:"lot_code"`
	MicroorganismID uint           `gorm:"not null;index" json:"microorganism_id"`
	RecipeID        uint           `gorm:"index" json:"recipe_id"`
	InitialBagCount int            `gorm:"not null" json:"initial_bag_count"`
	State           LotState       `gorm:"not null;default:'incubating';index" json:"state"`
	Notes           string         `gorm:"type:text" json:"notes"`
	RefrigeratedAt  *time.Time     `json:"refrigerated_at,omitempty"`
	CreatedBy       uint           `gorm:"index" json:"created_by"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Responsibles []LotResponsible      `gorm:"foreignKey:LotID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"responsibles,omitempty"`
	Events       []BagConsumptionEvent `gorm:"foreignKey:LotID" json:"events,omitempty"`
}

// LotResponsible links a lot to a responsible user
type LotResponsible struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LotID     uint      `gorm:"not null;index" json:"lot_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BagConsumptionEvent is an immutable record of bags removed from a lot.
// Events are append-only; the lot's available count is always recomputed
// from them rather than decremented in place.
type BagConsumptionEvent struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	LotID       uint       `gorm:"not null;index" json:"lot_id"`
	Quantity    int        `gorm:"not null" json:"quantity"`
	PurposeType BagPurpose `gorm:"not null;size:30;index" json:"purpose_type"`
	PurposeID   uint       `gorm:"index" json:"purpose_id"`
	Notes       string     `gorm:"type:text" json:"notes"`
	OccurredAt  time.Time  `gorm:"not null" json:"occurred_at"`
	RecordedBy  uint       `gorm:"index" json:"recorded_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsTerminal returns true for states no operation can leave
func (s LotState) IsTerminal() bool {
	return s == LotStateDepleted
}

// AfterFind maps the stored state through NormalizeState so rows migrated
// from the old system, which carry Spanish spellings, load as the closed enum.
func (l *ProductionLot) AfterFind(tx *gorm.DB) error {
	state, err := NormalizeState(string(l.State))
	if err != nil {
		return err
	}
	l.State = state
	return nil
}

// NormalizeState maps raw store values, including the legacy Spanish
// spelling variants, onto the closed state enum. This is the single
// normalization boundary; the rest of the package never sees raw strings.
func NormalizeState(raw string) (LotState, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "incubating", "incubación", "incubacion", "en incubación", "en incubacion":
		return LotStateIncubating, nil
	case "refrigerated", "refrigeración", "refrigeracion", "refrigerado", "en refrigeración", "en refrigeracion":
		return LotStateRefrigerated, nil
	case "depleted", "agotado", "terminado":
		return LotStateDepleted, nil
	default:
		return "", fmt.Errorf("unrecognized lot state: %q", raw)
	}
}
