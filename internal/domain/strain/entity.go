// internal/domain/strain/entity.go
package strain

import (
	"time"

	"gorm.io/gorm"
)

// CreationType represents how a strain lot came to exist
type CreationType string

const (
	CreationTypeInoculated       CreationType = "inoculated"
	CreationTypePurchased        CreationType = "purchased"
	CreationTypeConvertedFromLot CreationType = "converted_from_lot"
)

// StrainLot (cepa) is a derived inoculum source: freshly produced, purchased,
// or converted from an existing production lot's remaining bags. When
// converted, SourceLotID references the lot and a strain-conversion bag event
// is recorded against it in the same transaction.
type StrainLot struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	StrainCode      string         `gorm:"uniqueIndex;not null;size:50" json:"strain_code"`
	CreationType    CreationType   `gorm:"not null;size:30;index" json:"creation_type"`
	MicroorganismID uint           `gorm:"not null;index" json:"microorganism_id"`
	BagCount        int            `gorm:"not null" json:"bag_count"`
	SourceLotID     *uint          `gorm:"index" json:"source_lot_id,omitempty"`
	Notes           string         `gorm:"type:text" json:"notes"`
	CreatedBy       uint           `gorm:"index" json:"created_by"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Responsibles []StrainResponsible `gorm:"foreignKey:StrainLotID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"responsibles,omitempty"`
}

// StrainResponsible links a strain lot to a responsible user
type StrainResponsible struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StrainLotID uint      `gorm:"not null;index" json:"strain_lot_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}
