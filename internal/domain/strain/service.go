// internal/domain/strain/service.go
package strain

import (
	"fmt"
	"time"

	"github.com/your-org/biolab-backend/internal/config"
	"github.com/your-org/biolab-backend/internal/domain/lot"
	"gorm.io/gorm"
)

// Service handles strain (cepa) business logic
type Service struct {
	db         *gorm.DB
	config     *config.Config
	lotService *lot.Service
}

// NewService creates a new strain service
func NewService(db *gorm.DB, cfg *config.Config, lotService *lot.Service) *Service {
	return &Service{
		db:         db,
		config:     cfg,
		lotService: lotService,
	}
}

// CreateStrainRequest represents direct strain creation (inoculated or purchased)
type CreateStrainRequest struct {
	CreationType    CreationType `json:"creation_type" binding:"required"`
	MicroorganismID uint         `json:"microorganism_id" binding:"required"`
	BagCount        int          `json:"bag_count" binding:"required"`
	Notes           string       `json:"notes"`
	ResponsibleIDs  []uint       `json:"responsible_ids"`
}

// ConvertFromLotRequest represents conversion of lot bags into a strain lot
type ConvertFromLotRequest struct {
	LotID          uint   `json:"lot_id" binding:"required"`
	BagCount       int    `json:"bag_count" binding:"required"`
	Notes          string `json:"notes"`
	ResponsibleIDs []uint `json:"responsible_ids"`
}

// ConversionResponse carries the new strain and the source lot's remaining bags
type ConversionResponse struct {
	Strain            StrainLot    `json:"strain"`
	SourceLotState    lot.LotState `json:"source_lot_state"`
	SourceLotBagsLeft int          `json:"source_lot_bags_left"`
}

// Create registers a strain produced by direct inoculation or purchase.
// Lot conversion goes through ConvertFromLot so the bag event stays atomic.
func (s *Service) Create(req *CreateStrainRequest, userID uint) (*StrainLot, error) {
	if req.CreationType == CreationTypeConvertedFromLot {
		return nil, fmt.Errorf("use the lot conversion endpoint to create a strain from a lot")
	}
	if req.CreationType != CreationTypeInoculated && req.CreationType != CreationTypePurchased {
		return nil, fmt.Errorf("invalid creation type: %s", req.CreationType)
	}
	if req.BagCount <= 0 {
		return nil, fmt.Errorf("bag count must be greater than zero, got %d", req.BagCount)
	}

	var created StrainLot
	err := s.db.Transaction(func(tx *gorm.DB) error {
		created = StrainLot{
			CreationType:    req.CreationType,
			MicroorganismID: req.MicroorganismID,
			BagCount:        req.BagCount,
			Notes:           req.Notes,
			CreatedBy:       userID,
		}
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("failed to create strain: %w", err)
		}

		created.StrainCode = s.generateStrainCode(created.ID)
		if err := tx.Model(&created).Update("strain_code", created.StrainCode).Error; err != nil {
			return fmt.Errorf("failed to update strain code: %w", err)
		}

		return s.createResponsibles(tx, created.ID, req.ResponsibleIDs)
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// ConvertFromLot converts bags from a production lot into a strain lot. The
// strain record and the strain-conversion bag event commit in one
// transaction: either both exist afterwards or neither does. Guard failures
// (depleted lot, more bags than available) leave no partial state.
func (s *Service) ConvertFromLot(req *ConvertFromLotRequest, userID uint) (*ConversionResponse, error) {
	var result ConversionResponse

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var sourceLot lot.ProductionLot
		if err := tx.First(&sourceLot, req.LotID).Error; err != nil {
			return fmt.Errorf("lot not found: %w", err)
		}

		created := StrainLot{
			CreationType:    CreationTypeConvertedFromLot,
			MicroorganismID: sourceLot.MicroorganismID,
			BagCount:        req.BagCount,
			SourceLotID:     &sourceLot.ID,
			Notes:           req.Notes,
			CreatedBy:       userID,
		}
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("failed to create strain: %w", err)
		}

		created.StrainCode = s.generateStrainCode(created.ID)
		if err := tx.Model(&created).Update("strain_code", created.StrainCode).Error; err != nil {
			return fmt.Errorf("failed to update strain code: %w", err)
		}

		updatedLot, bagsLeft, err := s.lotService.ConsumeBagsTx(
			tx, sourceLot.ID, req.BagCount, lot.BagPurposeStrainConversion, created.ID, req.Notes, userID)
		if err != nil {
			return err
		}

		if err := s.createResponsibles(tx, created.ID, req.ResponsibleIDs); err != nil {
			return err
		}

		result = ConversionResponse{
			Strain:            created,
			SourceLotState:    updatedLot.State,
			SourceLotBagsLeft: bagsLeft,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetStrains retrieves all strain lots
func (s *Service) GetStrains() ([]StrainLot, error) {
	var strains []StrainLot
	if err := s.db.Preload("Responsibles").Order("created_at DESC").Find(&strains).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve strains: %w", err)
	}
	return strains, nil
}

// GetStrain retrieves a single strain lot by id
func (s *Service) GetStrain(strainID uint) (*StrainLot, error) {
	var strainLot StrainLot
	if err := s.db.Preload("Responsibles").First(&strainLot, strainID).Error; err != nil {
		return nil, fmt.Errorf("strain not found: %w", err)
	}
	return &strainLot, nil
}

func (s *Service) createResponsibles(tx *gorm.DB, strainLotID uint, userIDs []uint) error {
	for _, responsibleID := range userIDs {
		responsible := StrainResponsible{
			StrainLotID: strainLotID,
			UserID:      responsibleID,
		}
		if err := tx.Create(&responsible).Error; err != nil {
			return fmt.Errorf("failed to assign responsible %d: %w", responsibleID, err)
		}
	}
	return nil
}

func (s *Service) generateStrainCode(strainID uint) string {
	// Format: CEP-YYYYMMDD-XXXXX
	return fmt.Sprintf("CEP-%s-%05d", time.Now().Format("20060102"), strainID)
}
