// internal/domain/lot/service.go
package lot

import (
	"fmt"
	"time"

	"github.com/your-org/biolab-backend/internal/config"
	"github.com/your-org/biolab-backend/internal/domain/recipe"
	"github.com/your-org/biolab-backend/internal/domain/supply"
	"gorm.io/gorm"
)

// Service handles production lot business logic
type Service struct {
	db            *gorm.DB
	config        *config.Config
	recipeService *recipe.Service
	supplyService *supply.Service
}

// NewService creates a new lot service
func NewService(db *gorm.DB, cfg *config.Config, recipeService *recipe.Service, supplyService *supply.Service) *Service {
	return &Service{
		db:            db,
		config:        cfg,
		recipeService: recipeService,
		supplyService: supplyService,
	}
}

// CreateLotRequest represents inoculation data for a new production lot
type CreateLotRequest struct {
	RecipeID       uint   `json:"recipe_id" binding:"required"`
	BatchSize      int    `json:"batch_size" binding:"required"`
	Notes          string `json:"notes"`
	ResponsibleIDs []uint `json:"responsible_ids"`
}

// ConsumeBagsRequest represents a bag consumption request
type ConsumeBagsRequest struct {
	Quantity    int        `json:"quantity" binding:"required"`
	PurposeType BagPurpose `json:"purpose_type" binding:"required"`
	Notes       string     `json:"notes"`
}

// LotResponse is a lot with its recomputed availability
type LotResponse struct {
	Lot           ProductionLot `json:"lot"`
	AvailableBags int           `json:"available_bags"`
}

// LotListRequest represents lot list query parameters
type LotListRequest struct {
	Page  int      `form:"page,default=1"`
	Limit int      `form:"limit,default=20"`
	State LotState `form:"state"`
}

// StateSummary holds per-state lot counts for the dashboard
type StateSummary struct {
	Incubating   int64 `json:"incubating"`
	Refrigerated int64 `json:"refrigerated"`
	Depleted     int64 `json:"depleted"`
	TotalBags    int64 `json:"total_available_bags"`
}

// CreateLot inoculates a new production lot: computes the recipe's required
// supplies for the batch, commits a FIFO consumption plan per supply, and
// creates the lot, all in one transaction. Any failure (including
// insufficient stock on any single supply) rolls back the whole batch.
// Low stock checks for the consumed supplies run after the commit.
func (s *Service) CreateLot(req *CreateLotRequest, userID uint) (*LotResponse, error) {
	r, err := s.recipeService.GetRecipe(req.RecipeID)
	if err != nil {
		return nil, err
	}

	required, err := recipe.ComputeRequiredSupplies(r, req.BatchSize)
	if err != nil {
		return nil, err
	}

	var created ProductionLot
	err = s.db.Transaction(func(tx *gorm.DB) error {
		created = ProductionLot{
			MicroorganismID: r.MicroorganismID,
			RecipeID:        r.ID,
			InitialBagCount: req.BatchSize,
			State:           LotStateIncubating,
			Notes:           req.Notes,
			CreatedBy:       userID,
		}
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("failed to create lot: %w", err)
		}

		created.LotCode = s.generateLotCode(created.ID)
		if err := tx.Model(&created).Update("lot_code", created.LotCode).Error; err != nil {
			return fmt.Errorf("failed to update lot code: %w", err)
		}

		for _, line := range required {
			var stocks []supply.SupplyStock
			if err := tx.Where("supply_id = ?", line.SupplyID).
				Order("received_at ASC, id ASC").
				Find(&stocks).Error; err != nil {
				return fmt.Errorf("failed to load stock batches for supply %d: %w", line.SupplyID, err)
			}

			plan, err := supply.PlanConsumption(line.SupplyID, line.Quantity, stocks)
			if err != nil {
				return err
			}

			if err := s.supplyService.CommitConsumptionTx(tx, plan, supply.PurposeLotProduction, created.ID, userID); err != nil {
				return err
			}
		}

		for _, responsibleID := range req.ResponsibleIDs {
			responsible := LotResponsible{
				LotID:  created.ID,
				UserID: responsibleID,
			}
			if err := tx.Create(&responsible).Error; err != nil {
				return fmt.Errorf("failed to assign responsible %d: %w", responsibleID, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	supplyIDs := make([]uint, 0, len(required))
	for _, line := range required {
		supplyIDs = append(supplyIDs, line.SupplyID)
	}
	s.supplyService.CheckLowStockForSupplies(supplyIDs)

	return &LotResponse{
		Lot:           created,
		AvailableBags: created.InitialBagCount,
	}, nil
}

// GetLots retrieves lots with their recomputed availability
func (s *Service) GetLots(req *LotListRequest) ([]LotResponse, error) {
	query := s.db.Preload("Responsibles").Order("created_at DESC")
	if req.State != "" {
		query = query.Where("state = ?", req.State)
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}
	query = query.Offset((req.Page - 1) * req.Limit).Limit(req.Limit)

	var lots []ProductionLot
	if err := query.Find(&lots).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve lots: %w", err)
	}

	responses := make([]LotResponse, 0, len(lots))
	for i := range lots {
		available, err := s.availability(&lots[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, LotResponse{
			Lot:           lots[i],
			AvailableBags: available,
		})
	}

	return responses, nil
}

// GetLot retrieves a single lot with recomputed availability
func (s *Service) GetLot(lotID uint) (*LotResponse, error) {
	var l ProductionLot
	if err := s.db.Preload("Responsibles").Preload("Events").First(&l, lotID).Error; err != nil {
		return nil, fmt.Errorf("lot not found: %w", err)
	}

	available, err := Reconcile(&l, l.Events)
	if err != nil {
		return nil, err
	}

	return &LotResponse{
		Lot:           l,
		AvailableBags: available,
	}, nil
}

// Refrigerate moves a lot from incubation to refrigeration. One-way.
func (s *Service) Refrigerate(lotID uint) (*LotResponse, error) {
	var result LotResponse

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var l ProductionLot
		if err := tx.First(&l, lotID).Error; err != nil {
			return fmt.Errorf("lot not found: %w", err)
		}

		var events []BagConsumptionEvent
		if err := tx.Where("lot_id = ?", l.ID).Find(&events).Error; err != nil {
			return fmt.Errorf("failed to load lot events: %w", err)
		}

		available, err := Reconcile(&l, events)
		if err != nil {
			return err
		}

		if err := CanRefrigerate(&l, available); err != nil {
			return err
		}

		now := time.Now().UTC()
		l.State = LotStateRefrigerated
		l.RefrigeratedAt = &now
		if err := tx.Model(&l).Updates(map[string]interface{}{
			"state":           LotStateRefrigerated,
			"refrigerated_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to refrigerate lot: %w", err)
		}

		result = LotResponse{Lot: l, AvailableBags: available}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// ConsumeBags removes bags from a lot (discard, harvest, strain conversion)
// in its own transaction
func (s *Service) ConsumeBags(lotID uint, req *ConsumeBagsRequest, userID uint) (*LotResponse, error) {
	var result LotResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		l, available, err := s.ConsumeBagsTx(tx, lotID, req.Quantity, req.PurposeType, 0, req.Notes, userID)
		if err != nil {
			return err
		}
		result = LotResponse{Lot: *l, AvailableBags: available}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ConsumeBagsTx appends a bag consumption event inside an existing
// transaction and re-derives the lot state; used directly by strain
// conversion so the event and the strain record commit atomically.
// Availability is recomputed from the full event log at commit time; each
// call creates a new event, so retry deduplication is the caller's job.
func (s *Service) ConsumeBagsTx(tx *gorm.DB, lotID uint, quantity int, purposeType BagPurpose, purposeID uint, notes string, userID uint) (*ProductionLot, int, error) {
	var l ProductionLot
	if err := tx.First(&l, lotID).Error; err != nil {
		return nil, 0, fmt.Errorf("lot not found: %w", err)
	}

	var events []BagConsumptionEvent
	if err := tx.Where("lot_id = ?", l.ID).Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to load lot events: %w", err)
	}

	available, err := Reconcile(&l, events)
	if err != nil {
		return nil, 0, err
	}

	if err := CanConsume(&l, available, quantity); err != nil {
		return nil, 0, err
	}

	event := BagConsumptionEvent{
		LotID:       l.ID,
		Quantity:    quantity,
		PurposeType: purposeType,
		PurposeID:   purposeID,
		Notes:       notes,
		OccurredAt:  time.Now().UTC(),
		RecordedBy:  userID,
	}
	if err := tx.Create(&event).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to record bag consumption: %w", err)
	}

	availableAfter := available - quantity
	next := NextState(&l, availableAfter)
	if next != l.State {
		if err := tx.Model(&l).Update("state", next).Error; err != nil {
			return nil, 0, fmt.Errorf("failed to update lot state: %w", err)
		}
		l.State = next
	}

	return &l, availableAfter, nil
}

// Summary returns per-state lot counts and total available bags
func (s *Service) Summary() (*StateSummary, error) {
	summary := &StateSummary{}

	counts := []struct {
		state  LotState
		target *int64
	}{
		{LotStateIncubating, &summary.Incubating},
		{LotStateRefrigerated, &summary.Refrigerated},
		{LotStateDepleted, &summary.Depleted},
	}
	for _, c := range counts {
		if err := s.db.Model(&ProductionLot{}).Where("state = ?", c.state).Count(c.target).Error; err != nil {
			return nil, fmt.Errorf("failed to count lots: %w", err)
		}
	}

	var lots []ProductionLot
	if err := s.db.Where("state <> ?", LotStateDepleted).Find(&lots).Error; err != nil {
		return nil, fmt.Errorf("failed to load active lots: %w", err)
	}
	for i := range lots {
		available, err := s.availability(&lots[i])
		if err != nil {
			return nil, err
		}
		summary.TotalBags += int64(available)
	}

	return summary, nil
}

func (s *Service) availability(l *ProductionLot) (int, error) {
	var events []BagConsumptionEvent
	if err := s.db.Where("lot_id = ?", l.ID).Find(&events).Error; err != nil {
		return 0, fmt.Errorf("failed to load lot events: %w", err)
	}
	return Reconcile(l, events)
}

func (s *Service) generateLotCode(lotID uint) string {
	// Format: LOT-YYYYMMDD-XXXXX
	return fmt.Sprintf("LOT-%s-%05d", time.Now().Format("20060102"), lotID)
}
