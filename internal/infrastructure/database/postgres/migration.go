// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/your-org/biolab-backend/internal/domain/lot"
	"github.com/your-org/biolab-backend/internal/domain/recipe"
	"github.com/your-org/biolab-backend/internal/domain/strain"
	"github.com/your-org/biolab-backend/internal/domain/supply"
	"github.com/your-org/biolab-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Define all models that need migration in dependency order
	models := []interface{}{
		// User domain - Base tables
		&user.User{},

		// Catalog tables
		&recipe.Microorganism{},
		&recipe.Recipe{},
		&recipe.RecipeItem{},
		&supply.Supply{},

		// Stock ledger
		&supply.SupplyStock{},
		&supply.ConsumptionEvent{},
		&supply.StockAlert{},

		// Production lots
		&lot.ProductionLot{},
		&lot.LotResponsible{},
		&lot.BagConsumptionEvent{},

		// Strains
		&strain.StrainLot{},
		&strain.StrainResponsible{},
	}

	// Run auto-migration for each model
	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",

		// Stock ledger indexes
		"CREATE INDEX IF NOT EXISTS idx_supply_stocks_fifo ON supply_stocks(supply_id, received_at, id)",
		"CREATE INDEX IF NOT EXISTS idx_consumption_events_stock ON consumption_events(supply_stock_id, occurred_at)",
		"CREATE INDEX IF NOT EXISTS idx_consumption_events_purpose ON consumption_events(purpose_type, purpose_id)",
		"CREATE INDEX IF NOT EXISTS idx_stock_alerts_open ON stock_alerts(supply_id, is_resolved)",

		// Lot indexes
		"CREATE INDEX IF NOT EXISTS idx_production_lots_state_created ON production_lots(state, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_production_lots_lot_code ON production_lots(lot_code)",
		"CREATE INDEX IF NOT EXISTS idx_bag_consumption_events_lot ON bag_consumption_events(lot_id, occurred_at)",
		"CREATE INDEX IF NOT EXISTS idx_bag_consumption_events_purpose ON bag_consumption_events(purpose_type, purpose_id)",

		// Strain indexes
		"CREATE INDEX IF NOT EXISTS idx_strain_lots_source_lot ON strain_lots(source_lot_id)",
		"CREATE INDEX IF NOT EXISTS idx_strain_lots_creation_type ON strain_lots(creation_type, created_at DESC)",

		// Recipe indexes
		"CREATE INDEX IF NOT EXISTS idx_recipe_items_recipe ON recipe_items(recipe_id)",
		"CREATE INDEX IF NOT EXISTS idx_recipes_microorganism ON recipes(microorganism_id, is_active)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("✅ Database indexes created successfully")
	return nil
}

// SeedInitialData seeds the database with initial data for development
func (m *Migration) SeedInitialData() error {
	log.Println("🔄 Seeding initial data...")

	if err := m.seedAdminUser(); err != nil {
		return err
	}

	if err := m.seedCatalog(); err != nil {
		return err
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

func (m *Migration) seedAdminUser() error {
	var count int64
	m.db.Model(&user.User{}).Where("is_admin = ?", true).Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123456"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := user.User{
		Email:     "admin@biolab.local",
		Password:  string(hashedPassword),
		FirstName: "Admin",
		LastName:  "User",
		Role:      "supervisor",
		IsActive:  true,
		IsAdmin:   true,
	}

	if err := m.db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Println("Seeded admin user: admin@biolab.local")
	return nil
}

// seedCatalog loads the standard cepas-production formula so a fresh
// development environment can run a full inoculation flow
func (m *Migration) seedCatalog() error {
	var count int64
	m.db.Model(&recipe.Recipe{}).Count(&count)
	if count > 0 {
		return nil
	}

	supplies := []supply.Supply{
		{Name: "Arroz", Code: "ARROZ", Unit: "g", MinimumStock: decimal.NewFromInt(5000), IsActive: true},
		{Name: "Agua destilada", Code: "AGUA-D", Unit: "mL", MinimumStock: decimal.NewFromInt(10000), IsActive: true},
		{Name: "Extracto de levadura", Code: "EXT-LEV", Unit: "g", MinimumStock: decimal.NewFromInt(100), IsActive: true},
		{Name: "Bolsa de polipropileno", Code: "BOLSA-PP", Unit: "unit", MinimumStock: decimal.NewFromInt(50), IsActive: true},
	}
	for i := range supplies {
		if err := m.db.Create(&supplies[i]).Error; err != nil {
			return fmt.Errorf("failed to seed supply %s: %w", supplies[i].Code, err)
		}
	}

	microorganism := recipe.Microorganism{
		Name:           "Trichoderma",
		ScientificName: "Trichoderma harzianum",
		Type:           "fungus",
		IsActive:       true,
	}
	if err := m.db.Create(&microorganism).Error; err != nil {
		return fmt.Errorf("failed to seed microorganism: %w", err)
	}

	cepasRecipe := recipe.Recipe{
		MicroorganismID: microorganism.ID,
		Name:            "Producción de cepas - Trichoderma",
		YieldUnit:       "bag",
		IsActive:        true,
		Items: []recipe.RecipeItem{
			{SupplyID: supplies[0].ID, PerUnitQuantity: decimal.NewFromInt(300), Unit: "g"},
			{SupplyID: supplies[1].ID, PerUnitQuantity: decimal.NewFromInt(90), Unit: "mL"},
			{SupplyID: supplies[2].ID, PerUnitQuantity: decimal.NewFromFloat(0.009), Unit: "g"},
			{SupplyID: supplies[3].ID, PerUnitQuantity: decimal.NewFromInt(1), Unit: "unit"},
		},
	}
	if err := m.db.Create(&cepasRecipe).Error; err != nil {
		return fmt.Errorf("failed to seed recipe: %w", err)
	}

	log.Println("Seeded catalog: supplies, microorganism, cepas recipe")
	return nil
}

// GetTableInfo logs row counts for the main tables (development helper)
func (m *Migration) GetTableInfo() {
	tables := []string{
		"users", "supplies", "supply_stocks", "consumption_events",
		"production_lots", "bag_consumption_events", "strain_lots",
		"microorganisms", "recipes", "recipe_items",
	}

	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			continue
		}
		log.Printf("Table %s: %d rows", table, count)
	}
}
