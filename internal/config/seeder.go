package config

import (
	"log"

	"borrowdesk/internal/adapters/persistence/models"
	"borrowdesk/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedCurrencies(); err != nil {
		return err
	}

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedCurrencies seeds the default currency master rows
func (s *Seeder) seedCurrencies() error {
	var count int64
	s.db.Model(&models.Currency{}).Count(&count)
	if count > 0 {
		return nil // Already seeded
	}

	currencies := []models.Currency{
		{Code: "THB", Name: "Thai Baht", Symbol: "฿", IsActive: true},
		{Code: "USD", Name: "US Dollar", Symbol: "$", IsActive: true},
		{Code: "EUR", Name: "Euro", Symbol: "€", IsActive: true},
		{Code: "JPY", Name: "Japanese Yen", Symbol: "¥", IsActive: true},
	}

	if err := s.db.Create(&currencies).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d currencies", len(currencies))
	return nil
}

// seedAdminUser seeds the bootstrap admin user. Requires ADMIN_PASSWORD to
// be set; no default password ever reaches the database.
func (s *Seeder) seedAdminUser() error {
	// Check if admin already exists
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "ADMIN").Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	if s.cfg.Admin.Password == "" {
		log.Println("⚠️ Skipping admin seed: ADMIN_PASSWORD not set")
		return nil
	}

	hashedPassword, err := password.Hash(s.cfg.Admin.Password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: s.cfg.Admin.Username,
		Email:    s.cfg.Admin.Email,
		Password: hashedPassword,
		Role:     "ADMIN",
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return nil
}
