package database

import (
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"profitpulse-backend/internal/config"
	"profitpulse-backend/internal/models"
)

var DB *gorm.DB

// Migrate runs AutoMigrate for every table the application owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Admin{},
		&models.Item{},
		&models.Sale{},
		&models.SaleItem{},
		&models.Expense{},
		&models.Audit{},
	)
}

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}

	if err := Migrate(DB); err != nil {
		log.Fatal().Err(err).Msg("auto migration failed")
	}

	log.Info().Msg("database connected, migration complete")
}
