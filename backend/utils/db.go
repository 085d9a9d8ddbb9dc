package utils

import (
	"fmt"

	"github.com/shapovv/InterviewerServer/backend/config"
	"github.com/shapovv/InterviewerServer/backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate выполняет AutoMigrate всех моделей и создаёт частичный уникальный
// индекс: не больше одной незавершённой сессии на пару (user, test).
// Индекс нужен, чтобы гонка двух одновременных стартов решалась в базе,
// а не в памяти процесса.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Material{},
		&models.UserMaterial{},
		&models.Test{},
		&models.Question{},
		&models.Answer{},
		&models.UserTestSession{},
		&models.UserQuestion{},
		&models.ChatMessage{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_active_session
		 ON user_test_sessions (user_id, test_id)
		 WHERE NOT is_completed`,
	).Error
}
