package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base — общие поля всех сущностей: UUID-ключ и таймстемпы.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
