package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Skill struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
}

func (s *Skill) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
