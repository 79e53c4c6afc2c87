package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a direct user-to-user message.
type Message struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID    uuid.UUID `gorm:"type:uuid;index;not null" json:"sender_id"`
	RecipientID uuid.UUID `gorm:"type:uuid;index;not null" json:"recipient_id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Read        bool      `gorm:"not null;default:false" json:"read"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Sender    *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Recipient *User `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
