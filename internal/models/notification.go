package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NoticeApplicationSubmitted     = "application_submitted"
	NoticeApplicationStatusChanged = "application_status_changed"
	NoticePaymentCreated           = "payment_created"
	NoticePaymentReceived          = "payment_received"
)

// Notification is the persisted side of a domain notice. MailedAt stays nil until
// the outbound mail has been accepted by the mail provider.
type Notification struct {
	ID     uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID      `gorm:"type:uuid;index;not null" json:"user_id"`
	Type   string         `gorm:"type:varchar(60);not null" json:"type"`
	Data   datatypes.JSON `json:"data"`

	ReadAt       *time.Time `json:"read_at"`
	MailedAt     *time.Time `gorm:"index" json:"-"`
	MailAttempts int        `gorm:"not null;default:0" json:"-"`

	// MailClaimedUntil is the lease a worker holds while sending the mail.
	MailClaimedUntil *time.Time `json:"-"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
