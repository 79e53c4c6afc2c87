package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentPaid
}

// Payment is a milestone payment against a job's budget.
type Payment struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID uuid.UUID `gorm:"type:uuid;index;not null" json:"job_id"`

	Amount      float64       `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description string        `gorm:"type:varchar(255)" json:"description"`
	Status      PaymentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	PayerID uuid.UUID `gorm:"type:uuid;index;not null" json:"payer_id"`
	PayeeID uuid.UUID `gorm:"type:uuid;index;not null" json:"payee_id"`

	DueDate       time.Time  `gorm:"not null" json:"due_date"`
	PaidAt        *time.Time `json:"paid_at"`
	TransactionID *string    `gorm:"type:varchar(100)" json:"transaction_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Job   *Job  `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Payer *User `gorm:"foreignKey:PayerID" json:"payer,omitempty"`
	Payee *User `gorm:"foreignKey:PayeeID" json:"payee,omitempty"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
