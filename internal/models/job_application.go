package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected:
		return true
	}
	return false
}

// JobApplication is a developer's proposal against a job. One per (job, developer).
type JobApplication struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_application_job_user" json:"job_id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_application_job_user;index" json:"user_id"`

	Proposal string            `gorm:"type:text;not null" json:"proposal"`
	Timeline int               `gorm:"not null" json:"timeline"` // days
	Budget   float64           `gorm:"type:decimal(12,2);not null" json:"budget"`
	Status   ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Job       *Job  `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Developer *User `gorm:"foreignKey:UserID" json:"developer,omitempty"`
}

func (a *JobApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
