package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Category keys each side of a job rates the other on.
var (
	ClientReviewCategories    = []string{"communication", "quality", "timeliness"}
	DeveloperReviewCategories = []string{"communication", "payment_timeliness", "requirement_clarity"}
)

type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReviewerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_once" json:"reviewer_id"`
	RevieweeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_once;index" json:"reviewee_id"`
	JobID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_once" json:"job_id"`

	Rating     int            `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    string         `gorm:"type:text;not null" json:"comment"`
	Categories datatypes.JSON `json:"categories"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Reviewee *User `gorm:"foreignKey:RevieweeID" json:"reviewee,omitempty"`
	Job      *Job  `gorm:"foreignKey:JobID" json:"job,omitempty"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
