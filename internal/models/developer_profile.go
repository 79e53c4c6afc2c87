// internal/models/developer_profile.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeveloperProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	Title       string  `gorm:"type:varchar(255);not null" json:"title"`
	Bio         string  `gorm:"type:text;not null" json:"bio"`
	HourlyRate  float64 `gorm:"type:decimal(12,2);not null" json:"hourly_rate"`
	GithubURL   string  `gorm:"type:varchar(255)" json:"github_url"`
	LinkedinURL string  `gorm:"type:varchar(255)" json:"linkedin_url"`
	Phone       string  `gorm:"type:varchar(30)" json:"phone"`

	// visibility of contact details on the public profile
	EmailVisible bool `gorm:"not null;default:false" json:"email_visible"`
	PhoneVisible bool `gorm:"not null;default:false" json:"phone_visible"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User           *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Skills         []Skill         `gorm:"many2many:developer_skills;" json:"skills"`
	PortfolioItems []PortfolioItem `gorm:"foreignKey:DeveloperProfileID" json:"portfolio_items"`
}

func (p *DeveloperProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type PortfolioItem struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DeveloperProfileID uuid.UUID `gorm:"type:uuid;index;not null" json:"developer_profile_id"`

	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	ImagePath   string `gorm:"type:text" json:"image_path"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *PortfolioItem) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
