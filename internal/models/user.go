package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleClient    Role = "client"
	RoleDeveloper Role = "developer"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleDeveloper, RoleAdmin:
		return true
	}
	return false
}

// internal/models/user.go
type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"not null" json:"name"`
	Email string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone string    `gorm:"type:varchar(30)" json:"phone,omitempty"`

	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"type:varchar(20);not null;index" json:"role"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DeveloperProfile *DeveloperProfile `gorm:"foreignKey:UserID;references:ID" json:"developer_profile,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Actor is the authenticated caller of a use case.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) Is(r Role) bool { return a.Role == r }
