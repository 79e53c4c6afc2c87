package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusOpen, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

type Job struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null" json:"client_id"`

	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Budget      float64   `gorm:"type:decimal(12,2);not null" json:"budget"`
	Deadline    time.Time `gorm:"not null" json:"deadline"`
	Status      JobStatus `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Client       *User            `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Skills       []Skill          `gorm:"many2many:job_skills;" json:"skills,omitempty"`
	Applications []JobApplication `gorm:"foreignKey:JobID" json:"applications,omitempty"`
	Payments     []Payment        `gorm:"foreignKey:JobID" json:"payments,omitempty"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

func (j *Job) OwnedBy(userID uuid.UUID) bool { return j.ClientID == userID }

// SkillNames returns the names of the preloaded skills.
func (j *Job) SkillNames() []string {
	names := make([]string, 0, len(j.Skills))
	for _, s := range j.Skills {
		names = append(names, s.Name)
	}
	return names
}
