package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db}
}

// Create inserts the job and links the given (already persisted) skills.
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Omit("Skills.*").Create(job).Error
}

func (r *JobRepository) Save(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(job).Error
}

func (r *JobRepository) ReplaceSkills(ctx context.Context, job *models.Job, skills []models.Skill) error {
	return r.db.WithContext(ctx).Model(job).Association("Skills").Replace(skills)
}

func (r *JobRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var j models.Job
	err := r.db.WithContext(ctx).First(&j, "id = ?", id).Error
	return &j, err
}

// FindDetailed loads the job with its client and skills.
func (r *JobRepository) FindDetailed(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var j models.Job
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Skills", func(db *gorm.DB) *gorm.DB { return db.Order("skills.name ASC") }).
		First(&j, "id = ?", id).Error
	return &j, err
}

// LockByID reads the job row with FOR UPDATE. Only meaningful inside a transaction.
func (r *JobRepository) LockByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var j models.Job
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&j, "id = ?", id).Error
	return &j, err
}

// List returns jobs newest first; a non-nil clientID restricts to that client.
func (r *JobRepository) List(ctx context.Context, clientID *uuid.UUID, p Page) ([]models.Job, Meta, error) {
	q := r.db.WithContext(ctx).Model(&models.Job{})
	if clientID != nil {
		q = q.Where("client_id = ?", *clientID)
	}

	var jobs []models.Job
	meta, err := paginate(q, "created_at DESC", p, &jobs, "Client", "Skills")
	return jobs, meta, err
}

type JobSearch struct {
	Skill     string
	Title     string
	MinBudget *float64
	MaxBudget *float64
	From      *time.Time
	To        *time.Time
	// Sort is one of title, budget, created_at. Empty means newest first.
	Sort string
	Desc bool
}

var jobSortColumns = map[string]string{
	"title":      "jobs.title",
	"budget":     "jobs.budget",
	"created_at": "jobs.created_at",
}

func IsJobSortKey(key string) bool {
	_, ok := jobSortColumns[key]
	return ok
}

// Search returns open jobs matching every non-empty predicate of f.
func (r *JobRepository) Search(ctx context.Context, f JobSearch, p Page) ([]models.Job, Meta, error) {
	q := r.db.WithContext(ctx).Model(&models.Job{}).Where("jobs.status = ?", models.JobStatusOpen)

	if f.Skill != "" {
		q = q.Where(`EXISTS (SELECT 1 FROM job_skills js JOIN skills s ON s.id = js.skill_id
			WHERE js.job_id = jobs.id AND s.name = ?)`, f.Skill)
	}
	if f.Title != "" {
		q = q.Where("LOWER(jobs.title) LIKE ?", "%"+strings.ToLower(f.Title)+"%")
	}
	if f.MinBudget != nil {
		q = q.Where("jobs.budget >= ?", *f.MinBudget)
	}
	if f.MaxBudget != nil {
		q = q.Where("jobs.budget <= ?", *f.MaxBudget)
	}
	if f.From != nil {
		q = q.Where("jobs.created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("jobs.created_at < ?", *f.To)
	}

	order := "jobs.created_at DESC"
	if col, ok := jobSortColumns[f.Sort]; ok {
		order = col + " ASC"
		if f.Desc {
			order = col + " DESC"
		}
	}

	var jobs []models.Job
	meta, err := paginate(q, order, p, &jobs, "Client", "Skills")
	return jobs, meta, err
}

// ApplicationCounts maps each job id to its number of applications.
func (r *JobRepository) ApplicationCounts(ctx context.Context, jobIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(jobIDs))
	if len(jobIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		JobID uuid.UUID
		Total int64
	}
	err := r.db.WithContext(ctx).Model(&models.JobApplication{}).
		Select("job_id, COUNT(*) AS total").
		Where("job_id IN ?", jobIDs).
		Group("job_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.JobID] = row.Total
	}
	return counts, nil
}

// Delete removes the job with its applications, payments, reviews and skill links.
// Call it on a transaction-bound repository.
func (r *JobRepository) Delete(ctx context.Context, job *models.Job) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("job_id = ?", job.ID).Delete(&models.Payment{}).Error; err != nil {
		return err
	}
	if err := db.Where("job_id = ?", job.ID).Delete(&models.Review{}).Error; err != nil {
		return err
	}
	if err := db.Where("job_id = ?", job.ID).Delete(&models.JobApplication{}).Error; err != nil {
		return err
	}
	if err := db.Model(job).Association("Skills").Clear(); err != nil {
		return err
	}
	return db.Delete(job).Error
}

type JobStats struct {
	Total     int64
	Open      int64
	Completed int64
}

func (r *JobRepository) Stats(ctx context.Context) (JobStats, error) {
	var s JobStats
	db := r.db.WithContext(ctx).Model(&models.Job{})
	if err := db.Session(&gorm.Session{}).Count(&s.Total).Error; err != nil {
		return s, err
	}
	if err := db.Session(&gorm.Session{}).Where("status = ?", models.JobStatusOpen).Count(&s.Open).Error; err != nil {
		return s, err
	}
	err := db.Session(&gorm.Session{}).Where("status = ?", models.JobStatusCompleted).Count(&s.Completed).Error
	return s, err
}
