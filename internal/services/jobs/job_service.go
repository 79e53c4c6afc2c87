package jobs

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/repository"
)

const perPage = 10

type Service struct {
	Store *repository.Store
	now   func() time.Time
}

func NewService(store *repository.Store) *Service {
	return &Service{Store: store, now: time.Now}
}

// Listing is a job with the number of applications it has received.
type Listing struct {
	Job              models.Job
	ApplicationCount int64
}

type CreateInput struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Budget         *float64 `json:"budget"`
	Deadline       string   `json:"deadline"`
	RequiredSkills []string `json:"required_skills"`
}

// UpdateInput only touches the fields that are present.
type UpdateInput struct {
	Title          *string   `json:"title"`
	Description    *string   `json:"description"`
	Budget         *float64  `json:"budget"`
	Deadline       *string   `json:"deadline"`
	Status         *string   `json:"status"`
	RequiredSkills *[]string `json:"required_skills"`
}

func (s *Service) List(ctx context.Context, actor models.Actor, page int) ([]Listing, repository.Meta, error) {
	var clientID *uuid.UUID
	if actor.Is(models.RoleClient) {
		clientID = &actor.ID
	}
	jobs, meta, err := s.Store.Jobs.List(ctx, clientID, repository.NewPage(page, perPage, perPage, perPage))
	if err != nil {
		return nil, meta, err
	}
	listings, err := s.withCounts(ctx, jobs)
	return listings, meta, err
}

func (s *Service) Create(ctx context.Context, actor models.Actor, in CreateInput) (*models.Job, error) {
	errs := apperr.FieldErrors{}
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	validateTitle(errs, title, true)
	if description == "" {
		errs.Add("description", "The description field is required.")
	}
	validateBudget(errs, in.Budget, true)
	deadline := s.validateDeadline(errs, &in.Deadline, true)
	validateSkills(errs, in.RequiredSkills)
	if errs.Any() {
		return nil, apperr.Invalid(errs)
	}

	if !actor.Is(models.RoleClient) {
		return nil, apperr.Forbidden("Unauthorized")
	}

	job := models.Job{
		ClientID:    actor.ID,
		Title:       title,
		Description: description,
		Budget:      *in.Budget,
		Deadline:    deadline,
		Status:      models.JobStatusOpen,
	}

	err := s.Store.Transaction(ctx, func(tx *repository.Store) error {
		skills, err := tx.Skills.FirstOrCreateByNames(ctx, in.RequiredSkills)
		if err != nil {
			return err
		}
		job.Skills = skills
		return tx.Jobs.Create(ctx, &job)
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Listing, error) {
	job, err := s.Store.Jobs.FindDetailed(ctx, id)
	if repository.IsNotFound(err) {
		return nil, apperr.NotFound("Job not found")
	}
	if err != nil {
		return nil, err
	}
	listings, err := s.withCounts(ctx, []models.Job{*job})
	if err != nil {
		return nil, err
	}
	return &listings[0], nil
}

func (s *Service) Update(ctx context.Context, actor models.Actor, id uuid.UUID, in UpdateInput) (*models.Job, error) {
	errs := apperr.FieldErrors{}
	if in.Title != nil {
		validateTitle(errs, strings.TrimSpace(*in.Title), true)
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) == "" {
		errs.Add("description", "The description field is required.")
	}
	if in.Budget != nil {
		validateBudget(errs, in.Budget, true)
	}
	var deadline time.Time
	if in.Deadline != nil {
		deadline = s.validateDeadline(errs, in.Deadline, true)
	}
	if in.Status != nil && !models.JobStatus(*in.Status).Valid() {
		errs.Add("status", "The selected status is invalid.")
	}
	if in.RequiredSkills != nil {
		validateSkills(errs, *in.RequiredSkills)
	}
	if errs.Any() {
		return nil, apperr.Invalid(errs)
	}

	job, err := s.Store.Jobs.FindByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, apperr.NotFound("Job not found")
	}
	if err != nil {
		return nil, err
	}
	if !job.OwnedBy(actor.ID) {
		return nil, apperr.Forbidden("Unauthorized")
	}

	if in.Title != nil {
		job.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		job.Description = strings.TrimSpace(*in.Description)
	}
	if in.Budget != nil {
		job.Budget = *in.Budget
	}
	if in.Deadline != nil {
		job.Deadline = deadline
	}
	if in.Status != nil {
		job.Status = models.JobStatus(*in.Status)
	}

	err = s.Store.Transaction(ctx, func(tx *repository.Store) error {
		if in.Budget != nil {
			// same row lock payments take, so a new payment cannot slip under the old budget
			if _, err := tx.Jobs.LockByID(ctx, job.ID); err != nil {
				return err
			}
			paid, err := tx.Payments.SumForJob(ctx, job.ID)
			if err != nil {
				return err
			}
			if toCents(*in.Budget) < toCents(paid) {
				return apperr.InvalidField("budget", "The budget cannot be less than the total of existing payments.")
			}
		}
		if err := tx.Jobs.Save(ctx, job); err != nil {
			return err
		}
		if in.RequiredSkills == nil {
			return nil
		}
		skills, err := tx.Skills.FirstOrCreateByNames(ctx, *in.RequiredSkills)
		if err != nil {
			return err
		}
		return tx.Jobs.ReplaceSkills(ctx, job, skills)
	})
	if err != nil {
		return nil, err
	}
	return s.Store.Jobs.FindDetailed(ctx, job.ID)
}

func (s *Service) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	job, err := s.ownedJob(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.Store.Transaction(ctx, func(tx *repository.Store) error {
		return tx.Jobs.Delete(ctx, job)
	})
}

// Applications lists the applications of a job to its owner.
func (s *Service) Applications(ctx context.Context, actor models.Actor, id uuid.UUID) ([]models.JobApplication, error) {
	if _, err := s.ownedJob(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.Store.Applications.ListByJob(ctx, id)
}

func (s *Service) ownedJob(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Job, error) {
	job, err := s.Store.Jobs.FindByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, apperr.NotFound("Job not found")
	}
	if err != nil {
		return nil, err
	}
	if !job.OwnedBy(actor.ID) {
		return nil, apperr.Forbidden("Unauthorized")
	}
	return job, nil
}

func (s *Service) withCounts(ctx context.Context, jobs []models.Job) ([]Listing, error) {
	ids := make([]uuid.UUID, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	counts, err := s.Store.Jobs.ApplicationCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]Listing, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, Listing{Job: j, ApplicationCount: counts[j.ID]})
	}
	return out, nil
}

func validateTitle(errs apperr.FieldErrors, title string, required bool) {
	if title == "" {
		if required {
			errs.Add("title", "The title field is required.")
		}
		return
	}
	if len([]rune(title)) > 255 {
		errs.Add("title", "The title may not be greater than 255 characters.")
	}
}

func validateBudget(errs apperr.FieldErrors, budget *float64, required bool) {
	if budget == nil {
		if required {
			errs.Add("budget", "The budget field is required.")
		}
		return
	}
	if *budget < 0 {
		errs.Add("budget", "The budget must be at least 0.")
	}
}

// validateDeadline parses raw and requires it to fall after the start of today.
func (s *Service) validateDeadline(errs apperr.FieldErrors, raw *string, required bool) time.Time {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		if required {
			errs.Add("deadline", "The deadline field is required.")
		}
		return time.Time{}
	}
	t, ok := ParseDate(*raw)
	if !ok {
		errs.Add("deadline", "The deadline is not a valid date.")
		return time.Time{}
	}
	if !t.After(StartOfDay(s.now())) {
		errs.Add("deadline", "The deadline must be a date after today.")
	}
	return t
}

func validateSkills(errs apperr.FieldErrors, skills []string) {
	for _, name := range skills {
		if len([]rune(strings.TrimSpace(name))) > 50 {
			errs.Add("required_skills", "Each skill may not be greater than 50 characters.")
			return
		}
	}
}

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// ParseDate accepts RFC 3339, "Y-m-d H:i:s" or "Y-m-d" in local time.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func toCents(v float64) int64 { return int64(math.Round(v * 100)) }

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
