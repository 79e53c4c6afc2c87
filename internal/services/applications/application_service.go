package applications

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/repository"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/notify"
)

const perPage = 10

type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, n notify.Notice) error
}

type Service struct {
	Store    *repository.Store
	Notifier Notifier
}

func NewService(store *repository.Store, n Notifier) *Service {
	return &Service{Store: store, Notifier: n}
}

type ApplyInput struct {
	Proposal string   `json:"proposal"`
	Budget   *float64 `json:"budget"`
	Timeline *int     `json:"timeline"`
}

// Apply records a developer's proposal on an open job and tells the job owner.
func (s *Service) Apply(ctx context.Context, actor models.Actor, jobID uuid.UUID, in ApplyInput) (*models.JobApplication, error) {
	proposal := strings.TrimSpace(in.Proposal)
	errs := apperr.FieldErrors{}
	if proposal == "" {
		errs.Add("proposal", "The proposal field is required.")
	} else if len([]rune(proposal)) > 1000 {
		errs.Add("proposal", "The proposal may not be greater than 1000 characters.")
	}
	if in.Budget == nil {
		errs.Add("budget", "The budget field is required.")
	} else if *in.Budget < 0 {
		errs.Add("budget", "The budget must be at least 0.")
	}
	if in.Timeline == nil {
		errs.Add("timeline", "The timeline field is required.")
	} else if *in.Timeline < 1 {
		errs.Add("timeline", "The timeline must be at least 1.")
	}
	if errs.Any() {
		return nil, apperr.Invalid(errs)
	}
	if !actor.Is(models.RoleDeveloper) {
		return nil, apperr.Forbidden("Only developers can apply to jobs")
	}

	job, err := s.Store.Jobs.FindByID(ctx, jobID)
	if repository.IsNotFound(err) {
		return nil, apperr.NotFound("Job not found")
	}
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusOpen {
		return nil, apperr.InvalidField("job", "Cannot apply to closed jobs")
	}

	exists, err := s.Store.Applications.Exists(ctx, job.ID, actor.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.InvalidField("job", "You have already applied to this job")
	}

	app := models.JobApplication{
		JobID:    job.ID,
		UserID:   actor.ID,
		Proposal: proposal,
		Timeline: *in.Timeline,
		Budget:   *in.Budget,
		Status:   models.ApplicationPending,
	}
	if err := s.Store.Applications.Create(ctx, &app); err != nil {
		// the unique index catches a concurrent duplicate
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.InvalidField("job", "You have already applied to this job")
		}
		return nil, err
	}

	devName := ""
	if dev, err := s.Store.Users.FindByID(ctx, actor.ID); err == nil {
		devName = dev.Name
	}
	s.notify(ctx, job.ClientID, notify.ApplicationSubmitted(job, &app, devName))
	return &app, nil
}

func (s *Service) ListMine(ctx context.Context, actor models.Actor, page int) ([]models.JobApplication, repository.Meta, error) {
	return s.Store.Applications.ListByDeveloper(ctx, actor.ID, repository.NewPage(page, perPage, perPage, perPage))
}

type UpdateInput struct {
	Status string `json:"status"`
}

// UpdateStatus lets the job owner accept or reject an application. The developer is
// notified whenever the status actually changes.
func (s *Service) UpdateStatus(ctx context.Context, actor models.Actor, id uuid.UUID, in UpdateInput) (*models.JobApplication, error) {
	status := models.ApplicationStatus(strings.TrimSpace(in.Status))
	if status == "" {
		return nil, apperr.InvalidField("status", "The status field is required.")
	}
	if !status.Valid() {
		return nil, apperr.InvalidField("status", "The selected status is invalid.")
	}

	app, err := s.Store.Applications.FindWithJob(ctx, id)
	if repository.IsNotFound(err) {
		return nil, apperr.NotFound("Application not found")
	}
	if err != nil {
		return nil, err
	}
	if app.Job == nil {
		return nil, errors.New("applications: job relation missing")
	}
	if !app.Job.OwnedBy(actor.ID) {
		return nil, apperr.Forbidden("Unauthorized")
	}

	old := app.Status
	if old == status {
		return app, nil
	}
	if err := s.Store.Applications.UpdateStatus(ctx, app, status); err != nil {
		return nil, err
	}

	s.notify(ctx, app.UserID, notify.ApplicationStatusChanged(app.Job, app, old))
	return app, nil
}

func (s *Service) notify(ctx context.Context, userID uuid.UUID, n notify.Notice) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(ctx, userID, n); err != nil {
		log.Printf("[applications] notify %s (%s): %v", userID, n.Type, err)
	}
}
