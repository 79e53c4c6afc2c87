package payments

import (
	"context"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/repository"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/jobs"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/notify"
)

type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, n notify.Notice) error
}

type Service struct {
	Store    *repository.Store
	Notifier Notifier
	now      func() time.Time
}

func NewService(store *repository.Store, n Notifier) *Service {
	return &Service{Store: store, Notifier: n, now: time.Now}
}

type CreateInput struct {
	Amount      *float64 `json:"amount"`
	Description string   `json:"description"`
	DueDate     string   `json:"due_date"`
}

type UpdateInput struct {
	Status        string  `json:"status"`
	TransactionID *string `json:"transaction_id"`
}

// List returns a job's payments to its owner or to any developer who applied.
func (s *Service) List(ctx context.Context, actor models.Actor, jobID uuid.UUID) ([]models.Payment, error) {
	job, err := s.Store.Jobs.FindByID(ctx, jobID)
	if repository.IsNotFound(err) {
		return nil, apperr.NotFound("Job not found")
	}
	if err != nil {
		return nil, err
	}
	if !job.OwnedBy(actor.ID) {
		applied, err := s.Store.Applications.IsApplicant(ctx, job.ID, actor.ID)
		if err != nil {
			return nil, err
		}
		if !applied {
			return nil, apperr.Forbidden("Unauthorized")
		}
	}
	return s.Store.Payments.ListByJob(ctx, job.ID)
}

// Create adds a milestone payment from the job owner to the accepted developer.
// The budget check and the insert run in one transaction holding the job row
// lock, so concurrent requests cannot both squeeze under the budget.
func (s *Service) Create(ctx context.Context, actor models.Actor, jobID uuid.UUID, in CreateInput) (*models.Payment, error) {
	errs := apperr.FieldErrors{}
	if in.Amount == nil {
		errs.Add("amount", "The amount field is required.")
	} else if toCents(*in.Amount) < 1 {
		errs.Add("amount", "The amount must be at least 0.01.")
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		errs.Add("description", "The description field is required.")
	} else if len([]rune(description)) > 255 {
		errs.Add("description", "The description may not be greater than 255 characters.")
	}
	var due time.Time
	if strings.TrimSpace(in.DueDate) == "" {
		errs.Add("due_date", "The due date field is required.")
	} else if t, ok := jobs.ParseDate(in.DueDate); !ok {
		errs.Add("due_date", "The due date is not a valid date.")
	} else if !t.After(jobs.StartOfDay(s.now())) {
		errs.Add("due_date", "The due date must be a date after today.")
	} else {
		due = t
	}
	if errs.Any() {
		return nil, apperr.Invalid(errs)
	}

	var (
		payment models.Payment
		job     *models.Job
	)
	err := s.Store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		job, err = tx.Jobs.LockByID(ctx, jobID)
		if repository.IsNotFound(err) {
			return apperr.NotFound("Job not found")
		}
		if err != nil {
			return err
		}
		if job.Status == models.JobStatusCompleted {
			return apperr.Forbidden("Cannot create payments for completed jobs")
		}
		if !job.OwnedBy(actor.ID) {
			return apperr.Forbidden("Only the job owner can create payments")
		}

		accepted, err := tx.Applications.AcceptedForJob(ctx, job.ID)
		if repository.IsNotFound(err) {
			return apperr.InvalidField("job", "No accepted application found for this job")
		}
		if err != nil {
			return err
		}

		total, err := tx.Payments.SumForJob(ctx, job.ID)
		if err != nil {
			return err
		}
		if toCents(total)+toCents(*in.Amount) > toCents(job.Budget) {
			return apperr.InvalidField("amount", "Total payments cannot exceed job budget")
		}

		payment = models.Payment{
			JobID:       job.ID,
			Amount:      float64(toCents(*in.Amount)) / 100,
			Description: description,
			Status:      models.PaymentPending,
			PayerID:     actor.ID,
			PayeeID:     accepted.UserID,
			DueDate:     due,
		}
		return tx.Payments.Create(ctx, &payment)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, payment.PayeeID, notify.PaymentCreated(job, &payment))
	return &payment, nil
}

// Get shows a payment to its payer or payee.
func (s *Service) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Payment, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.PayerID != actor.ID && p.PayeeID != actor.ID {
		return nil, apperr.Forbidden("Unauthorized")
	}
	return p, nil
}

// Update moves a payment between pending and paid. Only the payer may do it,
// and the payer is notified when the payment becomes paid.
func (s *Service) Update(ctx context.Context, actor models.Actor, id uuid.UUID, in UpdateInput) (*models.Payment, error) {
	status := models.PaymentStatus(strings.TrimSpace(in.Status))
	var txID *string
	if in.TransactionID != nil {
		if v := strings.TrimSpace(*in.TransactionID); v != "" {
			txID = &v
		}
	}

	errs := apperr.FieldErrors{}
	if status == "" {
		errs.Add("status", "The status field is required.")
	} else if !status.Valid() {
		errs.Add("status", "The selected status is invalid.")
	}
	if status == models.PaymentPaid && txID == nil {
		errs.Add("transaction_id", "The transaction id field is required when status is paid.")
	}
	if txID != nil && len(*txID) > 100 {
		errs.Add("transaction_id", "The transaction id may not be greater than 100 characters.")
	}
	if errs.Any() {
		return nil, apperr.Invalid(errs)
	}

	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.PayerID != actor.ID {
		return nil, apperr.Forbidden("Unauthorized")
	}

	wasPaid := p.Status == models.PaymentPaid
	p.Status = status
	p.TransactionID = txID
	if status == models.PaymentPaid {
		if !wasPaid || p.PaidAt == nil {
			now := s.now()
			p.PaidAt = &now
		}
	} else {
		p.PaidAt = nil
	}
	if err := s.Store.Payments.Save(ctx, p); err != nil {
		return nil, err
	}

	if status == models.PaymentPaid && !wasPaid {
		if p.Job == nil {
			log.Printf("[payments] payment %s has no job loaded, skipping payment_received notice", p.ID)
		} else {
			s.notify(ctx, p.PayerID, notify.PaymentReceived(p.Job, p))
		}
	}
	return p, nil
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	p, err := s.Store.Payments.FindByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, apperr.NotFound("Payment not found")
	}
	return p, err
}

func (s *Service) notify(ctx context.Context, userID uuid.UUID, n notify.Notice) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(ctx, userID, n); err != nil {
		log.Printf("[payments] notify %s (%s): %v", userID, n.Type, err)
	}
}

func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}
