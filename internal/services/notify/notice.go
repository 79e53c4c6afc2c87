package notify

import (
	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
)

// Notice is a domain event addressed to one user.
type Notice struct {
	Type string
	Data map[string]any
}

func ApplicationSubmitted(job *models.Job, app *models.JobApplication, developerName string) Notice {
	return Notice{
		Type: models.NoticeApplicationSubmitted,
		Data: map[string]any{
			"application_id": app.ID,
			"job_id":         job.ID,
			"job_title":      job.Title,
			"developer_name": developerName,
			"budget":         app.Budget,
			"timeline":       app.Timeline,
			"message":        "New application received for " + job.Title,
		},
	}
}

func ApplicationStatusChanged(job *models.Job, app *models.JobApplication, oldStatus models.ApplicationStatus) Notice {
	return Notice{
		Type: models.NoticeApplicationStatusChanged,
		Data: map[string]any{
			"application_id": app.ID,
			"job_id":         job.ID,
			"job_title":      job.Title,
			"old_status":     oldStatus,
			"new_status":     app.Status,
			"message":        "Your application for " + job.Title + " is now " + string(app.Status),
		},
	}
}

func PaymentCreated(job *models.Job, p *models.Payment) Notice {
	return Notice{
		Type: models.NoticePaymentCreated,
		Data: map[string]any{
			"payment_id":  p.ID,
			"job_id":      job.ID,
			"job_title":   job.Title,
			"amount":      p.Amount,
			"description": p.Description,
			"due_date":    p.DueDate.Format("2006-01-02"),
			"message":     "A new payment was created for " + job.Title,
		},
	}
}

func PaymentReceived(job *models.Job, p *models.Payment) Notice {
	data := map[string]any{
		"payment_id":     p.ID,
		"job_id":         job.ID,
		"job_title":      job.Title,
		"amount":         p.Amount,
		"description":    p.Description,
		"transaction_id": p.TransactionID,
		"message":        "Payment received for " + job.Title,
	}
	if p.PaidAt != nil {
		data["paid_at"] = p.PaidAt.Format("2006-01-02 15:04:05")
	}
	return Notice{Type: models.NoticePaymentReceived, Data: data}
}
