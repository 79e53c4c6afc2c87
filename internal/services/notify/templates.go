package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
)

// RenderMail builds the outbound mail for a persisted notification. baseURL is
// the frontend origin used for action links.
func RenderMail(n *models.Notification, to *models.User, baseURL string) (Mail, error) {
	data := gjson.ParseBytes(n.Data)
	title := data.Get("job_title").String()
	base := strings.TrimRight(baseURL, "/")

	m := Mail{To: to.Email, ToName: to.Name}

	switch n.Type {
	case models.NoticeApplicationSubmitted:
		m.Subject = "New Application Received"
		m.Lines = []string{
			"A new application has been submitted for your job: " + title,
			"Developer: " + data.Get("developer_name").String(),
			"Proposed Budget: " + money(data.Get("budget").Float()),
			fmt.Sprintf("Timeline: %d days", data.Get("timeline").Int()),
		}
		m.Action = &MailAction{Label: "View Application", URL: base + "/applications/" + data.Get("application_id").String()}

	case models.NoticeApplicationStatusChanged:
		m.Subject = "Application Status Updated"
		m.Lines = []string{"Job: " + title, statusMessage(data.Get("new_status").String())}
		m.Action = &MailAction{Label: "View Application", URL: base + "/applications/" + data.Get("application_id").String()}

	case models.NoticePaymentCreated:
		m.Subject = "New Payment Created"
		m.Lines = []string{
			"A new payment has been created for job: " + title,
			"Amount: " + money(data.Get("amount").Float()),
			"Description: " + data.Get("description").String(),
			"Due Date: " + humanDate(data.Get("due_date").String()),
		}
		m.Action = &MailAction{Label: "View Payment", URL: base + "/payments/" + data.Get("payment_id").String()}

	case models.NoticePaymentReceived:
		m.Subject = "Payment Received"
		m.Lines = []string{
			"Payment has been received for job: " + title,
			"Amount: " + money(data.Get("amount").Float()),
			"Description: " + data.Get("description").String(),
			"Transaction ID: " + data.Get("transaction_id").String(),
		}
		m.Action = &MailAction{Label: "View Payment", URL: base + "/payments/" + data.Get("payment_id").String()}

	default:
		return Mail{}, fmt.Errorf("notify: no mail template for %q", n.Type)
	}
	return m, nil
}

func statusMessage(status string) string {
	switch models.ApplicationStatus(status) {
	case models.ApplicationAccepted:
		return "Congratulations! Your application has been accepted"
	case models.ApplicationRejected:
		return "We regret to inform you that your application was not accepted"
	}
	return "Your application status has been updated"
}

func money(v float64) string { return fmt.Sprintf("$%.2f", v) }

func humanDate(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("Jan 02, 2006")
}
