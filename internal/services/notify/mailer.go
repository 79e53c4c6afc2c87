package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

type Mail struct {
	To      string
	ToName  string
	Subject string
	Lines   []string
	Action  *MailAction
}

type MailAction struct {
	Label string
	URL   string
}

type Mailer interface {
	// Send hands the mail to the provider and returns the provider's message id.
	Send(ctx context.Context, m Mail) (string, error)
}

// HTTPMailer posts mails as JSON to a transactional mail API.
type HTTPMailer struct {
	client *resty.Client
	url    string
	from   string
}

func NewHTTPMailer(url, apiKey, from string) *HTTPMailer {
	client := resty.New().
		SetTimeout(10*time.Second).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &HTTPMailer{client: client, url: url, from: from}
}

func (m *HTTPMailer) Send(ctx context.Context, mail Mail) (string, error) {
	body := map[string]any{
		"from":    m.from,
		"to":      []map[string]string{{"email": mail.To, "name": mail.ToName}},
		"subject": mail.Subject,
		"text":    mail.PlainText(),
	}

	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(m.url)
	if err != nil {
		return "", fmt.Errorf("mail api request: %w", err)
	}
	if resp.IsError() {
		msg := gjson.Get(resp.String(), "message").String()
		if msg == "" {
			msg = resp.Status()
		}
		return "", fmt.Errorf("mail api %d: %s", resp.StatusCode(), msg)
	}

	id := gjson.Get(resp.String(), "id").String()
	if id == "" {
		id = gjson.Get(resp.String(), "data.id").String()
	}
	return id, nil
}

// LogMailer writes mails to the log. Used when no mail API is configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, m Mail) (string, error) {
	log.Printf("[mail] to=%s subject=%q\n%s", m.To, m.Subject, m.PlainText())
	return "log", nil
}

func (m Mail) PlainText() string {
	var b strings.Builder
	for _, l := range m.Lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	if m.Action != nil {
		fmt.Fprintf(&b, "\n%s: %s\n", m.Action.Label, m.Action.URL)
	}
	b.WriteString("\nThank you for using our platform!\n")
	return b.String()
}
