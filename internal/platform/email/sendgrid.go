package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/phrazzld/taskward/internal/config"
)

// sendGridURL is the SendGrid v3 mail send endpoint.
const sendGridURL = "https://api.sendgrid.com/v3/mail/send"

// sendGridSender delivers mail through the SendGrid v3 REST API.
type sendGridSender struct {
	apiKey string
	from   string
	url    string
	client *http.Client
}

// NewSendGridSender builds a Sender that posts to the SendGrid v3 API
// using the configured API key and from-address.
func NewSendGridSender(cfg config.EmailConfig) Sender {
	return &sendGridSender{
		apiKey: cfg.SendGridAPIKey,
		from:   cfg.FromAddress,
		url:    sendGridURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *sendGridSender) SendWelcome(ctx context.Context, email, name string) error {
	subject := "Thanks for joining in!"
	body := fmt.Sprintf("Welcome to the app, %s. Let me know how you get along with the app.", name)
	return s.send(ctx, email, subject, body)
}

func (s *sendGridSender) SendCancellation(ctx context.Context, email, name string) error {
	subject := "Sorry to see you go!"
	body := fmt.Sprintf("Goodbye, %s. I hope to see you back sometime soon.", name)
	return s.send(ctx, email, subject, body)
}

// sendGridPayload mirrors the subset of the v3 mail send request body
// needed for plain-text transactional mail.
type sendGridPayload struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridAddress struct {
	Email string `json:"email"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (s *sendGridSender) send(ctx context.Context, to, subject, body string) error {
	payload := sendGridPayload{
		Personalizations: []sendGridPersonalization{
			{To: []sendGridAddress{{Email: to}}},
		},
		From:    sendGridAddress{Email: s.from},
		Subject: subject,
		Content: []sendGridContent{{Type: "text/plain", Value: body}},
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email provider rejected message: status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
