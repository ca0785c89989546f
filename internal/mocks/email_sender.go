package mocks

import (
	"context"
	"sync"
)

// SentEmail records one outbound email captured by the mock sender.
type SentEmail struct {
	Kind  string // "welcome" or "cancellation"
	Email string
	Name  string
}

// MockEmailSender implements email.Sender for testing, recording every
// send for later assertions.
type MockEmailSender struct {
	// Err, when set, is returned by every send.
	Err error

	mu   sync.Mutex
	Sent []SentEmail
}

// NewMockEmailSender creates a new recording email sender.
func NewMockEmailSender() *MockEmailSender {
	return &MockEmailSender{}
}

// SendWelcome implements the email.Sender interface.
func (m *MockEmailSender) SendWelcome(ctx context.Context, email, name string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentEmail{Kind: "welcome", Email: email, Name: name})
	return nil
}

// SendCancellation implements the email.Sender interface.
func (m *MockEmailSender) SendCancellation(ctx context.Context, email, name string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentEmail{Kind: "cancellation", Email: email, Name: name})
	return nil
}

// SentTo returns the kinds of emails sent to the given address.
func (m *MockEmailSender) SentTo(email string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kinds []string
	for _, sent := range m.Sent {
		if sent.Email == email {
			kinds = append(kinds, sent.Kind)
		}
	}
	return kinds
}
