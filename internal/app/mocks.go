package app

import "agelink_backend/internal/email"

// MockEmailProvider is used for tests and local development without SMTP.
type MockEmailProvider struct{}

func (m *MockEmailProvider) Send(msg *email.Email) error { return nil }
func (m *MockEmailProvider) Close() error                { return nil }
