package email

// Email is an outgoing message.
type Email struct {
	To      []string
	Subject string
	Body    string
}

// Provider sends notification mail. The app wiring swaps in a mock provider
// when SMTP is not configured.
type Provider interface {
	Send(email *Email) error
	Close() error
}
