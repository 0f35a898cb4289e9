package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

// SMTPMailer отправляет письма через SMTP.
type SMTPMailer struct {
	client *gomail.Client
}

// NewSMTPMailer создает SMTP-клиент.
func NewSMTPMailer(host string, port int, user, password string) (*SMTPMailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(port),
	}

	if user != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(user),
			gomail.WithPassword(password),
		)
	}

	client, err := gomail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPMailer{client: client}, nil
}

// Send доставляет одно письмо.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	message := gomail.NewMsg()

	if err := message.From(msg.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := message.To(msg.To); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}

	message.Subject(msg.Subject)
	message.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)

	if err := m.client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	return nil
}
