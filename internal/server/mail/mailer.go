// Package mail содержит исходящие уведомления.
// Ядро сервиса не зависит от конкретного способа доставки.
package mail

import "context"

// Message описывает одно исходящее письмо.
type Message struct {
	From     string
	To       string
	Subject  string
	HTMLBody string
}

// Mailer defines interface for outbound notifications.
// Delivery is best effort: callers do not rely on the outcome.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Noop реализует Mailer без доставки.
// Используется в тестах и когда SMTP не сконфигурирован.
type Noop struct{}

// Send does nothing and always succeeds.
func (Noop) Send(ctx context.Context, msg Message) error {
	return nil
}
