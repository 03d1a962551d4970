package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Message is one outbound notification. Built fresh per send, never
// shared.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Mailer delivers a message. Implementations are expected to be used
// best-effort; callers decide whether errors matter.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends through a local mail relay, plain connection, no
// authentication.
type SMTPMailer struct {
	host string
	port int
	from string
}

// NewSMTPMailer creates a mailer pointed at the relay.
func NewSMTPMailer(host string, port int, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, from: from}
}

// Send delivers one plain-text message to every recipient.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	message := mail.NewMsg()
	if err := message.From(m.from); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := message.To(msg.To...); err != nil {
		return fmt.Errorf("set recipients: %w", err)
	}
	message.Subject(msg.Subject)
	message.SetBodyString(mail.TypeTextPlain, msg.Body)

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithTLSPolicy(mail.NoTLS),
	)
	if err != nil {
		return fmt.Errorf("create mail client: %w", err)
	}
	defer client.Close()

	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
