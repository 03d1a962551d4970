package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gwhaley/autodeployd/internal/deploy"
)

// sendTimeout bounds one relay conversation. The relay is local; if it
// does not answer quickly it will not answer at all.
const sendTimeout = 30 * time.Second

// Notifier turns deployment outcomes and skip decisions into mail. By
// the time it runs the HTTP response has already been sent, so transport
// errors are logged and swallowed, never propagated.
type Notifier struct {
	mailer        Mailer
	recipients    []string
	subjectPrefix string
	logger        *slog.Logger
}

// New creates a Notifier for a fixed recipient list.
func New(mailer Mailer, recipients []string, subjectPrefix string, logger *slog.Logger) *Notifier {
	return &Notifier{
		mailer:        mailer,
		recipients:    recipients,
		subjectPrefix: subjectPrefix,
		logger:        logger,
	}
}

// NotifySkip reports that a pull request closed without merging and no
// deployment was attempted.
func (n *Notifier) NotifySkip(repo, deliveryID string) {
	subject := n.subjectPrefix + fmt.Sprintf("no deployment for %s", repo)
	body := fmt.Sprintf(
		"The pull request for %s was closed without being merged.\nNo deployment was attempted.\n\nDelivery: %s\n",
		repo, deliveryID,
	)
	n.send(Message{To: n.recipients, Subject: subject, Body: body}, deliveryID)
}

// DeploymentFinished reports the outcome of a deployment attempt,
// including captured playbook output.
func (n *Notifier) DeploymentFinished(outcome deploy.Outcome, deliveryID string) {
	subject := n.subjectPrefix + fmt.Sprintf("deployment of %s: %s", outcome.Target, outcome.Status)

	var b strings.Builder
	fmt.Fprintf(&b, "Target: %s\nStatus: %s\nDelivery: %s\n", outcome.Target, outcome.Status, deliveryID)
	switch outcome.Status {
	case deploy.StatusSuccess:
		fmt.Fprintf(&b, "Duration: %s\n", outcome.Duration.Round(time.Second))
	case deploy.StatusFailure:
		fmt.Fprintf(&b, "Exit code: %d\n", outcome.ExitCode)
	case deploy.StatusError:
		fmt.Fprintf(&b, "Error: %s\n", outcome.Detail)
	}
	if len(outcome.Stdout) > 0 {
		fmt.Fprintf(&b, "\n--- stdout ---\n%s\n", outcome.Stdout)
	}
	if len(outcome.Stderr) > 0 {
		fmt.Fprintf(&b, "\n--- stderr ---\n%s\n", outcome.Stderr)
	}

	n.send(Message{To: n.recipients, Subject: subject, Body: b.String()}, deliveryID)
}

// send makes one best-effort delivery attempt.
func (n *Notifier) send(msg Message, deliveryID string) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := n.mailer.Send(ctx, msg); err != nil {
		n.logger.Error("failed to send notification",
			"subject", msg.Subject,
			"recipients", strings.Join(msg.To, ", "),
			"delivery_id", deliveryID,
			"error", err,
		)
		return
	}
	n.logger.Info("notification sent",
		"subject", msg.Subject,
		"recipients", strings.Join(msg.To, ", "),
		"delivery_id", deliveryID,
	)
}
