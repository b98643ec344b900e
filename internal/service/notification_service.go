package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/resend/resend-go/v2"

	"github.com/yourusername/homework-api/internal/domain/entity"
)

// LogNotifier writes lifecycle events to the process log. Used when email
// notifications are disabled.
type LogNotifier struct{}

func (LogNotifier) CompetitionStarted(c *entity.Competition) {
	log.Printf("[Notifier] Competition %d (%s) started", c.ID, c.Title)
}

func (LogNotifier) CompetitionFinished(c *entity.Competition) {
	log.Printf("[Notifier] Competition %d (%s) finished", c.ID, c.Title)
}

func (LogNotifier) RewardIssued(c *entity.Competition, r *entity.Reward) {
	log.Printf("[Notifier] Reward %q (%d points) issued to participant %d in competition %d",
		r.Title, r.PointsValue, r.ParticipantID, c.ID)
}

func (LogNotifier) UserJoined(c *entity.Competition, u *entity.User) {
	log.Printf("[Notifier] User %d joined competition %d (%s)", u.ID, c.ID, c.Title)
}

// EmailNotifier announces lifecycle events by email via Resend. Delivery is
// fire and forget: sends run in their own goroutine, failures are logged
// and never retried. Each send carries a fresh idempotency key so Resend
// deduplicates its own retries.
type EmailNotifier struct {
	client     *resend.Client
	from       string
	recipients []string
	timeout    time.Duration
}

// NewEmailNotifier creates a notifier sending through Resend.
func NewEmailNotifier(apiKey, from string, recipients []string) (*EmailNotifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}
	return &EmailNotifier{
		client:     resend.NewClient(apiKey),
		from:       from,
		recipients: recipients,
		timeout:    10 * time.Second,
	}, nil
}

func (n *EmailNotifier) CompetitionStarted(c *entity.Competition) {
	n.send(
		fmt.Sprintf("Competition started: %s", c.Title),
		fmt.Sprintf("Competition %q is now running until %s.", c.Title, c.EndDate.Format(time.RFC1123)),
	)
}

func (n *EmailNotifier) CompetitionFinished(c *entity.Competition) {
	n.send(
		fmt.Sprintf("Competition finished: %s", c.Title),
		fmt.Sprintf("Competition %q has finished. Final standings and rewards are available.", c.Title),
	)
}

func (n *EmailNotifier) RewardIssued(c *entity.Competition, r *entity.Reward) {
	n.send(
		fmt.Sprintf("Reward issued in %s", c.Title),
		fmt.Sprintf("%s: %d bonus points awarded to participant %d.", r.Title, r.PointsValue, r.ParticipantID),
	)
}

func (n *EmailNotifier) UserJoined(c *entity.Competition, u *entity.User) {
	n.send(
		fmt.Sprintf("New participant in %s", c.Title),
		fmt.Sprintf("User %d joined competition %q starting %s.", u.ID, c.Title, c.StartDate.Format(time.RFC1123)),
	)
}

func (n *EmailNotifier) send(subject, text string) {
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      n.recipients,
		Subject: subject,
		Text:    text,
	}
	options := &resend.SendEmailOptions{
		IdempotencyKey: uuid.NewString(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if _, err := n.client.Emails.SendWithOptions(ctx, params, options); err != nil {
			log.Printf("[Notifier] Error: sending %q: %v", subject, err)
		}
	}()
}
