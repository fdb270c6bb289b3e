// Package tasks defines the background jobs the API hands to the worker.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Task type names
const (
	TypeResourceSubmitted = "resource:submitted"
	TypeResourceModerated = "resource:moderated"
	TypeContactMessage    = "contact:message"
)

// QueueImmediate is the queue e-mail jobs are enqueued on
const QueueImmediate = "immediate"

// ResourceSubmittedPayload notifies moderators about a new submission
type ResourceSubmittedPayload struct {
	Recipient  string `json:"recipient"`
	ResourceID string `json:"resourceId"`
	Title      string `json:"title"`
	Submitter  string `json:"submitter"`
	ReviewURL  string `json:"reviewUrl"`
}

// ResourceModeratedPayload tells an owner their submission was reviewed
type ResourceModeratedPayload struct {
	Recipient  string `json:"recipient"`
	OwnerName  string `json:"ownerName"`
	ResourceID string `json:"resourceId"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	ViewURL    string `json:"viewUrl"`
}

// ContactMessagePayload forwards a contact form message
type ContactMessagePayload struct {
	Recipient string `json:"recipient"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}

// Email is a rendered message ready for delivery
type Email struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// Render builds the moderator notification
func (p ResourceSubmittedPayload) Render() Email {
	return Email{
		To:      p.Recipient,
		Subject: fmt.Sprintf("New resource awaiting review: %s", p.Title),
		Body: fmt.Sprintf(
			`<p><strong>%s</strong> submitted <strong>%s</strong>.</p><p><a href="%s">Review it</a></p>`,
			html.EscapeString(p.Submitter), html.EscapeString(p.Title), html.EscapeString(p.ReviewURL),
		),
	}
}

// Render builds the owner notification
func (p ResourceModeratedPayload) Render() Email {
	greeting := "Hello"
	if p.OwnerName != "" {
		greeting = "Hello " + html.EscapeString(p.OwnerName)
	}

	var outcome string
	switch p.Status {
	case "approved":
		outcome = fmt.Sprintf(`has been approved and is now public. <a href="%s">View it</a>.`, html.EscapeString(p.ViewURL))
	default:
		outcome = "was not approved. You can edit it and submit it again."
	}

	return Email{
		To:      p.Recipient,
		Subject: fmt.Sprintf("Your resource was %s: %s", p.Status, p.Title),
		Body:    fmt.Sprintf(`<p>%s,</p><p>Your resource <strong>%s</strong> %s</p>`, greeting, html.EscapeString(p.Title), outcome),
	}
}

// Render builds the forwarded contact message
func (p ContactMessagePayload) Render() Email {
	subject := strings.TrimSpace(p.Subject)
	if subject == "" {
		subject = "New contact form message"
	}

	body := html.EscapeString(p.Message)
	body = strings.ReplaceAll(body, "\n", "<br>")

	return Email{
		To:      p.Recipient,
		ReplyTo: p.Email,
		Subject: "[Contact] " + subject,
		Body: fmt.Sprintf(`<p>From: %s &lt;%s&gt;</p><p>%s</p>`,
			html.EscapeString(p.Name), html.EscapeString(p.Email), body),
	}
}

// Client is the part of *asynq.Client the enqueuer needs
type Client interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer puts jobs on the immediate queue
type Enqueuer struct {
	client Client
	logger *zap.Logger
}

// NewEnqueuer creates a new enqueuer
func NewEnqueuer(client Client, logger *zap.Logger) *Enqueuer {
	return &Enqueuer{client: client, logger: logger}
}

func (e *Enqueuer) enqueue(ctx context.Context, taskType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", taskType, err)
	}

	info, err := e.client.EnqueueContext(ctx, asynq.NewTask(taskType, data), asynq.Queue(QueueImmediate), asynq.MaxRetry(5))
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", taskType, err)
	}

	e.logger.Debug("task enqueued", zap.String("type", taskType), zap.String("task_id", info.ID))
	return nil
}

// ResourceSubmitted enqueues a moderator notification
func (e *Enqueuer) ResourceSubmitted(ctx context.Context, p ResourceSubmittedPayload) error {
	return e.enqueue(ctx, TypeResourceSubmitted, p)
}

// ResourceModerated enqueues an owner notification
func (e *Enqueuer) ResourceModerated(ctx context.Context, p ResourceModeratedPayload) error {
	return e.enqueue(ctx, TypeResourceModerated, p)
}

// ContactMessage enqueues a contact form message
func (e *Enqueuer) ContactMessage(ctx context.Context, p ContactMessagePayload) error {
	return e.enqueue(ctx, TypeContactMessage, p)
}
