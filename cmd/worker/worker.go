package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/resourcehub/backend/internal/tasks"
	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// Sender delivers rendered e-mails
type Sender interface {
	// Send delivers an e-mail
	//
	// "email" parameter carries the recipient, the optional reply-to address, the subject and the HTML body.
	//
	// If the message cannot be delivered, the error will be returned.
	Send(email tasks.Email) error
}

// renderer is implemented by every e-mail task payload
type renderer interface {
	Render() tasks.Email
}

// Worker handles task processing
type Worker struct {
	logger *zap.Logger
	sender Sender
}

// NewWorker creates a new worker instance
func NewWorker(logger *zap.Logger, sender Sender) *Worker {
	return &Worker{
		logger: logger,
		sender: sender,
	}
}

// HandleResourceSubmitted e-mails moderators about a new submission
func (w *Worker) HandleResourceSubmitted(ctx context.Context, t *asynq.Task) error {
	var p tasks.ResourceSubmittedPayload
	return w.deliver(t, &p)
}

// HandleResourceModerated e-mails an owner about a moderation decision
func (w *Worker) HandleResourceModerated(ctx context.Context, t *asynq.Task) error {
	var p tasks.ResourceModeratedPayload
	return w.deliver(t, &p)
}

// HandleContactMessage forwards a contact form message to the administrators
func (w *Worker) HandleContactMessage(ctx context.Context, t *asynq.Task) error {
	var p tasks.ContactMessagePayload
	return w.deliver(t, &p)
}

// deliver decodes the payload into p and sends the e-mail it renders.
// Undecodable payloads and missing recipients are not retried.
func (w *Worker) deliver(t *asynq.Task, p renderer) error {
	if err := json.Unmarshal(t.Payload(), p); err != nil {
		w.logger.Error("Failed to unmarshal task payload", zap.String("type", t.Type()), zap.Error(err))
		return fmt.Errorf("failed to unmarshal %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}

	email := p.Render()
	if email.To == "" {
		w.logger.Error("Task has no recipient", zap.String("type", t.Type()))
		return fmt.Errorf("%s task has no recipient: %w", t.Type(), asynq.SkipRetry)
	}

	if err := w.sender.Send(email); err != nil {
		w.logger.Error("Failed to send email", zap.String("type", t.Type()), zap.Error(err))
		return err
	}

	w.logger.Info("Email sent", zap.String("type", t.Type()))
	return nil
}

// smtpSender sends e-mails using gopkg.in/mail.v2
type smtpSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPSender creates a new SMTP sender
func NewSMTPSender(host string, port int, username, password, from string) *smtpSender {
	return &smtpSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send sends an e-mail through the configured SMTP server
func (s *smtpSender) Send(email tasks.Email) error {
	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email.To)
	if email.ReplyTo != "" {
		m.SetHeader("Reply-To", email.ReplyTo)
	}
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/html", email.Body)

	d := mail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
