package emailService

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"sync"

	"github.com/sebuszqo/FinBank/internal/telemetry"
)

const (
	subjectAccountActivation  = "Confirm your FinBank account"
	templateAccountActivation = "account_activation.html"
	defaultQueueSize          = 100
)

//go:embed templates/*.html
var templateFS embed.FS

type EmailData interface {
	TemplateFileName() string
	Subject() string
}

type EmailSender interface {
	QueueEmail(to string, data EmailData)
}

type AccountActivationData struct {
	UserName  string
	AccountID int64
	Link      string
	ExpiresIn string
}

func (a AccountActivationData) TemplateFileName() string {
	return templateAccountActivation
}

func (a AccountActivationData) Subject() string {
	return subjectAccountActivation
}

// Message is a rendered email ready for delivery.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers rendered messages.
type Sender interface {
	Send(ctx context.Context, message Message) error
}

// LogSender writes every message to the structured log instead of delivering it.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(_ context.Context, message Message) error {
	s.Logger.Info("email queued for delivery",
		slog.String("to", message.To),
		slog.String("subject", message.Subject),
		slog.String("body", message.Body),
	)
	return nil
}

type EmailService struct {
	sender    Sender
	templates *template.Template
	logger    *slog.Logger
	taskQueue chan EmailTask
	wg        sync.WaitGroup
	closeOnce sync.Once
}

type EmailTask struct {
	to   string
	data EmailData
}

// NewEmailService parses the embedded templates and starts the delivery worker.
func NewEmailService(sender Sender, logger *slog.Logger) (*EmailService, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("error parsing templates: %w", err)
	}

	s := &EmailService{
		sender:    sender,
		templates: templates,
		logger:    logger,
		taskQueue: make(chan EmailTask, defaultQueueSize),
	}

	s.wg.Add(1)
	go s.worker()
	return s, nil
}

func (s *EmailService) worker() {
	defer s.wg.Done()
	for task := range s.taskQueue {
		kind := strings.TrimSuffix(task.data.TemplateFileName(), ".html")
		if err := s.send(task); err != nil {
			telemetry.NotificationsTotal.WithLabelValues(kind, "failed").Inc()
			s.logger.Error("error sending email", slog.String("to", task.to), slog.String("error", err.Error()))
			continue
		}
		telemetry.NotificationsTotal.WithLabelValues(kind, "sent").Inc()
	}
}

func (s *EmailService) QueueEmail(to string, data EmailData) {
	s.taskQueue <- EmailTask{to: to, data: data}
}

// Close stops accepting emails and waits for the queued ones to be handed to the sender.
func (s *EmailService) Close() {
	s.closeOnce.Do(func() {
		close(s.taskQueue)
	})
	s.wg.Wait()
}

func (s *EmailService) send(task EmailTask) error {
	body, err := s.render(task.data)
	if err != nil {
		return err
	}
	return s.sender.Send(context.Background(), Message{
		To:      task.to,
		Subject: task.data.Subject(),
		Body:    body,
	})
}

func (s *EmailService) render(data EmailData) (string, error) {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, data.TemplateFileName(), data); err != nil {
		return "", fmt.Errorf("error executing template: %w", err)
	}
	return body.String(), nil
}
