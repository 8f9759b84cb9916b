package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skychimp/newsletter-service/internal/mailer"
	"github.com/skychimp/newsletter-service/internal/models"
	"github.com/skychimp/newsletter-service/internal/scheduler"
)

// NewsletterStore is the newsletter access the delivery service needs
type NewsletterStore interface {
	GetByID(id uint) (*models.Newsletter, error)
	GetActive() ([]*models.Newsletter, error)
}

// NewsletterLogStore appends delivery log rows
type NewsletterLogStore interface {
	Create(log *models.NewsletterLog) error
}

// EventPublisher publishes delivery events; satisfied by RabbitMQService
type EventPublisher interface {
	PublishMessage(ctx context.Context, queueName string, message map[string]interface{}) error
}

// DeliveryService translates a newsletter's schedule into a job registration
// and performs the actual send: every message in the set goes to every client
// in the set, and exactly one log row is appended per send invocation.
type DeliveryService struct {
	newsletterRepo NewsletterStore
	logRepo        NewsletterLogStore
	scheduler      scheduler.Scheduler
	sender         mailer.Sender
	events         EventPublisher
}

func NewDeliveryService(
	newsletterRepo NewsletterStore,
	logRepo NewsletterLogStore,
	sched scheduler.Scheduler,
	sender mailer.Sender,
	events EventPublisher,
) *DeliveryService {
	return &DeliveryService{
		newsletterRepo: newsletterRepo,
		logRepo:        logRepo,
		scheduler:      sched,
		sender:         sender,
		events:         events,
	}
}

// CreateTask registers a delivery job for the newsletter with the scheduler.
// It does not send mail itself. Registration replaces any job already keyed
// by the newsletter's ID, so CreateTask after DeleteTask never duplicates.
func (s *DeliveryService) CreateTask(newsletter *models.Newsletter) error {
	spec, err := BuildTriggerSpec(newsletter)
	if err != nil {
		return err
	}

	newsletterID := newsletter.ID
	err = s.scheduler.Register(newsletterID, spec, func() {
		if sendErr := s.SendMailToClients(newsletterID); sendErr != nil {
			logrus.Errorf("Scheduled send of newsletter %d failed: %v", newsletterID, sendErr)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register delivery job: %w", err)
	}
	return nil
}

// DeleteTask removes the newsletter's delivery job. Removing a job that was
// never registered is a no-op, not an error.
func (s *DeliveryService) DeleteTask(newsletter *models.Newsletter) {
	s.scheduler.Cancel(newsletter.ID)
}

// SendMailToClients sends every message of the newsletter to every client
// and appends exactly one log row for the whole attempt. A failure for one
// recipient does not abort the remaining sends; the aggregate status is
// failure if at least one send failed.
func (s *DeliveryService) SendMailToClients(newsletterID uint) error {
	newsletter, err := s.newsletterRepo.GetByID(newsletterID)
	if err != nil {
		return fmt.Errorf("newsletter %d not found: %w", newsletterID, err)
	}

	var sent, failed int
	var firstErr error
	for _, message := range newsletter.Messages {
		for _, client := range newsletter.Clients {
			if err := s.sender.Send(client.Email, message.Subject, message.Body); err != nil {
				logrus.Warnf("Failed to send newsletter %d message %d to %s: %v",
					newsletter.ID, message.ID, client.Email, err)
				failed++
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			sent++
		}
	}

	status := models.LogStatusSuccess
	detail := fmt.Sprintf("%d sent", sent)
	if failed > 0 {
		status = models.LogStatusFailure
		detail = fmt.Sprintf("%d sent, %d failed, first error: %v", sent, failed, firstErr)
	}

	logEntry := &models.NewsletterLog{
		DateTime:     time.Now(),
		Status:       status,
		Detail:       detail,
		NewsletterID: newsletter.ID,
	}
	if err := s.logRepo.Create(logEntry); err != nil {
		return fmt.Errorf("failed to record delivery log: %w", err)
	}

	s.publishEvent(newsletter.ID, status, sent, failed)

	logrus.Infof("Newsletter %d delivered: %s", newsletter.ID, detail)
	return nil
}

// RestoreSchedules re-registers delivery jobs for every active newsletter.
// Called at startup, since in-process jobs do not survive a restart.
func (s *DeliveryService) RestoreSchedules() error {
	newsletters, err := s.newsletterRepo.GetActive()
	if err != nil {
		return fmt.Errorf("failed to load active newsletters: %w", err)
	}

	for _, newsletter := range newsletters {
		if err := s.CreateTask(newsletter); err != nil {
			logrus.Warnf("Failed to restore schedule for newsletter %d: %v", newsletter.ID, err)
		}
	}
	logrus.Infof("Restored schedules for %d active newsletters", len(newsletters))
	return nil
}

func (s *DeliveryService) publishEvent(newsletterID uint, status string, sent, failed int) {
	if s.events == nil {
		return
	}
	event := map[string]interface{}{
		"type":          "newsletter_delivered",
		"newsletter_id": newsletterID,
		"status":        status,
		"sent":          sent,
		"failed":        failed,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.events.PublishMessage(ctx, NewsletterEventsQueue, event); err != nil {
		logrus.Warnf("Failed to publish delivery event for newsletter %d: %v", newsletterID, err)
	}
}

// BuildTriggerSpec computes the scheduler trigger from the newsletter's
// schedule fields. The finish instant is finish_date at finish_time, or the
// end of finish_date when no finish time is set.
func BuildTriggerSpec(newsletter *models.Newsletter) (scheduler.TriggerSpec, error) {
	spec := scheduler.TriggerSpec{
		SendTime:  newsletter.SendTime,
		Frequency: newsletter.Frequency,
	}

	if newsletter.FinishDate != nil {
		finish := newsletter.FinishDate.AddDate(0, 0, 1).Add(-time.Minute)
		if newsletter.FinishTime != "" {
			tod, err := time.Parse("15:04", newsletter.FinishTime)
			if err != nil {
				return spec, fmt.Errorf("invalid finish time %q: %w", newsletter.FinishTime, err)
			}
			d := newsletter.FinishDate
			finish = time.Date(d.Year(), d.Month(), d.Day(), tod.Hour(), tod.Minute(), 0, 0, d.Location())
		}
		spec.FinishAt = &finish
	}
	return spec, nil
}
