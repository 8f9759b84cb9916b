package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/skychimp/newsletter-service/internal/access"
	"github.com/skychimp/newsletter-service/internal/models"
	"github.com/skychimp/newsletter-service/internal/scheduler"
)

// NewsletterRepo is the newsletter access the lifecycle service needs
type NewsletterRepo interface {
	Create(newsletter *models.Newsletter) error
	GetByID(id uint) (*models.Newsletter, error)
	GetByOwner(userID uint) ([]*models.Newsletter, error)
	GetAll() ([]*models.Newsletter, error)
	Update(newsletter *models.Newsletter) error
	ReplaceClients(newsletter *models.Newsletter, clients []models.Client) error
	ReplaceMessages(newsletter *models.Newsletter, messages []models.Message) error
}

// NewsletterClientRepo resolves the owner's clients by ID
type NewsletterClientRepo interface {
	GetByOwnerAndIDs(userID uint, ids []uint) ([]models.Client, error)
}

// NewsletterMessageRepo resolves the owner's messages by ID
type NewsletterMessageRepo interface {
	GetByOwnerAndIDs(userID uint, ids []uint) ([]models.Message, error)
}

// NewsletterLogRepo is the log access the lifecycle service needs
type NewsletterLogRepo interface {
	GetByID(id uint) (*models.NewsletterLog, error)
	GetAll() ([]*models.NewsletterLog, error)
	GetByNewsletterOwner(userID uint) ([]*models.NewsletterLog, error)
}

// TaskManager registers and removes delivery jobs; satisfied by DeliveryService
type TaskManager interface {
	CreateTask(newsletter *models.Newsletter) error
	DeleteTask(newsletter *models.Newsletter)
}

// NewsletterService drives the newsletter lifecycle: created -> scheduled on
// job registration, re-scheduled on edit, deactivated on delete. End users
// never hard-delete a newsletter.
type NewsletterService struct {
	newsletterRepo NewsletterRepo
	clientRepo     NewsletterClientRepo
	messageRepo    NewsletterMessageRepo
	logRepo        NewsletterLogRepo
	delivery       TaskManager
	now            func() time.Time
}

func NewNewsletterService(
	newsletterRepo NewsletterRepo,
	clientRepo NewsletterClientRepo,
	messageRepo NewsletterMessageRepo,
	logRepo NewsletterLogRepo,
	delivery TaskManager,
) *NewsletterService {
	return &NewsletterService{
		newsletterRepo: newsletterRepo,
		clientRepo:     clientRepo,
		messageRepo:    messageRepo,
		logRepo:        logRepo,
		delivery:       delivery,
		now:            time.Now,
	}
}

// CreateNewsletter creates a newsletter for the user, registers its delivery
// job and marks it scheduled.
func (s *NewsletterService) CreateNewsletter(user *models.User, req *models.CreateNewsletterRequest) (*models.NewsletterResponse, error) {
	finishDate, err := s.validateSchedule(req.Time, req.FinishDate, req.FinishTime)
	if err != nil {
		return nil, err
	}

	clients, messages, err := s.resolveRecipients(user.ID, req.ClientIDs, req.MessageIDs)
	if err != nil {
		return nil, err
	}

	newsletter := &models.Newsletter{
		SendTime:    req.Time,
		FinishDate:  finishDate,
		FinishTime:  req.FinishTime,
		Frequency:   req.Frequency,
		Status:      models.NewsletterStatusCreated,
		IsActive:    true,
		CreatedByID: user.ID,
	}
	if err := s.newsletterRepo.Create(newsletter); err != nil {
		return nil, fmt.Errorf("failed to create newsletter: %w", err)
	}
	if err := s.newsletterRepo.ReplaceClients(newsletter, clients); err != nil {
		return nil, fmt.Errorf("failed to set newsletter clients: %w", err)
	}
	if err := s.newsletterRepo.ReplaceMessages(newsletter, messages); err != nil {
		return nil, fmt.Errorf("failed to set newsletter messages: %w", err)
	}

	if err := s.delivery.CreateTask(newsletter); err != nil {
		return nil, fmt.Errorf("failed to schedule newsletter: %w", err)
	}

	newsletter.Status = models.NewsletterStatusScheduled
	if err := s.newsletterRepo.Update(newsletter); err != nil {
		return nil, fmt.Errorf("failed to update newsletter status: %w", err)
	}

	newsletter.Clients = clients
	newsletter.Messages = messages
	return s.toResponse(newsletter), nil
}

// GetNewsletterByID retrieves a newsletter; the owner, staff and superusers
// may view it
func (s *NewsletterService) GetNewsletterByID(user *models.User, newsletterID uint) (*models.NewsletterResponse, error) {
	newsletter, err := s.newsletterRepo.GetByID(newsletterID)
	if err != nil {
		return nil, errors.New("newsletter not found")
	}
	if !access.Check(user, newsletter, access.Authenticated, access.OwnerOrStaff) {
		return nil, errors.New("permission denied")
	}
	return s.toResponse(newsletter), nil
}

// GetNewsletters lists newsletters: staff and superusers see all, other
// users their own; newest first.
func (s *NewsletterService) GetNewsletters(user *models.User) ([]*models.NewsletterResponse, error) {
	var newsletters []*models.Newsletter
	var err error
	if user.IsManager() {
		newsletters, err = s.newsletterRepo.GetAll()
	} else {
		newsletters, err = s.newsletterRepo.GetByOwner(user.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get newsletters: %w", err)
	}

	responses := make([]*models.NewsletterResponse, len(newsletters))
	for i, newsletter := range newsletters {
		responses[i] = s.toResponse(newsletter)
	}
	return responses, nil
}

// UpdateNewsletter edits an active newsletter owned by the user: the old
// delivery job is removed, a new one registered and the status forced back
// to scheduled. Editing an inactive newsletter is rejected.
func (s *NewsletterService) UpdateNewsletter(user *models.User, newsletterID uint, req *models.UpdateNewsletterRequest) (*models.NewsletterResponse, error) {
	newsletter, err := s.newsletterRepo.GetByID(newsletterID)
	if err != nil {
		return nil, errors.New("newsletter not found")
	}
	if !access.Check(user, newsletter, access.Authenticated, access.OwnerOnly) {
		return nil, errors.New("permission denied")
	}
	if !newsletter.IsActive {
		return nil, errors.New("newsletter is inactive")
	}

	finishDate, err := s.validateSchedule(req.Time, req.FinishDate, req.FinishTime)
	if err != nil {
		return nil, err
	}
	clients, messages, err := s.resolveRecipients(user.ID, req.ClientIDs, req.MessageIDs)
	if err != nil {
		return nil, err
	}

	newsletter.SendTime = req.Time
	newsletter.FinishDate = finishDate
	newsletter.FinishTime = req.FinishTime
	newsletter.Frequency = req.Frequency
	if err := s.newsletterRepo.Update(newsletter); err != nil {
		return nil, fmt.Errorf("failed to update newsletter: %w", err)
	}
	if err := s.newsletterRepo.ReplaceClients(newsletter, clients); err != nil {
		return nil, fmt.Errorf("failed to update newsletter clients: %w", err)
	}
	if err := s.newsletterRepo.ReplaceMessages(newsletter, messages); err != nil {
		return nil, fmt.Errorf("failed to update newsletter messages: %w", err)
	}

	s.delivery.DeleteTask(newsletter)
	if err := s.delivery.CreateTask(newsletter); err != nil {
		return nil, fmt.Errorf("failed to reschedule newsletter: %w", err)
	}

	newsletter.Status = models.NewsletterStatusScheduled
	if err := s.newsletterRepo.Update(newsletter); err != nil {
		return nil, fmt.Errorf("failed to update newsletter status: %w", err)
	}

	newsletter.Clients = clients
	newsletter.Messages = messages
	return s.toResponse(newsletter), nil
}

// DisableNewsletter deactivates an active newsletter and removes its delivery
// job. The owner, staff and superusers may disable; the status field is left
// as-is. Disabling an already inactive newsletter is rejected.
func (s *NewsletterService) DisableNewsletter(user *models.User, newsletterID uint) error {
	newsletter, err := s.newsletterRepo.GetByID(newsletterID)
	if err != nil {
		return errors.New("newsletter not found")
	}
	if !access.Check(user, newsletter, access.Authenticated, access.OwnerOrStaff) {
		return errors.New("permission denied")
	}
	if !newsletter.IsActive {
		return errors.New("newsletter is inactive")
	}

	s.delivery.DeleteTask(newsletter)

	newsletter.IsActive = false
	if err := s.newsletterRepo.Update(newsletter); err != nil {
		return fmt.Errorf("failed to disable newsletter: %w", err)
	}
	return nil
}

// GetLogs lists delivery logs: staff and superusers see all, other users the
// logs of their own newsletters; newest first.
func (s *NewsletterService) GetLogs(user *models.User) ([]*models.NewsletterLogResponse, error) {
	var logs []*models.NewsletterLog
	var err error
	if user.IsManager() {
		logs, err = s.logRepo.GetAll()
	} else {
		logs, err = s.logRepo.GetByNewsletterOwner(user.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get newsletter logs: %w", err)
	}

	responses := make([]*models.NewsletterLogResponse, len(logs))
	for i, log := range logs {
		responses[i] = toLogResponse(log)
	}
	return responses, nil
}

// GetLogByID retrieves a single log row; the parent newsletter's owner,
// staff and superusers may view it
func (s *NewsletterService) GetLogByID(user *models.User, logID uint) (*models.NewsletterLogResponse, error) {
	log, err := s.logRepo.GetByID(logID)
	if err != nil {
		return nil, errors.New("newsletter log not found")
	}
	if !access.Check(user, log, access.Authenticated, access.LogOwner) {
		return nil, errors.New("permission denied")
	}
	return toLogResponse(log), nil
}

// validateSchedule checks the schedule fields. The finish date, when
// supplied, must be strictly later than the current date at submission.
func (s *NewsletterService) validateSchedule(sendTime, finishDate, finishTime string) (*time.Time, error) {
	if _, err := time.Parse("15:04", sendTime); err != nil {
		return nil, errors.New("time must be in HH:MM format")
	}
	if finishTime != "" {
		if _, err := time.Parse("15:04", finishTime); err != nil {
			return nil, errors.New("finish_time must be in HH:MM format")
		}
	}
	if finishDate == "" {
		return nil, nil
	}

	parsed, err := time.Parse("2006-01-02", finishDate)
	if err != nil {
		return nil, errors.New("finish_date must be in YYYY-MM-DD format")
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	date := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location())
	if !date.After(today) {
		return nil, errors.New("finish date must be later than the current date")
	}

	// Reject a schedule whose finish instant precedes its first send before
	// anything is persisted, so a failed job registration cannot leave a
	// scheduled row without a job
	spec, err := BuildTriggerSpec(&models.Newsletter{SendTime: sendTime, FinishDate: &date, FinishTime: finishTime})
	if err != nil {
		return nil, err
	}
	next, err := scheduler.NextRun(now, spec)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, errors.New("finish time must be later than the next send time")
	}
	return &date, nil
}

// resolveRecipients loads the owner's clients and messages for the given IDs;
// IDs the user does not own are rejected. Repeated IDs count once.
func (s *NewsletterService) resolveRecipients(userID uint, clientIDs, messageIDs []uint) ([]models.Client, []models.Message, error) {
	clientIDs = uniqueIDs(clientIDs)
	messageIDs = uniqueIDs(messageIDs)

	clients, err := s.clientRepo.GetByOwnerAndIDs(userID, clientIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch clients: %w", err)
	}
	if len(clients) != len(clientIDs) {
		return nil, nil, errors.New("one or more clients not found")
	}

	messages, err := s.messageRepo.GetByOwnerAndIDs(userID, messageIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	if len(messages) != len(messageIDs) {
		return nil, nil, errors.New("one or more messages not found")
	}
	return clients, messages, nil
}

// uniqueIDs drops repeated IDs, keeping first-seen order
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// toResponse converts a Newsletter model to its response DTO
func (s *NewsletterService) toResponse(newsletter *models.Newsletter) *models.NewsletterResponse {
	clients := make([]models.ClientResponse, len(newsletter.Clients))
	for i, client := range newsletter.Clients {
		clients[i] = models.ClientResponse{
			ID:         client.ID,
			Email:      client.Email,
			FirstName:  client.FirstName,
			LastName:   client.LastName,
			MiddleName: client.MiddleName,
			Comment:    client.Comment,
			CreatedBy:  client.CreatedByID,
			CreatedAt:  client.CreatedAt.Format(time.RFC3339),
			UpdatedAt:  client.UpdatedAt.Format(time.RFC3339),
		}
	}
	messages := make([]models.MessageResponse, len(newsletter.Messages))
	for i, message := range newsletter.Messages {
		messages[i] = models.MessageResponse{
			ID:        message.ID,
			Subject:   message.Subject,
			Body:      message.Body,
			CreatedBy: message.CreatedByID,
			CreatedAt: message.CreatedAt.Format(time.RFC3339),
			UpdatedAt: message.UpdatedAt.Format(time.RFC3339),
		}
	}

	resp := &models.NewsletterResponse{
		ID:         newsletter.ID,
		Time:       newsletter.SendTime,
		FinishTime: newsletter.FinishTime,
		Frequency:  newsletter.Frequency,
		Status:     newsletter.Status,
		IsActive:   newsletter.IsActive,
		CreatedBy:  newsletter.CreatedByID,
		Clients:    clients,
		Messages:   messages,
		CreatedAt:  newsletter.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  newsletter.UpdatedAt.Format(time.RFC3339),
	}
	if newsletter.FinishDate != nil {
		resp.FinishDate = newsletter.FinishDate.Format("2006-01-02")
	}
	return resp
}

func toLogResponse(log *models.NewsletterLog) *models.NewsletterLogResponse {
	return &models.NewsletterLogResponse{
		ID:           log.ID,
		DateTime:     log.DateTime.Format(time.RFC3339),
		Status:       log.Status,
		Detail:       log.Detail,
		NewsletterID: log.NewsletterID,
	}
}
