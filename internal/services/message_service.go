package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/skychimp/newsletter-service/internal/access"
	"github.com/skychimp/newsletter-service/internal/models"
)

// MessageRepo is the message access the message service needs
type MessageRepo interface {
	Create(message *models.Message) error
	GetByID(id uint) (*models.Message, error)
	GetByOwner(userID uint) ([]*models.Message, error)
	Update(message *models.Message) error
	Delete(id uint) error
}

// MessageService manages the reusable message library. A message is visible
// and editable only to the user who created it.
type MessageService struct {
	messageRepo MessageRepo
}

func NewMessageService(messageRepo MessageRepo) *MessageService {
	return &MessageService{messageRepo: messageRepo}
}

// CreateMessage creates a new message for the user
func (s *MessageService) CreateMessage(user *models.User, req *models.CreateMessageRequest) (*models.MessageResponse, error) {
	message := &models.Message{
		Subject:     req.Subject,
		Body:        req.Body,
		CreatedByID: user.ID,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return toMessageResponse(message), nil
}

// GetMessagesByUser retrieves all messages created by the user
func (s *MessageService) GetMessagesByUser(user *models.User) ([]*models.MessageResponse, error) {
	messages, err := s.messageRepo.GetByOwner(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}

	responses := make([]*models.MessageResponse, len(messages))
	for i, message := range messages {
		responses[i] = toMessageResponse(message)
	}
	return responses, nil
}

// GetMessageByID retrieves a message owned by the user
func (s *MessageService) GetMessageByID(user *models.User, messageID uint) (*models.MessageResponse, error) {
	message, err := s.messageRepo.GetByID(messageID)
	if err != nil {
		return nil, errors.New("message not found")
	}
	if !access.Check(user, message, access.Authenticated, access.OwnerOnly) {
		return nil, errors.New("permission denied")
	}
	return toMessageResponse(message), nil
}

// UpdateMessage updates a message owned by the user
func (s *MessageService) UpdateMessage(user *models.User, messageID uint, req *models.UpdateMessageRequest) (*models.MessageResponse, error) {
	message, err := s.messageRepo.GetByID(messageID)
	if err != nil {
		return nil, errors.New("message not found")
	}
	if !access.Check(user, message, access.Authenticated, access.OwnerOnly) {
		return nil, errors.New("permission denied")
	}

	message.Subject = req.Subject
	message.Body = req.Body
	if err := s.messageRepo.Update(message); err != nil {
		return nil, fmt.Errorf("failed to update message: %w", err)
	}
	return toMessageResponse(message), nil
}

// DeleteMessage deletes a message owned by the user
func (s *MessageService) DeleteMessage(user *models.User, messageID uint) error {
	message, err := s.messageRepo.GetByID(messageID)
	if err != nil {
		return errors.New("message not found")
	}
	if !access.Check(user, message, access.Authenticated, access.OwnerOnly) {
		return errors.New("permission denied")
	}
	if err := s.messageRepo.Delete(message.ID); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

func toMessageResponse(message *models.Message) *models.MessageResponse {
	return &models.MessageResponse{
		ID:        message.ID,
		Subject:   message.Subject,
		Body:      message.Body,
		CreatedBy: message.CreatedByID,
		CreatedAt: message.CreatedAt.Format(time.RFC3339),
		UpdatedAt: message.UpdatedAt.Format(time.RFC3339),
	}
}
