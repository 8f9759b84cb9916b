package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/skychimp/newsletter-service/internal/access"
	"github.com/skychimp/newsletter-service/internal/models"
)

// ClientRepo is the client access the client service needs
type ClientRepo interface {
	Create(client *models.Client) error
	GetByID(id uint) (*models.Client, error)
	GetByOwner(userID uint) ([]*models.Client, error)
	ExistsByOwnerAndEmail(userID uint, email string, excludeID uint) (bool, error)
	Update(client *models.Client) error
	Delete(id uint) error
}

// ClientService manages the recipient registry. A client is visible and
// editable only to the user who created it.
type ClientService struct {
	clientRepo ClientRepo
}

func NewClientService(clientRepo ClientRepo) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// CreateClient creates a new client for the user. The email must be unique
// among the user's own clients; other users may register the same email.
func (s *ClientService) CreateClient(user *models.User, req *models.CreateClientRequest) (*models.ClientResponse, error) {
	exists, err := s.clientRepo.ExistsByOwnerAndEmail(user.ID, req.Email, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check client email: %w", err)
	}
	if exists {
		return nil, errors.New("client with this email already exists")
	}

	client := &models.Client{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		MiddleName:  req.MiddleName,
		Comment:     req.Comment,
		CreatedByID: user.ID,
	}
	if err := s.clientRepo.Create(client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return toClientResponse(client), nil
}

// GetClientsByUser retrieves all clients created by the user
func (s *ClientService) GetClientsByUser(user *models.User) ([]*models.ClientResponse, error) {
	clients, err := s.clientRepo.GetByOwner(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get clients: %w", err)
	}

	responses := make([]*models.ClientResponse, len(clients))
	for i, client := range clients {
		responses[i] = toClientResponse(client)
	}
	return responses, nil
}

// GetClientByID retrieves a client owned by the user
func (s *ClientService) GetClientByID(user *models.User, clientID uint) (*models.ClientResponse, error) {
	client, err := s.clientRepo.GetByID(clientID)
	if err != nil {
		return nil, errors.New("client not found")
	}
	if !access.Check(user, client, access.Authenticated, access.OwnerOnly) {
		return nil, errors.New("permission denied")
	}
	return toClientResponse(client), nil
}

// UpdateClient updates a client owned by the user
func (s *ClientService) UpdateClient(user *models.User, clientID uint, req *models.UpdateClientRequest) (*models.ClientResponse, error) {
	client, err := s.clientRepo.GetByID(clientID)
	if err != nil {
		return nil, errors.New("client not found")
	}
	if !access.Check(user, client, access.Authenticated, access.OwnerOnly) {
		return nil, errors.New("permission denied")
	}

	exists, err := s.clientRepo.ExistsByOwnerAndEmail(user.ID, req.Email, client.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check client email: %w", err)
	}
	if exists {
		return nil, errors.New("client with this email already exists")
	}

	client.Email = req.Email
	client.FirstName = req.FirstName
	client.LastName = req.LastName
	client.MiddleName = req.MiddleName
	client.Comment = req.Comment
	if err := s.clientRepo.Update(client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return toClientResponse(client), nil
}

// DeleteClient deletes a client owned by the user
func (s *ClientService) DeleteClient(user *models.User, clientID uint) error {
	client, err := s.clientRepo.GetByID(clientID)
	if err != nil {
		return errors.New("client not found")
	}
	if !access.Check(user, client, access.Authenticated, access.OwnerOnly) {
		return errors.New("permission denied")
	}
	if err := s.clientRepo.Delete(client.ID); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

func toClientResponse(client *models.Client) *models.ClientResponse {
	return &models.ClientResponse{
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
