package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skychimp/newsletter-service/internal/models"
)

// UserAdminRepo is the user access the manager console needs
type UserAdminRepo interface {
	GetAllExceptSuperusers() ([]*models.User, error)
	UnblockAll() error
	BlockByIDs(ids []uint) error
	RemoveManagerStatusAll() error
	SetManagerByIDs(ids []uint) error
}

// UserManagerService backs the manager console: the user list and the bulk
// block/manager actions.
type UserManagerService struct {
	userRepo UserAdminRepo
}

func NewUserManagerService(userRepo UserAdminRepo) *UserManagerService {
	return &UserManagerService{userRepo: userRepo}
}

// GetUsers lists every user except superusers
func (s *UserManagerService) GetUsers() ([]*models.UserListItemResponse, error) {
	users, err := s.userRepo.GetAllExceptSuperusers()
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	responses := make([]*models.UserListItemResponse, len(users))
	for i, user := range users {
		responses[i] = &models.UserListItemResponse{
			ID:            user.ID,
			Email:         user.Email,
			FirstName:     user.FirstName,
			LastName:      user.LastName,
			IsActive:      user.IsActive,
			IsStaff:       user.IsStaff,
			EmailVerified: user.EmailVerified,
			CreatedAt:     user.CreatedAt.Format(time.RFC3339),
		}
	}
	return responses, nil
}

// ManageUsers applies the manager's bulk update. The update is a full reset:
// every user is unblocked first, then the selected ids are blocked. When the
// actor is a superuser the manager set is reset the same way: staff status is
// removed from every non-superuser, then granted to the selected ids.
func (s *UserManagerService) ManageUsers(actor *models.User, req *models.ManageUsersRequest) error {
	logrus.Infof("Users to block: %v", req.BlockIDs)

	if err := s.userRepo.UnblockAll(); err != nil {
		return fmt.Errorf("failed to unblock users: %w", err)
	}
	if err := s.userRepo.BlockByIDs(req.BlockIDs); err != nil {
		return fmt.Errorf("failed to block users: %w", err)
	}

	if actor.IsSuperuser {
		logrus.Infof("Users to set as manager: %v", req.ManagerIDs)

		if err := s.userRepo.RemoveManagerStatusAll(); err != nil {
			return fmt.Errorf("failed to remove manager status: %w", err)
		}
		if err := s.userRepo.SetManagerByIDs(req.ManagerIDs); err != nil {
			return fmt.Errorf("failed to set managers: %w", err)
		}
	}
	return nil
}
