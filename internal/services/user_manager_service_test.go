package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skychimp/newsletter-service/internal/models"
)

type recordingUserRepo struct {
	users []*models.User
	ops   []string
}

func (f *recordingUserRepo) GetAllExceptSuperusers() ([]*models.User, error) {
	return f.users, nil
}

func (f *recordingUserRepo) UnblockAll() error {
	f.ops = append(f.ops, "unblock_all")
	return nil
}

func (f *recordingUserRepo) BlockByIDs(ids []uint) error {
	f.ops = append(f.ops, "block")
	return nil
}

func (f *recordingUserRepo) RemoveManagerStatusAll() error {
	f.ops = append(f.ops, "remove_managers")
	return nil
}

func (f *recordingUserRepo) SetManagerByIDs(ids []uint) error {
	f.ops = append(f.ops, "set_managers")
	return nil
}

func TestManageUsersStaffResetsBlocksOnly(t *testing.T) {
	repo := &recordingUserRepo{}
	svc := NewUserManagerService(repo)
	staff := &models.User{ID: 1, IsActive: true, IsStaff: true}

	err := svc.ManageUsers(staff, &models.ManageUsersRequest{BlockIDs: []uint{4, 5}, ManagerIDs: []uint{6}})
	require.NoError(t, err)

	// The block set is a full reset: unblock everyone first, then block the
	// selection. Staff callers never touch manager status.
	assert.Equal(t, []string{"unblock_all", "block"}, repo.ops)
}

func TestManageUsersSuperuserResetsManagersToo(t *testing.T) {
	repo := &recordingUserRepo{}
	svc := NewUserManagerService(repo)
	root := &models.User{ID: 1, IsActive: true, IsSuperuser: true}

	err := svc.ManageUsers(root, &models.ManageUsersRequest{ManagerIDs: []uint{6}})
	require.NoError(t, err)

	assert.Equal(t, []string{"unblock_all", "block", "remove_managers", "set_managers"}, repo.ops)
}

func TestGetUsersListsNonSuperusers(t *testing.T) {
	repo := &recordingUserRepo{users: []*models.User{
		{ID: 1, Email: "a@example.com", IsActive: true},
		{ID: 2, Email: "b@example.com", IsStaff: true},
	}}
	svc := NewUserManagerService(repo)

	users, err := svc.GetUsers()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "a@example.com", users[0].Email)
	assert.True(t, users[1].IsStaff)
}
