package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skychimp/newsletter-service/internal/models"
)

type fakeClientRepo struct {
	clients map[uint]*models.Client
	nextID  uint
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: make(map[uint]*models.Client), nextID: 1}
}

func (f *fakeClientRepo) Create(c *models.Client) error {
	c.ID = f.nextID
	f.nextID++
	f.clients[c.ID] = c
	return nil
}

func (f *fakeClientRepo) GetByID(id uint) (*models.Client, error) {
	c, ok := f.clients[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return c, nil
}

func (f *fakeClientRepo) GetByOwner(userID uint) ([]*models.Client, error) {
	var out []*models.Client
	for _, c := range f.clients {
		if c.CreatedByID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeClientRepo) ExistsByOwnerAndEmail(userID uint, email string, excludeID uint) (bool, error) {
	for _, c := range f.clients {
		if c.CreatedByID == userID && c.Email == email && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeClientRepo) Update(c *models.Client) error {
	f.clients[c.ID] = c
	return nil
}

func (f *fakeClientRepo) Delete(id uint) error {
	delete(f.clients, id)
	return nil
}

func TestCreateClientDuplicateEmailPerOwner(t *testing.T) {
	repo := newFakeClientRepo()
	svc := NewClientService(repo)
	alice := &models.User{ID: 1, IsActive: true}
	bob := &models.User{ID: 2, IsActive: true}

	req := &models.CreateClientRequest{Email: "shared@example.com", FirstName: "Ivan", LastName: "Petrov"}
	_, err := svc.CreateClient(alice, req)
	require.NoError(t, err)

	// Same owner, same email: rejected
	_, err = svc.CreateClient(alice, req)
	require.Error(t, err)
	assert.Equal(t, "client with this email already exists", err.Error())

	// Uniqueness is scoped to the creator, another user may reuse the email
	_, err = svc.CreateClient(bob, req)
	assert.NoError(t, err)
}

func TestUpdateClientKeepOwnEmail(t *testing.T) {
	repo := newFakeClientRepo()
	svc := NewClientService(repo)
	alice := &models.User{ID: 1, IsActive: true}

	created, err := svc.CreateClient(alice, &models.CreateClientRequest{Email: "c@example.com", FirstName: "Ivan", LastName: "Petrov"})
	require.NoError(t, err)

	// Re-submitting the client's own email is not a duplicate
	updated, err := svc.UpdateClient(alice, created.ID, &models.UpdateClientRequest{Email: "c@example.com", FirstName: "Ivan", LastName: "Sidorov"})
	require.NoError(t, err)
	assert.Equal(t, "Sidorov", updated.LastName)
}

func TestClientAccessOwnerOnly(t *testing.T) {
	repo := newFakeClientRepo()
	svc := NewClientService(repo)
	alice := &models.User{ID: 1, IsActive: true}
	staff := &models.User{ID: 3, IsActive: true, IsStaff: true}

	created, err := svc.CreateClient(alice, &models.CreateClientRequest{Email: "c@example.com", FirstName: "Ivan", LastName: "Petrov"})
	require.NoError(t, err)

	// Clients are private to their creator, staff included
	_, err = svc.GetClientByID(staff, created.ID)
	require.Error(t, err)
	assert.Equal(t, "permission denied", err.Error())

	err = svc.DeleteClient(staff, created.ID)
	require.Error(t, err)
	assert.Equal(t, "permission denied", err.Error())

	require.NoError(t, svc.DeleteClient(alice, created.ID))
	_, err = svc.GetClientByID(alice, created.ID)
	require.Error(t, err)
	assert.Equal(t, "client not found", err.Error())
}
