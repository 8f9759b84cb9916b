package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skychimp/newsletter-service/internal/models"
)

type fakeNewsletterRepo struct {
	newsletters map[uint]*models.Newsletter
	nextID      uint
}

func newFakeNewsletterRepo() *fakeNewsletterRepo {
	return &fakeNewsletterRepo{newsletters: make(map[uint]*models.Newsletter), nextID: 1}
}

func (f *fakeNewsletterRepo) Create(n *models.Newsletter) error {
	n.ID = f.nextID
	f.nextID++
	f.newsletters[n.ID] = n
	return nil
}

func (f *fakeNewsletterRepo) GetByID(id uint) (*models.Newsletter, error) {
	n, ok := f.newsletters[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return n, nil
}

func (f *fakeNewsletterRepo) GetByOwner(userID uint) ([]*models.Newsletter, error) {
	var out []*models.Newsletter
	for _, n := range f.newsletters {
		if n.CreatedByID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNewsletterRepo) GetAll() ([]*models.Newsletter, error) {
	var out []*models.Newsletter
	for _, n := range f.newsletters {
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeNewsletterRepo) Update(n *models.Newsletter) error {
	f.newsletters[n.ID] = n
	return nil
}

func (f *fakeNewsletterRepo) ReplaceClients(n *models.Newsletter, clients []models.Client) error {
	n.Clients = clients
	return nil
}

func (f *fakeNewsletterRepo) ReplaceMessages(n *models.Newsletter, messages []models.Message) error {
	n.Messages = messages
	return nil
}

type fakeRecipientRepo struct {
	clients map[uint]models.Client
}

func (f *fakeRecipientRepo) GetByOwnerAndIDs(userID uint, ids []uint) ([]models.Client, error) {
	var out []models.Client
	for _, id := range ids {
		if c, ok := f.clients[id]; ok && c.CreatedByID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeMessageLookup struct {
	messages map[uint]models.Message
}

func (f *fakeMessageLookup) GetByOwnerAndIDs(userID uint, ids []uint) ([]models.Message, error) {
	var out []models.Message
	for _, id := range ids {
		if m, ok := f.messages[id]; ok && m.CreatedByID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeLogRepo struct {
	logs map[uint]*models.NewsletterLog
}

func (f *fakeLogRepo) GetByID(id uint) (*models.NewsletterLog, error) {
	l, ok := f.logs[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return l, nil
}

func (f *fakeLogRepo) GetAll() ([]*models.NewsletterLog, error) {
	var out []*models.NewsletterLog
	for _, l := range f.logs {
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeLogRepo) GetByNewsletterOwner(userID uint) ([]*models.NewsletterLog, error) {
	var out []*models.NewsletterLog
	for _, l := range f.logs {
		if l.Newsletter.CreatedByID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeTaskManager struct {
	created   []uint
	deleted   []uint
	createErr error
}

func (f *fakeTaskManager) CreateTask(n *models.Newsletter) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, n.ID)
	return nil
}

func (f *fakeTaskManager) DeleteTask(n *models.Newsletter) {
	f.deleted = append(f.deleted, n.ID)
}

type newsletterFixture struct {
	svc     *NewsletterService
	repo    *fakeNewsletterRepo
	tasks   *fakeTaskManager
	logs    *fakeLogRepo
	owner   *models.User
	other   *models.User
	staff   *models.User
	request *models.CreateNewsletterRequest
}

func newNewsletterFixture() *newsletterFixture {
	owner := &models.User{ID: 1, IsActive: true}
	repo := newFakeNewsletterRepo()
	clients := &fakeRecipientRepo{clients: map[uint]models.Client{
		10: {ID: 10, Email: "a@example.com", CreatedByID: owner.ID},
		11: {ID: 11, Email: "b@example.com", CreatedByID: owner.ID},
	}}
	messages := &fakeMessageLookup{messages: map[uint]models.Message{
		20: {ID: 20, Subject: "hi", CreatedByID: owner.ID},
	}}
	logs := &fakeLogRepo{logs: make(map[uint]*models.NewsletterLog)}
	tasks := &fakeTaskManager{}

	svc := NewNewsletterService(repo, clients, messages, logs, tasks)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC) }

	return &newsletterFixture{
		svc:   svc,
		repo:  repo,
		tasks: tasks,
		logs:  logs,
		owner: owner,
		other: &models.User{ID: 2, IsActive: true},
		staff: &models.User{ID: 3, IsActive: true, IsStaff: true},
		request: &models.CreateNewsletterRequest{
			Time:       "09:00",
			Frequency:  models.FrequencyDaily,
			ClientIDs:  []uint{10, 11},
			MessageIDs: []uint{20},
		},
	}
}

func TestCreateNewsletterBecomesScheduled(t *testing.T) {
	fx := newNewsletterFixture()

	resp, err := fx.svc.CreateNewsletter(fx.owner, fx.request)
	require.NoError(t, err)

	assert.Equal(t, models.NewsletterStatusScheduled, resp.Status)
	assert.True(t, resp.IsActive)
	assert.Len(t, resp.Clients, 2)
	assert.Len(t, resp.Messages, 1)
	assert.Equal(t, []uint{resp.ID}, fx.tasks.created)

	stored := fx.repo.newsletters[resp.ID]
	assert.Equal(t, models.NewsletterStatusScheduled, stored.Status)
}

func TestCreateNewsletterFinishDateMustBeFuture(t *testing.T) {
	fx := newNewsletterFixture()
	fx.request.FinishDate = "2026-03-10" // the fixture's current date

	_, err := fx.svc.CreateNewsletter(fx.owner, fx.request)
	require.Error(t, err)
	assert.Equal(t, "finish date must be later than the current date", err.Error())
	assert.Empty(t, fx.tasks.created)
}

func TestCreateNewsletterFutureFinishDate(t *testing.T) {
	fx := newNewsletterFixture()
	fx.request.FinishDate = "2026-03-11"

	resp, err := fx.svc.CreateNewsletter(fx.owner, fx.request)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-11", resp.FinishDate)
}

func TestCreateNewsletterFinishBeforeFirstSendRejected(t *testing.T) {
	fx := newNewsletterFixture()
	// 07:00 is already past on the fixture's current day, so the first send
	// would be tomorrow 07:00, after the finish instant
	fx.request.Time = "07:00"
	fx.request.FinishDate = "2026-03-11"
	fx.request.FinishTime = "06:00"

	_, err := fx.svc.CreateNewsletter(fx.owner, fx.request)
	require.Error(t, err)
	assert.Equal(t, "finish time must be later than the next send time", err.Error())
	assert.Empty(t, fx.tasks.created)
	assert.Empty(t, fx.repo.newsletters)
}

func TestCreateNewsletterDuplicateIDsCountOnce(t *testing.T) {
	fx := newNewsletterFixture()
	fx.request.ClientIDs = []uint{10, 10}
	fx.request.MessageIDs = []uint{20, 20}

	resp, err := fx.svc.CreateNewsletter(fx.owner, fx.request)
	require.NoError(t, err)
	assert.Len(t, resp.Clients, 1)
	assert.Len(t, resp.Messages, 1)
}

func TestCreateNewsletterUnknownClient(t *testing.T) {
	fx := newNewsletterFixture()
	fx.request.ClientIDs = []uint{10, 999}

	_, err := fx.svc.CreateNewsletter(fx.owner, fx.request)
	require.Error(t, err)
	assert.Equal(t, "one or more clients not found", err.Error())
}

func TestCreateNewsletterForeignClientRejected(t *testing.T) {
	fx := newNewsletterFixture()

	// Client 10 belongs to the owner, not to this user
	_, err := fx.svc.CreateNewsletter(fx.other, fx.request)
	require.Error(t, err)
	assert.Equal(t, "one or more clients not found", err.Error())
}

func TestUpdateNewsletterReschedules(t *testing.T) {
	fx := newNewsletterFixture()
	resp, err := fx.svc.CreateNewsletter(fx.owner, fx.request)
	require.NoError(t, err)

	update := &models.UpdateNewsletterRequest{
		Time:       "18:00",
		Frequency:  models.FrequencyWeekly,
		ClientIDs:  []uint{10},
		MessageIDs: []uint{20},
	}
	updated, err := fx.svc.UpdateNewsletter(fx.owner, resp.ID, update)
	require.NoError(t, err)

	assert.Equal(t, "18:00", updated.Time)
	assert.Equal(t, models.FrequencyWeekly, updated.Frequency)
	assert.Equal(t, models.NewsletterStatusScheduled, updated.Status)
	assert.Len(t, updated.Clients, 1)

	// Old job removed, a new one registered
	assert.Equal(t, []uint{resp.ID}, fx.tasks.deleted)
	assert.Equal(t, []uint{resp.ID, resp.ID}, fx.tasks.created)
}

func TestUpdateNewsletterBadTriggerLeavesRowUntouched(t *testing.T) {
	fx := newNewsletterFixture()
	resp, err := fx.svc.CreateNewsletter(fx.owner, fx.request)
	require.NoError(t, err)

	update := &models.UpdateNewsletterRequest{
		Time:       "07:00",
		FinishDate: "2026-03-11",
		FinishTime: "06:00",
		Frequency:  models.FrequencyDaily,
		ClientIDs:  []uint{10},
		MessageIDs: []uint{20},
	}
	_, err = fx.svc.UpdateNewsletter(fx.owner, resp.ID, update)
	require.Error(t, err)
	assert.Equal(t, "finish time must be later than the next send time", err.Error())

	// Nothing was persisted and the job registration is the original one
	stored := fx.repo.newsletters[resp.ID]
	assert.Equal(t, "09:00", stored.SendTime)
	assert.Equal(t, models.NewsletterStatusScheduled, stored.Status)
	assert.Empty(t, fx.tasks.deleted)
	assert.Equal(t, []uint{resp.ID}, fx.tasks.created)
}

func TestUpdateNewsletterInactiveRejected(t *testing.T) {
	fx := newNewsletterFixture()
	resp, err := fx.svc.CreateNewsletter(fx.owner, fx.request)
	require.NoError(t, err)
	require.NoError(t, fx.svc.DisableNewsletter(fx.owner, resp.ID))

	update := &models.UpdateNewsletterRequest{
		Time:       "18:00",
		Frequency:  models.FrequencyDaily,
		ClientIDs:  []uint{10},
		MessageIDs: []uint{20},
	}
	_, err = fx.svc.UpdateNewsletter(fx.owner, resp.ID, update)
	require.Error(t, err)
	assert.Equal(t, "newsletter is inactive", err.Error())
}

func TestUpdateNewsletterOwnerOnly(t *testing.T) {
	fx := newNewsletterFixture()
	resp, err := fx.svc.CreateNewsletter(fx.owner, fx.request)
	require.NoError(t, err)

	update := &models.UpdateNewsletterRequest{
		Time:       "18:00",
		Frequency:  models.FrequencyDaily,
		ClientIDs:  []uint{10},
		MessageIDs: []uint{20},
	}
	// Even staff may not edit someone else's newsletter
	_, err = fx.svc.UpdateNewsletter(fx.staff, resp.ID, update)
	require.Error(t, err)
	assert.Equal(t, "permission denied", err.Error())
}

func TestDisableNewsletterKeepsStatus(t *testing.T) {
	fx := newNewsletterFixture()
	resp, err := fx.svc.CreateNewsletter(fx.owner, fx.request)
	require.NoError(t, err)

	require.NoError(t, fx.svc.DisableNewsletter(fx.owner, resp.ID))

	stored := fx.repo.newsletters[resp.ID]
	assert.False(t, stored.IsActive)
	// Deactivation removes the job but leaves the status untouched
	assert.Equal(t, models.NewsletterStatusScheduled, stored.Status)
	assert.Equal(t, []uint{resp.ID}, fx.tasks.deleted)
}

func TestDisableNewsletterTwiceRejected(t *testing.T) {
	fx := newNewsletterFixture()
	resp, err := fx.svc.CreateNewsletter(fx.owner, fx.request)
	require.NoError(t, err)

	require.NoError(t, fx.svc.DisableNewsletter(fx.owner, resp.ID))
	err = fx.svc.DisableNewsletter(fx.owner, resp.ID)
	require.Error(t, err)
	assert.Equal(t, "newsletter is inactive", err.Error())
}

func TestDisableNewsletterStaffAllowed(t *testing.T) {
	fx := newNewsletterFixture()
	resp, err := fx.svc.CreateNewsletter(fx.owner, fx.request)
	require.NoError(t, err)

	require.NoError(t, fx.svc.DisableNewsletter(fx.staff, resp.ID))
}

func TestGetNewsletterVisibility(t *testing.T) {
	fx := newNewsletterFixture()
	resp, err := fx.svc.CreateNewsletter(fx.owner, fx.request)
	require.NoError(t, err)

	_, err = fx.svc.GetNewsletterByID(fx.owner, resp.ID)
	assert.NoError(t, err)

	_, err = fx.svc.GetNewsletterByID(fx.staff, resp.ID)
	assert.NoError(t, err)

	_, err = fx.svc.GetNewsletterByID(fx.other, resp.ID)
	require.Error(t, err)
	assert.Equal(t, "permission denied", err.Error())
}

func TestGetLogsScopedToOwner(t *testing.T) {
	fx := newNewsletterFixture()
	fx.logs.logs[1] = &models.NewsletterLog{
		ID:           1,
		Status:       models.LogStatusSuccess,
		NewsletterID: 1,
		Newsletter:   models.Newsletter{ID: 1, CreatedByID: fx.owner.ID},
	}
	fx.logs.logs[2] = &models.NewsletterLog{
		ID:           2,
		Status:       models.LogStatusFailure,
		NewsletterID: 2,
		Newsletter:   models.Newsletter{ID: 2, CreatedByID: fx.other.ID},
	}

	ownLogs, err := fx.svc.GetLogs(fx.owner)
	require.NoError(t, err)
	assert.Len(t, ownLogs, 1)

	allLogs, err := fx.svc.GetLogs(fx.staff)
	require.NoError(t, err)
	assert.Len(t, allLogs, 2)
}

func TestGetLogByIDAccess(t *testing.T) {
	fx := newNewsletterFixture()
	fx.logs.logs[1] = &models.NewsletterLog{
		ID:         1,
		Status:     models.LogStatusSuccess,
		Newsletter: models.Newsletter{ID: 1, CreatedByID: fx.owner.ID},
	}

	_, err := fx.svc.GetLogByID(fx.owner, 1)
	assert.NoError(t, err)

	_, err = fx.svc.GetLogByID(fx.other, 1)
	require.Error(t, err)
	assert.Equal(t, "permission denied", err.Error())
}

func TestValidateScheduleFormats(t *testing.T) {
	fx := newNewsletterFixture()

	fx.request.Time = "9 o'clock"
	_, err := fx.svc.CreateNewsletter(fx.owner, fx.request)
	require.Error(t, err)
	assert.Equal(t, "time must be in HH:MM format", err.Error())

	fx.request.Time = "09:00"
	fx.request.FinishDate = "next week"
	_, err = fx.svc.CreateNewsletter(fx.owner, fx.request)
	require.Error(t, err)
	assert.Equal(t, "finish_date must be in YYYY-MM-DD format", err.Error())
}
