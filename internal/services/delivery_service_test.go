package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skychimp/newsletter-service/internal/models"
	"github.com/skychimp/newsletter-service/internal/scheduler"
)

type fakeNewsletterStore struct {
	newsletters map[uint]*models.Newsletter
	active      []*models.Newsletter
}

func (f *fakeNewsletterStore) GetByID(id uint) (*models.Newsletter, error) {
	n, ok := f.newsletters[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return n, nil
}

func (f *fakeNewsletterStore) GetActive() ([]*models.Newsletter, error) {
	return f.active, nil
}

type fakeLogStore struct {
	logs []*models.NewsletterLog
}

func (f *fakeLogStore) Create(log *models.NewsletterLog) error {
	f.logs = append(f.logs, log)
	return nil
}

type sentMail struct {
	to      string
	subject string
}

type fakeSender struct {
	sent    []sentMail
	failFor map[string]error
}

func (f *fakeSender) Send(to, subject, body string) error {
	if err, ok := f.failFor[to]; ok {
		return err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject})
	return nil
}

type fakeScheduler struct {
	registered map[uint]scheduler.TriggerSpec
	callbacks  map[uint]func()
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{
		registered: make(map[uint]scheduler.TriggerSpec),
		callbacks:  make(map[uint]func()),
	}
}

func (f *fakeScheduler) Register(jobID uint, spec scheduler.TriggerSpec, fn func()) error {
	f.registered[jobID] = spec
	f.callbacks[jobID] = fn
	return nil
}

func (f *fakeScheduler) Cancel(jobID uint) {
	delete(f.registered, jobID)
	delete(f.callbacks, jobID)
}

func (f *fakeScheduler) Has(jobID uint) bool {
	_, ok := f.registered[jobID]
	return ok
}

type fakeEvents struct {
	published []map[string]interface{}
}

func (f *fakeEvents) PublishMessage(_ context.Context, _ string, message map[string]interface{}) error {
	f.published = append(f.published, message)
	return nil
}

func twoByTwoNewsletter() *models.Newsletter {
	return &models.Newsletter{
		ID:        5,
		SendTime:  "09:00",
		Frequency: models.FrequencyDaily,
		IsActive:  true,
		Clients: []models.Client{
			{ID: 1, Email: "a@example.com"},
			{ID: 2, Email: "b@example.com"},
		},
		Messages: []models.Message{
			{ID: 1, Subject: "first", Body: "hello"},
			{ID: 2, Subject: "second", Body: "world"},
		},
	}
}

func TestSendMailToClientsCrossProduct(t *testing.T) {
	store := &fakeNewsletterStore{newsletters: map[uint]*models.Newsletter{5: twoByTwoNewsletter()}}
	logs := &fakeLogStore{}
	sender := &fakeSender{}
	events := &fakeEvents{}
	svc := NewDeliveryService(store, logs, newFakeScheduler(), sender, events)

	require.NoError(t, svc.SendMailToClients(5))

	// Every message goes to every client
	assert.Len(t, sender.sent, 4)

	// Exactly one log row per invocation
	require.Len(t, logs.logs, 1)
	assert.Equal(t, models.LogStatusSuccess, logs.logs[0].Status)
	assert.Equal(t, "4 sent", logs.logs[0].Detail)
	assert.Equal(t, uint(5), logs.logs[0].NewsletterID)

	require.Len(t, events.published, 1)
	assert.Equal(t, models.LogStatusSuccess, events.published[0]["status"])
}

func TestSendMailToClientsPartialFailure(t *testing.T) {
	store := &fakeNewsletterStore{newsletters: map[uint]*models.Newsletter{5: twoByTwoNewsletter()}}
	logs := &fakeLogStore{}
	sender := &fakeSender{failFor: map[string]error{"b@example.com": errors.New("mailbox full")}}
	svc := NewDeliveryService(store, logs, newFakeScheduler(), sender, nil)

	// A failed recipient does not abort the invocation
	require.NoError(t, svc.SendMailToClients(5))

	assert.Len(t, sender.sent, 2)
	require.Len(t, logs.logs, 1)
	assert.Equal(t, models.LogStatusFailure, logs.logs[0].Status)
	assert.Contains(t, logs.logs[0].Detail, "2 sent, 2 failed")
	assert.Contains(t, logs.logs[0].Detail, "mailbox full")
}

func TestSendMailToClientsMissingNewsletter(t *testing.T) {
	store := &fakeNewsletterStore{newsletters: map[uint]*models.Newsletter{}}
	logs := &fakeLogStore{}
	svc := NewDeliveryService(store, logs, newFakeScheduler(), &fakeSender{}, nil)

	err := svc.SendMailToClients(99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Empty(t, logs.logs)
}

func TestCreateTaskRegistersJob(t *testing.T) {
	sched := newFakeScheduler()
	svc := NewDeliveryService(&fakeNewsletterStore{}, &fakeLogStore{}, sched, &fakeSender{}, nil)

	newsletter := twoByTwoNewsletter()
	require.NoError(t, svc.CreateTask(newsletter))
	assert.True(t, sched.Has(5))
	assert.Equal(t, "09:00", sched.registered[5].SendTime)
	assert.Equal(t, models.FrequencyDaily, sched.registered[5].Frequency)

	svc.DeleteTask(newsletter)
	assert.False(t, sched.Has(5))
}

func TestScheduledCallbackDelivers(t *testing.T) {
	store := &fakeNewsletterStore{newsletters: map[uint]*models.Newsletter{5: twoByTwoNewsletter()}}
	logs := &fakeLogStore{}
	sched := newFakeScheduler()
	svc := NewDeliveryService(store, logs, sched, &fakeSender{}, nil)

	require.NoError(t, svc.CreateTask(twoByTwoNewsletter()))
	sched.callbacks[5]()

	require.Len(t, logs.logs, 1)
	assert.Equal(t, models.LogStatusSuccess, logs.logs[0].Status)
}

func TestRestoreSchedules(t *testing.T) {
	active := []*models.Newsletter{
		{ID: 1, SendTime: "09:00", Frequency: models.FrequencyDaily, IsActive: true},
		{ID: 2, SendTime: "18:00", Frequency: models.FrequencyOnce, IsActive: true},
	}
	sched := newFakeScheduler()
	svc := NewDeliveryService(&fakeNewsletterStore{active: active}, &fakeLogStore{}, sched, &fakeSender{}, nil)

	require.NoError(t, svc.RestoreSchedules())
	assert.True(t, sched.Has(1))
	assert.True(t, sched.Has(2))
}

func TestBuildTriggerSpecEndOfDay(t *testing.T) {
	finishDate := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	newsletter := &models.Newsletter{SendTime: "09:00", Frequency: models.FrequencyDaily, FinishDate: &finishDate}

	spec, err := BuildTriggerSpec(newsletter)
	require.NoError(t, err)
	require.NotNil(t, spec.FinishAt)
	assert.Equal(t, time.Date(2026, 6, 30, 23, 59, 0, 0, time.UTC), *spec.FinishAt)
}

func TestBuildTriggerSpecFinishTime(t *testing.T) {
	finishDate := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	newsletter := &models.Newsletter{
		SendTime:   "09:00",
		Frequency:  models.FrequencyDaily,
		FinishDate: &finishDate,
		FinishTime: "18:30",
	}

	spec, err := BuildTriggerSpec(newsletter)
	require.NoError(t, err)
	require.NotNil(t, spec.FinishAt)
	assert.Equal(t, time.Date(2026, 6, 30, 18, 30, 0, 0, time.UTC), *spec.FinishAt)
}

func TestBuildTriggerSpecNoFinish(t *testing.T) {
	newsletter := &models.Newsletter{SendTime: "09:00", Frequency: models.FrequencyDaily}
	spec, err := BuildTriggerSpec(newsletter)
	require.NoError(t, err)
	assert.Nil(t, spec.FinishAt)
}
