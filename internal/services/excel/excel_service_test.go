package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/skychimp/newsletter-service/internal/models"
)

type staticClientLister struct {
	clients []*models.Client
}

func (f *staticClientLister) GetAll() ([]*models.Client, error) {
	return f.clients, nil
}

func TestExportClients(t *testing.T) {
	svc := NewService(&staticClientLister{clients: []*models.Client{
		{ID: 1, Email: "a@example.com", FirstName: "Ivan", LastName: "Petrov", CreatedByID: 1, CreatedAt: time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)},
		{ID: 2, Email: "b@example.com", FirstName: "Anna", LastName: "Smirnova", CreatedByID: 2, CreatedAt: time.Date(2026, 2, 6, 12, 0, 0, 0, time.UTC)},
	}})

	buf, filename, err := svc.ExportClients()
	require.NoError(t, err)
	assert.Contains(t, filename, "clients_")
	assert.Contains(t, filename, ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Clients")
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + two clients
	assert.Equal(t, "Email", rows[0][1])
	assert.Equal(t, "a@example.com", rows[1][1])
	assert.Equal(t, "b@example.com", rows[2][1])
}
