// Package excel renders manager exports as .xlsx workbooks.
package excel

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/skychimp/newsletter-service/internal/models"
)

// ClientLister is the client access the export needs
type ClientLister interface {
	GetAll() ([]*models.Client, error)
}

// Service exports registry data to Excel
type Service struct {
	clientRepo ClientLister
}

func NewService(clientRepo ClientLister) *Service {
	return &Service{clientRepo: clientRepo}
}

// ExportClients writes every client as a row of a single-sheet workbook and
// returns the serialized file.
func (s *Service) ExportClients() (*bytes.Buffer, string, error) {
	clients, err := s.clientRepo.GetAll()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load clients: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Clients"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Email", "First name", "Last name", "Middle name", "Comment", "Owner ID", "Created at"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, client := range clients {
		values := []interface{}{
			client.ID,
			client.Email,
			client.FirstName,
			client.LastName,
			client.MiddleName,
			client.Comment,
			client.CreatedByID,
			client.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", fmt.Errorf("failed to write row %d: %w", row+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize workbook: %w", err)
	}

	filename := fmt.Sprintf("clients_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	return buf, filename, nil
}
