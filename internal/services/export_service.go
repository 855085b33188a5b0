package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/HRP-2025/directory-service/internal/events"
	"github.com/HRP-2025/directory-service/internal/models"
	"github.com/HRP-2025/directory-service/internal/repositories"
)

// exportColumns is the fixed display-field set shared by every format.
var exportColumns = []string{"Name", "Email", "Phone", "Department", "Position", "Salary", "Hire Date", "Status"}

type exportService struct {
	repo      repositories.EmployeeRepository
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewExportService(repo repositories.EmployeeRepository, publisher events.EventPublisher, logger *slog.Logger) ExportService {
	return &exportService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *exportService) Export(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	switch format {
	case FormatCSV:
		return s.ExportCSV(ctx)
	case FormatJSON:
		return s.ExportJSON(ctx)
	case FormatXLSX:
		return s.ExportXLSX(ctx)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ExportCSV encodes the filtered view with RFC 4180 quoting.
func (s *exportService) ExportCSV(ctx context.Context) (*ExportResult, error) {
	employees := s.repo.FilteredEmployees()

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportColumns); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, e := range employees {
		if err := writer.Write(exportRow(e)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return s.finish(ctx, FormatCSV, "text/csv", "employees.csv", len(employees), buf.Bytes())
}

// ExportJSON encodes the filtered view as a pretty-printed array of plain
// records.
func (s *exportService) ExportJSON(ctx context.Context) (*ExportResult, error) {
	employees := s.repo.FilteredEmployees()

	data, err := json.MarshalIndent(employees, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON export: %w", err)
	}

	return s.finish(ctx, FormatJSON, "application/json", "employees.json", len(employees), data)
}

// ExportXLSX builds a single-sheet workbook with the same columns as the
// CSV export.
func (s *exportService) ExportXLSX(ctx context.Context) (*ExportResult, error) {
	employees := s.repo.FilteredEmployees()

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Employees"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for col, title := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	for row, e := range employees {
		for col, value := range exportRow(e) {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}

	return s.finish(ctx, FormatXLSX,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"employees.xlsx", len(employees), buf.Bytes())
}

func (s *exportService) finish(ctx context.Context, format ExportFormat, contentType, filename string, count int, data []byte) (*ExportResult, error) {
	if err := s.publisher.Publish(ctx, events.TypeExportComplete, map[string]interface{}{
		"format": format,
		"count":  count,
	}); err != nil {
		s.logger.Error("Failed to publish event", "type", events.TypeExportComplete, "error", err)
	}

	s.logger.Info("Export completed", "format", format, "count", count)
	return &ExportResult{
		Format:      format,
		ContentType: contentType,
		Filename:    filename,
		Count:       count,
		Data:        data,
	}, nil
}

func exportRow(e *models.Employee) []string {
	status := "Active"
	if !e.IsActive {
		status = "Inactive"
	}

	hireDate := ""
	if !e.HireDate.IsZero() {
		hireDate = e.HireDate.Format(time.DateOnly)
	}

	return []string{
		e.Name,
		e.Email,
		models.FormatPhone(e.Phone),
		e.Department,
		e.Position,
		models.FormatSalary(e.Salary),
		hireDate,
		status,
	}
}
