package services

import (
	"context"

	"github.com/HRP-2025/directory-service/internal/models"
	"github.com/HRP-2025/directory-service/internal/validator"
)

// ===== REQUEST/RESPONSE TYPES =====

// Request DTOs are shared with the validation layer so handlers, services
// and the business validator agree on one shape.
type (
	EmployeeCreateRequest = validator.EmployeeCreateRequest
	EmployeeUpdateRequest = validator.EmployeeUpdateRequest
)

// ExportFormat selects an export encoding.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
	FormatXLSX ExportFormat = "xlsx"
)

// ExportResult is an encoded snapshot of the filtered directory.
type ExportResult struct {
	Format      ExportFormat `json:"format"`
	ContentType string       `json:"content_type"`
	Filename    string       `json:"filename"`
	Count       int          `json:"count"`
	Data        []byte       `json:"-"`
}

// ===== SERVICE INTERFACES =====

// EmployeeSource is the remote directory the service syncs against.
// Implemented by remote.EmployeeSource; faked in tests.
type EmployeeSource interface {
	FetchEmployees(ctx context.Context, bypassCache bool) ([]*models.Employee, error)
	CreateEmployee(ctx context.Context, employee *models.Employee) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, employee *models.Employee) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
	HealthCheck(ctx context.Context) bool
}

// DirectoryService orchestrates loads and optimistic writes between the
// remote source and the in-memory repository, and emits the event stream
// the presentation layer subscribes to.
type DirectoryService interface {
	// Lifecycle
	Initialize(ctx context.Context) error
	Refresh(ctx context.Context) error
	StartAutoSync(ctx context.Context)
	StopAutoSync()

	// Write workflows
	AddEmployee(ctx context.Context, req *EmployeeCreateRequest) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, id string, req *EmployeeUpdateRequest) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
	DeactivateEmployee(ctx context.Context, id string) error

	// View mediation
	SetSearchTerm(ctx context.Context, term string)
	SetDepartmentFilters(ctx context.Context, departments []string)
	SetSorting(ctx context.Context, field models.SortField, direction models.SortDirection)
	SetCurrentPage(ctx context.Context, page int)
	SetPageSize(ctx context.Context, size int)

	// State
	IsLoading() bool
}

// ExportService encodes the current filtered view.
type ExportService interface {
	ExportCSV(ctx context.Context) (*ExportResult, error)
	ExportJSON(ctx context.Context) (*ExportResult, error)
	ExportXLSX(ctx context.Context) (*ExportResult, error)
	Export(ctx context.Context, format ExportFormat) (*ExportResult, error)
}

// ServiceManager owns service construction and lifecycle.
type ServiceManager interface {
	Directory() DirectoryService
	Export() ExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
