package repositories

import (
	"errors"

	"github.com/HRP-2025/directory-service/internal/models"
)

var (
	ErrNotFound       = errors.New("employee not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// QueryState is the current view configuration of the directory.
// DepartmentFilters empty means no department filtering.
type QueryState struct {
	SearchTerm        string               `json:"search_term"`
	DepartmentFilters map[string]struct{}  `json:"-"`
	SortField         models.SortField     `json:"sort_field"`
	SortDirection     models.SortDirection `json:"sort_direction"`
	CurrentPage       int                  `json:"current_page"`
	PageSize          int                  `json:"page_size"`
}

// PaginationInfo describes the current page with 1-based display indices.
// All fields are zero/false when the filtered set is empty.
type PaginationInfo struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	TotalItems  int  `json:"total_items"`
	PageSize    int  `json:"page_size"`
	StartIndex  int  `json:"start_index"`
	EndIndex    int  `json:"end_index"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// DirectoryStats aggregates the active records.
type DirectoryStats struct {
	TotalActive   int            `json:"total_active"`
	ByDepartment  map[string]int `json:"by_department"`
	AverageSalary float64        `json:"average_salary"`
	TotalSalary   float64        `json:"total_salary"`
}

// Observer is invoked synchronously after every state-mutating operation.
// Callbacks re-read current state through the accessor methods.
type Observer func()

// EmployeeRepository is the single source of truth for the employee set
// and its current view parameters.
type EmployeeRepository interface {
	// Record mutations
	Add(e *models.Employee) error
	Update(id string, u models.EmployeeUpdate) (*models.Employee, error)
	Remove(id string) bool
	Deactivate(id string) error
	Load(employees []*models.Employee)
	Clear()

	// View parameter mutations
	SetSearchTerm(term string)
	SetDepartmentFilters(departments []string)
	SetSorting(field models.SortField, direction models.SortDirection)
	SetPageSize(n int)
	SetCurrentPage(n int)

	// Accessors
	Get(id string) (*models.Employee, bool)
	All() []*models.Employee
	FilteredEmployees() []*models.Employee
	CurrentPageRecords() []*models.Employee
	PaginationInfo() PaginationInfo
	UniqueDepartments() []string
	Statistics() DirectoryStats
	Query() QueryState
	Count() int

	// Subscribe registers an observer; the returned function cancels it.
	Subscribe(obs Observer) func()
}
