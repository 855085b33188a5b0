package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SortField identifies an Employee field the directory view can be ordered by.
type SortField string

const (
	SortByName       SortField = "name"
	SortByEmail      SortField = "email"
	SortByDepartment SortField = "department"
	SortByPosition   SortField = "position"
	SortBySalary     SortField = "salary"
	SortByHireDate   SortField = "hireDate"
)

type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// Departments is the synthesis catalog: positions an API-sourced employee
// can be assigned, keyed by department.
var Departments = map[string][]string{
	"Engineering": {"Software Engineer", "Senior Software Engineer", "Tech Lead", "DevOps Engineer", "QA Engineer"},
	"Marketing":   {"Marketing Manager", "Content Strategist", "SEO Specialist", "Brand Manager", "Growth Analyst"},
	"Sales":       {"Account Executive", "Sales Manager", "Business Developer", "Sales Analyst"},
	"HR":          {"HR Manager", "Recruiter", "People Operations Specialist"},
	"Finance":     {"Financial Analyst", "Accountant", "Finance Manager", "Controller"},
	"Design":      {"Product Designer", "UX Researcher", "Visual Designer"},
}

// DepartmentNames returns the synthesis departments in stable order.
func DepartmentNames() []string {
	return []string{"Engineering", "Marketing", "Sales", "HR", "Finance", "Design"}
}

// Employee is one directory record. Derived display fields are recomputed
// by RefreshDerived whenever a source field changes.
type Employee struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Department string    `json:"department"`
	Position   string    `json:"position"`
	Salary     float64   `json:"salary"`
	HireDate   time.Time `json:"hire_date"`
	IsActive   bool      `json:"is_active"`

	// Display-only fields
	FormattedSalary string `json:"formatted_salary"`
	FormattedPhone  string `json:"formatted_phone"`
	AvatarURL       string `json:"avatar_url"`
}

// NewEmployee builds an Employee from source fields, defaulting the ID,
// hire date and active flag when absent.
func NewEmployee(id, name, email, phone, department, position string, salary float64, hireDate time.Time, isActive bool) *Employee {
	if id == "" {
		id = uuid.New().String()
	}
	if hireDate.IsZero() {
		hireDate = time.Now()
	}

	e := &Employee{
		ID:         id,
		Name:       name,
		Email:      email,
		Phone:      phone,
		Department: department,
		Position:   position,
		Salary:     salary,
		HireDate:   hireDate,
		IsActive:   isActive,
	}
	e.RefreshDerived()

	return e
}

// EmployeeUpdate is a partial field set merged into an existing record.
// Nil fields are left untouched.
type EmployeeUpdate struct {
	Name       *string    `json:"name"`
	Email      *string    `json:"email"`
	Phone      *string    `json:"phone"`
	Department *string    `json:"department"`
	Position   *string    `json:"position"`
	Salary     *float64   `json:"salary"`
	HireDate   *time.Time `json:"hire_date"`
	IsActive   *bool      `json:"is_active"`
}

// ApplyUpdate merges the partial field set and recomputes derived fields.
func (e *Employee) ApplyUpdate(u EmployeeUpdate) {
	if u.Name != nil {
		e.Name = *u.Name
	}
	if u.Email != nil {
		e.Email = *u.Email
	}
	if u.Phone != nil {
		e.Phone = *u.Phone
	}
	if u.Department != nil {
		e.Department = *u.Department
	}
	if u.Position != nil {
		e.Position = *u.Position
	}
	if u.Salary != nil {
		e.Salary = *u.Salary
	}
	if u.HireDate != nil {
		e.HireDate = *u.HireDate
	}
	if u.IsActive != nil {
		e.IsActive = *u.IsActive
	}

	e.RefreshDerived()
}

// RefreshDerived recomputes the display-only fields from the source fields.
func (e *Employee) RefreshDerived() {
	e.FormattedSalary = FormatSalary(e.Salary)
	e.FormattedPhone = FormatPhone(e.Phone)
	e.AvatarURL = avatarFor(e.Name)
}

// Clone returns a deep copy of the record.
func (e *Employee) Clone() *Employee {
	c := *e
	return &c
}

// FormatSalary renders a salary as a grouped dollar amount, e.g. "$68,350".
func FormatSalary(salary float64) string {
	whole := int64(salary + 0.5)
	if whole < 0 {
		whole = 0
	}

	s := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	return "$" + b.String()
}

// FormatPhone renders 10-digit numbers as (XXX) XXX-XXXX; anything else
// is returned as-is.
func FormatPhone(phone string) string {
	digits := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		if phone[i] >= '0' && phone[i] <= '9' {
			digits = append(digits, phone[i])
		}
	}

	if len(digits) != 10 {
		return phone
	}

	return fmt.Sprintf("(%s) %s-%s", digits[0:3], digits[3:6], digits[6:10])
}

func avatarFor(name string) string {
	return "https://ui-avatars.com/api/?name=" + strings.ReplaceAll(strings.TrimSpace(name), " ", "+")
}
