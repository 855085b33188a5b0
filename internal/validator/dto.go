package validator

import (
	"time"
)

// EmployeeCreateRequest represents the request structure for creating employees
type EmployeeCreateRequest struct {
	Name       string     `json:"name" validate:"required,employee_name"`
	Email      string     `json:"email" validate:"required,email"`
	Phone      string     `json:"phone" validate:"omitempty,phone_number"`
	Department string     `json:"department" validate:"required,max=100"`
	Position   string     `json:"position" validate:"required,max=100"`
	Salary     float64    `json:"salary" validate:"salary_range"`
	HireDate   *time.Time `json:"hire_date" validate:"omitempty,past_date"`
	IsActive   *bool      `json:"is_active"`
}

// EmployeeUpdateRequest represents the request structure for updating employees
type EmployeeUpdateRequest struct {
	Name       *string    `json:"name" validate:"omitempty,employee_name"`
	Email      *string    `json:"email" validate:"omitempty,email"`
	Phone      *string    `json:"phone" validate:"omitempty,phone_number"`
	Department *string    `json:"department" validate:"omitempty,max=100"`
	Position   *string    `json:"position" validate:"omitempty,max=100"`
	Salary     *float64   `json:"salary" validate:"omitempty,salary_range"`
	HireDate   *time.Time `json:"hire_date" validate:"omitempty,past_date"`
	IsActive   *bool      `json:"is_active"`
}
