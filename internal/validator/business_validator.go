package validator

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single field violation
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// Validator handles employee business rule validation
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with all business rules registered
func New() *Validator {
	validate := validator.New()

	v := &Validator{validate: validate}
	v.registerBusinessRules()

	return v
}

// Validate validates business rules for any struct
func (v *Validator) Validate(s interface{}) ValidationErrors {
	err := v.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateEmployeeCreate validates employee creation business rules
func (v *Validator) ValidateEmployeeCreate(req *EmployeeCreateRequest) ValidationErrors {
	var errors ValidationErrors

	// Basic struct validation
	errors = append(errors, v.Validate(req)...)

	// Additional business validations
	if strings.TrimSpace(req.Name) != req.Name {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: "must not have leading or trailing whitespace",
			Value:   req.Name,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateEmployeeUpdate validates employee update business rules
func (v *Validator) ValidateEmployeeUpdate(req *EmployeeUpdateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, v.Validate(req)...)

	if req.Name != nil && strings.TrimSpace(*req.Name) != *req.Name {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: "must not have leading or trailing whitespace",
			Value:   *req.Name,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ToValidationErrors converts validator/v10 errors into the aggregated form
func ToValidationErrors(err error) ValidationErrors {
	var errors ValidationErrors

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "request", Message: err.Error(), Rule: "invalid"}}
	}

	for _, fe := range fieldErrors {
		errors = append(errors, ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Message: getErrorMessage(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (v *Validator) registerBusinessRules() {
	// Name validation (2-100 visible characters)
	v.validate.RegisterValidation("employee_name", func(fl validator.FieldLevel) bool {
		name := strings.TrimSpace(fl.Field().String())
		return len(name) >= 2 && len(name) <= 100
	})

	// Salary validation (non-negative, sanity upper bound)
	v.validate.RegisterValidation("salary_range", func(fl validator.FieldLevel) bool {
		salary := fl.Field().Float()
		return salary >= 0 && salary <= 10_000_000
	})

	// Phone validation (7-20 characters of digits and separators)
	v.validate.RegisterValidation("phone_number", func(fl validator.FieldLevel) bool {
		phone := fl.Field().String()
		if len(phone) < 7 || len(phone) > 20 {
			return false
		}
		for _, r := range phone {
			if (r < '0' || r > '9') && !strings.ContainsRune(" +-().x", r) {
				return false
			}
		}
		return true
	})

	// Hire date validation (must not be in the future)
	v.validate.RegisterValidation("past_date", func(fl validator.FieldLevel) bool {
		field := fl.Field()

		if field.Kind() == reflect.Ptr && field.IsNil() {
			return true // Optional field
		}

		var hireDate time.Time
		if field.Kind() == reflect.Ptr {
			hireDate = field.Elem().Interface().(time.Time)
		} else {
			hireDate = field.Interface().(time.Time)
		}

		return !hireDate.After(time.Now())
	})
}

// getErrorMessage returns user-friendly error messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "employee_name":
		return "must be between 2 and 100 characters"
	case "salary_range":
		return "must be between 0 and 10,000,000"
	case "phone_number":
		return "must be a valid phone number"
	case "past_date":
		return "must not be in the future"
	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}
