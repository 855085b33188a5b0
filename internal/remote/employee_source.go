package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/HRP-2025/directory-service/internal/cache"
	"github.com/HRP-2025/directory-service/internal/models"
)

const employeeListCacheKey = "list"

// remoteUser is the wire shape of the upstream directory API.
type remoteUser struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// EmployeeSource fetches employees from the remote API, synthesizes the
// fields the API does not carry, and caches the assembled list. When the
// remote is unreachable it falls back to a small built-in roster so the
// directory always starts with data.
type EmployeeSource struct {
	client   *Client
	cache    *cache.CacheHelper
	cacheTTL time.Duration
	rng      *rand.Rand
	logger   *slog.Logger
}

// NewEmployeeSource builds the adapter. A zero cacheTTL falls back to the
// default freshness window; a nil rng is seeded from the clock.
func NewEmployeeSource(client *Client, cacheHelper *cache.CacheHelper, cacheTTL time.Duration, rng *rand.Rand, logger *slog.Logger) *EmployeeSource {
	if cacheTTL <= 0 {
		cacheTTL = cache.EmployeeCacheConfig.TTL
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &EmployeeSource{
		client:   client,
		cache:    cacheHelper,
		cacheTTL: cacheTTL,
		rng:      rng,
		logger:   logger,
	}
}

// FetchEmployees returns the remote roster, serving from cache when a fresh
// copy exists. bypassCache forces a remote read (the cached copy is then
// replaced). Remote failures degrade to the built-in mock roster, which is
// never cached.
func (s *EmployeeSource) FetchEmployees(ctx context.Context, bypassCache bool) ([]*models.Employee, error) {
	if !bypassCache {
		var cached []*models.Employee
		err := s.cache.Get(ctx, employeeListCacheKey, &cached)
		if err == nil {
			s.logger.Debug("Serving employees from cache", "count", len(cached))
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheNotFound) && !errors.Is(err, cache.ErrCacheNotAvailable) {
			s.logger.Warn("Cache read failed, fetching from remote", "error", err)
		}
	}

	var users []remoteUser
	if err := s.client.DoJSON(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		s.logger.Warn("Remote fetch failed, using fallback roster", "error", err)
		return s.fallbackEmployees(), nil
	}

	employees := make([]*models.Employee, 0, len(users))
	for _, u := range users {
		employees = append(employees, s.synthesize(u))
	}

	if err := s.cache.Set(ctx, employeeListCacheKey, employees, s.cacheTTL); err != nil &&
		!errors.Is(err, cache.ErrCacheNotAvailable) {
		s.logger.Warn("Failed to cache employee list", "error", err)
	}

	return employees, nil
}

// CreateEmployee simulates a write against the remote API. The remote echo is
// discarded: the returned record carries a locally assigned ID.
func (s *EmployeeSource) CreateEmployee(ctx context.Context, employee *models.Employee) (*models.Employee, error) {
	if err := s.client.DoJSON(ctx, http.MethodPost, "/users", employee, nil); err != nil {
		return nil, fmt.Errorf("failed to create employee remotely: %w", err)
	}

	created := employee.Clone()
	if created.ID == "" {
		created.ID = uuid.New().String()
	}
	created.RefreshDerived()
	return created, nil
}

// UpdateEmployee simulates an update against the remote API.
func (s *EmployeeSource) UpdateEmployee(ctx context.Context, employee *models.Employee) (*models.Employee, error) {
	path := fmt.Sprintf("/users/%s", employee.ID)
	if err := s.client.DoJSON(ctx, http.MethodPut, path, employee, nil); err != nil {
		return nil, fmt.Errorf("failed to update employee remotely: %w", err)
	}

	updated := employee.Clone()
	updated.RefreshDerived()
	return updated, nil
}

// DeleteEmployee simulates a delete against the remote API.
func (s *EmployeeSource) DeleteEmployee(ctx context.Context, id string) error {
	path := fmt.Sprintf("/users/%s", id)
	if err := s.client.DoJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("failed to delete employee remotely: %w", err)
	}
	return nil
}

// HealthCheck reports whether the remote API answers. It never returns an
// error: unreachable simply means false.
func (s *EmployeeSource) HealthCheck(ctx context.Context) bool {
	var users []remoteUser
	if err := s.client.DoJSON(ctx, http.MethodGet, "/users?_limit=1", nil, &users); err != nil {
		s.logger.Debug("Remote health check failed", "error", err)
		return false
	}
	return true
}

// ===== SYNTHESIS =====

// synthesize fills in the directory fields the remote API does not provide:
// department, position, salary, and hire date.
func (s *EmployeeSource) synthesize(u remoteUser) *models.Employee {
	departments := models.DepartmentNames()
	department := departments[s.rng.Intn(len(departments))]

	positions := models.Departments[department]
	position := positions[s.rng.Intn(len(positions))]

	// Salary between $40,000 and $120,000.
	salary := 40_000 + s.rng.Float64()*80_000

	// Hire date within the past three years.
	daysAgo := s.rng.Intn(3 * 365)
	hireDate := time.Now().AddDate(0, 0, -daysAgo)

	employee := &models.Employee{
		ID:         fmt.Sprintf("remote-%d", u.ID),
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Department: department,
		Position:   position,
		Salary:     salary,
		HireDate:   hireDate,
		IsActive:   true,
	}
	employee.RefreshDerived()
	return employee
}

// fallbackEmployees is the built-in roster served when the remote is down.
func (s *EmployeeSource) fallbackEmployees() []*models.Employee {
	mocks := []*models.Employee{
		{
			ID:         "mock-1",
			Name:       "Sarah Chen",
			Email:      "sarah.chen@example.com",
			Phone:      "5550100001",
			Department: "Engineering",
			Position:   "Senior Software Engineer",
			Salary:     112_000,
			HireDate:   time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC),
			IsActive:   true,
		},
		{
			ID:         "mock-2",
			Name:       "Marcus Webb",
			Email:      "marcus.webb@example.com",
			Phone:      "5550100002",
			Department: "Marketing",
			Position:   "Content Strategist",
			Salary:     68_500,
			HireDate:   time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
			IsActive:   true,
		},
		{
			ID:         "mock-3",
			Name:       "Priya Patel",
			Email:      "priya.patel@example.com",
			Phone:      "5550100003",
			Department: "Sales",
			Position:   "Account Executive",
			Salary:     74_000,
			HireDate:   time.Date(2023, 9, 22, 0, 0, 0, 0, time.UTC),
			IsActive:   true,
		},
		{
			ID:         "mock-4",
			Name:       "Daniel Osei",
			Email:      "daniel.osei@example.com",
			Phone:      "5550100004",
			Department: "Finance",
			Position:   "Financial Analyst",
			Salary:     81_250,
			HireDate:   time.Date(2022, 11, 2, 0, 0, 0, 0, time.UTC),
			IsActive:   true,
		},
		{
			ID:         "mock-5",
			Name:       "Elena Rossi",
			Email:      "elena.rossi@example.com",
			Phone:      "5550100005",
			Department: "Design",
			Position:   "Visual Designer",
			Salary:     92_300,
			HireDate:   time.Date(2024, 5, 19, 0, 0, 0, 0, time.UTC),
			IsActive:   true,
		},
	}

	for _, m := range mocks {
		m.RefreshDerived()
	}
	return mocks
}
