package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/HRP-2025/directory-service/internal/events"
	"github.com/HRP-2025/directory-service/internal/models"
	"github.com/HRP-2025/directory-service/internal/repositories"
	"github.com/HRP-2025/directory-service/internal/validator"
)

const defaultSyncInterval = 5 * time.Minute

type directoryService struct {
	repo      repositories.EmployeeRepository
	source    EmployeeSource
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *slog.Logger

	loadingMu sync.Mutex
	loading   bool

	syncMu       sync.Mutex
	syncCancel   context.CancelFunc
	syncInterval time.Duration
}

func NewDirectoryService(
	repo repositories.EmployeeRepository,
	source EmployeeSource,
	publisher events.EventPublisher,
	validator *validator.Validator,
	logger *slog.Logger,
	syncInterval time.Duration,
) DirectoryService {
	if syncInterval <= 0 {
		syncInterval = defaultSyncInterval
	}
	return &directoryService{
		repo:         repo,
		source:       source,
		publisher:    publisher,
		validator:    validator,
		logger:       logger,
		syncInterval: syncInterval,
	}
}

// ===== LIFECYCLE =====

func (s *directoryService) Initialize(ctx context.Context) error {
	s.logger.Info("Initializing directory")
	s.publish(ctx, events.TypeInitStart, nil)

	if !s.source.HealthCheck(ctx) {
		s.logger.Warn("Remote directory unhealthy, continuing with cached or fallback data")
	}

	count, err := s.load(ctx, false)
	if err != nil {
		s.publish(ctx, events.TypeInitError, errPayload(err))
		return fmt.Errorf("directory initialization failed: %w", err)
	}

	s.publish(ctx, events.TypeInitComplete, map[string]interface{}{"count": count})
	s.logger.Info("Directory initialized", "count", count)
	return nil
}

// Refresh forces a cache-bypassing reload from the remote source.
func (s *directoryService) Refresh(ctx context.Context) error {
	_, err := s.load(ctx, true)
	return err
}

// load runs the shared load workflow and returns the loaded record count.
func (s *directoryService) load(ctx context.Context, bypassCache bool) (int, error) {
	s.publish(ctx, events.TypeLoadStart, map[string]interface{}{"bypass_cache": bypassCache})
	s.setLoading(ctx, true)
	defer s.setLoading(ctx, false)

	employees, err := s.source.FetchEmployees(ctx, bypassCache)
	if err != nil {
		s.publish(ctx, events.TypeLoadError, errPayload(err))
		return 0, fmt.Errorf("failed to load employees: %w", err)
	}

	s.repo.Load(employees)

	s.publish(ctx, events.TypeLoadComplete, map[string]interface{}{"count": len(employees)})
	return len(employees), nil
}

// ===== AUTO-SYNC =====

// StartAutoSync launches the recurring refresh timer. Ticks are not
// interlocked against manual loads; the repository lock keeps the data
// race-free but tick-vs-manual ordering is last write wins.
func (s *directoryService) StartAutoSync(ctx context.Context) {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	if s.syncCancel != nil {
		return
	}

	syncCtx, cancel := context.WithCancel(ctx)
	s.syncCancel = cancel

	go func() {
		ticker := time.NewTicker(s.syncInterval)
		defer ticker.Stop()

		for {
			select {
			case <-syncCtx.Done():
				return
			case <-ticker.C:
				if err := s.Refresh(syncCtx); err != nil {
					s.logger.Error("Auto-sync refresh failed", "error", err)
				}
			}
		}
	}()

	s.logger.Info("Auto-sync started", "interval", s.syncInterval)
}

func (s *directoryService) StopAutoSync() {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	if s.syncCancel != nil {
		s.syncCancel()
		s.syncCancel = nil
		s.logger.Info("Auto-sync stopped")
	}
}

// ===== WRITE WORKFLOWS =====

func (s *directoryService) AddEmployee(ctx context.Context, req *EmployeeCreateRequest) (*models.Employee, error) {
	s.publish(ctx, events.TypeAddStart, map[string]interface{}{"name": req.Name})
	s.setLoading(ctx, true)
	defer s.setLoading(ctx, false)

	if errs := s.validator.ValidateEmployeeCreate(req); len(errs) > 0 {
		s.publish(ctx, events.TypeAddError, errPayload(errs))
		return nil, errs
	}

	candidate := buildEmployee(req)

	// Best-effort remote write: the repository is authoritative.
	if _, err := s.source.CreateEmployee(ctx, candidate); err != nil {
		s.logger.Warn("Remote create failed, keeping local record", "employee_id", candidate.ID, "error", err)
	}

	if err := s.repo.Add(candidate); err != nil {
		s.publish(ctx, events.TypeAddError, errPayload(err))
		return nil, err
	}

	s.publish(ctx, events.TypeAddComplete, map[string]interface{}{"employee": candidate})
	s.logger.Info("Employee added", "employee_id", candidate.ID)
	return candidate, nil
}

func (s *directoryService) UpdateEmployee(ctx context.Context, id string, req *EmployeeUpdateRequest) (*models.Employee, error) {
	s.publish(ctx, events.TypeUpdateStart, map[string]interface{}{"employee_id": id})
	s.setLoading(ctx, true)
	defer s.setLoading(ctx, false)

	if errs := s.validator.ValidateEmployeeUpdate(req); len(errs) > 0 {
		s.publish(ctx, events.TypeUpdateError, errPayload(errs))
		return nil, errs
	}

	current, ok := s.repo.Get(id)
	if !ok {
		s.publish(ctx, events.TypeUpdateError, errPayload(repositories.ErrNotFound))
		return nil, repositories.ErrNotFound
	}

	update := toEmployeeUpdate(req)

	preview := current.Clone()
	preview.ApplyUpdate(update)
	if _, err := s.source.UpdateEmployee(ctx, preview); err != nil {
		s.logger.Warn("Remote update failed, applying local change", "employee_id", id, "error", err)
	}

	updated, err := s.repo.Update(id, update)
	if err != nil {
		s.publish(ctx, events.TypeUpdateError, errPayload(err))
		return nil, err
	}

	s.publish(ctx, events.TypeUpdateComplete, map[string]interface{}{"employee": updated})
	s.logger.Info("Employee updated", "employee_id", id)
	return updated, nil
}

func (s *directoryService) DeleteEmployee(ctx context.Context, id string) error {
	s.publish(ctx, events.TypeDeleteStart, map[string]interface{}{"employee_id": id})
	s.setLoading(ctx, true)
	defer s.setLoading(ctx, false)

	if _, ok := s.repo.Get(id); !ok {
		s.publish(ctx, events.TypeDeleteError, errPayload(repositories.ErrNotFound))
		return repositories.ErrNotFound
	}

	if err := s.source.DeleteEmployee(ctx, id); err != nil {
		s.logger.Warn("Remote delete failed, removing local record", "employee_id", id, "error", err)
	}

	if !s.repo.Remove(id) {
		s.publish(ctx, events.TypeDeleteError, errPayload(repositories.ErrNotFound))
		return repositories.ErrNotFound
	}

	s.publish(ctx, events.TypeDeleteComplete, map[string]interface{}{"employee_id": id})
	s.logger.Info("Employee deleted", "employee_id", id)
	return nil
}

func (s *directoryService) DeactivateEmployee(ctx context.Context, id string) error {
	s.publish(ctx, events.TypeUpdateStart, map[string]interface{}{"employee_id": id, "deactivate": true})
	s.setLoading(ctx, true)
	defer s.setLoading(ctx, false)

	if err := s.repo.Deactivate(id); err != nil {
		s.publish(ctx, events.TypeUpdateError, errPayload(err))
		return err
	}

	s.publish(ctx, events.TypeUpdateComplete, map[string]interface{}{"employee_id": id, "deactivate": true})
	s.logger.Info("Employee deactivated", "employee_id", id)
	return nil
}

// ===== VIEW MEDIATION =====

func (s *directoryService) SetSearchTerm(ctx context.Context, term string) {
	s.repo.SetSearchTerm(term)
	s.publish(ctx, events.TypeSearchApplied, map[string]interface{}{
		"term":  term,
		"count": len(s.repo.FilteredEmployees()),
	})
}

func (s *directoryService) SetDepartmentFilters(ctx context.Context, departments []string) {
	s.repo.SetDepartmentFilters(departments)
	s.publish(ctx, events.TypeFilterApplied, map[string]interface{}{
		"departments": departments,
		"count":       len(s.repo.FilteredEmployees()),
	})
}

func (s *directoryService) SetSorting(ctx context.Context, field models.SortField, direction models.SortDirection) {
	s.repo.SetSorting(field, direction)
	s.publish(ctx, events.TypeSortApplied, map[string]interface{}{
		"field":     field,
		"direction": direction,
	})
}

func (s *directoryService) SetCurrentPage(ctx context.Context, page int) {
	s.repo.SetCurrentPage(page)
	s.publish(ctx, events.TypePageChanged, map[string]interface{}{
		"page": s.repo.Query().CurrentPage,
	})
}

func (s *directoryService) SetPageSize(ctx context.Context, size int) {
	s.repo.SetPageSize(size)
	s.publish(ctx, events.TypePageSizeChanged, map[string]interface{}{
		"page_size": s.repo.Query().PageSize,
	})
}

// ===== STATE =====

func (s *directoryService) IsLoading() bool {
	s.loadingMu.Lock()
	defer s.loadingMu.Unlock()

	return s.loading
}

// setLoading flips the loading flag and emits loading_changed only on a
// real transition, so nested workflows never double-emit.
func (s *directoryService) setLoading(ctx context.Context, loading bool) {
	s.loadingMu.Lock()
	changed := s.loading != loading
	s.loading = loading
	s.loadingMu.Unlock()

	if changed {
		s.publish(ctx, events.TypeLoadingChanged, map[string]interface{}{"loading": loading})
	}
}

// ===== HELPERS =====

// publish delivers an event best-effort; a broken publisher must never
// fail a directory workflow.
func (s *directoryService) publish(ctx context.Context, eventType string, data interface{}) {
	if err := s.publisher.Publish(ctx, eventType, data); err != nil {
		s.logger.Error("Failed to publish event", "type", eventType, "error", err)
	}
}

func errPayload(err error) map[string]interface{} {
	return map[string]interface{}{"error": err.Error()}
}

func buildEmployee(req *EmployeeCreateRequest) *models.Employee {
	var hireDate time.Time
	if req.HireDate != nil {
		hireDate = *req.HireDate
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	return models.NewEmployee(
		"", // fresh uuid
		req.Name,
		req.Email,
		req.Phone,
		req.Department,
		req.Position,
		req.Salary,
		hireDate,
		isActive,
	)
}

func toEmployeeUpdate(req *EmployeeUpdateRequest) models.EmployeeUpdate {
	return models.EmployeeUpdate{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Department: req.Department,
		Position:   req.Position,
		Salary:     req.Salary,
		HireDate:   req.HireDate,
		IsActive:   req.IsActive,
	}
}
