package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/HRP-2025/directory-service/internal/models"
	"github.com/HRP-2025/directory-service/internal/repositories"
)

const defaultPageSize = 10

// employeeRepository is the in-memory single source of truth for the
// directory. The auto-sync timer mutates from its own goroutine alongside
// request handlers, so all state is guarded by a mutex. Observers are
// invoked outside the lock so callbacks can re-read state through the
// accessors.
type employeeRepository struct {
	mu        sync.Mutex
	records   []*models.Employee
	state     repositories.QueryState
	filtered  []*models.Employee
	observers map[int]repositories.Observer
	nextObsID int
}

// NewEmployeeRepository creates an empty repository with default view state.
func NewEmployeeRepository() repositories.EmployeeRepository {
	return &employeeRepository{
		state:     defaultQueryState(),
		observers: make(map[int]repositories.Observer),
	}
}

func defaultQueryState() repositories.QueryState {
	return repositories.QueryState{
		DepartmentFilters: make(map[string]struct{}),
		SortField:         models.SortByName,
		SortDirection:     models.SortAscending,
		CurrentPage:       1,
		PageSize:          defaultPageSize,
	}
}

// ===== RECORD MUTATIONS =====

func (r *employeeRepository) Add(e *models.Employee) error {
	r.mu.Lock()

	if r.activeEmailTakenLocked(e.Email, "") {
		r.mu.Unlock()
		return repositories.ErrDuplicateEmail
	}

	r.records = append(r.records, e)
	r.refreshLocked()
	obs := r.observerSnapshotLocked()
	r.mu.Unlock()

	notify(obs)
	return nil
}

func (r *employeeRepository) Update(id string, u models.EmployeeUpdate) (*models.Employee, error) {
	r.mu.Lock()

	e := r.findLocked(id)
	if e == nil {
		r.mu.Unlock()
		return nil, repositories.ErrNotFound
	}

	if u.Email != nil && r.emailTakenLocked(*u.Email, id) {
		r.mu.Unlock()
		return nil, repositories.ErrDuplicateEmail
	}

	e.ApplyUpdate(u)
	r.refreshLocked()
	obs := r.observerSnapshotLocked()
	r.mu.Unlock()

	notify(obs)
	return e, nil
}

func (r *employeeRepository) Remove(id string) bool {
	r.mu.Lock()

	idx := -1
	for i, e := range r.records {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return false
	}

	r.records = append(r.records[:idx], r.records[idx+1:]...)
	r.refreshLocked()
	obs := r.observerSnapshotLocked()
	r.mu.Unlock()

	notify(obs)
	return true
}

func (r *employeeRepository) Deactivate(id string) error {
	r.mu.Lock()

	e := r.findLocked(id)
	if e == nil {
		r.mu.Unlock()
		return repositories.ErrNotFound
	}

	e.IsActive = false
	r.refreshLocked()
	obs := r.observerSnapshotLocked()
	r.mu.Unlock()

	notify(obs)
	return nil
}

// Load replaces the full record set, keeping the current query state.
func (r *employeeRepository) Load(employees []*models.Employee) {
	r.mu.Lock()

	r.records = make([]*models.Employee, len(employees))
	copy(r.records, employees)
	r.refreshLocked()
	obs := r.observerSnapshotLocked()
	r.mu.Unlock()

	notify(obs)
}

// Clear drops all records and resets the query state to defaults.
func (r *employeeRepository) Clear() {
	r.mu.Lock()

	r.records = nil
	r.state = defaultQueryState()
	r.refreshLocked()
	obs := r.observerSnapshotLocked()
	r.mu.Unlock()

	notify(obs)
}

// ===== VIEW PARAMETER MUTATIONS =====

func (r *employeeRepository) SetSearchTerm(term string) {
	r.mu.Lock()

	r.state.SearchTerm = term
	r.state.CurrentPage = 1
	r.refreshLocked()
	obs := r.observerSnapshotLocked()
	r.mu.Unlock()

	notify(obs)
}

func (r *employeeRepository) SetDepartmentFilters(departments []string) {
	r.mu.Lock()

	filters := make(map[string]struct{}, len(departments))
	for _, d := range departments {
		if d != "" {
			filters[d] = struct{}{}
		}
	}
	r.state.DepartmentFilters = filters
	r.state.CurrentPage = 1
	r.refreshLocked()
	obs := r.observerSnapshotLocked()
	r.mu.Unlock()

	notify(obs)
}

func (r *employeeRepository) SetSorting(field models.SortField, direction models.SortDirection) {
	r.mu.Lock()

	r.state.SortField = field
	if direction != models.SortDescending {
		direction = models.SortAscending
	}
	r.state.SortDirection = direction
	r.state.CurrentPage = 1
	r.refreshLocked()
	obs := r.observerSnapshotLocked()
	r.mu.Unlock()

	notify(obs)
}

func (r *employeeRepository) SetPageSize(n int) {
	r.mu.Lock()

	if n < 1 {
		n = defaultPageSize
	}
	r.state.PageSize = n
	r.state.CurrentPage = 1
	r.clampPageLocked()
	obs := r.observerSnapshotLocked()
	r.mu.Unlock()

	notify(obs)
}

func (r *employeeRepository) SetCurrentPage(n int) {
	r.mu.Lock()

	r.state.CurrentPage = n
	r.clampPageLocked()
	obs := r.observerSnapshotLocked()
	r.mu.Unlock()

	notify(obs)
}

// ===== ACCESSORS =====

func (r *employeeRepository) Get(id string) (*models.Employee, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.findLocked(id)
	return e, e != nil
}

func (r *employeeRepository) All() []*models.Employee {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*models.Employee, len(r.records))
	copy(out, r.records)
	return out
}

func (r *employeeRepository) FilteredEmployees() []*models.Employee {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*models.Employee, len(r.filtered))
	copy(out, r.filtered)
	return out
}

func (r *employeeRepository) CurrentPageRecords() []*models.Employee {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := (r.state.CurrentPage - 1) * r.state.PageSize
	if start >= len(r.filtered) {
		return nil
	}
	end := start + r.state.PageSize
	if end > len(r.filtered) {
		end = len(r.filtered)
	}

	out := make([]*models.Employee, end-start)
	copy(out, r.filtered[start:end])
	return out
}

func (r *employeeRepository) PaginationInfo() repositories.PaginationInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := len(r.filtered)
	if total == 0 {
		return repositories.PaginationInfo{}
	}

	totalPages := (total + r.state.PageSize - 1) / r.state.PageSize
	start := (r.state.CurrentPage-1)*r.state.PageSize + 1
	end := r.state.CurrentPage * r.state.PageSize
	if end > total {
		end = total
	}

	return repositories.PaginationInfo{
		CurrentPage: r.state.CurrentPage,
		TotalPages:  totalPages,
		TotalItems:  total,
		PageSize:    r.state.PageSize,
		StartIndex:  start,
		EndIndex:    end,
		HasNext:     r.state.CurrentPage < totalPages,
		HasPrevious: r.state.CurrentPage > 1,
	}
}

func (r *employeeRepository) UniqueDepartments() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{})
	for _, e := range r.records {
		if e.IsActive && e.Department != "" {
			seen[e.Department] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func (r *employeeRepository) Statistics() repositories.DirectoryStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := repositories.DirectoryStats{
		ByDepartment: make(map[string]int),
	}

	for _, e := range r.records {
		if !e.IsActive {
			continue
		}
		stats.TotalActive++
		stats.TotalSalary += e.Salary
		if e.Department != "" {
			stats.ByDepartment[e.Department]++
		}
	}

	if stats.TotalActive > 0 {
		stats.AverageSalary = stats.TotalSalary / float64(stats.TotalActive)
	}

	return stats
}

func (r *employeeRepository) Query() repositories.QueryState {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.state
	state.DepartmentFilters = make(map[string]struct{}, len(r.state.DepartmentFilters))
	for d := range r.state.DepartmentFilters {
		state.DepartmentFilters[d] = struct{}{}
	}
	return state
}

func (r *employeeRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.records)
}

// ===== OBSERVATION =====

func (r *employeeRepository) Subscribe(obs repositories.Observer) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextObsID
	r.nextObsID++
	r.observers[id] = obs

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.observers, id)
	}
}

// observerSnapshotLocked copies the current subscriber set so callbacks can
// subscribe or unsubscribe without corrupting the iteration.
func (r *employeeRepository) observerSnapshotLocked() []repositories.Observer {
	out := make([]repositories.Observer, 0, len(r.observers))
	for _, obs := range r.observers {
		out = append(out, obs)
	}
	return out
}

func notify(observers []repositories.Observer) {
	for _, obs := range observers {
		obs()
	}
}

// ===== INTERNAL =====

func (r *employeeRepository) findLocked(id string) *models.Employee {
	for _, e := range r.records {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// activeEmailTakenLocked reports whether an active record other than
// excludeID already uses the email, case-insensitively.
func (r *employeeRepository) activeEmailTakenLocked(email, excludeID string) bool {
	for _, e := range r.records {
		if e.IsActive && e.ID != excludeID && strings.EqualFold(e.Email, email) {
			return true
		}
	}
	return false
}

// emailTakenLocked checks all records regardless of the active flag: an
// update may not steal the email of a deactivated record either.
func (r *employeeRepository) emailTakenLocked(email, excludeID string) bool {
	for _, e := range r.records {
		if e.ID != excludeID && strings.EqualFold(e.Email, email) {
			return true
		}
	}
	return false
}

// refreshLocked recomputes the derived view and keeps the page in range.
func (r *employeeRepository) refreshLocked() {
	r.filtered = recomputeView(r.state, r.records)
	r.clampPageLocked()
}

func (r *employeeRepository) clampPageLocked() {
	totalPages := (len(r.filtered) + r.state.PageSize - 1) / r.state.PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if r.state.CurrentPage < 1 {
		r.state.CurrentPage = 1
	}
	if r.state.CurrentPage > totalPages {
		r.state.CurrentPage = totalPages
	}
}
