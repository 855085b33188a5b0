package memory

import (
	"fmt"
	"testing"
	"time"

	"github.com/HRP-2025/directory-service/internal/models"
	"github.com/HRP-2025/directory-service/internal/repositories"
)

func testEmployee(id, name, email, department string, salary float64) *models.Employee {
	return models.NewEmployee(id, name, email, "5550001234", department, "Specialist", salary,
		time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), true)
}

func seedRepository(t *testing.T, n int) repositories.EmployeeRepository {
	t.Helper()

	repo := NewEmployeeRepository()
	for i := 1; i <= n; i++ {
		e := testEmployee(
			fmt.Sprintf("emp-%03d", i),
			fmt.Sprintf("Employee %03d", i),
			fmt.Sprintf("employee%03d@example.com", i),
			"Engineering",
			50_000+float64(i)*100,
		)
		if err := repo.Add(e); err != nil {
			t.Fatalf("Failed to seed employee %d: %v", i, err)
		}
	}
	return repo
}

func TestEmployeeRepository_Add(t *testing.T) {
	repo := NewEmployeeRepository()

	t.Run("adds valid employee", func(t *testing.T) {
		if err := repo.Add(testEmployee("e1", "Ann", "ann@example.com", "Engineering", 90_000)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if repo.Count() != 1 {
			t.Errorf("Expected count 1, got %d", repo.Count())
		}
	})

	t.Run("rejects case-insensitive duplicate email", func(t *testing.T) {
		err := repo.Add(testEmployee("e2", "Ann Clone", "ANN@Example.COM", "Sales", 70_000))
		if err != repositories.ErrDuplicateEmail {
			t.Fatalf("Expected ErrDuplicateEmail, got %v", err)
		}
	})

	t.Run("duplicate attempt leaves repository unchanged", func(t *testing.T) {
		before := repo.FilteredEmployees()
		beforeCount := repo.Count()

		_ = repo.Add(testEmployee("e3", "Another", "ann@example.com", "HR", 60_000))

		if repo.Count() != beforeCount {
			t.Errorf("Count changed: %d -> %d", beforeCount, repo.Count())
		}
		after := repo.FilteredEmployees()
		if len(after) != len(before) {
			t.Fatalf("Filtered view changed: %d -> %d", len(before), len(after))
		}
		for i := range before {
			if before[i].ID != after[i].ID {
				t.Errorf("Order changed at %d: %s -> %s", i, before[i].ID, after[i].ID)
			}
		}
	})

	t.Run("allows email of inactive record", func(t *testing.T) {
		inactive := testEmployee("e4", "Gone", "gone@example.com", "Sales", 50_000)
		inactive.IsActive = false
		if err := repo.Add(inactive); err != nil {
			t.Fatalf("Add inactive failed: %v", err)
		}

		if err := repo.Add(testEmployee("e5", "New Hire", "gone@example.com", "Sales", 55_000)); err != nil {
			t.Fatalf("Expected inactive email to be reusable on add, got %v", err)
		}
	})
}

func TestEmployeeRepository_Update(t *testing.T) {
	repo := NewEmployeeRepository()
	if err := repo.Add(testEmployee("e1", "Ann", "ann@example.com", "Engineering", 90_000)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := repo.Add(testEmployee("e2", "Ben", "ben@example.com", "Sales", 70_000)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	t.Run("applies partial update", func(t *testing.T) {
		salary := 95_000.0
		updated, err := repo.Update("e1", models.EmployeeUpdate{Salary: &salary})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.Salary != 95_000 {
			t.Errorf("Expected salary 95000, got %v", updated.Salary)
		}
		if updated.Name != "Ann" {
			t.Errorf("Unrelated field changed: %s", updated.Name)
		}
		if updated.FormattedSalary != "$95,000" {
			t.Errorf("Derived field not recomputed: %s", updated.FormattedSalary)
		}
	})

	t.Run("returns ErrNotFound for missing id", func(t *testing.T) {
		name := "Nobody"
		if _, err := repo.Update("missing", models.EmployeeUpdate{Name: &name}); err != repositories.ErrNotFound {
			t.Fatalf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("rejects email collision against any record", func(t *testing.T) {
		email := "BEN@example.com"
		if _, err := repo.Update("e1", models.EmployeeUpdate{Email: &email}); err != repositories.ErrDuplicateEmail {
			t.Fatalf("Expected ErrDuplicateEmail, got %v", err)
		}
	})

	t.Run("unrelated field update keeps filtered count", func(t *testing.T) {
		repo.SetSearchTerm("ann")
		before := len(repo.FilteredEmployees())

		phone := "5559998888"
		if _, err := repo.Update("e1", models.EmployeeUpdate{Phone: &phone}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		if got := len(repo.FilteredEmployees()); got != before {
			t.Errorf("Filtered count changed: %d -> %d", before, got)
		}
		repo.SetSearchTerm("")
	})
}

func TestEmployeeRepository_Search(t *testing.T) {
	repo := NewEmployeeRepository()
	ann := testEmployee("e1", "Ann", "ann@example.com", "Eng", 90_000)
	ben := testEmployee("e2", "Ben", "ben@example.com", "Sales", 70_000)
	if err := repo.Add(ann); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := repo.Add(ben); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	t.Run("matches department substring case-insensitively", func(t *testing.T) {
		repo.SetSearchTerm("eng")

		filtered := repo.FilteredEmployees()
		if len(filtered) != 1 || filtered[0].Name != "Ann" {
			t.Fatalf("Expected exactly [Ann], got %d records", len(filtered))
		}
	})

	t.Run("empty term restores full view", func(t *testing.T) {
		repo.SetSearchTerm("")

		if got := len(repo.FilteredEmployees()); got != 2 {
			t.Fatalf("Expected 2 records, got %d", got)
		}
	})

	t.Run("search resets current page", func(t *testing.T) {
		repo.SetCurrentPage(1)
		repo.SetSearchTerm("ben")
		if page := repo.Query().CurrentPage; page != 1 {
			t.Errorf("Expected page 1 after search, got %d", page)
		}
		repo.SetSearchTerm("")
	})
}

func TestEmployeeRepository_DepartmentFilters(t *testing.T) {
	repo := NewEmployeeRepository()
	for i, dept := range []string{"Engineering", "Sales", "Engineering", "HR"} {
		e := testEmployee(fmt.Sprintf("e%d", i), fmt.Sprintf("Person %d", i),
			fmt.Sprintf("p%d@example.com", i), dept, 60_000)
		if err := repo.Add(e); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	repo.SetDepartmentFilters([]string{"Engineering"})
	if got := len(repo.FilteredEmployees()); got != 2 {
		t.Errorf("Expected 2 engineering records, got %d", got)
	}

	repo.SetDepartmentFilters([]string{"Engineering", "HR"})
	if got := len(repo.FilteredEmployees()); got != 3 {
		t.Errorf("Expected 3 records, got %d", got)
	}

	repo.SetDepartmentFilters(nil)
	if got := len(repo.FilteredEmployees()); got != 4 {
		t.Errorf("Expected full view, got %d", got)
	}
}

func TestEmployeeRepository_Sorting(t *testing.T) {
	repo := NewEmployeeRepository()
	salaries := []float64{70_000, 110_000, 90_000, 90_000, 52_000}
	for i, s := range salaries {
		e := testEmployee(fmt.Sprintf("e%d", i), fmt.Sprintf("Person %c", 'E'-i),
			fmt.Sprintf("p%d@example.com", i), "Engineering", s)
		if err := repo.Add(e); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	t.Run("salary descending is non-increasing", func(t *testing.T) {
		repo.SetSorting(models.SortBySalary, models.SortDescending)

		filtered := repo.FilteredEmployees()
		for i := 1; i < len(filtered); i++ {
			if filtered[i].Salary > filtered[i-1].Salary {
				t.Fatalf("Salary order violated at %d: %v > %v", i, filtered[i].Salary, filtered[i-1].Salary)
			}
		}
	})

	t.Run("name ascending is case-insensitive", func(t *testing.T) {
		repo.SetSorting(models.SortByName, models.SortAscending)

		filtered := repo.FilteredEmployees()
		if filtered[0].Name != "Person A" {
			t.Errorf("Expected Person A first, got %s", filtered[0].Name)
		}
	})
}

func TestEmployeeRepository_Pagination(t *testing.T) {
	repo := seedRepository(t, 47)
	repo.SetPageSize(25)

	t.Run("page one", func(t *testing.T) {
		info := repo.PaginationInfo()
		if info.TotalItems != 47 || info.TotalPages != 2 {
			t.Fatalf("Expected 47 items over 2 pages, got %d/%d", info.TotalItems, info.TotalPages)
		}
		if info.StartIndex != 1 || info.EndIndex != 25 {
			t.Errorf("Expected indices 1-25, got %d-%d", info.StartIndex, info.EndIndex)
		}
		if !info.HasNext || info.HasPrevious {
			t.Errorf("Expected hasNext && !hasPrevious, got %v/%v", info.HasNext, info.HasPrevious)
		}
		if got := len(repo.CurrentPageRecords()); got != 25 {
			t.Errorf("Expected 25 records on page 1, got %d", got)
		}
	})

	t.Run("page two", func(t *testing.T) {
		repo.SetCurrentPage(2)

		info := repo.PaginationInfo()
		if info.StartIndex != 26 || info.EndIndex != 47 {
			t.Errorf("Expected indices 26-47, got %d-%d", info.StartIndex, info.EndIndex)
		}
		if info.HasNext || !info.HasPrevious {
			t.Errorf("Expected !hasNext && hasPrevious, got %v/%v", info.HasNext, info.HasPrevious)
		}
		if got := len(repo.CurrentPageRecords()); got != 22 {
			t.Errorf("Expected 22 records on page 2, got %d", got)
		}
	})

	t.Run("page clamps to valid range", func(t *testing.T) {
		repo.SetCurrentPage(99)
		if page := repo.Query().CurrentPage; page != 2 {
			t.Errorf("Expected clamp to 2, got %d", page)
		}
		repo.SetCurrentPage(-5)
		if page := repo.Query().CurrentPage; page != 1 {
			t.Errorf("Expected clamp to 1, got %d", page)
		}
	})

	t.Run("empty view yields zero pagination", func(t *testing.T) {
		empty := NewEmployeeRepository()
		info := empty.PaginationInfo()
		if info.TotalItems != 0 || info.TotalPages != 0 || info.StartIndex != 0 || info.EndIndex != 0 {
			t.Errorf("Expected zero pagination, got %+v", info)
		}
	})
}

func TestEmployeeRepository_RemoveAndDeactivate(t *testing.T) {
	repo := NewEmployeeRepository()
	if err := repo.Add(testEmployee("e1", "Ann", "ann@example.com", "Engineering", 90_000)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	t.Run("deactivate hides record from view but keeps it", func(t *testing.T) {
		if err := repo.Deactivate("e1"); err != nil {
			t.Fatalf("Deactivate failed: %v", err)
		}
		if got := len(repo.FilteredEmployees()); got != 0 {
			t.Errorf("Expected empty view, got %d", got)
		}
		if _, ok := repo.Get("e1"); !ok {
			t.Error("Record should still be retrievable after deactivation")
		}
	})

	t.Run("deactivate missing id returns ErrNotFound", func(t *testing.T) {
		if err := repo.Deactivate("missing"); err != repositories.ErrNotFound {
			t.Fatalf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("remove deletes record", func(t *testing.T) {
		if !repo.Remove("e1") {
			t.Fatal("Expected remove to succeed")
		}
		if repo.Remove("e1") {
			t.Error("Second remove should report false")
		}
		if repo.Count() != 0 {
			t.Errorf("Expected count 0, got %d", repo.Count())
		}
	})
}

func TestEmployeeRepository_LoadAndClear(t *testing.T) {
	repo := seedRepository(t, 30)
	repo.SetPageSize(10)
	repo.SetCurrentPage(3)
	repo.SetSearchTerm("")

	t.Run("load keeps query state and clamps page", func(t *testing.T) {
		repo.Load([]*models.Employee{
			testEmployee("n1", "New One", "n1@example.com", "Design", 80_000),
			testEmployee("n2", "New Two", "n2@example.com", "Design", 85_000),
		})

		state := repo.Query()
		if state.PageSize != 10 {
			t.Errorf("Page size reset: %d", state.PageSize)
		}
		if state.CurrentPage != 1 {
			t.Errorf("Expected page clamped to 1, got %d", state.CurrentPage)
		}
		if repo.Count() != 2 {
			t.Errorf("Expected 2 records after load, got %d", repo.Count())
		}
	})

	t.Run("clear resets records and state", func(t *testing.T) {
		repo.Clear()
		if repo.Count() != 0 {
			t.Errorf("Expected empty repository, got %d", repo.Count())
		}
		state := repo.Query()
		if state.PageSize != defaultPageSize || state.CurrentPage != 1 {
			t.Errorf("Expected default state, got %+v", state)
		}
	})
}

func TestEmployeeRepository_Statistics(t *testing.T) {
	repo := NewEmployeeRepository()
	if err := repo.Add(testEmployee("e1", "Ann", "ann@example.com", "Engineering", 100_000)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := repo.Add(testEmployee("e2", "Ben", "ben@example.com", "Sales", 60_000)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	inactive := testEmployee("e3", "Gone", "gone@example.com", "Sales", 1_000_000)
	inactive.IsActive = false
	if err := repo.Add(inactive); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	stats := repo.Statistics()
	if stats.TotalActive != 2 {
		t.Errorf("Expected 2 active, got %d", stats.TotalActive)
	}
	if stats.TotalSalary != 160_000 {
		t.Errorf("Expected total salary 160000, got %v", stats.TotalSalary)
	}
	if stats.AverageSalary != 80_000 {
		t.Errorf("Expected average salary 80000, got %v", stats.AverageSalary)
	}
	if stats.ByDepartment["Engineering"] != 1 || stats.ByDepartment["Sales"] != 1 {
		t.Errorf("Unexpected department breakdown: %+v", stats.ByDepartment)
	}

	departments := repo.UniqueDepartments()
	if len(departments) != 2 || departments[0] != "Engineering" || departments[1] != "Sales" {
		t.Errorf("Expected sorted active departments, got %v", departments)
	}
}

func TestEmployeeRepository_Observers(t *testing.T) {
	repo := NewEmployeeRepository()

	t.Run("observer fires on every mutation", func(t *testing.T) {
		calls := 0
		cancel := repo.Subscribe(func() { calls++ })
		defer cancel()

		if err := repo.Add(testEmployee("e1", "Ann", "ann@example.com", "Engineering", 90_000)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		repo.SetSearchTerm("ann")
		repo.SetSearchTerm("")

		if calls != 3 {
			t.Errorf("Expected 3 notifications, got %d", calls)
		}
	})

	t.Run("failed mutation does not notify", func(t *testing.T) {
		calls := 0
		cancel := repo.Subscribe(func() { calls++ })
		defer cancel()

		_ = repo.Add(testEmployee("e2", "Dup", "ann@example.com", "Sales", 50_000))
		if repo.Remove("missing") {
			t.Fatal("Remove of missing id should fail")
		}

		if calls != 0 {
			t.Errorf("Expected no notifications, got %d", calls)
		}
	})

	t.Run("cancelled observer stops firing", func(t *testing.T) {
		calls := 0
		cancel := repo.Subscribe(func() { calls++ })
		cancel()

		repo.SetSearchTerm("x")
		repo.SetSearchTerm("")

		if calls != 0 {
			t.Errorf("Expected no notifications after cancel, got %d", calls)
		}
	})

	t.Run("observer can re-enter accessors", func(t *testing.T) {
		var seen int
		cancel := repo.Subscribe(func() { seen = len(repo.FilteredEmployees()) })
		defer cancel()

		repo.SetSearchTerm("ann")
		if seen != 1 {
			t.Errorf("Observer read %d records, expected 1", seen)
		}
		repo.SetSearchTerm("")
	})
}
