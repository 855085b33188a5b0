package memory

import (
	"sort"
	"strings"

	"github.com/HRP-2025/directory-service/internal/models"
	"github.com/HRP-2025/directory-service/internal/repositories"
)

// recomputeView derives the filtered/sorted subsequence of active records
// for the given query state. Pure: neither input is mutated.
func recomputeView(state repositories.QueryState, records []*models.Employee) []*models.Employee {
	filtered := make([]*models.Employee, 0, len(records))
	term := strings.ToLower(strings.TrimSpace(state.SearchTerm))

	for _, e := range records {
		if !e.IsActive {
			continue
		}
		if term != "" && !matchesSearch(e, term) {
			continue
		}
		if len(state.DepartmentFilters) > 0 {
			if _, ok := state.DepartmentFilters[e.Department]; !ok {
				continue
			}
		}
		filtered = append(filtered, e)
	}

	sortEmployees(filtered, state.SortField, state.SortDirection)

	return filtered
}

// matchesSearch reports whether any searchable field contains the term.
func matchesSearch(e *models.Employee, term string) bool {
	for _, field := range []string{e.Name, e.Email, e.Department, e.Position, e.Phone} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// sortEmployees orders the slice in place. String fields compare
// case-insensitively; blank values sort last ascending and first
// descending; ties keep their prior relative order.
func sortEmployees(employees []*models.Employee, field models.SortField, direction models.SortDirection) {
	if field == "" {
		return
	}

	sort.SliceStable(employees, func(i, j int) bool {
		cmp := compareByField(employees[i], employees[j], field)
		if direction == models.SortDescending {
			return cmp > 0
		}
		return cmp < 0
	})
}

func compareByField(a, b *models.Employee, field models.SortField) int {
	switch field {
	case models.SortBySalary:
		switch {
		case a.Salary < b.Salary:
			return -1
		case a.Salary > b.Salary:
			return 1
		default:
			return 0
		}
	case models.SortByHireDate:
		av, bv := a.HireDate, b.HireDate
		switch {
		case av.IsZero() && bv.IsZero():
			return 0
		case av.IsZero():
			return 1 // blanks last ascending
		case bv.IsZero():
			return -1
		case av.Before(bv):
			return -1
		case av.After(bv):
			return 1
		default:
			return 0
		}
	default:
		av := strings.ToLower(stringField(a, field))
		bv := strings.ToLower(stringField(b, field))
		switch {
		case av == "" && bv == "":
			return 0
		case av == "":
			return 1 // blanks last ascending
		case bv == "":
			return -1
		}
		return strings.Compare(av, bv)
	}
}

func stringField(e *models.Employee, field models.SortField) string {
	switch field {
	case models.SortByName:
		return e.Name
	case models.SortByEmail:
		return e.Email
	case models.SortByDepartment:
		return e.Department
	case models.SortByPosition:
		return e.Position
	default:
		return ""
	}
}
