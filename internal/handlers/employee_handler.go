package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/HRP-2025/directory-service/internal/models"
	"github.com/HRP-2025/directory-service/internal/repositories"
	"github.com/HRP-2025/directory-service/internal/services"
	"github.com/HRP-2025/directory-service/internal/utils"
)

type EmployeeHandler struct {
	BaseHandler
	directoryService services.DirectoryService
	exportService    services.ExportService
	repo             repositories.EmployeeRepository
}

func NewEmployeeHandler(
	directoryService services.DirectoryService,
	exportService services.ExportService,
	repo repositories.EmployeeRepository,
	logger utils.Logger,
) *EmployeeHandler {
	return &EmployeeHandler{
		BaseHandler:      NewBaseHandler(logger),
		directoryService: directoryService,
		exportService:    exportService,
		repo:             repo,
	}
}

// ListEmployees returns the current page of the filtered directory view.
// Query params (search, departments, sort_by, sort_dir, page, page_size)
// are applied to the shared view state before reading it back.
// @Summary List employees
// @Tags employees
// @Produce json
// @Param search query string false "Case-insensitive substring over name, email, department, position, phone"
// @Param departments query string false "Comma-separated department filter"
// @Param sort_by query string false "name|email|department|position|salary|hireDate"
// @Param sort_dir query string false "asc|desc"
// @Param page query int false "1-based page"
// @Param page_size query int false "Records per page"
// @Success 200 {object} SuccessResponse
// @Router /employees [get]
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	ctx := c.Request.Context()

	if search, ok := c.GetQuery("search"); ok {
		h.directoryService.SetSearchTerm(ctx, search)
	}

	if departments, ok := c.GetQuery("departments"); ok {
		var filters []string
		for _, d := range strings.Split(departments, ",") {
			if d = strings.TrimSpace(d); d != "" {
				filters = append(filters, d)
			}
		}
		h.directoryService.SetDepartmentFilters(ctx, filters)
	}

	if sortBy, ok := c.GetQuery("sort_by"); ok {
		direction := models.SortAscending
		if c.Query("sort_dir") == string(models.SortDescending) {
			direction = models.SortDescending
		}
		h.directoryService.SetSorting(ctx, models.SortField(sortBy), direction)
	}

	if pageSize, ok := c.GetQuery("page_size"); ok {
		if n, err := strconv.Atoi(pageSize); err == nil {
			h.directoryService.SetPageSize(ctx, n)
		}
	}

	if page, ok := c.GetQuery("page"); ok {
		if n, err := strconv.Atoi(page); err == nil {
			h.directoryService.SetCurrentPage(ctx, n)
		}
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Data: h.repo.CurrentPageRecords(),
		Meta: gin.H{
			"pagination": h.repo.PaginationInfo(),
			"loading":    h.directoryService.IsLoading(),
		},
	})
}

// GetEmployee retrieves a single employee by ID
// @Summary Get employee
// @Tags employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} models.Employee
// @Failure 404 {object} ErrorResponse
// @Router /employees/{id} [get]
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	id := c.Param("id")

	employee, ok := h.repo.Get(id)
	if !ok {
		h.handleServiceError(c, repositories.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, employee)
}

// CreateEmployee adds a new employee
// @Summary Create employee
// @Tags employees
// @Accept json
// @Produce json
// @Param employee body services.EmployeeCreateRequest true "Employee data"
// @Success 201 {object} models.Employee
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /employees [post]
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req services.EmployeeCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating employee", "name", req.Name)

	employee, err := h.directoryService.AddEmployee(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, employee)
}

// UpdateEmployee applies a partial update
// @Summary Update employee
// @Tags employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param employee body services.EmployeeUpdateRequest true "Fields to update"
// @Success 200 {object} models.Employee
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	id := c.Param("id")

	var req services.EmployeeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating employee", "employee_id", id)

	employee, err := h.directoryService.UpdateEmployee(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, employee)
}

// DeleteEmployee removes an employee
// @Summary Delete employee
// @Tags employees
// @Param id path string true "Employee ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /employees/{id} [delete]
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	id := c.Param("id")

	h.LogRequest(c, "Deleting employee", "employee_id", id)

	if err := h.directoryService.DeleteEmployee(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeactivateEmployee marks an employee inactive without removing the record
// @Summary Deactivate employee
// @Tags employees
// @Param id path string true "Employee ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /employees/{id}/deactivate [post]
func (h *EmployeeHandler) DeactivateEmployee(c *gin.Context) {
	id := c.Param("id")

	h.LogRequest(c, "Deactivating employee", "employee_id", id)

	if err := h.directoryService.DeactivateEmployee(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListDepartments returns the sorted distinct departments of active records
// @Summary List departments
// @Tags employees
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /departments [get]
func (h *EmployeeHandler) ListDepartments(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: h.repo.UniqueDepartments(),
	})
}

// GetStats returns directory aggregates over active records
// @Summary Directory statistics
// @Tags employees
// @Produce json
// @Success 200 {object} repositories.DirectoryStats
// @Router /stats [get]
func (h *EmployeeHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.repo.Statistics())
}

// ExportEmployees streams the filtered view in the requested format
// @Summary Export employees
// @Tags employees
// @Param format path string true "csv|json|xlsx"
// @Failure 400 {object} ErrorResponse
// @Router /export/{format} [get]
func (h *EmployeeHandler) ExportEmployees(c *gin.Context) {
	format := services.ExportFormat(c.Param("format"))

	result, err := h.exportService.Export(c.Request.Context(), format)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Export failed",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Export completed", "format", result.Format, "count", result.Count)

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// RefreshEmployees forces a cache-bypassing reload from the remote source
// @Summary Refresh directory
// @Tags employees
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /refresh [post]
func (h *EmployeeHandler) RefreshEmployees(c *gin.Context) {
	h.LogRequest(c, "Refreshing directory")

	if err := h.directoryService.Refresh(c.Request.Context()); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Data: gin.H{"count": h.repo.Count()},
	})
}
