package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/response"
	"clinic-booking/pkg/validator"
)

type DepartmentHandler struct {
	departmentUsecase usecase.DepartmentUsecase
	validator         *validator.CustomValidator
}

func NewDepartmentHandler(departmentUsecase usecase.DepartmentUsecase, validator *validator.CustomValidator) *DepartmentHandler {
	return &DepartmentHandler{
		departmentUsecase: departmentUsecase,
		validator:         validator,
	}
}

// ListDepartments godoc
// @Summary List departments
// @Tags Admin
// @Produce json
// @Param search query string false "Name contains"
// @Success 200 {object} response.Response
// @Router /admin/departments [get]
func (h *DepartmentHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.departmentUsecase.ListDepartments(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		response.InternalServerError(w, "Failed to get departments")
		return
	}

	response.Success(w, http.StatusOK, "Departments retrieved successfully", departments)
}

func (h *DepartmentHandler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "Invalid department ID")
		return
	}

	department, err := h.departmentUsecase.GetDepartment(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrDepartmentNotFound) {
			response.NotFound(w, "Department not found")
			return
		}
		response.InternalServerError(w, "Failed to get department")
		return
	}

	response.Success(w, http.StatusOK, "Department retrieved successfully", department)
}

func (h *DepartmentHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req dto.DepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	department, err := h.departmentUsecase.CreateDepartment(r.Context(), &req)
	if err != nil {
		if respondValidation(w, err) {
			return
		}
		response.InternalServerError(w, "Failed to create department")
		return
	}

	response.Success(w, http.StatusCreated, "Department created successfully", department)
}

func (h *DepartmentHandler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "Invalid department ID")
		return
	}

	var req dto.DepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	department, err := h.departmentUsecase.UpdateDepartment(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDepartmentNotFound):
			response.NotFound(w, "Department not found")
		case respondValidation(w, err):
		default:
			response.InternalServerError(w, "Failed to update department")
		}
		return
	}

	response.Success(w, http.StatusOK, "Department updated successfully", department)
}

// DeleteDepartment also deletes the department's doctors and treatments
func (h *DepartmentHandler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "Invalid department ID")
		return
	}

	if err := h.departmentUsecase.DeleteDepartment(r.Context(), id); err != nil {
		if errors.Is(err, usecase.ErrDepartmentNotFound) {
			response.NotFound(w, "Department not found")
			return
		}
		response.InternalServerError(w, "Failed to delete department")
		return
	}

	response.Success(w, http.StatusOK, "Department deleted successfully", nil)
}
